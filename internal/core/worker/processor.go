package worker

import (
	"log/slog"
	"time"

	"github.com/sony/gobreaker"

	"github.com/ibrahimkeyboad/bankledger/internal/core/notifications"
)

const (
	maxAttempts = 5
	queueSize   = 256
)

// Event describes one completed ledger operation.
type Event struct {
	Type         string    `json:"type"` // "withdrawal", "deposit" or "transfer"
	Account      int64     `json:"account"`
	Counterparty int64     `json:"counterparty,omitempty"`
	Amount       string    `json:"amount"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// Notifier delivers events to the configured webhook URL in the
// background. Delivery is best-effort: a full queue drops the event and
// a dead subscriber trips the circuit breaker instead of piling up
// blocked goroutines. Ledger operations never wait on it.
type Notifier struct {
	url     string
	secret  string
	jobs    chan Event
	breaker *gobreaker.CircuitBreaker
}

// NewNotifier returns a notifier for the given URL. An empty URL means
// webhooks are disabled; Enqueue becomes a no-op.
func NewNotifier(url, secret string) *Notifier {
	return &Notifier{
		url:    url,
		secret: secret,
		jobs:   make(chan Event, queueSize),
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name: "webhook",
			OnStateChange: func(name string, from, to gobreaker.State) {
				slog.Warn("webhook circuit state changed", "from", from.String(), "to", to.String())
			},
		}),
	}
}

// Start launches the delivery goroutine.
func (n *Notifier) Start() {
	if n.url == "" {
		slog.Info("Webhook notifications disabled (no WEBHOOK_URL)")
		return
	}
	go func() {
		slog.Info("👷 Webhook worker started", "url", n.url)
		for event := range n.jobs {
			n.deliver(event)
		}
	}()
}

// Enqueue hands an event to the worker without blocking the caller.
func (n *Notifier) Enqueue(event Event) {
	if n == nil || n.url == "" {
		return
	}
	select {
	case n.jobs <- event:
	default:
		slog.Warn("Webhook queue full, dropping event", "type", event.Type, "account", event.Account)
	}
}

func (n *Notifier) deliver(event Event) {
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		_, err := n.breaker.Execute(func() (interface{}, error) {
			return nil, notifications.SendWebhook(n.url, event, n.secret)
		})
		if err == nil {
			slog.Info("✅ Webhook sent", "type", event.Type, "account", event.Account)
			return
		}
		slog.Error("Webhook delivery failed", "error", err, "attempt", attempt)
		if attempt < maxAttempts {
			time.Sleep(time.Duration(attempt) * time.Second)
		}
	}
	slog.Error("Webhook dropped (max attempts reached)", "type", event.Type, "account", event.Account)
}
