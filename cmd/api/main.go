package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ibrahimkeyboad/bankledger/internal/adapter/handler"
	"github.com/ibrahimkeyboad/bankledger/internal/adapter/middleware"
	"github.com/ibrahimkeyboad/bankledger/internal/adapter/storage"
	"github.com/ibrahimkeyboad/bankledger/internal/core/config"
	"github.com/ibrahimkeyboad/bankledger/internal/core/ledger"
	"github.com/ibrahimkeyboad/bankledger/internal/core/worker"
)

func main() {
	ctx := context.Background()

	// 1. Load Config
	cfg := config.LoadConfig()

	// 2. Setup Logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// 3. Pick the Persistence Adapter: Postgres when DATABASE_URL is
	// set, the CSV file otherwise.
	var backend ledger.Backend
	var dbPool *pgxpool.Pool
	if cfg.DatabaseURL != "" {
		pool, err := storage.ConnectDB(cfg.DatabaseURL)
		if err != nil {
			slog.Error("❌ Database connection failed", "error", err)
			os.Exit(1)
		}
		dbPool = pool
		pg := storage.NewPostgresStore(pool)
		if err := pg.EnsureSchema(ctx); err != nil {
			slog.Error("❌ Schema setup failed", "error", err)
			os.Exit(1)
		}
		backend = pg
		slog.Info("✅ Using Postgres backing store")
	} else {
		backend = storage.NewCSVStore(cfg.LedgerFile)
		slog.Info("✅ Using CSV backing store", "file", cfg.LedgerFile)
	}

	// 4. Open the Ledger Store. API mode persists inside every
	// mutating operation. A missing store is fine here: accounts can
	// be created over the API.
	store, err := ledger.Open(ctx, backend, ledger.Options{SaveEachOp: true, AllowMissing: true})
	if err != nil {
		slog.Error("❌ Failed to load ledger", "error", err)
		os.Exit(1)
	}

	// 5. Webhook worker
	notifier := worker.NewNotifier(cfg.WebhookURL, cfg.WebhookSecret)
	notifier.Start()

	// 6. Handlers
	accountHandler := &handler.AccountHandler{Store: store}
	transactionHandler := &handler.TransactionHandler{Store: store, Notifier: notifier}

	// 7. Setup Fiber
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})
	app.Use(cors.New())

	// 8. Routes
	api := app.Group("/v1")

	api.Post("/accounts", accountHandler.CreateAccount)
	api.Post("/login", accountHandler.Login)
	api.Post("/balance", accountHandler.Balance)
	api.Post("/transactions", accountHandler.GetHistory)

	idempotent := middleware.Idempotency()
	api.Post("/withdraw", idempotent, transactionHandler.Withdraw)
	api.Post("/deposit", idempotent, transactionHandler.Deposit)
	api.Post("/transfer", idempotent, transactionHandler.Transfer)

	// Graceful shutdown: finish in-flight requests, flush the ledger,
	// close the pool.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		slog.Info("🚀 Server starting", "env", cfg.Env, "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("Server forced to shutdown", "error", err)
		}
	}()

	<-stop
	slog.Info("🛑 Shutting down server...")

	if err := app.Shutdown(); err != nil {
		slog.Error("Server shutdown failed", "error", err)
	}

	if err := store.Close(ctx); err != nil {
		slog.Error("Final ledger save failed", "error", err)
	}

	if dbPool != nil {
		dbPool.Close()
		slog.Info("✅ Database connection closed")
	}

	slog.Info("👋 Server exited successfully")
}
