package notifications

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// SendWebhook posts the JSON payload to the subscriber's URL. When a
// secret is set the body is HMAC-SHA256 signed so the receiver can
// verify the event really came from us.
func SendWebhook(url string, payload interface{}, secret string) error {
	// 1. Convert Payload to JSON
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	// 2. Prepare Request
	req, err := http.NewRequest("POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "BankLedger-Webhook/1.0")

	if secret != "" {
		mac := hmac.New(sha256.New, []byte(secret))
		mac.Write(jsonData)
		req.Header.Set("X-Signature", hex.EncodeToString(mac.Sum(nil)))
	}

	// 3. Send with Timeout (Don't let slow subscribers block us!)
	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	// 4. Check Response
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	return fmt.Errorf("subscriber returned error: %d", resp.StatusCode)
}
