package notifier

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"time"
)

// SendStatusChange posts the payload to the configured webhook. Delivery is
// best-effort: failures are logged and never reach the caller.
func SendStatusChange(webhookURL string, payload StatusChangePayload) {
	if webhookURL == "" {
		return
	}
	go func() {
		body, err := json.Marshal(payload)
		if err != nil {
			log.Printf("Failed to marshal status callback: %v\n", err)
			return
		}

		req, err := http.NewRequest("POST", webhookURL, bytes.NewBuffer(body))
		if err != nil {
			log.Printf("Failed to create status callback request: %v\n", err)
			return
		}
		req.Header.Set("Content-Type", "application/json")

		client := &http.Client{Timeout: 10 * time.Second}
		resp, err := client.Do(req)
		if err != nil {
			log.Printf("Failed to send status callback: %v\n", err)
			return
		}
		defer resp.Body.Close()
	}()
}
