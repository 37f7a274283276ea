package notifier

import "time"

type StatusChangePayload struct {
	TransactionID string    `json:"transaction_id"`
	RoomID        string    `json:"room_id"`
	Code          string    `json:"code"`
	OldStatus     string    `json:"old_status"`
	NewStatus     string    `json:"new_status"`
	Amount        float64   `json:"amount"`
	OccurredAt    time.Time `json:"occurred_at"`
}
