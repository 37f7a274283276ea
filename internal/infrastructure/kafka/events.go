package kafka

type DisputeOpenedEvent struct {
	TransactionID string  `json:"transaction_id"`
	RoomID        string  `json:"room_id"`
	RaisedBy      string  `json:"raised_by"`
	Amount        float64 `json:"amount"`
	Reason        string  `json:"reason"`
	Status        string  `json:"status"`
}

type DisputeClosedEvent struct {
	TransactionID string  `json:"transaction_id"`
	RoomID        string  `json:"room_id"`
	Resolution    string  `json:"resolution"`
	PerformedBy   string  `json:"performed_by"`
	Amount        float64 `json:"amount"`
}

type WithdrawalRequestedEvent struct {
	WithdrawalID string  `json:"withdrawal_id"`
	UserID       string  `json:"user_id"`
	Amount       float64 `json:"amount"`
}

type KYCSubmittedEvent struct {
	UserID string `json:"user_id"`
}

type AccountFrozenEvent struct {
	UserID   string `json:"user_id"`
	Reason   string `json:"reason"`
	Severity string `json:"severity"`
}
