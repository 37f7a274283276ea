package request

type KYCReviewRequest struct {
	Approved bool   `json:"approved"`
	Note     string `json:"note"`
}

type AdjustBalanceRequest struct {
	Delta  float64 `json:"delta"`
	Source string  `json:"source"`
	Note   string  `json:"note"`
}

type FreezeRequest struct {
	Reason string `json:"reason"`
}
