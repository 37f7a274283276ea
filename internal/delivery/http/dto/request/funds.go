package request

type CreateFundsRequest struct {
	Amount float64 `json:"amount"`
}

type FundsReviewRequest struct {
	Note string `json:"note"`
}
