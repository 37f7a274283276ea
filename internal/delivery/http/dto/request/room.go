package request

type CreateRoomRequest struct {
	Role        string  `json:"role"`
	Category    string  `json:"category"`
	ProductName string  `json:"product_name"`
	Amount      float64 `json:"amount"`
	FeeBearer   string  `json:"fee_bearer"`
}

type JoinRoomRequest struct {
	Password string             `json:"password"`
	Role     string             `json:"role,omitempty"`
	Details  *SellerDetailsBody `json:"details,omitempty"`
}

type SellerDetailsBody struct {
	Category    string  `json:"category"`
	ProductName string  `json:"product_name"`
	Amount      float64 `json:"amount"`
	FeeBearer   string  `json:"fee_bearer"`
}
