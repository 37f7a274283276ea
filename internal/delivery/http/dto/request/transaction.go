package request

type DisputeRequest struct {
	Reason string `json:"reason"`
}

type ResolutionRequest struct {
	Note string `json:"note"`
}
