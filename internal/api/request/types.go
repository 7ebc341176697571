package request

// PINLoginRequest is the request body for a PIN login
type PINLoginRequest struct {
	PlayerID int64  `json:"player_id"`
	PIN      string `json:"pin"`
}

// SubmitWinningsRequest is the request body for logging winnings
type SubmitWinningsRequest struct {
	PlayerID   int64  `json:"player_id"`
	Amount     string `json:"amount"`
	Tournament string `json:"tournament,omitempty"`
}

// ClaimProfileRequest is the request body for linking an external identity
// to a roster profile
type ClaimProfileRequest struct {
	Email      string `json:"email"`
	ExternalID string `json:"external_id"`
	Name       string `json:"name,omitempty"`
}
