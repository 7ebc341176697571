package response

import (
	"time"

	"github.com/ChampneyBull/dubai-app/internal/model"
	"github.com/ChampneyBull/dubai-app/internal/services/session"
)

// Player represents a player in API responses. PIN material never leaves
// the server.
type Player struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Earnings string `json:"earnings"`
	Claimed  bool   `json:"claimed"`
	Linked   bool   `json:"linked"`
	IsAdmin  bool   `json:"is_admin"`
	ImageURL string `json:"image_url,omitempty"`
	PhotoURL string `json:"photo_url,omitempty"`
}

// PlayerFromModel converts a model.Player to a response Player
func PlayerFromModel(p *model.Player) Player {
	return Player{
		ID:       int64(p.ID),
		Name:     p.Name,
		Earnings: p.Earnings.String(),
		Claimed:  p.Claimed(),
		Linked:   p.Linked(),
		IsAdmin:  p.IsAdmin,
		ImageURL: p.ImageURL,
		PhotoURL: p.PhotoURL,
	}
}

// PlayersFromModels converts a directory slice, preserving order
func PlayersFromModels(players []*model.Player) []Player {
	out := make([]Player, 0, len(players))
	for _, p := range players {
		out = append(out, PlayerFromModel(p))
	}
	return out
}

// WinningsRequest represents a winnings request in API responses
type WinningsRequest struct {
	ID         string    `json:"id"`
	PlayerID   int64     `json:"player_id"`
	PlayerName string    `json:"player_name"`
	Amount     string    `json:"amount"`
	Tournament string    `json:"tournament,omitempty"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

// RequestFromModel converts a model.WinningsRequest
func RequestFromModel(r *model.WinningsRequest) WinningsRequest {
	return WinningsRequest{
		ID:         string(r.ID),
		PlayerID:   int64(r.PlayerID),
		PlayerName: r.PlayerName,
		Amount:     r.Amount.String(),
		Tournament: r.Tournament,
		Status:     string(r.Status),
		CreatedAt:  r.CreatedAt,
	}
}

// RequestsFromModels converts a ledger slice, preserving order
func RequestsFromModels(requests []*model.WinningsRequest) []WinningsRequest {
	out := make([]WinningsRequest, 0, len(requests))
	for _, r := range requests {
		out = append(out, RequestFromModel(r))
	}
	return out
}

// AuthResponse is the response for authentication endpoints
type AuthResponse struct {
	Player       Player `json:"player"`
	SessionToken string `json:"session_token"`
}

// AuthResponseFromSession creates an AuthResponse from a session
func AuthResponseFromSession(s *session.Session) AuthResponse {
	return AuthResponse{
		Player:       PlayerFromModel(&s.Player),
		SessionToken: s.Token,
	}
}
