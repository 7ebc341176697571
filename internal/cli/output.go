package cli

import (
	"encoding/json"
	"fmt"
	"os"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Player:
		o.printPlayer(v)
	case []Player:
		o.printLeaderboard(v)
	case AuthResult:
		o.printAuthResult(v)
	case WinningsRequest:
		o.printRequest(v)
	case []WinningsRequest:
		o.printRequests(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Player response type (matches API)
type Player struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Earnings string `json:"earnings"`
	Claimed  bool   `json:"claimed"`
	Linked   bool   `json:"linked"`
	IsAdmin  bool   `json:"is_admin"`
}

// AuthResult combines player and token
type AuthResult struct {
	Player       Player `json:"player"`
	SessionToken string `json:"session_token"`
}

// WinningsRequest response type
type WinningsRequest struct {
	ID         string `json:"id"`
	PlayerID   int64  `json:"player_id"`
	PlayerName string `json:"player_name"`
	Amount     string `json:"amount"`
	Tournament string `json:"tournament,omitempty"`
	Status     string `json:"status"`
	CreatedAt  string `json:"created_at"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printPlayer(p Player) {
	adminStr := ""
	if p.IsAdmin {
		adminStr = " [admin]"
	}
	fmt.Printf("Player: %s (#%d)%s\n", p.Name, p.ID, adminStr)
	fmt.Printf("Earnings: %s\n", p.Earnings)
}

func (o *Output) printLeaderboard(players []Player) {
	fmt.Printf("%-4s %-20s %12s\n", "#", "Player", "Earnings")
	for i, p := range players {
		marker := ""
		if !p.Claimed {
			marker = " (unclaimed)"
		}
		fmt.Printf("%-4d %-20s %12s%s\n", i+1, p.Name, p.Earnings, marker)
	}
}

func (o *Output) printAuthResult(a AuthResult) {
	o.printPlayer(a.Player)
	fmt.Printf("Token: %s\n", a.SessionToken)
}

func (o *Output) printRequest(r WinningsRequest) {
	fmt.Printf("Request: %s\n", r.ID)
	fmt.Printf("Player: %s (#%d)\n", r.PlayerName, r.PlayerID)
	fmt.Printf("Amount: %s\n", r.Amount)
	if r.Tournament != "" {
		fmt.Printf("Tournament: %s\n", r.Tournament)
	}
	fmt.Printf("Status: %s\n", r.Status)
}

func (o *Output) printRequests(requests []WinningsRequest) {
	if len(requests) == 0 {
		fmt.Println("No requests")
		return
	}
	for _, r := range requests {
		tournament := ""
		if r.Tournament != "" {
			tournament = " - " + r.Tournament
		}
		fmt.Printf("[%s] %s: %s%s (%s)\n", r.Status, r.PlayerName, r.Amount, tournament, r.ID)
	}
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}
