package model

import "time"

// Table identifies a logical table in the shared store
type Table string

const (
	TablePlayers  Table = "players"
	TableRequests Table = "requests"
)

// ChangeEvent is an advisory cue that a table changed. It carries no delta;
// consumers refetch the affected collection. Delivery is at-least-once and
// unordered.
type ChangeEvent struct {
	Table Table     `json:"table"`
	At    time.Time `json:"at"`
}
