package model

import "time"

// GuestUser is the username recorded for unauthenticated actions.
const GuestUser = "Guest"

// LogTimeFormat is the layout used when rendering log timestamps.
const LogTimeFormat = "2006-01-02 15:04:05"

// LogEntry is an append-only audit record of a significant user or
// admin action (login, logout, catalog mutations).
type LogEntry struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Action    string    `json:"action"`
	CreatedAt time.Time `json:"created_at"`
}
