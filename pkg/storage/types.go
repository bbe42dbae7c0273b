package storage

import "time"

// Record is one scanned QR payload.
type Record struct {
	ID        string    `json:"id"`
	Raw       string    `json:"raw"`
	Event     string    `json:"event"`
	MatchKey  string    `json:"match_key"`
	Team      string    `json:"team"`
	Scouter   string    `json:"scouter"`
	ScannedAt time.Time `json:"scanned_at"`
}

// ListOptions controls selection when listing records.
type ListOptions struct {
	Event string
	Team  string
	Since time.Time
	Limit int
}

type EventStats struct {
	Event       string `json:"event"`
	RecordCount int    `json:"record_count"`
	MatchCount  int    `json:"match_count"`
	TeamCount   int    `json:"team_count"`
}
