package domain

// SyncResult represents the outcome of one sync run for one connection and date.
type SyncResult struct {
	ConnectionID string   `json:"connection_id"`
	Date         string   `json:"date"`
	Success      bool     `json:"success"`
	Synced       int      `json:"synced"`              // number of summary rows written
	Locations    []string `json:"locations,omitempty"` // names of locations written
	Error        string   `json:"error,omitempty"`
	Duration     float64  `json:"duration_seconds"`
}
