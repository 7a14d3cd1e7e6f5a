package domain

import "time"

// Connection represents a registered ERP instance to pull closing data from.
// The API key is stored encrypted; the plaintext only exists for the duration
// of a sync run or a connection test.
type Connection struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	BaseURL     string    `json:"base_url"`
	Database    string    `json:"database"`
	Username    string    `json:"username"`
	APIKeyBlob  []byte    `json:"-"` // AES-GCM encrypted API key, never serialized
	Version     string    `json:"version,omitempty"` // ERP schema version, e.g. "17.0"
	CompanyIDs  []int64   `json:"company_ids,omitempty"`
	Enabled     bool      `json:"enabled"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	CreatedBy   string    `json:"created_by,omitempty"`
}

// ConnectionParams carries raw ERP credentials for a one-off connection test.
// Never persisted as-is.
type ConnectionParams struct {
	BaseURL  string `json:"base_url"`
	Database string `json:"database"`
	Username string `json:"username"`
	APIKey   string `json:"api_key"`
}

// Company is a company record exposed by the ERP, used to scope syncs.
type Company struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// TestResult is the outcome of a connection test: the authenticated user id
// and the companies visible to it.
type TestResult struct {
	UserID    int64     `json:"uid"`
	Companies []Company `json:"companies"`
}
