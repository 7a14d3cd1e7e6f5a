package domain

import "time"

// ProductSales is one aggregated product line in a daily summary.
// Qty and Total are rounded for display (whole units, 2 decimal places).
type ProductSales struct {
	Name  string  `json:"name"`
	Qty   int64   `json:"qty"`
	Total float64 `json:"total"`
}

// DailySummary is the per-location, per-date aggregated sales record.
// Exactly one row exists per (LocationID, Date) pair; repeated syncs of the
// same date overwrite the numeric fields rather than duplicating the row.
type DailySummary struct {
	LocationID   int64              `json:"location_id"`
	LocationName string             `json:"location_name"`
	ConnectionID string             `json:"connection_id"`
	Date         string             `json:"date"` // calendar date, "2006-01-02"
	Total        float64            `json:"total"`
	OrderCount   int                `json:"order_count"`
	Payments     map[string]float64 `json:"payments"`
	TopProducts  []ProductSales     `json:"top_products"`
	Delivered    bool               `json:"delivered"` // downstream notification state
	UpdatedAt    time.Time          `json:"updated_at"`
}

// SyncJobStatus is the recorded outcome of a sync attempt
type SyncJobStatus string

const (
	SyncJobSuccess SyncJobStatus = "success"
	SyncJobError   SyncJobStatus = "error"
)

// SyncJob is one row in the append-only sync audit log.
type SyncJob struct {
	ID           string        `json:"id"`
	ConnectionID string        `json:"connection_id"`
	Status       SyncJobStatus `json:"status"`
	Message      string        `json:"message"`
	Date         string        `json:"date"` // target calendar date of the sync
	CreatedAt    time.Time     `json:"created_at"`
}
