package api

import (
	"time"

	"fardash/pkg/contracts/domain"
)

// Response is the envelope of every successful JSON reply.
type Response struct {
	Status string      `json:"status"`
	Data   interface{} `json:"data"`
	Count  *int        `json:"count,omitempty"`
}

// SessionResponse describes a loaded register.
type SessionResponse struct {
	ID        string      `json:"id"`
	CreatedAt time.Time   `json:"created_at"`
	ExpiresAt time.Time   `json:"expires_at"`
	Report    interface{} `json:"report"`
}

// WorkbookInfo is a workbook found in the data directory.
type WorkbookInfo struct {
	Name     string    `json:"name"`
	Size     int64     `json:"size"`
	Modified time.Time `json:"modified"`
	Sheets   []string  `json:"sheets"`
}

// CompletenessResponse wraps the completeness check with the quality issues.
type CompletenessResponse struct {
	Completeness domain.CompletenessResult `json:"completeness"`
	Issues       []string                  `json:"issues"`
}
