// Package api contains API contract definitions for the asset dashboard.
// Version v1 represents the current stable API version.
package api

// CreateSessionRequest opens a register workbook from the data directory.
// Empty fields fall back to the configured defaults.
type CreateSessionRequest struct {
	File      string `json:"file,omitempty" validate:"omitempty,filename,workbook"`
	Sheet     string `json:"sheet,omitempty" validate:"omitempty,max=31"`
	HeaderRow int    `json:"header_row,omitempty" validate:"omitempty,min=1,max=1000"`
}

// SearchRequest is the query of a free-text asset search. An empty term
// matches nothing.
type SearchRequest struct {
	Q     string `json:"q" query:"q" validate:"max=200"`
	Limit int    `json:"limit" query:"limit" validate:"gte=0"`
}
