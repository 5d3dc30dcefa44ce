package services

import (
	apperrors "fardash/internal/errors"
)

// Dashboard service errors
var (
	ErrSessionNotFound = apperrors.NewNotFoundError("session")
	ErrAssetNotFound   = apperrors.NewNotFoundError("asset")
	ErrReportNotFound  = apperrors.NewNotFoundError("report")
)
