// Package errors maps dashboard failures to RFC 7807 problem documents.
//
// Handlers return plain Go errors; ErrorHandler inspects them with
// errors.Is and errors.As:
//
//	*APIError                       status carried by the error
//	dataprocessing.ErrDataUnavailable 422 Unprocessable Entity
//	validator.ValidationErrors       400 Bad Request
//	*AppError NOT_FOUND              404 Not Found
//	*AppError VALIDATION             400 Bad Request
//	context deadline or cancel       504 Gateway Timeout
//
// Anything else is a 500 with a generic detail.
package errors
