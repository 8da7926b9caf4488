package services

import "errors"

// Standard errors returned by the service layer. Operation-level errors
// (invalid arguments, size limit, still loading) surface from the
// session package and pass through unchanged.
var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")
	ErrForbidden  = errors.New("forbidden")
)
