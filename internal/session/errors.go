package session

import "errors"

// Standard errors returned by session operations.
var (
	ErrFileTooLarge     = errors.New("file exceeds the configured size limit")
	ErrNoImageSelected  = errors.New("no image selected")
	ErrInvalidArguments = errors.New("invalid arguments")
	ErrStillLoading     = errors.New("image load in progress")
)
