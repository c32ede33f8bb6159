package domain

import "errors"

var (
	ErrNotFound            = errors.New("not found")
	ErrDuplicateEmail      = errors.New("email already exists")
	ErrInvalidInput        = errors.New("invalid input")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrMissingToken        = errors.New("missing access token")
	ErrInvalidToken        = errors.New("invalid access token")
	ErrUploadTooLarge      = errors.New("upload too large")
	ErrUnsupportedFileType = errors.New("unsupported file type")
)
