package domain

import "errors"

var (
	ErrNotFound              = errors.New("resource not found")
	ErrRunNotFound           = errors.New("run not found")
	ErrUnknownMethod         = errors.New("unknown method")
	ErrMissingCredentials    = errors.New("files API credentials are not configured")
	ErrMissingUploadURL      = errors.New("files API returned no upload URL")
	ErrUploadFailed          = errors.New("document upload failed")
	ErrRemote                = errors.New("files API request failed")
	ErrInvalidImport         = errors.New("invalid history import")
	ErrMissingFileIDs        = errors.New("file ids for every method are required")
	ErrComparisonNotEligible = errors.New("comparison requires every method to have completed")
	ErrComparisonExists      = errors.New("run already has an AI comparison")
	ErrMethodFinalized       = errors.New("method already reached a different terminal status")
	ErrFileTooLarge          = errors.New("file exceeds maximum allowed size")
	ErrUnsupportedFileType   = errors.New("unsupported file type")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrExtraction            = errors.New("structured extraction failed")
)
