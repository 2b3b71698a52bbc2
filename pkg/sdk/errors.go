package minewatch

import "github.com/kailas-cloud/minewatch/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrUnknownSite   = domain.ErrUnknownSite
	ErrLimitExceeded = domain.ErrLimitExceeded
	ErrInvalidRecord = domain.ErrInvalidRecord
	ErrMalformedFile = domain.ErrMalformedFile
)
