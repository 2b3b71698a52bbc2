package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownSite signals a site name outside the configured set.
	ErrUnknownSite = errors.New("unknown site")
	// ErrLimitExceeded signals a request that would exceed a site's annual water limit.
	ErrLimitExceeded = errors.New("water limit exceeded")
	// ErrInvalidRecord signals a usage record that fails validation.
	ErrInvalidRecord = errors.New("invalid usage record")
	// ErrMalformedFile signals an unreadable line in the persisted usage file.
	ErrMalformedFile = errors.New("malformed usage file")
)

// LimitExceededError wraps ErrLimitExceeded with the rejected amounts.
type LimitExceededError struct {
	Site      string
	Requested float64
	Remaining float64
}

func (e *LimitExceededError) Error() string {
	return fmt.Sprintf("%s: site %s has %.2f acre-feet remaining, requested %.2f",
		ErrLimitExceeded.Error(), e.Site, e.Remaining, e.Requested)
}

func (e *LimitExceededError) Unwrap() error { return ErrLimitExceeded }

// NewLimitExceeded creates a limit exceeded error.
func NewLimitExceeded(site string, requested, remaining float64) error {
	return &LimitExceededError{Site: site, Requested: requested, Remaining: remaining}
}

// ParseError wraps ErrMalformedFile with the offending line.
type ParseError struct {
	Line int // 1-based line number in the usage file
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: line %d %q: %v", ErrMalformedFile.Error(), e.Line, e.Text, e.Err)
}

func (e *ParseError) Unwrap() error { return ErrMalformedFile }

// NewParseError creates a parse error for a line of the usage file.
func NewParseError(line int, text string, err error) error {
	return &ParseError{Line: line, Text: text, Err: err}
}
