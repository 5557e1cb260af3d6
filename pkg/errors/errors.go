package errors

import (
	"errors"
	"fmt"
	"time"
)

// Kind classifies a scrape error
type Kind string

const (
	// KindFetch represents network, timeout and non-success status errors
	KindFetch Kind = "fetch"
	// KindChallenge represents a detected anti-bot challenge page
	KindChallenge Kind = "challenge"
	// KindParsing represents HTML parsing errors
	KindParsing Kind = "parsing"
	// KindConfiguration represents incomplete or invalid configuration
	KindConfiguration Kind = "configuration"
	// KindState represents persisted seen-state errors
	KindState Kind = "state"
	// KindNotify represents notification dispatch errors
	KindNotify Kind = "notify"
)

// ScrapeError is the error type used across the pipeline
type ScrapeError struct {
	Kind    Kind
	Source  string // what was being processed, usually a URL or a component name
	Message string
	Err     error
	Time    time.Time
}

// Error implements the error interface
func (e *ScrapeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %s - %v", e.Kind, e.Source, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Kind, e.Source, e.Message)
}

// Unwrap returns the underlying error
func (e *ScrapeError) Unwrap() error {
	return e.Err
}

// Retryable reports whether a later run may succeed without operator action.
func (e *ScrapeError) Retryable() bool {
	switch e.Kind {
	case KindFetch, KindNotify:
		return true
	case KindChallenge, KindConfiguration, KindParsing:
		return false
	default:
		return false
	}
}

// New creates a new ScrapeError
func New(kind Kind, source, message string, err error) *ScrapeError {
	return &ScrapeError{
		Kind:    kind,
		Source:  source,
		Message: message,
		Err:     err,
		Time:    time.Now(),
	}
}

// NewFetch creates a fetch error
func NewFetch(source, message string, err error) *ScrapeError {
	return New(KindFetch, source, message, err)
}

// NewChallenge creates a challenge error carrying operator guidance
func NewChallenge(source string) *ScrapeError {
	return New(KindChallenge, source,
		"bot challenge detected; switch the fetch strategy (set FETCH_STRATEGY=chrome)", nil)
}

// NewParsing creates a parsing error
func NewParsing(source, message string, err error) *ScrapeError {
	return New(KindParsing, source, message, err)
}

// NewConfiguration creates a configuration error
func NewConfiguration(source, message string, err error) *ScrapeError {
	return New(KindConfiguration, source, message, err)
}

// NewState creates a state error
func NewState(source, message string, err error) *ScrapeError {
	return New(KindState, source, message, err)
}

// NewNotify creates a notification error
func NewNotify(source, message string, err error) *ScrapeError {
	return New(KindNotify, source, message, err)
}

func is(err error, kind Kind) bool {
	var se *ScrapeError
	if errors.As(err, &se) {
		return se.Kind == kind
	}
	return false
}

// IsFetch reports whether err is a fetch error
func IsFetch(err error) bool { return is(err, KindFetch) }

// IsChallenge reports whether err is a challenge error
func IsChallenge(err error) bool { return is(err, KindChallenge) }

// IsConfiguration reports whether err is a configuration error
func IsConfiguration(err error) bool { return is(err, KindConfiguration) }

// IsNotify reports whether err is a notification error
func IsNotify(err error) bool { return is(err, KindNotify) }
