package availability

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMalformedTime      = errors.New("malformed time")
	ErrOverlappingWindow  = errors.New("overlapping window")
	ErrTimezoneResolution = errors.New("timezone resolution failed")
	ErrInvalidEventType   = errors.New("invalid event type")
	ErrWeekdayMismatch    = errors.New("date weekday does not match window")
)

// ErrorKind classifies a single schedule validation issue.
type ErrorKind string

const (
	MalformedTime     ErrorKind = "malformed_time"
	OverlappingWindow ErrorKind = "overlapping_window"
)

// Issue points at the offending window by its index in the input.
type Issue struct {
	Index int       `json:"index"`
	Kind  ErrorKind `json:"kind"`
}

// ValidationError is returned when a weekly pattern is internally inconsistent.
// It is fatal for a resolution call.
type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, is := range e.Issues {
		parts = append(parts, fmt.Sprintf("window %d: %s", is.Index, is.Kind))
	}
	return "invalid schedule: " + strings.Join(parts, "; ")
}

// Is lets errors.Is match ErrMalformedTime and ErrOverlappingWindow.
func (e *ValidationError) Is(target error) bool {
	switch target {
	case ErrMalformedTime:
		return e.Has(MalformedTime)
	case ErrOverlappingWindow:
		return e.Has(OverlappingWindow)
	}
	return false
}

// Has reports whether any issue is of the given kind.
func (e *ValidationError) Has(kind ErrorKind) bool {
	for _, is := range e.Issues {
		if is.Kind == kind {
			return true
		}
	}
	return false
}

// Indexes returns the distinct window indexes that have an issue of kind.
func (e *ValidationError) Indexes(kind ErrorKind) []int {
	var out []int
	for _, is := range e.Issues {
		if is.Kind == kind && (len(out) == 0 || out[len(out)-1] != is.Index) {
			out = append(out, is.Index)
		}
	}
	return out
}

// TimezoneError reports an unknown or empty IANA zone name.
type TimezoneError struct {
	Name string
	Err  error
}

func (e *TimezoneError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("resolve timezone %q", e.Name)
	}
	return fmt.Sprintf("resolve timezone %q: %v", e.Name, e.Err)
}

func (e *TimezoneError) Is(target error) bool {
	return target == ErrTimezoneResolution
}

func (e *TimezoneError) Unwrap() error {
	return e.Err
}

// WarningKind classifies a recoverable problem.
type WarningKind string

const (
	MalformedInterval         WarningKind = "malformed_interval"
	CalendarSourceUnavailable WarningKind = "calendar_source_unavailable"
)

// Warning is a recoverable problem recorded alongside a still-computed result.
type Warning struct {
	Kind WarningKind `json:"kind"`
	// Index is the position of the offending busy interval, or -1.
	Index   int    `json:"index"`
	Source  string `json:"source,omitempty"`
	Message string `json:"message"`
}

func (w Warning) String() string {
	if w.Source != "" {
		return fmt.Sprintf("%s (%s): %s", w.Kind, w.Source, w.Message)
	}
	return fmt.Sprintf("%s: %s", w.Kind, w.Message)
}
