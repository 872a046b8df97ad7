package mfsm

import "errors"

var (
	ErrInvalidHandle   = errors.New("invalid queue or listener")
	ErrInvalidArgument = errors.New("invalid destination")
	ErrEmpty           = errors.New("empty")
	ErrFull            = errors.New("full")
	ErrNotFound        = errors.New("listener not registered")
	ErrPartialFailure  = errors.New("event not delivered to every listener")
)

// Integer codes returned by Code. Every failure maps to a distinct negative value.
const (
	CodeOK              = 0
	CodeInvalidHandle   = -1
	CodeInvalidArgument = -2
	CodeEmpty           = -3
	CodeFull            = -4
	CodeNotFound        = -5
	CodePartialFailure  = -6
	CodeUnknown         = -99
)

// Code maps err onto the integer result contract used by firmware callers.
// A nil error yields CodeOK.
func Code(err error) int {
	switch {
	case err == nil:
		return CodeOK
	case errors.Is(err, ErrInvalidHandle):
		return CodeInvalidHandle
	case errors.Is(err, ErrInvalidArgument):
		return CodeInvalidArgument
	case errors.Is(err, ErrEmpty):
		return CodeEmpty
	case errors.Is(err, ErrFull):
		return CodeFull
	case errors.Is(err, ErrNotFound):
		return CodeNotFound
	case errors.Is(err, ErrPartialFailure):
		return CodePartialFailure
	default:
		return CodeUnknown
	}
}
