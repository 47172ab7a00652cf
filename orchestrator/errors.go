package orchestrator

import (
	"errors"
	"fmt"
)

// Kind classifies pipeline failures. A Kind is itself an error so callers
// can write errors.Is(err, orchestrator.SynthesisFailed).
type Kind int

const (
	KindUnknown Kind = iota
	InputInvalid
	GenerationFailed
	ParseEmpty
	SynthesisFailed
	FormatMismatch
	EncodingFailed
)

func (k Kind) String() string {
	switch k {
	case InputInvalid:
		return "input invalid"
	case GenerationFailed:
		return "generation failed"
	case ParseEmpty:
		return "no dialogue lines"
	case SynthesisFailed:
		return "synthesis failed"
	case FormatMismatch:
		return "format mismatch"
	case EncodingFailed:
		return "encoding failed"
	}
	return "unknown error"
}

func (k Kind) Error() string { return k.String() }

// Error is the error returned by a failed run.
type Error struct {
	Kind  Kind
	State State
	// Ordinal is the script line being rendered, or -1.
	Ordinal int
	Err     error
}

func (e *Error) Error() string {
	msg := "pipeline: " + e.Kind.String()
	if e.Ordinal >= 0 {
		msg += fmt.Sprintf(" at line %d", e.Ordinal)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches a Kind target.
func (e *Error) Is(target error) bool {
	k, ok := target.(Kind)
	return ok && k == e.Kind
}

// KindOf returns the kind of a pipeline error, or KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
