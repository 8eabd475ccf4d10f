// Package protoerr implements the typed error kinds the pipeline surfaces
// to callers and renderers.
package protoerr

import (
	"errors"
	"fmt"
)

// Kind identifies which failure mode produced an Error.
type Kind int

const (
	// RequestParse means the request bytes were not a valid code-gen request.
	RequestParse Kind = iota
	// DescriptorResolution means a field referenced an unknown type.
	DescriptorResolution
	// SourceRead means an I/O failure occurred while reading a source file.
	SourceRead
	// FileNotFound means file(path) had no match, or delete(path) targeted
	// an unknown path.
	FileNotFound
	// AmbiguousPath means file(path) matched more than one stored path.
	AmbiguousPath
	// IllegalReassignment means a one-shot field was set twice.
	IllegalReassignment
	// MissingPublicZeroArgCtor means external instantiation of a plugin or
	// renderer failed. The core never raises this itself; it is here so
	// that an external instantiator can report through the same Kind space.
	MissingPublicZeroArgCtor
	// SourceWrite means an I/O failure occurred during flush.
	SourceWrite
)

func (k Kind) String() string {
	switch k {
	case RequestParse:
		return "RequestParse"
	case DescriptorResolution:
		return "DescriptorResolution"
	case SourceRead:
		return "SourceRead"
	case FileNotFound:
		return "FileNotFound"
	case AmbiguousPath:
		return "AmbiguousPath"
	case IllegalReassignment:
		return "IllegalReassignment"
	case MissingPublicZeroArgCtor:
		return "MissingPublicZeroArgCtor"
	case SourceWrite:
		return "SourceWrite"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Error is the pipeline's typed error. It wraps an optional underlying
// cause so errors.Is/errors.As keep working across the Kind boundary.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// New returns an Error of the given kind with no wrapped cause.
func New(kind Kind, msg string) error {
	return &Error{Kind: kind, Msg: msg}
}

// Newf is New with fmt.Sprintf-style formatting.
func Newf(kind Kind, format string, args ...interface{}) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap returns an Error of the given kind carrying err as its cause.
func Wrap(kind Kind, msg string, err error) error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// Is reports whether err is a *Error of the given kind, unwrapping as
// needed.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
