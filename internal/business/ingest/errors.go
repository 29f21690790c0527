package ingest

import (
	"errors"
	"fmt"
)

// Kind classifies why a load attempt failed.
type Kind string

const (
	KindNetworkFailure   Kind = "NetworkFailure"
	KindEmptyOrMalformed Kind = "EmptyOrMalformed"
	KindParseFailure     Kind = "ParseFailure"
)

var (
	// ErrNetworkFailure matches errors where the default dataset could not be reached.
	ErrNetworkFailure = errors.New("dataset unreachable")
	// ErrEmptyOrMalformed matches errors where parsing produced no rows.
	ErrEmptyOrMalformed = errors.New("dataset empty or malformed")
	// ErrParseFailure matches structural CSV errors.
	ErrParseFailure = errors.New("csv parse failure")
)

var kindSentinels = map[Kind]error{
	KindNetworkFailure:   ErrNetworkFailure,
	KindEmptyOrMalformed: ErrEmptyOrMalformed,
	KindParseFailure:     ErrParseFailure,
}

// Error is a failed load attempt. It matches its kind's sentinel with errors.Is.
type Error struct {
	Kind   Kind
	Source string
	Err    error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("load %s: %s", e.Source, kindSentinels[e.Kind])
	}
	return fmt.Sprintf("load %s: %s: %v", e.Source, kindSentinels[e.Kind], e.Err)
}

func (e *Error) Unwrap() []error {
	errs := []error{kindSentinels[e.Kind]}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// KindOf returns the kind of a load error, or "" for anything else.
func KindOf(err error) Kind {
	var ie *Error
	if errors.As(err, &ie) {
		return ie.Kind
	}
	return ""
}

func newError(kind Kind, source string, err error) *Error {
	return &Error{Kind: kind, Source: source, Err: err}
}
