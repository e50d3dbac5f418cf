package dispatch

import "errors"

// Category is one declared "expected" failure class for a call. A
// failure matches a Category when Matches returns true for it.
type Category struct {
	Name    string
	Matches func(error) bool
}

// FailureSet is the declared list of expected failure categories for a
// call. A failure that matches none of them is captured as unexpected
// and surfaced to the caller as a generic RethrownFailure with no
// payload. A nil or empty FailureSet means every failure is unexpected —
// this is the resolution SPEC_FULL.md records for the "no declared set"
// Open Question.
type FailureSet []Category

// MatchIs builds a Category around errors.Is against a sentinel target.
func MatchIs(name string, target error) Category {
	return Category{
		Name: name,
		Matches: func(err error) bool {
			return errors.Is(err, target)
		},
	}
}

// MatchAs builds a Category around errors.As against a concrete error
// type E, the Go-idiomatic stand-in for the source's type-list of
// expected C++ exception classes.
func MatchAs[E error](name string) Category {
	return Category{
		Name: name,
		Matches: func(err error) bool {
			var target E
			return errors.As(err, &target)
		},
	}
}

// outcomeKind distinguishes "no failure", "one of the declared
// categories fired", and "something else fired" — the three states the
// source tracks via CaughtExceptionType plus the separate
// m_bExceptionCaught boolean.
type outcomeKind int

const (
	outcomeNone outcomeKind = iota
	outcomeExpected
	outcomeUnexpected
)

// capturedFailure is the classification result of running a work
// closure: none, a named expected category with its payload, or an
// unexpected failure whose payload is intentionally dropped.
type capturedFailure struct {
	kind     outcomeKind
	category string
	err      error
}

// classify runs the declared FailureSet against err, returning the
// capturedFailure describing the outcome. err == nil always classifies
// as outcomeNone regardless of the declared set.
func classify(set FailureSet, err error) capturedFailure {
	if err == nil {
		return capturedFailure{kind: outcomeNone}
	}
	for _, c := range set {
		if c.Matches != nil && c.Matches(err) {
			return capturedFailure{kind: outcomeExpected, category: c.Name, err: err}
		}
	}
	return capturedFailure{kind: outcomeUnexpected, err: err}
}
