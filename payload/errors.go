package payload

import "errors"

// Kind is a stable category for programmatic error handling.
// Callers should branch on Kind/RuleID rather than matching error strings.
type Kind string

const (
	// KindParse covers malformed or version-mismatched payloads.
	// A payload that fails parsing was never a valid protocol object;
	// it is rejected, never coerced.
	KindParse Kind = "Parse"
	// KindSign covers failures assembling or signing a payload.
	KindSign Kind = "Sign"
)

// Error is the package's structured error type. RuleID is a stable
// identifier naming the violated rule; Message is for humans.
type Error struct {
	Kind    Kind
	RuleID  string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func newError(kind Kind, ruleID, msg string) error {
	return &Error{Kind: kind, RuleID: ruleID, Message: msg}
}

func wrapError(kind Kind, ruleID, msg string, cause error) error {
	if cause == nil {
		return newError(kind, ruleID, msg)
	}
	return &Error{Kind: kind, RuleID: ruleID, Message: msg, Cause: cause}
}

// IsKind reports whether err is (or wraps) a *Error with the given Kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}
