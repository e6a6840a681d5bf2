package canonical

import "errors"

// Kind is a stable category for programmatic error handling.
//
// Callers should branch on Kind/RuleID rather than matching error strings.
// Error() strings are human-readable and may evolve.
type Kind string

const (
	// KindEncode covers values with no defined canonical mapping:
	// non-finite numbers, unsupported host types, duplicate map keys.
	KindEncode Kind = "Encode"
	// KindCycle covers self-referential input reached during normalization.
	KindCycle Kind = "Cycle"
	// KindDecode covers JSON text that cannot be lifted into the value model.
	KindDecode Kind = "Decode"
)

// Error is the package's structured error type.
//
// RuleID is a stable identifier (e.g. CJSON-ENC-001) that names the violated
// invariant. Message is intended for humans; do not match on it.
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

// IsCycle reports whether err was caused by a circular reference.
func IsCycle(err error) bool { return IsKind(err, KindCycle) }

// IsUnsupported reports whether err was caused by a value with no canonical mapping.
func IsUnsupported(err error) bool { return IsKind(err, KindEncode) }
