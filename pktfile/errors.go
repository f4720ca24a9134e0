package pktfile

import "errors"

// Kind is a stable category for programmatic error handling.
//
// These categories are intended to remain stable across versions.
// Callers should branch on Kind/RuleID rather than matching error strings.
//
// NOTE: Error() strings are intentionally kept human-readable and may evolve.
// Use errors.As to extract *Error for structured handling.
type Kind string

const (
	// KindContainer covers a missing or corrupt container envelope. The file
	// is unrecoverable; nothing before the integrity check can be trusted.
	KindContainer Kind = "Container"

	// KindAuth is an authentication-tag mismatch. Deterministic: retrying the
	// same bytes cannot help.
	KindAuth Kind = "Auth"

	// KindFrame covers compression-frame violations, including a length
	// header that disagrees with the inflated payload.
	KindFrame Kind = "Frame"

	// KindCompress covers deflate/inflate failures.
	KindCompress Kind = "Compress"

	// KindCipher covers block-cipher setup failures.
	KindCipher Kind = "Cipher"

	// KindBackend covers backend selection failures.
	KindBackend Kind = "Backend"

	KindInternal Kind = "Internal"
)

// Error is the library's structured error type.
//
// RuleID is a stable identifier (e.g., PKT-AUTH-001, PKT-FRAME-002) that
// names the violated invariant.
//
// Message is intended for humans; do not match on it.
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

// ErrBackendUnavailable marks a backend that cannot run at all (as opposed to
// one that ran and rejected the input). The selector treats it as a signal to
// fall back, not as a decode verdict.
var ErrBackendUnavailable = errors.New("pktfile: backend unavailable")

// IsKind reports whether err is (or wraps) a *Error with the given Kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}

// RuleID returns the stable RuleID for a structured error, or "" if unknown.
func RuleID(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return ""
	}
	return e.RuleID
}

// IsAuthenticationFailure reports whether err is an authentication-tag
// mismatch.
func IsAuthenticationFailure(err error) bool { return IsKind(err, KindAuth) }

// IsFrameLengthMismatch reports whether err is a compression-header length
// violation.
func IsFrameLengthMismatch(err error) bool {
	return RuleID(err) == "PKT-FRAME-002"
}

// IsMalformedContainer reports whether err is a container-envelope violation.
func IsMalformedContainer(err error) bool { return IsKind(err, KindContainer) }
