// Copyright 2025 Certen Protocol
//
// Error taxonomy for the proof store. Each sentinel below carries a stable
// code surfaced to callers; internal errors are wrapped in *Error so the
// code travels with the message without leaking internal state.

package proofstore

import "errors"

// Stable error codes, per spec.md §7.
const (
	CodeNotFound                  = "NotFound"
	CodePayloadTooLarge           = "PayloadTooLarge"
	CodeInvalidProofType          = "InvalidProofType"
	CodeMalformedProofData        = "MalformedProofData"
	CodeVerificationTimeout       = "VerificationTimeout"
	CodeVerificationInternalError = "VerificationInternalError"
	CodeInvalidArgument           = "InvalidArgument"
)

// Sentinel errors for the codes above. Use errors.Is against these, or
// inspect a *Error's Code field directly.
var (
	ErrNotFound            = &Error{Code: CodeNotFound, Message: "proof not found"}
	ErrPayloadTooLarge     = &Error{Code: CodePayloadTooLarge, Message: "proof bytes exceed max_proof_size"}
	ErrInvalidProofType    = &Error{Code: CodeInvalidProofType, Message: "unrecognized proof type"}
	ErrMalformedProofData  = &Error{Code: CodeMalformedProofData, Message: "proof data could not be decoded"}
	ErrVerificationTimeout = &Error{Code: CodeVerificationTimeout, Message: "timeout"}
	ErrVerificationFailed  = &Error{Code: CodeVerificationInternalError, Message: "verifier internal error"}
	ErrInvalidArgument     = &Error{Code: CodeInvalidArgument, Message: "invalid argument"}
)

// Error is the envelope-level error type: a stable code plus a
// human-readable message, never a stack trace or internal state.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Code + ": " + e.Message
}

// Is allows errors.Is(err, ErrNotFound) and friends to match by code,
// independent of the specific message attached.
func (e *Error) Is(target error) bool {
	var other *Error
	if !errors.As(target, &other) {
		return false
	}
	return e.Code == other.Code
}

// withMessage returns a copy of the sentinel with a more specific message,
// preserving its code for errors.Is comparisons.
func (e *Error) withMessage(msg string) *Error {
	return &Error{Code: e.Code, Message: msg}
}
