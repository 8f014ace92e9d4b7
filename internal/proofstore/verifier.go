// Copyright 2025 Certen Protocol
//
// Verifier Dispatch (C3): routes (ProofType, proof_bytes) to the
// black-box Verifier capability and times the Verifier.Verify call alone,
// apart from cache lookup and bookkeeping (spec.md §4.3). The Verifier
// decodes proof_bytes itself, so a successful call's time includes that
// decoding; a decode failure is reported with zero time.

package proofstore

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Verifier is the external cryptographic capability the dispatch
// consumes. Implementations decode proofBytes into whatever shape their
// algorithm needs for proofType and return the boolean outcome. A
// *MalformedProofError return signals that decoding failed before any
// cryptographic check ran; any other non-nil error is treated as an
// internal verifier failure.
//
// Implementations must be safe to call from any goroutine.
type Verifier interface {
	Verify(ctx context.Context, proofType ProofType, proofBytes []byte) (valid bool, message string, err error)
}

// MalformedProofError signals that proofBytes could not be decoded into
// the shape demanded by proofType. The core treats this as structural
// invalidity (ProofStatus Invalid), not a system error.
type MalformedProofError struct {
	Reason string
}

func (e *MalformedProofError) Error() string {
	return "malformed proof data: " + e.Reason
}

// dispatchOutcome classifies a completed dispatch beyond plain
// valid/invalid, so the store can pick the right ProofStatus transition.
type dispatchOutcome int

const (
	outcomeVerified dispatchOutcome = iota // success or structural invalidity
	outcomeTimeout
	outcomeInternalError
)

type dispatchResult struct {
	result  VerificationResult
	outcome dispatchOutcome
}

// verifierDispatch owns the single external Verifier and the
// verification_timeout applied to every call.
type verifierDispatch struct {
	verifier Verifier
	timeout  time.Duration
}

func newVerifierDispatch(v Verifier, timeout time.Duration) *verifierDispatch {
	return &verifierDispatch{verifier: v, timeout: timeout}
}

func (d *verifierDispatch) dispatch(ctx context.Context, proofType ProofType, proofBytes []byte) dispatchResult {
	type callOutcome struct {
		valid          bool
		message        string
		err            error
		durationMicros int64
	}

	ch := make(chan callOutcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- callOutcome{err: fmt.Errorf("panic: %v", r)}
			}
		}()
		start := time.Now()
		valid, message, err := d.verifier.Verify(ctx, proofType, proofBytes)
		ch <- callOutcome{
			valid:          valid,
			message:        message,
			err:            err,
			durationMicros: time.Since(start).Microseconds(),
		}
	}()

	timeout := d.timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	select {
	case out := <-ch:
		if out.err != nil {
			var malformed *MalformedProofError
			if errors.As(out.err, &malformed) {
				return dispatchResult{
					outcome: outcomeVerified,
					result: VerificationResult{
						Valid:             false,
						Message:           truncateMessage(malformed.Error()),
						VerifiedProofType: proofType,
					},
				}
			}
			return dispatchResult{
				outcome: outcomeInternalError,
				result: VerificationResult{
					Valid:                  false,
					Message:                truncateMessage(out.err.Error()),
					VerifiedProofType:      proofType,
					VerificationTimeMicros: out.durationMicros,
				},
			}
		}
		return dispatchResult{
			outcome: outcomeVerified,
			result: VerificationResult{
				Valid:                  out.valid,
				Message:                truncateMessage(out.message),
				VerifiedProofType:      proofType,
				VerificationTimeMicros: out.durationMicros,
			},
		}
	case <-time.After(timeout):
		return dispatchResult{
			outcome: outcomeTimeout,
			result: VerificationResult{
				Valid:             false,
				Message:           "timeout",
				VerifiedProofType: proofType,
			},
		}
	}
}
