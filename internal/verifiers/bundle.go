// Copyright 2025 Certen Protocol
//
// Bundle is the default proofstore.Verifier implementation shipped with
// the service so it is runnable end to end without a caller supplying
// their own cryptographic library. The core never imports this package;
// it only depends on the proofstore.Verifier interface, so Bundle is one
// swappable collaborator among any others (spec.md §4.3, §9).

package verifiers

import (
	"context"

	"github.com/certen/proofstore/internal/proofstore"
)

// Bundle dispatches each ProofType to the verifier grounded on the
// algorithm it represents: Ed25519 for signature-knowledge proofs,
// Groth16 zk-SNARKs for the arithmetic-circuit proofs, and Merkle
// inclusion/exclusion for set-membership proofs.
type Bundle struct{}

// NewBundle constructs the default verifier bundle.
func NewBundle() *Bundle {
	return &Bundle{}
}

// Verify implements proofstore.Verifier.
func (b *Bundle) Verify(_ context.Context, proofType proofstore.ProofType, proofBytes []byte) (bool, string, error) {
	switch proofType {
	case proofstore.ProofSchnorr, proofstore.ProofKnowledge:
		return verifySchnorr(proofBytes)
	case proofstore.ProofEquality:
		return verifyEquality(proofBytes)
	case proofstore.ProofRange:
		return verifyRange(proofBytes)
	case proofstore.ProofHashOpening:
		return verifyHashOpening(proofBytes)
	case proofstore.ProofMembership:
		return verifyMembership(proofBytes)
	case proofstore.ProofNonMembership:
		return verifyNonMembership(proofBytes)
	default:
		return false, "", &proofstore.MalformedProofError{Reason: "unsupported proof type: " + string(proofType)}
	}
}
