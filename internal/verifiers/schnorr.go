// Copyright 2025 Certen Protocol
//
// Schnorr/Knowledge-of-signature verifier: Ed25519 signature check.
// Grounded on the teacher's createValidSignature test helper
// (pkg/verification/unified_verifier_test.go), which builds the same
// (public key, message, signature) triple this payload carries.

package verifiers

import (
	"crypto/ed25519"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/certen/proofstore/internal/proofstore"
)

// schnorrPayload is the canonical decoded shape for Schnorr and
// Knowledge proof types.
type schnorrPayload struct {
	PublicKey string `json:"public_key"`
	Message   string `json:"message"`
	Signature string `json:"signature"`
}

func verifySchnorr(proofBytes []byte) (bool, string, error) {
	var payload schnorrPayload
	if err := json.Unmarshal(proofBytes, &payload); err != nil {
		return false, "", &proofstore.MalformedProofError{Reason: err.Error()}
	}

	pub, err := hex.DecodeString(payload.PublicKey)
	if err != nil || len(pub) != ed25519.PublicKeySize {
		return false, "", &proofstore.MalformedProofError{Reason: "public_key must be a 32-byte hex string"}
	}
	msg, err := hex.DecodeString(payload.Message)
	if err != nil {
		return false, "", &proofstore.MalformedProofError{Reason: "message must be a hex string"}
	}
	sig, err := hex.DecodeString(payload.Signature)
	if err != nil || len(sig) != ed25519.SignatureSize {
		return false, "", &proofstore.MalformedProofError{Reason: "signature must be a 64-byte hex string"}
	}

	if ed25519.Verify(ed25519.PublicKey(pub), msg, sig) {
		return true, "", nil
	}
	return false, fmt.Sprintf("signature does not verify against public key %s", payload.PublicKey), nil
}
