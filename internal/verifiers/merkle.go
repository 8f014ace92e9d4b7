// Copyright 2025 Certen Protocol
//
// Membership and non-membership verifiers built on internal/merkle,
// itself adapted from the validator's batch-anchoring Merkle tree
// (pkg/merkle/tree.go).

package verifiers

import (
	"encoding/json"

	"github.com/certen/proofstore/internal/merkle"
	"github.com/certen/proofstore/internal/proofstore"
)

// membershipPayload proves leaf_hash is included under merkle_root.
type membershipPayload struct {
	LeafHash   string             `json:"leaf_hash"`
	MerkleRoot string             `json:"merkle_root"`
	Path       []merkle.ProofNode `json:"path"`
	LeafIndex  int                `json:"leaf_index"`
	TreeSize   int                `json:"tree_size"`
}

func verifyMembership(proofBytes []byte) (bool, string, error) {
	var payload membershipPayload
	if err := json.Unmarshal(proofBytes, &payload); err != nil {
		return false, "", &proofstore.MalformedProofError{Reason: err.Error()}
	}

	proof := &merkle.InclusionProof{
		LeafHash:   payload.LeafHash,
		LeafIndex:  payload.LeafIndex,
		MerkleRoot: payload.MerkleRoot,
		Path:       payload.Path,
		TreeSize:   payload.TreeSize,
	}

	ok, err := merkle.VerifyProofHex(payload.LeafHash, proof, payload.MerkleRoot)
	if err != nil {
		return false, "", &proofstore.MalformedProofError{Reason: err.Error()}
	}
	if ok {
		return true, "", nil
	}
	return false, "leaf is not included under the given root", nil
}

// nonMembershipPayload proves absent_leaf_hash falls strictly between two
// adjacent, proven-included neighbors in a sorted Merkle tree — the
// standard way to prove exclusion without revealing the whole leaf set.
type nonMembershipPayload struct {
	AbsentLeafHash string             `json:"absent_leaf_hash"`
	MerkleRoot     string             `json:"merkle_root"`
	LowerLeafHash  string             `json:"lower_leaf_hash"`
	LowerPath      []merkle.ProofNode `json:"lower_path"`
	LowerIndex     int                `json:"lower_index"`
	UpperLeafHash  string             `json:"upper_leaf_hash"`
	UpperPath      []merkle.ProofNode `json:"upper_path"`
	UpperIndex     int                `json:"upper_index"`
	TreeSize       int                `json:"tree_size"`
}

func verifyNonMembership(proofBytes []byte) (bool, string, error) {
	var payload nonMembershipPayload
	if err := json.Unmarshal(proofBytes, &payload); err != nil {
		return false, "", &proofstore.MalformedProofError{Reason: err.Error()}
	}

	if payload.UpperIndex != payload.LowerIndex+1 {
		return false, "neighbors are not adjacent leaves", nil
	}
	if payload.AbsentLeafHash <= payload.LowerLeafHash || payload.AbsentLeafHash >= payload.UpperLeafHash {
		return false, "absent leaf does not fall strictly between its neighbors", nil
	}

	lowerProof := &merkle.InclusionProof{
		LeafHash: payload.LowerLeafHash, LeafIndex: payload.LowerIndex,
		MerkleRoot: payload.MerkleRoot, Path: payload.LowerPath, TreeSize: payload.TreeSize,
	}
	lowerOK, err := merkle.VerifyProofHex(payload.LowerLeafHash, lowerProof, payload.MerkleRoot)
	if err != nil {
		return false, "", &proofstore.MalformedProofError{Reason: err.Error()}
	}

	upperProof := &merkle.InclusionProof{
		LeafHash: payload.UpperLeafHash, LeafIndex: payload.UpperIndex,
		MerkleRoot: payload.MerkleRoot, Path: payload.UpperPath, TreeSize: payload.TreeSize,
	}
	upperOK, err := merkle.VerifyProofHex(payload.UpperLeafHash, upperProof, payload.MerkleRoot)
	if err != nil {
		return false, "", &proofstore.MalformedProofError{Reason: err.Error()}
	}

	if lowerOK && upperOK {
		return true, "", nil
	}
	return false, "one or both neighbor proofs failed to verify", nil
}
