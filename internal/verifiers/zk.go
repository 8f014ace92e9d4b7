// Copyright 2025 Certen Protocol
//
// Groth16 zk-SNARK verifiers for Equality, Range and HashOpening proofs.
// Grounded on poaiw-blockchain-paw's ZKVerifier.VerifyProof
// (x/compute/keeper/zk_verification.go): deserialize a groth16.Proof and
// groth16.VerifyingKey from raw bytes over the BN254 curve, build a
// public-only witness from the circuit's public assignment, and call
// groth16.Verify.

package verifiers

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/frontend"

	"github.com/certen/proofstore/internal/proofstore"
)

const curveID = ecc.BN254

// equalityCircuit proves knowledge of a witness binding two public
// commitments as equal.
type equalityCircuit struct {
	A frontend.Variable `gnark:",public"`
	B frontend.Variable `gnark:",public"`
}

func (c *equalityCircuit) Define(api frontend.API) error {
	api.AssertIsEqual(c.A, c.B)
	return nil
}

// rangeCircuit proves a committed value lies within [Min, Max].
type rangeCircuit struct {
	Value frontend.Variable `gnark:",public"`
	Min   frontend.Variable `gnark:",public"`
	Max   frontend.Variable `gnark:",public"`
}

func (c *rangeCircuit) Define(api frontend.API) error {
	api.AssertIsLessOrEqual(c.Min, c.Value)
	api.AssertIsLessOrEqual(c.Value, c.Max)
	return nil
}

// hashOpeningCircuit proves knowledge of a preimage for a public
// commitment; the hash constraint itself lives in the circuit used at
// proving time, verification only needs the public commitment.
type hashOpeningCircuit struct {
	Commitment frontend.Variable `gnark:",public"`
}

func (c *hashOpeningCircuit) Define(api frontend.API) error {
	return nil
}

// zkPayload is the canonical decoded shape for all three gnark-backed
// proof types: a base64 Groth16 proof and verifying key plus a set of
// named public inputs, each a base-10 field-element string.
type zkPayload struct {
	Proof        string            `json:"proof"`
	VerifyingKey string            `json:"verifying_key"`
	PublicInputs map[string]string `json:"public_inputs"`
}

func decodeZKPayload(proofBytes []byte) (zkPayload, *groth16Artifacts, error) {
	var payload zkPayload
	if err := json.Unmarshal(proofBytes, &payload); err != nil {
		return payload, nil, &proofstore.MalformedProofError{Reason: err.Error()}
	}

	proofRaw, err := base64.StdEncoding.DecodeString(payload.Proof)
	if err != nil {
		return payload, nil, &proofstore.MalformedProofError{Reason: "proof must be base64: " + err.Error()}
	}
	vkRaw, err := base64.StdEncoding.DecodeString(payload.VerifyingKey)
	if err != nil {
		return payload, nil, &proofstore.MalformedProofError{Reason: "verifying_key must be base64: " + err.Error()}
	}

	proof := groth16.NewProof(curveID)
	if _, err := proof.ReadFrom(bytes.NewReader(proofRaw)); err != nil {
		return payload, nil, &proofstore.MalformedProofError{Reason: "could not decode groth16 proof: " + err.Error()}
	}
	vk := groth16.NewVerifyingKey(curveID)
	if _, err := vk.ReadFrom(bytes.NewReader(vkRaw)); err != nil {
		return payload, nil, &proofstore.MalformedProofError{Reason: "could not decode verifying key: " + err.Error()}
	}

	return payload, &groth16Artifacts{proof: proof, vk: vk}, nil
}

type groth16Artifacts struct {
	proof groth16.Proof
	vk    groth16.VerifyingKey
}

func fieldElement(payload zkPayload, name string) (*big.Int, error) {
	raw, ok := payload.PublicInputs[name]
	if !ok {
		return nil, &proofstore.MalformedProofError{Reason: "missing public input: " + name}
	}
	v, ok := new(big.Int).SetString(raw, 10)
	if !ok {
		return nil, &proofstore.MalformedProofError{Reason: "public input " + name + " is not a decimal integer"}
	}
	return v, nil
}

func verifyCircuit(assignment frontend.Circuit, artifacts *groth16Artifacts) (bool, string, error) {
	publicWitness, err := frontend.NewWitness(assignment, curveID.ScalarField(), frontend.PublicOnly())
	if err != nil {
		return false, "", err
	}
	if err := groth16.Verify(artifacts.proof, artifacts.vk, publicWitness); err != nil {
		return false, err.Error(), nil
	}
	return true, "", nil
}

func verifyEquality(proofBytes []byte) (bool, string, error) {
	payload, artifacts, err := decodeZKPayload(proofBytes)
	if err != nil {
		return false, "", err
	}
	a, err := fieldElement(payload, "a")
	if err != nil {
		return false, "", err
	}
	b, err := fieldElement(payload, "b")
	if err != nil {
		return false, "", err
	}
	return verifyCircuit(&equalityCircuit{A: a, B: b}, artifacts)
}

func verifyRange(proofBytes []byte) (bool, string, error) {
	payload, artifacts, err := decodeZKPayload(proofBytes)
	if err != nil {
		return false, "", err
	}
	value, err := fieldElement(payload, "value")
	if err != nil {
		return false, "", err
	}
	min, err := fieldElement(payload, "min")
	if err != nil {
		return false, "", err
	}
	max, err := fieldElement(payload, "max")
	if err != nil {
		return false, "", err
	}
	return verifyCircuit(&rangeCircuit{Value: value, Min: min, Max: max}, artifacts)
}

func verifyHashOpening(proofBytes []byte) (bool, string, error) {
	payload, artifacts, err := decodeZKPayload(proofBytes)
	if err != nil {
		return false, "", err
	}
	commitment, err := fieldElement(payload, "commitment")
	if err != nil {
		return false, "", err
	}
	return verifyCircuit(&hashOpeningCircuit{Commitment: commitment}, artifacts)
}
