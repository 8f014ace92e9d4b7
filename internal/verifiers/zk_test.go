package verifiers

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"
)

// buildZKPayload runs a full Groth16 setup/prove cycle for circuit with
// assignment, encoding the resulting proof and verifying key the way the
// REST layer expects to receive them: base64-encoded, over BN254.
func buildZKPayload(t *testing.T, circuit, assignment frontend.Circuit, publicInputs map[string]string) []byte {
	t.Helper()

	ccs, err := frontend.Compile(curveID.ScalarField(), r1cs.NewBuilder, circuit)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	pk, vk, err := groth16.Setup(ccs)
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}

	fullWitness, err := frontend.NewWitness(assignment, curveID.ScalarField())
	if err != nil {
		t.Fatalf("NewWitness: %v", err)
	}
	proof, err := groth16.Prove(ccs, pk, fullWitness)
	if err != nil {
		t.Fatalf("Prove: %v", err)
	}

	var proofBuf, vkBuf bytes.Buffer
	if _, err := proof.WriteTo(&proofBuf); err != nil {
		t.Fatalf("proof.WriteTo: %v", err)
	}
	if _, err := vk.WriteTo(&vkBuf); err != nil {
		t.Fatalf("vk.WriteTo: %v", err)
	}

	payload := zkPayload{
		Proof:        base64.StdEncoding.EncodeToString(proofBuf.Bytes()),
		VerifyingKey: base64.StdEncoding.EncodeToString(vkBuf.Bytes()),
		PublicInputs: publicInputs,
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	return raw
}

func TestVerifyEqualityValidProof(t *testing.T) {
	assignment := &equalityCircuit{A: 42, B: 42}
	raw := buildZKPayload(t, &equalityCircuit{}, assignment, map[string]string{"a": "42", "b": "42"})

	valid, _, err := verifyEquality(raw)
	if err != nil {
		t.Fatalf("verifyEquality: %v", err)
	}
	if !valid {
		t.Fatal("expected equality proof to verify")
	}
}

func TestVerifyEqualityRejectsMismatchedPublicInput(t *testing.T) {
	assignment := &equalityCircuit{A: 42, B: 42}
	raw := buildZKPayload(t, &equalityCircuit{}, assignment, map[string]string{"a": "42", "b": "99"})

	valid, _, err := verifyEquality(raw)
	if err != nil {
		t.Fatalf("verifyEquality: %v", err)
	}
	if valid {
		t.Fatal("expected proof to be rejected when public inputs don't match the proven statement")
	}
}

func TestVerifyRangeValidProof(t *testing.T) {
	assignment := &rangeCircuit{Value: 15, Min: 10, Max: 20}
	raw := buildZKPayload(t, &rangeCircuit{}, assignment, map[string]string{
		"value": "15", "min": "10", "max": "20",
	})

	valid, _, err := verifyRange(raw)
	if err != nil {
		t.Fatalf("verifyRange: %v", err)
	}
	if !valid {
		t.Fatal("expected range proof to verify")
	}
}

func TestVerifyHashOpeningMissingPublicInput(t *testing.T) {
	assignment := &hashOpeningCircuit{Commitment: 7}
	raw := buildZKPayload(t, &hashOpeningCircuit{}, assignment, map[string]string{})

	_, _, err := verifyHashOpening(raw)
	if err == nil {
		t.Fatal("expected an error for a missing commitment public input")
	}
}

func TestDecodeZKPayloadRejectsBadBase64(t *testing.T) {
	raw := []byte(`{"proof":"not-base64!!","verifying_key":"","public_inputs":{}}`)
	if _, _, err := decodeZKPayload(raw); err == nil {
		t.Fatal("expected an error for invalid base64 proof bytes")
	}
}
