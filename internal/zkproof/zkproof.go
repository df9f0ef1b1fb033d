// Package zkproof implements the transaction amount proof engine: a
// Groth16 circuit over BN254 that proves knowledge of a witness amount
// without the verifier needing any separate public input beyond the
// bundle itself.
//
// The circuit is intentionally the simplest possible: one constraint
// binding a private Amount witness to a public Commitment. It exists as
// an extension point — a real deployment would replace this constraint
// with a genuine range proof without touching the Bundle wire shape.
package zkproof

import (
	"bytes"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"
)

// AmountCircuit proves knowledge of Amount such that Commitment ==
// Amount*Amount, over the BN254 scalar field.
type AmountCircuit struct {
	Amount     frontend.Variable
	Commitment frontend.Variable `gnark:",public"`
}

func (c *AmountCircuit) Define(api frontend.API) error {
	api.AssertIsEqual(c.Commitment, api.Mul(c.Amount, c.Amount))
	return nil
}

// Bundle is the opaque {proof_bytes, vk_bytes} pair carried by every
// transaction, plus the public commitment needed to reconstruct the
// public witness at verification time. The core never inspects the
// commitment; it exists only so Verify needs nothing but the bundle.
type Bundle struct {
	ProofBytes      []byte `json:"proof_bytes"`
	VKBytes         []byte `json:"vk_bytes"`
	CommitmentBytes []byte `json:"commitment_bytes"`
}

func commitmentFor(amount uint64) *big.Int {
	a := new(big.Int).SetUint64(amount)
	return new(big.Int).Mul(a, a)
}

// Generate builds a fresh circuit, runs a per-call trusted setup, proves
// knowledge of amount, and returns the serialized bundle. No shared
// reference string is used or required.
func Generate(amount uint64) (Bundle, error) {
	var circuit AmountCircuit
	cs, err := frontend.Compile(ecc.BN254.ScalarField(), r1cs.NewBuilder, &circuit)
	if err != nil {
		return Bundle{}, err
	}

	pk, vk, err := groth16.Setup(cs)
	if err != nil {
		return Bundle{}, err
	}

	commitment := commitmentFor(amount)
	assignment := &AmountCircuit{
		Amount:     new(big.Int).SetUint64(amount),
		Commitment: commitment,
	}
	witness, err := frontend.NewWitness(assignment, ecc.BN254.ScalarField())
	if err != nil {
		return Bundle{}, err
	}

	proof, err := groth16.Prove(cs, pk, witness)
	if err != nil {
		return Bundle{}, err
	}

	var proofBuf, vkBuf bytes.Buffer
	if _, err := proof.WriteTo(&proofBuf); err != nil {
		return Bundle{}, err
	}
	if _, err := vk.WriteTo(&vkBuf); err != nil {
		return Bundle{}, err
	}

	return Bundle{
		ProofBytes:      proofBuf.Bytes(),
		VKBytes:         vkBuf.Bytes(),
		CommitmentBytes: commitment.Bytes(),
	}, nil
}

// Verify reports whether b was produced by a call to Generate and has not
// been tampered with. Any deserialization failure collapses to false;
// Verify never panics.
func Verify(b Bundle) bool {
	if len(b.ProofBytes) == 0 || len(b.VKBytes) == 0 {
		return false
	}

	proof := groth16.NewProof(ecc.BN254)
	if _, err := proof.ReadFrom(bytes.NewReader(b.ProofBytes)); err != nil {
		return false
	}

	vk := groth16.NewVerifyingKey(ecc.BN254)
	if _, err := vk.ReadFrom(bytes.NewReader(b.VKBytes)); err != nil {
		return false
	}

	commitment := new(big.Int).SetBytes(b.CommitmentBytes)
	assignment := &AmountCircuit{Commitment: commitment}
	publicWitness, err := frontend.NewWitness(assignment, ecc.BN254.ScalarField(), frontend.PublicOnly())
	if err != nil {
		return false
	}

	return groth16.Verify(proof, vk, publicWitness) == nil
}
