package chain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenesisBlockShape(t *testing.T) {
	g := newGenesisBlock()
	require.Equal(t, uint64(0), g.Index)
	require.Equal(t, GenesisPreviousHash, g.PreviousHash)
	require.Empty(t, g.Transactions)
	// The hash was computed while the Hash field was still empty.
	unhashed := *g
	unhashed.Hash = ""
	require.Equal(t, unhashed.ComputeHash(), g.Hash)
}

func TestComputeHashChangesWithNonce(t *testing.T) {
	b := newBlock(1, "deadbeef", nil)
	h1 := b.Hash
	b.Nonce++
	h2 := b.ComputeHash()
	require.NotEqual(t, h1, h2)
}

func TestComputeHashIsDeterministicForFixedFields(t *testing.T) {
	b := newBlock(1, "deadbeef", nil)
	b.Timestamp = 1000
	b.Hash = ""
	h1 := b.ComputeHash()
	h2 := b.ComputeHash()
	require.Equal(t, h1, h2)
	require.Len(t, h1, 64)
}
