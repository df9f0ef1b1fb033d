package chain

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/privchain/privchain/internal/xcrypto"
)

func testChain() *Chain {
	return NewChain(zerolog.Nop())
}

func TestNewChainHasGenesisOnly(t *testing.T) {
	c := testChain()
	require.Equal(t, 1, c.Height())
	require.Equal(t, uint64(0), c.Tip().Index)
}

func TestAddTransactionRejectsInvalid(t *testing.T) {
	c := testChain()
	tx, err := NewTransaction("alice-pub", "bob-pub", 10)
	require.NoError(t, err)

	err = c.AddTransaction(tx)
	require.ErrorIs(t, err, ErrInvalidTransaction)
	require.Equal(t, 0, c.PendingLen())
}

func TestMineAppendsCoinbaseOnEmptyPool(t *testing.T) {
	c := testChain()
	block, err := c.Mine("miner-pub")
	require.NoError(t, err)
	require.Len(t, block.Transactions, 1)
	require.Equal(t, SystemSender, block.Transactions[0].Sender)
	require.Equal(t, 2, c.Height())
}

func TestEndToEndTransferAndBalance(t *testing.T) {
	c := testChain()
	pub, priv, err := xcrypto.GenerateKeypair()
	require.NoError(t, err)
	senderHex := xcrypto.EncodeHex(pub)

	tx, err := NewTransaction(senderHex, "bob-pub", 10)
	require.NoError(t, err)
	require.NoError(t, tx.Sign(priv))

	require.NoError(t, c.AddTransaction(tx))
	require.Equal(t, 1, c.PendingLen())

	block, err := c.Mine(senderHex)
	require.NoError(t, err)
	require.Len(t, block.Transactions, 2)
	require.Equal(t, 0, c.PendingLen())

	// sender spent 10 with no prior credit, then received the 50 reward:
	// -10 + 50 = 40.
	require.Equal(t, uint64(40), c.GetBalance(senderHex))
	require.Equal(t, uint64(10), c.GetBalance("bob-pub"))
}

func TestMineAbortsOnInvalidProofAndDropsBatch(t *testing.T) {
	c := testChain()
	pub, priv, err := xcrypto.GenerateKeypair()
	require.NoError(t, err)
	senderHex := xcrypto.EncodeHex(pub)

	tx, err := NewTransaction(senderHex, "bob-pub", 10)
	require.NoError(t, err)
	require.NoError(t, tx.Sign(priv))
	tx.Proof.ProofBytes[len(tx.Proof.ProofBytes)-1] ^= 0xFF

	require.NoError(t, c.AddTransaction(tx))

	_, err = c.Mine(senderHex)
	require.ErrorIs(t, err, ErrInvalidProof)
	require.Equal(t, 0, c.PendingLen())
	require.Equal(t, 1, c.Height())
}

func TestReplaceChainRejectsEqualOrShorter(t *testing.T) {
	c := testChain()
	err := c.ReplaceChain(c.Blocks())
	require.ErrorIs(t, err, ErrChainReplacementRejected)
}

func TestReplaceChainAcceptsLongerValidCandidate(t *testing.T) {
	a := testChain()
	_, err := a.Mine("miner-a")
	require.NoError(t, err)
	_, err = a.Mine("miner-a")
	require.NoError(t, err)

	b := testChain()
	require.NoError(t, b.ReplaceChain(a.Blocks()))
	require.Equal(t, 3, b.Height())
}

func TestSaveLoadRoundTrip(t *testing.T) {
	c := testChain()
	_, err := c.Mine("miner-a")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "blockchain.json")
	require.NoError(t, c.Save(path))

	loaded, err := Load(path, zerolog.Nop())
	require.NoError(t, err)
	require.Equal(t, c.Height(), loaded.Height())
	require.Equal(t, c.Tip().Hash, loaded.Tip().Hash)
}

func TestLoadMissingFileIsSnapshotError(t *testing.T) {
	_, err := Load(filepath.Join(os.TempDir(), "does-not-exist-privchain.json"), zerolog.Nop())
	require.ErrorIs(t, err, ErrSnapshotIO)
}

func TestNewChainWithDifficultyOverridesTarget(t *testing.T) {
	c := NewChainWithDifficulty(1, zerolog.Nop())
	block, err := c.Mine("miner-a")
	require.NoError(t, err)
	require.True(t, len(block.Hash) > 0 && block.Hash[0] == '0')
}

func TestNewChainWithDifficultyZeroFallsBackToDefault(t *testing.T) {
	c := NewChainWithDifficulty(0, zerolog.Nop())
	require.Equal(t, DefaultDifficulty, c.difficulty)
}
