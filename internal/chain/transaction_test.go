package chain

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/privchain/privchain/internal/xcrypto"
)

func TestNewTransactionRejectsZeroAmount(t *testing.T) {
	_, err := NewTransaction("alice", "bob", 0)
	require.ErrorIs(t, err, ErrInvalidTransaction)
}

func TestSignThenIsValid(t *testing.T) {
	pub, priv, err := xcrypto.GenerateKeypair()
	require.NoError(t, err)

	tx, err := NewTransaction(xcrypto.EncodeHex(pub), "bob", 10)
	require.NoError(t, err)
	require.False(t, tx.IsValid())

	require.NoError(t, tx.Sign(priv))
	require.True(t, tx.IsValid())
}

func TestSignRejectsWrongKey(t *testing.T) {
	_, priv, err := xcrypto.GenerateKeypair()
	require.NoError(t, err)

	tx, err := NewTransaction("not-the-matching-pubkey", "bob", 10)
	require.NoError(t, err)

	require.ErrorIs(t, tx.Sign(priv), ErrWrongKey)
}

func TestTamperedSignatureFailsValidation(t *testing.T) {
	pub, priv, err := xcrypto.GenerateKeypair()
	require.NoError(t, err)

	tx, err := NewTransaction(xcrypto.EncodeHex(pub), "bob", 10)
	require.NoError(t, err)
	require.NoError(t, tx.Sign(priv))

	sig := []byte(tx.Signature)
	sig[0] ^= 1
	if sig[0] > 'f' {
		sig[0] = '0'
	}
	tx.Signature = string(sig)

	require.False(t, tx.IsValid())
}

func TestRewardTransactionAlwaysValid(t *testing.T) {
	tx, err := NewRewardTransaction("miner-pubkey")
	require.NoError(t, err)
	require.True(t, tx.IsValid())
	require.Equal(t, uint64(MiningReward), tx.Amount)
	require.Equal(t, SystemSender, tx.Sender)
}
