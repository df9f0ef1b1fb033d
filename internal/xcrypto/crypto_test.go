package xcrypto

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashHexDeterministic(t *testing.T) {
	a := HashHex([]byte("sender"), []byte("recipient"), []byte("10"))
	b := HashHex([]byte("sender"), []byte("recipient"), []byte("10"))
	require.Equal(t, a, b)
	require.Len(t, a, 64)
}

func TestHashHexOrderMatters(t *testing.T) {
	a := HashHex([]byte("a"), []byte("b"))
	b := HashHex([]byte("b"), []byte("a"))
	require.NotEqual(t, a, b)
}

func TestSignVerifyRoundTrip(t *testing.T) {
	pub, priv, err := GenerateKeypair()
	require.NoError(t, err)

	msg := []byte("transfer 10 units")
	sig := Sign(priv, msg)

	ok := Verify(EncodeHex(pub), msg, EncodeHex(sig))
	require.True(t, ok)
}

func TestVerifyRejectsTamperedSignature(t *testing.T) {
	pub, priv, err := GenerateKeypair()
	require.NoError(t, err)

	msg := []byte("transfer 10 units")
	sig := Sign(priv, msg)
	sigHex := EncodeHex(sig)
	tampered := []byte(sigHex)
	tampered[0] ^= 1
	if tampered[0] > 'f' {
		tampered[0] = '0'
	}

	ok := Verify(EncodeHex(pub), msg, string(tampered))
	require.False(t, ok)
}

func TestVerifyRejectsMalformedInputs(t *testing.T) {
	require.False(t, Verify("not-hex", []byte("x"), "also-not-hex"))
	require.False(t, Verify("ab", []byte("x"), "cd"))
}

func TestDecodeHex(t *testing.T) {
	b, ok := DecodeHex("deadbeef")
	require.True(t, ok)
	require.Equal(t, []byte{0xde, 0xad, 0xbe, 0xef}, b)

	_, ok = DecodeHex("zz")
	require.False(t, ok)
}
