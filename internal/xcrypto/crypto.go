// Package xcrypto holds the primitive crypto operations shared by the
// rest of the node: content hashing, Ed25519 signing and verification,
// and hex codec helpers.
package xcrypto

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
)

// HashHex concatenates parts and returns the lowercase hex SHA-256 digest.
func HashHex(parts ...[]byte) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write(p)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// GenerateKeypair produces a fresh Ed25519 keypair.
func GenerateKeypair() (ed25519.PublicKey, ed25519.PrivateKey, error) {
	return ed25519.GenerateKey(rand.Reader)
}

// Sign signs message with priv and returns the raw 64-byte signature.
func Sign(priv ed25519.PrivateKey, message []byte) []byte {
	return ed25519.Sign(priv, message)
}

// Verify reports whether signature is a valid Ed25519 signature of message
// under pubHex. Any decode error (bad hex, wrong key length, wrong
// signature length) collapses to false rather than propagating.
func Verify(pubHex string, message []byte, signatureHex string) bool {
	pubBytes, err := hex.DecodeString(pubHex)
	if err != nil || len(pubBytes) != ed25519.PublicKeySize {
		return false
	}
	sigBytes, err := hex.DecodeString(signatureHex)
	if err != nil || len(sigBytes) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(pubBytes), message, sigBytes)
}

// EncodeHex is a thin wrapper kept alongside Sign/Verify so callers never
// reach for encoding/hex directly when turning key or signature bytes into
// the wire representation.
func EncodeHex(b []byte) string {
	return hex.EncodeToString(b)
}

// DecodeHex reports ok=false instead of an error, matching the
// collapse-to-false contract the rest of the package follows.
func DecodeHex(s string) (b []byte, ok bool) {
	decoded, err := hex.DecodeString(s)
	if err != nil {
		return nil, false
	}
	return decoded, true
}
