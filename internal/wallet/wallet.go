// Package wallet supplements the core's external Wallet collaborator with
// a concrete Ed25519 implementation, so the command surface and
// end-to-end tests have something real to hold a keypair.
package wallet

import (
	"bufio"
	"crypto/ed25519"
	"crypto/sha256"
	"fmt"
	"os"

	"github.com/mr-tron/base58"
	"golang.org/x/crypto/ripemd160"

	"github.com/privchain/privchain/internal/xcrypto"
)

const (
	checksumLength = 4
	addressVersion = byte(0x00)
)

// Wallet holds an Ed25519 keypair. The core never inspects PrivateKey; it
// only ever sees the hex public key via PublicKeyHex.
type Wallet struct {
	PublicKey  ed25519.PublicKey
	PrivateKey ed25519.PrivateKey
}

// New generates a fresh wallet.
func New() (*Wallet, error) {
	pub, priv, err := xcrypto.GenerateKeypair()
	if err != nil {
		return nil, err
	}
	return &Wallet{PublicKey: pub, PrivateKey: priv}, nil
}

// PublicKeyHex is the on-chain identity used as a Transaction's sender or
// recipient.
func (w *Wallet) PublicKeyHex() string {
	return xcrypto.EncodeHex(w.PublicKey)
}

// Sign signs message bytes with the wallet's private key.
func (w *Wallet) Sign(message []byte) []byte {
	return xcrypto.Sign(w.PrivateKey, message)
}

// DisplayAddress is a Bitcoin-style cosmetic address — SHA-256, then
// RIPEMD-160, then a version byte and checksum, base58-encoded — for
// human display only. It is never the on-chain identity: sender and
// recipient fields always carry PublicKeyHex.
func (w *Wallet) DisplayAddress() string {
	pubHash := hash160(w.PublicKey)
	versioned := append([]byte{addressVersion}, pubHash...)
	checksum := doubleSHA256(versioned)[:checksumLength]
	full := append(versioned, checksum...)
	return base58.Encode(full)
}

func hash160(pub []byte) []byte {
	sum := sha256.Sum256(pub)
	hasher := ripemd160.New()
	hasher.Write(sum[:])
	return hasher.Sum(nil)
}

func doubleSHA256(data []byte) []byte {
	first := sha256.Sum256(data)
	second := sha256.Sum256(first[:])
	return second[:]
}

// Save writes the wallet.dat format from the node's external interfaces:
// two hex lines, public key then private key. The core never parses this
// file.
func (w *Wallet) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := fmt.Fprintln(f, xcrypto.EncodeHex(w.PublicKey)); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(f, xcrypto.EncodeHex(w.PrivateKey)); err != nil {
		return err
	}
	return nil
}

// Load reads a wallet.dat file written by Save.
func Load(path string) (*Wallet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	lines := make([]string, 0, 2)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(lines) != 2 {
		return nil, fmt.Errorf("wallet file %s: expected 2 lines, got %d", path, len(lines))
	}

	pubBytes, ok := xcrypto.DecodeHex(lines[0])
	if !ok || len(pubBytes) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("wallet file %s: malformed public key", path)
	}
	privBytes, ok := xcrypto.DecodeHex(lines[1])
	if !ok || len(privBytes) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("wallet file %s: malformed private key", path)
	}

	return &Wallet{
		PublicKey:  ed25519.PublicKey(pubBytes),
		PrivateKey: ed25519.PrivateKey(privBytes),
	}, nil
}
