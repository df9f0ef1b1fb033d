package chain

import (
	"fmt"

	"crypto/ed25519"

	"github.com/privchain/privchain/internal/xcrypto"
	"github.com/privchain/privchain/internal/zkproof"
)

// SystemSender marks a coinbase/reward transaction; such transactions
// carry no signature.
const SystemSender = "System"

// MiningReward is credited to the miner of a block via a coinbase
// transaction.
const MiningReward = 50

// Transaction is an immutable signed value transfer with an attached
// zero-knowledge proof over its amount.
type Transaction struct {
	Sender    string        `json:"sender"`
	Recipient string        `json:"recipient"`
	Amount    uint64        `json:"amount"`
	Signature string        `json:"signature,omitempty"`
	Proof     zkproof.Bundle `json:"proof"`
}

// NewTransaction builds an unsigned transaction with a freshly generated
// proof over amount. amount must be non-zero; zero is a soft precondition
// violation rejected here rather than at signing time.
func NewTransaction(senderHex, recipientHex string, amount uint64) (*Transaction, error) {
	if amount == 0 {
		return nil, fmt.Errorf("%w: amount must be greater than zero", ErrInvalidTransaction)
	}
	bundle, err := zkproof.Generate(amount)
	if err != nil {
		return nil, err
	}
	return &Transaction{
		Sender:    senderHex,
		Recipient: recipientHex,
		Amount:    amount,
		Proof:     bundle,
	}, nil
}

// NewRewardTransaction builds the coinbase transaction appended to every
// mined block.
func NewRewardTransaction(recipientHex string) (*Transaction, error) {
	bundle, err := zkproof.Generate(MiningReward)
	if err != nil {
		return nil, err
	}
	return &Transaction{
		Sender:    SystemSender,
		Recipient: recipientHex,
		Amount:    MiningReward,
		Proof:     bundle,
	}, nil
}

// messageDigestHex is the hex SHA-256 digest signed by Sign and checked by
// IsValid: sender, recipient and the decimal amount, concatenated.
func (t *Transaction) messageDigestHex() string {
	return xcrypto.HashHex([]byte(t.Sender), []byte(t.Recipient), []byte(fmt.Sprintf("%d", t.Amount)))
}

// Sign signs the transaction with priv. It fails with ErrWrongKey if the
// public key derived from priv does not match Sender.
func (t *Transaction) Sign(priv ed25519.PrivateKey) error {
	pub, ok := priv.Public().(ed25519.PublicKey)
	if !ok {
		return ErrWrongKey
	}
	if xcrypto.EncodeHex(pub) != t.Sender {
		return ErrWrongKey
	}
	digest := t.messageDigestHex()
	sig := xcrypto.Sign(priv, []byte(digest))
	t.Signature = xcrypto.EncodeHex(sig)
	return nil
}

// IsValid is the cheap pool-admission gate: true for coinbase
// transactions, otherwise true iff a signature is present and verifies
// against Sender. Proof verification happens separately during mining
// because it is expensive.
func (t *Transaction) IsValid() bool {
	if t.Sender == SystemSender {
		return true
	}
	if t.Signature == "" {
		return false
	}
	digest := t.messageDigestHex()
	return xcrypto.Verify(t.Sender, []byte(digest), t.Signature)
}
