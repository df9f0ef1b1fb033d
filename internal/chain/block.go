package chain

import (
	"encoding/json"
	"time"

	"github.com/privchain/privchain/internal/xcrypto"
)

// GenesisPreviousHash is the sentinel previous_hash value for block 0.
const GenesisPreviousHash = "0"

// Block is an indexed, hash-linked container of transactions with a
// proof-of-work nonce.
type Block struct {
	Index        uint64         `json:"index"`
	Timestamp    int64          `json:"timestamp"`
	PreviousHash string         `json:"previous_hash"`
	Nonce        uint64         `json:"nonce"`
	Transactions []*Transaction `json:"transactions"`
	Hash         string         `json:"hash"`
}

// newBlock constructs a block with nonce 0 and an initial hash. Proof of
// work, if any, is applied by the caller by mutating Nonce and calling
// ComputeHash again.
func newBlock(index uint64, previousHash string, txs []*Transaction) *Block {
	if txs == nil {
		txs = []*Transaction{}
	}
	b := &Block{
		Index:        index,
		Timestamp:    time.Now().UnixMilli(),
		PreviousHash: previousHash,
		Nonce:        0,
		Transactions: txs,
	}
	b.Hash = b.ComputeHash()
	return b
}

// newGenesisBlock builds the deterministic first block. No proof of work
// is applied to it; its hash never needs to satisfy the difficulty target.
// Its timestamp is fixed at zero, so every node builds the same genesis.
func newGenesisBlock() *Block {
	b := newBlock(0, GenesisPreviousHash, []*Transaction{})
	b.Timestamp = 0
	b.Hash = ""
	b.Hash = b.ComputeHash()
	return b
}

// ComputeHash is the SHA-256 hex digest of the block's canonical JSON
// serialization, including whatever value Hash currently holds. This is a
// deliberately preserved quirk: the hash is a function of a field that
// changes on every proof-of-work iteration, which is cryptographically
// weak. It is kept as-is rather than silently "fixed".
func (b *Block) ComputeHash() string {
	data, err := json.Marshal(b)
	if err != nil {
		// json.Marshal can only fail here on unsupported types, which
		// Block never has; treat it as unreachable.
		return ""
	}
	return xcrypto.HashHex(data)
}

func (b *Block) clone() *Block {
	cp := *b
	cp.Transactions = append([]*Transaction(nil), b.Transactions...)
	return &cp
}
