// Package chain implements the transaction pool, block, and chain data
// model: the consensus and replication core of the node.
package chain

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/privchain/privchain/internal/zkproof"
)

// BatchSize is the maximum number of pending transactions dequeued per
// mining step (the coinbase is added on top of this).
const BatchSize = 10

// DefaultDifficulty is the number of leading '0' hex characters required
// of a mined block's hash.
const DefaultDifficulty = 2

// Chain is an ordered, append-only sequence of blocks plus a FIFO pending
// transaction queue. All mutating operations hold mu for their duration;
// mining's proof-of-work loop runs inline and does not yield the lock
// mid-search.
type Chain struct {
	mu         sync.Mutex
	blocks     []*Block
	pending    []*Transaction
	difficulty int
	log        zerolog.Logger
}

// NewChain produces a chain containing only the deterministic genesis
// block and an empty pending queue at DefaultDifficulty.
func NewChain(log zerolog.Logger) *Chain {
	return NewChainWithDifficulty(DefaultDifficulty, log)
}

// NewChainWithDifficulty is NewChain with an explicit difficulty, used
// when a caller overrides the default (e.g. from process configuration).
// A non-positive difficulty falls back to DefaultDifficulty.
func NewChainWithDifficulty(difficulty int, log zerolog.Logger) *Chain {
	if difficulty <= 0 {
		difficulty = DefaultDifficulty
	}
	return &Chain{
		blocks:     []*Block{newGenesisBlock()},
		pending:    nil,
		difficulty: difficulty,
		log:        log,
	}
}

// Height returns the number of blocks in the chain (genesis counts as 1).
func (c *Chain) Height() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.blocks)
}

// Tip returns a copy of the current last block.
func (c *Chain) Tip() *Block {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.blocks[len(c.blocks)-1].clone()
}

// Blocks returns a shallow copy of the chain's block slice, suitable for
// gossiping to peers.
func (c *Chain) Blocks() []*Block {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*Block, len(c.blocks))
	for i, b := range c.blocks {
		out[i] = b.clone()
	}
	return out
}

// PendingLen reports the current pool depth.
func (c *Chain) PendingLen() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

// AddTransaction is the only entry point by which transactions enter the
// pool. An invalid transaction is logged and dropped; the pool is left
// unchanged.
func (c *Chain) AddTransaction(tx *Transaction) error {
	if !tx.IsValid() {
		c.log.Info().Str("sender", tx.Sender).Msg("dropping invalid transaction")
		return ErrInvalidTransaction
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending = append(c.pending, tx)
	return nil
}

// Mine dequeues up to BatchSize pending transactions, re-verifies their
// proofs, appends a coinbase reward, runs proof-of-work, and appends the
// resulting block to the chain. On a proof failure the whole dequeued
// batch is discarded (not re-queued) and mining aborts with
// ErrInvalidProof.
func (c *Chain) Mine(minerAddress string) (*Block, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	tip := c.blocks[len(c.blocks)-1]

	n := len(c.pending)
	if n > BatchSize {
		n = BatchSize
	}
	batch := c.pending[:n]
	remaining := append([]*Transaction(nil), c.pending[n:]...)

	for _, tx := range batch {
		if !zkproof.Verify(tx.Proof) {
			c.pending = remaining
			c.log.Warn().Msg("mining aborted: invalid proof in dequeued batch")
			return nil, ErrInvalidProof
		}
	}

	reward, err := NewRewardTransaction(minerAddress)
	if err != nil {
		c.pending = remaining
		return nil, err
	}

	txs := make([]*Transaction, 0, len(batch)+1)
	txs = append(txs, batch...)
	txs = append(txs, reward)

	block := newBlock(uint64(len(c.blocks)), tip.Hash, txs)
	target := strings.Repeat("0", c.difficulty)
	for !strings.HasPrefix(block.Hash, target) {
		block.Nonce++
		block.Hash = block.ComputeHash()
	}

	c.blocks = append(c.blocks, block)
	c.pending = remaining

	c.log.Info().Uint64("block_index", block.Index).Int("tx_count", len(txs)).Msg("mined block")
	return block.clone(), nil
}

// GetBalance derives address's balance by scanning every transaction in
// every block: subtract amount when address is the sender, add when it is
// the recipient. The running total is signed throughout the scan and
// clamped to zero only once, at the end.
func (c *Chain) GetBalance(address string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	var total int64
	for _, b := range c.blocks {
		for _, tx := range b.Transactions {
			if tx.Sender == address {
				total -= int64(tx.Amount)
			}
			if tx.Recipient == address {
				total += int64(tx.Amount)
			}
		}
	}
	if total < 0 {
		return 0
	}
	return uint64(total)
}

// snapshot is the self-describing JSON document persisted to disk and
// exchanged as the chain's on-disk representation.
type snapshot struct {
	Chain               []*Block       `json:"chain"`
	PendingTransactions []*Transaction `json:"pending_transactions"`
	Difficulty          int            `json:"difficulty"`
}

// Save writes the whole chain and pending queue to path as JSON. The
// format is not integrity-checked; Load trusts the file.
func (c *Chain) Save(path string) error {
	c.mu.Lock()
	snap := snapshot{
		Chain:               c.blocks,
		PendingTransactions: c.pending,
		Difficulty:          c.difficulty,
	}
	c.mu.Unlock()

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSnapshotIO, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("%w: %v", ErrSnapshotIO, err)
	}
	return nil
}

// Load reads a chain snapshot from path. Unknown JSON fields are
// tolerated by encoding/json's default decoding behavior.
func Load(path string, log zerolog.Logger) (*Chain, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSnapshotIO, err)
	}
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSnapshotIO, err)
	}
	if snap.Difficulty == 0 {
		snap.Difficulty = DefaultDifficulty
	}
	return &Chain{
		blocks:     snap.Chain,
		pending:    snap.PendingTransactions,
		difficulty: snap.Difficulty,
		log:        log,
	}, nil
}

// ReplaceChain accepts candidate iff it is strictly longer than the
// current chain and structurally valid: genesis matches the local genesis, every block's
// previous_hash matches its predecessor's hash, and every non-genesis
// block's hash satisfies the difficulty target. On accept the chain is
// replaced atomically; on reject the chain is left unchanged.
func (c *Chain) ReplaceChain(candidate []*Block) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(candidate) <= len(c.blocks) {
		return ErrChainReplacementRejected
	}
	if !c.isStructurallyValid(candidate) {
		return ErrChainReplacementRejected
	}
	c.blocks = candidate
	c.log.Info().Int("new_height", len(candidate)).Msg("replaced chain")
	return nil
}

// TryAppendBlock appends block if it extends the current tip: matching
// previous_hash, valid proof-of-work, and index exactly one greater.
// Otherwise the block is ignored.
func (c *Chain) TryAppendBlock(block *Block) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	tip := c.blocks[len(c.blocks)-1]
	if block.PreviousHash != tip.Hash {
		return false
	}
	if block.Index != tip.Index+1 {
		return false
	}
	if !strings.HasPrefix(block.Hash, strings.Repeat("0", c.difficulty)) {
		return false
	}
	c.blocks = append(c.blocks, block)
	return true
}

func (c *Chain) isStructurallyValid(candidate []*Block) bool {
	if len(candidate) == 0 {
		return false
	}
	genesis := candidate[0]
	if genesis.Index != 0 || genesis.PreviousHash != GenesisPreviousHash || len(genesis.Transactions) != 0 {
		return false
	}
	if len(c.blocks) > 0 && genesis.Hash != c.blocks[0].Hash {
		return false
	}
	target := strings.Repeat("0", c.difficulty)
	for i := 1; i < len(candidate); i++ {
		prev, cur := candidate[i-1], candidate[i]
		if cur.PreviousHash != prev.Hash {
			return false
		}
		if cur.Index != prev.Index+1 {
			return false
		}
		if !strings.HasPrefix(cur.Hash, target) {
			return false
		}
	}
	return true
}
