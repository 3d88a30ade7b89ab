// Package chain ties genesis, the pending-transaction queue, block
// production, integrity verification and replay into the single object a
// client submits transactions to.
package chain

import (
	"github.com/rs/zerolog"

	"github.com/epfer-chain/sidechain/block"
	"github.com/epfer-chain/sidechain/config"
	"github.com/epfer-chain/sidechain/executor"
	"github.com/epfer-chain/sidechain/registry"
	"github.com/epfer-chain/sidechain/sandbox"
	"github.com/epfer-chain/sidechain/state"
	"github.com/epfer-chain/sidechain/txn"
)

// Chain owns the single in-memory state store, the append-only block
// list, and the pending-transaction queue. It is the sole owner of the
// engine's mutable state (spec.md §5: single-threaded, synchronous, one
// transaction at a time).
type Chain struct {
	logger zerolog.Logger
	cfg    config.Config
	cache  *sandbox.Cache

	store    *state.Store
	executor *executor.Executor

	blocks  []*block.Block
	pending []*txn.Transaction
}

// New builds a Chain with a fresh state store (only the reserved
// contracts collection present) and a genesis block already appended.
func New(cfg config.Config, logger zerolog.Logger) *Chain {
	store := state.New()
	cache := sandbox.NewCache()
	ex := executor.New(store, cache, cfg.ExecutionQuantum, logger)

	c := &Chain{
		logger:   logger.With().Str("component", "chain").Logger(),
		cfg:      cfg,
		cache:    cache,
		store:    store,
		executor: ex,
	}
	c.blocks = []*block.Block{block.Genesis(cfg.GenesisTimestamp)}
	return c
}

// CreateTransaction appends tx to the pending queue, unvalidated — the
// transaction is recorded and dispatched on the next produce, even if
// it will resolve to an error (spec.md §4.G "missing operands").
func (c *Chain) CreateTransaction(tx *txn.Transaction) {
	c.pending = append(c.pending, tx)
}

// ProducePendingTransactions snapshots and drains the pending queue,
// builds a block atop the chain's current tip with the given timestamp,
// and appends it.
func (c *Chain) ProducePendingTransactions(timestamp string) *block.Block {
	batch := c.pending
	c.pending = nil

	tip := c.blocks[len(c.blocks)-1]
	b := block.Produce(tip.BlockNumber+1, tip.Hash, timestamp, batch, c.executor)
	c.blocks = append(c.blocks, b)
	c.logger.Debug().Int("blockNumber", b.BlockNumber).Int("transactions", len(batch)).Msg("block produced")
	return b
}

// IsChainValid recomputes every non-genesis block's Merkle root and hash
// from its current transaction contents and checks the hash-linking
// invariant, returning the conjunction over the whole chain.
func (c *Chain) IsChainValid() bool {
	for i := 1; i < len(c.blocks); i++ {
		b := c.blocks[i]
		prev := c.blocks[i-1]
		if b.MerkleRoot != b.RecomputeMerkleRoot() {
			return false
		}
		if b.Hash != b.RecomputeHash() {
			return false
		}
		if b.PreviousHash != prev.Hash {
			return false
		}
	}
	return true
}

// ReplayBlockchain resets state to a fresh store containing only the
// reserved contracts collection, then re-runs produceBlock on every block
// in order (including genesis), overwriting logs/hash/merkleRoot in
// place. A correctly stored chain is a fixed point of this operation. The
// compiled-artifact cache is kept, so replay reuses artifacts compiled live.
func (c *Chain) ReplayBlockchain() {
	store := state.New()
	ex := executor.New(store, c.cache, c.cfg.ExecutionQuantum, c.logger)

	c.store = store
	c.executor = ex

	replayed := make([]*block.Block, len(c.blocks))
	previousHash := block.GenesisPreviousHash
	for i, b := range c.blocks {
		replayed[i] = block.ReplayProduce(b.BlockNumber, previousHash, b.Timestamp, b.Transactions, ex)
		previousHash = replayed[i].Hash
	}
	c.blocks = replayed
}

// GetBlockInfo returns the block at number, or nil if out of range.
func (c *Chain) GetBlockInfo(number int) *block.Block {
	if number < 0 || number >= len(c.blocks) {
		return nil
	}
	return c.blocks[number]
}

// GetLatestBlockInfo returns the chain's tip.
func (c *Chain) GetLatestBlockInfo() *block.Block {
	return c.blocks[len(c.blocks)-1]
}

// FindInTable and FindOneInTable expose the same read surface a running
// contract gets via db.findInTable/db.findOneInTable, for any caller
// sitting above the chain (e.g. an RPC layer, left as a Non-goal here).
func (c *Chain) FindInTable(contract, table string, q map[string]interface{}) ([]map[string]interface{}, error) {
	return c.executor.FindInTable(contract, table, q)
}

func (c *Chain) FindOneInTable(contract, table string, q map[string]interface{}) (map[string]interface{}, error) {
	return c.executor.FindOneInTable(contract, table, q)
}

// GetContract looks up a deployed contract's registry entry.
func (c *Chain) GetContract(name string) (*registry.Entry, error) {
	return c.executor.GetContract(name)
}
