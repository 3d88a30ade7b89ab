// Package block implements the ordered batch of transactions that
// produces itself by running each transaction through an Executor, then
// fixes its own hash and Merkle root.
package block

import (
	"encoding/json"

	"github.com/epfer-chain/sidechain/executor"
	"github.com/epfer-chain/sidechain/hashutil"
	"github.com/epfer-chain/sidechain/merkle"
	"github.com/epfer-chain/sidechain/txn"
)

// GenesisPreviousHash is the literal predecessor hash the genesis block
// carries, since it has no real predecessor.
const GenesisPreviousHash = "0"

// Block is an ordered batch of transactions. Once appended to a chain it
// is never mutated; replay only ever rebuilds a fresh Block of the same
// shape from the same inputs.
type Block struct {
	BlockNumber  int
	PreviousHash string
	Timestamp    string
	Transactions []*txn.Transaction
	Hash         string
	MerkleRoot   string
}

// Genesis builds block 0: previousHash "0", no transactions, timestamp
// supplied by the caller (config.GenesisTimestamp).
func Genesis(timestamp string) *Block {
	b := &Block{
		BlockNumber:  0,
		PreviousHash: GenesisPreviousHash,
		Timestamp:    timestamp,
		Transactions: []*txn.Transaction{},
	}
	b.finalize()
	return b
}

// Produce dispatches every transaction to ex in order, attaching each
// one's logs, then finalises the block's hash and Merkle root. Order
// matters: a later transaction may observe state mutations an earlier
// one made.
func Produce(blockNumber int, previousHash, timestamp string, transactions []*txn.Transaction, ex *executor.Executor) *Block {
	for _, tx := range transactions {
		tx.AddLogs(ex.Execute(tx))
	}
	b := &Block{
		BlockNumber:  blockNumber,
		PreviousHash: previousHash,
		Timestamp:    timestamp,
		Transactions: transactions,
	}
	b.finalize()
	return b
}

// ReplayProduce rebuilds a block from transactions whose logs have
// already been set once, overwriting them via Transaction.ReplayLogs
// instead of the single-write AddLogs. Used exclusively by chain's
// replayBlockchain.
func ReplayProduce(blockNumber int, previousHash, timestamp string, transactions []*txn.Transaction, ex *executor.Executor) *Block {
	for _, tx := range transactions {
		tx.ReplayLogs(ex.Execute(tx))
	}
	b := &Block{
		BlockNumber:  blockNumber,
		PreviousHash: previousHash,
		Timestamp:    timestamp,
		Transactions: transactions,
	}
	b.finalize()
	return b
}

func (b *Block) finalize() {
	b.Hash = b.RecomputeHash()
	b.MerkleRoot = b.RecomputeMerkleRoot()
}

// RecomputeHash returns SHA256(previousHash || timestamp || JSON(transactions))
// over the block's current transaction contents (including whatever logs
// they carry right now). isChainValid and replay call this to check a
// stored block's hash is still a fixed point.
func (b *Block) RecomputeHash() string {
	raw, err := json.Marshal(b.Transactions)
	if err != nil {
		// Transaction's MarshalJSON only emits JSON-safe scalars and the
		// already-normalized logs string; this cannot fail.
		panic(err)
	}
	return hashutil.Hex(b.PreviousHash, b.Timestamp, string(raw))
}

// RecomputeMerkleRoot rebuilds the Merkle root over the block's current
// transaction hashes.
func (b *Block) RecomputeMerkleRoot() string {
	leaves := make([]string, len(b.Transactions))
	for i, tx := range b.Transactions {
		leaves[i] = tx.Hash()
	}
	return merkle.Root(leaves)
}
