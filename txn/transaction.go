// Package txn implements the immutable transaction record: construction
// computes its content hash once, and the executor may append logs to it
// exactly once during block production (spec.md §4.E).
package txn

import (
	"strconv"

	"github.com/epfer-chain/sidechain/hashutil"
)

// Transaction is immutable after New returns it, except for the single
// AddLogs call the executor makes during block production.
type Transaction struct {
	RefBlockNumber int
	TransactionID  string
	Sender         string
	Contract       string
	Action         string
	Payload        string
	HasContract    bool
	HasAction      bool
	HasPayload     bool
	HasSender      bool

	hash string
	logs string // json-encoded {events:[...]} or {error:...}; set once by AddLogs, overwritten only by ReplayLogs
}

// Option configures an optional, nullable field of a Transaction at
// construction time. The spec draws a distinction between "absent" and
// "empty string" for contract/action/payload/sender, so New takes options
// instead of bare strings.
type Option func(*Transaction)

// WithSender sets a non-null sender.
func WithSender(sender string) Option {
	return func(t *Transaction) {
		t.Sender = sender
		t.HasSender = true
	}
}

// WithContract sets a non-null contract name.
func WithContract(contract string) Option {
	return func(t *Transaction) {
		t.Contract = contract
		t.HasContract = true
	}
}

// WithAction sets a non-null action name.
func WithAction(action string) Option {
	return func(t *Transaction) {
		t.Action = action
		t.HasAction = true
	}
}

// WithPayload sets a non-null JSON-encoded payload string.
func WithPayload(payload string) Option {
	return func(t *Transaction) {
		t.Payload = payload
		t.HasPayload = true
	}
}

// New constructs a Transaction and computes its hash immediately. Fields
// left unset by opts are null, hashed as the literal string "null" per
// spec.md §3.
func New(refBlockNumber int, transactionID string, opts ...Option) *Transaction {
	t := &Transaction{RefBlockNumber: refBlockNumber, TransactionID: transactionID}
	for _, opt := range opts {
		opt(t)
	}
	t.hash = hashutil.Hex(
		strconv.Itoa(t.RefBlockNumber),
		t.TransactionID,
		t.nullable(t.Sender, t.HasSender),
		t.nullable(t.Contract, t.HasContract),
		t.nullable(t.Action, t.HasAction),
		t.nullable(t.Payload, t.HasPayload),
	)
	return t
}

func (t *Transaction) nullable(v string, present bool) string {
	if !present {
		return "null"
	}
	return v
}

// Hash returns the transaction's content hash, fixed at construction.
func (t *Transaction) Hash() string {
	return t.hash
}

// Logs returns the json-encoded execution result, or "" if AddLogs has not
// been called yet.
func (t *Transaction) Logs() string {
	return t.logs
}

// AddLogs sets the transaction's logs. The executor calls this exactly
// once, during ordinary block production; calling it twice is a
// programmer error and panics rather than silently overwriting a result
// that may already have fed into a block hash.
func (t *Transaction) AddLogs(logs string) {
	if t.logs != "" {
		panic("txn: AddLogs called more than once")
	}
	t.logs = logs
}

// ReplayLogs unconditionally overwrites logs. replayBlockchain is the one
// sanctioned exception to AddLogs's single-write rule: it re-executes
// every block from an empty state and overwrites logs/hash/merkleRoot in
// place, so a correctly stored chain is a fixed point of replay.
func (t *Transaction) ReplayLogs(logs string) {
	t.logs = logs
}
