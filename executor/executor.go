// Package executor implements deploy/invoke dispatch, the host-object
// contract a sandboxed run sees, and reentrant inter-contract calls.
package executor

import (
	"encoding/json"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/rs/zerolog"

	"github.com/epfer-chain/sidechain/registry"
	"github.com/epfer-chain/sidechain/sandbox"
	"github.com/epfer-chain/sidechain/state"
	"github.com/epfer-chain/sidechain/txn"
)

// ReservedCreateAction is the bootstrap action name no externally
// submitted transaction may invoke.
const ReservedCreateAction = "create"

// defaultMaxCallDepth bounds reentrant executeSmartContract chains
// (implementations should cap recursion depth defensively).
const defaultMaxCallDepth = 64

// Executor dispatches deploy/invoke transactions against a Store and
// Registry, running contract code in the Sandbox.
type Executor struct {
	store        *state.Store
	registry     *registry.Registry
	cache        *sandbox.Cache
	quantum      time.Duration
	logger       zerolog.Logger
	maxCallDepth int
}

// New builds an Executor over store, which must already carry the
// reserved contracts collection (state.New does this). quantum is the
// per-top-level-run wall-clock ceiling.
func New(store *state.Store, cache *sandbox.Cache, quantum time.Duration, logger zerolog.Logger) *Executor {
	return &Executor{
		store:        store,
		registry:     registry.New(store),
		cache:        cache,
		quantum:      quantum,
		logger:       logger.With().Str("component", "executor").Logger(),
		maxCallDepth: defaultMaxCallDepth,
	}
}

// frame threads the pieces of a top-level execution that reentrant calls
// must share: the shared event accumulator (so nested emits merge into
// the outer transaction's logs in emission order) and the originating
// sender (propagated unchanged through every nested call, since contracts
// never masquerade as a different caller).
type frame struct {
	depth        int
	events       *[]sandbox.Event
	originSender string
}

// Execute runs tx against the executor's state and returns its logs as a
// JSON string, ready for txn.Transaction.AddLogs. Every failure mode is
// soft, captured into the returned logs rather than panicking or
// returning an error.
func (ex *Executor) Execute(tx *txn.Transaction) string {
	if !tx.HasSender || !tx.HasContract || !tx.HasAction {
		return errorLogs(ErrMissingOperands.Error())
	}

	events := make([]sandbox.Event, 0)
	f := &frame{events: &events, originSender: tx.Sender}

	if tx.Contract == "contract" && tx.Action == "deploy" {
		return ex.deploy(f, tx)
	}
	if tx.Action == ReservedCreateAction {
		return errorLogs(ErrReservedAction.Error())
	}
	return ex.invoke(f, tx.Sender, tx.Contract, tx.Action, tx.Payload)
}

func (ex *Executor) deploy(f *frame, tx *txn.Transaction) string {
	params, err := parseDeployPayload(tx.Payload)
	if err != nil {
		return errorLogs(err.Error())
	}

	existing, err := ex.registry.Get(params.Name)
	if err != nil {
		return errorLogs(err.Error())
	}
	if existing != nil {
		return errorLogs(ErrDuplicateContract.Error())
	}

	source, err := decodeCode(params.Code)
	if err != nil {
		return errorLogs(err.Error())
	}

	artifact, _, err := ex.cache.CompileCached(source)
	if err != nil {
		if fault, ok := err.(*sandbox.Fault); ok {
			return faultLogs(fault)
		}
		return errorLogs(err.Error())
	}

	if err := ex.registry.Insert(registry.Entry{Name: params.Name, Owner: tx.Sender, Code: params.Code}); err != nil {
		return errorLogs(err.Error())
	}

	bindings := &sandbox.Bindings{
		Action:               ReservedCreateAction,
		Payload:              params.Params,
		Emit:                 ex.emitBinding(f),
		CreateTable:          ex.createTableBinding(params.Name),
		FindInTable:          ex.findInTableBinding(),
		FindOneInTable:       ex.findOneInTableBinding(),
		ExecuteSmartContract: ex.executeSmartContractBinding(f),
		Debug:                ex.debugBinding(params.Name),
	}

	if fault := sandbox.Run(artifact, bindings, ex.quantum); fault != nil {
		ex.logger.Debug().Str("contract", params.Name).Str("fault", fault.Name).Msg("deploy bootstrap faulted")
		return faultLogs(fault)
	}
	return eventsLogs(*f.events)
}

// invoke parses rawPayload (the JSON-encoded transaction payload, possibly
// empty) and dispatches to invokeValue.
func (ex *Executor) invoke(f *frame, sender, contract, action, rawPayload string) string {
	payloadValue, err := parseInvokePayload(rawPayload)
	if err != nil {
		return errorLogs(err.Error())
	}
	return ex.invokeValue(f, sender, contract, action, payloadValue)
}

// invokeValue runs contract/action against an already-decoded payload
// value. Reentrant calls go through this directly, skipping the
// JSON-string round trip a top-level transaction's payload requires.
func (ex *Executor) invokeValue(f *frame, sender, contract, action string, payloadValue interface{}) string {
	entry, err := ex.registry.Get(contract)
	if err != nil {
		return errorLogs(err.Error())
	}
	if entry == nil {
		return errorLogs(ErrUnknownContract.Error())
	}

	source, err := decodeCode(entry.Code)
	if err != nil {
		return errorLogs(err.Error())
	}
	artifact, _, err := ex.cache.CompileCached(source)
	if err != nil {
		if fault, ok := err.(*sandbox.Fault); ok {
			return faultLogs(fault)
		}
		return errorLogs(err.Error())
	}

	senderV, ownerV := sender, entry.Owner
	bindings := &sandbox.Bindings{
		Sender:               &senderV,
		Owner:                &ownerV,
		Action:               action,
		Payload:              payloadValue,
		Emit:                 ex.emitBinding(f),
		GetTable:             ex.getTableBinding(entry),
		FindInTable:          ex.findInTableBinding(),
		FindOneInTable:       ex.findOneInTableBinding(),
		ExecuteSmartContract: ex.executeSmartContractBinding(f),
		Debug:                ex.debugBinding(contract),
	}

	if fault := sandbox.Run(artifact, bindings, ex.quantum); fault != nil {
		ex.logger.Debug().Str("contract", contract).Str("action", action).Str("fault", fault.Name).Msg("invoke faulted")
		return faultLogs(fault)
	}
	return eventsLogs(*f.events)
}

func (ex *Executor) emitBinding(f *frame) func(event string, data interface{}) {
	return func(event string, data interface{}) {
		*f.events = append(*f.events, sandbox.Event{Event: event, Data: data})
	}
}

// executeSmartContractBinding wires executeSmartContract(c,a,p) to a
// nested invokeValue call sharing f's event accumulator (so nested emits
// merge into the outer logs in emission order) and f's originSender (the
// effective caller never changes across the reentrant chain). The nested
// call's own result is decoded back into a plain value so calling
// contract code can inspect {events:[...]} or {error:...} directly.
func (ex *Executor) executeSmartContractBinding(f *frame) func(contract, action string, payload interface{}) (interface{}, error) {
	return func(contract, action string, payload interface{}) (interface{}, error) {
		if f.depth+1 > ex.maxCallDepth {
			return nil, ErrCallDepthExceeded
		}
		if action == ReservedCreateAction {
			var result interface{}
			_ = json.Unmarshal([]byte(errorLogs(ErrReservedAction.Error())), &result)
			return result, nil
		}

		nested := &frame{depth: f.depth + 1, events: f.events, originSender: f.originSender}
		logs := ex.invokeValue(nested, f.originSender, contract, action, payload)

		var result interface{}
		if err := json.Unmarshal([]byte(logs), &result); err != nil {
			return nil, err
		}
		return result, nil
	}
}

func (ex *Executor) debugBinding(contract string) func(interface{}) {
	return func(v interface{}) {
		ex.logger.Debug().Str("contract", contract).Msg(spew.Sdump(v))
	}
}

// FindInTable and FindOneInTable expose the same cross-contract read
// surface a running contract gets via db.findInTable/db.findOneInTable,
// for use by the chain's own read surface and by tests.
func (ex *Executor) FindInTable(contract, table string, q map[string]interface{}) ([]map[string]interface{}, error) {
	return ex.findInTableBinding()(contract, table, q)
}

func (ex *Executor) FindOneInTable(contract, table string, q map[string]interface{}) (map[string]interface{}, error) {
	return ex.findOneInTableBinding()(contract, table, q)
}

// GetContract looks up a deployed contract's registry entry, or (nil, nil)
// if it was never deployed.
func (ex *Executor) GetContract(name string) (*registry.Entry, error) {
	return ex.registry.Get(name)
}

func parseInvokePayload(rawPayload string) (map[string]interface{}, error) {
	if rawPayload == "" {
		return map[string]interface{}{}, nil
	}
	var m map[string]interface{}
	if err := json.Unmarshal([]byte(rawPayload), &m); err != nil {
		return nil, ErrBadInvokePayload
	}
	if m == nil {
		m = map[string]interface{}{}
	}
	return m, nil
}
