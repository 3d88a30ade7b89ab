package executor

import (
	"github.com/epfer-chain/sidechain/registry"
	"github.com/epfer-chain/sidechain/sandbox"
	"github.com/epfer-chain/sidechain/state"
)

// tableBinding adapts a state.Collection to the sandbox's TableBinding
// shape, the only place map[string]interface{} crosses into state.Doc and
// back.
func tableBinding(col *state.Collection) *sandbox.TableBinding {
	return &sandbox.TableBinding{
		Insert: func(doc map[string]interface{}) error {
			return col.Insert(state.Doc(doc))
		},
		Find: func(q map[string]interface{}) ([]map[string]interface{}, error) {
			docs, err := col.Find(state.Query(q))
			if err != nil {
				return nil, err
			}
			out := make([]map[string]interface{}, len(docs))
			for i, d := range docs {
				out[i] = map[string]interface{}(d)
			}
			return out, nil
		},
		FindOne: func(q map[string]interface{}) (map[string]interface{}, error) {
			d, err := col.FindOne(state.Query(q))
			if err != nil {
				return nil, err
			}
			if d == nil {
				return nil, nil
			}
			return map[string]interface{}(d), nil
		},
	}
}

// createTableBinding is only ever handed to deploy-mode Bindings: creating
// a table is an owner-gated, deploy-bootstrap-only operation (spec.md
// §4.D). Every table created this way is recorded into the contract's
// registry entry so later invoke calls can enforce ownership.
func (ex *Executor) createTableBinding(contract string) func(name string) (*sandbox.TableBinding, error) {
	return func(name string) (*sandbox.TableBinding, error) {
		fq := state.TableName(contract, name)
		col := ex.store.GetOrCreateCollection(fq)
		if err := ex.registry.AddTable(contract, fq); err != nil {
			return nil, err
		}
		return tableBinding(col), nil
	}
}

// getTableBinding is only ever handed to invoke-mode Bindings: a contract
// may only open tables it owns, per entry.Tables recorded at deploy time.
func (ex *Executor) getTableBinding(entry *registry.Entry) func(name string) (*sandbox.TableBinding, bool) {
	return func(name string) (*sandbox.TableBinding, bool) {
		fq := state.TableName(entry.Name, name)
		if !entry.OwnsTable(fq) {
			return nil, false
		}
		col, ok := ex.store.GetCollection(fq)
		if !ok {
			return nil, false
		}
		return tableBinding(col), true
	}
}

// findInTableBinding backs db.findInTable(contract, table, q), available
// in every mode: reading another contract's table is unrestricted, only
// creating/opening one for writes is owner-gated.
func (ex *Executor) findInTableBinding() func(contract, table string, q map[string]interface{}) ([]map[string]interface{}, error) {
	return func(contract, table string, q map[string]interface{}) ([]map[string]interface{}, error) {
		col, ok := ex.store.GetCollection(state.TableName(contract, table))
		if !ok {
			return nil, nil
		}
		docs, err := col.Find(state.Query(q))
		if err != nil {
			return nil, err
		}
		out := make([]map[string]interface{}, len(docs))
		for i, d := range docs {
			out[i] = map[string]interface{}(d)
		}
		return out, nil
	}
}

func (ex *Executor) findOneInTableBinding() func(contract, table string, q map[string]interface{}) (map[string]interface{}, error) {
	return func(contract, table string, q map[string]interface{}) (map[string]interface{}, error) {
		col, ok := ex.store.GetCollection(state.TableName(contract, table))
		if !ok {
			return nil, nil
		}
		d, err := col.FindOne(state.Query(q))
		if err != nil {
			return nil, err
		}
		if d == nil {
			return nil, nil
		}
		return map[string]interface{}(d), nil
	}
}
