// Package registry implements the contract registry: the reserved
// "contracts" collection holding {name, owner, code, tables} for every
// deployed contract (spec.md §4.D).
package registry

import (
	"sort"

	"golang.org/x/xerrors"

	"github.com/epfer-chain/sidechain/state"
)

// ErrDuplicate is returned by Insert when a contract with the given name
// is already registered.
var ErrDuplicate = xerrors.New("contract already exists")

// Entry is one deployed contract's registry record.
type Entry struct {
	Name   string
	Owner  string
	Code   string // base64-encoded compiled-artifact source, as stored
	Tables []string
}

// Registry is a thin, typed view over the state store's reserved
// "contracts" collection. Deployment is one-shot: there is no Update.
type Registry struct {
	store *state.Store
}

// New wraps store's contracts collection. store must have been created via
// state.New, which already creates the reserved collection.
func New(store *state.Store) *Registry {
	return &Registry{store: store}
}

func (r *Registry) collection() *state.Collection {
	c, ok := r.store.GetCollection(state.ContractsCollection)
	if !ok {
		// state.New always creates this collection; reaching here means a
		// Store was constructed some other way.
		panic("registry: contracts collection missing")
	}
	return c
}

// Get looks up a contract by name. Returns (nil, nil) if not registered.
func (r *Registry) Get(name string) (*Entry, error) {
	doc, err := r.collection().FindOne(state.Query{"name": name})
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, nil
	}
	return entryFromDoc(doc), nil
}

// Insert registers a brand new contract. Fails with ErrDuplicate if name is
// already taken.
func (r *Registry) Insert(e Entry) error {
	existing, err := r.Get(e.Name)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrDuplicate
	}
	return r.collection().Insert(entryToDoc(e))
}

// AddTable records that contract now owns the fully-qualified table name,
// called during deploy bootstrap whenever db.createTable succeeds. Since
// the registry exposes no Update (deployment is immutable once recorded),
// this rewrites the whole document via the collection's Update primitive,
// the one exception the spec allows ("tables created during the deploy
// bootstrap are recorded into the new registry entry's tables set").
func (r *Registry) AddTable(contract, fqTable string) error {
	e, err := r.Get(contract)
	if err != nil {
		return err
	}
	if e == nil {
		return xerrors.Errorf("add table: contract %q not registered", contract)
	}
	for _, t := range e.Tables {
		if t == fqTable {
			return nil // idempotent
		}
	}
	e.Tables = append(e.Tables, fqTable)
	sort.Strings(e.Tables)
	_, err = r.collection().Update(state.Query{"name": contract}, entryToDoc(*e))
	return err
}

func entryToDoc(e Entry) state.Doc {
	tables := make([]interface{}, len(e.Tables))
	for i, t := range e.Tables {
		tables[i] = t
	}
	return state.Doc{
		"name":   e.Name,
		"owner":  e.Owner,
		"code":   e.Code,
		"tables": tables,
	}
}

func entryFromDoc(d state.Doc) *Entry {
	e := &Entry{}
	if v, ok := d["name"].(string); ok {
		e.Name = v
	}
	if v, ok := d["owner"].(string); ok {
		e.Owner = v
	}
	if v, ok := d["code"].(string); ok {
		e.Code = v
	}
	if raw, ok := d["tables"].([]interface{}); ok {
		for _, t := range raw {
			if s, ok := t.(string); ok {
				e.Tables = append(e.Tables, s)
			}
		}
	}
	return e
}

// OwnsTable reports whether fqTable is in e.Tables.
func (e *Entry) OwnsTable(fqTable string) bool {
	for _, t := range e.Tables {
		if t == fqTable {
			return true
		}
	}
	return false
}
