// Package state implements the in-memory document store that backs every
// contract's tables and the contract registry itself. It is the "state
// store" external collaborator from spec.md §6, made concrete: named
// collections of JSON-like documents with equality-query find/findOne and
// insert/update.
package state

// ContractsCollection is the reserved collection name holding deployed
// contract metadata (spec.md §4.D).
const ContractsCollection = "contracts"

// Store owns every collection in the engine. A chain owns exactly one
// Store; the sandbox never retains a Store reference across contract
// runs (spec.md §5).
type Store struct {
	collections map[string]*Collection
}

// New returns a Store with the reserved contracts collection already
// created, matching spec.md §8 scenario S1 ("contracts collection present
// and empty").
func New() *Store {
	s := &Store{collections: make(map[string]*Collection)}
	_, _ = s.CreateCollection(ContractsCollection)
	return s
}

// CreateCollection creates a new, empty collection. It is not idempotent:
// asking for a name that already exists (such as the reserved collection)
// returns ErrCollectionExists, much like registry.Insert's duplicate
// detection.
func (s *Store) CreateCollection(name string) (*Collection, error) {
	if _, ok := s.collections[name]; ok {
		return nil, ErrCollectionExists
	}
	c := newCollection(name)
	s.collections[name] = c
	return c, nil
}

// GetCollection returns the collection if it exists, or (nil, false).
func (s *Store) GetCollection(name string) (*Collection, bool) {
	c, ok := s.collections[name]
	return c, ok
}

// GetOrCreateCollection returns the named collection, creating it first if
// necessary. Used by db.createTable, which spec.md §4.G describes as
// idempotent.
func (s *Store) GetOrCreateCollection(name string) *Collection {
	if c, ok := s.collections[name]; ok {
		return c
	}
	c := newCollection(name)
	s.collections[name] = c
	return c
}

// TableName builds the fully-qualified table name owned by contract,
// spec.md §3's "{contractName}_{logicalName}" convention.
func TableName(contract, logical string) string {
	return contract + "_" + logical
}
