package state

// Collection is a named, ordered set of documents. Insertion order is kept
// (not a hash map) so that Find results, and therefore replay, are
// reproducible independent of Go's map iteration order.
type Collection struct {
	name string
	docs []Doc
}

func newCollection(name string) *Collection {
	return &Collection{name: name}
}

// Name returns the collection's fully-qualified name.
func (c *Collection) Name() string {
	return c.name
}

// Insert appends a deep copy of doc to the collection.
func (c *Collection) Insert(doc Doc) error {
	nd, err := normalizeDoc(doc)
	if err != nil {
		return err
	}
	c.docs = append(c.docs, nd)
	return nil
}

// Find returns deep copies of every document matching q, in insertion
// order.
func (c *Collection) Find(q Query) ([]Doc, error) {
	out := make([]Doc, 0)
	for _, d := range c.docs {
		if matches(d, q) {
			cp, err := normalizeDoc(d)
			if err != nil {
				return nil, err
			}
			out = append(out, cp)
		}
	}
	return out, nil
}

// FindOne returns a deep copy of the first document matching q, or nil if
// none match.
func (c *Collection) FindOne(q Query) (Doc, error) {
	for _, d := range c.docs {
		if matches(d, q) {
			return normalizeDoc(d)
		}
	}
	return nil, nil
}

// Update replaces the fields of the first document matching q with the
// fields in patch (a shallow merge), satisfying the state store's external
// interface contract (spec.md §6: insert/update/find/findOne). The
// contract-facing host object exposes no update; the registry's AddTable
// is the caller that issues updates.
func (c *Collection) Update(q Query, patch Doc) (bool, error) {
	for i, d := range c.docs {
		if matches(d, q) {
			merged := make(Doc, len(d)+len(patch))
			for k, v := range d {
				merged[k] = v
			}
			for k, v := range patch {
				merged[k] = v
			}
			nd, err := normalizeDoc(merged)
			if err != nil {
				return false, err
			}
			c.docs[i] = nd
			return true, nil
		}
	}
	return false, nil
}

// Len reports the number of documents currently stored.
func (c *Collection) Len() int {
	return len(c.docs)
}
