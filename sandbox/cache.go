package sandbox

import (
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/xid"

	"github.com/epfer-chain/sidechain/hashutil"
)

// defaultCacheSize bounds how many distinct compiled artifacts are kept
// warm at once. A contract's source is compiled the first time the owning
// chain encounters it, and every later block that invokes the same
// contract, including during replay, hits this cache.
const defaultCacheSize = 256

// Cache memoizes compiled Artifacts by the content hash of their decoded
// (pre-wrap) source, so identical contract code compiled twice (e.g. once
// live, once during replay) only pays goja's compile cost once.
type Cache struct {
	entries *lru.Cache[string, *cacheEntry]
}

type cacheEntry struct {
	id       xid.ID // correlation id returned by CompileCached, not hashed
	artifact *Artifact
}

// NewCache builds an artifact cache with the default capacity.
func NewCache() *Cache {
	c, err := lru.New[string, *cacheEntry](defaultCacheSize)
	if err != nil {
		// only possible if defaultCacheSize <= 0, a programmer error.
		panic(err)
	}
	return &Cache{entries: c}
}

// CompileCached returns the cached Artifact for userSource if present,
// compiling and storing it otherwise. The returned id is a short
// correlation id for debug logging; it has no bearing on hashing or
// determinism.
func (c *Cache) CompileCached(userSource string) (*Artifact, xid.ID, error) {
	key := hashutil.Hex(userSource)
	if e, ok := c.entries.Get(key); ok {
		return e.artifact, e.id, nil
	}
	artifact, err := Compile(userSource)
	if err != nil {
		return nil, xid.ID{}, err
	}
	id := xid.New()
	c.entries.Add(key, &cacheEntry{id: id, artifact: artifact})
	return artifact, id, nil
}
