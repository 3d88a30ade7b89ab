package state

import "golang.org/x/xerrors"

// ErrCollectionExists is returned by CreateCollection when a collection of
// that name has already been created.
var ErrCollectionExists = xerrors.New("collection already exists")

// ErrNoSuchCollection names the condition of a collection that was never
// created. Store's own lookups do not return it: GetCollection reports a
// missing collection through its ok result.
var ErrNoSuchCollection = xerrors.New("no such collection")
