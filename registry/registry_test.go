package registry_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/epfer-chain/sidechain/registry"
	"github.com/epfer-chain/sidechain/state"
)

func TestInsertAndGet(t *testing.T) {
	r := registry.New(state.New())
	require.NoError(t, r.Insert(registry.Entry{Name: "tok", Owner: "alice", Code: "Y29kZQ=="}))

	e, err := r.Get("tok")
	require.NoError(t, err)
	require.NotNil(t, e)
	require.Equal(t, "alice", e.Owner)
}

func TestInsertDuplicate(t *testing.T) {
	r := registry.New(state.New())
	require.NoError(t, r.Insert(registry.Entry{Name: "tok", Owner: "alice", Code: "Y29kZQ=="}))
	err := r.Insert(registry.Entry{Name: "tok", Owner: "bob", Code: "eA=="})
	require.ErrorIs(t, err, registry.ErrDuplicate)
}

func TestGetMissing(t *testing.T) {
	r := registry.New(state.New())
	e, err := r.Get("nope")
	require.NoError(t, err)
	require.Nil(t, e)
}

func TestAddTableIdempotent(t *testing.T) {
	r := registry.New(state.New())
	require.NoError(t, r.Insert(registry.Entry{Name: "tok", Owner: "alice"}))

	require.NoError(t, r.AddTable("tok", "tok_bal"))
	require.NoError(t, r.AddTable("tok", "tok_bal"))

	e, err := r.Get("tok")
	require.NoError(t, err)
	require.Equal(t, []string{"tok_bal"}, e.Tables)
	require.True(t, e.OwnsTable("tok_bal"))
	require.False(t, e.OwnsTable("tok_other"))
}
