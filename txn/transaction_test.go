package txn_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/epfer-chain/sidechain/txn"
)

func TestHashDeterministicForSameInputs(t *testing.T) {
	a := txn.New(1, "tx1", txn.WithSender("alice"), txn.WithContract("tok"), txn.WithAction("mint"), txn.WithPayload(`{"v":1}`))
	b := txn.New(1, "tx1", txn.WithSender("alice"), txn.WithContract("tok"), txn.WithAction("mint"), txn.WithPayload(`{"v":1}`))
	require.Equal(t, a.Hash(), b.Hash())
}

func TestHashTreatsAbsentFieldsAsNullLiteral(t *testing.T) {
	withNullSender := txn.New(1, "tx1", txn.WithContract("tok"))
	withLiteralNullString := txn.New(1, "tx1", txn.WithSender("null"), txn.WithContract("tok"))
	require.Equal(t, withNullSender.Hash(), withLiteralNullString.Hash())
}

func TestAddLogsOnlyOnce(t *testing.T) {
	tx := txn.New(1, "tx1", txn.WithSender("alice"))
	tx.AddLogs(`{"events":[]}`)
	require.Equal(t, `{"events":[]}`, tx.Logs())
	require.Panics(t, func() { tx.AddLogs(`{"events":[]}`) })
}

func TestReplayLogsOverwritesWithoutPanicking(t *testing.T) {
	tx := txn.New(1, "tx1", txn.WithSender("alice"))
	tx.AddLogs(`{"events":[]}`)
	require.NotPanics(t, func() { tx.ReplayLogs(`{"events":[{"event":"m","data":1}]}`) })
	require.Equal(t, `{"events":[{"event":"m","data":1}]}`, tx.Logs())
}

func TestMarshalJSONNullFields(t *testing.T) {
	tx := txn.New(5, "tx1")
	raw, err := json.Marshal(tx)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.Nil(t, decoded["sender"])
	require.Nil(t, decoded["contract"])
	require.Nil(t, decoded["action"])
	require.Nil(t, decoded["payload"])
	require.Equal(t, float64(5), decoded["refBlockNumber"])
}
