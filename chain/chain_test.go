package chain_test

import (
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/epfer-chain/sidechain/chain"
	"github.com/epfer-chain/sidechain/config"
	"github.com/epfer-chain/sidechain/txn"
)

func newChain() *chain.Chain {
	return chain.New(config.Default(), zerolog.Nop())
}

func mustLogs(t *testing.T, logs string) map[string]interface{} {
	t.Helper()
	var m map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(logs), &m))
	return m
}

// The table is created in the deploy-time create action: db.createTable is
// not bound during invoke, so mint opens it with db.getTable.
const tokenSource = `actions.create=function(){db.createTable('bal');};actions.mint=function(p){const t=db.getTable('bal');t.insert({a:p.a,v:p.v});emit('m',p);};`

func deployPayload(t *testing.T, name, code string) string {
	t.Helper()
	raw, err := json.Marshal(map[string]interface{}{
		"name": name, "code": base64.StdEncoding.EncodeToString([]byte(code)), "params": nil,
	})
	require.NoError(t, err)
	return string(raw)
}

// S1
func TestGenesisChain(t *testing.T) {
	c := newChain()
	require.NotNil(t, c.GetBlockInfo(0))
	require.Equal(t, 0, c.GetBlockInfo(0).BlockNumber)
	require.Equal(t, "0", c.GetBlockInfo(0).PreviousHash)
	require.Nil(t, c.GetBlockInfo(1))

	entry, err := c.GetContract("tok")
	require.NoError(t, err)
	require.Nil(t, entry)
}

// S2
func TestDeployThenInvoke(t *testing.T) {
	c := newChain()

	tx1 := txn.New(1, "t1", txn.WithSender("alice"), txn.WithContract("contract"), txn.WithAction("deploy"), txn.WithPayload(deployPayload(t, "tok", tokenSource)))
	mintPayload, err := json.Marshal(map[string]interface{}{"a": "bob", "v": 10})
	require.NoError(t, err)
	tx2 := txn.New(1, "t2", txn.WithSender("alice"), txn.WithContract("tok"), txn.WithAction("mint"), txn.WithPayload(string(mintPayload)))

	c.CreateTransaction(tx1)
	c.CreateTransaction(tx2)
	b := c.ProducePendingTransactions("2020-01-01T00:00:00")

	require.Len(t, b.Transactions, 2)
	logs := mustLogs(t, tx2.Logs())
	events := logs["events"].([]interface{})
	require.Len(t, events, 1)
	event := events[0].(map[string]interface{})
	require.Equal(t, "m", event["event"])

	rows, err := c.FindInTable("tok", "bal", map[string]interface{}{"a": "bob"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "bob", rows[0]["a"])

	require.True(t, c.IsChainValid())
}

// S3
func TestDuplicateDeployInSameBlock(t *testing.T) {
	c := newChain()
	payload := deployPayload(t, "tok", tokenSource)
	tx1 := txn.New(1, "t1", txn.WithSender("alice"), txn.WithContract("contract"), txn.WithAction("deploy"), txn.WithPayload(payload))
	tx2 := txn.New(1, "t2", txn.WithSender("mallory"), txn.WithContract("contract"), txn.WithAction("deploy"), txn.WithPayload(payload))

	c.CreateTransaction(tx1)
	c.CreateTransaction(tx2)
	c.ProducePendingTransactions("t")

	require.NotContains(t, mustLogs(t, tx1.Logs()), "error")
	require.Equal(t, "contract already exists", mustLogs(t, tx2.Logs())["error"])

	entry, err := c.GetContract("tok")
	require.NoError(t, err)
	require.Equal(t, "alice", entry.Owner)
}

// S4
func TestReservedActionAfterDeploy(t *testing.T) {
	c := newChain()
	tx1 := txn.New(1, "t1", txn.WithSender("alice"), txn.WithContract("contract"), txn.WithAction("deploy"), txn.WithPayload(deployPayload(t, "tok", tokenSource)))
	c.CreateTransaction(tx1)
	c.ProducePendingTransactions("t")

	tx2 := txn.New(2, "t2", txn.WithSender("x"), txn.WithContract("tok"), txn.WithAction("create"), txn.WithPayload(""))
	c.CreateTransaction(tx2)
	c.ProducePendingTransactions("t2")

	require.Equal(t, "you cannot trigger the create action", mustLogs(t, tx2.Logs())["error"])
}

// S5
func TestReplayIsAFixedPoint(t *testing.T) {
	c := newChain()
	tx1 := txn.New(1, "t1", txn.WithSender("alice"), txn.WithContract("contract"), txn.WithAction("deploy"), txn.WithPayload(deployPayload(t, "tok", tokenSource)))
	mintPayload, err := json.Marshal(map[string]interface{}{"a": "bob", "v": 10})
	require.NoError(t, err)
	tx2 := txn.New(1, "t2", txn.WithSender("alice"), txn.WithContract("tok"), txn.WithAction("mint"), txn.WithPayload(string(mintPayload)))
	c.CreateTransaction(tx1)
	c.CreateTransaction(tx2)
	c.ProducePendingTransactions("2020-01-01T00:00:00")

	before := c.GetLatestBlockInfo()
	beforeHash, beforeRoot, beforeLogs := before.Hash, before.MerkleRoot, tx2.Logs()
	rowsBefore, err := c.FindInTable("tok", "bal", map[string]interface{}{"a": "bob"})
	require.NoError(t, err)

	c.ReplayBlockchain()

	after := c.GetLatestBlockInfo()
	require.Equal(t, beforeHash, after.Hash)
	require.Equal(t, beforeRoot, after.MerkleRoot)
	require.Equal(t, beforeLogs, after.Transactions[1].Logs())
	rowsAfter, err := c.FindInTable("tok", "bal", map[string]interface{}{"a": "bob"})
	require.NoError(t, err)
	if diff := cmp.Diff(rowsBefore, rowsAfter); diff != "" {
		t.Fatalf("table contents changed across replay (-before +after):\n%s", diff)
	}
	require.True(t, c.IsChainValid())
}

// S6
func TestTamperIsDetected(t *testing.T) {
	c := newChain()
	tx1 := txn.New(1, "t1", txn.WithSender("alice"), txn.WithContract("contract"), txn.WithAction("deploy"), txn.WithPayload(deployPayload(t, "tok", tokenSource)))
	mintPayload, err := json.Marshal(map[string]interface{}{"a": "bob", "v": 10})
	require.NoError(t, err)
	tx2 := txn.New(1, "t2", txn.WithSender("alice"), txn.WithContract("tok"), txn.WithAction("mint"), txn.WithPayload(string(mintPayload)))
	c.CreateTransaction(tx1)
	c.CreateTransaction(tx2)
	c.ProducePendingTransactions("2020-01-01T00:00:00")
	require.True(t, c.IsChainValid())

	c.GetBlockInfo(1).Transactions[1].Payload = `{"a":"mallory","v":999999}`
	require.False(t, c.IsChainValid())
}
