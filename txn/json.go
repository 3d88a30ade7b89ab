package txn

import "encoding/json"

// wireTransaction is the JSON shape used both when hashing a block's
// transaction list (spec.md §4.F: "SHA-256 of previousHash || timestamp ||
// JSON(transactions)") and when a surrounding layer inspects a block. Null
// fields marshal as JSON null, matching the hash's "null" placeholder
// convention at the field level.
type wireTransaction struct {
	RefBlockNumber int     `json:"refBlockNumber"`
	TransactionID  string  `json:"transactionId"`
	Sender         *string `json:"sender"`
	Contract       *string `json:"contract"`
	Action         *string `json:"action"`
	Payload        *string `json:"payload"`
	Hash           string  `json:"hash"`
	Logs           string  `json:"logs"`
}

func ptrIf(present bool, v string) *string {
	if !present {
		return nil
	}
	return &v
}

// MarshalJSON implements json.Marshaler so that encoding/json.Marshal on a
// []*Transaction (or *Transaction) produces the exact wire shape the block
// hash is computed over.
func (t *Transaction) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireTransaction{
		RefBlockNumber: t.RefBlockNumber,
		TransactionID:  t.TransactionID,
		Sender:         ptrIf(t.HasSender, t.Sender),
		Contract:       ptrIf(t.HasContract, t.Contract),
		Action:         ptrIf(t.HasAction, t.Action),
		Payload:        ptrIf(t.HasPayload, t.Payload),
		Hash:           t.hash,
		Logs:           t.logs,
	})
}
