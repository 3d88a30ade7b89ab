package executor

import (
	"encoding/json"

	"github.com/epfer-chain/sidechain/sandbox"
)

// logEvent is the wire shape of one entry in logs.events.
type logEvent struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

func eventsLogs(events []sandbox.Event) string {
	out := make([]logEvent, len(events))
	for i, e := range events {
		out[i] = logEvent{Event: e.Event, Data: e.Data}
	}
	raw, err := json.Marshal(struct {
		Events []logEvent `json:"events"`
	}{Events: out})
	if err != nil {
		// out is built entirely from JSON-safe values already normalized
		// by the state store / sandbox boundary; Marshal cannot fail here.
		panic(err)
	}
	return string(raw)
}

func errorLogs(message string) string {
	raw, err := json.Marshal(struct {
		Error string `json:"error"`
	}{Error: message})
	if err != nil {
		panic(err)
	}
	return string(raw)
}

func faultLogs(f *sandbox.Fault) string {
	raw, err := json.Marshal(struct {
		Error struct {
			Name    string `json:"name"`
			Message string `json:"message"`
		} `json:"error"`
	}{Error: struct {
		Name    string `json:"name"`
		Message string `json:"message"`
	}{Name: f.Name, Message: f.Message}})
	if err != nil {
		panic(err)
	}
	return string(raw)
}
