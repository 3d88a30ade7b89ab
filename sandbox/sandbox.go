// Package sandbox is the isolated execution substrate for untrusted
// contract code (spec.md §4.C). It embeds goja, a pure-Go ECMAScript VM,
// exposing no host globals beyond the handful of fields/functions spec.md
// §4.G's Host Object table names; of the standard ECMAScript builtins,
// Date and Math.random are removed.
package sandbox

import (
	"fmt"
	"time"

	"github.com/dop251/goja"
)

// Event is one {event, data} entry emitted by a contract run via emit().
type Event struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// TableBinding is how a single "{contract}_{table}" collection is exposed
// to JS: three methods mirroring the state store's own API, bound as
// plain Go functions so goja can call them directly.
type TableBinding struct {
	Insert  func(doc map[string]interface{}) error
	Find    func(q map[string]interface{}) ([]map[string]interface{}, error)
	FindOne func(q map[string]interface{}) (map[string]interface{}, error)
}

// Bindings is everything a single contract run needs injected, built fresh
// by the executor for every transaction (and every reentrant call).
// CreateTable and GetTable are nil when spec.md's Host Object table marks
// that field absent for the current mode (deploy vs invoke); leaving the
// corresponding JS property unset means calling it surfaces the natural
// "is not a function" TypeError, converted to a FaultRuntime like any
// other script error.
type Bindings struct {
	Sender  *string
	Owner   *string
	Action  string
	Payload interface{}

	CreateTable func(name string) (*TableBinding, error)
	GetTable    func(name string) (*TableBinding, bool)

	FindInTable    func(contract, table string, q map[string]interface{}) ([]map[string]interface{}, error)
	FindOneInTable func(contract, table string, q map[string]interface{}) (map[string]interface{}, error)

	// Emit is the sole collection point for events: the caller owns the
	// accumulator it appends to. Reentrant calls (ExecuteSmartContract)
	// are expected to wire a nested run's Emit to the very same outer
	// accumulator, which is what makes nested events "merge into the
	// outer call's logs in the order they were emitted" (spec.md §4.G) --
	// it is literally one shared slice, appended to in execution order.
	Emit func(event string, data interface{})

	// ExecuteSmartContract performs the reentrant invoke. Its error return
	// is reserved for host-side wiring failures that should never
	// originate from ordinary contract misuse; contract-level failures
	// are instead folded into the returned value, mirroring the shape a
	// transaction's own logs would take ({events:[...]} or {error:...}),
	// so calling contract code can inspect and react to them.
	ExecuteSmartContract func(contract, action string, payload interface{}) (interface{}, error)

	Debug func(v interface{})
}

// Run executes artifact on a fresh goja.Runtime bound to b, enforcing
// quantum as a wall-clock ceiling. It never mutates global VM state across
// calls: every Run gets its own Runtime, matching spec.md §5's "fresh
// host-object per run". Events are collected solely through b.Emit.
func Run(artifact *Artifact, b *Bindings, quantum time.Duration) *Fault {
	rt := goja.New()

	bindGlobals(rt, b)

	done := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- fmt.Errorf("panic: %v", r)
			}
		}()
		_, err := rt.RunProgram(artifact.Program)
		done <- err
	}()

	timer := time.AfterFunc(quantum, func() {
		rt.Interrupt(FaultTimeout)
	})
	err := <-done
	timer.Stop()

	if err == nil {
		return nil
	}
	return faultFromError(err)
}

func faultFromError(err error) *Fault {
	if f, ok := err.(*Fault); ok {
		return f
	}
	if ie, ok := err.(*goja.InterruptedError); ok {
		_ = ie
		return &Fault{Name: FaultTimeout, Message: "execution exceeded quantum"}
	}
	if exc, ok := err.(*goja.Exception); ok {
		return &Fault{Name: FaultRuntime, Message: exc.Value().String()}
	}
	return &Fault{Name: FaultRuntime, Message: err.Error()}
}

func bindGlobals(rt *goja.Runtime, b *Bindings) {
	// Date and Math.random would make a run's result depend on when it
	// executes, so they are removed before any contract code runs.
	_ = rt.GlobalObject().Delete("Date")
	if m := rt.Get("Math"); m != nil {
		_ = m.ToObject(rt).Delete("random")
	}

	_ = rt.Set("action", b.Action)
	_ = rt.Set("payload", b.Payload)

	if b.Sender != nil {
		_ = rt.Set("sender", *b.Sender)
	} else {
		_ = rt.Set("sender", goja.Undefined())
	}
	if b.Owner != nil {
		_ = rt.Set("owner", *b.Owner)
	} else {
		_ = rt.Set("owner", goja.Undefined())
	}

	_ = rt.Set("emit", func(event string, data interface{}) {
		b.Emit(event, data)
	})

	_ = rt.Set("debug", func(v interface{}) {
		if b.Debug != nil {
			b.Debug(v)
		}
	})

	_ = rt.Set("executeSmartContract", func(contract, action string, payload interface{}) interface{} {
		result, err := b.ExecuteSmartContract(contract, action, payload)
		if err != nil {
			panic(rt.NewGoError(err))
		}
		return result
	})

	db := rt.NewObject()
	if b.CreateTable != nil {
		_ = db.Set("createTable", func(name string) *goja.Object {
			tb, err := b.CreateTable(name)
			if err != nil {
				panic(rt.NewGoError(err))
			}
			return tableObject(rt, tb)
		})
	}
	if b.GetTable != nil {
		_ = db.Set("getTable", func(name string) goja.Value {
			tb, ok := b.GetTable(name)
			if !ok {
				return goja.Undefined()
			}
			return tableObject(rt, tb)
		})
	}
	_ = db.Set("findInTable", func(contract, table string, q map[string]interface{}) []map[string]interface{} {
		rows, err := b.FindInTable(contract, table, q)
		if err != nil {
			panic(rt.NewGoError(err))
		}
		return rows
	})
	_ = db.Set("findOneInTable", func(contract, table string, q map[string]interface{}) interface{} {
		row, err := b.FindOneInTable(contract, table, q)
		if err != nil {
			panic(rt.NewGoError(err))
		}
		if row == nil {
			return goja.Undefined()
		}
		return row
	})
	_ = rt.Set("db", db)
}

func tableObject(rt *goja.Runtime, tb *TableBinding) *goja.Object {
	obj := rt.NewObject()
	_ = obj.Set("insert", func(doc map[string]interface{}) {
		if err := tb.Insert(doc); err != nil {
			panic(rt.NewGoError(err))
		}
	})
	_ = obj.Set("find", func(q map[string]interface{}) []map[string]interface{} {
		rows, err := tb.Find(q)
		if err != nil {
			panic(rt.NewGoError(err))
		}
		return rows
	})
	_ = obj.Set("findOne", func(q map[string]interface{}) interface{} {
		row, err := tb.FindOne(q)
		if err != nil {
			panic(rt.NewGoError(err))
		}
		if row == nil {
			return goja.Undefined()
		}
		return row
	})
	return obj
}
