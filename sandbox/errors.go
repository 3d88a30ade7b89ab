package sandbox

// Fault is the error taxonomy spec.md §4.G / §7 calls SandboxFault,
// surfaced as {error:{name, message}} in a transaction's logs. Messages
// are deterministic for a given compiled artifact and inputs, since goja
// embeds no timestamps, pointers or randomness in its error text — the
// resolution SPEC_FULL.md picks for spec.md §9's open question on hash
// stability under replay.
type Fault struct {
	Name    string
	Message string
}

func (f *Fault) Error() string {
	return f.Name + ": " + f.Message
}

const (
	// FaultCompile is raised when the wrapped contract source fails to
	// parse.
	FaultCompile = "CompileError"
	// FaultRuntime is raised when the script throws, a host callback
	// reports an error, or a type error occurs mid-execution.
	FaultRuntime = "RuntimeError"
	// FaultTimeout is raised when a top-level run exceeds its quantum.
	FaultTimeout = "TimeoutError"
)
