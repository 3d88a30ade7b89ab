package sandbox

import (
	"fmt"

	"github.com/dop251/goja"
)

// Artifact is the compiled, reusable form of a contract's source, ready to
// be run on any number of fresh Runtimes (spec.md glossary: "Artifact").
type Artifact struct {
	Program *goja.Program
	Source  string // the decoded, wrapped JS source, for debugging only
}

// dispatchTemplate is the fixed wrapper spec.md §4.G describes only
// semantically ("declare a mapping actions ... inject the user code ...
// invoke it with the current payload"). Fixing the exact text here keeps
// compiled artifacts, and therefore replay, stable. sender/owner/db/emit/
// executeSmartContract/debug are passed as explicit parameters so that
// action handler closures defined in user code capture them lexically,
// the same way spec.md's worked examples write
// `actions.mint=(p)=>{const t=db.createTable('bal');...}`.
const dispatchTemplate = `(function(){
var actions = {};
var __user = function(actions, db, emit, executeSmartContract, debug, sender, owner){
%s
};
__user(actions, db, emit, executeSmartContract, debug, sender, owner);
if (typeof actions[action] === "function") {
  actions[action](payload);
}
})();`

// wrap produces the final source string compiled into an Artifact.
func wrap(userSource string) string {
	return fmt.Sprintf(dispatchTemplate, userSource)
}

// Compile wraps userSource in the dispatch template and compiles it to a
// reusable Artifact. A syntax error here is a Fault of kind FaultCompile.
func Compile(userSource string) (*Artifact, error) {
	wrapped := wrap(userSource)
	prog, err := goja.Compile("contract.js", wrapped, true)
	if err != nil {
		return nil, &Fault{Name: FaultCompile, Message: err.Error()}
	}
	return &Artifact{Program: prog, Source: wrapped}, nil
}
