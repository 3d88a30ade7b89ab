package executor

import "golang.org/x/xerrors"

// Sentinel errors matching spec.md §7's error taxonomy. Their messages are
// the exact strings Execute writes into a transaction's {error:...} logs.
var (
	ErrMissingOperands  = xerrors.New("the parameters sender, contract and action are required")
	ErrReservedAction   = xerrors.New("you cannot trigger the create action")
	ErrUnknownContract  = xerrors.New("contract doesn't exist")
	ErrDuplicateContract = xerrors.New("contract already exists")
	ErrBadDeployPayload = xerrors.New("parameters name and code are mandatory and must be strings")
	ErrBadInvokePayload = xerrors.New("payload must be a JSON object")
	ErrCallDepthExceeded = xerrors.New("reentrant call depth exceeded")
)
