package fgdb

import (
	"fmt"
)

// ExistsError means a store already exists at Dir.
type ExistsError struct {
	Dir string
}

func (e *ExistsError) Error() string {
	return fmt.Sprintf("store already exists: %s", e.Dir)
}

// NotStoreError means Dir does not contain a store.
type NotStoreError struct {
	Dir string
}

func (e *NotStoreError) Error() string {
	return fmt.Sprintf("not a store: %s", e.Dir)
}

// MalformedExpressionError means an operation expression matched
// neither the hash-addressed nor the symbolic grammar.
type MalformedExpressionError struct {
	Expr string
}

func (e *MalformedExpressionError) Error() string {
	return fmt.Sprintf("malformed operation expression: %q", e.Expr)
}

// ResolutionError means a function or input reference did not resolve
// to a registered block.  No store mutation happens on a
// ResolutionError.
type ResolutionError struct {
	Ref  string // the name or code that failed to resolve
	Kind string // "function", "input", or "block"
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("unknown %s: %s", e.Kind, e.Ref)
}

// ExecutionError means the external function process failed: nonzero
// exit, missing output payload, launch failure, or timeout.  Orphan,
// when set, is the code of the pre-allocated output block left on
// disk; the dataflow graph gains no edge for a failed execution.
type ExecutionError struct {
	Op      string // output name of the failed operation
	Rc      int
	Stderr  string
	Timeout bool
	Orphan  string
	Err     error
}

func (e *ExecutionError) Error() string {
	msg := fmt.Sprintf("executing %q: %v", e.Op, e.Err)
	if e.Timeout {
		msg = fmt.Sprintf("executing %q: timed out", e.Op)
	}
	if e.Stderr != "" {
		msg += fmt.Sprintf(" (rc %d, stderr: %s)", e.Rc, e.Stderr)
	}
	if e.Orphan != "" {
		msg += fmt.Sprintf("; orphaned output block %s left in place", Head(e.Orphan))
	}
	return msg
}

func (e *ExecutionError) Unwrap() error { return e.Err }

// PersistenceError wraps a snapshot read or write failure.
type PersistenceError struct {
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("snapshot %s: %v", e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
