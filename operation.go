package fgdb

import (
	"bytes"
	"context"
	"fmt"
	"io/ioutil"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/renameio"
	"github.com/google/shlex"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	. "github.com/stevegt/goadapt"
)

// OpState tracks an operation through its linear life cycle.  Every
// state can fall into StateFailed; there is no other branching.
type OpState int

const (
	StateParsed OpState = iota
	StateResolved
	StateOutputAllocated
	StateCommandSynthesized
	StateExecuted
	StateCommitted
	StateFailed
)

func (s OpState) String() string {
	switch s {
	case StateParsed:
		return "parsed"
	case StateResolved:
		return "resolved"
	case StateOutputAllocated:
		return "outputallocated"
	case StateCommandSynthesized:
		return "commandsynthesized"
	case StateExecuted:
		return "executed"
	case StateCommitted:
		return "committed"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// Operation drives one y=f(x) request through the store: resolve the
// function and input references, allocate the output block, synthesize
// and run the external command, and commit the dataflow edge.  The
// operation holds exclusive synchronous access to the store and either
// fully commits or fully fails before returning.
type Operation struct {
	Store   *Store
	Req     *Request
	Timeout time.Duration // 0 means block until the process exits

	State  OpState
	Fn     *Block // resolved function block
	In     *Block // resolved input block
	Out    *Block // allocated output block
	Stdout []byte
	Stderr []byte
	Rc     int

	script string // transient command artifact, removed on return
}

// NewOperation wraps an already-parsed request.
func (st *Store) NewOperation(req *Request) *Operation {
	return &Operation{Store: st, Req: req, State: StateParsed}
}

// Run executes the operation and returns the committed output block's
// code.  On failure the typed error says which step gave up; a failed
// execution leaves the pre-allocated output block orphaned on disk
// but adds no edge to either graph.
func (op *Operation) Run(ctx context.Context) (code string, err error) {
	defer op.cleanup()

	if err = op.resolve(); err != nil {
		return "", op.fail(err)
	}
	if err = op.allocate(); err != nil {
		return "", op.fail(err)
	}
	if err = op.synthesize(); err != nil {
		return "", op.fail(err)
	}
	if err = op.execute(ctx); err != nil {
		return "", op.fail(err)
	}
	op.commit()
	return op.Out.Code, nil
}

// advance enforces the linear state order; skipping or repeating a
// step is a programming error, not a runtime condition.
func (op *Operation) advance(next OpState) {
	Assert(next == op.State+1, "bad transition %s -> %s", op.State, next)
	op.State = next
}

func (op *Operation) fail(err error) error {
	log.Debugf("operation %q failed in state %s: %v", op.Req.Output, op.State, err)
	op.State = StateFailed
	return err
}

// resolve looks up the function and input references.  Nothing is
// mutated here: a dangling reference must leave the store exactly as
// it was.
func (op *Operation) resolve() error {
	st := op.Store
	switch op.Req.Mode {
	case ByCode:
		op.Fn = st.Blocks[op.Req.Function]
		op.In = st.Blocks[op.Req.Input]
	case ByName:
		if code, ok := st.FindByName(op.Req.Function); ok {
			op.Fn = st.Blocks[code]
		}
		if code, ok := st.FindByName(op.Req.Input); ok {
			op.In = st.Blocks[code]
		}
	}
	if op.Fn == nil {
		return &ResolutionError{Ref: op.Req.Function, Kind: "function"}
	}
	if op.In == nil {
		return &ResolutionError{Ref: op.Req.Input, Kind: "input"}
	}
	op.advance(StateResolved)
	return nil
}

// allocate mints the output block and creates its directory and
// manifest before anything runs: the external process needs the
// output code as an argument, so the location has to exist first.
// The block is not yet attached to either graph.
func (op *Operation) allocate() (err error) {
	st := op.Store
	b := st.newBlock(CategoryData, op.Req.Output, op.Req.Output)
	b.Path = filepath.Join(st.Dir, b.Code)

	err = mkdir(b.Path, 0755)
	if err == nil {
		err = b.writeManifest()
	}
	if err != nil {
		return &ExecutionError{Op: op.Req.Output, Err: fmt.Errorf("allocating output block: %w", err)}
	}

	op.Out = b
	op.advance(StateOutputAllocated)
	return nil
}

// synthesize writes the transient command artifact.  The command
// references the function block's entry point inside its
// content-addressed directory and passes the input block's name and
// the output code as the two addressing arguments.
func (op *Operation) synthesize() (err error) {
	cmdline := fmt.Sprintf("./%s/%s -i %s -o %s\n",
		op.Fn.Code, EntryPoint, op.In.Name, op.Out.Code)

	op.script = filepath.Join(op.Store.Dir, fmt.Sprintf("operation-%s.sh", uuid.NewString()))
	err = renameio.WriteFile(op.script, []byte(cmdline), 0755)
	if err != nil {
		return &ExecutionError{Op: op.Req.Output, Orphan: op.Out.Code,
			Err: fmt.Errorf("writing command artifact: %w", err)}
	}

	log.Debugf("synthesized %s: %s", op.script, strings.TrimSpace(cmdline))
	op.advance(StateCommandSynthesized)
	return nil
}

// execute re-reads the command artifact, splits it, and runs it as an
// isolated child process with the store dir as working directory.
// Function-block code is arbitrary, so it never runs in-process.
func (op *Operation) execute(ctx context.Context) (err error) {
	buf, err := ioutil.ReadFile(op.script)
	if err != nil {
		return op.execErr(err, false)
	}
	parts, err := shlex.Split(strings.TrimSpace(string(buf)))
	if err != nil || len(parts) == 0 {
		return op.execErr(fmt.Errorf("unparseable command %q: %v", string(buf), err), false)
	}

	if op.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, op.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, parts[0], parts[1:]...)
	cmd.Dir = op.Store.Dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err = cmd.Run()
	op.Stdout = stdout.Bytes()
	op.Stderr = stderr.Bytes()
	if err != nil {
		op.Rc = -1
		if ee, ok := err.(*exec.ExitError); ok {
			op.Rc = ee.ExitCode()
		}
		return op.execErr(err, ctx.Err() == context.DeadlineExceeded)
	}
	op.Rc = 0

	// exit status zero is not enough: the contract requires the child
	// to leave a payload in the output directory
	if !canstat(filepath.Join(op.Out.Path, PayloadName)) {
		return op.execErr(fmt.Errorf("process exited 0 but wrote no %s", PayloadName), false)
	}

	op.advance(StateExecuted)
	return nil
}

func (op *Operation) execErr(err error, timeout bool) *ExecutionError {
	return &ExecutionError{
		Op:      op.Req.Output,
		Rc:      op.Rc,
		Stderr:  strings.TrimSpace(string(op.Stderr)),
		Timeout: timeout,
		Orphan:  op.Out.Code,
		Err:     err,
	}
}

// commit records the function application: a labeled dataflow edge
// from input to output, ancestry placement of the output block under
// the cursor, and the cursor advance.
func (op *Operation) commit() {
	st := op.Store
	st.Dataflow.AddNode(op.Out.Code)
	st.Dataflow.AddEdge(op.In.Code, op.Out.Code, op.Fn.Name)
	st.attach(op.Out)
	op.advance(StateCommitted)
	log.Infof("committed %s -[%s]-> %s (%s)", op.In.Name, op.Fn.Name, op.Out.Name, op.Out.Head)
}

func (op *Operation) cleanup() {
	if op.script == "" {
		return
	}
	if err := os.Remove(op.script); err != nil && !os.IsNotExist(err) {
		log.Warnf("removing command artifact %s: %v", op.script, err)
	}
	op.script = ""
}
