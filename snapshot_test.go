package fgdb

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

// save/load into a fresh store yields isomorphic graphs: same nodes,
// edges, labels, and block attributes
func TestSnapshotRoundTrip(t *testing.T) {
	st, _, _ := opStore(t)
	req, err := ParseOperation("y=double(x)")
	tassert(t, err == nil, "parse: %v", err)
	_, err = st.NewOperation(req).Run(context.Background())
	tassert(t, err == nil, "run: %v", err)

	err = st.Save(st.SnapshotPath())
	tassert(t, err == nil, "save: %v", err)

	st2, err := Open(st.Dir)
	tassert(t, err == nil, "open: %v", err)
	err = st2.Load(st2.SnapshotPath())
	tassert(t, err == nil, "load: %v", err)

	tassert(t, reflect.DeepEqual(st.Ancestry, st2.Ancestry), "ancestry differs:\n%+v\n%+v", st.Ancestry, st2.Ancestry)
	tassert(t, reflect.DeepEqual(st.Dataflow, st2.Dataflow), "dataflow differs")
	tassert(t, reflect.DeepEqual(st.Blocks, st2.Blocks), "blocks differ")
	tassert(t, reflect.DeepEqual(st.Order, st2.Order), "order differs")
	tassert(t, st.Cursor == st2.Cursor, "cursor differs")
	tassert(t, st.Seq == st2.Seq, "sequence differs")

	// name resolution still sees the same first-inserted block
	want, _ := st.FindByName("x")
	got, ok := st2.FindByName("x")
	tassert(t, ok && got == want, "x resolves to %s, want %s", Head(got), Head(want))
}

func TestLoadMissingSnapshot(t *testing.T) {
	st := freshStore(t)
	err := st.Load(filepath.Join(st.Dir, "nosuchsnapshot"))
	var perr *PersistenceError
	tassert(t, errors.As(err, &perr), "expected PersistenceError, got %v", err)
}

func TestLoadCorruptSnapshot(t *testing.T) {
	st := freshStore(t)
	path := st.SnapshotPath()
	err := WritePayload(path, []float64{1, 2, 3}) // not a snapshot
	tassert(t, err == nil, "write: %v", err)

	err = st.Load(path)
	var perr *PersistenceError
	tassert(t, errors.As(err, &perr), "expected PersistenceError, got %v", err)
}

// the sidecar flock enforces a single writer at a time
func TestSnapshotLock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snap.db")

	fd, err := lockSnapshot(path)
	tassert(t, err == nil, "lock: %v", err)

	acquired := make(chan bool)
	go func() {
		fd2, err := lockSnapshot(path)
		if err != nil {
			t.Error(err)
			return
		}
		unlockSnapshot(fd2)
		acquired <- true
	}()

	select {
	case <-acquired:
		t.Fatal("second lock acquired while first held")
	case <-time.After(100 * time.Millisecond):
	}

	unlockSnapshot(fd)

	select {
	case <-acquired:
	case <-time.After(2 * time.Second):
		t.Fatal("second lock never acquired")
	}
}
