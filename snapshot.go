package fgdb

import (
	"io/ioutil"
	"syscall"

	"github.com/google/renameio"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/vmihailenco/msgpack"
)

// snapshot is the serialized form of a whole store.  There is no
// partial or incremental persistence: every Save rewrites all of it,
// every Load replaces all of it.
type snapshot struct {
	Ancestry *Graph            `msgpack:"mg"`
	Dataflow *Graph            `msgpack:"og"`
	Blocks   map[string]*Block `msgpack:"blocks"`
	Order    []string          `msgpack:"order"`
	Cursor   string            `msgpack:"cursor"`
	Seq      uint64            `msgpack:"seq"`
}

// Save writes the store to path as one atomic snapshot.  The write
// goes through a temp file rename, and an exclusive flock on a
// sidecar lock file enforces a single writer per snapshot.
func (st *Store) Save(path string) (err error) {
	fd, err := lockSnapshot(path)
	if err != nil {
		return &PersistenceError{Path: path, Err: errors.Wrap(err, "locking")}
	}
	defer unlockSnapshot(fd)

	snap := &snapshot{
		Ancestry: st.Ancestry,
		Dataflow: st.Dataflow,
		Blocks:   st.Blocks,
		Order:    st.Order,
		Cursor:   st.Cursor,
		Seq:      st.Seq,
	}
	buf, err := msgpack.Marshal(snap)
	if err != nil {
		return &PersistenceError{Path: path, Err: err}
	}
	err = renameio.WriteFile(path, buf, 0644)
	if err != nil {
		return &PersistenceError{Path: path, Err: err}
	}
	log.Debugf("saved snapshot %s (%d bytes)", path, len(buf))
	return
}

// Load restores the store's graphs, block map, insertion order,
// cursor, and identity sequence from a snapshot.
func (st *Store) Load(path string) (err error) {
	fd, err := lockSnapshot(path)
	if err != nil {
		return &PersistenceError{Path: path, Err: errors.Wrap(err, "locking")}
	}
	defer unlockSnapshot(fd)

	buf, err := ioutil.ReadFile(path)
	if err != nil {
		return &PersistenceError{Path: path, Err: err}
	}
	snap := &snapshot{}
	err = msgpack.Unmarshal(buf, snap)
	if err != nil {
		return &PersistenceError{Path: path, Err: err}
	}

	st.Ancestry = snap.Ancestry
	st.Dataflow = snap.Dataflow
	st.Blocks = snap.Blocks
	st.Order = snap.Order
	st.Cursor = snap.Cursor
	st.Seq = snap.Seq
	if st.Ancestry == nil {
		st.Ancestry = NewGraph()
	}
	if st.Dataflow == nil {
		st.Dataflow = NewGraph()
	}
	if st.Blocks == nil {
		st.Blocks = make(map[string]*Block)
	}
	log.Debugf("loaded snapshot %s (%d blocks)", path, len(st.Blocks))
	return
}

// lockSnapshot takes an exclusive flock on path's sidecar lock file
// and blocks until it gets one.
func lockSnapshot(path string) (fd int, err error) {
	fd, err = syscall.Open(path+".lock", syscall.O_CREAT|syscall.O_RDWR, 0644)
	if err != nil {
		return
	}
	err = syscall.Flock(fd, syscall.LOCK_EX)
	if err != nil {
		syscall.Close(fd)
	}
	return
}

func unlockSnapshot(fd int) {
	syscall.Flock(fd, syscall.LOCK_UN)
	syscall.Close(fd)
}
