package fgdb

import (
	"encoding/json"
	"io/ioutil"
	"path/filepath"

	log "github.com/sirupsen/logrus"
	. "github.com/stevegt/goadapt"
)

// DefaultSnapshot is the snapshot file name inside a store dir.
const DefaultSnapshot = "fgdb.db"

// Store owns the two provenance graphs and the block map.  Dir is the
// base directory: block directories, the config file, and the
// snapshot all live directly under it.  A Store is single-writer and
// fully synchronous; the only concurrent entity is the external
// function process launched by an Operation.
type Store struct {
	Dir      string
	Snapshot string // snapshot file name, relative to Dir

	Ancestry *Graph            // MG: registration order
	Dataflow *Graph            // OG: function applications
	Blocks   map[string]*Block // block map keyed by code
	Order    []string          // codes in insertion order
	Cursor   string            // code of the most recently registered block
	Seq      uint64            // identity sequence, advanced by every registration
}

// config is the on-disk config.json for a store dir.
type config struct {
	Snapshot string `json:"snapshot"`
}

// Create initializes a store in dir and returns it opened.  The dir
// may already contain other files (source folders typically live next
// to the store), but it must not already be a store.
func Create(dir string) (st *Store, err error) {
	defer Return(&err)

	dir = filepath.Clean(dir)
	if canstat(filepath.Join(dir, "config.json")) {
		return nil, &ExistsError{Dir: dir}
	}

	err = mkdir(dir, 0755)
	Ck(err)

	cfg := config{Snapshot: DefaultSnapshot}
	buf, err := json.Marshal(cfg)
	Ck(err)
	err = ioutil.WriteFile(filepath.Join(dir, "config.json"), buf, 0644)
	Ck(err)

	return Open(dir)
}

// Open loads an existing store dir.  The returned store is empty;
// call Load to restore a snapshot, or CreateRootNodes on a fresh
// store.
func Open(dir string) (st *Store, err error) {
	dir = filepath.Clean(dir)

	buf, err := ioutil.ReadFile(filepath.Join(dir, "config.json"))
	if err != nil {
		return nil, &NotStoreError{Dir: dir}
	}
	cfg := config{}
	err = json.Unmarshal(buf, &cfg)
	if err != nil {
		return
	}
	if cfg.Snapshot == "" {
		cfg.Snapshot = DefaultSnapshot
	}

	st = &Store{
		Dir:      dir,
		Snapshot: cfg.Snapshot,
		Ancestry: NewGraph(),
		Dataflow: NewGraph(),
		Blocks:   make(map[string]*Block),
	}
	log.Debugf("opened store %s", dir)
	return
}

// SnapshotPath is the absolute path of the store's snapshot file.
func (st *Store) SnapshotPath() string {
	return filepath.Join(st.Dir, st.Snapshot)
}
