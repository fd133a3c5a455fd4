package fgdb

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	. "github.com/stevegt/goadapt"
)

// test boolean condition
func tassert(t *testing.T, cond bool, txt string, args ...interface{}) {
	t.Helper() // cause file:line info to show caller
	if !cond {
		t.Fatalf(txt, args...)
	}
}

var testStoreDir string

func newstore() *Store {
	dir, err := ioutil.TempDir("", "fgdb")
	Ck(err)
	st, err := Create(dir)
	Ck(err)
	err = st.CreateRootNodes()
	Ck(err)
	err = st.Save(st.SnapshotPath())
	Ck(err)
	testStoreDir = dir
	return st
}

// setup reopens the shared test store from its snapshot.
func setup(t *testing.T) (st *Store) {
	st, err := Open(testStoreDir)
	if err != nil {
		t.Fatal(err)
	}
	err = st.Load(st.SnapshotPath())
	if err != nil {
		t.Fatal(err)
	}
	return
}

// freshStore creates an isolated store for tests that mutate graphs.
func freshStore(t *testing.T) (st *Store) {
	st, err := Create(t.TempDir())
	tassert(t, err == nil, "create: %v", err)
	err = st.CreateRootNodes()
	tassert(t, err == nil, "roots: %v", err)
	return
}

// mkFolder lays out a block source folder with the given files.
func mkFolder(t *testing.T, parent, name string, files map[string]string) string {
	dir := filepath.Join(parent, name)
	err := os.MkdirAll(dir, 0755)
	tassert(t, err == nil, "mkdir: %v", err)
	for fn, content := range files {
		err = ioutil.WriteFile(filepath.Join(dir, fn), []byte(content), 0755)
		tassert(t, err == nil, "write %s: %v", fn, err)
	}
	return dir
}

func TestMain(m *testing.M) {
	newstore()
	os.Exit(m.Run())
}

func TestCreateRefusesExisting(t *testing.T) {
	_, err := Create(testStoreDir)
	_, ok := err.(*ExistsError)
	tassert(t, ok, "expected ExistsError, got %v", err)
}

func TestOpenNotAStore(t *testing.T) {
	_, err := Open(t.TempDir())
	_, ok := err.(*NotStoreError)
	tassert(t, ok, "expected NotStoreError, got %v", err)
}

func TestCreateRootNodesTwice(t *testing.T) {
	st := setup(t)
	err := st.CreateRootNodes()
	tassert(t, err != nil, "expected error on reinitialization")
}
