package fgdb

import (
	"fmt"
	"path/filepath"
	"time"

	log "github.com/sirupsen/logrus"
)

// EntryPoint is the executable a function block must carry.  It is
// invoked as `./<code>/func -i <input name> -o <output code>` with
// the store dir as working directory.
const EntryPoint = "func"

// PayloadName is the conventional payload file inside a data block's
// directory: newline-delimited numeric values with an optional `data`
// header sentinel.
const PayloadName = "data.csv"

// identity builds the string that gets hashed into a block code: the
// prefix (usually the block's name) plus a coarse timestamp.  The
// sequence component keeps rapid same-named registrations from
// colliding within one timestamp tick; block content is deliberately
// never part of the identity.
func (st *Store) identity(prefix string) string {
	st.Seq++
	return fmt.Sprintf("%s%d-%d", prefix, time.Now().Unix(), st.Seq)
}

// newBlock mints a block record without touching the graphs.
func (st *Store) newBlock(category Category, name, prefix string) *Block {
	identity := st.identity(prefix)
	code := Code(identity)
	return &Block{
		Category: category,
		Name:     name,
		Identity: identity,
		Code:     code,
		Head:     Head(code),
	}
}

// attach inserts a block into the ancestry graph as a child of the
// cursor, records it in the block map and insertion order, and
// advances the cursor.  Every registration path funnels through here.
func (st *Store) attach(b *Block) {
	st.Ancestry.AddNode(b.Code)
	if st.Cursor != "" {
		st.Ancestry.AddEdge(st.Cursor, b.Code, "")
	}
	st.Blocks[b.Code] = b
	st.Order = append(st.Order, b.Code)
	st.Cursor = b.Code
}

// CreateRootNodes creates one root block in each graph.  The ancestry
// root becomes the initial cursor; the dataflow root anchors directly
// registered data blocks.  Calling this on an initialized store is an
// error.
func (st *Store) CreateRootNodes() (err error) {
	if len(st.Blocks) > 0 {
		return fmt.Errorf("store already initialized: %s", st.Dir)
	}

	mg := st.newBlock(CategoryRoot, "MG_ROOT", "mg_root_")
	st.Ancestry.Root = mg.Code
	st.Ancestry.AddNode(mg.Code)
	st.Blocks[mg.Code] = mg
	st.Order = append(st.Order, mg.Code)
	st.Cursor = mg.Code

	og := st.newBlock(CategoryRoot, "OG_ROOT", "og_root_")
	st.Dataflow.Root = og.Code
	st.Dataflow.AddNode(og.Code)
	st.Blocks[og.Code] = og
	st.Order = append(st.Order, og.Code)

	log.Infof("created root nodes MG %s OG %s", mg.Head, og.Head)
	return
}

// AddFunctionBlock registers a function block from a source folder
// and returns its code.
func (st *Store) AddFunctionBlock(folder string) (code string, err error) {
	if canstat(folder) && !canstat(filepath.Join(folder, EntryPoint)) {
		log.Warnf("no %s entry point in %s", EntryPoint, folder)
	}
	return st.addBlock(CategoryFunction, folder)
}

// AddDataBlock registers a data block from a source folder and
// returns its code.  Besides the ancestry placement it also gets an
// edge from the dataflow root, marking it as an externally supplied
// input.
func (st *Store) AddDataBlock(folder string) (code string, err error) {
	if canstat(folder) && !canstat(filepath.Join(folder, PayloadName)) {
		log.Warnf("no %s payload in %s", PayloadName, folder)
	}
	return st.addBlock(CategoryData, folder)
}

func (st *Store) addBlock(category Category, folder string) (code string, err error) {
	name := filepath.Base(filepath.Clean(folder))
	b := st.newBlock(category, name, name)
	b.Path = filepath.Join(st.Dir, b.Code)

	// The copy is best effort: a missing or unreadable source folder
	// downgrades to a warning and the block is registered without
	// content.
	if canstat(folder) {
		if cerr := copyTree(b.Path, folder); cerr != nil {
			log.Warnf("copying block content: %v", cerr)
		} else if merr := b.writeManifest(); merr != nil {
			log.Warnf("writing manifest for %s: %v", b.Head, merr)
		}
	} else {
		log.Warnf("source folder not found, registering %q without content: %s", name, folder)
	}

	st.attach(b)
	if category == CategoryData {
		st.Dataflow.AddNode(b.Code)
		st.Dataflow.AddEdge(st.Dataflow.Root, b.Code, "")
	}

	log.Infof("registered %s block %q (%s)", category, name, b.Head)
	return b.Code, nil
}

// FindByName returns the code of the first block registered under
// name.  Names are not unique; when a name is ambiguous only the
// first-inserted block is ever found.
func (st *Store) FindByName(name string) (code string, ok bool) {
	for _, c := range st.Order {
		if st.Blocks[c].Name == name {
			return c, true
		}
	}
	return "", false
}

// GraphStats is the node/edge count of one graph.
type GraphStats struct {
	Nodes int
	Edges int
}

// Stats summarizes a store: per-graph counts and per-category block
// counts.
type Stats struct {
	Ancestry       GraphStats
	Dataflow       GraphStats
	FunctionBlocks int
	DataBlocks     int
	TotalBlocks    int
}

// Statistics is read-only; it never mutates the store.
func (st *Store) Statistics() (stats Stats) {
	stats.Ancestry = GraphStats{st.Ancestry.NodeCount(), st.Ancestry.EdgeCount()}
	stats.Dataflow = GraphStats{st.Dataflow.NodeCount(), st.Dataflow.EdgeCount()}
	for _, b := range st.Blocks {
		switch b.Category {
		case CategoryFunction:
			stats.FunctionBlocks++
		case CategoryData:
			stats.DataBlocks++
		}
	}
	stats.TotalBlocks = len(st.Blocks)
	return
}
