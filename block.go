package fgdb

import (
	"encoding/json"
	"io/ioutil"
	"path/filepath"
)

// Category classifies a block.
type Category string

const (
	CategoryRoot     Category = "root"
	CategoryFunction Category = "function"
	CategoryData     Category = "data"
)

// ManifestName is the per-block metadata file written into each
// block's content-addressed directory.  Its JSON layout is part of
// the function-block execution contract: function processes locate
// their input by scanning manifests for a matching name.
const ManifestName = "system.json"

// Block is the atomic registered unit.  Blocks are immutable once
// created and are never removed from the store.
type Block struct {
	Category Category `json:"category" msgpack:"category"`
	Name     string   `json:"name" msgpack:"name"`
	Identity string   `json:"id" msgpack:"id"`
	Code     string   `json:"code" msgpack:"code"`
	Head     string   `json:"head" msgpack:"head"`
	Path     string   `json:"path,omitempty" msgpack:"path,omitempty"`
}

// writeManifest records the block's metadata as system.json inside
// its directory.
func (b *Block) writeManifest() (err error) {
	buf, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return
	}
	return ioutil.WriteFile(filepath.Join(b.Path, ManifestName), buf, 0644)
}

// ReadManifest loads a block manifest from dir/system.json.
func ReadManifest(dir string) (b *Block, err error) {
	buf, err := ioutil.ReadFile(filepath.Join(dir, ManifestName))
	if err != nil {
		return
	}
	b = &Block{}
	err = json.Unmarshal(buf, b)
	return
}
