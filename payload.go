package fgdb

import (
	"bufio"
	"bytes"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/renameio"
	"github.com/pkg/errors"
)

// ReadPayload parses a payload file in the data-block convention: one
// numeric value per line, with an optional leading `data` header
// sentinel that is skipped.
func ReadPayload(path string) (vals []float64, err error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening payload")
	}
	defer fh.Close()

	first := true
	scanner := bufio.NewScanner(fh)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if first && line == "data" {
			first = false
			continue
		}
		first = false
		v, perr := strconv.ParseFloat(line, 64)
		if perr != nil {
			return nil, errors.Wrapf(perr, "parsing payload %s", path)
		}
		vals = append(vals, v)
	}
	err = scanner.Err()
	return
}

// WritePayload writes vals to path in the newline-delimited payload
// convention, atomically.
func WritePayload(path string, vals []float64) (err error) {
	var buf bytes.Buffer
	for _, v := range vals {
		buf.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
		buf.WriteByte('\n')
	}
	return renameio.WriteFile(path, buf.Bytes(), 0644)
}

// Payload reads the data payload of a registered block.
func (st *Store) Payload(code string) (vals []float64, err error) {
	b, ok := st.Blocks[code]
	if !ok {
		return nil, &ResolutionError{Ref: code, Kind: "block"}
	}
	return ReadPayload(filepath.Join(b.Path, PayloadName))
}
