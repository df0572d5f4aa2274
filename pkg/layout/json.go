package layout

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"

	"github.com/matzehuels/ascent/pkg/errors"
)

// JSON is the canonical interchange format: the API returns it, the file
// store keeps it, and render reads it back. Output is indented and
// deterministic for a given layout.

// Marshal encodes l as indented JSON.
func Marshal(l *Layout) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(l, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write encodes l as indented JSON to w.
func Write(l *Layout, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(l)
}

// WriteFile writes l to path. The file is replaced atomically, so a reader
// never sees a half-written layout.
func WriteFile(l *Layout, path string) error {
	data, err := Marshal(l)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Unmarshal decodes and checks a JSON layout.
func Unmarshal(data []byte) (*Layout, error) {
	return Read(bytes.NewReader(data))
}

// Read decodes a JSON layout from r and checks that it is self-consistent.
// Malformed input is reported as INVALID_INPUT.
func Read(r io.Reader) (*Layout, error) {
	var l Layout
	if err := json.NewDecoder(r).Decode(&l); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode layout")
	}
	if err := l.check(); err != nil {
		return nil, err
	}
	return &l, nil
}

// ReadFile reads the JSON layout at path.
func ReadFile(path string) (*Layout, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f)
}

// check verifies that room IDs are unique and that every neighbour and link
// refers to a room of the layout.
func (l *Layout) check() error {
	ids := make(map[int]bool, len(l.Rooms))
	for _, r := range l.Rooms {
		if ids[r.ID] {
			return errors.New(errors.ErrCodeInvalidInput, "duplicate room %d", r.ID)
		}
		ids[r.ID] = true
	}
	for _, r := range l.Rooms {
		for _, n := range r.Neighbors {
			if !ids[n] {
				return errors.New(errors.ErrCodeInvalidInput, "room %d lists unknown neighbour %d", r.ID, n)
			}
		}
	}
	for _, k := range l.Links {
		if !ids[k.From] || !ids[k.To] {
			return errors.New(errors.ErrCodeInvalidInput, "link %d-%d refers to an unknown room", k.From, k.To)
		}
	}
	return nil
}
