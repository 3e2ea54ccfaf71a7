package sequencer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// Record is one persisted pattern. BPM and Swing are pointers so that a
// file without them keeps the current values on load.
type Record struct {
	Pattern [][]bool `json:"pattern"`
	BPM     *int     `json:"bpm,omitempty"`
	Swing   *int     `json:"swing,omitempty"`
}

// NewRecord builds a record from a grid and its tempo settings
func NewRecord(g Grid, bpm, swing int) Record {
	rows := make([][]bool, len(g))
	for i, row := range g {
		rows[i] = append([]bool(nil), row[:]...)
	}
	return Record{Pattern: rows, BPM: &bpm, Swing: &swing}
}

// Grid converts the stored rows back to a grid. Cells past
// NumInstruments are ignored.
func (r Record) Grid() Grid {
	g := make(Grid, len(r.Pattern))
	for i, cells := range r.Pattern {
		for j := 0; j < len(cells) && j < NumInstruments; j++ {
			g[i][j] = cells[j]
		}
	}
	return g
}

// Store persists patterns keyed by pattern id
type Store interface {
	Save(id int, rec Record) error
	// Load returns ok == false (and no error) when nothing is stored for id
	Load(id int) (rec Record, ok bool, err error)
}

// FileStore keeps one JSON file per pattern id in Dir
type FileStore struct {
	Dir string
}

// NewFileStore creates a store rooted at dir
func NewFileStore(dir string) *FileStore {
	return &FileStore{Dir: dir}
}

// Path returns the file for a pattern id
func (fs *FileStore) Path(id int) string {
	return filepath.Join(fs.Dir, fmt.Sprintf("pattern_%d.json", id))
}

// Save writes rec as pattern_<id>.json
func (fs *FileStore) Save(id int, rec Record) error {
	if err := os.MkdirAll(fs.Dir, 0755); err != nil {
		return errors.Wrap(err, "creating patterns dir")
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding pattern")
	}

	if err := os.WriteFile(fs.Path(id), data, 0644); err != nil {
		return errors.Wrapf(err, "writing pattern %d", id)
	}
	return nil
}

// Load reads pattern_<id>.json; a missing file is not an error
func (fs *FileStore) Load(id int) (Record, bool, error) {
	data, err := os.ReadFile(fs.Path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return Record{}, false, nil
		}
		return Record{}, false, errors.Wrapf(err, "reading pattern %d", id)
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Record{}, false, errors.Wrapf(err, "decoding pattern %d", id)
	}
	return rec, true, nil
}
