package sequencer

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileStoreMissing(t *testing.T) {
	fs := NewFileStore(filepath.Join(t.TempDir(), "none"))

	rec, ok, err := fs.Load(1)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if ok || rec.Pattern != nil {
		t.Errorf("Load() = %+v, %v; want empty, false", rec, ok)
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	fs := NewFileStore(t.TempDir())

	g := make(Grid, 16)
	g[0][0] = true
	g[15][7] = true
	if err := fs.Save(2, NewRecord(g, 101, 25)); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if _, err := os.Stat(filepath.Join(fs.Dir, "pattern_2.json")); err != nil {
		t.Fatalf("pattern file not written: %v", err)
	}

	rec, ok, err := fs.Load(2)
	if err != nil || !ok {
		t.Fatalf("Load() = ok %v, err %v", ok, err)
	}
	if *rec.BPM != 101 || *rec.Swing != 25 {
		t.Errorf("bpm/swing = %d/%d", *rec.BPM, *rec.Swing)
	}

	got := rec.Grid()
	if len(got) != 16 || !got[0][0] || !got[15][7] {
		t.Errorf("grid = %v", got)
	}
}

func TestFileStoreCorrupt(t *testing.T) {
	fs := NewFileStore(t.TempDir())
	if err := os.WriteFile(fs.Path(4), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, ok, err := fs.Load(4); err == nil || ok {
		t.Errorf("Load() = ok %v, err %v; want decode error", ok, err)
	}
}

func TestRecordWithoutTempoKeepsCurrent(t *testing.T) {
	fs := NewFileStore(t.TempDir())
	data := []byte(`{"pattern": [[true, false, false, false, false, false, false, false, true]]}`)
	if err := os.WriteFile(fs.Path(1), data, 0644); err != nil {
		t.Fatal(err)
	}

	s := New(16, nil, fs)
	s.SetBPM(150)
	s.SetSwing(20)
	if !s.LoadPattern(1) {
		t.Fatal("LoadPattern(1) = false")
	}

	if s.BPM() != 150 || s.Swing() != 20 {
		t.Errorf("bpm/swing = %d/%d, want 150/20", s.BPM(), s.Swing())
	}
	if !s.GetStep(0, 0) {
		t.Error("stored cell not loaded")
	}
}
