package storage

import (
	"errors"
	"io"
	"os"
	"testing"
	"time"
)

func fixedStore(t *testing.T) *Store {
	s := New(t.TempDir())
	s.now = func() time.Time { return time.Unix(1700000000, 0) }
	return s
}

func TestSaveAndLoad(t *testing.T) {
	s := fixedStore(t)

	id, err := s.Save(CaptureMetadata{Format: "svg", Seed: 7, Ticks: 100, Width: 800, Height: 600}, func(w io.Writer) error {
		_, err := io.WriteString(w, "<svg/>")
		return err
	})
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if id != "svg_1700000000" {
		t.Errorf("expected id svg_1700000000, got %s", id)
	}

	meta, err := s.Load(id)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Seed != 7 || meta.File != "capture.svg" {
		t.Errorf("unexpected metadata %+v", meta)
	}

	data, err := os.ReadFile(s.Path(meta))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "<svg/>" {
		t.Errorf("expected <svg/>, got %q", data)
	}
}

func TestSaveSameSecond(t *testing.T) {
	s := fixedStore(t)
	write := func(w io.Writer) error { return nil }

	a, err := s.Save(CaptureMetadata{Format: "png"}, write)
	if err != nil {
		t.Fatal(err)
	}
	b, err := s.Save(CaptureMetadata{Format: "png"}, write)
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Fatalf("expected distinct ids, got %s twice", a)
	}

	list, err := s.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 || list[0].ID != a || list[1].ID != b {
		t.Errorf("expected [%s %s], got %+v", a, b, list)
	}
}

func TestSaveWriteError(t *testing.T) {
	s := fixedStore(t)
	boom := errors.New("boom")
	if _, err := s.Save(CaptureMetadata{Format: "gif"}, func(io.Writer) error { return boom }); !errors.Is(err, boom) {
		t.Errorf("expected wrapped write error, got %v", err)
	}
}

func TestListMissingDir(t *testing.T) {
	s := New(t.TempDir() + "/missing")
	list, err := s.List()
	if err != nil || len(list) != 0 {
		t.Errorf("expected empty list, got %v %v", list, err)
	}
	if _, err := s.Load("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
