package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"
)

const metadataFile = "metadata.json"

var ErrNotFound = errors.New("storage: capture not found")

// Store keeps exported frames, one directory per capture holding the image and
// its metadata.
type Store struct {
	baseDir string
	now     func() time.Time
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir, now: time.Now}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type CaptureMetadata struct {
	ID        string             `json:"id"`
	Format    string             `json:"format"`
	File      string             `json:"file"`
	Timestamp time.Time          `json:"timestamp"`
	Preset    string             `json:"preset,omitempty"`
	Seed      int64              `json:"seed"`
	Ticks     int                `json:"ticks"`
	Frames    int                `json:"frames"`
	Width     float64            `json:"width"`
	Height    float64            `json:"height"`
	Metrics   map[string]float64 `json:"metrics,omitempty"`
}

// Save creates a capture directory, streams the image through write and
// records meta next to it. ID, File and Timestamp are filled in.
func (s *Store) Save(meta CaptureMetadata, write func(io.Writer) error) (string, error) {
	if err := s.Init(); err != nil {
		return "", err
	}

	meta.Timestamp = s.now()
	id, dir, err := s.newDir(meta.Format, meta.Timestamp)
	if err != nil {
		return "", err
	}
	meta.ID = id
	meta.File = "capture." + meta.Format

	f, err := os.Create(filepath.Join(dir, meta.File))
	if err != nil {
		return "", err
	}
	if err := write(f); err != nil {
		f.Close()
		return "", fmt.Errorf("write %s: %w", meta.File, err)
	}
	if err := f.Close(); err != nil {
		return "", err
	}

	metaFile, err := os.Create(filepath.Join(dir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) newDir(format string, ts time.Time) (string, string, error) {
	base := fmt.Sprintf("%s_%d", format, ts.Unix())
	id := base
	for n := 1; ; n++ {
		dir := filepath.Join(s.baseDir, id)
		err := os.Mkdir(dir, 0755)
		if err == nil {
			return id, dir, nil
		}
		if !os.IsExist(err) {
			return "", "", err
		}
		id = fmt.Sprintf("%s_%d", base, n)
	}
}

// List returns every readable capture, oldest first.
func (s *Store) List() ([]CaptureMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []CaptureMetadata{}, nil
		}
		return nil, err
	}

	captures := make([]CaptureMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		captures = append(captures, *meta)
	}

	sort.Slice(captures, func(i, j int) bool {
		if captures[i].Timestamp.Equal(captures[j].Timestamp) {
			return captures[i].ID < captures[j].ID
		}
		return captures[i].Timestamp.Before(captures[j].Timestamp)
	})
	return captures, nil
}

func (s *Store) Load(id string) (*CaptureMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, id, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, err
	}

	var meta CaptureMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// Path returns the location of a capture's image file.
func (s *Store) Path(meta *CaptureMetadata) string {
	return filepath.Join(s.baseDir, meta.ID, meta.File)
}
