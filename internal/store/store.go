package store

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/google/uuid"
)

const (
	SkyPNG   = "sky.png"
	GraphSVG = "graph.svg"
)

var artifacts = []string{SkyPNG, GraphSVG}

// FS keeps render artifacts on disk, one directory per job.
type FS struct{ Root string }

func New(root string) (*FS, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	return &FS{Root: root}, nil
}

func NewJobID() string { return uuid.NewString() }

func (s *FS) JobDir(id string) string { return filepath.Join(s.Root, id) }

func (s *FS) MkJob(id string) (string, error) {
	if err := checkID(id); err != nil {
		return "", err
	}
	j := s.JobDir(id)
	return j, os.MkdirAll(j, 0o755)
}

func (s *FS) Put(id, name string, data []byte) (string, error) {
	if err := checkName(name); err != nil {
		return "", err
	}
	dir, err := s.MkJob(id)
	if err != nil {
		return "", err
	}
	p := filepath.Join(dir, name)
	tmp := p + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return "", err
	}
	return p, os.Rename(tmp, p)
}

func (s *FS) Get(id, name string) ([]byte, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	if err := checkName(name); err != nil {
		return nil, err
	}
	return os.ReadFile(filepath.Join(s.JobDir(id), name))
}

// Jobs lists the job directories under Root.
func (s *FS) Jobs() ([]string, error) {
	entries, err := os.ReadDir(s.Root)
	if err != nil {
		return nil, err
	}
	var ids []string
	for _, e := range entries {
		if e.IsDir() && checkID(e.Name()) == nil {
			ids = append(ids, e.Name())
		}
	}
	return ids, nil
}

func checkID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("store: invalid job id %q", id)
	}
	return nil
}

func checkName(name string) error {
	if !slices.Contains(artifacts, name) {
		return fmt.Errorf("store: unknown artifact %q", name)
	}
	return nil
}
