package storage

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"vaultScope/internal/model"
)

// JsonlStorage appends vault snapshots to a file, one JSON document per line.
// It is safe for concurrent use.
type JsonlStorage struct {
	path string

	mu       sync.Mutex
	dirReady bool
}

func NewJsonlStorage(path string) *JsonlStorage {
	return &JsonlStorage{path: path}
}

// PutSnapshotBatch appends snapshots in order. An empty batch does not touch
// the file.
func (s *JsonlStorage) PutSnapshotBatch(snapshots []model.VaultSnapshot) error {
	if len(snapshots) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := s.open()
	if err != nil {
		return err
	}

	w := bufio.NewWriter(file)
	enc := json.NewEncoder(w)
	for i := range snapshots {
		if err := enc.Encode(&snapshots[i]); err != nil {
			file.Close()
			return fmt.Errorf("encode snapshot %s: %w", snapshots[i].Address, err)
		}
	}
	if err := w.Flush(); err != nil {
		file.Close()
		return fmt.Errorf("flush snapshots: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close %s: %w", s.path, err)
	}
	return nil
}

// open creates the parent directory on first use.
func (s *JsonlStorage) open() (*os.File, error) {
	if !s.dirReady {
		if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
			return nil, fmt.Errorf("create output dir: %w", err)
		}
		s.dirReady = true
	}
	file, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", s.path, err)
	}
	return file, nil
}
