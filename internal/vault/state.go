package vault

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Watermarks maps a vault to the newest observed_at already projected for it.
type Watermarks map[common.Address]uint64

// Advance raises the watermark for vault to ts and reports whether it moved.
func (w Watermarks) Advance(vault common.Address, ts uint64) bool {
	if ts <= w[vault] {
		return false
	}
	w[vault] = ts
	return true
}

func (w Watermarks) clone() Watermarks {
	out := make(Watermarks, len(w))
	for vault, ts := range w {
		out[vault] = ts
	}
	return out
}

// StateStore persists per-vault watermarks between runs.
type StateStore interface {
	Load(ctx context.Context) (Watermarks, error)
	Save(ctx context.Context, marks Watermarks) error
}

// FileStateStore keeps watermarks in a JSON file keyed by checksummed vault
// address. A missing file is an empty state.
type FileStateStore struct {
	Path string
}

type watermarkFile struct {
	Vaults    map[string]uint64 `json:"vaults"`
	UpdatedAt string            `json:"updated_at"`
}

func (s *FileStateStore) Load(ctx context.Context) (Watermarks, error) {
	marks := make(Watermarks)
	if s == nil || s.Path == "" {
		return marks, nil
	}

	data, err := os.ReadFile(s.Path)
	if os.IsNotExist(err) {
		return marks, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read state: %w", err)
	}

	var rec watermarkFile
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("parse state: %w", err)
	}
	for vault, ts := range rec.Vaults {
		if !common.IsHexAddress(vault) {
			return nil, fmt.Errorf("parse state: %w: %q", ErrInvalidAddress, vault)
		}
		marks[common.HexToAddress(vault)] = ts
	}
	return marks, nil
}

// Save replaces the state file atomically.
func (s *FileStateStore) Save(ctx context.Context, marks Watermarks) error {
	if s == nil || s.Path == "" {
		return nil
	}

	rec := watermarkFile{
		Vaults:    make(map[string]uint64, len(marks)),
		UpdatedAt: time.Now().UTC().Format(time.RFC3339Nano),
	}
	for vault, ts := range marks {
		rec.Vaults[vault.Hex()] = ts
	}
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.Path), 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.Path), filepath.Base(s.Path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create state tmp: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write state tmp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close state tmp: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.Path); err != nil {
		return fmt.Errorf("rename state: %w", err)
	}
	return nil
}
