package vault

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"vaultScope/internal/model"
	"vaultScope/internal/storage"
	"vaultScope/internal/tickmath"
)

var (
	// ErrInvalidAddress reports a malformed hex address.
	ErrInvalidAddress = errors.New("invalid address")
	// ErrInvalidAmount reports a raw integer that is empty, negative or too wide.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrInvalidRange reports a tick range that is empty or outside the pool bounds.
	ErrInvalidRange = errors.New("invalid tick range")
)

const defaultBatchSize = 500

// Config controls projection behavior.
type Config struct {
	// NativeWrapper is the wrapped native token address. Empty disables the flag.
	NativeWrapper string
	AlignMode     tickmath.AlignMode
	BatchSize     int
	// Vaults restricts Run to these vault addresses when non-empty.
	Vaults []string
	// Since skips observations at or before this unix timestamp for every
	// vault. When zero each vault's StateStore watermark is used instead.
	// Observations without observed_at are skipped once their vault has a
	// watermark, so a vault that never reports a timestamp is projected on
	// every run.
	Since      uint64
	StateStore StateStore
}

// Projector turns raw vault observations into display snapshots.
type Projector struct {
	cfg     Config
	store   storage.Storage
	logger  *zap.Logger
	wrapper *common.Address
	vaults  map[common.Address]struct{}
}

// NewProjector validates the native wrapper and vault filter addresses. store
// may be nil when only Project and the tick helpers are used.
func NewProjector(cfg Config, store storage.Storage, logger *zap.Logger) (*Projector, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.AlignMode == "" {
		cfg.AlignMode = tickmath.AlignTruncate
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = defaultBatchSize
	}

	p := &Projector{
		cfg:    cfg,
		store:  store,
		logger: logger,
		vaults: make(map[common.Address]struct{}, len(cfg.Vaults)),
	}

	if cfg.NativeWrapper != "" {
		if !common.IsHexAddress(cfg.NativeWrapper) {
			return nil, fmt.Errorf("%w: native wrapper %q", ErrInvalidAddress, cfg.NativeWrapper)
		}
		wrapper := common.HexToAddress(cfg.NativeWrapper)
		p.wrapper = &wrapper
	}

	for _, vault := range cfg.Vaults {
		if !common.IsHexAddress(vault) {
			return nil, fmt.Errorf("%w: vault filter %q", ErrInvalidAddress, vault)
		}
		p.vaults[common.HexToAddress(vault)] = struct{}{}
	}

	return p, nil
}

// Run projects a vault observations JSONL file into the storage sink. Only
// vaults that projected a newer observation move their watermark.
func (p *Projector) Run(ctx context.Context, inputPath string) error {
	if p.store == nil {
		return fmt.Errorf("store is nil")
	}

	marks, err := p.loadWatermarks(ctx)
	if err != nil {
		return err
	}
	next := marks.clone()
	dirty := false

	file, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 10*1024*1024)

	batch := make([]model.VaultSnapshot, 0, p.cfg.BatchSize)
	var total, projected, skipped, failed int

	flush := func() error {
		if len(batch) > 0 {
			if err := p.store.PutSnapshotBatch(batch); err != nil {
				return fmt.Errorf("write snapshots: %w", err)
			}
			p.logger.Debug("flushed snapshots", zap.Int("count", len(batch)))
			batch = batch[:0]
		}
		if dirty && p.cfg.StateStore != nil {
			if err := p.cfg.StateStore.Save(ctx, next); err != nil {
				return err
			}
			dirty = false
		}
		return nil
	}

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}

		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		total++

		var obs model.VaultObservation
		if err := json.Unmarshal(line, &obs); err != nil {
			failed++
			p.logger.Warn("decode vault observation", zap.Error(err), zap.Int("line", total))
			continue
		}

		if !p.selected(obs, marks) {
			skipped++
			continue
		}

		snap, err := p.Project(obs)
		if err != nil {
			failed++
			p.logger.Warn("project vault", zap.Error(err), zap.String("vault", obs.Address))
			continue
		}
		batch = append(batch, snap)
		projected++
		if next.Advance(common.HexToAddress(snap.Address), obs.ObservedAt) {
			dirty = true
		}

		if len(batch) >= p.cfg.BatchSize {
			if err := flush(); err != nil {
				return err
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scan input: %w", err)
	}
	if err := flush(); err != nil {
		return err
	}

	p.logger.Info("project complete",
		zap.Int("total", total),
		zap.Int("projected", projected),
		zap.Int("skipped", skipped),
		zap.Int("failed", failed),
		zap.Int("watermarks", len(next)),
	)

	return nil
}

func (p *Projector) loadWatermarks(ctx context.Context) (Watermarks, error) {
	if p.cfg.StateStore == nil {
		return make(Watermarks), nil
	}
	marks, err := p.cfg.StateStore.Load(ctx)
	if err != nil {
		return nil, err
	}
	if marks == nil {
		marks = make(Watermarks)
	}
	return marks, nil
}

// selected applies the vault filter and the since threshold. Thresholds come
// from the watermarks loaded at start, so out-of-order rows within one input
// are all projected.
func (p *Projector) selected(obs model.VaultObservation, marks Watermarks) bool {
	if !common.IsHexAddress(obs.Address) {
		// Let Project report the bad address.
		return true
	}
	vault := common.HexToAddress(obs.Address)

	since := p.cfg.Since
	if since == 0 {
		since = marks[vault]
	}
	if since > 0 && obs.ObservedAt <= since {
		return false
	}

	if len(p.vaults) == 0 {
		return true
	}
	_, ok := p.vaults[vault]
	return ok
}

func (p *Projector) isNativeWrapper(address string) bool {
	return p.wrapper != nil && common.HexToAddress(address) == *p.wrapper
}
