package storage

import "vaultScope/internal/model"

// Storage defines a sink for vault snapshots.
type Storage interface {
	PutSnapshotBatch(snapshots []model.VaultSnapshot) error
}
