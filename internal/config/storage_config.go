package config

import "strings"

// StorageMode selects where credentials are persisted.
type StorageMode string

const (
	// StoragePersistent keeps credentials in a sqlite file across runs.
	StoragePersistent StorageMode = "persistent"
	// StorageInert never persists anything (server-side rendering, CI).
	StorageInert StorageMode = "inert"
)

type StorageConfig interface {
	GetStorageMode() StorageMode
	GetStoragePath() string
}

type Storage struct{}

var _ StorageConfig = Storage{}

func (Storage) GetStorageMode() StorageMode {
	switch StorageMode(strings.ToLower(GetEnv("STORAGE_MODE", string(StoragePersistent)))) {
	case StorageInert:
		return StorageInert
	default:
		return StoragePersistent
	}
}

func (Storage) GetStoragePath() string {
	return GetEnv("STORAGE_PATH", "./convivio.db")
}
