package memstorage

import (
	"sync"

	"github.com/nlouis56/convivio-web/credentials"
)

var _ credentials.Storage = (*MemStorage)(nil)

// MemStorage keeps entries in a map guarded by a lock. It lives as long as
// the process, which makes it the storage of choice for tests.
type MemStorage struct {
	entries map[string]string
	lock    sync.RWMutex
}

func New() *MemStorage {
	return &MemStorage{
		entries: make(map[string]string),
	}
}

func (ms *MemStorage) Get(key string) (string, bool, error) {
	ms.lock.RLock()
	defer ms.lock.RUnlock()

	v, ok := ms.entries[key]
	return v, ok, nil
}

func (ms *MemStorage) SetAll(entries map[string]string) error {
	ms.lock.Lock()
	defer ms.lock.Unlock()

	for k, v := range entries {
		ms.entries[k] = v
	}
	return nil
}

func (ms *MemStorage) Delete(keys ...string) error {
	ms.lock.Lock()
	defer ms.lock.Unlock()

	for _, k := range keys {
		delete(ms.entries, k)
	}
	return nil
}

// Len returns the number of stored entries
func (ms *MemStorage) Len() int {
	ms.lock.RLock()
	defer ms.lock.RUnlock()

	return len(ms.entries)
}
