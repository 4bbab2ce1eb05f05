package save

import (
	"errors"
	"fmt"
	"sync"

	"github.com/lawnchairsociety/idlerpg/internal/logger"
)

// Store is a key-value blob store keyed by save slot.
// Get returns ErrNoSaveData for an empty slot.
type Store interface {
	Get(slot string) ([]byte, error)
	Put(slot string, data []byte) error
	Delete(slot string) error
}

// MemoryStore is an in-process Store.
type MemoryStore struct {
	mu    sync.RWMutex
	slots map[string][]byte
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{slots: make(map[string][]byte)}
}

func (m *MemoryStore) Get(slot string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.slots[slot]
	if !ok {
		return nil, ErrNoSaveData
	}
	return append([]byte(nil), data...), nil
}

func (m *MemoryStore) Put(slot string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slots[slot] = append([]byte(nil), data...)
	return nil
}

func (m *MemoryStore) Delete(slot string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.slots, slot)
	return nil
}

// Gateway saves and loads snapshots in one slot of a Store.
type Gateway struct {
	store Store
	slot  string
}

// NewGateway creates a gateway for the given slot.
func NewGateway(store Store, slot string) *Gateway {
	return &Gateway{store: store, slot: slot}
}

// Slot returns the slot name.
func (g *Gateway) Slot() string {
	return g.slot
}

// Save seals and stores a snapshot.
func (g *Gateway) Save(s *Snapshot) error {
	payload, err := Encode(s)
	if err != nil {
		return err
	}
	blob, err := Seal(payload)
	if err != nil {
		return err
	}
	if err := g.store.Put(g.slot, blob); err != nil {
		return fmt.Errorf("failed to write slot %s: %w", g.slot, err)
	}
	logger.Debug("Game saved", "slot", g.slot, "bytes", len(blob))
	return nil
}

// Load reads the slot. It returns ErrNoSaveData when the slot is empty or
// the blob is corrupt; a corrupt blob is also logged.
func (g *Gateway) Load() (*Snapshot, error) {
	blob, err := g.store.Get(g.slot)
	if err != nil {
		if errors.Is(err, ErrNoSaveData) {
			return nil, ErrNoSaveData
		}
		return nil, fmt.Errorf("failed to read slot %s: %w", g.slot, err)
	}

	payload, err := Open(blob)
	if err != nil {
		logger.Warning("Discarding corrupt save", "slot", g.slot, "error", err)
		return nil, err
	}
	s, err := Decode(payload)
	if err != nil {
		logger.Warning("Discarding corrupt save", "slot", g.slot, "error", err)
		return nil, err
	}
	return s, nil
}

// Reset deletes the slot.
func (g *Gateway) Reset() error {
	if err := g.store.Delete(g.slot); err != nil {
		return fmt.Errorf("failed to delete slot %s: %w", g.slot, err)
	}
	logger.Info("Save slot deleted", "slot", g.slot)
	return nil
}
