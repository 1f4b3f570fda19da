package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/lifebooster/core/internal/domain/entities"
)

// MemoryBackend holds the serialized document in memory. It round-trips
// through JSON like the durable backends so encoding behavior stays
// identical. Used in tests and as a throwaway mode.
type MemoryBackend struct {
	mu   sync.Mutex
	slot []byte

	// FailSaves makes every Save return an error, for exercising the
	// write-failure path.
	FailSaves bool

	saves int
}

// NewMemoryBackend returns an empty in-memory slot.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{}
}

func (b *MemoryBackend) Load(_ context.Context) (*entities.AppData, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.slot == nil {
		return nil, false, nil
	}

	var doc entities.AppData
	if err := json.Unmarshal(b.slot, &doc); err != nil {
		return nil, false, fmt.Errorf("parse document slot: %w", err)
	}
	Upgrade(&doc, time.Now())
	return &doc, true, nil
}

func (b *MemoryBackend) Save(_ context.Context, doc *entities.AppData) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.FailSaves {
		return fmt.Errorf("document slot unavailable")
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	b.slot = raw
	b.saves++
	return nil
}

func (b *MemoryBackend) Reset(_ context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.slot = nil
	return nil
}

func (b *MemoryBackend) Ping(_ context.Context) error {
	return nil
}

func (b *MemoryBackend) Close() error {
	return nil
}

// Saves reports how many successful saves happened.
func (b *MemoryBackend) Saves() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.saves
}

// Seed installs a document directly into the slot.
func (b *MemoryBackend) Seed(doc *entities.AppData) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	b.mu.Lock()
	b.slot = raw
	b.mu.Unlock()
	return nil
}
