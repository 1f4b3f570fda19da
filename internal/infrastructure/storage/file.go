package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/lifebooster/core/internal/domain/entities"
	"github.com/lifebooster/core/internal/infrastructure/logger"
)

// FileBackend keeps the document in a single JSON file. Writes go through a
// temp file and rename so a crash mid-save never leaves a truncated document.
type FileBackend struct {
	path   string
	logger *logger.Logger
}

// NewFileBackend creates a file backend at the given path.
func NewFileBackend(path string, appLogger *logger.Logger) *FileBackend {
	return &FileBackend{
		path:   path,
		logger: appLogger.WithComponent("storage.file"),
	}
}

// Load reads and upgrades the stored document.
func (b *FileBackend) Load(_ context.Context) (*entities.AppData, bool, error) {
	raw, err := os.ReadFile(b.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read document file: %w", err)
	}

	var doc entities.AppData
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, false, fmt.Errorf("parse document file: %w", err)
	}

	if Upgrade(&doc, time.Now()) {
		b.logger.Infow("Upgraded stored document to current shape", "path", b.path)
	}

	return &doc, true, nil
}

// Save atomically replaces the document file.
func (b *FileBackend) Save(_ context.Context, doc *entities.AppData) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}

	dir := filepath.Dir(b.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create storage directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, StorageKey+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), b.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace document file: %w", err)
	}

	return nil
}

// Reset removes the document file.
func (b *FileBackend) Reset(_ context.Context) error {
	if err := os.Remove(b.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove document file: %w", err)
	}
	return nil
}

// Ping verifies the storage directory is usable.
func (b *FileBackend) Ping(_ context.Context) error {
	dir := filepath.Dir(b.path)
	if _, err := os.Stat(dir); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			// Created lazily on first save.
			return nil
		}
		return fmt.Errorf("stat storage directory: %w", err)
	}
	return nil
}

func (b *FileBackend) Close() error {
	return nil
}
