package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifebooster/core/internal/domain/entities"
	"github.com/lifebooster/core/internal/infrastructure/logger"
)

func newFileBackend(t *testing.T) (*FileBackend, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data", StorageKey+".json")
	return NewFileBackend(path, logger.NewNop()), path
}

func TestFileBackendMissingFile(t *testing.T) {
	backend, _ := newFileBackend(t)

	doc, ok, err := backend.Load(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, doc)
}

func TestFileBackendSaveLoadRoundTrip(t *testing.T) {
	backend, path := newFileBackend(t)
	ctx := context.Background()

	doc := entities.DefaultAppData(time.Now())
	doc.Name = "Lina"
	doc.Tasks = []entities.Task{{ID: "t1", Text: "Pay rent", Date: "2025-03-01"}}
	doc.Trash = []entities.TrashItem{{
		Kind:      entities.TrashKindTask,
		DeletedAt: "2025-03-01T10:00:00Z",
		Task:      &entities.Task{ID: "t2", Text: "old"},
	}}

	require.NoError(t, backend.Save(ctx, doc))
	assert.FileExists(t, path)

	loaded, ok, err := backend.Load(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Lina", loaded.Name)
	require.Len(t, loaded.Tasks, 1)
	assert.Equal(t, "Pay rent", loaded.Tasks[0].Text)
	require.Len(t, loaded.Trash, 1)
	assert.Equal(t, entities.TrashKindTask, loaded.Trash[0].Kind)
	assert.Equal(t, "t2", loaded.Trash[0].EntityID())
}

func TestFileBackendCorruptFile(t *testing.T) {
	backend, path := newFileBackend(t)

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, ok, err := backend.Load(context.Background())
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestFileBackendLoadUpgradesOldDocuments(t *testing.T) {
	backend, path := newFileBackend(t)

	// A document from before currency, trash, and notifications existed.
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(`{"name":"Omar","tasks":[]}`), 0o644))

	doc, ok, err := backend.Load(context.Background())
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, "Omar", doc.Name)
	assert.Equal(t, entities.DefaultCurrency, doc.Currency)
	assert.Equal(t, entities.DefaultGender, doc.Gender)
	assert.NotEmpty(t, doc.JoinDate)
	assert.NotNil(t, doc.Trash)
	assert.NotNil(t, doc.Notifications)
}

func TestFileBackendReset(t *testing.T) {
	backend, path := newFileBackend(t)
	ctx := context.Background()

	require.NoError(t, backend.Save(ctx, entities.DefaultAppData(time.Now())))
	assert.FileExists(t, path)

	require.NoError(t, backend.Reset(ctx))
	assert.NoFileExists(t, path)

	// Resetting an already empty slot is fine.
	require.NoError(t, backend.Reset(ctx))
}

func TestFileBackendPing(t *testing.T) {
	backend, _ := newFileBackend(t)
	assert.NoError(t, backend.Ping(context.Background()))
}
