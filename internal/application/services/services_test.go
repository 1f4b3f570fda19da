package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lifebooster/core/internal/application/store"
	"github.com/lifebooster/core/internal/infrastructure/logger"
	"github.com/lifebooster/core/internal/infrastructure/storage"
)

func newTestStore(t *testing.T) (*store.Store, *storage.MemoryBackend) {
	t.Helper()
	backend := storage.NewMemoryBackend()
	st, err := store.Open(context.Background(), backend, logger.NewNop())
	require.NoError(t, err)
	return st, backend
}
