package ports

import (
	"context"

	"github.com/lifebooster/core/internal/domain/entities"
)

// DocumentBackend is the durable key-value slot holding the whole serialized
// document. Load and Save always move the entire document; there are no
// incremental writes.
type DocumentBackend interface {
	// Load reads the stored document. ok is false when the slot is empty.
	// Implementations run the schema upgrade before returning, so a loaded
	// document is always fully shaped.
	Load(ctx context.Context) (doc *entities.AppData, ok bool, err error)

	// Save serializes and persists the entire document.
	Save(ctx context.Context, doc *entities.AppData) error

	// Reset clears the slot.
	Reset(ctx context.Context) error

	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error

	Close() error
}

// NotificationSink delivers OS-level reminder notifications. A disabled sink
// models missing notification permission: deliveries are dropped silently
// while in-app notification records still happen.
type NotificationSink interface {
	Deliver(title, body string)
	Enabled() bool
}

// ScannedTransaction is one transaction extracted from a receipt image.
type ScannedTransaction struct {
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
	Type        string  `json:"type"` // "income" or "expense"
}

// ReceiptAnalyzer extracts transactions from an image via the external
// image-analysis API.
type ReceiptAnalyzer interface {
	ExtractTransactions(ctx context.Context, imageBase64, mimeType string) ([]ScannedTransaction, error)
}
