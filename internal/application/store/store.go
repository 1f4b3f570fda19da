package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/lifebooster/core/internal/domain/entities"
	"github.com/lifebooster/core/internal/infrastructure/logger"
	"github.com/lifebooster/core/internal/ports"
)

// Patch is a partial document: every non-nil field replaces the matching
// document field wholesale. Collections are replaced, not merged — callers
// compute the full next collection value themselves.
type Patch struct {
	HasOnboarded   *bool
	JoinDate       *string
	Name           *string
	Gender         *entities.Gender
	Currency       *string
	Tasks          *[]entities.Task
	Challenges     *[]entities.Challenge
	Expenses       *[]entities.Expense
	Incomes        *[]entities.Income
	Loans          *[]entities.Loan
	Mistakes       *[]entities.Mistake
	Notifications  *[]entities.Notification
	Trash          *[]entities.TrashItem
	DailyGoodThing *string
	LastActiveDate *string
}

// Store holds the current document and is the only mutation path into it.
// Mutations are serialized: a patch is applied, persisted, and observed in
// full before the next one is admitted.
type Store struct {
	mu      sync.Mutex
	doc     *entities.AppData
	backend ports.DocumentBackend
	logger  *logger.Logger

	subs    map[int]func(*entities.AppData)
	nextSub int

	lastSaveErr  error
	saveFailures prometheus.Counter
}

// Open loads the document from the backend, falling back to the default
// document when the slot is empty or unreadable. A read failure is non-fatal.
func Open(ctx context.Context, backend ports.DocumentBackend, appLogger *logger.Logger) (*Store, error) {
	log := appLogger.WithComponent("store")

	doc, ok, err := backend.Load(ctx)
	if err != nil {
		log.Warnw("Failed to load stored document, starting fresh", "error", err)
	}
	if !ok || err != nil {
		doc = entities.DefaultAppData(time.Now())
	}

	return &Store{
		doc:     doc,
		backend: backend,
		logger:  log,
		subs:    make(map[int]func(*entities.AppData)),
		saveFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "document_save_failures_total",
			Help: "Total number of failed document persistence writes",
		}),
	}, nil
}

// Snapshot returns a deep copy of the current document.
func (s *Store) Snapshot() *entities.AppData {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Clone()
}

// Apply shallow-merges the patch into the document, persists the result, and
// notifies observers. The merge itself is all-or-nothing; a persistence
// failure is logged and counted but does not undo the mutation.
func (s *Store) Apply(ctx context.Context, p Patch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.doc.Clone()
	merge(next, p)
	s.doc = next

	start := time.Now()
	if err := s.backend.Save(ctx, next); err != nil {
		s.lastSaveErr = fmt.Errorf("persist document: %w", err)
		s.saveFailures.Inc()
		s.logger.LogDocumentSave("backend", float64(time.Since(start).Nanoseconds())/1e6, err)
	} else {
		s.lastSaveErr = nil
		s.logger.LogDocumentSave("backend", float64(time.Since(start).Nanoseconds())/1e6, nil)
	}

	snapshot := next.Clone()
	for _, fn := range s.subs {
		fn(snapshot)
	}

	return nil
}

func merge(doc *entities.AppData, p Patch) {
	if p.HasOnboarded != nil {
		doc.HasOnboarded = *p.HasOnboarded
	}
	if p.JoinDate != nil {
		doc.JoinDate = *p.JoinDate
	}
	if p.Name != nil {
		doc.Name = *p.Name
	}
	if p.Gender != nil {
		doc.Gender = *p.Gender
	}
	if p.Currency != nil {
		doc.Currency = *p.Currency
	}
	if p.Tasks != nil {
		doc.Tasks = *p.Tasks
	}
	if p.Challenges != nil {
		doc.Challenges = *p.Challenges
	}
	if p.Expenses != nil {
		doc.Expenses = *p.Expenses
	}
	if p.Incomes != nil {
		doc.Incomes = *p.Incomes
	}
	if p.Loans != nil {
		doc.Loans = *p.Loans
	}
	if p.Mistakes != nil {
		doc.Mistakes = *p.Mistakes
	}
	if p.Notifications != nil {
		doc.Notifications = *p.Notifications
	}
	if p.Trash != nil {
		doc.Trash = *p.Trash
	}
	if p.DailyGoodThing != nil {
		doc.DailyGoodThing = *p.DailyGoodThing
	}
	if p.LastActiveDate != nil {
		doc.LastActiveDate = *p.LastActiveDate
	}
}

// Subscribe registers an observer called synchronously with a fresh snapshot
// after every applied patch. The returned function removes the observer.
// Observers run while the store lock is held and must not call back into the
// store; a reentrant Apply, Snapshot or Reset deadlocks.
func (s *Store) Subscribe(fn func(*entities.AppData)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// Reset replaces the document with the default one and clears the slot.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.backend.Reset(ctx); err != nil {
		return fmt.Errorf("reset storage: %w", err)
	}

	s.doc = entities.DefaultAppData(time.Now())
	s.lastSaveErr = nil

	snapshot := s.doc.Clone()
	for _, fn := range s.subs {
		fn(snapshot)
	}

	s.logger.Infow("Document reset to defaults")
	return nil
}

// LastSaveError returns the most recent persistence failure, or nil when the
// last save succeeded.
func (s *Store) LastSaveError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSaveErr
}

// Ping reports backend reachability.
func (s *Store) Ping(ctx context.Context) error {
	return s.backend.Ping(ctx)
}

// Collector exposes the save-failure counter for metrics registration.
func (s *Store) Collector() prometheus.Collector {
	return s.saveFailures
}
