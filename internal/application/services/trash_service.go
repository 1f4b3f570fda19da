package services

import (
	"context"
	"fmt"
	"time"

	"github.com/lifebooster/core/internal/application/store"
	"github.com/lifebooster/core/internal/domain/entities"
	"github.com/lifebooster/core/internal/infrastructure/logger"
)

// TrashService implements soft delete across all six deletable entity kinds.
// A live entity and its trash entry never coexist: moving removes from the
// live collection and prepends to trash in one atomic patch, restoring does
// the reverse.
type TrashService struct {
	store  *store.Store
	logger *logger.Logger
}

// NewTrashService creates a new trash service
func NewTrashService(st *store.Store, appLogger *logger.Logger) *TrashService {
	return &TrashService{
		store:  st,
		logger: appLogger,
	}
}

// Move removes the entity with the given id from its live collection and
// prepends it to trash, wrapped with its kind and deletion time.
func (s *TrashService) Move(ctx context.Context, kind entities.TrashKind, id string) error {
	if !kind.IsValid() {
		return fmt.Errorf("%w: %q", entities.ErrInvalidTrashKind, kind)
	}

	snap := s.store.Snapshot()
	deletedAt := time.Now().Format(time.RFC3339)
	item := entities.TrashItem{Kind: kind, DeletedAt: deletedAt}
	patch := store.Patch{}

	switch kind {
	case entities.TrashKindTask:
		next := make([]entities.Task, 0, len(snap.Tasks))
		for _, t := range snap.Tasks {
			if t.ID == id {
				t := t
				item.Task = &t
				continue
			}
			next = append(next, t)
		}
		if item.Task == nil {
			return entities.ErrTaskNotFound
		}
		patch.Tasks = &next

	case entities.TrashKindExpense:
		next := make([]entities.Expense, 0, len(snap.Expenses))
		for _, e := range snap.Expenses {
			if e.ID == id {
				e := e
				item.Expense = &e
				continue
			}
			next = append(next, e)
		}
		if item.Expense == nil {
			return entities.ErrExpenseNotFound
		}
		patch.Expenses = &next

	case entities.TrashKindIncome:
		next := make([]entities.Income, 0, len(snap.Incomes))
		for _, in := range snap.Incomes {
			if in.ID == id {
				in := in
				item.Income = &in
				continue
			}
			next = append(next, in)
		}
		if item.Income == nil {
			return entities.ErrIncomeNotFound
		}
		patch.Incomes = &next

	case entities.TrashKindLoan:
		next := make([]entities.Loan, 0, len(snap.Loans))
		for _, l := range snap.Loans {
			if l.ID == id {
				l := l
				item.Loan = &l
				continue
			}
			next = append(next, l)
		}
		if item.Loan == nil {
			return entities.ErrLoanNotFound
		}
		patch.Loans = &next

	case entities.TrashKindChallenge:
		next := make([]entities.Challenge, 0, len(snap.Challenges))
		for _, c := range snap.Challenges {
			if c.ID == id {
				c := c
				item.Challenge = &c
				continue
			}
			next = append(next, c)
		}
		if item.Challenge == nil {
			return entities.ErrChallengeNotFound
		}
		patch.Challenges = &next

	case entities.TrashKindMistake:
		next := make([]entities.Mistake, 0, len(snap.Mistakes))
		for _, m := range snap.Mistakes {
			if m.ID == id {
				m := m
				item.Mistake = &m
				continue
			}
			next = append(next, m)
		}
		if item.Mistake == nil {
			return entities.ErrMistakeNotFound
		}
		patch.Mistakes = &next
	}

	trash := append([]entities.TrashItem{item}, snap.Trash...)
	patch.Trash = &trash

	if err := s.store.Apply(ctx, patch); err != nil {
		return fmt.Errorf("failed to move to trash: %w", err)
	}

	s.logger.Info("Entity moved to trash", "kind", kind, "id", id)

	return nil
}

// Restore moves the trash entry with the given wrapped-entity id back onto
// the live collection its kind names. The entity reappears with its original
// fields, appended at the end; original position is not preserved. An id not
// present in trash is a silent no-op.
func (s *TrashService) Restore(ctx context.Context, id string) error {
	snap := s.store.Snapshot()

	var found *entities.TrashItem
	trash := make([]entities.TrashItem, 0, len(snap.Trash))
	for _, it := range snap.Trash {
		if it.EntityID() == id {
			if found == nil {
				it := it
				found = &it
			}
			continue
		}
		trash = append(trash, it)
	}
	if found == nil {
		return nil
	}

	patch := store.Patch{Trash: &trash}

	switch found.Kind {
	case entities.TrashKindTask:
		next := append(snap.Tasks, *found.Task)
		patch.Tasks = &next
	case entities.TrashKindExpense:
		next := append(snap.Expenses, *found.Expense)
		patch.Expenses = &next
	case entities.TrashKindIncome:
		next := append(snap.Incomes, *found.Income)
		patch.Incomes = &next
	case entities.TrashKindLoan:
		next := append(snap.Loans, *found.Loan)
		patch.Loans = &next
	case entities.TrashKindChallenge:
		next := append(snap.Challenges, *found.Challenge)
		patch.Challenges = &next
	case entities.TrashKindMistake:
		next := append(snap.Mistakes, *found.Mistake)
		patch.Mistakes = &next
	default:
		return fmt.Errorf("%w: %q", entities.ErrInvalidTrashKind, found.Kind)
	}

	if err := s.store.Apply(ctx, patch); err != nil {
		return fmt.Errorf("failed to restore from trash: %w", err)
	}

	s.logger.Info("Entity restored from trash", "kind", found.Kind, "id", id)

	return nil
}

// Purge permanently removes the trash entry with the given wrapped-entity
// id. There is no recovery afterwards. An absent id is a silent no-op.
func (s *TrashService) Purge(ctx context.Context, id string) error {
	snap := s.store.Snapshot()

	trash := make([]entities.TrashItem, 0, len(snap.Trash))
	removed := false
	for _, it := range snap.Trash {
		if it.EntityID() == id {
			removed = true
			continue
		}
		trash = append(trash, it)
	}
	if !removed {
		return nil
	}

	if err := s.store.Apply(ctx, store.Patch{Trash: &trash}); err != nil {
		return fmt.Errorf("failed to purge trash: %w", err)
	}

	s.logger.Info("Trash entry purged", "id", id)

	return nil
}

// List returns the trash, newest first.
func (s *TrashService) List(ctx context.Context) []entities.TrashItem {
	return s.store.Snapshot().Trash
}
