package storage

import (
	"time"

	"github.com/lifebooster/core/internal/domain/entities"
)

// StorageKey is the fixed name of the key-value slot holding the document.
const StorageKey = "lifebooster_data"

// Upgrade backfills fields that documents saved by older releases lack. It is
// run exactly once per load, in memory; storage is only rewritten on the next
// natural save. Returns true when anything was backfilled.
func Upgrade(doc *entities.AppData, now time.Time) bool {
	changed := false

	if doc.Currency == "" {
		doc.Currency = entities.DefaultCurrency
		changed = true
	}
	if !doc.Gender.IsValid() {
		doc.Gender = entities.DefaultGender
		changed = true
	}
	if doc.JoinDate == "" {
		doc.JoinDate = now.Format(time.RFC3339)
		changed = true
	}
	if doc.Incomes == nil {
		doc.Incomes = []entities.Income{}
		changed = true
	}
	if doc.Trash == nil {
		doc.Trash = []entities.TrashItem{}
		changed = true
	}
	if doc.Notifications == nil {
		doc.Notifications = []entities.Notification{}
		changed = true
	}

	// Pre-dating collections, normalized for uniformity.
	if doc.Tasks == nil {
		doc.Tasks = []entities.Task{}
		changed = true
	}
	if doc.Challenges == nil {
		doc.Challenges = []entities.Challenge{}
		changed = true
	}
	if doc.Expenses == nil {
		doc.Expenses = []entities.Expense{}
		changed = true
	}
	if doc.Loans == nil {
		doc.Loans = []entities.Loan{}
		changed = true
	}
	if doc.Mistakes == nil {
		doc.Mistakes = []entities.Mistake{}
		changed = true
	}

	return changed
}
