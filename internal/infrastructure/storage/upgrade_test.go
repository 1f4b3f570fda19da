package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/lifebooster/core/internal/domain/entities"
)

func TestUpgradeBackfillsMissingFields(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	doc := &entities.AppData{
		Name:  "Omar",
		Tasks: []entities.Task{{ID: "t1", Text: "Pay rent"}},
	}

	assert.True(t, Upgrade(doc, now))

	assert.Equal(t, entities.DefaultCurrency, doc.Currency)
	assert.Equal(t, entities.DefaultGender, doc.Gender)
	assert.Equal(t, now.Format(time.RFC3339), doc.JoinDate)
	assert.NotNil(t, doc.Incomes)
	assert.NotNil(t, doc.Trash)
	assert.NotNil(t, doc.Notifications)

	// Existing data is untouched.
	assert.Equal(t, "Omar", doc.Name)
	assert.Len(t, doc.Tasks, 1)
}

func TestUpgradeLeavesCompleteDocumentAlone(t *testing.T) {
	now := time.Now()
	doc := entities.DefaultAppData(now)
	doc.Currency = "USD"
	doc.Gender = entities.GenderFemale

	assert.False(t, Upgrade(doc, now))
	assert.Equal(t, "USD", doc.Currency)
	assert.Equal(t, entities.GenderFemale, doc.Gender)
}

func TestUpgradeFieldMatrix(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name   string
		mutate func(*entities.AppData)
		check  func(*testing.T, *entities.AppData)
	}{
		{
			name:   "missing currency",
			mutate: func(d *entities.AppData) { d.Currency = "" },
			check: func(t *testing.T, d *entities.AppData) {
				assert.Equal(t, entities.DefaultCurrency, d.Currency)
			},
		},
		{
			name:   "invalid gender",
			mutate: func(d *entities.AppData) { d.Gender = "other" },
			check: func(t *testing.T, d *entities.AppData) {
				assert.Equal(t, entities.DefaultGender, d.Gender)
			},
		},
		{
			name:   "missing join date",
			mutate: func(d *entities.AppData) { d.JoinDate = "" },
			check: func(t *testing.T, d *entities.AppData) {
				assert.NotEmpty(t, d.JoinDate)
			},
		},
		{
			name:   "nil incomes",
			mutate: func(d *entities.AppData) { d.Incomes = nil },
			check: func(t *testing.T, d *entities.AppData) {
				assert.NotNil(t, d.Incomes)
			},
		},
		{
			name:   "nil trash",
			mutate: func(d *entities.AppData) { d.Trash = nil },
			check: func(t *testing.T, d *entities.AppData) {
				assert.NotNil(t, d.Trash)
			},
		},
		{
			name:   "nil notifications",
			mutate: func(d *entities.AppData) { d.Notifications = nil },
			check: func(t *testing.T, d *entities.AppData) {
				assert.NotNil(t, d.Notifications)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := entities.DefaultAppData(now)
			tt.mutate(doc)
			assert.True(t, Upgrade(doc, now))
			tt.check(t, doc)
		})
	}
}
