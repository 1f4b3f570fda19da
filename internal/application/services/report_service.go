package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lifebooster/core/internal/application/store"
	"github.com/lifebooster/core/internal/domain/entities"
	"github.com/lifebooster/core/internal/infrastructure/logger"
)

// ReportService computes derived aggregates. Every value is recomputed from a
// fresh snapshot on each call and never cached: any collection mutation can
// change any of them.
type ReportService struct {
	store  *store.Store
	logger *logger.Logger
}

// NewReportService creates a new report service
func NewReportService(st *store.Store, appLogger *logger.Logger) *ReportService {
	return &ReportService{
		store:  st,
		logger: appLogger,
	}
}

// DayProgress is the task completion state for one calendar day.
type DayProgress struct {
	Done  int     `json:"done"`
	Total int     `json:"total"`
	Ratio float64 `json:"ratio"` // 0 when the day has no tasks
}

// LoanTotals are the outstanding sums per loan direction.
type LoanTotals struct {
	Lent     decimal.Decimal `json:"lent"`
	Borrowed decimal.Decimal `json:"borrowed"`
}

// DayActivity is one chart point of the rolling weekly series.
type DayActivity struct {
	Date      string          `json:"date"`
	Weekday   string          `json:"weekday"`
	Completed int             `json:"completed"`
	Ongoing   int             `json:"ongoing"`
	Spent     decimal.Decimal `json:"spent"`
}

// Overview is the dashboard header aggregate for a selected day.
type Overview struct {
	Progress DayProgress     `json:"progress"`
	Balance  decimal.Decimal `json:"balance"`
	Income   decimal.Decimal `json:"income"`
	Expense  decimal.Decimal `json:"expense"`
	Mistakes int             `json:"mistakes"`
	Unread   int             `json:"unread"`
}

// NetBalance is total income minus total expenses across all records,
// regardless of date.
func (s *ReportService) NetBalance(ctx context.Context) decimal.Decimal {
	snap := s.store.Snapshot()
	return sumIncomes(snap.Incomes).Sub(sumExpenses(snap.Expenses))
}

// DayProgress computes the completion ratio for tasks on the given day.
func (s *ReportService) DayProgress(ctx context.Context, day string) DayProgress {
	return dayProgress(s.store.Snapshot().Tasks, day)
}

// MistakeCount counts mistakes whose timestamp falls on the given calendar
// day.
func (s *ReportService) MistakeCount(ctx context.Context, day string) int {
	count := 0
	for _, m := range s.store.Snapshot().Mistakes {
		if entities.SameDay(m.Date, day) {
			count++
		}
	}
	return count
}

// LoanTotals sums unpaid loans per direction.
func (s *ReportService) LoanTotals(ctx context.Context) LoanTotals {
	totals := LoanTotals{Lent: decimal.Zero, Borrowed: decimal.Zero}
	for _, l := range s.store.Snapshot().Loans {
		if !l.Outstanding() {
			continue
		}
		switch l.Type {
		case entities.LoanTypeLent:
			totals.Lent = totals.Lent.Add(l.Amount)
		case entities.LoanTypeBorrowed:
			totals.Borrowed = totals.Borrowed.Add(l.Amount)
		}
	}
	return totals
}

// Overview assembles the dashboard header for a selected day.
func (s *ReportService) Overview(ctx context.Context, day string) Overview {
	snap := s.store.Snapshot()

	income := sumIncomes(snap.Incomes)
	expense := sumExpenses(snap.Expenses)

	mistakes := 0
	for _, m := range snap.Mistakes {
		if entities.SameDay(m.Date, day) {
			mistakes++
		}
	}

	unread := 0
	for _, n := range snap.Notifications {
		if !n.Read {
			unread++
		}
	}

	return Overview{
		Progress: dayProgress(snap.Tasks, day),
		Balance:  income.Sub(expense),
		Income:   income,
		Expense:  expense,
		Mistakes: mistakes,
		Unread:   unread,
	}
}

// WeeklyActivity returns one entry per day for the last 7 calendar days
// ending today: per-day completed and ongoing task counts and the day's
// expense total.
func (s *ReportService) WeeklyActivity(ctx context.Context, now time.Time) []DayActivity {
	snap := s.store.Snapshot()

	series := make([]DayActivity, 0, 7)
	for i := 6; i >= 0; i-- {
		d := now.AddDate(0, 0, -i)
		day := entities.DayOf(d)

		completed, ongoing := 0, 0
		for _, t := range snap.Tasks {
			if t.Date != day {
				continue
			}
			if t.Completed {
				completed++
			} else {
				ongoing++
			}
		}

		spent := decimal.Zero
		for _, e := range snap.Expenses {
			if entities.SameDay(e.Date, day) {
				spent = spent.Add(e.Amount)
			}
		}

		series = append(series, DayActivity{
			Date:      day,
			Weekday:   d.Format("Mon"),
			Completed: completed,
			Ongoing:   ongoing,
			Spent:     spent,
		})
	}

	return series
}

func dayProgress(tasks []entities.Task, day string) DayProgress {
	p := DayProgress{}
	for _, t := range tasks {
		if t.Date != day {
			continue
		}
		p.Total++
		if t.Completed {
			p.Done++
		}
	}
	if p.Total > 0 {
		p.Ratio = float64(p.Done) / float64(p.Total)
	}
	return p
}

func sumIncomes(incomes []entities.Income) decimal.Decimal {
	total := decimal.Zero
	for _, in := range incomes {
		total = total.Add(in.Amount)
	}
	return total
}

func sumExpenses(expenses []entities.Expense) decimal.Decimal {
	total := decimal.Zero
	for _, e := range expenses {
		total = total.Add(e.Amount)
	}
	return total
}
