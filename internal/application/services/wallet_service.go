package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lifebooster/core/internal/application/store"
	"github.com/lifebooster/core/internal/domain/entities"
	"github.com/lifebooster/core/internal/infrastructure/logger"
	"github.com/lifebooster/core/internal/ports"
)

// WalletService handles incomes, expenses, and loans. A loan submission also
// creates a mirrored Expense (lent) or Income (borrowed) so balance totals
// stay consistent; the mirror shares no id with the loan and the two records
// diverge independently afterwards. That asymmetry is deliberate: paying off
// or deleting a loan never rewrites the mirror.
type WalletService struct {
	store         *store.Store
	notifications *NotificationService
	logger        *logger.Logger
}

// NewWalletService creates a new wallet service
func NewWalletService(st *store.Store, notifications *NotificationService, appLogger *logger.Logger) *WalletService {
	return &WalletService{
		store:         st,
		notifications: notifications,
		logger:        appLogger,
	}
}

// TransactionView is a wallet listing row, flattening incomes, expenses, and
// loans into one shape.
type TransactionView struct {
	ID          string          `json:"id"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Date        string          `json:"date,omitempty"`
	Type        string          `json:"type"`
	IsPaid      bool            `json:"isPaid"`
	IsLoan      bool            `json:"isLoan"`
}

// AddTransaction creates the records a wallet submission implies and applies
// them in one atomic patch.
func (s *WalletService) AddTransaction(ctx context.Context, req ports.CreateTransactionRequest) error {
	amount := decimal.NewFromFloat(req.Amount)
	if !amount.IsPositive() {
		return entities.ErrInvalidAmount
	}

	now := time.Now()
	stamp := transactionStamp(req.Date, now)

	snap := s.store.Snapshot()
	incomes := append([]entities.Income(nil), snap.Incomes...)
	expenses := append([]entities.Expense(nil), snap.Expenses...)
	loans := append([]entities.Loan(nil), snap.Loans...)

	desc := strings.TrimSpace(req.Description)

	switch req.Kind {
	case ports.TransactionIncome:
		if desc == "" {
			desc = "Income"
		}
		incomes = append(incomes, entities.Income{
			ID:          entities.NewID(),
			Amount:      amount,
			Description: desc,
			Source:      req.Category,
			Date:        stamp,
		})

	case ports.TransactionExpense:
		if desc == "" {
			desc = "Expense"
		}
		expenses = append(expenses, entities.Expense{
			ID:          entities.NewID(),
			Amount:      amount,
			Description: desc,
			Category:    req.Category,
			Date:        stamp,
		})

	case ports.TransactionLent:
		person := desc
		if person == "" {
			person = "Unknown"
		}
		expenses = append(expenses, entities.Expense{
			ID:          entities.NewID(),
			Amount:      amount,
			Description: fmt.Sprintf("Lent to: %s", person),
			Date:        stamp,
		})
		loans = append(loans, entities.Loan{
			ID:      entities.NewID(),
			Person:  person,
			Amount:  amount,
			Type:    entities.LoanTypeLent,
			DueDate: req.DueDate,
		})

	case ports.TransactionBorrowed:
		person := desc
		if person == "" {
			person = "Unknown"
		}
		incomes = append(incomes, entities.Income{
			ID:          entities.NewID(),
			Amount:      amount,
			Description: fmt.Sprintf("Borrowed from: %s", person),
			Date:        stamp,
		})
		loans = append(loans, entities.Loan{
			ID:      entities.NewID(),
			Person:  person,
			Amount:  amount,
			Type:    entities.LoanTypeBorrowed,
			DueDate: req.DueDate,
		})

	default:
		return fmt.Errorf("unknown transaction kind %q", req.Kind)
	}

	if err := s.store.Apply(ctx, store.Patch{Incomes: &incomes, Expenses: &expenses, Loans: &loans}); err != nil {
		return fmt.Errorf("failed to add transaction: %w", err)
	}

	currency := snap.Currency
	message := fmt.Sprintf("Added %s %s to %s", amount.String(), currency, req.Kind)
	if _, err := s.notifications.Add(ctx, "Transaction Added", message, entities.NotificationSuccess); err != nil {
		s.logger.Warnw("Failed to record transaction notification", "error", err)
	}

	s.logger.Info("Transaction added", "kind", req.Kind, "amount", amount.String())

	return nil
}

// AddScanned appends extracted receipt transactions, all stamped now, in one
// atomic patch. Rows without a positive amount are skipped. Returns how many
// rows were added.
func (s *WalletService) AddScanned(ctx context.Context, txs []ports.ScannedTransaction) (int, error) {
	snap := s.store.Snapshot()
	incomes := append([]entities.Income(nil), snap.Incomes...)
	expenses := append([]entities.Expense(nil), snap.Expenses...)

	stamp := time.Now().Format(time.RFC3339)
	added := 0
	for _, tx := range txs {
		amount := decimal.NewFromFloat(tx.Amount)
		if !amount.IsPositive() {
			continue
		}
		if tx.Type == "income" {
			incomes = append(incomes, entities.Income{
				ID:          entities.NewID(),
				Amount:      amount,
				Description: tx.Description,
				Date:        stamp,
			})
		} else {
			expenses = append(expenses, entities.Expense{
				ID:          entities.NewID(),
				Amount:      amount,
				Description: tx.Description,
				Date:        stamp,
			})
		}
		added++
	}

	if added == 0 {
		return 0, nil
	}

	if err := s.store.Apply(ctx, store.Patch{Incomes: &incomes, Expenses: &expenses}); err != nil {
		return 0, fmt.Errorf("failed to add scanned transactions: %w", err)
	}

	return added, nil
}

// ToggleLoanPaid flips a loan's paid flag. The loan's mirror entry is left
// untouched.
func (s *WalletService) ToggleLoanPaid(ctx context.Context, id string) (*entities.Loan, error) {
	snap := s.store.Snapshot()

	var toggled *entities.Loan
	next := make([]entities.Loan, len(snap.Loans))
	for i, l := range snap.Loans {
		l := l
		if l.ID == id {
			l.IsPaid = !l.IsPaid
			toggled = &l
		}
		next[i] = l
	}
	if toggled == nil {
		return nil, entities.ErrLoanNotFound
	}

	if err := s.store.Apply(ctx, store.Patch{Loans: &next}); err != nil {
		return nil, fmt.Errorf("failed to toggle loan: %w", err)
	}

	return toggled, nil
}

// Loans returns every live loan.
func (s *WalletService) Loans(ctx context.Context) []entities.Loan {
	return s.store.Snapshot().Loans
}

// Transactions returns the wallet listing for a filter, newest first. The
// loans filter lists loan records themselves; the others list the flattened
// income/expense history.
func (s *WalletService) Transactions(ctx context.Context, filter ports.TransactionFilter) []TransactionView {
	snap := s.store.Snapshot()

	if filter == ports.FilterLoans {
		out := make([]TransactionView, 0, len(snap.Loans))
		for i := len(snap.Loans) - 1; i >= 0; i-- {
			l := snap.Loans[i]
			out = append(out, TransactionView{
				ID:          l.ID,
				Amount:      l.Amount,
				Description: l.Person,
				Type:        string(l.Type),
				IsPaid:      l.IsPaid,
				IsLoan:      true,
			})
		}
		return out
	}

	var out []TransactionView
	if filter == ports.FilterAll || filter == ports.FilterIncome {
		for _, in := range snap.Incomes {
			out = append(out, TransactionView{
				ID:          in.ID,
				Amount:      in.Amount,
				Description: in.Description,
				Date:        in.Date,
				Type:        "income",
			})
		}
	}
	if filter == ports.FilterAll || filter == ports.FilterExpense {
		for _, ex := range snap.Expenses {
			out = append(out, TransactionView{
				ID:          ex.ID,
				Amount:      ex.Amount,
				Description: ex.Description,
				Date:        ex.Date,
				Type:        "expense",
			})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date > out[j].Date
	})

	return out
}

// transactionStamp places a submission on the selected day at the current
// clock time, or now when no day was selected.
func transactionStamp(day string, now time.Time) string {
	if day == "" {
		return now.Format(time.RFC3339)
	}
	d, err := time.ParseInLocation(entities.DayLayout, day, now.Location())
	if err != nil {
		return now.Format(time.RFC3339)
	}
	stamped := time.Date(d.Year(), d.Month(), d.Day(), now.Hour(), now.Minute(), 0, 0, now.Location())
	return stamped.Format(time.RFC3339)
}
