package services

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifebooster/core/internal/domain/entities"
	"github.com/lifebooster/core/internal/infrastructure/logger"
	"github.com/lifebooster/core/internal/ports"
)

func newWalletService(t *testing.T) (*WalletService, *ReportService) {
	t.Helper()
	st, _ := newTestStore(t)
	notifications := NewNotificationService(st, logger.NewNop())
	wallet := NewWalletService(st, notifications, logger.NewNop())
	reports := NewReportService(st, logger.NewNop())
	return wallet, reports
}

func TestAddIncomeAndExpense(t *testing.T) {
	wallet, reports := newWalletService(t)
	ctx := context.Background()

	require.NoError(t, wallet.AddTransaction(ctx, ports.CreateTransactionRequest{
		Kind: ports.TransactionIncome, Amount: 1000, Description: "Salary",
	}))
	require.NoError(t, wallet.AddTransaction(ctx, ports.CreateTransactionRequest{
		Kind: ports.TransactionExpense, Amount: 300, Description: "Rent",
	}))

	balance := reports.NetBalance(ctx)
	assert.True(t, balance.Equal(decimal.NewFromInt(700)), "got %s", balance)
}

func TestAddTransactionDefaultDescriptions(t *testing.T) {
	wallet, _ := newWalletService(t)
	ctx := context.Background()

	require.NoError(t, wallet.AddTransaction(ctx, ports.CreateTransactionRequest{
		Kind: ports.TransactionIncome, Amount: 10,
	}))
	require.NoError(t, wallet.AddTransaction(ctx, ports.CreateTransactionRequest{
		Kind: ports.TransactionExpense, Amount: 10,
	}))

	views := wallet.Transactions(ctx, ports.FilterAll)
	descs := []string{views[0].Description, views[1].Description}
	assert.Contains(t, descs, "Income")
	assert.Contains(t, descs, "Expense")
}

func TestAddTransactionRejectsNonPositive(t *testing.T) {
	wallet, _ := newWalletService(t)

	err := wallet.AddTransaction(context.Background(), ports.CreateTransactionRequest{
		Kind: ports.TransactionIncome, Amount: 0,
	})
	assert.ErrorIs(t, err, entities.ErrInvalidAmount)

	err = wallet.AddTransaction(context.Background(), ports.CreateTransactionRequest{
		Kind: ports.TransactionExpense, Amount: -5,
	})
	assert.ErrorIs(t, err, entities.ErrInvalidAmount)
}

func TestLentLoanCreatesMirrorExpense(t *testing.T) {
	wallet, reports := newWalletService(t)
	ctx := context.Background()

	require.NoError(t, wallet.AddTransaction(ctx, ports.CreateTransactionRequest{
		Kind: ports.TransactionLent, Amount: 200, Description: "Sara",
	}))

	loans := wallet.Loans(ctx)
	require.Len(t, loans, 1)
	assert.Equal(t, "Sara", loans[0].Person)
	assert.Equal(t, entities.LoanTypeLent, loans[0].Type)
	assert.False(t, loans[0].IsPaid)

	views := wallet.Transactions(ctx, ports.FilterExpense)
	require.Len(t, views, 1)
	assert.Equal(t, "Lent to: Sara", views[0].Description)

	// Lending 200 shows up as -200 net.
	balance := reports.NetBalance(ctx)
	assert.True(t, balance.Equal(decimal.NewFromInt(-200)), "got %s", balance)

	totals := reports.LoanTotals(ctx)
	assert.True(t, totals.Lent.Equal(decimal.NewFromInt(200)))
	assert.True(t, totals.Borrowed.IsZero())
}

func TestBorrowedLoanCreatesMirrorIncome(t *testing.T) {
	wallet, reports := newWalletService(t)
	ctx := context.Background()

	require.NoError(t, wallet.AddTransaction(ctx, ports.CreateTransactionRequest{
		Kind: ports.TransactionBorrowed, Amount: 150,
	}))

	loans := wallet.Loans(ctx)
	require.Len(t, loans, 1)
	assert.Equal(t, "Unknown", loans[0].Person)
	assert.Equal(t, entities.LoanTypeBorrowed, loans[0].Type)

	views := wallet.Transactions(ctx, ports.FilterIncome)
	require.Len(t, views, 1)
	assert.Equal(t, "Borrowed from: Unknown", views[0].Description)

	balance := reports.NetBalance(ctx)
	assert.True(t, balance.Equal(decimal.NewFromInt(150)), "got %s", balance)
}

func TestToggleLoanPaidLeavesMirrorAlone(t *testing.T) {
	wallet, reports := newWalletService(t)
	ctx := context.Background()

	require.NoError(t, wallet.AddTransaction(ctx, ports.CreateTransactionRequest{
		Kind: ports.TransactionLent, Amount: 200, Description: "Sara",
	}))

	loans := wallet.Loans(ctx)
	require.Len(t, loans, 1)

	toggled, err := wallet.ToggleLoanPaid(ctx, loans[0].ID)
	require.NoError(t, err)
	assert.True(t, toggled.IsPaid)

	// A settled loan leaves outstanding totals but the mirror expense stays.
	totals := reports.LoanTotals(ctx)
	assert.True(t, totals.Lent.IsZero())
	assert.Len(t, wallet.Transactions(ctx, ports.FilterExpense), 1)

	// Toggling again reopens the loan.
	toggled, err = wallet.ToggleLoanPaid(ctx, loans[0].ID)
	require.NoError(t, err)
	assert.False(t, toggled.IsPaid)
}

func TestToggleLoanPaidUnknownID(t *testing.T) {
	wallet, _ := newWalletService(t)

	_, err := wallet.ToggleLoanPaid(context.Background(), "nope")
	assert.ErrorIs(t, err, entities.ErrLoanNotFound)
}

func TestAddScannedSkipsNonPositiveRows(t *testing.T) {
	wallet, reports := newWalletService(t)
	ctx := context.Background()

	added, err := wallet.AddScanned(ctx, []ports.ScannedTransaction{
		{Amount: 12.5, Description: "Coffee", Type: "expense"},
		{Amount: 0, Description: "Free sample", Type: "expense"},
		{Amount: -3, Description: "Refund glitch", Type: "income"},
		{Amount: 100, Description: "Cashback", Type: "income"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, added)

	balance := reports.NetBalance(ctx)
	assert.True(t, balance.Equal(decimal.NewFromFloat(87.5)), "got %s", balance)
}

func TestAddScannedEmptyBatch(t *testing.T) {
	wallet, _ := newWalletService(t)

	added, err := wallet.AddScanned(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, added)
}

func TestTransactionsLoansFilter(t *testing.T) {
	wallet, _ := newWalletService(t)
	ctx := context.Background()

	require.NoError(t, wallet.AddTransaction(ctx, ports.CreateTransactionRequest{
		Kind: ports.TransactionLent, Amount: 100, Description: "Sara",
	}))
	require.NoError(t, wallet.AddTransaction(ctx, ports.CreateTransactionRequest{
		Kind: ports.TransactionBorrowed, Amount: 50, Description: "Ali",
	}))

	views := wallet.Transactions(ctx, ports.FilterLoans)
	require.Len(t, views, 2)
	// Newest loan first.
	assert.Equal(t, "Ali", views[0].Description)
	assert.True(t, views[0].IsLoan)
	assert.Equal(t, "Sara", views[1].Description)
}

func TestToggleLoanPaidReturnsMatchedLoan(t *testing.T) {
	wallet, _ := newWalletService(t)
	ctx := context.Background()

	require.NoError(t, wallet.AddTransaction(ctx, ports.CreateTransactionRequest{
		Kind: ports.TransactionLent, Amount: 200, Description: "Sara",
	}))
	require.NoError(t, wallet.AddTransaction(ctx, ports.CreateTransactionRequest{
		Kind: ports.TransactionBorrowed, Amount: 90, Description: "Ali",
	}))

	loans := wallet.Loans(ctx)
	require.Len(t, loans, 2)
	first := loans[0]

	toggled, err := wallet.ToggleLoanPaid(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, toggled.ID)
	assert.Equal(t, first.Person, toggled.Person)
	assert.True(t, toggled.IsPaid)

	for _, l := range wallet.Loans(ctx) {
		assert.Equal(t, l.ID == first.ID, l.IsPaid)
	}
}
