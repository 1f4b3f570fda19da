package services

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/lifebooster/core/internal/domain/entities"
	"github.com/lifebooster/core/internal/infrastructure/logger"
	"github.com/lifebooster/core/internal/ports"
)

// ScanService extracts transactions from receipt images and records them.
// Only one scan may run at a time; concurrent callers get ErrScanInProgress
// instead of queueing.
type ScanService struct {
	analyzer      ports.ReceiptAnalyzer
	wallet        *WalletService
	notifications *NotificationService
	logger        *logger.Logger
	busy          atomic.Bool
}

// NewScanService creates a new scan service
func NewScanService(analyzer ports.ReceiptAnalyzer, wallet *WalletService, notifications *NotificationService, appLogger *logger.Logger) *ScanService {
	return &ScanService{
		analyzer:      analyzer,
		wallet:        wallet,
		notifications: notifications,
		logger:        appLogger,
	}
}

// Scan runs the analyzer on a receipt image and appends every extracted
// transaction in one batch. Returns the number of transactions recorded.
func (s *ScanService) Scan(ctx context.Context, imageBase64, mimeType string) (int, error) {
	if !s.busy.CompareAndSwap(false, true) {
		return 0, entities.ErrScanInProgress
	}
	defer s.busy.Store(false)

	txs, err := s.analyzer.ExtractTransactions(ctx, imageBase64, mimeType)
	if err != nil {
		s.logger.WithError(err).Error("Receipt scan failed")
		return 0, fmt.Errorf("failed to scan receipt: %w", err)
	}

	added, err := s.wallet.AddScanned(ctx, txs)
	if err != nil {
		return 0, fmt.Errorf("failed to record scanned transactions: %w", err)
	}

	if _, err := s.notifications.Add(ctx, "Scan Complete",
		fmt.Sprintf("Added %d transaction(s)", added),
		entities.NotificationSuccess); err != nil {
		s.logger.WithError(err).Warn("Failed to add scan notification")
	}

	s.logger.Infow("Receipt scanned", "transactions", added)
	return added, nil
}
