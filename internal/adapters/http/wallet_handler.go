package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/lifebooster/core/internal/application/services"
	"github.com/lifebooster/core/internal/domain/entities"
	"github.com/lifebooster/core/internal/infrastructure/logger"
	"github.com/lifebooster/core/internal/ports"
)

// WalletHandler handles income, expense, and loan requests
type WalletHandler struct {
	walletService *services.WalletService
	logger        *logger.Logger
}

// NewWalletHandler creates a new wallet handler
func NewWalletHandler(walletService *services.WalletService, logger *logger.Logger) *WalletHandler {
	return &WalletHandler{
		walletService: walletService,
		logger:        logger,
	}
}

// CreateTransaction records an income, expense, or loan
func (h *WalletHandler) CreateTransaction(c echo.Context) error {
	var req ports.CreateTransactionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.walletService.AddTransaction(c.Request().Context(), req); err != nil {
		h.logger.Error("Create transaction failed", "error", err, "kind", req.Kind)
		return serviceError(err)
	}

	return c.JSON(http.StatusCreated, MessageResponse{Message: "Transaction added"})
}

// ListTransactions returns the merged transaction feed
func (h *WalletHandler) ListTransactions(c echo.Context) error {
	filter := ports.TransactionFilter(c.QueryParam("filter"))
	switch filter {
	case "":
		filter = ports.FilterAll
	case ports.FilterAll, ports.FilterIncome, ports.FilterExpense, ports.FilterLoans:
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid filter parameter")
	}

	return c.JSON(http.StatusOK, h.walletService.Transactions(c.Request().Context(), filter))
}

// ListLoans returns all loans, newest first
func (h *WalletHandler) ListLoans(c echo.Context) error {
	return c.JSON(http.StatusOK, h.walletService.Loans(c.Request().Context()))
}

// ToggleLoanPaid flips a loan's settled state
func (h *WalletHandler) ToggleLoanPaid(c echo.Context) error {
	id := c.Param("id")

	loan, err := h.walletService.ToggleLoanPaid(c.Request().Context(), id)
	if err != nil {
		h.logger.Error("Toggle loan failed", "error", err, "loan_id", id)
		return serviceError(err)
	}

	return c.JSON(http.StatusOK, loan)
}

// ScanHandler handles receipt scan requests
type ScanHandler struct {
	scanService *services.ScanService
	logger      *logger.Logger
}

// NewScanHandler creates a new scan handler
func NewScanHandler(scanService *services.ScanService, logger *logger.Logger) *ScanHandler {
	return &ScanHandler{
		scanService: scanService,
		logger:      logger,
	}
}

// ScanReceipt extracts transactions from a receipt image
func (h *ScanHandler) ScanReceipt(c echo.Context) error {
	var req ports.ScanRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	added, err := h.scanService.Scan(c.Request().Context(), req.Image, req.MimeType)
	if err != nil {
		h.logger.Error("Receipt scan failed", "error", err)
		return serviceError(err)
	}

	return c.JSON(http.StatusOK, ScanResponse{Added: added})
}

// ReportHandler handles derived aggregate requests
type ReportHandler struct {
	reportService *services.ReportService
	logger        *logger.Logger
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService *services.ReportService, logger *logger.Logger) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
		logger:        logger,
	}
}

// GetOverview returns the dashboard header for a day
func (h *ReportHandler) GetOverview(c echo.Context) error {
	day := c.QueryParam("date")
	if day == "" {
		day = entities.DayOf(time.Now())
	}

	return c.JSON(http.StatusOK, h.reportService.Overview(c.Request().Context(), day))
}

// GetBalance returns the all-time net balance
func (h *ReportHandler) GetBalance(c echo.Context) error {
	return c.JSON(http.StatusOK, BalanceResponse{
		Balance: h.reportService.NetBalance(c.Request().Context()),
		Loans:   h.reportService.LoanTotals(c.Request().Context()),
	})
}

// GetWeeklyActivity returns the last-7-days activity series
func (h *ReportHandler) GetWeeklyActivity(c echo.Context) error {
	return c.JSON(http.StatusOK, h.reportService.WeeklyActivity(c.Request().Context(), time.Now()))
}

// Response types
type ScanResponse struct {
	Added int `json:"added"`
}

type BalanceResponse struct {
	Balance decimal.Decimal     `json:"balance"`
	Loans   services.LoanTotals `json:"loans"`
}
