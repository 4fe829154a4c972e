package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/hasanq/muhasaba/internal/application/reporting"
	"github.com/hasanq/muhasaba/internal/application/usecase"
	"github.com/hasanq/muhasaba/internal/domain"
)

// ReportHandler handles the reporting, dashboard, and transaction log
// endpoints.
type ReportHandler struct {
	uc   *reporting.UseCase
	txUC *usecase.TransactionUseCase
}

// NewReportHandler builds the handler.
func NewReportHandler(uc *reporting.UseCase, txUC *usecase.TransactionUseCase) *ReportHandler {
	return &ReportHandler{uc: uc, txUC: txUC}
}

// GET /api/reports/sales?from=&to=
func (h *ReportHandler) SalesSummary(c *fiber.Ctx) error {
	from, to, err := reportRange(c)
	if err != nil {
		return respondError(c, err)
	}
	summary, err := h.uc.SalesSummary(c.Context(), from, to)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(summary)
}

// GET /api/reports/purchases?from=&to=
func (h *ReportHandler) PurchasesSummary(c *fiber.Ctx) error {
	from, to, err := reportRange(c)
	if err != nil {
		return respondError(c, err)
	}
	summary, err := h.uc.PurchasesSummary(c.Context(), from, to)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(summary)
}

// GET /api/reports/profit-loss?from=&to=
func (h *ReportHandler) ProfitLoss(c *fiber.Ctx) error {
	from, to, err := reportRange(c)
	if err != nil {
		return respondError(c, err)
	}
	pl, err := h.uc.ProfitLoss(c.Context(), from, to)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(pl)
}

// GET /api/reports/best-selling?from=&to=&limit=
func (h *ReportHandler) BestSelling(c *fiber.Ctx) error {
	from, to, err := reportRange(c)
	if err != nil {
		return respondError(c, err)
	}
	rows, err := h.uc.BestSelling(c.Context(), from, to, c.QueryInt("limit", 10))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(rows)
}

// GET /api/reports/top-customers?from=&to=&limit=
func (h *ReportHandler) TopCustomers(c *fiber.Ctx) error {
	from, to, err := reportRange(c)
	if err != nil {
		return respondError(c, err)
	}
	rows, err := h.uc.TopCustomers(c.Context(), from, to, c.QueryInt("limit", 10))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(rows)
}

// GET /api/reports/top-suppliers?from=&to=&limit=
func (h *ReportHandler) TopSuppliers(c *fiber.Ctx) error {
	from, to, err := reportRange(c)
	if err != nil {
		return respondError(c, err)
	}
	rows, err := h.uc.TopSuppliers(c.Context(), from, to, c.QueryInt("limit", 10))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(rows)
}

// GET /api/reports/inventory
func (h *ReportHandler) InventoryStatus(c *fiber.Ctx) error {
	rows, err := h.uc.InventoryStatus(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(rows)
}

// GET /api/dashboard?low_stock_threshold=
func (h *ReportHandler) Dashboard(c *fiber.Ctx) error {
	threshold := int64(c.QueryInt("low_stock_threshold", 10))
	dash, err := h.uc.Dashboard(c.Context(), threshold)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dash)
}

// GET /api/transactions?from=&to=&limit=&offset=
func (h *ReportHandler) Transactions(c *fiber.Ctx) error {
	from, to, err := reportRange(c)
	if err != nil {
		return respondError(c, err)
	}
	entries, err := h.txUC.List(c.Context(), from, to, queryLimit(c), c.QueryInt("offset", 0))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(entries)
}

// reportRange parses from/to query params; missing values default to the
// last 30 days.
func reportRange(c *fiber.Ctx) (time.Time, time.Time, error) {
	now := time.Now()
	from := now.AddDate(0, 0, -30)
	to := now

	parse := func(s string, def time.Time) (time.Time, error) {
		if s == "" {
			return def, nil
		}
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			return t, nil
		}
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return time.Time{}, domain.ErrInvalidInput
		}
		return t, nil
	}

	from, err := parse(c.Query("from"), from)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, err = parse(c.Query("to"), to)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return from, to, nil
}
