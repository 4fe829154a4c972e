package reporting

import (
	"context"
	"time"

	"github.com/hasanq/muhasaba/internal/application/dto"
	"github.com/hasanq/muhasaba/internal/domain"
	"github.com/hasanq/muhasaba/internal/domain/repository"
)

const (
	defaultTopLimit  = 10
	defaultTrendDays = 30
)

// UseCase serves the reporting endpoints. All queries are read-only and run
// outside ledger transactions; a report over a period sums committed invoices
// only.
type UseCase struct {
	reportRepo  repository.ReportRepository
	productRepo repository.ProductRepository
	rateRepo    repository.ExchangeRateRepository
}

func NewUseCase(
	reportRepo repository.ReportRepository,
	productRepo repository.ProductRepository,
	rateRepo repository.ExchangeRateRepository,
) *UseCase {
	return &UseCase{reportRepo: reportRepo, productRepo: productRepo, rateRepo: rateRepo}
}

// SalesSummary aggregates sales invoices between from and to (inclusive).
func (uc *UseCase) SalesSummary(ctx context.Context, from, to time.Time) (*dto.SalesSummaryResponse, error) {
	if err := validateRange(from, to); err != nil {
		return nil, err
	}
	s, err := uc.reportRepo.SalesSummary(from, to)
	if err != nil {
		return nil, err
	}
	return &dto.SalesSummaryResponse{
		From:          from,
		To:            to,
		TotalIQD:      s.TotalIQD,
		TotalUSD:      s.TotalUSD,
		TotalInvoices: s.TotalInvoices,
		AverageIQD:    s.AverageIQD,
		TotalDiscount: s.TotalDiscount,
	}, nil
}

// PurchasesSummary aggregates purchase invoices between from and to.
func (uc *UseCase) PurchasesSummary(ctx context.Context, from, to time.Time) (*dto.PurchasesSummaryResponse, error) {
	if err := validateRange(from, to); err != nil {
		return nil, err
	}
	s, err := uc.reportRepo.PurchasesSummary(from, to)
	if err != nil {
		return nil, err
	}
	return &dto.PurchasesSummaryResponse{
		From:          from,
		To:            to,
		TotalIQD:      s.TotalIQD,
		TotalUSD:      s.TotalUSD,
		TotalInvoices: s.TotalInvoices,
		AverageIQD:    s.AverageIQD,
	}, nil
}

// ProfitLoss sums the transaction log between from and to. Net profit is
// revenue minus expenses per currency; sales returns already sit on the
// expense side of the log.
func (uc *UseCase) ProfitLoss(ctx context.Context, from, to time.Time) (*dto.ProfitLossResponse, error) {
	if err := validateRange(from, to); err != nil {
		return nil, err
	}
	pl, err := uc.reportRepo.ProfitLoss(from, to)
	if err != nil {
		return nil, err
	}
	return &dto.ProfitLossResponse{
		From:         from,
		To:           to,
		RevenueIQD:   pl.RevenueIQD,
		RevenueUSD:   pl.RevenueUSD,
		ExpensesIQD:  pl.ExpensesIQD,
		ExpensesUSD:  pl.ExpensesUSD,
		NetProfitIQD: pl.RevenueIQD.Sub(pl.ExpensesIQD),
		NetProfitUSD: pl.RevenueUSD.Sub(pl.ExpensesUSD),
	}, nil
}

// BestSelling ranks products by quantity sold in the period.
func (uc *UseCase) BestSelling(ctx context.Context, from, to time.Time, limit int) ([]dto.ProductSalesResponse, error) {
	if err := validateRange(from, to); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultTopLimit
	}
	rows, err := uc.reportRepo.BestSelling(from, to, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductSalesResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.ProductSalesResponse{
			ProductID:     r.ProductID,
			ProductName:   r.ProductName,
			TotalQuantity: r.TotalQuantity,
			TotalIQD:      r.TotalIQD,
		})
	}
	return out, nil
}

// TopCustomers ranks customers by invoiced amount in the period.
func (uc *UseCase) TopCustomers(ctx context.Context, from, to time.Time, limit int) ([]dto.PartyTotalResponse, error) {
	if err := validateRange(from, to); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultTopLimit
	}
	rows, err := uc.reportRepo.TopCustomers(from, to, limit)
	if err != nil {
		return nil, err
	}
	return toPartyResponses(rows), nil
}

// TopSuppliers ranks suppliers by invoiced amount in the period.
func (uc *UseCase) TopSuppliers(ctx context.Context, from, to time.Time, limit int) ([]dto.PartyTotalResponse, error) {
	if err := validateRange(from, to); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultTopLimit
	}
	rows, err := uc.reportRepo.TopSuppliers(from, to, limit)
	if err != nil {
		return nil, err
	}
	return toPartyResponses(rows), nil
}

// InventoryStatus lists every product with its current stock.
func (uc *UseCase) InventoryStatus(ctx context.Context) ([]dto.StockStatusResponse, error) {
	rows, err := uc.reportRepo.InventoryStatus()
	if err != nil {
		return nil, err
	}
	out := make([]dto.StockStatusResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.StockStatusResponse{
			ProductID:    r.ProductID,
			Name:         r.Name,
			SKU:          r.SKU,
			CurrentStock: r.CurrentStock,
		})
	}
	return out, nil
}

// Dashboard composes the landing-page snapshot: today's sales, the current
// month's profit and loss, low-stock products, the 30-day sales trend, and
// the active exchange rate. A missing rate is reported as zero rather than
// failing the whole dashboard.
func (uc *UseCase) Dashboard(ctx context.Context, lowStockThreshold int64) (*dto.DashboardResponse, error) {
	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	today, err := uc.reportRepo.SalesSummary(startOfDay, now)
	if err != nil {
		return nil, err
	}
	monthPL, err := uc.reportRepo.ProfitLoss(startOfMonth, now)
	if err != nil {
		return nil, err
	}
	lowStock, err := uc.productRepo.ListLowStock(lowStockThreshold)
	if err != nil {
		return nil, err
	}
	inventory, err := uc.reportRepo.InventoryStatus()
	if err != nil {
		return nil, err
	}
	trend, err := uc.reportRepo.SalesTrend(now.AddDate(0, 0, -defaultTrendDays), now)
	if err != nil {
		return nil, err
	}
	best, err := uc.reportRepo.BestSelling(startOfMonth, now, defaultTopLimit)
	if err != nil {
		return nil, err
	}

	resp := &dto.DashboardResponse{
		TodaySalesIQD:     today.TotalIQD,
		TodaySalesUSD:     today.TotalUSD,
		TodayInvoices:     today.TotalInvoices,
		MonthRevenueIQD:   monthPL.RevenueIQD,
		MonthExpensesIQD:  monthPL.ExpensesIQD,
		MonthNetProfitIQD: monthPL.RevenueIQD.Sub(monthPL.ExpensesIQD),
		TotalProducts:     int64(len(inventory)),
		LowStockCount:     int64(len(lowStock)),
	}
	for _, p := range lowStock {
		resp.LowStockProducts = append(resp.LowStockProducts, dto.StockStatusResponse{
			ProductID:    p.ID,
			Name:         p.Name,
			SKU:          p.SKU,
			CurrentStock: p.CurrentStock,
		})
	}
	for _, d := range trend {
		resp.SalesTrend = append(resp.SalesTrend, dto.DailyAmountResponse{
			Day:   d.Day.Format("2006-01-02"),
			Total: d.Total,
		})
	}
	for _, b := range best {
		resp.BestSelling = append(resp.BestSelling, dto.ProductSalesResponse{
			ProductID:     b.ProductID,
			ProductName:   b.ProductName,
			TotalQuantity: b.TotalQuantity,
			TotalIQD:      b.TotalIQD,
		})
	}

	if rate, err := uc.rateRepo.Latest(); err == nil && rate != nil {
		resp.CurrentUSDToIQD = rate.USDToIQD
		effective := rate.EffectiveDate
		resp.RateEffectiveDate = &effective
	}
	return resp, nil
}

func toPartyResponses(rows []*repository.PartyTotal) []dto.PartyTotalResponse {
	out := make([]dto.PartyTotalResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.PartyTotalResponse{
			PartyID:      r.PartyID,
			PartyName:    r.PartyName,
			InvoiceCount: r.InvoiceCount,
			TotalIQD:     r.TotalIQD,
			TotalUSD:     r.TotalUSD,
		})
	}
	return out
}

func validateRange(from, to time.Time) error {
	if from.IsZero() || to.IsZero() || to.Before(from) {
		return domain.ErrInvalidInput
	}
	return nil
}
