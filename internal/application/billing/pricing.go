package billing

import (
	"github.com/shopspring/decimal"

	"github.com/hasanq/muhasaba/internal/application/currency"
	"github.com/hasanq/muhasaba/internal/application/dto"
	"github.com/hasanq/muhasaba/internal/domain"
	"github.com/hasanq/muhasaba/internal/domain/entity"
)

// pricedLine is one invoice line with both currency sides resolved.
type pricedLine struct {
	ProductID     string
	Quantity      int64
	UnitPriceIQD  decimal.Decimal
	UnitPriceUSD  decimal.Decimal
	TotalPriceIQD decimal.Decimal
	TotalPriceUSD decimal.Decimal
}

// priceLine resolves one request line against the product and the operation's
// rate snapshot. Caller-entered unit prices win (historical pricing); a
// missing currency side is derived from the snapshot, and a line with no
// prices at all falls back to the catalog prices.
func priceLine(item dto.InvoiceItemRequest, product *entity.Product, snap currency.Snapshot) (pricedLine, error) {
	if item.Quantity <= 0 || item.UnitPriceIQD.IsNegative() || item.UnitPriceUSD.IsNegative() {
		return pricedLine{}, domain.ErrInvalidInput
	}
	unitIQD := item.UnitPriceIQD
	unitUSD := item.UnitPriceUSD
	switch {
	case unitIQD.IsZero() && unitUSD.IsZero():
		unitIQD = product.PriceIQD
		unitUSD = product.PriceUSD
	case unitIQD.IsZero():
		unitIQD = snap.ToIQD(unitUSD)
	case unitUSD.IsZero():
		unitUSD = snap.ToUSD(unitIQD)
	}
	qty := decimal.NewFromInt(item.Quantity)
	return pricedLine{
		ProductID:     item.ProductID,
		Quantity:      item.Quantity,
		UnitPriceIQD:  unitIQD,
		UnitPriceUSD:  unitUSD,
		TotalPriceIQD: qty.Mul(unitIQD),
		TotalPriceUSD: qty.Mul(unitUSD),
	}, nil
}
