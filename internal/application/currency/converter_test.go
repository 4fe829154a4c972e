package currency_test

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hasanq/muhasaba/internal/application/currency"
	"github.com/hasanq/muhasaba/internal/domain"
	"github.com/hasanq/muhasaba/internal/domain/entity"
)

// fakeRateRepo is an in-memory ExchangeRateRepository for unit tests.
type fakeRateRepo struct {
	rates []*entity.ExchangeRate
	err   error
}

func (f *fakeRateRepo) Create(rate *entity.ExchangeRate) error {
	f.rates = append(f.rates, rate)
	return nil
}

func (f *fakeRateRepo) Latest() (*entity.ExchangeRate, error) {
	if f.err != nil {
		return nil, f.err
	}
	if len(f.rates) == 0 {
		return nil, nil
	}
	latest := f.rates[0]
	for _, r := range f.rates[1:] {
		if r.EffectiveDate.After(latest.EffectiveDate) {
			latest = r
		}
	}
	return latest, nil
}

func (f *fakeRateRepo) List(limit, offset int) ([]*entity.ExchangeRate, error) {
	return f.rates, nil
}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestLoadSnapshot_UsesLatestEffectiveDate(t *testing.T) {
	repo := &fakeRateRepo{rates: []*entity.ExchangeRate{
		{ID: "a", USDToIQD: d("1450"), EffectiveDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{ID: "b", USDToIQD: d("1500"), EffectiveDate: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)},
	}}

	snap, err := currency.LoadSnapshot(repo)
	require.NoError(t, err)
	assert.True(t, snap.USDToIQD.Equal(d("1500")), "snapshot must carry the latest rate")
}

func TestLoadSnapshot_NoRate_ReturnsErrNoExchangeRate(t *testing.T) {
	_, err := currency.LoadSnapshot(&fakeRateRepo{})
	assert.ErrorIs(t, err, domain.ErrNoExchangeRate)
}

func TestLoadSnapshot_NonPositiveRate_ReturnsErrNoExchangeRate(t *testing.T) {
	repo := &fakeRateRepo{rates: []*entity.ExchangeRate{
		{ID: "a", USDToIQD: decimal.Zero, EffectiveDate: time.Now()},
	}}
	_, err := currency.LoadSnapshot(repo)
	assert.ErrorIs(t, err, domain.ErrNoExchangeRate)
}

func TestLoadSnapshot_RepoError_Propagates(t *testing.T) {
	boom := errors.New("connection refused")
	_, err := currency.LoadSnapshot(&fakeRateRepo{err: boom})
	assert.ErrorIs(t, err, boom)
}

func TestSnapshot_ToUSD_RoundsToFourDecimals(t *testing.T) {
	snap := currency.Snapshot{USDToIQD: d("1500")}

	usd := snap.ToUSD(d("100000"))
	assert.True(t, usd.Equal(d("66.6667")), "100000 IQD at 1500 must be 66.6667 USD, got %s", usd)
}

func TestSnapshot_ToIQD(t *testing.T) {
	snap := currency.Snapshot{USDToIQD: d("1500")}

	iqd := snap.ToIQD(d("10.50"))
	assert.True(t, iqd.Equal(d("15750")), "10.50 USD at 1500 must be 15750 IQD, got %s", iqd)
}

func TestSnapshot_RoundTripStaysClose(t *testing.T) {
	snap := currency.Snapshot{USDToIQD: d("1460")}

	back := snap.ToIQD(snap.ToUSD(d("250000")))
	diff := back.Sub(d("250000")).Abs()
	assert.True(t, diff.LessThan(d("1")), "round trip drift must stay under 1 IQD, got %s", diff)
}

func TestCreateRate_RejectsNonPositive(t *testing.T) {
	uc := currency.NewRateUseCase(&fakeRateRepo{})

	_, err := uc.CreateRate(decimal.Zero, time.Time{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.CreateRate(d("-10"), time.Time{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreateRate_ZeroEffectiveDateDefaultsToNow(t *testing.T) {
	repo := &fakeRateRepo{}
	uc := currency.NewRateUseCase(repo)

	rate, err := uc.CreateRate(d("1475"), time.Time{})
	require.NoError(t, err)
	assert.NotEmpty(t, rate.ID)
	assert.False(t, rate.EffectiveDate.IsZero())
	require.Len(t, repo.rates, 1)
}

func TestCurrentRate_Empty_ReturnsErrNoExchangeRate(t *testing.T) {
	uc := currency.NewRateUseCase(&fakeRateRepo{})
	_, err := uc.CurrentRate()
	assert.ErrorIs(t, err, domain.ErrNoExchangeRate)
}
