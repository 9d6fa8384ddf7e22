package currency

import (
	"testing"

	"khmercafe/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestKhrToUsd(t *testing.T) {
	usd, err := KhrToUsd(d("4100"), d("4100"))
	require.NoError(t, err)
	assert.True(t, usd.Equal(d("1")))

	usd, err = KhrToUsd(d("10000"), d("4100"))
	require.NoError(t, err)
	assert.True(t, usd.Equal(d("2.44")), "got %s", usd)
}

func TestUsdToKhr(t *testing.T) {
	khr, err := UsdToKhr(d("2.50"), d("4100"))
	require.NoError(t, err)
	assert.True(t, khr.Equal(d("10250")))
}

func TestInvalidRate(t *testing.T) {
	_, err := KhrToUsd(d("100"), decimal.Zero)
	assert.ErrorIs(t, err, domain.ErrInvalidRate)

	_, err = UsdToKhr(d("1"), d("-4100"))
	assert.ErrorIs(t, err, domain.ErrInvalidRate)

	_, err = Calculate(d("10"), d("10"), decimal.Zero, decimal.Zero)
	assert.ErrorIs(t, err, domain.ErrInvalidRate)
}

// Round-tripping USD→KHR→USD must land within one riel's worth of USD,
// since the riel is the coarser currency.
func TestRoundTripBound(t *testing.T) {
	rate := d("4100")
	bound := decimal.NewFromInt(1).Div(rate)

	for _, s := range []string{"0", "0.01", "0.99", "1", "2.44", "3.75", "19.99", "20", "123.45", "999.99"} {
		usd := d(s)
		khr, err := UsdToKhr(usd, rate)
		require.NoError(t, err)
		back, err := KhrToUsd(khr, rate)
		require.NoError(t, err)
		diff := back.Sub(usd).Abs()
		assert.True(t, diff.LessThan(bound), "usd=%s khr=%s back=%s diff=%s", usd, khr, back, diff)
	}
}

func TestRoundKhr(t *testing.T) {
	assert.True(t, RoundKhr(d("61500")).Equal(d("61500")))
	assert.True(t, RoundKhr(d("61549")).Equal(d("61500")))
	assert.True(t, RoundKhr(d("61550")).Equal(d("61600")))
	assert.True(t, RoundKhr(d("49")).Equal(d("0")))
}

func TestCalculateExact(t *testing.T) {
	p, err := Calculate(d("10"), d("10"), decimal.Zero, d("4100"))
	require.NoError(t, err)
	assert.True(t, p.IsExact)
	assert.True(t, p.IsPaid)
	assert.True(t, p.ChangeUsd.IsZero())
	assert.True(t, p.ChangeKhr.IsZero())
	assert.True(t, p.RemainingUsd.IsZero())
}

func TestCalculateMixedTenderExact(t *testing.T) {
	// $5 + ៛20500 at 4100 = exactly $10
	p, err := Calculate(d("10"), d("5"), d("20500"), d("4100"))
	require.NoError(t, err)
	assert.True(t, p.PaidKhrInUsd.Equal(d("5")))
	assert.True(t, p.TotalPaidUsd.Equal(d("10")))
	assert.True(t, p.IsExact)
	assert.True(t, p.IsPaid)
}

func TestCalculateUnderpaid(t *testing.T) {
	p, err := Calculate(d("10"), d("4"), decimal.Zero, d("4100"))
	require.NoError(t, err)
	assert.False(t, p.IsPaid)
	assert.False(t, p.IsExact)
	assert.True(t, p.RemainingUsd.Equal(d("6")))
	assert.True(t, p.RemainingKhr.Equal(d("24600")))
	assert.True(t, p.ChangeUsd.IsZero())
	assert.True(t, p.ChangeKhr.IsZero())
}

// Overpay of exactly $20 routes to the USD-dominant branch (boundary inclusive).
func TestChangeThresholdBoundary(t *testing.T) {
	p, err := Calculate(d("10"), d("30"), decimal.Zero, d("4100"))
	require.NoError(t, err)
	assert.True(t, p.IsPaid)
	assert.True(t, p.ChangeUsd.Equal(d("20")), "got %s", p.ChangeUsd)
	assert.True(t, p.ChangeKhr.IsZero(), "got %s", p.ChangeKhr)
}

// Overpay under $20 is returned entirely in riel, rounded to 100.
func TestChangeBelowThresholdAllKhr(t *testing.T) {
	p, err := Calculate(d("10"), d("25"), decimal.Zero, d("4100"))
	require.NoError(t, err)
	assert.True(t, p.ChangeUsd.IsZero())
	assert.True(t, p.ChangeKhr.Equal(d("61500")), "got %s", p.ChangeKhr)
}

// Large overpay with a fractional part: whole dollars plus riel remainder.
func TestChangeSplit(t *testing.T) {
	p, err := Calculate(d("9.50"), d("30"), decimal.Zero, d("4100"))
	require.NoError(t, err)
	assert.True(t, p.ChangeUsd.Equal(d("20")))
	// 0.50 USD at 4100 = 2050, rounded to nearest 100 = 2100
	assert.True(t, p.ChangeKhr.Equal(d("2100")), "got %s", p.ChangeKhr)
}

// Raising either tendered amount never lowers the paid total, and never
// flips an already-sufficient payment back to insufficient.
func TestPaymentMonotonicity(t *testing.T) {
	rate := d("4100")
	total := d("12.75")

	prevPaid := decimal.NewFromInt(-1)
	wasPaid := false
	for _, usd := range []string{"0", "5", "10", "12.75", "13", "20", "100"} {
		p, err := Calculate(total, d(usd), decimal.Zero, rate)
		require.NoError(t, err)
		assert.True(t, p.TotalPaidUsd.GreaterThanOrEqual(prevPaid))
		if wasPaid {
			assert.True(t, p.IsPaid)
		}
		prevPaid = p.TotalPaidUsd
		wasPaid = wasPaid || p.IsPaid
	}

	prevPaid = decimal.NewFromInt(-1)
	wasPaid = false
	for _, khr := range []string{"0", "10000", "52275", "53000", "100000"} {
		p, err := Calculate(total, decimal.Zero, d(khr), rate)
		require.NoError(t, err)
		assert.True(t, p.TotalPaidUsd.GreaterThanOrEqual(prevPaid))
		if wasPaid {
			assert.True(t, p.IsPaid)
		}
		prevPaid = p.TotalPaidUsd
		wasPaid = wasPaid || p.IsPaid
	}
}

// A payment a half-cent short still counts as paid (tolerance band).
func TestToleranceBand(t *testing.T) {
	p, err := Calculate(d("10"), d("9.995"), decimal.Zero, d("4100"))
	require.NoError(t, err)
	assert.True(t, p.IsPaid)
	assert.True(t, p.IsExact)
}
