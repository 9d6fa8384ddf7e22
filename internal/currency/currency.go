// Package currency implements the USD/KHR conversion primitives and the
// split-currency payment reconciliation used at order commit time.
//
// All amounts are shopspring decimals. USD is tracked to the cent; KHR is a
// whole-riel currency with no subunit, and cash change is always rounded to
// the nearest 100 riel as is customary in Cambodia.
package currency

import (
	"khmercafe/internal/domain"

	"github.com/shopspring/decimal"
)

// Denomination policy. Change at or above ChangeUsdThreshold is paid out in
// whole US dollars with the remainder in riel; below it the whole amount is
// paid in riel so large bills never need breaking. These values are fixed
// business policy; do not tune them per deployment.
var (
	ChangeUsdThreshold = decimal.NewFromInt(20)
	khrRoundIncrement  = decimal.NewFromInt(100)

	// tolerance is the half-cent band inside which two USD amounts are
	// considered equal, absorbing rounding noise from the KHR leg.
	tolerance = decimal.RequireFromString("0.01")
)

// KhrToUsd converts riel to dollars at the given KHR-per-USD rate,
// rounded to the cent.
func KhrToUsd(khr, rate decimal.Decimal) (decimal.Decimal, error) {
	if !rate.IsPositive() {
		return decimal.Zero, domain.ErrInvalidRate
	}
	return khr.Div(rate).Round(2), nil
}

// UsdToKhr converts dollars to riel, rounded to the whole riel.
func UsdToKhr(usd, rate decimal.Decimal) (decimal.Decimal, error) {
	if !rate.IsPositive() {
		return decimal.Zero, domain.ErrInvalidRate
	}
	return usd.Mul(rate).Round(0), nil
}

// RoundKhr rounds a riel amount to the nearest 100.
func RoundKhr(khr decimal.Decimal) decimal.Decimal {
	return khr.Div(khrRoundIncrement).Round(0).Mul(khrRoundIncrement)
}

// Payment is the full reconciliation result for a split-currency tender.
// It is pure data; the caller decides whether to commit or reject.
type Payment struct {
	TotalUsd     decimal.Decimal `json:"total_usd"`
	PaidUsd      decimal.Decimal `json:"paid_usd"`
	PaidKhr      decimal.Decimal `json:"paid_khr"`
	PaidKhrInUsd decimal.Decimal `json:"paid_khr_in_usd"`
	TotalPaidUsd decimal.Decimal `json:"total_paid_usd"`
	ExchangeRate decimal.Decimal `json:"exchange_rate"`
	IsExact      bool            `json:"is_exact"`
	IsPaid       bool            `json:"is_paid"`
	RemainingUsd decimal.Decimal `json:"remaining_usd"`
	RemainingKhr decimal.Decimal `json:"remaining_khr"`
	ChangeUsd    decimal.Decimal `json:"change_usd"`
	ChangeKhr    decimal.Decimal `json:"change_khr"`
}

// Calculate reconciles a total due against amounts tendered in both
// currencies. Underpayment fills Remaining*, overpayment fills Change*
// per the denomination policy above. No side effects.
func Calculate(totalUsd, paidUsd, paidKhr, rate decimal.Decimal) (*Payment, error) {
	if !rate.IsPositive() {
		return nil, domain.ErrInvalidRate
	}

	paidKhrInUsd, err := KhrToUsd(paidKhr, rate)
	if err != nil {
		return nil, err
	}
	totalPaid := paidUsd.Add(paidKhrInUsd)
	diff := totalPaid.Sub(totalUsd)

	p := &Payment{
		TotalUsd:     totalUsd,
		PaidUsd:      paidUsd,
		PaidKhr:      paidKhr,
		PaidKhrInUsd: paidKhrInUsd,
		TotalPaidUsd: totalPaid.Round(2),
		ExchangeRate: rate,
		IsExact:      diff.Abs().LessThan(tolerance),
		IsPaid:       diff.GreaterThanOrEqual(tolerance.Neg()),
		RemainingUsd: decimal.Zero,
		RemainingKhr: decimal.Zero,
		ChangeUsd:    decimal.Zero,
		ChangeKhr:    decimal.Zero,
	}

	switch {
	case diff.LessThan(tolerance.Neg()):
		p.RemainingUsd = diff.Abs().Round(2)
		p.RemainingKhr, _ = UsdToKhr(p.RemainingUsd, rate)

	case diff.GreaterThan(tolerance):
		if diff.GreaterThanOrEqual(ChangeUsdThreshold) {
			p.ChangeUsd = diff.Floor()
			remainder := diff.Sub(p.ChangeUsd)
			khr, _ := UsdToKhr(remainder, rate)
			p.ChangeKhr = RoundKhr(khr)
		} else {
			khr, _ := UsdToKhr(diff, rate)
			p.ChangeKhr = RoundKhr(khr)
		}
	}

	return p, nil
}
