package tests

import (
	"context"
	"testing"
	"time"

	"khmercafe/internal/domain"
	"khmercafe/internal/dto"
	"khmercafe/internal/model"
	"khmercafe/internal/repository"
	"khmercafe/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// ── In-memory ShiftRepository stub ───────────────────────────────────────────

type stubShiftRepo struct {
	shifts map[uuid.UUID]*model.Shift
}

func newStubShiftRepo() *stubShiftRepo {
	return &stubShiftRepo{shifts: make(map[uuid.UUID]*model.Shift)}
}

func (r *stubShiftRepo) Create(_ context.Context, s *model.Shift) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	cp := *s
	r.shifts[s.ID] = &cp
	return nil
}

func (r *stubShiftRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Shift, error) {
	s, ok := r.shifts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *stubShiftRepo) FindByIDForUpdateTx(_ *gorm.DB, id uuid.UUID) (*model.Shift, error) {
	s, ok := r.shifts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *stubShiftRepo) FindOpenByCashier(_ context.Context, cashierID uuid.UUID) (*model.Shift, error) {
	for _, s := range r.shifts {
		if s.CashierID == cashierID && s.Status == model.ShiftOpen {
			cp := *s
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubShiftRepo) UpdateTx(_ *gorm.DB, s *model.Shift) error {
	cp := *s
	r.shifts[s.ID] = &cp
	return nil
}

func (r *stubShiftRepo) List(_ context.Context, cashierID *uuid.UUID, status string, _ int) ([]model.Shift, error) {
	var result []model.Shift
	for _, s := range r.shifts {
		if cashierID != nil && s.CashierID != *cashierID {
			continue
		}
		if status != "" && s.Status != status {
			continue
		}
		result = append(result, *s)
	}
	return result, nil
}

var _ repository.ShiftRepository = (*stubShiftRepo)(nil)

// ── Fixture ──────────────────────────────────────────────────────────────────

type shiftFixture struct {
	shifts *stubShiftRepo
	orders *stubOrderRepo
	clock  *fixedClock
	svc    service.ShiftService
}

func newShiftFixture() *shiftFixture {
	shifts := newStubShiftRepo()
	orders := newStubOrderRepo()
	clock := &fixedClock{now: testNow}
	svc := service.NewShiftService(shifts, orders, &fakeTxManager{}, clock, zerolog.Nop())
	return &shiftFixture{shifts: shifts, orders: orders, clock: clock, svc: svc}
}

// seedCompletedOrder plants a completed order inside the shift window.
func seedCompletedOrder(f *shiftFixture, cashierID uuid.UUID, totalUsd, paidUsd float64, method string, at time.Time) {
	id := uuid.New()
	f.orders.orders[id] = &model.Order{
		ID:            id,
		OrderNumber:   "CAFE-20260901-" + id.String()[:4],
		CashierID:     &cashierID,
		TotalUsd:      decimal.NewFromFloat(totalUsd),
		PaidUsd:       decimal.NewFromFloat(paidUsd),
		PaymentMethod: method,
		Status:        model.OrderCompleted,
		CreatedAt:     at,
	}
}

// ── Tests ─────────────────────────────────────────────────────────────────────

func TestStartShift(t *testing.T) {
	f := newShiftFixture()
	cashier := uuid.New()

	resp, err := f.svc.Start(context.Background(), cashier, dto.StartShiftRequest{
		OpeningCashUsd: decimal.NewFromInt(100),
		OpeningCashKhr: decimal.NewFromInt(200000),
	})
	require.NoError(t, err)

	assert.Equal(t, model.ShiftOpen, resp.Status)
	assert.Equal(t, cashier.String(), resp.CashierID)
	assert.Equal(t, "100", resp.OpeningCashUsd.String())
	assert.Equal(t, testNow.Format(time.RFC3339), resp.StartTime)
}

func TestStartShiftSecondOpenRejected(t *testing.T) {
	f := newShiftFixture()
	cashier := uuid.New()

	_, err := f.svc.Start(context.Background(), cashier, dto.StartShiftRequest{
		OpeningCashUsd: decimal.NewFromInt(100),
	})
	require.NoError(t, err)

	_, err = f.svc.Start(context.Background(), cashier, dto.StartShiftRequest{
		OpeningCashUsd: decimal.NewFromInt(50),
	})
	assert.ErrorIs(t, err, domain.ErrShiftAlreadyOpen)

	// A different cashier is unaffected.
	_, err = f.svc.Start(context.Background(), uuid.New(), dto.StartShiftRequest{
		OpeningCashUsd: decimal.NewFromInt(50),
	})
	assert.NoError(t, err)
}

func TestCloseShiftReconciliation(t *testing.T) {
	f := newShiftFixture()
	cashier := uuid.New()

	f.clock.now = testNow
	opened, err := f.svc.Start(context.Background(), cashier, dto.StartShiftRequest{
		OpeningCashUsd: decimal.NewFromInt(100),
	})
	require.NoError(t, err)

	// $250 in completed cash sales during the shift; a KHQR order counts
	// toward sales totals but not the drawer.
	seedCompletedOrder(f, cashier, 150, 150, model.PayCash, testNow.Add(1*time.Hour))
	seedCompletedOrder(f, cashier, 100, 100, model.PayCash, testNow.Add(2*time.Hour))
	seedCompletedOrder(f, cashier, 40, 40, model.PayKHQR, testNow.Add(3*time.Hour))
	// Outside the window; opened before the shift started.
	seedCompletedOrder(f, cashier, 99, 99, model.PayCash, testNow.Add(-1*time.Hour))
	// Someone else's order.
	seedCompletedOrder(f, uuid.New(), 75, 75, model.PayCash, testNow.Add(1*time.Hour))

	f.clock.now = testNow.Add(8 * time.Hour)
	closed, err := f.svc.Close(context.Background(), uuid.MustParse(opened.ID), dto.CloseShiftRequest{
		ClosingCashUsd: decimal.NewFromInt(340),
		ClosingCashKhr: decimal.NewFromInt(50000),
	})
	require.NoError(t, err)

	// Expected 100 + 250 = 350; drawer counted 340, so $10 short.
	assert.Equal(t, "350", closed.Summary.ExpectedCashUsd.String())
	assert.Equal(t, "-10", closed.Summary.DiscrepancyUsd.String())
	assert.Equal(t, "290", closed.Summary.TotalSalesUsd.String())
	assert.Equal(t, 3, closed.Summary.TotalOrders)
	assert.Equal(t, "250", closed.Summary.CashSalesUsd.String())
	assert.Equal(t, model.ShiftClosed, closed.Shift.Status)
	require.NotNil(t, closed.Shift.EndTime)
}

func TestCloseShiftOverage(t *testing.T) {
	f := newShiftFixture()
	cashier := uuid.New()

	opened, err := f.svc.Start(context.Background(), cashier, dto.StartShiftRequest{
		OpeningCashUsd: decimal.NewFromInt(50),
	})
	require.NoError(t, err)

	closed, err := f.svc.Close(context.Background(), uuid.MustParse(opened.ID), dto.CloseShiftRequest{
		ClosingCashUsd: decimal.RequireFromString("52.25"),
	})
	require.NoError(t, err)

	assert.Equal(t, "2.25", closed.Summary.DiscrepancyUsd.String())
}

func TestCloseShiftTwiceRejected(t *testing.T) {
	f := newShiftFixture()
	cashier := uuid.New()

	opened, err := f.svc.Start(context.Background(), cashier, dto.StartShiftRequest{
		OpeningCashUsd: decimal.NewFromInt(50),
	})
	require.NoError(t, err)
	id := uuid.MustParse(opened.ID)

	_, err = f.svc.Close(context.Background(), id, dto.CloseShiftRequest{
		ClosingCashUsd: decimal.NewFromInt(50),
	})
	require.NoError(t, err)

	_, err = f.svc.Close(context.Background(), id, dto.CloseShiftRequest{
		ClosingCashUsd: decimal.NewFromInt(50),
	})
	assert.ErrorIs(t, err, domain.ErrShiftAlreadyClosed)
}

func TestCloseUnknownShift(t *testing.T) {
	f := newShiftFixture()

	_, err := f.svc.Close(context.Background(), uuid.New(), dto.CloseShiftRequest{
		ClosingCashUsd: decimal.NewFromInt(50),
	})
	assert.ErrorIs(t, err, domain.ErrShiftNotFound)
}

func TestCurrentShift(t *testing.T) {
	f := newShiftFixture()
	cashier := uuid.New()

	_, err := f.svc.Current(context.Background(), cashier)
	assert.ErrorIs(t, err, domain.ErrShiftNotFound)

	opened, err := f.svc.Start(context.Background(), cashier, dto.StartShiftRequest{
		OpeningCashUsd: decimal.NewFromInt(80),
	})
	require.NoError(t, err)

	current, err := f.svc.Current(context.Background(), cashier)
	require.NoError(t, err)
	assert.Equal(t, opened.ID, current.ID)

	// Closing the shift makes Current empty again.
	_, err = f.svc.Close(context.Background(), uuid.MustParse(opened.ID), dto.CloseShiftRequest{
		ClosingCashUsd: decimal.NewFromInt(80),
	})
	require.NoError(t, err)

	_, err = f.svc.Current(context.Background(), cashier)
	assert.ErrorIs(t, err, domain.ErrShiftNotFound)
}
