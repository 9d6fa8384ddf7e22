package service

import (
	"context"
	"errors"
	"time"

	"khmercafe/internal/domain"
	"khmercafe/internal/dto"
	"khmercafe/internal/model"
	"khmercafe/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// ShiftService manages cashier drawer sessions. A cashier has at most one
// open shift; close computes the cash reconciliation once and freezes it.
type ShiftService interface {
	Start(ctx context.Context, cashierID uuid.UUID, req dto.StartShiftRequest) (*dto.ShiftResponse, error)
	Close(ctx context.Context, shiftID uuid.UUID, req dto.CloseShiftRequest) (*dto.CloseShiftResponse, error)
	// Current returns the cashier's open shift, ErrShiftNotFound when none.
	Current(ctx context.Context, cashierID uuid.UUID) (*dto.ShiftResponse, error)
	List(ctx context.Context, cashierID *uuid.UUID, status string, limit int) ([]dto.ShiftResponse, error)
}

type shiftService struct {
	shifts repository.ShiftRepository
	orders repository.OrderRepository
	txm    repository.TxManager
	clock  Clock
	log    zerolog.Logger
}

func NewShiftService(
	shifts repository.ShiftRepository,
	orders repository.OrderRepository,
	txm repository.TxManager,
	clock Clock,
	log zerolog.Logger,
) ShiftService {
	return &shiftService{shifts: shifts, orders: orders, txm: txm, clock: clock, log: log}
}

func (s *shiftService) Start(ctx context.Context, cashierID uuid.UUID, req dto.StartShiftRequest) (*dto.ShiftResponse, error) {
	if _, err := s.shifts.FindOpenByCashier(ctx, cashierID); err == nil {
		return nil, domain.ErrShiftAlreadyOpen
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	shift := &model.Shift{
		CashierID:      cashierID,
		StartTime:      s.clock.Now(),
		OpeningCashUsd: req.OpeningCashUsd,
		OpeningCashKhr: req.OpeningCashKhr,
		Status:         model.ShiftOpen,
	}
	if err := s.shifts.Create(ctx, shift); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("shift_id", shift.ID.String()).
		Str("cashier_id", cashierID.String()).
		Msg("shift opened")
	return shiftToResponse(shift), nil
}

func (s *shiftService) Close(ctx context.Context, shiftID uuid.UUID, req dto.CloseShiftRequest) (*dto.CloseShiftResponse, error) {
	var (
		shift   *model.Shift
		summary dto.ShiftSummary
	)
	err := s.txm.InTx(ctx, func(tx *gorm.DB) error {
		var err error
		shift, err = s.shifts.FindByIDForUpdateTx(tx, shiftID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrShiftNotFound
			}
			return err
		}
		if shift.Status == model.ShiftClosed {
			return domain.ErrShiftAlreadyClosed
		}

		now := s.clock.Now()
		sales, err := s.orders.SumCompletedForCashierTx(tx, shift.CashierID, shift.StartTime, now)
		if err != nil {
			return err
		}

		// Expected drawer = what it opened with plus every cash-method dollar
		// taken in. Discrepancy keeps its sign: over is positive, short is
		// negative.
		expected := shift.OpeningCashUsd.Add(sales.CashPaidUsd)
		discrepancy := req.ClosingCashUsd.Sub(expected)

		shift.EndTime = &now
		shift.ClosingCashUsd = &req.ClosingCashUsd
		shift.ClosingCashKhr = &req.ClosingCashKhr
		shift.ExpectedCashUsd = &expected
		shift.DiscrepancyUsd = &discrepancy
		shift.TotalSalesUsd = sales.TotalUsd
		shift.TotalOrders = sales.Orders
		shift.Status = model.ShiftClosed
		shift.Notes = req.Notes

		if err := s.shifts.UpdateTx(tx, shift); err != nil {
			return err
		}

		summary = dto.ShiftSummary{
			TotalOrders:     sales.Orders,
			TotalSalesUsd:   sales.TotalUsd,
			CashSalesUsd:    sales.CashPaidUsd,
			ExpectedCashUsd: expected,
			ActualCashUsd:   req.ClosingCashUsd,
			DiscrepancyUsd:  discrepancy,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	event := s.log.Info()
	if !summary.DiscrepancyUsd.IsZero() {
		event = s.log.Warn()
	}
	event.
		Str("shift_id", shift.ID.String()).
		Str("expected_usd", summary.ExpectedCashUsd.String()).
		Str("discrepancy_usd", summary.DiscrepancyUsd.String()).
		Msg("shift closed")

	return &dto.CloseShiftResponse{Shift: *shiftToResponse(shift), Summary: summary}, nil
}

func (s *shiftService) Current(ctx context.Context, cashierID uuid.UUID) (*dto.ShiftResponse, error) {
	shift, err := s.shifts.FindOpenByCashier(ctx, cashierID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrShiftNotFound
		}
		return nil, err
	}
	return shiftToResponse(shift), nil
}

func (s *shiftService) List(ctx context.Context, cashierID *uuid.UUID, status string, limit int) ([]dto.ShiftResponse, error) {
	shifts, err := s.shifts.List(ctx, cashierID, status, limit)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.ShiftResponse, len(shifts))
	for i := range shifts {
		resp[i] = *shiftToResponse(&shifts[i])
	}
	return resp, nil
}

func shiftToResponse(sh *model.Shift) *dto.ShiftResponse {
	resp := &dto.ShiftResponse{
		ID:             sh.ID.String(),
		CashierID:      sh.CashierID.String(),
		StartTime:      sh.StartTime.Format(time.RFC3339),
		OpeningCashUsd: sh.OpeningCashUsd,
		OpeningCashKhr: sh.OpeningCashKhr,
		ClosingCashUsd: sh.ClosingCashUsd,
		ClosingCashKhr: sh.ClosingCashKhr,
		TotalSalesUsd:  sh.TotalSalesUsd,
		TotalOrders:    sh.TotalOrders,
		Status:         sh.Status,
		Notes:          sh.Notes,
	}
	if sh.EndTime != nil {
		end := sh.EndTime.Format(time.RFC3339)
		resp.EndTime = &end
	}
	resp.ExpectedCashUsd = sh.ExpectedCashUsd
	resp.DiscrepancyUsd = sh.DiscrepancyUsd
	return resp
}
