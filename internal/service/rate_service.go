package service

import (
	"context"
	"errors"

	"khmercafe/internal/domain"
	"khmercafe/internal/dto"
	"khmercafe/internal/model"
	"khmercafe/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const rateDateLayout = "2006-01-02"

// RateService resolves the effective KHR-per-USD exchange rate.
type RateService interface {
	// Current walks the ordered lookup chain: today's rate, else the most
	// recent prior date's, else the configured default.
	Current(ctx context.Context) (decimal.Decimal, error)
	Set(ctx context.Context, rate decimal.Decimal, setBy *uuid.UUID) (*dto.RateResponse, error)
	History(ctx context.Context, limit int) ([]dto.RateResponse, error)
}

type rateService struct {
	repo        repository.RateRepository
	clock       Clock
	defaultRate decimal.Decimal
}

func NewRateService(repo repository.RateRepository, clock Clock, defaultRate decimal.Decimal) RateService {
	return &rateService{repo: repo, clock: clock, defaultRate: defaultRate}
}

func (s *rateService) Current(ctx context.Context) (decimal.Decimal, error) {
	today := s.clock.Now().Format(rateDateLayout)

	// 1. Exact rate for today.
	rate, err := s.repo.FindByDate(ctx, today)
	if err == nil {
		return rate.UsdToKhr, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return decimal.Zero, err
	}

	// 2. Most recent prior date.
	rate, err = s.repo.FindLatestAtOrBefore(ctx, today)
	if err == nil {
		return rate.UsdToKhr, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return decimal.Zero, err
	}

	// 3. Rate table empty (or only future-dated rows); business default.
	return s.defaultRate, nil
}

func (s *rateService) Set(ctx context.Context, rate decimal.Decimal, setBy *uuid.UUID) (*dto.RateResponse, error) {
	if !rate.IsPositive() {
		return nil, domain.ErrInvalidRate
	}
	r := &model.ExchangeRate{
		RateDate: s.clock.Now().Format(rateDateLayout),
		UsdToKhr: rate,
		SetBy:    setBy,
	}
	if err := s.repo.Upsert(ctx, r); err != nil {
		return nil, err
	}
	return rateToResponse(r), nil
}

func (s *rateService) History(ctx context.Context, limit int) ([]dto.RateResponse, error) {
	if limit < 1 || limit > 365 {
		limit = 30
	}
	rates, err := s.repo.History(ctx, limit)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.RateResponse, len(rates))
	for i := range rates {
		resp[i] = *rateToResponse(&rates[i])
	}
	return resp, nil
}

func rateToResponse(r *model.ExchangeRate) *dto.RateResponse {
	resp := &dto.RateResponse{RateDate: r.RateDate, UsdToKhr: r.UsdToKhr}
	if r.SetBy != nil {
		id := r.SetBy.String()
		resp.SetBy = &id
	}
	return resp
}
