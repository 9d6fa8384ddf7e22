package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"khmercafe/internal/currency"
	"khmercafe/internal/domain"
	"khmercafe/internal/dto"
	"khmercafe/internal/model"
	"khmercafe/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Size surcharges applied when a menu item has no explicit per-size price.
var (
	SurchargeMedium = decimal.RequireFromString("0.50")
	SurchargeLarge  = decimal.RequireFromString("1.00")
)

// OrderStatusNotifier receives transition results for out-of-band delivery.
// Enqueue failures never affect the committed transition.
type OrderStatusNotifier interface {
	EnqueueOrderStatus(ctx context.Context, res dto.TransitionResponse) error
}

type OrderService interface {
	Create(ctx context.Context, req dto.CreateOrderRequest, cashierID *uuid.UUID) (*dto.CreateOrderResponse, error)
	Transition(ctx context.Context, orderID uuid.UUID, newStatus string) (*dto.TransitionResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.OrderResponse, error)
	List(ctx context.Context, filter dto.OrderFilter) (*dto.OrderListResponse, error)
}

type orderService struct {
	orders   repository.OrderRepository
	menu     repository.MenuItemRepository
	stock    StockService
	rates    RateService
	txm      repository.TxManager
	clock    Clock
	notifier OrderStatusNotifier
	log      zerolog.Logger
}

func NewOrderService(
	orders repository.OrderRepository,
	menu repository.MenuItemRepository,
	stock StockService,
	rates RateService,
	txm repository.TxManager,
	clock Clock,
	notifier OrderStatusNotifier,
	log zerolog.Logger,
) OrderService {
	return &orderService{
		orders: orders, menu: menu, stock: stock, rates: rates,
		txm: txm, clock: clock, notifier: notifier, log: log,
	}
}

// ─── Create ──────────────────────────────────────────────────────────────────

func (s *orderService) Create(ctx context.Context, req dto.CreateOrderRequest, cashierID *uuid.UUID) (*dto.CreateOrderResponse, error) {
	if len(req.Items) == 0 {
		return nil, domain.ErrEmptyOrder
	}

	rate := req.ExchangeRate
	if !rate.IsPositive() {
		var err error
		rate, err = s.rates.Current(ctx)
		if err != nil {
			return nil, err
		}
	}

	// Resolve menu items and snapshot prices before touching any row.
	items, subtotal, err := s.buildLineItems(ctx, req.Items)
	if err != nil {
		return nil, err
	}
	total := subtotal

	// Totals are deterministic from the request, so the payment check happens
	// before the transaction opens; an underpaid order never reaches the db.
	payment, err := currency.Calculate(total, req.PaidUsd, req.PaidKhr, rate)
	if err != nil {
		return nil, err
	}
	if !payment.IsPaid {
		return nil, fmt.Errorf("%w: total %s USD, tendered %s USD equivalent",
			domain.ErrPaymentInsufficient, total, payment.TotalPaidUsd)
	}

	method := req.PaymentMethod
	if method == "" {
		method = model.PayCash
	}

	var customerID *uuid.UUID
	if req.CustomerID != nil {
		cid, err := uuid.Parse(*req.CustomerID)
		if err != nil {
			return nil, fmt.Errorf("invalid customer id: %w", err)
		}
		customerID = &cid
	}

	now := s.clock.Now()
	order := &model.Order{
		CashierID:     cashierID,
		CustomerID:    customerID,
		Items:         items,
		SubtotalUsd:   subtotal,
		TotalUsd:      total,
		PaidUsd:       req.PaidUsd,
		PaidKhr:       req.PaidKhr,
		ChangeUsd:     payment.ChangeUsd,
		ChangeKhr:     payment.ChangeKhr,
		ExchangeRate:  rate,
		PaymentMethod: method,
		Status:        model.OrderPending,
		Notes:         req.Notes,
	}

	err = s.txm.InTx(ctx, func(tx *gorm.DB) error {
		day := now.Format("20060102")
		seq, err := s.orders.NextOrderNumber(tx, day)
		if err != nil {
			return err
		}
		order.OrderNumber = fmt.Sprintf("CAFE-%s-%04d", day, seq)

		if err := s.orders.CreateTx(tx, order); err != nil {
			return err
		}
		for _, it := range order.Items {
			if err := s.stock.DeductForSaleTx(tx, it.MenuItemID, it.Size, it.Quantity, order.ID, order.OrderNumber); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("order_number", order.OrderNumber).
		Str("total_usd", total.String()).
		Str("payment_method", method).
		Msg("order created")

	return &dto.CreateOrderResponse{Order: *orderToResponse(order), Payment: payment}, nil
}

// buildLineItems resolves each requested item against the menu and freezes
// name, size and price at sale time.
func (s *orderService) buildLineItems(ctx context.Context, reqs []dto.OrderItemRequest) ([]model.OrderItem, decimal.Decimal, error) {
	items := make([]model.OrderItem, 0, len(reqs))
	subtotal := decimal.Zero

	for _, r := range reqs {
		itemID, err := uuid.Parse(r.MenuItemID)
		if err != nil {
			return nil, decimal.Zero, fmt.Errorf("invalid menu item id: %w", err)
		}
		item, err := s.menu.FindByID(ctx, itemID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, decimal.Zero, fmt.Errorf("%w: %s", domain.ErrItemNotFound, r.MenuItemID)
			}
			return nil, decimal.Zero, err
		}
		if !item.Active {
			return nil, decimal.Zero, fmt.Errorf("%w: %s", domain.ErrItemUnavailable, item.Name)
		}

		size := r.Size
		if size == "" {
			size = model.SizeRegular
		}
		unitPrice := priceForSize(item, size)

		lineTotal := unitPrice.Mul(decimal.NewFromInt(int64(r.Quantity))).Sub(r.Discount)
		if lineTotal.IsNegative() {
			lineTotal = decimal.Zero
		}

		items = append(items, model.OrderItem{
			MenuItemID:     item.ID,
			Name:           item.Name,
			Size:           size,
			Quantity:       r.Quantity,
			UnitPrice:      unitPrice,
			Discount:       r.Discount,
			Total:          lineTotal,
			Customizations: r.Customizations,
		})
		subtotal = subtotal.Add(lineTotal)
	}
	return items, subtotal, nil
}

// priceForSize prefers the item's explicit per-size price and falls back to
// the base price plus the fixed surcharge.
func priceForSize(item *model.MenuItem, size string) decimal.Decimal {
	switch size {
	case model.SizeMedium:
		if item.PriceMedium != nil {
			return *item.PriceMedium
		}
		return item.BasePrice.Add(SurchargeMedium)
	case model.SizeLarge:
		if item.PriceLarge != nil {
			return *item.PriceLarge
		}
		return item.BasePrice.Add(SurchargeLarge)
	default:
		return item.BasePrice
	}
}

// ─── Transition ──────────────────────────────────────────────────────────────

func (s *orderService) Transition(ctx context.Context, orderID uuid.UUID, newStatus string) (*dto.TransitionResponse, error) {
	if !model.ValidOrderStatus(newStatus) {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidTransition, newStatus)
	}

	var res *dto.TransitionResponse
	err := s.txm.InTx(ctx, func(tx *gorm.DB) error {
		order, err := s.orders.FindByIDForUpdateTx(tx, orderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrOrderNotFound
			}
			return err
		}

		// Terminal states are checked before the same-status no-op so that
		// voiding a voided order fails instead of silently succeeding.
		oldStatus := order.Status
		if oldStatus == model.OrderVoided {
			return domain.ErrAlreadyVoided
		}
		if oldStatus == model.OrderCompleted && newStatus != model.OrderCompleted {
			return fmt.Errorf("%w: order %s is completed", domain.ErrInvalidTransition, order.OrderNumber)
		}
		if oldStatus == newStatus {
			res = &dto.TransitionResponse{OldStatus: oldStatus, NewStatus: newStatus, Order: *orderToResponse(order)}
			return nil
		}

		if newStatus == model.OrderVoided {
			// Restoration and the status flip commit together, so a failed
			// restore leaves the order un-voided.
			for _, it := range order.Items {
				if err := s.stock.RestoreForVoidTx(tx, it.MenuItemID, it.Size, it.Quantity, order.ID, order.OrderNumber); err != nil {
					return err
				}
			}
		}

		if err := s.orders.UpdateStatusTx(tx, order.ID, newStatus); err != nil {
			return err
		}
		order.Status = newStatus
		res = &dto.TransitionResponse{OldStatus: oldStatus, NewStatus: newStatus, Order: *orderToResponse(order)}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if res.OldStatus != res.NewStatus && s.notifier != nil {
		if err := s.notifier.EnqueueOrderStatus(ctx, *res); err != nil {
			s.log.Warn().Err(err).
				Str("order_number", res.Order.OrderNumber).
				Msg("failed to enqueue status notification")
		}
	}
	return res, nil
}

// ─── Reads ───────────────────────────────────────────────────────────────────

func (s *orderService) Get(ctx context.Context, id uuid.UUID) (*dto.OrderResponse, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, err
	}
	return orderToResponse(order), nil
}

func (s *orderService) List(ctx context.Context, filter dto.OrderFilter) (*dto.OrderListResponse, error) {
	orders, total, err := s.orders.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.OrderResponse, len(orders))
	for i := range orders {
		data[i] = *orderToResponse(&orders[i])
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 || limit > 200 {
		limit = 50
	}
	return &dto.OrderListResponse{Data: data, Total: total, Page: page, Limit: limit}, nil
}

func orderToResponse(o *model.Order) *dto.OrderResponse {
	items := make([]dto.OrderItemResponse, len(o.Items))
	for i, it := range o.Items {
		items[i] = dto.OrderItemResponse{
			MenuItemID:     it.MenuItemID.String(),
			Name:           it.Name,
			Size:           it.Size,
			Quantity:       it.Quantity,
			UnitPrice:      it.UnitPrice,
			Discount:       it.Discount,
			Total:          it.Total,
			Customizations: it.Customizations,
		}
	}
	resp := &dto.OrderResponse{
		ID:            o.ID.String(),
		OrderNumber:   o.OrderNumber,
		Items:         items,
		SubtotalUsd:   o.SubtotalUsd,
		TotalUsd:      o.TotalUsd,
		PaidUsd:       o.PaidUsd,
		PaidKhr:       o.PaidKhr,
		ChangeUsd:     o.ChangeUsd,
		ChangeKhr:     o.ChangeKhr,
		ExchangeRate:  o.ExchangeRate,
		PaymentMethod: o.PaymentMethod,
		Status:        o.Status,
		Notes:         o.Notes,
		CreatedAt:     o.CreatedAt.Format(time.RFC3339),
	}
	if o.CashierID != nil {
		id := o.CashierID.String()
		resp.CashierID = &id
	}
	if o.CustomerID != nil {
		id := o.CustomerID.String()
		resp.CustomerID = &id
	}
	return resp
}
