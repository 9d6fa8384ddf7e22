package tests

import (
	"context"
	"fmt"
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

// ── In-memory MenuItemRepository stub ────────────────────────────────────────

type stubMenuRepo struct {
	items map[uuid.UUID]*model.MenuItem
}

func newStubMenuRepo() *stubMenuRepo {
	return &stubMenuRepo{items: make(map[uuid.UUID]*model.MenuItem)}
}

func (r *stubMenuRepo) Create(_ context.Context, m *model.MenuItem) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	r.items[m.ID] = m
	return nil
}

func (r *stubMenuRepo) FindByID(_ context.Context, id uuid.UUID) (*model.MenuItem, error) {
	m, ok := r.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return m, nil
}

func (r *stubMenuRepo) List(_ context.Context, filter repository.MenuItemFilter) ([]model.MenuItem, error) {
	var result []model.MenuItem
	for _, m := range r.items {
		switch filter.Active {
		case "false":
			if m.Active {
				continue
			}
		case "all":
		default:
			if !m.Active {
				continue
			}
		}
		if filter.Category != "" && m.Category != filter.Category {
			continue
		}
		result = append(result, *m)
	}
	return result, nil
}

func (r *stubMenuRepo) Update(_ context.Context, m *model.MenuItem) error {
	r.items[m.ID] = m
	return nil
}

func (r *stubMenuRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	m, ok := r.items[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	m.Active = false
	return nil
}

var _ repository.MenuItemRepository = (*stubMenuRepo)(nil)

// ── In-memory OrderRepository stub ───────────────────────────────────────────

type stubOrderRepo struct {
	orders   map[uuid.UUID]*model.Order
	counters map[string]int
}

func newStubOrderRepo() *stubOrderRepo {
	return &stubOrderRepo{
		orders:   make(map[uuid.UUID]*model.Order),
		counters: make(map[string]int),
	}
}

func (r *stubOrderRepo) CreateTx(_ *gorm.DB, o *model.Order) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	for i := range o.Items {
		if o.Items[i].ID == uuid.Nil {
			o.Items[i].ID = uuid.New()
		}
		o.Items[i].OrderID = o.ID
	}
	cp := *o
	r.orders[o.ID] = &cp
	return nil
}

func (r *stubOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *o
	return &cp, nil
}

func (r *stubOrderRepo) FindByIDForUpdateTx(_ *gorm.DB, id uuid.UUID) (*model.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *o
	return &cp, nil
}

func (r *stubOrderRepo) UpdateStatusTx(_ *gorm.DB, id uuid.UUID, status string) error {
	o, ok := r.orders[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	o.Status = status
	return nil
}

func (r *stubOrderRepo) NextOrderNumber(_ *gorm.DB, day string) (int, error) {
	r.counters[day]++
	return r.counters[day], nil
}

func (r *stubOrderRepo) List(_ context.Context, filter dto.OrderFilter) ([]model.Order, int64, error) {
	var result []model.Order
	for _, o := range r.orders {
		if filter.Status != "" && filter.Status != "all" && o.Status != filter.Status {
			continue
		}
		result = append(result, *o)
	}
	return result, int64(len(result)), nil
}

func (r *stubOrderRepo) SumCompletedForCashierTx(_ *gorm.DB, cashierID uuid.UUID, from, to time.Time) (*repository.ShiftSales, error) {
	sales := &repository.ShiftSales{
		TotalUsd:    decimal.Zero,
		CashPaidUsd: decimal.Zero,
	}
	for _, o := range r.orders {
		if o.CashierID == nil || *o.CashierID != cashierID || o.Status != model.OrderCompleted {
			continue
		}
		if o.CreatedAt.Before(from) || !o.CreatedAt.Before(to) {
			continue
		}
		sales.Orders++
		sales.TotalUsd = sales.TotalUsd.Add(o.TotalUsd)
		if o.PaymentMethod == model.PayCash {
			sales.CashPaidUsd = sales.CashPaidUsd.Add(o.PaidUsd)
		}
	}
	return sales, nil
}

// snapshot returns a restore closure for the fake tx manager.
func (r *stubOrderRepo) snapshot() func() {
	savedOrders := make(map[uuid.UUID]model.Order, len(r.orders))
	for id, o := range r.orders {
		savedOrders[id] = *o
	}
	savedCounters := make(map[string]int, len(r.counters))
	for day, v := range r.counters {
		savedCounters[day] = v
	}
	return func() {
		r.orders = make(map[uuid.UUID]*model.Order, len(savedOrders))
		for id := range savedOrders {
			cp := savedOrders[id]
			r.orders[id] = &cp
		}
		r.counters = savedCounters
	}
}

var _ repository.OrderRepository = (*stubOrderRepo)(nil)

// ── Fixed-rate RateService and capturing notifier ────────────────────────────

type fixedRates struct{ rate decimal.Decimal }

func (f *fixedRates) Current(_ context.Context) (decimal.Decimal, error) { return f.rate, nil }
func (f *fixedRates) Set(_ context.Context, _ decimal.Decimal, _ *uuid.UUID) (*dto.RateResponse, error) {
	return nil, fmt.Errorf("not implemented")
}
func (f *fixedRates) History(_ context.Context, _ int) ([]dto.RateResponse, error) {
	return nil, nil
}

var _ service.RateService = (*fixedRates)(nil)

type captureNotifier struct {
	transitions []dto.TransitionResponse
}

func (n *captureNotifier) EnqueueOrderStatus(_ context.Context, res dto.TransitionResponse) error {
	n.transitions = append(n.transitions, res)
	return nil
}

// ── Fixture ──────────────────────────────────────────────────────────────────

type orderFixture struct {
	menu        *stubMenuRepo
	orders      *stubOrderRepo
	ingredients *stubIngredientRepo
	recipes     *stubRecipeRepo
	ledger      *stubLedger
	notifier    *captureNotifier
	svc         service.OrderService
}

var testNow = time.Date(2026, 9, 1, 10, 30, 0, 0, time.UTC)

func newOrderFixture() *orderFixture {
	menu := newStubMenuRepo()
	orders := newStubOrderRepo()
	ingredients := newStubIngredientRepo()
	recipes := newStubRecipeRepo()
	ledger := &stubLedger{}
	notifier := &captureNotifier{}

	txm := &fakeTxManager{snapshot: func() func() {
		restoreOrders := orders.snapshot()
		restoreIng := ingredients.snapshot()
		restoreLedger := ledger.snapshot()
		return func() {
			restoreOrders()
			restoreIng()
			restoreLedger()
		}
	}}

	stock := service.NewStockService(ingredients, recipes, ledger, txm, nil)
	rates := &fixedRates{rate: decimal.NewFromInt(4100)}
	svc := service.NewOrderService(orders, menu, stock, rates, txm, &fixedClock{now: testNow}, notifier, zerolog.Nop())

	return &orderFixture{
		menu: menu, orders: orders, ingredients: ingredients,
		recipes: recipes, ledger: ledger, notifier: notifier, svc: svc,
	}
}

func seedMenuItem(repo *stubMenuRepo, name string, basePrice float64) *model.MenuItem {
	m := &model.MenuItem{
		ID:        uuid.New(),
		Name:      name,
		Category:  "drinks",
		BasePrice: decimal.NewFromFloat(basePrice),
		Active:    true,
	}
	repo.items[m.ID] = m
	return m
}

func orderItems(reqs ...dto.OrderItemRequest) []dto.OrderItemRequest { return reqs }

// ── Create ───────────────────────────────────────────────────────────────────

func TestCreateOrderHappyPath(t *testing.T) {
	f := newOrderFixture()
	latte := seedMenuItem(f.menu, "Iced Latte", 3.50)

	cashier := uuid.New()
	resp, err := f.svc.Create(context.Background(), dto.CreateOrderRequest{
		Items:   orderItems(dto.OrderItemRequest{MenuItemID: latte.ID.String(), Quantity: 2}),
		PaidUsd: decimal.NewFromInt(10),
	}, &cashier)
	require.NoError(t, err)

	assert.Equal(t, "CAFE-20260901-0001", resp.Order.OrderNumber)
	assert.Equal(t, model.OrderPending, resp.Order.Status)
	assert.Equal(t, "7", resp.Order.TotalUsd.String())
	assert.Equal(t, model.PayCash, resp.Order.PaymentMethod)
	require.NotNil(t, resp.Order.CashierID)
	assert.Equal(t, cashier.String(), *resp.Order.CashierID)

	// Change under $20 comes back entirely in riel, rounded to 100.
	assert.True(t, resp.Payment.IsPaid)
	assert.Equal(t, "0", resp.Payment.ChangeUsd.String())
	assert.Equal(t, "12300", resp.Payment.ChangeKhr.String())

	// Persisted order carries the payment snapshot.
	require.Len(t, f.orders.orders, 1)
	for _, o := range f.orders.orders {
		assert.Equal(t, "12300", o.ChangeKhr.String())
		assert.Equal(t, "4100", o.ExchangeRate.String())
		require.Len(t, o.Items, 1)
		assert.Equal(t, model.SizeRegular, o.Items[0].Size)
	}
}

func TestCreateOrderNumbersIncrementPerDay(t *testing.T) {
	f := newOrderFixture()
	coffee := seedMenuItem(f.menu, "Americano", 2.00)

	for i := 1; i <= 3; i++ {
		resp, err := f.svc.Create(context.Background(), dto.CreateOrderRequest{
			Items:   orderItems(dto.OrderItemRequest{MenuItemID: coffee.ID.String(), Quantity: 1}),
			PaidUsd: decimal.NewFromInt(2),
		}, nil)
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("CAFE-20260901-%04d", i), resp.Order.OrderNumber)
	}
}

func TestCreateOrderSplitCurrencyExact(t *testing.T) {
	f := newOrderFixture()
	item := seedMenuItem(f.menu, "Mango Smoothie", 5.00)

	// $2 cash plus 12,300 riel at 4100 covers $5.00 exactly.
	resp, err := f.svc.Create(context.Background(), dto.CreateOrderRequest{
		Items:   orderItems(dto.OrderItemRequest{MenuItemID: item.ID.String(), Quantity: 1}),
		PaidUsd: decimal.NewFromInt(2),
		PaidKhr: decimal.NewFromInt(12300),
	}, nil)
	require.NoError(t, err)

	assert.True(t, resp.Payment.IsExact)
	assert.Equal(t, "0", resp.Payment.ChangeUsd.String())
	assert.Equal(t, "0", resp.Payment.ChangeKhr.String())
}

func TestCreateOrderRequestRateOverridesCurrent(t *testing.T) {
	f := newOrderFixture()
	item := seedMenuItem(f.menu, "Espresso", 2.00)

	resp, err := f.svc.Create(context.Background(), dto.CreateOrderRequest{
		Items:        orderItems(dto.OrderItemRequest{MenuItemID: item.ID.String(), Quantity: 1}),
		PaidKhr:      decimal.NewFromInt(8000),
		ExchangeRate: decimal.NewFromInt(4000),
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, "4000", resp.Order.ExchangeRate.String())
	assert.True(t, resp.Payment.IsExact)
}

func TestCreateOrderInsufficientPayment(t *testing.T) {
	f := newOrderFixture()
	item := seedMenuItem(f.menu, "Iced Latte", 3.50)

	_, err := f.svc.Create(context.Background(), dto.CreateOrderRequest{
		Items:   orderItems(dto.OrderItemRequest{MenuItemID: item.ID.String(), Quantity: 2}),
		PaidUsd: decimal.NewFromInt(5),
	}, nil)
	require.ErrorIs(t, err, domain.ErrPaymentInsufficient)

	// Rejected before the transaction; nothing persisted, no number burned.
	assert.Empty(t, f.orders.orders)
	assert.Empty(t, f.orders.counters)
}

func TestCreateOrderEmptyRejected(t *testing.T) {
	f := newOrderFixture()

	_, err := f.svc.Create(context.Background(), dto.CreateOrderRequest{
		PaidUsd: decimal.NewFromInt(5),
	}, nil)
	assert.ErrorIs(t, err, domain.ErrEmptyOrder)
}

func TestCreateOrderUnknownItem(t *testing.T) {
	f := newOrderFixture()

	_, err := f.svc.Create(context.Background(), dto.CreateOrderRequest{
		Items:   orderItems(dto.OrderItemRequest{MenuItemID: uuid.NewString(), Quantity: 1}),
		PaidUsd: decimal.NewFromInt(5),
	}, nil)
	assert.ErrorIs(t, err, domain.ErrItemNotFound)
}

func TestCreateOrderInactiveItem(t *testing.T) {
	f := newOrderFixture()
	item := seedMenuItem(f.menu, "Seasonal Pumpkin Latte", 4.50)
	item.Active = false

	_, err := f.svc.Create(context.Background(), dto.CreateOrderRequest{
		Items:   orderItems(dto.OrderItemRequest{MenuItemID: item.ID.String(), Quantity: 1}),
		PaidUsd: decimal.NewFromInt(5),
	}, nil)
	assert.ErrorIs(t, err, domain.ErrItemUnavailable)
}

func TestCreateOrderSizePricing(t *testing.T) {
	f := newOrderFixture()
	item := seedMenuItem(f.menu, "Cold Brew", 3.00)
	largePrice := decimal.RequireFromString("4.25")
	item.PriceLarge = &largePrice

	resp, err := f.svc.Create(context.Background(), dto.CreateOrderRequest{
		Items: orderItems(
			// Explicit large price wins over the surcharge.
			dto.OrderItemRequest{MenuItemID: item.ID.String(), Size: model.SizeLarge, Quantity: 1},
			// No medium price configured; base plus $0.50 surcharge.
			dto.OrderItemRequest{MenuItemID: item.ID.String(), Size: model.SizeMedium, Quantity: 1},
		),
		PaidUsd: decimal.NewFromInt(10),
	}, nil)
	require.NoError(t, err)

	require.Len(t, resp.Order.Items, 2)
	assert.Equal(t, "4.25", resp.Order.Items[0].UnitPrice.String())
	assert.Equal(t, "3.5", resp.Order.Items[1].UnitPrice.String())
	assert.Equal(t, "7.75", resp.Order.TotalUsd.String())
}

func TestCreateOrderDiscountClampedAtZero(t *testing.T) {
	f := newOrderFixture()
	item := seedMenuItem(f.menu, "Butter Croissant", 1.50)

	resp, err := f.svc.Create(context.Background(), dto.CreateOrderRequest{
		Items: orderItems(dto.OrderItemRequest{
			MenuItemID: item.ID.String(),
			Quantity:   1,
			Discount:   decimal.NewFromInt(5),
		}),
		PaidUsd: decimal.NewFromInt(1),
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, "0", resp.Order.Items[0].Total.String())
	assert.Equal(t, "0", resp.Order.TotalUsd.String())
}

func TestCreateOrderDeductsStockAllOrNothing(t *testing.T) {
	f := newOrderFixture()
	latte := seedMenuItem(f.menu, "Iced Latte", 3.50)
	beans := seedIngredient(f.ingredients, "Coffee Beans", 1, 0.1)
	milk := seedIngredient(f.ingredients, "Milk", 0.1, 0.1)

	f.recipes.recipes[uuid.New()] = &model.Recipe{
		ID: uuid.New(), MenuItemID: latte.ID, IngredientID: beans.ID,
		Size: model.SizeRegular, Quantity: decimal.RequireFromString("0.02"),
	}
	f.recipes.recipes[uuid.New()] = &model.Recipe{
		ID: uuid.New(), MenuItemID: latte.ID, IngredientID: milk.ID,
		Size: model.SizeRegular, Quantity: decimal.RequireFromString("0.25"),
	}

	_, err := f.svc.Create(context.Background(), dto.CreateOrderRequest{
		Items:   orderItems(dto.OrderItemRequest{MenuItemID: latte.ID.String(), Quantity: 1}),
		PaidUsd: decimal.NewFromInt(5),
	}, nil)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	// The whole transaction rolled back: no order, no partial deduction even
	// though the beans leg succeeded before milk came up short.
	assert.Empty(t, f.orders.orders)
	assert.Equal(t, "1", f.ingredients.ingredients[beans.ID].Quantity.String())
	assert.Empty(t, f.ledger.entries)
}

// ── Transition ───────────────────────────────────────────────────────────────

func TestTransitionForward(t *testing.T) {
	f := newOrderFixture()
	item := seedMenuItem(f.menu, "Americano", 2.00)
	order := mustCreateOrder(t, f, item)

	res, err := f.svc.Transition(context.Background(), uuid.MustParse(order.ID), model.OrderPreparing)
	require.NoError(t, err)

	assert.Equal(t, model.OrderPending, res.OldStatus)
	assert.Equal(t, model.OrderPreparing, res.NewStatus)
	require.Len(t, f.notifier.transitions, 1)
	assert.Equal(t, order.OrderNumber, f.notifier.transitions[0].Order.OrderNumber)
}

func TestTransitionSameStatusNoop(t *testing.T) {
	f := newOrderFixture()
	item := seedMenuItem(f.menu, "Americano", 2.00)
	order := mustCreateOrder(t, f, item)

	res, err := f.svc.Transition(context.Background(), uuid.MustParse(order.ID), model.OrderPending)
	require.NoError(t, err)

	assert.Equal(t, res.OldStatus, res.NewStatus)
	// No-op transitions are not announced.
	assert.Empty(t, f.notifier.transitions)
}

func TestTransitionCompletedIsTerminal(t *testing.T) {
	f := newOrderFixture()
	item := seedMenuItem(f.menu, "Americano", 2.00)
	order := mustCreateOrder(t, f, item)
	id := uuid.MustParse(order.ID)

	_, err := f.svc.Transition(context.Background(), id, model.OrderCompleted)
	require.NoError(t, err)

	_, err = f.svc.Transition(context.Background(), id, model.OrderPreparing)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestTransitionUnknownStatus(t *testing.T) {
	f := newOrderFixture()

	_, err := f.svc.Transition(context.Background(), uuid.New(), "cancelled")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestTransitionUnknownOrder(t *testing.T) {
	f := newOrderFixture()

	_, err := f.svc.Transition(context.Background(), uuid.New(), model.OrderPreparing)
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestVoidRestoresStock(t *testing.T) {
	f := newOrderFixture()
	latte := seedMenuItem(f.menu, "Iced Latte", 3.50)
	beans := seedIngredient(f.ingredients, "Coffee Beans", 10, 2)
	f.recipes.recipes[uuid.New()] = &model.Recipe{
		ID: uuid.New(), MenuItemID: latte.ID, IngredientID: beans.ID,
		Size: model.SizeRegular, Quantity: decimal.RequireFromString("0.02"),
	}

	order := mustCreateOrder(t, f, latte)
	assert.Equal(t, "9.98", f.ingredients.ingredients[beans.ID].Quantity.String())

	res, err := f.svc.Transition(context.Background(), uuid.MustParse(order.ID), model.OrderVoided)
	require.NoError(t, err)
	assert.Equal(t, model.OrderVoided, res.NewStatus)

	// Stock back where it started, with a compensating ledger entry.
	assert.Equal(t, "10", f.ingredients.ingredients[beans.ID].Quantity.String())
	require.Len(t, f.ledger.entries, 2)
	assert.Equal(t, model.StockTxOut, f.ledger.entries[0].Type)
	assert.Equal(t, model.StockTxIn, f.ledger.entries[1].Type)
	assert.Equal(t, f.ledger.entries[0].Quantity.Neg().String(), f.ledger.entries[1].Quantity.String())
}

func TestVoidTwiceRejected(t *testing.T) {
	f := newOrderFixture()
	latte := seedMenuItem(f.menu, "Iced Latte", 3.50)
	beans := seedIngredient(f.ingredients, "Coffee Beans", 10, 2)
	f.recipes.recipes[uuid.New()] = &model.Recipe{
		ID: uuid.New(), MenuItemID: latte.ID, IngredientID: beans.ID,
		Size: model.SizeRegular, Quantity: decimal.RequireFromString("0.02"),
	}

	order := mustCreateOrder(t, f, latte)
	id := uuid.MustParse(order.ID)

	_, err := f.svc.Transition(context.Background(), id, model.OrderVoided)
	require.NoError(t, err)

	// The second void must fail, not silently no-op on the matching status,
	// and the stock must be restored exactly once.
	_, err = f.svc.Transition(context.Background(), id, model.OrderVoided)
	assert.ErrorIs(t, err, domain.ErrAlreadyVoided)
	assert.Equal(t, "10", f.ingredients.ingredients[beans.ID].Quantity.String())
	assert.Len(t, f.ledger.entries, 2)
}

// ── Reads ────────────────────────────────────────────────────────────────────

func TestGetOrder(t *testing.T) {
	f := newOrderFixture()
	item := seedMenuItem(f.menu, "Americano", 2.00)
	order := mustCreateOrder(t, f, item)

	got, err := f.svc.Get(context.Background(), uuid.MustParse(order.ID))
	require.NoError(t, err)
	assert.Equal(t, order.OrderNumber, got.OrderNumber)

	_, err = f.svc.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func mustCreateOrder(t *testing.T, f *orderFixture, item *model.MenuItem) *dto.OrderResponse {
	t.Helper()
	resp, err := f.svc.Create(context.Background(), dto.CreateOrderRequest{
		Items:   orderItems(dto.OrderItemRequest{MenuItemID: item.ID.String(), Quantity: 1}),
		PaidUsd: decimal.NewFromInt(20),
	}, nil)
	require.NoError(t, err)
	return &resp.Order
}
