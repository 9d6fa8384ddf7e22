package worker

// notification_worker.go
// Consumes order transition results from QueueOrderStatus and low-stock
// alerts from QueueLowStock. Delivery channels (Telegram, printers, customer
// displays) plug in behind this worker; the core only publishes the events.

import (
	"context"
	"encoding/json"

	"khmercafe/internal/dto"

	"github.com/rs/zerolog/log"
)

// OrderStatusWorker logs each order transition so downstream delivery can be
// attached without touching the order service.
type OrderStatusWorker struct{}

func NewOrderStatusWorker() *OrderStatusWorker { return &OrderStatusWorker{} }

func (w *OrderStatusWorker) Process(ctx context.Context, raw json.RawMessage) {
	var res dto.TransitionResponse
	if err := json.Unmarshal(raw, &res); err != nil {
		log.Error().Err(err).Msg("order_status_worker: invalid payload")
		return
	}

	event := log.Info().
		Str("order_number", res.Order.OrderNumber).
		Str("old_status", res.OldStatus).
		Str("new_status", res.NewStatus)
	if res.Order.CustomerID != nil {
		event = event.Str("customer_id", *res.Order.CustomerID)
	}
	event.Msg("order status changed")
}

type LowStockWorker struct{}

func NewLowStockWorker() *LowStockWorker { return &LowStockWorker{} }

func (w *LowStockWorker) Process(ctx context.Context, raw json.RawMessage) {
	var p dto.LowStockAlert
	if err := json.Unmarshal(raw, &p); err != nil {
		log.Error().Err(err).Msg("low_stock_worker: invalid payload")
		return
	}
	log.Warn().
		Str("ingredient_id", p.IngredientID).
		Str("name", p.Name).
		Str("quantity", p.Quantity).
		Str("threshold", p.Threshold).
		Str("status", p.Status).
		Msg("ingredient low on stock")
}
