package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order lifecycle states. pending → preparing → ready → completed is the
// forward path; any non-terminal state may transition to voided. completed
// and voided are terminal.
const (
	OrderPending   = "pending"
	OrderPreparing = "preparing"
	OrderReady     = "ready"
	OrderCompleted = "completed"
	OrderVoided    = "voided"
)

// ValidOrderStatus reports whether s names a known lifecycle state.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderPending, OrderPreparing, OrderReady, OrderCompleted, OrderVoided:
		return true
	}
	return false
}

// Payment methods accepted at the register.
const (
	PayCash = "cash"
	PayKHQR = "khqr"
	PayCard = "card"
)

// Order is a committed café sale. Monetary fields and line items are frozen
// at creation; later menu edits never alter a historical order.
type Order struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrderNumber   string          `gorm:"uniqueIndex;not null"`
	CashierID     *uuid.UUID      `gorm:"type:uuid;index"`
	CustomerID    *uuid.UUID      `gorm:"type:uuid;index"`
	SubtotalUsd   decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	TotalUsd      decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	PaidUsd       decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	PaidKhr       decimal.Decimal `gorm:"type:decimal(12,0);not null;default:0"`
	ChangeUsd     decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	ChangeKhr     decimal.Decimal `gorm:"type:decimal(12,0);not null;default:0"`
	ExchangeRate  decimal.Decimal `gorm:"type:decimal(10,2);not null"` // KHR per USD at time of sale
	PaymentMethod string          `gorm:"type:varchar(20);not null;default:'cash'"`
	Status        string          `gorm:"type:varchar(20);not null;default:'pending';index"`
	Notes         *string
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Items   []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Cashier *User       `gorm:"foreignKey:CashierID"`
}

func (Order) TableName() string { return "orders" }

// OrderItem is one line of an order. Name, size and price are snapshots
// taken at sale time.
type OrderItem struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrderID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	MenuItemID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Name           string          `gorm:"not null"`
	Size           string          `gorm:"type:varchar(10);not null;default:'regular'"`
	Quantity       int             `gorm:"not null"`
	UnitPrice      decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Discount       decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	Total          decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Customizations map[string]string `gorm:"serializer:json"`
	CreatedAt      time.Time
}

func (OrderItem) TableName() string { return "order_items" }

// OrderCounter backs the per-day CAFE-YYYYMMDD-NNNN order number sequence.
// Incremented atomically inside the order-creation transaction.
type OrderCounter struct {
	Day   string `gorm:"primaryKey;type:varchar(8)"` // YYYYMMDD
	Value int    `gorm:"not null"`
}

func (OrderCounter) TableName() string { return "order_counters" }
