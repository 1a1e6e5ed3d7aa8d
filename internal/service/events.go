package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderCreatedEvent struct {
	OrderID     uuid.UUID       `json:"order_id"`
	CustomerID  uuid.UUID       `json:"customer_id"`
	ProductIDs  []uuid.UUID     `json:"product_ids"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	OrderDate   time.Time       `json:"order_date"`
}

// EventBus is optional; a nil bus disables publishing.
type EventBus interface {
	PublishOrderCreated(ctx context.Context, e OrderCreatedEvent) error
}
