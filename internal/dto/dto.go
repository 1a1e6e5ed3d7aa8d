package dto

import (
	"time"

	"github.com/D3konR3kon/alx-backend-graphql-crm/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateCustomerRequest struct {
	Name  string  `json:"name"`
	Email string  `json:"email"`
	Phone *string `json:"phone,omitempty"`
}

type BulkCreateCustomersRequest struct {
	Customers []CreateCustomerRequest `json:"customers"`
}

type CreateProductRequest struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Stock *int32          `json:"stock,omitempty"`
	SKU   string          `json:"sku,omitempty"`
}

type CreateOrderRequest struct {
	CustomerID uuid.UUID   `json:"customer_id"`
	ProductIDs []uuid.UUID `json:"product_ids"`
	OrderDate  *time.Time  `json:"order_date,omitempty"`
}

// Mutation responses mirror the service payloads: entity-or-list,
// message, errors. Errors always marshals as a list, never null.

type CustomerResponse struct {
	Customer *models.Customer `json:"customer,omitempty"`
	Message  string           `json:"message,omitempty"`
	Errors   []string         `json:"errors"`
}

type BulkCustomersResponse struct {
	Customers []*models.Customer `json:"customers"`
	Message   string             `json:"message,omitempty"`
	Errors    []string           `json:"errors"`
}

type ProductResponse struct {
	Product *models.Product `json:"product,omitempty"`
	Message string          `json:"message,omitempty"`
	Errors  []string        `json:"errors"`
}

type OrderResponse struct {
	Order   *models.Order `json:"order,omitempty"`
	Message string        `json:"message,omitempty"`
	Errors  []string      `json:"errors"`
}

// UpdatedProduct is the per-product line of the low-stock report.
type UpdatedProduct struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	SKU   string    `json:"sku"`
	Stock int32     `json:"stock"`
}

type LowStockResponse struct {
	Success         bool             `json:"success"`
	Message         string           `json:"message"`
	UpdatedCount    int              `json:"updatedCount"`
	UpdatedProducts []UpdatedProduct `json:"updatedProducts"`
}

type HelloData struct {
	Hello string `json:"hello"`
}

type HelloResponse struct {
	Data HelloData `json:"data"`
}

type ListResponse[T any] struct {
	Data  []T   `json:"data"`
	Total int64 `json:"total"`
}

type ErrorResponse struct {
	Errors []string `json:"errors"`
}

// Errs normalizes a possibly-nil error slice for JSON output.
func Errs(errs []string) []string {
	if errs == nil {
		return []string{}
	}
	return errs
}
