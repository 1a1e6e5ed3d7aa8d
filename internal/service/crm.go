package service

import (
	"context"
	"time"

	"github.com/D3konR3kon/alx-backend-graphql-crm/internal/models"
	"github.com/D3konR3kon/alx-backend-graphql-crm/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// HelloMessage is the fixed greeting the query surface answers with; the
// liveness probe checks for it.
const HelloMessage = "Hello, GraphQL!"

type CustomerInput struct {
	Name  string
	Email string
	Phone *string
}

type ProductInput struct {
	Name  string
	Price decimal.Decimal
	Stock *int32
	SKU   string // generated when empty
}

type OrderInput struct {
	CustomerID uuid.UUID
	ProductIDs []uuid.UUID
	OrderDate  *time.Time
}

// Mutation payloads. Every mutation answers with entity-or-list, message
// and errors; domain failures never surface as a transport error.

type CustomerPayload struct {
	Customer *models.Customer
	Message  string
	Errors   []string
}

type BulkCustomersPayload struct {
	Customers []*models.Customer
	Message   string
	Errors    []string
}

type ProductPayload struct {
	Product *models.Product
	Message string
	Errors  []string
}

type OrderPayload struct {
	Order   *models.Order
	Message string
	Errors  []string
}

type LowStockPayload struct {
	Success         bool
	Message         string
	UpdatedCount    int
	UpdatedProducts []models.Product
}

type CRMService interface {
	CreateCustomer(ctx context.Context, in CustomerInput) *CustomerPayload
	BulkCreateCustomers(ctx context.Context, inputs []CustomerInput) *BulkCustomersPayload
	CreateProduct(ctx context.Context, in ProductInput) *ProductPayload
	CreateOrder(ctx context.Context, in OrderInput) *OrderPayload
	UpdateLowStockProducts(ctx context.Context) *LowStockPayload

	Customer(ctx context.Context, id uuid.UUID) (*models.Customer, error)
	Customers(ctx context.Context, f repository.CustomerListFilter) ([]models.Customer, int64, error)
	Product(ctx context.Context, id uuid.UUID) (*models.Product, error)
	Products(ctx context.Context, f repository.ProductListFilter) ([]models.Product, int64, error)
	Order(ctx context.Context, id uuid.UUID) (*models.Order, error)
	Orders(ctx context.Context, f repository.OrderListFilter) ([]models.Order, int64, error)
}
