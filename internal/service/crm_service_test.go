package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/D3konR3kon/alx-backend-graphql-crm/internal/models"
	"github.com/D3konR3kon/alx-backend-graphql-crm/internal/repository"
	"github.com/D3konR3kon/alx-backend-graphql-crm/internal/service"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Mocks for the repository interfaces

type MockCustomerRepo struct {
	CreateFunc        func(ctx context.Context, c *models.Customer) error
	GetByIDFunc       func(ctx context.Context, id uuid.UUID) (*models.Customer, error)
	GetByEmailFunc    func(ctx context.Context, email string) (*models.Customer, error)
	ExistsByEmailFunc func(ctx context.Context, email string) (bool, error)
	ListFunc          func(ctx context.Context, f repository.CustomerListFilter) ([]models.Customer, int64, error)
	DeleteFunc        func(ctx context.Context, id uuid.UUID) (bool, error)
}

func (m *MockCustomerRepo) Create(ctx context.Context, c *models.Customer) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, c)
	}
	return nil
}

func (m *MockCustomerRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockCustomerRepo) GetByEmail(ctx context.Context, email string) (*models.Customer, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	return nil, nil
}

func (m *MockCustomerRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if m.ExistsByEmailFunc != nil {
		return m.ExistsByEmailFunc(ctx, email)
	}
	return false, nil
}

func (m *MockCustomerRepo) List(ctx context.Context, f repository.CustomerListFilter) ([]models.Customer, int64, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, f)
	}
	return nil, 0, nil
}

func (m *MockCustomerRepo) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return false, nil
}

type MockProductRepo struct {
	CreateFunc         func(ctx context.Context, p *models.Product) error
	GetByIDFunc        func(ctx context.Context, id uuid.UUID) (*models.Product, error)
	BatchGetByIDsFunc  func(ctx context.Context, ids []uuid.UUID) ([]models.Product, error)
	ListFunc           func(ctx context.Context, f repository.ProductListFilter) ([]models.Product, int64, error)
	ListBelowStockFunc func(ctx context.Context, threshold int32) ([]models.Product, error)
	UpdateStockFunc    func(ctx context.Context, id uuid.UUID, stock int32) error
}

func (m *MockProductRepo) Create(ctx context.Context, p *models.Product) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, p)
	}
	return nil
}

func (m *MockProductRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockProductRepo) BatchGetByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
	if m.BatchGetByIDsFunc != nil {
		return m.BatchGetByIDsFunc(ctx, ids)
	}
	return nil, nil
}

func (m *MockProductRepo) List(ctx context.Context, f repository.ProductListFilter) ([]models.Product, int64, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, f)
	}
	return nil, 0, nil
}

func (m *MockProductRepo) ListBelowStock(ctx context.Context, threshold int32) ([]models.Product, error) {
	if m.ListBelowStockFunc != nil {
		return m.ListBelowStockFunc(ctx, threshold)
	}
	return nil, nil
}

func (m *MockProductRepo) UpdateStock(ctx context.Context, id uuid.UUID, stock int32) error {
	if m.UpdateStockFunc != nil {
		return m.UpdateStockFunc(ctx, id, stock)
	}
	return nil
}

type MockOrderRepo struct {
	CreateFunc  func(ctx context.Context, o *models.Order) error
	GetByIDFunc func(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListFunc    func(ctx context.Context, f repository.OrderListFilter) ([]models.Order, int64, error)
}

func (m *MockOrderRepo) Create(ctx context.Context, o *models.Order) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, o)
	}
	return nil
}

func (m *MockOrderRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockOrderRepo) List(ctx context.Context, f repository.OrderListFilter) ([]models.Order, int64, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, f)
	}
	return nil, 0, nil
}

type MockEventBus struct {
	PublishOrderCreatedFunc func(ctx context.Context, e service.OrderCreatedEvent) error
}

func (m *MockEventBus) PublishOrderCreated(ctx context.Context, e service.OrderCreatedEvent) error {
	if m.PublishOrderCreatedFunc != nil {
		return m.PublishOrderCreatedFunc(ctx, e)
	}
	return nil
}

func newTestService(mc *MockCustomerRepo, mp *MockProductRepo, mo *MockOrderRepo, events service.EventBus) service.CRMService {
	repo := &repository.Repository{Customers: mc, Products: mp, Orders: mo}
	return service.NewCRMService(repo, events, zap.NewNop())
}

func strPtr(s string) *string { return &s }

func int32Ptr(n int32) *int32 { return &n }

func TestCreateCustomer_ValidationFailure(t *testing.T) {
	created := false
	mc := &MockCustomerRepo{
		CreateFunc: func(ctx context.Context, c *models.Customer) error {
			created = true
			return nil
		},
	}
	svc := newTestService(mc, &MockProductRepo{}, &MockOrderRepo{}, nil)

	p := svc.CreateCustomer(context.Background(), service.CustomerInput{Name: "Alice", Email: "not-an-email"})
	if p.Customer != nil || len(p.Errors) == 0 {
		t.Fatalf("expected validation errors, got %+v", p)
	}
	if created {
		t.Fatal("customer must not be written on validation failure")
	}
}

func TestCreateCustomer_NormalizesAndCreates(t *testing.T) {
	var got *models.Customer
	mc := &MockCustomerRepo{
		CreateFunc: func(ctx context.Context, c *models.Customer) error {
			got = c
			return nil
		},
	}
	svc := newTestService(mc, &MockProductRepo{}, &MockOrderRepo{}, nil)

	p := svc.CreateCustomer(context.Background(), service.CustomerInput{
		Name:  "  Alice  ",
		Email: "  ALICE@Example.COM ",
		Phone: strPtr(" +12345678901 "),
	})
	if len(p.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", p.Errors)
	}
	if p.Message != "Customer created successfully" {
		t.Fatalf("unexpected message: %q", p.Message)
	}
	if got == nil {
		t.Fatal("customer was not written")
	}
	if got.Name != "Alice" || got.Email != "alice@example.com" {
		t.Fatalf("normalization mismatch: %+v", got)
	}
	if got.Phone == nil || *got.Phone != "+12345678901" {
		t.Fatalf("phone normalization mismatch: %v", got.Phone)
	}
}

func TestCreateCustomer_DuplicateEmail(t *testing.T) {
	mc := &MockCustomerRepo{
		ExistsByEmailFunc: func(ctx context.Context, email string) (bool, error) {
			return true, nil
		},
		CreateFunc: func(ctx context.Context, c *models.Customer) error {
			t.Fatal("create must not run when the email exists")
			return nil
		},
	}
	svc := newTestService(mc, &MockProductRepo{}, &MockOrderRepo{}, nil)

	p := svc.CreateCustomer(context.Background(), service.CustomerInput{Name: "Alice", Email: "alice@example.com"})
	if len(p.Errors) != 1 || p.Errors[0] != "Email already exists" {
		t.Fatalf("expected conflict error, got %v", p.Errors)
	}
	if p.Customer != nil {
		t.Fatal("no customer expected on conflict")
	}
}

func TestCreateCustomer_StoreLevelConflict(t *testing.T) {
	// the pre-check passes, the unique index does not: a concurrent
	// duplicate slipped in between check and insert
	mc := &MockCustomerRepo{
		CreateFunc: func(ctx context.Context, c *models.Customer) error {
			return &pgconn.PgError{Code: "23505", ConstraintName: "ux_customers_email"}
		},
	}
	svc := newTestService(mc, &MockProductRepo{}, &MockOrderRepo{}, nil)

	p := svc.CreateCustomer(context.Background(), service.CustomerInput{Name: "Alice", Email: "alice@example.com"})
	if len(p.Errors) != 1 || p.Errors[0] != "Email already exists" {
		t.Fatalf("constraint violation must surface as conflict, got %v", p.Errors)
	}
}

func TestBulkCreateCustomers_PartialSuccess(t *testing.T) {
	var created []*models.Customer
	mc := &MockCustomerRepo{
		CreateFunc: func(ctx context.Context, c *models.Customer) error {
			created = append(created, c)
			return nil
		},
	}
	svc := newTestService(mc, &MockProductRepo{}, &MockOrderRepo{}, nil)

	p := svc.BulkCreateCustomers(context.Background(), []service.CustomerInput{
		{Name: "Alice", Email: "alice@example.com"},
		{Name: "Bob", Email: "bad-email"},
		{Name: "Carol", Email: "carol@example.com"},
	})

	if len(p.Customers) != 2 || len(created) != 2 {
		t.Fatalf("expected 2 created customers, got %d (payload %d)", len(created), len(p.Customers))
	}
	if len(p.Errors) != 1 {
		t.Fatalf("expected exactly 1 error, got %v", p.Errors)
	}
	if !strings.HasPrefix(p.Errors[0], "Customer 2: ") {
		t.Fatalf("error must be attributed to item 2, got %q", p.Errors[0])
	}
}

func TestBulkCreateCustomers_DuplicateWithinBatch(t *testing.T) {
	seen := map[string]bool{}
	mc := &MockCustomerRepo{
		ExistsByEmailFunc: func(ctx context.Context, email string) (bool, error) {
			return seen[email], nil
		},
		CreateFunc: func(ctx context.Context, c *models.Customer) error {
			seen[c.Email] = true
			return nil
		},
	}
	svc := newTestService(mc, &MockProductRepo{}, &MockOrderRepo{}, nil)

	p := svc.BulkCreateCustomers(context.Background(), []service.CustomerInput{
		{Name: "Alice", Email: "alice@example.com"},
		{Name: "Alice Again", Email: "ALICE@example.com"},
	})

	if len(p.Customers) != 1 {
		t.Fatalf("expected 1 created customer, got %d", len(p.Customers))
	}
	if len(p.Errors) != 1 || p.Errors[0] != "Customer 2: Email already exists" {
		t.Fatalf("expected in-batch conflict on item 2, got %v", p.Errors)
	}
}

func TestBulkCreateCustomers_LookupErrorSkipsItemOnly(t *testing.T) {
	var created []*models.Customer
	mc := &MockCustomerRepo{
		ExistsByEmailFunc: func(ctx context.Context, email string) (bool, error) {
			if email == "bob@example.com" {
				return false, errors.New("store down")
			}
			return false, nil
		},
		CreateFunc: func(ctx context.Context, c *models.Customer) error {
			created = append(created, c)
			return nil
		},
	}
	svc := newTestService(mc, &MockProductRepo{}, &MockOrderRepo{}, nil)

	p := svc.BulkCreateCustomers(context.Background(), []service.CustomerInput{
		{Name: "Alice", Email: "alice@example.com"},
		{Name: "Bob", Email: "bob@example.com"},
		{Name: "Carol", Email: "carol@example.com"},
	})

	if len(p.Customers) != 2 || len(created) != 2 {
		t.Fatalf("items around the failed lookup must still be created, got %d (payload %d)", len(created), len(p.Customers))
	}
	if len(p.Errors) != 1 || !strings.HasPrefix(p.Errors[0], "Customer 2: ") {
		t.Fatalf("lookup failure must be attributed to item 2, got %v", p.Errors)
	}
	if !strings.Contains(p.Errors[0], "store down") {
		t.Fatalf("error must carry the cause, got %q", p.Errors[0])
	}
}

func TestCreateProduct_DefaultsAndSKU(t *testing.T) {
	var got *models.Product
	mp := &MockProductRepo{
		CreateFunc: func(ctx context.Context, p *models.Product) error {
			got = p
			return nil
		},
	}
	svc := newTestService(&MockCustomerRepo{}, mp, &MockOrderRepo{}, nil)

	p := svc.CreateProduct(context.Background(), service.ProductInput{
		Name:  "Widget",
		Price: decimal.RequireFromString("9.99"),
	})
	if len(p.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", p.Errors)
	}
	if got.Stock != 0 {
		t.Fatalf("stock must default to 0, got %d", got.Stock)
	}
	if !strings.HasPrefix(got.SKU, "PRD-") {
		t.Fatalf("expected generated SKU, got %q", got.SKU)
	}
}

func TestCreateProduct_Validation(t *testing.T) {
	mp := &MockProductRepo{
		CreateFunc: func(ctx context.Context, p *models.Product) error {
			t.Fatal("create must not run on invalid input")
			return nil
		},
	}
	svc := newTestService(&MockCustomerRepo{}, mp, &MockOrderRepo{}, nil)

	p := svc.CreateProduct(context.Background(), service.ProductInput{
		Name:  "Widget",
		Price: decimal.Zero,
		Stock: int32Ptr(-5),
	})
	if len(p.Errors) != 2 {
		t.Fatalf("expected price and stock errors, got %v", p.Errors)
	}
}

func TestCreateOrder_CustomerNotFound(t *testing.T) {
	mo := &MockOrderRepo{
		CreateFunc: func(ctx context.Context, o *models.Order) error {
			t.Fatal("order must not be written for a missing customer")
			return nil
		},
	}
	svc := newTestService(&MockCustomerRepo{}, &MockProductRepo{}, mo, nil)

	p := svc.CreateOrder(context.Background(), service.OrderInput{
		CustomerID: uuid.New(),
		ProductIDs: []uuid.UUID{uuid.New()},
	})
	if len(p.Errors) != 1 || p.Errors[0] != "Customer not found" {
		t.Fatalf("expected customer-not-found, got %v", p.Errors)
	}
}

func TestCreateOrder_MissingProductFailsWhole(t *testing.T) {
	customerID := uuid.New()
	known := []models.Product{
		{ID: uuid.New(), Name: "A", Price: decimal.RequireFromString("1.00")},
		{ID: uuid.New(), Name: "B", Price: decimal.RequireFromString("2.00")},
	}
	missing := uuid.New()

	mc := &MockCustomerRepo{
		GetByIDFunc: func(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
			return &models.Customer{ID: customerID, Name: "Alice", Email: "alice@example.com"}, nil
		},
	}
	mp := &MockProductRepo{
		BatchGetByIDsFunc: func(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
			return known, nil
		},
	}
	mo := &MockOrderRepo{
		CreateFunc: func(ctx context.Context, o *models.Order) error {
			t.Fatal("no order may be written when a product id is unresolved")
			return nil
		},
	}
	svc := newTestService(mc, mp, mo, nil)

	p := svc.CreateOrder(context.Background(), service.OrderInput{
		CustomerID: customerID,
		ProductIDs: []uuid.UUID{known[0].ID, known[1].ID, missing},
	})
	if len(p.Errors) != 1 {
		t.Fatalf("expected one error, got %v", p.Errors)
	}
	if !strings.Contains(p.Errors[0], "Invalid product IDs") || !strings.Contains(p.Errors[0], missing.String()) {
		t.Fatalf("error must name the missing id, got %q", p.Errors[0])
	}
}

func TestCreateOrder_TotalRecomputedFromPrices(t *testing.T) {
	customerID := uuid.New()
	products := []models.Product{
		{ID: uuid.New(), Name: "A", Price: decimal.RequireFromString("10.50")},
		{ID: uuid.New(), Name: "B", Price: decimal.RequireFromString("2.25")},
	}
	orderDate := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	var written *models.Order
	mc := &MockCustomerRepo{
		GetByIDFunc: func(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
			return &models.Customer{ID: customerID}, nil
		},
	}
	mp := &MockProductRepo{
		BatchGetByIDsFunc: func(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
			return products, nil
		},
	}
	mo := &MockOrderRepo{
		CreateFunc: func(ctx context.Context, o *models.Order) error {
			written = o
			return nil
		},
	}

	var published *service.OrderCreatedEvent
	bus := &MockEventBus{
		PublishOrderCreatedFunc: func(ctx context.Context, e service.OrderCreatedEvent) error {
			published = &e
			return nil
		},
	}

	svc := newTestService(mc, mp, mo, bus)

	p := svc.CreateOrder(context.Background(), service.OrderInput{
		CustomerID: customerID,
		ProductIDs: []uuid.UUID{products[0].ID, products[1].ID},
		OrderDate:  &orderDate,
	})
	if len(p.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", p.Errors)
	}
	if written == nil {
		t.Fatal("order was not written")
	}
	if !written.TotalAmount.Equal(decimal.RequireFromString("12.75")) {
		t.Fatalf("total must be the sum of current prices, got %s", written.TotalAmount)
	}
	if !written.OrderDate.Equal(orderDate) {
		t.Fatalf("supplied order date must be kept, got %s", written.OrderDate)
	}
	if published == nil {
		t.Fatal("order created event was not published")
	}
	if !published.TotalAmount.Equal(written.TotalAmount) {
		t.Fatalf("event total mismatch: %s", published.TotalAmount)
	}
}

func TestUpdateLowStockProducts(t *testing.T) {
	low := []models.Product{
		{ID: uuid.New(), Name: "A", SKU: "SKU-A", Stock: 3},
		{ID: uuid.New(), Name: "C", SKU: "SKU-C", Stock: 9},
	}
	updates := map[uuid.UUID]int32{}

	mp := &MockProductRepo{
		ListBelowStockFunc: func(ctx context.Context, threshold int32) ([]models.Product, error) {
			if threshold != 10 {
				t.Fatalf("threshold must be 10, got %d", threshold)
			}
			// snapshot: a product at 15 is never surfaced by the scan
			return low, nil
		},
		UpdateStockFunc: func(ctx context.Context, id uuid.UUID, stock int32) error {
			updates[id] = stock
			return nil
		},
	}
	svc := newTestService(&MockCustomerRepo{}, mp, &MockOrderRepo{}, nil)

	p := svc.UpdateLowStockProducts(context.Background())
	if !p.Success {
		t.Fatalf("expected success, got %q", p.Message)
	}
	if p.UpdatedCount != 2 {
		t.Fatalf("expected updatedCount 2, got %d", p.UpdatedCount)
	}
	if updates[low[0].ID] != 13 || updates[low[1].ID] != 19 {
		t.Fatalf("stock increments wrong: %v", updates)
	}
}

func TestUpdateLowStockProducts_Failure(t *testing.T) {
	mp := &MockProductRepo{
		ListBelowStockFunc: func(ctx context.Context, threshold int32) ([]models.Product, error) {
			return nil, errors.New("store down")
		},
	}
	svc := newTestService(&MockCustomerRepo{}, mp, &MockOrderRepo{}, nil)

	p := svc.UpdateLowStockProducts(context.Background())
	if p.Success {
		t.Fatal("expected failure")
	}
	if !strings.Contains(p.Message, "store down") {
		t.Fatalf("failure message must carry the cause, got %q", p.Message)
	}
	if p.UpdatedCount != 0 {
		t.Fatalf("nothing may be reported updated, got %d", p.UpdatedCount)
	}
}
