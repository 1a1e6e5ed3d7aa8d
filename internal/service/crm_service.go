package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/D3konR3kon/alx-backend-graphql-crm/internal/models"
	"github.com/D3konR3kon/alx-backend-graphql-crm/internal/repository"
	"github.com/D3konR3kon/alx-backend-graphql-crm/internal/validation"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	lowStockThreshold int32 = 10
	restockIncrement  int32 = 10
)

type crmService struct {
	repo   *repository.Repository
	events EventBus
	log    *zap.Logger
	now    func() time.Time
}

func NewCRMService(repo *repository.Repository, events EventBus, log *zap.Logger) CRMService {
	return &crmService{
		repo:   repo,
		events: events,
		log:    log,
		now:    time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func normalizePhone(phone *string) *string {
	if phone == nil {
		return nil
	}
	p := strings.TrimSpace(*phone)
	if p == "" {
		return nil
	}
	return &p
}

// buildCustomer assumes the input already passed validation.
func (s *crmService) buildCustomer(in CustomerInput) *models.Customer {
	now := s.now()
	return &models.Customer{
		Name:      strings.TrimSpace(in.Name),
		Email:     normalizeEmail(in.Email),
		Phone:     normalizePhone(in.Phone),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (s *crmService) CreateCustomer(ctx context.Context, in CustomerInput) *CustomerPayload {
	if errs := validation.Customer(in.Name, in.Email, in.Phone); len(errs) > 0 {
		return &CustomerPayload{Errors: errs}
	}

	c := s.buildCustomer(in)

	exists, err := s.repo.Customers.ExistsByEmail(ctx, c.Email)
	if err != nil {
		s.log.Error("customer email lookup failed", zap.Error(err))
		return &CustomerPayload{Errors: []string{"Failed to create customer: " + err.Error()}}
	}
	if exists {
		return &CustomerPayload{Errors: []string{ErrEmailExists.Message}}
	}

	if err := s.repo.Customers.Create(ctx, c); err != nil {
		if isUniqueViolation(err) {
			// lost the race to a concurrent insert; the unique index is
			// the authoritative guard
			return &CustomerPayload{Errors: []string{ErrEmailExists.Message}}
		}
		s.log.Error("customer insert failed", zap.String("email", c.Email), zap.Error(err))
		return &CustomerPayload{Errors: []string{"Failed to create customer: " + err.Error()}}
	}

	return &CustomerPayload{Customer: c, Message: "Customer created successfully"}
}

func (s *crmService) BulkCreateCustomers(ctx context.Context, inputs []CustomerInput) *BulkCustomersPayload {
	var (
		created []*models.Customer
		allErrs []string
	)

	err := s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		for i, in := range inputs {
			label := fmt.Sprintf("Customer %d", i+1)

			if errs := validation.Customer(in.Name, in.Email, in.Phone); len(errs) > 0 {
				for _, e := range errs {
					allErrs = append(allErrs, label+": "+e)
				}
				continue
			}

			c := s.buildCustomer(in)

			// in-transaction check also sees earlier items of this batch
			exists, err := tx.Customers.ExistsByEmail(ctx, c.Email)
			if err != nil {
				allErrs = append(allErrs, label+": "+err.Error())
				continue
			}
			if exists {
				allErrs = append(allErrs, label+": "+ErrEmailExists.Message)
				continue
			}

			// each item writes under its own savepoint so a failed insert
			// is attributed to that item without discarding earlier ones
			err = tx.WithTx(ctx, func(itemTx *repository.Repository) error {
				return itemTx.Customers.Create(ctx, c)
			})
			if err != nil {
				if isUniqueViolation(err) {
					allErrs = append(allErrs, label+": "+ErrEmailExists.Message)
				} else {
					allErrs = append(allErrs, label+": "+err.Error())
				}
				continue
			}

			created = append(created, c)
		}
		return nil
	})
	if err != nil {
		s.log.Error("bulk customer creation failed", zap.Error(err))
		return &BulkCustomersPayload{
			Errors: append(allErrs, "Failed to create customers: "+err.Error()),
		}
	}

	payload := &BulkCustomersPayload{Customers: created, Errors: allErrs}
	if len(created) > 0 {
		payload.Message = fmt.Sprintf("Created %d customers", len(created))
	}
	return payload
}

func (s *crmService) CreateProduct(ctx context.Context, in ProductInput) *ProductPayload {
	if errs := validation.Product(in.Name, in.Price, in.Stock); len(errs) > 0 {
		return &ProductPayload{Errors: errs}
	}

	var stock int32
	if in.Stock != nil {
		stock = *in.Stock
	}

	sku := strings.ToUpper(strings.TrimSpace(in.SKU))
	if sku == "" {
		sku = generateSKU()
	}

	now := s.now()
	p := &models.Product{
		Name:      strings.TrimSpace(in.Name),
		SKU:       sku,
		Price:     in.Price,
		Stock:     stock,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Products.Create(ctx, p); err != nil {
		if isUniqueViolation(err) {
			return &ProductPayload{Errors: []string{ErrSKUExists.Message}}
		}
		s.log.Error("product insert failed", zap.String("name", p.Name), zap.Error(err))
		return &ProductPayload{Errors: []string{"Failed to create product: " + err.Error()}}
	}

	return &ProductPayload{Product: p, Message: "Product created successfully"}
}

func generateSKU() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "PRD-" + strings.ToUpper(raw[:10])
}

func (s *crmService) CreateOrder(ctx context.Context, in OrderInput) *OrderPayload {
	if errs := validation.Order(in.CustomerID, in.ProductIDs); len(errs) > 0 {
		return &OrderPayload{Errors: errs}
	}

	ids := dedupeIDs(in.ProductIDs)

	var order *models.Order

	err := s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		customer, err := tx.Customers.GetByID(ctx, in.CustomerID)
		if err != nil {
			return err
		}
		if customer == nil {
			return ErrCustomerNotFound
		}

		products, err := tx.Products.BatchGetByIDs(ctx, ids)
		if err != nil {
			return err
		}
		if len(products) != len(ids) {
			return &DomainError{
				Kind:    KindNotFound,
				Message: "Invalid product IDs: " + strings.Join(missingIDs(ids, products), ", "),
			}
		}

		// the total is recomputed from current prices, never taken from
		// the caller; later price changes leave existing orders untouched
		total := decimal.Zero
		for _, p := range products {
			total = total.Add(p.Price)
		}

		now := s.now()
		orderDate := now
		if in.OrderDate != nil {
			orderDate = *in.OrderDate
		}

		o := &models.Order{
			CustomerID:  customer.ID,
			Products:    products,
			TotalAmount: total,
			OrderDate:   orderDate,
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		if err := tx.Orders.Create(ctx, o); err != nil {
			return err
		}

		o.Customer = customer
		order = o
		return nil
	})
	if err != nil {
		var de *DomainError
		if errors.As(err, &de) {
			return &OrderPayload{Errors: []string{de.Message}}
		}
		s.log.Error("order creation failed", zap.String("customer_id", in.CustomerID.String()), zap.Error(err))
		return &OrderPayload{Errors: []string{"Failed to create order: " + err.Error()}}
	}

	if s.events != nil {
		if err := s.events.PublishOrderCreated(ctx, OrderCreatedEvent{
			OrderID:     order.ID,
			CustomerID:  order.CustomerID,
			ProductIDs:  ids,
			TotalAmount: order.TotalAmount,
			OrderDate:   order.OrderDate,
		}); err != nil {
			s.log.Warn("order created event not published", zap.String("order_id", order.ID.String()), zap.Error(err))
		}
	}

	return &OrderPayload{Order: order, Message: "Order created successfully"}
}

func dedupeIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func missingIDs(requested []uuid.UUID, found []models.Product) []string {
	have := make(map[uuid.UUID]struct{}, len(found))
	for _, p := range found {
		have[p.ID] = struct{}{}
	}
	var missing []string
	for _, id := range requested {
		if _, ok := have[id]; !ok {
			missing = append(missing, id.String())
		}
	}
	return missing
}

// UpdateLowStockProducts raises every product under the threshold by the
// restock increment, against a snapshot taken at scan start, all within
// one transaction.
func (s *crmService) UpdateLowStockProducts(ctx context.Context) *LowStockPayload {
	var updated []models.Product

	err := s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		low, err := tx.Products.ListBelowStock(ctx, lowStockThreshold)
		if err != nil {
			return err
		}

		for _, p := range low {
			p.Stock += restockIncrement
			if err := tx.Products.UpdateStock(ctx, p.ID, p.Stock); err != nil {
				return err
			}
			updated = append(updated, p)
		}
		return nil
	})
	if err != nil {
		s.log.Error("low-stock update failed", zap.Error(err))
		return &LowStockPayload{
			Success: false,
			Message: "Failed to update low-stock products: " + err.Error(),
		}
	}

	return &LowStockPayload{
		Success:         true,
		Message:         fmt.Sprintf("Successfully updated %d low-stock products", len(updated)),
		UpdatedCount:    len(updated),
		UpdatedProducts: updated,
	}
}

func (s *crmService) Customer(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	return s.repo.Customers.GetByID(ctx, id)
}

func (s *crmService) Customers(ctx context.Context, f repository.CustomerListFilter) ([]models.Customer, int64, error) {
	return s.repo.Customers.List(ctx, f)
}

func (s *crmService) Product(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	return s.repo.Products.GetByID(ctx, id)
}

func (s *crmService) Products(ctx context.Context, f repository.ProductListFilter) ([]models.Product, int64, error) {
	return s.repo.Products.List(ctx, f)
}

func (s *crmService) Order(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	return s.repo.Orders.GetByID(ctx, id)
}

func (s *crmService) Orders(ctx context.Context, f repository.OrderListFilter) ([]models.Order, int64, error) {
	return s.repo.Orders.List(ctx, f)
}
