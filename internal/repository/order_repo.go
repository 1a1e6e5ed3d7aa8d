package repository

import (
	"context"
	"errors"
	"time"

	"github.com/D3konR3kon/alx-backend-graphql-crm/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrderListFilter struct {
	CustomerID *uuid.UUID
	Since      *time.Time // order_date lower bound
	Limit      int
	Offset     int
}

type OrderRepo interface {
	// Create persists the order row together with its product links;
	// GORM writes the many2many rows in the same statement batch.
	Create(ctx context.Context, o *models.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	List(ctx context.Context, f OrderListFilter) ([]models.Order, int64, error)
}

type orderRepo struct{ db *gorm.DB }

func NewOrderRepo(db *gorm.DB) OrderRepo { return &orderRepo{db: db} }

func (r *orderRepo) Create(ctx context.Context, o *models.Order) error {
	// Omit(...Customer) keeps association autosave away from the customer
	// row; the products association only writes join rows for the already
	// persisted products.
	return r.db.WithContext(ctx).Omit("Customer", "Products.*").Create(o).Error
}

func (r *orderRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var ord models.Order
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Products").
		First(&ord, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &ord, err
}

func (r *orderRepo) List(ctx context.Context, f OrderListFilter) ([]models.Order, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Order{})

	if f.CustomerID != nil {
		q = q.Where("customer_id = ?", *f.CustomerID)
	}
	if f.Since != nil {
		q = q.Where("order_date >= ?", *f.Since)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if f.Limit <= 0 {
		f.Limit = 20
	}

	if f.Offset < 0 {
		f.Offset = 0
	}

	var list []models.Order
	err := q.Order("order_date DESC").Limit(f.Limit).Offset(f.Offset).
		Preload("Customer").
		Preload("Products").
		Find(&list).Error
	return list, total, err
}
