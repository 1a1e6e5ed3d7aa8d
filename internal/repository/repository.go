package repository

import (
	"context"

	"gorm.io/gorm"
)

type Repository struct {
	DB        *gorm.DB
	Customers CustomerRepo
	Products  ProductRepo
	Orders    OrderRepo
}

func buildRepository(db *gorm.DB) *Repository {
	return &Repository{
		DB:        db,
		Customers: NewCustomerRepo(db),
		Products:  NewProductRepo(db),
		Orders:    NewOrderRepo(db),
	}
}

func New(db *gorm.DB) *Repository { return buildRepository(db) }

// WithTx runs fn against a repository set bound to a single transaction.
// Nested calls become savepoints, so an inner failure can be contained
// without poisoning the enclosing transaction. A repository assembled
// without a live handle runs fn as-is.
func (r *Repository) WithTx(ctx context.Context, fn func(tx *Repository) error) error {
	if r.DB == nil {
		return fn(r)
	}
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(buildRepository(tx))
	})
}
