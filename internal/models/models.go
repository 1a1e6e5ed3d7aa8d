package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Customer struct {
	ID   uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name string    `gorm:"type:text;not null" json:"name"`
	// uniqueness lives in the ux_customers_email index on lower(email),
	// created by migrate
	Email string  `gorm:"type:text;not null" json:"email"`
	Phone *string `gorm:"type:varchar(17)" json:"phone,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now();index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`

	// Deleting a customer takes their orders with them.
	Orders []Order `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Customer) TableName() string { return "customers" }

type Product struct {
	ID    uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name  string          `gorm:"type:text;not null" json:"name"`
	SKU   string          `gorm:"type:text;not null;uniqueIndex:ux_products_sku" json:"sku"`
	Price decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price"`
	Stock int32           `gorm:"not null;default:0" json:"stock"`

	CreatedAt time.Time `gorm:"not null;default:now();index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Product) TableName() string { return "products" }

type Order struct {
	ID          uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CustomerID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"customer_id"`
	Customer    *Customer       `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Products    []Product       `gorm:"many2many:order_products" json:"products,omitempty"`
	TotalAmount decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0" json:"total_amount"`
	OrderDate   time.Time       `gorm:"not null;default:now();index" json:"order_date"`

	CreatedAt time.Time `gorm:"not null;default:now();index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Order) TableName() string { return "orders" }
