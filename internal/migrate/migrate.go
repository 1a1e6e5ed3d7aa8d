package migrate

import (
	"context"

	"github.com/D3konR3kon/alx-backend-graphql-crm/internal/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type MigrateOptions struct {
	CreateExtensions       bool // pgcrypto for gen_random_uuid()
	CreateChecks           bool // CHECK constraints on price/stock/total
	CreateIndexes          bool // unique lower(email) and friends
	CreateFKsViaSQL        bool // FKs with ON DELETE CASCADE on top of GORM constraints
	CreateUpdatedAtTrigger bool
}

func DefaultMigrateOptions() MigrateOptions {
	return MigrateOptions{
		CreateExtensions:       true,
		CreateChecks:           true,
		CreateIndexes:          true,
		CreateFKsViaSQL:        true,
		CreateUpdatedAtTrigger: true,
	}
}

func MigrateCRMDB(ctx context.Context, db *gorm.DB, log *zap.Logger, opt MigrateOptions) error {
	log.Info("starting CRM database migration")

	if opt.CreateExtensions {
		if err := db.WithContext(ctx).Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto`).Error; err != nil {
			log.Error("failed to enable pgcrypto extension", zap.Error(err))
			return err
		}
	}

	log.Info("creating customers, products, orders and order_products tables")
	if err := db.WithContext(ctx).AutoMigrate(&models.Customer{}, &models.Product{}, &models.Order{}); err != nil {
		log.Error("failed to migrate tables", zap.Error(err))
		return err
	}

	if opt.CreateUpdatedAtTrigger {
		if err := db.WithContext(ctx).Exec(`
CREATE OR REPLACE FUNCTION set_updated_at() RETURNS trigger AS $$
BEGIN NEW.updated_at = now(); RETURN NEW; END; $$ LANGUAGE plpgsql;

DROP TRIGGER IF EXISTS trg_customers_updated ON customers;
CREATE TRIGGER trg_customers_updated
BEFORE UPDATE ON customers
FOR EACH ROW EXECUTE FUNCTION set_updated_at();

DROP TRIGGER IF EXISTS trg_products_updated ON products;
CREATE TRIGGER trg_products_updated
BEFORE UPDATE ON products
FOR EACH ROW EXECUTE FUNCTION set_updated_at();

DROP TRIGGER IF EXISTS trg_orders_updated ON orders;
CREATE TRIGGER trg_orders_updated
BEFORE UPDATE ON orders
FOR EACH ROW EXECUTE FUNCTION set_updated_at();
`).Error; err != nil {
			log.Error("failed to create updated_at triggers", zap.Error(err))
			return err
		}
	}

	if opt.CreateChecks {
		if err := db.WithContext(ctx).Exec(`
ALTER TABLE products
  DROP CONSTRAINT IF EXISTS chk_products_price_positive;
ALTER TABLE products
  ADD CONSTRAINT chk_products_price_positive
  CHECK (price > 0);
`).Error; err != nil {
			log.Error("failed to create CHECK for products.price", zap.Error(err))
			return err
		}

		if err := db.WithContext(ctx).Exec(`
ALTER TABLE products
  DROP CONSTRAINT IF EXISTS chk_products_stock_non_negative;
ALTER TABLE products
  ADD CONSTRAINT chk_products_stock_non_negative
  CHECK (stock >= 0);
`).Error; err != nil {
			log.Error("failed to create CHECK for products.stock", zap.Error(err))
			return err
		}

		if err := db.WithContext(ctx).Exec(`
ALTER TABLE orders
  DROP CONSTRAINT IF EXISTS chk_orders_total_amount_non_negative;
ALTER TABLE orders
  ADD CONSTRAINT chk_orders_total_amount_non_negative
  CHECK (total_amount >= 0);
`).Error; err != nil {
			log.Error("failed to create CHECK for orders.total_amount", zap.Error(err))
			return err
		}
	}

	if opt.CreateIndexes {
		// The store-level uniqueness guard for customer emails. The
		// pre-insert existence check in the mutation workflow is only
		// advisory; this index is the authoritative one.
		if err := db.WithContext(ctx).Exec(`
CREATE UNIQUE INDEX IF NOT EXISTS ux_customers_email
ON customers (lower(email));
`).Error; err != nil {
			log.Error("failed to create unique index on customers.email", zap.Error(err))
			return err
		}

		if err := db.WithContext(ctx).Exec(`
CREATE INDEX IF NOT EXISTS ix_orders_customer_order_date
ON orders (customer_id, order_date DESC);
`).Error; err != nil {
			log.Error("failed to create index ix_orders_customer_order_date", zap.Error(err))
			return err
		}

		if err := db.WithContext(ctx).Exec(`
CREATE INDEX IF NOT EXISTS ix_products_stock
ON products (stock);
`).Error; err != nil {
			log.Error("failed to create index ix_products_stock", zap.Error(err))
			return err
		}
	}

	if opt.CreateFKsViaSQL {
		// orders.customer_id -> customers.id (CASCADE)
		if err := db.WithContext(ctx).Exec(`
ALTER TABLE orders
  DROP CONSTRAINT IF EXISTS fk_orders_customer,
  ADD CONSTRAINT fk_orders_customer
    FOREIGN KEY (customer_id) REFERENCES customers(id) ON DELETE CASCADE;
`).Error; err != nil {
			log.Error("failed to create FK orders.customer_id -> customers.id", zap.Error(err))
			return err
		}

		// order_products join rows follow their order and product
		if err := db.WithContext(ctx).Exec(`
ALTER TABLE order_products
  DROP CONSTRAINT IF EXISTS fk_order_products_order,
  ADD CONSTRAINT fk_order_products_order
    FOREIGN KEY (order_id) REFERENCES orders(id) ON DELETE CASCADE;
ALTER TABLE order_products
  DROP CONSTRAINT IF EXISTS fk_order_products_product,
  ADD CONSTRAINT fk_order_products_product
    FOREIGN KEY (product_id) REFERENCES products(id) ON DELETE CASCADE;
`).Error; err != nil {
			log.Error("failed to create FKs for order_products", zap.Error(err))
			return err
		}
	}

	log.Info("CRM database migration completed")
	return nil
}
