// Package store owns database access: opening the connection, schema
// migration, seed data and multi-step delete operations.
package store

import (
	"errors"
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/example/order-inventory-service/internal/model"
)

// ErrOrderNotFound is returned when an order id does not resolve.
var ErrOrderNotFound = errors.New("order not found")

// ErrProductNotFound is returned when a product id does not resolve.
var ErrProductNotFound = errors.New("product not found")

// ErrClientNotFound is returned when a client id does not resolve.
var ErrClientNotFound = errors.New("client not found")

// ErrCategoryNotFound is returned when a category id does not resolve.
var ErrCategoryNotFound = errors.New("category not found")

// Open connects to the database, enforces foreign keys and migrates the
// schema. The connection pool is capped at a single connection so that
// concurrent transactions serialize instead of tripping over sqlite's
// writer lock.
func Open(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("access connection pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates or updates the schema for all entities.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&model.Category{},
		&model.Product{},
		&model.Client{},
		&model.Order{},
		&model.OrderItem{},
	)
	if err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	return nil
}

// OrderByID loads a bare order row. It runs against whatever session it is
// given, so callers inside a transaction observe the transaction snapshot.
func OrderByID(db *gorm.DB, id int64) (*model.Order, error) {
	var order model.Order
	if err := db.First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("load order %d: %w", id, err)
	}
	return &order, nil
}

// OrderWithItems loads an order together with its line items ordered by
// insertion.
func OrderWithItems(db *gorm.DB, id int64) (*model.Order, error) {
	var order model.Order
	err := db.
		Preload("Items", func(tx *gorm.DB) *gorm.DB { return tx.Order("order_items.id ASC") }).
		First(&order, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("load order %d: %w", id, err)
	}
	return &order, nil
}

// ProductByID loads a product row.
func ProductByID(db *gorm.DB, id int64) (*model.Product, error) {
	var product model.Product
	if err := db.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("load product %d: %w", id, err)
	}
	return &product, nil
}

// OrderItemByOrderAndProduct loads the line item for one product within one
// order, if present.
func OrderItemByOrderAndProduct(db *gorm.DB, orderID, productID int64) (*model.OrderItem, bool, error) {
	var item model.OrderItem
	err := db.Where("order_id = ? AND product_id = ?", orderID, productID).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load order item (%d,%d): %w", orderID, productID, err)
	}
	return &item, true, nil
}

// DeleteOrder removes an order and its line items as one transaction. The
// cascade is explicit: items first, then the order row.
func DeleteOrder(db *gorm.DB, id int64) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if _, err := OrderByID(tx, id); err != nil {
			return err
		}
		if err := tx.Where("order_id = ?", id).Delete(&model.OrderItem{}).Error; err != nil {
			return fmt.Errorf("delete items of order %d: %w", id, err)
		}
		if err := tx.Delete(&model.Order{}, id).Error; err != nil {
			return fmt.Errorf("delete order %d: %w", id, err)
		}
		return nil
	})
}

// DeleteClient removes a client and, order by order, everything the client
// owns.
func DeleteClient(db *gorm.DB, id int64) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var client model.Client
		if err := tx.First(&client, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrClientNotFound
			}
			return fmt.Errorf("load client %d: %w", id, err)
		}
		var orderIDs []int64
		if err := tx.Model(&model.Order{}).Where("client_id = ?", id).Pluck("id", &orderIDs).Error; err != nil {
			return fmt.Errorf("list orders of client %d: %w", id, err)
		}
		for _, orderID := range orderIDs {
			if err := tx.Where("order_id = ?", orderID).Delete(&model.OrderItem{}).Error; err != nil {
				return fmt.Errorf("delete items of order %d: %w", orderID, err)
			}
		}
		if err := tx.Where("client_id = ?", id).Delete(&model.Order{}).Error; err != nil {
			return fmt.Errorf("delete orders of client %d: %w", id, err)
		}
		if err := tx.Delete(&model.Client{}, id).Error; err != nil {
			return fmt.Errorf("delete client %d: %w", id, err)
		}
		return nil
	})
}

// DeleteCategory removes a category subtree depth-first and detaches any
// products referencing the removed nodes.
func DeleteCategory(db *gorm.DB, id int64) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var category model.Category
		if err := tx.First(&category, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCategoryNotFound
			}
			return fmt.Errorf("load category %d: %w", id, err)
		}
		return deleteCategoryTree(tx, id)
	})
}

func deleteCategoryTree(tx *gorm.DB, id int64) error {
	var childIDs []int64
	if err := tx.Model(&model.Category{}).Where("parent_id = ?", id).Pluck("id", &childIDs).Error; err != nil {
		return fmt.Errorf("list children of category %d: %w", id, err)
	}
	for _, childID := range childIDs {
		if err := deleteCategoryTree(tx, childID); err != nil {
			return err
		}
	}
	if err := tx.Model(&model.Product{}).Where("category_id = ?", id).Update("category_id", nil).Error; err != nil {
		return fmt.Errorf("detach products of category %d: %w", id, err)
	}
	if err := tx.Delete(&model.Category{}, id).Error; err != nil {
		return fmt.Errorf("delete category %d: %w", id, err)
	}
	return nil
}
