// Package engine implements order line-item reconciliation: the atomic
// check-merge-decrement that keeps order contents and stock counts
// consistent, plus the read-side order projection.
package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/example/order-inventory-service/internal/model"
	"github.com/example/order-inventory-service/internal/store"
)

// Engine runs reconciliation transactions against the database. It holds no
// state between invocations; every call opens its own transaction.
type Engine struct {
	db *gorm.DB
}

// New returns an engine bound to the given database handle.
func New(db *gorm.DB) *Engine {
	return &Engine{db: db}
}

// AddItemToOrder attaches quantity units of a product to an order as one
// transaction: verify the order and product exist, reserve the stock, then
// merge into an existing line item or create a new one with the product's
// current price as the immutable unit-price snapshot.
//
// Stock is reserved with a conditional decrement (quantity >= requested in
// the WHERE clause), so two concurrent calls can never both pass a stale
// sufficiency check and oversell. The merge path relies on the unique
// (order_id, product_id) index: an insert that loses the creation race
// falls back to an increment of the row that beat it.
//
// Any error rolls back the whole transaction; no partial writes survive.
func (e *Engine) AddItemToOrder(ctx context.Context, orderID, productID, quantity int64) (*model.OrderItem, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	var result model.OrderItem
	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := store.OrderByID(tx, orderID); err != nil {
			return err
		}
		product, err := store.ProductByID(tx, productID)
		if err != nil {
			return err
		}

		res := tx.Model(&model.Product{}).
			Where("id = ? AND quantity >= ?", productID, quantity).
			UpdateColumn("quantity", gorm.Expr("quantity - ?", quantity))
		if res.Error != nil {
			return fmt.Errorf("decrement stock of product %d: %w", productID, res.Error)
		}
		if res.RowsAffected == 0 {
			// Re-read inside the transaction: the count seen by the first
			// load may already be stale.
			current, err := store.ProductByID(tx, productID)
			if err != nil {
				return err
			}
			return &InsufficientStockError{
				ProductID: productID,
				Requested: quantity,
				Available: current.Quantity,
			}
		}

		if err := mergeItem(tx, orderID, productID, quantity, product.Price); err != nil {
			return err
		}

		item, found, err := store.OrderItemByOrderAndProduct(tx, orderID, productID)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("order item (%d,%d) vanished after merge", orderID, productID)
		}
		result = *item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// mergeItem increments the existing line item or creates it with the given
// price snapshot. Update-first keeps the common path a single statement;
// the insert catches a duplicate-key conflict and retries as an update.
func mergeItem(tx *gorm.DB, orderID, productID, quantity int64, price decimal.Decimal) error {
	res := tx.Model(&model.OrderItem{}).
		Where("order_id = ? AND product_id = ?", orderID, productID).
		UpdateColumn("quantity", gorm.Expr("quantity + ?", quantity))
	if res.Error != nil {
		return fmt.Errorf("increment order item (%d,%d): %w", orderID, productID, res.Error)
	}
	if res.RowsAffected > 0 {
		return nil
	}

	item := model.OrderItem{
		OrderID:   orderID,
		ProductID: productID,
		Quantity:  quantity,
		Price:     price,
	}
	err := tx.Create(&item).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("create order item (%d,%d): %w", orderID, productID, err)
	}

	// Lost the creation race: the row exists now, fold into it. Its price
	// stays whatever the winning insert recorded.
	res = tx.Model(&model.OrderItem{}).
		Where("order_id = ? AND product_id = ?", orderID, productID).
		UpdateColumn("quantity", gorm.Expr("quantity + ?", quantity))
	if res.Error != nil {
		return fmt.Errorf("increment order item (%d,%d) after conflict: %w", orderID, productID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("order item (%d,%d) missing after duplicate-key conflict", orderID, productID)
	}
	return nil
}

// GetOrder loads an order with its line items in insertion order. It is a
// plain consistent read; nothing is mutated.
func (e *Engine) GetOrder(ctx context.Context, orderID int64) (*model.Order, error) {
	return store.OrderWithItems(e.db.WithContext(ctx), orderID)
}
