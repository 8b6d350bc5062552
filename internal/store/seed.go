package store

import (
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/example/order-inventory-service/internal/model"
)

// SeedDemo inserts a small demo dataset: one category, a product in stock,
// a product out of stock, a client and an open order. Rows are written with
// fixed ids and existing rows are left untouched, so seeding is idempotent.
func SeedDemo(db *gorm.DB) error {
	categoryID := int64(1)
	rows := []any{
		&model.Category{ID: categoryID, Name: "Electronics"},
		&model.Product{ID: 1, Name: "Widget A", Quantity: 10, Price: decimal.RequireFromString("1000.00"), CategoryID: &categoryID},
		&model.Product{ID: 2, Name: "Widget B", Quantity: 0, Price: decimal.RequireFromString("2000.00"), CategoryID: &categoryID},
		&model.Client{ID: 1, Name: "Demo Client", Address: "1 Demo Street"},
		&model.Order{ID: 1, ClientID: 1},
	}
	return db.Transaction(func(tx *gorm.DB) error {
		for _, row := range rows {
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(row).Error; err != nil {
				return fmt.Errorf("seed %T: %w", row, err)
			}
		}
		return nil
	})
}
