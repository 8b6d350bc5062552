package store

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/example/order-inventory-service/internal/model"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := Open(":memory:")
	require.NoError(t, err)
	return db
}

func TestOpenMigratesSchema(t *testing.T) {
	db := setupTestDB(t)
	for _, table := range []string{"categories", "products", "clients", "orders", "order_items"} {
		require.True(t, db.Migrator().HasTable(table), "missing table %s", table)
	}
}

func TestSeedDemoIdempotent(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, SeedDemo(db))
	require.NoError(t, SeedDemo(db))

	var products int64
	require.NoError(t, db.Model(&model.Product{}).Count(&products).Error)
	require.EqualValues(t, 2, products)

	p, err := ProductByID(db, 1)
	require.NoError(t, err)
	require.EqualValues(t, 10, p.Quantity)
	require.Equal(t, "1000.00", p.Price.StringFixed(2))
}

func TestOrderItemUniquePerOrderAndProduct(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, SeedDemo(db))

	price := decimal.RequireFromString("1000.00")
	require.NoError(t, db.Create(&model.OrderItem{OrderID: 1, ProductID: 1, Quantity: 1, Price: price}).Error)
	err := db.Create(&model.OrderItem{OrderID: 1, ProductID: 1, Quantity: 2, Price: price}).Error
	require.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestOrderItemByOrderAndProduct(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, SeedDemo(db))

	_, found, err := OrderItemByOrderAndProduct(db, 1, 1)
	require.NoError(t, err)
	require.False(t, found)

	price := decimal.RequireFromString("1000.00")
	require.NoError(t, db.Create(&model.OrderItem{OrderID: 1, ProductID: 1, Quantity: 3, Price: price}).Error)

	item, found, err := OrderItemByOrderAndProduct(db, 1, 1)
	require.NoError(t, err)
	require.True(t, found)
	require.EqualValues(t, 3, item.Quantity)
}

func TestDeleteOrderRemovesItems(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, SeedDemo(db))
	price := decimal.RequireFromString("1000.00")
	require.NoError(t, db.Create(&model.OrderItem{OrderID: 1, ProductID: 1, Quantity: 2, Price: price}).Error)

	require.NoError(t, DeleteOrder(db, 1))

	var items int64
	require.NoError(t, db.Model(&model.OrderItem{}).Where("order_id = ?", 1).Count(&items).Error)
	require.Zero(t, items)
	_, err := OrderByID(db, 1)
	require.ErrorIs(t, err, ErrOrderNotFound)

	// stock is untouched by order deletion
	p, err := ProductByID(db, 1)
	require.NoError(t, err)
	require.EqualValues(t, 10, p.Quantity)
}

func TestDeleteOrderNotFound(t *testing.T) {
	db := setupTestDB(t)
	require.ErrorIs(t, DeleteOrder(db, 999), ErrOrderNotFound)
}

func TestDeleteClientRemovesOrdersAndItems(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, SeedDemo(db))
	price := decimal.RequireFromString("1000.00")
	require.NoError(t, db.Create(&model.OrderItem{OrderID: 1, ProductID: 1, Quantity: 2, Price: price}).Error)

	require.NoError(t, DeleteClient(db, 1))

	var orders, items int64
	require.NoError(t, db.Model(&model.Order{}).Count(&orders).Error)
	require.NoError(t, db.Model(&model.OrderItem{}).Count(&items).Error)
	require.Zero(t, orders)
	require.Zero(t, items)

	require.ErrorIs(t, DeleteClient(db, 1), ErrClientNotFound)
}

func TestDeleteCategoryDetachesProducts(t *testing.T) {
	db := setupTestDB(t)
	root := model.Category{Name: "Root"}
	require.NoError(t, db.Create(&root).Error)
	child := model.Category{Name: "Child", ParentID: &root.ID}
	require.NoError(t, db.Create(&child).Error)
	product := model.Product{Name: "Loose", Quantity: 1, Price: decimal.RequireFromString("9.99"), CategoryID: &child.ID}
	require.NoError(t, db.Create(&product).Error)

	require.NoError(t, DeleteCategory(db, root.ID))

	var categories int64
	require.NoError(t, db.Model(&model.Category{}).Count(&categories).Error)
	require.Zero(t, categories)

	var got model.Product
	require.NoError(t, db.First(&got, product.ID).Error)
	require.Nil(t, got.CategoryID)

	require.True(t, errors.Is(DeleteCategory(db, root.ID), ErrCategoryNotFound))
}
