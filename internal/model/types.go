// Package model defines the domain entities persisted by the service.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category is a node in the product category hierarchy. A nil ParentID
// marks a root category.
type Category struct {
	ID       int64      `gorm:"primarykey" json:"id"`
	Name     string     `gorm:"size:255;not null;index;uniqueIndex:uq_category_parent_name" json:"name"`
	ParentID *int64     `gorm:"index;uniqueIndex:uq_category_parent_name" json:"parent_id,omitempty"`
	Children []Category `gorm:"foreignKey:ParentID" json:"-"`
	Products []Product  `gorm:"foreignKey:CategoryID" json:"-"`
}

// TableName returns the table name for Category.
func (Category) TableName() string { return "categories" }

// Product is a catalog entry with its quantity on hand. Quantity is only
// ever decremented by the reconciliation engine and never goes below zero.
type Product struct {
	ID         int64           `gorm:"primarykey" json:"id"`
	Name       string          `gorm:"size:255;not null;index" json:"name"`
	Quantity   int64           `gorm:"not null;default:0" json:"quantity"`
	Price      decimal.Decimal `gorm:"type:numeric(10,2);not null;index" json:"price"`
	CategoryID *int64          `gorm:"index" json:"category_id,omitempty"`
}

// TableName returns the table name for Product.
func (Product) TableName() string { return "products" }

// Client owns orders.
type Client struct {
	ID      int64   `gorm:"primarykey" json:"id"`
	Name    string  `gorm:"size:255;not null;index" json:"name"`
	Address string  `gorm:"type:text" json:"address"`
	Orders  []Order `gorm:"foreignKey:ClientID" json:"-"`
}

// TableName returns the table name for Client.
func (Client) TableName() string { return "clients" }

// Order is a customer order owning a set of line items.
type Order struct {
	ID        int64       `gorm:"primarykey" json:"id"`
	ClientID  int64       `gorm:"not null;index" json:"client_id"`
	CreatedAt time.Time   `gorm:"index" json:"created_at"`
	Items     []OrderItem `gorm:"foreignKey:OrderID" json:"items"`
}

// TableName returns the table name for Order.
func (Order) TableName() string { return "orders" }

// OrderItem is one product line within an order. Price is the unit price
// snapshot taken when the product was first added to the order; later
// product price changes do not touch it. The unique index on
// (order_id, product_id) guarantees at most one line per product and is
// what the engine's merge path serializes on.
type OrderItem struct {
	ID        int64           `gorm:"primarykey" json:"id"`
	OrderID   int64           `gorm:"not null;index;uniqueIndex:uq_order_item_order_product" json:"order_id"`
	ProductID int64           `gorm:"not null;index;uniqueIndex:uq_order_item_order_product" json:"product_id"`
	Quantity  int64           `gorm:"not null" json:"quantity"`
	Price     decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price"`
}

// TableName returns the table name for OrderItem.
func (OrderItem) TableName() string { return "order_items" }
