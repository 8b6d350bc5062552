package engine

import (
	"errors"
	"fmt"

	"github.com/example/order-inventory-service/internal/store"
)

// ErrOrderNotFound is returned when the order id does not resolve.
var ErrOrderNotFound = store.ErrOrderNotFound

// ErrProductNotFound is returned when the product id does not resolve.
var ErrProductNotFound = store.ErrProductNotFound

// ErrInvalidQuantity is returned for a zero or negative quantity. The HTTP
// layer rejects these before the engine, so hitting it means a caller bug.
var ErrInvalidQuantity = errors.New("quantity must be positive")

// InsufficientStockError reports a stock-sufficiency rejection along with
// the amounts needed to act on it.
type InsufficientStockError struct {
	ProductID int64
	Requested int64
	Available int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d: requested %d, available %d",
		e.ProductID, e.Requested, e.Available)
}
