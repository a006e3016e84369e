package checkout

import (
	"errors"
	"fmt"
)

var (
	ErrValidation      = errors.New("validation")
	ErrProductNotFound = errors.New("a product in your cart no longer exists")

	// ErrConflict means the stock of a product in the cart changed between the
	// transaction's read and its commit. PlaceOrder retries these internally
	// and only surfaces ErrConflict once the attempts are exhausted.
	ErrConflict = errors.New("conflict")
)

type InsufficientStockError struct {
	Product string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("not enough stock for %q", e.Product)
}
