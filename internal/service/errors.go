package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Sentinel errors shared across the transactional core. Handlers map these to
// HTTP codes with errors.Is / errors.As; nothing here is HTTP-aware.
var (
	// ErrNotFound: the referenced entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrTenantMismatch: an entity from another company was referenced.
	ErrTenantMismatch = errors.New("entity belongs to another company")

	// ErrEmptyDocument: a purchase/sale/order was submitted with no items.
	ErrEmptyDocument = errors.New("document has no items")

	// ErrFutureTimestamp: the document date is later than now.
	ErrFutureTimestamp = errors.New("document date cannot be in the future")

	// ErrConflict: a concurrent writer won the stock record; the operation
	// was retried and still lost. Callers may retry the whole request.
	ErrConflict = errors.New("concurrent stock update conflict, retry")

	// ErrProductReferenced: hard delete refused because historical documents
	// reference the product. Deactivation is the supported path.
	ErrProductReferenced = errors.New("product is referenced by historical documents; deactivate it instead")
)

// InsufficientStockError reports a decrement that would drive stock below
// zero. Shortfall = Requested - Available, always > 0.
type InsufficientStockError struct {
	ProductID uuid.UUID
	BranchID  uuid.UUID
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s: requested %d, available %d (short %d)",
		e.ProductID, e.Requested, e.Available, e.Shortfall())
}

func (e *InsufficientStockError) Shortfall() int { return e.Requested - e.Available }

// InvalidTransitionError reports a forbidden order status move.
type InvalidTransitionError struct {
	From string
	To   string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid order transition %s → %s", e.From, e.To)
}
