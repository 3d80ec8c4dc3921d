package service

import (
	"context"
	"errors"
	"time"

	"github.com/ElenaG-E/temucosoft/internal/dto"
	"github.com/ElenaG-E/temucosoft/internal/model"
	"github.com/ElenaG-E/temucosoft/internal/repository"
	"github.com/ElenaG-E/temucosoft/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func intToDecimal(n int) decimal.Decimal { return decimal.NewFromInt(int64(n)) }

// validTransitions is the whole order state machine. ENTREGADO and ANULADA
// are terminal; anything not listed here is an InvalidTransitionError.
var validTransitions = map[string][]string{
	model.OrderPending: {model.OrderShipped, model.OrderCancelled},
	model.OrderShipped: {model.OrderDelivered, model.OrderCancelled},
}

func transitionAllowed(from, to string) bool {
	for _, t := range validTransitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

type OrderService interface {
	TransitionStatus(ctx context.Context, tenant TenantContext, orderID uuid.UUID, to string) (*dto.OrderResponse, error)
	Get(ctx context.Context, tenant TenantContext, orderID uuid.UUID) (*dto.OrderResponse, error)
	List(ctx context.Context, tenant TenantContext, status string) ([]dto.OrderResponse, error)
}

type orderService struct {
	repo       repository.OrderRepository
	inventory  InventoryService
	dispatcher *worker.Dispatcher
}

func NewOrderService(repo repository.OrderRepository, inventory InventoryService, dispatcher *worker.Dispatcher) OrderService {
	return &orderService{repo: repo, inventory: inventory, dispatcher: dispatcher}
}

// TransitionStatus moves an order through its lifecycle. Cancellation
// restores every item's quantity at the order's branch in the same
// transaction that flips the status — the stock committed at creation comes
// back atomically or not at all. Delivery has no ledger effect (stock was
// already committed at creation). Every transition is recorded with the
// actor for audit.
func (s *orderService) TransitionStatus(ctx context.Context, tenant TenantContext, orderID uuid.UUID, to string) (*dto.OrderResponse, error) {
	var order *model.Order

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		var err error
		order, err = s.repo.FindByIDTx(tx, tenant.CompanyID, orderID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		from := order.Status
		if !transitionAllowed(from, to) {
			return &InvalidTransitionError{From: from, To: to}
		}

		// Guarded update first. A concurrent transition that committed after
		// our read shows up as zero rows here, so a racing cancel can never
		// restore stock a second time.
		moved, err := s.repo.UpdateStatusCASTx(tx, order.ID, from, to)
		if err != nil {
			return err
		}
		if !moved {
			return ErrConflict
		}

		if to == model.OrderCancelled {
			for _, item := range order.Items {
				if _, err := s.inventory.RestoreTx(tx, order.BranchID, item.ProductID, item.Quantity); err != nil {
					return err
				}
			}
		}
		change := &model.OrderStatusChange{
			OrderID:    order.ID,
			ActorID:    tenant.UserID,
			FromStatus: from,
			ToStatus:   to,
		}
		if err := s.repo.CreateStatusChangeTx(tx, change); err != nil {
			return err
		}
		order.Status = to
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	// Delivery confirmation email — best-effort, never blocks the transition.
	if to == model.OrderDelivered && s.dispatcher != nil {
		_ = s.dispatcher.EnqueueEmail(ctx, worker.EmailJobPayload{
			ToEmail: order.ClientEmail,
			Subject: "Your order has been delivered",
			Body:    "Order " + order.ID.String() + " was marked as delivered.",
		})
	}

	return orderToResponse(order), nil
}

func (s *orderService) Get(ctx context.Context, tenant TenantContext, orderID uuid.UUID) (*dto.OrderResponse, error) {
	order, err := s.repo.FindByID(ctx, tenant.CompanyID, orderID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return orderToResponse(order), nil
}

func (s *orderService) List(ctx context.Context, tenant TenantContext, status string) ([]dto.OrderResponse, error) {
	orders, err := s.repo.ListByCompany(ctx, tenant.CompanyID, status)
	if err != nil {
		return nil, err
	}
	out := make([]dto.OrderResponse, 0, len(orders))
	for i := range orders {
		out = append(out, *orderToResponse(&orders[i]))
	}
	return out, nil
}

func orderToResponse(o *model.Order) *dto.OrderResponse {
	items := make([]dto.DocumentItemResponse, 0, len(o.Items))
	for _, item := range o.Items {
		name := ""
		if item.Product != nil {
			name = item.Product.Name
		}
		items = append(items, dto.DocumentItemResponse{
			ProductID: item.ProductID.String(),
			Product:   name,
			Quantity:  item.Quantity,
			UnitValue: item.PriceAtOrder,
			Subtotal:  item.PriceAtOrder.Mul(intToDecimal(item.Quantity)),
		})
	}
	return &dto.OrderResponse{
		ID:          o.ID.String(),
		BranchID:    o.BranchID.String(),
		ClientName:  o.ClientName,
		ClientEmail: o.ClientEmail,
		Status:      o.Status,
		Total:       o.Total,
		Items:       items,
		CreatedAt:   o.CreatedAt.Format(time.RFC3339),
	}
}
