package service

import (
	"context"
	"errors"

	"github.com/ElenaG-E/temucosoft/internal/dto"
	"github.com/ElenaG-E/temucosoft/internal/model"
	"github.com/ElenaG-E/temucosoft/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CartOwner identifies whose cart an operation touches: an authenticated
// user or an anonymous session. Exactly one of the two is set.
type CartOwner struct {
	UserID     *uuid.UUID
	SessionKey *string
}

func UserCart(userID uuid.UUID) CartOwner    { return CartOwner{UserID: &userID} }
func SessionCart(sessionKey string) CartOwner { return CartOwner{SessionKey: &sessionKey} }

type CartService interface {
	AddItem(ctx context.Context, tenant TenantContext, owner CartOwner, productID uuid.UUID, quantity int) (*dto.CartResponse, error)
	RemoveItem(ctx context.Context, owner CartOwner, productID uuid.UUID) error
	Get(ctx context.Context, owner CartOwner) (*dto.CartResponse, error)
	// MergeOnLogin folds the anonymous session cart into the user's cart in
	// one transaction: quantities sum where the product already exists,
	// remaining items are re-keyed, and no item with the session key
	// survives. Called by the auth service at login time.
	MergeOnLogin(ctx context.Context, sessionKey string, userID uuid.UUID) (*dto.CartResponse, error)
	// Checkout turns the user's cart into an order and empties the cart,
	// both atomic with the order's stock commitment.
	Checkout(ctx context.Context, tenant TenantContext, userID uuid.UUID, req dto.CheckoutRequest) (*dto.OrderResponse, error)
}

type cartService struct {
	repo        repository.CartRepository
	productRepo repository.ProductRepository
	documents   DocumentService
}

func NewCartService(repo repository.CartRepository, productRepo repository.ProductRepository, documents DocumentService) CartService {
	return &cartService{repo: repo, productRepo: productRepo, documents: documents}
}

func (s *cartService) AddItem(ctx context.Context, tenant TenantContext, owner CartOwner, productID uuid.UUID, quantity int) (*dto.CartResponse, error) {
	if quantity < 1 {
		return nil, errors.New("quantity must be at least 1")
	}
	product, err := s.productRepo.FindByID(ctx, productID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	// Anonymous storefront sessions carry no company; for them ownership is
	// enforced at checkout, when the order binds to a tenant.
	if tenant.CompanyID != uuid.Nil && !tenant.Owns(product.CompanyID) {
		return nil, ErrTenantMismatch
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		existing, err := s.findOwnerItem(tx, owner, productID)
		if err == nil {
			return s.repo.UpdateQuantityTx(tx, existing.ID, existing.Quantity+quantity)
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		item := &model.CartItem{
			UserID:     owner.UserID,
			SessionKey: owner.SessionKey,
			ProductID:  productID,
			Quantity:   quantity,
		}
		return s.repo.CreateTx(tx, item)
	})
	if txErr != nil {
		return nil, txErr
	}
	return s.Get(ctx, owner)
}

func (s *cartService) findOwnerItem(tx *gorm.DB, owner CartOwner, productID uuid.UUID) (*model.CartItem, error) {
	if owner.UserID != nil {
		return s.repo.FindUserItemTx(tx, *owner.UserID, productID)
	}
	items, err := s.repo.FindBySessionTx(tx, *owner.SessionKey)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].ProductID == productID {
			return &items[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *cartService) RemoveItem(ctx context.Context, owner CartOwner, productID uuid.UUID) error {
	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		item, err := s.findOwnerItem(tx, owner, productID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		return s.repo.DeleteTx(tx, item.ID)
	})
}

func (s *cartService) Get(ctx context.Context, owner CartOwner) (*dto.CartResponse, error) {
	var (
		items []model.CartItem
		err   error
	)
	if owner.UserID != nil {
		items, err = s.repo.FindByUser(ctx, *owner.UserID)
	} else {
		items, err = s.repo.FindBySession(ctx, *owner.SessionKey)
	}
	if err != nil {
		return nil, err
	}
	return cartToResponse(items), nil
}

func (s *cartService) MergeOnLogin(ctx context.Context, sessionKey string, userID uuid.UUID) (*dto.CartResponse, error) {
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		sessionItems, err := s.repo.FindBySessionTx(tx, sessionKey)
		if err != nil {
			return err
		}
		// Empty session cart: nothing to do.
		for _, si := range sessionItems {
			existing, err := s.repo.FindUserItemTx(tx, userID, si.ProductID)
			switch {
			case err == nil:
				// Product already in the user cart — sum quantities into the
				// user item and drop the session item.
				if err := s.repo.UpdateQuantityTx(tx, existing.ID, existing.Quantity+si.Quantity); err != nil {
					return err
				}
				if err := s.repo.DeleteTx(tx, si.ID); err != nil {
					return err
				}
			case errors.Is(err, gorm.ErrRecordNotFound):
				if err := s.repo.ReassignToUserTx(tx, si.ID, userID); err != nil {
					return err
				}
			default:
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return s.Get(ctx, CartOwner{UserID: &userID})
}

func (s *cartService) Checkout(ctx context.Context, tenant TenantContext, userID uuid.UUID, req dto.CheckoutRequest) (*dto.OrderResponse, error) {
	items, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrEmptyDocument
	}

	orderReq := dto.CreateOrderRequest{
		BranchID:    req.BranchID,
		ClientName:  req.ClientName,
		ClientEmail: req.ClientEmail,
	}
	for _, item := range items {
		orderReq.Items = append(orderReq.Items, dto.DocumentItemRequest{
			ProductID: item.ProductID.String(),
			Quantity:  item.Quantity,
		})
	}

	// The cart is cleared inside the order's own transaction: a failure on
	// either side rolls back both, so a retry can never double-order.
	order, err := s.documents.CreateOrder(ctx, tenant, orderReq, func(tx *gorm.DB) error {
		return s.repo.DeleteByUserTx(tx, userID)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func cartToResponse(items []model.CartItem) *dto.CartResponse {
	resp := &dto.CartResponse{Items: make([]dto.CartItemResponse, 0, len(items))}
	resp.Total = decimal.Zero
	for _, item := range items {
		name := ""
		price := decimal.Zero
		if item.Product != nil {
			name = item.Product.Name
			price = item.Product.Price
		}
		resp.Items = append(resp.Items, dto.CartItemResponse{
			ID:           item.ID.String(),
			ProductID:    item.ProductID.String(),
			Product:      name,
			Quantity:     item.Quantity,
			CurrentPrice: price,
		})
		resp.Total = resp.Total.Add(price.Mul(intToDecimal(item.Quantity)))
	}
	return resp
}
