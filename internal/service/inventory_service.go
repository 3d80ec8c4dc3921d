package service

import (
	"context"
	"errors"

	"github.com/ElenaG-E/temucosoft/internal/dto"
	"github.com/ElenaG-E/temucosoft/internal/model"
	"github.com/ElenaG-E/temucosoft/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// maxStockRetries bounds the optimistic-locking retry loop. A writer that
// loses the version race this many times gives up with ErrConflict instead
// of spinning.
const maxStockRetries = 3

// StockLevel is the post-mutation state of one inventory row, so callers can
// react (low-stock alerts) without re-querying.
type StockLevel struct {
	BranchID     uuid.UUID
	ProductID    uuid.UUID
	Stock        int
	ReorderPoint int
}

// AtReorderPoint reports whether the row needs replenishment.
func (s StockLevel) AtReorderPoint() bool { return s.Stock <= s.ReorderPoint }

// InventoryService is the stock ledger: every mutation of the per-(branch,
// product) counter goes through here. The *Tx methods participate in a
// caller-owned transaction (document creation, order cancellation); Adjust is
// the standalone manual correction operation.
type InventoryService interface {
	// IncrementTx adds qty, creating the row with stock=qty on first receipt.
	IncrementTx(tx *gorm.DB, branchID, productID uuid.UUID, qty int) (*StockLevel, error)
	// ReserveAndDecrementTx subtracts qty, failing with
	// *InsufficientStockError (and no effect) when stock < qty.
	ReserveAndDecrementTx(tx *gorm.DB, branchID, productID uuid.UUID, qty int) (*StockLevel, error)
	// RestoreTx returns previously committed stock (order cancellation).
	RestoreTx(tx *gorm.DB, branchID, productID uuid.UUID, qty int) (*StockLevel, error)

	Adjust(ctx context.Context, tenant TenantContext, req dto.AdjustInventoryRequest) (*dto.InventoryResponse, error)
	List(ctx context.Context, tenant TenantContext) ([]dto.InventoryResponse, error)
}

type inventoryService struct {
	repo        repository.InventoryRepository
	branchRepo  repository.BranchRepository
	productRepo repository.ProductRepository
}

func NewInventoryService(
	repo repository.InventoryRepository,
	branchRepo repository.BranchRepository,
	productRepo repository.ProductRepository,
) InventoryService {
	return &inventoryService{repo: repo, branchRepo: branchRepo, productRepo: productRepo}
}

func (s *inventoryService) IncrementTx(tx *gorm.DB, branchID, productID uuid.UUID, qty int) (*StockLevel, error) {
	return s.mutate(tx, branchID, productID, qty, true)
}

func (s *inventoryService) ReserveAndDecrementTx(tx *gorm.DB, branchID, productID uuid.UUID, qty int) (*StockLevel, error) {
	return s.mutate(tx, branchID, productID, -qty, false)
}

func (s *inventoryService) RestoreTx(tx *gorm.DB, branchID, productID uuid.UUID, qty int) (*StockLevel, error) {
	return s.mutate(tx, branchID, productID, qty, false)
}

// mutate applies delta with compare-and-swap semantics: read the row, compute
// the new stock from the version we read, and commit only if no concurrent
// writer advanced the version meanwhile. Losing the race re-reads and
// retries; the invariant check always runs against the freshest read, so
// stock can never be driven negative no matter how the race interleaves.
func (s *inventoryService) mutate(tx *gorm.DB, branchID, productID uuid.UUID, delta int, createIfAbsent bool) (*StockLevel, error) {
	for attempt := 0; attempt < maxStockRetries; attempt++ {
		inv, err := s.repo.FindTx(tx, branchID, productID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if !createIfAbsent {
				return nil, ErrNotFound
			}
			created := &model.Inventory{BranchID: branchID, ProductID: productID, Stock: delta}
			if cerr := s.repo.CreateTx(tx, created); cerr != nil {
				// Duplicate key on the unique (branch, product) index means
				// another writer made the row first — re-read and retry.
				// Anything else is a real storage error.
				if errors.Is(cerr, gorm.ErrDuplicatedKey) {
					continue
				}
				return nil, cerr
			}
			return &StockLevel{BranchID: branchID, ProductID: productID,
				Stock: created.Stock, ReorderPoint: created.ReorderPoint}, nil
		}
		if err != nil {
			return nil, err
		}

		newStock := inv.Stock + delta
		if newStock < 0 {
			return nil, &InsufficientStockError{
				ProductID: productID,
				BranchID:  branchID,
				Requested: -delta,
				Available: inv.Stock,
			}
		}

		swapped, err := s.repo.UpdateStockCAS(tx, inv.ID, inv.Version, newStock)
		if err != nil {
			return nil, err
		}
		if swapped {
			return &StockLevel{BranchID: branchID, ProductID: productID,
				Stock: newStock, ReorderPoint: inv.ReorderPoint}, nil
		}
		// version moved under us — retry with a fresh read
	}
	return nil, ErrConflict
}

// Adjust is the manual stock correction used by GERENTE/ADMIN_CLIENTE. The
// branch must belong to the tenant; the delta obeys the same non-negativity
// rule as every other mutation.
func (s *inventoryService) Adjust(ctx context.Context, tenant TenantContext, req dto.AdjustInventoryRequest) (*dto.InventoryResponse, error) {
	branchID, err := uuid.Parse(req.BranchID)
	if err != nil {
		return nil, err
	}
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return nil, err
	}

	branch, err := s.branchRepo.FindByID(ctx, branchID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if !tenant.Owns(branch.CompanyID) {
		return nil, ErrTenantMismatch
	}
	product, err := s.productRepo.FindByID(ctx, productID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if !tenant.Owns(product.CompanyID) {
		return nil, ErrTenantMismatch
	}

	var level *StockLevel
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		var merr error
		if req.Delta >= 0 {
			level, merr = s.IncrementTx(tx, branchID, productID, req.Delta)
		} else {
			level, merr = s.ReserveAndDecrementTx(tx, branchID, productID, -req.Delta)
		}
		return merr
	})
	if txErr != nil {
		return nil, txErr
	}

	return &dto.InventoryResponse{
		BranchID:     branchID.String(),
		Branch:       branch.Name,
		ProductID:    productID.String(),
		Product:      product.Name,
		Stock:        level.Stock,
		ReorderPoint: level.ReorderPoint,
	}, nil
}

func (s *inventoryService) List(ctx context.Context, tenant TenantContext) ([]dto.InventoryResponse, error) {
	invs, err := s.repo.ListByCompany(ctx, tenant.CompanyID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.InventoryResponse, 0, len(invs))
	for _, inv := range invs {
		resp := dto.InventoryResponse{
			BranchID:     inv.BranchID.String(),
			ProductID:    inv.ProductID.String(),
			Stock:        inv.Stock,
			ReorderPoint: inv.ReorderPoint,
		}
		if inv.Branch != nil {
			resp.Branch = inv.Branch.Name
		}
		if inv.Product != nil {
			resp.Product = inv.Product.Name
		}
		out = append(out, resp)
	}
	return out, nil
}
