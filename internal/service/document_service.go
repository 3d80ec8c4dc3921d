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

// DocumentKind selects the stock direction and the snapshotted product field
// for the shared document workflow.
type DocumentKind int

const (
	// KindPurchase: stock arrives, unit cost is snapshotted.
	KindPurchase DocumentKind = iota
	// KindSale: stock leaves, unit price is snapshotted.
	KindSale
	// KindOrder: stock leaves (committed at creation), unit price is
	// snapshotted, and the document starts its PENDIENTE lifecycle.
	KindOrder
)

// DocumentService runs the one transactional workflow shared by purchase,
// sale, and order creation: validate, snapshot unit values, move stock
// through the ledger, compute the total, and persist header plus items as a
// single unit. Nothing is visible unless every step succeeds.
type DocumentService interface {
	CreatePurchase(ctx context.Context, tenant TenantContext, req dto.CreatePurchaseRequest) (*dto.PurchaseResponse, error)
	CreateSale(ctx context.Context, tenant TenantContext, req dto.CreateSaleRequest) (*dto.SaleResponse, error)
	// CreateOrder optionally runs follow-up writes (cart cleanup at
	// checkout) inside the same transaction as the stock commitment, so
	// they land or roll back together with the order.
	CreateOrder(ctx context.Context, tenant TenantContext, req dto.CreateOrderRequest, inTx ...func(tx *gorm.DB) error) (*dto.OrderResponse, error)

	ListPurchases(ctx context.Context, tenant TenantContext) ([]dto.PurchaseResponse, error)
	ListSales(ctx context.Context, tenant TenantContext) ([]dto.SaleResponse, error)
}

type documentService struct {
	inventory    InventoryService
	productRepo  repository.ProductRepository
	branchRepo   repository.BranchRepository
	companyRepo  repository.CompanyRepository
	purchaseRepo repository.PurchaseRepository
	saleRepo     repository.SaleRepository
	orderRepo    repository.OrderRepository
	dispatcher   *worker.Dispatcher
	db           *gorm.DB
	// now is swapped out by tests that need a fixed clock
	now func() time.Time
}

func NewDocumentService(
	inventory InventoryService,
	productRepo repository.ProductRepository,
	branchRepo repository.BranchRepository,
	companyRepo repository.CompanyRepository,
	purchaseRepo repository.PurchaseRepository,
	saleRepo repository.SaleRepository,
	orderRepo repository.OrderRepository,
	dispatcher *worker.Dispatcher,
	db *gorm.DB,
) DocumentService {
	return &documentService{
		inventory:    inventory,
		productRepo:  productRepo,
		branchRepo:   branchRepo,
		companyRepo:  companyRepo,
		purchaseRepo: purchaseRepo,
		saleRepo:     saleRepo,
		orderRepo:    orderRepo,
		dispatcher:   dispatcher,
		db:           db,
		now:          time.Now,
	}
}

// resolvedLine is one validated line with its snapshotted unit value.
type resolvedLine struct {
	product   *model.Product
	quantity  int
	unitValue decimal.Decimal
	subtotal  decimal.Decimal
}

// resolveLines validates every line before any mutation: products must exist,
// belong to the tenant, be active, and carry quantity >= 1. The unit value is
// snapshotted here — cost for purchases, price for everything else — so later
// catalog edits never rewrite this document.
func (s *documentService) resolveLines(ctx context.Context, tenant TenantContext, kind DocumentKind, items []dto.DocumentItemRequest) ([]resolvedLine, decimal.Decimal, error) {
	if len(items) == 0 {
		return nil, decimal.Zero, ErrEmptyDocument
	}

	lines := make([]resolvedLine, 0, len(items))
	total := decimal.Zero
	for _, item := range items {
		pid, err := uuid.Parse(item.ProductID)
		if err != nil {
			return nil, decimal.Zero, err
		}
		if item.Quantity < 1 {
			return nil, decimal.Zero, errors.New("quantity must be at least 1")
		}
		p, err := s.productRepo.FindByID(ctx, pid)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, decimal.Zero, ErrNotFound
		}
		if err != nil {
			return nil, decimal.Zero, err
		}
		if !tenant.Owns(p.CompanyID) {
			return nil, decimal.Zero, ErrTenantMismatch
		}
		if !p.Active {
			return nil, decimal.Zero, errors.New("product " + p.Name + " is inactive")
		}

		unit := p.Price
		if kind == KindPurchase {
			unit = p.Cost
		}
		subtotal := unit.Mul(decimal.NewFromInt(int64(item.Quantity)))
		total = total.Add(subtotal)
		lines = append(lines, resolvedLine{product: p, quantity: item.Quantity, unitValue: unit, subtotal: subtotal})
	}
	return lines, total, nil
}

// resolveBranch enforces that the document's branch belongs to the tenant.
func (s *documentService) resolveBranch(ctx context.Context, tenant TenantContext, raw string) (*model.Branch, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, err
	}
	b, err := s.branchRepo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if !tenant.Owns(b.CompanyID) {
		return nil, ErrTenantMismatch
	}
	return b, nil
}

// moveStock applies the ledger side of the document inside tx, line by line
// IN REQUEST ORDER: a later line sees the effect of an earlier one, so two
// lines of 5 against a stock of 7 fail on the second line. Returns the
// post-mutation levels for low-stock alerting.
func (s *documentService) moveStock(tx *gorm.DB, kind DocumentKind, branchID uuid.UUID, lines []resolvedLine) ([]StockLevel, error) {
	levels := make([]StockLevel, 0, len(lines))
	for _, line := range lines {
		var (
			level *StockLevel
			err   error
		)
		if kind == KindPurchase {
			level, err = s.inventory.IncrementTx(tx, branchID, line.product.ID, line.quantity)
		} else {
			level, err = s.inventory.ReserveAndDecrementTx(tx, branchID, line.product.ID, line.quantity)
		}
		if err != nil {
			return nil, err
		}
		levels = append(levels, *level)
	}
	return levels, nil
}

// notifyLowStock runs after commit; alerts are best-effort and never fail the
// document.
func (s *documentService) notifyLowStock(ctx context.Context, tenant TenantContext, levels []StockLevel, lines []resolvedLine) {
	if s.dispatcher == nil {
		return
	}
	company, err := s.companyRepo.FindByID(ctx, tenant.CompanyID)
	if err != nil {
		return
	}
	for i, level := range levels {
		if !level.AtReorderPoint() {
			continue
		}
		_ = s.dispatcher.EnqueueLowStockAlert(ctx, worker.LowStockAlertPayload{
			CompanyEmail: company.Email,
			CompanyName:  company.Name,
			ProductName:  lines[i].product.Name,
			SKU:          lines[i].product.SKU,
			BranchID:     level.BranchID.String(),
			Stock:        level.Stock,
			ReorderPoint: level.ReorderPoint,
		})
	}
}

// parseDocumentTime accepts an optional RFC 3339 stamp, defaulting to now,
// and rejects anything in the future.
func (s *documentService) parseDocumentTime(raw string) (time.Time, error) {
	if raw == "" {
		return s.now(), nil
	}
	ts, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, err
	}
	if ts.After(s.now()) {
		return time.Time{}, ErrFutureTimestamp
	}
	return ts, nil
}

// ─── CreatePurchase ──────────────────────────────────────────────────────────

func (s *documentService) CreatePurchase(ctx context.Context, tenant TenantContext, req dto.CreatePurchaseRequest) (*dto.PurchaseResponse, error) {
	purchaseDate, err := s.parseDocumentTime(req.PurchaseDate)
	if err != nil {
		return nil, err
	}
	branch, err := s.resolveBranch(ctx, tenant, req.BranchID)
	if err != nil {
		return nil, err
	}
	lines, total, err := s.resolveLines(ctx, tenant, KindPurchase, req.Items)
	if err != nil {
		return nil, err
	}

	var supplierID *uuid.UUID
	if req.SupplierID != nil {
		sid, err := uuid.Parse(*req.SupplierID)
		if err != nil {
			return nil, err
		}
		supplierID = &sid
	}

	purchase := model.Purchase{
		CompanyID:    tenant.CompanyID,
		SupplierID:   supplierID,
		BranchID:     branch.ID,
		UserID:       tenant.UserID,
		Total:        total,
		PurchaseDate: purchaseDate,
	}
	for _, line := range lines {
		purchase.Items = append(purchase.Items, model.PurchaseItem{
			ProductID:      line.product.ID,
			Quantity:       line.quantity,
			CostAtPurchase: line.unitValue,
		})
	}

	var levels []StockLevel
	txErr := runTx(ctx, s.db, func(tx *gorm.DB) error {
		var merr error
		if levels, merr = s.moveStock(tx, KindPurchase, branch.ID, lines); merr != nil {
			return merr
		}
		return s.purchaseRepo.CreateTx(tx, &purchase)
	})
	if txErr != nil {
		return nil, txErr
	}

	s.notifyLowStock(ctx, tenant, levels, lines)

	return &dto.PurchaseResponse{
		ID:           purchase.ID.String(),
		SupplierID:   req.SupplierID,
		BranchID:     branch.ID.String(),
		Total:        total,
		PurchaseDate: purchaseDate.Format(time.RFC3339),
		Items:        linesToResponse(lines),
	}, nil
}

// ─── CreateSale ──────────────────────────────────────────────────────────────

func (s *documentService) CreateSale(ctx context.Context, tenant TenantContext, req dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	soldAt, err := s.parseDocumentTime(req.SoldAt)
	if err != nil {
		return nil, err
	}
	branch, err := s.resolveBranch(ctx, tenant, req.BranchID)
	if err != nil {
		return nil, err
	}
	lines, total, err := s.resolveLines(ctx, tenant, KindSale, req.Items)
	if err != nil {
		return nil, err
	}

	sale := model.Sale{
		CompanyID:     tenant.CompanyID,
		BranchID:      branch.ID,
		UserID:        tenant.UserID,
		Total:         total,
		PaymentMethod: req.PaymentMethod,
		SoldAt:        soldAt,
	}
	for _, line := range lines {
		sale.Items = append(sale.Items, model.SaleItem{
			ProductID:   line.product.ID,
			Quantity:    line.quantity,
			PriceAtSale: line.unitValue,
		})
	}

	var levels []StockLevel
	txErr := runTx(ctx, s.db, func(tx *gorm.DB) error {
		var merr error
		if levels, merr = s.moveStock(tx, KindSale, branch.ID, lines); merr != nil {
			return merr
		}
		return s.saleRepo.CreateTx(tx, &sale)
	})
	if txErr != nil {
		return nil, txErr
	}

	s.notifyLowStock(ctx, tenant, levels, lines)

	// Receipt PDF is rendered off the request path and archived for reprints.
	if s.dispatcher != nil {
		_ = s.dispatcher.EnqueueReceipt(ctx, worker.ReceiptPayload{
			Kind:       worker.ReceiptKindSale,
			DocumentID: sale.ID.String(),
			CompanyID:  tenant.CompanyID.String(),
		})
	}

	return &dto.SaleResponse{
		ID:            sale.ID.String(),
		BranchID:      branch.ID.String(),
		Total:         total,
		PaymentMethod: req.PaymentMethod,
		SoldAt:        soldAt.Format(time.RFC3339),
		Items:         linesToResponse(lines),
	}, nil
}

// ─── CreateOrder ─────────────────────────────────────────────────────────────

func (s *documentService) CreateOrder(ctx context.Context, tenant TenantContext, req dto.CreateOrderRequest, inTx ...func(tx *gorm.DB) error) (*dto.OrderResponse, error) {
	branch, err := s.resolveBranch(ctx, tenant, req.BranchID)
	if err != nil {
		return nil, err
	}
	lines, total, err := s.resolveLines(ctx, tenant, KindOrder, req.Items)
	if err != nil {
		return nil, err
	}

	var clientUserID *uuid.UUID
	if tenant.Role == model.RoleClienteFinal {
		uid := tenant.UserID
		clientUserID = &uid
	}

	order := model.Order{
		CompanyID:    tenant.CompanyID,
		BranchID:     branch.ID,
		ClientUserID: clientUserID,
		ClientName:   req.ClientName,
		ClientEmail:  req.ClientEmail,
		Status:       model.OrderPending,
		Total:        total,
	}
	for _, line := range lines {
		order.Items = append(order.Items, model.OrderItem{
			ProductID:    line.product.ID,
			Quantity:     line.quantity,
			PriceAtOrder: line.unitValue,
		})
	}

	var levels []StockLevel
	txErr := runTx(ctx, s.db, func(tx *gorm.DB) error {
		var merr error
		if levels, merr = s.moveStock(tx, KindOrder, branch.ID, lines); merr != nil {
			return merr
		}
		if merr = s.orderRepo.CreateTx(tx, &order); merr != nil {
			return merr
		}
		for _, fn := range inTx {
			if merr = fn(tx); merr != nil {
				return merr
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	s.notifyLowStock(ctx, tenant, levels, lines)

	// Confirmation receipt is generated and mailed off the request path.
	if s.dispatcher != nil {
		_ = s.dispatcher.EnqueueReceipt(ctx, worker.ReceiptPayload{
			Kind:       worker.ReceiptKindOrder,
			DocumentID: order.ID.String(),
			CompanyID:  tenant.CompanyID.String(),
		})
	}

	return &dto.OrderResponse{
		ID:          order.ID.String(),
		BranchID:    branch.ID.String(),
		ClientName:  order.ClientName,
		ClientEmail: order.ClientEmail,
		Status:      order.Status,
		Total:       total,
		Items:       linesToResponse(lines),
		CreatedAt:   order.CreatedAt.Format(time.RFC3339),
	}, nil
}

func (s *documentService) ListPurchases(ctx context.Context, tenant TenantContext) ([]dto.PurchaseResponse, error) {
	purchases, err := s.purchaseRepo.ListByCompany(ctx, tenant.CompanyID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PurchaseResponse, 0, len(purchases))
	for i := range purchases {
		p := &purchases[i]
		resp := dto.PurchaseResponse{
			ID:           p.ID.String(),
			BranchID:     p.BranchID.String(),
			Total:        p.Total,
			PurchaseDate: p.PurchaseDate.Format(time.RFC3339),
			Items:        purchaseItemsToResponse(p.Items),
		}
		if p.SupplierID != nil {
			sid := p.SupplierID.String()
			resp.SupplierID = &sid
		}
		out = append(out, resp)
	}
	return out, nil
}

func (s *documentService) ListSales(ctx context.Context, tenant TenantContext) ([]dto.SaleResponse, error) {
	sales, err := s.saleRepo.ListByCompany(ctx, tenant.CompanyID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SaleResponse, 0, len(sales))
	for i := range sales {
		sl := &sales[i]
		out = append(out, dto.SaleResponse{
			ID:            sl.ID.String(),
			BranchID:      sl.BranchID.String(),
			Total:         sl.Total,
			PaymentMethod: sl.PaymentMethod,
			SoldAt:        sl.SoldAt.Format(time.RFC3339),
			Items:         saleItemsToResponse(sl.Items),
		})
	}
	return out, nil
}

func purchaseItemsToResponse(items []model.PurchaseItem) []dto.DocumentItemResponse {
	out := make([]dto.DocumentItemResponse, 0, len(items))
	for _, item := range items {
		name := ""
		if item.Product != nil {
			name = item.Product.Name
		}
		out = append(out, dto.DocumentItemResponse{
			ProductID: item.ProductID.String(),
			Product:   name,
			Quantity:  item.Quantity,
			UnitValue: item.CostAtPurchase,
			Subtotal:  item.CostAtPurchase.Mul(decimal.NewFromInt(int64(item.Quantity))),
		})
	}
	return out
}

func saleItemsToResponse(items []model.SaleItem) []dto.DocumentItemResponse {
	out := make([]dto.DocumentItemResponse, 0, len(items))
	for _, item := range items {
		name := ""
		if item.Product != nil {
			name = item.Product.Name
		}
		out = append(out, dto.DocumentItemResponse{
			ProductID: item.ProductID.String(),
			Product:   name,
			Quantity:  item.Quantity,
			UnitValue: item.PriceAtSale,
			Subtotal:  item.PriceAtSale.Mul(decimal.NewFromInt(int64(item.Quantity))),
		})
	}
	return out
}

func linesToResponse(lines []resolvedLine) []dto.DocumentItemResponse {
	out := make([]dto.DocumentItemResponse, 0, len(lines))
	for _, line := range lines {
		out = append(out, dto.DocumentItemResponse{
			ProductID: line.product.ID.String(),
			Product:   line.product.Name,
			Quantity:  line.quantity,
			UnitValue: line.unitValue,
			Subtotal:  line.subtotal,
		})
	}
	return out
}
