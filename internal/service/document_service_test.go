package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ElenaG-E/temucosoft/internal/dto"
	"github.com/ElenaG-E/temucosoft/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// docFixture wires the document workflow against in-memory stubs: one tenant
// with one branch, alerts and receipts disabled (nil dispatcher), no real DB.
type docFixture struct {
	invRepo      *stubInventoryRepo
	productRepo  *stubProductRepo
	branchRepo   *stubBranchRepo
	companyRepo  *stubCompanyRepo
	purchaseRepo *stubPurchaseRepo
	saleRepo     *stubSaleRepo
	orderRepo    *stubOrderRepo

	svc    DocumentService
	tenant TenantContext
	branch *model.Branch
}

func newDocFixture() *docFixture {
	f := &docFixture{
		invRepo:      newStubInventoryRepo(),
		productRepo:  newStubProductRepo(),
		branchRepo:   newStubBranchRepo(),
		companyRepo:  newStubCompanyRepo(),
		purchaseRepo: &stubPurchaseRepo{},
		saleRepo:     &stubSaleRepo{},
		orderRepo:    newStubOrderRepo(),
	}
	company := f.companyRepo.seed("Comercial Andina", "76086428-5", "contacto@andina.cl")
	f.tenant = TenantContext{CompanyID: company.ID, UserID: uuid.New(), Role: model.RoleVendedor}
	f.branch = f.branchRepo.seed(company.ID, "Casa Matriz")

	inventory := NewInventoryService(f.invRepo, f.branchRepo, f.productRepo)
	f.svc = NewDocumentService(inventory, f.productRepo, f.branchRepo, f.companyRepo,
		f.purchaseRepo, f.saleRepo, f.orderRepo, nil, nil)
	return f
}

func (f *docFixture) seedProduct(sku, name string, price, cost float64, stock int) *model.Product {
	p := f.productRepo.seed(f.tenant.CompanyID, sku, name, price, cost)
	f.invRepo.seed(f.branch.ID, p.ID, stock, 5)
	return p
}

func item(p *model.Product, qty int) dto.DocumentItemRequest {
	return dto.DocumentItemRequest{ProductID: p.ID.String(), Quantity: qty}
}

// ── Purchases ────────────────────────────────────────────────────────────────

func TestCreatePurchaseIncrementsStockAndSnapshotsCost(t *testing.T) {
	f := newDocFixture()
	p := f.seedProduct("SKU-100", "Aceite 1L", 2500, 1800, 10)

	resp, err := f.svc.CreatePurchase(context.Background(), f.tenant, dto.CreatePurchaseRequest{
		BranchID: f.branch.ID.String(),
		Items:    []dto.DocumentItemRequest{item(p, 20)},
	})

	require.NoError(t, err)
	assert.Equal(t, 30, f.invRepo.stockAt(f.branch.ID, p.ID))
	// unit value is the cost, not the sale price
	assert.Equal(t, decimal.NewFromFloat(1800).String(), resp.Items[0].UnitValue.String())
	assert.Equal(t, decimal.NewFromFloat(36000).String(), resp.Total.String())

	require.Len(t, f.purchaseRepo.purchases, 1)
	stored := f.purchaseRepo.purchases[0]
	assert.Equal(t, decimal.NewFromFloat(1800).String(), stored.Items[0].CostAtPurchase.String())
}

func TestCreatePurchaseCreatesMissingInventoryRow(t *testing.T) {
	f := newDocFixture()
	// product never stocked at this branch — first receipt creates the row
	p := f.productRepo.seed(f.tenant.CompanyID, "SKU-101", "Sal 500g", 800, 500)

	_, err := f.svc.CreatePurchase(context.Background(), f.tenant, dto.CreatePurchaseRequest{
		BranchID: f.branch.ID.String(),
		Items:    []dto.DocumentItemRequest{item(p, 12)},
	})

	require.NoError(t, err)
	assert.Equal(t, 12, f.invRepo.stockAt(f.branch.ID, p.ID))
}

func TestCreatePurchaseFutureDateRejected(t *testing.T) {
	f := newDocFixture()
	p := f.seedProduct("SKU-102", "Arroz 1kg", 1500, 1000, 5)

	_, err := f.svc.CreatePurchase(context.Background(), f.tenant, dto.CreatePurchaseRequest{
		BranchID:     f.branch.ID.String(),
		PurchaseDate: time.Now().Add(time.Hour).Format(time.RFC3339),
		Items:        []dto.DocumentItemRequest{item(p, 1)},
	})

	assert.ErrorIs(t, err, ErrFutureTimestamp)
	assert.Empty(t, f.purchaseRepo.purchases)
}

func TestCreatePurchaseBackdatedAccepted(t *testing.T) {
	f := newDocFixture()
	p := f.seedProduct("SKU-103", "Fideos 400g", 1100, 700, 5)

	yesterday := time.Now().Add(-24 * time.Hour).Format(time.RFC3339)
	resp, err := f.svc.CreatePurchase(context.Background(), f.tenant, dto.CreatePurchaseRequest{
		BranchID:     f.branch.ID.String(),
		PurchaseDate: yesterday,
		Items:        []dto.DocumentItemRequest{item(p, 1)},
	})

	require.NoError(t, err)
	assert.Equal(t, yesterday, resp.PurchaseDate)
}

// ── Sales ────────────────────────────────────────────────────────────────────

func TestCreateSaleDecrementsStockAndSnapshotsPrice(t *testing.T) {
	f := newDocFixture()
	p := f.seedProduct("SKU-200", "Leche 1L", 1300, 900, 10)

	resp, err := f.svc.CreateSale(context.Background(), f.tenant, dto.CreateSaleRequest{
		BranchID:      f.branch.ID.String(),
		PaymentMethod: model.PaymentCash,
		Items:         []dto.DocumentItemRequest{item(p, 4)},
	})

	require.NoError(t, err)
	assert.Equal(t, 6, f.invRepo.stockAt(f.branch.ID, p.ID))
	assert.Equal(t, decimal.NewFromFloat(1300).String(), resp.Items[0].UnitValue.String())
	assert.Equal(t, decimal.NewFromFloat(5200).String(), resp.Total.String())
}

func TestCreateSaleEmptyItemsRejected(t *testing.T) {
	f := newDocFixture()

	_, err := f.svc.CreateSale(context.Background(), f.tenant, dto.CreateSaleRequest{
		BranchID:      f.branch.ID.String(),
		PaymentMethod: model.PaymentCard,
	})

	assert.ErrorIs(t, err, ErrEmptyDocument)
}

func TestCreateSaleLinesApplySequentially(t *testing.T) {
	f := newDocFixture()
	p := f.seedProduct("SKU-201", "Pan 1kg", 1900, 1200, 7)

	// two lines of 5 against a stock of 7: the first line commits, the
	// second sees only the 2 that remain and fails the whole document
	_, err := f.svc.CreateSale(context.Background(), f.tenant, dto.CreateSaleRequest{
		BranchID:      f.branch.ID.String(),
		PaymentMethod: model.PaymentCash,
		Items:         []dto.DocumentItemRequest{item(p, 5), item(p, 5)},
	})

	var insuff *InsufficientStockError
	require.ErrorAs(t, err, &insuff)
	assert.Equal(t, 5, insuff.Requested)
	assert.Equal(t, 2, insuff.Available)
	assert.Empty(t, f.saleRepo.sales)
}

func TestCreateSaleForeignProductRejected(t *testing.T) {
	f := newDocFixture()
	foreign := f.productRepo.seed(uuid.New(), "SKU-202", "Ajeno", 1000, 600)

	_, err := f.svc.CreateSale(context.Background(), f.tenant, dto.CreateSaleRequest{
		BranchID:      f.branch.ID.String(),
		PaymentMethod: model.PaymentCash,
		Items:         []dto.DocumentItemRequest{item(foreign, 1)},
	})

	assert.ErrorIs(t, err, ErrTenantMismatch)
}

func TestCreateSaleInactiveProductRejected(t *testing.T) {
	f := newDocFixture()
	p := f.seedProduct("SKU-203", "Descontinuado", 990, 500, 8)
	p.Active = false

	_, err := f.svc.CreateSale(context.Background(), f.tenant, dto.CreateSaleRequest{
		BranchID:      f.branch.ID.String(),
		PaymentMethod: model.PaymentCash,
		Items:         []dto.DocumentItemRequest{item(p, 1)},
	})

	assert.ErrorContains(t, err, "inactive")
}

func TestSaleSnapshotSurvivesPriceChange(t *testing.T) {
	f := newDocFixture()
	p := f.seedProduct("SKU-204", "Yogurt", 800, 450, 10)

	_, err := f.svc.CreateSale(context.Background(), f.tenant, dto.CreateSaleRequest{
		BranchID:      f.branch.ID.String(),
		PaymentMethod: model.PaymentTransfer,
		Items:         []dto.DocumentItemRequest{item(p, 2)},
	})
	require.NoError(t, err)

	// catalog edit after the fact must not rewrite the document
	p.Price = decimal.NewFromFloat(999)

	sales, err := f.svc.ListSales(context.Background(), f.tenant)
	require.NoError(t, err)
	require.Len(t, sales, 1)
	assert.Equal(t, decimal.NewFromFloat(800).String(), sales[0].Items[0].UnitValue.String())
	assert.Equal(t, decimal.NewFromFloat(1600).String(), sales[0].Total.String())
}

// ── Orders ───────────────────────────────────────────────────────────────────

func TestCreateOrderStartsPendingWithStockCommitted(t *testing.T) {
	f := newDocFixture()
	p := f.seedProduct("SKU-300", "Mermelada", 2200, 1500, 9)

	resp, err := f.svc.CreateOrder(context.Background(), f.tenant, dto.CreateOrderRequest{
		BranchID:    f.branch.ID.String(),
		ClientName:  "María Pérez",
		ClientEmail: "maria@example.cl",
		Items:       []dto.DocumentItemRequest{item(p, 3)},
	})

	require.NoError(t, err)
	assert.Equal(t, model.OrderPending, resp.Status)
	// stock is committed at creation, not at delivery
	assert.Equal(t, 6, f.invRepo.stockAt(f.branch.ID, p.ID))

	require.Len(t, f.orderRepo.orders, 1)
	for _, o := range f.orderRepo.orders {
		assert.Nil(t, o.ClientUserID) // staff-created order, no client account
	}
}

func TestCreateOrderByClienteFinalLinksAccount(t *testing.T) {
	f := newDocFixture()
	p := f.seedProduct("SKU-301", "Miel 500g", 4800, 3200, 5)
	f.tenant.Role = model.RoleClienteFinal

	_, err := f.svc.CreateOrder(context.Background(), f.tenant, dto.CreateOrderRequest{
		BranchID:    f.branch.ID.String(),
		ClientName:  "Pedro Soto",
		ClientEmail: "pedro@example.cl",
		Items:       []dto.DocumentItemRequest{item(p, 1)},
	})

	require.NoError(t, err)
	for _, o := range f.orderRepo.orders {
		require.NotNil(t, o.ClientUserID)
		assert.Equal(t, f.tenant.UserID, *o.ClientUserID)
	}
}

func TestCreateOrderRunsFollowUpInSameUnit(t *testing.T) {
	f := newDocFixture()
	p := f.seedProduct("SKU-303", "Aceite 1L", 3900, 2700, 6)

	ran := false
	_, err := f.svc.CreateOrder(context.Background(), f.tenant, dto.CreateOrderRequest{
		BranchID:    f.branch.ID.String(),
		ClientName:  "Luz Díaz",
		ClientEmail: "luz@example.cl",
		Items:       []dto.DocumentItemRequest{item(p, 2)},
	}, func(tx *gorm.DB) error {
		ran = true
		return nil
	})
	require.NoError(t, err)
	assert.True(t, ran)

	// a failing follow-up aborts the whole creation
	cleanupErr := errors.New("cart cleanup failed")
	_, err = f.svc.CreateOrder(context.Background(), f.tenant, dto.CreateOrderRequest{
		BranchID:    f.branch.ID.String(),
		ClientName:  "Luz Díaz",
		ClientEmail: "luz@example.cl",
		Items:       []dto.DocumentItemRequest{item(p, 1)},
	}, func(tx *gorm.DB) error {
		return cleanupErr
	})
	require.ErrorIs(t, err, cleanupErr)
}

func TestCreateOrderInsufficientStockLeavesNothing(t *testing.T) {
	f := newDocFixture()
	p := f.seedProduct("SKU-302", "Té 20u", 1700, 1100, 2)

	_, err := f.svc.CreateOrder(context.Background(), f.tenant, dto.CreateOrderRequest{
		BranchID:    f.branch.ID.String(),
		ClientName:  "Ana Rojas",
		ClientEmail: "ana@example.cl",
		Items:       []dto.DocumentItemRequest{item(p, 3)},
	})

	var insuff *InsufficientStockError
	require.ErrorAs(t, err, &insuff)
	assert.Empty(t, f.orderRepo.orders)
}
