package service

// In-memory repository stubs shared by the service unit tests. They mimic the
// GORM repos closely enough for the transactional core: not-found lookups
// return gorm.ErrRecordNotFound, the inventory stub honours the version-based
// compare-and-swap contract, and DB() returns nil so runTx calls the closure
// directly.

import (
	"context"

	"github.com/ElenaG-E/temucosoft/internal/dto"
	"github.com/ElenaG-E/temucosoft/internal/model"
	"github.com/ElenaG-E/temucosoft/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── Inventory ────────────────────────────────────────────────────────────────

type invKey struct {
	branchID  uuid.UUID
	productID uuid.UUID
}

type stubInventoryRepo struct {
	rows map[invKey]*model.Inventory
	// forcedCASMisses makes the next N swaps lose as if a concurrent writer
	// advanced the version between read and write.
	forcedCASMisses int
	// createErr, when set, is returned by CreateTx — models a storage
	// failure that is not a duplicate-key race.
	createErr error
}

func newStubInventoryRepo() *stubInventoryRepo {
	return &stubInventoryRepo{rows: make(map[invKey]*model.Inventory)}
}

func (r *stubInventoryRepo) seed(branchID, productID uuid.UUID, stock, reorderPoint int) *model.Inventory {
	inv := &model.Inventory{
		ID:           uuid.New(),
		BranchID:     branchID,
		ProductID:    productID,
		Stock:        stock,
		ReorderPoint: reorderPoint,
	}
	r.rows[invKey{branchID, productID}] = inv
	return inv
}

func (r *stubInventoryRepo) Find(_ context.Context, branchID, productID uuid.UUID) (*model.Inventory, error) {
	return r.FindTx(nil, branchID, productID)
}

func (r *stubInventoryRepo) FindTx(_ *gorm.DB, branchID, productID uuid.UUID) (*model.Inventory, error) {
	inv, ok := r.rows[invKey{branchID, productID}]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *inv
	return &cp, nil
}

func (r *stubInventoryRepo) CreateTx(_ *gorm.DB, inv *model.Inventory) error {
	if r.createErr != nil {
		return r.createErr
	}
	key := invKey{inv.BranchID, inv.ProductID}
	if _, exists := r.rows[key]; exists {
		return gorm.ErrDuplicatedKey
	}
	if inv.ID == uuid.Nil {
		inv.ID = uuid.New()
	}
	r.rows[key] = inv
	return nil
}

func (r *stubInventoryRepo) UpdateStockCAS(_ *gorm.DB, id uuid.UUID, readVersion int64, newStock int) (bool, error) {
	for _, inv := range r.rows {
		if inv.ID != id {
			continue
		}
		if r.forcedCASMisses > 0 {
			r.forcedCASMisses--
			inv.Version++
			return false, nil
		}
		if inv.Version != readVersion {
			return false, nil
		}
		inv.Stock = newStock
		inv.Version++
		return true, nil
	}
	return false, nil
}

func (r *stubInventoryRepo) ListByCompany(_ context.Context, _ uuid.UUID) ([]model.Inventory, error) {
	out := make([]model.Inventory, 0, len(r.rows))
	for _, inv := range r.rows {
		out = append(out, *inv)
	}
	return out, nil
}

func (r *stubInventoryRepo) ListBelowReorderPoint(_ context.Context, _ uuid.UUID) ([]model.Inventory, error) {
	var out []model.Inventory
	for _, inv := range r.rows {
		if inv.Stock <= inv.ReorderPoint {
			out = append(out, *inv)
		}
	}
	return out, nil
}

func (r *stubInventoryRepo) DB() *gorm.DB { return nil }

func (r *stubInventoryRepo) stockAt(branchID, productID uuid.UUID) int {
	inv, ok := r.rows[invKey{branchID, productID}]
	if !ok {
		return 0
	}
	return inv.Stock
}

var _ repository.InventoryRepository = (*stubInventoryRepo)(nil)

// ── Products ─────────────────────────────────────────────────────────────────

type stubProductRepo struct {
	products   map[uuid.UUID]*model.Product
	referenced map[uuid.UUID]bool
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{
		products:   make(map[uuid.UUID]*model.Product),
		referenced: make(map[uuid.UUID]bool),
	}
}

func (r *stubProductRepo) seed(companyID uuid.UUID, sku, name string, price, cost float64) *model.Product {
	p := &model.Product{
		ID:        uuid.New(),
		CompanyID: companyID,
		SKU:       sku,
		Name:      name,
		Price:     decimal.NewFromFloat(price),
		Cost:      decimal.NewFromFloat(cost),
		Category:  "TEST",
		Active:    true,
	}
	r.products[p.ID] = p
	return p
}

func (r *stubProductRepo) Create(_ context.Context, p *model.Product) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.products[p.ID] = p
	return nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubProductRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID) (*model.Product, error) {
	return r.FindByID(context.Background(), id)
}

func (r *stubProductRepo) FindBySKU(_ context.Context, companyID uuid.UUID, sku string) (*model.Product, error) {
	for _, p := range r.products {
		if p.CompanyID == companyID && p.SKU == sku {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubProductRepo) FindBySKUAnyCompany(_ context.Context, sku string) (*model.Product, error) {
	for _, p := range r.products {
		if p.SKU == sku && p.Active {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubProductRepo) List(_ context.Context, companyID uuid.UUID, filter dto.ProductFilter) ([]model.Product, int64, error) {
	var out []model.Product
	for _, p := range r.products {
		if p.CompanyID != companyID {
			continue
		}
		if filter.Active != "all" && filter.Active != "false" && !p.Active {
			continue
		}
		if filter.Active == "false" && p.Active {
			continue
		}
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *stubProductRepo) Update(_ context.Context, p *model.Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *stubProductRepo) SetActive(_ context.Context, companyID, id uuid.UUID, active bool) error {
	p, ok := r.products[id]
	if !ok || p.CompanyID != companyID {
		return gorm.ErrRecordNotFound
	}
	p.Active = active
	return nil
}

func (r *stubProductRepo) ReferencedByDocuments(_ context.Context, id uuid.UUID) (bool, error) {
	return r.referenced[id], nil
}

func (r *stubProductRepo) Delete(_ context.Context, companyID, id uuid.UUID) error {
	p, ok := r.products[id]
	if !ok || p.CompanyID != companyID {
		return gorm.ErrRecordNotFound
	}
	delete(r.products, id)
	return nil
}

func (r *stubProductRepo) DB() *gorm.DB { return nil }

var _ repository.ProductRepository = (*stubProductRepo)(nil)

// ── Branches ─────────────────────────────────────────────────────────────────

type stubBranchRepo struct {
	branches map[uuid.UUID]*model.Branch
}

func newStubBranchRepo() *stubBranchRepo {
	return &stubBranchRepo{branches: make(map[uuid.UUID]*model.Branch)}
}

func (r *stubBranchRepo) seed(companyID uuid.UUID, name string) *model.Branch {
	b := &model.Branch{ID: uuid.New(), CompanyID: companyID, Name: name, Active: true}
	r.branches[b.ID] = b
	return b
}

func (r *stubBranchRepo) Create(_ context.Context, b *model.Branch) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	r.branches[b.ID] = b
	return nil
}

func (r *stubBranchRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Branch, error) {
	b, ok := r.branches[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return b, nil
}

func (r *stubBranchRepo) ListByCompany(_ context.Context, companyID uuid.UUID) ([]model.Branch, error) {
	var out []model.Branch
	for _, b := range r.branches {
		if b.CompanyID == companyID && b.Active {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *stubBranchRepo) Update(_ context.Context, b *model.Branch) error {
	r.branches[b.ID] = b
	return nil
}

var _ repository.BranchRepository = (*stubBranchRepo)(nil)

// ── Companies ────────────────────────────────────────────────────────────────

type stubCompanyRepo struct {
	companies map[uuid.UUID]*model.Company
}

func newStubCompanyRepo() *stubCompanyRepo {
	return &stubCompanyRepo{companies: make(map[uuid.UUID]*model.Company)}
}

func (r *stubCompanyRepo) seed(name, rutStr, email string) *model.Company {
	c := &model.Company{ID: uuid.New(), Name: name, RUT: rutStr, Email: email}
	r.companies[c.ID] = c
	return c
}

func (r *stubCompanyRepo) Create(_ context.Context, c *model.Company) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.companies[c.ID] = c
	return nil
}

func (r *stubCompanyRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Company, error) {
	c, ok := r.companies[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (r *stubCompanyRepo) FindByRUT(_ context.Context, rutStr string) (*model.Company, error) {
	for _, c := range r.companies {
		if c.RUT == rutStr {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubCompanyRepo) List(_ context.Context) ([]model.Company, error) {
	out := make([]model.Company, 0, len(r.companies))
	for _, c := range r.companies {
		out = append(out, *c)
	}
	return out, nil
}

func (r *stubCompanyRepo) Update(_ context.Context, c *model.Company) error {
	r.companies[c.ID] = c
	return nil
}

func (r *stubCompanyRepo) CreateSubscription(_ context.Context, _ *model.Subscription) error {
	return nil
}

func (r *stubCompanyRepo) FindSubscriptionByCompany(_ context.Context, _ uuid.UUID) (*model.Subscription, error) {
	return nil, gorm.ErrRecordNotFound
}

func (r *stubCompanyRepo) DB() *gorm.DB { return nil }

var _ repository.CompanyRepository = (*stubCompanyRepo)(nil)

// ── Documents ────────────────────────────────────────────────────────────────

type stubPurchaseRepo struct {
	purchases []*model.Purchase
}

func (r *stubPurchaseRepo) CreateTx(_ *gorm.DB, p *model.Purchase) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.purchases = append(r.purchases, p)
	return nil
}

func (r *stubPurchaseRepo) FindByID(_ context.Context, companyID, id uuid.UUID) (*model.Purchase, error) {
	for _, p := range r.purchases {
		if p.ID == id && p.CompanyID == companyID {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubPurchaseRepo) ListByCompany(_ context.Context, companyID uuid.UUID) ([]model.Purchase, error) {
	var out []model.Purchase
	for _, p := range r.purchases {
		if p.CompanyID == companyID {
			out = append(out, *p)
		}
	}
	return out, nil
}

var _ repository.PurchaseRepository = (*stubPurchaseRepo)(nil)

type stubSaleRepo struct {
	sales []*model.Sale
}

func (r *stubSaleRepo) CreateTx(_ *gorm.DB, s *model.Sale) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.sales = append(r.sales, s)
	return nil
}

func (r *stubSaleRepo) FindByID(_ context.Context, companyID, id uuid.UUID) (*model.Sale, error) {
	for _, s := range r.sales {
		if s.ID == id && s.CompanyID == companyID {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubSaleRepo) ListByCompany(_ context.Context, companyID uuid.UUID) ([]model.Sale, error) {
	var out []model.Sale
	for _, s := range r.sales {
		if s.CompanyID == companyID {
			out = append(out, *s)
		}
	}
	return out, nil
}

var _ repository.SaleRepository = (*stubSaleRepo)(nil)

type stubOrderRepo struct {
	orders  map[uuid.UUID]*model.Order
	changes []*model.OrderStatusChange

	// readOverride, when set, is what FindByIDTx returns regardless of the
	// stored row. Models a transaction whose read snapshot predates another
	// transaction's commit.
	readOverride *model.Order
}

func newStubOrderRepo() *stubOrderRepo {
	return &stubOrderRepo{orders: make(map[uuid.UUID]*model.Order)}
}

func (r *stubOrderRepo) CreateTx(_ *gorm.DB, o *model.Order) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	r.orders[o.ID] = o
	return nil
}

func (r *stubOrderRepo) FindByID(_ context.Context, companyID, id uuid.UUID) (*model.Order, error) {
	o, ok := r.orders[id]
	if !ok || o.CompanyID != companyID {
		return nil, gorm.ErrRecordNotFound
	}
	return o, nil
}

func (r *stubOrderRepo) FindByIDTx(_ *gorm.DB, companyID, id uuid.UUID) (*model.Order, error) {
	if r.readOverride != nil && r.readOverride.ID == id {
		return r.readOverride, nil
	}
	return r.FindByID(context.Background(), companyID, id)
}

func (r *stubOrderRepo) ListByCompany(_ context.Context, companyID uuid.UUID, status string) ([]model.Order, error) {
	var out []model.Order
	for _, o := range r.orders {
		if o.CompanyID != companyID {
			continue
		}
		if status != "" && status != "all" && o.Status != status {
			continue
		}
		out = append(out, *o)
	}
	return out, nil
}

func (r *stubOrderRepo) UpdateStatusCASTx(_ *gorm.DB, id uuid.UUID, from, to string) (bool, error) {
	o, ok := r.orders[id]
	if !ok {
		return false, gorm.ErrRecordNotFound
	}
	if o.Status != from {
		return false, nil
	}
	o.Status = to
	return true, nil
}

func (r *stubOrderRepo) CreateStatusChangeTx(_ *gorm.DB, c *model.OrderStatusChange) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.changes = append(r.changes, c)
	return nil
}

func (r *stubOrderRepo) DB() *gorm.DB { return nil }

var _ repository.OrderRepository = (*stubOrderRepo)(nil)

// ── Cart ─────────────────────────────────────────────────────────────────────

// stubCartRepo resolves Product on reads from the attached product stub, the
// same way the GORM repo preloads it.
type stubCartRepo struct {
	items       map[uuid.UUID]*model.CartItem
	productRepo *stubProductRepo
}

func newStubCartRepo(products *stubProductRepo) *stubCartRepo {
	return &stubCartRepo{items: make(map[uuid.UUID]*model.CartItem), productRepo: products}
}

func (r *stubCartRepo) withProduct(item model.CartItem) model.CartItem {
	if r.productRepo != nil {
		if p, ok := r.productRepo.products[item.ProductID]; ok {
			item.Product = p
		}
	}
	return item
}

func (r *stubCartRepo) FindByUser(_ context.Context, userID uuid.UUID) ([]model.CartItem, error) {
	var out []model.CartItem
	for _, item := range r.items {
		if item.UserID != nil && *item.UserID == userID {
			out = append(out, r.withProduct(*item))
		}
	}
	return out, nil
}

func (r *stubCartRepo) FindBySession(_ context.Context, sessionKey string) ([]model.CartItem, error) {
	var out []model.CartItem
	for _, item := range r.items {
		if item.SessionKey != nil && *item.SessionKey == sessionKey {
			out = append(out, r.withProduct(*item))
		}
	}
	return out, nil
}

func (r *stubCartRepo) FindByUserTx(_ *gorm.DB, userID uuid.UUID) ([]model.CartItem, error) {
	return r.FindByUser(context.Background(), userID)
}

func (r *stubCartRepo) FindBySessionTx(_ *gorm.DB, sessionKey string) ([]model.CartItem, error) {
	return r.FindBySession(context.Background(), sessionKey)
}

func (r *stubCartRepo) FindUserItemTx(_ *gorm.DB, userID, productID uuid.UUID) (*model.CartItem, error) {
	for _, item := range r.items {
		if item.UserID != nil && *item.UserID == userID && item.ProductID == productID {
			return item, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubCartRepo) CreateTx(_ *gorm.DB, item *model.CartItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	r.items[item.ID] = item
	return nil
}

func (r *stubCartRepo) UpdateQuantityTx(_ *gorm.DB, id uuid.UUID, quantity int) error {
	item, ok := r.items[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	item.Quantity = quantity
	return nil
}

func (r *stubCartRepo) ReassignToUserTx(_ *gorm.DB, id, userID uuid.UUID) error {
	item, ok := r.items[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	uid := userID
	item.UserID = &uid
	item.SessionKey = nil
	return nil
}

func (r *stubCartRepo) DeleteTx(_ *gorm.DB, id uuid.UUID) error {
	delete(r.items, id)
	return nil
}

func (r *stubCartRepo) DeleteByUserTx(_ *gorm.DB, userID uuid.UUID) error {
	for id, item := range r.items {
		if item.UserID != nil && *item.UserID == userID {
			delete(r.items, id)
		}
	}
	return nil
}

func (r *stubCartRepo) DB() *gorm.DB { return nil }

var _ repository.CartRepository = (*stubCartRepo)(nil)

// ── Suppliers ────────────────────────────────────────────────────────────────

type stubSupplierRepo struct {
	suppliers map[uuid.UUID]*model.Supplier
}

func newStubSupplierRepo() *stubSupplierRepo {
	return &stubSupplierRepo{suppliers: make(map[uuid.UUID]*model.Supplier)}
}

func (r *stubSupplierRepo) Create(_ context.Context, s *model.Supplier) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.suppliers[s.ID] = s
	return nil
}

func (r *stubSupplierRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Supplier, error) {
	s, ok := r.suppliers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (r *stubSupplierRepo) ListByCompany(_ context.Context, companyID uuid.UUID) ([]model.Supplier, error) {
	var out []model.Supplier
	for _, s := range r.suppliers {
		if s.CompanyID == companyID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *stubSupplierRepo) Update(_ context.Context, s *model.Supplier) error {
	r.suppliers[s.ID] = s
	return nil
}

func (r *stubSupplierRepo) Delete(_ context.Context, companyID, id uuid.UUID) error {
	s, ok := r.suppliers[id]
	if !ok || s.CompanyID != companyID {
		return gorm.ErrRecordNotFound
	}
	delete(r.suppliers, id)
	return nil
}

var _ repository.SupplierRepository = (*stubSupplierRepo)(nil)
