package repository

import (
	"context"

	"github.com/ElenaG-E/temucosoft/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Document repositories. Purchases and sales are append-only; orders also
// mutate status and accumulate an audit trail.

type PurchaseRepository interface {
	CreateTx(tx *gorm.DB, p *model.Purchase) error
	FindByID(ctx context.Context, companyID, id uuid.UUID) (*model.Purchase, error)
	ListByCompany(ctx context.Context, companyID uuid.UUID) ([]model.Purchase, error)
}

type purchaseRepo struct{ db *gorm.DB }

func NewPurchaseRepository(db *gorm.DB) PurchaseRepository { return &purchaseRepo{db: db} }

func (r *purchaseRepo) CreateTx(tx *gorm.DB, p *model.Purchase) error {
	return tx.Create(p).Error
}

func (r *purchaseRepo) FindByID(ctx context.Context, companyID, id uuid.UUID) (*model.Purchase, error) {
	var p model.Purchase
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Preload("Items").Preload("Items.Product").Preload("Supplier").
		First(&p, "id = ?", id).Error
	return &p, err
}

func (r *purchaseRepo) ListByCompany(ctx context.Context, companyID uuid.UUID) ([]model.Purchase, error) {
	var purchases []model.Purchase
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Preload("Items").
		Order("purchase_date DESC").Find(&purchases).Error
	return purchases, err
}

type SaleRepository interface {
	CreateTx(tx *gorm.DB, s *model.Sale) error
	FindByID(ctx context.Context, companyID, id uuid.UUID) (*model.Sale, error)
	ListByCompany(ctx context.Context, companyID uuid.UUID) ([]model.Sale, error)
}

type saleRepo struct{ db *gorm.DB }

func NewSaleRepository(db *gorm.DB) SaleRepository { return &saleRepo{db: db} }

func (r *saleRepo) CreateTx(tx *gorm.DB, s *model.Sale) error {
	return tx.Create(s).Error
}

func (r *saleRepo) FindByID(ctx context.Context, companyID, id uuid.UUID) (*model.Sale, error) {
	var s model.Sale
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Preload("Items").Preload("Items.Product").
		First(&s, "id = ?", id).Error
	return &s, err
}

func (r *saleRepo) ListByCompany(ctx context.Context, companyID uuid.UUID) ([]model.Sale, error) {
	var sales []model.Sale
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Preload("Items").
		Order("sold_at DESC").Find(&sales).Error
	return sales, err
}

type OrderRepository interface {
	CreateTx(tx *gorm.DB, o *model.Order) error
	FindByID(ctx context.Context, companyID, id uuid.UUID) (*model.Order, error)
	FindByIDTx(tx *gorm.DB, companyID, id uuid.UUID) (*model.Order, error)
	ListByCompany(ctx context.Context, companyID uuid.UUID, status string) ([]model.Order, error)
	UpdateStatusCASTx(tx *gorm.DB, id uuid.UUID, from, to string) (bool, error)
	CreateStatusChangeTx(tx *gorm.DB, c *model.OrderStatusChange) error

	DB() *gorm.DB
}

type orderRepo struct{ db *gorm.DB }

func NewOrderRepository(db *gorm.DB) OrderRepository { return &orderRepo{db: db} }

func (r *orderRepo) CreateTx(tx *gorm.DB, o *model.Order) error {
	return tx.Create(o).Error
}

func (r *orderRepo) FindByID(ctx context.Context, companyID, id uuid.UUID) (*model.Order, error) {
	var o model.Order
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Preload("Items").Preload("Items.Product").Preload("Changes").
		First(&o, "id = ?", id).Error
	return &o, err
}

func (r *orderRepo) FindByIDTx(tx *gorm.DB, companyID, id uuid.UUID) (*model.Order, error) {
	var o model.Order
	err := tx.Where("company_id = ?", companyID).
		Preload("Items").
		First(&o, "id = ?", id).Error
	return &o, err
}

func (r *orderRepo) ListByCompany(ctx context.Context, companyID uuid.UUID, status string) ([]model.Order, error) {
	q := r.db.WithContext(ctx).Where("company_id = ?", companyID)
	if status != "" && status != "all" {
		q = q.Where("status = ?", status)
	}
	var orders []model.Order
	err := q.Preload("Items").Order("created_at DESC").Find(&orders).Error
	return orders, err
}

// UpdateStatusCASTx flips the status only if the row still holds the status
// the caller read. Zero rows affected means a concurrent transition committed
// first; the caller must treat its read as stale.
func (r *orderRepo) UpdateStatusCASTx(tx *gorm.DB, id uuid.UUID, from, to string) (bool, error) {
	res := tx.Model(&model.Order{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	return res.RowsAffected == 1, res.Error
}

func (r *orderRepo) CreateStatusChangeTx(tx *gorm.DB, c *model.OrderStatusChange) error {
	return tx.Create(c).Error
}

func (r *orderRepo) DB() *gorm.DB { return r.db }
