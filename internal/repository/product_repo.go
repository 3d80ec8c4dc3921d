package repository

import (
	"context"

	"github.com/ElenaG-E/temucosoft/internal/dto"
	"github.com/ElenaG-E/temucosoft/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductRepository interface {
	Create(ctx context.Context, p *model.Product) error
	// FindByID is deliberately NOT tenant-scoped: the service layer compares
	// CompanyID itself so it can distinguish a cross-tenant reference from a
	// product that simply does not exist.
	FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Product, error)
	FindBySKU(ctx context.Context, companyID uuid.UUID, sku string) (*model.Product, error)
	FindBySKUAnyCompany(ctx context.Context, sku string) (*model.Product, error)
	List(ctx context.Context, companyID uuid.UUID, filter dto.ProductFilter) ([]model.Product, int64, error)
	Update(ctx context.Context, p *model.Product) error
	SetActive(ctx context.Context, companyID, id uuid.UUID, active bool) error
	// ReferencedByDocuments reports whether any purchase/sale/order item
	// points at the product — such products must never be hard-deleted.
	ReferencedByDocuments(ctx context.Context, id uuid.UUID) (bool, error)
	Delete(ctx context.Context, companyID, id uuid.UUID) error

	DB() *gorm.DB
}

type productRepo struct{ db *gorm.DB }

func NewProductRepository(db *gorm.DB) ProductRepository { return &productRepo{db: db} }

func (r *productRepo) Create(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	return &p, err
}

func (r *productRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Product, error) {
	var p model.Product
	err := tx.First(&p, "id = ?", id).Error
	return &p, err
}

func (r *productRepo) FindBySKU(ctx context.Context, companyID uuid.UUID, sku string) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).Where("company_id = ? AND sku = ?", companyID, sku).First(&p).Error
	return &p, err
}

func (r *productRepo) FindBySKUAnyCompany(ctx context.Context, sku string) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).Where("sku = ? AND active = true", sku).First(&p).Error
	return &p, err
}

func (r *productRepo) List(ctx context.Context, companyID uuid.UUID, filter dto.ProductFilter) ([]model.Product, int64, error) {
	var products []model.Product
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Product{}).Where("company_id = ?", companyID)

	switch filter.Active {
	case "false":
		q = q.Where("active = false")
	case "all":
		// no filter
	default:
		q = q.Where("active = true")
	}
	if filter.SKU != "" {
		q = q.Where("sku = ?", filter.SKU)
	}
	if filter.Name != "" {
		q = q.Where("name ILIKE ?", "%"+filter.Name+"%")
	}
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("name ASC").Limit(filter.Limit).Offset(offset).Find(&products).Error
	return products, total, err
}

func (r *productRepo) Update(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *productRepo) SetActive(ctx context.Context, companyID, id uuid.UUID, active bool) error {
	return r.db.WithContext(ctx).Model(&model.Product{}).
		Where("id = ? AND company_id = ?", id, companyID).
		Update("active", active).Error
}

func (r *productRepo) ReferencedByDocuments(ctx context.Context, id uuid.UUID) (bool, error) {
	for _, m := range []interface{}{&model.PurchaseItem{}, &model.SaleItem{}, &model.OrderItem{}} {
		var n int64
		if err := r.db.WithContext(ctx).Model(m).Where("product_id = ?", id).Count(&n).Error; err != nil {
			return false, err
		}
		if n > 0 {
			return true, nil
		}
	}
	return false, nil
}

func (r *productRepo) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ? AND company_id = ?", id, companyID).
		Delete(&model.Product{}).Error
}

func (r *productRepo) DB() *gorm.DB { return r.db }
