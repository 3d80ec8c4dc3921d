package repository

import (
	"context"

	"github.com/ElenaG-E/temucosoft/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CompanyRepository is the data access contract for tenants and their
// subscriptions. Services depend on this interface, not on the concrete GORM
// implementation, enabling clean unit testing via stubs.
type CompanyRepository interface {
	Create(ctx context.Context, c *model.Company) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Company, error)
	FindByRUT(ctx context.Context, rut string) (*model.Company, error)
	List(ctx context.Context) ([]model.Company, error)
	Update(ctx context.Context, c *model.Company) error

	CreateSubscription(ctx context.Context, s *model.Subscription) error
	FindSubscriptionByCompany(ctx context.Context, companyID uuid.UUID) (*model.Subscription, error)

	DB() *gorm.DB
}

type companyRepo struct{ db *gorm.DB }

func NewCompanyRepository(db *gorm.DB) CompanyRepository { return &companyRepo{db: db} }

func (r *companyRepo) Create(ctx context.Context, c *model.Company) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *companyRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Company, error) {
	var c model.Company
	err := r.db.WithContext(ctx).Preload("Subscription").First(&c, "id = ?", id).Error
	return &c, err
}

func (r *companyRepo) FindByRUT(ctx context.Context, rut string) (*model.Company, error) {
	var c model.Company
	err := r.db.WithContext(ctx).Where("rut = ?", rut).First(&c).Error
	return &c, err
}

func (r *companyRepo) List(ctx context.Context) ([]model.Company, error) {
	var companies []model.Company
	err := r.db.WithContext(ctx).Preload("Subscription").Order("name ASC").Find(&companies).Error
	return companies, err
}

func (r *companyRepo) Update(ctx context.Context, c *model.Company) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *companyRepo) CreateSubscription(ctx context.Context, s *model.Subscription) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *companyRepo) FindSubscriptionByCompany(ctx context.Context, companyID uuid.UUID) (*model.Subscription, error) {
	var s model.Subscription
	err := r.db.WithContext(ctx).Where("company_id = ?", companyID).First(&s).Error
	return &s, err
}

func (r *companyRepo) DB() *gorm.DB { return r.db }
