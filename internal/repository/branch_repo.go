package repository

import (
	"context"

	"github.com/ElenaG-E/temucosoft/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BranchRepository interface {
	Create(ctx context.Context, b *model.Branch) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Branch, error)
	ListByCompany(ctx context.Context, companyID uuid.UUID) ([]model.Branch, error)
	Update(ctx context.Context, b *model.Branch) error
}

type branchRepo struct{ db *gorm.DB }

func NewBranchRepository(db *gorm.DB) BranchRepository { return &branchRepo{db: db} }

func (r *branchRepo) Create(ctx context.Context, b *model.Branch) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *branchRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Branch, error) {
	var b model.Branch
	err := r.db.WithContext(ctx).First(&b, "id = ?", id).Error
	return &b, err
}

func (r *branchRepo) ListByCompany(ctx context.Context, companyID uuid.UUID) ([]model.Branch, error) {
	var branches []model.Branch
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND active = true", companyID).
		Order("name ASC").Find(&branches).Error
	return branches, err
}

func (r *branchRepo) Update(ctx context.Context, b *model.Branch) error {
	return r.db.WithContext(ctx).Save(b).Error
}
