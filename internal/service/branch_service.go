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

type BranchService interface {
	Create(ctx context.Context, tenant TenantContext, req dto.CreateBranchRequest) (*dto.BranchResponse, error)
	List(ctx context.Context, tenant TenantContext) ([]dto.BranchResponse, error)
	Update(ctx context.Context, tenant TenantContext, id uuid.UUID, req dto.CreateBranchRequest) (*dto.BranchResponse, error)
	Deactivate(ctx context.Context, tenant TenantContext, id uuid.UUID) error
}

type branchService struct {
	repo repository.BranchRepository
}

func NewBranchService(repo repository.BranchRepository) BranchService {
	return &branchService{repo: repo}
}

func (s *branchService) Create(ctx context.Context, tenant TenantContext, req dto.CreateBranchRequest) (*dto.BranchResponse, error) {
	b := &model.Branch{
		CompanyID: tenant.CompanyID,
		Name:      req.Name,
		Address:   req.Address,
		Phone:     req.Phone,
		Active:    true,
	}
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}
	return branchToResponse(b), nil
}

func (s *branchService) List(ctx context.Context, tenant TenantContext) ([]dto.BranchResponse, error) {
	branches, err := s.repo.ListByCompany(ctx, tenant.CompanyID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.BranchResponse, 0, len(branches))
	for i := range branches {
		out = append(out, *branchToResponse(&branches[i]))
	}
	return out, nil
}

func (s *branchService) Update(ctx context.Context, tenant TenantContext, id uuid.UUID, req dto.CreateBranchRequest) (*dto.BranchResponse, error) {
	b, err := s.resolveOwned(ctx, tenant, id)
	if err != nil {
		return nil, err
	}
	b.Name = req.Name
	b.Address = req.Address
	b.Phone = req.Phone
	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}
	return branchToResponse(b), nil
}

func (s *branchService) Deactivate(ctx context.Context, tenant TenantContext, id uuid.UUID) error {
	b, err := s.resolveOwned(ctx, tenant, id)
	if err != nil {
		return err
	}
	b.Active = false
	return s.repo.Update(ctx, b)
}

func (s *branchService) resolveOwned(ctx context.Context, tenant TenantContext, id uuid.UUID) (*model.Branch, error) {
	b, err := s.repo.FindByID(ctx, id)
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

func branchToResponse(b *model.Branch) *dto.BranchResponse {
	return &dto.BranchResponse{
		ID:      b.ID.String(),
		Name:    b.Name,
		Address: b.Address,
		Phone:   b.Phone,
		Active:  b.Active,
	}
}
