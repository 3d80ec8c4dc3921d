package service

import (
	"context"
	"errors"

	"github.com/ElenaG-E/temucosoft/internal/dto"
	"github.com/ElenaG-E/temucosoft/internal/model"
	"github.com/ElenaG-E/temucosoft/internal/repository"
	"github.com/ElenaG-E/temucosoft/internal/rut"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SupplierService interface {
	Create(ctx context.Context, tenant TenantContext, req dto.CreateSupplierRequest) (*dto.SupplierResponse, error)
	List(ctx context.Context, tenant TenantContext) ([]dto.SupplierResponse, error)
	Update(ctx context.Context, tenant TenantContext, id uuid.UUID, req dto.CreateSupplierRequest) (*dto.SupplierResponse, error)
	Delete(ctx context.Context, tenant TenantContext, id uuid.UUID) error
}

type supplierService struct {
	repo repository.SupplierRepository
}

func NewSupplierService(repo repository.SupplierRepository) SupplierService {
	return &supplierService{repo: repo}
}

func (s *supplierService) Create(ctx context.Context, tenant TenantContext, req dto.CreateSupplierRequest) (*dto.SupplierResponse, error) {
	validRUT, err := rut.Validate(req.RUT)
	if err != nil {
		return nil, err
	}
	supplier := &model.Supplier{
		CompanyID: tenant.CompanyID,
		Name:      req.Name,
		RUT:       validRUT,
		Contact:   req.Contact,
	}
	if err := s.repo.Create(ctx, supplier); err != nil {
		return nil, err
	}
	return supplierToResponse(supplier), nil
}

func (s *supplierService) List(ctx context.Context, tenant TenantContext) ([]dto.SupplierResponse, error) {
	suppliers, err := s.repo.ListByCompany(ctx, tenant.CompanyID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SupplierResponse, 0, len(suppliers))
	for i := range suppliers {
		out = append(out, *supplierToResponse(&suppliers[i]))
	}
	return out, nil
}

func (s *supplierService) Update(ctx context.Context, tenant TenantContext, id uuid.UUID, req dto.CreateSupplierRequest) (*dto.SupplierResponse, error) {
	supplier, err := s.resolveOwned(ctx, tenant, id)
	if err != nil {
		return nil, err
	}
	validRUT, err := rut.Validate(req.RUT)
	if err != nil {
		return nil, err
	}
	supplier.Name = req.Name
	supplier.RUT = validRUT
	supplier.Contact = req.Contact
	if err := s.repo.Update(ctx, supplier); err != nil {
		return nil, err
	}
	return supplierToResponse(supplier), nil
}

func (s *supplierService) Delete(ctx context.Context, tenant TenantContext, id uuid.UUID) error {
	if _, err := s.resolveOwned(ctx, tenant, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, tenant.CompanyID, id)
}

func (s *supplierService) resolveOwned(ctx context.Context, tenant TenantContext, id uuid.UUID) (*model.Supplier, error) {
	supplier, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if !tenant.Owns(supplier.CompanyID) {
		return nil, ErrTenantMismatch
	}
	return supplier, nil
}

func supplierToResponse(s *model.Supplier) *dto.SupplierResponse {
	return &dto.SupplierResponse{
		ID:      s.ID.String(),
		Name:    s.Name,
		RUT:     s.RUT,
		Contact: s.Contact,
	}
}
