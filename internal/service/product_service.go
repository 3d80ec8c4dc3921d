package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/ElenaG-E/temucosoft/internal/dto"
	"github.com/ElenaG-E/temucosoft/internal/model"
	"github.com/ElenaG-E/temucosoft/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const priceCacheTTL = 5 * time.Minute

type ProductService interface {
	Create(ctx context.Context, tenant TenantContext, req dto.CreateProductRequest) (*dto.ProductResponse, error)
	Get(ctx context.Context, tenant TenantContext, id uuid.UUID) (*dto.ProductResponse, error)
	List(ctx context.Context, tenant TenantContext, filter dto.ProductFilter) (*dto.ProductListResponse, error)
	Update(ctx context.Context, tenant TenantContext, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error)
	Deactivate(ctx context.Context, tenant TenantContext, id uuid.UUID) error
	// Delete hard-deletes a product, but only when no historical document
	// references it — documents must keep resolving their snapshots.
	Delete(ctx context.Context, tenant TenantContext, id uuid.UUID) error
	// LookupPrice serves the public price check, cache-first.
	LookupPrice(ctx context.Context, sku string) (*dto.PriceLookupResponse, error)
}

type productService struct {
	repo repository.ProductRepository
	rdb  *redis.Client
}

func NewProductService(repo repository.ProductRepository, rdb *redis.Client) ProductService {
	return &productService{repo: repo, rdb: rdb}
}

func (s *productService) Create(ctx context.Context, tenant TenantContext, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if req.Price.IsNegative() || req.Cost.IsNegative() {
		return nil, errors.New("price and cost must not be negative")
	}
	if _, err := s.repo.FindBySKU(ctx, tenant.CompanyID, req.SKU); err == nil {
		return nil, errors.New("a product with that SKU already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	p := &model.Product{
		CompanyID:   tenant.CompanyID,
		SKU:         req.SKU,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Cost:        req.Cost,
		Category:    req.Category,
		Active:      true,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return productToResponse(p), nil
}

func (s *productService) Get(ctx context.Context, tenant TenantContext, id uuid.UUID) (*dto.ProductResponse, error) {
	p, err := s.resolveOwned(ctx, tenant, id)
	if err != nil {
		return nil, err
	}
	return productToResponse(p), nil
}

func (s *productService) List(ctx context.Context, tenant TenantContext, filter dto.ProductFilter) (*dto.ProductListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	products, total, err := s.repo.List(ctx, tenant.CompanyID, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		data = append(data, *productToResponse(&products[i]))
	}
	return &dto.ProductListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *productService) Update(ctx context.Context, tenant TenantContext, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	p, err := s.resolveOwned(ctx, tenant, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Description != nil {
		p.Description = req.Description
	}
	if req.Price != nil {
		if req.Price.IsNegative() {
			return nil, errors.New("price must not be negative")
		}
		p.Price = *req.Price
	}
	if req.Cost != nil {
		if req.Cost.IsNegative() {
			return nil, errors.New("cost must not be negative")
		}
		p.Cost = *req.Cost
	}
	if req.Category != nil {
		p.Category = *req.Category
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	s.invalidatePriceCache(ctx, p.SKU)
	return productToResponse(p), nil
}

func (s *productService) Deactivate(ctx context.Context, tenant TenantContext, id uuid.UUID) error {
	p, err := s.resolveOwned(ctx, tenant, id)
	if err != nil {
		return err
	}
	if err := s.repo.SetActive(ctx, tenant.CompanyID, id, false); err != nil {
		return err
	}
	s.invalidatePriceCache(ctx, p.SKU)
	return nil
}

func (s *productService) Delete(ctx context.Context, tenant TenantContext, id uuid.UUID) error {
	p, err := s.resolveOwned(ctx, tenant, id)
	if err != nil {
		return err
	}
	referenced, err := s.repo.ReferencedByDocuments(ctx, id)
	if err != nil {
		return err
	}
	if referenced {
		return ErrProductReferenced
	}
	if err := s.repo.Delete(ctx, tenant.CompanyID, id); err != nil {
		return err
	}
	s.invalidatePriceCache(ctx, p.SKU)
	return nil
}

func (s *productService) LookupPrice(ctx context.Context, sku string) (*dto.PriceLookupResponse, error) {
	cacheKey := "price:" + sku

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var resp dto.PriceLookupResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return &resp, nil
			}
		}
	}

	p, err := s.repo.FindBySKUAnyCompany(ctx, sku)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	resp := &dto.PriceLookupResponse{SKU: p.SKU, Name: p.Name, Price: p.Price}
	if s.rdb != nil {
		if data, err := json.Marshal(resp); err == nil {
			if err := s.rdb.Set(ctx, cacheKey, data, priceCacheTTL).Err(); err != nil {
				log.Warn().Err(err).Str("sku", sku).Msg("price cache write failed")
			}
		}
	}
	return resp, nil
}

func (s *productService) resolveOwned(ctx context.Context, tenant TenantContext, id uuid.UUID) (*model.Product, error) {
	p, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if !tenant.Owns(p.CompanyID) {
		return nil, ErrTenantMismatch
	}
	return p, nil
}

func (s *productService) invalidatePriceCache(ctx context.Context, sku string) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, "price:"+sku).Err(); err != nil {
		log.Warn().Err(err).Str("sku", sku).Msg("price cache invalidation failed")
	}
}

func productToResponse(p *model.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:          p.ID.String(),
		SKU:         p.SKU,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Cost:        p.Cost,
		Category:    p.Category,
		Active:      p.Active,
	}
}
