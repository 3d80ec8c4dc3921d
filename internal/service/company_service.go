package service

import (
	"context"
	"errors"
	"time"

	"github.com/ElenaG-E/temucosoft/internal/dto"
	"github.com/ElenaG-E/temucosoft/internal/model"
	"github.com/ElenaG-E/temucosoft/internal/repository"
	"github.com/ElenaG-E/temucosoft/internal/rut"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CompanyService manages tenants and their subscriptions. Only SUPER_ADMIN
// reaches these routes (enforced by middleware); the RUT gate runs here.
type CompanyService interface {
	Create(ctx context.Context, req dto.CreateCompanyRequest) (*dto.CompanyResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.CompanyResponse, error)
	List(ctx context.Context) ([]dto.CompanyResponse, error)
	Subscribe(ctx context.Context, companyID uuid.UUID, req dto.CreateSubscriptionRequest) (*dto.SubscriptionResponse, error)
}

type companyService struct {
	repo repository.CompanyRepository
}

func NewCompanyService(repo repository.CompanyRepository) CompanyService {
	return &companyService{repo: repo}
}

func (s *companyService) Create(ctx context.Context, req dto.CreateCompanyRequest) (*dto.CompanyResponse, error) {
	validRUT, err := rut.Validate(req.RUT)
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.FindByRUT(ctx, validRUT); err == nil {
		return nil, errors.New("a company with that RUT already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	company := &model.Company{
		Name:  req.Name,
		RUT:   validRUT,
		Email: req.Email,
		Phone: req.Phone,
	}
	if err := s.repo.Create(ctx, company); err != nil {
		return nil, err
	}
	return companyToResponse(company), nil
}

func (s *companyService) Get(ctx context.Context, id uuid.UUID) (*dto.CompanyResponse, error) {
	company, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return companyToResponse(company), nil
}

func (s *companyService) List(ctx context.Context) ([]dto.CompanyResponse, error) {
	companies, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CompanyResponse, 0, len(companies))
	for i := range companies {
		out = append(out, *companyToResponse(&companies[i]))
	}
	return out, nil
}

// Subscribe attaches a plan. End must fall after start — same rule the
// billing backoffice applies manually.
func (s *companyService) Subscribe(ctx context.Context, companyID uuid.UUID, req dto.CreateSubscriptionRequest) (*dto.SubscriptionResponse, error) {
	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return nil, err
	}
	if !end.After(start) {
		return nil, errors.New("subscription end date must be after the start date")
	}
	if _, err := s.repo.FindByID(ctx, companyID); err != nil {
		return nil, ErrNotFound
	}

	sub := &model.Subscription{
		CompanyID: companyID,
		PlanName:  req.PlanName,
		StartDate: start,
		EndDate:   end,
		Active:    true,
	}
	if err := s.repo.CreateSubscription(ctx, sub); err != nil {
		return nil, err
	}
	return subscriptionToResponse(sub), nil
}

func companyToResponse(c *model.Company) *dto.CompanyResponse {
	resp := &dto.CompanyResponse{
		ID:      c.ID.String(),
		Name:    c.Name,
		RUT:     c.RUT,
		Email:   c.Email,
		Phone:   c.Phone,
		Created: c.CreatedAt.Format(time.RFC3339),
	}
	if c.Subscription != nil {
		resp.Plan = subscriptionToResponse(c.Subscription)
	}
	return resp
}

func subscriptionToResponse(s *model.Subscription) *dto.SubscriptionResponse {
	return &dto.SubscriptionResponse{
		PlanName:  s.PlanName,
		StartDate: s.StartDate.Format("2006-01-02"),
		EndDate:   s.EndDate.Format("2006-01-02"),
		Active:    s.Active,
	}
}
