package service

import (
	"context"
	"errors"
	"time"

	"github.com/ElenaG-E/temucosoft/internal/config"
	"github.com/ElenaG-E/temucosoft/internal/dto"
	"github.com/ElenaG-E/temucosoft/internal/model"
	"github.com/ElenaG-E/temucosoft/internal/repository"
	"github.com/ElenaG-E/temucosoft/internal/rut"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Claims embedded in every access token. CompanyID is empty for SUPER_ADMIN.
type Claims struct {
	UserID    string `json:"user_id"`
	Username  string `json:"username"`
	Role      string `json:"role"`
	CompanyID string `json:"company_id,omitempty"`
	jwt.RegisteredClaims
}

type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error)
	CreateUser(ctx context.Context, tenant TenantContext, req dto.CreateUserRequest) (*dto.UserResponse, error)
	ListUsers(ctx context.Context, tenant TenantContext, includeInactive bool) ([]dto.UserResponse, error)
	UpdateUser(ctx context.Context, tenant TenantContext, id uuid.UUID, req dto.UpdateUserRequest) (*dto.UserResponse, error)
	DeactivateUser(ctx context.Context, tenant TenantContext, id uuid.UUID) error
}

type authService struct {
	repo  repository.UserRepository
	carts CartService
	cfg   *config.Config
}

func NewAuthService(repo repository.UserRepository, carts CartService, cfg *config.Config) AuthService {
	return &authService{repo: repo, carts: carts, cfg: cfg}
}

// Login authenticates and, when the request carries an anonymous cart's
// session key, folds that cart into the user's cart before responding. Two
// tabs logging in at once race on the same user cart; the merge transaction
// keeps them from duplicating or dropping items.
func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.repo.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, errors.New("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, errors.New("invalid credentials")
	}

	if req.SessionKey != nil && *req.SessionKey != "" && s.carts != nil {
		if _, err := s.carts.MergeOnLogin(ctx, *req.SessionKey, user.ID); err != nil {
			return nil, err
		}
	}

	accessToken, err := s.generateToken(user, time.Duration(s.cfg.JWTExpirationHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.generateToken(user, time.Duration(s.cfg.JWTRefreshHours)*time.Hour)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         *userToResponse(user),
	}, nil
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(refreshToken, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid refresh token")
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, errors.New("invalid refresh token")
	}
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil || !user.Active {
		return nil, errors.New("invalid refresh token")
	}

	accessToken, err := s.generateToken(user, time.Duration(s.cfg.JWTExpirationHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	newRefresh, err := s.generateToken(user, time.Duration(s.cfg.JWTRefreshHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: newRefresh,
		User:         *userToResponse(user),
	}, nil
}

// CreateUser registers a user inside the caller's company. The RUT gate runs
// before any write; SUPER_ADMIN creation is reserved to other super admins.
func (s *authService) CreateUser(ctx context.Context, tenant TenantContext, req dto.CreateUserRequest) (*dto.UserResponse, error) {
	if req.Role == model.RoleSuperAdmin && tenant.Role != model.RoleSuperAdmin {
		return nil, errors.New("only a super admin may create super admins")
	}
	validRUT, err := rut.Validate(req.RUT)
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username:     req.Username,
		Email:        req.Email,
		RUT:          validRUT,
		PasswordHash: string(hash),
		Role:         req.Role,
		Active:       true,
	}
	if req.Role != model.RoleSuperAdmin {
		companyID := tenant.CompanyID
		user.CompanyID = &companyID
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return userToResponse(user), nil
}

func (s *authService) ListUsers(ctx context.Context, tenant TenantContext, includeInactive bool) ([]dto.UserResponse, error) {
	users, err := s.repo.ListByCompany(ctx, tenant.CompanyID, includeInactive)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, *userToResponse(&users[i]))
	}
	return out, nil
}

func (s *authService) UpdateUser(ctx context.Context, tenant TenantContext, id uuid.UUID, req dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	if user.CompanyID == nil || !tenant.Owns(*user.CompanyID) {
		return nil, ErrTenantMismatch
	}

	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.Role != nil {
		user.Role = *req.Role
	}
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
	}
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return userToResponse(user), nil
}

func (s *authService) DeactivateUser(ctx context.Context, tenant TenantContext, id uuid.UUID) error {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return ErrNotFound
	}
	if user.CompanyID == nil || !tenant.Owns(*user.CompanyID) {
		return ErrTenantMismatch
	}
	return s.repo.SetActive(ctx, id, false)
}

func (s *authService) generateToken(user *model.User, ttl time.Duration) (string, error) {
	claims := Claims{
		UserID:   user.ID.String(),
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	if user.CompanyID != nil {
		claims.CompanyID = user.CompanyID.String()
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func userToResponse(u *model.User) *dto.UserResponse {
	resp := &dto.UserResponse{
		ID:       u.ID.String(),
		Username: u.Username,
		Email:    u.Email,
		RUT:      u.RUT,
		Role:     u.Role,
		Active:   u.Active,
	}
	if u.CompanyID != nil {
		cid := u.CompanyID.String()
		resp.CompanyID = &cid
	}
	return resp
}
