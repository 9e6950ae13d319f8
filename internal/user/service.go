package user

import (
	"context"
	"errors"
	"strings"

	"sneakerwears-be/internal/logger"
	"sneakerwears-be/internal/utils"

	"github.com/lib/pq"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const pgUniqueViolation = "23505"

type Service interface {
	Signup(ctx context.Context, params SignupParams) (*User, error)
	Authenticate(ctx context.Context, email, password string) (*User, error)
	GetProfile(ctx context.Context, userID string) (*User, error)
	UpdateProfile(ctx context.Context, userID string, params UpdateProfileParams) (*User, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Signup(ctx context.Context, params SignupParams) (*User, error) {
	if len(params.Password) < 8 || len(params.Name) < 2 || !strings.Contains(params.Email, "@") {
		return nil, ErrInvalidInput
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	u := &User{
		ID:           utils.GenerateID("user"),
		Name:         params.Name,
		Email:        strings.ToLower(strings.TrimSpace(params.Email)),
		PasswordHash: string(hash),
		Phone:        params.Phone,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == pgUniqueViolation {
			return nil, ErrEmailAlreadyExists
		}
		logger.FromCtx(ctx).Error("failed to create user", zap.Error(err))
		return nil, err
	}

	return u, nil
}

func (s *service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	u, err := s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, ErrUserNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	return u, nil
}

func (s *service) GetProfile(ctx context.Context, userID string) (*User, error) {
	return s.repo.GetByID(ctx, userID)
}

func (s *service) UpdateProfile(ctx context.Context, userID string, params UpdateProfileParams) (*User, error) {
	if params.Name != nil && len(*params.Name) < 2 {
		return nil, ErrInvalidInput
	}
	return s.repo.UpdateProfile(ctx, userID, params)
}
