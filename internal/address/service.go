package address

import (
	"context"

	"sneakerwears-be/internal/utils"
)

type Service interface {
	List(ctx context.Context, userID string) ([]*Address, error)
	Create(ctx context.Context, userID string, params CreateParams) (*Address, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) List(ctx context.Context, userID string) ([]*Address, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *service) Create(ctx context.Context, userID string, params CreateParams) (*Address, error) {
	if len(params.Street) < 5 || len(params.City) < 2 {
		return nil, ErrInvalidAddress
	}

	country := params.Country
	if country == "" {
		country = "Nigeria"
	}

	a := &Address{
		ID:         utils.GenerateID("addr"),
		UserID:     userID,
		Label:      params.Label,
		Street:     params.Street,
		City:       params.City,
		Region:     params.Region,
		Country:    country,
		PostalCode: params.PostalCode,
		Latitude:   params.Latitude,
		Longitude:  params.Longitude,
	}

	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}

	return a, nil
}
