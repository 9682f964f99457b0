package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Andriiy/slotroster-api/internal/domain"
	"github.com/Andriiy/slotroster-api/internal/repository"
)

// Custom errors
var (
	ErrClubNotFound = errors.New("air club not found")
	ErrAccessDenied = errors.New("access denied")
	ErrInvalidInput = errors.New("invalid input")
)

type AirClubService struct {
	clubRepo    repository.AirClubRepository
	profileRepo repository.ProfileRepository
}

type CreateAirClubRequest struct {
	Name        string  `json:"name" validate:"required,min=2,max=200"`
	Email       string  `json:"email" validate:"required,email"`
	Airport     string  `json:"airport" validate:"required,min=3,max=10"`
	Address     *string `json:"address,omitempty"`
	Phone       *string `json:"phone,omitempty"`
	Description *string `json:"description,omitempty"`
	Website     *string `json:"website,omitempty" validate:"omitempty,url"`
}

type UpdateAirClubRequest struct {
	Name        string  `json:"name" validate:"required,min=2,max=200"`
	Email       string  `json:"email" validate:"required,email"`
	Airport     string  `json:"airport" validate:"required,min=3,max=10"`
	Address     *string `json:"address,omitempty"`
	Phone       *string `json:"phone,omitempty"`
	Description *string `json:"description,omitempty"`
	Website     *string `json:"website,omitempty" validate:"omitempty,url"`
}

func NewAirClubService(clubRepo repository.AirClubRepository, profileRepo repository.ProfileRepository) *AirClubService {
	return &AirClubService{
		clubRepo:    clubRepo,
		profileRepo: profileRepo,
	}
}

// ListForUser returns every club the user owns or is a member of, newest
// first, without duplicates.
func (s *AirClubService) ListForUser(ctx context.Context, userID uuid.UUID) ([]*domain.AirClub, error) {
	memberOf, err := s.profileRepo.AirClubIDsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	return s.clubRepo.ListAccessible(ctx, userID, memberOf)
}

// ListMembers returns the club roster.
func (s *AirClubService) ListMembers(ctx context.Context, airClubID uuid.UUID) ([]*domain.Profile, error) {
	return s.profileRepo.ListByAirClub(ctx, airClubID)
}

func (s *AirClubService) GetByID(ctx context.Context, id uuid.UUID) (*domain.AirClub, error) {
	club, err := s.clubRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrClubNotFound
		}
		return nil, err
	}
	return club, nil
}

func (s *AirClubService) Create(ctx context.Context, userID uuid.UUID, req CreateAirClubRequest) (*domain.AirClub, error) {
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Email) == "" || strings.TrimSpace(req.Airport) == "" {
		return nil, ErrInvalidInput
	}

	now := time.Now()
	club := &domain.AirClub{
		ID:                 uuid.New(),
		Name:               req.Name,
		Email:              req.Email,
		Airport:            strings.ToUpper(req.Airport),
		Address:            req.Address,
		Phone:              req.Phone,
		Description:        req.Description,
		Website:            req.Website,
		PlanName:           domain.DefaultPlanName,
		SubscriptionStatus: domain.SubscriptionStatusInactive,
		AircraftLimit:      1,
		CreatedBy:          userID,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := s.clubRepo.Create(ctx, club); err != nil {
		return nil, err
	}

	return club, nil
}

// Update is owner-only: a missing club yields ErrClubNotFound, a club owned
// by someone else yields ErrAccessDenied without touching the row.
func (s *AirClubService) Update(ctx context.Context, userID, clubID uuid.UUID, req UpdateAirClubRequest) (*domain.AirClub, error) {
	club, err := s.clubRepo.GetByID(ctx, clubID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrClubNotFound
		}
		return nil, err
	}

	if club.CreatedBy != userID {
		return nil, ErrAccessDenied
	}

	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Email) == "" || strings.TrimSpace(req.Airport) == "" {
		return nil, ErrInvalidInput
	}

	club.Name = req.Name
	club.Email = req.Email
	club.Airport = strings.ToUpper(req.Airport)
	club.Address = req.Address
	club.Phone = req.Phone
	club.Description = req.Description
	club.Website = req.Website
	club.UpdatedAt = time.Now()

	if err := s.clubRepo.Update(ctx, club); err != nil {
		return nil, err
	}

	return club, nil
}

func (s *AirClubService) Delete(ctx context.Context, userID, clubID uuid.UUID) error {
	club, err := s.clubRepo.GetByID(ctx, clubID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrClubNotFound
		}
		return err
	}

	if club.CreatedBy != userID {
		return ErrAccessDenied
	}

	return s.clubRepo.Delete(ctx, clubID)
}
