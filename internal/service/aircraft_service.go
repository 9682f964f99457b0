package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/Andriiy/slotroster-api/internal/domain"
	"github.com/Andriiy/slotroster-api/internal/repository"
)

type AircraftService struct {
	aircraftRepo repository.AircraftRepository
	clubRepo     repository.AirClubRepository
	profileRepo  repository.ProfileRepository
}

type CreateAircraftRequest struct {
	AirClubID    uuid.UUID `json:"air_club_id" validate:"required"`
	Registration string    `json:"registration" validate:"required,min=3,max=10"`
	Type         string    `json:"type" validate:"required,min=2,max=100"`
	Seats        int       `json:"seats" validate:"required,min=1,max=20"`
}

func NewAircraftService(
	aircraftRepo repository.AircraftRepository,
	clubRepo repository.AirClubRepository,
	profileRepo repository.ProfileRepository,
) *AircraftService {
	return &AircraftService{
		aircraftRepo: aircraftRepo,
		clubRepo:     clubRepo,
		profileRepo:  profileRepo,
	}
}

func (s *AircraftService) ListByAirClub(ctx context.Context, airClubID uuid.UUID) ([]*domain.Aircraft, error) {
	return s.aircraftRepo.ListByAirClub(ctx, airClubID)
}

// Create adds an aircraft to the club. The caller must own the club or hold
// a profile in it. The plan ceiling is not checked here; the dashboard asks
// the trial endpoint before offering the form.
func (s *AircraftService) Create(ctx context.Context, userID uuid.UUID, req CreateAircraftRequest) (*domain.Aircraft, error) {
	club, err := s.clubRepo.GetByID(ctx, req.AirClubID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrClubNotFound
		}
		return nil, err
	}

	if club.CreatedBy != userID {
		member, err := s.isMember(ctx, userID, club.ID)
		if err != nil {
			return nil, err
		}
		if !member {
			return nil, ErrAccessDenied
		}
	}

	aircraft := &domain.Aircraft{
		ID:           uuid.New(),
		AirClubID:    req.AirClubID,
		Registration: req.Registration,
		Type:         req.Type,
		Seats:        req.Seats,
		CreatedAt:    time.Now(),
	}

	if err := s.aircraftRepo.Create(ctx, aircraft); err != nil {
		return nil, err
	}

	return aircraft, nil
}

func (s *AircraftService) Delete(ctx context.Context, userID, airClubID, aircraftID uuid.UUID) error {
	club, err := s.clubRepo.GetByID(ctx, airClubID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrClubNotFound
		}
		return err
	}

	if club.CreatedBy != userID {
		return ErrAccessDenied
	}

	return s.aircraftRepo.Delete(ctx, aircraftID)
}

func (s *AircraftService) isMember(ctx context.Context, userID, airClubID uuid.UUID) (bool, error) {
	clubIDs, err := s.profileRepo.AirClubIDsForUser(ctx, userID)
	if err != nil {
		return false, err
	}
	for _, id := range clubIDs {
		if id == airClubID {
			return true, nil
		}
	}
	return false, nil
}
