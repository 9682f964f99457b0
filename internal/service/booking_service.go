package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/Andriiy/slotroster-api/internal/domain"
	"github.com/Andriiy/slotroster-api/internal/repository"
)

var ErrInvalidTimeWindow = errors.New("starts_at must be before ends_at")

type BookingService struct {
	bookingRepo repository.BookingRepository
	clubRepo    repository.AirClubRepository
	profileRepo repository.ProfileRepository
}

type CreateBookingRequest struct {
	AirClubID  uuid.UUID `json:"air_club_id" validate:"required"`
	AircraftID uuid.UUID `json:"aircraft_id" validate:"required"`
	ProfileID  uuid.UUID `json:"profile_id" validate:"required"`
	StartsAt   time.Time `json:"starts_at" validate:"required"`
	EndsAt     time.Time `json:"ends_at" validate:"required"`
	Notes      *string   `json:"notes,omitempty"`
}

func NewBookingService(
	bookingRepo repository.BookingRepository,
	clubRepo repository.AirClubRepository,
	profileRepo repository.ProfileRepository,
) *BookingService {
	return &BookingService{
		bookingRepo: bookingRepo,
		clubRepo:    clubRepo,
		profileRepo: profileRepo,
	}
}

func (s *BookingService) ListByAirClub(ctx context.Context, airClubID uuid.UUID) ([]*domain.Booking, error) {
	return s.bookingRepo.ListByAirClub(ctx, airClubID)
}

func (s *BookingService) Create(ctx context.Context, userID uuid.UUID, req CreateBookingRequest) (*domain.Booking, error) {
	if !req.StartsAt.Before(req.EndsAt) {
		return nil, ErrInvalidTimeWindow
	}

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

	booking := &domain.Booking{
		ID:         uuid.New(),
		AirClubID:  req.AirClubID,
		AircraftID: req.AircraftID,
		ProfileID:  req.ProfileID,
		StartsAt:   req.StartsAt,
		EndsAt:     req.EndsAt,
		Notes:      req.Notes,
		CreatedAt:  time.Now(),
	}

	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		return nil, err
	}

	return booking, nil
}

func (s *BookingService) Delete(ctx context.Context, userID, bookingID uuid.UUID) error {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return repository.ErrNotFound
		}
		return err
	}

	club, err := s.clubRepo.GetByID(ctx, booking.AirClubID)
	if err != nil {
		return err
	}

	// Owners can delete any booking, members only their own
	if club.CreatedBy != userID {
		profile, err := s.profileRepo.GetByUserID(ctx, userID)
		if err != nil || profile.ID != booking.ProfileID {
			return ErrAccessDenied
		}
	}

	return s.bookingRepo.Delete(ctx, bookingID)
}

func (s *BookingService) isMember(ctx context.Context, userID, airClubID uuid.UUID) (bool, error) {
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
