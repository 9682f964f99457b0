package service

import (
	"context"
	"errors"
	"log"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Andriiy/slotroster-api/internal/config"
	"github.com/Andriiy/slotroster-api/internal/domain"
	"github.com/Andriiy/slotroster-api/internal/repository"
)

type TrialService struct {
	clubRepo     repository.AirClubRepository
	aircraftRepo repository.AircraftRepository
	cfg          config.TrialConfig
}

type StartTrialRequest struct {
	AirClubID     uuid.UUID `json:"air_club_id" validate:"required"`
	PlanName      string    `json:"plan_name" validate:"required"`
	AircraftLimit int       `json:"aircraft_limit"`
}

type TrialStatus struct {
	AirClub        *domain.AirClub `json:"air_club"`
	DaysRemaining  int             `json:"days_remaining"`
	CanAddAircraft bool            `json:"can_add_aircraft"`
	IsTrialActive  bool            `json:"is_trial_active"`
}

func NewTrialService(clubRepo repository.AirClubRepository, aircraftRepo repository.AircraftRepository, cfg config.TrialConfig) *TrialService {
	return &TrialService{
		clubRepo:     clubRepo,
		aircraftRepo: aircraftRepo,
		cfg:          cfg,
	}
}

// Start opens the trial window on the club: now until now plus the configured
// duration (30 days), unlimited aircraft, status "trialing".
func (s *TrialService) Start(ctx context.Context, req StartTrialRequest) (*domain.AirClub, error) {
	if req.AirClubID == uuid.Nil || strings.TrimSpace(req.PlanName) == "" {
		return nil, ErrInvalidInput
	}

	club, err := s.clubRepo.GetByID(ctx, req.AirClubID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrClubNotFound
		}
		return nil, err
	}

	limit := req.AircraftLimit
	if limit <= 0 {
		limit = s.cfg.AircraftLimit
	}

	now := time.Now()
	end := now.Add(s.cfg.Duration)

	club.TrialStartDate = &now
	club.TrialEndDate = &end
	club.IsTrialActive = true
	club.TrialPlanName = &req.PlanName
	club.TrialAircraftLimit = &limit
	club.SubscriptionStatus = domain.SubscriptionStatusTrialing
	club.UpdatedAt = now

	if err := s.clubRepo.Update(ctx, club); err != nil {
		return nil, err
	}

	log.Printf("[TRIAL] Started trial for club %s until %s", club.ID, end.Format(time.RFC3339))
	return club, nil
}

// Status reports the trial state. An expired trial is flipped off here, as a
// side effect of the check; nothing else sweeps trials.
func (s *TrialService) Status(ctx context.Context, airClubID uuid.UUID) (*TrialStatus, error) {
	club, err := s.clubRepo.GetByID(ctx, airClubID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrClubNotFound
		}
		return nil, err
	}

	now := time.Now()

	if club.IsTrialActive && club.TrialEndDate != nil && now.After(*club.TrialEndDate) {
		club.IsTrialActive = false
		club.SubscriptionStatus = domain.SubscriptionStatusInactive
		club.UpdatedAt = now
		if err := s.clubRepo.Update(ctx, club); err != nil {
			return nil, err
		}
		log.Printf("[TRIAL] Trial expired for club %s", club.ID)
	}

	canAdd, err := s.canAddAircraft(ctx, club)
	if err != nil {
		return nil, err
	}

	return &TrialStatus{
		AirClub:        club,
		DaysRemaining:  daysRemaining(club.TrialEndDate, now),
		CanAddAircraft: canAdd,
		IsTrialActive:  club.IsTrialActive,
	}, nil
}

// canAddAircraft is unconditionally true while the trial runs; otherwise the
// current fleet size is compared against the plan ceiling.
func (s *TrialService) canAddAircraft(ctx context.Context, club *domain.AirClub) (bool, error) {
	if club.IsTrialActive {
		return true, nil
	}

	count, err := s.aircraftRepo.CountByAirClub(ctx, club.ID)
	if err != nil {
		return false, err
	}

	return count < planAircraftLimit(club.PlanName), nil
}

// daysRemaining is the ceiling of the remaining window in days, never
// negative. A 3.2-day remainder reads as 4 days.
func daysRemaining(end *time.Time, now time.Time) int {
	if end == nil {
		return 0
	}
	delta := end.Sub(now)
	if delta <= 0 {
		return 0
	}
	return int(math.Ceil(delta.Hours() / 24))
}

func planAircraftLimit(planName string) int {
	switch {
	case strings.Contains(planName, "Single Aircraft"):
		return 1
	case strings.Contains(planName, "Small Fleet"):
		return 3
	case strings.Contains(planName, "Medium Fleet"):
		return 5
	case strings.Contains(planName, "Large Fleet"):
		return 7
	case strings.Contains(planName, "Unlimited"):
		return 999
	default:
		return 1
	}
}
