package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Andriiy/slotroster-api/internal/config"
	"github.com/Andriiy/slotroster-api/internal/domain"
	"github.com/Andriiy/slotroster-api/internal/repository/memory"
)

func newTrialFixture(t *testing.T) (*TrialService, *memory.AirClubRepository, *memory.AircraftRepository) {
	t.Helper()
	clubRepo := memory.NewAirClubRepository()
	aircraftRepo := memory.NewAircraftRepository()
	svc := NewTrialService(clubRepo, aircraftRepo, config.TrialConfig{
		Duration:      30 * 24 * time.Hour,
		AircraftLimit: 999,
	})
	return svc, clubRepo, aircraftRepo
}

func seedClub(t *testing.T, repo *memory.AirClubRepository, mutate func(*domain.AirClub)) *domain.AirClub {
	t.Helper()
	now := time.Now()
	club := &domain.AirClub{
		ID:                 uuid.New(),
		Name:               "Hilltop Flyers",
		Email:              "office@hilltop.example",
		Airport:            "EGKA",
		PlanName:           domain.DefaultPlanName,
		SubscriptionStatus: domain.SubscriptionStatusInactive,
		AircraftLimit:      1,
		CreatedBy:          uuid.New(),
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if mutate != nil {
		mutate(club)
	}
	if err := repo.Create(context.Background(), club); err != nil {
		t.Fatalf("seed club: %v", err)
	}
	return club
}

func TestTrialStart(t *testing.T) {
	svc, clubRepo, _ := newTrialFixture(t)
	club := seedClub(t, clubRepo, nil)

	got, err := svc.Start(context.Background(), StartTrialRequest{
		AirClubID: club.ID,
		PlanName:  "30-Day Free Trial",
	})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	if !got.IsTrialActive {
		t.Error("expected trial to be active")
	}
	if got.SubscriptionStatus != domain.SubscriptionStatusTrialing {
		t.Errorf("status = %s, want trialing", got.SubscriptionStatus)
	}
	if got.TrialAircraftLimit == nil || *got.TrialAircraftLimit != 999 {
		t.Errorf("trial aircraft limit = %v, want 999", got.TrialAircraftLimit)
	}
	if got.TrialStartDate == nil || got.TrialEndDate == nil {
		t.Fatal("expected trial window to be set")
	}
	window := got.TrialEndDate.Sub(*got.TrialStartDate)
	if window != 30*24*time.Hour {
		t.Errorf("trial window = %v, want 720h", window)
	}

	stored, err := clubRepo.GetByID(context.Background(), club.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if !stored.IsTrialActive {
		t.Error("trial flag not persisted")
	}
}

func TestTrialStartValidation(t *testing.T) {
	svc, clubRepo, _ := newTrialFixture(t)
	club := seedClub(t, clubRepo, nil)

	cases := []struct {
		name    string
		req     StartTrialRequest
		wantErr error
	}{
		{"missing club id", StartTrialRequest{PlanName: "30-Day Free Trial"}, ErrInvalidInput},
		{"missing plan name", StartTrialRequest{AirClubID: club.ID}, ErrInvalidInput},
		{"unknown club", StartTrialRequest{AirClubID: uuid.New(), PlanName: "30-Day Free Trial"}, ErrClubNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Start(context.Background(), tc.req); !errors.Is(err, tc.wantErr) {
				t.Errorf("Start() error = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestTrialStatusLazyExpiry(t *testing.T) {
	svc, clubRepo, _ := newTrialFixture(t)

	start := time.Now().Add(-31 * 24 * time.Hour)
	end := time.Now().Add(-24 * time.Hour)
	club := seedClub(t, clubRepo, func(c *domain.AirClub) {
		c.IsTrialActive = true
		c.SubscriptionStatus = domain.SubscriptionStatusTrialing
		c.TrialStartDate = &start
		c.TrialEndDate = &end
	})

	status, err := svc.Status(context.Background(), club.ID)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}

	if status.IsTrialActive {
		t.Error("expected expired trial to be inactive")
	}
	if status.DaysRemaining != 0 {
		t.Errorf("days remaining = %d, want 0", status.DaysRemaining)
	}

	stored, err := clubRepo.GetByID(context.Background(), club.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if stored.IsTrialActive {
		t.Error("expiry was not persisted")
	}
	if stored.SubscriptionStatus != domain.SubscriptionStatusInactive {
		t.Errorf("status = %s, want inactive", stored.SubscriptionStatus)
	}
}

func TestTrialDaysRemainingRoundsUp(t *testing.T) {
	svc, clubRepo, _ := newTrialFixture(t)

	// 3 days and change left reads as 4 days
	end := time.Now().Add(3*24*time.Hour + 5*time.Hour)
	club := seedClub(t, clubRepo, func(c *domain.AirClub) {
		c.IsTrialActive = true
		c.SubscriptionStatus = domain.SubscriptionStatusTrialing
		c.TrialEndDate = &end
	})

	status, err := svc.Status(context.Background(), club.ID)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if status.DaysRemaining != 4 {
		t.Errorf("days remaining = %d, want 4", status.DaysRemaining)
	}
}

func TestCanAddAircraftWhileTrialing(t *testing.T) {
	svc, clubRepo, aircraftRepo := newTrialFixture(t)

	end := time.Now().Add(10 * 24 * time.Hour)
	club := seedClub(t, clubRepo, func(c *domain.AirClub) {
		c.IsTrialActive = true
		c.SubscriptionStatus = domain.SubscriptionStatusTrialing
		c.TrialEndDate = &end
		c.PlanName = "Single Aircraft - Monthly Plan"
	})

	// Fleet already well past every paid ceiling
	for i := 0; i < 12; i++ {
		if err := aircraftRepo.Create(context.Background(), &domain.Aircraft{
			ID:        uuid.New(),
			AirClubID: club.ID,
			CreatedAt: time.Now(),
		}); err != nil {
			t.Fatalf("seed aircraft: %v", err)
		}
	}

	status, err := svc.Status(context.Background(), club.ID)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if !status.CanAddAircraft {
		t.Error("trialing club should always be allowed to add aircraft")
	}
}

func TestCanAddAircraftPlanCeilings(t *testing.T) {
	cases := []struct {
		planName string
		count    int
		want     bool
	}{
		{"Single Aircraft - Monthly Plan", 0, true},
		{"Single Aircraft - Monthly Plan", 1, false},
		{"Small Fleet - Yearly Plan", 2, true},
		{"Small Fleet - Yearly Plan", 3, false},
		{"Medium Fleet - Monthly Plan", 4, true},
		{"Medium Fleet - Monthly Plan", 5, false},
		{"Large Fleet - Monthly Plan", 6, true},
		{"Large Fleet - Monthly Plan", 7, false},
		{"Unlimited - Yearly Plan", 100, true},
		{"Some Unknown Plan", 1, false},
		{"Some Unknown Plan", 0, true},
	}

	for _, tc := range cases {
		t.Run(tc.planName, func(t *testing.T) {
			svc, clubRepo, aircraftRepo := newTrialFixture(t)
			club := seedClub(t, clubRepo, func(c *domain.AirClub) {
				c.PlanName = tc.planName
				c.SubscriptionStatus = domain.SubscriptionStatusActive
			})

			for i := 0; i < tc.count; i++ {
				if err := aircraftRepo.Create(context.Background(), &domain.Aircraft{
					ID:        uuid.New(),
					AirClubID: club.ID,
					CreatedAt: time.Now(),
				}); err != nil {
					t.Fatalf("seed aircraft: %v", err)
				}
			}

			status, err := svc.Status(context.Background(), club.ID)
			if err != nil {
				t.Fatalf("Status: %v", err)
			}
			if status.CanAddAircraft != tc.want {
				t.Errorf("canAddAircraft with %d aircraft on %q = %v, want %v",
					tc.count, tc.planName, status.CanAddAircraft, tc.want)
			}
		})
	}
}
