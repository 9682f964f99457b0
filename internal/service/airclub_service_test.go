package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Andriiy/slotroster-api/internal/domain"
	"github.com/Andriiy/slotroster-api/internal/repository/memory"
)

func newClubFixture(t *testing.T) (*AirClubService, *memory.AirClubRepository, *memory.ProfileRepository) {
	t.Helper()
	clubRepo := memory.NewAirClubRepository()
	profileRepo := memory.NewProfileRepository()
	return NewAirClubService(clubRepo, profileRepo), clubRepo, profileRepo
}

func TestAirClubCreate(t *testing.T) {
	svc, _, _ := newClubFixture(t)
	userID := uuid.New()

	club, err := svc.Create(context.Background(), userID, CreateAirClubRequest{
		Name:    "Ridge Soaring Club",
		Email:   "hello@ridge.example",
		Airport: "kavx",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if club.CreatedBy != userID {
		t.Errorf("created_by = %s, want %s", club.CreatedBy, userID)
	}
	if club.Airport != "KAVX" {
		t.Errorf("airport = %q, want uppercased KAVX", club.Airport)
	}
	if club.PlanName != domain.DefaultPlanName {
		t.Errorf("plan = %q, want %q", club.PlanName, domain.DefaultPlanName)
	}
	if club.SubscriptionStatus != domain.SubscriptionStatusInactive {
		t.Errorf("status = %s, want inactive", club.SubscriptionStatus)
	}
	if club.IsTrialActive {
		t.Error("explicit create must not start the trial")
	}
}

func TestAirClubCreateValidation(t *testing.T) {
	svc, _, _ := newClubFixture(t)

	cases := []struct {
		name string
		req  CreateAirClubRequest
	}{
		{"missing name", CreateAirClubRequest{Email: "a@b.c", Airport: "EGLL"}},
		{"missing email", CreateAirClubRequest{Name: "Club", Airport: "EGLL"}},
		{"missing airport", CreateAirClubRequest{Name: "Club", Email: "a@b.c"}},
		{"whitespace name", CreateAirClubRequest{Name: "   ", Email: "a@b.c", Airport: "EGLL"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Create(context.Background(), uuid.New(), tc.req); !errors.Is(err, ErrInvalidInput) {
				t.Errorf("Create() error = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestAirClubUpdateOwnerOnly(t *testing.T) {
	svc, clubRepo, _ := newClubFixture(t)
	owner := uuid.New()
	stranger := uuid.New()
	club := seedClub(t, clubRepo, func(c *domain.AirClub) {
		c.CreatedBy = owner
		c.Name = "Original Name"
	})

	req := UpdateAirClubRequest{Name: "Hijacked", Email: "x@y.z", Airport: "EGLL"}

	if _, err := svc.Update(context.Background(), stranger, club.ID, req); !errors.Is(err, ErrAccessDenied) {
		t.Fatalf("Update by non-owner error = %v, want ErrAccessDenied", err)
	}

	// The denied update must leave the row untouched
	stored, err := clubRepo.GetByID(context.Background(), club.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if stored.Name != "Original Name" {
		t.Errorf("club was modified by a denied update: name = %q", stored.Name)
	}

	if _, err := svc.Update(context.Background(), owner, uuid.New(), req); !errors.Is(err, ErrClubNotFound) {
		t.Errorf("Update of missing club error = %v, want ErrClubNotFound", err)
	}

	updated, err := svc.Update(context.Background(), owner, club.ID, UpdateAirClubRequest{
		Name: "New Name", Email: "new@y.z", Airport: "EGLL",
	})
	if err != nil {
		t.Fatalf("Update by owner: %v", err)
	}
	if updated.Name != "New Name" {
		t.Errorf("name = %q, want New Name", updated.Name)
	}
}

func TestAirClubDeleteOwnerOnly(t *testing.T) {
	svc, clubRepo, _ := newClubFixture(t)
	owner := uuid.New()
	club := seedClub(t, clubRepo, func(c *domain.AirClub) { c.CreatedBy = owner })

	if err := svc.Delete(context.Background(), uuid.New(), club.ID); !errors.Is(err, ErrAccessDenied) {
		t.Errorf("Delete by non-owner error = %v, want ErrAccessDenied", err)
	}
	if err := svc.Delete(context.Background(), owner, uuid.New()); !errors.Is(err, ErrClubNotFound) {
		t.Errorf("Delete of missing club error = %v, want ErrClubNotFound", err)
	}
	if err := svc.Delete(context.Background(), owner, club.ID); err != nil {
		t.Fatalf("Delete by owner: %v", err)
	}
	if _, err := svc.GetByID(context.Background(), club.ID); !errors.Is(err, ErrClubNotFound) {
		t.Error("club still present after delete")
	}
}

func TestListForUser(t *testing.T) {
	svc, clubRepo, profileRepo := newClubFixture(t)
	userID := uuid.New()

	owned := seedClub(t, clubRepo, func(c *domain.AirClub) {
		c.CreatedBy = userID
		c.CreatedAt = time.Now().Add(-2 * time.Hour)
	})
	memberClub := seedClub(t, clubRepo, func(c *domain.AirClub) {
		c.CreatedAt = time.Now().Add(-1 * time.Hour)
	})
	seedClub(t, clubRepo, nil) // unrelated club

	if err := profileRepo.Create(context.Background(), &domain.Profile{
		ID:        uuid.New(),
		UserID:    userID,
		AirClubID: &memberClub.ID,
		CreatedAt: time.Now(),
	}); err != nil {
		t.Fatalf("seed profile: %v", err)
	}

	clubs, err := svc.ListForUser(context.Background(), userID)
	if err != nil {
		t.Fatalf("ListForUser: %v", err)
	}

	if len(clubs) != 2 {
		t.Fatalf("got %d clubs, want 2", len(clubs))
	}
	// Newest first
	if clubs[0].ID != memberClub.ID || clubs[1].ID != owned.ID {
		t.Errorf("unexpected order: got [%s, %s]", clubs[0].ID, clubs[1].ID)
	}
}

func TestListForUserOwnerOnlyFallback(t *testing.T) {
	svc, clubRepo, _ := newClubFixture(t)
	userID := uuid.New()

	owned := seedClub(t, clubRepo, func(c *domain.AirClub) { c.CreatedBy = userID })
	seedClub(t, clubRepo, nil)

	// No profile rows at all: the empty member set degrades to owner-only
	clubs, err := svc.ListForUser(context.Background(), userID)
	if err != nil {
		t.Fatalf("ListForUser: %v", err)
	}
	if len(clubs) != 1 || clubs[0].ID != owned.ID {
		t.Errorf("got %d clubs, want exactly the owned one", len(clubs))
	}
}

func TestListForUserNoDuplicates(t *testing.T) {
	svc, clubRepo, profileRepo := newClubFixture(t)
	userID := uuid.New()

	// User both owns the club and holds a profile in it
	club := seedClub(t, clubRepo, func(c *domain.AirClub) { c.CreatedBy = userID })
	if err := profileRepo.Create(context.Background(), &domain.Profile{
		ID:        uuid.New(),
		UserID:    userID,
		AirClubID: &club.ID,
		CreatedAt: time.Now(),
	}); err != nil {
		t.Fatalf("seed profile: %v", err)
	}

	clubs, err := svc.ListForUser(context.Background(), userID)
	if err != nil {
		t.Fatalf("ListForUser: %v", err)
	}
	if len(clubs) != 1 {
		t.Errorf("got %d clubs, want 1 (no duplicates)", len(clubs))
	}
}
