package service

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"testing"
	"time"

	"github.com/Andriiy/slotroster-api/internal/config"
	"github.com/Andriiy/slotroster-api/internal/domain"
	"github.com/Andriiy/slotroster-api/internal/repository"
	"github.com/Andriiy/slotroster-api/internal/repository/memory"
	"github.com/Andriiy/slotroster-api/pkg/jwt"
)

func newTokenServiceForTest(t *testing.T) *jwt.TokenService {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}

	privPEM := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})
	pubDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		t.Fatalf("marshal public key: %v", err)
	}
	pubPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubDER})

	ts, err := jwt.NewTokenService(privPEM, pubPEM, 15*time.Minute, 24*time.Hour, "slotroster-test")
	if err != nil {
		t.Fatalf("token service: %v", err)
	}
	return ts
}

type authFixture struct {
	svc         *AuthService
	userRepo    *memory.UserRepository
	sessionRepo *memory.SessionRepository
	profileRepo *memory.ProfileRepository
	clubRepo    *memory.AirClubRepository
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	userRepo := memory.NewUserRepository()
	sessionRepo := memory.NewSessionRepository()
	profileRepo := memory.NewProfileRepository()
	clubRepo := memory.NewAirClubRepository()
	aircraftRepo := memory.NewAircraftRepository()

	cfg := &config.Config{
		JWT: config.JWTConfig{RefreshTokenExpiry: 24 * time.Hour},
		Auth: config.AuthConfig{
			MaxFailedLogins: 3,
			LockDuration:    15 * time.Minute,
		},
	}

	trialService := NewTrialService(clubRepo, aircraftRepo, config.TrialConfig{
		Duration:      30 * 24 * time.Hour,
		AircraftLimit: 999,
	})

	svc := NewAuthService(
		userRepo, sessionRepo, profileRepo, clubRepo,
		trialService, newTokenServiceForTest(t), nil, nil, cfg,
	)

	return &authFixture{
		svc:         svc,
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		profileRepo: profileRepo,
		clubRepo:    clubRepo,
	}
}

func TestRegisterWithClubChainsTrial(t *testing.T) {
	f := newAuthFixture(t)

	resp, err := f.svc.Register(context.Background(), RegisterRequest{
		Email:    "owner@club.example",
		Password: "correct-horse-battery",
		FullName: "Alex Pilot",
		ClubName: "Westfield Flying Club",
		Airport:  "EGBW",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	if resp.Tokens.AccessToken == "" || resp.Tokens.RefreshToken == "" {
		t.Fatal("expected a token pair")
	}
	if resp.User.AirClubID == nil {
		t.Fatal("expected the new club on the response")
	}

	club, err := f.clubRepo.GetByID(context.Background(), *resp.User.AirClubID)
	if err != nil {
		t.Fatalf("club not created: %v", err)
	}
	if club.Name != "Westfield Flying Club" {
		t.Errorf("club name = %q", club.Name)
	}
	if club.CreatedBy != resp.User.ID {
		t.Error("club owner is not the new user")
	}
	if !club.IsTrialActive || club.SubscriptionStatus != domain.SubscriptionStatusTrialing {
		t.Errorf("trial not started: active=%v status=%s", club.IsTrialActive, club.SubscriptionStatus)
	}
	if club.TrialAircraftLimit == nil || *club.TrialAircraftLimit != 999 {
		t.Errorf("trial aircraft limit = %v, want 999", club.TrialAircraftLimit)
	}

	profile, err := f.profileRepo.GetByUserID(context.Background(), resp.User.ID)
	if err != nil {
		t.Fatalf("profile not created: %v", err)
	}
	if profile.AirClubID == nil || *profile.AirClubID != club.ID {
		t.Error("profile does not point at the new club")
	}
	if !profile.IsAdmin {
		t.Error("owner profile should be admin")
	}

	sessions, err := f.sessionRepo.GetByUserID(context.Background(), resp.User.ID)
	if err != nil || len(sessions) != 1 {
		t.Errorf("sessions = %d (%v), want 1", len(sessions), err)
	}
}

func TestRegisterWithoutClub(t *testing.T) {
	f := newAuthFixture(t)

	resp, err := f.svc.Register(context.Background(), RegisterRequest{
		Email:    "solo@pilot.example",
		Password: "correct-horse-battery",
		FullName: "Solo Pilot",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if resp.User.AirClubID != nil {
		t.Error("no club should exist for a bare signup")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	f := newAuthFixture(t)
	req := RegisterRequest{
		Email:    "dup@club.example",
		Password: "correct-horse-battery",
		FullName: "First In",
	}

	if _, err := f.svc.Register(context.Background(), req); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	if _, err := f.svc.Register(context.Background(), req); !errors.Is(err, ErrEmailAlreadyInUse) {
		t.Errorf("second Register error = %v, want ErrEmailAlreadyInUse", err)
	}
}

func TestLoginAndLockout(t *testing.T) {
	f := newAuthFixture(t)

	if _, err := f.svc.Register(context.Background(), RegisterRequest{
		Email:    "member@club.example",
		Password: "correct-horse-battery",
		FullName: "Member",
	}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	// Correct password works
	if _, err := f.svc.Login(context.Background(), LoginRequest{
		Email:    "member@club.example",
		Password: "correct-horse-battery",
	}); err != nil {
		t.Fatalf("Login: %v", err)
	}

	// Three bad attempts trip the lock
	for i := 0; i < 3; i++ {
		if _, err := f.svc.Login(context.Background(), LoginRequest{
			Email:    "member@club.example",
			Password: "wrong-password-here",
		}); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("attempt %d error = %v, want ErrInvalidCredentials", i+1, err)
		}
	}

	if _, err := f.svc.Login(context.Background(), LoginRequest{
		Email:    "member@club.example",
		Password: "correct-horse-battery",
	}); !errors.Is(err, ErrAccountLocked) {
		t.Errorf("post-lockout error = %v, want ErrAccountLocked", err)
	}
}

func TestRefreshRotatesSession(t *testing.T) {
	f := newAuthFixture(t)

	resp, err := f.svc.Register(context.Background(), RegisterRequest{
		Email:    "rotate@club.example",
		Password: "correct-horse-battery",
		FullName: "Rotator",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	oldRefresh := resp.Tokens.RefreshToken
	oldHash := hashToken(oldRefresh)

	pair, err := f.svc.RefreshToken(context.Background(), oldRefresh)
	if err != nil {
		t.Fatalf("RefreshToken: %v", err)
	}
	if pair.RefreshToken == oldRefresh {
		t.Error("refresh token was not rotated")
	}

	// The old hash must no longer resolve to a session
	if _, err := f.sessionRepo.GetByTokenHash(context.Background(), oldHash); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("old refresh token still resolves: %v", err)
	}
	if _, err := f.sessionRepo.GetByTokenHash(context.Background(), hashToken(pair.RefreshToken)); err != nil {
		t.Errorf("new refresh token does not resolve: %v", err)
	}

	// An access token is not a refresh token
	if _, err := f.svc.RefreshToken(context.Background(), pair.AccessToken); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Errorf("refresh with access token error = %v, want ErrInvalidRefreshToken", err)
	}
}
