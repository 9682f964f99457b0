package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Andriiy/slotroster-api/internal/config"
	"github.com/Andriiy/slotroster-api/internal/domain"
	"github.com/Andriiy/slotroster-api/internal/repository"
	"github.com/Andriiy/slotroster-api/pkg/blacklist"
	"github.com/Andriiy/slotroster-api/pkg/email"
	"github.com/Andriiy/slotroster-api/pkg/hash"
	"github.com/Andriiy/slotroster-api/pkg/jwt"
)

// Custom errors
var (
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrAccountLocked       = errors.New("account is locked")
	ErrUserNotFound        = errors.New("user not found")
	ErrEmailAlreadyInUse   = errors.New("email already registered")
	ErrSessionNotFound     = errors.New("session not found")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
)

type AuthService struct {
	userRepo       repository.UserRepository
	sessionRepo    repository.SessionRepository
	profileRepo    repository.ProfileRepository
	clubRepo       repository.AirClubRepository
	trialService   *TrialService
	tokenService   *jwt.TokenService
	tokenBlacklist *blacklist.TokenBlacklist
	emailSvc       email.EmailService
	cfg            *config.Config
}

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	FullName string `json:"full_name" validate:"required,min=2,max=200"`
	// Optional club bootstrap: when ClubName is set the signup also creates
	// the air club, the owner profile and starts the trial.
	ClubName string `json:"club_name,omitempty" validate:"omitempty,min=2,max=200"`
	Airport  string `json:"airport,omitempty" validate:"omitempty,min=3,max=10"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type LoginResponse struct {
	Tokens *domain.TokenPair `json:"tokens"`
	User   *UserDTO          `json:"user"`
}

type UserDTO struct {
	ID        uuid.UUID  `json:"id"`
	Email     string     `json:"email"`
	FullName  string     `json:"full_name"`
	AirClubID *uuid.UUID `json:"air_club_id,omitempty"`
}

func NewAuthService(
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
	profileRepo repository.ProfileRepository,
	clubRepo repository.AirClubRepository,
	trialService *TrialService,
	tokenService *jwt.TokenService,
	tokenBlacklist *blacklist.TokenBlacklist,
	emailSvc email.EmailService,
	cfg *config.Config,
) *AuthService {
	return &AuthService{
		userRepo:       userRepo,
		sessionRepo:    sessionRepo,
		profileRepo:    profileRepo,
		clubRepo:       clubRepo,
		trialService:   trialService,
		tokenService:   tokenService,
		tokenBlacklist: tokenBlacklist,
		emailSvc:       emailSvc,
		cfg:            cfg,
	}
}

// Register creates the user and, when a club name was supplied, chains the
// club, the owner profile and the trial. The chain is multi-statement, not
// transactional: a mid-chain failure leaves the earlier rows in place.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*LoginResponse, error) {
	existing, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailAlreadyInUse
	}

	passwordHash, err := hash.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &domain.User{
		ID:           uuid.New(),
		Email:        strings.ToLower(req.Email),
		PasswordHash: passwordHash,
		FullName:     req.FullName,
		Status:       domain.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	var airClubID *uuid.UUID
	if strings.TrimSpace(req.ClubName) != "" {
		club := &domain.AirClub{
			ID:                 uuid.New(),
			Name:               req.ClubName,
			Email:              user.Email,
			Airport:            strings.ToUpper(req.Airport),
			PlanName:           domain.DefaultPlanName,
			SubscriptionStatus: domain.SubscriptionStatusInactive,
			AircraftLimit:      1,
			CreatedBy:          user.ID,
			CreatedAt:          now,
			UpdatedAt:          now,
		}
		if err := s.clubRepo.Create(ctx, club); err != nil {
			return nil, err
		}
		airClubID = &club.ID

		profile := &domain.Profile{
			ID:        uuid.New(),
			UserID:    user.ID,
			AirClubID: &club.ID,
			Email:     user.Email,
			FullName:  user.FullName,
			IsAdmin:   true,
			CreatedAt: now,
		}
		if err := s.profileRepo.Create(ctx, profile); err != nil {
			return nil, err
		}

		trialClub, err := s.trialService.Start(ctx, StartTrialRequest{
			AirClubID: club.ID,
			PlanName:  "30-Day Free Trial",
		})
		if err != nil {
			return nil, err
		}

		s.sendSignupEmails(ctx, user, trialClub)
	}

	return s.issueSession(ctx, user, airClubID)
}

func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	// Locked accounts unlock themselves once the window has passed
	if user.Status == domain.UserStatusLocked {
		if user.LockedUntil != nil && time.Now().Before(*user.LockedUntil) {
			return nil, ErrAccountLocked
		}
		user.Status = domain.UserStatusActive
		user.FailedLogins = 0
		user.LockedUntil = nil
		if err := s.userRepo.Update(ctx, user); err != nil {
			return nil, err
		}
	}

	valid, err := hash.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil {
		return nil, err
	}
	if !valid {
		if err := s.handleFailedLogin(ctx, user); err != nil {
			return nil, err
		}
		return nil, ErrInvalidCredentials
	}

	if user.Status != domain.UserStatusActive {
		return nil, ErrAccountLocked
	}

	if user.FailedLogins > 0 {
		if err := s.userRepo.ResetFailedLogins(ctx, user.ID); err != nil {
			return nil, err
		}
	}

	if err := s.userRepo.UpdateLastLogin(ctx, user.ID); err != nil {
		log.Printf("[AUTH] Failed to record last login for %s: %v", user.ID, err)
	}

	return s.issueSession(ctx, user, s.airClubIDFor(ctx, user.ID))
}

// UpsertOAuthUser provisions or refreshes the user behind an OAuth identity
// and signs them in. New OAuth users get a profile without a club; the
// frontend routes them to setup.
func (s *AuthService) UpsertOAuthUser(ctx context.Context, provider, providerID, userEmail, fullName string) (*LoginResponse, error) {
	user, err := s.userRepo.GetByProvider(ctx, provider, providerID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	if user == nil {
		// Same email may exist from a password signup; attach the provider
		user, err = s.userRepo.GetByEmail(ctx, userEmail)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
	}

	now := time.Now()
	if user == nil {
		user = &domain.User{
			ID:         uuid.New(),
			Email:      strings.ToLower(userEmail),
			FullName:   fullName,
			Status:     domain.UserStatusActive,
			Provider:   &provider,
			ProviderID: &providerID,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			return nil, err
		}
	} else {
		user.Provider = &provider
		user.ProviderID = &providerID
		if fullName != "" {
			user.FullName = fullName
		}
		user.UpdatedAt = now
		if err := s.userRepo.Update(ctx, user); err != nil {
			return nil, err
		}
	}

	if _, err := s.profileRepo.GetByUserID(ctx, user.ID); errors.Is(err, repository.ErrNotFound) {
		profile := &domain.Profile{
			ID:        uuid.New(),
			UserID:    user.ID,
			Email:     user.Email,
			FullName:  user.FullName,
			CreatedAt: now,
		}
		if err := s.profileRepo.Create(ctx, profile); err != nil {
			return nil, err
		}
	}

	if err := s.userRepo.UpdateLastLogin(ctx, user.ID); err != nil {
		log.Printf("[AUTH] Failed to record last login for %s: %v", user.ID, err)
	}

	return s.issueSession(ctx, user, s.airClubIDFor(ctx, user.ID))
}

func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	claims, err := s.tokenService.ValidateToken(refreshToken)
	if err != nil || claims.TokenType != "refresh" {
		return nil, ErrInvalidRefreshToken
	}

	session, err := s.sessionRepo.GetByTokenHash(ctx, hashToken(refreshToken))
	if err != nil {
		return nil, ErrSessionNotFound
	}

	if time.Now().After(session.ExpiresAt) {
		_ = s.sessionRepo.Delete(ctx, session.ID)
		return nil, ErrSessionNotFound
	}

	user, err := s.userRepo.GetByID(ctx, session.UserID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	if user.Status != domain.UserStatusActive {
		return nil, ErrAccountLocked
	}

	tokenPair, err := s.tokenService.GenerateTokenPair(user, s.airClubIDFor(ctx, user.ID), session.ID)
	if err != nil {
		return nil, err
	}

	session.RefreshTokenHash = hashToken(tokenPair.RefreshToken)
	session.ExpiresAt = time.Now().Add(s.cfg.JWT.RefreshTokenExpiry)
	if err := s.sessionRepo.Update(ctx, session); err != nil {
		return nil, err
	}

	return tokenPair, nil
}

func (s *AuthService) Logout(ctx context.Context, refreshToken, accessToken string) error {
	if accessToken != "" {
		claims, err := s.tokenService.ValidateToken(accessToken)
		if err == nil && claims.ExpiresAt != nil {
			if err := s.tokenBlacklist.AddAccessToken(ctx, accessToken, claims.ExpiresAt.Time); err != nil {
				log.Printf("[AUTH] Failed to blacklist access token: %v", err)
			}
		}
	}

	return s.sessionRepo.DeleteByTokenHash(ctx, hashToken(refreshToken))
}

// ChangePassword rotates the hash and signs out every session.
func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return ErrUserNotFound
	}

	valid, err := hash.VerifyPassword(oldPassword, user.PasswordHash)
	if err != nil || !valid {
		return ErrInvalidCredentials
	}

	newHash, err := hash.HashPassword(newPassword)
	if err != nil {
		return err
	}

	user.PasswordHash = newHash
	user.UpdatedAt = time.Now()
	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}

	if err := s.InvalidateAllUserSessions(ctx, userID); err != nil {
		return err
	}

	if s.emailSvc != nil {
		if err := s.emailSvc.SendPasswordChangedEmail(ctx, user.Email, user.FullName); err != nil {
			log.Printf("[AUTH] Failed to send password changed email to %s: %v", user.Email, err)
		}
	}

	return nil
}

func (s *AuthService) ListSessions(ctx context.Context, userID uuid.UUID) ([]*domain.Session, error) {
	return s.sessionRepo.GetByUserID(ctx, userID)
}

func (s *AuthService) RevokeSession(ctx context.Context, userID, sessionID uuid.UUID) error {
	sessions, err := s.sessionRepo.GetByUserID(ctx, userID)
	if err != nil {
		return err
	}
	for _, session := range sessions {
		if session.ID == sessionID {
			return s.sessionRepo.Delete(ctx, session.ID)
		}
	}
	return ErrSessionNotFound
}

// InvalidateAllUserSessions deletes every session and blacklists tokens
// issued before now.
func (s *AuthService) InvalidateAllUserSessions(ctx context.Context, userID uuid.UUID) error {
	sessions, err := s.sessionRepo.GetByUserID(ctx, userID)
	if err != nil {
		return err
	}

	for _, session := range sessions {
		_ = s.sessionRepo.Delete(ctx, session.ID)
	}

	return s.tokenBlacklist.BlacklistUser(ctx, userID.String(), 24*time.Hour)
}

func (s *AuthService) issueSession(ctx context.Context, user *domain.User, airClubID *uuid.UUID) (*LoginResponse, error) {
	sessionID := uuid.New()

	tokenPair, err := s.tokenService.GenerateTokenPair(user, airClubID, sessionID)
	if err != nil {
		return nil, err
	}

	session := &domain.Session{
		ID:               sessionID,
		UserID:           user.ID,
		RefreshTokenHash: hashToken(tokenPair.RefreshToken),
		ExpiresAt:        time.Now().Add(s.cfg.JWT.RefreshTokenExpiry),
		CreatedAt:        time.Now(),
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, err
	}

	return &LoginResponse{
		Tokens: tokenPair,
		User: &UserDTO{
			ID:        user.ID,
			Email:     user.Email,
			FullName:  user.FullName,
			AirClubID: airClubID,
		},
	}, nil
}

// airClubIDFor resolves the club on the user's profile, nil when absent.
func (s *AuthService) airClubIDFor(ctx context.Context, userID uuid.UUID) *uuid.UUID {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil
	}
	return profile.AirClubID
}

func (s *AuthService) handleFailedLogin(ctx context.Context, user *domain.User) error {
	if err := s.userRepo.IncrementFailedLogins(ctx, user.ID); err != nil {
		return err
	}

	updated, err := s.userRepo.GetByID(ctx, user.ID)
	if err != nil {
		return err
	}

	if updated.FailedLogins >= s.cfg.Auth.MaxFailedLogins {
		lockUntil := time.Now().Add(s.cfg.Auth.LockDuration)
		updated.Status = domain.UserStatusLocked
		updated.LockedUntil = &lockUntil
		return s.userRepo.Update(ctx, updated)
	}

	return nil
}

func (s *AuthService) sendSignupEmails(ctx context.Context, user *domain.User, club *domain.AirClub) {
	if s.emailSvc == nil {
		return
	}
	if err := s.emailSvc.SendWelcomeEmail(ctx, user.Email, user.FullName, club.Name); err != nil {
		log.Printf("[AUTH] Failed to send welcome email to %s: %v", user.Email, err)
	}
	if club.TrialEndDate != nil {
		if err := s.emailSvc.SendTrialStartedEmail(ctx, user.Email, user.FullName, club.Name, *club.TrialEndDate); err != nil {
			log.Printf("[AUTH] Failed to send trial email to %s: %v", user.Email, err)
		}
	}
}

// hashToken is the SHA-256 hex digest stored in place of refresh tokens.
func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
