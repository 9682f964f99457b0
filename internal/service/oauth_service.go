package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/Andriiy/slotroster-api/internal/config"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// GoogleOAuthService handles the authorization-code leg of Google sign-in:
// exchange the code, fetch the profile, hand off to AuthService.
type GoogleOAuthService struct {
	oauthConfig *oauth2.Config
	authService *AuthService
	userInfoURL string
}

type googleUserInfo struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

func NewGoogleOAuthService(cfg config.OAuthConfig, authService *AuthService) *GoogleOAuthService {
	return &GoogleOAuthService{
		oauthConfig: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
		authService: authService,
		userInfoURL: googleUserInfoURL,
	}
}

// AuthURL builds the consent-screen URL. state is round-tripped and checked
// by the handler.
func (s *GoogleOAuthService) AuthURL(state string) string {
	return s.oauthConfig.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// HandleCallback exchanges the code and signs the Google identity in.
func (s *GoogleOAuthService) HandleCallback(ctx context.Context, code string) (*LoginResponse, error) {
	token, err := s.oauthConfig.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("oauth code exchange failed: %w", err)
	}

	info, err := s.fetchUserInfo(ctx, token)
	if err != nil {
		return nil, err
	}

	if info.Email == "" {
		return nil, fmt.Errorf("oauth provider returned no email")
	}

	return s.authService.UpsertOAuthUser(ctx, "google", info.ID, info.Email, info.Name)
}

func (s *GoogleOAuthService) fetchUserInfo(ctx context.Context, token *oauth2.Token) (*googleUserInfo, error) {
	client := s.oauthConfig.Client(ctx, token)

	resp, err := client.Get(s.userInfoURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("user info request returned %d: %s", resp.StatusCode, body)
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to decode user info: %w", err)
	}

	return &info, nil
}
