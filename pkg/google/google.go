package google

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"

	jsoniter "github.com/json-iterator/go"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	DefaultRedirectURL = "http://localhost:3000/api/v1/auth/callback-gl"
	DefaultUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"
)

var ErrEmailNotVerified = errors.New("google account email is not verified")

type IGoogle interface {
	AuthCodeURL(state string) string
	GetUserEmail(ctx context.Context, code string) (string, error)
}

type googleProvider struct {
	config      *oauth2.Config
	userInfoURL string
}

type userInfo struct {
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
}

func New() IGoogle {
	redirectURL := os.Getenv("GOOGLE_REDIRECT_URL")
	if redirectURL == "" {
		redirectURL = DefaultRedirectURL
	}

	return NewWithConfig(&oauth2.Config{
		ClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		ClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		RedirectURL:  redirectURL,
		Scopes:       []string{"https://www.googleapis.com/auth/userinfo.email"},
		Endpoint:     google.Endpoint,
	}, DefaultUserInfoURL)
}

func NewWithConfig(config *oauth2.Config, userInfoURL string) IGoogle {
	return &googleProvider{config: config, userInfoURL: userInfoURL}
}

func (g *googleProvider) AuthCodeURL(state string) string {
	return g.config.AuthCodeURL(state)
}

// GetUserEmail exchanges an authorization code and returns the verified
// email of the Google account.
func (g *googleProvider) GetUserEmail(ctx context.Context, code string) (string, error) {
	token, err := g.config.Exchange(ctx, code)
	if err != nil {
		return "", fmt.Errorf("exchange token: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.userInfoURL, nil)
	if err != nil {
		return "", err
	}

	resp, err := g.config.Client(ctx, token).Do(req)
	if err != nil {
		return "", fmt.Errorf("get user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("get user info: http status %d", resp.StatusCode)
	}

	var info userInfo
	if err := jsoniter.NewDecoder(resp.Body).Decode(&info); err != nil {
		return "", fmt.Errorf("decode user info: %w", err)
	}
	if info.Email == "" || !info.VerifiedEmail {
		return "", ErrEmailNotVerified
	}

	return info.Email, nil
}
