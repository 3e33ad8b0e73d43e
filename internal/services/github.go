package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	githubAuthorizeURL = "https://github.com/login/oauth/authorize"
	githubTokenURL     = "https://github.com/login/oauth/access_token"
	githubUserURL      = "https://api.github.com/user"
)

type GitHubUser struct {
	Login string `json:"login"`
	Email string `json:"email"`
}

// GitHubOAuthService performs the GitHub login exchange: authorize
// redirect, manual code-for-token swap, user fetch.
type GitHubOAuthService interface {
	AuthorizeURL(state string) string
	ExchangeCode(ctx context.Context, code string) (string, error)
	FetchUser(ctx context.Context, accessToken string) (*GitHubUser, error)
}

type githubOAuthService struct {
	clientID     string
	clientSecret string
	redirectURL  string
	client       *http.Client
}

func NewGitHubOAuthService(clientID, clientSecret, redirectURL string) GitHubOAuthService {
	return &githubOAuthService{
		clientID:     clientID,
		clientSecret: clientSecret,
		redirectURL:  redirectURL,
		client:       &http.Client{Timeout: 15 * time.Second},
	}
}

// AuthorizeURL implements GitHubOAuthService.
func (g *githubOAuthService) AuthorizeURL(state string) string {
	params := url.Values{}
	params.Set("client_id", g.clientID)
	params.Set("redirect_uri", g.redirectURL)
	params.Set("scope", "user:email")
	params.Set("state", state)

	return githubAuthorizeURL + "?" + params.Encode()
}

// ExchangeCode implements GitHubOAuthService.
func (g *githubOAuthService) ExchangeCode(ctx context.Context, code string) (string, error) {
	form := url.Values{}
	form.Set("client_id", g.clientID)
	form.Set("client_secret", g.clientSecret)
	form.Set("code", code)
	form.Set("redirect_uri", g.redirectURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, githubTokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("token exchange failed: %w", err)
	}
	defer resp.Body.Close()

	var token struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}

	if token.AccessToken == "" {
		return "", fmt.Errorf("failed to retrieve access token")
	}

	return token.AccessToken, nil
}

// FetchUser implements GitHubOAuthService.
func (g *githubOAuthService) FetchUser(ctx context.Context, accessToken string) (*GitHubUser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, githubUserURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build user request: %w", err)
	}
	req.Header.Set("Authorization", "token "+accessToken)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("user fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("github api returned %d: %s", resp.StatusCode, body)
	}

	var user GitHubUser
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("failed to decode user response: %w", err)
	}

	if user.Login == "" {
		return nil, fmt.Errorf("github user has no login")
	}

	// GitHub hides the email for some accounts; fall back the way the
	// login flow always has.
	if user.Email == "" {
		user.Email = user.Login + "@github.com"
	}

	return &user, nil
}
