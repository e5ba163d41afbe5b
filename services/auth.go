package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"sudoku-arena/models"
)

const (
	githubDeviceCodeURL = "https://github.com/login/device/code"
	githubTokenURL      = "https://github.com/login/oauth/access_token"
	githubUserURL       = "https://api.github.com/user"
)

var ErrAuthPending = errors.New("authorization pending")

// AuthService runs the GitHub device flow. Without a GITHUB_CLIENT_ID
// it falls back to a dev mode that mints local users against DEV-%04d
// codes, so the game is playable offline.
type AuthService struct {
	store    Store
	clientID string
	client   *http.Client

	mu         sync.Mutex
	devCounter int
}

func NewAuthService(store Store) *AuthService {
	clientID := os.Getenv("GITHUB_CLIENT_ID")
	if clientID == "" {
		log.Println("[Auth] GITHUB_CLIENT_ID not set, running in dev mode")
	}
	return &AuthService{
		store:    store,
		clientID: clientID,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

// DevMode reports whether GitHub auth is disabled.
func (a *AuthService) DevMode() bool {
	return a.clientID == ""
}

// StartDeviceFlow requests a device/user code pair from GitHub, or
// fabricates one in dev mode.
func (a *AuthService) StartDeviceFlow() (*models.DeviceAuthResponse, error) {
	if a.DevMode() {
		a.mu.Lock()
		a.devCounter++
		code := fmt.Sprintf("DEV-%04d", a.devCounter)
		a.mu.Unlock()
		return &models.DeviceAuthResponse{
			DeviceCode:      code,
			UserCode:        code,
			VerificationURI: "dev mode: no verification needed",
			Interval:        1,
		}, nil
	}

	form := url.Values{"client_id": {a.clientID}}
	req, err := http.NewRequest(http.MethodPost, githubDeviceCodeURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	res, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("device code request: %w", err)
	}
	defer res.Body.Close()

	var body struct {
		DeviceCode      string `json:"device_code"`
		UserCode        string `json:"user_code"`
		VerificationURI string `json:"verification_uri"`
		Interval        int    `json:"interval"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode device code response: %w", err)
	}
	return &models.DeviceAuthResponse{
		DeviceCode:      body.DeviceCode,
		UserCode:        body.UserCode,
		VerificationURI: body.VerificationURI,
		Interval:        body.Interval,
	}, nil
}

// PollDeviceFlow checks whether the user has approved the device code.
// On success a session token is minted and returned.
func (a *AuthService) PollDeviceFlow(deviceCode string) (*models.AuthPollResponse, error) {
	if a.DevMode() {
		var n int
		if _, err := fmt.Sscanf(deviceCode, "DEV-%04d", &n); err != nil {
			return nil, errors.New("unknown device code")
		}
		username := fmt.Sprintf("dev_player_%d", n)
		return a.issueSession("dev:"+deviceCode, username, "")
	}

	form := url.Values{
		"client_id":   {a.clientID},
		"device_code": {deviceCode},
		"grant_type":  {"urn:ietf:params:oauth:grant-type:device_code"},
	}
	req, err := http.NewRequest(http.MethodPost, githubTokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	res, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("token request: %w", err)
	}
	defer res.Body.Close()

	var body struct {
		AccessToken string `json:"access_token"`
		Error       string `json:"error"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode token response: %w", err)
	}
	if body.Error == "authorization_pending" || body.Error == "slow_down" {
		return nil, ErrAuthPending
	}
	if body.Error != "" {
		return nil, fmt.Errorf("github auth failed: %s", body.Error)
	}

	login, avatar, githubID, err := a.fetchGitHubUser(body.AccessToken)
	if err != nil {
		return nil, err
	}
	return a.issueSession(fmt.Sprintf("github:%d", githubID), login, avatar)
}

func (a *AuthService) fetchGitHubUser(accessToken string) (login, avatar string, id int64, err error) {
	req, err := http.NewRequest(http.MethodGet, githubUserURL, nil)
	if err != nil {
		return "", "", 0, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/vnd.github+json")
	res, err := a.client.Do(req)
	if err != nil {
		return "", "", 0, fmt.Errorf("fetch github user: %w", err)
	}
	defer res.Body.Close()

	var body struct {
		ID        int64  `json:"id"`
		Login     string `json:"login"`
		AvatarURL string `json:"avatar_url"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return "", "", 0, fmt.Errorf("decode github user: %w", err)
	}
	return body.Login, body.AvatarURL, body.ID, nil
}

func (a *AuthService) issueSession(externalID, username, avatarURL string) (*models.AuthPollResponse, error) {
	user, err := a.store.UpsertUser(externalID, username, avatarURL)
	if err != nil {
		return nil, err
	}
	token, err := a.store.CreateSession(user.ID)
	if err != nil {
		return nil, err
	}
	log.Printf("[Auth] issued session for %s", user.Username)
	return &models.AuthPollResponse{
		Status:   "complete",
		Token:    token,
		Username: user.Username,
	}, nil
}

// Authenticate resolves a session token to its user.
func (a *AuthService) Authenticate(token string) (*models.User, error) {
	session, err := a.store.GetSession(token)
	if err != nil {
		return nil, errors.New("invalid or expired session")
	}
	return a.store.GetUser(session.UserID)
}
