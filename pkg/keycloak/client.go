package keycloak

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
)

// ErrUsernameConflict reports that the identity provider already holds an
// account with the requested username. Callers treat this differently from
// transport or server failures.
var ErrUsernameConflict = errors.New("username already taken in identity provider")

// ErrEmailConflict reports that the requested email address is already bound
// to another account.
var ErrEmailConflict = errors.New("email already taken in identity provider")

// CreatedUser is the identity provider's handle for a new account.
type CreatedUser struct {
	ID string
}

// Client is the identity-provider surface consumed by the account workflows.
type Client interface {
	CreateUser(ctx context.Context, username, email, password string) (*CreatedUser, error)
	UpdateRole(ctx context.Context, userID, role string) error
	UpdatePassword(ctx context.Context, userID, password string) error
	UpdateDummyEmail(ctx context.Context, userID string) (string, error)
	RollbackUser(ctx context.Context, userID string) error
}

// Config carries realm and admin-credential settings.
type Config struct {
	BaseURL        string
	Realm          string
	AdminUsername  string
	AdminPassword  string
	AdminClientID  string
	EmailDummyHost string
	RequestTimeout time.Duration
}

type httpClient struct {
	cfg    Config
	client *http.Client

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

// NewClient builds an HTTP client against the Keycloak admin REST API.
func NewClient(cfg Config) Client {
	if cfg.RequestTimeout == 0 {
		cfg.RequestTimeout = 10 * time.Second
	}
	if cfg.AdminClientID == "" {
		cfg.AdminClientID = "admin-cli"
	}
	return &httpClient{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.RequestTimeout},
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

func (c *httpClient) token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.accessToken != "" && time.Now().Before(c.tokenExpiry) {
		return c.accessToken, nil
	}

	form := fmt.Sprintf("grant_type=password&client_id=%s&username=%s&password=%s",
		c.cfg.AdminClientID, c.cfg.AdminUsername, c.cfg.AdminPassword)
	endpoint := fmt.Sprintf("%s/realms/master/protocol/openid-connect/token", c.cfg.BaseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("identity provider token request returned %d", resp.StatusCode)
	}

	var tok tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return "", err
	}
	c.accessToken = tok.AccessToken
	// refresh a bit before the provider expires it
	c.tokenExpiry = time.Now().Add(time.Duration(tok.ExpiresIn-10) * time.Second)
	return c.accessToken, nil
}

func (c *httpClient) do(ctx context.Context, method, path string, body interface{}) (*http.Response, error) {
	tok, err := c.token(ctx)
	if err != nil {
		return nil, err
	}

	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reqBody = bytes.NewBuffer(jsonBody)
	}

	endpoint := fmt.Sprintf("%s/admin/realms/%s/%s", c.cfg.BaseURL, c.cfg.Realm, path)
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+tok)

	return c.client.Do(req)
}

type userRepresentation struct {
	Username   string            `json:"username"`
	Email      string            `json:"email,omitempty"`
	Enabled    bool              `json:"enabled"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

type errorRepresentation struct {
	ErrorMessage string `json:"errorMessage"`
}

// CreateUser registers a new account. A conflict on the username short
// circuits with ErrUsernameConflict so the caller can surface it without
// touching any further collaborator.
func (c *httpClient) CreateUser(ctx context.Context, username, email, password string) (*CreatedUser, error) {
	payload := userRepresentation{Username: username, Email: email, Enabled: true}
	resp, err := c.do(ctx, http.MethodPost, "users", payload)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusCreated:
		// Location header carries the new user's id.
		loc := resp.Header.Get("Location")
		idx := strings.LastIndex(loc, "/")
		if idx < 0 || idx == len(loc)-1 {
			return nil, fmt.Errorf("identity provider returned no user id")
		}
		user := &CreatedUser{ID: loc[idx+1:]}
		if password != "" {
			if err := c.UpdatePassword(ctx, user.ID, password); err != nil {
				return nil, err
			}
		}
		return user, nil
	case http.StatusConflict:
		var rep errorRepresentation
		_ = json.NewDecoder(resp.Body).Decode(&rep)
		if strings.Contains(strings.ToLower(rep.ErrorMessage), "email") {
			return nil, ErrEmailConflict
		}
		return nil, ErrUsernameConflict
	default:
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("identity provider user creation returned %d: %s", resp.StatusCode, string(body))
	}
}

type roleRepresentation struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (c *httpClient) UpdateRole(ctx context.Context, userID, role string) error {
	resp, err := c.do(ctx, http.MethodGet, fmt.Sprintf("roles/%s", role), nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("identity provider has no role %q", role)
	}
	var rep roleRepresentation
	if err := json.NewDecoder(resp.Body).Decode(&rep); err != nil {
		return err
	}

	assignResp, err := c.do(ctx, http.MethodPost,
		fmt.Sprintf("users/%s/role-mappings/realm", userID), []roleRepresentation{rep})
	if err != nil {
		return err
	}
	defer assignResp.Body.Close()
	if assignResp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("identity provider role assignment returned %d", assignResp.StatusCode)
	}
	return nil
}

type credentialRepresentation struct {
	Type      string `json:"type"`
	Value     string `json:"value"`
	Temporary bool   `json:"temporary"`
}

func (c *httpClient) UpdatePassword(ctx context.Context, userID, password string) error {
	payload := credentialRepresentation{Type: "password", Value: password, Temporary: false}
	resp, err := c.do(ctx, http.MethodPut, fmt.Sprintf("users/%s/reset-password", userID), payload)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("identity provider password update returned %d", resp.StatusCode)
	}
	return nil
}

// UpdateDummyEmail assigns a synthetic address derived from the user id so
// accounts registered without an email remain unique in the provider.
func (c *httpClient) UpdateDummyEmail(ctx context.Context, userID string) (string, error) {
	email := fmt.Sprintf("%s@%s", userID, c.cfg.EmailDummyHost)
	payload := map[string]interface{}{"email": email}
	resp, err := c.do(ctx, http.MethodPut, fmt.Sprintf("users/%s", userID), payload)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		return "", fmt.Errorf("identity provider email update returned %d", resp.StatusCode)
	}
	return email, nil
}

// RollbackUser removes an account created earlier in a failed workflow.
func (c *httpClient) RollbackUser(ctx context.Context, userID string) error {
	resp, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("users/%s", userID), nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusNotFound {
		return fmt.Errorf("identity provider user deletion returned %d", resp.StatusCode)
	}
	return nil
}
