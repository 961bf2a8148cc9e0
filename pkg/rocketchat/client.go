package rocketchat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Credentials identify the acting chat-backend user for a request.
type Credentials struct {
	UserID string
	Token  string
}

// LoginResult is the outcome of a (first-time) login.
type LoginResult struct {
	UserID string
	Token  string
}

// UserInfo is the chat backend's view of an account.
type UserInfo struct {
	UserID   string
	Username string
}

// Client is the chat-backend capability surface the orchestrators consume.
type Client interface {
	CreateGroup(ctx context.Context, name string, creds Credentials) (groupID string, err error)
	CreateGroupAsSystemUser(ctx context.Context, name string) (groupID string, err error)
	DeleteGroup(ctx context.Context, groupID string, creds Credentials) (bool, error)
	DeleteGroupAsSystemUser(ctx context.Context, groupID string) (bool, error)
	AddMember(ctx context.Context, userID, groupID string) error
	RemoveMember(ctx context.Context, userID, groupID string) error
	PostMessage(ctx context.Context, groupID string, creds Credentials, text string) error
	PostMessageAsSystemUser(ctx context.Context, groupID, text string) error
	LoginFirstTime(ctx context.Context, username, password string) (*LoginResult, error)
	Logout(ctx context.Context, creds Credentials) error
	GetUserInfo(ctx context.Context, userID string) (*UserInfo, error)
	PurgeSystemMessages(ctx context.Context, groupID string, oldest, latest time.Time) error
	SystemUserID() string
	TechnicalUserID() string
}

// Config carries connection and service-account settings.
type Config struct {
	BaseURL           string
	SystemUserID      string
	SystemToken       string
	TechnicalUserID   string
	TechnicalToken    string
	RequestTimeout    time.Duration
	HeaderAuthToken   string
	HeaderUserID      string
}

type httpClient struct {
	cfg    Config
	client *http.Client
}

// NewClient builds an HTTP client against a Rocket.Chat-compatible REST API.
func NewClient(cfg Config) Client {
	if cfg.RequestTimeout == 0 {
		cfg.RequestTimeout = 10 * time.Second
	}
	if cfg.HeaderAuthToken == "" {
		cfg.HeaderAuthToken = "X-Auth-Token"
	}
	if cfg.HeaderUserID == "" {
		cfg.HeaderUserID = "X-User-Id"
	}
	return &httpClient{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.RequestTimeout},
	}
}

func (c *httpClient) systemCredentials() Credentials {
	return Credentials{UserID: c.cfg.SystemUserID, Token: c.cfg.SystemToken}
}

func (c *httpClient) technicalCredentials() Credentials {
	return Credentials{UserID: c.cfg.TechnicalUserID, Token: c.cfg.TechnicalToken}
}

func (c *httpClient) SystemUserID() string {
	return c.cfg.SystemUserID
}

func (c *httpClient) TechnicalUserID() string {
	return c.cfg.TechnicalUserID
}

func (c *httpClient) do(ctx context.Context, method, path string, creds *Credentials, body interface{}, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(jsonBody)
	}

	endpoint := fmt.Sprintf("%s/api/v1/%s", c.cfg.BaseURL, path)
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if creds != nil {
		req.Header.Set(c.cfg.HeaderAuthToken, creds.Token)
		req.Header.Set(c.cfg.HeaderUserID, creds.UserID)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("chat backend %s returned %d: %s", path, resp.StatusCode, string(bodyBytes))
	}
	if out != nil {
		return json.Unmarshal(bodyBytes, out)
	}
	return nil
}

type groupResponse struct {
	Success bool `json:"success"`
	Group   struct {
		ID   string `json:"_id"`
		Name string `json:"name"`
		User struct {
			ID string `json:"_id"`
		} `json:"u"`
	} `json:"group"`
}

func (c *httpClient) CreateGroup(ctx context.Context, name string, creds Credentials) (string, error) {
	var res groupResponse
	payload := map[string]interface{}{"name": name}
	if err := c.do(ctx, http.MethodPost, "groups.create", &creds, payload, &res); err != nil {
		return "", err
	}
	if !res.Success || res.Group.ID == "" {
		return "", fmt.Errorf("chat backend did not return a group id for %q", name)
	}
	return res.Group.ID, nil
}

func (c *httpClient) CreateGroupAsSystemUser(ctx context.Context, name string) (string, error) {
	creds := c.systemCredentials()
	return c.CreateGroup(ctx, name, creds)
}

type successResponse struct {
	Success bool `json:"success"`
}

func (c *httpClient) DeleteGroup(ctx context.Context, groupID string, creds Credentials) (bool, error) {
	var res successResponse
	payload := map[string]interface{}{"roomId": groupID}
	if err := c.do(ctx, http.MethodPost, "groups.delete", &creds, payload, &res); err != nil {
		return false, err
	}
	return res.Success, nil
}

func (c *httpClient) DeleteGroupAsSystemUser(ctx context.Context, groupID string) (bool, error) {
	creds := c.systemCredentials()
	return c.DeleteGroup(ctx, groupID, creds)
}

// AddMember invites a user into a group, acting as the technical user.
func (c *httpClient) AddMember(ctx context.Context, userID, groupID string) error {
	creds := c.technicalCredentials()
	var res successResponse
	payload := map[string]interface{}{"roomId": groupID, "userId": userID}
	if err := c.do(ctx, http.MethodPost, "groups.invite", &creds, payload, &res); err != nil {
		return err
	}
	if !res.Success {
		return fmt.Errorf("could not add user %s to group %s", userID, groupID)
	}
	return nil
}

func (c *httpClient) RemoveMember(ctx context.Context, userID, groupID string) error {
	creds := c.technicalCredentials()
	var res successResponse
	payload := map[string]interface{}{"roomId": groupID, "userId": userID}
	if err := c.do(ctx, http.MethodPost, "groups.kick", &creds, payload, &res); err != nil {
		return err
	}
	if !res.Success {
		return fmt.Errorf("could not remove user %s from group %s", userID, groupID)
	}
	return nil
}

func (c *httpClient) PostMessage(ctx context.Context, groupID string, creds Credentials, text string) error {
	var res successResponse
	payload := map[string]interface{}{"roomId": groupID, "text": text}
	if err := c.do(ctx, http.MethodPost, "chat.postMessage", &creds, payload, &res); err != nil {
		return err
	}
	if !res.Success {
		return fmt.Errorf("could not post message to group %s", groupID)
	}
	return nil
}

func (c *httpClient) PostMessageAsSystemUser(ctx context.Context, groupID, text string) error {
	return c.PostMessage(ctx, groupID, c.systemCredentials(), text)
}

type loginResponse struct {
	Status string `json:"status"`
	Data   struct {
		UserID    string `json:"userId"`
		AuthToken string `json:"authToken"`
	} `json:"data"`
}

// LoginFirstTime authenticates a freshly provisioned account. The chat
// backend finalizes account setup on this first login.
func (c *httpClient) LoginFirstTime(ctx context.Context, username, password string) (*LoginResult, error) {
	var res loginResponse
	payload := map[string]interface{}{"username": username, "password": password}
	if err := c.do(ctx, http.MethodPost, "login", nil, payload, &res); err != nil {
		return nil, err
	}
	if res.Data.UserID == "" || res.Data.AuthToken == "" {
		return nil, fmt.Errorf("chat backend login for %s returned incomplete credentials", username)
	}
	return &LoginResult{UserID: res.Data.UserID, Token: res.Data.AuthToken}, nil
}

func (c *httpClient) Logout(ctx context.Context, creds Credentials) error {
	return c.do(ctx, http.MethodPost, "logout", &creds, nil, nil)
}

type userInfoResponse struct {
	Success bool `json:"success"`
	User    struct {
		ID       string `json:"_id"`
		Username string `json:"username"`
	} `json:"user"`
}

func (c *httpClient) GetUserInfo(ctx context.Context, userID string) (*UserInfo, error) {
	creds := c.technicalCredentials()
	var res userInfoResponse
	path := fmt.Sprintf("users.info?userId=%s", url.QueryEscape(userID))
	if err := c.do(ctx, http.MethodGet, path, &creds, nil, &res); err != nil {
		return nil, err
	}
	if !res.Success {
		return nil, fmt.Errorf("chat backend has no user %s", userID)
	}
	return &UserInfo{UserID: res.User.ID, Username: res.User.Username}, nil
}

// PurgeSystemMessages removes system-generated messages (joins, invites) from
// a group's history within the given window.
func (c *httpClient) PurgeSystemMessages(ctx context.Context, groupID string, oldest, latest time.Time) error {
	creds := c.technicalCredentials()
	var res successResponse
	payload := map[string]interface{}{
		"roomId": groupID,
		"oldest": oldest.UTC().Format(time.RFC3339),
		"latest": latest.UTC().Format(time.RFC3339),
		"types":  []string{"au", "uj", "ul", "ru", "subscription-role-added"},
	}
	if err := c.do(ctx, http.MethodPost, "rooms.cleanHistory", &creds, payload, &res); err != nil {
		return err
	}
	if !res.Success {
		return fmt.Errorf("could not clean history of group %s", groupID)
	}
	return nil
}
