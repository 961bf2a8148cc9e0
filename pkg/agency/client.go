package agency

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Agency is the directory service's record for a counseling agency.
type Agency struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	Postcode       string `json:"postcode"`
	ConsultingType int    `json:"consultingType"`
	Offline        bool   `json:"offline"`
}

// Client resolves agencies from the agency directory service.
type Client interface {
	GetAgency(ctx context.Context, agencyID int64) (*Agency, error)
}

// Config carries the directory service endpoint and cache settings.
type Config struct {
	BaseURL        string
	CacheTTL       time.Duration
	RequestTimeout time.Duration
}

type httpClient struct {
	cfg    Config
	client *http.Client
	cache  *gocache.Cache
}

// NewClient builds a caching HTTP client for the agency directory. Agencies
// change rarely, so responses are held in memory for the configured TTL.
func NewClient(cfg Config) Client {
	if cfg.RequestTimeout == 0 {
		cfg.RequestTimeout = 5 * time.Second
	}
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = 3 * time.Minute
	}
	return &httpClient{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.RequestTimeout},
		cache:  gocache.New(cfg.CacheTTL, 2*cfg.CacheTTL),
	}
}

func (c *httpClient) GetAgency(ctx context.Context, agencyID int64) (*Agency, error) {
	key := fmt.Sprintf("agency:%d", agencyID)
	if cached, ok := c.cache.Get(key); ok {
		return cached.(*Agency), nil
	}

	endpoint := fmt.Sprintf("%s/agencies/%d", c.cfg.BaseURL, agencyID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("agency directory returned %d: %s", resp.StatusCode, string(body))
	}

	var agency Agency
	if err := json.NewDecoder(resp.Body).Decode(&agency); err != nil {
		return nil, err
	}
	c.cache.Set(key, &agency, gocache.DefaultExpiration)
	return &agency, nil
}
