// Package rxnorm provides a drug directory adapter backed by the
// National Library of Medicine's RxNav REST API.
package rxnorm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/medvault-labs/medvault-cli/internal/core/domain"
	"github.com/medvault-labs/medvault-cli/internal/core/ports/driven"
)

// Ensure Directory implements the interface.
var _ driven.DrugDirectory = (*Directory)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "https://rxnav.nlm.nih.gov/REST"
	DefaultTimeout = 10 * time.Second

	// DefaultRequestsPerSecond stays under the RxNav usage limit of 20.
	DefaultRequestsPerSecond = 15
)

// Config holds configuration for the RxNav drug directory.
type Config struct {
	// BaseURL is the RxNav API base URL (default: https://rxnav.nlm.nih.gov/REST).
	BaseURL string

	// Timeout is the request timeout (default: 10s).
	Timeout time.Duration

	// RequestsPerSecond caps the outbound request rate (default: 15).
	RequestsPerSecond float64
}

// Directory looks up drug names via the RxNorm rxcui endpoint.
// Results are cached per normalised name for the lifetime of the
// directory; definitive misses are cached too so repeated validation
// of the same document does not re-query RxNav.
type Directory struct {
	client  *http.Client
	baseURL string
	limiter *rate.Limiter

	mu    sync.RWMutex
	cache map[string]*domain.DrugInfo // nil value marks a cached miss
}

// rxcuiResponse is the RxNav /rxcui.json response format.
type rxcuiResponse struct {
	IDGroup struct {
		Name     string   `json:"name"`
		RxNormID []string `json:"rxnormId"`
	} `json:"idGroup"`
}

// NewDirectory creates a new RxNav-backed drug directory.
func NewDirectory(cfg Config) *Directory {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = DefaultRequestsPerSecond
	}

	return &Directory{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: cfg.BaseURL,
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
		cache:   make(map[string]*domain.DrugInfo),
	}
}

// Lookup resolves a drug name against RxNorm. A name RxNorm does not
// know returns domain.ErrNotFound; transport trouble returns other
// errors and must not be read as "unknown drug".
func (d *Directory) Lookup(ctx context.Context, name string) (*domain.DrugInfo, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: drug name must not be empty", domain.ErrInvalidInput)
	}

	key := strings.ToLower(name)

	d.mu.RLock()
	cached, hit := d.cache[key]
	d.mu.RUnlock()
	if hit {
		if cached == nil {
			return nil, fmt.Errorf("%w: drug %q", domain.ErrNotFound, name)
		}
		out := *cached
		return &out, nil
	}

	if err := d.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rxnorm: rate limiter: %w", err)
	}

	query := url.Values{}
	query.Set("name", name)
	query.Set("search", "2") // normalised match, tolerant of case and salts

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodGet,
		d.baseURL+"/rxcui.json?"+query.Encode(),
		http.NoBody,
	)
	if err != nil {
		return nil, fmt.Errorf("rxnorm: create request: %w", err)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("rxnorm: send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, fmt.Errorf("%w: rxnav", domain.ErrRateLimited)
	}
	if resp.StatusCode != http.StatusOK {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("rxnorm error (status %d): failed to read response", resp.StatusCode)
		}
		return nil, fmt.Errorf("rxnorm error (status %d): %s", resp.StatusCode, string(body))
	}

	var rxResp rxcuiResponse
	if err := json.NewDecoder(resp.Body).Decode(&rxResp); err != nil {
		return nil, fmt.Errorf("rxnorm: decode response: %w", err)
	}

	if len(rxResp.IDGroup.RxNormID) == 0 {
		d.mu.Lock()
		d.cache[key] = nil
		d.mu.Unlock()
		return nil, fmt.Errorf("%w: drug %q", domain.ErrNotFound, name)
	}

	info := &domain.DrugInfo{
		RxCUI: rxResp.IDGroup.RxNormID[0],
		Name:  name,
	}

	d.mu.Lock()
	d.cache[key] = info
	d.mu.Unlock()

	out := *info
	return &out, nil
}
