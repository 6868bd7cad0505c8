package images

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const (
	// DefaultPexelsEndpoint is the Pexels photo search API.
	DefaultPexelsEndpoint = "https://api.pexels.com/v1/search"
	// DefaultSearchTimeout bounds a single photo search.
	DefaultSearchTimeout = 5 * time.Second

	// credentialSentinel marks an API key copied verbatim from an example env file.
	credentialSentinel = "your_pexels_key"
	maxErrorBody       = 512
)

var (
	errNoCredential = errors.New("no photo search credential configured")
	errNoResults    = errors.New("photo search returned no results")
)

// statusError is a non-200 answer from the photo search API.
type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("photo search http %d: %s", e.code, e.body)
}

// rateLimitError wraps a failed wait on the outbound limiter.
type rateLimitError struct{ err error }

func (e *rateLimitError) Error() string { return "photo search rate limited: " + e.err.Error() }
func (e *rateLimitError) Unwrap() error { return e.err }

// HasCredential reports whether key looks like a usable Pexels API key.
func HasCredential(key string) bool {
	key = strings.TrimSpace(key)
	return key != "" && !strings.Contains(key, credentialSentinel)
}

// PexelsConfig configures a Pexels resolver. Zero values select defaults.
type PexelsConfig struct {
	APIKey   string
	Endpoint string
	Timeout  time.Duration
	// RequestsPerSecond throttles outbound searches; 0 disables throttling.
	RequestsPerSecond float64
	Burst             int
	HTTPClient        *http.Client
}

// Pexels resolves queries with the Pexels photo search API and falls back to
// a placeholder image on any failure.
type Pexels struct {
	apiKey   string
	endpoint string
	timeout  time.Duration
	limiter  *rate.Limiter
	client   *http.Client
}

// NewPexels constructs a Pexels resolver. The API key is captured here and
// never re-read from the environment.
func NewPexels(cfg PexelsConfig) *Pexels {
	p := &Pexels{
		apiKey:   strings.TrimSpace(cfg.APIKey),
		endpoint: cfg.Endpoint,
		timeout:  cfg.Timeout,
		client:   cfg.HTTPClient,
	}
	if p.endpoint == "" {
		p.endpoint = DefaultPexelsEndpoint
	}
	if p.timeout <= 0 {
		p.timeout = DefaultSearchTimeout
	}
	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		p.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}
	if p.client == nil {
		tr := &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   p.timeout,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			MaxIdleConns:          20,
			MaxIdleConnsPerHost:   4,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   p.timeout,
			ExpectContinueTimeout: 1 * time.Second,
		}
		// Deadlines come from the per-search context.
		p.client = &http.Client{Transport: tr, Timeout: 0}
	}
	return p
}

// Enabled reports whether real searches will be attempted.
func (p *Pexels) Enabled() bool { return HasCredential(p.apiKey) }

// Resolve returns the landscape URL of the first Pexels hit for query, or
// FallbackURL(query) when the search cannot produce one.
func (p *Pexels) Resolve(ctx context.Context, query string) string {
	u, err := p.search(ctx, query)
	if err == nil {
		resolvedTotal.WithLabelValues(sourcePexels, reasonNone).Inc()
		return u
	}
	resolvedTotal.WithLabelValues(sourceFallback, p.logFailure(ctx, query, err)).Inc()
	return FallbackURL(query)
}

// logFailure records why a search fell back and returns the metric reason.
func (p *Pexels) logFailure(ctx context.Context, query string, err error) string {
	log := zerolog.Ctx(ctx)
	var se *statusError
	var rl *rateLimitError
	switch {
	case errors.Is(err, errNoCredential):
		return reasonNoCredential
	case errors.Is(err, errNoResults):
		log.Debug().Str("query", query).Msg("no photo found; using placeholder")
		return reasonNoResults
	case errors.As(err, &se):
		log.Warn().Int("status", se.code).Str("body", se.body).Str("query", query).Msg("photo search api error")
		return reasonStatus
	case errors.As(err, &rl):
		log.Warn().Err(err).Str("query", query).Msg("photo search throttled")
		return reasonRateLimited
	default:
		log.Error().Err(err).Str("query", query).Msg("failed to fetch image")
		return reasonError
	}
}

type searchResponse struct {
	Photos []struct {
		Src struct {
			Landscape string `json:"landscape"`
		} `json:"src"`
	} `json:"photos"`
}

// search performs exactly one photo search.
func (p *Pexels) search(ctx context.Context, query string) (string, error) {
	if !p.Enabled() {
		return "", errNoCredential
	}
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			return "", &rateLimitError{err: err}
		}
	}

	u, err := url.Parse(p.endpoint)
	if err != nil {
		return "", fmt.Errorf("parse endpoint: %w", err)
	}
	q := u.Query()
	q.Set("query", query)
	q.Set("per_page", "1")
	q.Set("orientation", "landscape")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), http.NoBody)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", p.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return "", &statusError{code: resp.StatusCode, body: strings.TrimSpace(string(b))}
	}
	var sr searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return "", fmt.Errorf("decode photo search response: %w", err)
	}
	if len(sr.Photos) == 0 {
		return "", errNoResults
	}
	landscape := sr.Photos[0].Src.Landscape
	if landscape == "" {
		return "", errors.New("photo search result has no landscape url")
	}
	return landscape, nil
}
