package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"sitegen/pkg/types"
)

const (
	// DefaultBaseURL is where a local Ollama listens.
	DefaultBaseURL = "http://localhost:11434"
	// DefaultModel is used when neither the request nor config names one.
	DefaultModel = "qwen2.5-coder:7b"
	// DefaultRequestTimeout bounds one generate call; local inference is slow.
	DefaultRequestTimeout = 420 * time.Second
	// DefaultConnectTimeout bounds dialing the backend.
	DefaultConnectTimeout = 10 * time.Second

	maxErrorBody = 4096
)

// OllamaConfig configures an Ollama client. Zero values select defaults.
type OllamaConfig struct {
	BaseURL        string
	RequestTimeout time.Duration
	ConnectTimeout time.Duration
	HTTPClient     *http.Client
}

// Ollama implements Generator and Catalog against the Ollama HTTP API.
type Ollama struct {
	baseURL    string
	reqTimeout time.Duration
	httpClient *http.Client
}

// NewOllama constructs an Ollama client.
func NewOllama(cfg OllamaConfig) *Ollama {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = DefaultConnectTimeout
	}
	cli := cfg.HTTPClient
	if cli == nil {
		tr := &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   cfg.ConnectTimeout,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			MaxIdleConns:          100,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   10 * time.Second,
			ExpectContinueTimeout: 1 * time.Second,
		}
		// Timeout=0: every call carries a context deadline instead.
		cli = &http.Client{Transport: tr, Timeout: 0}
	}
	return &Ollama{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		reqTimeout: cfg.RequestTimeout,
		httpClient: cli,
	}
}

// BaseURL returns the backend root URL.
func (o *Ollama) BaseURL() string { return o.baseURL }

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Generate sends a non-streaming generate call and returns the full response text.
func (o *Ollama) Generate(ctx context.Context, model, prompt string) (string, error) {
	start := time.Now()
	out, err := o.generate(ctx, model, prompt)
	generateDuration.WithLabelValues(outcome(err)).Observe(time.Since(start).Seconds())
	return out, err
}

func (o *Ollama) generate(ctx context.Context, model, prompt string) (string, error) {
	log := zerolog.Ctx(ctx)
	parent := ctx
	ctx, cancel := context.WithTimeout(ctx, o.reqTimeout)
	defer cancel()

	body, err := json.Marshal(generateRequest{Model: model, Prompt: prompt, Stream: false})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	log.Info().Str("model", model).Int("prompt_len", len(prompt)).Msg("sending generate request")
	resp, err := o.httpClient.Do(req)
	if err != nil {
		// Caller went away; not a backend problem.
		if parent.Err() != nil {
			return "", parent.Err()
		}
		log.Error().Err(err).Str("url", o.baseURL).Msg("could not connect to text-generation backend; is ollama running?")
		return "", &unavailableError{url: o.baseURL, err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		err := readStatusError(resp)
		log.Error().Err(err).Int("status", resp.StatusCode).Msg("text-generation backend returned an error")
		return "", err
	}
	var gr generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		if parent.Err() == nil && ctx.Err() != nil {
			return "", &unavailableError{url: o.baseURL, err: ctx.Err()}
		}
		return "", fmt.Errorf("decode generate response: %w", err)
	}
	log.Info().Int("response_len", len(gr.Response)).Msg("received generate response")
	return gr.Response, nil
}

type tagsResponse struct {
	Models []struct {
		Name       string `json:"name"`
		Model      string `json:"model"`
		ModifiedAt string `json:"modified_at"`
		Size       int64  `json:"size"`
		Digest     string `json:"digest"`
		Details    struct {
			Family string `json:"family"`
		} `json:"details"`
	} `json:"models"`
}

// ListModels returns the models installed in the backend.
func (o *Ollama) ListModels(ctx context.Context) ([]types.Model, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.baseURL+"/api/tags", http.NoBody)
	if err != nil {
		return nil, err
	}
	resp, err := o.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &unavailableError{url: o.baseURL, err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, readStatusError(resp)
	}
	var tr tagsResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return nil, fmt.Errorf("decode tags response: %w", err)
	}
	out := make([]types.Model, 0, len(tr.Models))
	for _, m := range tr.Models {
		name := m.Name
		if name == "" {
			name = m.Model
		}
		out = append(out, types.Model{
			Name:       name,
			Size:       m.Size,
			Digest:     m.Digest,
			ModifiedAt: m.ModifiedAt,
			Family:     m.Details.Family,
		})
	}
	return out, nil
}

func readStatusError(resp *http.Response) error {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	msg := strings.TrimSpace(string(b))
	var er errorResponse
	if json.Unmarshal(b, &er) == nil && er.Error != "" {
		msg = er.Error
	}
	return &statusError{
		code: resp.StatusCode,
		msg:  "text-generation backend http error: " + resp.Status + ": " + msg,
	}
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case IsUnavailable(err):
		return "unavailable"
	case errors.Is(err, context.Canceled):
		return "canceled"
	default:
		return "error"
	}
}
