package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"sitegen/internal/config"
	"sitegen/internal/httpapi"
	"sitegen/internal/images"
	"sitegen/internal/llm"
	"sitegen/internal/prompt"
	"sitegen/internal/site"
)

type serveFlags struct {
	addr             string
	backendURL       string
	model            string
	promptDir        string
	corsOrigins      string
	imageConcurrency int
	requestTimeout   int64
	maxBodyBytes     int64
}

func newServeCmd(opts *rootOptions) *cobra.Command {
	var f serveFlags
	cmd := &cobra.Command{
		Use:     "serve",
		Short:   "Run the HTTP API",
		Example: "  sitegen serve --addr :8000 --model qwen2.5-coder:7b",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.cfg
			fl := cmd.Flags()
			if fl.Changed("addr") {
				cfg.Addr = f.addr
			}
			if fl.Changed("ollama-url") {
				cfg.Backend.URL = f.backendURL
			}
			if fl.Changed("model") {
				cfg.Backend.Model = f.model
			}
			if fl.Changed("prompt-dir") {
				cfg.PromptDir = f.promptDir
			}
			if fl.Changed("cors-origins") {
				cfg.CORSOrigins = config.SplitCSV(f.corsOrigins)
			}
			if fl.Changed("image-concurrency") {
				cfg.Images.Concurrency = f.imageConcurrency
			}
			if fl.Changed("request-timeout") {
				cfg.RequestTimeoutSeconds = f.requestTimeout
			}
			if fl.Changed("max-body-bytes") {
				cfg.MaxBodyBytes = f.maxBodyBytes
			}
			return runServe(cmd.Context(), cfg.WithDefaults())
		},
	}
	fs := cmd.Flags()
	fs.StringVar(&f.addr, "addr", config.DefaultAddr, "HTTP listen address (defaults SITEGEN_ADDR)")
	fs.StringVar(&f.backendURL, "ollama-url", config.DefaultBackendURL, "Ollama base URL (defaults OLLAMA_URL)")
	fs.StringVar(&f.model, "model", config.DefaultModel, "Default model when a request names none (defaults SITEGEN_MODEL)")
	fs.StringVar(&f.promptDir, "prompt-dir", "", "Directory with prompt template overrides")
	fs.StringVar(&f.corsOrigins, "cors-origins", "*", "Comma-separated allowed CORS origins")
	fs.IntVar(&f.imageConcurrency, "image-concurrency", config.DefaultImageConcurrency, "Distinct image searches resolved at once")
	fs.Int64Var(&f.requestTimeout, "request-timeout", 0, "Whole-request timeout in seconds (0 disables)")
	fs.Int64Var(&f.maxBodyBytes, "max-body-bytes", config.DefaultMaxBodyBytes, "Maximum JSON request body size")
	return cmd
}

// newService wires the pipeline from config.
func newService(cfg config.Config) (*site.Service, error) {
	prompts, err := prompt.New(cfg.PromptDir)
	if err != nil {
		return nil, err
	}
	pexels := images.NewPexels(images.PexelsConfig{
		APIKey:            cfg.Images.PexelsAPIKey,
		Endpoint:          cfg.Images.PexelsEndpoint,
		Timeout:           cfg.ImageTimeout(),
		RequestsPerSecond: cfg.Images.RequestsPerSecond,
		Burst:             cfg.Images.Burst,
	})
	backend := llm.NewOllama(llm.OllamaConfig{
		BaseURL:        cfg.Backend.URL,
		RequestTimeout: cfg.BackendTimeout(),
		ConnectTimeout: cfg.ConnectTimeout(),
	})
	return site.New(site.Config{
		Backend:      backend,
		Injector:     images.NewInjector(pexels, cfg.Images.Concurrency),
		Prompts:      prompts,
		DefaultModel: cfg.Backend.Model,
	}), nil
}

func runServe(ctx context.Context, cfg config.Config) error {
	logger := newLogger(cfg, os.Stderr)
	svc, err := newService(cfg)
	if err != nil {
		return err
	}
	if !images.HasCredential(cfg.Images.PexelsAPIKey) {
		logger.Warn().Msg("PEXELS_API_KEY not set; images will use placeholders")
	}

	httpapi.SetLogger(logger)
	httpapi.SetRequestLogLevel(cfg.LogLevel)
	httpapi.SetMaxBodyBytes(cfg.MaxBodyBytes)
	httpapi.SetRequestTimeoutSeconds(cfg.RequestTimeoutSeconds)
	httpapi.SetCORSOptions(true, cfg.CORSOrigins, nil, nil)

	baseCtx, cancelBase := context.WithCancel(context.Background())
	defer cancelBase()
	httpapi.SetBaseContext(baseCtx)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httpapi.NewMux(svc),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", cfg.Addr).Str("backend", cfg.Backend.URL).Str("model", svc.DefaultModel()).Msg("sitegen listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	// Graceful shutdown (Ctrl+C / SIGTERM)
	logger.Info().Msg("shutting down")
	cancelBase()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown error")
	}
	return nil
}
