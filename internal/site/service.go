// Package site runs the generate and edit pipelines: prompt, backend call,
// image injection, sanitization.
package site

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"sitegen/internal/images"
	"sitegen/internal/llm"
	"sitegen/internal/prompt"
	"sitegen/internal/render"
	"sitegen/pkg/types"
)

// Backend is the text-generation collaborator. llm.Ollama satisfies it.
type Backend interface {
	llm.Generator
	llm.Catalog
}

// Options carries per-request overrides.
type Options struct {
	// Model overrides the default model when non-empty.
	Model string
}

// Service is safe for concurrent use; it holds no per-request state.
type Service struct {
	backend      Backend
	injector     *images.Injector
	prompts      *prompt.Builder
	defaultModel string
}

// Config wires a Service.
type Config struct {
	Backend      Backend
	Injector     *images.Injector
	Prompts      *prompt.Builder
	DefaultModel string
}

// New returns a Service. A nil Injector uses the fallback-only resolver and
// a nil Prompts uses the embedded templates.
func New(cfg Config) *Service {
	s := &Service{
		backend:      cfg.Backend,
		injector:     cfg.Injector,
		prompts:      cfg.Prompts,
		defaultModel: cfg.DefaultModel,
	}
	if s.injector == nil {
		s.injector = images.NewInjector(images.Placeholder, images.DefaultConcurrency)
	}
	if s.prompts == nil {
		s.prompts = prompt.MustNew()
	}
	if s.defaultModel == "" {
		s.defaultModel = llm.DefaultModel
	}
	return s
}

// DefaultModel is the model used when a request names none.
func (s *Service) DefaultModel() string { return s.defaultModel }

// Generate builds a new site from caller form data.
func (s *Service) Generate(ctx context.Context, form json.RawMessage, opts Options) (string, error) {
	p, err := s.prompts.Initial(prompt.InitialInput{Form: form})
	if err != nil {
		pipelineTotal.WithLabelValues("generate", "invalid").Inc()
		return "", ErrInvalidRequest(err.Error())
	}
	return s.run(ctx, "generate", p, opts)
}

// Edit modifies an existing site. Both fields must be non-blank; validation
// happens before any backend call.
func (s *Service) Edit(ctx context.Context, req types.EditRequest, opts Options) (string, error) {
	switch {
	case strings.TrimSpace(req.ExistingCode) == "":
		pipelineTotal.WithLabelValues("edit", "invalid").Inc()
		return "", ErrInvalidRequest("existingCode must be a non-empty string")
	case strings.TrimSpace(req.Instructions) == "":
		pipelineTotal.WithLabelValues("edit", "invalid").Inc()
		return "", ErrInvalidRequest("instructions must be a non-empty string")
	}
	if opts.Model == "" {
		opts.Model = req.Model
	}
	p, err := s.prompts.Edit(prompt.EditInput{ExistingCode: req.ExistingCode, Instructions: req.Instructions})
	if err != nil {
		pipelineTotal.WithLabelValues("edit", "error").Inc()
		return "", fmt.Errorf("build edit prompt: %w", err)
	}
	return s.run(ctx, "edit", p, opts)
}

func (s *Service) run(ctx context.Context, op, p string, opts Options) (string, error) {
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = s.defaultModel
	}
	log := zerolog.Ctx(ctx).With().Str("op", op).Str("model", model).Logger()
	ctx = log.WithContext(ctx)

	raw, err := s.backend.Generate(ctx, model, p)
	if err != nil {
		if llm.IsUnavailable(err) {
			pipelineTotal.WithLabelValues(op, "unavailable").Inc()
			log.Error().Err(err).Msg("text-generation backend unavailable")
		} else {
			pipelineTotal.WithLabelValues(op, "error").Inc()
			log.Error().Err(err).Msg("generation failed")
		}
		return "", err
	}

	doc := s.injector.Inject(ctx, raw)
	doc = render.Sanitize(ctx, doc)

	if rep, err := render.Audit(doc); err != nil {
		log.Warn().Err(err).Msg("audit failed")
	} else {
		if len(rep.Unresolved) > 0 {
			unresolvedTotal.Add(float64(len(rep.Unresolved)))
			log.Warn().Strs("unresolved", rep.Unresolved).Msg("document still contains image placeholders")
		}
		log.Info().Str("title", rep.Title).Int("images", rep.Images).Int("bytes", len(doc)).Msg("document ready")
	}
	pipelineTotal.WithLabelValues(op, "ok").Inc()
	return doc, nil
}

// ListModels returns the models the backend advertises.
func (s *Service) ListModels(ctx context.Context) ([]types.Model, error) {
	return s.backend.ListModels(ctx)
}

// Ready reports whether the backend answers.
func (s *Service) Ready(ctx context.Context) error {
	_, err := s.backend.ListModels(ctx)
	return err
}
