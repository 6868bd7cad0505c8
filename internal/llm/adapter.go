// Package llm talks to the local text-generation backend.
package llm

import (
	"context"

	"sitegen/pkg/types"
)

// Generator turns a prompt into generated text using the named model.
// Keep this surface small; the model runtime is a separate process.
type Generator interface {
	Generate(ctx context.Context, model, prompt string) (string, error)
}

// Catalog lists the models a backend can serve.
type Catalog interface {
	ListModels(ctx context.Context) ([]types.Model, error)
}
