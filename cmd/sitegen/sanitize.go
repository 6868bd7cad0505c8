package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"sitegen/internal/images"
	"sitegen/internal/render"
)

func newSanitizeCmd(opts *rootOptions) *cobra.Command {
	var inject bool
	cmd := &cobra.Command{
		Use:     "sanitize [file]",
		Short:   "Extract the HTML document from raw model output",
		Example: "  ollama run qwen2.5-coder:7b 'landing page' | sitegen sanitize --inject",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readInput(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}
			logger := newLogger(opts.cfg, cmd.ErrOrStderr())
			ctx := logger.WithContext(cmd.Context())
			doc := string(raw)
			if inject {
				doc = images.NewInjector(images.Placeholder, 1).Inject(ctx, doc)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), render.Sanitize(ctx, doc))
			return err
		},
	}
	cmd.Flags().BoolVar(&inject, "inject", false, "Replace [IMAGE: ...] placeholders with placeholder image URLs")
	return cmd
}

// readInput reads the named file, or stdin when no file (or "-") is given.
func readInput(stdin io.Reader, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(args[0])
}
