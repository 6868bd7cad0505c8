package main

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"sitegen/internal/config"
)

// rootOptions are the persistent flags shared by every subcommand.
type rootOptions struct {
	configPath string
	logLevel   string
	logFormat  string
	cfg        config.Config
}

func buildRootCmd() *cobra.Command { return buildRootCmdWith(&rootOptions{}) }

// buildRootCmdWith constructs the command tree. Configuration is resolved
// once in PersistentPreRunE; flags that were set explicitly win over it.
func buildRootCmdWith(opts *rootOptions) *cobra.Command {
	root := &cobra.Command{
		Use:           "sitegen",
		Short:         "Generate and edit single-file websites with a local language model",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default ./sitegen.{yaml,toml,json} or ~/.config/sitegen/config.yaml)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level: debug|info|warn|error (defaults SITEGEN_LOG_LEVEL or info)")
	root.PersistentFlags().StringVar(&opts.logFormat, "log-format", "", "Log format: json|console (defaults SITEGEN_LOG_FORMAT or json)")
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Resolve(opts.configPath)
		if err != nil {
			return err
		}
		if opts.logLevel != "" {
			cfg.LogLevel = opts.logLevel
		}
		if opts.logFormat != "" {
			cfg.LogFormat = opts.logFormat
		}
		opts.cfg = cfg
		return nil
	}

	serve := newServeCmd(opts)
	root.AddCommand(serve, newSanitizeCmd(opts), newPromptCmd(opts))
	// serve is the default action.
	root.RunE = serve.RunE
	root.Flags().AddFlagSet(serve.Flags())

	// completion command
	completionCmd := &cobra.Command{Use: "completion", Short: "Generate the autocompletion script for the specified shell"}
	completionCmd.AddCommand(&cobra.Command{Use: "bash", Short: "Bash completion", RunE: func(cmd *cobra.Command, args []string) error { return root.GenBashCompletion(os.Stdout) }})
	completionCmd.AddCommand(&cobra.Command{Use: "zsh", Short: "Zsh completion", RunE: func(cmd *cobra.Command, args []string) error { return root.GenZshCompletion(os.Stdout) }})
	completionCmd.AddCommand(&cobra.Command{Use: "fish", Short: "Fish completion", RunE: func(cmd *cobra.Command, args []string) error { return root.GenFishCompletion(os.Stdout, true) }})
	root.AddCommand(completionCmd)

	return root
}

// newLogger builds the process logger from config.
func newLogger(cfg config.Config, w io.Writer) zerolog.Logger {
	if strings.EqualFold(cfg.LogFormat, "console") {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Str("service", "sitegen").Logger()
}
