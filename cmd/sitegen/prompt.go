package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sitegen/internal/prompt"
)

func newPromptCmd(opts *rootOptions) *cobra.Command {
	var formPath, editPath, instructions string
	cmd := &cobra.Command{
		Use:   "prompt",
		Short: "Print the prompt that would be sent to the model",
		Example: "  sitegen prompt --form form.json\n" +
			"  sitegen prompt --edit-code index.html --instructions 'make the header sticky'",
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := prompt.New(opts.cfg.PromptDir)
			if err != nil {
				return err
			}
			var out string
			switch {
			case editPath != "":
				if instructions == "" {
					return errors.New("--instructions is required with --edit-code")
				}
				code, err := os.ReadFile(editPath)
				if err != nil {
					return err
				}
				out, err = b.Edit(prompt.EditInput{ExistingCode: string(code), Instructions: instructions})
				if err != nil {
					return err
				}
			default:
				raw, err := readInput(cmd.InOrStdin(), nonEmpty(formPath))
				if err != nil {
					return err
				}
				out, err = b.Initial(prompt.InitialInput{Form: json.RawMessage(raw)})
				if err != nil {
					return err
				}
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), out)
			return err
		},
	}
	fs := cmd.Flags()
	fs.StringVar(&formPath, "form", "", "JSON form data file (stdin when omitted)")
	fs.StringVar(&editPath, "edit-code", "", "Existing HTML file to edit")
	fs.StringVar(&instructions, "instructions", "", "Edit instructions (with --edit-code)")
	return cmd
}

func nonEmpty(s string) []string {
	if s == "" {
		return nil
	}
	return []string{s}
}
