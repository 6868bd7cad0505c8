// Package prompt renders the text sent to the text-generation backend.
// Template text lives in templates/ and can be overridden from a directory.
package prompt

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"sitegen/internal/common/fsutil"
)

//go:embed templates/*.tmpl
var embedded embed.FS

const (
	rulesName   = "image_rules.tmpl"
	initialName = "initial.tmpl"
	editName    = "edit.tmpl"
)

// InitialInput is the data for a new-site prompt.
type InitialInput struct {
	// Form is the caller's form data as a JSON object.
	Form json.RawMessage
}

// EditInput is the data for an edit prompt.
type EditInput struct {
	ExistingCode string
	Instructions string
}

// Builder renders prompts. It holds parsed templates only and is safe for
// concurrent use.
type Builder struct {
	tmpl *template.Template
}

// New parses the prompt templates. Files found in dir replace the embedded
// ones of the same name; an empty dir uses the embedded set.
func New(dir string) (*Builder, error) {
	if dir != "" {
		d, err := fsutil.ExpandHome(dir)
		if err != nil {
			return nil, err
		}
		dir = d
	}
	root := template.New("prompt").Option("missingkey=error")
	for _, name := range []string{rulesName, initialName, editName} {
		text, err := readTemplate(dir, name)
		if err != nil {
			return nil, err
		}
		if _, err := root.New(name).Parse(text); err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
	}
	return &Builder{tmpl: root}, nil
}

// MustNew is New for the embedded templates; it panics on a broken build.
func MustNew() *Builder {
	b, err := New("")
	if err != nil {
		panic(err)
	}
	return b
}

func readTemplate(dir, name string) (string, error) {
	if dir != "" {
		p := filepath.Join(dir, name)
		if fsutil.PathExists(p) {
			b, err := os.ReadFile(p)
			if err != nil {
				return "", fmt.Errorf("read template %s: %w", p, err)
			}
			return string(b), nil
		}
	}
	b, err := embedded.ReadFile("templates/" + name)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Initial renders the prompt for a brand-new site. The form JSON is
// re-indented with two spaces and keeps the caller's key order.
func (b *Builder) Initial(in InitialInput) (string, error) {
	form := bytes.TrimSpace(in.Form)
	if len(form) == 0 {
		form = []byte("{}")
	}
	var indented bytes.Buffer
	if err := json.Indent(&indented, form, "", "  "); err != nil {
		return "", fmt.Errorf("format form data: %w", err)
	}
	return b.render(initialName, map[string]any{"Form": indented.String()})
}

// Edit renders the prompt for modifying an existing site.
func (b *Builder) Edit(in EditInput) (string, error) {
	return b.render(editName, map[string]any{
		"ExistingCode": in.ExistingCode,
		"Instructions": in.Instructions,
	})
}

func (b *Builder) render(name string, data map[string]any) (string, error) {
	var sb strings.Builder
	if err := b.tmpl.ExecuteTemplate(&sb, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return sb.String(), nil
}
