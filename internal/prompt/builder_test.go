package prompt

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitial_IndentsFormAndKeepsKeyOrder(t *testing.T) {
	b := MustNew()
	out, err := b.Initial(InitialInput{Form: json.RawMessage(`{"businessName":"Acme","pages":["home","about"],"color":"teal"}`)})
	require.NoError(t, err)

	want := "```json\n{\n  \"businessName\": \"Acme\",\n  \"pages\": [\n    \"home\",\n    \"about\"\n  ],\n  \"color\": \"teal\"\n}\n```"
	assert.Contains(t, out, want)
	assert.Contains(t, out, "### IMAGE RULES (CRITICAL):")
	assert.Contains(t, out, `src="[IMAGE: short description of the image]"`)
	assert.Contains(t, out, "@tailwindcss/browser@4")
}

func TestInitial_EmptyForm(t *testing.T) {
	out, err := MustNew().Initial(InitialInput{})
	require.NoError(t, err)
	assert.Contains(t, out, "```json\n{}\n```")
}

func TestInitial_InvalidJSON(t *testing.T) {
	_, err := MustNew().Initial(InitialInput{Form: json.RawMessage(`{"a":`)})
	assert.Error(t, err)
}

func TestEdit(t *testing.T) {
	out, err := MustNew().Edit(EditInput{
		ExistingCode: "<!DOCTYPE html><html><body><h1>Hi</h1></body></html>",
		Instructions: "Make the heading red",
	})
	require.NoError(t, err)
	assert.Contains(t, out, "```html\n<!DOCTYPE html><html><body><h1>Hi</h1></body></html>\n```")
	assert.True(t, strings.HasSuffix(strings.TrimSpace(out), "Make the heading red"))
	assert.Contains(t, out, "### IMAGE RULES (CRITICAL):")
}

func TestNew_DirectoryOverride(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "edit.tmpl"), []byte("EDIT {{.Instructions}} / {{template \"image_rules.tmpl\" .}}"), 0o644))

	b, err := New(dir)
	require.NoError(t, err)
	out, err := b.Edit(EditInput{ExistingCode: "x", Instructions: "do it"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "EDIT do it / ### IMAGE RULES"))

	// Files not present in dir come from the embedded set.
	out, err = b.Initial(InitialInput{Form: json.RawMessage(`{}`)})
	require.NoError(t, err)
	assert.Contains(t, out, "User Requirements:")
}

func TestNew_BrokenOverride(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "initial.tmpl"), []byte("{{.Form"), 0o644))
	_, err := New(dir)
	assert.Error(t, err)
}
