// Package prompts embeds the system prompts sent to the generation service
// and renders the AI-assisted merge prompt.
package prompts

import (
	"embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/dusk-indust/fxforge/internal/source"
)

//go:embed templates/*
var templateFS embed.FS

var mergeTemplate = template.Must(template.ParseFS(templateFS, "templates/merge.tmpl"))

// CodegenSystem returns the system prompt used for code generation.
func CodegenSystem() string {
	return mustRead("templates/codegen_system.md")
}

// ChatSystem returns the system prompt used for chat turns. It instructs the
// model to answer tool requests with a bare JSON object.
func ChatSystem() string {
	return mustRead("templates/chat_system.md")
}

// Merge renders the AI-assisted merge prompt for the two analyzed sources.
func Merge(existing, generated *source.Analysis) (string, error) {
	var b strings.Builder
	data := struct {
		Existing  *source.Analysis
		Generated *source.Analysis
	}{existing, generated}
	if err := mergeTemplate.Execute(&b, data); err != nil {
		return "", fmt.Errorf("prompts: render merge prompt: %w", err)
	}
	return b.String(), nil
}

func mustRead(name string) string {
	data, err := templateFS.ReadFile(name)
	if err != nil {
		panic(fmt.Sprintf("prompts: missing embedded %s: %v", name, err))
	}
	return strings.TrimSpace(string(data))
}
