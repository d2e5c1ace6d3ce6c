package agent

import (
	"context"
	"fmt"
	"strings"
	"text/template"

	"github.com/pkg/errors"

	"github.com/zen-systems/loomgate/pkg/pipeline"
)

var draftTemplate = template.Must(template.New("draft").Parse(
	`# {{ .Title }}

{{ range .Sections }}## {{ . }}

This section covers {{ . }} of {{ $.Title }}.

{{ end }}`))

// Passthrough returns its input unchanged.
func Passthrough(_ context.Context, input any, _ *pipeline.RunContext) (any, error) {
	return input, nil
}

// Outline turns a brief into a plan. The brief is a mapping with a
// "topic" string and optional "sections"; absent sections get a fixed
// default so the output stays deterministic.
func Outline(_ context.Context, input any, _ *pipeline.RunContext) (any, error) {
	brief, ok := input.(map[string]any)
	if !ok {
		return nil, errors.Errorf("outline: expected object brief, got %T", input)
	}
	topic, ok := brief["topic"].(string)
	if !ok || strings.TrimSpace(topic) == "" {
		return nil, errors.New("outline: brief needs a topic")
	}

	sections := []string{"Background", "Details", "Conclusion"}
	if raw, ok := brief["sections"].([]any); ok && len(raw) > 0 {
		sections = sections[:0]
		for i, s := range raw {
			name, ok := s.(string)
			if !ok {
				return nil, errors.Errorf("outline: section %d is not a string", i)
			}
			sections = append(sections, name)
		}
	}

	out := make([]any, len(sections))
	for i, s := range sections {
		out[i] = s
	}
	return map[string]any{
		"title":    topic,
		"sections": out,
	}, nil
}

// Draft renders an outline into article content through a fixed template.
func Draft(_ context.Context, input any, _ *pipeline.RunContext) (any, error) {
	outline, ok := input.(map[string]any)
	if !ok {
		return nil, errors.Errorf("draft: expected outline object, got %T", input)
	}
	title, ok := outline["title"].(string)
	if !ok {
		return nil, errors.New("draft: outline needs a title")
	}
	raw, ok := outline["sections"].([]any)
	if !ok {
		return nil, errors.New("draft: outline needs sections")
	}

	sections := make([]string, 0, len(raw))
	for i, s := range raw {
		name, ok := s.(string)
		if !ok {
			return nil, errors.Errorf("draft: section %d is not a string", i)
		}
		sections = append(sections, name)
	}

	var sb strings.Builder
	if err := draftTemplate.Execute(&sb, map[string]any{"Title": title, "Sections": sections}); err != nil {
		return nil, errors.Wrap(err, "draft: render template")
	}

	return map[string]any{
		"title":   title,
		"content": sb.String(),
	}, nil
}

// Summarize reduces a document to its first line per section plus a word
// count.
func Summarize(_ context.Context, input any, _ *pipeline.RunContext) (any, error) {
	doc, ok := input.(map[string]any)
	if !ok {
		return nil, errors.Errorf("summarize: expected document object, got %T", input)
	}
	content, ok := doc["content"].(string)
	if !ok {
		return nil, errors.New("summarize: document needs content")
	}

	var lines []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "#") {
			lines = append(lines, strings.TrimSpace(strings.TrimLeft(line, "#")))
		}
	}

	summary := map[string]any{
		"summary":    strings.Join(lines, "; "),
		"word_count": len(strings.Fields(content)),
	}
	if title, ok := doc["title"].(string); ok {
		summary["title"] = title
	}
	return summary, nil
}

// Assemble merges a composite input into one final document. Mapping
// values are flattened with their input key as prefix; scalar values are
// kept under their input key.
func Assemble(_ context.Context, input any, _ *pipeline.RunContext) (any, error) {
	parts, ok := input.(map[string]any)
	if !ok {
		return nil, errors.Errorf("assemble: expected composite input, got %T", input)
	}

	final := make(map[string]any, len(parts))
	for key, part := range parts {
		m, ok := part.(map[string]any)
		if !ok {
			final[key] = part
			continue
		}
		for field, value := range m {
			final[fmt.Sprintf("%s_%s", key, field)] = value
		}
	}
	return final, nil
}
