// Package notify renders the comments posted on an issue whose decision
// could not be recorded.
package notify

import (
	"embed"
	"fmt"
	"strings"
	"text/template"
)

//go:embed templates/*.tmpl
var commentTemplates embed.FS

// Kind selects the failure comment template.
type Kind string

const (
	// KindFields is used when the issue description lacks the conflict lines.
	KindFields Kind = "fields"
	// KindDecision is used when no comment holds a parseable JSON decision.
	KindDecision Kind = "decision"
)

// RenderFailure renders the comment for the given failure kind. detail is
// the error shown to the reviewer.
func RenderFailure(kind Kind, detail string) (string, error) {
	var tmplName string
	switch kind {
	case KindFields:
		tmplName = "templates/fields_failure.tmpl"
	case KindDecision:
		tmplName = "templates/decision_failure.tmpl"
	default:
		return "", fmt.Errorf("unknown failure comment kind %q", kind)
	}

	tmplData, err := commentTemplates.ReadFile(tmplName)
	if err != nil {
		return "", fmt.Errorf("load comment template %s: %w", tmplName, err)
	}

	tmpl, err := template.New(tmplName).Parse(string(tmplData))
	if err != nil {
		return "", fmt.Errorf("parse comment template: %w", err)
	}

	data := struct {
		Detail string
	}{
		Detail: strings.TrimSpace(detail),
	}

	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("execute comment template: %w", err)
	}

	return strings.TrimRight(sb.String(), "\n"), nil
}
