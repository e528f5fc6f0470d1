package mailer

import (
	"embed"
	"fmt"
	"html/template"
	"strings"

	"github.com/worshipops/rosterd/internal/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

// Renderer produces the HTML body for a notification event from the
// embedded template matching the event's message class.
type Renderer struct {
	templates *template.Template
}

func NewRenderer() (*Renderer, error) {
	t, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse email templates: %w", err)
	}
	return &Renderer{templates: t}, nil
}

// Render executes the template named by ev.Template with the event as its
// data. Unknown template names are an error; the consumer logs and skips
// the event.
func (r *Renderer) Render(ev domain.NotificationEvent) (string, error) {
	name := ev.Template + ".html"
	if r.templates.Lookup(name) == nil {
		return "", fmt.Errorf("unknown email template %q", ev.Template)
	}

	var b strings.Builder
	if err := r.templates.ExecuteTemplate(&b, name, ev); err != nil {
		return "", fmt.Errorf("render template %q: %w", ev.Template, err)
	}
	return b.String(), nil
}
