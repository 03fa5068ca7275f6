// Package views renders the portal's server-side HTML pages.
package views

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/feedbackhub/portal/internal/core/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

// Page names accepted by Renderer.Render.
const (
	PageLogin        = "login"
	PageDashboard    = "dashboard"
	PageFeedbackList = "feedback_list"
	PageFeedbackNew  = "feedback_new"
	PageFeedbackEdit = "feedback_edit"
	PageError        = "error"
)

var pages = []string{PageLogin, PageDashboard, PageFeedbackList, PageFeedbackNew, PageFeedbackEdit, PageError}

// Toast kinds.
const (
	ToastSuccess = "success"
	ToastError   = "error"
)

// Toast is a one-shot notification shown at the top of a page.
type Toast struct {
	Kind    string
	Message string
}

// Page is the data every template receives. Body holds the page-specific view.
type Page struct {
	Title string
	User  *domain.User
	Toast *Toast
	CSRF  string
	Body  any
}

// Renderer implements echo.Renderer over the embedded templates. Each page is
// parsed together with the shared layout.
type Renderer struct {
	templates map[string]*template.Template
}

func New() (*Renderer, error) {
	md := goldmark.New(
		goldmark.WithExtensions(extension.Linkify),
		goldmark.WithRendererOptions(html.WithHardWraps()),
	)

	funcs := template.FuncMap{
		"markdown":   markdown(md),
		"date":       formatDate,
		"datetime":   formatDateTime,
		"sentiments": func() []domain.Sentiment { return domain.Sentiments },
		"title":      titleCase,
		"isManager":  func(u *domain.User) bool { return u != nil && u.IsManager() },
	}

	r := &Renderer{templates: make(map[string]*template.Template, len(pages))}
	for _, name := range pages {
		t, err := template.New(name).Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		r.templates[name] = t
	}
	return r, nil
}

// Render executes the layout with the named page's blocks.
func (r *Renderer) Render(w io.Writer, name string, data any, _ echo.Context) error {
	t, ok := r.templates[name]
	if !ok {
		return fmt.Errorf("unknown template %q", name)
	}
	return t.ExecuteTemplate(w, "layout", data)
}

// markdown renders feedback text. Raw HTML in the source is escaped by
// goldmark's default renderer.
func markdown(md goldmark.Markdown) func(string) template.HTML {
	return func(src string) template.HTML {
		var buf bytes.Buffer
		if err := md.Convert([]byte(src), &buf); err != nil {
			return template.HTML(template.HTMLEscapeString(src))
		}
		return template.HTML(buf.String())
	}
}

func formatDate(ts domain.Timestamp) string {
	if ts.IsZero() {
		return ""
	}
	return ts.Local().Format("Jan 2, 2006")
}

func formatDateTime(ts *domain.Timestamp) string {
	if ts == nil || ts.IsZero() {
		return ""
	}
	return ts.Local().Format(time.DateTime)
}

func titleCase(s any) string {
	v := fmt.Sprint(s)
	if v == "" {
		return v
	}
	return strings.ToUpper(v[:1]) + v[1:]
}
