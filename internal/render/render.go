package render

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/url"
	"path"
	"strings"

	"github.com/sunil-gumatimath/react-router/internal/loader"
	"github.com/sunil-gumatimath/react-router/internal/model"
	"github.com/sunil-gumatimath/react-router/internal/navigation"
	"github.com/sunil-gumatimath/react-router/internal/route"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static/*.css
var staticFS embed.FS

// AppErrorPage is the standalone document rendered when a failure escapes
// every error boundary.
const AppErrorPage = "app-error"

var ErrUnknownPage = errors.New("unknown page")

// View is the data every page template executes with.
type View struct {
	Path    string // normalized request path, used for active navigation links
	Params  route.Params
	Data    any           // loader data of this frame
	Outlet  template.HTML // rendered child page, empty at the leaf
	Message string        // failure message, set on error boundaries
}

// AppErrorData feeds the application-level error page. Detail is only shown
// outside production.
type AppErrorData struct {
	Message string
	Detail  string
}

type Renderer struct {
	pages map[string]*template.Template
}

// New parses every embedded page template. A template is named after its
// file, without the extension.
func New() (*Renderer, error) {
	entries, err := fs.ReadDir(templateFS, "templates")
	if err != nil {
		return nil, fmt.Errorf("read templates: %w", err)
	}

	r := &Renderer{pages: make(map[string]*template.Template, len(entries))}
	for _, entry := range entries {
		name := strings.TrimSuffix(entry.Name(), path.Ext(entry.Name()))
		src, err := fs.ReadFile(templateFS, "templates/"+entry.Name())
		if err != nil {
			return nil, fmt.Errorf("read template %s: %w", entry.Name(), err)
		}
		tmpl, err := template.New(name).Funcs(funcs).Parse(string(src))
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", entry.Name(), err)
		}
		r.pages[name] = tmpl
	}
	return r, nil
}

// Has reports whether a template exists for page.
func (r *Renderer) Has(page string) bool {
	_, ok := r.pages[page]
	return ok
}

// Outcome renders a navigation outcome. The leaf renders first and each
// ancestor layout receives its child's HTML as the outlet.
func (r *Renderer) Outcome(w io.Writer, out *navigation.Outcome) error {
	if len(out.Frames) == 0 {
		return errors.New("render: outcome has no frames")
	}

	var outlet template.HTML
	for i := len(out.Frames) - 1; i >= 0; i-- {
		frame := out.Frames[i]
		view := View{
			Path:   out.Path,
			Params: out.Params,
			Data:   frame.Data,
			Outlet: outlet,
		}
		if out.Boundary() && i == len(out.Frames)-1 {
			view.Message = loader.UserMessage(out.Failure)
		}

		html, err := r.execute(frame.Page, view)
		if err != nil {
			return err
		}
		outlet = template.HTML(html)
	}

	_, err := io.WriteString(w, string(outlet))
	return err
}

// AppError renders the application-level error document.
func (r *Renderer) AppError(w io.Writer, data AppErrorData) error {
	html, err := r.execute(AppErrorPage, data)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, html)
	return err
}

func (r *Renderer) execute(page string, data any) (string, error) {
	tmpl, ok := r.pages[page]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownPage, page)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render %s: %w", page, err)
	}
	return buf.String(), nil
}

// Assets exposes the embedded stylesheet directory.
func Assets() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

var funcs = template.FuncMap{
	"active":  active,
	"jobPath": jobPath,
}

// active marks a navigation link for the current path. "/" only matches
// exactly, every other link also matches its descendants.
func active(current, target string) string {
	if current == target {
		return "active"
	}
	if target != "/" && strings.HasPrefix(current, target+"/") {
		return "active"
	}
	return ""
}

func jobPath(id model.JobID) string {
	return "/jobs/" + url.PathEscape(string(id))
}
