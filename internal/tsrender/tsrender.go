// Package tsrender renders schema and document contexts into TypeScript
// declarations through a set of named text/template partials.
package tsrender

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"io"
	"sort"
	"text/template"
	"time"

	eventbus "github.com/hanpama/shapegen/internal/eventbus"
	events "github.com/hanpama/shapegen/internal/events"
	"github.com/hanpama/shapegen/internal/ir"
)

//go:embed templates/*.tmpl
var templates embed.FS

const target = "typescript"

// Options customizes a Renderer.
type Options struct {
	// Templates replaces partials by name, e.g. "scalar" or "shapeField".
	Templates map[string]string `yaml:"templates"`
	// Helpers adds template functions. A helper with the name of a built-in
	// one replaces it.
	Helpers template.FuncMap `yaml:"-"`
}

// Renderer is safe for concurrent use.
type Renderer struct {
	base    *template.Template
	helpers template.FuncMap
}

type renderData struct {
	Schema    *ir.SchemaContext
	Documents *ir.DocumentsContext
	Config    ir.Config
}

func New(opts Options) (*Renderer, error) {
	base := template.New(target).Funcs((*helpers)(nil).funcMap())
	if opts.Helpers != nil {
		base.Funcs(opts.Helpers)
	}
	if _, err := base.ParseFS(templates, "templates/*.tmpl"); err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	names := make([]string, 0, len(opts.Templates))
	for name := range opts.Templates {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if _, err := base.New(name).Parse(opts.Templates[name]); err != nil {
			return nil, fmt.Errorf("parse template %q: %w", name, err)
		}
	}
	return &Renderer{base: base, helpers: opts.Helpers}, nil
}

// Render writes the declarations of sc and, when dc is not nil, one
// namespace per operation and fragment of dc.
func (r *Renderer) Render(ctx context.Context, w io.Writer, sc *ir.SchemaContext, dc *ir.DocumentsContext) (err error) {
	start := time.Now()
	eventbus.Publish(ctx, events.RenderStart{Target: target})
	cw := &countingWriter{w: w}
	defer func() {
		eventbus.Publish(ctx, events.RenderFinish{
			Target:   target,
			Bytes:    cw.n,
			Err:      err,
			Duration: time.Since(start),
		})
	}()

	t, err := r.base.Clone()
	if err != nil {
		return err
	}
	h := &helpers{schema: sc, config: sc.Config, tmpl: t}
	t.Funcs(h.funcMap())
	if r.helpers != nil {
		t.Funcs(r.helpers)
	}
	return t.ExecuteTemplate(cw, "main", renderData{Schema: sc, Documents: dc, Config: sc.Config})
}

// RenderString is Render into a string.
func (r *Renderer) RenderString(ctx context.Context, sc *ir.SchemaContext, dc *ir.DocumentsContext) (string, error) {
	var buf bytes.Buffer
	if err := r.Render(ctx, &buf, sc, dc); err != nil {
		return "", err
	}
	return buf.String(), nil
}

type countingWriter struct {
	w io.Writer
	n int
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += n
	return n, err
}
