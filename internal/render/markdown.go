// Package render provides a reference render capability for markdown-backed
// pages. Serialized state is a JSON document carrying a title and a markdown
// body; the render capability converts the body to HTML. Applications with
// their own view layer supply their own render functions instead.
package render

import (
	"bytes"
	"encoding/json"
	"html"
	"log/slog"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"

	"git.home.luguber.info/inful/pagegen/internal/i18n"
	"git.home.luguber.info/inful/pagegen/internal/state"
	"git.home.luguber.info/inful/pagegen/internal/template"
)

// PageDoc is the state schema markdown pages serialize.
type PageDoc struct {
	Title    string `json:"title"`
	Markdown string `json:"markdown"`
}

// Markdown renders PageDoc states to HTML with goldmark.
type Markdown struct {
	md     goldmark.Markdown
	logger *slog.Logger
}

// NewMarkdown creates the renderer with GitHub-flavored extensions enabled.
func NewMarkdown() *Markdown {
	return &Markdown{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM, extension.Typographer),
			goldmark.WithRendererOptions(
				goldmarkhtml.WithUnsafe(),
			),
		),
		logger: slog.Default(),
	}
}

// Render is a template.RenderFn converting the state's markdown body to HTML.
// A state that does not decode as a PageDoc renders to an empty body rather
// than failing the page.
func (m *Markdown) Render(st *state.SerializedState, tr i18n.Translator) string {
	doc, ok := m.decode(st)
	if !ok {
		return ""
	}
	var buf bytes.Buffer
	if err := m.md.Convert([]byte(doc.Markdown), &buf); err != nil {
		m.logger.Warn("Markdown conversion failed", "error", err)
		return ""
	}
	return buf.String()
}

// RenderHead is a template.RenderFn producing the document head for a
// PageDoc. An untitled page falls back to a localized placeholder.
func (m *Markdown) RenderHead(st *state.SerializedState, tr i18n.Translator) string {
	title := ""
	if doc, ok := m.decode(st); ok {
		title = doc.Title
	}
	if title == "" {
		title = tr.Translate("page.untitled")
	}
	return "<title>" + html.EscapeString(title) + "</title>"
}

func (m *Markdown) decode(st *state.SerializedState) (PageDoc, bool) {
	if st == nil {
		return PageDoc{}, false
	}
	var doc PageDoc
	if err := json.Unmarshal([]byte(st.String()), &doc); err != nil {
		m.logger.Warn("Page state does not decode as a markdown document", "error", err)
		return PageDoc{}, false
	}
	return doc, true
}

// Apply installs the markdown render capabilities on a template.
func (m *Markdown) Apply(tpl *template.Template) *template.Template {
	return tpl.WithRender(m.Render).WithHead(m.RenderHead)
}
