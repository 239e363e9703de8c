package export

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"

	"github.com/gosimple/slug"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"

	"github.com/kyaoi/paperview/internal/content"
)

var markdown = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		highlighting.NewHighlighting(
			highlighting.WithStyle("github"),
		),
	),
	goldmark.WithParserOptions(
		parser.WithAttribute(),
	),
)

type navLink struct {
	ID      string
	Label   string
	Present bool
}

type pageData struct {
	Doc   *content.Document
	Nav   []navLink
	Body  template.HTML
	Links []content.Link
}

// HTML writes doc as a standalone page. Anchored headings keep their ids so
// the sidebar links jump to them.
func HTML(doc *content.Document, w io.Writer) error {
	var body bytes.Buffer
	if err := markdown.Convert([]byte(doc.Body), &body); err != nil {
		return fmt.Errorf("rendering markdown: %w", err)
	}

	data := pageData{
		Doc:  doc,
		Body: template.HTML(body.String()),
	}
	for _, entry := range doc.Nav {
		_, ok := doc.Region(entry.ID)
		data.Nav = append(data.Nav, navLink{ID: string(entry.ID), Label: entry.Label, Present: ok})
	}
	for _, l := range doc.Links {
		// The export link points at this very file; only external links stay.
		if l.Kind == content.LinkDownload && l.URL != "" {
			data.Links = append(data.Links, l)
		}
	}
	if err := pageTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("rendering page: %w", err)
	}
	return nil
}

// FileName returns the export file name for doc.
func FileName(doc *content.Document) string {
	name := slug.Make(doc.Title)
	if name == "" {
		name = "analysis"
	}
	return name + ".html"
}

// ToFile writes the page into dir, creating it when needed, and returns the
// written path.
func ToFile(doc *content.Document, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating export dir %s: %w", dir, err)
	}
	path := filepath.Join(dir, FileName(doc))
	var buf bytes.Buffer
	if err := HTML(doc, &buf); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}
