package content

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/adrg/frontmatter"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/kyaoi/paperview/internal/nav"
)

//go:embed defaults/*.md
var defaultsFS embed.FS

const defaultName = "defaults/nltsmom.md"

var (
	ErrDuplicateAnchor = errors.New("duplicate section anchor")
	ErrInvalidNav      = errors.New("invalid navigation entry")
	ErrInvalidLink     = errors.New("invalid footer link")
	ErrEmptyDocument   = errors.New("document has no sections")
)

// attributeTail matches a trailing heading attribute block such as " {#data}".
var attributeTail = regexp.MustCompile(`[ \t]*\{[^{}]*\}[ \t]*$`)

var (
	headingLine = regexp.MustCompile(`^ {0,3}#{1,6}[ \t]`)
	fenceLine   = regexp.MustCompile("^ {0,3}(```|~~~)")
)

var anchorMarkdown = goldmark.New(goldmark.WithParserOptions(parser.WithAttribute()))

// Default returns the bundled analysis.
func Default() (*Document, error) {
	raw, err := defaultsFS.ReadFile(defaultName)
	if err != nil {
		return nil, err
	}
	return Parse(raw)
}

// Load reads a document from path. An empty path yields the bundled analysis.
func Load(path string) (*Document, error) {
	if path == "" {
		return Default()
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(absPath)
	if err != nil {
		return nil, err
	}
	doc, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	doc.Path = absPath
	return doc, nil
}

// Parse reads optional YAML front matter followed by a markdown body. Sections
// are headings carrying an id attribute. Without a nav list in the front
// matter the sidebar lists every anchored heading.
func Parse(raw []byte) (*Document, error) {
	var matter Matter
	body, err := frontmatter.Parse(bytes.NewReader(raw), &matter)
	if err != nil {
		return nil, fmt.Errorf("front matter: %w", err)
	}

	regions, err := findRegions(body)
	if err != nil {
		return nil, err
	}

	doc := &Document{
		Matter:  matter,
		Body:    string(body),
		regions: regions,
	}
	if len(doc.Nav) == 0 {
		for _, r := range regions {
			doc.Nav = append(doc.Nav, NavEntry{ID: r.ID, Label: r.Title})
		}
	}
	if err := doc.validate(); err != nil {
		return nil, err
	}
	doc.fillDefaults()
	return doc, nil
}

func (d *Document) validate() error {
	if len(d.Nav) == 0 {
		return ErrEmptyDocument
	}
	seen := make(map[nav.SectionID]bool, len(d.Nav))
	for i, entry := range d.Nav {
		if strings.TrimSpace(string(entry.ID)) == "" {
			return fmt.Errorf("%w: entry %d has no id", ErrInvalidNav, i)
		}
		if seen[entry.ID] {
			return fmt.Errorf("%w: %q listed twice", ErrInvalidNav, entry.ID)
		}
		seen[entry.ID] = true
	}
	for i, l := range d.Links {
		switch l.Kind {
		case LinkDownload, LinkExport:
		default:
			return fmt.Errorf("%w: link %d has kind %q", ErrInvalidLink, i, l.Kind)
		}
	}
	return nil
}

func (d *Document) fillDefaults() {
	if d.Title == "" {
		d.Title = d.Source.Title
	}
	if d.Title == "" {
		d.Title = "Paper Analysis"
	}
	if d.ShortTitle == "" {
		d.ShortTitle = d.Title
	}
	if d.Brand == "" {
		r, _ := utf8.DecodeRuneInString(d.Title)
		d.Brand = strings.ToUpper(string(r))
	}
	for i := range d.Nav {
		if d.Nav[i].Label == "" {
			if r, ok := d.Region(d.Nav[i].ID); ok {
				d.Nav[i].Label = r.Title
			} else {
				d.Nav[i].Label = string(d.Nav[i].ID)
			}
		}
	}
	if d.Footer.Title == "" {
		d.Footer.Title = d.Source.Title
	}
}

func findRegions(body []byte) ([]Region, error) {
	root := anchorMarkdown.Parser().Parse(text.NewReader(body))
	seen := make(map[nav.SectionID]bool)
	var regions []Region
	err := ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		heading, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		value, ok := heading.AttributeString("id")
		if !ok {
			return ast.WalkSkipChildren, nil
		}
		raw, ok := value.([]byte)
		if !ok || len(raw) == 0 || heading.Lines().Len() == 0 {
			return ast.WalkSkipChildren, nil
		}
		id := nav.SectionID(raw)
		if seen[id] {
			return ast.WalkStop, fmt.Errorf("%w: %q", ErrDuplicateAnchor, id)
		}
		seen[id] = true

		first := heading.Lines().At(0)
		start := lineStart(body, first.Start)
		title := strings.TrimSpace(attributeTail.ReplaceAllString(string(first.Value(body)), ""))
		regions = append(regions, Region{ID: id, Offset: start, Title: title})
		return ast.WalkSkipChildren, nil
	})
	if err != nil {
		return nil, err
	}
	return regions, nil
}

func lineStart(body []byte, pos int) int {
	if pos > len(body) {
		pos = len(body)
	}
	return bytes.LastIndexByte(body[:pos], '\n') + 1
}
