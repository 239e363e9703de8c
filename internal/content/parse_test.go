package content

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kyaoi/paperview/internal/nav"
)

func TestDefaultDocument(t *testing.T) {
	doc, err := Default()
	require.NoError(t, err)

	assert.Equal(t, "Nonlinear Momentum", doc.Title)
	assert.Equal(t, "NLTSMOM", doc.ShortTitle)
	assert.Equal(t, "N", doc.Brand)
	assert.Equal(t, nav.DefaultSections, doc.Sections())
	assert.Equal(t, 2025, doc.Source.Year)
	assert.Empty(t, doc.Path)

	var anchored []nav.SectionID
	for _, r := range doc.Regions() {
		anchored = append(anchored, r.ID)
	}
	assert.Equal(t, []nav.SectionID{"abstract", "data", "model", "visualization", "implementation", "application"}, anchored)

	_, ok := doc.Region("conclusion")
	assert.False(t, ok, "conclusion is listed in the sidebar without a region")

	export, ok := doc.Link(LinkExport)
	require.True(t, ok)
	assert.Equal(t, "Export Analysis", export.Label)
}

func TestRegionOffsetsPointAtHeadings(t *testing.T) {
	doc, err := Default()
	require.NoError(t, err)

	prev := -1
	for _, r := range doc.Regions() {
		assert.Greater(t, r.Offset, prev)
		prev = r.Offset
		assert.True(t, strings.HasPrefix(doc.Body[r.Offset:], "#"), "region %s starts at %q", r.ID, doc.Body[r.Offset:r.Offset+10])
	}

	r, ok := doc.Region("data")
	require.True(t, ok)
	assert.Equal(t, "The Data Set", r.Title)
}

func TestChunksStripAnchors(t *testing.T) {
	raw := "intro text\n\n## First {#one}\n\nbody one\n\n### Second {#two}\nbody two\n"
	doc, err := Parse([]byte(raw))
	require.NoError(t, err)

	chunks := doc.Chunks()
	require.Len(t, chunks, 3)
	assert.Equal(t, nav.SectionID(""), chunks[0].ID)
	assert.Equal(t, "intro text\n\n", chunks[0].Markdown)
	assert.Equal(t, nav.SectionID("one"), chunks[1].ID)
	assert.Equal(t, "## First\n\nbody one\n\n", chunks[1].Markdown)
	assert.Equal(t, nav.SectionID("two"), chunks[2].ID)
	assert.Equal(t, "### Second\nbody two\n", chunks[2].Markdown)

	assert.NotContains(t, doc.Markdown(), "{#")
}

func TestChunksStripAttributesFromEveryHeading(t *testing.T) {
	raw := "## One {#one}\n\n## Note {.aside}\n\ntext {kept}\n\n```\n# comment {x}\n```\n"
	doc, err := Parse([]byte(raw))
	require.NoError(t, err)
	assert.Equal(t, []nav.SectionID{"one"}, doc.Sections())

	chunks := doc.Chunks()
	require.Len(t, chunks, 1)
	assert.Equal(t, "## One\n\n## Note\n\ntext {kept}\n\n```\n# comment {x}\n```\n", chunks[0].Markdown)
}

func TestParseWithoutFrontMatterDerivesNav(t *testing.T) {
	doc, err := Parse([]byte("# Alpha {#a}\n\ntext\n\n# Beta {#b}\n"))
	require.NoError(t, err)

	require.Len(t, doc.Nav, 2)
	assert.Equal(t, NavEntry{ID: "a", Label: "Alpha"}, doc.Nav[0])
	assert.Equal(t, NavEntry{ID: "b", Label: "Beta"}, doc.Nav[1])
	assert.Equal(t, "Paper Analysis", doc.Title)
	assert.Equal(t, "P", doc.Brand)
}

func TestParseIgnoresAnchorsInCodeBlocks(t *testing.T) {
	raw := "## Real {#real}\n\n```\n## Fake {#fake}\n```\n"
	doc, err := Parse([]byte(raw))
	require.NoError(t, err)
	assert.Equal(t, []nav.SectionID{"real"}, doc.Sections())
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want error
	}{
		{
			name: "duplicate anchor",
			raw:  "## A {#x}\n\n## B {#x}\n",
			want: ErrDuplicateAnchor,
		},
		{
			name: "no sections",
			raw:  "just text\n",
			want: ErrEmptyDocument,
		},
		{
			name: "duplicate nav id",
			raw:  "---\nnav:\n  - id: a\n  - id: a\n---\n## A {#a}\n",
			want: ErrInvalidNav,
		},
		{
			name: "empty nav id",
			raw:  "---\nnav:\n  - label: nothing\n---\n## A {#a}\n",
			want: ErrInvalidNav,
		},
		{
			name: "unknown link kind",
			raw:  "---\nlinks:\n  - label: x\n    kind: mail\n---\n## A {#a}\n",
			want: ErrInvalidLink,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.raw))
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestNavLabelsFallBack(t *testing.T) {
	raw := "---\nnav:\n  - id: a\n  - id: ghost\n---\n## Heading A {#a}\n"
	doc, err := Parse([]byte(raw))
	require.NoError(t, err)

	entry, ok := doc.Entry("a")
	require.True(t, ok)
	assert.Equal(t, "Heading A", entry.Label)
	entry, ok = doc.Entry("ghost")
	require.True(t, ok)
	assert.Equal(t, "ghost", entry.Label)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "paper.md")
	require.NoError(t, os.WriteFile(path, []byte("---\ntitle: Test Paper\n---\n## Intro {#intro}\n"), 0o644))

	doc, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Test Paper", doc.Title)
	assert.Equal(t, path, doc.Path)

	doc, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, "Nonlinear Momentum", doc.Title)

	_, err = Load(filepath.Join(dir, "missing.md"))
	require.Error(t, err)
}
