package content

import (
	"strings"

	"github.com/kyaoi/paperview/internal/nav"
)

// LinkKind selects what a footer link does.
type LinkKind string

const (
	LinkDownload LinkKind = "download"
	LinkExport   LinkKind = "export"
)

// Source describes the paper under analysis.
type Source struct {
	Title   string `yaml:"title"`
	Authors string `yaml:"authors"`
	Year    int    `yaml:"year"`
	URL     string `yaml:"url"`
}

// NavEntry is one sidebar item.
type NavEntry struct {
	ID    nav.SectionID `yaml:"id"`
	Label string        `yaml:"label"`
	Icon  string        `yaml:"icon"`
}

// Footer is the closing block shown after the body.
type Footer struct {
	Title string `yaml:"title"`
	Note  string `yaml:"note"`
}

// Link is an outbound footer link. URL may be empty.
type Link struct {
	Label string   `yaml:"label"`
	Kind  LinkKind `yaml:"kind"`
	URL   string   `yaml:"url"`
}

// Matter is the document's front matter.
type Matter struct {
	Title      string     `yaml:"title"`
	ShortTitle string     `yaml:"short_title"`
	Subtitle   string     `yaml:"subtitle"`
	Brand      string     `yaml:"brand"`
	Badge      string     `yaml:"badge"`
	Source     Source     `yaml:"source"`
	Nav        []NavEntry `yaml:"nav"`
	Footer     Footer     `yaml:"footer"`
	Links      []Link     `yaml:"links"`
}

// Region marks where a section's anchor heading starts in the body.
type Region struct {
	ID     nav.SectionID
	Offset int
	Title  string
}

// Chunk is a slice of the body starting at an anchor. The leading chunk
// before the first anchor has an empty ID.
type Chunk struct {
	ID       nav.SectionID
	Markdown string
}

// Document is a parsed analysis page.
type Document struct {
	Matter
	Body string
	// Path is the file the document was read from, empty for the bundled one.
	Path string

	regions []Region
}

// Sections returns the sidebar ids in order.
func (d *Document) Sections() []nav.SectionID {
	ids := make([]nav.SectionID, 0, len(d.Nav))
	for _, entry := range d.Nav {
		ids = append(ids, entry.ID)
	}
	return ids
}

// Regions returns the anchored regions in body order.
func (d *Document) Regions() []Region {
	out := make([]Region, len(d.regions))
	copy(out, d.regions)
	return out
}

// Region looks up the region for id.
func (d *Document) Region(id nav.SectionID) (Region, bool) {
	for _, r := range d.regions {
		if r.ID == id {
			return r, true
		}
	}
	return Region{}, false
}

// Entry returns the sidebar entry for id.
func (d *Document) Entry(id nav.SectionID) (NavEntry, bool) {
	for _, entry := range d.Nav {
		if entry.ID == id {
			return entry, true
		}
	}
	return NavEntry{}, false
}

// Link returns the first footer link of the given kind.
func (d *Document) Link(kind LinkKind) (Link, bool) {
	for _, l := range d.Links {
		if l.Kind == kind {
			return l, true
		}
	}
	return Link{}, false
}

// Chunks splits the body at every anchor. Attribute blocks are removed from
// all heading lines so renderers without attribute support show clean titles.
func (d *Document) Chunks() []Chunk {
	if len(d.regions) == 0 {
		return []Chunk{{Markdown: stripAttributes(d.Body)}}
	}
	var chunks []Chunk
	if lead := d.Body[:d.regions[0].Offset]; strings.TrimSpace(lead) != "" {
		chunks = append(chunks, Chunk{Markdown: stripAttributes(lead)})
	}
	for i, r := range d.regions {
		end := len(d.Body)
		if i+1 < len(d.regions) {
			end = d.regions[i+1].Offset
		}
		chunks = append(chunks, Chunk{ID: r.ID, Markdown: stripAttributes(d.Body[r.Offset:end])})
	}
	return chunks
}

// Markdown returns the whole body with anchor attributes removed.
func (d *Document) Markdown() string {
	var b strings.Builder
	for _, c := range d.Chunks() {
		b.WriteString(c.Markdown)
	}
	return b.String()
}

// stripAttributes removes the attribute block from every ATX heading outside
// fenced code.
func stripAttributes(md string) string {
	lines := strings.SplitAfter(md, "\n")
	fence := ""
	for i, line := range lines {
		text := strings.TrimRight(line, "\r\n")
		if m := fenceLine.FindStringSubmatch(text); m != nil {
			switch {
			case fence == "":
				fence = m[1]
			case m[1] == fence:
				fence = ""
			}
			continue
		}
		if fence != "" || !headingLine.MatchString(text) {
			continue
		}
		lines[i] = attributeTail.ReplaceAllString(text, "") + line[len(text):]
	}
	return strings.Join(lines, "")
}
