package app

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/kyaoi/paperview/internal/config"
	"github.com/kyaoi/paperview/internal/content"
	"github.com/kyaoi/paperview/internal/ui"
)

// preferredNames are picked, in order, when the target is a directory.
var preferredNames = []string{"index.md", "paper.md", "analysis.md", "README.md"}

// LoadInitialState resolves the document and prepares the UI state.
func LoadInitialState(cfg *config.Config, target string, logger *zap.Logger) (ui.State, error) {
	doc, err := LoadDocument(cfg, target)
	if err != nil {
		return ui.State{}, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	source := doc.Path
	if source == "" {
		source = "bundled"
	}
	logger.Info("document loaded",
		zap.String("source", source),
		zap.String("title", doc.Title),
		zap.Int("sections", len(doc.Nav)),
		zap.Int("regions", len(doc.Regions())))

	return ui.State{
		Doc:           doc,
		Style:         cfg.Style,
		SidebarWidth:  cfg.Layout.SidebarWidth,
		NarrowWidth:   cfg.Layout.NarrowWidth,
		ScrollFrames:  cfg.Scroll.Frames,
		FrameInterval: cfg.Scroll.FrameInterval,
		ExportDir:     cfg.Export.Dir,
		Logger:        logger,
	}, nil
}

// LoadDocument reads target, or the configured content when target is empty,
// or the bundled analysis when both are empty. A directory target must hold
// one of the preferred names or exactly one markdown file.
func LoadDocument(cfg *config.Config, target string) (*content.Document, error) {
	path := target
	if path == "" {
		path = cfg.Content
	}
	if path == "" {
		return content.Default()
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		if path, err = findDocument(path); err != nil {
			return nil, err
		}
	}
	return content.Load(path)
}

func findDocument(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}
	var markdown []string
	for _, entry := range entries {
		if entry.IsDir() || !isMarkdown(entry.Name()) {
			continue
		}
		markdown = append(markdown, entry.Name())
	}
	for _, name := range preferredNames {
		for _, found := range markdown {
			if strings.EqualFold(found, name) {
				return filepath.Join(dir, found), nil
			}
		}
	}
	switch len(markdown) {
	case 0:
		return "", fmt.Errorf("no markdown file in %s", dir)
	case 1:
		return filepath.Join(dir, markdown[0]), nil
	}
	sort.Strings(markdown)
	return "", fmt.Errorf("%s holds several markdown files (%s); pass one of them", dir, strings.Join(markdown, ", "))
}

func isMarkdown(name string) bool {
	lower := strings.ToLower(name)
	return strings.HasSuffix(lower, ".md") || strings.HasSuffix(lower, ".markdown")
}
