package ui

import (
	"fmt"

	"github.com/atotto/clipboard"
	"go.uber.org/zap"

	"github.com/kyaoi/paperview/internal/content"
	"github.com/kyaoi/paperview/internal/export"
)

var clipboardWrite = clipboard.WriteAll

func (m *Model) exportDocument() {
	path, err := export.ToFile(m.doc, m.exportDir)
	if err != nil {
		m.err = err
		m.log.Error("export failed", zap.String("dir", m.exportDir), zap.Error(err))
		return
	}
	m.err = nil
	m.status = "exported to " + path
	m.log.Info("analysis exported", zap.String("path", path))
}

// copyPaperLink puts the download link on the clipboard, falling back to the
// source paper's URL.
func (m *Model) copyPaperLink() {
	var url string
	if link, ok := m.doc.Link(content.LinkDownload); ok {
		url = link.URL
	}
	if url == "" {
		url = m.doc.Source.URL
	}
	if url == "" {
		m.status = "no paper link configured"
		return
	}
	if err := clipboardWrite(url); err != nil {
		m.err = fmt.Errorf("copying paper link: %w", err)
		m.log.Warn("clipboard write failed", zap.Error(err))
		return
	}
	m.err = nil
	m.status = "paper link copied"
}
