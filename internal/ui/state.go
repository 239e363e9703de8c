package ui

import (
	"time"

	"go.uber.org/zap"

	"github.com/kyaoi/paperview/internal/content"
)

// State contains the data required to bootstrap the Bubble Tea model.
type State struct {
	Doc           *content.Document
	Style         string
	SidebarWidth  int
	NarrowWidth   int
	ScrollFrames  int
	FrameInterval time.Duration
	ExportDir     string
	Logger        *zap.Logger
}
