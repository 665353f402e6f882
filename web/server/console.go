package server

import (
	"fmt"

	"github.com/HenrYxZ/experiments/pkg/core"
)

// WebLogger implements core.Logger by tagging each message with the render it belongs to
type WebLogger struct {
	renderID string
	base     core.Logger
}

// NewWebLogger creates a new web logger for a specific render
func NewWebLogger(renderID string, base core.Logger) core.Logger {
	if base == nil {
		base = core.NopLogger{}
	}
	return &WebLogger{
		renderID: renderID,
		base:     base,
	}
}

// Printf implements core.Logger interface
func (wl *WebLogger) Printf(format string, args ...interface{}) {
	wl.base.Printf("[render %s] %s", wl.renderID, fmt.Sprintf(format, args...))
}
