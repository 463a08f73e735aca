// Package mcp provides an MCP (Model Context Protocol) server adapter for docqa.
// It lets AI assistants ask questions about the document loaded at startup.
package mcp

import "errors"

// ErrMissingSession is returned when no QA session is provided.
var ErrMissingSession = errors.New("mcp: QA session is required")
