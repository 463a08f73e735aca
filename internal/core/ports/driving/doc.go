// Package driving holds the interfaces the CLI, TUI and MCP server call
// into. The services package implements them.
package driving
