// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/docqa/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/docqa/internal/core/domain"
)

// SourceList displays the passages retrieved for an answer.
type SourceList struct {
	sources []domain.ScoredChunk
	styles  *styles.Styles
	width   int
	height  int
}

// NewSourceList creates a new source list component.
func NewSourceList(s *styles.Styles) *SourceList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &SourceList{
		styles: s,
		width:  80,
		height: 10,
	}
}

// View renders the source list.
func (r *SourceList) View() string {
	if len(r.sources) == 0 {
		return r.styles.Muted.Render("No passages retrieved")
	}

	lines := make([]string, 0, len(r.sources)*2+2)
	lines = append(lines, r.styles.Subtitle.Render(fmt.Sprintf("Sources (%d)", len(r.sources))), "")

	// Each passage takes two lines.
	visible := min(max((r.height-2)/2, 1), len(r.sources))
	for i := range visible {
		lines = append(lines, r.renderSource(i, r.sources[i]))
	}
	if visible < len(r.sources) {
		lines = append(lines, r.styles.Muted.Render(fmt.Sprintf("  ... %d more", len(r.sources)-visible)))
	}

	return strings.Join(lines, "\n")
}

// renderSource formats one passage as a heading line and a preview line.
func (r *SourceList) renderSource(index int, src domain.ScoredChunk) string {
	heading := fmt.Sprintf("  [%d]", index+1)
	if page := src.Chunk.Page(); page > 0 {
		heading += fmt.Sprintf(" page %d", page)
	}

	preview := Truncate(strings.Join(strings.Fields(src.Chunk.Content), " "), max(r.width-6, 20))

	return r.styles.Normal.Render(heading+"  ") +
		r.styles.Score(src.Score).Render(fmt.Sprintf("%.2f", src.Score)) + "\n" +
		r.styles.Muted.Render("      "+preview)
}

// Truncate shortens s to at most limit runes, marking the cut with "...".
func Truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	if limit <= 3 {
		return string(runes[:limit])
	}
	return string(runes[:limit-3]) + "..."
}

// SetSources replaces the listed passages.
func (r *SourceList) SetSources(sources []domain.ScoredChunk) {
	r.sources = sources
}

// Sources returns the listed passages.
func (r *SourceList) Sources() []domain.ScoredChunk {
	return r.sources
}

// SetDimensions sets the component dimensions.
func (r *SourceList) SetDimensions(width, height int) {
	r.width = width
	r.height = height
}

// Count returns the number of passages.
func (r *SourceList) Count() int {
	return len(r.sources)
}
