// Package ansi renders answer markdown and citation footnotes to
// ANSI-styled terminal output, using goldmark for parsing and lipgloss for
// styling.
package ansi

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	exa "github.com/erayack/exa-go"
)

// Theme defines semantic color mappings using ANSI color indices (0-15).
// The user's terminal theme determines the actual RGB values, so output
// automatically matches any color scheme.
type Theme struct {
	Accent   int // headings, links
	Muted    int // code gutters, URLs, metadata
	Citation int // citation markers
	Error    int // error messages
}

// DefaultTheme returns the default ANSI color mapping.
func DefaultTheme() Theme {
	return Theme{
		Accent:   5,
		Muted:    8,
		Citation: 6,
		Error:    1,
	}
}

// RenderAnswer renders an answer body with its citations appended as a
// numbered footnote list. The body is word-wrapped to width; citation lines
// are truncated to fit.
func RenderAnswer(answer string, citations []exa.Citation, width int, theme Theme) string {
	if width <= 0 {
		width = 80
	}
	var out strings.Builder
	out.WriteString(Render(answer, width, theme))
	if len(citations) > 0 {
		out.WriteString("\n\n")
		out.WriteString(renderCitations(citations, width, theme))
	}
	return out.String()
}

// Render parses markdown source and returns ANSI-styled terminal output.
// Paragraphs and list items are word-wrapped to width. Code blocks are
// rendered at full width without reflow.
func Render(source string, width int, theme Theme) string {
	if source == "" {
		return ""
	}
	if width <= 0 {
		width = 80
	}
	r := newRenderer(theme)
	return r.render([]byte(source), width)
}

func renderCitations(citations []exa.Citation, width int, theme Theme) string {
	marker := lipgloss.NewStyle().Foreground(ansiColor(theme.Citation))
	muted := lipgloss.NewStyle().Foreground(ansiColor(theme.Muted)).Faint(true)

	var lines []string
	for i, c := range citations {
		prefix := fmt.Sprintf("[%d] ", i+1)
		title := c.Title
		if title == "" {
			title = c.URL
		}
		// Truncation is display-width aware so double-width runes do not
		// overshoot the terminal.
		avail := width - runewidth.StringWidth(prefix)
		line := marker.Render(prefix) + runewidth.Truncate(title, avail, "…")
		if c.Title != "" && c.URL != "" {
			rest := avail - runewidth.StringWidth(title) - 1
			if rest > 8 {
				line += " " + muted.Render(runewidth.Truncate(c.URL, rest, "…"))
			}
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func ansiColor(index int) lipgloss.TerminalColor {
	if index < 0 {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(strconv.Itoa(index))
}
