package output

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"astfind/internal/engine/adapter"
	"astfind/internal/engine/search"

	"github.com/charmbracelet/lipgloss"
)

type styles struct {
	path    lipgloss.Style
	lang    lipgloss.Style
	capture lipgloss.Style
	excerpt lipgloss.Style
	err     lipgloss.Style
	summary lipgloss.Style
}

type textWriter struct {
	w       io.Writer
	summary bool
	color   bool
	styles  styles
}

func newTextWriter(w io.Writer, summary, color bool) *textWriter {
	r := lipgloss.NewRenderer(w)
	return &textWriter{
		w:       w,
		summary: summary,
		color:   color,
		styles: styles{
			path:    r.NewStyle().Foreground(lipgloss.Color("#3B82F6")).Bold(true),
			lang:    r.NewStyle().Foreground(lipgloss.Color("#64748B")),
			capture: r.NewStyle().Foreground(lipgloss.Color("#10B981")),
			excerpt: r.NewStyle().Foreground(lipgloss.Color("#94A3B8")),
			err:     r.NewStyle().Foreground(lipgloss.Color("#F87171")).Bold(true),
			summary: r.NewStyle().Foreground(lipgloss.Color("#64748B")).Italic(true),
		},
	}
}

func (t *textWriter) render(style lipgloss.Style, s string) string {
	if !t.color {
		return s
	}
	return style.Render(s)
}

func (t *textWriter) Write(res *search.Result) error {
	buf := bufio.NewWriter(t.w)
	for _, rec := range res.Records {
		switch rec.Type {
		case search.RecordMatch:
			m := rec.Match
			header := fmt.Sprintf("%s %s",
				t.render(t.styles.path, fmt.Sprintf("%s:%d-%d", m.Path, m.StartLine, m.EndLine)),
				t.render(t.styles.lang, "["+m.Language+"]"),
			)
			if c := formatCapture(m.Capture); c != "" {
				header += " " + t.render(t.styles.capture, c)
			}
			fmt.Fprintln(buf, header)
			for _, line := range strings.Split(strings.TrimRight(m.Excerpt, "\n"), "\n") {
				fmt.Fprintln(buf, t.render(t.styles.excerpt, "    "+line))
			}
		case search.RecordError:
			e := rec.Error
			fmt.Fprintf(buf, "%s %s\n", t.render(t.styles.err, e.Path+": "+e.Code), e.Message)
		}
	}
	if t.summary {
		fmt.Fprintln(buf, t.render(t.styles.summary, SummaryMessage(res.Stats)))
	}
	return buf.Flush()
}

// formatCapture renders present slots as slot=value in slot order.
func formatCapture(c adapter.Capture) string {
	parts := make([]string, 0, len(c))
	for _, name := range adapter.Slots {
		if v, ok := c.Get(name); ok {
			parts = append(parts, name+"="+v)
		}
	}
	return strings.Join(parts, " ")
}
