package markdown

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	h1Style   = lipgloss.NewStyle().Bold(true).Underline(true)
	h2Style   = lipgloss.NewStyle().Bold(true)
	h3Style   = lipgloss.NewStyle().Bold(true).Italic(true)
	boldStyle = lipgloss.NewStyle().Bold(true)
	itemStyle = lipgloss.NewStyle().PaddingLeft(2)
)

// Terminal styles blocks for a terminal, one line per block.
func Terminal(blocks []Block) string {
	lines := make([]string, 0, len(blocks))
	for _, b := range blocks {
		switch b.Kind {
		case Heading:
			style := h3Style
			switch b.Level {
			case 1:
				style = h1Style
			case 2:
				style = h2Style
			}
			lines = append(lines, style.Render(b.Text()))
		case Bullet:
			lines = append(lines, itemStyle.Render("• "+spans(b.Spans)))
		case Ordered:
			lines = append(lines, itemStyle.Render(fmt.Sprintf("%d. %s", b.Number, spans(b.Spans))))
		case Spacer:
			lines = append(lines, "")
		default:
			lines = append(lines, spans(b.Spans))
		}
	}
	return strings.Join(lines, "\n")
}

func spans(ss []Span) string {
	var sb strings.Builder
	for _, s := range ss {
		if s.Bold {
			sb.WriteString(boldStyle.Render(s.Text))
			continue
		}
		sb.WriteString(s.Text)
	}
	return sb.String()
}
