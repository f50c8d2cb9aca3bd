// Package markdown renders the line-oriented markdown subset agents produce.
//
// Render is pure: the same text always yields the same blocks. Terminal and
// HTML are presenters built on top of it (and on goldmark for HTML).
package markdown

import (
	"regexp"
	"strconv"
	"strings"
)

// Kind identifies a block.
type Kind string

const (
	Heading   Kind = "heading"
	Bullet    Kind = "bullet"
	Ordered   Kind = "ordered"
	Paragraph Kind = "paragraph"
	Spacer    Kind = "spacer"
)

// Span is a run of inline text.
type Span struct {
	Text string `json:"text"`
	Bold bool   `json:"bold,omitempty"`
}

// Block is one rendered line.
// Level is set for headings (1-3), Number for ordered items.
type Block struct {
	Kind   Kind   `json:"kind"`
	Level  int    `json:"level,omitempty"`
	Number int    `json:"number,omitempty"`
	Spans  []Span `json:"spans,omitempty"`
}

// Text concatenates the block's spans.
func (b Block) Text() string {
	var sb strings.Builder
	for _, s := range b.Spans {
		sb.WriteString(s.Text)
	}
	return sb.String()
}

var (
	orderedRe = regexp.MustCompile(`^(\d+)\.\s`)
	boldRe    = regexp.MustCompile(`\*\*(.*?)\*\*`)
)

// Render splits text into lines and classifies each one. Headings keep their
// text verbatim; list items and paragraphs get bold-span formatting.
func Render(text string) []Block {
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	blocks := make([]Block, 0, len(lines))
	for _, line := range lines {
		blocks = append(blocks, renderLine(line))
	}
	return blocks
}

func renderLine(line string) Block {
	switch {
	case strings.HasPrefix(line, "### "):
		return Block{Kind: Heading, Level: 3, Spans: []Span{{Text: line[4:]}}}
	case strings.HasPrefix(line, "## "):
		return Block{Kind: Heading, Level: 2, Spans: []Span{{Text: line[3:]}}}
	case strings.HasPrefix(line, "# "):
		return Block{Kind: Heading, Level: 1, Spans: []Span{{Text: line[2:]}}}
	case strings.HasPrefix(line, "- "), strings.HasPrefix(line, "* "):
		return Block{Kind: Bullet, Spans: Inline(line[2:])}
	}
	if m := orderedRe.FindStringSubmatchIndex(line); m != nil {
		n, _ := strconv.Atoi(line[m[2]:m[3]])
		return Block{Kind: Ordered, Number: n, Spans: Inline(line[m[1]:])}
	}
	if strings.TrimSpace(line) == "" {
		return Block{Kind: Spacer}
	}
	return Block{Kind: Paragraph, Spans: Inline(line)}
}

// Inline splits text on **bold** markers. Empty runs are dropped.
func Inline(text string) []Span {
	matches := boldRe.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return []Span{{Text: text}}
	}
	var spans []Span
	last := 0
	for _, m := range matches {
		if plain := text[last:m[0]]; plain != "" {
			spans = append(spans, Span{Text: plain})
		}
		if bold := text[m[2]:m[3]]; bold != "" {
			spans = append(spans, Span{Text: bold, Bold: true})
		}
		last = m[1]
	}
	if rest := text[last:]; rest != "" {
		spans = append(spans, Span{Text: rest})
	}
	return spans
}
