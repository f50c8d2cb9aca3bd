package generator

import (
	"fmt"
	"strings"

	"substack_studio/model"
)

// Overlay is the operator-editable copy of a document's title, subtitle and
// sections. It never shares section memory with the Document it came from.
type Overlay struct {
	Title    string          `json:"title"`
	Subtitle string          `json:"subtitle"`
	Sections []model.Section `json:"sections"`
	// Rev is the document revision the overlay was last synced from.
	Rev uint64 `json:"rev"`
}

// Sync overwrites the overlay from doc when rev differs from the last synced
// revision. Local edits to the previous document are discarded.
func (o Overlay) Sync(doc *model.Document, rev uint64) Overlay {
	if doc == nil || o.Rev == rev {
		return o
	}
	return Overlay{
		Title:    doc.Title,
		Subtitle: doc.Subtitle,
		Sections: append([]model.Section{}, doc.Sections...),
		Rev:      rev,
	}
}

// WithTitle returns o with a new title.
func (o Overlay) WithTitle(title string) Overlay {
	o.Title = title
	return o
}

// WithSubtitle returns o with a new subtitle.
func (o Overlay) WithSubtitle(subtitle string) Overlay {
	o.Subtitle = subtitle
	return o
}

// SectionField selects the part of a section being edited.
type SectionField string

const (
	FieldHeading SectionField = "heading"
	FieldContent SectionField = "content"
)

// WithSection replaces one field of section i, copying the slice.
func (o Overlay) WithSection(i int, field SectionField, value string) (Overlay, error) {
	if i < 0 || i >= len(o.Sections) {
		return o, ErrNoSection
	}
	sections := append([]model.Section{}, o.Sections...)
	switch field {
	case FieldHeading:
		sections[i].Heading = value
	case FieldContent:
		sections[i].Content = value
	default:
		return o, fmt.Errorf("unknown section field %q", field)
	}
	o.Sections = sections
	return o, nil
}

// FullText serializes the overlay plus the document's keywords and sources
// the way "copy full document" places it on the clipboard.
func FullText(o Overlay, doc model.Document) string {
	parts := make([]string, 0, len(o.Sections))
	for _, s := range o.Sections {
		parts = append(parts, "## "+s.Heading+"\n\n"+s.Content)
	}
	sources := make([]string, 0, len(doc.Sources))
	for i, s := range doc.Sources {
		sources = append(sources, fmt.Sprintf("%d. %s", i+1, s))
	}

	var sb strings.Builder
	sb.WriteString("# " + o.Title + "\n\n")
	sb.WriteString(o.Subtitle + "\n\n")
	sb.WriteString(strings.Join(parts, "\n\n"))
	sb.WriteString("\n\n---\n\n")
	sb.WriteString("SEO Keywords: " + strings.Join(doc.Keywords, ", "))
	sb.WriteString("\n\nSources:\n" + strings.Join(sources, "\n"))
	return sb.String()
}
