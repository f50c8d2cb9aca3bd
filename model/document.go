// Package model defines the records shared by the generator, history and server packages.
package model

// Section is one heading/content pair of a Document body.
type Section struct {
	Heading string `json:"heading"`
	Content string `json:"content"`
}

// Document is the normalized result of a draft generation.
// Every field is always present; absent payload fields become empty values.
type Document struct {
	Title           string    `json:"title"`
	Subtitle        string    `json:"subtitle"`
	MetaDescription string    `json:"meta_description"`
	Body            string    `json:"article_body"`
	Sections        []Section `json:"sections"`
	Keywords        []string  `json:"seo_keywords"`
	Sources         []string  `json:"sources"`
	IdeaSuggestions []string  `json:"topic_suggestions"`
}

// Clone returns a deep copy so archived documents never share memory with live ones.
func (d Document) Clone() Document {
	out := d
	out.Sections = append([]Section{}, d.Sections...)
	out.Keywords = append([]string{}, d.Keywords...)
	out.Sources = append([]string{}, d.Sources...)
	out.IdeaSuggestions = append([]string{}, d.IdeaSuggestions...)
	return out
}

// NoteExcerpt is a short promotional note derived from a Document.
// HookType is free-form ("confession", "data_truth", ...).
type NoteExcerpt struct {
	Content        string `json:"content"`
	CharacterCount int    `json:"character_count"`
	HookType       string `json:"hook_type"`
}

// CloneNotes copies a note slice, returning an empty non-nil slice for nil input.
func CloneNotes(notes []NoteExcerpt) []NoteExcerpt {
	return append([]NoteExcerpt{}, notes...)
}

// HistoryEntry is one persisted generation session.
type HistoryEntry struct {
	ID       string        `json:"id"`
	Title    string        `json:"title"`
	Subtitle string        `json:"subtitle"`
	Date     string        `json:"date"`
	Document Document      `json:"article"`
	Notes    []NoteExcerpt `json:"notes"`
}
