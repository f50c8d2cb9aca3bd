// Package payload turns loosely typed agent output into fixed model records.
//
// Nothing here returns an error or panics: absent or mis-shaped fields become
// empty strings, zero counts or empty (non-nil) slices, and sequence elements of
// the wrong type are skipped.
package payload

import (
	"encoding/json"
	"math"

	"substack_studio/model"
)

// Document normalizes a draft payload.
func Document(raw any) model.Document {
	m := object(raw)
	return model.Document{
		Title:           str(m["title"]),
		Subtitle:        str(m["subtitle"]),
		MetaDescription: str(m["meta_description"]),
		Body:            str(m["article_body"]),
		Sections:        sections(m["sections"]),
		Keywords:        strs(m["seo_keywords"]),
		Sources:         strs(m["sources"]),
		IdeaSuggestions: strs(m["topic_suggestions"]),
	}
}

// Notes normalizes an excerpt payload. It accepts either an object carrying a
// "notes" array or the array itself.
func Notes(raw any) []model.NoteExcerpt {
	v := generic(raw)
	if m, ok := v.(map[string]any); ok {
		v = m["notes"]
	}
	list, _ := v.([]any)
	out := make([]model.NoteExcerpt, 0, len(list))
	for _, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		out = append(out, model.NoteExcerpt{
			Content:        str(m["content"]),
			CharacterCount: count(m["character_count"]),
			HookType:       str(m["hook_type"]),
		})
	}
	return out
}

// Ideas extracts the topic suggestions of an ideation payload.
func Ideas(raw any) []string {
	return strs(object(raw)["topic_suggestions"])
}

// Entries rebuilds history entries from persisted JSON, skipping anything that
// is not an object.
func Entries(raw any) []model.HistoryEntry {
	list, _ := generic(raw).([]any)
	out := make([]model.HistoryEntry, 0, len(list))
	for _, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		out = append(out, model.HistoryEntry{
			ID:       str(m["id"]),
			Title:    str(m["title"]),
			Subtitle: str(m["subtitle"]),
			Date:     str(m["date"]),
			Document: Document(m["article"]),
			Notes:    Notes(m["notes"]),
		})
	}
	return out
}

// generic maps typed Go values (structs, typed maps) onto the JSON value space
// so the accessors below only deal with map[string]any, []any and scalars.
// Maps and slices are walked so typed values nested in them are converted too;
// a value that cannot be marshalled becomes nil on its own.
func generic(raw any) any {
	switch v := raw.(type) {
	case nil, string, float64, bool:
		return raw
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, e := range v {
			out[k] = generic(e)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = generic(e)
		}
		return out
	}
	b, err := json.Marshal(raw)
	if err != nil {
		return nil
	}
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return nil
	}
	return v
}

func object(raw any) map[string]any {
	m, _ := generic(raw).(map[string]any)
	return m
}

func str(v any) string {
	s, _ := v.(string)
	return s
}

func strs(v any) []string {
	list, _ := v.([]any)
	out := make([]string, 0, len(list))
	for _, item := range list {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func sections(v any) []model.Section {
	list, _ := v.([]any)
	out := make([]model.Section, 0, len(list))
	for _, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		out = append(out, model.Section{Heading: str(m["heading"]), Content: str(m["content"])})
	}
	return out
}

func count(v any) int {
	f, ok := v.(float64)
	if !ok || math.IsNaN(f) || f <= 0 {
		return 0
	}
	if f > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(f)
}
