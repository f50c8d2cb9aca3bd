// Package history keeps the ordered, most-recent-first list of saved sessions.
//
// The sequence operations are pure: they never modify their input and always
// return a fresh slice. Store adds best-effort persistence through a Slot.
package history

import (
	"strings"

	"substack_studio/model"
)

// InsertFront prepends entry. Entries with equal titles are kept side by side.
func InsertFront(entry model.HistoryEntry, entries []model.HistoryEntry) []model.HistoryEntry {
	out := make([]model.HistoryEntry, 0, len(entries)+1)
	out = append(out, entry)
	return append(out, entries...)
}

// AmendMostRecent replaces the notes of entries[0]. The caller decides whether
// the entry belongs to the current document. An empty input is returned as is.
func AmendMostRecent(notes []model.NoteExcerpt, entries []model.HistoryEntry) []model.HistoryEntry {
	if len(entries) == 0 {
		return entries
	}
	out := append([]model.HistoryEntry{}, entries...)
	out[0].Notes = model.CloneNotes(notes)
	return out
}

// RemoveByID drops the entry with the given id, if any.
func RemoveByID(id string, entries []model.HistoryEntry) []model.HistoryEntry {
	out := make([]model.HistoryEntry, 0, len(entries))
	for _, e := range entries {
		if e.ID != id {
			out = append(out, e)
		}
	}
	return out
}

// Search matches query case-insensitively against title and subtitle.
// An empty query matches everything; order is preserved.
func Search(query string, entries []model.HistoryEntry) []model.HistoryEntry {
	q := strings.ToLower(query)
	out := make([]model.HistoryEntry, 0, len(entries))
	for _, e := range entries {
		if strings.Contains(strings.ToLower(e.Title), q) || strings.Contains(strings.ToLower(e.Subtitle), q) {
			out = append(out, e)
		}
	}
	return out
}

// Find returns the entry with the given id.
func Find(id string, entries []model.HistoryEntry) (model.HistoryEntry, bool) {
	for _, e := range entries {
		if e.ID == id {
			return e, true
		}
	}
	return model.HistoryEntry{}, false
}
