package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"substack_studio/model"
	"substack_studio/payload"
)

// DefaultKey names the persisted history slot.
const DefaultKey = "substack_studio_history"

// Slot is a durable key/value cell. Put must replace the value atomically.
type Slot interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
	Close() error
}

// Store reads and writes the whole history through one Slot key.
// Both directions are best-effort: failures are logged, never returned.
type Store struct {
	slot    Slot
	key     string
	logger  *log.Logger
	verbose bool
}

// NewStore wraps slot. An empty key selects DefaultKey.
func NewStore(slot Slot, key string, verbose bool, logger *log.Logger) (*Store, error) {
	if slot == nil {
		return nil, errors.New("history slot is required")
	}
	if key == "" {
		key = DefaultKey
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Store{slot: slot, key: key, logger: logger, verbose: verbose}, nil
}

func (s *Store) infof(format string, args ...interface{}) {
	if !s.verbose {
		return
	}
	s.logger.Printf("[INFO] "+format, args...)
}

// Load returns the persisted entries, or an empty history when the slot is
// missing, unreadable or does not hold a JSON array.
func (s *Store) Load(ctx context.Context) []model.HistoryEntry {
	data, ok, err := s.slot.Get(ctx, s.key)
	if err != nil {
		s.logger.Printf("[WARN] history load: %v", err)
		return []model.HistoryEntry{}
	}
	if !ok || len(data) == 0 {
		return []model.HistoryEntry{}
	}
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		s.logger.Printf("[WARN] history load: discarding corrupt slot %q: %v", s.key, err)
		return []model.HistoryEntry{}
	}
	entries := payload.Entries(raw)
	s.infof("Loaded %d history entries from %q", len(entries), s.key)
	return entries
}

// Save overwrites the slot with entries.
func (s *Store) Save(ctx context.Context, entries []model.HistoryEntry) {
	if entries == nil {
		entries = []model.HistoryEntry{}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		s.logger.Printf("[WARN] history save: %v", err)
		return
	}
	if err := s.slot.Put(ctx, s.key, data); err != nil {
		s.logger.Printf("[WARN] history save: %v", err)
		return
	}
	s.infof("Saved %d history entries to %q", len(entries), s.key)
}

// Close releases the underlying slot.
func (s *Store) Close() error {
	return s.slot.Close()
}

// OpenSlot opens the backend named in configuration: "sqlite" (a database
// file at path) or "file" (a directory at path).
func OpenSlot(backend, path string) (Slot, error) {
	switch backend {
	case "", "sqlite":
		return NewSQLiteSlot(path)
	case "file":
		return NewFileSlot(path)
	default:
		return nil, fmt.Errorf("history backend %s not supported", backend)
	}
}
