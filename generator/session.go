package generator

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"substack_studio/feedback"
	"substack_studio/history"
	"substack_studio/model"
)

// Copier places text on a clipboard.
type Copier interface {
	Copy(text string) error
}

// SessionOptions configures a Session. Zero values select defaults.
type SessionOptions struct {
	Agents    AgentIDs
	Now       func() time.Time
	NewID     func(time.Time) string
	Clipboard Copier
	Feedback  *feedback.Channel
	Verbose   bool
	Logger    *log.Logger
}

// Session owns one operator's working state and drives the three generation
// operations against the agent. Each operation suspends only while its agent
// call is outstanding; the state lock is never held across that call.
type Session struct {
	mu      sync.Mutex
	state   State
	env     Env
	agent   Agent
	store   *history.Store
	clip    Copier
	copied  *feedback.Channel
	verbose bool
	logger  *log.Logger
}

// NewSession loads the persisted history once; afterwards the in-memory copy
// is authoritative and every mutation is written back in full. store may be
// nil for a session without persistence.
func NewSession(ctx context.Context, agent Agent, store *history.Store, opts SessionOptions) (*Session, error) {
	if agent == nil {
		return nil, errors.New("agent is required")
	}
	if opts.Agents.ContentOrchestrator == "" || opts.Agents.NotesCreator == "" {
		def := DefaultAgentIDs()
		if opts.Agents.ContentOrchestrator == "" {
			opts.Agents.ContentOrchestrator = def.ContentOrchestrator
		}
		if opts.Agents.NotesCreator == "" {
			opts.Agents.NotesCreator = def.NotesCreator
		}
	}
	if opts.Feedback == nil {
		opts.Feedback = feedback.NewChannel(feedback.DefaultExpiry)
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	var entries []model.HistoryEntry
	if store != nil {
		entries = store.Load(ctx)
	}
	return &Session{
		state:   NewState(entries),
		env:     Env{Agents: opts.Agents, Now: opts.Now, NewID: opts.NewID}.withDefaults(),
		agent:   agent,
		store:   store,
		clip:    opts.Clipboard,
		copied:  opts.Feedback,
		verbose: opts.Verbose,
		logger:  opts.Logger,
	}, nil
}

func (s *Session) infof(format string, args ...interface{}) {
	if !s.verbose {
		return
	}
	s.logger.Printf("[INFO] "+format, args...)
}

// Agents returns the configured agent identifiers.
func (s *Session) Agents() AgentIDs { return s.env.Agents }

// Snapshot returns the current state. Its slices are never modified later.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// History returns all entries, most recent first.
func (s *Session) History() []model.HistoryEntry {
	return s.Snapshot().History
}

// SearchHistory filters entries by title/subtitle substring.
func (s *Session) SearchHistory(query string) []model.HistoryEntry {
	return history.Search(query, s.History())
}

// SetTopic replaces the draft topic. It is trimmed only when a draft starts.
func (s *Session) SetTopic(topic string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Topic = topic
}

// SetOptions replaces the tuning options; empty fields take the defaults.
func (s *Session) SetOptions(opts model.Options) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Options = opts.WithDefaults()
}

// GenerateDraft runs Draft Generation. Precondition rejections return the
// sentinel errors without touching state; a failed call returns *OpError.
func (s *Session) GenerateDraft(ctx context.Context) error {
	return s.run(ctx, BeginDraft)
}

// GenerateIdeas runs Idea Generation.
func (s *Session) GenerateIdeas(ctx context.Context) error {
	return s.run(ctx, BeginIdeas)
}

// GenerateNotes runs Excerpt Generation on the edited overlay.
func (s *Session) GenerateNotes(ctx context.Context) error {
	return s.run(ctx, BeginNotes)
}

func (s *Session) run(ctx context.Context, begin func(State, Env) (State, []Effect, error)) error {
	s.mu.Lock()
	next, effects, err := begin(s.state, s.env)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.state = next
	s.mu.Unlock()

	for _, eff := range effects {
		if call, ok := eff.(CallAgent); ok {
			return s.call(ctx, call)
		}
	}
	return nil
}

func (s *Session) call(ctx context.Context, call CallAgent) error {
	s.infof("Invoking agent %s for %s (token %d)", call.AgentID, call.Op, call.Token)
	res, callErr := s.invoke(ctx, call)

	s.mu.Lock()
	defer s.mu.Unlock()
	if IsStale(s.state, call) {
		s.infof("Discarding stale %s result (token %d)", call.Op, call.Token)
	}
	next, effects := Complete(s.state, s.env, call, res, callErr)
	s.state = next
	s.apply(ctx, effects)

	st := next.Status(call.Op)
	if st.Token == call.Token && st.Phase == Failed {
		s.infof("%s failed: %s", call.Op, st.Error)
		return &OpError{Op: call.Op, Message: st.Error}
	}
	return nil
}

// invoke maps a panicking agent onto a transport fault.
func (s *Session) invoke(ctx context.Context, call CallAgent) (res Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("agent %s: %v", call.AgentID, r)
		}
	}()
	return s.agent.Invoke(ctx, call.Instruction, call.AgentID)
}

// apply runs non-call effects. It is called with s.mu held so history writes
// reach the slot in mutation order.
func (s *Session) apply(ctx context.Context, effects []Effect) {
	for _, eff := range effects {
		if p, ok := eff.(PersistHistory); ok && s.store != nil {
			s.store.Save(context.WithoutCancel(ctx), p.Entries)
		}
	}
}

// SelectHistory loads the entry with id into the session.
func (s *Session) SelectHistory(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := SelectHistory(s.state, id)
	if err != nil {
		return err
	}
	s.state = next
	return nil
}

// DeleteHistory removes the entry with id; unknown ids are not an error.
func (s *Session) DeleteHistory(ctx context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, effects := DeleteHistory(s.state, id)
	s.state = next
	s.apply(ctx, effects)
}

// LoadSample replaces the working set with the built-in sample.
func (s *Session) LoadSample() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = LoadSample(s.state)
}

// Reset clears the working set. History is kept.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Reset(s.state)
}

// EditTitle changes the overlay title. The generated document is untouched.
func (s *Session) EditTitle(title string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Overlay = s.state.Overlay.WithTitle(title)
}

// EditSubtitle changes the overlay subtitle.
func (s *Session) EditSubtitle(subtitle string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Overlay = s.state.Overlay.WithSubtitle(subtitle)
}

// EditSection changes the heading or content of overlay section i.
func (s *Session) EditSection(i int, field SectionField, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, err := s.state.Overlay.WithSection(i, field, value)
	if err != nil {
		return err
	}
	s.state.Overlay = o
	return nil
}

// FullText serializes the edited document; false when there is no document.
func (s *Session) FullText() (string, bool) {
	st := s.Snapshot()
	if st.Document == nil {
		return "", false
	}
	return FullText(st.Overlay, *st.Document), true
}

// CopyDocument copies the full edited document, confirms it and returns the
// copied text.
func (s *Session) CopyDocument() (string, error) {
	text, ok := s.FullText()
	if !ok {
		return "", ErrNoDocument
	}
	return text, s.copy(text, FullDocumentCopyID)
}

// CopyNote copies note i, confirms it under NoteCopyID(i) and returns the
// copied text.
func (s *Session) CopyNote(i int) (string, error) {
	notes := s.Snapshot().Notes
	if i < 0 || i >= len(notes) {
		return "", fmt.Errorf("note %d: %w", i, ErrNoNote)
	}
	text := notes[i].Content
	return text, s.copy(text, NoteCopyID(i))
}

func (s *Session) copy(text, id string) error {
	if s.clip == nil {
		return errors.New("no clipboard configured")
	}
	if err := s.clip.Copy(text); err != nil {
		return err
	}
	s.copied.MarkCopied(id)
	return nil
}

// IsCopied reports whether id is the currently confirmed copy.
func (s *Session) IsCopied(id string) bool { return s.copied.IsCopied(id) }

// CopiedID returns the currently confirmed copy id, if any.
func (s *Session) CopiedID() string { return s.copied.Current() }

// Close cancels the pending copy confirmation timer.
func (s *Session) Close() {
	s.copied.Stop()
}
