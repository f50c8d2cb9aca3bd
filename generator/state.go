package generator

import (
	"strings"
	"time"

	"substack_studio/history"
	"substack_studio/model"
	"substack_studio/payload"
)

// State is the session working set. Transitions never modify a State in
// place: slices and the Document are replaced, so snapshots stay valid.
type State struct {
	Topic       string              `json:"topic"`
	Options     model.Options       `json:"options"`
	Document    *model.Document     `json:"document,omitempty"`
	DocumentRev uint64              `json:"document_rev"`
	Overlay     Overlay             `json:"overlay"`
	Notes       []model.NoteExcerpt `json:"notes"`
	Ideas       []string            `json:"idea_suggestions"`

	DraftStatus OpStatus `json:"draft"`
	IdeasStatus OpStatus `json:"ideas"`
	NotesStatus OpStatus `json:"notes_status"`

	// ActiveAgentID is a single last-writer-wins attribution slot.
	ActiveAgentID string `json:"active_agent_id,omitempty"`

	History []model.HistoryEntry `json:"-"`
	// CurrentHistoryID links the in-memory document to the entry it was
	// created from or loaded from.
	CurrentHistoryID string `json:"current_history_id,omitempty"`
}

// NewState starts an idle session over the loaded history.
func NewState(entries []model.HistoryEntry) State {
	if entries == nil {
		entries = []model.HistoryEntry{}
	}
	return State{
		Options:     model.DefaultOptions(),
		Notes:       []model.NoteExcerpt{},
		Ideas:       []string{},
		DraftStatus: OpStatus{Phase: Idle},
		IdeasStatus: OpStatus{Phase: Idle},
		NotesStatus: OpStatus{Phase: Idle},
		History:     entries,
	}
}

// Status returns the status of op.
func (s State) Status(op Op) OpStatus {
	switch op {
	case OpDraft:
		return s.DraftStatus
	case OpIdeas:
		return s.IdeasStatus
	default:
		return s.NotesStatus
	}
}

func (s *State) setStatus(op Op, st OpStatus) {
	switch op {
	case OpDraft:
		s.DraftStatus = st
	case OpIdeas:
		s.IdeasStatus = st
	default:
		s.NotesStatus = st
	}
}

// Env supplies the non-deterministic inputs of the transitions.
type Env struct {
	Agents AgentIDs
	Now    func() time.Time
	NewID  func(time.Time) string
}

func (e Env) withDefaults() Env {
	if e.Now == nil {
		e.Now = time.Now
	}
	if e.NewID == nil {
		e.NewID = history.NewID
	}
	return e
}

// Effect is a side effect a transition asks its executor to perform.
type Effect interface{ isEffect() }

// CallAgent asks for one outbound agent call. Topic carries the trimmed draft
// topic so the completion can fall back to it for the entry title.
type CallAgent struct {
	Op          Op
	Token       uint64
	AgentID     string
	Instruction string
	Topic       string
}

// PersistHistory asks for the full history to be written back.
type PersistHistory struct {
	Entries []model.HistoryEntry
}

func (CallAgent) isEffect()      {}
func (PersistHistory) isEffect() {}

func begin(s State, op Op, agentID string) (State, uint64) {
	st := s.Status(op)
	st.Token++
	st.Phase = Running
	st.Error = ""
	s.setStatus(op, st)
	s.ActiveAgentID = agentID
	return s, st.Token
}

// invalidate makes any in-flight call of op stale.
func invalidate(s *State, op Op) {
	st := s.Status(op)
	st.Token++
	if st.Phase == Running {
		st.Phase = Idle
	}
	s.setStatus(op, st)
}

func finish(s *State, op Op, errMsg string) {
	st := s.Status(op)
	if errMsg != "" {
		st.Phase, st.Error = Failed, errMsg
	} else {
		st.Phase, st.Error = Succeeded, ""
	}
	s.setStatus(op, st)
}

func replaceDocument(s *State, doc model.Document) {
	d := doc
	s.Document = &d
	s.DocumentRev++
	s.Overlay = s.Overlay.Sync(s.Document, s.DocumentRev)
}

// IsStale reports whether call was superseded or invalidated.
func IsStale(s State, call CallAgent) bool {
	st := s.Status(call.Op)
	return st.Token != call.Token || st.Phase != Running
}

// BeginDraft validates the topic, drops the notes of the previous draft and
// requests the draft call.
func BeginDraft(s State, env Env) (State, []Effect, error) {
	topic := strings.TrimSpace(s.Topic)
	if topic == "" {
		return s, nil, ErrEmptyTopic
	}
	if s.DraftStatus.Running() {
		return s, nil, ErrRunning
	}
	opts := s.Options.WithDefaults()

	s.Notes = []model.NoteExcerpt{}
	s.NotesStatus.Error = ""
	if s.NotesStatus.Phase == Failed {
		s.NotesStatus.Phase = Idle
	}
	// Notes in flight belong to the document being replaced.
	if s.NotesStatus.Running() {
		invalidate(&s, OpNotes)
	}

	s, token := begin(s, OpDraft, env.Agents.ContentOrchestrator)
	return s, []Effect{CallAgent{
		Op:          OpDraft,
		Token:       token,
		AgentID:     env.Agents.ContentOrchestrator,
		Instruction: DraftInstruction(topic, opts),
		Topic:       topic,
	}}, nil
}

// BeginIdeas requests topic suggestions. No topic or document is required.
func BeginIdeas(s State, env Env) (State, []Effect, error) {
	if s.IdeasStatus.Running() {
		return s, nil, ErrRunning
	}
	s, token := begin(s, OpIdeas, env.Agents.ContentOrchestrator)
	return s, []Effect{CallAgent{
		Op:          OpIdeas,
		Token:       token,
		AgentID:     env.Agents.ContentOrchestrator,
		Instruction: IdeasInstruction,
	}}, nil
}

// BeginNotes requests excerpts for the edited overlay of the current document.
func BeginNotes(s State, env Env) (State, []Effect, error) {
	if s.Document == nil {
		return s, nil, ErrNoDocument
	}
	if s.NotesStatus.Running() {
		return s, nil, ErrRunning
	}
	s, token := begin(s, OpNotes, env.Agents.NotesCreator)
	return s, []Effect{CallAgent{
		Op:          OpNotes,
		Token:       token,
		AgentID:     env.Agents.NotesCreator,
		Instruction: NotesInstruction(s.Overlay.Title, s.Overlay.Subtitle, s.Overlay.Sections),
	}}, nil
}

// Complete applies the outcome of call. callErr is a transport fault.
// Stale completions only clear the attribution slot.
func Complete(s State, env Env, call CallAgent, res Result, callErr error) (State, []Effect) {
	env = env.withDefaults()
	s.ActiveAgentID = ""
	if IsStale(s, call) {
		return s, nil
	}

	fallback := map[Op]string{OpDraft: msgDraftFailed, OpIdeas: msgIdeasFailed, OpNotes: msgNotesFailed}[call.Op]
	if callErr != nil {
		msg := callErr.Error()
		if msg == "" {
			msg = msgUnexpected
		}
		finish(&s, call.Op, msg)
		return s, nil
	}
	if !res.Success {
		finish(&s, call.Op, res.failureMessage(fallback))
		return s, nil
	}

	switch call.Op {
	case OpDraft:
		return completeDraft(s, env, call, res)
	case OpIdeas:
		ideas := payload.Ideas(res.payload())
		if len(ideas) == 0 {
			finish(&s, OpIdeas, msgNoIdeas)
			return s, nil
		}
		s.Ideas = ideas
		finish(&s, OpIdeas, "")
		return s, nil
	default:
		return completeNotes(s, res)
	}
}

func completeDraft(s State, env Env, call CallAgent, res Result) (State, []Effect) {
	doc := payload.Document(res.payload())
	replaceDocument(&s, doc)

	now := env.Now()
	title := doc.Title
	if title == "" {
		title = call.Topic
	}
	entry := model.HistoryEntry{
		ID:       env.NewID(now),
		Title:    title,
		Subtitle: doc.Subtitle,
		Date:     history.FormatDate(now),
		Document: doc.Clone(),
		Notes:    []model.NoteExcerpt{},
	}
	s.History = history.InsertFront(entry, s.History)
	s.CurrentHistoryID = entry.ID
	finish(&s, OpDraft, "")
	return s, []Effect{PersistHistory{Entries: s.History}}
}

func completeNotes(s State, res Result) (State, []Effect) {
	notes := payload.Notes(res.payload())
	s.Notes = notes
	finish(&s, OpNotes, "")

	if s.Document == nil || len(s.History) == 0 {
		return s, nil
	}
	head := s.History[0]
	if head.ID != s.CurrentHistoryID || head.Document.Title != s.Document.Title {
		return s, nil
	}
	s.History = history.AmendMostRecent(notes, s.History)
	return s, []Effect{PersistHistory{Entries: s.History}}
}

// SelectHistory loads an entry verbatim and makes it the current document.
// Draft and notes calls in flight are invalidated.
func SelectHistory(s State, id string) (State, error) {
	entry, ok := history.Find(id, s.History)
	if !ok {
		return s, ErrNotFound
	}
	invalidate(&s, OpDraft)
	invalidate(&s, OpNotes)
	replaceDocument(&s, entry.Document.Clone())
	s.Notes = model.CloneNotes(entry.Notes)
	s.Topic = entry.Document.Title
	s.CurrentHistoryID = entry.ID
	return s, nil
}

// DeleteHistory removes an entry. Unknown ids leave the history unchanged
// but still persist, matching every other history mutation.
func DeleteHistory(s State, id string) (State, []Effect) {
	s.History = history.RemoveByID(id, s.History)
	if s.CurrentHistoryID == id {
		s.CurrentHistoryID = ""
	}
	return s, []Effect{PersistHistory{Entries: s.History}}
}

// LoadSample shows the built-in sample without touching history.
func LoadSample(s State) State {
	invalidate(&s, OpDraft)
	invalidate(&s, OpNotes)
	replaceDocument(&s, SampleDocument())
	s.Notes = SampleNotes()
	s.Ideas = SampleSuggestions()
	s.Topic = SampleTopic
	s.CurrentHistoryID = ""
	for _, op := range []Op{OpDraft, OpIdeas, OpNotes} {
		st := s.Status(op)
		if st.Phase == Failed {
			st.Phase, st.Error = Idle, ""
		}
		s.setStatus(op, st)
	}
	return s
}

// Reset clears the working document, notes, ideas and topic.
func Reset(s State) State {
	invalidate(&s, OpDraft)
	invalidate(&s, OpNotes)
	s.Document = nil
	s.DocumentRev++
	s.Overlay = Overlay{Rev: s.DocumentRev}
	s.Notes = []model.NoteExcerpt{}
	s.Ideas = []string{}
	s.Topic = ""
	s.CurrentHistoryID = ""
	return s
}
