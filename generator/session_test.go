package generator

import (
	"context"
	"errors"
	"io"
	"log"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"substack_studio/feedback"
	"substack_studio/history"
	"substack_studio/model"
)

type agentCall struct {
	Instruction string
	AgentID     string
}

// fakeAgent answers with InvokeFunc and records every call.
type fakeAgent struct {
	mu         sync.Mutex
	calls      []agentCall
	InvokeFunc func(ctx context.Context, instruction, agentID string) (Result, error)
}

func (f *fakeAgent) Invoke(ctx context.Context, instruction, agentID string) (Result, error) {
	f.mu.Lock()
	f.calls = append(f.calls, agentCall{instruction, agentID})
	f.mu.Unlock()
	if f.InvokeFunc == nil {
		return Result{Success: true, Response: &Response{Result: map[string]any{}}}, nil
	}
	return f.InvokeFunc(ctx, instruction, agentID)
}

func (f *fakeAgent) last() agentCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[len(f.calls)-1]
}

func okResult(result any) Result {
	return Result{Success: true, Response: &Response{Result: result}}
}

type recordingClipboard struct {
	text string
	err  error
}

func (c *recordingClipboard) Copy(text string) error {
	if c.err != nil {
		return c.err
	}
	c.text = text
	return nil
}

var testNow = time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) *history.Store {
	t.Helper()
	slot, err := history.NewSQLiteSlot(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("create slot: %v", err)
	}
	store, err := history.NewStore(slot, "", false, log.New(io.Discard, "", 0))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func newTestSession(t *testing.T, agent Agent, store *history.Store) *Session {
	t.Helper()
	s, err := NewSession(context.Background(), agent, store, SessionOptions{
		Now:       func() time.Time { return testNow },
		Clipboard: &recordingClipboard{},
		Feedback:  feedback.NewChannel(50 * time.Millisecond),
		Logger:    log.New(io.Discard, "", 0),
	})
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	t.Cleanup(s.Close)
	return s
}

func TestEndToEndDraft(t *testing.T) {
	ctx := context.Background()
	agent := &fakeAgent{InvokeFunc: func(context.Context, string, string) (Result, error) {
		return okResult(map[string]any{
			"title":    "Hi",
			"sections": []any{map[string]any{"heading": "A", "content": "B"}},
		}), nil
	}}
	store := newTestStore(t)
	s := newTestSession(t, agent, store)

	s.SetTopic("T")
	s.SetOptions(model.Options{Tone: "Informative", Audience: "General", Length: "Standard"})
	if err := s.GenerateDraft(ctx); err != nil {
		t.Fatalf("draft: %v", err)
	}

	st := s.Snapshot()
	if st.Document == nil || st.Document.Title != "Hi" {
		t.Fatalf("document = %+v", st.Document)
	}
	if !reflect.DeepEqual(st.Document.Sections, []model.Section{{Heading: "A", Content: "B"}}) {
		t.Errorf("sections = %+v", st.Document.Sections)
	}
	if st.History[0].Title != "Hi" || st.History[0].Date != "Oct 15, 2026" {
		t.Errorf("history[0] = %+v", st.History[0])
	}
	if st.DraftStatus.Phase != Succeeded || st.ActiveAgentID != "" {
		t.Errorf("status = %+v active = %q", st.DraftStatus, st.ActiveAgentID)
	}

	call := agent.last()
	if call.AgentID != DefaultContentOrchestratorID {
		t.Errorf("agent = %q", call.AgentID)
	}
	want := "Write a comprehensive newsletter article about: T.\nTone: Informative. Audience: General. Length: Standard."
	if !strings.HasPrefix(call.Instruction, want) {
		t.Errorf("instruction = %q", call.Instruction)
	}

	// Persisted and reloadable by a fresh session.
	reloaded := newTestSession(t, &fakeAgent{}, store)
	if h := reloaded.History(); len(h) != 1 || h[0].Document.Title != "Hi" {
		t.Errorf("reloaded history = %+v", h)
	}
}

func TestDraftTitleFallsBackToTopic(t *testing.T) {
	agent := &fakeAgent{InvokeFunc: func(context.Context, string, string) (Result, error) {
		return okResult(map[string]any{"subtitle": "sub"}), nil
	}}
	s := newTestSession(t, agent, nil)
	s.SetTopic("  focus  ")
	if err := s.GenerateDraft(context.Background()); err != nil {
		t.Fatal(err)
	}
	h := s.History()
	if h[0].Title != "focus" || h[0].Subtitle != "sub" {
		t.Errorf("entry = %+v", h[0])
	}
	if h[0].Notes == nil || len(h[0].Notes) != 0 {
		t.Errorf("notes = %#v, want empty", h[0].Notes)
	}
}

func TestDraftPreconditions(t *testing.T) {
	agent := &fakeAgent{}
	s := newTestSession(t, agent, nil)
	s.SetTopic("   ")
	if err := s.GenerateDraft(context.Background()); !errors.Is(err, ErrEmptyTopic) {
		t.Errorf("err = %v, want ErrEmptyTopic", err)
	}
	if err := s.GenerateNotes(context.Background()); !errors.Is(err, ErrNoDocument) {
		t.Errorf("err = %v, want ErrNoDocument", err)
	}
	if len(agent.calls) != 0 {
		t.Errorf("agent was called %d times", len(agent.calls))
	}
	if st := s.Snapshot(); st.DraftStatus.Phase != Idle || st.NotesStatus.Phase != Idle {
		t.Errorf("rejections changed status: %+v", st)
	}
}

func TestDraftFailureMessages(t *testing.T) {
	tests := []struct {
		name string
		res  Result
		err  error
		want string
	}{
		{"explicit error", Result{Error: "quota", Response: &Response{Message: "m"}}, nil, "quota"},
		{"response message", Result{Response: &Response{Message: "overloaded"}}, nil, "overloaded"},
		{"fallback", Result{}, nil, msgDraftFailed},
		{"transport fault", Result{}, errors.New("dial tcp: refused"), "dial tcp: refused"},
		{"empty fault", Result{}, errors.New(""), msgUnexpected},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agent := &fakeAgent{InvokeFunc: func(context.Context, string, string) (Result, error) {
				return tt.res, tt.err
			}}
			s := newTestSession(t, agent, nil)
			s.SetTopic("x")
			err := s.GenerateDraft(context.Background())
			var opErr *OpError
			if !errors.As(err, &opErr) || opErr.Message != tt.want {
				t.Fatalf("err = %v, want OpError %q", err, tt.want)
			}
			st := s.Snapshot()
			if st.DraftStatus.Phase != Failed || st.DraftStatus.Error != tt.want {
				t.Errorf("status = %+v", st.DraftStatus)
			}
			if st.ActiveAgentID != "" || st.Document != nil || len(st.History) != 0 {
				t.Errorf("failure leaked state: %+v", st)
			}
		})
	}
}

func TestInProcessAgentWithTypedPayload(t *testing.T) {
	agent := &fakeAgent{InvokeFunc: func(_ context.Context, instruction, _ string) (Result, error) {
		if instruction == IdeasInstruction {
			return okResult(map[string]any{"topic_suggestions": []string{"one", "two"}}), nil
		}
		return okResult(map[string]any{
			"title":    "Hi",
			"sections": []map[string]any{{"heading": "A", "content": "B"}},
		}), nil
	}}
	s := newTestSession(t, agent, nil)
	s.SetTopic("T")
	if err := s.GenerateDraft(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := s.GenerateIdeas(context.Background()); err != nil {
		t.Fatalf("ideas: %v", err)
	}
	st := s.Snapshot()
	if !reflect.DeepEqual(st.Document.Sections, []model.Section{{Heading: "A", Content: "B"}}) {
		t.Errorf("sections = %+v", st.Document.Sections)
	}
	if !reflect.DeepEqual(st.Ideas, []string{"one", "two"}) {
		t.Errorf("ideas = %v", st.Ideas)
	}
}

func TestPanickingAgentIsAFault(t *testing.T) {
	agent := &fakeAgent{InvokeFunc: func(context.Context, string, string) (Result, error) {
		panic("boom")
	}}
	s := newTestSession(t, agent, nil)
	err := s.GenerateIdeas(context.Background())
	var opErr *OpError
	if !errors.As(err, &opErr) || !strings.Contains(opErr.Message, "boom") {
		t.Fatalf("err = %v", err)
	}
}

func TestIdeas(t *testing.T) {
	var result Result
	agent := &fakeAgent{InvokeFunc: func(context.Context, string, string) (Result, error) { return result, nil }}
	s := newTestSession(t, agent, nil)

	result = okResult(map[string]any{"topic_suggestions": []any{"one", "two"}})
	if err := s.GenerateIdeas(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got := s.Snapshot().Ideas; !reflect.DeepEqual(got, []string{"one", "two"}) {
		t.Fatalf("ideas = %v", got)
	}
	if c := agent.last(); c.Instruction != IdeasInstruction || c.AgentID != DefaultContentOrchestratorID {
		t.Errorf("call = %+v", c)
	}

	result = okResult(map[string]any{"topic_suggestions": []any{}})
	err := s.GenerateIdeas(context.Background())
	if err == nil {
		t.Fatal("expected failure for empty suggestions")
	}
	st := s.Snapshot()
	if st.IdeasStatus.Phase != Failed || st.IdeasStatus.Error == "" {
		t.Errorf("status = %+v", st.IdeasStatus)
	}
	if !reflect.DeepEqual(st.Ideas, []string{"one", "two"}) {
		t.Errorf("ideas changed: %v", st.Ideas)
	}

	result = Result{}
	s.GenerateIdeas(context.Background())
	if got := s.Snapshot().IdeasStatus.Error; got != msgIdeasFailed {
		t.Errorf("error = %q", got)
	}
}

func draftThenNotes(t *testing.T) (*Session, []model.NoteExcerpt) {
	t.Helper()
	notes := []any{
		map[string]any{"content": "n1", "character_count": 2.0, "hook_type": "confession"},
		map[string]any{"content": "n2", "character_count": 2.0, "hook_type": "data_truth"},
	}
	agent := &fakeAgent{InvokeFunc: func(_ context.Context, _ string, agentID string) (Result, error) {
		if agentID == DefaultNotesCreatorID {
			return okResult(map[string]any{"notes": notes}), nil
		}
		return okResult(map[string]any{"title": "Focus", "sections": []any{map[string]any{"heading": "H", "content": "C"}}}), nil
	}}
	s := newTestSession(t, agent, newTestStore(t))
	s.SetTopic("focus")
	if err := s.GenerateDraft(context.Background()); err != nil {
		t.Fatal(err)
	}
	return s, []model.NoteExcerpt{
		{Content: "n1", CharacterCount: 2, HookType: "confession"},
		{Content: "n2", CharacterCount: 2, HookType: "data_truth"},
	}
}

func TestNotesAmendMostRecent(t *testing.T) {
	s, want := draftThenNotes(t)
	s.EditTitle("Edited Title")
	if err := s.GenerateNotes(context.Background()); err != nil {
		t.Fatal(err)
	}
	st := s.Snapshot()
	if !reflect.DeepEqual(st.Notes, want) {
		t.Errorf("notes = %+v", st.Notes)
	}
	if !reflect.DeepEqual(st.History[0].Notes, want) {
		t.Errorf("history[0].notes = %+v", st.History[0].Notes)
	}
	if st.ActiveAgentID != "" || st.NotesStatus.Phase != Succeeded {
		t.Errorf("status = %+v", st.NotesStatus)
	}
}

func TestNotesInstructionUsesOverlay(t *testing.T) {
	s, _ := draftThenNotes(t)
	s.EditTitle("Edited Title")
	s.EditSubtitle("Edited Sub")
	if err := s.EditSection(0, FieldContent, "Edited body"); err != nil {
		t.Fatal(err)
	}
	s.GenerateNotes(context.Background())

	agent := s.agent.(*fakeAgent)
	c := agent.last()
	if c.AgentID != DefaultNotesCreatorID {
		t.Errorf("agent = %q", c.AgentID)
	}
	for _, want := range []string{"Article Title: Edited Title", "Edited Title\n\nEdited Sub\n\n## H\nEdited body", "ZERO TOLERANCE"} {
		if !strings.Contains(c.Instruction, want) {
			t.Errorf("instruction missing %q", want)
		}
	}
	// The generated document itself is untouched.
	if doc := s.Snapshot().Document; doc.Title != "Focus" || doc.Sections[0].Content != "C" {
		t.Errorf("document mutated: %+v", doc)
	}
}

func TestNotesSkipAmendWhenTitlesDiffer(t *testing.T) {
	s, _ := draftThenNotes(t)
	ctx := context.Background()

	// A second entry with another title becomes history[0]; then the older
	// entry is loaded, so the in-memory title no longer matches history[0].
	agent := s.agent.(*fakeAgent)
	prev := agent.InvokeFunc
	agent.InvokeFunc = func(ctx context.Context, in, id string) (Result, error) {
		if id == DefaultContentOrchestratorID {
			return okResult(map[string]any{"title": "Other"}), nil
		}
		return prev(ctx, in, id)
	}
	s.SetTopic("other")
	if err := s.GenerateDraft(ctx); err != nil {
		t.Fatal(err)
	}
	h := s.History()
	if err := s.SelectHistory(h[1].ID); err != nil {
		t.Fatal(err)
	}
	if err := s.GenerateNotes(ctx); err != nil {
		t.Fatal(err)
	}
	st := s.Snapshot()
	if len(st.Notes) != 2 {
		t.Errorf("notes not set: %+v", st.Notes)
	}
	if len(st.History[0].Notes) != 0 || len(st.History[1].Notes) != 0 {
		t.Errorf("history amended despite title mismatch: %+v", st.History)
	}
}

func TestNotesSkipAmendForSameTitleOlderEntry(t *testing.T) {
	s, _ := draftThenNotes(t)
	ctx := context.Background()
	// Same topic drafted twice: two entries titled "Focus".
	if err := s.GenerateDraft(ctx); err != nil {
		t.Fatal(err)
	}
	h := s.History()
	if len(h) != 2 || h[0].Title != h[1].Title {
		t.Fatalf("history = %+v", h)
	}
	if err := s.SelectHistory(h[1].ID); err != nil {
		t.Fatal(err)
	}
	s.GenerateNotes(ctx)
	if got := s.History()[0].Notes; len(got) != 0 {
		t.Errorf("newest entry amended for an older document: %+v", got)
	}
}

func TestDraftClearsNotes(t *testing.T) {
	s, _ := draftThenNotes(t)
	ctx := context.Background()
	s.GenerateNotes(ctx)
	if len(s.Snapshot().Notes) == 0 {
		t.Fatal("expected notes")
	}
	s.GenerateDraft(ctx)
	if st := s.Snapshot(); len(st.Notes) != 0 || st.NotesStatus.Error != "" {
		t.Errorf("notes survived new draft: %+v", st.Notes)
	}
}

func TestFailedNotesKeepDocument(t *testing.T) {
	s, _ := draftThenNotes(t)
	agent := s.agent.(*fakeAgent)
	agent.InvokeFunc = func(context.Context, string, string) (Result, error) {
		return Result{}, nil
	}
	if err := s.GenerateNotes(context.Background()); err == nil {
		t.Fatal("expected failure")
	}
	st := s.Snapshot()
	if st.Document == nil || st.Document.Title != "Focus" {
		t.Errorf("document lost: %+v", st.Document)
	}
	if st.NotesStatus.Error != msgNotesFailed {
		t.Errorf("error = %q", st.NotesStatus.Error)
	}
}

// blockingAgent holds every call until release is closed.
func blockingAgent(started chan<- struct{}, release <-chan struct{}, res Result) *fakeAgent {
	return &fakeAgent{InvokeFunc: func(context.Context, string, string) (Result, error) {
		started <- struct{}{}
		<-release
		return res, nil
	}}
}

func TestRunningRejectsRetrigger(t *testing.T) {
	started := make(chan struct{}, 1)
	release := make(chan struct{})
	agent := blockingAgent(started, release, okResult(map[string]any{"title": "Slow"}))
	s := newTestSession(t, agent, nil)
	s.SetTopic("slow")

	done := make(chan error, 1)
	go func() { done <- s.GenerateDraft(context.Background()) }()
	<-started

	st := s.Snapshot()
	if !st.DraftStatus.Running() || st.ActiveAgentID != DefaultContentOrchestratorID {
		t.Errorf("expected running draft, got %+v", st)
	}
	if err := s.GenerateDraft(context.Background()); !errors.Is(err, ErrRunning) {
		t.Errorf("err = %v, want ErrRunning", err)
	}
	close(release)
	if err := <-done; err != nil {
		t.Fatal(err)
	}
	if got := s.Snapshot().Document.Title; got != "Slow" {
		t.Errorf("title = %q", got)
	}
}

func TestStaleDraftDiscardedAfterSelection(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	store.Save(ctx, []model.HistoryEntry{{ID: "old", Title: "Old", Document: model.Document{Title: "Old"}}})

	started := make(chan struct{}, 1)
	release := make(chan struct{})
	agent := blockingAgent(started, release, okResult(map[string]any{"title": "Late"}))
	s := newTestSession(t, agent, store)
	s.SetTopic("late")

	done := make(chan error, 1)
	go func() { done <- s.GenerateDraft(ctx) }()
	<-started
	if err := s.SelectHistory("old"); err != nil {
		t.Fatal(err)
	}
	close(release)
	if err := <-done; err != nil {
		t.Fatal(err)
	}

	st := s.Snapshot()
	if st.Document.Title != "Old" {
		t.Errorf("late response overwrote selection: %q", st.Document.Title)
	}
	if len(st.History) != 1 {
		t.Errorf("stale draft archived: %+v", st.History)
	}
	if st.ActiveAgentID != "" {
		t.Errorf("active agent not cleared: %q", st.ActiveAgentID)
	}
}

func TestSelectAndDeleteHistory(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	store.Save(ctx, []model.HistoryEntry{
		{ID: "b", Title: "Beta", Document: model.Document{Title: "Beta", Sections: []model.Section{{Heading: "h", Content: "c"}}}, Notes: []model.NoteExcerpt{{Content: "n"}}},
		{ID: "a", Title: "Alpha", Document: model.Document{Title: "Alpha"}},
	})
	s := newTestSession(t, &fakeAgent{}, store)

	if err := s.SelectHistory("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v", err)
	}
	if err := s.SelectHistory("b"); err != nil {
		t.Fatal(err)
	}
	st := s.Snapshot()
	if st.Topic != "Beta" || len(st.Notes) != 1 || st.Overlay.Title != "Beta" || st.CurrentHistoryID != "b" {
		t.Errorf("selection state = %+v", st)
	}

	if got := s.SearchHistory("alp"); len(got) != 1 || got[0].ID != "a" {
		t.Errorf("search = %+v", got)
	}

	s.DeleteHistory(ctx, "missing")
	if len(s.History()) != 2 {
		t.Error("deleting a missing id changed history")
	}
	s.DeleteHistory(ctx, "b")
	if st := s.Snapshot(); len(st.History) != 1 || st.CurrentHistoryID != "" {
		t.Errorf("after delete: %+v", st)
	}
	if got := store.Load(ctx); len(got) != 1 || got[0].ID != "a" {
		t.Errorf("persisted = %+v", got)
	}
}

func TestCopy(t *testing.T) {
	s := newTestSession(t, &fakeAgent{}, nil)
	if _, err := s.CopyDocument(); !errors.Is(err, ErrNoDocument) {
		t.Errorf("err = %v", err)
	}

	s.LoadSample()
	text, err := s.CopyNote(1)
	if err != nil {
		t.Fatal(err)
	}
	clip := s.clip.(*recordingClipboard)
	if text != SampleNotes()[1].Content || clip.text != text || !s.IsCopied("note-1") {
		t.Errorf("note copy: %q copied=%q", clip.text, s.CopiedID())
	}
	if _, err := s.CopyNote(99); !errors.Is(err, ErrNoNote) {
		t.Errorf("err = %v", err)
	}

	s.EditTitle("Mine")
	text, err = s.CopyDocument()
	if err != nil {
		t.Fatal(err)
	}
	if text != clip.text || !strings.HasPrefix(text, "# Mine\n\n") || !s.IsCopied(FullDocumentCopyID) || s.IsCopied("note-1") {
		t.Errorf("document copy: returned %d bytes, copied %d, id=%q", len(text), len(clip.text), s.CopiedID())
	}

	time.Sleep(150 * time.Millisecond)
	if s.CopiedID() != "" {
		t.Errorf("confirmation did not expire: %q", s.CopiedID())
	}

	clip.err = errors.New("denied")
	if _, err := s.CopyNote(0); err == nil || s.IsCopied("note-0") {
		t.Errorf("failed copy confirmed: %v", err)
	}
}

func TestCopyNoteReturnsCopiedText(t *testing.T) {
	s := newTestSession(t, &fakeAgent{}, nil)
	s.LoadSample()
	text, err := s.CopyNote(2)
	if err != nil {
		t.Fatal(err)
	}
	// Replacing the notes afterwards does not change what was copied.
	s.Reset()
	if want := SampleNotes()[2].Content; text != want {
		t.Errorf("text = %q, want %q", text, want)
	}
}

func TestLoadSampleAndReset(t *testing.T) {
	s := newTestSession(t, &fakeAgent{}, nil)
	s.LoadSample()
	st := s.Snapshot()
	if st.Topic != SampleTopic || st.Document == nil || len(st.Notes) != 4 || len(st.Ideas) != 5 {
		t.Fatalf("sample state = %+v", st)
	}
	if len(st.History) != 0 {
		t.Error("sample written to history")
	}
	s.Reset()
	st = s.Snapshot()
	if st.Document != nil || len(st.Notes) != 0 || st.Topic != "" || st.Overlay.Title != "" {
		t.Errorf("reset state = %+v", st)
	}
}

func TestSampleLLMPipeline(t *testing.T) {
	agent, err := NewLLMAgent(SampleLLM{}, DefaultAgentIDs())
	if err != nil {
		t.Fatal(err)
	}
	s := newTestSession(t, agent, nil)
	ctx := context.Background()
	s.SetTopic("Deep Focus")
	if err := s.GenerateDraft(ctx); err != nil {
		t.Fatal(err)
	}
	if got := s.Snapshot().Document.Title; got != "Deep Focus" {
		t.Errorf("title = %q", got)
	}
	if err := s.GenerateNotes(ctx); err != nil {
		t.Fatal(err)
	}
	if err := s.GenerateIdeas(ctx); err != nil {
		t.Fatal(err)
	}
	st := s.Snapshot()
	if len(st.Notes) != 4 || len(st.Ideas) != 5 || len(st.History[0].Notes) != 4 {
		t.Errorf("pipeline state: notes=%d ideas=%d archived=%d", len(st.Notes), len(st.Ideas), len(st.History[0].Notes))
	}
}
