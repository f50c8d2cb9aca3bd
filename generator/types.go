package generator

import (
	"errors"
	"fmt"
)

// Op names one of the three independent generation operations.
type Op string

const (
	OpDraft Op = "draft"
	OpIdeas Op = "ideas"
	OpNotes Op = "notes"
)

// Phase is the lifecycle position of an operation.
type Phase string

const (
	Idle      Phase = "idle"
	Running   Phase = "running"
	Succeeded Phase = "succeeded"
	Failed    Phase = "failed"
)

// OpStatus is the per-operation state. Error is set only when Phase is Failed.
// Token increases on every start and on every invalidation; a completion
// carrying an older token is stale.
type OpStatus struct {
	Phase Phase  `json:"phase"`
	Error string `json:"error,omitempty"`
	Token uint64 `json:"-"`
}

// Running reports whether a call is in flight.
func (s OpStatus) Running() bool { return s.Phase == Running }

// Precondition rejections. UIs ignore these; they never reach OpStatus.
var (
	ErrEmptyTopic = errors.New("topic is empty")
	ErrRunning    = errors.New("operation already running")
	ErrNoDocument = errors.New("no document to excerpt")
	ErrNotFound   = errors.New("history entry not found")
	ErrNoSection  = errors.New("section index out of range")
	ErrNoNote     = errors.New("note index out of range")
)

// OpError is returned by a Session when an operation ends Failed.
type OpError struct {
	Op      Op
	Message string
}

func (e *OpError) Error() string {
	return fmt.Sprintf("%s failed: %s", e.Op, e.Message)
}

// Failure messages used when the agent gives no usable reason.
const (
	msgDraftFailed = "Failed to generate article. Please try again."
	msgIdeasFailed = "Failed to generate ideas."
	msgNotesFailed = "Failed to generate notes."
	msgNoIdeas     = "No suggestions were returned. Try again."
	msgUnexpected  = "An unexpected error occurred."
)

// NoteCopyID is the feedback id used when note i is copied.
func NoteCopyID(i int) string { return fmt.Sprintf("note-%d", i) }

// FullDocumentCopyID is the feedback id used when the whole document is copied.
const FullDocumentCopyID = "full-article"
