package generator

import (
	"context"
	"errors"
	"fmt"
)

// Default agent identifiers of the hosted agents.
const (
	DefaultContentOrchestratorID = "6998e65de1522e8a48d1d296"
	DefaultNotesCreatorID        = "6998e66b6b8b4ea65c49291e"
)

// AgentIDs are the configured identifiers of the two external agents.
type AgentIDs struct {
	ContentOrchestrator string `json:"content_orchestrator"`
	NotesCreator        string `json:"notes_creator"`
}

// DefaultAgentIDs returns the built-in identifiers.
func DefaultAgentIDs() AgentIDs {
	return AgentIDs{ContentOrchestrator: DefaultContentOrchestratorID, NotesCreator: DefaultNotesCreatorID}
}

// Role is what an agent id is used for.
type Role string

const (
	RoleOrchestrator Role = "content_orchestrator"
	RoleNotes        Role = "notes_creator"
)

// Role maps an agent id to its role.
func (ids AgentIDs) Role(agentID string) (Role, bool) {
	switch agentID {
	case ids.ContentOrchestrator:
		return RoleOrchestrator, true
	case ids.NotesCreator:
		return RoleNotes, true
	}
	return "", false
}

// AgentInfo describes an agent for status displays.
type AgentInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

// Roster lists both agents in display order.
func (ids AgentIDs) Roster() []AgentInfo {
	return []AgentInfo{
		{ID: ids.ContentOrchestrator, Name: "Content Orchestrator", Role: "Coordinates article generation (manages Research, Drafting, SEO sub-agents)"},
		{ID: ids.NotesCreator, Name: "Notes Creator", Role: "Generates promotional Substack Notes from articles"},
	}
}

// Response is the body of a successful agent call.
type Response struct {
	Result  any    `json:"result,omitempty"`
	Message string `json:"message,omitempty"`
}

// Result is what an agent call reports. A returned Go error is a transport
// fault; Success=false is a remote failure.
type Result struct {
	Success  bool      `json:"success"`
	Response *Response `json:"response,omitempty"`
	Error    string    `json:"error,omitempty"`
}

// payload returns the loosely typed result, or nil.
func (r Result) payload() any {
	if r.Response == nil {
		return nil
	}
	return r.Response.Result
}

// failureMessage picks error, then response message, then fallback.
func (r Result) failureMessage(fallback string) string {
	if r.Error != "" {
		return r.Error
	}
	if r.Response != nil && r.Response.Message != "" {
		return r.Response.Message
	}
	return fallback
}

// Agent is the external generation interface.
type Agent interface {
	Invoke(ctx context.Context, instruction, agentID string) (Result, error)
}

// LLMAgent serves both agent roles from one LLM client.
type LLMAgent struct {
	llm    LLMClient
	agents AgentIDs
}

// NewLLMAgent serves both agent ids from llm. Both ids are required.
func NewLLMAgent(llm LLMClient, agents AgentIDs) (*LLMAgent, error) {
	if llm == nil {
		return nil, errors.New("llm client is required")
	}
	if agents.ContentOrchestrator == "" || agents.NotesCreator == "" {
		return nil, errors.New("both agent ids are required")
	}
	return &LLMAgent{llm: llm, agents: agents}, nil
}

// Invoke builds the role prompt for agentID and decodes the completion.
func (a *LLMAgent) Invoke(ctx context.Context, instruction, agentID string) (Result, error) {
	role, ok := a.agents.Role(agentID)
	if !ok {
		return Result{Error: fmt.Sprintf("unknown agent %s", agentID)}, nil
	}
	raw, err := a.llm.Complete(ctx, BuildPrompt(role, instruction))
	if err != nil {
		return Result{}, err
	}
	return Decode(raw), nil
}
