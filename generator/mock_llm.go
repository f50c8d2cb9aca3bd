package generator

import (
	"context"
	"encoding/json"
	"strings"
)

// SampleLLM answers every prompt with the built-in sample data, so the whole
// pipeline runs offline. Draft requests get the sample article retitled to
// the requested topic.
type SampleLLM struct{}

func (SampleLLM) Complete(_ context.Context, prompt Prompt) (string, error) {
	var v any
	switch {
	case prompt.Role == RoleNotes:
		v = map[string]any{"notes": SampleNotes()}
	case prompt.User == IdeasInstruction:
		v = map[string]any{"topic_suggestions": SampleSuggestions()}
	default:
		doc := SampleDocument()
		if topic := draftTopic(prompt.User); topic != "" {
			doc.Title = topic
		}
		v = doc
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// draftTopic recovers the topic from a DraftInstruction.
func draftTopic(instruction string) string {
	const prefix = "Write a comprehensive newsletter article about: "
	if !strings.HasPrefix(instruction, prefix) {
		return ""
	}
	line, _, _ := strings.Cut(strings.TrimPrefix(instruction, prefix), "\n")
	return strings.TrimSuffix(line, ".")
}
