package generator

import (
	"fmt"
	"strings"

	"substack_studio/model"
)

// Prompt is the message pair sent to an LLM on behalf of an agent role.
type Prompt struct {
	Role   Role
	System string
	User   string
}

// IdeasInstruction asks the orchestrator for topic suggestions.
const IdeasInstruction = "Generate 5 creative and engaging topic ideas for a Substack newsletter. The topics should be trending, thought-provoking, and suitable for a wide newsletter audience. Return them in the topic_suggestions field."

// DraftInstruction embeds the trimmed topic and the tuning options.
func DraftInstruction(topic string, opts model.Options) string {
	return fmt.Sprintf("Write a comprehensive newsletter article about: %s.\nTone: %s. Audience: %s. Length: %s.\nAdditional context: The article should be well-structured with clear sections, engaging writing, and actionable insights.",
		topic, opts.Tone, opts.Audience, opts.Length)
}

// notesBrief is the fixed stylistic brief the notes agent is tuned against.
const notesBrief = `Transform Newsletter Content into High-Converting Substack Notes.

Take the core insights from the following article and create 3-5 Substack Notes.

ABSOLUTE PROHIBITIONS - NEVER INCLUDE:
- Rhetorical questions (ZERO TOLERANCE) - No questions whatsoever. Every sentence must be a statement or observation.
- Generic motivational endings
- Rounded numbers (use exact figures)
- "You can do it" variations
- Questions disguised as statements

Length Variety (MANDATORY) - Create a mix from: Micro (10-30 words), Short (30-80 words), Medium (80-150 words), Long (150-250 words).

Each Note must include: Specific numbers/timelines, a transformation moment (before to after state), vulnerable middle, permission-giving ending (implied, not stated directly).

Rotate between styles: The Confession, The Comparison Flip, The Moment Story, The Data Truth.

Value Formulas (choose one per Note): Validation Formula, Permission Formula, Reality Check, Timeline Truth.

Endings That Convert: Implied permission, specific hope with timeline, success reframe, vulnerable admission.

FINAL CHECK: Contains ZERO questions, all statements are declarations, numbers are specific, no generic motivation, vulnerability is specific.

`

// NotesInstruction wraps the edited title, subtitle and sections in the notes brief.
func NotesInstruction(title, subtitle string, sections []model.Section) string {
	parts := make([]string, 0, len(sections))
	for _, s := range sections {
		parts = append(parts, "## "+s.Heading+"\n"+s.Content)
	}
	full := title + "\n\n" + subtitle + "\n\n" + strings.Join(parts, "\n\n")

	var sb strings.Builder
	sb.WriteString(notesBrief)
	sb.WriteString("Article Title: ")
	sb.WriteString(title)
	sb.WriteString("\nArticle Content:\n")
	sb.WriteString(full)
	return sb.String()
}

const orchestratorSystem = `You are the Content Orchestrator of a newsletter studio. You coordinate research, drafting and SEO.
Reply with a single JSON object and nothing else. Fields:
- title (string), subtitle (string), meta_description (string), article_body (string)
- sections (array of {"heading": string, "content": string}); content may use "## ", "- ", "1. " lines and **bold**
- seo_keywords (array of strings), sources (array of strings)
- topic_suggestions (array of strings); fill it only when asked for topic ideas, otherwise return [].`

const notesSystem = `You are the Notes Creator of a newsletter studio. You turn articles into short promotional Substack Notes.
Reply with a single JSON object and nothing else:
{"notes": [{"content": string, "character_count": integer, "hook_type": string}]}
hook_type is a snake_case style tag such as "confession", "comparison_flip", "moment_story" or "data_truth".`

// BuildPrompt pairs the role's system brief with the instruction.
func BuildPrompt(role Role, instruction string) Prompt {
	system := orchestratorSystem
	if role == RoleNotes {
		system = notesSystem
	}
	return Prompt{Role: role, System: system, User: instruction}
}
