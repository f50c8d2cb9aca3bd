package generator

import "substack_studio/model"

// SampleTopic is the topic shown alongside the sample document.
const SampleTopic = "The Hidden Economics of Attention"

// SampleDocument returns a fresh copy of the built-in sample article.
func SampleDocument() model.Document {
	return model.Document{
		Title:           "The Hidden Economics of Attention: Why Your Focus Is the New Currency",
		Subtitle:        "How the attention economy reshapes productivity, creativity, and the way we build careers in 2025",
		MetaDescription: "Explore how the attention economy affects productivity, creativity, and career growth. Learn strategies to reclaim your focus in an age of constant distraction.",
		Body:            "In an era where every notification competes for your awareness, understanding the economics of attention has never been more critical...",
		Sections: []model.Section{
			{
				Heading: "The Attention Deficit",
				Content: "The average knowledge worker checks email 74 times per day and switches tasks every 3 minutes. This constant context-switching costs the global economy an estimated $450 billion annually in lost productivity. But the real cost is not just economic -- it is deeply personal.\n\nWhen we fragment our attention, we lose the capacity for deep work, the kind of sustained focus that produces breakthrough ideas, meaningful writing, and genuine innovation.",
			},
			{
				Heading: "From Information Economy to Attention Economy",
				Content: "Herbert Simon first noted in 1971 that \"a wealth of information creates a poverty of attention.\" Five decades later, his observation has become the defining challenge of our era.\n\nThe shift from an information economy to an attention economy fundamentally changes the rules of value creation. In the old paradigm, those who could access and process information held power. In the new paradigm, those who can sustain and direct attention are the ones who thrive.",
			},
			{
				Heading: "Reclaiming Your Focus: A Practical Framework",
				Content: "**1. Audit your attention budget.** Track how you spend your attention for one week. You will be surprised where it goes.\n\n**2. Create attention rituals.** Designate specific times for deep work, and protect them fiercely.\n\n**3. Design your environment.** Remove friction from focus and add friction to distraction.\n\n**4. Practice deliberate recovery.** Rest is not the absence of work -- it is the active restoration of attention capacity.",
			},
			{
				Heading: "The Future of Attention",
				Content: "As AI handles more routine cognitive tasks, the premium on human attention will only increase. The ability to focus deeply, think creatively, and engage meaningfully will become the ultimate competitive advantage.\n\nThe question is not whether you can afford to invest in your attention. It is whether you can afford not to.",
			},
		},
		Keywords: []string{"attention economy", "deep work", "productivity", "focus strategies", "knowledge worker", "digital distraction", "career growth"},
		Sources: []string{
			`Herbert Simon, "Designing Organizations for an Information-Rich World" (1971)`,
			`Cal Newport, "Deep Work: Rules for Focused Success in a Distracted World" (2016)`,
			`Gloria Mark, "Attention Span: A Groundbreaking Way to Restore Balance" (2023)`,
			`McKinsey Global Institute, "The Social Economy" Report (2024)`,
		},
		IdeaSuggestions: []string{},
	}
}

// SampleNotes returns the built-in sample excerpts.
func SampleNotes() []model.NoteExcerpt {
	return []model.NoteExcerpt{
		{
			Content:        "I tracked my attention for 7 days straight last March.\n\nThe results gutted me: 73 email checks per day. 147 app switches. 11 minutes was my longest unbroken focus block.\n\nI was a productivity writer who could not focus for 12 minutes.\n\nThat spreadsheet became the outline for everything I write about attention now. The data that embarrassed me turned into the thesis that changed my career.",
			CharacterCount: 374,
			HookType:       "confession",
		},
		{
			Content:        "Everyone says \"just turn off notifications.\" I did that for 6 months. My deep work time increased by exactly 4 minutes per day.\n\nThe real lever was redesigning my physical environment -- moving my phone charger to another room added 47 minutes of focus daily.\n\nThe $450 billion attention crisis is not a software problem. It is an architecture problem.",
			CharacterCount: 351,
			HookType:       "comparison_flip",
		},
		{
			Content:        "3:47 AM, a Tuesday in November. I was rewriting the same paragraph for the ninth time.\n\nHerbert Simon wrote about this exact moment in 1971 -- the paradox of drowning in information while starving for attention. Fifty-three years later, I was living proof.\n\nI closed every tab. Opened a blank document. Wrote 2,200 words in 94 minutes.\n\nThe article that came from that night has been read 31,000 times. The secret was not discipline. It was desperation.",
			CharacterCount: 448,
			HookType:       "moment_story",
		},
		{
			Content:        "Context-switching costs the global economy $450 billion annually. That number comes from a McKinsey study most people cite but few actually read.\n\nThe buried finding: 68% of that cost hits individual creators and knowledge workers, not corporations. The attention tax falls hardest on the people least able to afford it.",
			CharacterCount: 318,
			HookType:       "data_truth",
		},
	}
}

// SampleSuggestions returns the built-in topic ideas.
func SampleSuggestions() []string {
	return []string{
		"The Psychology of Pricing: Why We Pay More for Less",
		"Remote Work 3.0: The Hybrid Model Is Already Dead",
		"Why the Best Founders Are Terrible at Multitasking",
		"The Loneliness Epidemic Among Digital Creators",
		"From Side Hustle to Exit: 5 Lessons Nobody Talks About",
	}
}
