package model

// Tuning option values offered to the operator.
var (
	Tones     = []string{"Informative", "Conversational", "Persuasive"}
	Audiences = []string{"General", "Tech", "Business", "Creative", "Health", "Finance"}
	Lengths   = []string{"Short (~800 words)", "Standard (~1500 words)", "Long-form (~2500+ words)"}
)

// Options are the draft tuning knobs embedded in the draft instruction.
type Options struct {
	Tone     string `json:"tone"`
	Audience string `json:"audience"`
	Length   string `json:"length"`
}

// DefaultOptions returns the initial tuning selection.
func DefaultOptions() Options {
	return Options{Tone: "Informative", Audience: "General", Length: "Standard (~1500 words)"}
}

// WithDefaults fills empty fields from DefaultOptions.
// Values are not checked against the offered lists; the agent receives them verbatim.
func (o Options) WithDefaults() Options {
	d := DefaultOptions()
	if o.Tone == "" {
		o.Tone = d.Tone
	}
	if o.Audience == "" {
		o.Audience = d.Audience
	}
	if o.Length == "" {
		o.Length = d.Length
	}
	return o
}
