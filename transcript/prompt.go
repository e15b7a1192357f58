package transcript

import (
	"bytes"
	"strings"
	"text/template"

	"github.com/kbukum/focusgroup/errors"
)

// Category selects topic-specific moderation guidance.
type Category string

const (
	CategoryStandard   Category = "standard"
	CategoryBusiness   Category = "business"
	CategoryConsumer   Category = "consumer"
	CategoryHealthcare Category = "healthcare"
	CategoryTechnology Category = "technology"
)

// Checked in order; the first category with a matching keyword wins.
var categoryKeywords = []struct {
	category Category
	keywords []string
}{
	{CategoryBusiness, []string{"market", "business", "strategy", "sales", "revenue", "b2b"}},
	{CategoryConsumer, []string{"consumer", "customer", "shopping", "purchase", "brand", "product"}},
	{CategoryHealthcare, []string{"health", "medical", "hospital", "doctor", "patient", "wellness"}},
	{CategoryTechnology, []string{"technology", "app", "software", "digital", "ai", "tech", "platform"}},
}

var categoryFocus = map[Category][]string{
	CategoryBusiness: {
		"Explore decision-making processes",
		"Understand ROI and cost considerations",
		"Investigate stakeholder influences",
		"Discuss implementation challenges",
		"Explore competitive landscape awareness",
	},
	CategoryConsumer: {
		"Explore emotional connections to products and brands",
		"Understand the purchase journey and touchpoints",
		"Investigate lifestyle and value influences",
		"Discuss word-of-mouth and social influences",
		"Explore unmet needs and pain points",
	},
	CategoryHealthcare: {
		"Handle sensitive topics with care",
		"Explore trust and credibility factors",
		"Understand patient and provider relationships",
		"Discuss privacy concerns",
		"Be mindful of ethical considerations",
	},
	CategoryTechnology: {
		"Explore user experience and interface preferences",
		"Understand adoption barriers and drivers",
		"Investigate feature priorities and usage patterns",
		"Discuss privacy and security concerns",
		"Consider differences in technical skill",
	},
}

// Classify picks the category of topic by whole-word keyword match.
func Classify(topic string) Category {
	words := strings.FieldsFunc(strings.ToLower(topic), func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r > 127)
	})
	for _, c := range categoryKeywords {
		for _, kw := range c.keywords {
			for _, w := range words {
				if w == kw || w == kw+"s" {
					return c.category
				}
			}
		}
	}
	return CategoryStandard
}

// Phase is one stage of the discussion with its share of the word budget.
type Phase struct {
	Name    string
	Percent int
	Words   int
	Goals   string
}

var phases = []Phase{
	{Name: "OPENING", Percent: 15, Goals: "welcome, moderator introduction, participant introductions, confidentiality and recording consent, ground rules"},
	{Name: "WARM-UP", Percent: 10, Goals: "icebreaker questions on the topic, first reactions, building rapport"},
	{Name: "CORE DISCUSSION", Percent: 65, Goals: "systematic exploration of the research questions, probing follow-ups, differing perspectives, underlying motivations"},
	{Name: "CLOSING", Percent: 10, Goals: "summary of key themes, final thoughts, thanking participants"},
}

// PhaseBudget splits targetWords across the discussion phases.
func PhaseBudget(targetWords int) []Phase {
	out := make([]Phase, len(phases))
	for i, p := range phases {
		p.Words = targetWords * p.Percent / 100
		out[i] = p
	}
	return out
}

// promptData feeds promptTemplate.
type promptData struct {
	Topic           string
	Language        string
	DialectNotes    string
	DialectHint     string
	RegionalPattern string
	Fillers         string
	Location        string
	DiscussionType  string
	AgeRange        string
	Demographics    string
	DurationMinutes int
	Participants    []Participant
	TargetWords     int
	Phases          []Phase
	Category        Category
	Focus           []string
	CulturalContext string
	Research        string
	Objective       string
}

var promptTemplate = template.Must(template.New("prompt").Funcs(template.FuncMap{
	"inc":   func(i int) int { return i + 1 },
	"upper": func(c Category) string { return strings.ToUpper(string(c)) },
}).Parse(`Write a realistic, verbatim transcript of a {{.DurationMinutes}}-minute focus group discussion.

TOPIC: {{.Topic}}
LANGUAGE: {{.Language}}
{{- if .DiscussionType}}
DISCUSSION TYPE: {{.DiscussionType}}
{{- end}}
{{- if .Location}}
LOCATION: {{.Location}}
{{- end}}

LANGUAGE AND DIALECT:
- {{.DialectNotes}}
{{- if .DialectHint}}
- Dialect preference: {{.DialectHint}}
{{- end}}
- Regional speech patterns: {{.RegionalPattern}}
{{- if .Fillers}}
- Use natural fillers and hesitations such as: {{.Fillers}}
{{- end}}

PARTICIPANTS ({{len .Participants}}):
{{- range .Participants}}
- {{.Label}}: {{.Name}}, {{.Age}}, {{.Gender}}, {{.Background}}
{{- end}}
{{- if .AgeRange}}
Age range: {{.AgeRange}}
{{- end}}
{{- if .Demographics}}
Profile: {{.Demographics}}
{{- end}}

LENGTH: about {{.TargetWords}} words in total.

STRUCTURE:
{{- range $i, $p := .Phases}}
{{inc $i}}. {{$p.Name}} ({{$p.Percent}}%, about {{$p.Words}} words): {{$p.Goals}}
{{- end}}
{{- if .Focus}}

{{upper .Category}} FOCUS:
{{- range .Focus}}
- {{.}}
{{- end}}
{{- end}}

CULTURAL CONTEXT:
{{.CulturalContext}}

RESEARCH INSIGHTS:
{{- if .Research}}
{{.Research}}
- Work these insights naturally into participant responses.
{{- else}}
Reflect current market conditions and consumer behavior around "{{.Topic}}"{{if .Location}} in {{.Location}}{{end}}.
{{- end}}
{{- if .Objective}}

STUDY OBJECTIVE:
{{.Objective}}
{{- end}}

FORMAT RULES:
- Every line of dialogue starts with a speaker label followed by a colon.
- Use exactly "Moderator:" for the moderator and "Participant N:" for participants, N from 1 to {{len .Participants}}.
- You may prefix a line with a timestamp in the form [MM:SS].
- Do not add headings, commentary, or any text outside the dialogue.
`))

func renderPrompt(d promptData) (string, error) {
	var buf bytes.Buffer
	if err := promptTemplate.Execute(&buf, d); err != nil {
		return "", errors.Internal(err)
	}
	return buf.String(), nil
}
