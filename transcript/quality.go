package transcript

import (
	"strings"
	"unicode"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Check names reported by Assess, in report order.
const (
	CheckModerator    = "has_moderator"
	CheckParticipants = "has_participants"
	CheckTimestamps   = "has_timestamps"
	CheckOpening      = "has_opening"
	CheckClosing      = "has_closing"
	CheckLength       = "appropriate_length"
	CheckNaturalFlow  = "natural_flow"
	CheckCultural     = "cultural_references"
)

const edgeWindow = 500

var (
	openingKeywords = []string{"welcome", "introduction", "introduce", "begin", "start", "good morning", "good afternoon", "good evening"}
	closingKeywords = []string{"thank you", "thanks", "conclude", "wrap up", "final thoughts", "end"}
	speechMarkers   = []string{"um", "umm", "uh", "you know", "like", "actually", "i think", "well", "i mean"}
)

var recommendations = map[string]string{
	CheckModerator:    "Add moderator dialogue to guide the discussion",
	CheckParticipants: "Include more participant responses and interactions",
	CheckTimestamps:   "Add timestamps to show discussion progression",
	CheckOpening:      "Include a proper opening with introductions and ground rules",
	CheckClosing:      "Add a closing section with summary and thanks",
	CheckLength:       "Adjust transcript length to match expected duration",
	CheckNaturalFlow:  "Add more natural speech patterns and hesitations",
	CheckCultural:     "Include more location-specific cultural references",
}

// Check is one named quality criterion.
type Check struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
}

// QualityReport scores a transcript against eight structural checks.
type QualityReport struct {
	Score           float64  `json:"score"`
	Passed          int      `json:"passed"`
	Total           int      `json:"total"`
	Checks          []Check  `json:"checks"`
	WordCount       int      `json:"word_count"`
	ExpectedWords   int      `json:"expected_words"`
	Recommendations []string `json:"recommendations,omitempty"`
}

// Check reports the result of the named check; ok is false for an unknown name.
func (r QualityReport) Check(name string) (passed, ok bool) {
	for _, c := range r.Checks {
		if c.Name == name {
			return c.Passed, true
		}
	}
	return false, false
}

// Cues are the language- and region-specific markers Assess looks for.
// An empty CulturalMarkers list passes the cultural check.
type Cues struct {
	Fillers         []string
	CulturalMarkers []string
}

// Assess scores t against its target word count.
func Assess(t *Transcript, cues Cues) QualityReport {
	text := strings.ToLower(strings.Join(t.Lines(), "\n"))
	runes := []rune(text)
	head, tail := runes, runes
	if len(runes) > edgeWindow {
		head, tail = runes[:edgeWindow], runes[len(runes)-edgeWindow:]
	}
	words := t.WordCount()
	expected := t.meta.TargetWords

	timestamps := 0
	for _, turn := range t.turns {
		if turn.HasTimestamp {
			timestamps++
		}
	}

	ratio := 1.0
	if expected > 0 {
		ratio = float64(words) / float64(expected)
	}

	cultural := len(cues.CulturalMarkers) == 0 || containsAny(text, cues.CulturalMarkers)

	checks := []Check{
		{CheckModerator, len(t.ModeratorTurns()) > 0},
		{CheckParticipants, len(t.ParticipantTurns()) > 0},
		{CheckTimestamps, timestamps > 2},
		{CheckOpening, containsAny(string(head), openingKeywords)},
		{CheckClosing, containsAny(string(tail), closingKeywords)},
		{CheckLength, ratio >= 0.7 && ratio <= 1.3},
		{CheckNaturalFlow, containsAny(text, speechMarkers) || containsAny(text, cues.Fillers)},
		{CheckCultural, cultural},
	}

	r := QualityReport{Total: len(checks), Checks: checks, WordCount: words, ExpectedWords: expected}
	for _, c := range checks {
		if c.Passed {
			r.Passed++
		} else {
			r.Recommendations = append(r.Recommendations, recommendations[c.Name])
		}
	}
	r.Score = float64(r.Passed) / float64(r.Total)
	return r
}

// DeviationNote describes a transcript whose length is below 80% or above
// 120% of the expected word count, and is empty otherwise.
func DeviationNote(actual, expected int) string {
	if expected <= 0 {
		return ""
	}
	ratio := float64(actual) / float64(expected)
	p := message.NewPrinter(language.English)
	switch {
	case ratio < 0.8:
		return p.Sprintf("Transcript may be shorter than expected. Actual words: ~%d, Expected: ~%d", actual, expected)
	case ratio > 1.2:
		return p.Sprintf("Transcript may be longer than expected. Actual words: ~%d, Expected: ~%d", actual, expected)
	}
	return ""
}

// containsAny reports whether any phrase occurs in text as whole words.
func containsAny(text string, phrases []string) bool {
	words := wordString(text)
	for _, p := range phrases {
		if p = wordString(p); p != "  " && strings.Contains(words, p) {
			return true
		}
	}
	return false
}

// wordString lowercases s into space-separated words padded with spaces.
func wordString(s string) string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !(unicode.IsLetter(r) || unicode.IsMark(r) || unicode.IsDigit(r) || r == '\'')
	})
	return " " + strings.Join(fields, " ") + " "
}
