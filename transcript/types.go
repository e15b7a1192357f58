package transcript

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ModeratorLabel is the speaker label of the discussion moderator.
const ModeratorLabel = "Moderator"

// Request describes one focus group to synthesize.
type Request struct {
	Topic            string `json:"topic" validate:"required,max=500"`
	Language         string `json:"target_language" validate:"required,max=64"`
	DialectHint      string `json:"dialect_hint,omitempty" validate:"max=500"`
	ParticipantCount int    `json:"participant_count" validate:"min=1,max=20"`
	DurationMinutes  int    `json:"duration_minutes" validate:"gt=0,max=480"`
	// Provider pins the vendor. Empty means the language's recommendation.
	Provider string `json:"provider,omitempty" validate:"omitempty,oneof=openai anthropic google cohere mistral"`
	// Model overrides the provider's default model.
	Model string `json:"model,omitempty" validate:"max=128"`
	// StudyObjective is supplementary text, usually extracted from an upload.
	StudyObjective string `json:"study_objective_text,omitempty"`
	Location       string `json:"location,omitempty" validate:"max=200"`
	DiscussionType string `json:"discussion_type,omitempty" validate:"max=64"`
	AgeRange       string `json:"age_range,omitempty" validate:"max=32"`
	Demographics   string `json:"demographics,omitempty" validate:"max=1000"`
	// Gender, when set, must account for every participant.
	Gender GenderMix `json:"gender_mix,omitzero"`
	// Prompt replaces the rendered prompt, typically an edited copy of
	// Generator.Prompt.
	Prompt string `json:"prompt,omitempty" validate:"max=200000"`
}

// GenderMix counts participants per gender. The zero value alternates
// female and male.
type GenderMix struct {
	Male      int `json:"male" validate:"min=0,max=20"`
	Female    int `json:"female" validate:"min=0,max=20"`
	NonBinary int `json:"non_binary" validate:"min=0,max=20"`
}

// Total returns the number of participants the mix describes.
func (m GenderMix) Total() int { return m.Male + m.Female + m.NonBinary }

// IsZero reports whether no counts were given.
func (m GenderMix) IsZero() bool { return m == GenderMix{} }

// Gender values recorded on participants.
const (
	GenderFemale    = "female"
	GenderMale      = "male"
	GenderNonBinary = "non-binary"
)

// Participant is one persona in the group.
type Participant struct {
	Label      string `json:"label"`
	Name       string `json:"name"`
	Gender     string `json:"gender"`
	Age        int    `json:"age"`
	Background string `json:"background"`
}

// Turn is one utterance. Timestamp is meaningful only when HasTimestamp is set.
type Turn struct {
	Speaker      string        `json:"speaker"`
	Text         string        `json:"text"`
	Timestamp    time.Duration `json:"timestamp,omitempty"`
	HasTimestamp bool          `json:"has_timestamp"`
}

// IsModerator reports whether the turn belongs to the moderator.
func (t Turn) IsModerator() bool {
	return strings.EqualFold(t.Speaker, ModeratorLabel)
}

// String renders the turn as a transcript line, "[MM:SS] Speaker: text".
// Parse reads these lines back.
func (t Turn) String() string {
	line := t.Speaker + ": " + t.Text
	if t.HasTimestamp {
		return "[" + FormatTimestamp(t.Timestamp) + "] " + line
	}
	return line
}

// FormatTimestamp renders d as MM:SS. Minutes are not wrapped into hours.
func FormatTimestamp(d time.Duration) string {
	secs := int(d / time.Second)
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}

// Metadata describes how a transcript was produced.
type Metadata struct {
	ID              uuid.UUID     `json:"id"`
	Topic           string        `json:"topic"`
	Language        string        `json:"language"`
	Location        string        `json:"location,omitempty"`
	DiscussionType  string        `json:"discussion_type,omitempty"`
	AgeRange        string        `json:"age_range,omitempty"`
	Demographics    string        `json:"demographics,omitempty"`
	StudyObjective  string        `json:"study_objective,omitempty"`
	DurationMinutes int           `json:"duration_minutes"`
	Provider        string        `json:"provider"`
	Model           string        `json:"model"`
	FallbackFrom    string        `json:"fallback_from,omitempty"`
	TargetWords     int           `json:"target_words"`
	GeneratedAt     time.Time     `json:"generated_at"`
	Participants    []Participant `json:"participants"`
}

// Transcript is an immutable, ordered sequence of turns.
type Transcript struct {
	meta  Metadata
	turns []Turn
}

// New builds a Transcript from copies of meta and turns.
func New(meta Metadata, turns []Turn) *Transcript {
	meta.Participants = slices.Clone(meta.Participants)
	return &Transcript{meta: meta, turns: slices.Clone(turns)}
}

// ID returns the transcript identifier.
func (t *Transcript) ID() uuid.UUID { return t.meta.ID }

// Meta returns a copy of the metadata.
func (t *Transcript) Meta() Metadata {
	m := t.meta
	m.Participants = slices.Clone(m.Participants)
	return m
}

// Turns returns a copy of all turns in order.
func (t *Transcript) Turns() []Turn { return slices.Clone(t.turns) }

// Len returns the number of turns.
func (t *Transcript) Len() int { return len(t.turns) }

// ModeratorTurns returns the moderator's turns in order.
func (t *Transcript) ModeratorTurns() []Turn {
	return t.filter(func(turn Turn) bool { return turn.IsModerator() })
}

// ParticipantTurns returns every non-moderator turn in order.
func (t *Transcript) ParticipantTurns() []Turn {
	return t.filter(func(turn Turn) bool { return !turn.IsModerator() })
}

func (t *Transcript) filter(keep func(Turn) bool) []Turn {
	var out []Turn
	for _, turn := range t.turns {
		if keep(turn) {
			out = append(out, turn)
		}
	}
	return out
}

// Lines renders every turn with Turn.String.
func (t *Transcript) Lines() []string {
	lines := make([]string, len(t.turns))
	for i, turn := range t.turns {
		lines[i] = turn.String()
	}
	return lines
}

// WordCount counts whitespace-separated words across all turn texts.
func (t *Transcript) WordCount() int {
	n := 0
	for _, turn := range t.turns {
		n += len(strings.Fields(turn.Text))
	}
	return n
}
