package transcript

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const notSpecified = "Not specified"

// Header renders the study header for t. It reads only transcript
// metadata, so the same transcript always yields the same header.
func Header(t *Transcript) string {
	m := t.meta
	female, male, nonBinary := genderCounts(m.Participants)
	p := message.NewPrinter(language.English)

	var b strings.Builder
	b.WriteString("FOCUS GROUP DISCUSSION TRANSCRIPT\n\n")
	b.WriteString("Study Information:\n")
	p.Fprintf(&b, "- Topic: %s\n", m.Topic)
	p.Fprintf(&b, "- Date: %s\n", m.GeneratedAt.UTC().Format("January 2, 2006"))
	p.Fprintf(&b, "- Duration: %d minutes\n", m.DurationMinutes)
	p.Fprintf(&b, "- Location: %s\n", orNotSpecified(m.Location))
	p.Fprintf(&b, "- Type: %s\n", strings.ToUpper(orNotSpecified(m.DiscussionType)))
	p.Fprintf(&b, "- Language: %s\n", m.Language)
	p.Fprintf(&b, "- Provider: %s (%s)\n\n", m.Provider, m.Model)
	b.WriteString("Participant Demographics:\n")
	p.Fprintf(&b, "- Total Participants: %d\n", len(m.Participants))
	p.Fprintf(&b, "- Gender Distribution: %dM, %dF, %dNB\n", male, female, nonBinary)
	p.Fprintf(&b, "- Age Range: %s\n", orNotSpecified(m.AgeRange))
	p.Fprintf(&b, "- Profile: %s\n\n", orNotSpecified(m.Demographics))
	b.WriteString("Study Objective:\n")
	b.WriteString(orNotSpecified(m.StudyObjective))
	b.WriteString("\n\n")
	p.Fprintf(&b, "Expected Word Count: ~%d words\n", m.TargetWords)
	b.WriteString("Transcript Status: Generated using AI simulation\n\n")
	b.WriteString(strings.Repeat("=", 80))
	return b.String()
}

func orNotSpecified(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return notSpecified
	}
	return s
}
