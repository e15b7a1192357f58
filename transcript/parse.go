package transcript

import (
	"cmp"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/kbukum/focusgroup/errors"
)

const timestampPattern = `(\d{1,3}:\d{2}(?::\d{2})?)`

var (
	genericLabels  = []string{`moderator`, `participant\s*#?\s*\d{1,2}`, `p\s?\d{1,2}`}
	participantRef = regexp.MustCompile(`(?i)^(?:participant\s*#?\s*|p\s?)(\d{1,2})$`)
	timestampLine  = regexp.MustCompile(`^\s*\[` + timestampPattern + `\]\s*$`)
	ruleLine       = regexp.MustCompile(`^\s*[-=_*~]{3,}\s*$`)
	defaultLabels  = labelPattern(nil)
)

// labelPattern matches a labeled line: optional [MM:SS] or [HH:MM:SS],
// optional ** or __ emphasis, the label, an optional (note), then a colon.
// Groups: timestamp, opening emphasis, label, emphasis closed before the
// colon, remainder.
func labelPattern(aliases []string) *regexp.Regexp {
	alts := make([]string, 0, len(aliases)+len(genericLabels))
	for _, a := range aliases {
		alts = append(alts, regexp.QuoteMeta(a))
	}
	alts = append(alts, genericLabels...)
	return regexp.MustCompile(`(?i)^\s*(?:\[` + timestampPattern + `\]\s*)?(\*\*|__)?\s*(` +
		strings.Join(alts, "|") +
		`)\s*(?:\([^)]*\))?\s*(\*\*|__)?\s*:\s*(.*)$`)
}

// utterance strips the emphasis that closes a label written as
// "**Name:**". Emphasis inside the utterance is kept.
func utterance(open, closedBefore, rest string) string {
	if open != "" && closedBefore == "" && strings.HasPrefix(rest, open) {
		rest = rest[len(open):]
	}
	return strings.TrimSpace(rest)
}

// Parse splits raw model output into turns. Lines without a recognized
// label continue the previous turn; anything before the first label is
// dropped. Persona names in roster are accepted as labels, by full or first
// name. Zero recognized turns fails with MALFORMED_OUTPUT.
func Parse(raw string, roster ...Participant) ([]Turn, error) {
	pattern, canonical := rosterLabels(roster)

	var (
		turns   []Turn
		pending *time.Duration
	)
	for _, line := range strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || ruleLine.MatchString(line) {
			continue
		}

		if m := timestampLine.FindStringSubmatch(line); m != nil {
			if d, ok := parseTimestamp(m[1]); ok {
				pending = &d
			}
			continue
		}

		if m := pattern.FindStringSubmatch(line); m != nil {
			turn := Turn{Speaker: canonicalSpeaker(m[3], canonical), Text: utterance(m[2], m[4], m[5])}
			if d, ok := parseTimestamp(m[1]); ok {
				turn.Timestamp, turn.HasTimestamp = d, true
			} else if pending != nil {
				turn.Timestamp, turn.HasTimestamp = *pending, true
			}
			pending = nil
			turns = append(turns, turn)
			continue
		}

		if len(turns) == 0 {
			continue
		}
		last := &turns[len(turns)-1]
		if last.Text == "" {
			last.Text = line
		} else {
			last.Text += " " + line
		}
	}

	if len(turns) == 0 {
		return nil, errors.MalformedOutput("no recognizable speaker labels")
	}
	return turns, nil
}

// rosterLabels returns the label pattern for roster and a map from
// lowercased alias to the persona's full name.
func rosterLabels(roster []Participant) (*regexp.Regexp, map[string]string) {
	if len(roster) == 0 {
		return defaultLabels, nil
	}
	canonical := make(map[string]string, 2*len(roster))
	for _, p := range roster {
		name := strings.TrimSpace(p.Name)
		if name == "" {
			continue
		}
		canonical[strings.ToLower(name)] = name
		if first, _, ok := strings.Cut(name, " "); ok {
			if _, taken := canonical[strings.ToLower(first)]; !taken {
				canonical[strings.ToLower(first)] = name
			}
		}
	}
	aliases := make([]string, 0, len(canonical))
	for alias := range canonical {
		aliases = append(aliases, alias)
	}
	// Longest first so "Priya Sharma" wins over "Priya".
	slices.SortFunc(aliases, func(a, b string) int {
		if c := cmp.Compare(len(b), len(a)); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	})
	return labelPattern(aliases), canonical
}

func canonicalSpeaker(label string, canonical map[string]string) string {
	label = strings.Join(strings.Fields(label), " ")
	if strings.EqualFold(label, ModeratorLabel) {
		return ModeratorLabel
	}
	if m := participantRef.FindStringSubmatch(label); m != nil {
		n, _ := strconv.Atoi(m[1])
		return "Participant " + strconv.Itoa(n)
	}
	if name, ok := canonical[strings.ToLower(label)]; ok {
		return name
	}
	return label
}

// parseTimestamp reads MM:SS or HH:MM:SS.
func parseTimestamp(s string) (time.Duration, bool) {
	if s == "" {
		return 0, false
	}
	parts := strings.Split(s, ":")
	var total int
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return 0, false
		}
		total = total*60 + n
	}
	return time.Duration(total) * time.Second, true
}
