package profile

import (
	_ "embed"
	"fmt"
	"os"
	"slices"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kbukum/focusgroup/config"
	"github.com/kbukum/focusgroup/errors"
	"github.com/kbukum/focusgroup/logger"
)

//go:embed profiles.yaml
var embedded []byte

// Store is the read-only profile table. It is safe for concurrent use.
type Store struct {
	profiles     map[string]Profile
	languages    []string
	regions      []Region
	defaultNames NamePool
	cities       []city
	research     []Insight
}

// Option configures Load.
type Option func(*loadOptions)

type loadOptions struct {
	file string
	log  *logger.Logger
}

// WithFile loads profiles from path instead of the embedded table.
func WithFile(path string) Option {
	return func(o *loadOptions) { o.file = path }
}

// WithLogger sets the logger used while loading.
func WithLogger(log *logger.Logger) Option {
	return func(o *loadOptions) { o.log = log }
}

// Load reads and validates the profile table.
func Load(opts ...Option) (*Store, error) {
	o := loadOptions{log: logger.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	log := o.log.WithComponent("profile")

	data, source := embedded, "embedded"
	if o.file != "" {
		b, err := os.ReadFile(o.file)
		if err != nil {
			return nil, fmt.Errorf("profile: read %s: %w", o.file, err)
		}
		data, source = b, o.file
	}

	s, err := Parse(data)
	if err != nil {
		return nil, err
	}
	log.Info("profiles loaded", logger.Fields("source", source, "languages", len(s.languages)))
	return s, nil
}

// Parse builds a Store from YAML.
func Parse(data []byte) (*Store, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("profile: decode: %w", err)
	}
	if err := doc.validate(); err != nil {
		return nil, err
	}

	s := &Store{
		profiles: make(map[string]Profile, len(doc.Languages)),
		regions:  doc.Regions,
		cities:   doc.Cities,
		research: doc.Research,
	}
	for _, p := range doc.Languages {
		s.profiles[key(p.Language)] = p
		s.languages = append(s.languages, p.Language)
	}
	sort.Strings(s.languages)
	for _, r := range doc.Regions {
		if r.ID == doc.DefaultNames {
			s.defaultNames = r.Names
		}
	}
	return s, nil
}

func (d *document) validate() error {
	if len(d.Languages) == 0 {
		return fmt.Errorf("profile: no languages defined")
	}
	seen := make(map[string]bool, len(d.Languages))
	for _, p := range d.Languages {
		k := key(p.Language)
		switch {
		case k == "":
			return fmt.Errorf("profile: language name is required")
		case seen[k]:
			return fmt.Errorf("profile: duplicate language %q", p.Language)
		case !knownProvider(p.RecommendedProvider):
			return fmt.Errorf("profile: %s: unknown recommended provider %q", p.Language, p.RecommendedProvider)
		case p.FallbackProvider != "" && !knownProvider(p.FallbackProvider):
			return fmt.Errorf("profile: %s: unknown fallback provider %q", p.Language, p.FallbackProvider)
		case p.WordsPerMinute <= 0:
			return fmt.Errorf("profile: %s: words_per_minute must be positive", p.Language)
		}
		seen[k] = true
	}
	regionIDs := make(map[string]bool, len(d.Regions)+1)
	for _, r := range d.Regions {
		regionIDs[r.ID] = true
	}
	if d.DefaultNames != "" && !regionIDs[d.DefaultNames] {
		return fmt.Errorf("profile: default_names references unknown region %q", d.DefaultNames)
	}
	regionIDs[GlobalInsight] = true
	for _, in := range d.Research {
		if strings.TrimSpace(in.Topic) == "" || len(in.Match) == 0 {
			return fmt.Errorf("profile: research entries need a topic and match phrases")
		}
		if len(in.Regions) == 0 {
			return fmt.Errorf("profile: research %q has no notes", in.Topic)
		}
		for id := range in.Regions {
			if !regionIDs[id] {
				return fmt.Errorf("profile: research %q references unknown region %q", in.Topic, id)
			}
		}
	}
	return nil
}

// Lookup returns the profile for language, matched case-insensitively.
func (s *Store) Lookup(language string) (Profile, error) {
	p, ok := s.profiles[key(language)]
	if !ok {
		return Profile{}, errors.NotFound("language profile", language)
	}
	return p.clone(), nil
}

// Has reports whether language has a profile.
func (s *Store) Has(language string) bool {
	_, ok := s.profiles[key(language)]
	return ok
}

// Languages lists the supported languages in sorted order.
func (s *Store) Languages() []string {
	return append([]string(nil), s.languages...)
}

// Region returns the region whose match list names a word of location.
func (s *Store) Region(location string) (Region, bool) {
	words := normalize(location)
	for _, r := range s.regions {
		for _, m := range r.Match {
			if containsPhrase(words, m) {
				return r, true
			}
		}
	}
	return Region{}, false
}

// Names returns the persona name pool for location, falling back to the
// default pool.
func (s *Store) Names(location string) NamePool {
	if r, ok := s.Region(location); ok && !r.Names.Empty() {
		return r.Names
	}
	return s.defaultNames
}

// RegionalPattern returns the speech-pattern notes of language for the
// region of location, or a generic instruction when none is defined.
func (s *Store) RegionalPattern(language, location string) string {
	p, ok := s.profiles[key(language)]
	if !ok {
		return ""
	}
	if r, ok := s.Region(location); ok {
		if pattern, ok := p.RegionalPatterns[r.ID]; ok {
			return strings.TrimSpace(pattern)
		}
	}
	return fmt.Sprintf("Standard %s patterns", p.Language)
}

// CulturalContext returns city notes for location, or generic guidance.
func (s *Store) CulturalContext(location string) string {
	words := normalize(location)
	for _, c := range s.cities {
		for _, name := range append([]string{c.City}, c.Aliases...) {
			if containsPhrase(words, name) {
				return strings.TrimSpace(c.Context)
			}
		}
	}
	if strings.TrimSpace(location) == "" {
		return "Consider local cultural norms, communication styles, and references."
	}
	return fmt.Sprintf("Consider local cultural norms, communication styles, and references relevant to %s.", strings.TrimSpace(location))
}

// Research returns market background for topic in location: the notes of
// the first insight whose match phrases appear in topic, for the region of
// location or else its global entry.
func (s *Store) Research(topic, location string) (string, bool) {
	words := normalize(topic)
	for _, in := range s.research {
		if !slices.ContainsFunc(in.Match, func(m string) bool { return containsPhrase(words, m) }) {
			continue
		}
		if r, ok := s.Region(location); ok {
			if notes, ok := in.Regions[r.ID]; ok {
				return strings.TrimSpace(notes), true
			}
		}
		if notes, ok := in.Regions[GlobalInsight]; ok {
			return strings.TrimSpace(notes), true
		}
		return "", false
	}
	return "", false
}

func key(language string) string {
	return strings.ToLower(strings.TrimSpace(language))
}

func knownProvider(id string) bool {
	return slices.Contains(config.ProviderIDs, id)
}

// normalize lowercases s and reduces it to space-separated words, padded so
// whole-phrase matches can use strings.Contains.
func normalize(s string) string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !(r == '\'' || r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r > 127)
	})
	return " " + strings.Join(fields, " ") + " "
}

func containsPhrase(words, phrase string) bool {
	return strings.Contains(words, normalize(phrase))
}
