package profile

import (
	"maps"
	"slices"
)

// Profile holds the generation parameters for one language.
type Profile struct {
	Language            string            `yaml:"language" json:"language"`
	RecommendedProvider string            `yaml:"recommended_provider" json:"recommended_provider"`
	FallbackProvider    string            `yaml:"fallback_provider" json:"fallback_provider"`
	DialectNotes        string            `yaml:"dialect_notes" json:"dialect_notes"`
	WordsPerMinute      int               `yaml:"words_per_minute" json:"words_per_minute"`
	Fillers             []string          `yaml:"fillers" json:"fillers"`
	RegionalPatterns    map[string]string `yaml:"regional_patterns" json:"regional_patterns,omitempty"`
}

func (p Profile) clone() Profile {
	p.Fillers = slices.Clone(p.Fillers)
	p.RegionalPatterns = maps.Clone(p.RegionalPatterns)
	return p
}

// NamePool supplies persona names for a region.
type NamePool struct {
	Male     []string `yaml:"male"`
	Female   []string `yaml:"female"`
	Surnames []string `yaml:"surnames"`
}

// Empty reports whether the pool cannot produce a full name.
func (n NamePool) Empty() bool {
	return len(n.Surnames) == 0 || len(n.Male)+len(n.Female) == 0
}

// Region groups locations that share speech patterns, names and cultural
// markers.
type Region struct {
	ID              string   `yaml:"id"`
	Match           []string `yaml:"match"`
	CulturalMarkers []string `yaml:"cultural_markers"`
	Names           NamePool `yaml:"names"`
}

// Insight holds market background for a topic, keyed by region ID. The
// "global" entry applies when no region entry matches.
type Insight struct {
	Topic   string            `yaml:"topic"`
	Match   []string          `yaml:"match"`
	Regions map[string]string `yaml:"regions"`
}

// GlobalInsight keys the region-independent entry of an Insight.
const GlobalInsight = "global"

type city struct {
	City    string   `yaml:"city"`
	Aliases []string `yaml:"aliases"`
	Context string   `yaml:"context"`
}

type document struct {
	Languages    []Profile `yaml:"languages"`
	Regions      []Region  `yaml:"regions"`
	DefaultNames string    `yaml:"default_names"`
	Cities       []city    `yaml:"cities"`
	Research     []Insight `yaml:"research"`
}
