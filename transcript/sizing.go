package transcript

import (
	"math"

	"github.com/kbukum/focusgroup/config"
)

// Sizing turns duration, pace and group size into word and token budgets.
type Sizing struct {
	FactorBase      float64
	FactorStep      float64
	FactorMax       float64
	MaxTargetWords  int
	TokensPerWord   float64
	MaxOutputTokens int
}

// SizingFrom extracts the sizing parameters of cfg.
func SizingFrom(cfg config.GenerationConfig) Sizing {
	return Sizing{
		FactorBase:      cfg.ParticipantFactorBase,
		FactorStep:      cfg.ParticipantFactorStep,
		FactorMax:       cfg.ParticipantFactorMax,
		MaxTargetWords:  cfg.MaxTargetWords,
		TokensPerWord:   cfg.TokensPerWord,
		MaxOutputTokens: cfg.MaxOutputTokens,
	}
}

// ParticipantFactor grows linearly with group size up to FactorMax.
func (s Sizing) ParticipantFactor(participants int) float64 {
	return math.Min(s.FactorBase+s.FactorStep*float64(participants), s.FactorMax)
}

// TargetWords is duration × words-per-minute × participant factor, capped
// at MaxTargetWords. It never decreases as duration or participants grow.
func (s Sizing) TargetWords(durationMinutes, wordsPerMinute, participants int) int {
	words := int(math.Round(float64(durationMinutes) * float64(wordsPerMinute) * s.ParticipantFactor(participants)))
	if s.MaxTargetWords > 0 && words > s.MaxTargetWords {
		return s.MaxTargetWords
	}
	return words
}

// OutputTokens is the token budget for targetWords, capped at MaxOutputTokens.
func (s Sizing) OutputTokens(targetWords int) int {
	tokens := int(math.Ceil(float64(targetWords) * s.TokensPerWord))
	if s.MaxOutputTokens > 0 && tokens > s.MaxOutputTokens {
		return s.MaxOutputTokens
	}
	return tokens
}
