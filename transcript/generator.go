package transcript

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kbukum/focusgroup/config"
	"github.com/kbukum/focusgroup/errors"
	"github.com/kbukum/focusgroup/llm"
	"github.com/kbukum/focusgroup/logger"
	"github.com/kbukum/focusgroup/observability"
	"github.com/kbukum/focusgroup/profile"
	"github.com/kbukum/focusgroup/util"
	"github.com/kbukum/focusgroup/validation"
)

// ProviderSet resolves provider IDs to adapters. *llm.Set implements it.
type ProviderSet interface {
	Lookup(id string) (*llm.ProviderAdapter, error)
}

// Generator turns a Request into a Transcript with one provider call, plus
// at most one fallback call when the primary is throttled or times out.
type Generator struct {
	profiles  *profile.Store
	providers ProviderSet
	cfg       config.GenerationConfig
	sizing    Sizing
	log       *logger.Logger
	metrics   *observability.Metrics
	now       func() time.Time
}

// Option configures a Generator.
type Option func(*Generator)

// WithLogger sets the logger.
func WithLogger(log *logger.Logger) Option {
	return func(g *Generator) { g.log = log.WithComponent("transcript") }
}

// WithMetrics records fallbacks and transcript sizes.
func WithMetrics(m *observability.Metrics) Option {
	return func(g *Generator) { g.metrics = m }
}

// WithClock overrides the time source used for GeneratedAt.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// NewGenerator creates a Generator. cfg is expected to have defaults applied.
func NewGenerator(profiles *profile.Store, providers ProviderSet, cfg config.GenerationConfig, opts ...Option) *Generator {
	g := &Generator{
		profiles:  profiles,
		providers: providers,
		cfg:       cfg,
		sizing:    SizingFrom(cfg),
		log:       logger.Nop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Sizing returns the word and token budget parameters.
func (g *Generator) Sizing() Sizing { return g.sizing }

// Generate synthesizes a transcript for req.
func (g *Generator) Generate(ctx context.Context, req Request) (*Transcript, error) {
	ctx, span := observability.StartSpan(ctx, observability.SpanGenerate)
	defer span.End()

	t, err := g.generate(ctx, req)
	if err != nil {
		observability.SetSpanError(ctx, err)
		return nil, err
	}
	return t, nil
}

// Prompt returns the prompt Generate would send for req, so callers can
// review or edit it and pass it back as Request.Prompt.
func (g *Generator) Prompt(req Request) (string, error) {
	p, err := g.resolve(req)
	if err != nil {
		return "", err
	}
	return p.prompt, nil
}

// plan is everything resolved from a request before any provider call.
type plan struct {
	prof      profile.Profile
	target    int
	maxTokens int
	roster    []Participant
	prompt    string
}

func (g *Generator) resolve(req Request) (plan, error) {
	err := validation.New().
		Merge("request", validation.Validate(req)).
		Custom(req.Gender.IsZero() || req.Gender.Total() == req.ParticipantCount,
			"gender_mix", fmt.Sprintf("counts sum to %d, want participant_count %d", req.Gender.Total(), req.ParticipantCount)).
		Err()
	if err != nil {
		return plan{}, err
	}
	prof, err := g.profiles.Lookup(req.Language)
	if err != nil {
		return plan{}, err
	}

	wpm := prof.WordsPerMinute
	if wpm <= 0 {
		wpm = g.cfg.WordsPerMinuteDefault
	}
	p := plan{prof: prof}
	p.target = g.sizing.TargetWords(req.DurationMinutes, wpm, req.ParticipantCount)
	p.maxTokens = g.sizing.OutputTokens(p.target)
	p.roster = Personas(req.ParticipantCount, req.Gender, g.profiles.Names(req.Location), req.AgeRange)

	if p.prompt = strings.TrimSpace(req.Prompt); p.prompt == "" {
		if p.prompt, err = g.buildPrompt(req, prof, p.roster, p.target); err != nil {
			return plan{}, err
		}
	}
	return p, nil
}

func (g *Generator) generate(ctx context.Context, req Request) (*Transcript, error) {
	p, err := g.resolve(req)
	if err != nil {
		return nil, err
	}
	prof, target, maxTokens, roster, prompt := p.prof, p.target, p.maxTokens, p.roster, p.prompt

	primaryID := req.Provider
	if primaryID == "" {
		primaryID = prof.RecommendedProvider
	}
	primary, err := g.providers.Lookup(primaryID)
	if err != nil {
		return nil, err
	}
	if req.Prompt != "" {
		g.log.Debug("using caller-supplied prompt", logger.Fields("chars", len(prompt)))
	}

	observability.SetSpanAttribute(ctx, observability.AttrLanguage, prof.Language)
	observability.SetSpanAttribute(ctx, observability.AttrTargetWords, target)

	used, model := primary, req.Model
	if model == "" {
		model = primary.DefaultModel()
	}
	g.log.Info("generating transcript", logger.Fields(
		logger.FieldProvider, primary.Name(),
		"language", prof.Language,
		"target_words", target,
		"max_output_tokens", maxTokens,
	))

	raw, err := g.call(ctx, primary, prompt, model, maxTokens)
	var fallbackFrom string
	if err != nil {
		fallback, ok := g.fallbackFor(prof, primaryID, err)
		if !ok {
			return nil, err
		}
		g.log.Warn("primary provider failed, trying fallback", logger.Fields(
			logger.FieldProvider, primaryID,
			"fallback", fallback.Name(),
			logger.FieldError, string(errors.CodeOf(err)),
		))
		if g.metrics != nil {
			g.metrics.RecordFallback(ctx, primaryID, fallback.Name(), string(errors.CodeOf(err)))
		}

		used, model, fallbackFrom = fallback, fallback.DefaultModel(), primaryID
		raw, err = g.call(ctx, fallback, prompt, model, maxTokens)
		if err != nil {
			if appErr, ok := errors.AsAppError(err); ok {
				appErr.WithDetail("fallback_from", primaryID)
			}
			return nil, err
		}
	}
	observability.SetSpanAttribute(ctx, observability.AttrProvider, used.Name())
	observability.SetSpanAttribute(ctx, observability.AttrModel, model)

	turns, err := Parse(raw, roster...)
	if err != nil {
		if appErr, ok := errors.AsAppError(err); ok {
			appErr.WithDetail("provider", used.Name())
		}
		g.log.Warn("model output has no speaker turns", logger.Fields(logger.FieldProvider, used.Name(), "chars", len(raw)))
		return nil, err
	}
	turns = AssignTimestamps(turns, time.Duration(req.DurationMinutes)*time.Minute)

	t := New(Metadata{
		ID:              uuid.New(),
		Topic:           req.Topic,
		Language:        prof.Language,
		Location:        req.Location,
		DiscussionType:  req.DiscussionType,
		AgeRange:        req.AgeRange,
		Demographics:    req.Demographics,
		StudyObjective:  g.objective(req.StudyObjective),
		DurationMinutes: req.DurationMinutes,
		Provider:        used.Name(),
		Model:           model,
		FallbackFrom:    fallbackFrom,
		TargetWords:     target,
		GeneratedAt:     g.now(),
		Participants:    roster,
	}, turns)

	if g.metrics != nil {
		g.metrics.RecordTranscript(ctx, used.Name(), prof.Language, t.WordCount())
	}
	g.log.Info("transcript generated", logger.Fields(
		logger.FieldProvider, used.Name(),
		"turns", t.Len(),
		"words", t.WordCount(),
	))
	return t, nil
}

// call invokes adapter once, bounded by the configured timeout.
func (g *Generator) call(ctx context.Context, adapter *llm.ProviderAdapter, prompt, model string, maxTokens int) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
	defer cancel()
	return adapter.Generate(ctx, prompt, model, maxTokens, g.cfg.Temperature)
}

// fallbackFor returns the secondary adapter for a throttled or timed-out
// call. The configured override wins over the profile; the fallback must
// differ from the primary, be registered and have a credential.
func (g *Generator) fallbackFor(prof profile.Profile, primaryID string, err error) (*llm.ProviderAdapter, bool) {
	if !errors.IsCode(err, errors.ErrCodeRateLimited) && !errors.IsCode(err, errors.ErrCodeTimeout) {
		return nil, false
	}
	id := g.cfg.FallbackProviders[strings.ToLower(prof.Language)]
	if id == "" {
		id = prof.FallbackProvider
	}
	if id == "" || id == primaryID {
		return nil, false
	}
	adapter, lookupErr := g.providers.Lookup(id)
	if lookupErr != nil || !adapter.IsConfigured() {
		g.log.Debug("fallback provider unavailable", logger.Fields(logger.FieldProvider, id))
		return nil, false
	}
	return adapter, true
}

func (g *Generator) buildPrompt(req Request, prof profile.Profile, roster []Participant, target int) (string, error) {
	category := Classify(req.Topic)
	research, _ := g.profiles.Research(req.Topic, req.Location)
	return renderPrompt(promptData{
		Topic:           req.Topic,
		Language:        prof.Language,
		DialectNotes:    prof.DialectNotes,
		DialectHint:     req.DialectHint,
		RegionalPattern: g.profiles.RegionalPattern(prof.Language, req.Location),
		Fillers:         strings.Join(prof.Fillers, ", "),
		Location:        req.Location,
		DiscussionType:  req.DiscussionType,
		AgeRange:        req.AgeRange,
		Demographics:    req.Demographics,
		DurationMinutes: req.DurationMinutes,
		Participants:    roster,
		TargetWords:     target,
		Phases:          PhaseBudget(target),
		Category:        category,
		Focus:           categoryFocus[category],
		CulturalContext: g.profiles.CulturalContext(req.Location),
		Research:        research,
		Objective:       g.objective(req.StudyObjective),
	})
}

// objective bounds the study objective to the configured character budget.
func (g *Generator) objective(s string) string {
	s = strings.TrimSpace(s)
	if g.cfg.MaxObjectiveChars > 0 {
		s = util.TruncateRunes(s, g.cfg.MaxObjectiveChars)
	}
	return s
}

// Assess scores t using the fillers of its language and the cultural
// markers of its location.
func (g *Generator) Assess(t *Transcript) QualityReport {
	var cues Cues
	if prof, err := g.profiles.Lookup(t.meta.Language); err == nil {
		cues.Fillers = prof.Fillers
	}
	if region, ok := g.profiles.Region(t.meta.Location); ok {
		cues.CulturalMarkers = region.CulturalMarkers
	}
	return Assess(t, cues)
}

// AssignTimestamps spreads about twenty [MM:SS] markers evenly over
// duration when no turn carries one. Turns with timestamps are returned
// unchanged.
func AssignTimestamps(turns []Turn, duration time.Duration) []Turn {
	const markers = 20
	for _, t := range turns {
		if t.HasTimestamp {
			return turns
		}
	}
	n := len(turns)
	m := min(markers, n)
	out := make([]Turn, n)
	copy(out, turns)
	for i := 0; i < m; i++ {
		idx := i * n / m
		out[idx].Timestamp = (duration * time.Duration(idx) / time.Duration(n)).Truncate(time.Second)
		out[idx].HasTimestamp = true
	}
	return out
}
