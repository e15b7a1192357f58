package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kbukum/focusgroup/config"
	"github.com/kbukum/focusgroup/errors"
	"github.com/kbukum/focusgroup/export"
	"github.com/kbukum/focusgroup/logger"
	"github.com/kbukum/focusgroup/transcript"
)

const discussion = "Moderator: Good morning and welcome everyone.\n" +
	"Participant 1: Well, I think my day starts with coffee.\n" +
	"Participant 2: Same here, you know.\n" +
	"Moderator: Thank you all for your final thoughts."

// openAIServer answers chat completions with reply and records the last
// prompt it received.
type openAIServer struct {
	*httptest.Server
	calls  atomic.Int32
	prompt atomic.Value
	status int
}

func newOpenAIServer(t *testing.T, status int) *openAIServer {
	t.Helper()
	s := &openAIServer{status: status}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.calls.Add(1)
		if r.URL.Path != "/v1/chat/completions" || r.Header.Get("Authorization") != "Bearer sk-test" {
			http.Error(w, `{"error":{"message":"bad request"}}`, http.StatusBadRequest)
			return
		}
		var body struct {
			Messages []struct {
				Content string `json:"content"`
			} `json:"messages"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		if len(body.Messages) > 0 {
			s.prompt.Store(body.Messages[len(body.Messages)-1].Content)
		}
		w.Header().Set("Content-Type", "application/json")
		if s.status != http.StatusOK {
			w.WriteHeader(s.status)
			_, _ = w.Write([]byte(`{"error":{"message":"Rate limit reached for sk-test"}}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"model":   "gpt-4o",
			"choices": []map[string]any{{"message": map[string]string{"role": "assistant", "content": discussion}}},
		})
	}))
	t.Cleanup(s.Close)
	return s
}

func (s *openAIServer) lastPrompt() string {
	p, _ := s.prompt.Load().(string)
	return p
}

func newApp(t *testing.T, cfg *config.Config) *App {
	t.Helper()
	clock := func() time.Time { return time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC) }
	a, err := New(context.Background(), cfg, WithLogger(logger.Nop()), WithClock(clock))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = a.Shutdown(context.Background()) })
	return a
}

func testConfig(openaiURL string) *config.Config {
	return &config.Config{
		Providers: map[string]config.ProviderConfig{
			config.ProviderOpenAI: {APIKey: "sk-test", BaseURL: openaiURL},
		},
	}
}

func coffeeJob() Job {
	return Job{
		Request: transcript.Request{
			Topic:            "coffee habits",
			Language:         "English",
			ParticipantCount: 4,
			DurationMinutes:  30,
			Provider:         "openai",
		},
		Formats: []export.Format{export.FormatTXT, export.FormatDOCX},
	}
}

func TestRun_EndToEnd(t *testing.T) {
	srv := newOpenAIServer(t, http.StatusOK)
	a := newApp(t, testConfig(srv.URL))

	job := coffeeJob()
	job.Document = []byte("Goal: learn why people switch from instant to filter coffee.")
	job.DocumentName = "brief.txt"

	res, err := a.Run(context.Background(), job)
	if err != nil {
		t.Fatal(err)
	}
	if got := len(res.Transcript.ModeratorTurns()); got != 2 {
		t.Errorf("moderator turns = %d", got)
	}
	if !strings.Contains(srv.lastPrompt(), "switch from instant to filter coffee") {
		t.Error("document text was not included in the prompt")
	}
	if len(res.Artifacts) != 2 || res.Artifacts[0].Filename != "focus_group_coffee-habits.txt" {
		t.Fatalf("unexpected artifacts: %+v", res.Artifacts)
	}
	if !strings.HasPrefix(string(res.Artifacts[0].Bytes), "[00:00] Moderator: Good morning") {
		t.Errorf("unexpected TXT: %q", res.Artifacts[0].Bytes)
	}
	if res.Quality.Total != 8 {
		t.Errorf("quality report missing: %+v", res.Quality)
	}
	// A four-turn reply is far below the 4275-word target.
	if len(res.Warnings) != 1 || !strings.Contains(res.Warnings[0], "shorter than expected") {
		t.Errorf("warnings = %v", res.Warnings)
	}
	if srv.calls.Load() != 1 {
		t.Errorf("provider called %d times", srv.calls.Load())
	}
}

func TestRun_OversizedUploadStillProducesTranscript(t *testing.T) {
	srv := newOpenAIServer(t, http.StatusOK)
	cfg := testConfig(srv.URL)
	cfg.Ingest.MaxBytes = 16
	a := newApp(t, cfg)

	job := coffeeJob()
	job.Document = []byte(strings.Repeat("objective ", 10))
	job.DocumentName = "brief.txt"

	res, err := a.Run(context.Background(), job)
	if err != nil {
		t.Fatal(err)
	}
	if res.Transcript == nil || res.Transcript.Len() == 0 {
		t.Fatal("expected a transcript")
	}
	if len(res.Warnings) == 0 || !strings.Contains(res.Warnings[0], string(errors.ErrCodeSizeLimitExceeded)) {
		t.Errorf("expected a size limit warning, got %v", res.Warnings)
	}
	if strings.Contains(srv.lastPrompt(), "STUDY OBJECTIVE") {
		t.Error("oversized document text reached the prompt")
	}
}

func TestRun_UnsupportedDocumentIsAWarning(t *testing.T) {
	srv := newOpenAIServer(t, http.StatusOK)
	a := newApp(t, testConfig(srv.URL))

	job := coffeeJob()
	job.Document = []byte("{\\rtf1 hello}")
	job.DocumentName = "brief.rtf"

	res, err := a.Run(context.Background(), job)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(res.Warnings[0], string(errors.ErrCodeUnsupportedFormat)) {
		t.Errorf("warnings = %v", res.Warnings)
	}
}

func TestRun_BlankDocumentIsAWarning(t *testing.T) {
	srv := newOpenAIServer(t, http.StatusOK)
	a := newApp(t, testConfig(srv.URL))

	job := coffeeJob()
	job.Document = []byte("  \n\t\n ")
	job.DocumentName = "brief.txt"

	res, err := a.Run(context.Background(), job)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Warnings) == 0 || !strings.Contains(res.Warnings[0], string(errors.ErrCodeParseError)) {
		t.Errorf("warnings = %v", res.Warnings)
	}
}

func TestPrompt_ReviewThenRun(t *testing.T) {
	srv := newOpenAIServer(t, http.StatusOK)
	a := newApp(t, testConfig(srv.URL))

	job := coffeeJob()
	job.Document = []byte("Understand weekday coffee spend.")
	job.DocumentName = "brief.txt"

	prompt, warnings, err := a.Prompt(context.Background(), job)
	if err != nil {
		t.Fatal(err)
	}
	if len(warnings) != 0 || !strings.Contains(prompt, "Understand weekday coffee spend.") {
		t.Fatalf("warnings = %v, prompt:\n%s", warnings, prompt)
	}
	if srv.calls.Load() != 0 {
		t.Error("Prompt called the provider")
	}

	job.Request.Prompt = prompt + "\nKeep every participant under 40 words per turn."
	if _, err := a.Run(context.Background(), job); err != nil {
		t.Fatal(err)
	}
	if got := srv.lastPrompt(); got != job.Request.Prompt {
		t.Errorf("edited prompt not sent; got:\n%s", got)
	}
}

func TestRun_RateLimitWithoutConfiguredFallback(t *testing.T) {
	srv := newOpenAIServer(t, http.StatusTooManyRequests)
	a := newApp(t, testConfig(srv.URL))

	_, err := a.Run(context.Background(), coffeeJob())
	if !errors.IsCode(err, errors.ErrCodeRateLimited) {
		t.Fatalf("expected RATE_LIMITED, got %v", err)
	}
	if strings.Contains(err.Error(), "sk-test") {
		t.Errorf("credential leaked into error: %v", err)
	}
	if srv.calls.Load() != 1 {
		t.Errorf("rate-limited call was retried: %d calls", srv.calls.Load())
	}
}

func TestRun_FallsBackToAnthropic(t *testing.T) {
	openai := newOpenAIServer(t, http.StatusTooManyRequests)
	var anthropicCalls atomic.Int32
	anthropic := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		anthropicCalls.Add(1)
		if r.URL.Path != "/v1/messages" || r.Header.Get("x-api-key") != "ant-test" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"model":   "claude-3-5-sonnet-latest",
			"content": []map[string]string{{"type": "text", "text": discussion}},
		})
	}))
	defer anthropic.Close()

	cfg := testConfig(openai.URL)
	cfg.Providers[config.ProviderAnthropic] = config.ProviderConfig{APIKey: "ant-test", BaseURL: anthropic.URL}
	a := newApp(t, cfg)

	res, err := a.Run(context.Background(), coffeeJob())
	if err != nil {
		t.Fatal(err)
	}
	if res.Transcript.Meta().Provider != "anthropic" {
		t.Errorf("provider = %s", res.Transcript.Meta().Provider)
	}
	if openai.calls.Load() != 1 || anthropicCalls.Load() != 1 {
		t.Errorf("calls: openai=%d anthropic=%d", openai.calls.Load(), anthropicCalls.Load())
	}
	if !strings.Contains(res.Warnings[0], "openai was unavailable") {
		t.Errorf("warnings = %v", res.Warnings)
	}
}

func TestRun_UnsupportedExportFormat(t *testing.T) {
	srv := newOpenAIServer(t, http.StatusOK)
	a := newApp(t, testConfig(srv.URL))

	job := coffeeJob()
	job.Formats = []export.Format{"pdf"}
	if _, err := a.Run(context.Background(), job); !errors.IsCode(err, errors.ErrCodeUnsupportedFormat) {
		t.Fatalf("expected UNSUPPORTED_FORMAT, got %v", err)
	}
}

func TestProviders(t *testing.T) {
	cfg := testConfig("http://127.0.0.1:1")
	cfg.Providers[config.ProviderGoogle] = config.ProviderConfig{RequestsPerMinute: 30}
	a := newApp(t, cfg)

	statuses := a.Providers()
	if len(statuses) != len(config.ProviderIDs) {
		t.Fatalf("got %d providers", len(statuses))
	}
	byID := make(map[string]ProviderStatus)
	for _, s := range statuses {
		byID[s.ID] = s
	}
	if !byID["openai"].Configured || byID["anthropic"].Configured || byID["google"].Configured {
		t.Errorf("unexpected configured states: %+v", statuses)
	}
	if byID["google"].RequestsPerMinute != 30 || byID["cohere"].RequestsPerMinute != 1000 {
		t.Errorf("unexpected rate limits: google=%d cohere=%d", byID["google"].RequestsPerMinute, byID["cohere"].RequestsPerMinute)
	}
	if byID["openai"].DefaultModel != "gpt-4o" {
		t.Errorf("default model = %q", byID["openai"].DefaultModel)
	}
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	cfg := testConfig("")
	cfg.Generation.Temperature = 5
	if _, err := New(context.Background(), cfg, WithLogger(logger.Nop())); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestNew_InstallsGlobalLogger(t *testing.T) {
	t.Cleanup(func() { logger.SetGlobalLogger(nil) })
	var buf bytes.Buffer
	log := logger.New(&logger.Config{Level: "info", Format: logger.FormatJSON, Writer: &buf}, "focusgroup")

	a, err := New(context.Background(), testConfig("http://127.0.0.1:0"), WithLogger(log))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = a.Shutdown(context.Background()) })

	logger.Info("meter initialized")
	if !strings.Contains(buf.String(), `"message":"meter initialized"`) {
		t.Errorf("package-level logger not installed: %s", buf.String())
	}
}

func TestShutdown_RunsHooksInReverse(t *testing.T) {
	a := &App{}
	var order []int
	a.OnStop(
		func(context.Context) error { order = append(order, 1); return nil },
		func(context.Context) error { order = append(order, 2); return errors.Internal(nil) },
	)
	if err := a.Shutdown(context.Background()); err == nil {
		t.Error("expected hook error")
	}
	if len(order) != 2 || order[0] != 2 || order[1] != 1 {
		t.Errorf("order = %v", order)
	}
	if err := a.Shutdown(context.Background()); err != nil {
		t.Errorf("second shutdown should be a no-op: %v", err)
	}
}
