package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/kbukum/focusgroup/errors"
	"github.com/kbukum/focusgroup/export"
	"github.com/kbukum/focusgroup/ingest"
	"github.com/kbukum/focusgroup/logger"
	"github.com/kbukum/focusgroup/observability"
	"github.com/kbukum/focusgroup/transcript"
)

// Job is one end-to-end request.
type Job struct {
	Request transcript.Request
	// Document is an optional study brief whose text is added to the
	// request's study objective.
	Document []byte
	// DocumentName is a filename, extension or MIME type naming the
	// document's format. Empty means detect from content.
	DocumentName string
	// Formats lists the artifacts to render.
	Formats []export.Format
}

// Result is the outcome of a Job.
type Result struct {
	Transcript *transcript.Transcript
	Quality    transcript.QualityReport
	Artifacts  []*export.Artifact
	// Warnings are non-fatal problems: an unreadable document, a fallback
	// provider, a transcript far from its target length.
	Warnings []string
}

// Run ingests the document, generates the transcript and renders the
// requested formats. Document problems become warnings; provider and
// export failures are returned as errors.
func (a *App) Run(ctx context.Context, job Job) (res *Result, err error) {
	runID := uuid.NewString()
	oc := observability.NewOperationContext(a.Name, "run", runID, a.Metrics)
	ctx = observability.WithOperationContext(logger.ContextWithRequestID(ctx, runID), oc)
	ctx, span := oc.StartSpanForOperation(ctx, observability.SpanRun)
	defer func() {
		status := "ok"
		if err != nil {
			status = string(errors.CodeOf(err))
		}
		oc.EndOperation(ctx, span, status, err)
	}()
	log := a.Logger.WithComponent("app").WithContext(ctx)

	res = &Result{}
	req, warnings := a.prepare(ctx, job, log)
	res.Warnings = warnings

	t, err := a.Generator.Generate(ctx, req)
	if err != nil {
		return nil, err
	}
	res.Transcript = t
	res.Quality = a.Generator.Assess(t)

	meta := t.Meta()
	if meta.FallbackFrom != "" {
		res.Warnings = append(res.Warnings, fmt.Sprintf("%s was unavailable; transcript generated by %s", meta.FallbackFrom, meta.Provider))
	}
	if note := transcript.DeviationNote(t.WordCount(), meta.TargetWords); note != "" {
		res.Warnings = append(res.Warnings, note)
	}

	artifacts, err := a.export(ctx, t, job.Formats)
	if err != nil {
		return nil, err
	}
	res.Artifacts = artifacts
	log.Info("run complete", logger.Fields(
		logger.FieldProvider, meta.Provider,
		"turns", t.Len(),
		"quality_score", res.Quality.Score,
		"warnings", len(res.Warnings),
		logger.FieldDuration, oc.Duration().Milliseconds(),
	))
	return res, nil
}

// Prompt returns the prompt Run would send for job. Callers may edit it
// and submit it as job.Request.Prompt. The warnings match those Run would
// report for the document.
func (a *App) Prompt(ctx context.Context, job Job) (string, []string, error) {
	log := a.Logger.WithComponent("app").WithContext(ctx)
	req, warnings := a.prepare(ctx, job, log)
	prompt, err := a.Generator.Prompt(req)
	if err != nil {
		return "", warnings, err
	}
	return prompt, warnings, nil
}

// prepare folds the document text into the study objective. A document
// that cannot be read becomes a warning.
func (a *App) prepare(ctx context.Context, job Job, log *logger.Logger) (transcript.Request, []string) {
	req := job.Request
	if len(job.Document) == 0 {
		return req, nil
	}
	text, err := a.ingest(ctx, job.Document, job.DocumentName)
	if err != nil {
		log.Warn("study document ignored", logger.Fields(logger.FieldError, err.Error()))
		return req, []string{"study document ignored: " + err.Error()}
	}
	req.StudyObjective = joinObjective(req.StudyObjective, text)
	return req, nil
}

func (a *App) ingest(ctx context.Context, data []byte, name string) (string, error) {
	ctx, span := observability.StartSpan(ctx, observability.SpanIngest)
	defer span.End()

	var format ingest.Format
	if name != "" {
		f, err := ingest.ParseFormat(name)
		if err != nil {
			return "", err
		}
		format = f
		observability.SetSpanAttribute(ctx, observability.AttrFormat, string(f))
	}
	text, err := a.Ingestor.ExtractText(data, format)
	if err != nil {
		observability.SetSpanError(ctx, err)
		return "", err
	}
	return text, nil
}

func (a *App) export(ctx context.Context, t *transcript.Transcript, formats []export.Format) ([]*export.Artifact, error) {
	if len(formats) == 0 {
		return nil, nil
	}
	ctx, span := observability.StartSpan(ctx, observability.SpanExport)
	defer span.End()

	out := make([]*export.Artifact, 0, len(formats))
	for _, f := range formats {
		artifact, err := a.Exporter.Export(t, f)
		if err != nil {
			observability.SetSpanError(ctx, err)
			return nil, err
		}
		out = append(out, artifact)
	}
	return out, nil
}

func joinObjective(typed, extracted string) string {
	if typed = strings.TrimSpace(typed); typed == "" {
		return extracted
	}
	return typed + "\n\n" + extracted
}
