// Package app wires the generator's components from configuration.
//
// New is called once at startup. It builds the logger, the optional OTLP
// tracer and meter, the profile store, one adapter per provider, the
// transcript generator, the document ingestor and the exporter. The
// resulting App is read-only and safe for concurrent Run calls.
//
//	var cfg config.Config
//	if err := config.Load("focusgroup", &cfg); err != nil { ... }
//	a, err := app.New(ctx, &cfg)
//	defer a.Shutdown(ctx)
//	res, err := a.Run(ctx, app.Job{Request: req, Formats: []export.Format{export.FormatDOCX}})
package app
