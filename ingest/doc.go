// Package ingest extracts study-objective text from uploaded documents.
//
// Supported formats are PDF, DOCX, legacy DOC and plain text. The size limit
// is checked before any parsing, and parser panics are recovered as
// PARSE_ERROR so one malformed upload cannot take down a request.
//
//	ing := ingest.New(cfg.Ingest.MaxBytes, ingest.WithLogger(log))
//	format, err := ingest.ParseFormat(filename)
//	text, err := ing.ExtractText(data, format)
package ingest
