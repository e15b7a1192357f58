// Package transcript synthesizes focus group transcripts.
//
// A Generator validates the Request, resolves the language profile, sizes
// the discussion from duration, speaking pace and group size, renders a
// single prompt and calls one provider adapter. A throttled or timed-out
// call gets exactly one attempt on the language's fallback provider. The
// model output is parsed into speaker turns by Parse; output without any
// recognizable label fails with MALFORMED_OUTPUT and is never retried.
//
// Transcripts are immutable. Turn.String and Parse are inverses, which the
// exporter relies on for its plain-text format.
package transcript
