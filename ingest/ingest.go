package ingest

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/kbukum/focusgroup/errors"
	"github.com/kbukum/focusgroup/logger"
)

// DefaultMaxBytes is the upload limit used when none is configured.
const DefaultMaxBytes int64 = 10 << 20

// Ingestor converts uploaded documents to plain text.
type Ingestor struct {
	maxBytes     int64
	maxExtracted int64
	log          *logger.Logger
}

// Option configures an Ingestor.
type Option func(*Ingestor)

// WithLogger sets the logger.
func WithLogger(log *logger.Logger) Option {
	return func(i *Ingestor) { i.log = log.WithComponent("ingest") }
}

// WithMaxExtractedBytes caps inflated archive parts and the extracted
// text. Defaults to eight times the upload limit.
func WithMaxExtractedBytes(n int64) Option {
	return func(i *Ingestor) {
		if n > 0 {
			i.maxExtracted = n
		}
	}
}

// New creates an Ingestor that rejects documents over maxBytes.
func New(maxBytes int64, opts ...Option) *Ingestor {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	i := &Ingestor{maxBytes: maxBytes, maxExtracted: 8 * maxBytes, log: logger.Nop()}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// ExtractText returns the plain text of data. The size limit is enforced
// before any parsing. An empty declared format is sniffed from content.
func (i *Ingestor) ExtractText(data []byte, declared Format) (string, error) {
	if size := int64(len(data)); size > i.maxBytes {
		return "", errors.SizeLimitExceeded(size, i.maxBytes)
	}

	format := declared
	if format == "" {
		detected, err := Detect(data)
		if err != nil {
			return "", err
		}
		format = detected
	}

	text, err := extract(data, format, i.maxExtracted)
	if err != nil {
		i.log.Warn("document extraction failed", logger.Fields(
			logger.FieldFormat, string(format),
			logger.FieldBytes, len(data),
			logger.FieldError, err.Error(),
		))
		return "", err
	}
	i.log.Debug("document extracted", logger.Fields(
		logger.FieldFormat, string(format),
		logger.FieldBytes, len(data),
		"chars", utf8.RuneCountInString(text),
	))
	return text, nil
}

func extract(data []byte, format Format, limit int64) (text string, err error) {
	var parse func([]byte, int64) (string, error)
	switch format {
	case FormatPDF:
		parse = extractPDF
	case FormatDOCX:
		parse = extractDOCX
	case FormatDOC:
		parse = extractDOC
	case FormatTXT:
		parse = func(b []byte, _ int64) (string, error) { return decodeText(b) }
	default:
		return "", errors.UnsupportedFormat(string(format))
	}

	if len(data) == 0 {
		return "", errors.ParseFailed(string(format), fmt.Errorf("empty document"))
	}

	defer func() {
		if r := recover(); r != nil {
			text, err = "", errors.ParseFailed(string(format), fmt.Errorf("parser panic: %v", r))
		}
	}()

	text, err = parse(data, limit)
	if err != nil {
		if errors.IsAppError(err) {
			return "", err
		}
		return "", errors.ParseFailed(string(format), err)
	}
	if size := int64(len(text)); size > limit {
		return "", errors.SizeLimitExceeded(size, limit).WithDetail("stage", "extracted text")
	}
	if text = normalizeText(text); text == "" {
		return "", errors.ParseFailed(string(format), fmt.Errorf("no extractable text"))
	}
	return text, nil
}

// normalizeText unifies line endings and trims trailing whitespace from
// every line and from the document.
func normalizeText(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = strings.ReplaceAll(s, "\x00", "")
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " \t")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
