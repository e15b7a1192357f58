package export

import (
	"bytes"
	"strings"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"

	"github.com/kbukum/focusgroup/errors"
	"github.com/kbukum/focusgroup/logger"
	"github.com/kbukum/focusgroup/transcript"
	"github.com/kbukum/focusgroup/util"
)

// Format is an export format.
type Format string

const (
	FormatTXT  Format = "txt"
	FormatDOCX Format = "docx"
)

// MIME types of the export formats.
const (
	MIMETXT  = "text/plain; charset=utf-8"
	MIMEDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

const (
	DefaultFont     = "Times New Roman"
	DefaultFontSize = 12
	filenamePrefix  = "focus_group_"
)

// ParseFormat accepts "txt", "TXT", ".docx" and the like.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), ".")); f {
	case FormatTXT, FormatDOCX:
		return f, nil
	}
	return "", errors.UnsupportedFormat(s)
}

// Artifact is a rendered transcript ready for download.
type Artifact struct {
	Format   Format `json:"format"`
	Filename string `json:"filename"`
	MIMEType string `json:"mime_type"`
	Bytes    []byte `json:"-"`
}

// Exporter renders transcripts. It never touches the network and never
// modifies the transcript.
type Exporter struct {
	font     string
	fontSize int
	header   bool
	log      *logger.Logger
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithFont sets the DOCX font. Empty or non-positive values keep the default.
func WithFont(name string, size int) Option {
	return func(e *Exporter) {
		if name != "" {
			e.font = name
		}
		if size > 0 {
			e.fontSize = size
		}
	}
}

// WithHeader prepends the study header to every artifact.
func WithHeader() Option {
	return func(e *Exporter) { e.header = true }
}

// WithLogger sets the logger.
func WithLogger(log *logger.Logger) Option {
	return func(e *Exporter) { e.log = log.WithComponent("export") }
}

// New creates an Exporter.
func New(opts ...Option) *Exporter {
	e := &Exporter{font: DefaultFont, fontSize: DefaultFontSize, log: logger.Nop()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Export renders t in format.
func (e *Exporter) Export(t *transcript.Transcript, format Format) (*Artifact, error) {
	var (
		data []byte
		mime string
		err  error
	)
	switch format {
	case FormatTXT:
		data, mime = e.renderTXT(t), MIMETXT
	case FormatDOCX:
		data, err = e.renderDOCX(t)
		mime = MIMEDOCX
	default:
		return nil, errors.UnsupportedFormat(string(format))
	}
	if err != nil {
		e.log.Error("export failed", logger.Fields(logger.FieldFormat, string(format), logger.FieldError, err.Error()))
		return nil, errors.Internal(err)
	}

	a := &Artifact{
		Format:   format,
		Filename: Filename(t.Meta().Topic, format),
		MIMEType: mime,
		Bytes:    data,
	}
	e.log.Debug("transcript exported", logger.Fields(
		logger.FieldFormat, string(format),
		logger.FieldBytes, len(data),
		"turns", t.Len(),
	))
	return a, nil
}

// Filename returns focus_group_<topic>.<ext> with the topic slugged.
func Filename(topic string, format Format) string {
	return filenamePrefix + util.Slug(topic, "transcript") + "." + string(format)
}

// renderTXT joins Turn.String lines with "\n".
func (e *Exporter) renderTXT(t *transcript.Transcript) []byte {
	var b strings.Builder
	if e.header {
		b.WriteString(transcript.Header(t))
		b.WriteString("\n\n")
	}
	b.WriteString(strings.Join(t.Lines(), "\n"))
	return []byte(b.String())
}

// renderDOCX writes one paragraph per turn with the speaker run in bold.
func (e *Exporter) renderDOCX(t *transcript.Transcript) ([]byte, error) {
	doc, err := godocx.NewDocument()
	if err != nil {
		return nil, err
	}

	if e.header {
		for i, line := range strings.Split(transcript.Header(t), "\n") {
			p := doc.AddParagraph("")
			if line == "" {
				continue
			}
			e.run(p, line, i == 0)
		}
		doc.AddParagraph("")
	}

	for _, turn := range t.Turns() {
		p := doc.AddParagraph("")
		if turn.HasTimestamp {
			e.run(p, "["+transcript.FormatTimestamp(turn.Timestamp)+"] ", false)
		}
		e.run(p, turn.Speaker+":", true)
		e.run(p, " "+turn.Text, false)
	}

	var buf bytes.Buffer
	if err := doc.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (e *Exporter) run(p *docx.Paragraph, text string, bold bool) {
	r := p.AddText(text).Font(e.font).Size(uint64(e.fontSize)).Color("000000")
	if bold {
		r.Bold(true)
	}
}
