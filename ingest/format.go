package ingest

import (
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/kbukum/focusgroup/errors"
)

// Format is a supported document format.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
	FormatDOC  Format = "doc"
	FormatTXT  Format = "txt"
)

// MIME types of the supported formats.
const (
	MIMEPDF  = "application/pdf"
	MIMEDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MIMEDOC  = "application/msword"
	MIMETXT  = "text/plain"
)

var byExtension = map[string]Format{
	"pdf":  FormatPDF,
	"docx": FormatDOCX,
	"doc":  FormatDOC,
	"txt":  FormatTXT,
	"text": FormatTXT,
}

var byMIME = map[string]Format{
	MIMEPDF:  FormatPDF,
	MIMEDOCX: FormatDOCX,
	MIMEDOC:  FormatDOC,
	MIMETXT:  FormatTXT,
	// Legacy Word files are sniffed as generic OLE2 storage.
	"application/x-ole-storage": FormatDOC,
}

// ParseFormat accepts an extension ("pdf", ".pdf"), a filename
// ("brief.docx") or a MIME type ("application/pdf; charset=binary").
func ParseFormat(s string) (Format, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	if strings.Contains(v, "/") {
		mediaType, _, _ := strings.Cut(v, ";")
		if f, ok := byMIME[strings.TrimSpace(mediaType)]; ok {
			return f, nil
		}
		return "", errors.UnsupportedFormat(s)
	}
	if ext := filepath.Ext(v); ext != "" {
		v = ext
	}
	if f, ok := byExtension[strings.TrimPrefix(v, ".")]; ok {
		return f, nil
	}
	return "", errors.UnsupportedFormat(s)
}

// Detect sniffs the format from content.
func Detect(data []byte) (Format, error) {
	m := mimetype.Detect(data)
	for t := m; t != nil; t = t.Parent() {
		for mime, f := range byMIME {
			if t.Is(mime) {
				return f, nil
			}
		}
		if t.Is("application/zip") {
			return FormatDOCX, nil
		}
	}
	return "", errors.UnsupportedFormat(m.String())
}

// MIMEType returns the canonical MIME type of f.
func (f Format) MIMEType() string {
	switch f {
	case FormatPDF:
		return MIMEPDF
	case FormatDOCX:
		return MIMEDOCX
	case FormatDOC:
		return MIMEDOC
	case FormatTXT:
		return MIMETXT
	default:
		return "application/octet-stream"
	}
}
