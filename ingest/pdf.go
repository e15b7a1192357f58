package ingest

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/kbukum/focusgroup/errors"
)

// extractPDF concatenates the plain text of every page, stopping as soon
// as the text gathered so far passes limit.
func extractPDF(data []byte, limit int64) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	pages := make([]string, 0, r.NumPage())
	var size int64
	fonts := make(map[string]*pdf.Font)
	for n := 1; n <= r.NumPage(); n++ {
		p := r.Page(n)
		if p.V.IsNull() {
			continue
		}
		for _, name := range p.Fonts() {
			if _, ok := fonts[name]; !ok {
				f := p.Font(name)
				fonts[name] = &f
			}
		}
		text, err := p.GetPlainText(fonts)
		if err != nil {
			return "", fmt.Errorf("page %d: %w", n, err)
		}
		if t := strings.TrimSpace(text); t != "" {
			if size += int64(len(t)) + 1; size > limit {
				return "", errors.SizeLimitExceeded(size, limit).WithDetail("page", n)
			}
			pages = append(pages, t)
		}
	}
	if len(pages) == 0 {
		return "", fmt.Errorf("no extractable text")
	}
	return strings.Join(pages, "\n"), nil
}
