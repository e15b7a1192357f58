package ingest

import (
	"archive/zip"
	"bytes"
	"fmt"
	"math"
	"strings"

	"github.com/gomutex/godocx/packager"
	"github.com/gomutex/godocx/wml/ctypes"

	"github.com/kbukum/focusgroup/errors"
)

// extractDOCX returns the body text of a Word package, one line per
// paragraph, table cells included. Declared entry sizes are summed before
// anything is inflated; archive/zip refuses entries that inflate past
// their declared size.
func extractDOCX(data []byte, limit int64) (string, error) {
	if err := checkInflatedSize(data, limit); err != nil {
		return "", err
	}
	doc, err := packager.Unpack(&data)
	if err != nil {
		return "", err
	}
	if doc.Document == nil || doc.Document.Body == nil {
		return "", fmt.Errorf("document body not found")
	}

	var lines []string
	for _, child := range doc.Document.Body.Children {
		switch {
		case child.Para != nil:
			lines = append(lines, paragraphText(child.Para.GetCT()))
		case child.Table != nil:
			lines = appendTable(lines, child.Table.GetCT())
		}
	}
	return strings.Join(lines, "\n"), nil
}

func checkInflatedSize(data []byte, limit int64) error {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return err
	}
	var total uint64
	for _, f := range zr.File {
		if f.UncompressedSize64 > uint64(limit)-total {
			size := total + f.UncompressedSize64
			if size < total || size > math.MaxInt64 {
				size = math.MaxInt64
			}
			return errors.SizeLimitExceeded(int64(size), limit).WithDetail("entry", f.Name)
		}
		total += f.UncompressedSize64
	}
	return nil
}

func paragraphText(p *ctypes.Paragraph) string {
	if p == nil {
		return ""
	}
	var b strings.Builder
	for _, c := range p.Children {
		if c.Run != nil {
			writeRun(&b, c.Run)
		}
		if c.Link != nil && c.Link.Run != nil {
			writeRun(&b, c.Link.Run)
		}
	}
	return b.String()
}

func writeRun(b *strings.Builder, r *ctypes.Run) {
	for _, rc := range r.Children {
		switch {
		case rc.Text != nil:
			b.WriteString(rc.Text.Text)
		case rc.Tab != nil:
			b.WriteByte('\t')
		case rc.Break != nil, rc.CarrRtn != nil:
			b.WriteByte('\n')
		}
	}
}

// appendTable adds one line per row with cells separated by tabs.
func appendTable(lines []string, t *ctypes.Table) []string {
	if t == nil {
		return lines
	}
	for _, rc := range t.RowContents {
		if rc.Row == nil {
			continue
		}
		var cells []string
		for _, cc := range rc.Row.Contents {
			if cc.Cell == nil {
				continue
			}
			var parts []string
			for _, block := range cc.Cell.Contents {
				switch {
				case block.Paragraph != nil:
					parts = append(parts, paragraphText(block.Paragraph))
				case block.Table != nil:
					parts = appendTable(parts, block.Table)
				}
			}
			cells = append(cells, strings.Join(parts, " "))
		}
		lines = append(lines, strings.Join(cells, "\t"))
	}
	return lines
}
