package ingest

import (
	"bytes"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf16"

	"golang.org/x/text/encoding/charmap"
)

var (
	zipMagic = []byte("PK\x03\x04")
	oleMagic = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
)

// Runs shorter than this are treated as binary noise.
const minRunLength = 8

// extractDOC handles legacy .doc uploads. Files that are really OOXML
// packages go through the DOCX reader; OLE2 Word binaries get best-effort
// extraction of the text runs stored in the WordDocument stream.
func extractDOC(data []byte, limit int64) (string, error) {
	switch {
	case bytes.HasPrefix(data, zipMagic):
		return extractDOCX(data, limit)
	case bytes.HasPrefix(data, oleMagic):
		if runs := utf16Runs(data); len(runs) > 0 {
			return strings.Join(runs, "\n"), nil
		}
		if runs := ansiRuns(data); len(runs) > 0 {
			return strings.Join(runs, "\n"), nil
		}
		return "", fmt.Errorf("no text runs found")
	default:
		return "", fmt.Errorf("not a Word document")
	}
}

// utf16Runs collects little-endian UTF-16 sequences of printable characters.
func utf16Runs(data []byte) []string {
	var (
		runs []string
		run  []uint16
	)
	flush := func() {
		if len(run) >= minRunLength {
			if s := strings.TrimSpace(string(utf16.Decode(run))); looksLikeText(s) {
				runs = append(runs, s)
			}
		}
		run = run[:0]
	}
	for i := 0; i+1 < len(data); i += 2 {
		u := uint16(data[i]) | uint16(data[i+1])<<8
		if r := rune(u); u != 0 && (unicode.IsPrint(r) || r == '\t') {
			run = append(run, u)
			continue
		}
		if u == '\r' || u == '\n' {
			flush()
			continue
		}
		flush()
	}
	flush()
	return runs
}

// ansiRuns collects Windows-1252 sequences of printable characters.
func ansiRuns(data []byte) []string {
	dec := charmap.Windows1252.NewDecoder()
	var runs []string
	start := -1
	flush := func(end int) {
		if start >= 0 && end-start >= minRunLength {
			if s, err := dec.Bytes(data[start:end]); err == nil {
				if t := strings.TrimSpace(string(s)); looksLikeText(t) {
					runs = append(runs, t)
				}
			}
		}
		start = -1
	}
	for i, b := range data {
		if b == '\t' || (b >= 0x20 && b != 0x7F && b != 0x81 && b != 0x8D && b != 0x8F && b != 0x90 && b != 0x9D) {
			if start < 0 {
				start = i
			}
			continue
		}
		flush(i)
	}
	flush(len(data))
	return runs
}

// looksLikeText rejects runs that are mostly symbols, like stream names and
// table data.
func looksLikeText(s string) bool {
	if !strings.ContainsRune(s, ' ') {
		return false
	}
	letters, total := 0, 0
	for _, r := range s {
		total++
		if unicode.IsLetter(r) || unicode.IsSpace(r) {
			letters++
		}
	}
	return total > 0 && letters*10 >= total*7
}
