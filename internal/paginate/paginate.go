// Package paginate splits a text body into reader pages sized by a
// word-count budget that scales with the effective font size.
package paginate

import (
	"strings"
)

const (
	// BaseWordsPerPage is the page budget at the default font size,
	// tuned for the two-column page layout.
	BaseWordsPerPage = 800

	// BaseFontSizePx is the default font size the budget is calibrated to.
	BaseFontSizePx = 18

	// MinFontSizePx and MaxFontSizePx bound the reader's settings range.
	MinFontSizePx = 12
	MaxFontSizePx = 24
)

// WordsPerPage returns the word budget for one page at the given font size.
// The result is floored by integer division and never drops below 1.
func WordsPerPage(fontSizePx int) int {
	n := BaseWordsPerPage * fontSizePx / BaseFontSizePx
	if n < 1 {
		n = 1
	}
	return n
}

// Paginate splits body into consecutive pages of WordsPerPage(fontSizePx)
// words each, re-joined with single spaces. It is pure and deterministic.
// An empty body yields exactly one empty page; the result is never empty.
func Paginate(body string, fontSizePx int) []string {
	words := strings.Fields(body)
	per := WordsPerPage(fontSizePx)

	var pages []string
	for i := 0; i < len(words); i += per {
		end := i + per
		if end > len(words) {
			end = len(words)
		}
		pages = append(pages, strings.Join(words[i:end], " "))
	}
	if len(pages) == 0 {
		pages = []string{""}
	}
	return pages
}

// CountWords returns the number of whitespace-separated words in body.
func CountWords(body string) int {
	return len(strings.Fields(body))
}

// PageCount returns how many pages a body of wordCount words occupies at
// the given font size. Minimum 1, matching Paginate's empty-page synthesis.
func PageCount(wordCount, fontSizePx int) int {
	per := WordsPerPage(fontSizePx)
	n := (wordCount + per - 1) / per
	if n < 1 {
		n = 1
	}
	return n
}
