package extract

import (
	"regexp"
	"strings"
)

var (
	// Standalone page-number lines and the running headers NCTB scans carry.
	pageNumberLine = regexp.MustCompile(`(?m)^\s*[0-9০-৯]+\s*$`)
	runningHeaders = []*regexp.Regexp{
		regexp.MustCompile(`Page\s+\d+`),
		regexp.MustCompile(`পৃষ্ঠা\s*[০-৯0-9]+`),
		regexp.MustCompile(`(?i)forma-\d+`),
	}

	whitespaceRun = regexp.MustCompile(`\s+`)
)

// allowedRune reports whether a character survives cleanup. The allow-list
// covers Latin alphanumerics, the Bengali Unicode block (U+0980-U+09FF) and
// common punctuation; everything else is dropped, not escaped.
func allowedRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r >= 0x0980 && r <= 0x09FF:
		return true
	case r == '।', r == '॥': // danda and double danda sit in the Devanagari block
		return true
	case r == ' ', r == '\n', r == '\r', r == '\t':
		return true
	}
	return strings.ContainsRune(`.,;:!?()[]{}-+=*/%@#$&'"`+"`~_", r)
}

// CleanPage normalizes one page of extracted text: page-number lines and
// known running headers are stripped, characters outside the allow-list are
// dropped, and whitespace runs collapse to single spaces.
func CleanPage(text string) string {
	text = pageNumberLine.ReplaceAllString(text, "")
	for _, re := range runningHeaders {
		text = re.ReplaceAllString(text, "")
	}

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if allowedRune(r) {
			b.WriteRune(r)
		}
	}

	return strings.TrimSpace(whitespaceRun.ReplaceAllString(b.String(), " "))
}

// WordCount counts whitespace-separated tokens.
func WordCount(text string) int {
	return len(strings.Fields(text))
}
