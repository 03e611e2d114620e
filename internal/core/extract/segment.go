package extract

import (
	"regexp"
	"sort"
)

// Segment is one detected chapter span in a full-book text.
type Segment struct {
	Title   string
	Start   int
	End     int
	Content string
}

// SegmentPolicy records which branch the segmenter took, so callers and
// tests can target the fallback explicitly.
type SegmentPolicy string

const (
	// PolicyHeadingBoundaries means chapter headings were found and used
	// as span boundaries.
	PolicyHeadingBoundaries SegmentPolicy = "heading_boundaries"
	// PolicyWholeDocumentAsOneChapter is the explicit zero-match fallback:
	// the whole text becomes a single generically titled segment.
	PolicyWholeDocumentAsOneChapter SegmentPolicy = "whole_document_as_one_chapter"
)

// Heading regex families for Bengali and English chapter numbering schemes.
// This is a best-effort heuristic: a missed heading silently merges two
// chapters, which downstream must tolerate.
var headingPatterns = []*regexp.Regexp{
	regexp.MustCompile(`অধ্যায়\s*[০-৯]+`),
	regexp.MustCompile(`পাঠ\s*[০-৯]+`),
	regexp.MustCompile(`অধ্যায়\s*\d+`),
	regexp.MustCompile(`(?i)chapter\s+\d+`),
	regexp.MustCompile(`(?i)unit\s+\d+`),
	regexp.MustCompile(`(?i)lesson\s+\d+`),
}

// SegmentChapters carves the concatenated book text into ordered,
// non-overlapping chapter spans. If knownTitle is non-empty the whole text
// is returned as one span named after it (single-chapter uploads skip
// detection entirely).
func SegmentChapters(text, knownTitle string) ([]Segment, SegmentPolicy) {
	if knownTitle != "" {
		return []Segment{{Title: knownTitle, Start: 0, End: len(text), Content: text}}, PolicyWholeDocumentAsOneChapter
	}

	type match struct{ start, end int }
	var found []match
	for _, re := range headingPatterns {
		for _, loc := range re.FindAllStringIndex(text, -1) {
			found = append(found, match{start: loc[0], end: loc[1]})
		}
	}

	if len(found) == 0 {
		return []Segment{{Title: "Complete Text", Start: 0, End: len(text), Content: text}},
			PolicyWholeDocumentAsOneChapter
	}

	sort.Slice(found, func(i, j int) bool { return found[i].start < found[j].start })

	segments := make([]Segment, 0, len(found))
	for i, m := range found {
		end := len(text)
		if i+1 < len(found) {
			end = found[i+1].start
		}
		segments = append(segments, Segment{
			Title:   text[m.start:m.end],
			Start:   m.start,
			End:     end,
			Content: text[m.start:end],
		})
	}
	return segments, PolicyHeadingBoundaries
}
