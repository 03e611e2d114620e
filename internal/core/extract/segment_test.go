package extract_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rahatk-dev/pathagar/internal/core"
	"github.com/rahatk-dev/pathagar/internal/core/extract"
)

func TestSegmentChapters_EnglishHeadings(t *testing.T) {
	text := "Chapter 1 Numbers are everywhere. " +
		"Chapter 2 Sets collect things. " +
		"Chapter 3 Algebra generalizes."

	segments, policy := extract.SegmentChapters(text, "")

	assert.Equal(t, extract.PolicyHeadingBoundaries, policy)
	require.Len(t, segments, 3)

	assert.Equal(t, "Chapter 1", segments[0].Title)
	assert.Contains(t, segments[0].Content, "Numbers are everywhere")
	assert.NotContains(t, segments[0].Content, "Sets collect")

	assert.Contains(t, segments[2].Content, "Algebra generalizes")
	assert.Equal(t, len(text), segments[2].End)
}

func TestSegmentChapters_BengaliHeadings(t *testing.T) {
	text := "অধ্যায় ১ বাস্তব সংখ্যার আলোচনা। অধ্যায় ২ সেট ও ফাংশনের আলোচনা।"

	segments, policy := extract.SegmentChapters(text, "")

	assert.Equal(t, extract.PolicyHeadingBoundaries, policy)
	require.Len(t, segments, 2)
	assert.Contains(t, segments[0].Content, "বাস্তব সংখ্যার")
	assert.Contains(t, segments[1].Content, "সেট ও ফাংশনের")
}

func TestSegmentChapters_MixedSchemesSortedByPosition(t *testing.T) {
	text := "Unit 1 first part. Lesson 2 second part. Chapter 3 third part."

	segments, _ := extract.SegmentChapters(text, "")

	require.Len(t, segments, 3)
	for i := 1; i < len(segments); i++ {
		assert.Greater(t, segments[i].Start, segments[i-1].Start)
	}
}

func TestSegmentChapters_NonOverlapping(t *testing.T) {
	text := "Chapter 1 alpha. Chapter 2 beta. Chapter 3 gamma."
	segments, _ := extract.SegmentChapters(text, "")

	for i := 1; i < len(segments); i++ {
		assert.Equal(t, segments[i-1].End, segments[i].Start)
	}
}

func TestSegmentChapters_ZeroMatchesFallback(t *testing.T) {
	text := "Plain prose with no headings at all, just sentences."

	segments, policy := extract.SegmentChapters(text, "")

	assert.Equal(t, extract.PolicyWholeDocumentAsOneChapter, policy)
	require.Len(t, segments, 1)
	assert.Equal(t, "Complete Text", segments[0].Title)
	assert.Equal(t, 0, segments[0].Start)
	assert.Equal(t, len(text), segments[0].End)
	assert.Equal(t, text, segments[0].Content)
}

func TestSegmentChapters_KnownTitleSkipsDetection(t *testing.T) {
	text := "Chapter 1 would normally split. Chapter 2 here too."

	segments, policy := extract.SegmentChapters(text, "Real Numbers")

	assert.Equal(t, extract.PolicyWholeDocumentAsOneChapter, policy)
	require.Len(t, segments, 1)
	assert.Equal(t, "Real Numbers", segments[0].Title)
	assert.Equal(t, text, segments[0].Content)
}

func TestEstimatePage(t *testing.T) {
	pages := []core.PageText{
		{Number: 1, Text: strings.Repeat("a", 100)},
		{Number: 2, Text: strings.Repeat("b", 100)},
		{Number: 3, Text: strings.Repeat("c", 100)},
	}

	assert.Equal(t, 1, extract.EstimatePage(50, pages))
	assert.Equal(t, 2, extract.EstimatePage(150, pages))
	assert.Equal(t, 3, extract.EstimatePage(250, pages))
	assert.Equal(t, 3, extract.EstimatePage(10000, pages)) // past the end clamps to last page
}

func TestJoinPages(t *testing.T) {
	pages := []core.PageText{
		{Number: 1, Text: "first page"},
		{Number: 2, Text: "second page"},
	}
	assert.Equal(t, "first page\n\nsecond page", extract.JoinPages(pages))
	assert.Equal(t, "", extract.JoinPages(nil))
}
