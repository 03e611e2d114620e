package chunker_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rahatk-dev/pathagar/internal/core/chunker"
)

// numbered builds n sentences of wordsPer distinct words each so tests can
// track exactly which words land in which chunk.
func numbered(n, wordsPer int) string {
	var b strings.Builder
	w := 0
	for i := 0; i < n; i++ {
		for j := 0; j < wordsPer; j++ {
			w++
			if j > 0 {
				b.WriteByte(' ')
			}
			fmt.Fprintf(&b, "w%d", w)
		}
		b.WriteString(". ")
	}
	return b.String()
}

func TestSentences(t *testing.T) {
	got := chunker.Sentences("Hello there. How are you? ঠিক আছে। Done")
	require.Len(t, got, 4)
	assert.Equal(t, "Hello there.", got[0])
	assert.Equal(t, "How are you?", got[1])
	assert.Equal(t, "ঠিক আছে।", got[2])
	assert.Equal(t, "Done", got[3])
}

func TestSentences_DecimalNotSplit(t *testing.T) {
	got := chunker.Sentences("Pi is 3.14 roughly. Next one.")
	require.Len(t, got, 2)
	assert.Equal(t, "Pi is 3.14 roughly.", got[0])
}

func TestSplit_Empty(t *testing.T) {
	assert.Nil(t, chunker.Split("   \n ", chunker.Config{}))
}

func TestSplit_SentenceMode_SizeBounds(t *testing.T) {
	cfg := chunker.Config{MinWords: 5, MaxWords: 10, Mode: chunker.ModeSentence}
	chunks := chunker.Split(numbered(6, 4), cfg)
	require.NotEmpty(t, chunks)
	for i, c := range chunks[:len(chunks)-1] {
		wc := chunker.WordCount(c)
		assert.GreaterOrEqual(t, wc, cfg.MinWords, "chunk %d", i)
		assert.LessOrEqual(t, wc, cfg.MaxWords, "chunk %d", i)
	}
}

func TestSplit_SentenceMode_TailMergesIntoPrevious(t *testing.T) {
	cfg := chunker.Config{MinWords: 5, MaxWords: 10, Mode: chunker.ModeSentence}
	chunks := chunker.Split(numbered(3, 4), cfg)
	require.Len(t, chunks, 1)
	assert.Equal(t, 12, chunker.WordCount(chunks[0]))
}

func TestSplit_SentenceMode_SoleUndersizedChunkKept(t *testing.T) {
	cfg := chunker.Config{MinWords: 50, MaxWords: 100, Mode: chunker.ModeSentence}
	chunks := chunker.Split("Only a few words here.", cfg)
	require.Len(t, chunks, 1)
	assert.Equal(t, "Only a few words here.", chunks[0])
}

func TestSplit_SentenceMode_OverlapSeedsNextChunk(t *testing.T) {
	cfg := chunker.Config{MinWords: 5, MaxWords: 10, OverlapWords: 2, Mode: chunker.ModeSentence}
	chunks := chunker.Split(numbered(6, 4), cfg)
	require.GreaterOrEqual(t, len(chunks), 2)

	first := strings.Fields(chunks[0])
	tail := strings.Join(first[len(first)-2:], " ")
	assert.True(t, strings.HasPrefix(chunks[1], tail),
		"second chunk should start with the last %d words of the first", cfg.OverlapWords)
}

func TestSplit_WordsMode(t *testing.T) {
	words := make([]string, 25)
	for i := range words {
		words[i] = fmt.Sprintf("w%d", i+1)
	}
	cfg := chunker.Config{MinWords: 2, MaxWords: 10, OverlapWords: 2, Mode: chunker.ModeWords}
	chunks := chunker.Split(strings.Join(words, " "), cfg)

	require.Len(t, chunks, 3)
	assert.Equal(t, 10, chunker.WordCount(chunks[0]))
	assert.Equal(t, 10, chunker.WordCount(chunks[1]))
	assert.True(t, strings.HasPrefix(chunks[1], "w9 w10"))
}

func TestSplit_WordsMode_ExactWindowBoundaryHasNoRemnant(t *testing.T) {
	words := make([]string, 18)
	for i := range words {
		words[i] = fmt.Sprintf("w%d", i+1)
	}
	cfg := chunker.Config{MinWords: 2, MaxWords: 10, OverlapWords: 2, Mode: chunker.ModeWords}
	chunks := chunker.Split(strings.Join(words, " "), cfg)

	// 18 words fill two windows exactly; the leftover overlap seed must not
	// become a third chunk repeating the previous tail.
	require.Len(t, chunks, 2)
	assert.True(t, strings.HasSuffix(chunks[1], "w17 w18"))
	for _, c := range chunks {
		assert.NotEqual(t, "w17 w18", c)
	}
}

func TestSplit_SentenceMode_ForceFlushAtEndHasNoRemnant(t *testing.T) {
	cfg := chunker.Config{MinWords: 5, MaxWords: 10, OverlapWords: 2, Mode: chunker.ModeSentence}
	// One 16-word sentence crosses the 1.5x hard stop and is flushed whole,
	// leaving only the overlap seed in the buffer at end of input.
	chunks := chunker.Split(numbered(1, 16), cfg)
	require.Len(t, chunks, 1)
	assert.Equal(t, 16, chunker.WordCount(chunks[0]))
}

func TestSplit_ChunkCap(t *testing.T) {
	cfg := chunker.Config{MinWords: 2, MaxWords: 5, MaxChunks: 2, Mode: chunker.ModeWords}
	chunks := chunker.Split(numbered(20, 4), cfg)
	assert.Len(t, chunks, 2)
}
