// Package chunker splits normalized chapter text into overlapping,
// word-bounded chunks that serve as the retrieval unit for embedding
// and similarity search.
package chunker

import (
	"strings"
	"unicode"
)

// Mode selects the splitting discipline used for an ingestion.
type Mode string

const (
	// ModeSentence packs whole sentences greedily between the min and max
	// word bounds. Preferred for whole-book and chapter uploads where
	// sentence boundaries survive extraction.
	ModeSentence Mode = "sentence"

	// ModeWords packs a fixed word window with a carried-forward overlap,
	// ignoring sentence boundaries.
	ModeWords Mode = "words"
)

const (
	DefaultMinWords     = 300
	DefaultMaxWords     = 800
	DefaultOverlapWords = 50
	DefaultMaxChunks    = 50
)

// Config carries the chunking bounds, all counted in words.
type Config struct {
	MinWords     int
	MaxWords     int
	OverlapWords int
	MaxChunks    int
	Mode         Mode
}

func (c Config) withDefaults() Config {
	if c.MinWords <= 0 {
		c.MinWords = DefaultMinWords
	}
	if c.MaxWords <= c.MinWords {
		c.MaxWords = c.MinWords * 2
	}
	if c.OverlapWords < 0 {
		c.OverlapWords = 0
	}
	if c.OverlapWords >= c.MaxWords {
		c.OverlapWords = c.MaxWords / 4
	}
	if c.MaxChunks <= 0 {
		c.MaxChunks = DefaultMaxChunks
	}
	if c.Mode == "" {
		c.Mode = ModeSentence
	}
	return c
}

// Split divides text into chunks according to cfg. The result is capped at
// cfg.MaxChunks; text beyond the cap is dropped rather than erroring, since
// a bounded chunk set matters more than completeness for very large inputs.
func Split(text string, cfg Config) []string {
	cfg = cfg.withDefaults()
	if strings.TrimSpace(text) == "" {
		return nil
	}
	var chunks []string
	switch cfg.Mode {
	case ModeWords:
		chunks = wordWindow(text, cfg)
	default:
		chunks = sentencePack(text, cfg)
	}
	if len(chunks) > cfg.MaxChunks {
		chunks = chunks[:cfg.MaxChunks]
	}
	return chunks
}

// WordCount reports the number of whitespace-separated tokens in s.
func WordCount(s string) int {
	return len(strings.Fields(s))
}

// sentenceTerminators includes the Bengali danda alongside the usual
// Latin sentence enders, since the corpus is NCTB Bengali/English text.
func isSentenceTerminator(r rune) bool {
	switch r {
	case '.', '!', '?', '।': // । danda
		return true
	}
	return false
}

// Sentences splits text at terminator runs followed by whitespace. A final
// fragment without a terminator is kept as its own sentence.
func Sentences(text string) []string {
	var out []string
	runes := []rune(text)
	start := 0
	for i := 0; i < len(runes); i++ {
		if !isSentenceTerminator(runes[i]) {
			continue
		}
		// absorb the terminator run (e.g. "?!", "...")
		j := i
		for j+1 < len(runes) && isSentenceTerminator(runes[j+1]) {
			j++
		}
		if j+1 < len(runes) && !unicode.IsSpace(runes[j+1]) {
			// mid-token period, likely a decimal or abbreviation
			i = j
			continue
		}
		s := strings.TrimSpace(string(runes[start : j+1]))
		if s != "" {
			out = append(out, s)
		}
		start = j + 1
		i = j
	}
	if start < len(runes) {
		if s := strings.TrimSpace(string(runes[start:])); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// sentencePack accumulates sentences greedily. A buffer is flushed once
// adding the next sentence would push it past MaxWords, provided it already
// holds MinWords; an undersized buffer keeps absorbing sentences even past
// MaxWords until it reaches the minimum, with a hard stop at 1.5x MaxWords
// so a single run-on region cannot produce an unbounded chunk.
func sentencePack(text string, cfg Config) []string {
	sentences := Sentences(text)
	if len(sentences) == 0 {
		return nil
	}

	forceLimit := cfg.MaxWords + cfg.MaxWords/2
	var chunks []string
	var buf []string // words
	fresh := false   // buf holds words not yet emitted in a chunk

	flush := func() {
		chunks = append(chunks, strings.Join(buf, " "))
		if cfg.OverlapWords > 0 && len(buf) > cfg.OverlapWords {
			seed := make([]string, cfg.OverlapWords)
			copy(seed, buf[len(buf)-cfg.OverlapWords:])
			buf = seed
		} else {
			buf = nil
		}
		fresh = false
	}

	for _, sentence := range sentences {
		words := strings.Fields(sentence)
		if len(words) == 0 {
			continue
		}
		if len(buf)+len(words) > cfg.MaxWords && len(buf) >= cfg.MinWords {
			flush()
		}
		buf = append(buf, words...)
		fresh = true
		if len(buf) > forceLimit {
			flush()
		}
	}

	// A buffer holding only the carried overlap seed has already been
	// emitted in full; flushing it again would duplicate the tail.
	if len(buf) > 0 && fresh {
		if len(buf) >= cfg.MinWords || len(chunks) == 0 {
			chunks = append(chunks, strings.Join(buf, " "))
		} else {
			// undersized tail folds into its predecessor
			chunks[len(chunks)-1] += " " + strings.Join(buf, " ")
		}
	}
	return chunks
}

// wordWindow packs MaxWords-sized windows and carries the trailing
// OverlapWords words into the next window.
func wordWindow(text string, cfg Config) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var chunks []string
	var buf []string
	fresh := false
	for _, word := range words {
		buf = append(buf, word)
		fresh = true
		if len(buf) < cfg.MaxWords {
			continue
		}
		chunks = append(chunks, strings.Join(buf, " "))
		if len(chunks) >= cfg.MaxChunks {
			return chunks
		}
		if cfg.OverlapWords > 0 {
			seed := make([]string, cfg.OverlapWords)
			copy(seed, buf[len(buf)-cfg.OverlapWords:])
			buf = seed
		} else {
			buf = nil
		}
		fresh = false
	}
	// An input ending exactly on a window boundary leaves only the overlap
	// seed behind; that text is already in the last chunk.
	if len(buf) > 0 && fresh {
		tail := strings.Join(buf, " ")
		if len(chunks) > 0 && len(buf) < cfg.MinWords {
			chunks[len(chunks)-1] += " " + tail
		} else {
			chunks = append(chunks, tail)
		}
	}
	return chunks
}
