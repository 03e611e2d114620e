package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rahatk-dev/pathagar/internal/models"
)

type stubStore struct {
	matches    []models.Match
	lastFilter models.ScopeFilter
	lastTopK   int
}

func (s *stubStore) Upsert(context.Context, []models.ChapterChunk) error { return nil }

func (s *stubStore) Query(_ context.Context, _ []float32, topK int, filter models.ScopeFilter) ([]models.Match, error) {
	s.lastFilter = filter
	s.lastTopK = topK
	return s.matches, nil
}

func (s *stubStore) DeleteByIDs(context.Context, []string) error { return nil }
func (s *stubStore) DeleteByFilter(context.Context, models.ScopeFilter) (int, error) {
	return 0, nil
}
func (s *stubStore) HasChunks(context.Context, models.ScopeFilter) (bool, error) {
	return len(s.matches) > 0, nil
}
func (s *stubStore) Ping(context.Context) error { return nil }
func (s *stubStore) Close() error               { return nil }

type stubEmbedder struct{}

func (stubEmbedder) EmbedTexts(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range out {
		out[i] = []float32{1, 0}
	}
	return out, nil
}
func (stubEmbedder) EmbedQuery(context.Context, string) ([]float32, error) {
	return []float32{1, 0}, nil
}
func (stubEmbedder) Ping(context.Context) error { return nil }

type stubLLM struct {
	lastSystem string
	lastPrompt string
}

func (l *stubLLM) Generate(_ context.Context, systemPrompt, userPrompt string) (string, error) {
	l.lastSystem = systemPrompt
	l.lastPrompt = userPrompt
	return "Rational numbers can be written as fractions.", nil
}

func TestSearch_BuildsScopeFilter(t *testing.T) {
	store := &stubStore{matches: []models.Match{{ChunkID: "9_real_numbers_chunk_0", Score: 0.8}}}
	svc := NewAnswerService(store, stubEmbedder{}, &stubLLM{})

	got, err := svc.Search(context.Background(), SearchRequest{
		Query:      "what is a rational number",
		ClassLevel: 9,
		Subject:    "Mathematics",
		ChapterID:  "real_numbers",
		TopK:       3,
	})
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.Equal(t, 9, store.lastFilter.ClassLevel)
	assert.Equal(t, "Mathematics", store.lastFilter.Subject)
	assert.Equal(t, "real_numbers", store.lastFilter.ChapterID)
	assert.Equal(t, 3, store.lastTopK)
}

func TestSearch_RejectsBadInput(t *testing.T) {
	svc := NewAnswerService(&stubStore{}, stubEmbedder{}, &stubLLM{})

	var verr *models.ValidationError
	_, err := svc.Search(context.Background(), SearchRequest{Query: "  ", ClassLevel: 9})
	require.ErrorAs(t, err, &verr)

	_, err = svc.Search(context.Background(), SearchRequest{Query: "sets", ClassLevel: 6})
	require.ErrorAs(t, err, &verr)
}

func TestAnswer_NoMatchesReturnsNotCovered(t *testing.T) {
	svc := NewAnswerService(&stubStore{}, stubEmbedder{}, &stubLLM{})

	ans, err := svc.Answer(context.Background(), SearchRequest{Query: "quantum physics", ClassLevel: 9})
	require.NoError(t, err)

	assert.Equal(t, NotCoveredMessage, ans.Text)
	assert.Equal(t, 0.0, ans.Confidence)
	assert.Empty(t, ans.UsedChunks)
}

func TestAnswer_ConfidenceIsMeanSimilarity(t *testing.T) {
	store := &stubStore{matches: []models.Match{
		{ChunkID: "9_real_numbers_chunk_0", Score: 0.9, Text: "Rational numbers are ratios.", ChapterID: "real_numbers"},
		{ChunkID: "9_real_numbers_chunk_1", Score: 0.7, Text: "Irrational numbers are not.", ChapterID: "real_numbers"},
	}}
	llm := &stubLLM{}
	svc := NewAnswerService(store, stubEmbedder{}, llm)

	ans, err := svc.Answer(context.Background(), SearchRequest{Query: "rational numbers", ClassLevel: 9})
	require.NoError(t, err)

	assert.InDelta(t, 0.8, ans.Confidence, 1e-9)
	assert.Len(t, ans.UsedChunks, 2)
	assert.NotEmpty(t, ans.Text)

	// the generation request carries the retrieved grounding
	assert.Contains(t, llm.lastPrompt, "Rational numbers are ratios.")
	assert.Contains(t, llm.lastPrompt, "rational numbers")
	assert.Contains(t, llm.lastSystem, "ONLY")
}
