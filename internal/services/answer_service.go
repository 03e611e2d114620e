package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rahatk-dev/pathagar/internal/core"
	"github.com/rahatk-dev/pathagar/internal/core/catalog"
	"github.com/rahatk-dev/pathagar/internal/models"
)

const (
	answerTopK      = 5
	defaultTopK     = 5
	maxTopK         = 20
	maxContextChars = 8000

	// NotCoveredMessage is the fixed response when retrieval finds nothing.
	// The system never fabricates an answer without retrieved grounding.
	NotCoveredMessage = "This topic is not covered in your textbook chapters. Please check with your teacher or try a different question."
)

const tutorSystemPrompt = `You are a patient tutor for Bangladeshi secondary school students studying the NCTB mathematics curriculum.
Answer the student's question using ONLY the textbook excerpts provided in the context.
If the context does not contain the answer, say the textbook does not cover it.
Keep explanations simple and step by step. Answer in the language the question was asked in.`

// SearchRequest scopes a similarity search. ClassLevel is required; Subject
// and ChapterID narrow the scope when set.
type SearchRequest struct {
	Query      string
	ClassLevel int
	Subject    string
	ChapterID  string
	TopK       int
}

// AnswerService embeds queries, retrieves scoped chunks and composes
// grounded answers.
type AnswerService struct {
	store    core.VectorStore
	embedder core.EmbeddingProvider
	llm      core.LLMProvider
}

func NewAnswerService(store core.VectorStore, embedder core.EmbeddingProvider, llm core.LLMProvider) *AnswerService {
	return &AnswerService{store: store, embedder: embedder, llm: llm}
}

func (s *AnswerService) validate(req SearchRequest) error {
	if strings.TrimSpace(req.Query) == "" {
		return &models.ValidationError{Field: "query", Reason: "empty query"}
	}
	if !catalog.IsSupportedClass(req.ClassLevel) {
		return &models.ValidationError{Field: "class_level", Reason: fmt.Sprintf("unsupported class level %d", req.ClassLevel)}
	}
	return nil
}

// Search embeds the query and returns the vector store's ranked matches
// under the request's scope filter.
func (s *AnswerService) Search(ctx context.Context, req SearchRequest) ([]models.Match, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}
	topK := req.TopK
	if topK <= 0 {
		topK = defaultTopK
	}
	if topK > maxTopK {
		topK = maxTopK
	}

	vec, err := s.embedder.EmbedQuery(ctx, req.Query)
	if err != nil {
		return nil, err
	}

	return s.store.Query(ctx, vec, topK, models.ScopeFilter{
		ClassLevel: req.ClassLevel,
		Subject:    req.Subject,
		ChapterID:  req.ChapterID,
	})
}

// Answer retrieves grounding for the question and issues one generation
// request over the retrieved context. Confidence is the mean of the matched
// chunks' similarity scores, a documented heuristic rather than a calibrated
// probability.
func (s *AnswerService) Answer(ctx context.Context, req SearchRequest) (models.Answer, error) {
	req.TopK = answerTopK
	matches, err := s.Search(ctx, req)
	if err != nil {
		return models.Answer{}, err
	}

	if len(matches) == 0 {
		return models.Answer{
			Text:       NotCoveredMessage,
			Confidence: 0.0,
			UsedChunks: []models.Match{},
		}, nil
	}

	var b strings.Builder
	for i, m := range matches {
		excerpt := fmt.Sprintf("[Excerpt %d, chapter: %s]\n%s\n\n", i+1, m.ChapterID, m.Text)
		if b.Len()+len(excerpt) > maxContextChars {
			break
		}
		b.WriteString(excerpt)
	}

	prompt := fmt.Sprintf("Context from the textbook:\n\n%sStudent question: %s", b.String(), req.Query)
	text, err := s.llm.Generate(ctx, tutorSystemPrompt, prompt)
	if err != nil {
		return models.Answer{}, fmt.Errorf("generate answer: %w", err)
	}

	sum := 0.0
	for _, m := range matches {
		sum += m.Score
	}

	return models.Answer{
		Text:       text,
		Confidence: sum / float64(len(matches)),
		UsedChunks: matches,
	}, nil
}
