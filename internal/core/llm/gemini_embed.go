package llm

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/rahatk-dev/pathagar/internal/core"
	"github.com/rahatk-dev/pathagar/internal/models"
)

const (
	// inputs past this many bytes are truncated before submission; recall is
	// traded for request-size safety
	defaultTruncateChars = 4000
	defaultBatchSize     = 100
	embedRetries         = 2
)

type GeminiEmbedder struct {
	client        *genai.Client
	modelName     string
	truncateChars int
	batchSize     int
}

func NewGeminiEmbedder(ctx context.Context, apiKey, modelName string, truncateChars, batchSize int) (*GeminiEmbedder, error) {
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	cl, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	if modelName == "" {
		modelName = "text-embedding-004"
	}
	if truncateChars <= 0 {
		truncateChars = defaultTruncateChars
	}
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	return &GeminiEmbedder{
		client:        cl,
		modelName:     modelName,
		truncateChars: truncateChars,
		batchSize:     batchSize,
	}, nil
}

func (g *GeminiEmbedder) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}

func (g *GeminiEmbedder) truncate(t string) string {
	if len(t) > g.truncateChars {
		return t[:g.truncateChars]
	}
	return t
}

// EmbedTexts embeds texts in batches of at most batchSize per request. The
// result aligns 1:1 with texts; when a whole batch keeps failing after
// retries it falls back to per-item calls so one bad input cannot discard
// its siblings' embeddings, and items that still fail are left nil.
func (g *GeminiEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	em := g.client.EmbeddingModel(g.modelName)
	out := make([][]float32, len(texts))

	for start := 0; start < len(texts); start += g.batchSize {
		end := start + g.batchSize
		if end > len(texts) {
			end = len(texts)
		}

		vecs, err := g.embedBatch(ctx, em, texts[start:end])
		if err != nil {
			log.Printf("embed batch %d-%d failed after retries, falling back to per-item: %v", start, end, err)
			g.embedOneByOne(ctx, em, texts[start:end], out[start:end])
			continue
		}
		copy(out[start:end], vecs)
	}

	allFailed := true
	for _, v := range out {
		if v != nil {
			allFailed = false
			break
		}
	}
	if allFailed {
		return nil, &models.EmbeddingError{Err: fmt.Errorf("all %d texts failed to embed", len(texts))}
	}
	return out, nil
}

func (g *GeminiEmbedder) embedBatch(ctx context.Context, em *genai.EmbeddingModel, texts []string) ([][]float32, error) {
	var lastErr error
	for attempt := 0; attempt <= embedRetries; attempt++ {
		batch := em.NewBatch()
		for _, t := range texts {
			batch.AddContent(genai.Text(g.truncate(t)))
		}
		resp, err := em.BatchEmbedContents(ctx, batch)
		if err != nil {
			lastErr = err
			continue
		}
		if len(resp.Embeddings) != len(texts) {
			lastErr = fmt.Errorf("embedding count mismatch: got %d want %d", len(resp.Embeddings), len(texts))
			continue
		}
		out := make([][]float32, len(resp.Embeddings))
		for i, e := range resp.Embeddings {
			out[i] = e.Values
		}
		return out, nil
	}
	return nil, fmt.Errorf("gemini batch embed: %w", lastErr)
}

func (g *GeminiEmbedder) embedOneByOne(ctx context.Context, em *genai.EmbeddingModel, texts []string, out [][]float32) {
	for i, t := range texts {
		resp, err := em.EmbedContent(ctx, genai.Text(g.truncate(t)))
		if err != nil {
			log.Printf("embed item %d skipped: %v", i, err)
			continue
		}
		if resp.Embedding != nil {
			out[i] = resp.Embedding.Values
		}
	}
}

func (g *GeminiEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	em := g.client.EmbeddingModel(g.modelName)
	resp, err := em.EmbedContent(ctx, genai.Text(g.truncate(text)))
	if err != nil {
		return nil, &models.EmbeddingError{Err: fmt.Errorf("gemini embed query: %w", err)}
	}
	if resp.Embedding == nil {
		return nil, &models.EmbeddingError{Err: fmt.Errorf("gemini returned no embedding")}
	}
	return resp.Embedding.Values, nil
}

// Ping embeds a trivial string to verify the service is reachable.
func (g *GeminiEmbedder) Ping(ctx context.Context) error {
	_, err := g.EmbedQuery(ctx, "ping")
	return err
}

var _ core.EmbeddingProvider = (*GeminiEmbedder)(nil)
