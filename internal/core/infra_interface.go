package core

import (
	"context"
	"io"

	"github.com/rahatk-dev/pathagar/internal/models"
)

// VectorStore abstracts the shared similarity index so higher layers never
// depend on a specific backend. Every stored vector carries the scoping
// metadata (class level, subject, chapter id), which is what makes filtered
// retrieval and deletion possible without a secondary index.
type VectorStore interface {
	// Upsert writes chunks in batches; an existing id is overwritten.
	Upsert(ctx context.Context, chunks []models.ChapterChunk) error

	// Query returns the top-k most similar chunks under the scope filter,
	// ranked by cosine similarity.
	Query(ctx context.Context, vector []float32, topK int, filter models.ScopeFilter) ([]models.Match, error)

	// DeleteByIDs removes vectors by exact id.
	DeleteByIDs(ctx context.Context, ids []string) error

	// DeleteByFilter removes every vector matching the scope filter in
	// bounded batches, returning the number deleted.
	DeleteByFilter(ctx context.Context, filter models.ScopeFilter) (int, error)

	// HasChunks reports whether any vector matches the scope filter.
	HasChunks(ctx context.Context, filter models.ScopeFilter) (bool, error)

	// Ping verifies the backend is reachable.
	Ping(ctx context.Context) error

	Close() error
}

// EmbeddingProvider turns chunk texts into fixed-dimension vectors.
type EmbeddingProvider interface {
	// EmbedTexts embeds a batch, truncating over-length inputs. The result
	// aligns 1:1 with texts; a nil entry marks an item that failed after
	// retries and must be excluded from the upsert.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)

	// EmbedQuery embeds a single query string.
	EmbedQuery(ctx context.Context, text string) ([]float32, error)

	Ping(ctx context.Context) error
}

// LLMProvider generates a grounded answer from a prompt pair.
type LLMProvider interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// ObjectClient defines interactions with S3 or any object storage used for
// artifact publication.
type ObjectClient interface {
	UploadFile(ctx context.Context, key string, data io.Reader, contentType string) (url string, err error)
	DeleteFile(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}

// PageText is one extracted page after cleanup.
type PageText struct {
	Number    int
	Text      string
	WordCount int
}

// PageExtractor reads a PDF and returns ordered, cleaned page texts bounded
// by the configured page cap.
type PageExtractor interface {
	ExtractPages(ctx context.Context, path string) ([]PageText, error)
}
