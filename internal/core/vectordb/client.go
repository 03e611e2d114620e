package vectordb

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/pgvector/pgvector-go"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/rahatk-dev/pathagar/internal/config"
	"github.com/rahatk-dev/pathagar/internal/core"
	"github.com/rahatk-dev/pathagar/internal/models"
)

const (
	deleteBatchSize = 100
	// the delete-requery loop is bounded so a store that keeps reporting
	// matches cannot spin forever
	maxDeleteIterations = 10
)

// Client stores chapter chunks and their embeddings in Postgres/pgvector.
type Client struct {
	db  *sql.DB
	dim int
}

func NewClient(ctx context.Context, cfg *config.Config) (core.VectorStore, error) {
	if cfg == nil {
		return nil, fmt.Errorf("vector store configuration is nil")
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is empty")
	}

	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)
	db.SetConnMaxIdleTime(10 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	if err := EnsureBootstrapped(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("bootstrap: %w", err)
	}

	return &Client{db: db, dim: cfg.EmbedDim}, nil
}

func (c *Client) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

func (c *Client) Ping(ctx context.Context) error {
	return c.db.PingContext(ctx)
}

// Upsert writes all chunks in one transaction. The deterministic id makes
// re-ingestion overwrite prior rows instead of accumulating duplicates.
func (c *Client) Upsert(ctx context.Context, chunks []models.ChapterChunk) error {
	if len(chunks) == 0 {
		return nil
	}
	tx, err := c.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return &models.VectorStoreError{Op: "upsert", Err: err}
	}

	const q = `
		INSERT INTO chapter_chunks
			(id, class_level, subject, chapter_id, chapter_name, bengali_name,
			 chunk_index, word_count, page_estimate, text, display_text, embedding, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, COALESCE($13, now()))
		ON CONFLICT (id) DO UPDATE SET
			class_level   = EXCLUDED.class_level,
			subject       = EXCLUDED.subject,
			chapter_id    = EXCLUDED.chapter_id,
			chapter_name  = EXCLUDED.chapter_name,
			bengali_name  = EXCLUDED.bengali_name,
			chunk_index   = EXCLUDED.chunk_index,
			word_count    = EXCLUDED.word_count,
			page_estimate = EXCLUDED.page_estimate,
			text          = EXCLUDED.text,
			display_text  = EXCLUDED.display_text,
			embedding     = EXCLUDED.embedding,
			created_at    = EXCLUDED.created_at
	`
	stmt, err := tx.PrepareContext(ctx, q)
	if err != nil {
		_ = tx.Rollback()
		return &models.VectorStoreError{Op: "upsert", Err: err}
	}
	defer stmt.Close()

	for i := range chunks {
		ch := &chunks[i]
		vec := pgvector.NewVector(ch.Embedding)
		if _, err := stmt.ExecContext(ctx,
			ch.ID, ch.Metadata.ClassLevel, ch.Metadata.Subject, ch.Metadata.ChapterID,
			ch.Metadata.ChapterName, ch.Metadata.BengaliName, ch.Metadata.ChunkIndex,
			ch.Metadata.WordCount, ch.Metadata.PageEstimate, ch.Text, ch.DisplayText,
			vec, ch.Metadata.CreatedAt,
		); err != nil {
			_ = tx.Rollback()
			return &models.VectorStoreError{Op: "upsert", Err: err}
		}
	}
	if err := tx.Commit(); err != nil {
		return &models.VectorStoreError{Op: "upsert", Err: err}
	}
	return nil
}

// filterClause renders the scope filter as a WHERE fragment. Args are
// numbered from nextArg.
func filterClause(filter models.ScopeFilter, nextArg int) (string, []any) {
	var conds []string
	var args []any
	if filter.ClassLevel > 0 {
		conds = append(conds, fmt.Sprintf("class_level = $%d", nextArg))
		args = append(args, filter.ClassLevel)
		nextArg++
	}
	if filter.Subject != "" {
		conds = append(conds, fmt.Sprintf("subject = $%d", nextArg))
		args = append(args, filter.Subject)
		nextArg++
	}
	if filter.ChapterID != "" {
		conds = append(conds, fmt.Sprintf("chapter_id = $%d", nextArg))
		args = append(args, filter.ChapterID)
		nextArg++
	}
	if len(conds) == 0 {
		return "TRUE", nil
	}
	return strings.Join(conds, " AND "), args
}

// Query runs a cosine top-k search scoped by filter. Score is reported as
// 1 - cosine distance so callers see similarity on a 0-1 scale.
func (c *Client) Query(ctx context.Context, vector []float32, topK int, filter models.ScopeFilter) ([]models.Match, error) {
	if topK <= 0 {
		topK = 5
	}
	where, args := filterClause(filter, 3)
	q := fmt.Sprintf(`
		SELECT id, display_text, class_level, subject, chapter_id,
		       chapter_name, bengali_name, chunk_index,
		       1 - (embedding <=> $1) AS similarity
		FROM chapter_chunks
		WHERE %s
		ORDER BY embedding <=> $1
		LIMIT $2
	`, where)

	vec := pgvector.NewVector(vector)
	all := append([]any{vec, topK}, args...)
	rows, err := c.db.QueryContext(ctx, q, all...)
	if err != nil {
		return nil, &models.VectorStoreError{Op: "query", Err: err}
	}
	defer rows.Close()

	var out []models.Match
	for rows.Next() {
		var m models.Match
		if err := rows.Scan(
			&m.ChunkID, &m.Text, &m.ClassLevel, &m.Subject, &m.ChapterID,
			&m.ChapterName, &m.BengaliName, &m.ChunkIndex, &m.Score,
		); err != nil {
			return nil, &models.VectorStoreError{Op: "query", Err: err}
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, &models.VectorStoreError{Op: "query", Err: err}
	}
	return out, nil
}

func (c *Client) DeleteByIDs(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}
	q := fmt.Sprintf(`DELETE FROM chapter_chunks WHERE id IN (%s)`, strings.Join(placeholders, ", "))
	if _, err := c.db.ExecContext(ctx, q, args...); err != nil {
		return &models.VectorStoreError{Op: "delete", Err: err}
	}
	return nil
}

// DeleteByFilter removes matching rows in bounded batches, requerying after
// each batch until nothing matches or the iteration cap is hit.
func (c *Client) DeleteByFilter(ctx context.Context, filter models.ScopeFilter) (int, error) {
	where, args := filterClause(filter, 2)
	q := fmt.Sprintf(`
		DELETE FROM chapter_chunks
		WHERE id IN (
			SELECT id FROM chapter_chunks WHERE %s LIMIT $1
		)
	`, where)

	total := 0
	for i := 0; i < maxDeleteIterations; i++ {
		all := append([]any{deleteBatchSize}, args...)
		res, err := c.db.ExecContext(ctx, q, all...)
		if err != nil {
			return total, &models.VectorStoreError{Op: "delete", Err: err}
		}
		n, err := res.RowsAffected()
		if err != nil {
			return total, &models.VectorStoreError{Op: "delete", Err: err}
		}
		total += int(n)
		if n < deleteBatchSize {
			return total, nil
		}
	}
	return total, nil
}

// HasChunks reuses the query path with a zero vector rather than adding a
// dedicated existence call; "no matches" is the only signal needed.
func (c *Client) HasChunks(ctx context.Context, filter models.ScopeFilter) (bool, error) {
	zero := make([]float32, c.dim)
	matches, err := c.Query(ctx, zero, 1, filter)
	if err != nil {
		return false, err
	}
	return len(matches) > 0, nil
}
