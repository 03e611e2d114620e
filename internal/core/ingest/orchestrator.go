package ingest

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/rahatk-dev/pathagar/internal/core"
	"github.com/rahatk-dev/pathagar/internal/core/catalog"
	"github.com/rahatk-dev/pathagar/internal/core/chunker"
	"github.com/rahatk-dev/pathagar/internal/core/extract"
	"github.com/rahatk-dev/pathagar/internal/core/fingerprint"
	"github.com/rahatk-dev/pathagar/internal/models"
)

const displayTextLimit = 500

// UploadRequest describes one chapter upload. FilePath points at the
// already-saved temporary copy of the PDF.
type UploadRequest struct {
	FilePath   string
	Filename   string
	ClassLevel int
	ChapterID  string
	Force      bool
}

// Options wires the orchestrator's collaborators and policies.
type Options struct {
	Store     core.VectorStore
	Embedder  core.EmbeddingProvider
	Objects   core.ObjectClient
	Extractor core.PageExtractor
	Records   *RecordStore

	ChunkConfig chunker.Config
	Subject     string
	// AutoReplace lets a content-changed upload proceed without the force
	// flag. Off by default: silently destroying prior embeddings on an
	// unconfirmed change is a correctness risk.
	AutoReplace bool
}

// Orchestrator conducts the ingestion pipeline and owns the chunk lifecycle
// for every (class, chapter) key.
type Orchestrator struct {
	store     core.VectorStore
	embedder  core.EmbeddingProvider
	objects   core.ObjectClient
	extractor core.PageExtractor
	records   *RecordStore
	locks     *keyLock

	chunkCfg    chunker.Config
	subject     string
	autoReplace bool
}

func NewOrchestrator(opts Options) *Orchestrator {
	subject := opts.Subject
	if subject == "" {
		subject = catalog.DefaultSubject
	}
	return &Orchestrator{
		store:       opts.Store,
		embedder:    opts.Embedder,
		objects:     opts.Objects,
		extractor:   opts.Extractor,
		records:     opts.Records,
		locks:       newKeyLock(),
		chunkCfg:    opts.ChunkConfig,
		subject:     subject,
		autoReplace: opts.AutoReplace,
	}
}

// Records exposes the ingestion record store for the listing surface.
func (o *Orchestrator) Records() *RecordStore {
	return o.records
}

// ArtifactKey is the deterministic object-storage path for a chapter PDF.
// Re-ingestion always overwrites the same path, never accumulates versions.
func ArtifactKey(classLevel int, chapterID string) string {
	return fmt.Sprintf("chapters/class_%d/%s.pdf", classLevel, chapterID)
}

func lockKey(classLevel int, chapterID string) string {
	return fmt.Sprintf("%d/%s", classLevel, chapterID)
}

// Upload runs the ingestion state machine for one chapter PDF.
func (o *Orchestrator) Upload(ctx context.Context, req UploadRequest) (models.IngestionResult, error) {
	res := models.IngestionResult{
		ChapterID:  req.ChapterID,
		ClassLevel: req.ClassLevel,
	}

	// Catalog validation fails fast, before any file I/O.
	if !catalog.IsSupportedClass(req.ClassLevel) {
		return res, &models.ValidationError{Field: "class_level", Reason: fmt.Sprintf("unsupported class level %d", req.ClassLevel)}
	}
	if !catalog.IsValidForClass(req.ChapterID, req.ClassLevel) {
		return res, &models.ValidationError{Field: "chapter_id", Reason: fmt.Sprintf("chapter %q is not valid for class %d", req.ChapterID, req.ClassLevel)}
	}
	if req.FilePath == "" {
		return res, &models.ValidationError{Field: "file", Reason: "missing file"}
	}

	hash, err := fingerprint.File(req.FilePath)
	if err != nil {
		return res, &models.ValidationError{Field: "file", Reason: fmt.Sprintf("unreadable file: %v", err)}
	}
	res.FileHash = hash

	unlock := o.locks.Lock(lockKey(req.ClassLevel, req.ChapterID))
	defer unlock()

	prev, hasPrev := o.records.Get(req.ClassLevel, req.ChapterID)

	switch {
	case hasPrev && prev.FileHash == hash && !req.Force:
		res.DuplicateDetected = true
		if prev.ArtifactURL != "" {
			// Identical bytes, artifact already published: nothing to do.
			// This path must stay O(1) in document size.
			res.Success = true
			res.Action = models.ActionIdenticalComplete
			res.ChunksCreated = prev.ChunkCount
			res.ArtifactPublished = true
			res.ArtifactURL = prev.ArtifactURL
			res.Message = fmt.Sprintf("Identical file already ingested (%d chunks); skipped reprocessing", prev.ChunkCount)
			return res, nil
		}
		return o.retryArtifact(ctx, req, prev, res)

	case hasPrev && prev.FileHash != hash && !req.Force && !o.autoReplace:
		res.DuplicateDetected = true
		res.Message = "Chapter content changed; re-upload with force to replace"
		return res, &models.ConfirmationRequiredError{ExistingHash: prev.FileHash, NewHash: hash}

	case hasPrev && req.Force:
		res.Action = models.ActionForced
	case hasPrev:
		res.Action = models.ActionContentChanged
	default:
		res.Action = models.ActionNew
	}

	return o.fullProcess(ctx, req, hasPrev, res)
}

// retryArtifact handles the identical-but-incomplete case: the bytes match
// the prior ingestion but the artifact was never published. Only the
// publication step is retried; text is never reprocessed.
func (o *Orchestrator) retryArtifact(ctx context.Context, req UploadRequest, prev models.IngestionRecord, res models.IngestionResult) (models.IngestionResult, error) {
	res.Action = models.ActionIdenticalIncomplete
	res.ChunksCreated = prev.ChunkCount

	url, err := o.publishArtifact(ctx, req)
	if err != nil {
		log.Printf("artifact retry failed for class %d %s: %v", req.ClassLevel, req.ChapterID, err)
		res.Success = true
		res.Message = "Chapter already ingested but the download copy is still unavailable"
		return res, nil
	}

	prev.ArtifactURL = url
	prev.ArtifactPath = ArtifactKey(req.ClassLevel, req.ChapterID)
	if err := o.records.Put(req.ClassLevel, req.ChapterID, prev); err != nil {
		return res, fmt.Errorf("persist record: %w", err)
	}

	res.Success = true
	res.ArtifactPublished = true
	res.ArtifactURL = url
	res.Message = "Chapter already ingested; download copy published"
	return res, nil
}

// fullProcess runs extract -> chunk -> embed -> upsert -> record -> publish.
// The caller holds the per-key lock.
func (o *Orchestrator) fullProcess(ctx context.Context, req UploadRequest, hadPrev bool, res models.IngestionResult) (models.IngestionResult, error) {
	filter := models.ScopeFilter{
		ClassLevel: req.ClassLevel,
		Subject:    o.subject,
		ChapterID:  req.ChapterID,
	}

	// Replacement deletes first. A delete failure aborts rather than
	// writing possibly-duplicate vectors next to stale ones.
	wiped := false
	if hadPrev {
		deleted, err := o.store.DeleteByFilter(ctx, filter)
		if err != nil {
			return res, err
		}
		wiped = true
		if deleted > 0 {
			log.Printf("deleted %d prior chunks for class %d %s", deleted, req.ClassLevel, req.ChapterID)
		}
	} else if exists, err := o.store.HasChunks(ctx, filter); err == nil && exists {
		// record file lost but vectors present; clear them anyway
		if _, err := o.store.DeleteByFilter(ctx, filter); err != nil {
			return res, err
		}
		wiped = true
	}

	out, err := o.runPipeline(ctx, req, res)
	if err != nil && wiped && hadPrev {
		// The prior chunks are gone. The old record must not survive to
		// short-circuit the next identical upload against an empty index.
		if derr := o.records.Delete(req.ClassLevel, req.ChapterID); derr != nil {
			log.Printf("clear stale record for class %d %s: %v", req.ClassLevel, req.ChapterID, derr)
		}
	}
	return out, err
}

// runPipeline is the extract -> chunk -> embed -> upsert -> record ->
// publish sequence, entered only after any prior chunk set was cleared.
func (o *Orchestrator) runPipeline(ctx context.Context, req UploadRequest, res models.IngestionResult) (models.IngestionResult, error) {
	pages, err := o.extractor.ExtractPages(ctx, req.FilePath)
	if err != nil {
		return res, err
	}
	text := extract.JoinPages(pages)
	if text == "" {
		return res, &models.ExtractionError{Err: fmt.Errorf("no extractable text in %s", req.Filename)}
	}

	// Single-chapter uploads carry their scope, so segmentation takes the
	// known-title branch and treats the whole document as one chapter.
	entry, _ := catalog.Get(req.ChapterID)
	segments, _ := extract.SegmentChapters(text, entry.EnglishName)
	text = segments[0].Content

	chunks := chunker.Split(text, o.chunkCfg)
	if len(chunks) == 0 {
		return res, &models.ExtractionError{Err: fmt.Errorf("chunking produced no output for %s", req.Filename)}
	}

	vectors, err := o.embedder.EmbedTexts(ctx, chunks)
	if err != nil {
		return res, err
	}

	rows := make([]models.ChapterChunk, 0, len(chunks))
	skipped := 0
	offset := 0
	for i, chunk := range chunks {
		page := extract.EstimatePage(offset, pages)
		offset += len(chunk) + 1
		if vectors[i] == nil {
			skipped++
			continue
		}
		meta, err := models.NewChunkMetadata(req.ClassLevel, o.subject, req.ChapterID, i)
		if err != nil {
			return res, err
		}
		meta.ChapterName = entry.EnglishName
		meta.BengaliName = entry.Name
		meta.WordCount = chunker.WordCount(chunk)
		meta.PageEstimate = page

		display := chunk
		if len(display) > displayTextLimit {
			display = display[:displayTextLimit]
		}
		rows = append(rows, models.ChapterChunk{
			ID:          models.ChunkID(req.ClassLevel, req.ChapterID, i),
			Text:        chunk,
			DisplayText: display,
			Embedding:   vectors[i],
			Metadata:    meta,
		})
	}
	if len(rows) == 0 {
		return res, &models.EmbeddingError{Err: fmt.Errorf("no chunks could be embedded for %s", req.Filename)}
	}

	if err := o.store.Upsert(ctx, rows); err != nil {
		return res, err
	}

	// The record is written only after the vector store accepted the rows,
	// so a crash mid-ingestion leaves the previous record intact.
	rec := models.IngestionRecord{
		Filename:   req.Filename,
		LocalPath:  req.FilePath,
		FileHash:   res.FileHash,
		ChunkCount: len(rows),
		UploadedAt: time.Now(),
		ClassLevel: req.ClassLevel,
		Subject:    o.subject,
	}
	if err := o.records.Put(req.ClassLevel, req.ChapterID, rec); err != nil {
		return res, fmt.Errorf("persist record: %w", err)
	}

	res.Success = true
	res.ChunksCreated = len(rows)
	res.ChunksSkipped = skipped
	res.Message = fmt.Sprintf("Ingested %d chunks for class %d %s", len(rows), req.ClassLevel, req.ChapterID)

	// Artifact publication failure is a distinct sub-state, never a
	// pipeline failure: the chapter is searchable but not downloadable.
	url, err := o.publishArtifact(ctx, req)
	if err != nil {
		log.Printf("artifact publish failed for class %d %s: %v", req.ClassLevel, req.ChapterID, err)
		res.Message += " (download copy unavailable)"
		return res, nil
	}
	rec.ArtifactURL = url
	rec.ArtifactPath = ArtifactKey(req.ClassLevel, req.ChapterID)
	if err := o.records.Put(req.ClassLevel, req.ChapterID, rec); err != nil {
		return res, fmt.Errorf("persist record: %w", err)
	}
	res.ArtifactPublished = true
	res.ArtifactURL = url
	return res, nil
}

func (o *Orchestrator) publishArtifact(ctx context.Context, req UploadRequest) (string, error) {
	f, err := os.Open(req.FilePath)
	if err != nil {
		return "", &models.ArtifactPublishError{Path: req.FilePath, Err: err}
	}
	defer f.Close()

	key := ArtifactKey(req.ClassLevel, req.ChapterID)
	return o.objects.UploadFile(ctx, key, f, "application/pdf")
}

// DeleteChapter removes a chapter's vectors, its published artifact, and its
// ingestion record.
func (o *Orchestrator) DeleteChapter(ctx context.Context, classLevel int, chapterID string) (int, error) {
	if !catalog.IsSupportedClass(classLevel) {
		return 0, &models.ValidationError{Field: "class_level", Reason: fmt.Sprintf("unsupported class level %d", classLevel)}
	}

	unlock := o.locks.Lock(lockKey(classLevel, chapterID))
	defer unlock()

	deleted, err := o.store.DeleteByFilter(ctx, models.ScopeFilter{
		ClassLevel: classLevel,
		Subject:    o.subject,
		ChapterID:  chapterID,
	})
	if err != nil {
		return deleted, err
	}

	if err := o.objects.DeleteFile(ctx, ArtifactKey(classLevel, chapterID)); err != nil {
		log.Printf("artifact delete failed for class %d %s: %v", classLevel, chapterID, err)
	}

	if err := o.records.Delete(classLevel, chapterID); err != nil {
		return deleted, fmt.Errorf("delete record: %w", err)
	}
	return deleted, nil
}
