package models

import (
	"fmt"
	"time"
)

// ChunkMetadata is the typed scoping record stored alongside every vector.
// Every field is validated at construction; the vector store never sees an
// untyped metadata map.
type ChunkMetadata struct {
	ClassLevel   int       `json:"class_level"`
	Subject      string    `json:"subject"`
	ChapterID    string    `json:"chapter_id"`
	ChapterName  string    `json:"chapter_name"`
	BengaliName  string    `json:"bengali_name"`
	ChunkIndex   int       `json:"chunk_index"`
	WordCount    int       `json:"word_count"`
	PageEstimate int       `json:"page_estimate"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewChunkMetadata validates the scoping fields before the record can enter
// the pipeline.
func NewChunkMetadata(classLevel int, subject, chapterID string, chunkIndex int) (ChunkMetadata, error) {
	if classLevel <= 0 {
		return ChunkMetadata{}, fmt.Errorf("invalid class level: %d", classLevel)
	}
	if chapterID == "" {
		return ChunkMetadata{}, fmt.Errorf("empty chapter id")
	}
	if chunkIndex < 0 {
		return ChunkMetadata{}, fmt.Errorf("negative chunk index: %d", chunkIndex)
	}
	return ChunkMetadata{
		ClassLevel: classLevel,
		Subject:    subject,
		ChapterID:  chapterID,
		ChunkIndex: chunkIndex,
		CreatedAt:  time.Now(),
	}, nil
}

// ChunkID builds the deterministic composite vector id. The same
// (class, chapter, index) triple always yields the same id, which is what
// makes id-enumeration deletes possible.
func ChunkID(classLevel int, chapterID string, index int) string {
	return fmt.Sprintf("%d_%s_chunk_%d", classLevel, chapterID, index)
}

// ChapterChunk is one stored retrieval unit: the vector row plus its scope.
// Text holds the full chunk text; DisplayText the bounded copy returned by
// the search surface.
type ChapterChunk struct {
	ID          string        `json:"id"`
	Text        string        `json:"text"`
	DisplayText string        `json:"display_text"`
	Embedding   []float32     `json:"-"`
	Metadata    ChunkMetadata `json:"metadata"`
}

// ScopeFilter restricts similarity search and deletion to a subset of the
// index. ClassLevel is always required; Subject and ChapterID narrow further
// when non-zero.
type ScopeFilter struct {
	ClassLevel int
	Subject    string
	ChapterID  string
}

// Match is one ranked result from a similarity query. Score is cosine
// similarity in [0,1] (1 = identical direction).
type Match struct {
	ChunkID     string  `json:"chunk_id"`
	Score       float64 `json:"score"`
	Text        string  `json:"text"`
	ClassLevel  int     `json:"class_level"`
	Subject     string  `json:"subject"`
	ChapterID   string  `json:"chapter_id"`
	ChapterName string  `json:"chapter_name"`
	BengaliName string  `json:"bengali_name"`
	ChunkIndex  int     `json:"chunk_index"`
}

// IngestionRecord is the local, durable metadata for the last successful
// (or skipped) ingestion of one (class, chapter) key. One record per key,
// overwritten on each ingestion.
type IngestionRecord struct {
	Filename     string    `json:"filename"`
	LocalPath    string    `json:"local_path"`
	FileHash     string    `json:"file_hash"`
	ChunkCount   int       `json:"text_chunks_count"`
	UploadedAt   time.Time `json:"upload_date"`
	ArtifactURL  string    `json:"artifact_url,omitempty"`
	ArtifactPath string    `json:"artifact_path,omitempty"`
	ClassLevel   int       `json:"class_level"`
	Subject      string    `json:"subject"`
}

// IngestionAction is the orchestrator state taken for one upload attempt.
type IngestionAction string

const (
	ActionNew                 IngestionAction = "new"
	ActionIdenticalComplete   IngestionAction = "skipped_identical_file"
	ActionIdenticalIncomplete IngestionAction = "retried_artifact_publish"
	ActionContentChanged      IngestionAction = "replaced_changed_content"
	ActionForced              IngestionAction = "forced_reprocess"
)

// IngestionResult is the structured outcome returned to the caller. It must
// let the caller tell "nothing happened" from "partially happened" from
// "fully happened".
type IngestionResult struct {
	Success           bool            `json:"success"`
	Message           string          `json:"message"`
	Action            IngestionAction `json:"action"`
	ChunksCreated     int             `json:"chunks_created"`
	ChunksSkipped     int             `json:"chunks_skipped,omitempty"`
	DuplicateDetected bool            `json:"duplicate_detected"`
	FileHash          string          `json:"file_hash"`
	ArtifactPublished bool            `json:"student_download_ready"`
	ArtifactURL       string          `json:"artifact_url,omitempty"`
	ChapterID         string          `json:"chapter_id"`
	ClassLevel        int             `json:"class_level"`
}

// Answer is the composed RAG response.
type Answer struct {
	Text       string  `json:"answer"`
	Confidence float64 `json:"confidence"`
	UsedChunks []Match `json:"source_chunks"`
}
