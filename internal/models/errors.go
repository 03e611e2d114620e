package models

import "fmt"

// ValidationError rejects bad input before any I/O is performed.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Reason)
}

// ExtractionError means the PDF could not be parsed. Ingestion aborts with
// no partial state written.
type ExtractionError struct {
	Err error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("pdf extraction failed: %v", e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// EmbeddingError is returned when embedding fails for every chunk of a
// document; per-chunk failures are skipped and reported, not raised.
type EmbeddingError struct {
	Err error
}

func (e *EmbeddingError) Error() string {
	return fmt.Sprintf("embedding failed: %v", e.Err)
}

func (e *EmbeddingError) Unwrap() error { return e.Err }

// VectorStoreError wraps upsert/delete/query failures from the index.
type VectorStoreError struct {
	Op  string
	Err error
}

func (e *VectorStoreError) Error() string {
	return fmt.Sprintf("vector store %s failed: %v", e.Op, e.Err)
}

func (e *VectorStoreError) Unwrap() error { return e.Err }

// ArtifactPublishError reports an object-storage upload failure. It never
// aborts an ingestion; the result carries it as a reduced success sub-state.
type ArtifactPublishError struct {
	Path string
	Err  error
}

func (e *ArtifactPublishError) Error() string {
	return fmt.Sprintf("artifact publish to %s failed: %v", e.Path, e.Err)
}

func (e *ArtifactPublishError) Unwrap() error { return e.Err }

// ConfirmationRequiredError signals that the uploaded content differs from
// what was last ingested and the caller did not set force. Both fingerprints
// are carried so the caller can confirm deliberately.
type ConfirmationRequiredError struct {
	ExistingHash string
	NewHash      string
}

func (e *ConfirmationRequiredError) Error() string {
	return fmt.Sprintf("content changed (stored %.8s..., uploaded %.8s...): re-upload with force to replace",
		e.ExistingHash, e.NewHash)
}
