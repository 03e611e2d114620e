package handlers

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/rahatk-dev/pathagar/internal/config"
	"github.com/rahatk-dev/pathagar/internal/core/catalog"
	"github.com/rahatk-dev/pathagar/internal/core/ingest"
	"github.com/rahatk-dev/pathagar/internal/models"
)

const maxUploadBytes = 52 << 20

type ChapterHandler struct {
	orchestrator *ingest.Orchestrator
	cfg          *config.Config
}

func NewChapterHandler(orch *ingest.Orchestrator, cfg *config.Config) *ChapterHandler {
	return &ChapterHandler{orchestrator: orch, cfg: cfg}
}

// UploadChapter accepts a multipart PDF plus class_level, chapter_id and an
// optional force flag, saves the file locally and runs the ingestion
// pipeline synchronously.
func (h *ChapterHandler) UploadChapter(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, &models.ValidationError{Field: "file", Reason: "invalid multipart form"})
		return
	}

	classLevel, err := strconv.Atoi(r.FormValue("class_level"))
	if err != nil {
		writeError(w, &models.ValidationError{Field: "class_level", Reason: "must be an integer"})
		return
	}
	chapterID := strings.TrimSpace(r.FormValue("chapter_id"))
	force, _ := strconv.ParseBool(r.FormValue("force"))

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, &models.ValidationError{Field: "file", Reason: "missing file"})
		return
	}
	defer file.Close()

	path, err := h.saveUpload(file, header.Filename)
	if err != nil {
		writeError(w, fmt.Errorf("save upload: %w", err))
		return
	}

	// The pipeline deletes prior chunks before writing new ones, so a client
	// disconnect must not cancel it mid-replace. Only the timeout bounds it.
	uploadCtx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), 10*time.Minute)
	defer cancel()

	res, err := h.orchestrator.Upload(uploadCtx, ingest.UploadRequest{
		FilePath:   path,
		Filename:   filepath.Base(header.Filename),
		ClassLevel: classLevel,
		ChapterID:  chapterID,
		Force:      force,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// saveUpload copies the multipart file into the local uploads directory
// under a fresh uuid name, so concurrent uploads never collide.
func (h *ChapterHandler) saveUpload(file io.Reader, filename string) (string, error) {
	dir := filepath.Join(h.cfg.DataDir, "uploads")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	name := uuid.NewString() + filepath.Ext(filepath.Base(filename))
	path := filepath.Join(dir, name)

	dst, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		_ = os.Remove(path)
		return "", err
	}
	return path, nil
}

// chapterListing is one catalog entry merged with its ingestion state.
type chapterListing struct {
	catalog.Chapter
	Uploaded    bool       `json:"uploaded"`
	ChunkCount  int        `json:"chunk_count,omitempty"`
	UploadedAt  *time.Time `json:"upload_date,omitempty"`
	ArtifactURL string     `json:"artifact_url,omitempty"`
}

// ListChapters returns the catalog for a class level annotated with which
// chapters have been ingested.
func (h *ChapterHandler) ListChapters(w http.ResponseWriter, r *http.Request) {
	classLevel, err := strconv.Atoi(chi.URLParam(r, "level"))
	if err != nil || !catalog.IsSupportedClass(classLevel) {
		writeError(w, &models.ValidationError{Field: "class_level", Reason: "unsupported class level"})
		return
	}

	records := h.orchestrator.Records().List(classLevel)
	chapters := catalog.ForClass(classLevel)

	out := make([]chapterListing, 0, len(chapters))
	for _, ch := range chapters {
		entry := chapterListing{Chapter: ch}
		if rec, ok := records[ch.ID]; ok {
			entry.Uploaded = true
			entry.ChunkCount = rec.ChunkCount
			t := rec.UploadedAt
			entry.UploadedAt = &t
			entry.ArtifactURL = rec.ArtifactURL
		}
		out = append(out, entry)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"class_level": classLevel,
		"subject":     catalog.DefaultSubject,
		"chapters":    out,
	})
}

// DeleteChapter removes a chapter's vectors, artifact and record.
func (h *ChapterHandler) DeleteChapter(w http.ResponseWriter, r *http.Request) {
	classLevel, err := strconv.Atoi(chi.URLParam(r, "level"))
	if err != nil {
		writeError(w, &models.ValidationError{Field: "class_level", Reason: "must be an integer"})
		return
	}
	chapterID := chi.URLParam(r, "chapterID")

	deleted, err := h.orchestrator.DeleteChapter(r.Context(), classLevel, chapterID)
	if err != nil {
		writeError(w, err)
		return
	}
	log.Printf("deleted chapter %s for class %d (%d chunks)", chapterID, classLevel, deleted)

	writeJSON(w, http.StatusOK, map[string]any{
		"success":        true,
		"class_level":    classLevel,
		"chapter_id":     chapterID,
		"chunks_deleted": deleted,
	})
}
