package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rahatk-dev/pathagar/internal/core"
)

type StatusHandler struct {
	store    core.VectorStore
	embedder core.EmbeddingProvider
	objects  core.ObjectClient
}

func NewStatusHandler(store core.VectorStore, embedder core.EmbeddingProvider, objects core.ObjectClient) *StatusHandler {
	return &StatusHandler{store: store, embedder: embedder, objects: objects}
}

// Status probes the vector store, embedding service and object storage in
// parallel and reports per-backend reachability.
func (h *StatusHandler) Status(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	var mu sync.Mutex
	backends := map[string]string{}
	report := func(name string, err error) {
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			backends[name] = err.Error()
		} else {
			backends[name] = "ok"
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		report("vector_store", h.store.Ping(gctx))
		return nil
	})
	g.Go(func() error {
		report("embedding_service", h.embedder.Ping(gctx))
		return nil
	})
	g.Go(func() error {
		report("object_storage", h.objects.Ping(gctx))
		return nil
	})
	_ = g.Wait()

	ready := true
	for _, v := range backends {
		if v != "ok" {
			ready = false
		}
	}

	status := http.StatusOK
	if !ready {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, map[string]any{
		"ready":    ready,
		"backends": backends,
	})
}
