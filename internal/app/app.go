package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/rahatk-dev/pathagar/internal/config"
	"github.com/rahatk-dev/pathagar/internal/core"
	"github.com/rahatk-dev/pathagar/internal/core/chunker"
	"github.com/rahatk-dev/pathagar/internal/core/extract"
	"github.com/rahatk-dev/pathagar/internal/core/ingest"
	"github.com/rahatk-dev/pathagar/internal/core/llm"
	"github.com/rahatk-dev/pathagar/internal/core/objectstore"
	"github.com/rahatk-dev/pathagar/internal/core/vectordb"
	"github.com/rahatk-dev/pathagar/internal/services"
)

type App struct {
	Store        core.VectorStore
	ObjectClient core.ObjectClient
	Embedder     *llm.GeminiEmbedder
	LLM          *llm.GeminiLLM
	Orchestrator *ingest.Orchestrator
	Server       *Server
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	appCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	store, err := vectordb.NewClient(appCtx, cfg)
	if err != nil {
		return nil, err
	}
	log.Println("Vector store initialized and ready.")

	objClient, err := objectstore.NewS3Client(appCtx, cfg)
	if err != nil {
		return nil, err
	}
	log.Println("Object client initialized and ready.")

	embedder, err := llm.NewGeminiEmbedder(appCtx, cfg.AIAPIKey, cfg.EmbedModel, cfg.EmbedTruncate, cfg.EmbedBatch)
	if err != nil {
		return nil, fmt.Errorf("couldn't initialize the embedder, %w", err)
	}

	llmProvider, err := llm.NewGeminiLLM(appCtx, cfg.AIAPIKey, cfg.GenModel)
	if err != nil {
		return nil, fmt.Errorf("couldn't initialize the llm, %w", err)
	}

	records, err := ingest.OpenRecordStore(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("open record store: %w", err)
	}

	orchestrator := ingest.NewOrchestrator(ingest.Options{
		Store:     store,
		Embedder:  embedder,
		Objects:   objClient,
		Extractor: extract.NewPDFExtractor(cfg.MaxPages),
		Records:   records,
		ChunkConfig: chunker.Config{
			MinWords:     cfg.ChunkMinWords,
			MaxWords:     cfg.ChunkMaxWords,
			OverlapWords: cfg.ChunkOverlapWords,
			MaxChunks:    cfg.MaxChunks,
			Mode:         chunker.Mode(cfg.ChunkMode),
		},
		AutoReplace: cfg.AutoReplace,
	})

	answerService := services.NewAnswerService(store, embedder, llmProvider)

	server := NewServer(cfg, store, objClient, embedder, orchestrator, answerService)

	return &App{
		Store:        store,
		ObjectClient: objClient,
		Embedder:     embedder,
		LLM:          llmProvider,
		Orchestrator: orchestrator,
		Server:       server,
	}, nil
}

func (a *App) Close() {
	if a.Store != nil {
		_ = a.Store.Close()
	}
	if a.Embedder != nil {
		_ = a.Embedder.Close()
	}
	if a.LLM != nil {
		_ = a.LLM.Close()
	}
}
