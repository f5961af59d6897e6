package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"candidate-rag/internal/config"
	"candidate-rag/internal/embedding"
	"candidate-rag/internal/identity"
	"candidate-rag/internal/ingest"
	"candidate-rag/internal/llm"
	"candidate-rag/internal/registry"
	"candidate-rag/internal/server"
	"candidate-rag/internal/service"
	"candidate-rag/internal/vectordb"
)

const configFilePath = "./configs/config.yaml"

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).With().Caller().Logger()

	configPath := flag.String("config", configFilePath, "Path to the config file")
	ingestPath := flag.String("ingest", "", "Ingest a document file or directory of documents")
	query := flag.String("query", "", "Run one search query and print the result")
	serve := flag.Bool("serve", false, "Start the HTTP server")
	export := flag.Bool("export", false, "Export the vector index to its backup file")
	importIdx := flag.Bool("import", false, "Restore the vector index from its backup file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Error loading config")
	}

	ctx := context.Background()

	switch {
	case *ingestPath != "":
		runIngest(ctx, cfg, *ingestPath)
	case *query != "":
		runQuery(ctx, cfg, *query)
	case *serve:
		runServe(cfg)
	case *export:
		if err := openVectors(cfg).Export(ctx); err != nil {
			log.Fatal().Err(err).Msg("Export failed")
		}
	case *importIdx:
		if err := openVectors(cfg).Import(ctx); err != nil {
			log.Fatal().Err(err).Msg("Import failed")
		}
	default:
		log.Fatal().Msg("Provide -ingest, -query, -serve, -export or -import")
	}
}

func runIngest(ctx context.Context, cfg *config.Config, path string) {
	reg, cleanup := openRegistry(ctx, cfg)
	defer cleanup()
	vectors := openVectors(cfg)

	embedder, err := embedding.NewEmbedder(&cfg.EmbedLLM)
	if err != nil {
		log.Fatal().Err(err).Msg("Error creating embedder")
	}
	gen, err := llm.NewClient(&cfg.InferenceLLM)
	if err != nil {
		log.Fatal().Err(err).Msg("Error creating inference client")
	}

	ing := ingest.New(cfg, identity.NewResolver(gen), embedder, reg, vectors)

	info, err := os.Stat(path)
	if err != nil {
		log.Fatal().Err(err).Str("path", path).Msg("Cannot read ingest path")
	}
	if info.IsDir() {
		n, err := ing.IngestDir(ctx, path)
		if err != nil {
			log.Fatal().Err(err).Msg("Ingestion failed")
		}
		log.Info().Int("documents", n).Msg("Ingestion complete")
		return
	}
	if _, err := ing.IngestFile(ctx, path); err != nil {
		log.Fatal().Err(err).Msg("Ingestion failed")
	}
}

func runQuery(ctx context.Context, cfg *config.Config, query string) {
	reg, cleanup := openRegistry(ctx, cfg)
	defer cleanup()

	svc := newService(cfg, reg)
	results, err := svc.Search(ctx, query, cfg.RAG.ResultTopK)
	if err != nil {
		log.Fatal().Err(err).Msg("Search failed")
	}
	for i, r := range results {
		fmt.Printf("%d. %s (%s) score=%.4f\n%s\n\n", i+1, r.CandidateName, r.FileName, r.Score, r.Content)
	}
}

func runServe(cfg *config.Config) {
	reg, cleanup := openRegistry(context.Background(), cfg)
	defer cleanup()

	svc := newService(cfg, reg)
	if err := server.New(svc, cfg.Server.Addr).Run(); err != nil {
		log.Fatal().Err(err).Msg("HTTP server failed")
	}
}

func newService(cfg *config.Config, reg *registry.Store) *service.Service {
	vectors := openVectors(cfg)
	embedder, err := embedding.NewEmbedder(&cfg.EmbedLLM)
	if err != nil {
		log.Fatal().Err(err).Msg("Error creating embedder")
	}
	gen, err := llm.NewClient(&cfg.InferenceLLM)
	if err != nil {
		log.Fatal().Err(err).Msg("Error creating inference client")
	}
	return service.New(cfg, reg, vectors, embedder, gen)
}

func openRegistry(ctx context.Context, cfg *config.Config) (*registry.Store, func()) {
	dbClient, err := registry.Connect(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Error connecting to database")
	}
	if err := registry.Init(ctx, dbClient); err != nil {
		log.Fatal().Err(err).Msg("Error initializing database")
	}
	reg := registry.NewStore(dbClient)
	return reg, func() {
		if err := reg.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing database")
		}
	}
}

func openVectors(cfg *config.Config) *vectordb.Store {
	vectors, err := vectordb.NewStore(cfg.RAG.DBPath, cfg.RAG.Collection, false, cfg.RAG.EncryptionKey)
	if err != nil {
		log.Fatal().Err(err).Msg("Error opening vector store")
	}
	return vectors
}
