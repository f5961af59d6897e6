package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/rs/zerolog/log"

	"candidate-rag/internal/config"
	"candidate-rag/internal/embedding"
	"candidate-rag/internal/identity"
	"candidate-rag/internal/models"
	"candidate-rag/internal/parser"
	"candidate-rag/internal/splitter"
)

// ChunkRegistry persists a candidate and its chunk text.
type ChunkRegistry interface {
	ReplaceCandidate(ctx context.Context, cand models.Candidate, chunks []models.Chunk) error
}

// VectorWriter holds the searchable chunk embeddings.
type VectorWriter interface {
	Upsert(ctx context.Context, chunks []models.Chunk) error
}

// Ingester runs the document pipeline: parse, chunk, resolve identity,
// embed, persist. Re-ingesting the same file replaces the candidate's
// previous chunks in both stores.
type Ingester struct {
	cfg      *config.Config
	resolver *identity.Resolver
	embedder embedding.Embedder
	registry ChunkRegistry
	vectors  VectorWriter
}

func New(cfg *config.Config, resolver *identity.Resolver, embedder embedding.Embedder, registry ChunkRegistry, vectors VectorWriter) *Ingester {
	return &Ingester{
		cfg:      cfg,
		resolver: resolver,
		embedder: embedder,
		registry: registry,
		vectors:  vectors,
	}
}

// IngestFile processes one document end to end. Any stage failing fails the
// whole file. Vectors are written before the registry transaction: the
// vector upsert is idempotent under the stable chunk ids, so a registry
// failure leaves at worst unlisted index entries that the next ingest of
// the same file overwrites, never a listed candidate missing from the
// index.
func (ing *Ingester) IngestFile(ctx context.Context, filePath string) (*models.Candidate, error) {
	content, err := parser.ParseDocument(filePath)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filePath, err)
	}

	fileName := filepath.Base(filePath)
	cand := ing.resolver.Resolve(ctx, fileName, content)
	chunks := BuildChunks(cand, splitter.Split(content, ing.cfg.RAG.ChunkSize, ing.cfg.RAG.ChunkOverlap))
	if len(chunks) == 0 {
		return nil, fmt.Errorf("no text extracted from %s", fileName)
	}

	if err := embedding.EmbedChunks(ctx, ing.embedder, chunks); err != nil {
		return nil, fmt.Errorf("embed %s: %w", fileName, err)
	}

	if err := ing.vectors.Upsert(ctx, chunks); err != nil {
		return nil, fmt.Errorf("index %s: %w", fileName, err)
	}
	if err := ing.registry.ReplaceCandidate(ctx, cand, chunks); err != nil {
		return nil, fmt.Errorf("persist %s: %w", fileName, err)
	}

	log.Info().
		Str("candidate_id", cand.CandidateID).
		Str("candidate_name", cand.CandidateName).
		Str("file", fileName).
		Int("chunks", len(chunks)).
		Msg("Ingested document")
	return &cand, nil
}

// IngestDir walks a directory and ingests every supported document. One bad
// file does not stop the run; failures are logged and counted.
func (ing *Ingester) IngestDir(ctx context.Context, dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("read dir %s: %w", dir, err)
	}

	ingested := 0
	for _, entry := range entries {
		if entry.IsDir() || !parser.Supported(entry.Name()) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return ingested, err
		}
		if _, err := ing.IngestFile(ctx, filepath.Join(dir, entry.Name())); err != nil {
			log.Error().Err(err).Str("file", entry.Name()).Msg("Skipping document")
			continue
		}
		ingested++
	}
	return ingested, nil
}

// BuildChunks attaches candidate identity to raw text pieces. Chunk ids are
// the candidate id plus the chunk ordinal, so re-chunking the same file
// yields the same ids and upserts overwrite instead of duplicating.
func BuildChunks(cand models.Candidate, pieces []string) []models.Chunk {
	chunks := make([]models.Chunk, 0, len(pieces))
	for i, piece := range pieces {
		chunks = append(chunks, models.Chunk{
			ID:            cand.CandidateID + "-" + strconv.Itoa(i),
			CandidateID:   cand.CandidateID,
			CandidateName: cand.CandidateName,
			FileName:      cand.FileName,
			Profession:    cand.Profession,
			Index:         i,
			Content:       piece,
		})
	}
	return chunks
}
