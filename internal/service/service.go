package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"candidate-rag/internal/agent"
	"candidate-rag/internal/aggregate"
	"candidate-rag/internal/config"
	"candidate-rag/internal/embedding"
	"candidate-rag/internal/llm"
	"candidate-rag/internal/models"
	"candidate-rag/internal/stream"
)

// Registry is the candidate store the service reads from.
type Registry interface {
	ListCandidates(ctx context.Context) ([]models.Candidate, error)
	GetCandidate(ctx context.Context, candidateID string) (*models.Candidate, error)
	CandidateText(ctx context.Context, candidateID string) (string, error)
	ProfileByName(ctx context.Context, name string) (string, error)
}

// VectorIndex answers nearest-chunk queries.
type VectorIndex interface {
	Query(ctx context.Context, queryEmbedding []float32, k int) ([]models.SearchHit, error)
}

const emitterBuffer = 32

var errStreamClosed = errors.New("stream closed")

// Service wires the shared clients together and drives one summarizer or
// agent-loop instance per inbound request. Instances share no mutable state,
// so requests can run concurrently.
type Service struct {
	cfg      *config.Config
	registry Registry
	index    VectorIndex
	embedder embedding.Embedder
	llm      llm.Generator
	agent    *agent.Agent
}

func New(cfg *config.Config, registry Registry, index VectorIndex, embedder embedding.Embedder, gen llm.Generator) *Service {
	s := &Service{
		cfg:      cfg,
		registry: registry,
		index:    index,
		embedder: embedder,
		llm:      gen,
	}

	tools := agent.NewRegistry(
		agent.SearchCandidatesTool(s, cfg.RAG.ResultTopK),
		agent.WikipediaTool(nil),
		agent.CreateSuperheroTool(registry, gen),
	)
	s.agent = agent.New(gen, tools, cfg.RAG.MaxIterations, cfg.StepTimeout())
	return s
}

// ListCandidates returns every listable candidate, ordered by name.
func (s *Service) ListCandidates(ctx context.Context) (int, []models.Candidate, error) {
	candidates, err := s.registry.ListCandidates(ctx)
	if err != nil {
		return 0, nil, err
	}
	return len(candidates), candidates, nil
}

// Search embeds the query, fetches chunk-level hits across the whole corpus
// and aggregates them down to at most topK candidates. Also backs the
// agent's search_candidates tool.
func (s *Service) Search(ctx context.Context, query string, topK int) ([]models.CandidateResult, error) {
	if topK <= 0 {
		topK = s.cfg.RAG.ResultTopK
	}

	vector, err := s.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	hits, err := s.index.Query(ctx, vector, s.cfg.RAG.SearchTopK)
	if err != nil {
		return nil, err
	}
	return aggregate.Aggregate(hits, topK), nil
}

// StreamCandidateSummary produces the detail-view stream for one candidate:
// metadata, streamed summary text, done. An unknown id yields a stream whose
// only event is an error.
func (s *Service) StreamCandidateSummary(ctx context.Context, candidateID string) *stream.Emitter {
	em := stream.NewEmitter(emitterBuffer)
	go func() {
		cand, err := s.registry.GetCandidate(ctx, candidateID)
		if err != nil {
			log.Error().Err(err).Str("candidate_id", candidateID).Msg("Candidate lookup failed")
			em.Error(ctx, "failed to load candidate")
			return
		}
		if cand == nil {
			em.Error(ctx, fmt.Sprintf("Candidate %q not found", candidateID))
			return
		}

		if !em.Metadata(ctx, cand) {
			return
		}

		text, err := s.registry.CandidateText(ctx, cand.CandidateID)
		if err != nil {
			log.Error().Err(err).Str("candidate_id", candidateID).Msg("Candidate text lookup failed")
			em.Error(ctx, "failed to load candidate document")
			return
		}

		err = s.llm.GenerateStream(ctx, fmt.Sprintf(models.SummaryPromptTemplate, text), func(chunk string) error {
			if !em.Content(ctx, chunk) {
				return errStreamClosed
			}
			return nil
		})
		if err != nil && !errors.Is(err, errStreamClosed) {
			log.Error().Err(err).Str("candidate_id", candidateID).Msg("Summary generation failed")
			em.Error(ctx, "summary generation failed")
			return
		}
		em.Done(ctx)
	}()
	return em
}

// StreamSearch produces the search stream: metadata with the aggregated
// candidate list, then the agent loop's answer deltas, then done.
func (s *Service) StreamSearch(ctx context.Context, query string, topK int) *stream.Emitter {
	em := stream.NewEmitter(emitterBuffer)
	go func() {
		results, err := s.Search(ctx, query, topK)
		if err != nil {
			log.Error().Err(err).Str("query", query).Msg("Candidate search failed")
			em.Error(ctx, "search failed: "+err.Error())
			return
		}

		if !em.Metadata(ctx, map[string]any{"candidates": results}) {
			return
		}

		err = s.agent.Run(ctx, query, func(delta string) bool {
			return em.Content(ctx, delta)
		})
		if err != nil {
			log.Error().Err(err).Str("query", query).Msg("Agent run failed")
			em.Error(ctx, "answer generation failed")
			return
		}
		em.Done(ctx)
	}()
	return em
}
