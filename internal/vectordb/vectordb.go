package vectordb

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sort"
	"strconv"

	"github.com/philippgille/chromem-go"
	"github.com/rs/zerolog/log"

	"candidate-rag/internal/models"
)

// ErrIndexUnavailable marks a failure to reach or operate the backing vector
// store. It is never retried here; callers surface it at the stream boundary.
var ErrIndexUnavailable = errors.New("vector index unavailable")

const (
	compress = false

	metaCandidateID   = "candidate_id"
	metaCandidateName = "candidate_name"
	metaFileName      = "file_name"
	metaProfession    = "profession"
	metaChunkIndex    = "chunk_index"
)

// Store wraps a chromem-go collection of chunk vectors.
type Store struct {
	db            *chromem.DB
	collection    *chromem.Collection
	dbPath        string
	encryptionKey string
	filePath      string
}

// NewStore opens (or creates) the vector database and its collection.
func NewStore(dbPath, collectionName string, inMemory bool, encryptionKey string) (*Store, error) {
	var db *chromem.DB
	var err error
	if inMemory {
		db = chromem.NewDB()
	} else {
		db, err = chromem.NewPersistentDB(dbPath, compress)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrIndexUnavailable, err)
		}
	}

	collection, err := db.GetOrCreateCollection(collectionName, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIndexUnavailable, err)
	}

	return &Store{
		db:            db,
		collection:    collection,
		dbPath:        dbPath,
		encryptionKey: encryptionKey,
		filePath:      dbPath + "/" + collectionName + ".chromem",
	}, nil
}

// Upsert stores chunk vectors keyed by chunk id, replacing any previous
// version. Re-upserting an unchanged chunk has no observable effect.
func (s *Store) Upsert(ctx context.Context, chunks []models.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	ids := make([]string, len(chunks))
	docs := make([]chromem.Document, len(chunks))
	for i, chunk := range chunks {
		ids[i] = chunk.ID
		docs[i] = chromem.Document{
			ID:        chunk.ID,
			Content:   chunk.Content,
			Embedding: chunk.Embedding,
			Metadata: map[string]string{
				metaCandidateID:   chunk.CandidateID,
				metaCandidateName: chunk.CandidateName,
				metaFileName:      chunk.FileName,
				metaProfession:    chunk.Profession,
				metaChunkIndex:    strconv.Itoa(chunk.Index),
			},
		}
	}

	if err := s.collection.Delete(ctx, nil, nil, ids...); err != nil {
		return fmt.Errorf("%w: delete before upsert: %v", ErrIndexUnavailable, err)
	}
	if err := s.collection.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return fmt.Errorf("%w: add documents: %v", ErrIndexUnavailable, err)
	}
	return nil
}

// DeleteCandidate removes every stored chunk belonging to one candidate.
func (s *Store) DeleteCandidate(ctx context.Context, candidateID string) error {
	err := s.collection.Delete(ctx, map[string]string{metaCandidateID: candidateID}, nil)
	if err != nil {
		return fmt.Errorf("%w: delete candidate: %v", ErrIndexUnavailable, err)
	}
	return nil
}

// Query returns the k chunks most similar to the query vector across the
// whole corpus, ordered by score descending with ties broken by chunk id
// ascending. An empty corpus yields an empty result, not an error.
func (s *Store) Query(ctx context.Context, queryEmbedding []float32, k int) ([]models.SearchHit, error) {
	count := s.collection.Count()
	if count == 0 || k <= 0 {
		return nil, nil
	}
	if k > count {
		k = count
	}

	results, err := s.collection.QueryWithOptions(ctx, chromem.QueryOptions{
		QueryEmbedding: queryEmbedding,
		NResults:       k,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: query: %v", ErrIndexUnavailable, err)
	}

	hits := make([]models.SearchHit, 0, len(results))
	for _, res := range results {
		hits = append(hits, models.SearchHit{
			ChunkID:       res.ID,
			CandidateID:   res.Metadata[metaCandidateID],
			CandidateName: res.Metadata[metaCandidateName],
			FileName:      res.Metadata[metaFileName],
			Score:         clampScore(res.Similarity),
			Content:       res.Content,
		})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].ChunkID < hits[j].ChunkID
	})

	return hits, nil
}

// Count returns the number of stored chunks.
func (s *Store) Count() int {
	return s.collection.Count()
}

// Export writes the collection to its backup file. Requires an encryption
// key, matching chromem's export contract.
func (s *Store) Export(ctx context.Context) error {
	if s.encryptionKey == "" {
		return fmt.Errorf("encryption key is required")
	}
	log.Debug().Str("file", s.filePath).Str("collection", s.collection.Name).Msg("Exporting collection")
	if err := s.db.ExportToFile(s.filePath, compress, s.encryptionKey, s.collection.Name); err != nil {
		return fmt.Errorf("%w: export: %v", ErrIndexUnavailable, err)
	}
	return nil
}

// Import restores the collection from its backup file.
func (s *Store) Import(ctx context.Context) error {
	if err := s.db.ImportFromFile(s.filePath, s.encryptionKey); err != nil {
		return fmt.Errorf("%w: import: %v", ErrIndexUnavailable, err)
	}
	return nil
}

// Cosine similarity is surfaced as a calibrated score in [0,1].
func clampScore(similarity float32) float32 {
	if similarity < 0 {
		return 0
	}
	if similarity > 1 {
		return 1
	}
	return similarity
}
