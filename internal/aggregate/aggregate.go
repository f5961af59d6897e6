package aggregate

import (
	"sort"

	"github.com/rs/zerolog/log"

	"candidate-rag/internal/models"
)

// Aggregate collapses chunk-level hits into one result per candidate so a
// single CV cannot monopolize the result slots. Each candidate keeps the hit
// with the maximum score as its representative snippet; results are ordered
// by score descending with ties broken by candidate id ascending, then
// truncated to topK. Hits without candidate metadata are dropped, not raised.
func Aggregate(hits []models.SearchHit, topK int) []models.CandidateResult {
	best := make(map[string]models.SearchHit)
	for _, hit := range hits {
		if hit.CandidateID == "" {
			log.Warn().Str("chunk_id", hit.ChunkID).Msg("Dropping hit without candidate metadata")
			continue
		}
		current, ok := best[hit.CandidateID]
		if !ok || hit.Score > current.Score {
			best[hit.CandidateID] = hit
		}
	}

	results := make([]models.CandidateResult, 0, len(best))
	for _, hit := range best {
		results = append(results, models.CandidateResult{
			CandidateID:   hit.CandidateID,
			CandidateName: hit.CandidateName,
			FileName:      hit.FileName,
			Score:         hit.Score,
			Content:       hit.Content,
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].CandidateID < results[j].CandidateID
	})

	if topK > 0 && len(results) > topK {
		results = results[:topK]
	}
	return results
}
