package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"candidate-rag/internal/models"
)

func hit(chunkID, candidateID string, score float32, content string) models.SearchHit {
	return models.SearchHit{
		ChunkID:       chunkID,
		CandidateID:   candidateID,
		CandidateName: "Name " + candidateID,
		FileName:      candidateID + ".pdf",
		Score:         score,
		Content:       content,
	}
}

func TestAggregateEmpty(t *testing.T) {
	assert.Empty(t, Aggregate(nil, 10))
	assert.Empty(t, Aggregate([]models.SearchHit{}, 10))
}

func TestAggregateDeduplicatesPerCandidate(t *testing.T) {
	hits := []models.SearchHit{
		hit("a-0", "a", 0.9, "best alice chunk"),
		hit("a-1", "a", 0.7, "weaker alice chunk"),
		hit("a-2", "a", 0.8, "middle alice chunk"),
		hit("b-0", "b", 0.6, "bob chunk"),
	}
	results := Aggregate(hits, 10)
	require.Len(t, results, 2)

	seen := map[string]bool{}
	for _, r := range results {
		assert.False(t, seen[r.CandidateID], "candidate %s appears twice", r.CandidateID)
		seen[r.CandidateID] = true
	}

	assert.Equal(t, "a", results[0].CandidateID)
	assert.Equal(t, float32(0.9), results[0].Score)
	assert.Equal(t, "best alice chunk", results[0].Content)
}

func TestAggregateSortsByScoreDescending(t *testing.T) {
	hits := []models.SearchHit{
		hit("c-0", "c", 0.5, ""),
		hit("a-0", "a", 0.9, ""),
		hit("b-0", "b", 0.7, ""),
	}
	results := Aggregate(hits, 10)
	require.Len(t, results, 3)
	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i-1].Score, results[i].Score)
	}
	assert.Equal(t, "a", results[0].CandidateID)
	assert.Equal(t, "b", results[1].CandidateID)
	assert.Equal(t, "c", results[2].CandidateID)
}

func TestAggregateTieBrokenByCandidateID(t *testing.T) {
	hits := []models.SearchHit{
		hit("b-0", "b", 0.8, ""),
		hit("a-0", "a", 0.8, ""),
	}
	results := Aggregate(hits, 10)
	require.Len(t, results, 2)
	assert.Equal(t, "a", results[0].CandidateID)
	assert.Equal(t, "b", results[1].CandidateID)
}

func TestAggregateTruncatesToTopK(t *testing.T) {
	hits := []models.SearchHit{
		hit("a-0", "a", 0.9, ""),
		hit("b-0", "b", 0.8, ""),
		hit("c-0", "c", 0.7, ""),
	}
	results := Aggregate(hits, 2)
	require.Len(t, results, 2)
	assert.Equal(t, "a", results[0].CandidateID)
	assert.Equal(t, "b", results[1].CandidateID)
}

func TestAggregateNeverExceedsDistinctCandidates(t *testing.T) {
	hits := []models.SearchHit{
		hit("a-0", "a", 0.9, ""),
		hit("a-1", "a", 0.8, ""),
	}
	results := Aggregate(hits, 10)
	assert.Len(t, results, 1)
}

func TestAggregateDropsHitsWithoutCandidate(t *testing.T) {
	hits := []models.SearchHit{
		hit("a-0", "a", 0.9, ""),
		{ChunkID: "orphan-0", Score: 0.95, Content: "no candidate id"},
	}
	results := Aggregate(hits, 10)
	require.Len(t, results, 1)
	assert.Equal(t, "a", results[0].CandidateID)
}

func TestAggregateAliceAboveBob(t *testing.T) {
	// Two ingested documents, query "Python experience": alice's chunks score
	// higher than bob's, and each candidate appears exactly once.
	hits := []models.SearchHit{
		hit("alice-0", "alice", 0.92, "Python, AWS, 5 years"),
		hit("alice-1", "alice", 0.85, "built Python services"),
		hit("bob-0", "bob", 0.41, "Java, 2 years"),
	}
	results := Aggregate(hits, 10)
	require.Len(t, results, 2)
	assert.Equal(t, "alice", results[0].CandidateID)
	assert.Equal(t, "bob", results[1].CandidateID)
	assert.Greater(t, results[0].Score, results[1].Score)
}
