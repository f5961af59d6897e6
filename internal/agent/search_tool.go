package agent

import (
	"context"
	"fmt"
	"strings"

	"candidate-rag/internal/models"
)

// Searcher runs a semantic candidate search: embed the query, hit the vector
// index, aggregate to one result per candidate.
type Searcher interface {
	Search(ctx context.Context, query string, topK int) ([]models.CandidateResult, error)
}

// SearchCandidatesTool lets the model search the CV corpus with a natural
// language query of its own choosing.
func SearchCandidatesTool(searcher Searcher, topK int) Tool {
	return Tool{
		Name: "search_candidates",
		Description: "Search for candidates using natural language queries. " +
			"Use this to find candidates with specific skills, experience, or qualifications.",
		Run: func(ctx context.Context, input string) (string, error) {
			results, err := searcher.Search(ctx, input, topK)
			if err != nil {
				return "", err
			}
			if len(results) == 0 {
				return "No candidates found matching your query.", nil
			}
			return formatSearchResults(results), nil
		},
	}
}

func formatSearchResults(results []models.CandidateResult) string {
	formatted := make([]string, 0, len(results))
	for idx, result := range results {
		formatted = append(formatted, fmt.Sprintf(
			"Result %d:\nCandidate: %s\nID: %s\nFile: %s\nRelevance Score: %.4f\nContent:\n%s\n%s",
			idx+1,
			result.CandidateName,
			result.CandidateID,
			result.FileName,
			result.Score,
			result.Content,
			strings.Repeat("-", 60),
		))
	}
	return strings.Join(formatted, "\n\n")
}
