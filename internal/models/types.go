package models

// Chunk represents one embedded segment of a candidate document.
// The ID is stable across re-ingestion of an unchanged file:
// "<candidate_id>-<index>".
type Chunk struct {
	ID            string
	CandidateID   string
	CandidateName string
	FileName      string
	Profession    string
	Index         int
	Content       string
	Embedding     []float32
}

// Candidate is the logical person record derived from one source file.
type Candidate struct {
	CandidateID   string `json:"candidate_id"`
	CandidateName string `json:"candidate_name"`
	FileName      string `json:"file_name"`
	Profession    string `json:"profession"`
}

// SearchHit is one chunk-level result of a vector query. Transient,
// consumed by the aggregator and never persisted.
type SearchHit struct {
	ChunkID       string
	CandidateID   string
	CandidateName string
	FileName      string
	Score         float32
	Content       string
}

// CandidateResult is the deduplicated per-candidate search result. Score is
// the maximum score among the candidate's contributing chunks and Content is
// the text of that best chunk.
type CandidateResult struct {
	CandidateID   string  `json:"candidate_id"`
	CandidateName string  `json:"candidate_name"`
	FileName      string  `json:"file_name"`
	Score         float32 `json:"score"`
	Content       string  `json:"content"`
}
