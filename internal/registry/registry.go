package registry

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"

	"candidate-rag/internal/config"
	"candidate-rag/internal/models"
)

// CandidateRow is one ingested candidate. ChunkCount lets listing skip
// candidates whose chunks were removed.
type CandidateRow struct {
	bun.BaseModel `bun:"table:candidates,alias:c"`
	CandidateID   string `bun:"candidate_id,pk"`
	CandidateName string `bun:"candidate_name,notnull"`
	FileName      string `bun:"file_name,notnull"`
	Profession    string `bun:"profession"`
	ChunkCount    int    `bun:"chunk_count,notnull"`
}

// ChunkRow keeps the chunk text so the summarizer and the superhero tool can
// rebuild a candidate's full document without touching the vector store.
type ChunkRow struct {
	bun.BaseModel `bun:"table:chunks,alias:ch"`
	ChunkID       string `bun:"chunk_id,pk"`
	CandidateID   string `bun:"candidate_id,notnull"`
	ChunkIndex    int    `bun:"chunk_index,notnull"`
	Content       string `bun:"content,notnull"`
}

func Connect(cfg *config.DatabaseConfig) (*bun.DB, error) {
	dsn := cfg.URL + "?sslmode=disable"
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn), pgdriver.WithPassword(cfg.Key)))
	db := bun.NewDB(sqldb, pgdialect.New())
	if cfg.Debug {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}
	return db, nil
}

func Init(ctx context.Context, db *bun.DB) error {
	if _, err := db.NewCreateTable().Model((*CandidateRow)(nil)).IfNotExists().Exec(ctx); err != nil {
		return err
	}
	_, err := db.NewCreateTable().Model((*ChunkRow)(nil)).IfNotExists().Exec(ctx)
	return err
}

// Store is the candidate registry backed by Postgres.
type Store struct {
	db *bun.DB
}

func NewStore(db *bun.DB) *Store {
	return &Store{db: db}
}

// ReplaceCandidate swaps a candidate's record and chunk texts in one
// transaction, so re-ingestion of a file never leaves stale chunks behind.
func (s *Store) ReplaceCandidate(ctx context.Context, cand models.Candidate, chunks []models.Chunk) error {
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().Model((*ChunkRow)(nil)).
			Where("candidate_id = ?", cand.CandidateID).Exec(ctx); err != nil {
			return err
		}

		row := &CandidateRow{
			CandidateID:   cand.CandidateID,
			CandidateName: cand.CandidateName,
			FileName:      cand.FileName,
			Profession:    cand.Profession,
			ChunkCount:    len(chunks),
		}
		if _, err := tx.NewInsert().Model(row).
			On("CONFLICT (candidate_id) DO UPDATE").
			Set("candidate_name = EXCLUDED.candidate_name").
			Set("file_name = EXCLUDED.file_name").
			Set("profession = EXCLUDED.profession").
			Set("chunk_count = EXCLUDED.chunk_count").
			Exec(ctx); err != nil {
			return err
		}

		if len(chunks) == 0 {
			return nil
		}
		rows := make([]ChunkRow, len(chunks))
		for i, c := range chunks {
			rows[i] = ChunkRow{
				ChunkID:     c.ID,
				CandidateID: c.CandidateID,
				ChunkIndex:  c.Index,
				Content:     c.Content,
			}
		}
		_, err := tx.NewInsert().Model(&rows).Exec(ctx)
		return err
	})
}

// ListCandidates returns all candidates with at least one chunk, ordered by
// display name.
func (s *Store) ListCandidates(ctx context.Context) ([]models.Candidate, error) {
	var rows []CandidateRow
	err := s.db.NewSelect().Model(&rows).
		Where("chunk_count > 0").
		Order("candidate_name ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	candidates := make([]models.Candidate, len(rows))
	for i, row := range rows {
		candidates[i] = models.Candidate{
			CandidateID:   row.CandidateID,
			CandidateName: row.CandidateName,
			FileName:      row.FileName,
			Profession:    row.Profession,
		}
	}
	return candidates, nil
}

// GetCandidate returns the candidate record, or nil when the id is unknown.
func (s *Store) GetCandidate(ctx context.Context, candidateID string) (*models.Candidate, error) {
	var row CandidateRow
	err := s.db.NewSelect().Model(&row).
		Where("candidate_id = ?", candidateID).
		Where("chunk_count > 0").
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &models.Candidate{
		CandidateID:   row.CandidateID,
		CandidateName: row.CandidateName,
		FileName:      row.FileName,
		Profession:    row.Profession,
	}, nil
}

// CandidateText rebuilds a candidate's document from its ordered chunks.
func (s *Store) CandidateText(ctx context.Context, candidateID string) (string, error) {
	var rows []ChunkRow
	err := s.db.NewSelect().Model(&rows).
		Column("content").
		Where("candidate_id = ?", candidateID).
		Order("chunk_index ASC").
		Scan(ctx)
	if err != nil {
		return "", err
	}

	parts := make([]string, len(rows))
	for i, row := range rows {
		parts[i] = row.Content
	}
	return strings.Join(parts, "\n\n"), nil
}

// ProfileByName resolves a candidate by display name (case-insensitive) and
// returns their full document text.
func (s *Store) ProfileByName(ctx context.Context, name string) (string, error) {
	var row CandidateRow
	err := s.db.NewSelect().Model(&row).
		Where("LOWER(candidate_name) = LOWER(?)", strings.TrimSpace(name)).
		Where("chunk_count > 0").
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("candidate %q not found", name)
	}
	if err != nil {
		return "", err
	}
	return s.CandidateText(ctx, row.CandidateID)
}

func (s *Store) Close() error {
	return s.db.Close()
}
