package identity

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"candidate-rag/internal/models"
)

// Candidate ids are UUIDv5 over the file name, so re-resolving the same file
// always yields the same id and re-ingestion never duplicates a candidate.
var idNamespace = uuid.MustParse("7b0dca5a-6c1e-4c52-9aa2-bd3b35c0a1e4")

const (
	professionExcerptChars = 2000
	maxProfessionLen       = 100
	NotSpecified           = "Not Specified"
)

// Generator is the minimal slice of the inference model the resolver needs.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Resolver derives stable candidate identities from source files. The
// profession lookup is best-effort; everything else is pure and
// deterministic.
type Resolver struct {
	llm Generator
}

func NewResolver(llm Generator) *Resolver {
	return &Resolver{llm: llm}
}

// DeriveID maps a file identifier to its canonical candidate id.
func DeriveID(fileName string) string {
	return uuid.NewSHA1(idNamespace, []byte(filepath.Base(fileName))).String()
}

// Resolve builds the candidate record for a document. It never fails: when a
// display name cannot be derived the file identifier is used, and when the
// profession cannot be extracted it is reported as "Not Specified".
func (r *Resolver) Resolve(ctx context.Context, fileName, content string) models.Candidate {
	base := filepath.Base(fileName)
	return models.Candidate{
		CandidateID:   DeriveID(base),
		CandidateName: displayName(base),
		FileName:      base,
		Profession:    r.extractProfession(ctx, base, content),
	}
}

// displayName turns "jane_doe-cv.pdf" into "Jane Doe Cv". If nothing usable
// remains after cleanup the file name itself is the display name.
func displayName(fileName string) string {
	stem := strings.TrimSuffix(fileName, filepath.Ext(fileName))
	fields := strings.FieldsFunc(stem, func(r rune) bool {
		return r == '_' || r == '-' || r == '.' || unicode.IsSpace(r)
	})
	var words []string
	for _, f := range fields {
		if f == "" {
			continue
		}
		runes := []rune(strings.ToLower(f))
		runes[0] = unicode.ToUpper(runes[0])
		words = append(words, string(runes))
	}
	if len(words) == 0 {
		return fileName
	}
	return strings.Join(words, " ")
}

func (r *Resolver) extractProfession(ctx context.Context, fileName, content string) string {
	if r.llm == nil || strings.TrimSpace(content) == "" {
		return NotSpecified
	}

	excerpt := content
	if len(excerpt) > professionExcerptChars {
		excerpt = excerpt[:professionExcerptChars]
	}

	resp, err := r.llm.Generate(ctx, fmt.Sprintf(models.ProfessionPromptTemplate, excerpt))
	if err != nil {
		log.Warn().Err(err).Str("file", fileName).Msg("Profession extraction failed")
		return NotSpecified
	}

	profession := strings.TrimSpace(resp)
	if profession == "" || len(profession) > maxProfessionLen || strings.Contains(profession, "\n") {
		return NotSpecified
	}
	return profession
}
