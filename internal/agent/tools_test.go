package agent

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"candidate-rag/internal/models"
)

type fakeSearcher struct {
	results []models.CandidateResult
	err     error
	queries []string
}

func (f *fakeSearcher) Search(_ context.Context, query string, _ int) ([]models.CandidateResult, error) {
	f.queries = append(f.queries, query)
	return f.results, f.err
}

type fakeProfiles map[string]string

func (f fakeProfiles) ProfileByName(_ context.Context, name string) (string, error) {
	content, ok := f[name]
	if !ok {
		return "", fmt.Errorf("candidate %q not found", name)
	}
	return content, nil
}

type staticLLM struct{ resp string }

func (s *staticLLM) Generate(_ context.Context, _ string) (string, error) { return s.resp, nil }
func (s *staticLLM) GenerateStream(_ context.Context, _ string, fn func(string) error) error {
	return fn(s.resp)
}

func TestSearchCandidatesToolFormatsDigest(t *testing.T) {
	searcher := &fakeSearcher{results: []models.CandidateResult{
		{CandidateID: "id-a", CandidateName: "Alice", FileName: "alice.pdf", Score: 0.92, Content: "Python, AWS"},
		{CandidateID: "id-b", CandidateName: "Bob", FileName: "bob.pdf", Score: 0.41, Content: "Java"},
	}}
	tool := SearchCandidatesTool(searcher, 10)

	out, err := tool.Run(context.Background(), "Python experience")
	require.NoError(t, err)

	assert.Equal(t, []string{"Python experience"}, searcher.queries)
	assert.Contains(t, out, "Result 1:")
	assert.Contains(t, out, "Candidate: Alice")
	assert.Contains(t, out, "ID: id-a")
	assert.Contains(t, out, "Relevance Score: 0.9200")
	assert.Contains(t, out, "Result 2:")
	assert.Contains(t, out, "Candidate: Bob")
}

func TestSearchCandidatesToolEmptyCorpus(t *testing.T) {
	tool := SearchCandidatesTool(&fakeSearcher{}, 10)
	out, err := tool.Run(context.Background(), "anything")
	require.NoError(t, err)
	assert.Equal(t, "No candidates found matching your query.", out)
}

func TestSearchCandidatesToolPropagatesError(t *testing.T) {
	tool := SearchCandidatesTool(&fakeSearcher{err: errors.New("index unavailable")}, 10)
	_, err := tool.Run(context.Background(), "anything")
	assert.Error(t, err)
}

func TestSuperheroNameDeterministic(t *testing.T) {
	names := []string{"John Doe", "Jane Smith"}
	first := superheroName(names)
	second := superheroName(names)
	assert.Equal(t, first, second)
	assert.Contains(t, first, "John")
	assert.Contains(t, first, "Smith")
}

func TestSuperheroNameSingleWordSecondName(t *testing.T) {
	name := superheroName([]string{"John Doe", "Cher"})
	assert.Contains(t, name, "John")
	assert.Contains(t, name, "Cher")
}

func TestCreateSuperheroTool(t *testing.T) {
	profiles := fakeProfiles{
		"John Doe":   "Python, Kubernetes, 10 years",
		"Jane Smith": "Go, distributed systems, 8 years",
	}
	tool := CreateSuperheroTool(profiles, &staticLLM{resp: "a legendary combined profile"})

	out, err := tool.Run(context.Background(), "John Doe, Jane Smith")
	require.NoError(t, err)
	assert.Contains(t, out, "SUPERHERO CANDIDATE CREATED!")
	assert.Contains(t, out, "John Doe, Jane Smith")
	assert.Contains(t, out, "a legendary combined profile")
}

func TestCreateSuperheroToolValidatesCount(t *testing.T) {
	tool := CreateSuperheroTool(fakeProfiles{}, &staticLLM{})

	out, err := tool.Run(context.Background(), "Only One")
	require.NoError(t, err)
	assert.Contains(t, out, "2 or 3 candidate names")

	out, err = tool.Run(context.Background(), "A, B, C, D")
	require.NoError(t, err)
	assert.Contains(t, out, "2 or 3 candidate names")
}

func TestCreateSuperheroToolUnknownCandidate(t *testing.T) {
	tool := CreateSuperheroTool(fakeProfiles{"John Doe": "x"}, &staticLLM{})
	out, err := tool.Run(context.Background(), "John Doe, Ghost Person")
	require.NoError(t, err)
	assert.Contains(t, out, "not found")
}

func TestWikipediaToolLookup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/w/api.php":
			assert.Equal(t, "opensearch", r.URL.Query().Get("action"))
			fmt.Fprint(w, `["turing",["Alan Turing","Turing machine"],["",""],["",""]]`)
		case r.URL.Path == "/api/rest_v1/page/summary/Alan_Turing":
			fmt.Fprint(w, `{"title":"Alan Turing","extract":"Alan Turing was a mathematician."}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	wc := &wikipediaClient{client: srv.Client(), apiBase: srv.URL + "/w/api.php", restBase: srv.URL + "/api/rest_v1"}
	out, err := wc.tool().Run(context.Background(), "turing")
	require.NoError(t, err)
	assert.Contains(t, out, "Wikipedia - Alan Turing:")
	assert.Contains(t, out, "mathematician")
}

func TestWikipediaToolNoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `["gibberish",[],[],[]]`)
	}))
	defer srv.Close()

	wc := &wikipediaClient{client: srv.Client(), apiBase: srv.URL + "/w/api.php", restBase: srv.URL + "/api/rest_v1"}
	out, err := wc.tool().Run(context.Background(), "gibberish")
	require.NoError(t, err)
	assert.Contains(t, out, "No Wikipedia articles found")
}

func TestWikipediaToolServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	wc := &wikipediaClient{client: srv.Client(), apiBase: srv.URL + "/w/api.php", restBase: srv.URL + "/api/rest_v1"}
	_, err := wc.tool().Run(context.Background(), "anything")
	assert.Error(t, err)
}
