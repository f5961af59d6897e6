package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	wikipediaAPIBase  = "https://en.wikipedia.org/w/api.php"
	wikipediaRESTBase = "https://en.wikipedia.org/api/rest_v1"

	wikipediaTimeout = 15 * time.Second
)

// wikipediaClient talks to the external knowledge source. Base URLs are
// fields so tests can point it at a local server.
type wikipediaClient struct {
	client   *http.Client
	apiBase  string
	restBase string
}

// WikipediaTool answers general-knowledge questions unrelated to the CV
// corpus from Wikipedia: the best-matching article title is looked up first,
// then its summary.
func WikipediaTool(client *http.Client) Tool {
	if client == nil {
		client = &http.Client{Timeout: wikipediaTimeout}
	}
	wc := &wikipediaClient{client: client, apiBase: wikipediaAPIBase, restBase: wikipediaRESTBase}
	return wc.tool()
}

func (wc *wikipediaClient) tool() Tool {
	return Tool{
		Name: "search_wikipedia",
		Description: "Search Wikipedia for general knowledge, facts, and information about topics, " +
			"concepts, people, places, or events. Use this for questions unrelated to candidate resumes.",
		Run: wc.lookup,
	}
}

func (wc *wikipediaClient) lookup(ctx context.Context, query string) (string, error) {
	title, err := wc.searchTitle(ctx, query)
	if err != nil {
		return "", err
	}
	if title == "" {
		return fmt.Sprintf("No Wikipedia articles found for %q.", query), nil
	}

	summary, err := wc.summary(ctx, title)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Wikipedia - %s:\n\n%s", title, summary), nil
}

func (wc *wikipediaClient) searchTitle(ctx context.Context, query string) (string, error) {
	params := url.Values{
		"action": {"opensearch"},
		"format": {"json"},
		"limit":  {"3"},
		"search": {query},
	}
	body, err := wc.get(ctx, wc.apiBase+"?"+params.Encode())
	if err != nil {
		return "", err
	}

	// Opensearch replies [query, [titles], [descriptions], [urls]].
	var resp []json.RawMessage
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("wikipedia search: malformed response: %w", err)
	}
	if len(resp) < 2 {
		return "", nil
	}
	var titles []string
	if err := json.Unmarshal(resp[1], &titles); err != nil {
		return "", fmt.Errorf("wikipedia search: malformed titles: %w", err)
	}
	if len(titles) == 0 {
		return "", nil
	}
	return titles[0], nil
}

func (wc *wikipediaClient) summary(ctx context.Context, title string) (string, error) {
	body, err := wc.get(ctx, wc.restBase+"/page/summary/"+url.PathEscape(strings.ReplaceAll(title, " ", "_")))
	if err != nil {
		return "", err
	}

	var resp struct {
		Extract string `json:"extract"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("wikipedia summary: malformed response: %w", err)
	}
	if resp.Extract == "" {
		return "", fmt.Errorf("wikipedia summary: no extract for %q", title)
	}
	return resp.Extract, nil
}

func (wc *wikipediaClient) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := wc.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("wikipedia request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("wikipedia request failed: %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
