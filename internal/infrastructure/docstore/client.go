package docstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"time"

	"jewelpos-shopify-sync/internal/ports"

	"github.com/rs/zerolog"
)

// Client talks to the external document store over its HTTP get/patch API.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	logger  zerolog.Logger
}

// NewClient creates a document store client for the given base URL and API key.
func NewClient(baseURL, apiKey string, logger zerolog.Logger) ports.DocumentStore {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 15 * time.Second},
		logger:  logger,
	}
}

func (c *Client) docURL(collection, id string) string {
	return fmt.Sprintf("%s/%s/%s?key=%s",
		c.baseURL, url.PathEscape(collection), url.PathEscape(id), url.QueryEscape(c.apiKey))
}

// Get fetches a document's field map. Any non-success status is treated as
// absence, not an error.
func (c *Client) Get(ctx context.Context, collection, id string) (map[string]any, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.docURL(collection, id), nil)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create get request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, false, fmt.Errorf("document store get failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, false, nil
	}

	var doc document
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, false, fmt.Errorf("failed to decode document %s/%s: %w", collection, id, err)
	}

	return decodeFields(doc.Fields), true, nil
}

// Set applies a partial update: only the supplied fields are named in the
// update mask, so everything else on the document is left untouched.
func (c *Client) Set(ctx context.Context, collection, id string, fields map[string]any) error {
	body, err := json.Marshal(document{Fields: encodeFields(fields)})
	if err != nil {
		return fmt.Errorf("failed to encode document %s/%s: %w", collection, id, err)
	}

	// Field paths are sorted so identical writes produce identical requests.
	paths := make([]string, 0, len(fields))
	for name := range fields {
		paths = append(paths, name)
	}
	sort.Strings(paths)

	u := c.docURL(collection, id)
	for _, p := range paths {
		u += "&updateMask.fieldPaths=" + url.QueryEscape(p)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, u, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create patch request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("document store patch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn().
			Str("collection", collection).
			Str("id", id).
			Int("status", resp.StatusCode).
			Msg("Document store rejected write")
		return fmt.Errorf("document store returned status %d for %s/%s", resp.StatusCode, collection, id)
	}

	return nil
}
