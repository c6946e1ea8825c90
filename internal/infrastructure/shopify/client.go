package shopify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"jewelpos-shopify-sync/internal/domain"
	"jewelpos-shopify-sync/internal/ports"

	goshopify "github.com/bold-commerce/go-shopify/v4"
	"github.com/rs/zerolog"
)

// pageSize is the maximum collection page size the Admin API allows.
const pageSize = 250

// nextLinkPattern extracts the URL carrying the "next" relation from a Link
// response header. The header may also carry a "previous" relation.
var nextLinkPattern = regexp.MustCompile(`<([^>]+)>;\s*rel="next"`)

// AdminClient talks to the Shopify Admin API. The go-shopify library covers
// the typed webhook subscription calls; token exchange and the paginated
// backfill walker are raw HTTP because the library exposes neither the
// redirect_uri parameter nor the Link cursor.
type AdminClient struct {
	apiKey     string
	apiSecret  string
	apiVersion string
	app        goshopify.App
	scheme     string
	http       *http.Client
	logger     zerolog.Logger
}

// NewAdminClient creates an Admin API client adapter.
func NewAdminClient(apiKey, apiSecret, apiVersion string, logger zerolog.Logger) *AdminClient {
	return &AdminClient{
		apiKey:     apiKey,
		apiSecret:  apiSecret,
		apiVersion: apiVersion,
		app:        goshopify.App{ApiKey: apiKey, ApiSecret: apiSecret},
		scheme:     "https",
		http:       &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}
}

var _ ports.ShopifyAdmin = (*AdminClient)(nil)

// ExchangeToken trades the OAuth authorization code for an access token.
func (c *AdminClient) ExchangeToken(ctx context.Context, shop, code string) (string, error) {
	tokenURL := fmt.Sprintf("%s://%s/admin/oauth/access_token", c.scheme, shop)

	values := url.Values{}
	values.Set("client_id", c.apiKey)
	values.Set("client_secret", c.apiSecret)
	values.Set("code", code)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, strings.NewReader(values.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to exchange token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("failed to exchange token: status %d, body: %s", resp.StatusCode, string(body))
	}

	var tokenResponse struct {
		AccessToken string `json:"access_token"`
		Scope       string `json:"scope"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tokenResponse); err != nil {
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}
	if tokenResponse.AccessToken == "" {
		return "", fmt.Errorf("token exchange returned no access token")
	}

	return tokenResponse.AccessToken, nil
}

// FetchAll walks a cursor-linked collection endpoint to completion. path is
// the resource path under the versioned API root (e.g. "customers.json") and
// root names the field the collection is nested under in each page body.
// Results accumulated before a failure or cancellation are returned with the
// error; a caller retrying starts a fresh walk.
func (c *AdminClient) FetchAll(ctx context.Context, conn *domain.ShopConnection, path, root string) ([]json.RawMessage, error) {
	var records []json.RawMessage

	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	next := fmt.Sprintf("/admin/api/%s/%s%slimit=%d", c.apiVersion, path, sep, pageSize)
	for next != "" {
		select {
		case <-ctx.Done():
			return records, ctx.Err()
		default:
		}

		pageURL := fmt.Sprintf("%s://%s%s", c.scheme, conn.Shop, next)
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
		if err != nil {
			return records, fmt.Errorf("failed to create page request: %w", err)
		}
		req.Header.Set("X-Shopify-Access-Token", conn.AccessToken)

		resp, err := c.http.Do(req)
		if err != nil {
			return records, fmt.Errorf("page fetch failed: %w", err)
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			resp.Body.Close()
			return records, fmt.Errorf("page fetch returned status %d for %s", resp.StatusCode, path)
		}

		var page map[string]json.RawMessage
		err = json.NewDecoder(resp.Body).Decode(&page)
		link := resp.Header.Get("Link")
		resp.Body.Close()
		if err != nil {
			return records, fmt.Errorf("failed to decode page of %s: %w", path, err)
		}

		var items []json.RawMessage
		if raw, ok := page[root]; ok {
			if err := json.Unmarshal(raw, &items); err != nil {
				return records, fmt.Errorf("failed to decode %q collection: %w", root, err)
			}
		}
		records = append(records, items...)

		next = nextPagePath(link)
	}

	return records, nil
}

// nextPagePath returns the path+query of the rel="next" URL in a Link
// header, or "" when the walk is complete.
func nextPagePath(header string) string {
	m := nextLinkPattern.FindStringSubmatch(header)
	if m == nil {
		return ""
	}
	u, err := url.Parse(m[1])
	if err != nil {
		return ""
	}
	return u.RequestURI()
}

// RegisterWebhooks subscribes each topic to its callback address. An
// individual topic failing (commonly: already subscribed) does not stop the
// rest; all failures are reported together.
func (c *AdminClient) RegisterWebhooks(ctx context.Context, conn *domain.ShopConnection, subscriptions map[string]string) error {
	client, err := goshopify.NewClient(c.app, conn.Shop, conn.AccessToken)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}

	var errs []error
	for topic, address := range subscriptions {
		webhook := goshopify.Webhook{
			Topic:   topic,
			Address: address,
			Format:  "json",
		}
		if _, err := client.Webhook.Create(ctx, webhook); err != nil {
			c.logger.Warn().
				Err(err).
				Str("shop", conn.Shop).
				Str("topic", topic).
				Msg("Failed to register webhook subscription")
			errs = append(errs, fmt.Errorf("topic %s: %w", topic, err))
		}
	}

	return errors.Join(errs...)
}
