package shopify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"jewelpos-shopify-sync/internal/domain"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAdminClient() *AdminClient {
	c := NewAdminClient("key", "secret", "2024-01", zerolog.Nop())
	c.scheme = "http"
	return c
}

func testConnection(ts *httptest.Server) *domain.ShopConnection {
	host := strings.TrimPrefix(ts.URL, "http://")
	return &domain.ShopConnection{Shop: host, AccessToken: "tok"}
}

func TestExchangeToken(t *testing.T) {
	t.Run("posts the code and returns the token", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPost, r.Method)
			require.Equal(t, "/admin/oauth/access_token", r.URL.Path)
			require.NoError(t, r.ParseForm())
			assert.Equal(t, "key", r.Form.Get("client_id"))
			assert.Equal(t, "secret", r.Form.Get("client_secret"))
			assert.Equal(t, "authcode", r.Form.Get("code"))
			json.NewEncoder(w).Encode(map[string]string{"access_token": "shpat_abc", "scope": "read_orders"})
		}))
		defer ts.Close()

		token, err := testAdminClient().ExchangeToken(context.Background(), strings.TrimPrefix(ts.URL, "http://"), "authcode")
		require.NoError(t, err)
		assert.Equal(t, "shpat_abc", token)
	})

	t.Run("errors on a non-200 response", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error":"invalid_request"}`, http.StatusBadRequest)
		}))
		defer ts.Close()

		_, err := testAdminClient().ExchangeToken(context.Background(), strings.TrimPrefix(ts.URL, "http://"), "bad")
		assert.Error(t, err)
	})

	t.Run("errors when the token is missing", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{}`))
		}))
		defer ts.Close()

		_, err := testAdminClient().ExchangeToken(context.Background(), strings.TrimPrefix(ts.URL, "http://"), "code")
		assert.Error(t, err)
	})
}

func TestFetchAll(t *testing.T) {
	t.Run("follows next links to completion", func(t *testing.T) {
		var requests []string
		var ts *httptest.Server
		ts = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requests = append(requests, r.URL.RequestURI())
			assert.Equal(t, "tok", r.Header.Get("X-Shopify-Access-Token"))
			assert.Equal(t, "250", r.URL.Query().Get("limit"))

			switch r.URL.Query().Get("page_info") {
			case "":
				w.Header().Set("Link", fmt.Sprintf(`<%s/admin/api/2024-01/customers.json?limit=250&page_info=c2>; rel="next"`, ts.URL))
				w.Write([]byte(`{"customers":[{"id":1},{"id":2}]}`))
			case "c2":
				// Both relations present; only "next" matters.
				w.Header().Set("Link", fmt.Sprintf(
					`<%s/admin/api/2024-01/customers.json?limit=250&page_info=c1>; rel="previous", <%s/admin/api/2024-01/customers.json?limit=250&page_info=c3>; rel="next"`,
					ts.URL, ts.URL))
				w.Write([]byte(`{"customers":[{"id":3}]}`))
			case "c3":
				w.Write([]byte(`{"customers":[{"id":4}]}`))
			default:
				t.Errorf("unexpected page_info %q", r.URL.Query().Get("page_info"))
			}
		}))
		defer ts.Close()

		records, err := testAdminClient().FetchAll(context.Background(), testConnection(ts), "customers.json", "customers")
		require.NoError(t, err)
		assert.Len(t, records, 4)
		assert.Len(t, requests, 3)
		assert.JSONEq(t, `{"id":1}`, string(records[0]))
		assert.JSONEq(t, `{"id":4}`, string(records[3]))
	})

	t.Run("preserves existing query parameters", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "any", r.URL.Query().Get("status"))
			assert.Equal(t, "250", r.URL.Query().Get("limit"))
			w.Write([]byte(`{"orders":[]}`))
		}))
		defer ts.Close()

		_, err := testAdminClient().FetchAll(context.Background(), testConnection(ts), "orders.json?status=any", "orders")
		require.NoError(t, err)
	})

	t.Run("returns the pages fetched before a failure", func(t *testing.T) {
		var ts *httptest.Server
		ts = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("page_info") == "" {
				w.Header().Set("Link", fmt.Sprintf(`<%s/admin/api/2024-01/products.json?limit=250&page_info=p2>; rel="next"`, ts.URL))
				w.Write([]byte(`{"products":[{"id":10}]}`))
				return
			}
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer ts.Close()

		records, err := testAdminClient().FetchAll(context.Background(), testConnection(ts), "products.json", "products")
		assert.Error(t, err)
		assert.Len(t, records, 1)
	})

	t.Run("stops on context cancellation", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("no request should be made after cancellation")
		}))
		defer ts.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := testAdminClient().FetchAll(ctx, testConnection(ts), "customers.json", "customers")
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("missing collection field yields no records", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{}`))
		}))
		defer ts.Close()

		records, err := testAdminClient().FetchAll(context.Background(), testConnection(ts), "customers.json", "customers")
		require.NoError(t, err)
		assert.Empty(t, records)
	})
}

func TestNextPagePath(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{
			name:   "next only",
			header: `<https://x.myshopify.com/admin/api/2024-01/orders.json?limit=250&page_info=abc>; rel="next"`,
			want:   "/admin/api/2024-01/orders.json?limit=250&page_info=abc",
		},
		{
			name:   "previous only",
			header: `<https://x.myshopify.com/admin/api/2024-01/orders.json?page_info=abc>; rel="previous"`,
			want:   "",
		},
		{
			name:   "empty header",
			header: "",
			want:   "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, nextPagePath(tt.header))
		})
	}
}
