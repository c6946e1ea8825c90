package shopify

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// signQuery builds the hex hmac Shopify attaches to an OAuth redirect:
// HMAC-SHA256 over the sorted, &-joined key=value pairs, hmac and signature
// excluded.
func signQuery(secret string, query url.Values) string {
	var pairs []string
	for key, values := range query {
		if key == "hmac" || key == "signature" {
			continue
		}
		for _, value := range values {
			pairs = append(pairs, key+"="+value)
		}
	}
	sort.Strings(pairs)
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(strings.Join(pairs, "&")))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifyWebhook(t *testing.T) {
	v := NewVerifier("hush")
	body := []byte(`{"id":42,"email":"a@b.com"}`)

	t.Run("accepts its own signature", func(t *testing.T) {
		assert.True(t, v.VerifyWebhook(body, v.SignWebhook(body)))
	})

	t.Run("rejects a tampered body", func(t *testing.T) {
		sig := v.SignWebhook(body)
		tampered := []byte(`{"id":43,"email":"a@b.com"}`)
		assert.False(t, v.VerifyWebhook(tampered, sig))
	})

	t.Run("rejects a signature from another secret", func(t *testing.T) {
		other := NewVerifier("different")
		assert.False(t, v.VerifyWebhook(body, other.SignWebhook(body)))
	})

	t.Run("signature covers exact bytes, not JSON meaning", func(t *testing.T) {
		sig := v.SignWebhook(body)
		reserialized := []byte(`{"email":"a@b.com","id":42}`)
		assert.False(t, v.VerifyWebhook(reserialized, sig))
	})

	t.Run("malformed signatures are false, not panics", func(t *testing.T) {
		for _, sig := range []string{"", "not base64 at all!!!", "9", "줄"} {
			assert.False(t, v.VerifyWebhook(body, sig), "signature %q", sig)
		}
	})

	t.Run("empty body still verifies", func(t *testing.T) {
		assert.True(t, v.VerifyWebhook(nil, v.SignWebhook(nil)))
	})
}

func TestVerifyAuthorizationQuery(t *testing.T) {
	v := NewVerifier("hush")

	sign := func(query url.Values) url.Values {
		query.Set("hmac", signQuery("hush", query))
		return query
	}

	t.Run("accepts a correctly signed redirect", func(t *testing.T) {
		q := sign(url.Values{
			"code":      {"authcode123"},
			"shop":      {"gems.myshopify.com"},
			"state":     {"abc123"},
			"timestamp": {"1700000000"},
		})
		assert.True(t, v.VerifyAuthorizationQuery(q))
	})

	t.Run("ignores a legacy signature parameter", func(t *testing.T) {
		q := sign(url.Values{
			"code": {"authcode123"},
			"shop": {"gems.myshopify.com"},
		})
		q.Set("signature", "deadbeef")
		assert.True(t, v.VerifyAuthorizationQuery(q))
	})

	t.Run("rejects a modified parameter", func(t *testing.T) {
		q := sign(url.Values{
			"code": {"authcode123"},
			"shop": {"gems.myshopify.com"},
		})
		q.Set("shop", "evil.myshopify.com")
		assert.False(t, v.VerifyAuthorizationQuery(q))
	})

	t.Run("rejects missing or malformed hmac", func(t *testing.T) {
		q := url.Values{"shop": {"gems.myshopify.com"}}
		assert.False(t, v.VerifyAuthorizationQuery(q))
		q.Set("hmac", "zzzz-not-hex")
		assert.False(t, v.VerifyAuthorizationQuery(q))
	})
}
