package shopify

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"net/url"
	"sort"
	"strings"
)

// Verifier checks that inbound payloads and OAuth redirects genuinely
// originated from Shopify. All comparisons are constant-time and malformed
// signatures compare as false, never as an error.
type Verifier struct {
	secret []byte
}

// NewVerifier creates a verifier over the given shared secret.
func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// VerifyWebhook validates the X-Shopify-Hmac-Sha256 header against the raw,
// unparsed request body. The body must be the exact bytes received:
// re-serializing the JSON would invalidate the signature.
func (v *Verifier) VerifyWebhook(body []byte, signature string) bool {
	supplied, err := base64.StdEncoding.DecodeString(signature)
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, v.secret)
	mac.Write(body)
	return hmac.Equal(mac.Sum(nil), supplied)
}

// SignWebhook computes the base64 signature Shopify would attach to body.
func (v *Verifier) SignWebhook(body []byte) string {
	mac := hmac.New(sha256.New, v.secret)
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// VerifyAuthorizationQuery validates the hex hmac parameter on an OAuth
// redirect. The message is the sorted, &-joined key=value query parameters
// with the hmac (and legacy signature) parameters excluded.
func (v *Verifier) VerifyAuthorizationQuery(query url.Values) bool {
	supplied, err := hex.DecodeString(query.Get("hmac"))
	if err != nil || len(supplied) == 0 {
		return false
	}

	pairs := make([]string, 0, len(query))
	for key, values := range query {
		if key == "hmac" || key == "signature" {
			continue
		}
		for _, value := range values {
			pairs = append(pairs, key+"="+value)
		}
	}
	sort.Strings(pairs)

	mac := hmac.New(sha256.New, v.secret)
	mac.Write([]byte(strings.Join(pairs, "&")))
	return hmac.Equal(mac.Sum(nil), supplied)
}
