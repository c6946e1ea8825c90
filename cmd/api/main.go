package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"

	"jewelpos-shopify-sync/internal/application"
	"jewelpos-shopify-sync/internal/application/webhook_handlers"
	"jewelpos-shopify-sync/internal/config"
	"jewelpos-shopify-sync/internal/domain"
	"jewelpos-shopify-sync/internal/infrastructure/cache"
	"jewelpos-shopify-sync/internal/infrastructure/docstore"
	"jewelpos-shopify-sync/internal/infrastructure/metrics"
	"jewelpos-shopify-sync/internal/infrastructure/repository"
	shopifyinfra "jewelpos-shopify-sync/internal/infrastructure/shopify"
	"jewelpos-shopify-sync/internal/ports"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const stateCookieName = "shopify_oauth_state"

// Scopes requested during authorization: the sync is read-only.
const oauthScopes = "read_orders,read_customers,read_products"

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Webhook audit log (optional: requires MongoDB)
	var eventLog ports.WebhookEventLog = repository.NopWebhookEventLog{}
	if cfg.MongoURI != "" {
		client, err := mongo.Connect(context.Background(), options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to connect to MongoDB")
		}
		defer client.Disconnect(context.Background())
		eventLog = repository.NewMongoWebhookEventLog(client.Database(cfg.MongoDatabase))
	} else {
		logger.Warn().Msg("MONGODB_URI not set, webhook audit log disabled")
	}

	// Delivery dedup (optional: requires Redis)
	var dedup ports.DeliveryDedup = cache.NopDeliveryDedup{}
	if cfg.RedisAddr != "" {
		dedup = cache.NewRedisDeliveryDedup(redis.NewClient(&redis.Options{Addr: cfg.RedisAddr}))
	} else {
		logger.Warn().Msg("REDIS_ADDR not set, webhook delivery dedup disabled")
	}

	store := docstore.NewClient(cfg.DocstoreBaseURL, cfg.DocstoreAPIKey, logger)
	admin := shopifyinfra.NewAdminClient(cfg.ShopifyAPIKey, cfg.ShopifyAPISecret, cfg.ShopifyAPIVersion, logger)

	// The OAuth redirect is signed with the API secret, webhook payloads
	// with the webhook signing secret.
	authVerifier := shopifyinfra.NewVerifier(cfg.ShopifyAPISecret)
	webhookVerifier := shopifyinfra.NewVerifier(cfg.ShopifyWebhookSecret)

	connections := application.NewConnectionService(store, logger)
	syncService := application.NewSyncService(admin, store, connections, logger)

	customerReceiver := webhook_handlers.NewCustomerHandler(store, logger)
	productReceiver := webhook_handlers.NewProductHandler(store, logger)
	orderReceiver := webhook_handlers.NewOrderHandler(store, logger)
	uninstallReceiver := webhook_handlers.NewAppUninstalledHandler(connections, logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	// OAuth routes
	r.Get("/auth/shopify", oauthInitHandler(cfg, logger))
	r.Get("/auth/callback", oauthCallbackHandler(cfg, authVerifier, admin, connections, logger))

	// Webhook endpoints, one per resource kind
	r.Post("/webhooks/shopify/customers", webhookHandler(webhookVerifier, customerReceiver, dedup, eventLog, logger))
	r.Post("/webhooks/shopify/products", webhookHandler(webhookVerifier, productReceiver, dedup, eventLog, logger))
	r.Post("/webhooks/shopify/orders", webhookHandler(webhookVerifier, orderReceiver, dedup, eventLog, logger))
	r.Post("/webhooks/shopify/app-uninstalled", webhookHandler(webhookVerifier, uninstallReceiver, dedup, eventLog, logger))

	// Backfill: a run can take the full duration of the historical import,
	// so it is detached from the triggering request.
	backfillCtx := context.Background()
	r.Post("/sync/backfill", func(w http.ResponseWriter, r *http.Request) {
		if err := syncService.StartBackfill(backfillCtx); err != nil {
			if errors.Is(err, application.ErrBackfillRunning) {
				respondJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
				return
			}
			respondJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		respondJSON(w, http.StatusAccepted, map[string]bool{"started": true})
	})
	r.Get("/sync/status", func(w http.ResponseWriter, r *http.Request) {
		if syncService.Running() {
			respondJSON(w, http.StatusOK, map[string]bool{"running": true})
			return
		}
		report, ok := syncService.Status()
		if !ok {
			respondJSON(w, http.StatusNotFound, map[string]string{"error": "no backfill has run"})
			return
		}
		respondJSON(w, http.StatusOK, report)
	})

	logger.Info().Str("port", cfg.Port).Msg("Starting sync API server")
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		logger.Fatal().Err(err).Msg("Failed to start server")
	}
}

// oauthInitHandler starts the authorization flow: it validates the shop
// domain, issues a CSRF state cookie and redirects to the consent screen.
func oauthInitHandler(cfg *config.Config, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		shop := r.URL.Query().Get("shop")
		if !isValidShopDomain(shop) {
			respondJSON(w, http.StatusBadRequest, map[string]string{"error": "shop parameter must be a *.myshopify.com domain"})
			return
		}

		stateBytes := make([]byte, 16)
		if _, err := rand.Read(stateBytes); err != nil {
			logger.Error().Err(err).Msg("Failed to generate state")
			respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
			return
		}
		state := hex.EncodeToString(stateBytes)

		http.SetCookie(w, &http.Cookie{
			Name:     stateCookieName,
			Value:    state,
			Path:     "/",
			MaxAge:   3600,
			HttpOnly: true,
			Secure:   !isLoopback(r.Host),
			SameSite: http.SameSiteLaxMode,
		})

		// The redirect URI is derived from the incoming request so the same
		// build works across environments without reconfiguration.
		redirectURI := requestBaseURL(r, cfg.AppURL) + "/auth/callback"
		authURL := fmt.Sprintf(
			"https://%s/admin/oauth/authorize?client_id=%s&scope=%s&redirect_uri=%s&state=%s",
			shop,
			cfg.ShopifyAPIKey,
			url.QueryEscape(oauthScopes),
			url.QueryEscape(redirectURI),
			state,
		)

		http.Redirect(w, r, authURL, http.StatusFound)
	}
}

// oauthCallbackHandler finishes the authorization flow: state check, HMAC
// check, code exchange, connection persistence, webhook registration. Every
// failure redirects to the error path with a machine-readable reason; the
// user restarts from the initiate step.
func oauthCallbackHandler(
	cfg *config.Config,
	verifier *shopifyinfra.Verifier,
	admin ports.ShopifyAdmin,
	connections *application.ConnectionService,
	logger zerolog.Logger,
) http.HandlerFunc {
	fail := func(w http.ResponseWriter, r *http.Request, reason string) {
		http.Redirect(w, r, cfg.ReturnPath+"?error&reason="+reason, http.StatusFound)
	}

	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		query := r.URL.Query()

		// State must match the cookie before anything else runs; a
		// mismatched request never reaches the token exchange.
		cookie, err := r.Cookie(stateCookieName)
		if err != nil || cookie.Value == "" || cookie.Value != query.Get("state") {
			logger.Warn().Msg("OAuth callback state mismatch")
			fail(w, r, "state")
			return
		}

		if !verifier.VerifyAuthorizationQuery(query) {
			logger.Warn().Str("shop", query.Get("shop")).Msg("OAuth callback signature invalid")
			fail(w, r, "hmac")
			return
		}

		shop := query.Get("shop")
		token, err := admin.ExchangeToken(ctx, shop, query.Get("code"))
		if err != nil || token == "" {
			logger.Error().Err(err).Str("shop", shop).Msg("Token exchange failed")
			fail(w, r, "token")
			return
		}

		conn := domain.NewShopConnection(shop, token)
		if err := connections.Save(ctx, conn); err != nil {
			logger.Error().Err(err).Str("shop", shop).Msg("Failed to persist connection")
			fail(w, r, "token")
			return
		}

		// Push updates need subscriptions on the Shopify side. A failure
		// here is logged but does not fail the flow; backfill still works
		// and registration is retried on the next re-authorization.
		base := requestBaseURL(r, cfg.AppURL)
		subscriptions := map[string]string{
			"customers/create": base + "/webhooks/shopify/customers",
			"customers/update": base + "/webhooks/shopify/customers",
			"products/create":  base + "/webhooks/shopify/products",
			"products/update":  base + "/webhooks/shopify/products",
			"orders/create":    base + "/webhooks/shopify/orders",
			"orders/updated":   base + "/webhooks/shopify/orders",
			"app/uninstalled":  base + "/webhooks/shopify/app-uninstalled",
		}
		if err := admin.RegisterWebhooks(ctx, conn, subscriptions); err != nil {
			logger.Warn().Err(err).Str("shop", shop).Msg("Webhook registration incomplete")
		}

		http.SetCookie(w, &http.Cookie{
			Name:     stateCookieName,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
		})

		logger.Info().Str("shop", shop).Msg("Shop connected")
		http.Redirect(w, r, cfg.ReturnPath+"?connected", http.StatusFound)
	}
}

// webhookHandler wraps a receiver with the shared delivery plumbing:
// signature verification over the raw body, delivery dedup, audit logging
// and the always-200 acknowledgment after verification.
func webhookHandler(
	verifier *shopifyinfra.Verifier,
	receiver webhook_handlers.Receiver,
	dedup ports.DeliveryDedup,
	eventLog ports.WebhookEventLog,
	logger zerolog.Logger,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		// The body must stay byte-for-byte as received; parsing and
		// re-serializing would invalidate the signature.
		payload, err := io.ReadAll(r.Body)
		if err != nil {
			respondJSON(w, http.StatusBadRequest, map[string]string{"error": "failed to read request body"})
			return
		}
		defer r.Body.Close()

		if !verifier.VerifyWebhook(payload, r.Header.Get("X-Shopify-Hmac-Sha256")) {
			metrics.WebhookDeliveries.WithLabelValues(receiver.Resource(), "invalid_signature").Inc()
			logger.Warn().Str("resource", receiver.Resource()).Msg("Webhook signature verification failed")
			respondJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid signature"})
			return
		}

		deliveryID := r.Header.Get("X-Shopify-Webhook-Id")
		if deliveryID != "" {
			seen, err := dedup.Seen(ctx, deliveryID)
			if err != nil {
				// Dedup is best-effort; an unreachable store never blocks
				// a delivery.
				logger.Debug().Err(err).Msg("Delivery dedup unavailable")
			} else if seen {
				metrics.WebhookDeliveries.WithLabelValues(receiver.Resource(), "duplicate").Inc()
				respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
				return
			}
		}

		event := &domain.WebhookEvent{
			DeliveryID: deliveryID,
			Topic:      r.Header.Get("X-Shopify-Topic"),
			Shop:       r.Header.Get("X-Shopify-Shop-Domain"),
			Payload:    payload,
			Verified:   true,
		}

		result := "ok"
		if err := receiver.Handle(ctx, payload); err != nil {
			// The delivery is still acknowledged: Shopify retrying would
			// not fix a bad payload or a down document store, and retry
			// storms make it worse. The failure is surfaced out of band.
			result = "write_failed"
			event.Error = err.Error()
			logger.Error().
				Err(err).
				Str("resource", receiver.Resource()).
				Str("shop", event.Shop).
				Msg("Webhook processing failed")
		}
		metrics.WebhookDeliveries.WithLabelValues(receiver.Resource(), result).Inc()

		if err := eventLog.LogWebhook(ctx, event); err != nil {
			logger.Warn().Err(err).Msg("Failed to log webhook event")
		}

		respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
	}
}

// isValidShopDomain checks the platform's required domain suffix.
func isValidShopDomain(shop string) bool {
	return shop != "" &&
		strings.HasSuffix(shop, ".myshopify.com") &&
		!strings.ContainsAny(shop, "/?#@ ")
}

// requestBaseURL derives scheme://host from the incoming request, trusting
// X-Forwarded-Proto when a proxy terminates TLS. Falls back to the
// configured app URL when the Host header is empty.
func requestBaseURL(r *http.Request, fallback string) string {
	if r.Host == "" {
		return strings.TrimRight(fallback, "/")
	}
	scheme := "https"
	if r.TLS == nil {
		scheme = "http"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	return scheme + "://" + r.Host
}

// isLoopback reports whether host is a local development address, where the
// state cookie cannot be Secure.
func isLoopback(host string) bool {
	h := host
	if splitHost, _, err := net.SplitHostPort(host); err == nil {
		h = splitHost
	}
	return h == "localhost" || h == "127.0.0.1" || h == "::1"
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
