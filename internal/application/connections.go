package application

import (
	"context"
	"fmt"

	"jewelpos-shopify-sync/internal/domain"
	"jewelpos-shopify-sync/internal/ports"

	"github.com/rs/zerolog"
)

const (
	connectionCollection = "integrations"
	connectionDocID      = "shopify"
)

// ConnectionService owns the persisted Shopify connection. Every Get
// re-reads the document store, so a token rotated by a re-authorization in
// another process is picked up on the next call.
type ConnectionService struct {
	store  ports.DocumentStore
	logger zerolog.Logger
}

// NewConnectionService creates a connection service over the document store.
func NewConnectionService(store ports.DocumentStore, logger zerolog.Logger) *ConnectionService {
	return &ConnectionService{store: store, logger: logger}
}

// Save persists the connection, overwriting any previous one.
func (s *ConnectionService) Save(ctx context.Context, conn *domain.ShopConnection) error {
	if err := s.store.Set(ctx, connectionCollection, connectionDocID, conn.Fields()); err != nil {
		return fmt.Errorf("failed to save shop connection: %w", err)
	}
	s.logger.Info().Str("shop", conn.Shop).Msg("Shop connection saved")
	return nil
}

// Get returns the current connection, or nil when no store is connected.
func (s *ConnectionService) Get(ctx context.Context) (*domain.ShopConnection, error) {
	fields, ok, err := s.store.Get(ctx, connectionCollection, connectionDocID)
	if err != nil {
		return nil, fmt.Errorf("failed to get shop connection: %w", err)
	}
	if !ok {
		return nil, nil
	}
	conn := domain.ConnectionFromFields(fields)
	if conn.AccessToken == "" {
		return nil, nil
	}
	return conn, nil
}

// Clear drops the stored credential. Used when the merchant uninstalls the
// app; the shop domain is kept for reference.
func (s *ConnectionService) Clear(ctx context.Context) error {
	if err := s.store.Set(ctx, connectionCollection, connectionDocID, map[string]any{"accessToken": ""}); err != nil {
		return fmt.Errorf("failed to clear shop connection: %w", err)
	}
	s.logger.Info().Msg("Shop connection cleared")
	return nil
}
