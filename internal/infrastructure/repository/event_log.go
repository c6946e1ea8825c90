package repository

import (
	"context"
	"fmt"
	"time"

	"jewelpos-shopify-sync/internal/domain"
	"jewelpos-shopify-sync/internal/infrastructure/repository/entity"
	"jewelpos-shopify-sync/internal/ports"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoWebhookEventLog records webhook deliveries in MongoDB for auditing.
type MongoWebhookEventLog struct {
	collection *mongo.Collection
}

// NewMongoWebhookEventLog creates an audit log over the given database.
func NewMongoWebhookEventLog(db *mongo.Database) ports.WebhookEventLog {
	return &MongoWebhookEventLog{
		collection: db.Collection("webhook_events"),
	}
}

// LogWebhook inserts one delivery record.
func (r *MongoWebhookEventLog) LogWebhook(ctx context.Context, event *domain.WebhookEvent) error {
	doc := entity.MongoWebhookEventDocFromDomain(event)
	doc.ID = primitive.NewObjectID()
	doc.CreatedAt = time.Now()

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to log webhook: %w", err)
	}
	return nil
}

// NopWebhookEventLog discards events. Used when no MongoDB is configured.
type NopWebhookEventLog struct{}

func (NopWebhookEventLog) LogWebhook(ctx context.Context, event *domain.WebhookEvent) error {
	return nil
}
