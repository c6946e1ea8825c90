package entity

import (
	"time"

	"jewelpos-shopify-sync/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MongoWebhookEventDoc represents one logged webhook delivery in MongoDB.
type MongoWebhookEventDoc struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	DeliveryID string             `bson:"deliveryId"`
	Topic      string             `bson:"topic"`
	Shop       string             `bson:"shop"`
	Payload    string             `bson:"payload"`
	Verified   bool               `bson:"verified"`
	Error      string             `bson:"error,omitempty"`
	CreatedAt  time.Time          `bson:"createdAt"`
}

// MongoWebhookEventDocFromDomain converts a domain event to a MongoDB document.
func MongoWebhookEventDocFromDomain(event *domain.WebhookEvent) *MongoWebhookEventDoc {
	return &MongoWebhookEventDoc{
		DeliveryID: event.DeliveryID,
		Topic:      event.Topic,
		Shop:       event.Shop,
		Payload:    string(event.Payload),
		Verified:   event.Verified,
		Error:      event.Error,
	}
}

// ToDomain converts the MongoDB document back to a domain event.
func (d *MongoWebhookEventDoc) ToDomain() *domain.WebhookEvent {
	return &domain.WebhookEvent{
		DeliveryID: d.DeliveryID,
		Topic:      d.Topic,
		Shop:       d.Shop,
		Payload:    []byte(d.Payload),
		Verified:   d.Verified,
		Error:      d.Error,
	}
}
