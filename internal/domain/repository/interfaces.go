package repository

import (
	"context"

	"LevelScan/internal/domain/models"
)

// AlertPublisher publishes zone alerts to the delivery pipeline.
type AlertPublisher interface {
	Publish(ctx context.Context, a *models.ZoneAlert) error
	Close() error
}

// AlertNotifier delivers a formatted alert to an end-user channel
// (Telegram, webhook, ...).
type AlertNotifier interface {
	Notify(ctx context.Context, text string) error
}

// Metrics records operational metrics for detection and delivery.
type Metrics interface {
	RecordDetection(endpoint, symbol string)
	RecordError(kind string)
	RecordLatency(op string, seconds float64)
	RecordAlertPublished(symbol string)
}
