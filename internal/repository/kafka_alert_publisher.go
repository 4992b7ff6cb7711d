package repository

import (
	"context"
	"fmt"

	"LevelScan/internal/domain/models"
	pkgkafka "LevelScan/pkg/kafka"
	applogger "LevelScan/pkg/logger"
)

// KafkaAlertPublisher publishes zone alerts to a Kafka topic, keyed by
// symbol so alerts for one symbol stay ordered.
type KafkaAlertPublisher struct {
	producer *pkgkafka.Producer
	topic    string
	l        *applogger.Logger
}

func NewKafkaAlertPublisher(producer *pkgkafka.Producer, topic string) *KafkaAlertPublisher {
	return &KafkaAlertPublisher{producer: producer, topic: topic}
}

// SetLogger injects a structured logger.
func (p *KafkaAlertPublisher) SetLogger(l *applogger.Logger) { p.l = l }

func (p *KafkaAlertPublisher) Publish(ctx context.Context, alert *models.ZoneAlert) error {
	if alert == nil {
		return fmt.Errorf("alert is nil")
	}
	if err := p.producer.Publish(ctx, p.topic, []byte(alert.Symbol), alert); err != nil {
		if p.l != nil {
			p.l.Error("alert publish failed",
				applogger.String("topic", p.topic),
				applogger.String("symbol", alert.Symbol),
				applogger.Error(err),
			)
		}
		return fmt.Errorf("publish alert: %w", err)
	}
	if p.l != nil {
		p.l.Debug("alert published",
			applogger.String("topic", p.topic),
			applogger.String("symbol", alert.Symbol),
			applogger.Float64("price", alert.Price),
			applogger.Float64("zone_level", alert.Zone.Level),
		)
	}
	return nil
}

func (p *KafkaAlertPublisher) Close() error {
	return p.producer.Close()
}
