package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"LevelScan/internal/domain/models"
	domrepo "LevelScan/internal/domain/repository"
	pkgkafka "LevelScan/pkg/kafka"
)

// KafkaAlertsHandler consumes zone alerts from Kafka and forwards them to
// the notification channel.
type KafkaAlertsHandler struct {
	topic    string
	notifier domrepo.AlertNotifier
	metrics  domrepo.Metrics
}

func NewKafkaAlertsHandler(topic string, notifier domrepo.AlertNotifier, metrics domrepo.Metrics) *KafkaAlertsHandler {
	return &KafkaAlertsHandler{topic: topic, notifier: notifier, metrics: metrics}
}

func (h *KafkaAlertsHandler) Topic() string { return h.topic }

func (h *KafkaAlertsHandler) Handle(ctx context.Context, b []byte) error {
	var alert models.ZoneAlert
	if err := json.Unmarshal(b, &alert); err != nil {
		h.metrics.RecordError("alert_unmarshal")
		return fmt.Errorf("unmarshal alert: %w", err)
	}

	start := time.Now()
	if err := h.notifier.Notify(ctx, FormatAlert(&alert)); err != nil {
		h.metrics.RecordError("alert_notify")
		return fmt.Errorf("notify: %w", err)
	}
	h.metrics.RecordLatency("alert_notify_seconds", time.Since(start).Seconds())
	return nil
}

// FormatAlert renders a zone alert as a human-readable message.
func FormatAlert(a *models.ZoneAlert) string {
	var b strings.Builder
	if a.Zone.Type == models.ZoneSupport {
		b.WriteString("🟢 ")
	} else {
		b.WriteString("🔴 ")
	}
	fmt.Fprintf(&b, "%s price %.4f entered %s zone %.4f", a.Symbol, a.Price, a.Zone.Type, a.Zone.Level)
	fmt.Fprintf(&b, "\ntouches: %d, strength: %.2f", a.Zone.Touches, a.Zone.Strength)
	fmt.Fprintf(&b, "\n%s", a.Timestamp.UTC().Format(time.RFC3339))
	return b.String()
}

var _ pkgkafka.MessageHandler = (*KafkaAlertsHandler)(nil)
