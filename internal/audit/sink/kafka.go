// Package sink provides audit event sinks backed by external systems.
package sink

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"

	"sevsizer/internal/audit"
)

// Kafka publishes audit events as JSON records, keyed by a fresh event
// ID so downstream consumers can deduplicate.
type Kafka struct {
	client *kgo.Client
	topic  string
	logger *slog.Logger
}

// NewKafka connects to the given brokers and ensures the topic exists.
// Topic creation is idempotent: an already existing topic is not an error.
func NewKafka(ctx context.Context, brokers []string, topic string, logger *slog.Logger) (*Kafka, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.ProducerLinger(5*time.Millisecond),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	k := &Kafka{client: client, topic: topic, logger: logger}
	if err := k.ensureTopic(ctx); err != nil {
		client.Close()
		return nil, err
	}
	return k, nil
}

func (k *Kafka) ensureTopic(ctx context.Context) error {
	adm := kadm.NewClient(k.client)
	resp, err := adm.CreateTopics(ctx, 1, 1, nil, k.topic)
	if err != nil {
		return fmt.Errorf("create audit topic: %w", err)
	}
	for _, res := range resp.Sorted() {
		if res.Err != nil && !errors.Is(res.Err, kerr.TopicAlreadyExists) {
			return fmt.Errorf("create audit topic %s: %w", res.Topic, res.Err)
		}
	}
	return nil
}

// payload is the JSON structure produced to the topic.
type payload struct {
	ID               string `json:"id"`
	Category         string `json:"category"`
	Timestamp        string `json:"timestamp"`
	Action           string `json:"action"`
	Subject          string `json:"subject,omitempty"`
	ChartID          string `json:"chart_id,omitempty"`
	MeasurementID    string `json:"measurement_id,omitempty"`
	RecommendationID string `json:"recommendation_id,omitempty"`
	RequestID        string `json:"request_id,omitempty"`
	Detail           string `json:"detail,omitempty"`
}

// Append produces the event and waits for broker acknowledgement.
func (k *Kafka) Append(ctx context.Context, event audit.Event) error {
	eventID := uuid.New().String()
	value, err := json.Marshal(payload{
		ID:               eventID,
		Category:         string(event.Category),
		Timestamp:        event.Timestamp.Format(time.RFC3339Nano),
		Action:           string(event.Action),
		Subject:          event.Subject,
		ChartID:          event.ChartID.String(),
		MeasurementID:    event.MeasurementID.String(),
		RecommendationID: event.RecommendationID.String(),
		RequestID:        event.RequestID,
		Detail:           event.Detail,
	})
	if err != nil {
		return fmt.Errorf("marshal audit payload: %w", err)
	}

	record := &kgo.Record{Topic: k.topic, Key: []byte(eventID), Value: value}
	if err := k.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce audit event: %w", err)
	}
	return nil
}

// Close flushes outstanding produce requests and releases the client.
func (k *Kafka) Close() {
	k.client.Close()
}
