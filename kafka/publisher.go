package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/tair/field-inventory/internal/inventory/domain"
	"github.com/tair/field-inventory/pkg/logger"
)

// Publisher wraps Kafka producer
type Publisher struct {
	producer sarama.SyncProducer
	brokers  []string
}

// NewPublisher creates a new Kafka publisher
func NewPublisher(brokers []string) (*Publisher, error) {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.Retry.Max = 3
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Compression = sarama.CompressionSnappy
	config.Producer.MaxMessageBytes = 1000000

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	logger.Logger.Info().
		Strs("brokers", brokers).
		Msg("Kafka publisher initialized")

	return NewPublisherWithProducer(producer, brokers), nil
}

// NewPublisherWithProducer wraps an existing producer
func NewPublisherWithProducer(producer sarama.SyncProducer, brokers []string) *Publisher {
	return &Publisher{
		producer: producer,
		brokers:  brokers,
	}
}

// NewAuditRecordedEvent converts a committed audit entry into its event
func NewAuditRecordedEvent(entry domain.AuditLogEntry) AuditRecordedEvent {
	return AuditRecordedEvent{
		EventID:         uuid.NewString(),
		EventType:       EventTypeAuditRecorded,
		EntryID:         entry.ID,
		Action:          string(entry.Action),
		Detail:          entry.Detail,
		ActorID:         entry.ActorID,
		InventoryItemID: entry.InventoryItemID,
		LocationID:      entry.LocationID,
		ToLocationID:    entry.ToLocationID,
		PickingOrderID:  entry.PickingOrderID,
		Quantity:        entry.Quantity,
		RecordedAt:      entry.CreatedAt,
		Timestamp:       time.Now(),
	}
}

func auditMessageKey(event AuditRecordedEvent) string {
	if event.InventoryItemID == nil {
		return "audit"
	}
	return fmt.Sprintf("item_%d", *event.InventoryItemID)
}

// PublishAuditEntry publishes an audit recorded event with tracing
func (p *Publisher) PublishAuditEntry(ctx context.Context, entry domain.AuditLogEntry) error {
	event := NewAuditRecordedEvent(entry)

	tracer := otel.Tracer("kafka-publisher")
	ctx, span := tracer.Start(ctx, "kafka.publish.audit_recorded",
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(
			attribute.String("messaging.system", "kafka"),
			attribute.String("messaging.destination", TopicInventoryAudit),
			attribute.String("messaging.destination_kind", "topic"),
			attribute.String("event.type", EventTypeAuditRecorded),
			attribute.String("event.id", event.EventID),
			attribute.String("audit.action", event.Action),
			attribute.Int64("audit.entry_id", int64(event.EntryID)),
		),
	)
	defer span.End()

	eventBytes, err := json.Marshal(event)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to marshal event")
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	// Inject trace context into Kafka headers
	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)

	headers := []sarama.RecordHeader{
		{
			Key:   []byte("event_type"),
			Value: []byte(EventTypeAuditRecorded),
		},
		{
			Key:   []byte("event_id"),
			Value: []byte(event.EventID),
		},
	}
	for key, value := range carrier {
		headers = append(headers, sarama.RecordHeader{
			Key:   []byte(key),
			Value: []byte(value),
		})
	}

	msg := &sarama.ProducerMessage{
		Topic:   TopicInventoryAudit,
		Key:     sarama.StringEncoder(auditMessageKey(event)),
		Value:   sarama.ByteEncoder(eventBytes),
		Headers: headers,
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to send message")
		logger.Error(ctx).
			Err(err).
			Str("topic", TopicInventoryAudit).
			Uint("entry_id", event.EntryID).
			Msg("Failed to publish event")
		return fmt.Errorf("failed to send message to Kafka: %w", err)
	}

	span.SetAttributes(
		attribute.Int("messaging.kafka.partition", int(partition)),
		attribute.Int64("messaging.kafka.offset", offset),
	)
	span.SetStatus(codes.Ok, "Event published successfully")

	logger.Debug(ctx).
		Str("event_id", event.EventID).
		Str("topic", TopicInventoryAudit).
		Int32("partition", partition).
		Int64("offset", offset).
		Str("action", event.Action).
		Msg("Audit event published")

	return nil
}

// Close closes the Kafka producer
func (p *Publisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
