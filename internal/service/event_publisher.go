package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/slotstage/backend/internal/domain"
	"github.com/slotstage/backend/pkg/kafka"
)

// EventPublisher publishes lifecycle messages for downstream consumers
// (notifications, directories, analytics). Publishing is best effort:
// callers log failures but never roll back the committed state change.
type EventPublisher interface {
	// PublishEventPublished announces a published event and its slot plan
	PublishEventPublished(ctx context.Context, event *domain.Event, slotCount int) error

	// PublishBookingCreated announces a committed claim batch
	PublishBookingCreated(ctx context.Context, group *domain.BookingGroup, bookings []*domain.SlotBooking) error

	// PublishBookingCancelled announces a cancelled booking
	PublishBookingCancelled(ctx context.Context, booking *domain.SlotBooking) error

	// PublishPartnershipAccepted announces an accepted partnership
	PublishPartnershipAccepted(ctx context.Context, req *domain.B2BRequest, booking *domain.SlotBooking) error

	// Close closes the publisher
	Close() error
}

// KafkaEventPublisher implements EventPublisher using Kafka
type KafkaEventPublisher struct {
	producer    *kafka.Producer
	topic       string
	serviceName string
}

// EventPublisherConfig contains configuration for the event publisher
type EventPublisherConfig struct {
	Brokers     []string
	Topic       string
	ServiceName string
	ClientID    string
}

// NewKafkaEventPublisher creates a new Kafka event publisher
func NewKafkaEventPublisher(ctx context.Context, cfg *EventPublisherConfig) (*KafkaEventPublisher, error) {
	if cfg == nil {
		return nil, fmt.Errorf("event publisher config is required")
	}
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("kafka brokers are required")
	}

	topic := cfg.Topic
	if topic == "" {
		topic = "booking-events"
	}
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "slotstage-backend"
	}
	clientID := cfg.ClientID
	if clientID == "" {
		clientID = "slotstage-producer"
	}

	producer, err := kafka.NewProducer(ctx, &kafka.ProducerConfig{
		Brokers:       cfg.Brokers,
		ClientID:      clientID,
		MaxRetries:    3,
		RetryInterval: 2 * time.Second,
		BatchSize:     100,
		LingerMs:      10,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	return &KafkaEventPublisher{
		producer:    producer,
		topic:       topic,
		serviceName: serviceName,
	}, nil
}

// PublishEventPublished announces a published event and its slot plan
func (p *KafkaEventPublisher) PublishEventPublished(ctx context.Context, event *domain.Event, slotCount int) error {
	return p.publish(ctx, &domain.Message{
		ID:         uuid.New().String(),
		Type:       domain.MessageEventPublished,
		EventID:    event.ID,
		SlotCount:  slotCount,
		OccurredAt: time.Now(),
	})
}

// PublishBookingCreated announces a committed claim batch
func (p *KafkaEventPublisher) PublishBookingCreated(ctx context.Context, group *domain.BookingGroup, bookings []*domain.SlotBooking) error {
	return p.publish(ctx, &domain.Message{
		ID:          uuid.New().String(),
		Type:        domain.MessageBookingCreated,
		EventID:     group.EventID,
		GroupID:     group.ID,
		PerformerID: group.PerformerID,
		SlotCount:   len(bookings),
		OccurredAt:  time.Now(),
	})
}

// PublishBookingCancelled announces a cancelled booking
func (p *KafkaEventPublisher) PublishBookingCancelled(ctx context.Context, booking *domain.SlotBooking) error {
	return p.publish(ctx, &domain.Message{
		ID:          uuid.New().String(),
		Type:        domain.MessageBookingCancelled,
		EventID:     booking.EventID,
		GroupID:     booking.GroupID,
		BookingID:   booking.ID,
		PerformerID: booking.PerformerID,
		OccurredAt:  time.Now(),
	})
}

// PublishPartnershipAccepted announces an accepted partnership
func (p *KafkaEventPublisher) PublishPartnershipAccepted(ctx context.Context, req *domain.B2BRequest, booking *domain.SlotBooking) error {
	return p.publish(ctx, &domain.Message{
		ID:          uuid.New().String(),
		Type:        domain.MessagePartnershipAccepted,
		EventID:     booking.EventID,
		BookingID:   booking.ID,
		PerformerID: booking.PerformerID,
		PartnerID:   req.PartnerID(booking.PerformerID),
		OccurredAt:  time.Now(),
	})
}

// Close closes the event publisher
func (p *KafkaEventPublisher) Close() error {
	if p.producer != nil {
		p.producer.Close()
	}
	return nil
}

func (p *KafkaEventPublisher) publish(ctx context.Context, msg *domain.Message) error {
	value, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	headers := map[string]string{
		"message_type": string(msg.Type),
		"message_id":   msg.ID,
		"source":       p.serviceName,
		"content_type": "application/json",
	}

	if err := p.producer.Produce(ctx, &kafka.Message{
		Topic:     p.topic,
		Key:       []byte(msg.Key()),
		Value:     value,
		Headers:   headers,
		Timestamp: msg.OccurredAt,
	}); err != nil {
		return fmt.Errorf("failed to publish %s message: %w", msg.Type, err)
	}
	return nil
}

// NoOpEventPublisher is a no-op implementation of EventPublisher
type NoOpEventPublisher struct{}

// NewNoOpEventPublisher creates a new no-op event publisher
func NewNoOpEventPublisher() *NoOpEventPublisher {
	return &NoOpEventPublisher{}
}

func (p *NoOpEventPublisher) PublishEventPublished(ctx context.Context, event *domain.Event, slotCount int) error {
	return nil
}

func (p *NoOpEventPublisher) PublishBookingCreated(ctx context.Context, group *domain.BookingGroup, bookings []*domain.SlotBooking) error {
	return nil
}

func (p *NoOpEventPublisher) PublishBookingCancelled(ctx context.Context, booking *domain.SlotBooking) error {
	return nil
}

func (p *NoOpEventPublisher) PublishPartnershipAccepted(ctx context.Context, req *domain.B2BRequest, booking *domain.SlotBooking) error {
	return nil
}

func (p *NoOpEventPublisher) Close() error {
	return nil
}
