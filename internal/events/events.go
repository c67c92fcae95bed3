// Package events publishes a best-effort trip.planned notification after a
// RoutePlan has been computed. Publishing is fire-and-forget: per §6
// Persisted state, the planner core is stateless, and a notification
// failure must never fail or retry the plan_trip call itself.
package events

import (
	"context"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/fleetlogix/hos-planner/internal/domain"
	"github.com/fleetlogix/hos-planner/internal/telemetry/logger"
)

func marshalEvent(event TripPlanned) ([]byte, error) {
	return json.Marshal(event)
}

// TripPlanned is the event payload emitted once per successful plan_trip.
type TripPlanned struct {
	ID                 string    `json:"id"`
	TripID             string    `json:"trip_id"`
	Time               time.Time `json:"time"`
	TotalDistanceMiles float64   `json:"total_distance_miles"`
	TotalDurationHours float64   `json:"total_duration_hours"`
	SegmentCount       int       `json:"segment_count"`
}

// NewTripPlanned builds a TripPlanned event from a completed RoutePlan.
func NewTripPlanned(plan domain.RoutePlan) TripPlanned {
	return TripPlanned{
		ID:                 uuid.New().String(),
		TripID:             plan.TripID,
		Time:               plan.EndTime,
		TotalDistanceMiles: plan.TotalDistanceMiles,
		TotalDurationHours: plan.TotalDurationHours,
		SegmentCount:       len(plan.Segments),
	}
}

// Publisher emits a TripPlanned event. Implementations never return an
// error that should abort the request that produced the plan.
type Publisher interface {
	PublishTripPlanned(ctx context.Context, event TripPlanned) error
	Close() error
}

// KafkaPublisher publishes trip.planned events to a Kafka topic via
// segmentio/kafka-go, grounded on the shared kafka.Producer pattern.
type KafkaPublisher struct {
	writer *kafka.Writer
	topic  string
	log    *logger.Logger
}

// NewKafkaPublisher builds a KafkaPublisher writing to topic on brokers.
func NewKafkaPublisher(brokers []string, topic string, log *logger.Logger) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Balancer:     &kafka.LeastBytes{},
			BatchTimeout: 10 * time.Millisecond,
			RequiredAcks: kafka.RequireOne,
			Async:        true,
		},
		topic: topic,
		log:   log,
	}
}

// PublishTripPlanned writes event to the configured topic. Failures are
// logged, not returned, so a broker outage never fails a trip plan.
func (p *KafkaPublisher) PublishTripPlanned(ctx context.Context, event TripPlanned) error {
	data, err := marshalEvent(event)
	if err != nil {
		p.log.WithError(err).Errorw("failed to marshal trip.planned event", "trip_id", event.TripID)
		return nil
	}

	msg := kafka.Message{
		Topic: p.topic,
		Key:   []byte(event.TripID),
		Value: data,
		Time:  event.Time,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte("trip.planned")},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.log.WithError(err).Errorw("failed to publish trip.planned event", "trip_id", event.TripID)
		return nil
	}
	return nil
}

// Close closes the underlying Kafka writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NoopPublisher discards every event; used when KAFKA_ENABLED is false.
type NoopPublisher struct{}

// NewNoopPublisher builds a NoopPublisher.
func NewNoopPublisher() *NoopPublisher { return &NoopPublisher{} }

// PublishTripPlanned does nothing.
func (NoopPublisher) PublishTripPlanned(ctx context.Context, event TripPlanned) error { return nil }

// Close does nothing.
func (NoopPublisher) Close() error { return nil }
