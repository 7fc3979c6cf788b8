package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/caminoapp/camino-backend/internal/models"
	"github.com/caminoapp/camino-backend/pkg/logger"
)

// Event names carried on the trips topic.
const (
	TripCreated       = "trip.created"
	OfferSubmitted    = "offer.submitted"
	OfferAccepted     = "offer.accepted"
	TripStatusChanged = "trip.status_changed"
)

// Envelope is the wire format for every published event.
type Envelope struct {
	Event      string      `json:"event"`
	OccurredAt time.Time   `json:"occurred_at"`
	Data       interface{} `json:"data"`
}

// Publisher emits domain events. Publishing is best effort: a broker
// failure is logged, never surfaced to the request.
type Publisher interface {
	Publish(ctx context.Context, event string, key string, data interface{})
	Close() error
}

// KafkaPublisher writes events to a kafka topic keyed by trip id so events
// for one trip stay ordered.
type KafkaPublisher struct {
	writer *kafka.Writer
	log    *logger.Logger
}

func NewKafkaPublisher(brokers []string, topic string, log *logger.Logger) *KafkaPublisher {
	w := kafka.NewWriter(kafka.WriterConfig{Brokers: brokers, Topic: topic, Balancer: &kafka.LeastBytes{}})
	return &KafkaPublisher{writer: w, log: log}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event, key string, data interface{}) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	b, err := json.Marshal(Envelope{Event: event, OccurredAt: time.Now().UTC(), Data: data})
	if err != nil {
		p.log.Error("marshal event", logger.String("event", event), logger.Err(err))
		return
	}
	if err := p.writer.WriteMessages(ctx, kafka.Message{Key: []byte(key), Value: b}); err != nil {
		p.log.Warn("publish event", logger.String("event", event), logger.Err(err))
	}
}

func (p *KafkaPublisher) Close() error {
	if p.writer == nil {
		return nil
	}
	return p.writer.Close()
}

// NoopPublisher is used when kafka is not configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(ctx context.Context, event, key string, data interface{}) {}
func (NoopPublisher) Close() error                                                     { return nil }

// TripPayload is the event view of a trip.
type TripPayload struct {
	TripID        string   `json:"trip_id"`
	PassengerID   string   `json:"passenger_id"`
	DriverID      *string  `json:"driver_id,omitempty"`
	Status        string   `json:"status"`
	ProposedPrice float64  `json:"proposed_price"`
	FinalPrice    *float64 `json:"final_price,omitempty"`
	Type          string   `json:"type"`
}

// OfferPayload is the event view of an offer.
type OfferPayload struct {
	OfferID        string  `json:"offer_id"`
	TripID         string  `json:"trip_id"`
	DriverID       string  `json:"driver_id"`
	Price          float64 `json:"price"`
	IsCounterOffer bool    `json:"is_counter_offer"`
}

func TripToPayload(t *models.Trip) TripPayload {
	return TripPayload{
		TripID:        t.ID,
		PassengerID:   t.PassengerID,
		DriverID:      t.DriverID,
		Status:        string(t.Status),
		ProposedPrice: t.ProposedPrice,
		FinalPrice:    t.FinalPrice,
		Type:          string(t.Type),
	}
}

func OfferToPayload(o *models.Offer) OfferPayload {
	return OfferPayload{
		OfferID:        o.ID,
		TripID:         o.TripID,
		DriverID:       o.DriverID,
		Price:          o.Price,
		IsCounterOffer: o.IsCounterOffer,
	}
}
