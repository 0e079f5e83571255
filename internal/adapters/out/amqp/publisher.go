// Package amqp relays domain events to a RabbitMQ topic exchange so other
// marketplace services (notifications, analytics) can react without calling
// back into the dispatch core. Publishing is fire-and-forget: a broker
// outage never fails the originating command, it only costs the external
// fan-out.
package amqp

import (
	"context"
	"encoding/json"
	"log/slog"

	"dispatch/internal/core/domain/events"
	"dispatch/internal/pkg/bus"

	amqp091 "github.com/rabbitmq/amqp091-go"
)

// ExchangeName is the topic exchange all deal events land on. Routing keys
// follow "<event name>.<deal id>" so consumers can bind per event kind, per
// deal, or both.
const ExchangeName = "dispatch.events"

// Publisher forwards bus events to RabbitMQ.
type Publisher struct {
	conn    *amqp091.Connection
	channel *amqp091.Channel
	logger  *slog.Logger
}

// NewPublisher dials the broker and declares the topic exchange.
func NewPublisher(url string, logger *slog.Logger) (*Publisher, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, err
	}

	channel, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	if err := channel.ExchangeDeclare(
		ExchangeName,
		"topic",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		_ = channel.Close()
		_ = conn.Close()
		return nil, err
	}

	return &Publisher{
		conn:    conn,
		channel: channel,
		logger:  logger.With("component", "amqp_publisher"),
	}, nil
}

// Attach subscribes the publisher to every event on the bus.
func (p *Publisher) Attach(b *bus.Bus) {
	b.SubscribeAll(p.HandleEvent)
}

// HandleEvent serializes and publishes one event. Failures are logged and
// swallowed.
func (p *Publisher) HandleEvent(ctx context.Context, event bus.Event) {
	envelope, ok := envelopeFor(event)
	if !ok {
		return
	}

	body, err := json.Marshal(envelope)
	if err != nil {
		p.logger.Error("marshal event", "event", event.EventName(), "error", err)
		return
	}

	routingKey := event.EventName() + "." + envelope.DealID
	err = p.channel.PublishWithContext(ctx,
		ExchangeName,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp091.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
	if err != nil {
		p.logger.Error("publish event", "routing_key", routingKey, "error", err)
	}
}

// Close tears down the channel and connection.
func (p *Publisher) Close() error {
	if err := p.channel.Close(); err != nil {
		_ = p.conn.Close()
		return err
	}
	return p.conn.Close()
}

// Envelope is the wire shape published to the exchange. Only fields relevant
// to the event kind are set.
type Envelope struct {
	Event         string   `json:"event"`
	DealID        string   `json:"dealId"`
	OrderID       string   `json:"orderId,omitempty"`
	TransporterID string   `json:"transporterId,omitempty"`
	PhotoID       string   `json:"photoId,omitempty"`
	VehicleClass  string   `json:"vehicleClass,omitempty"`
	Phase         string   `json:"phase,omitempty"`
	From          string   `json:"from,omitempty"`
	To            string   `json:"to,omitempty"`
	Latitude      *float64 `json:"latitude,omitempty"`
	Longitude     *float64 `json:"longitude,omitempty"`
	Enabled       *bool    `json:"enabled,omitempty"`
	TotalCost     *float64 `json:"totalCost,omitempty"`
	Earning       *float64 `json:"earning,omitempty"`
	OccurredAt    string   `json:"occurredAt"`
}

const occurredAtLayout = "2006-01-02T15:04:05.000Z07:00"

func envelopeFor(event bus.Event) (Envelope, bool) {
	switch e := event.(type) {
	case events.DealCreated:
		totalCost := e.TotalCost
		return Envelope{
			Event:      e.EventName(),
			DealID:     e.DealID.String(),
			OrderID:    e.OrderID.String(),
			TotalCost:  &totalCost,
			OccurredAt: e.OccurredAt.UTC().Format(occurredAtLayout),
		}, true
	case events.DealPaid:
		return Envelope{
			Event:        e.EventName(),
			DealID:       e.DealID.String(),
			OrderID:      e.OrderID.String(),
			VehicleClass: e.VehicleClass,
			OccurredAt:   e.OccurredAt.UTC().Format(occurredAtLayout),
		}, true
	case events.DealAccepted:
		return Envelope{
			Event:         e.EventName(),
			DealID:        e.DealID.String(),
			TransporterID: e.TransporterID.String(),
			OccurredAt:    e.OccurredAt.UTC().Format(occurredAtLayout),
		}, true
	case events.DealTaken:
		return Envelope{
			Event:      e.EventName(),
			DealID:     e.DealID.String(),
			OccurredAt: e.OccurredAt.UTC().Format(occurredAtLayout),
		}, true
	case events.DealDeclined:
		return Envelope{
			Event:         e.EventName(),
			DealID:        e.DealID.String(),
			TransporterID: e.TransporterID.String(),
			OccurredAt:    e.OccurredAt.UTC().Format(occurredAtLayout),
		}, true
	case events.ProofPhotoUploaded:
		return Envelope{
			Event:      e.EventName(),
			DealID:     e.DealID.String(),
			PhotoID:    e.PhotoID.String(),
			OccurredAt: e.OccurredAt.UTC().Format(occurredAtLayout),
		}, true
	case events.OtpVerified:
		return Envelope{
			Event:      e.EventName(),
			DealID:     e.DealID.String(),
			Phase:      e.Phase,
			To:         e.NewStatus,
			OccurredAt: e.OccurredAt.UTC().Format(occurredAtLayout),
		}, true
	case events.StatusChanged:
		return Envelope{
			Event:      e.EventName(),
			DealID:     e.DealID.String(),
			From:       e.From,
			To:         e.To,
			OccurredAt: e.OccurredAt.UTC().Format(occurredAtLayout),
		}, true
	case events.LocationUpdated:
		lat, lng := e.Latitude, e.Longitude
		return Envelope{
			Event:      e.EventName(),
			DealID:     e.DealID.String(),
			Latitude:   &lat,
			Longitude:  &lng,
			OccurredAt: e.OccurredAt.UTC().Format(occurredAtLayout),
		}, true
	case events.LocationSharingSet:
		enabled := e.Enabled
		return Envelope{
			Event:      e.EventName(),
			DealID:     e.DealID.String(),
			Enabled:    &enabled,
			OccurredAt: e.OccurredAt.UTC().Format(occurredAtLayout),
		}, true
	case events.DeliveryCompleted:
		earning := e.Earning
		return Envelope{
			Event:         e.EventName(),
			DealID:        e.DealID.String(),
			OrderID:       e.OrderID.String(),
			TransporterID: e.TransporterID.String(),
			Earning:       &earning,
			OccurredAt:    e.OccurredAt.UTC().Format(occurredAtLayout),
		}, true
	default:
		return Envelope{}, false
	}
}
