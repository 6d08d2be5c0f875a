package amqp_publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"slot_engine/internal/model"
	"slot_engine/internal/publisher"

	"github.com/streadway/amqp"
)

// Сообщение стока: результат спина в плоском JSON
type spinMessage struct {
	SessionID      string    `json:"session_id"`
	Outcome        []string  `json:"outcome"`
	Bet            string    `json:"bet"`
	RawPayout      string    `json:"raw_payout"`
	AdjustedPayout string    `json:"adjusted_payout"`
	Timestamp      time.Time `json:"timestamp"`
}

type sink struct {
	conn       *amqp.Connection
	channel    *amqp.Channel
	exchange   string
	routingKey string
}

// NewAMQPSink подключается к брокеру и объявляет exchange для результатов спинов
func NewAMQPSink(url, exchange, routingKey string) (publisher.SpinSink, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("amqp dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("amqp channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		exchange,
		"topic",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("amqp exchange declare: %w", err)
	}

	return &sink{
		conn:       conn,
		channel:    ch,
		exchange:   exchange,
		routingKey: routingKey,
	}, nil
}

// Publish отправляет результат спина в exchange
func (s *sink) Publish(_ context.Context, rec model.SpinRecord) error {
	body, err := json.Marshal(spinMessage{
		SessionID:      rec.SessionID,
		Outcome:        rec.Outcome,
		Bet:            rec.Bet.String(),
		RawPayout:      rec.RawPayout.String(),
		AdjustedPayout: rec.AdjustedPayout.String(),
		Timestamp:      rec.Timestamp,
	})
	if err != nil {
		return fmt.Errorf("marshal spin message: %w", err)
	}

	err = s.channel.Publish(
		s.exchange,
		s.routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    rec.Timestamp,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("amqp publish: %w", err)
	}

	return nil
}

func (s *sink) Close() error {
	if err := s.channel.Close(); err != nil {
		s.conn.Close()
		return err
	}
	return s.conn.Close()
}
