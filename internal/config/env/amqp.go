package env

import (
	"os"

	"slot_engine/internal/config"
)

const (
	amqpURLName        = "AMQP_URL"
	amqpExchangeName   = "AMQP_EXCHANGE"
	amqpRoutingKeyName = "AMQP_ROUTING_KEY"

	defaultExchange   = "slot.spins"
	defaultRoutingKey = "spin.result"
)

type amqpConfig struct {
	url        string
	exchange   string
	routingKey string
}

// NewAMQPConfig читает настройки брокера из окружения.
// Пустой AMQP_URL — публикация выключена, это не ошибка
func NewAMQPConfig() (config.AMQPConfig, error) {
	exchange := os.Getenv(amqpExchangeName)
	if exchange == "" {
		exchange = defaultExchange
	}
	routingKey := os.Getenv(amqpRoutingKeyName)
	if routingKey == "" {
		routingKey = defaultRoutingKey
	}

	return &amqpConfig{
		url:        os.Getenv(amqpURLName),
		exchange:   exchange,
		routingKey: routingKey,
	}, nil
}

func (cfg *amqpConfig) Enabled() bool {
	return len(cfg.url) > 0
}

func (cfg *amqpConfig) URL() string {
	return cfg.url
}

func (cfg *amqpConfig) Exchange() string {
	return cfg.exchange
}

func (cfg *amqpConfig) RoutingKey() string {
	return cfg.routingKey
}
