package env

import (
	"errors"
	"os"

	"slot_engine/internal/config"
)

const (
	httpAddrName = "HTTP_ADDR"
)

type httpConfig struct {
	address string
}

func NewHTTPConfig() (config.HTTPConfig, error) {
	addr := os.Getenv(httpAddrName)
	if len(addr) == 0 {
		return nil, errors.New("http address not found")
	}

	return &httpConfig{
		address: addr,
	}, nil
}

func (cfg *httpConfig) Address() string {
	return cfg.address
}
