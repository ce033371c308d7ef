package config

import (
	"github.com/kelseyhightower/envconfig"
)

type App struct {
	HTTPAddr string `envconfig:"HTTP_ADDR" default:":8080"`

	// Empty DSN runs the seeded in-memory store.
	DatabaseDSN string `envconfig:"DATABASE_DSN"`

	JWTSecret    string `envconfig:"JWT_SECRET" required:"true"`
	JWTExpireMin int    `envconfig:"JWT_EXPIRE_MIN" default:"1440"`

	// AutoConfirm controls the initial status of self-service bookings:
	// true creates them confirmed, false leaves them pending for review.
	AutoConfirm bool `envconfig:"AUTO_CONFIRM" default:"true"`

	// RabbitMQ is optional; events go to websocket clients either way.
	RabbitURL       string `envconfig:"RABBIT_URL"`
	BookingExchange string `envconfig:"BOOKING_EXCHANGE" default:"booking.exchange"`

	OTLPEndpoint string `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	Env      string `envconfig:"ENV" default:"dev"`
}

func Load() (App, error) {
	var c App
	err := envconfig.Process("", &c)
	return c, err
}
