package config

import "time"

type Config struct {
	Environment Environment
	Log         Log
	HTTP        HTTPServer

	Gateway  Gateway  `envPrefix:"GATEWAY_"`
	ViaCEP   ViaCEP   `envPrefix:"VIACEP_"`
	Store    Store    `envPrefix:"STORE_"`
	Checkout Checkout `envPrefix:"CHECKOUT_"`
	Watch    Watch    `envPrefix:"WATCH_"`
}

type Environment struct {
	Name string `env:"ENVIRONMENT" envDefault:"development"`
}

type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

type HTTPServer struct {
	Host string `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port string `env:"HTTP_PORT" envDefault:"8080"`
}

// Gateway points at the backend API gateway that fronts the product, cart,
// order, payment, notification and recommendation services.
type Gateway struct {
	BaseURL string        `env:"BASE_URL" envDefault:"http://localhost:8700/api"`
	WSURL   string        `env:"WS_URL" envDefault:"ws://localhost:8700/api"`
	Timeout time.Duration `env:"TIMEOUT" envDefault:"30s"`
}

type ViaCEP struct {
	BaseURL string        `env:"BASE_URL" envDefault:"https://viacep.com.br"`
	Timeout time.Duration `env:"TIMEOUT" envDefault:"10s"`
}

// Store selects the session state driver.
type Store struct {
	Driver string `env:"DRIVER" envDefault:"memory"` // memory, sqlite, redis

	SQLitePath string `env:"SQLITE_PATH" envDefault:"storefront.db"`

	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`
}

type Checkout struct {
	ShippingPrice float64 `env:"SHIPPING_PRICE" envDefault:"15.00"`
}

// Watch controls payment status watching. Timeout 0 keeps watching until a
// terminal status arrives.
type Watch struct {
	PollInterval time.Duration `env:"POLL_INTERVAL" envDefault:"3s"`
	Timeout      time.Duration `env:"TIMEOUT" envDefault:"0"`
}
