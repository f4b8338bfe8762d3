package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// envPrefix — префикс всех переменных окружения приложения (BOL_...).
const envPrefix = "BOL"

type API struct {
	Base        string        `default:"https://api.bol.com/retailer" envconfig:"BASE"`
	TokenURL    string        `default:"https://login.bol.com/token" envconfig:"TOKEN_URL"`
	Accept      string        `default:"application/vnd.retailer.v10+json" envconfig:"ACCEPT"`
	Timeout     time.Duration `default:"30s" envconfig:"TIMEOUT"`
	MinInterval time.Duration `default:"100ms" envconfig:"MIN_INTERVAL"`
}

type Retry struct {
	Attempts int           `default:"3" envconfig:"ATTEMPTS"`
	MinWait  time.Duration `default:"2s" envconfig:"MIN_WAIT"`
	MaxWait  time.Duration `default:"10s" envconfig:"MAX_WAIT"`
}

type Export struct {
	Dir string `default:"./data/exports" envconfig:"DIR"`
}

type State struct {
	Dir string `default:"./data/state" envconfig:"DIR"`
}

type Logger struct {
	IsProd  bool   `default:"false" envconfig:"IS_PROD"`
	Dir     string `default:"./logs" envconfig:"DIR"`
	Verbose bool   `default:"false" envconfig:"VERBOSE"`
}

type Tracing struct {
	Enabled     bool    `default:"false" envconfig:"OTEL_ENABLED"`
	ServiceName string  `default:"bol-export" envconfig:"OTEL_SERVICE_NAME"`
	Endpoint    string  `default:"localhost:4318" envconfig:"OTEL_ENDPOINT"`
	SampleRatio float64 `default:"1" envconfig:"OTEL_SAMPLE_RATIO"`
}

type Config struct {
	// Учётные данные OAuth2 обязательны: без них запуск прерывается
	// до первого сетевого вызова.
	ClientID     string `required:"true" envconfig:"CLIENT_ID"`
	ClientSecret string `required:"true" envconfig:"CLIENT_SECRET"`

	// FulfilmentMethod — режим обработки заказов (FBR или FBB).
	FulfilmentMethod string `default:"FBR" envconfig:"FULFILMENT_METHOD"`

	API     API
	Retry   Retry
	Export  Export
	State   State
	Logger  Logger
	Tracing Tracing
}

// Load — чтение конфигурации со стандартным префиксом BOL.
func Load() (Config, error) {
	return LoadWithPrefix(envPrefix)
}

// LoadWithPrefix — чтение конфигурации с произвольным префиксом (для тестов).
func LoadWithPrefix(prefix string) (Config, error) {
	var c Config

	if err := envconfig.Process(prefix, &c); err != nil {
		return Config{}, err
	}

	return c, nil
}
