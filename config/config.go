package config

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap/zapcore"

	"github.com/bookvault/borrowing-service/internal/catalog"
	"github.com/bookvault/borrowing-service/internal/scheduler"
	"github.com/bookvault/borrowing-service/internal/server"
	"github.com/bookvault/borrowing-service/pkg/kafka"
	"github.com/bookvault/borrowing-service/pkg/logger"
	"github.com/bookvault/borrowing-service/pkg/postgres"
)

type Config struct {
	Server    server.Config    `yaml:"server"`
	Database  postgres.DB      `yaml:"db"`
	Kafka     kafka.Config     `yaml:"kafka"`
	Catalog   catalog.Config   `yaml:"catalog"`
	Scheduler scheduler.Config `yaml:"scheduler"`
	Outbox    Outbox           `yaml:"outbox"`
	Log       logger.Log       `yaml:"log"`
}

type Outbox struct {
	RelayInterval time.Duration `yaml:"relayInterval" envconfig:"OUTBOX_RELAY_INTERVAL" default:"1s"`
}

var (
	once sync.Once
	cfg  *Config
)

// NewConfig reads config from environment.
func NewConfig(ops ...Option) *Config {
	once.Do(func() {
		var config Config
		for _, op := range ops {
			op(&config)
		}
		err := envconfig.Process("", &config)
		if err != nil {
			log.Fatal("NewConfig ", err)
		}
		cfg = &config
		printConfig(cfg)
	})

	return cfg
}

func printConfig(cfg *Config) {
	jscfg, _ := json.MarshalIndent(cfg, "", "	") //nolint:errcheck
	fmt.Println(string(jscfg))
}

type Option func(*Config)

func WithLogLevel(level zapcore.Level) Option {
	return func(c *Config) {
		c.Log.LogLevel = level
	}
}

func WithWriteTimeout(d time.Duration) Option {
	return func(c *Config) {
		c.Server.WriteTimeout = d
	}
}
