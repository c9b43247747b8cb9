package config

import (
	"fmt"
	"log/slog"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	HTTPAddr   string     `env:"HTTP_ADDR" envDefault:":3000"`
	DBPath     string     `env:"DB_PATH" envDefault:"data/formwords.db"`
	AuthSecret string     `env:"AUTH_SECRET,required"`
	WordListID int64      `env:"WORD_LIST_ID" envDefault:"1"`
	LogLevel   slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
	SPADir     string     `env:"SPA_DIR"`
}

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	return &cfg, nil
}
