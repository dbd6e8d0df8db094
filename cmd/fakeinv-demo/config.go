package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"github.com/df-mc/dragonfly/server"
)

type Config struct {
	// LogLevel is the level of logs to output (debug|info|warn|error)
	LogLevel string `env:"LOG_LEVEL" default:"info"`

	// ServerConfigPath is the path of the Dragonfly server config, created with defaults if missing
	ServerConfigPath string `env:"SERVER_CONFIG_PATH" default:"config.toml"`

	// TickRateMillis is the interval of the fake inventory tick loop
	TickRateMillis int `env:"FAKEINV_TICK_RATE_MS" default:"50"`

	// BehindPlayer specifies whether chests are drawn behind a single viewer instead of at their feet
	BehindPlayer bool `env:"FAKEINV_BEHIND_PLAYER" default:"true"`

	// ShopTitle is the window title of the demo shop
	ShopTitle string `env:"SHOP_TITLE" default:"Shop"`
}

// TickRate returns the tick loop interval.
func (c Config) TickRate() time.Duration {
	return time.Duration(c.TickRateMillis) * time.Millisecond
}

func parseConfigFromEnv() (Config, error) {
	cfg, err := env.ParseAsWithOptions[Config](env.Options{
		DefaultValueTagName: "default",
	})
	if err != nil {
		return Config{}, err
	}
	if cfg.TickRateMillis <= 0 {
		return Config{}, fmt.Errorf("FAKEINV_TICK_RATE_MS must be positive, got %d", cfg.TickRateMillis)
	}
	return cfg, nil
}

// readServerConfig reads the Dragonfly config at path. A missing file is
// created with the default config. Unknown keys are an error.
func readServerConfig(path string) (server.UserConfig, error) {
	c := server.DefaultConfig()
	meta, err := toml.DecodeFile(path, &c)
	if errors.Is(err, fs.ErrNotExist) {
		if err := writeServerConfig(path, c); err != nil {
			return server.UserConfig{}, err
		}
		return c, nil
	}
	if err != nil {
		return server.UserConfig{}, fmt.Errorf("decode %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		var err errUnknownConfig
		for _, key := range undecoded {
			err = append(err, key.String())
		}
		return server.UserConfig{}, err
	}
	return c, nil
}

func writeServerConfig(path string, c server.UserConfig) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(c); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return nil
}

// errUnknownConfig lists config keys that match no setting.
type errUnknownConfig []string

func (e errUnknownConfig) Error() string {
	return "unknown config keys: [" + strings.Join(e, ", ") + "]"
}
