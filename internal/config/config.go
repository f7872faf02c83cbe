package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel  string    `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort  string    `yaml:"http-port" env:"PORT" env-default:"8080"`
	Redis     Redis     `yaml:"redis"`
	WebSocket WebSocket `yaml:"websocket"`
	Game      Game      `yaml:"game"`
}

type Redis struct {
	Enabled bool   `yaml:"enabled" env:"REDIS_ENABLED" env-default:"false"`
	Host    string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port    string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	Channel string `yaml:"channel" env:"REDIS_CHANNEL"`
}

type WebSocket struct {
	WriteWait      time.Duration `yaml:"write-wait" env-default:"10s"`
	PongWait       time.Duration `yaml:"pong-wait" env-default:"60s"`
	PingPeriod     time.Duration `yaml:"ping-period" env-default:"54s"`
	SendBuffer     int           `yaml:"send-buffer" env-default:"16"`
	MaxMessageSize int64         `yaml:"max-message-size" env-default:"4096"`
	AllowedOrigins []string      `yaml:"allowed-origins" env:"WS_ALLOWED_ORIGINS"`
}

type Game struct {
	AutoResetDelay      time.Duration `yaml:"auto-reset-delay" env:"GAME_AUTO_RESET_DELAY" env-default:"0s"`
	NotifyRejectedMoves bool          `yaml:"notify-rejected-moves" env:"GAME_NOTIFY_REJECTED_MOVES" env-default:"false"`
}

var ErrInvalidPingPeriod = errors.New("websocket ping-period must be shorter than pong-wait")

// Load - reads config.yml at path when it exists, otherwise only the environment.
func Load(path string) (*Config, error) {
	config := &Config{}

	var err error
	if _, statErr := os.Stat(path); statErr == nil {
		err = cleanenv.ReadConfig(path, config)
	} else {
		err = cleanenv.ReadEnv(config)
	}

	if err != nil {
		return nil, fmt.Errorf("unable to load config: %w", err)
	}

	if config.WebSocket.PingPeriod >= config.WebSocket.PongWait {
		return nil, fmt.Errorf("%w: %s >= %s", ErrInvalidPingPeriod, config.WebSocket.PingPeriod, config.WebSocket.PongWait)
	}

	return config, nil
}

// MustLoad - same as Load but panics on error.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(err)
	}

	return config
}

func (that *Redis) GetRedisAddr() string {
	return net.JoinHostPort(that.Host, that.Port)
}
