package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/wb-go/wbf/retry"
)

const defaultConfigPath = "config/config.yaml"

type Config struct {
	Env        string     `yaml:"env" env:"ENV" env-default:"local"`
	Server     Server     `yaml:"server"`
	Processing Processing `yaml:"processing"`
	Studio     Studio     `yaml:"studio"`
	Export     Export     `yaml:"export"`
	Retry      Retry      `yaml:"retry"`
}

// Server binds to loopback only; the studio is a single-user tool.
type Server struct {
	Host            string        `yaml:"host" env:"SERVER_HOST" env-default:"127.0.0.1"`
	Addr            string        `yaml:"addr" env:"SERVER_ADDR" env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"SERVER_READ_TIMEOUT" env-default:"30s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"SERVER_WRITE_TIMEOUT" env-default:"60s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" env:"SERVER_IDLE_TIMEOUT" env-default:"120s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"30s"`
	MaxUploadSize   int64         `yaml:"max_upload_size" env:"SERVER_MAX_UPLOAD_SIZE" env-default:"67108864"`
}

type Processing struct {
	Resampler     string `yaml:"resampler" env:"PROCESSING_RESAMPLER" env-default:"catmullrom"`
	PresetsFile   string `yaml:"presets_file" env:"PROCESSING_PRESETS_FILE"`
	DefaultPreset string `yaml:"default_preset" env:"PROCESSING_DEFAULT_PRESET"`
}

type Studio struct {
	QueueSize int `yaml:"queue_size" env:"STUDIO_QUEUE_SIZE" env-default:"16"`
}

// Export is optional; an empty Endpoint disables the object-store export.
type Export struct {
	Endpoint  string `yaml:"endpoint" env:"EXPORT_ENDPOINT"`
	AccessKey string `yaml:"access_key" env:"EXPORT_ACCESS_KEY"`
	SecretKey string `yaml:"secret_key" env:"EXPORT_SECRET_KEY"`
	Bucket    string `yaml:"bucket" env:"EXPORT_BUCKET" env-default:"processed-images"`
	Prefix    string `yaml:"prefix" env:"EXPORT_PREFIX" env-default:"batches"`
	UseSSL    bool   `yaml:"use_ssl" env:"EXPORT_USE_SSL" env-default:"false"`
	Region    string `yaml:"region" env:"EXPORT_REGION"`
}

func (e Export) Enabled() bool {
	return e.Endpoint != ""
}

type Retry struct {
	Attempts int           `yaml:"attempts" env:"RETRY_ATTEMPTS" env-default:"3"`
	Delay    time.Duration `yaml:"delay" env:"RETRY_DELAY" env-default:"500ms"`
	Backoff  float64       `yaml:"backoff" env:"RETRY_BACKOFF" env-default:"2"`
}

// MustLoad reads the YAML file at CONFIG_PATH (or config/config.yaml) and
// applies env overrides. A missing default file falls back to env only.
func MustLoad() (*Config, error) {
	path := os.Getenv("CONFIG_PATH")
	explicit := path != ""
	if !explicit {
		path = defaultConfigPath
	}

	return Load(path, explicit)
}

func Load(path string, required bool) (*Config, error) {
	var cfg Config

	if _, err := os.Stat(path); err != nil {
		if required || !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config file %s: %w", path, err)
		}
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("failed to read env config: %w", err)
		}
		return &cfg, nil
	}

	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	return &cfg, nil
}

func (c *Config) ListenAddr() string {
	return c.Server.Host + ":" + c.Server.Addr
}

func (c *Config) DefaultRetryStrategy() retry.Strategy {
	return retry.Strategy{
		Attempts: c.Retry.Attempts,
		Delay:    c.Retry.Delay,
		Backoff:  c.Retry.Backoff,
	}
}
