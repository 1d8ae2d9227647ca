package server

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/julianstephens/timetable/internal/constants"
	"github.com/julianstephens/timetable/internal/logger"
)

// ProviderConfig describes the trusted issuer of federated identity tokens.
// An empty Secret disables provider sign-in.
type ProviderConfig struct {
	Secret   string `yaml:"secret"`
	Issuer   string `yaml:"issuer"`
	Audience string `yaml:"audience"`
}

type Config struct {
	ListenAddr string         `yaml:"listen_addr"`
	DSN        string         `yaml:"dsn"`
	JWTSecret  string         `yaml:"jwt_secret"`
	JWTIssuer  string         `yaml:"jwt_issuer"`
	TokenTTL   time.Duration  `yaml:"token_ttl"`
	Provider   ProviderConfig `yaml:"provider"`
}

// DefaultConfig returns a config with every optional field filled in.
func DefaultConfig() Config {
	return Config{
		ListenAddr: constants.DefaultListenAddr,
		DSN:        constants.DefaultServerDSN,
		JWTIssuer:  constants.DefaultJWTIssuer,
		TokenTTL:   constants.DefaultTokenTTL,
	}
}

// LoadConfig reads the YAML file at path (skipped when path is empty or
// missing), then a .env file next to it, then the process environment.
// Later sources win.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("failed to parse %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist):
			logger.Debug("Server config file not found, using defaults", "path", path)
		default:
			return Config{}, fmt.Errorf("failed to read %s: %w", path, err)
		}
	}

	envFile := ".env"
	if path != "" {
		envFile = filepath.Join(filepath.Dir(path), ".env")
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	setString := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}
	setString("TIMETABLE_LISTEN_ADDR", &cfg.ListenAddr)
	setString("TIMETABLE_DSN", &cfg.DSN)
	setString("TIMETABLE_JWT_SECRET", &cfg.JWTSecret)
	setString("TIMETABLE_JWT_ISSUER", &cfg.JWTIssuer)
	setString("TIMETABLE_PROVIDER_SECRET", &cfg.Provider.Secret)
	setString("TIMETABLE_PROVIDER_ISSUER", &cfg.Provider.Issuer)
	setString("TIMETABLE_PROVIDER_AUDIENCE", &cfg.Provider.Audience)

	if v := os.Getenv("TIMETABLE_TOKEN_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid TIMETABLE_TOKEN_TTL %q: %w", v, err)
		}
		cfg.TokenTTL = d
	}
	return nil
}

func (c Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("jwt_secret is required (set TIMETABLE_JWT_SECRET)")
	}
	if c.TokenTTL <= 0 {
		return errors.New("token_ttl must be positive")
	}
	if c.DSN == "" {
		return errors.New("dsn is required")
	}
	return nil
}
