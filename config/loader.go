package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// FileSystem abstracts file operations so loading is testable.
type FileSystem interface {
	Exists(path string) bool
	LoadEnv(path string) error
}

// RealFileSystem implements FileSystem against the OS.
type RealFileSystem struct{}

func (RealFileSystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (RealFileSystem) LoadEnv(path string) error {
	return godotenv.Load(path)
}

// LoaderConfig holds dependencies and optional file overrides.
type LoaderConfig struct {
	FileSystem FileSystem
	ConfigFile string
	EnvFile    string
}

// LoaderOption is a functional option for Load.
type LoaderOption func(*LoaderConfig)

// WithFileSystem sets a custom filesystem for the loader.
func WithFileSystem(fs FileSystem) LoaderOption {
	return func(lc *LoaderConfig) { lc.FileSystem = fs }
}

// WithConfigFile sets an explicit config file path.
func WithConfigFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.ConfigFile = path }
}

// WithEnvFile sets an explicit .env file path.
func WithEnvFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvFile = path }
}

// Load reads YAML configuration and environment variables, applies
// defaults and validates the result. Environment variables use the
// CLEARGATE_ prefix with underscores for nesting, so
// CLEARGATE_KEYCLOAK_JWKS_URL overrides keycloak.jwks_url.
func Load(opts ...LoaderOption) (*Config, error) {
	var lc LoaderConfig
	for _, opt := range opts {
		opt(&lc)
	}
	if lc.FileSystem == nil {
		lc.FileSystem = RealFileSystem{}
	}
	if lc.ConfigFile == "" {
		lc.ConfigFile = findConfigFile(lc.FileSystem)
	}
	if lc.EnvFile == "" {
		lc.EnvFile = findEnvFile(lc.FileSystem)
	}

	if lc.EnvFile != "" && lc.FileSystem.Exists(lc.EnvFile) {
		if err := lc.FileSystem.LoadEnv(lc.EnvFile); err != nil {
			fmt.Fprintf(os.Stderr, "[config] warning: failed to load env file %s: %v\n", lc.EnvFile, err)
		}
	}

	v := viper.New()
	v.SetEnvPrefix("CLEARGATE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindKeys(v)

	if lc.ConfigFile != "" && lc.FileSystem.Exists(lc.ConfigFile) {
		v.SetConfigFile(lc.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", lc.ConfigFile, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// bindKeys registers every known key so AutomaticEnv can resolve env
// overrides for keys absent from the YAML file.
func bindKeys(v *viper.Viper) {
	for _, key := range []string{
		"base.name",
		"base.environment",
		"base.debug",
		"logging.level",
		"logging.format",
		"logging.output",
		"keycloak.jwks_url",
		"keycloak.algorithm",
		"keycloak.issuer",
		"keycloak.audience",
		"keycloak.cache_ttl",
		"keycloak.stale_grace",
		"policy.mode",
		"policy.roles",
	} {
		_ = v.BindEnv(key)
	}
}

func findConfigFile(fs FileSystem) string {
	for _, path := range []string{
		"./config.yml",
		"./config/config.yml",
		"../config/config.yml",
	} {
		if fs.Exists(path) {
			return path
		}
	}
	return ""
}

func findEnvFile(fs FileSystem) string {
	for _, path := range []string{
		".env",
		"../.env",
	} {
		if fs.Exists(path) {
			return path
		}
	}
	return ""
}
