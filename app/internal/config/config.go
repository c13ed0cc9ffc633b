package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	envPrefix         = "STOREFRONT"
	configFileEnvName = envPrefix + "_CONFIG_FILE"
)

// DefaultAuthSecret signs tokens when auth.secret is not set. It is only
// accepted with the in-memory storage driver.
const DefaultAuthSecret = "change-me"

var (
	ErrEmptyAuthSecret   = errors.New("auth.secret must not be empty")
	ErrDefaultAuthSecret = errors.New("auth.secret must be set when storage is persistent")
)

type upstream struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type storage struct {
	Driver  string `mapstructure:"driver"`
	DSN     string `mapstructure:"dsn"`
	Migrate bool   `mapstructure:"migrate"`
	Codec   string `mapstructure:"codec"`
}

type cart struct {
	KeyPrefix    string        `mapstructure:"key_prefix"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTTL      time.Duration `mapstructure:"idle_ttl"`
}

type auth struct {
	Secret   string        `mapstructure:"secret"`
	TokenTTL time.Duration `mapstructure:"token_ttl"`
}

type Config struct {
	LogLevel        string        `mapstructure:"log_level"`
	HTTPServerAddr  string        `mapstructure:"http_server_addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	Upstream        upstream      `mapstructure:"upstream"`
	Storage         storage       `mapstructure:"storage"`
	Cart            cart          `mapstructure:"cart"`
	Auth            auth          `mapstructure:"auth"`
}

var defaults = map[string]any{
	"log_level":          "info",
	"http_server_addr":   ":8080",
	"shutdown_timeout":   10 * time.Second,
	"upstream.base_url":  "http://localhost:3001",
	"upstream.timeout":   time.Duration(0),
	"storage.driver":     "memory",
	"storage.dsn":        "",
	"storage.migrate":    false,
	"storage.codec":      "json",
	"cart.key_prefix":    "cart:",
	"cart.write_timeout": 5 * time.Second,
	"cart.idle_ttl":      30 * time.Minute,
	"auth.secret":        DefaultAuthSecret,
	"auth.token_ttl":     24 * time.Hour,
}

// Load reads the optional config file, then environment overrides
// (STOREFRONT_UPSTREAM_BASE_URL and so on) on top of the defaults. args are
// the command line arguments without the program name.
func Load(args []string) (Config, error) {
	const op = "config.Load"

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	path, err := configFilepath(args)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", op, err)
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("%s: read %s: %w", op, path, err)
		}
	}

	var cfg Config
	if err := v.UnmarshalExact(&cfg); err != nil {
		return Config{}, fmt.Errorf("%s: %w", op, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", op, err)
	}
	return cfg, nil
}

// Validate rejects settings the service must not start with. The default
// auth secret is tolerated for the in-memory driver, where nothing outlives
// the process.
func (c Config) Validate() error {
	switch {
	case c.Auth.Secret == "":
		return ErrEmptyAuthSecret
	case c.Auth.Secret == DefaultAuthSecret && c.Storage.Driver != "memory":
		return ErrDefaultAuthSecret
	}
	return nil
}

func configFilepath(args []string) (string, error) {
	cmdLine := pflag.NewFlagSet("storefront", pflag.ContinueOnError)
	arg := cmdLine.String("config", "", "config file")
	if err := cmdLine.Parse(args); err != nil {
		return "", err
	}
	if env, ok := os.LookupEnv(configFileEnvName); ok {
		return env, nil
	}
	return *arg, nil
}
