// Package config provides functionality for managing configuration options
// for the application using a YAML file, command-line flags and environment
// variables.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
	"golang.org/x/crypto/bcrypt"
)

// Options holds the configuration values for the application. They are read
// once at startup and never mutated afterwards.
type Options struct {
	// Address defines the server's listening address (ip:port).
	Address string `koanf:"address"`

	// DatabaseDSN holds the database connection string for the application.
	DatabaseDSN string `koanf:"database_dsn"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	Token    TokenOptions    `koanf:"token"`
	Password PasswordOptions `koanf:"password"`
	TLS      TLSOptions      `koanf:"tls"`
	Page     PageOptions     `koanf:"page"`

	// Config is the path to the YAML config file, if any.
	Config string `koanf:"-"`
}

// TokenOptions configures token signing.
type TokenOptions struct {
	// Secret is the shared HMAC signing key.
	Secret string `koanf:"secret"`
	// TTLHours is the validity of an issued token.
	TTLHours int `koanf:"ttl_hours"`
}

// PasswordOptions configures password hashing.
type PasswordOptions struct {
	Cost int `koanf:"cost"`
}

// TLSOptions enables HTTPS when both paths are set.
type TLSOptions struct {
	Cert string `koanf:"cert"`
	Key  string `koanf:"key"`
}

// PageOptions holds the defaults substituted into new pages.
type PageOptions struct {
	DefaultPhoto           string `koanf:"default_photo"`
	DefaultFontColor       string `koanf:"default_font_color"`
	DefaultBackgroundValue string `koanf:"default_background_value"`
}

// envOverrides maps environment variables onto config keys. They win over
// file and flags.
var envOverrides = map[string]string{
	"SERVER_ADDRESS":  "address",
	"DATABASE_DSN":    "database_dsn",
	"LOG_LEVEL":       "log_level",
	"TOKEN_SECRET":    "token.secret",
	"TOKEN_TTL_HOURS": "token.ttl_hours",
}

func newFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("linkhub", pflag.ContinueOnError)
	fs.StringP("address", "a", "localhost:8080", "run on ip:port server")
	fs.StringP("database_dsn", "d", "", "db address")
	fs.StringP("config", "c", "", "path to YAML config file")
	fs.String("log_level", "info", "log level (debug, info, warn, error)")
	fs.String("token.secret", "", "token signing secret")
	fs.Int("token.ttl_hours", 24, "token validity in hours")
	fs.Int("password.cost", bcrypt.DefaultCost, "bcrypt cost")
	fs.String("tls.cert", "", "server TLS certificate (PEM)")
	fs.String("tls.key", "", "server TLS private key (PEM)")
	fs.String("page.default_photo", "default", "photo used when a page has none")
	fs.String("page.default_font_color", "#000000", "font color used when a page has none")
	fs.String("page.default_background_value", "#FFFFFF", "background color used when a page has none")
	return fs
}

// Load parses args (without the program name) and the environment into
// Options. Precedence, lowest first: flag defaults, YAML file, set flags,
// environment.
func Load(args []string) (*Options, error) {
	fs := newFlagSet()
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	path, _ := fs.GetString("config")
	if env := os.Getenv("CONFIG"); env != "" {
		path = env
	}

	k := koanf.New(".")
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error while reading config file: %w", err)
		}
	}
	if err := k.Load(posflag.Provider(fs, ".", k), nil); err != nil {
		return nil, fmt.Errorf("error while reading flags: %w", err)
	}
	for env, key := range envOverrides {
		if v := os.Getenv(env); v != "" {
			if err := k.Set(key, v); err != nil {
				return nil, fmt.Errorf("apply %s: %w", env, err)
			}
		}
	}

	var opts Options
	if err := k.Unmarshal("", &opts); err != nil {
		return nil, fmt.Errorf("error while parsing config: %w", err)
	}
	opts.Config = path

	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &opts, nil
}

// Validate checks the values the process cannot start without.
func (o *Options) Validate() error {
	var errs []error
	if o.Token.Secret == "" {
		errs = append(errs, errors.New("token secret is required"))
	}
	if o.Token.TTLHours < 1 {
		errs = append(errs, fmt.Errorf("token ttl must be at least 1 hour, got %d", o.Token.TTLHours))
	}
	if o.Password.Cost < bcrypt.MinCost || o.Password.Cost > bcrypt.MaxCost {
		errs = append(errs, fmt.Errorf("password cost must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost))
	}
	if (o.TLS.Cert == "") != (o.TLS.Key == "") {
		errs = append(errs, errors.New("tls cert and key must be set together"))
	}
	return errors.Join(errs...)
}
