package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for env := range envOverrides {
		t.Setenv(env, "")
	}
	t.Setenv("CONFIG", "")
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	opts, err := Load([]string{"--token.secret=s3cr3t"})
	require.NoError(t, err)
	assert.Equal(t, "localhost:8080", opts.Address)
	assert.Equal(t, "info", opts.LogLevel)
	assert.Equal(t, 24, opts.Token.TTLHours)
	assert.Equal(t, bcrypt.DefaultCost, opts.Password.Cost)
	assert.Equal(t, "default", opts.Page.DefaultPhoto)
	assert.Equal(t, "#000000", opts.Page.DefaultFontColor)
	assert.Equal(t, "#FFFFFF", opts.Page.DefaultBackgroundValue)
}

func TestLoad_FileFlagsEnvPrecedence(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "linkhub.yaml")
	yaml := []byte(`
address: ":9000"
database_dsn: "postgres://file"
token:
  secret: from-file
  ttl_hours: 48
page:
  default_photo: file-photo
`)
	require.NoError(t, os.WriteFile(path, yaml, 0o600))

	t.Setenv("TOKEN_TTL_HOURS", "6")

	opts, err := Load([]string{"-c", path, "-d", "postgres://flag"})
	require.NoError(t, err)
	assert.Equal(t, path, opts.Config)
	assert.Equal(t, ":9000", opts.Address, "file beats flag default")
	assert.Equal(t, "postgres://flag", opts.DatabaseDSN, "set flag beats file")
	assert.Equal(t, "from-file", opts.Token.Secret)
	assert.Equal(t, 6, opts.Token.TTLHours, "env beats file")
	assert.Equal(t, "file-photo", opts.Page.DefaultPhoto)
	assert.Equal(t, "#000000", opts.Page.DefaultFontColor)
}

func TestLoad_ConfigPathFromEnv(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "env.yaml")
	require.NoError(t, os.WriteFile(path, []byte("token:\n  secret: env-file\n"), 0o600))
	t.Setenv("CONFIG", path)
	t.Setenv("SERVER_ADDRESS", "0.0.0.0:1234")

	opts, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, "env-file", opts.Token.Secret)
	assert.Equal(t, "0.0.0.0:1234", opts.Address)
}

func TestLoad_MissingFile(t *testing.T) {
	clearEnv(t)

	_, err := Load([]string{"--config", filepath.Join(t.TempDir(), "nope.yaml")})
	assert.ErrorContains(t, err, "error while reading config file")
}

func TestLoad_UnknownFlag(t *testing.T) {
	clearEnv(t)

	_, err := Load([]string{"--nope"})
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := Options{
		Token:    TokenOptions{Secret: "s", TTLHours: 1},
		Password: PasswordOptions{Cost: bcrypt.MinCost},
	}
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(o *Options)
		want   string
	}{
		{"missing secret", func(o *Options) { o.Token.Secret = "" }, "token secret is required"},
		{"zero ttl", func(o *Options) { o.Token.TTLHours = 0 }, "token ttl"},
		{"cost too high", func(o *Options) { o.Password.Cost = bcrypt.MaxCost + 1 }, "password cost"},
		{"cert without key", func(o *Options) { o.TLS.Cert = "server.crt" }, "tls cert and key"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := valid
			tt.mutate(&o)
			assert.ErrorContains(t, o.Validate(), tt.want)
		})
	}
}
