// Package config loads command defaults for the otp tool from an optional
// file and OTP_* environment variables.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/jhahn/go-otp/pkg/otp"
)

// EnvPrefix is prepended to every key when reading the environment,
// e.g. OTP_ISSUER or OTP_SECRET_SIZE.
const EnvPrefix = "OTP"

const (
	KeyIssuer     = "issuer"
	KeyAlgorithm  = "algorithm"
	KeyDigits     = "digits"
	KeyPeriod     = "period"
	KeyWindow     = "window"
	KeySecretSize = "secret_size"
)

// Config holds the defaults applied to commands when a flag is not set.
type Config struct {
	Issuer     string
	Algorithm  string
	Digits     uint
	Period     uint
	Window     uint
	SecretSize int
}

// Load reads the configuration. An empty path skips the file and uses
// built-in defaults plus the environment. The file type is inferred
// from the extension.
func Load(path string) (*Config, error) {
	v := newViper()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}
	return decode(v)
}

// LoadFromBytes reads the configuration from memory. configType should be
// a format supported by viper (e.g. "yaml", "json", "toml").
func LoadFromBytes(configType string, data []byte) (*Config, error) {
	if strings.TrimSpace(configType) == "" {
		return nil, errors.New("config: config type is required")
	}

	v := newViper()
	v.SetConfigType(configType)
	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return decode(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyAlgorithm, string(otp.AlgorithmSHA1))
	v.SetDefault(KeyDigits, otp.DefaultDigits)
	v.SetDefault(KeyPeriod, otp.DefaultPeriod)
	v.SetDefault(KeyWindow, otp.DefaultWindow)
	v.SetDefault(KeySecretSize, otp.DefaultSecretSize)
	v.SetDefault(KeyIssuer, "")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

func decode(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Issuer:     v.GetString(KeyIssuer),
		Algorithm:  v.GetString(KeyAlgorithm),
		Digits:     v.GetUint(KeyDigits),
		Period:     v.GetUint(KeyPeriod),
		Window:     v.GetUint(KeyWindow),
		SecretSize: v.GetInt(KeySecretSize),
	}
	if _, err := cfg.Options(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if cfg.SecretSize < otp.MinSecretSize {
		return nil, fmt.Errorf("config: %w: %s must be at least %d", otp.ErrInvalidConfig, KeySecretSize, otp.MinSecretSize)
	}
	return cfg, nil
}

// Options converts the configuration into validated engine options.
func (c *Config) Options() (otp.Options, error) {
	alg, err := otp.ParseAlgorithm(c.Algorithm)
	if err != nil {
		return otp.Options{}, err
	}
	opts := otp.Options{
		Algorithm: alg,
		Digits:    c.Digits,
		Period:    c.Period,
		Window:    c.Window,
	}
	if err := opts.Validate(); err != nil {
		return otp.Options{}, err
	}
	return opts, nil
}
