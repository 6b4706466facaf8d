// Package config loads application settings from YAML, env and defaults.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"

	"github.com/napolitain/lastwar-buildtime/internal/calc"
)

// EnvPrefix is prepended to environment overrides, e.g. LWCALC_SERVER_ADDR
const EnvPrefix = "LWCALC"

// Config is the full application configuration
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Log        LogConfig        `mapstructure:"log"`
	Catalog    CatalogConfig    `mapstructure:"catalog"`
	Calculator CalculatorConfig `mapstructure:"calculator"`
}

type ServerConfig struct {
	Addr          string        `mapstructure:"addr"`
	ReadTimeout   time.Duration `mapstructure:"read_timeout"`
	WriteTimeout  time.Duration `mapstructure:"write_timeout"`
	ShutdownGrace time.Duration `mapstructure:"shutdown_grace"`
}

type LogConfig struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"` // empty disables the JSON file sink
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
	Compress   bool   `mapstructure:"compress"`
	Dev        bool   `mapstructure:"dev"`
}

type CatalogConfig struct {
	Path string `mapstructure:"path"` // empty means the embedded catalog
}

type CalculatorConfig struct {
	MaxSelfSpeedPercent  float64   `mapstructure:"max_self_speed_percent"`
	AllowedBonusPercents []float64 `mapstructure:"allowed_bonus_percents"`
	Timezone             string    `mapstructure:"timezone"`
}

// Policy returns the calculator policy described by c
func (c CalculatorConfig) Policy() calc.Policy {
	return calc.Policy{
		MaxSelfSpeedPercent:  c.MaxSelfSpeedPercent,
		AllowedBonusPercents: append([]float64(nil), c.AllowedBonusPercents...),
	}
}

// Location resolves Timezone; "" and "Local" mean the host zone
func (c CalculatorConfig) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("calculator.timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.shutdown_grace", 10*time.Second)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size", 50)
	v.SetDefault("log.max_backups", 5)
	v.SetDefault("log.max_age", 14)
	v.SetDefault("log.compress", false)
	v.SetDefault("log.dev", false)

	v.SetDefault("catalog.path", "")

	v.SetDefault("calculator.max_self_speed_percent", calc.DefaultMaxSelfSpeedPercent)
	v.SetDefault("calculator.allowed_bonus_percents", calc.DefaultBonusPercents)
	v.SetDefault("calculator.timezone", "Local")
}

// Loader owns the viper instance so the file can be watched after loading
type Loader struct {
	v *viper.Viper
}

// NewLoader reads defaults, the optional YAML file at path, and LWCALC_* env vars
func NewLoader(path string) (*Loader, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	return &Loader{v: v}, nil
}

// Config decodes and validates the current settings
func (l *Loader) Config() (Config, error) {
	var c Config
	if err := l.v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Watch calls onChange whenever the config file is rewritten.
// It is a no-op when no file was loaded.
func (l *Loader) Watch(onChange func(Config, error)) {
	if l.v.ConfigFileUsed() == "" {
		return
	}
	l.v.OnConfigChange(func(fsnotify.Event) {
		onChange(l.Config())
	})
	l.v.WatchConfig()
}

// Load is NewLoader followed by Config
func Load(path string) (Config, error) {
	l, err := NewLoader(path)
	if err != nil {
		return Config{}, err
	}
	return l.Config()
}

// Validate checks field ranges that viper cannot express
func (c Config) Validate() error {
	var errs []error
	if c.Server.Addr == "" {
		errs = append(errs, errors.New("server.addr must not be empty"))
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	if c.Calculator.MaxSelfSpeedPercent < 0 {
		errs = append(errs, errors.New("calculator.max_self_speed_percent must be non-negative"))
	}
	if len(c.Calculator.AllowedBonusPercents) == 0 {
		errs = append(errs, errors.New("calculator.allowed_bonus_percents must not be empty"))
	}
	for _, b := range c.Calculator.AllowedBonusPercents {
		if b <= calc.SpeedFloorPercent {
			errs = append(errs, fmt.Errorf("calculator.allowed_bonus_percents: %v is at or below %v", b, calc.SpeedFloorPercent))
		}
	}
	if _, err := c.Calculator.Location(); err != nil {
		errs = append(errs, err)
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
