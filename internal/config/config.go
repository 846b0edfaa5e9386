package config

import (
	"flag"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/cybre/remo-light/internal/errors"
	"github.com/cybre/remo-light/internal/remo"
)

type Config struct {
	Remo    RemoConfig    `yaml:"remo"`
	Light   LightConfig   `yaml:"light"`
	HomeKit HomeKitConfig `yaml:"homekit"`
	Cache   CacheConfig   `yaml:"cache"`
	// Debug is a flag to enable debug logging
	Debug bool `yaml:"debug"`
}

type RemoConfig struct {
	// AccessToken for the Nature Remo cloud API. Without it and without
	// LocalAddr pulses are only logged.
	AccessToken string `yaml:"access_token"`
	// LightID is the cloud appliance ID of the light
	LightID string `yaml:"light_id"`
	// LocalAddr of a Nature Remo on the LAN, takes precedence over the cloud
	LocalAddr string `yaml:"local_addr"`
	// PulseInterval is the minimum time between two pulses
	PulseInterval Duration `yaml:"pulse_interval"`
	// Signals are the IR payloads used with LocalAddr
	Signals remo.LocalSignals `yaml:"signals"`
}

type LightConfig struct {
	MaxSteps          int      `yaml:"max_steps"`
	DefaultBrightness int      `yaml:"default_brightness"`
	SettleDelay       Duration `yaml:"settle_delay"`
}

type HomeKitConfig struct {
	Name  string `yaml:"name"`
	Pin   string `yaml:"pin"`
	Store string `yaml:"store"`
}

type CacheConfig struct {
	Path string `yaml:"path"`
}

// Transport names the way pulses leave the process.
type Transport string

const (
	TransportStub  Transport = "stub"
	TransportCloud Transport = "cloud"
	TransportLocal Transport = "local"
)

func (c *Config) Transport() Transport {
	switch {
	case c.Remo.LocalAddr != "":
		return TransportLocal
	case c.Remo.AccessToken != "":
		return TransportCloud
	default:
		return TransportStub
	}
}

func defaults() *Config {
	return &Config{
		Light: LightConfig{
			MaxSteps:          5,
			DefaultBrightness: 100,
			SettleDelay:       Duration(time.Second),
		},
		HomeKit: HomeKitConfig{
			Name:  "Ceiling Light",
			Pin:   "00102003",
			Store: "./homekitdb",
		},
		Cache: CacheConfig{
			Path: "./database",
		},
	}
}

// Load reads .env, then the environment, then the YAML file given with
// -config. Later sources override earlier ones.
func Load(args []string) (*Config, error) {
	_ = godotenv.Load()

	fs := flag.NewFlagSet("remolight", flag.ContinueOnError)
	debugFlag := fs.Bool("debug", false, "enable debug logging")
	configPath := fs.String("config", os.Getenv("CONFIG_FILE"), "path to a YAML config file")
	if err := fs.Parse(args); err != nil {
		return nil, errors.Wrapf(err, "parse flags")
	}

	cfg := defaults()
	if err := cfg.fromEnv(); err != nil {
		return nil, err
	}

	if *configPath != "" {
		if err := cfg.fromFile(*configPath); err != nil {
			return nil, err
		}
	}

	cfg.Debug = cfg.Debug || *debugFlag

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) fromEnv() error {
	setString(&c.Remo.AccessToken, "REMO_ACCESS_TOKEN")
	setString(&c.Remo.LightID, "REMO_LIGHT_ID")
	setString(&c.Remo.LocalAddr, "REMO_LOCAL_ADDR")
	setString(&c.HomeKit.Name, "ACCESSORY_NAME")
	setString(&c.HomeKit.Pin, "HOMEKIT_PIN")
	setString(&c.HomeKit.Store, "HOMEKIT_STORE")
	setString(&c.Cache.Path, "CACHE_PATH")

	if err := setInt(&c.Light.MaxSteps, "MAX_STEPS"); err != nil {
		return err
	}
	if err := setInt(&c.Light.DefaultBrightness, "DEFAULT_BRIGHTNESS"); err != nil {
		return err
	}
	if err := setDuration(&c.Light.SettleDelay, "SETTLE_DELAY"); err != nil {
		return err
	}
	if err := setDuration(&c.Remo.PulseInterval, "PULSE_INTERVAL"); err != nil {
		return err
	}

	c.Debug = os.Getenv("DEBUG") == "true"

	return nil
}

func (c *Config) fromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "read config file %s", path)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return errors.Wrapf(err, "parse config file %s", path)
	}

	return nil
}

func (c *Config) Validate() error {
	if c.Light.MaxSteps < 1 {
		return errors.Errorf("max_steps must be at least 1, got %d", c.Light.MaxSteps)
	}
	if c.Light.DefaultBrightness < 0 || c.Light.DefaultBrightness > 100 {
		return errors.Errorf("default_brightness must be between 0 and 100, got %d", c.Light.DefaultBrightness)
	}
	if c.Light.SettleDelay < 0 {
		return errors.Errorf("settle_delay must not be negative")
	}
	if c.Remo.PulseInterval < 0 {
		return errors.Errorf("pulse_interval must not be negative")
	}

	switch c.Transport() {
	case TransportLocal:
		if err := c.Remo.Signals.Validate(); err != nil {
			return errors.Wrapf(err, "local_addr is set")
		}
	case TransportCloud:
		if c.Remo.LightID == "" {
			return errors.Errorf("light_id is required with an access token")
		}
	}

	return nil
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return errors.Wrapf(err, "parse %s", key)
	}
	*dst = n

	return nil
}

func setDuration(dst *Duration, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		return errors.Wrapf(err, "parse %s", key)
	}
	*dst = Duration(d)

	return nil
}

// Duration is a time.Duration written as "1s" or "250ms" in YAML.
type Duration time.Duration

func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}

	parsed, err := time.ParseDuration(s)
	if err != nil {
		return errors.Wrapf(err, "parse duration %q", s)
	}
	*d = Duration(parsed)

	return nil
}
