package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/powermon-protocol/powermon-go/pkg/transport"
)

// Config is the root configuration structure.
type Config struct {
	Device  DeviceConfig  `yaml:"device"`
	MQTT    MQTTConfig    `yaml:"mqtt"`
	Logging LoggingConfig `yaml:"logging"`
}

// DeviceConfig describes the device to bind at startup.
type DeviceConfig struct {
	Name     string `yaml:"name"`
	Port     string `yaml:"port"`
	Protocol string `yaml:"protocol"`

	// Baud is the serial line speed for serial locators.
	Baud int `yaml:"baud"`

	// TCPPort is the bridge port for network locators.
	TCPPort int `yaml:"tcp_port"`

	// Timeout bounds one command exchange.
	Timeout time.Duration `yaml:"timeout"`
}

// MQTTConfig contains MQTT broker connection settings. Publishing is off
// unless Enabled is set.
type MQTTConfig struct {
	Enabled     bool           `yaml:"enabled"`
	Broker      string         `yaml:"broker"`
	Port        int            `yaml:"port"`
	ClientID    string         `yaml:"client_id"`
	TopicPrefix string         `yaml:"topic_prefix"`
	QoS         int            `yaml:"qos"`
	Auth        MQTTAuthConfig `yaml:"auth"`
}

// MQTTAuthConfig contains MQTT authentication credentials.
type MQTTAuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`

	// File is the CBOR event log path. Empty disables the event log.
	File string `yaml:"file"`
}

// Load reads configuration from a YAML file and applies environment
// variable overrides.
//
// The loading order is:
//  1. Default values
//  2. YAML file values
//  3. POWERMON_* environment variables
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Default returns a Config with the stock defaults.
func Default() *Config {
	return &Config{
		Device: DeviceConfig{
			Name:     "unnamed",
			Protocol: "pi30",
			Baud:     transport.DefaultBaud,
			TCPPort:  transport.DefaultESP32Port,
			Timeout:  transport.DefaultTimeout,
		},
		MQTT: MQTTConfig{
			Broker:      "localhost",
			Port:        1883,
			ClientID:    "powermon",
			TopicPrefix: "powermon",
			QoS:         0,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// applyEnvOverrides applies POWERMON_* environment variables.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("POWERMON_DEVICE_PORT"); v != "" {
		cfg.Device.Port = v
	}
	if v := os.Getenv("POWERMON_DEVICE_PROTOCOL"); v != "" {
		cfg.Device.Protocol = v
	}
	if v := os.Getenv("POWERMON_DEVICE_BAUD"); v != "" {
		if baud, err := strconv.Atoi(v); err == nil {
			cfg.Device.Baud = baud
		}
	}
	if v := os.Getenv("POWERMON_MQTT_BROKER"); v != "" {
		cfg.MQTT.Broker = v
	}
	if v := os.Getenv("POWERMON_MQTT_USERNAME"); v != "" {
		cfg.MQTT.Auth.Username = v
	}
	if v := os.Getenv("POWERMON_MQTT_PASSWORD"); v != "" {
		cfg.MQTT.Auth.Password = v
	}
}

// Validate checks the configuration for structural errors.
func (c *Config) Validate() error {
	if c.Device.Baud <= 0 {
		return fmt.Errorf("device baud must be positive, got %d", c.Device.Baud)
	}
	if c.Device.TCPPort <= 0 || c.Device.TCPPort > 65535 {
		return fmt.Errorf("device tcp_port out of range: %d", c.Device.TCPPort)
	}
	if c.Device.Timeout <= 0 {
		return fmt.Errorf("device timeout must be positive, got %s", c.Device.Timeout)
	}
	if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
		return fmt.Errorf("mqtt qos must be 0, 1 or 2, got %d", c.MQTT.QoS)
	}
	if c.MQTT.Enabled && c.MQTT.Broker == "" {
		return fmt.Errorf("mqtt enabled but no broker configured")
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown logging level %q", c.Logging.Level)
	}
	return nil
}
