package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	DefaultHost    = "smtp.gmail.com"
	DefaultPort    = 587
	DefaultTimeout = 30 * time.Second
)

// DeliveryConfig holds everything needed to submit a message over SMTP.
// It is built once per send call and never mutated afterwards.
type DeliveryConfig struct {
	Host        string `env:"SMTP_HOST" envDefault:"smtp.gmail.com"`
	Port        int    `env:"SMTP_PORT" envDefault:"587"`
	User        string `env:"SMTP_USER"`
	Password    string `env:"SMTP_PASS"`
	KindleEmail string `env:"KINDLE_EMAIL"`
	FromEmail   string `env:"FROM_EMAIL"`

	Timeout            time.Duration `env:"SMTP_TIMEOUT" envDefault:"30s"`
	InsecureSkipVerify bool          `env:"SMTP_INSECURE_SKIP_VERIFY" envDefault:"false"`
}

// ConfigError reports missing or malformed delivery configuration.
type ConfigError struct {
	Missing []string
	Err     error
}

func (e *ConfigError) Error() string {
	if len(e.Missing) > 0 {
		return "missing email config: " + strings.Join(e.Missing, ", ")
	}
	return fmt.Sprintf("invalid email config: %v", e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// IsConfigError reports whether err is, or wraps, a *ConfigError.
func IsConfigError(err error) bool {
	var cfgErr *ConfigError
	return errors.As(err, &cfgErr)
}

// Load reads the delivery configuration from the process environment.
func Load() (DeliveryConfig, error) {
	return load(env.Options{})
}

// LoadFrom reads the delivery configuration from the given variables only,
// ignoring the process environment.
func LoadFrom(environ map[string]string) (DeliveryConfig, error) {
	if environ == nil {
		environ = map[string]string{}
	}
	return load(env.Options{Environment: environ})
}

func load(opts env.Options) (DeliveryConfig, error) {
	var c DeliveryConfig
	if err := env.ParseWithOptions(&c, opts); err != nil {
		return DeliveryConfig{}, &ConfigError{Err: err}
	}

	if c.Host == "" {
		c.Host = DefaultHost
	}
	if c.FromEmail == "" {
		c.FromEmail = c.User
	}

	if err := c.Validate(); err != nil {
		return DeliveryConfig{}, err
	}
	return c, nil
}

// Validate checks the required fields and reports all of the missing ones at once.
func (c DeliveryConfig) Validate() error {
	var missing []string
	if c.User == "" {
		missing = append(missing, "smtp_user")
	}
	if c.Password == "" {
		missing = append(missing, "smtp_pass")
	}
	if c.KindleEmail == "" {
		missing = append(missing, "kindle_email")
	}
	if len(missing) > 0 {
		return &ConfigError{Missing: missing}
	}
	if c.Port <= 0 || c.Port > 65535 {
		return &ConfigError{Err: fmt.Errorf("smtp_port %d out of range", c.Port)}
	}
	return nil
}

// Address returns host:port for dialing.
func (c DeliveryConfig) Address() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// String renders the configuration with the password masked.
func (c DeliveryConfig) String() string {
	pass := ""
	if c.Password != "" {
		pass = "********"
	}
	return fmt.Sprintf("smtp=%s user=%s pass=%s kindle=%s from=%s timeout=%s insecure=%t",
		c.Address(), c.User, pass, c.KindleEmail, c.FromEmail, c.Timeout, c.InsecureSkipVerify)
}

// Environ returns the configuration as the environment variables Load reads.
func (c DeliveryConfig) Environ() map[string]string {
	return map[string]string{
		"SMTP_HOST":                 c.Host,
		"SMTP_PORT":                 strconv.Itoa(c.Port),
		"SMTP_USER":                 c.User,
		"SMTP_PASS":                 c.Password,
		"KINDLE_EMAIL":              c.KindleEmail,
		"FROM_EMAIL":                c.FromEmail,
		"SMTP_TIMEOUT":              c.Timeout.String(),
		"SMTP_INSECURE_SKIP_VERIFY": strconv.FormatBool(c.InsecureSkipVerify),
	}
}
