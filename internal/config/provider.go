package config

import "time"

// ConfigProvider defines the interface for configuration access
type ConfigProvider interface {
	GetHost() string
	GetPort() int
	GetUser() string
	GetPassword() string
	GetKindleEmail() string
	GetFromEmail() string
	GetTimeout() time.Duration
	InsecureSkipVerify() bool
	Address() string
}

// ConfigImpl implements ConfigProvider interface
type ConfigImpl struct {
	cfg DeliveryConfig
}

// NewConfigProvider creates a new ConfigProvider instance
func NewConfigProvider(cfg DeliveryConfig) ConfigProvider {
	return &ConfigImpl{cfg: cfg}
}

func (c *ConfigImpl) GetHost() string {
	return c.cfg.Host
}

func (c *ConfigImpl) GetPort() int {
	return c.cfg.Port
}

func (c *ConfigImpl) GetUser() string {
	return c.cfg.User
}

func (c *ConfigImpl) GetPassword() string {
	return c.cfg.Password
}

func (c *ConfigImpl) GetKindleEmail() string {
	return c.cfg.KindleEmail
}

func (c *ConfigImpl) GetFromEmail() string {
	return c.cfg.FromEmail
}

func (c *ConfigImpl) GetTimeout() time.Duration {
	if c.cfg.Timeout <= 0 {
		return DefaultTimeout
	}
	return c.cfg.Timeout
}

func (c *ConfigImpl) InsecureSkipVerify() bool {
	return c.cfg.InsecureSkipVerify
}

func (c *ConfigImpl) Address() string {
	return c.cfg.Address()
}
