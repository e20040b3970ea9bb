package config

import "time"

// Config holds server configuration values.
type Config struct {
	Addr                string        `mapstructure:"addr" yaml:"addr"`
	DatabasePath        string        `mapstructure:"database_path" yaml:"database_path"`
	AdminEmail          string        `mapstructure:"admin_email" yaml:"admin_email"`
	AdminPassword       string        `mapstructure:"admin_password" yaml:"admin_password"`
	AllowedOrigins      []string      `mapstructure:"allowed_origins" yaml:"allowed_origins"`
	MessageTTL          time.Duration `mapstructure:"message_ttl" yaml:"message_ttl"`
	ExpirySweepInterval time.Duration `mapstructure:"expiry_sweep_interval" yaml:"expiry_sweep_interval"`
	ReadHeaderTimeout   time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout     time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	LogLevel            string        `mapstructure:"log_level" yaml:"log_level"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		Addr:          ":4000",
		DatabasePath:  "merichat.db",
		AdminEmail:    "admin@admin.com",
		AdminPassword: "admin",
		AllowedOrigins: []string{
			"http://localhost:5173",
			"http://localhost:5174",
			"http://localhost:5175",
		},
		MessageTTL:          240 * time.Hour, // ten days
		ExpirySweepInterval: time.Hour,
		ReadHeaderTimeout:   5 * time.Second,
		ShutdownTimeout:     5 * time.Second,
		LogLevel:            "info",
	}
}

// UpdateFrom overwrites non-zero values from other config into receiver.
func (c *Config) UpdateFrom(other Config) {
	if other.Addr != "" {
		c.Addr = other.Addr
	}
	if other.DatabasePath != "" {
		c.DatabasePath = other.DatabasePath
	}
	if other.AdminEmail != "" {
		c.AdminEmail = other.AdminEmail
	}
	if other.AdminPassword != "" {
		c.AdminPassword = other.AdminPassword
	}
	if len(other.AllowedOrigins) != 0 {
		c.AllowedOrigins = other.AllowedOrigins
	}
	if other.MessageTTL != 0 {
		c.MessageTTL = other.MessageTTL
	}
	if other.ExpirySweepInterval != 0 {
		c.ExpirySweepInterval = other.ExpirySweepInterval
	}
	if other.ReadHeaderTimeout != 0 {
		c.ReadHeaderTimeout = other.ReadHeaderTimeout
	}
	if other.ShutdownTimeout != 0 {
		c.ShutdownTimeout = other.ShutdownTimeout
	}
	if other.LogLevel != "" {
		c.LogLevel = other.LogLevel
	}
}
