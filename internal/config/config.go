package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth" validate:"required"`
	App      AppConfig      `mapstructure:"app" validate:"required"`
	Notify   NotifyConfig   `mapstructure:"notify" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port                   int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel               string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	ReadTimeoutSeconds     int    `mapstructure:"read_timeout_seconds" validate:"gt=0"`
	WriteTimeoutSeconds    int    `mapstructure:"write_timeout_seconds" validate:"gt=0"`
	ShutdownTimeoutSeconds int    `mapstructure:"shutdown_timeout_seconds" validate:"gt=0"`
}

// ReadTimeout returns the HTTP read timeout.
func (c ServerConfig) ReadTimeout() time.Duration {
	return time.Duration(c.ReadTimeoutSeconds) * time.Second
}

// WriteTimeout returns the HTTP write timeout.
func (c ServerConfig) WriteTimeout() time.Duration {
	return time.Duration(c.WriteTimeoutSeconds) * time.Second
}

// ShutdownTimeout returns how long in-flight requests get to drain on shutdown.
func (c ServerConfig) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutSeconds) * time.Second
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL                    string `mapstructure:"url" validate:"required,url"`
	MaxOpenConns           int    `mapstructure:"max_open_conns" validate:"gt=0"`
	MaxIdleConns           int    `mapstructure:"max_idle_conns" validate:"gte=0"`
	ConnMaxLifetimeMinutes int    `mapstructure:"conn_max_lifetime_minutes" validate:"gt=0"`
}

// ConnMaxLifetime returns the maximum lifetime of a pooled connection.
func (c DatabaseConfig) ConnMaxLifetime() time.Duration {
	return time.Duration(c.ConnMaxLifetimeMinutes) * time.Minute
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret               string `mapstructure:"jwt_secret" validate:"required,min=32"`
	Issuer                  string `mapstructure:"issuer" validate:"required"`
	Audience                string `mapstructure:"audience" validate:"required"`
	TokenLifetimeMinutes    int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0,lte=44640"`
	InvitationLifetimeHours int    `mapstructure:"invitation_lifetime_hours" validate:"required,gt=0"`
	BCryptCost              int    `mapstructure:"bcrypt_cost" validate:"required,gte=4,lte=31"`
}

// TokenLifetime returns how long issued access tokens stay valid.
func (c AuthConfig) TokenLifetime() time.Duration {
	return time.Duration(c.TokenLifetimeMinutes) * time.Minute
}

// InvitationLifetime returns how long an invitation token can be accepted.
func (c AuthConfig) InvitationLifetime() time.Duration {
	return time.Duration(c.InvitationLifetimeHours) * time.Hour
}

// AppConfig contains settings about how the application is reached by users.
type AppConfig struct {
	// BaseURL prefixes links sent to users, such as invitation links.
	BaseURL string `mapstructure:"base_url" validate:"required,url"`
}

// Notification delivery modes.
const (
	NotifyModeLog     = "log"
	NotifyModeWebhook = "webhook"
)

// NotifyConfig controls how invitation notifications are delivered.
type NotifyConfig struct {
	Mode           string `mapstructure:"mode" validate:"required,oneof=log webhook"`
	WebhookURL     string `mapstructure:"webhook_url" validate:"omitempty,url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" validate:"gt=0"`
	MaxFailures    int    `mapstructure:"max_failures" validate:"gt=0"`
}

// Timeout returns the per-request timeout for webhook delivery.
func (c NotifyConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}
