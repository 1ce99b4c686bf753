// Package config defines the application configuration and its loading.
package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
	Avatar   AvatarConfig   `mapstructure:"avatar"   validate:"required"`
	Mail     MailConfig     `mapstructure:"mail"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`
}

// AuthConfig contains authentication settings.
//
// BcryptCost is deliberately low by modern standards; raising it invalidates
// no stored hashes (bcrypt embeds the cost), so it can be tuned later.
type AuthConfig struct {
	JWTSecret  string `mapstructure:"jwt_secret"  validate:"required,min=32"`
	BcryptCost int    `mapstructure:"bcrypt_cost" validate:"required,gte=4,lte=31"`
}

// AvatarConfig controls avatar upload handling.
type AvatarConfig struct {
	// MaxUploadBytes caps the size of an uploaded avatar image.
	MaxUploadBytes int64 `mapstructure:"max_upload_bytes" validate:"required,gt=0"`

	// Dimension is the side length of the square the avatar is resized to.
	Dimension int `mapstructure:"dimension" validate:"required,gt=0"`
}

// MailConfig contains settings for the outbound email collaborator.
// When Domain or APIKey is empty, email sending is disabled and
// notifications are logged instead.
type MailConfig struct {
	Domain string `mapstructure:"domain"`
	APIKey string `mapstructure:"api_key"`
	Sender string `mapstructure:"sender"`
}

// Enabled reports whether outbound email is configured.
func (c MailConfig) Enabled() bool {
	return c.Domain != "" && c.APIKey != "" && c.Sender != ""
}
