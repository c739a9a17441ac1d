package utils

import (
	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	JWT      JWTConfig
	OTP      OTPConfig
	WhatsApp WhatsAppConfig
}

type AppConfig struct {
	Name    string
	Port    string
	Debug   bool
	LogPath string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
}

type JWTConfig struct {
	AccessSecret     string
	RefreshSecret    string
	AccessExpiryMin  int
	RefreshExpiryDay int
}

type OTPConfig struct {
	ExpiryMinutes  int
	MaxAttempts    int
	CleanupHours   int
	RetentionHours int
}

type WhatsAppConfig struct {
	APIKey     string
	Source     string
	AppName    string
	TemplateID string
	BaseURL    string
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("ACCESS_TOKEN_EXPIRY_MINUTES", 15)
	viper.SetDefault("REFRESH_TOKEN_EXPIRY_DAYS", 7)
	viper.SetDefault("OTP_EXPIRY_MINUTES", 10)
	viper.SetDefault("OTP_MAX_ATTEMPTS", 5)
	viper.SetDefault("OTP_CLEANUP_HOURS", 6)
	viper.SetDefault("OTP_RETENTION_HOURS", 24)
	viper.SetDefault("LOG_PATH", "logs/")

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	viper.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:    viper.GetString("APP_NAME"),
			Port:    viper.GetString("PORT"),
			Debug:   viper.GetBool("DEBUG"),
			LogPath: viper.GetString("LOG_PATH"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASS"),
			MaxConns: viper.GetInt32("DB_MAX_CONNS"),
		},
		JWT: JWTConfig{
			AccessSecret:     viper.GetString("ACCESS_TOKEN_SECRET"),
			RefreshSecret:    viper.GetString("REFRESH_TOKEN_SECRET"),
			AccessExpiryMin:  viper.GetInt("ACCESS_TOKEN_EXPIRY_MINUTES"),
			RefreshExpiryDay: viper.GetInt("REFRESH_TOKEN_EXPIRY_DAYS"),
		},
		OTP: OTPConfig{
			ExpiryMinutes:  viper.GetInt("OTP_EXPIRY_MINUTES"),
			MaxAttempts:    viper.GetInt("OTP_MAX_ATTEMPTS"),
			CleanupHours:   viper.GetInt("OTP_CLEANUP_HOURS"),
			RetentionHours: viper.GetInt("OTP_RETENTION_HOURS"),
		},
		WhatsApp: WhatsAppConfig{
			APIKey:     viper.GetString("GUPSHUP_API_KEY"),
			Source:     viper.GetString("GUPSHUP_SOURCE"),
			AppName:    viper.GetString("GUPSHUP_APP_NAME"),
			TemplateID: viper.GetString("GUPSHUP_TEMPLATE_ID"),
			BaseURL:    viper.GetString("GUPSHUP_BASE_URL"),
		},
	}

	return config, nil
}
