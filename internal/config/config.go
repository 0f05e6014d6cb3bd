package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Env            string        `mapstructure:"ENV"`
	Port           string        `mapstructure:"PORT"`
	LogLevel       string        `mapstructure:"LOG_LEVEL"`
	ServiceKey     string        `mapstructure:"SERVICE_KEY"`
	CORSAllowed    string        `mapstructure:"CORS_ALLOWED_ORIGINS"`
	RequestTimeout time.Duration `mapstructure:"REQUEST_TIMEOUT"`

	FreshdeskAPIKey string `mapstructure:"FRESHDESK_API_KEY"`
	FreshdeskDomain string `mapstructure:"FRESHDESK_DOMAIN"`

	// Comma-separated allow-list for the tool's ticket type field.
	FreshdeskTicketTypes string `mapstructure:"FRESHDESK_TICKET_TYPES"`

	// Extractor settings. LoggingLevel uses the pipeline's level names
	// (DEBUG/INFO/WARNING/ERROR/CRITICAL).
	TicketStatuses string `mapstructure:"TICKET_STATUSES"`
	LoggingLevel   string `mapstructure:"LOGGING_LEVEL"`
	DatabaseURL    string `mapstructure:"DATABASE_URL"`
	DatasetTable   string `mapstructure:"DATASET_TABLE"`
	MaxSearchPages int    `mapstructure:"MAX_SEARCH_PAGES"`
}

func Load() (Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	_ = v.ReadInConfig()

	v.SetDefault("ENV", "dev")
	v.SetDefault("PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOGGING_LEVEL", "INFO")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("REQUEST_TIMEOUT", "30s")
	v.SetDefault("DATASET_TABLE", "freshdesk_tickets")
	v.SetDefault("MAX_SEARCH_PAGES", 0)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ValidateFreshdesk checks the keys both binaries need.
func (c Config) ValidateFreshdesk() error {
	if strings.TrimSpace(c.FreshdeskAPIKey) == "" {
		return errors.New("FRESHDESK_API_KEY is required")
	}
	if strings.TrimSpace(c.FreshdeskDomain) == "" {
		return errors.New("FRESHDESK_DOMAIN is required")
	}
	return nil
}

func (c Config) TicketTypeList() []string {
	return splitList(c.FreshdeskTicketTypes)
}

func (c Config) TicketStatusList() []string {
	return splitList(c.TicketStatuses)
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
