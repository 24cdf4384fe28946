package config

import (
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config is the explicit configuration object injected into components,
// replacing ambient option lookups. Values come from the environment (with
// .env support for local development).
type Config struct {
	AppHost     string `envconfig:"app_host" default:"0.0.0.0"`
	AppPort     string `envconfig:"app_port" default:"8080"`
	FrontendURL string `envconfig:"frontend_url" default:"http://localhost:3000"`

	DBHost     string `envconfig:"db_host" default:"localhost"`
	DBPort     string `envconfig:"db_port" default:"5432"`
	DBDatabase string `envconfig:"db_database"`
	DBUsername string `envconfig:"db_username"`
	DBPassword string `envconfig:"db_password"`
	DBSSLMode  string `envconfig:"db_sslmode" default:"disable"`

	JwtSecret string `envconfig:"jwt_secret"`

	// ServiceNumber is the DID guests text; it is the from-number of every
	// outbound message.
	ServiceNumber string `envconfig:"service_number"`

	// SMS provider endpoint. Leave the base URL empty to log outbound
	// messages without dispatching them.
	GatewayBaseURL string `envconfig:"gateway_base_url"`
	GatewayAPIKey  string `envconfig:"gateway_api_key"`

	// PhoneSuffixLength controls fuzzy phone matching; see services/phone.
	PhoneSuffixLength int `envconfig:"phone_suffix_length" default:"10"`

	MigrationBatchSize int `envconfig:"migration_batch_size" default:"500"`
}

// NewLoadedConfig loads .env when present and populates the config from the
// environment.
func NewLoadedConfig() (*Config, error) {
	godotenv.Load()

	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return nil, err
	}

	return &c, nil
}
