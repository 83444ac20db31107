package utils

import (
	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Checkout CheckoutConfig
	Gateway  GatewayConfig
	Status   StatusConfig
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

type CheckoutConfig struct {
	TaxRate float64
}

// GatewayConfig holds the redirect payment gateway credentials. Secret is the
// shared salt of the keyed hash and must never be logged or echoed.
type GatewayConfig struct {
	Key         string
	Secret      string
	PaymentURL  string
	SuccessURL  string
	FailureURL  string
	ProductInfo string
}

type StatusConfig struct {
	PollIntervalSeconds int
	MaxPollAttempts     int
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("TAX_RATE", 0.02)
	viper.SetDefault("GATEWAY_PRODUCT_INFO", "Trip Booking")
	viper.SetDefault("STATUS_POLL_INTERVAL_SECONDS", 3)
	viper.SetDefault("STATUS_MAX_POLL_ATTEMPTS", 10)
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
		Checkout: CheckoutConfig{
			TaxRate: viper.GetFloat64("TAX_RATE"),
		},
		Gateway: GatewayConfig{
			Key:         viper.GetString("GATEWAY_KEY"),
			Secret:      viper.GetString("GATEWAY_SECRET"),
			PaymentURL:  viper.GetString("GATEWAY_PAYMENT_URL"),
			SuccessURL:  viper.GetString("GATEWAY_SUCCESS_URL"),
			FailureURL:  viper.GetString("GATEWAY_FAILURE_URL"),
			ProductInfo: viper.GetString("GATEWAY_PRODUCT_INFO"),
		},
		Status: StatusConfig{
			PollIntervalSeconds: viper.GetInt("STATUS_POLL_INTERVAL_SECONDS"),
			MaxPollAttempts:     viper.GetInt("STATUS_MAX_POLL_ATTEMPTS"),
		},
	}

	return config, nil
}
