package config

import (
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the pulse service.
// Values come from config.defaults.yaml, overridden by APP_* environment variables.
type Config struct {
	LogLevel string `mapstructure:"LOG_LEVEL"`

	// HTTP surface exposed to UI clients.
	PulseServicePort        int `mapstructure:"PULSE_SERVICE_PORT"`
	PulseServiceMetricsPort int `mapstructure:"PULSE_SERVICE_METRICS_PORT"`

	// NATS is the real-time push channel from the CRM backend
	// (call/message/transcript events).
	NATSURL string `mapstructure:"NATS_URL"`

	// CRM backend REST collaborators. All services share one base URL;
	// the token is forwarded as a bearer credential on every call.
	CRMAPIBaseURL string `mapstructure:"CRM_API_BASE_URL"`
	CRMAPIToken   string `mapstructure:"CRM_API_TOKEN"`

	// Per-request timeout for collaborator calls.
	CRMRequestTimeout time.Duration `mapstructure:"CRM_REQUEST_TIMEOUT"`

	// AppSpecific captures keys not mapped to a dedicated field above.
	AppSpecific map[string]string `mapstructure:",remain"`
}

// Load reads configuration for the named service.
// serviceName is kept for layered per-service overrides later; currently only
// config.defaults.yaml is read.
func Load(serviceName string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config.defaults")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath("../../../configs")
	v.AddConfigPath(".")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.SetEnvPrefix("APP")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("PULSE_SERVICE_PORT", 8080)
	v.SetDefault("PULSE_SERVICE_METRICS_PORT", 9090)
	v.SetDefault("NATS_URL", "nats://localhost:4222")
	v.SetDefault("CRM_API_BASE_URL", "http://localhost:3000/api")
	v.SetDefault("CRM_API_TOKEN", "")
	v.SetDefault("CRM_REQUEST_TIMEOUT", 15*time.Second)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Printf("Base configuration file ('config.defaults.yaml') not found for %s; using defaults and environment variables.", serviceName)
		} else {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
