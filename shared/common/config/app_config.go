package config

import (
	"fmt"
	"net/url"

	"github.com/spf13/viper"
)

type AppConfig struct {
	Port          int    `mapstructure:"port"`
	Environment   string `mapstructure:"environment"`
	LogLevel      string `mapstructure:"log_level"`
	TracingHeader string `mapstructure:"tracing_header"`
	HTTPProxy     string `mapstructure:"http_proxy"`
	LocalstackURL string `mapstructure:"localstack_url"`

	MongoURI        string `mapstructure:"mongo_uri"`
	MongoDatabase   string `mapstructure:"mongo_database"`
	MongoTruststore string `mapstructure:"mongo_truststore"`

	RedisAddr     string `mapstructure:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db"`

	GovNotifyAPIKey     string `mapstructure:"gov_notify_api_key"`
	GovNotifyTemplateID string `mapstructure:"gov_notify_template_id"`
	GovNotifyBaseURL    string `mapstructure:"gov_notify_base_url"`

	EnableMetrics    bool   `mapstructure:"enable_metrics"`
	EMFEnvironment   string `mapstructure:"aws_emf_environment"`
	EMFAgentEndpoint string `mapstructure:"aws_emf_agent_endpoint"`
	EMFNamespace     string `mapstructure:"aws_emf_namespace"`
	EMFServiceName   string `mapstructure:"aws_emf_service_name"`
	EMFServiceType   string `mapstructure:"aws_emf_service_type"`
	EMFLogGroupName  string `mapstructure:"aws_emf_log_group_name"`
	EMFLogStreamName string `mapstructure:"aws_emf_log_stream_name"`
}

var defaults = map[string]interface{}{
	"port":           8085,
	"environment":    "local",
	"log_level":      "",
	"tracing_header": "x-cdp-request-id",
	"http_proxy":     "",
	"localstack_url": "http://localstack:4566",

	"mongo_uri":        "mongodb://127.0.0.1:27017/",
	"mongo_database":   "pair-programming",
	"mongo_truststore": "TRUSTSTORE_CDP_ROOT_CA",

	"redis_addr":     "127.0.0.1:6379",
	"redis_password": "",
	"redis_db":       0,

	"gov_notify_api_key":     "",
	"gov_notify_template_id": "",
	"gov_notify_base_url":    "https://api.notifications.service.gov.uk",

	"enable_metrics":          false,
	"aws_emf_environment":     "local",
	"aws_emf_agent_endpoint":  "tcp://127.0.0.1:25888",
	"aws_emf_namespace":       "pair-programming-backend",
	"aws_emf_service_name":    "pair-programming-backend",
	"aws_emf_service_type":    "AWS::ECS::Container",
	"aws_emf_log_group_name":  "",
	"aws_emf_log_stream_name": "",
}

// Load reads the application settings from the process environment.
// Call LoadEnv first so the dotenv files are visible.
func Load() (*AppConfig, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	cfg := &AppConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *AppConfig) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid PORT %d", c.Port)
	}

	if c.HTTPProxy != "" {
		u, err := url.Parse(c.HTTPProxy)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid HTTP_PROXY %q", c.HTTPProxy)
		}
	}

	if c.MongoURI == "" {
		return fmt.Errorf("MONGO_URI must not be empty")
	}
	return nil
}

func (c *AppConfig) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func (c *AppConfig) IsLocal() bool {
	return c.Environment == "local"
}
