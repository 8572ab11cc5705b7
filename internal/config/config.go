package config

import (
	"fmt"
	"log"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

type CaseConfig struct {
	Env          string `yaml:"env" env:"CASE_ENV" env-default:"local"`
	HTTPServer   `yaml:"http_server"`
	GRPCServer   `yaml:"grpc_server"`
	CaseDB       `yaml:"case_db"`
	LogConfig    `yaml:"log_config"`
	KafkaService `yaml:"kafka_service"`
	Webhook      `yaml:"webhook"`
	Settlement   `yaml:"settlement"`
	Presence     `yaml:"presence"`
}

type HTTPServer struct {
	Host string `yaml:"host" env:"CASE_HTTP_HOST" env-default:"0.0.0.0"`
	Port string `yaml:"port" env:"CASE_HTTP_PORT" env-default:"8080"`
}

type GRPCServer struct {
	Host string `yaml:"host" env:"CASE_GRPC_HOST" env-default:"0.0.0.0"`
	Port string `yaml:"port" env:"CASE_GRPC_PORT" env-default:"50051"`
}

type CaseDB struct {
	// Driver is "postgres" or "memory".
	Driver         string `yaml:"driver" env:"CASE_DB_DRIVER" env-default:"postgres"`
	Dsn            string `yaml:"dsn" env:"CASE_DB_DSN"`
	MigrationsPath string `yaml:"migrations_path" env:"CASE_DB_MIGRATIONS_PATH"`
}

type LogConfig struct {
	LogLevel  string `yaml:"log_level" env:"CASE_LOG_LEVEL" env-default:"info"`
	LogFormat string `yaml:"log_format" env:"CASE_LOG_FORMAT" env-default:"json"`
	LogOutput string `yaml:"log_output" env:"CASE_LOG_OUTPUT" env-default:"stdout"`
}

type KafkaService struct {
	Brokers []string `yaml:"brokers" env:"CASE_KAFKA_BROKERS" env-separator:","`
	Topic   string   `yaml:"topic" env:"CASE_KAFKA_TOPIC" env-default:"case-events"`
}

type Webhook struct {
	URL            string `yaml:"url" env:"CASE_WEBHOOK_URL"`
	TimeoutSeconds int    `yaml:"timeout_seconds" env-default:"5"`
}

type Settlement struct {
	HeadquartersID string `yaml:"headquarters_id" env:"CASE_HQ_ID" env-default:"headquarters"`
	// PayoutWindowClosed rejects pending -> paid while settlement is closed.
	PayoutWindowClosed bool   `yaml:"payout_window_closed" env:"CASE_PAYOUT_WINDOW_CLOSED"`
	DefaultRate        Rate   `yaml:"default_rate"`
	Rates              []Rate `yaml:"rates"`
}

// Rate percentages are decimal strings so that "2.5" survives YAML intact.
type Rate struct {
	Role              string `yaml:"role"`
	Grade             string `yaml:"grade"`
	CommissionPercent string `yaml:"commission_percent"`
	OverridePercent   string `yaml:"override_percent"`
	UsageFeePercent   string `yaml:"usage_fee_percent"`
	UsageFeeFixed     int64  `yaml:"usage_fee_fixed"`
}

type Presence struct {
	ReconcileSchedule string `yaml:"reconcile_schedule" env:"CASE_PRESENCE_RECONCILE" env-default:"@every 1m"`
}

func Load(configPath string) (*CaseConfig, error) {
	if _, err := os.Stat(configPath); err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	var cfg CaseConfig
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return &cfg, nil
}

func MustLoad() *CaseConfig {
	// Processing env config variable and file
	configPath := os.Getenv("CASE_CONFIG_PATH")

	if configPath == "" {
		log.Fatalf("CASE_CONFIG_PATH was not found\n")
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("%v\n", err)
	}

	return cfg
}
