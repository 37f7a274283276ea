package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type EscrowConfig struct {
	Env string `yaml:"env"`
	HTTPServer     `yaml:"http_server"`
	EscrowDB       `yaml:"escrow_db"`
	LogConfig      `yaml:"log_config"`
	KafkaService   `yaml:"kafka-service"`
	Notifier       `yaml:"notifier"`
	Platform       `yaml:"platform"`
	Reconciliation `yaml:"reconciliation"`
}

type HTTPServer struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
}

type EscrowDB struct {
	Dsn            string `yaml:"dsn"`
	MigrationsPath string `yaml:"migrations_path" env-default:"migrations"`
}

type LogConfig struct {
	LogLevel  string `yaml:"log_level" env-default:"info"`
	LogFormat string `yaml:"log_format" env-default:"json"`
}

type KafkaService struct {
	Host  string `yaml:"host"`
	Port  string `yaml:"port"`
	Topic string `yaml:"topic" env-default:"escrow-events"`
}

type Notifier struct {
	WebhookURL string `yaml:"webhook_url"`
}

// Platform holds the business knobs. They are passed into usecases
// explicitly so the calculator and state machine stay pure.
type Platform struct {
	MinAmount                 float64       `yaml:"min_amount" env-default:"1000"`
	FeePercent                float64       `yaml:"fee_percent" env-default:"5"`
	PendingRoomTTL            time.Duration `yaml:"pending_room_ttl" env-default:"72h"`
	WithdrawalCooldown        time.Duration `yaml:"withdrawal_cooldown" env-default:"24h"`
	AllowDisputeBeforePayment bool          `yaml:"allow_dispute_before_payment" env-default:"false"`
}

type Reconciliation struct {
	DriftThreshold        float64       `yaml:"drift_threshold" env-default:"100000"`
	HighSeverityThreshold float64       `yaml:"high_severity_threshold" env-default:"1000000"`
	UnexplainedThreshold  float64       `yaml:"unexplained_threshold" env-default:"500000"`
	ScanInterval          time.Duration `yaml:"scan_interval" env-default:"1h"`
	ScanPageSize          int           `yaml:"scan_page_size" env-default:"500"`
}

func MustLoad() *EscrowConfig {

	// Processing env config variable and file
	configPath := os.Getenv("ESCROW_CONFIG_PATH")

	if configPath == "" {
		log.Fatalf("ESCROW_CONFIG_PATH was not found\n")
	}

	if _, err := os.Stat(configPath); err != nil {
		log.Fatalf("failed to find config file: %v\n", err)
	}

	// YAML to struct object
	var cfg EscrowConfig
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("failed to read config file: %v", err)
	}

	return &cfg
}
