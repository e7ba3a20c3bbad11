package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/shopspring/decimal"
)

type CommissionConfig struct {
	Env          string `yaml:"env" env-default:"local"`
	GRPCServer   `yaml:"grpc_server"`
	HTTPServer   `yaml:"http_server"`
	CommissionDB `yaml:"commission_db"`
	LogConfig    `yaml:"log_config"`
	KafkaService `yaml:"kafka-service"`
	Redis        `yaml:"redis"`
	Settlement   `yaml:"settlement"`
}

type GRPCServer struct {
	Host string `yaml:"host" env-default:"0.0.0.0"`
	Port string `yaml:"port" env-default:"50061"`
}

type HTTPServer struct {
	Host string `yaml:"host" env-default:"0.0.0.0"`
	Port string `yaml:"port" env-default:"8081"`
}

type CommissionDB struct {
	Dsn            string `yaml:"dsn" env:"COMMISSION_DB_DSN"`
	MigrationsPath string `yaml:"migrations_path" env-default:"migrations"`
}

type LogConfig struct {
	LogLevel  string `yaml:"log_level" env-default:"info"`
	LogFormat string `yaml:"log_format" env-default:"json"`
}

type KafkaService struct {
	Host  string `yaml:"host"`
	Port  string `yaml:"port"`
	Topic string `yaml:"topic" env-default:"commission-events"`
}

type Redis struct {
	Addr     string `yaml:"addr" env-default:"localhost:6379"`
	Password string `yaml:"password" env:"COMMISSION_REDIS_PASSWORD"`
	DB       int    `yaml:"db" env-default:"0"`
}

// Settlement holds every constant the commission engine depends on.
type Settlement struct {
	ExchangeRate             float64       `yaml:"exchange_rate" env-default:"7.15"`
	AlternateCurrencyMethods []string      `yaml:"alternate_currency_methods" env-default:"alipay"`
	SettlementCurrency       string        `yaml:"settlement_currency" env-default:"USDT"`
	DefaultPrimaryRate       float64       `yaml:"default_primary_rate" env-default:"0.40"`
	DefaultSecondaryRate     float64       `yaml:"default_secondary_rate" env-default:"0.25"`
	ReminderDays             int           `yaml:"reminder_days" env-default:"7"`
	TrialReminderDays        int           `yaml:"trial_reminder_days" env-default:"3"`
	TimezoneOffsetHours      int           `yaml:"timezone_offset_hours" env-default:"8"`
	ExpirySweepInterval      time.Duration `yaml:"expiry_sweep_interval" env-default:"1m"`
	ReminderScanInterval     time.Duration `yaml:"reminder_scan_interval" env-default:"1h"`
}

func (s Settlement) Location() *time.Location {
	return time.FixedZone(fmt.Sprintf("UTC%+d", s.TimezoneOffsetHours), s.TimezoneOffsetHours*3600)
}

func (s Settlement) PrimaryRate() decimal.Decimal {
	return decimal.NewFromFloat(s.DefaultPrimaryRate)
}

func (s Settlement) SecondaryRate() decimal.Decimal {
	return decimal.NewFromFloat(s.DefaultSecondaryRate)
}

// DefaultSettlement is what an empty settlement section resolves to.
func DefaultSettlement() Settlement {
	return Settlement{
		ExchangeRate:             7.15,
		AlternateCurrencyMethods: []string{"alipay"},
		SettlementCurrency:       "USDT",
		DefaultPrimaryRate:       0.40,
		DefaultSecondaryRate:     0.25,
		ReminderDays:             7,
		TrialReminderDays:        3,
		TimezoneOffsetHours:      8,
		ExpirySweepInterval:      time.Minute,
		ReminderScanInterval:     time.Hour,
	}
}

func MustLoad() *CommissionConfig {
	configPath := os.Getenv("COMMISSION_CONFIG_PATH")
	if configPath == "" {
		log.Fatalf("COMMISSION_CONFIG_PATH was not found\n")
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("failed to read config file: %v", err)
	}
	return cfg
}

func Load(configPath string) (*CommissionConfig, error) {
	if _, err := os.Stat(configPath); err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	var cfg CommissionConfig
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
