package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	App               App               `mapstructure:",squash"`
	Server            Server            `mapstructure:",squash"`
	Database          Database          `mapstructure:",squash"`
	Auth              Auth              `mapstructure:",squash"`
	Redis             Redis             `mapstructure:",squash"`
	Cache             Cache             `mapstructure:",squash"`
	Queue             Queue             `mapstructure:",squash"`
	Cognitive         Cognitive         `mapstructure:",squash"`
	SnapshotRetention SnapshotRetention `mapstructure:",squash"`
	Breaker           Breaker           `mapstructure:",squash"`
}

type Server struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

type Database struct {
	DSN      string `mapstructure:"-"`
	Driver   string `mapstructure:"database_driver"`
	Password string `mapstructure:"database_password"`
	URL      string `mapstructure:"database_url"`
	User     string `mapstructure:"database_user"`
}

type App struct {
	LogLevel string `mapstructure:"log_level"`
}

type Auth struct {
	Secret   string        `mapstructure:"auth_secret"`
	TokenTTL time.Duration `mapstructure:"auth_token_ttl"`
}

type Redis struct {
	URL     string `mapstructure:"redis_url"`
	Enabled bool   `mapstructure:"redis_enabled"`
}

// Cache controla a memoização dos snapshots históricos
type Cache struct {
	SnapshotTTL time.Duration `mapstructure:"cache_snapshot_ttl"`
}

type Queue struct {
	Driver      string `mapstructure:"queue_driver"`
	NatsURL     string `mapstructure:"queue_nats_url"`
	Subject     string `mapstructure:"queue_subject"`
	Workers     int    `mapstructure:"queue_workers"`
	BufferSize  int    `mapstructure:"queue_buffer_size"`
	TaskTimeout int    `mapstructure:"queue_task_timeout_seconds"`
}

type Cognitive struct {
	TrendTopSkus     int `mapstructure:"cognitive_trend_top_skus"`
	LookbackDays     int `mapstructure:"cognitive_lookback_days"`
	FetchConcurrency int `mapstructure:"cognitive_fetch_concurrency"`
}

type SnapshotRetention struct {
	CronSchedule string `mapstructure:"snapshot_retention_cron"`
	Days         int    `mapstructure:"snapshot_retention_days"`
	Enabled      bool   `mapstructure:"snapshot_retention_enabled"`
}

type Breaker struct {
	MaxRequests uint32        `mapstructure:"breaker_max_requests"`
	Interval    time.Duration `mapstructure:"breaker_interval"`
	Timeout     time.Duration `mapstructure:"breaker_timeout"`
}

const (
	QueueDriverLocal = "local"
	QueueDriverNats  = "nats"
)

func SetDefaults() {
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8000)

	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_URL", "localhost:5432/cognitive?sslmode=disable")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_PASSWORD", "root")

	viper.SetDefault("AUTH_SECRET", "your_secret_key")
	viper.SetDefault("AUTH_TOKEN_TTL", "24h")

	viper.SetDefault("REDIS_URL", "redis://localhost:6379/0")
	viper.SetDefault("REDIS_ENABLED", false)
	viper.SetDefault("CACHE_SNAPSHOT_TTL", "10m")

	viper.SetDefault("QUEUE_DRIVER", QueueDriverLocal)
	viper.SetDefault("QUEUE_NATS_URL", "nats://localhost:4222")
	viper.SetDefault("QUEUE_SUBJECT", "cognitive.snapshots")
	viper.SetDefault("QUEUE_WORKERS", 2)
	viper.SetDefault("QUEUE_BUFFER_SIZE", 100)
	viper.SetDefault("QUEUE_TASK_TIMEOUT_SECONDS", 30)

	viper.SetDefault("COGNITIVE_TREND_TOP_SKUS", 10)
	viper.SetDefault("COGNITIVE_LOOKBACK_DAYS", 30)
	viper.SetDefault("COGNITIVE_FETCH_CONCURRENCY", 5)

	viper.SetDefault("SNAPSHOT_RETENTION_CRON", "0 2 * * *") // Todos os dias às 2h da manhã
	viper.SetDefault("SNAPSHOT_RETENTION_DAYS", 120)
	viper.SetDefault("SNAPSHOT_RETENTION_ENABLED", false)

	viper.SetDefault("BREAKER_MAX_REQUESTS", 3)
	viper.SetDefault("BREAKER_INTERVAL", "1m")
	viper.SetDefault("BREAKER_TIMEOUT", "30s")

	viper.SetDefault("LOG_LEVEL", "debug")
}

func NewConfig() (*Config, error) {
	loadEnvFile() // ONLY LOCAL

	config := &Config{}

	SetDefaults()

	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logrus.Info("Usando variáveis carregadas pelo godotenv (viper não conseguiu ler .env):", err)
	} else {
		logrus.Info("Arquivo .env lido pelo Viper com sucesso")
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	config.Database.DSN = BuildDSN(config.Database)

	return config, nil
}

// BuildDSN monta a string de conexão a partir das partes configuradas
func BuildDSN(db Database) string {
	return fmt.Sprintf(
		"%s://%s:%s@%s",
		db.Driver,
		db.User,
		db.Password,
		db.URL,
	)
}

func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Não foi possível obter o diretório atual:", err)
		return
	}

	locations := []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(filepath.Dir(cwd), ".env"),
		filepath.Join(cwd, "../../.env"),
	}

	for _, location := range locations {
		err := godotenv.Load(location)
		if err == nil {
			logrus.Info("Arquivo .env carregado com sucesso de:", location)
			return
		}
	}

	logrus.Warn("Não foi possível carregar o arquivo .env de nenhuma localização conhecida")
}
