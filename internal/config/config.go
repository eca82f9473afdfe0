package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Storage   StorageConfig
	Tracing   TracingConfig   `mapstructure:"tracing"`
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Homework  HomeworkConfig  `mapstructure:"homework"`

	// 运行时标志（非配置文件，通过命令行参数设置）
	ForceReload bool `mapstructure:"-"` // 启动时强制从CSV重建作业表
}

type ServerConfig struct {
	Port string
	Mode string
}

type DatabaseConfig struct {
	Type      string `mapstructure:"type"`     // sqlite 或 mysql
	Location  string `mapstructure:"location"` // sqlite 数据库文件路径
	TableName string `mapstructure:"table_name"`
	Host      string
	Port      int
	User      string
	Password  string
	DBName    string
	Charset   string
	ParseTime bool
}

type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	ExpireTime time.Duration `mapstructure:"expire_hours"`
}

type StorageConfig struct {
	Type          string `mapstructure:"type"`
	LocalPath     string `mapstructure:"local_path"`
	MinioEndpoint string `mapstructure:"minio_endpoint"`
	MinioAccessID string `mapstructure:"minio_access_key"`
	MinioSecret   string `mapstructure:"minio_secret_key"`
	MinioBucket   string `mapstructure:"minio_bucket"`
}

type TracingConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	CollectorEndpoint string `mapstructure:"collector_endpoint"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	AllowedHeaders []string `mapstructure:"allowed_headers"`
	AllowedMethods []string `mapstructure:"allowed_methods"`
}

type RateLimitConfig struct {
	MaxRequests   int `mapstructure:"max_requests"`
	WindowMinutes int `mapstructure:"window_minutes"`
}

// HomeworkConfig 作业数据源与排期配置
type HomeworkConfig struct {
	CSVPath             string          `mapstructure:"csv_path"` // 作业题目CSV文件路径
	UnrestrictedAccount string          `mapstructure:"unrestricted_account"`
	Schedule            []ScheduleEntry `mapstructure:"schedule"`
}

// ScheduleEntry 排期条目，due 采用 2006-01-02 格式
type ScheduleEntry struct {
	Name string `mapstructure:"name"`
	Due  string `mapstructure:"due"`
}

func LoadConfig(path string) (*Config, error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetEnvPrefix("HOMEWORK")
	viper.AutomaticEnv()

	// Database
	viper.BindEnv("database.type", "DATABASE_TYPE")
	viper.BindEnv("database.location", "DATABASE_LOCATION")
	viper.BindEnv("database.table_name", "DATABASE_TABLE_NAME")
	viper.BindEnv("database.host", "DATABASE_HOST")
	viper.BindEnv("database.port", "DATABASE_PORT")
	viper.BindEnv("database.user", "DATABASE_USER")
	viper.BindEnv("database.password", "DATABASE_PASSWORD")
	viper.BindEnv("database.dbname", "DATABASE_NAME")

	// JWT
	viper.BindEnv("jwt.secret", "JWT_SECRET")

	// Server
	viper.BindEnv("server.mode", "SERVER_MODE")

	// Storage
	viper.BindEnv("storage.type", "STORAGE_TYPE")
	viper.BindEnv("storage.minio_endpoint", "MINIO_ENDPOINT")
	viper.BindEnv("storage.minio_access_key", "MINIO_ACCESS_KEY")
	viper.BindEnv("storage.minio_secret_key", "MINIO_SECRET_KEY")
	viper.BindEnv("storage.minio_bucket", "MINIO_BUCKET")

	// Tracing
	viper.BindEnv("tracing.enabled", "TRACING_ENABLED")
	viper.BindEnv("tracing.collector_endpoint", "TRACING_COLLECTOR_ENDPOINT")

	// Homework
	viper.BindEnv("homework.csv_path", "HOMEWORK_CSV_PATH")
	viper.BindEnv("homework.unrestricted_account", "HOMEWORK_UNRESTRICTED_ACCOUNT")

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	cfg.JWT.ExpireTime = cfg.JWT.ExpireTime * time.Hour

	if cfg.Database.TableName == "" {
		cfg.Database.TableName = "homework_questions"
	}

	if len(cfg.Homework.Schedule) == 0 {
		return nil, fmt.Errorf("homework schedule is empty, at least one entry is required")
	}

	// 生产环境校验 JWT Secret 强度
	if cfg.Server.Mode == "release" && len(cfg.JWT.Secret) < 32 {
		return nil, fmt.Errorf("JWT secret is too short (%d chars), must be at least 32 characters in release mode", len(cfg.JWT.Secret))
	}

	if cfg.Storage.Type == "local" {
		if _, err := os.Stat(cfg.Storage.LocalPath); os.IsNotExist(err) {
			os.MkdirAll(cfg.Storage.LocalPath, 0755)
		}
	}

	return &cfg, nil
}
