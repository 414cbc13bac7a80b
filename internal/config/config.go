package config

import (
	"bytes"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type AppCfg struct {
	Name string
	Env  string
	Host string
	Port int
	// PublicURL is the console origin used to build notification action links.
	PublicURL string
}

type RootCfg struct {
	// AdminEmail is seeded as an ADMIN user on startup when set.
	AdminEmail string
	AdminName  string
}

type LogCfg struct {
	Level string
}

type DBCfg struct {
	DSN         string
	MaxOpen     int
	MaxIdle     int
	AutoMigrate bool
}

type RedisCfg struct {
	Addr     string
	Password string
	DB       int
	PoolSize int
}

type MQCfg struct {
	URL      string
	Queue    string
	Prefetch int
}

type S3Cfg struct {
	Endpoint         string
	Region           string
	AccessKey        string
	SecretKey        string
	Bucket           string
	UsePathStyle     bool
	PresignExpireSec int
	SSE              string
}

type AuthCfg struct {
	JWTSecret   string
	TokenTTLSec int
}

type EmailCfg struct {
	Enabled     bool
	Region      string
	FromAddress string
	FromName    string
}

type NotifyCfg struct {
	// Consumer starts the notification worker inside the server process.
	Consumer         bool
	MaxAttempts      int
	InitialBackoffMs int
	MaxBackoffMs     int
}

type ReviewCfg struct {
	StatsTTLSec int
	MaxPageSize int
}

type TelemetryCfg struct {
	Enabled      bool
	OtlpEndpoint string
	SampleRatio  float64
}

type Config struct {
	App       AppCfg
	Root      RootCfg
	Log       LogCfg
	Database  DBCfg
	Redis     RedisCfg
	RabbitMQ  MQCfg
	S3        S3Cfg
	Auth      AuthCfg
	Email     EmailCfg
	Notify    NotifyCfg
	Review    ReviewCfg
	Telemetry TelemetryCfg
}

func Load() (*Config, error) {
	base := viper.New()
	base.SetConfigName("config")
	base.SetConfigType("yaml")
	base.AddConfigPath("./configs")
	base.AddConfigPath(".")
	base.AutomaticEnv()
	base.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	base.SetEnvPrefix("APP") // e.g. APP_APP_PORT -> app.port

	setDefaults(base)

	if err := base.ReadInConfig(); err == nil {
		// expand ${ENV} references once before parsing
		raw, err := os.ReadFile(base.ConfigFileUsed())
		if err != nil {
			return nil, err
		}
		return parse(os.ExpandEnv(string(raw)))
	}

	// no config file, env + defaults only
	cfg := new(Config)
	if err := base.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func parse(yaml string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewBufferString(yaml)); err != nil {
		return nil, err
	}
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetEnvPrefix("APP")
	setDefaults(v)

	cfg := new(Config)
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "contenthub")
	v.SetDefault("app.env", "debug")
	v.SetDefault("app.host", "0.0.0.0")
	v.SetDefault("app.port", 8080)
	v.SetDefault("app.publicURL", "http://localhost:3000")
	v.SetDefault("root.adminName", "Administrator")
	v.SetDefault("log.level", "info")
	v.SetDefault("database.maxOpen", 20)
	v.SetDefault("database.maxIdle", 5)
	v.SetDefault("redis.poolSize", 10)
	v.SetDefault("rabbitmq.queue", "notifications")
	v.SetDefault("rabbitmq.prefetch", 10)
	v.SetDefault("s3.region", "auto")
	v.SetDefault("s3.usePathStyle", true)
	v.SetDefault("s3.presignExpireSec", 900)
	v.SetDefault("auth.tokenTTLSec", 86400)
	v.SetDefault("email.region", "us-east-1")
	v.SetDefault("email.fromName", "Content Hub")
	v.SetDefault("notify.consumer", true)
	v.SetDefault("notify.maxAttempts", 5)
	v.SetDefault("notify.initialBackoffMs", 500)
	v.SetDefault("notify.maxBackoffMs", 30000)
	v.SetDefault("review.statsTTLSec", 30)
	v.SetDefault("review.maxPageSize", 100)
	v.SetDefault("telemetry.sampleRatio", 1.0)
}

func (c *Config) PresignExpire() time.Duration {
	if c.S3.PresignExpireSec <= 0 {
		return 15 * time.Minute
	}
	return time.Duration(c.S3.PresignExpireSec) * time.Second
}

func (c *Config) TokenTTL() time.Duration {
	if c.Auth.TokenTTLSec <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(c.Auth.TokenTTLSec) * time.Second
}
