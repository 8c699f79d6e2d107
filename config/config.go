package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server       ServerConfig       `mapstructure:"server"`
	Database     DatabaseConfig     `mapstructure:"database"`
	Redis        RedisConfig        `mapstructure:"redis"`
	JWT          JWTConfig          `mapstructure:"jwt"`
	Stripe       StripeConfig       `mapstructure:"stripe"`
	Subscription SubscriptionConfig `mapstructure:"subscription"`
	Payment      PaymentConfig      `mapstructure:"payment"`
	Cron         CronConfig         `mapstructure:"cron"`
	CORS         CORSConfig         `mapstructure:"cors"`
}

type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Mode         string        `mapstructure:"mode"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type DatabaseConfig struct {
	Driver       string `mapstructure:"driver"` // postgres, mysql, sqlite
	DSN          string `mapstructure:"dsn"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	AutoMigrate  bool   `mapstructure:"auto_migrate"`
}

// RedisConfig 可选，Host 为空时不加扫描锁也不发布事件
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

// JWTConfig Supabase 项目的 JWT 密钥，为空时不鉴权
type JWTConfig struct {
	Secret string `mapstructure:"secret"`
}

type StripeConfig struct {
	SecretKey  string `mapstructure:"secret_key"`
	RefreshURL string `mapstructure:"refresh_url"`
	ReturnURL  string `mapstructure:"return_url"`
}

type SubscriptionConfig struct {
	Amount             int64    `mapstructure:"amount"` // minor units
	Currency           string   `mapstructure:"currency"`
	PeriodDays         int      `mapstructure:"period_days"`
	PaymentMethodTypes []string `mapstructure:"payment_method_types"`
}

type PaymentConfig struct {
	PlatformFeeBps int64 `mapstructure:"platform_fee_bps"` // 1500 = 15%
	MaxAmount      int64 `mapstructure:"max_amount"`
}

type CronConfig struct {
	ExpireSchedule string        `mapstructure:"expire_schedule"`
	LockTTL        time.Duration `mapstructure:"lock_ttl"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	AllowedMethods []string `mapstructure:"allowed_methods"`
	AllowedHeaders []string `mapstructure:"allowed_headers"`
}

const maxChargeAmount = math.MaxInt64 / 10000

// Period 订阅周期
func (c SubscriptionConfig) Period() time.Duration {
	return time.Duration(c.PeriodDays) * 24 * time.Hour
}

func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.dsn", "")
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.max_open_conns", 20)
	v.SetDefault("database.auto_migrate", false)

	v.SetDefault("redis.host", "")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.pool_size", 10)

	v.SetDefault("jwt.secret", "")

	v.SetDefault("stripe.secret_key", "")
	v.SetDefault("stripe.refresh_url", "beautyconnect://stripe-reauth")
	v.SetDefault("stripe.return_url", "beautyconnect://stripe-onboarding-done")

	v.SetDefault("subscription.amount", 500)
	v.SetDefault("subscription.currency", "eur")
	v.SetDefault("subscription.period_days", 30)
	v.SetDefault("subscription.payment_method_types", []string{"card"})

	v.SetDefault("payment.platform_fee_bps", 1500)
	v.SetDefault("payment.max_amount", 99999999)

	v.SetDefault("cron.expire_schedule", "@every 1h")
	v.SetDefault("cron.lock_ttl", 5*time.Minute)

	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("cors.allowed_methods", []string{"GET", "POST", "OPTIONS"})
	v.SetDefault("cors.allowed_headers", []string{"Authorization", "Content-Type", "Idempotency-Key", "apikey", "x-client-info"})
}

// Default 返回仅包含默认值的配置
func Default() *Config {
	v := viper.New()
	setDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Sprintf("config: invalid defaults: %v", err))
	}
	return &cfg
}

func Load(configPath string) (*Config, error) {
	// 优先读取同目录下的 config.local.yaml（包含真实密钥，不提交到git）
	dir := filepath.Dir(configPath)
	localConfigPath := filepath.Join(dir, "config.local.yaml")
	if _, err := os.Stat(localConfigPath); err == nil {
		configPath = localConfigPath
	}

	v := viper.New()
	setDefaults(v)

	// 环境变量覆盖，如 STRIPE_SECRET_KEY -> stripe.secret_key
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	_ = v.BindEnv("database.dsn", "DATABASE_DSN", "SUPABASE_DB_URL")
	_ = v.BindEnv("jwt.secret", "JWT_SECRET", "SUPABASE_JWT_SECRET")

	// 容器部署时可以只用环境变量
	if _, err := os.Stat(configPath); err == nil {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate 检查启动所需的配置项
func (c *Config) Validate() error {
	var errs []error
	if c.Stripe.SecretKey == "" {
		errs = append(errs, errors.New("stripe.secret_key is required"))
	}
	if c.Database.DSN == "" {
		errs = append(errs, errors.New("database.dsn is required"))
	}
	if c.Subscription.Amount <= 0 {
		errs = append(errs, errors.New("subscription.amount must be positive"))
	}
	if c.Subscription.PeriodDays <= 0 {
		errs = append(errs, errors.New("subscription.period_days must be positive"))
	}
	if c.Payment.PlatformFeeBps < 0 || c.Payment.PlatformFeeBps > 10000 {
		errs = append(errs, errors.New("payment.platform_fee_bps must be within [0, 10000]"))
	}
	// 抽成按 amount*bps 计算，上限保证不溢出
	if c.Payment.MaxAmount <= 0 || c.Payment.MaxAmount > maxChargeAmount {
		errs = append(errs, fmt.Errorf("payment.max_amount must be within [1, %d]", maxChargeAmount))
	}
	return errors.Join(errs...)
}
