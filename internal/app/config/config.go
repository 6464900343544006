package config

import (
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"paysvc/internal/app/pkg/errorx"
)

// EnvPrefix 环境变量前缀，如 PAYSVC_EUPLATESC_SECRET_KEY
const EnvPrefix = "PAYSVC"

// Config 应用配置
type Config struct {
	App          AppConfig          `mapstructure:"app"`
	Server       ServerConfig       `mapstructure:"server"`
	MySQL        MySQLConfig        `mapstructure:"mysql"`
	Redis        RedisConfig        `mapstructure:"redis"`
	Lmstfy       LmstfyConfig       `mapstructure:"lmstfy"`
	EuPlatesc    EuPlatescConfig    `mapstructure:"euplatesc"`
	Storefront   StorefrontConfig   `mapstructure:"storefront"`
	PendingOrder PendingOrderConfig `mapstructure:"pending_order"`
}

type AppConfig struct {
	Name     string `mapstructure:"name"`
	Env      string `mapstructure:"env"`
	LogLevel string `mapstructure:"log_level"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
}

type MySQLConfig struct {
	DSN string `mapstructure:"dsn"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type LmstfyConfig struct {
	Host        string `mapstructure:"host"`
	Port        int    `mapstructure:"port"`
	Namespace   string `mapstructure:"namespace"`
	Token       string `mapstructure:"token"`
	NotifyQueue string `mapstructure:"notify_queue"`
	// PublishTimeout 通知投递超时，回调请求内同步投递
	PublishTimeout time.Duration `mapstructure:"publish_timeout"`
}

// EuPlatescConfig 网关商户配置
type EuPlatescConfig struct {
	MerchantID string `mapstructure:"merchant_id"`
	SecretKey  string `mapstructure:"secret_key"` // hex 编码
	ProcessURL string `mapstructure:"process_url"`
	Currency   string `mapstructure:"currency"`
}

// StorefrontConfig 浏览器返回时的跳转页面
type StorefrontConfig struct {
	SuccessURL string `mapstructure:"success_url"`
	FailureURL string `mapstructure:"failure_url"`
}

// PendingOrderConfig 待支付订单过期配置
type PendingOrderConfig struct {
	TTL           time.Duration `mapstructure:"ttl"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
}

// Load 从配置文件加载配置，环境变量优先
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config failed: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config failed: %w", err)
	}

	return &cfg, nil
}

// LoadDefault 加载默认配置文件路径
func LoadDefault() (*Config, error) {
	return Load("config/config.yaml")
}

// setDefaults 默认值（同时让 AutomaticEnv 能覆盖所有键）
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "paysvc")
	v.SetDefault("app.env", "dev")
	v.SetDefault("app.log_level", "info")
	v.SetDefault("server.port", "8080")
	v.SetDefault("mysql.dsn", "")
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("lmstfy.host", "")
	v.SetDefault("lmstfy.port", 7777)
	v.SetDefault("lmstfy.namespace", "shop")
	v.SetDefault("lmstfy.token", "")
	v.SetDefault("lmstfy.notify_queue", "order_notifications")
	v.SetDefault("lmstfy.publish_timeout", 2*time.Second)
	v.SetDefault("euplatesc.merchant_id", "")
	v.SetDefault("euplatesc.secret_key", "")
	v.SetDefault("euplatesc.process_url", "https://secure.euplatesc.ro/tdsprocess/tranzactd.php")
	v.SetDefault("euplatesc.currency", "RON")
	v.SetDefault("storefront.success_url", "/checkout/success")
	v.SetDefault("storefront.failure_url", "/checkout/failure")
	v.SetDefault("pending_order.ttl", time.Hour)
	v.SetDefault("pending_order.sweep_interval", 5*time.Minute)
}

// Validate 验证配置完整性，商户配置缺失返回 ConfigurationError
func (c *Config) Validate() error {
	if err := c.EuPlatesc.Validate(); err != nil {
		return err
	}
	if c.MySQL.DSN == "" {
		return errorx.NewConfigurationError("mysql dsn is required")
	}
	if c.Redis.Addr == "" {
		return errorx.NewConfigurationError("redis addr is required")
	}
	if c.Lmstfy.Host == "" {
		return errorx.NewConfigurationError("lmstfy host is required")
	}
	if c.PendingOrder.TTL <= 0 {
		return errorx.NewConfigurationError("pending_order.ttl must be positive")
	}
	if c.PendingOrder.SweepInterval <= 0 {
		return errorx.NewConfigurationError("pending_order.sweep_interval must be positive")
	}
	return nil
}

// Validate 验证网关商户配置
func (c EuPlatescConfig) Validate() error {
	if c.MerchantID == "" {
		return errorx.NewConfigurationError("euplatesc merchant_id is required")
	}
	if c.SecretKey == "" {
		return errorx.NewConfigurationError("euplatesc secret_key is required")
	}
	if _, err := hex.DecodeString(c.SecretKey); err != nil {
		return errorx.NewConfigurationError("euplatesc secret_key must be hex encoded")
	}
	return nil
}
