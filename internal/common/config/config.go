package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

// Config 客户端应用配置
type Config struct {
	API    APIConfig    `json:"api"`
	Auth   AuthConfig   `json:"auth"`
	Consul ConsulConfig `json:"consul"`
	Jaeger JaegerConfig `json:"jaeger"`
	Cache  CacheConfig  `json:"cache"`
	Log    LogConfig    `json:"log"`
}

// APIConfig 租车市场远端 API 配置
type APIConfig struct {
	BaseURL        string `json:"base_url"`        // API 根地址，例如 http://localhost:5000
	TimeoutSeconds int    `json:"timeout_seconds"` // 单次请求超时
	MaxFailures    int    `json:"max_failures"`    // 熔断阈值（连续失败次数），0 表示不熔断
	ResetSeconds   int    `json:"reset_seconds"`   // 熔断重置时间
	RatePerSecond  int64  `json:"rate_per_second"` // 出站限流（令牌/秒），0 表示不限流
	RateBurst      int64  `json:"rate_burst"`      // 令牌桶容量
}

// AuthConfig 开发环境身份提供方（HS256）配置
type AuthConfig struct {
	JWTSecret  string `json:"jwt_secret"` // 签名密钥
	Issuer     string `json:"issuer"`
	Audience   string `json:"audience"`
	TTLMinutes int    `json:"ttl_minutes"` // token 有效期
}

// ConsulConfig Consul 配置（可选：KV 配置 + API 服务发现）
type ConsulConfig struct {
	Host      string `json:"host"`
	Port      int    `json:"port"`
	Service   string `json:"service"`    // 远端 API 在 Consul 中注册的服务名，空表示不走服务发现
	ConfigKey string `json:"config_key"` // KV 中的配置键，非空时用 KV 配置覆盖本地配置
}

// JaegerConfig Jaeger 配置
type JaegerConfig struct {
	Endpoint string  `json:"endpoint"`
	Sampler  float64 `json:"sampler"` // 采样率 0.0-1.0
}

// CacheConfig 本地离线缓存配置
type CacheConfig struct {
	Path string `json:"path"` // sqlite 文件路径，空表示禁用缓存
}

// LogConfig 日志配置
type LogConfig struct {
	Driver string `json:"driver"` // logrus（默认）, zap
	Level  string `json:"level"`  // debug, info, warn, error
	Format string `json:"format"` // json, text
	Output string `json:"output"` // stdout, file
	Path   string `json:"path"`   // 日志文件路径
}

var (
	globalConfig *Config
	configOnce   sync.Once
)

// LoadConfig 加载配置
func LoadConfig(configPath string) (*Config, error) {
	var err error
	configOnce.Do(func() {
		globalConfig = &Config{}
		// 如果配置文件不存在，使用默认配置
		if _, err = os.Stat(configPath); os.IsNotExist(err) {
			logrus.Warnf("Config file not found: %s, using default config", configPath)
			globalConfig = defaultConfig()
			err = nil
			return
		}

		data, readErr := os.ReadFile(configPath)
		if readErr != nil {
			err = fmt.Errorf("failed to read config file: %w", readErr)
			return
		}

		if unmarshalErr := json.Unmarshal(data, globalConfig); unmarshalErr != nil {
			err = fmt.Errorf("failed to parse config file: %w", unmarshalErr)
			return
		}
	})

	if err != nil {
		return nil, err
	}

	return globalConfig, nil
}

// GetConfig 获取全局配置
func GetConfig() *Config {
	if globalConfig == nil {
		return defaultConfig()
	}
	return globalConfig
}

// defaultConfig 默认配置（开发环境）
func defaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:        "http://localhost:5000",
			TimeoutSeconds: 15,
			MaxFailures:    5,
			ResetSeconds:   30,
		},
		Auth: AuthConfig{
			JWTSecret:  "dev-secret",
			Issuer:     "wheelshare",
			Audience:   "wheelshare-api",
			TTLMinutes: 60,
		},
		Consul: ConsulConfig{
			Host: "localhost",
			Port: 8500,
		},
		Jaeger: JaegerConfig{
			Endpoint: "localhost:6831",
			Sampler:  1.0,
		},
		Cache: CacheConfig{
			Path: "",
		},
		Log: LogConfig{
			Level:  "debug",
			Format: "text",
			Output: "stdout",
			Path:   "logs/app.log",
		},
	}
}
