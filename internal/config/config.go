// Package config 提供配置加载和管理功能
package config

import (
	"os"
	"strings"
	"time"
)

// Config 应用配置根结构
type Config struct {
	App           AppConfig           `yaml:"app" mapstructure:"app"`
	Server        ServerConfig        `yaml:"server" mapstructure:"server"`
	LLM           LLMConfig           `yaml:"llm" mapstructure:"llm"`
	Generation    GenerationConfig    `yaml:"generation" mapstructure:"generation"`
	Observability ObservabilityConfig `yaml:"observability" mapstructure:"observability"`
	Security      SecurityConfig      `yaml:"security" mapstructure:"security"`
}

// AppConfig 应用基础配置
type AppConfig struct {
	Name    string `yaml:"name" mapstructure:"name"`
	Version string `yaml:"version" mapstructure:"version"`
	Env     string `yaml:"env" mapstructure:"env"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	HTTP HTTPServerConfig `yaml:"http" mapstructure:"http"`
}

// HTTPServerConfig HTTP 服务器配置
type HTTPServerConfig struct {
	Host            string        `yaml:"host" mapstructure:"host"`
	Port            int           `yaml:"port" mapstructure:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"`
}

// LLMConfig LLM 提供商配置
type LLMConfig struct {
	// Provider openai、openai-sdk 或 deepseek（OpenAI 兼容接口，需要 base_url）
	Provider string `yaml:"provider" mapstructure:"provider"`
	Model    string `yaml:"model" mapstructure:"model"`
	BaseURL  string `yaml:"base_url" mapstructure:"base_url"`
	// APIKeyEnv 每次调用时读取的环境变量名
	APIKeyEnv string `yaml:"api_key_env" mapstructure:"api_key_env"`
	// APIKey 环境变量缺失时的兜底值
	APIKey      string  `yaml:"api_key" mapstructure:"api_key"`
	Temperature float64 `yaml:"temperature" mapstructure:"temperature"`
	TopP        float64 `yaml:"top_p" mapstructure:"top_p"`
	MaxTokens   int     `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// Credential 在调用时解析 API Key，环境变量优先
func (c LLMConfig) Credential() string {
	if c.APIKeyEnv != "" {
		if v, ok := os.LookupEnv(c.APIKeyEnv); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return strings.TrimSpace(c.APIKey)
}

// GenerationConfig 故事生成配置
type GenerationConfig struct {
	// Timeout 单次上游调用的截止时间
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
	// SlowWarningAfter 客户端显示“生成较慢”提示的等待时间
	SlowWarningAfter time.Duration `yaml:"slow_warning_after" mapstructure:"slow_warning_after"`
}

// ObservabilityConfig 可观测性配置
type ObservabilityConfig struct {
	Logging LoggingConfig `yaml:"logging" mapstructure:"logging"`
	Tracing TracingConfig `yaml:"tracing" mapstructure:"tracing"`
	Metrics MetricsConfig `yaml:"metrics" mapstructure:"metrics"`
}

// LoggingConfig 日志配置
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
	Output string `yaml:"output" mapstructure:"output"`
}

// TracingConfig 追踪配置
type TracingConfig struct {
	Enabled    bool    `yaml:"enabled" mapstructure:"enabled"`
	Endpoint   string  `yaml:"endpoint" mapstructure:"endpoint"`
	Insecure   bool    `yaml:"insecure" mapstructure:"insecure"`
	SampleRate float64 `yaml:"sample_rate" mapstructure:"sample_rate"`
}

// MetricsConfig 指标配置
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Path    string `yaml:"path" mapstructure:"path"`
}

// SecurityConfig 安全配置
type SecurityConfig struct {
	CORS CORSConfig `yaml:"cors" mapstructure:"cors"`
}

// CORSConfig CORS 配置
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
	AllowedMethods []string `yaml:"allowed_methods" mapstructure:"allowed_methods"`
	AllowedHeaders []string `yaml:"allowed_headers" mapstructure:"allowed_headers"`
}
