// Package config 提供配置加载功能
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/viper"
)

// DefaultDir 默认配置目录
const DefaultDir = "configs"

var envPattern = regexp.MustCompile(`\${(\w+)(:([^}]*))?}`)

// Load 从默认目录加载配置
func Load() (*Config, error) {
	return LoadFrom(DefaultDir)
}

// LoadFrom 加载配置
// 按优先级加载：默认值 -> config.yaml -> config.<APP_ENV>.yaml -> 环境变量
// 两个配置文件都可以缺省，只依赖 API Key 环境变量即可启动。
func LoadFrom(dir string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	setDefaults(v)

	if err := loadConfigFile(v, filepath.Join(dir, "config.yaml")); err != nil {
		return nil, err
	}

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}
	if err := loadConfigFile(v, filepath.Join(dir, fmt.Sprintf("config.%s.yaml", env))); err != nil {
		return nil, err
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// loadConfigFile 读取文件，执行环境变量替换，并合并到 viper
func loadConfigFile(v *viper.Viper, path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	reader := strings.NewReader(expandEnv(string(content)))
	if err := v.MergeConfig(reader); err != nil {
		return fmt.Errorf("failed to merge config %s: %w", path, err)
	}
	return nil
}

// expandEnv 替换字符串中的 ${VAR:default} 占位符，未定义且无默认值时保留原样
func expandEnv(s string) string {
	return envPattern.ReplaceAllStringFunc(s, func(match string) string {
		submatch := envPattern.FindStringSubmatch(match)
		key := submatch[1]
		hasDefault := submatch[2] != ""
		defVal := submatch[3]

		if val, ok := os.LookupEnv(key); ok {
			return val
		}
		if hasDefault {
			return defVal
		}
		return match
	})
}

// Validate 校验启动所需的配置项；API Key 不在此校验，缺失时按服务降级处理
func (c *Config) Validate() error {
	switch c.LLM.Provider {
	case "openai", "openai-sdk":
	case "deepseek":
		if c.LLM.BaseURL == "" {
			return fmt.Errorf("llm provider deepseek requires base_url (OpenAI-compatible endpoint)")
		}
	default:
		return fmt.Errorf("llm provider %q not supported", c.LLM.Provider)
	}
	if c.LLM.Model == "" {
		return fmt.Errorf("llm model is required")
	}
	if c.Generation.Timeout <= 0 {
		return fmt.Errorf("generation timeout must be positive")
	}
	return nil
}

// setDefaults 设置配置默认值
func setDefaults(v *viper.Viper) {
	// 应用默认值
	v.SetDefault("app.name", "ghost-story")
	v.SetDefault("app.version", "v0.0.0")
	v.SetDefault("app.env", "development")

	// HTTP 服务器默认值
	v.SetDefault("server.http.host", "0.0.0.0")
	v.SetDefault("server.http.port", 8080)
	v.SetDefault("server.http.read_timeout", "10s")
	v.SetDefault("server.http.write_timeout", "40s")
	v.SetDefault("server.http.idle_timeout", "120s")
	v.SetDefault("server.http.shutdown_timeout", "30s")

	// LLM 默认值
	v.SetDefault("llm.provider", "openai")
	v.SetDefault("llm.model", "gpt-3.5-turbo")
	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.api_key_env", "OPENAI_API_KEY")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.temperature", 0.8)
	v.SetDefault("llm.top_p", 0.9)
	v.SetDefault("llm.max_tokens", 1000)

	// 生成默认值
	v.SetDefault("generation.timeout", "25s")
	v.SetDefault("generation.slow_warning_after", "15s")

	// 可观测性默认值
	v.SetDefault("observability.logging.level", "info")
	v.SetDefault("observability.logging.format", "json")
	v.SetDefault("observability.logging.output", "stdout")
	v.SetDefault("observability.tracing.enabled", false)
	v.SetDefault("observability.tracing.endpoint", "localhost:4317")
	v.SetDefault("observability.tracing.insecure", true)
	v.SetDefault("observability.tracing.sample_rate", 1.0)
	v.SetDefault("observability.metrics.enabled", true)
	v.SetDefault("observability.metrics.path", "/metrics")

	// 安全默认值
	v.SetDefault("security.cors.allowed_methods", []string{"GET", "POST", "OPTIONS"})
}
