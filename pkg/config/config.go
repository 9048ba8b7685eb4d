package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config 项目配置结构体
type Config struct {
	LLM         LLMConfig         `yaml:"llm"`
	Search      SearchConfig      `yaml:"search"`
	Research    ResearchConfig    `yaml:"research"`
	Reports     ReportsConfig     `yaml:"reports"`
	Cache       CacheConfig       `yaml:"cache"`
	Server      ServerConfig      `yaml:"server"`
	Log         LogConfig         `yaml:"log"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
	DB          DBConfig          `yaml:"db"`
}

// LLMConfig LLM 相关配置
type LLMConfig struct {
	BaseURL     string  `yaml:"base_url"`
	APIKey      string  `yaml:"api_key"`
	Model       string  `yaml:"model"`
	Temperature float32 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"` // 为 0 时使用 profile 的默认值
}

// SearchConfig 搜索相关配置
type SearchConfig struct {
	Provider string        `yaml:"provider"`
	Tavily   TavilyConfig  `yaml:"tavily"`
	SearXNG  SearXNGConfig `yaml:"searxng"`
}

// TavilyConfig Tavily 配置
type TavilyConfig struct {
	APIKey string `yaml:"api_key"`
}

// SearXNGConfig SearXNG 配置
type SearXNGConfig struct {
	BaseURL string `yaml:"base_url"`
	Timeout int    `yaml:"timeout"`
}

// ResearchConfig 调研相关配置
type ResearchConfig struct {
	Profile string `yaml:"profile"` // thorough 或 fast
}

// ReportsConfig 报告输出配置
type ReportsConfig struct {
	Dir string `yaml:"dir"`
}

// CacheConfig 缓存配置，TTL 单位为秒
type CacheConfig struct {
	TTL     int `yaml:"ttl"`
	MaxSize int `yaml:"max_size"`
}

// ServerConfig 展示服务配置
type ServerConfig struct {
	Addr    string `yaml:"addr"`
	Timeout string `yaml:"timeout"`
}

// LogConfig 日志相关配置
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// ConcurrencyConfig 并发控制配置
type ConcurrencyConfig struct {
	QPS int `yaml:"qps"`
	RPM int `yaml:"rpm"`
}

// DBConfig 数据库相关配置
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

// LoadConfig 从指定路径加载配置，环境变量中的密钥优先于文件
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	// 环境变量覆盖文件中的密钥
	if key := os.Getenv("TAVILY_API_KEY"); key != "" {
		cfg.Search.Tavily.APIKey = key
	}
	if key := os.Getenv("LLM_API_KEY"); key != "" {
		cfg.LLM.APIKey = key
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Search.Provider == "" {
		c.Search.Provider = "tavily"
	}
	if c.Research.Profile == "" {
		c.Research.Profile = "thorough"
	}
	if c.Reports.Dir == "" {
		c.Reports.Dir = "reports"
	}
	if c.Cache.TTL == 0 {
		c.Cache.TTL = 3600
	}
	if c.Cache.MaxSize == 0 {
		c.Cache.MaxSize = 128
	}
	if c.LLM.Temperature == 0 {
		c.LLM.Temperature = 0.7
	}
	if c.Concurrency.QPS == 0 {
		c.Concurrency.QPS = 1
	}
	if c.Concurrency.RPM == 0 {
		c.Concurrency.RPM = 30
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8000"
	}
}

// Validate 校验启动所需的必要密钥，缺失即为致命错误
func (c *Config) Validate() error {
	switch c.Search.Provider {
	case "tavily":
		if c.Search.Tavily.APIKey == "" {
			return fmt.Errorf("配置错误: 未设置 tavily api key (配置文件或 TAVILY_API_KEY 环境变量)")
		}
	case "searxng":
		if c.Search.SearXNG.BaseURL == "" {
			return fmt.Errorf("配置错误: 未设置 searxng base_url")
		}
	default:
		return fmt.Errorf("配置错误: 未知的搜索服务 %q", c.Search.Provider)
	}

	if c.LLM.APIKey == "" {
		return fmt.Errorf("配置错误: 未设置 llm api key (配置文件或 LLM_API_KEY 环境变量)")
	}
	return nil
}
