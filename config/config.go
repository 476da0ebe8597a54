package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultServerAddr    = ":8080"
	DefaultStaticFile    = "index.html"
	DefaultWeChatBaseURL = "https://api.weixin.qq.com"
	DefaultQwenURL       = "https://dashscope.aliyuncs.com/api/v1/services/aigc/text-generation/generation"
	DefaultCoverImageURL = "https://images.unsplash.com/photo-1551218808-94e220e084d2?w=800&h=600&fit=crop"

	UploadPlaceholder = "placeholder"
	UploadMaterial    = "material"

	ProviderQwen     = "qwen"
	ProviderOpenAI   = "openai"
	ProviderDeepSeek = "deepseek"
)

// Config is the server configuration. Upstream credentials for WeChat are
// supplied per request by the caller and never stored here.
type Config struct {
	ServerAddr    string       `json:"server_addr,omitempty"`
	StaticFile    string       `json:"static_file,omitempty"`
	LogLevel      string       `json:"log_level,omitempty"`
	CoverImageURL string       `json:"cover_image_url,omitempty"`
	WeChat        WeChatConfig `json:"wechat"`
	LLM           LLMConfig    `json:"llm"`
}

// WeChatConfig points at the Official Account API.
type WeChatConfig struct {
	BaseURL string `json:"base_url,omitempty"`
	// Timeout in seconds.
	Timeout int `json:"timeout,omitempty"`
	// ImageUpload is "placeholder" (no upstream call) or "material".
	ImageUpload string `json:"image_upload,omitempty"`
}

// LLMConfig 文章生成所用的大模型配置。
type LLMConfig struct {
	Provider string `json:"provider,omitempty"`
	Model    string `json:"model,omitempty"`
	APIKey   string `json:"api_key,omitempty"`
	BaseURL  string `json:"base_url,omitempty"`
	// Timeout in seconds.
	Timeout int `json:"timeout,omitempty"`
}

func (c WeChatConfig) TimeoutDuration() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

func (c LLMConfig) TimeoutDuration() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

// Default returns the configuration used when neither a file nor the
// environment says otherwise.
func Default() Config {
	return Config{
		ServerAddr:    DefaultServerAddr,
		StaticFile:    DefaultStaticFile,
		LogLevel:      "info",
		CoverImageURL: DefaultCoverImageURL,
		WeChat: WeChatConfig{
			BaseURL:     DefaultWeChatBaseURL,
			Timeout:     10,
			ImageUpload: UploadPlaceholder,
		},
		LLM: LLMConfig{
			Provider: ProviderQwen,
			Timeout:  30,
		},
	}
}

// Load reads JSON config from path on top of the defaults, then applies .env
// and environment overrides. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := json.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse config %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist):
		default:
			return Config{}, err
		}
	}

	// .env is optional for local development.
	_ = godotenv.Load()

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	cfg.fillDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	c.ServerAddr = getEnv("SERVER_ADDR", c.ServerAddr)
	c.StaticFile = getEnv("STATIC_FILE", c.StaticFile)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.CoverImageURL = getEnv("COVER_IMAGE_URL", c.CoverImageURL)
	c.WeChat.BaseURL = getEnv("WECHAT_BASE_URL", c.WeChat.BaseURL)
	c.WeChat.ImageUpload = getEnv("WECHAT_IMAGE_UPLOAD", c.WeChat.ImageUpload)
	c.LLM.Provider = getEnv("LLM_PROVIDER", c.LLM.Provider)
	c.LLM.Model = getEnv("LLM_MODEL", c.LLM.Model)
	c.LLM.BaseURL = getEnv("LLM_BASE_URL", c.LLM.BaseURL)
	c.LLM.APIKey = getEnv("LLM_API_KEY", c.LLM.APIKey)

	var err error
	if c.WeChat.Timeout, err = getEnvInt("WECHAT_TIMEOUT", c.WeChat.Timeout); err != nil {
		return err
	}
	if c.LLM.Timeout, err = getEnvInt("LLM_TIMEOUT", c.LLM.Timeout); err != nil {
		return err
	}
	return nil
}

// fillDefaults completes provider specific settings left empty.
func (c *Config) fillDefaults() {
	if c.ServerAddr == "" {
		c.ServerAddr = DefaultServerAddr
	}
	if c.StaticFile == "" {
		c.StaticFile = DefaultStaticFile
	}
	if c.CoverImageURL == "" {
		c.CoverImageURL = DefaultCoverImageURL
	}
	if c.WeChat.BaseURL == "" {
		c.WeChat.BaseURL = DefaultWeChatBaseURL
	}
	if c.WeChat.ImageUpload == "" {
		c.WeChat.ImageUpload = UploadPlaceholder
	}
	if c.LLM.Provider == "" {
		c.LLM.Provider = ProviderQwen
	}

	switch c.LLM.Provider {
	case ProviderQwen:
		if c.LLM.Model == "" {
			c.LLM.Model = "qwen-plus"
		}
		if c.LLM.BaseURL == "" {
			c.LLM.BaseURL = DefaultQwenURL
		}
		if c.LLM.APIKey == "" {
			c.LLM.APIKey = os.Getenv("QWEN_API_KEY")
		}
	case ProviderOpenAI:
		if c.LLM.Model == "" {
			c.LLM.Model = "gpt-3.5-turbo"
		}
		if c.LLM.APIKey == "" {
			c.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		}
	case ProviderDeepSeek:
		if c.LLM.Model == "" {
			c.LLM.Model = "deepseek-chat"
		}
		if c.LLM.APIKey == "" {
			c.LLM.APIKey = os.Getenv("DEEPSEEK_API_KEY")
		}
	}
}

// Validate reports settings the server cannot start with. A missing LLM key
// is allowed: generation then always serves the fallback article.
func (c Config) Validate() error {
	switch c.LLM.Provider {
	case ProviderQwen, ProviderOpenAI:
	case ProviderDeepSeek:
		// DeepSeek 走 OpenAI 兼容接口，需要 base_url。
		if c.LLM.BaseURL == "" {
			return errors.New("llm provider deepseek requires base_url (OpenAI-compatible endpoint)")
		}
	default:
		return fmt.Errorf("llm provider %s not supported", c.LLM.Provider)
	}
	switch c.WeChat.ImageUpload {
	case UploadPlaceholder, UploadMaterial:
	default:
		return fmt.Errorf("wechat image_upload %q not supported", c.WeChat.ImageUpload)
	}
	if c.WeChat.Timeout <= 0 {
		return fmt.Errorf("wechat timeout must be positive, got %d", c.WeChat.Timeout)
	}
	if c.LLM.Timeout <= 0 {
		return fmt.Errorf("llm timeout must be positive, got %d", c.LLM.Timeout)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}
