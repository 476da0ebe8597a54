package generator

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"wechat_article_proxy/config"
)

// LLMClient 抽象大模型客户端，便于替换/Mock。
type LLMClient interface {
	Complete(ctx context.Context, prompt Prompt) (string, error)
}

// NewLLM picks the client for cfg.Provider. Without an API key every call
// fails fast so the caller falls back without a network round trip.
func NewLLM(cfg config.LLMConfig, logger *logrus.Logger) (LLMClient, error) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	if cfg.APIKey == "" {
		logger.WithField("provider", cfg.Provider).Warn("llm api key missing, articles will use the fallback template")
		return NoKeyLLM{Provider: cfg.Provider}, nil
	}
	switch cfg.Provider {
	case config.ProviderQwen:
		return NewDashScopeLLM(cfg, logger)
	case config.ProviderOpenAI, config.ProviderDeepSeek:
		// DeepSeek 提供 OpenAI 兼容接口。
		return NewOpenAILLM(cfg)
	default:
		return nil, fmt.Errorf("llm provider %s not supported", cfg.Provider)
	}
}
