package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/openai"
	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"golang.org/x/time/rate"

	"github.com/iWorld-y/usecase_radar/pkg/config"
)

// Generator 文本生成接口，屏蔽具体的模型供应商
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ChatGenerator 基于 OpenAI 兼容接口的生成器实现
type ChatGenerator struct {
	chatModel einomodel.ChatModel
	limiter   *rate.Limiter
}

// Ensure ChatGenerator implements Generator
var _ Generator = (*ChatGenerator)(nil)

// NewChatGenerator 创建生成器。maxTokens 为 0 时使用配置值。
func NewChatGenerator(ctx context.Context, cfg config.LLMConfig, maxTokens int, limiter *rate.Limiter) (*ChatGenerator, error) {
	if maxTokens == 0 {
		maxTokens = cfg.MaxTokens
	}
	temperature := cfg.Temperature

	chatModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		BaseURL:     cfg.BaseURL,
		APIKey:      cfg.APIKey,
		Model:       cfg.Model,
		Temperature: &temperature,
		MaxTokens:   &maxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("LLM 初始化失败: %w", err)
	}

	return &ChatGenerator{
		chatModel: chatModel,
		limiter:   limiter,
	}, nil
}

// Generate 单次调用模型生成补全。
// 命中 429 时做有限次指数退避，其余错误直接返回。
func (g *ChatGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	maxRetries := 3
	baseDelay := 2 * time.Second
	var lastErr error

	for i := 0; i <= maxRetries; i++ {
		if g.limiter != nil {
			if err := g.limiter.Wait(ctx); err != nil {
				return "", err
			}
		}

		messages := []*schema.Message{
			{Role: schema.User, Content: prompt},
		}

		resp, err := g.chatModel.Generate(ctx, messages)
		if err != nil {
			if strings.Contains(err.Error(), "429") || strings.Contains(strings.ToLower(err.Error()), "too many requests") {
				lastErr = err
				if i < maxRetries {
					select {
					case <-ctx.Done():
						return "", ctx.Err()
					case <-time.After(baseDelay * time.Duration(1<<i)):
					}
					continue
				}
			}
			return "", err
		}

		return resp.Content, nil
	}
	return "", lastErr
}
