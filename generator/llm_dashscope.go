package generator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"

	"wechat_article_proxy/config"
)

// DashScopeLLM calls the qwen text-generation API in its native shape
// (input.messages + parameters.result_format=message).
type DashScopeLLM struct {
	Model  string
	URL    string
	client *resty.Client
	logger *logrus.Logger
}

type dashScopeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type dashScopeRequest struct {
	Model string `json:"model"`
	Input struct {
		Messages []dashScopeMessage `json:"messages"`
	} `json:"input"`
	Parameters struct {
		ResultFormat string `json:"result_format"`
	} `json:"parameters"`
}

type dashScopeResponse struct {
	Output *struct {
		Choices []struct {
			FinishReason string           `json:"finish_reason"`
			Message      dashScopeMessage `json:"message"`
		} `json:"choices"`
	} `json:"output"`
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id"`
}

func NewDashScopeLLM(cfg config.LLMConfig, logger *logrus.Logger) (*DashScopeLLM, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("dashscope api key missing; provide llm.api_key")
	}
	if cfg.Model == "" {
		return nil, errors.New("llm model is required")
	}
	if cfg.BaseURL == "" {
		return nil, errors.New("dashscope url is required")
	}
	client := resty.New().
		SetTimeout(cfg.TimeoutDuration()).
		SetAuthToken(cfg.APIKey).
		SetHeader("Content-Type", "application/json")
	return &DashScopeLLM{Model: cfg.Model, URL: cfg.BaseURL, client: client, logger: logger}, nil
}

func (d *DashScopeLLM) Complete(ctx context.Context, prompt Prompt) (string, error) {
	var req dashScopeRequest
	req.Model = d.Model
	if prompt.System != "" {
		req.Input.Messages = append(req.Input.Messages, dashScopeMessage{Role: "system", Content: prompt.System})
	}
	req.Input.Messages = append(req.Input.Messages, dashScopeMessage{Role: "user", Content: prompt.User})
	req.Parameters.ResultFormat = "message"

	resp, err := d.client.R().SetContext(ctx).SetBody(req).Post(d.URL)
	if err != nil {
		return "", fmt.Errorf("dashscope request: %w", err)
	}

	var data dashScopeResponse
	if err := json.Unmarshal(resp.Body(), &data); err != nil {
		return "", fmt.Errorf("dashscope: decode response (%s): %w", resp.Status(), err)
	}
	if !resp.IsSuccess() {
		return "", fmt.Errorf("dashscope: %s %s %s", resp.Status(), data.Code, data.Message)
	}
	if data.Output == nil || len(data.Output.Choices) == 0 {
		return "", ErrEmptyCompletion
	}

	d.logger.WithFields(logrus.Fields{
		"request_id": data.RequestID,
		"finish":     data.Output.Choices[0].FinishReason,
		"took":       resp.Time(),
	}).Debug("dashscope completion done")
	return data.Output.Choices[0].Message.Content, nil
}
