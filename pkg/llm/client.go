// Package llm provides a client for interacting with Large Language Models.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"knowledge-qa-go/internal/config"
	"knowledge-qa-go/pkg/log"
)

// ErrUnavailable 表示聊天补全服务不可达、配置错误或超时。
var ErrUnavailable = errors.New("chat service unavailable")

// Client defines the interface for an LLM client.
type Client interface {
	// Complete 以 system + user 两条消息调用聊天接口，返回完整的回答文本。
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

type openAICompatibleClient struct {
	cfg    config.LLMConfig
	client *http.Client
}

// NewClient creates a new LLM client based on the provider in the config.
func NewClient(cfg config.LLMConfig) Client {
	return &openAICompatibleClient{
		cfg:    cfg,
		client: &http.Client{},
	}
}

// Message 表示一条角色消息
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature *float64  `json:"temperature,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete calls the OpenAI-compatible chat completions API and returns the answer text.
func (c *openAICompatibleClient) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	log.Infof("[LLMClient] 开始调用 Chat API, model: %s", c.cfg.Model)
	reqBody := chatRequest{
		Model: c.cfg.Model,
		Messages: []Message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
	}
	if c.cfg.Temperature != 0 {
		t := c.cfg.Temperature
		reqBody.Temperature = &t
	}

	reqBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.cfg.BaseURL+"/chat/completions", bytes.NewReader(reqBytes))
	if err != nil {
		return "", fmt.Errorf("failed to create chat request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.client.Do(req)
	if err != nil {
		log.Errorf("[LLMClient] 调用 Chat API 失败, error: %v", err)
		return "", fmt.Errorf("%w: failed to call chat api: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		log.Errorf("[LLMClient] Chat API 返回非 200 状态码: %s", resp.Status)
		return "", fmt.Errorf("%w: api returned non-200 status: %s, body: %s", ErrUnavailable, resp.Status, string(bodyBytes))
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		log.Errorf("[LLMClient] 解析 Chat API 响应失败, error: %v", err)
		return "", fmt.Errorf("%w: failed to decode response: %v", ErrUnavailable, err)
	}

	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("%w: api returned no choices", ErrUnavailable)
	}

	answer := strings.TrimSpace(chatResp.Choices[0].Message.Content)
	log.Infof("[LLMClient] 成功从 Chat API 获取回答, 长度: %d", len(answer))
	return answer, nil
}
