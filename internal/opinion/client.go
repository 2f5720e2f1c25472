// Package opinion obtains an optional second opinion on media origin
// from a vision model. It lives entirely outside the forensic core: the
// analyzer never calls it, and a missing or failing collaborator always
// degrades to the neutral opinion at the call site.
package opinion

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"verisure/internal/config"
	"verisure/internal/fusion"
	"verisure/internal/logging"
)

const (
	defaultModel = "gpt-4o-mini"
	maxTokens    = 1024
)

// Client calls a chat-completion API with vision support and parses the
// structured origin judgment out of the response.
type Client struct {
	api     *openai.Client
	model   string
	timeout time.Duration
	logger  *slog.Logger
}

// NewClient builds a collaborator client from the opinion settings.
func NewClient(cfg config.Opinion, logger *slog.Logger) (*Client, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("opinion client: missing API key")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	clientConfig := openai.DefaultConfig(apiKey)
	if base := strings.TrimSpace(cfg.BaseURL); base != "" {
		clientConfig.BaseURL = strings.TrimRight(base, "/")
	}

	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultModel
	}
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second

	return &Client{
		api:     openai.NewClientWithConfig(clientConfig),
		model:   model,
		timeout: timeout,
		logger:  logger,
	}, nil
}

// ImageOpinion submits one image and returns the parsed judgment. The
// raw model output is parsed tolerantly; a well-formed transport
// response with garbled content still yields the neutral opinion.
func (c *Client) ImageOpinion(ctx context.Context, imageData []byte, mimeType string) (fusion.SecondaryOpinion, error) {
	if len(imageData) == 0 {
		return fusion.NeutralOpinion(), errors.New("opinion: empty image")
	}
	if mimeType == "" {
		mimeType = "image/jpeg"
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	dataURL := fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(imageData))
	req := openai.ChatCompletionRequest{
		Model:     c.model,
		MaxTokens: maxTokens,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{Type: openai.ChatMessagePartTypeText, Text: userPrompt},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL:    dataURL,
							Detail: openai.ImageURLDetailAuto,
						},
					},
				},
			},
		},
	}

	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		return fusion.NeutralOpinion(), fmt.Errorf("opinion request: %w", err)
	}
	if len(resp.Choices) == 0 {
		return fusion.NeutralOpinion(), errors.New("opinion request: no choices returned")
	}

	content := resp.Choices[0].Message.Content
	c.logger.Debug("opinion received", logging.Int("content_bytes", len(content)))
	return fusion.ParseOpinion([]byte(content)), nil
}
