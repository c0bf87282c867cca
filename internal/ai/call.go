package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
)

// CallModel makes a generic text call against the given model. Other
// components route through this so retry, pacing, and circuit breaking
// live in one place.
func (c *Client) CallModel(ctx context.Context, prompt string, operation string, model string, maxTokens int) (string, error) {
	startTime := time.Now()

	if model == "" {
		model = c.model
	}
	if maxTokens == 0 {
		maxTokens = 4096
	}

	var response *anthropic.Message
	err := c.retryWithBackoff(ctx, operation, func(attemptCtx context.Context) error {
		resp, apiErr := c.api.Messages.New(attemptCtx, anthropic.MessageNewParams{
			Model:     anthropic.Model(model),
			MaxTokens: int64(maxTokens),
			Messages: []anthropic.MessageParam{
				anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
			},
		})
		if apiErr != nil {
			return apiErr
		}
		response = resp
		return nil
	})

	if err != nil {
		return "", fmt.Errorf("anthropic API call failed: %w", err)
	}

	var responseText string
	for _, block := range response.Content {
		if block.Type == "text" {
			responseText += block.Text
		}
	}

	duration := time.Since(startTime)
	fmt.Printf("AI %s call: input=%d tokens, output=%d tokens, duration=%v\n",
		operation, response.Usage.InputTokens, response.Usage.OutputTokens, duration)

	return responseText, nil
}
