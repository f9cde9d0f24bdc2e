package advisor

import (
	"context"
	"fmt"
	"strings"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// sdkClient implements MessageClient using the official anthropic-sdk-go.
type sdkClient struct {
	client sdk.Client
}

// NewSDKClient creates a MessageClient backed by the Anthropic SDK.
func NewSDKClient(apiKey string) (MessageClient, error) {
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}
	return &sdkClient{
		client: sdk.NewClient(option.WithAPIKey(apiKey)),
	}, nil
}

func (c *sdkClient) CreateMessage(ctx context.Context, req MessageRequest) (string, error) {
	msg, err := c.client.Messages.New(ctx, sdk.MessageNewParams{
		Model:     sdk.Model(req.Model),
		MaxTokens: req.MaxTokens,
		Messages: []sdk.MessageParam{
			sdk.NewUserMessage(sdk.NewTextBlock(req.Prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic: create message: %w", err)
	}

	var b strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("anthropic: no text content in response")
	}
	return b.String(), nil
}
