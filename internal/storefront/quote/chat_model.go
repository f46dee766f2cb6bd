package quote

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/gemini"
	"google.golang.org/genai"

	"github.com/coldblooded-heartbeats/storefront/internal/storefront/model"
	logx "github.com/coldblooded-heartbeats/storefront/pkg/logger"
)

// NewChatModel creates the Gemini chat model used to draft quotes.
func NewChatModel(ctx context.Context, cfg model.QuoteConfig) (*gemini.ChatModel, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini api key is not configured")
	}

	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions.BaseURL = cfg.BaseURL
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		logx.Error().Err(err).Msg("Error creating Gemini client")
		return nil, fmt.Errorf("error creating Gemini client: %w", err)
	}

	temperature := cfg.Temperature
	maxTokens := cfg.MaxTokens
	cm, err := gemini.NewChatModel(ctx, &gemini.Config{
		Client:      client,
		Model:       cfg.Model,
		Temperature: &temperature,
		MaxTokens:   &maxTokens,
	})
	if err != nil {
		logx.Error().Err(err).Str("model", cfg.Model).Msg("Error creating quote model")
		return nil, fmt.Errorf("error creating quote model: %w", err)
	}
	return cm, nil
}
