// Package oracle implements the intent, selection and text oracles on Gemini
// chat models. Everything model-specific stays here; the graph only sees the
// typed oracle interfaces.
package oracle

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/gemini"
	"google.golang.org/genai"

	"github.com/nutripal/server/internal/agent/model"
	logx "github.com/nutripal/server/pkg/logger"
)

// ChatModelConfig holds the configuration for chat model creation.
type ChatModelConfig struct {
	APIKey          string
	BaseURL         string
	IntentConfig    *model.IntentModelConfig
	SelectionConfig *model.SelectionModelConfig
	RespConfig      *model.ResponseModelConfig
}

// ChatModels holds the three chat models backing the oracles.
type ChatModels struct {
	Intent    *gemini.ChatModel
	Selection *gemini.ChatModel
	Response  *gemini.ChatModel

	IntentModelName    string
	SelectionModelName string
	ResponseModelName  string
}

// NewChatModels creates the intent, selection and response chat models from
// one shared Gemini client.
func NewChatModels(ctx context.Context, config ChatModelConfig) (*ChatModels, error) {
	clientCfg := &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if config.BaseURL != "" {
		clientCfg.HTTPOptions.BaseURL = config.BaseURL
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		logx.Error().Err(err).Msg("Error creating Gemini client")
		return nil, fmt.Errorf("error creating Gemini client: %w", err)
	}

	intentModel, err := gemini.NewChatModel(ctx, &gemini.Config{
		Client:      client,
		Model:       config.IntentConfig.Model,
		Temperature: &config.IntentConfig.Temperature,
		MaxTokens:   &config.IntentConfig.MaxTokens,
	})
	if err != nil {
		logx.Error().Err(err).Msg("Error creating intent model")
		return nil, fmt.Errorf("error creating intent model: %w", err)
	}

	selectionModel, err := gemini.NewChatModel(ctx, &gemini.Config{
		Client:      client,
		Model:       config.SelectionConfig.Model,
		Temperature: &config.SelectionConfig.Temperature,
		MaxTokens:   &config.SelectionConfig.MaxTokens,
	})
	if err != nil {
		logx.Error().Err(err).Msg("Error creating selection model")
		return nil, fmt.Errorf("error creating selection model: %w", err)
	}

	responseModel, err := gemini.NewChatModel(ctx, &gemini.Config{
		Client:      client,
		Model:       config.RespConfig.Model,
		Temperature: &config.RespConfig.Temperature,
		MaxTokens:   &config.RespConfig.MaxTokens,
	})
	if err != nil {
		logx.Error().Err(err).Msg("Error creating response model")
		return nil, fmt.Errorf("error creating response model: %w", err)
	}

	return &ChatModels{
		Intent:             intentModel,
		Selection:          selectionModel,
		Response:           responseModel,
		IntentModelName:    config.IntentConfig.Model,
		SelectionModelName: config.SelectionConfig.Model,
		ResponseModelName:  config.RespConfig.Model,
	}, nil
}
