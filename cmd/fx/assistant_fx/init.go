package assistant_fx

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"locate918/internal/api/controllers"
	"locate918/internal/services"
	"locate918/pkg/utils"
)

var Module = fx.Provide(
	ProvideModelClient,
	ProvideAssistantService,
	ProvideAssistantController)

// ModelConfig holds configuration for the generative-model provider.
type ModelConfig struct {
	Provider string
	APIKey   string
	Model    string
}

// ProvideModelClient creates the model client from environment variables.
// A configuration error here aborts fx startup: the service must not come
// up without its one required secret. The client lives for the whole
// process and is closed on shutdown.
func ProvideModelClient(lc fx.Lifecycle, logger *zap.Logger) (utils.ModelClientInterface, error) {
	config, err := getModelConfig()
	if err != nil {
		return nil, err
	}

	logger.Info("initializing model client",
		zap.String("provider", config.Provider),
		zap.String("model", config.Model))

	client, err := utils.NewModelClient(config.Provider, config.APIKey, config.Model, logger)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})

	return client, nil
}

func ProvideAssistantService(
	modelClient utils.ModelClientInterface,
	logger *zap.Logger,
) services.AssistantServiceInterface {
	return services.NewAssistantService(modelClient, logger)
}

func ProvideAssistantController(
	assistantService services.AssistantServiceInterface,
) *controllers.AssistantController {
	return controllers.NewAssistantController(assistantService)
}

// getModelConfig reads provider configuration from environment variables.
// Every misconfiguration is rejected here, before any client is built.
func getModelConfig() (ModelConfig, error) {
	provider := getEnvWithDefault("MODEL_PROVIDER", "gemini")

	var apiKey, model string

	switch strings.ToLower(provider) {
	case "openai":
		apiKey = os.Getenv("OPENAI_API_KEY")
		model = getEnvWithDefault("OPENAI_MODEL", "gpt-4o-mini")
		if apiKey == "" {
			return ModelConfig{}, errors.New("OPENAI_API_KEY is required when using OpenAI provider")
		}
	case "gemini":
		apiKey = os.Getenv("GEMINI_API_KEY")
		model = getEnvWithDefault("GEMINI_MODEL", "gemini-2.0-flash-exp")
		if apiKey == "" {
			return ModelConfig{}, errors.New("GEMINI_API_KEY is required when using Gemini provider")
		}
	default:
		return ModelConfig{}, fmt.Errorf("unsupported model provider: %s. Use 'openai' or 'gemini'", provider)
	}

	return ModelConfig{
		Provider: provider,
		APIKey:   apiKey,
		Model:    model,
	}, nil
}

// getEnvWithDefault returns environment variable or default value.
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
