package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/cloudwego/eino/schema"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/nutripal/server/internal/agent/graph"
	"github.com/nutripal/server/internal/agent/model"
	"github.com/nutripal/server/internal/agent/oracle"
	"github.com/nutripal/server/internal/agent/repo"
	"github.com/nutripal/server/internal/catalog"
	"github.com/nutripal/server/internal/core"
	"github.com/nutripal/server/internal/foodlog"
	logx "github.com/nutripal/server/pkg/logger"
	pkgredis "github.com/nutripal/server/pkg/redis"
	pkgsqlite "github.com/nutripal/server/pkg/sqlite"
)

// AppConfig defines all configurable parameters for the agent, sourced from
// environment variables (loaded from .env for local runs).
type AppConfig struct {
	Env string `envconfig:"APP_ENV" default:"development"`

	// Infrastructure
	Redis  pkgredis.Config
	SQLite pkgsqlite.Config

	// LLM provider
	APIKey  string `envconfig:"GEMINI_API_KEY" required:"true"`
	BaseURL string `envconfig:"GEMINI_BASE_URL"`

	// Agent configs
	Intent       model.IntentModelConfig
	Selection    model.SelectionModelConfig
	Response     model.ResponseModelConfig
	Prompt       model.ResponsePromptConfig
	Catalog      model.CatalogConfig
	Conversation model.ConversationConfig
	Executor     model.ExecutorConfig
}

func main() {
	ctx := context.Background()

	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	var envCfg AppConfig
	if err := envconfig.Process("", &envCfg); err != nil {
		log.Fatalf("Failed to process environment config: %v", err)
	}

	logx.Init(logx.LoggerOpts{Environment: core.ParseEnvironment(envCfg.Env)})

	rdb, err := envCfg.Redis.New()
	if err != nil {
		log.Fatalf("Failed to initialise Redis client: %v", err)
	}
	defer rdb.Close()

	db, err := envCfg.SQLite.Open()
	if err != nil {
		log.Fatalf("Failed to open SQLite database: %v", err)
	}
	defer db.Close()

	if err := catalog.Seed(ctx, db); err != nil {
		log.Fatalf("Failed to seed food catalog: %v", err)
	}
	logStore := foodlog.NewStore(db)
	if err := logStore.Init(ctx); err != nil {
		log.Fatalf("Failed to initialise food log: %v", err)
	}

	ttl, err := time.ParseDuration(envCfg.Conversation.TTL)
	if err != nil {
		log.Fatalf("Invalid CONVERSATION_TTL '%s': %v", envCfg.Conversation.TTL, err)
	}
	stepTimeout, err := time.ParseDuration(envCfg.Executor.StepTimeout)
	if err != nil {
		log.Fatalf("Invalid EXECUTOR_STEP_TIMEOUT '%s': %v", envCfg.Executor.StepTimeout, err)
	}

	cms, err := oracle.NewChatModels(ctx, oracle.ChatModelConfig{
		APIKey:          envCfg.APIKey,
		BaseURL:         envCfg.BaseURL,
		IntentConfig:    &envCfg.Intent,
		SelectionConfig: &envCfg.Selection,
		RespConfig:      &envCfg.Response,
	})
	if err != nil {
		log.Fatalf("Failed to create chat models: %v", err)
	}

	executor, err := graph.Build(graph.Config{
		IntentOracle:       oracle.NewGeminiIntentOracle(cms.Intent, cms.IntentModelName, envCfg.Conversation.History.MaxTurns),
		SelectionOracle:    oracle.NewGeminiSelectionOracle(cms.Selection, cms.SelectionModelName),
		TextOracle:         oracle.NewGeminiTextOracle(cms.Response, cms.ResponseModelName, envCfg.Prompt),
		Catalog:            catalog.NewStore(db, envCfg.Catalog.MaxResults),
		FoodLog:            logStore,
		Checkpoints:        repo.NewRedisCheckpointStore(rdb, ttl),
		StepTimeout:        stepTimeout,
		MaxSteps:           envCfg.Executor.MaxSteps,
		DefaultDateToToday: envCfg.Executor.DefaultDateToToday,
	})
	if err != nil {
		log.Fatalf("Failed to build graph: %v", err)
	}

	testQueries := []struct {
		description string
		query       string
	}{
		{
			description: "Log a weighed food",
			query:       "I had 200g of grilled chicken breast for lunch",
		},
		{
			description: "Log a portioned food",
			query:       "and an apple as a snack",
		},
		{
			description: "Daily stats query",
			query:       "how much did I eat today?",
		},
	}

	threadID := "demo-thread-1"

	for i, test := range testQueries {
		fmt.Printf("\nTurn %d: %s\n", i+1, test.description)
		fmt.Printf("Query: %q\n", test.query)

		state, err := executor.RunTurn(ctx, threadID, schema.UserMessage(test.query))
		if err != nil {
			log.Fatalf("Turn %d failed: %v", i+1, err)
		}

		if len(state.Messages) > 0 {
			fmt.Printf("Reply: %s\n", state.Messages[len(state.Messages)-1].Content)
		}
	}

	fmt.Println("\nAll turns completed.")
}
