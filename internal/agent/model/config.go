package model

// ================ Config ================
type ConversationConfig struct {
	TTL string `envconfig:"CONVERSATION_TTL" default:"720h"`
	History struct {
		MaxTurns int `envconfig:"CONVERSATION_HISTORY_MAX_TURNS" default:"10"`
	}
}

type ExecutorConfig struct {
	// StepTimeout bounds every collaborator call issued by a step.
	StepTimeout string `envconfig:"EXECUTOR_STEP_TIMEOUT" default:"30s"`
	// MaxSteps caps a single turn; it only trips on graph wiring bugs.
	MaxSteps int `envconfig:"EXECUTOR_MAX_STEPS" default:"50"`
	// DefaultDateToToday restores the legacy behavior of treating a missing
	// date as "today". Canonically a missing date stays unset.
	DefaultDateToToday bool `envconfig:"EXECUTOR_DEFAULT_DATE_TO_TODAY" default:"false"`
}

type IntentModelConfig struct {
	Model       string  `envconfig:"INTENT_MODEL" default:"gemini-2.5-flash"`
	MaxTokens   int     `envconfig:"INTENT_MAX_TOKENS" default:"2000"`
	Temperature float32 `envconfig:"INTENT_TEMPERATURE" default:"0"`
}

type SelectionModelConfig struct {
	Model       string  `envconfig:"SELECTION_MODEL" default:"gemini-2.5-flash-lite"`
	MaxTokens   int     `envconfig:"SELECTION_MAX_TOKENS" default:"1000"`
	Temperature float32 `envconfig:"SELECTION_TEMPERATURE" default:"0"`
}

type ResponseModelConfig struct {
	Model       string  `envconfig:"RESPONSE_MODEL" default:"gemini-2.5-flash"`
	MaxTokens   int     `envconfig:"RESPONSE_MAX_TOKENS" default:"2000"`
	Temperature float32 `envconfig:"RESPONSE_TEMPERATURE" default:"0.4"`
}

type ResponsePromptConfig struct {
	CoachName string `envconfig:"PROMPT_COACH_NAME" default:"NutriPal"`
	Persona   string `envconfig:"PROMPT_PERSONA" default:"friendly nutrition coach"`
}

type CatalogConfig struct {
	// MaxResults caps how many candidates a search may return.
	MaxResults int `envconfig:"CATALOG_MAX_RESULTS" default:"5"`
}
