package llm

import (
	"os"
	"strconv"
	"time"
)

// TaskType identifies what a model call is for.
type TaskType string

const (
	// TaskRouteSuggest asks the model for three itinerary variants.
	TaskRouteSuggest TaskType = "route_suggest"
	// TaskRouteExplain asks for a short prose summary of one variant.
	TaskRouteExplain TaskType = "route_explain"
)

// TaskConfig holds per-task generation parameters.
type TaskConfig struct {
	Temperature float64
	MaxTokens   int
	TimeoutMs   int // overrides LLMConfig.TimeoutMs if > 0
	JSONOutput  bool
	// SingleAttempt ignores LLMConfig.MaxRetries for this task.
	SingleAttempt bool
}

// LLMConfig holds everything the Ollama client needs.
type LLMConfig struct {
	Enabled    bool
	LogCalls   bool
	Endpoint   string
	Model      string
	TimeoutMs  int
	MaxRetries int
	Tasks      map[TaskType]TaskConfig
}

// DefaultConfig returns a disabled config pointing at a local Ollama.
// Route suggestions get one attempt within 30 seconds.
func DefaultConfig() LLMConfig {
	return LLMConfig{
		Enabled:    false,
		LogCalls:   false,
		Endpoint:   "http://localhost:11434",
		Model:      "llama3.2",
		TimeoutMs:  10000,
		MaxRetries: 0,
		Tasks: map[TaskType]TaskConfig{
			TaskRouteSuggest: {Temperature: 0.4, MaxTokens: 4096, TimeoutMs: 30000, JSONOutput: true, SingleAttempt: true},
			TaskRouteExplain: {Temperature: 0.3, MaxTokens: 512, TimeoutMs: 8000},
		},
	}
}

// LoadConfig reads DAYROUTE_LLM_* variables over DefaultConfig. Malformed
// values are ignored.
func LoadConfig() LLMConfig {
	cfg := DefaultConfig()

	if v, ok := envBool("DAYROUTE_LLM_ENABLED"); ok {
		cfg.Enabled = v
	}
	if v, ok := envBool("DAYROUTE_LLM_LOG_CALLS"); ok {
		cfg.LogCalls = v
	}
	if v := os.Getenv("DAYROUTE_LLM_ENDPOINT"); v != "" {
		cfg.Endpoint = v
	}
	if v := os.Getenv("DAYROUTE_LLM_MODEL"); v != "" {
		cfg.Model = v
	}
	if n, ok := envInt("DAYROUTE_LLM_TIMEOUT_MS"); ok && n > 0 {
		cfg.TimeoutMs = n
	}
	if n, ok := envInt("DAYROUTE_LLM_MAX_RETRIES"); ok && n >= 0 {
		cfg.MaxRetries = n
	}

	applyTaskTimeoutEnv(&cfg, TaskRouteSuggest, "DAYROUTE_LLM_SUGGEST_TIMEOUT_MS")
	applyTaskTimeoutEnv(&cfg, TaskRouteExplain, "DAYROUTE_LLM_EXPLAIN_TIMEOUT_MS")

	return cfg
}

// TaskTimeout returns the effective timeout for task.
func (c LLMConfig) TaskTimeout(task TaskType) time.Duration {
	ms := c.TimeoutMs
	if tc, ok := c.Tasks[task]; ok && tc.TimeoutMs > 0 {
		ms = tc.TimeoutMs
	}
	return time.Duration(ms) * time.Millisecond
}

// TaskRetries returns how many retries task may use after its first attempt.
func (c LLMConfig) TaskRetries(task TaskType) int {
	if tc, ok := c.Tasks[task]; ok && tc.SingleAttempt {
		return 0
	}
	return c.MaxRetries
}

func applyTaskTimeoutEnv(cfg *LLMConfig, task TaskType, envName string) {
	n, ok := envInt(envName)
	if !ok || n <= 0 {
		return
	}
	tc := cfg.Tasks[task]
	tc.TimeoutMs = n
	cfg.Tasks[task] = tc
}

func envBool(name string) (bool, bool) {
	v := os.Getenv(name)
	if v == "" {
		return false, false
	}
	b, err := strconv.ParseBool(v)
	return b, err == nil
}

func envInt(name string) (int, bool) {
	v := os.Getenv(name)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	return n, err == nil
}
