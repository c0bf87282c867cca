// Package ai holds the hosted-model collaborators: CSV row normalization
// and the AI-assisted merge strategy. Everything here may fail or be slow;
// the deterministic core in internal/dedupe and internal/merge never
// depends on this package.
package ai

import (
	"fmt"
	"os"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// Model selection is tiered: the default model handles merge reasoning,
// the simple model handles row normalization, which is mostly mechanical.
//
// Environment overrides:
// - ROLO_MODEL_DEFAULT: override default model
// - ROLO_MODEL_SIMPLE: override model for normalization
const (
	// ModelDefault is the model for merge reasoning
	ModelDefault = "claude-sonnet-4-5-20250929"

	// ModelSimple is the cost-efficient model for row normalization
	ModelSimple = "claude-3-5-haiku-20241022"
)

// GetDefaultModel returns the default model, checking ROLO_MODEL_DEFAULT first
func GetDefaultModel() string {
	if model := os.Getenv("ROLO_MODEL_DEFAULT"); model != "" {
		return model
	}
	return ModelDefault
}

// GetSimpleTaskModel returns the normalization model, checking ROLO_MODEL_SIMPLE first
func GetSimpleTaskModel() string {
	if model := os.Getenv("ROLO_MODEL_SIMPLE"); model != "" {
		return model
	}
	return ModelSimple
}

// Client wraps the Anthropic API with retry, circuit breaking, request
// pacing, and a concurrency cap. All AI collaborators in this package
// route their calls through it.
type Client struct {
	api            *anthropic.Client
	model          string
	retry          RetryConfig
	circuitBreaker *CircuitBreaker
	concurrencySem *semaphore.Weighted // caps in-flight API calls
	limiter        *rate.Limiter       // paces request starts
}

// Config holds client configuration
type Config struct {
	APIKey            string      // Anthropic API key (falls back to ANTHROPIC_API_KEY)
	Model             string      // default model (uses GetDefaultModel if empty)
	Retry             RetryConfig // retry configuration (defaults if zero)
	RequestsPerSecond float64     // request pacing (default: 2)
}

// NewClient creates a new AI client
func NewClient(cfg *Config) (*Client, error) {
	if cfg == nil {
		cfg = &Config{}
	}

	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY not set")
		}
	}

	model := cfg.Model
	if model == "" {
		model = GetDefaultModel()
	}

	retry := cfg.Retry
	if retry.MaxRetries == 0 {
		retry = DefaultRetryConfig()
	}

	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 2
	}

	api := anthropic.NewClient(option.WithAPIKey(apiKey))

	var circuitBreaker *CircuitBreaker
	if retry.CircuitBreakerEnabled {
		circuitBreaker = NewCircuitBreaker(retry.FailureThreshold, retry.SuccessThreshold, retry.OpenTimeout)
	}

	var concurrencySem *semaphore.Weighted
	if retry.MaxConcurrentCalls > 0 {
		concurrencySem = semaphore.NewWeighted(int64(retry.MaxConcurrentCalls))
	}

	return &Client{
		api:            &api,
		model:          model,
		retry:          retry,
		circuitBreaker: circuitBreaker,
		concurrencySem: concurrencySem,
		limiter:        rate.NewLimiter(rate.Limit(rps), 1),
	}, nil
}

// Available reports whether AI features can be used at all (an API key is
// present). Callers use this to decide between the AI and deterministic
// paths before constructing a client.
func Available() bool {
	return os.Getenv("ANTHROPIC_API_KEY") != ""
}
