package worker

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/bedrock"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/aws/aws-sdk-go-v2/config"

	"github.com/strray/strray/pkg/models"
)

// ClaudeConfig contains configuration for creating a Claude worker.
type ClaudeConfig struct {
	// Name is the catalog name this worker answers to.
	Name string
	// Perspective colors the prompt with the worker's specialty
	// (e.g. "security review", "test strategy").
	Perspective string
	// Model is the Claude model to use. Empty selects a default.
	Model anthropic.Model
	// APIKey is the Anthropic API key. If empty, uses the
	// ANTHROPIC_API_KEY env var.
	APIKey string
	// UseAWSBedrock routes calls through AWS Bedrock.
	UseAWSBedrock bool
	// AWSRegion is the AWS region for Bedrock.
	AWSRegion string
	// AWSProfile is the optional AWS profile name.
	AWSProfile string
}

// Claude is a worker backed by the Anthropic API.
type Claude struct {
	name        string
	perspective string
	model       anthropic.Model
	client      anthropic.Client
}

// NewClaude creates a Claude-backed worker.
func NewClaude(cfg ClaudeConfig) (*Claude, error) {
	var opts []option.RequestOption

	if cfg.UseAWSBedrock {
		ctx := context.Background()

		var loadOpts []func(*config.LoadOptions) error
		if cfg.AWSRegion != "" {
			loadOpts = append(loadOpts, config.WithRegion(cfg.AWSRegion))
		}
		if cfg.AWSProfile != "" {
			loadOpts = append(loadOpts, config.WithSharedConfigProfile(cfg.AWSProfile))
		}

		opts = append(opts, bedrock.WithLoadDefaultConfig(ctx, loadOpts...))
	} else {
		apiKey := cfg.APIKey
		if apiKey == "" {
			apiKey = os.Getenv("ANTHROPIC_API_KEY")
		}
		if apiKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY environment variable is not set")
		}
		opts = append(opts, option.WithAPIKey(apiKey))
	}

	model := cfg.Model
	if model == "" {
		model = anthropic.ModelClaudeSonnet4_20250514
	}

	return &Claude{
		name:        cfg.Name,
		perspective: cfg.Perspective,
		model:       model,
		client:      anthropic.NewClient(opts...),
	}, nil
}

// Name returns the worker's catalog name.
func (c *Claude) Name() string {
	return c.name
}

// Execute sends the task to the Anthropic API and returns the model's
// response as the worker result.
func (c *Claude) Execute(ctx context.Context, task *models.TaskDescriptor) (*models.WorkerResult, error) {
	start := time.Now()

	prompt := fmt.Sprintf("You are %s", c.name)
	if c.perspective != "" {
		prompt += fmt.Sprintf(", focused on %s", c.perspective)
	}
	prompt += fmt.Sprintf(".\n\nOperation: %s\nTask: %s\n\nRespond with your result.",
		task.Operation, task.Description)

	resp, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: 4096,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("claude worker %s: %w", c.name, err)
	}

	var output string
	for _, block := range resp.Content {
		if variant, ok := block.AsAny().(anthropic.TextBlock); ok {
			output += variant.Text
		}
	}

	return &models.WorkerResult{
		Worker:    c.name,
		SessionID: task.Context.SessionID,
		Success:   true,
		Output:    output,
		Duration:  time.Since(start),
		Timestamp: time.Now(),
		Metadata: map[string]string{
			"mode":  "claude",
			"model": string(c.model),
		},
	}, nil
}
