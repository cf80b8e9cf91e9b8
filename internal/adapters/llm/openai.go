package llm

import (
	"context"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/Abhayrat6030/ApnaBandhan-sub000/internal/domain"
)

// OpenAIClient implements domain.ChatCompleter against the OpenAI
// chat-completion API. The tool-call threading (assistant tool_calls
// turn followed by role:"tool" turns keyed by tool_call_id) is part of
// the API contract and is preserved exactly in the mapping below.
type OpenAIClient struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
	timeout     time.Duration
}

type OpenAIOptions struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	MaxTokens   int
	// RequestTimeout bounds each round-trip; a hung upstream call must
	// not hang the whole request.
	RequestTimeout time.Duration
}

func NewOpenAIClient(opts OpenAIOptions) (*OpenAIClient, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("openai api key is required")
	}

	cfg := openai.DefaultConfig(opts.APIKey)
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}

	return &OpenAIClient{
		client:      openai.NewClientWithConfig(cfg),
		model:       opts.Model,
		temperature: float32(opts.Temperature),
		maxTokens:   opts.MaxTokens,
		timeout:     opts.RequestTimeout,
	}, nil
}

// Complete implements domain.ChatCompleter.
func (c *OpenAIClient) Complete(ctx context.Context, messages []domain.ChatMessage, tools []domain.ToolSpec) (*domain.ChatMessage, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req := openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    toWireMessages(messages),
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	}
	if len(tools) > 0 {
		req.Tools = toWireTools(tools)
		req.ToolChoice = "auto"
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("chat completion request: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("chat completion returned no choices")
	}

	msg := fromWireMessage(resp.Choices[0].Message)
	return &msg, nil
}

func toWireMessages(messages []domain.ChatMessage) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		wire := openai.ChatCompletionMessage{
			Role:    string(m.Role),
			Content: m.Content,
		}
		for _, call := range m.ToolCalls {
			wire.ToolCalls = append(wire.ToolCalls, openai.ToolCall{
				ID:   call.ID,
				Type: openai.ToolTypeFunction,
				Function: openai.FunctionCall{
					Name:      call.Name,
					Arguments: call.Arguments,
				},
			})
		}
		if m.Role == domain.ChatRoleTool {
			wire.ToolCallID = m.ToolCallID
			wire.Name = m.ToolName
		}
		out = append(out, wire)
	}
	return out
}

func toWireTools(tools []domain.ToolSpec) []openai.Tool {
	out := make([]openai.Tool, 0, len(tools))
	for _, t := range tools {
		out = append(out, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  t.Parameters,
			},
		})
	}
	return out
}

func fromWireMessage(m openai.ChatCompletionMessage) domain.ChatMessage {
	out := domain.ChatMessage{
		Role:    domain.ChatRole(m.Role),
		Content: m.Content,
	}
	for _, call := range m.ToolCalls {
		out.ToolCalls = append(out.ToolCalls, domain.ToolCall{
			ID:        call.ID,
			Name:      call.Function.Name,
			Arguments: call.Function.Arguments,
		})
	}
	return out
}
