package intelligence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Abhayrat6030/ApnaBandhan-sub000/internal/domain"
	"github.com/Abhayrat6030/ApnaBandhan-sub000/internal/observability"
)

// defaultMaxToolRounds bounds how many chat-completion round-trips one
// request may spend resolving tool calls before we fail closed.
const defaultMaxToolRounds = 5

// ErrToolRoundsExceeded is returned when the model keeps requesting
// tools past the round budget.
var ErrToolRoundsExceeded = errors.New("assistant could not complete the request")

// Orchestrator drives a bounded request/response cycle with the chat
// endpoint, executing any tool calls the model issues until it
// produces a plain-text answer. It holds no per-request state: each
// Answer call builds its own transcript and discards it.
type Orchestrator struct {
	llm          domain.ChatCompleter
	registry     *Registry
	systemPrompt string
	maxRounds    int
}

func NewOrchestrator(llm domain.ChatCompleter, registry *Registry, systemPrompt string) *Orchestrator {
	return &Orchestrator{
		llm:          llm,
		registry:     registry,
		systemPrompt: systemPrompt,
		maxRounds:    defaultMaxToolRounds,
	}
}

// Answer assembles [system, ...history, user] and loops until the
// model replies with text. Tool calls within one model turn run
// sequentially in the order emitted; the protocol requires the
// assistant tool-call turn and its keyed tool turns to be appended in
// exactly that order before the next round-trip.
func (o *Orchestrator) Answer(ctx context.Context, question string, history []domain.ChatMessage) (string, error) {
	log := observability.LoggerFromContext(ctx).With("tools", len(o.registry.names))

	msgs := make([]domain.ChatMessage, 0, len(history)+2)
	msgs = append(msgs, domain.ChatMessage{Role: domain.ChatRoleSystem, Content: o.systemPrompt})
	msgs = append(msgs, history...)
	msgs = append(msgs, domain.ChatMessage{Role: domain.ChatRoleUser, Content: question})

	specs := o.registry.Specs()

	for round := 1; round <= o.maxRounds; round++ {
		resp, err := o.llm.Complete(ctx, msgs, specs)
		if err != nil {
			return "", fmt.Errorf("chat completion (round %d): %w", round, err)
		}

		if len(resp.ToolCalls) == 0 {
			log.Info("assistant answered", "rounds", round)
			return resp.Content, nil
		}

		log.Info("resolving tool calls", "round", round, "count", len(resp.ToolCalls))

		msgs = append(msgs, *resp)
		for _, call := range resp.ToolCalls {
			msgs = append(msgs, o.executeCall(ctx, call))
		}
	}

	log.Error("tool round budget exhausted", "max_rounds", o.maxRounds)
	return "", ErrToolRoundsExceeded
}

// executeCall runs one tool call and always yields a tool turn: tool
// failures and unknown names become error payloads the model can react
// to instead of aborting the batch.
func (o *Orchestrator) executeCall(ctx context.Context, call domain.ToolCall) domain.ChatMessage {
	log := observability.LoggerFromContext(ctx).With("tool", call.Name, "call_id", call.ID)

	tool, ok := o.registry.Lookup(call.Name)
	if !ok {
		log.Warn("model requested unknown tool")
		return toolTurn(call, map[string]any{"error": fmt.Sprintf("tool %q not found", call.Name)})
	}

	result, err := tool.Call(ctx, call.Arguments)
	if err != nil {
		log.Warn("tool execution failed", "error", err)
		return toolTurn(call, map[string]any{"error": err.Error()})
	}

	return toolTurn(call, result)
}

func toolTurn(call domain.ToolCall, payload any) domain.ChatMessage {
	body, err := json.Marshal(payload)
	if err != nil {
		body = []byte(`{"error":"tool result could not be serialized"}`)
	}
	return domain.ChatMessage{
		Role:       domain.ChatRoleTool,
		Content:    string(body),
		ToolCallID: call.ID,
		ToolName:   call.Name,
	}
}
