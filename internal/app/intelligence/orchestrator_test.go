package intelligence_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Abhayrat6030/ApnaBandhan-sub000/internal/app/intelligence"
	"github.com/Abhayrat6030/ApnaBandhan-sub000/internal/domain"
)

// scriptedCompleter replays a fixed sequence of model turns and records
// every transcript it was sent.
type scriptedCompleter struct {
	turns []domain.ChatMessage
	calls [][]domain.ChatMessage
	err   error
}

func (c *scriptedCompleter) Complete(_ context.Context, messages []domain.ChatMessage, _ []domain.ToolSpec) (*domain.ChatMessage, error) {
	snapshot := make([]domain.ChatMessage, len(messages))
	copy(snapshot, messages)
	c.calls = append(c.calls, snapshot)

	if c.err != nil {
		return nil, c.err
	}

	turn := c.turns[0]
	if len(c.turns) > 1 {
		c.turns = c.turns[1:]
	}
	return &turn, nil
}

// echoTool answers with whatever arguments it was given.
type echoTool struct {
	name string
	fail error
}

func (t *echoTool) Spec() domain.ToolSpec {
	return domain.ToolSpec{
		Name:        t.name,
		Description: "test tool",
		Parameters:  map[string]any{"type": "object"},
	}
}

func (t *echoTool) Call(_ context.Context, argumentsJSON string) (any, error) {
	if t.fail != nil {
		return nil, t.fail
	}
	return map[string]string{"echo": argumentsJSON}, nil
}

func assistantToolCallTurn(calls ...domain.ToolCall) domain.ChatMessage {
	return domain.ChatMessage{Role: domain.ChatRoleAssistant, ToolCalls: calls}
}

func textTurn(content string) domain.ChatMessage {
	return domain.ChatMessage{Role: domain.ChatRoleAssistant, Content: content}
}

func newTestOrchestrator(t *testing.T, llm domain.ChatCompleter, tools ...intelligence.Tool) *intelligence.Orchestrator {
	t.Helper()
	registry, err := intelligence.NewRegistry(tools...)
	require.NoError(t, err)
	return intelligence.NewOrchestrator(llm, registry, "you are a test assistant")
}

func TestAnswerWithoutToolCalls(t *testing.T) {
	llm := &scriptedCompleter{turns: []domain.ChatMessage{textTurn("hello there")}}
	orch := newTestOrchestrator(t, llm, &echoTool{name: "echo"})

	reply, err := orch.Answer(context.Background(), "hi", nil)
	require.NoError(t, err)
	require.Equal(t, "hello there", reply)
	require.Len(t, llm.calls, 1)

	// Transcript shape: system prompt first, question last.
	sent := llm.calls[0]
	require.Equal(t, domain.ChatRoleSystem, sent[0].Role)
	require.Equal(t, domain.ChatRoleUser, sent[len(sent)-1].Role)
	require.Equal(t, "hi", sent[len(sent)-1].Content)
}

func TestAnswerResolvesToolCallsInOrder(t *testing.T) {
	llm := &scriptedCompleter{turns: []domain.ChatMessage{
		assistantToolCallTurn(
			domain.ToolCall{ID: "call-1", Name: "echo", Arguments: `{"n":1}`},
			domain.ToolCall{ID: "call-2", Name: "echo", Arguments: `{"n":2}`},
		),
		textTurn("two results in"),
	}}
	orch := newTestOrchestrator(t, llm, &echoTool{name: "echo"})

	reply, err := orch.Answer(context.Background(), "run the tools", nil)
	require.NoError(t, err)
	require.Equal(t, "two results in", reply)
	require.Len(t, llm.calls, 2)

	// The second round-trip must carry the assistant tool-call turn
	// followed by one tool turn per call, keyed and ordered.
	second := llm.calls[1]
	n := len(second)
	require.Equal(t, domain.ChatRoleAssistant, second[n-3].Role)
	require.Len(t, second[n-3].ToolCalls, 2)

	require.Equal(t, domain.ChatRoleTool, second[n-2].Role)
	require.Equal(t, "call-1", second[n-2].ToolCallID)
	require.Equal(t, domain.ChatRoleTool, second[n-1].Role)
	require.Equal(t, "call-2", second[n-1].ToolCallID)

	var payload map[string]string
	require.NoError(t, json.Unmarshal([]byte(second[n-2].Content), &payload))
	require.Equal(t, `{"n":1}`, payload["echo"])
}

func TestAnswerUnknownToolBecomesErrorPayload(t *testing.T) {
	llm := &scriptedCompleter{turns: []domain.ChatMessage{
		assistantToolCallTurn(domain.ToolCall{ID: "call-9", Name: "does_not_exist"}),
		textTurn("recovered"),
	}}
	orch := newTestOrchestrator(t, llm, &echoTool{name: "echo"})

	reply, err := orch.Answer(context.Background(), "try it", nil)
	require.NoError(t, err, "an unknown tool must not abort the request")
	require.Equal(t, "recovered", reply)

	second := llm.calls[1]
	last := second[len(second)-1]
	require.Equal(t, domain.ChatRoleTool, last.Role)
	require.Equal(t, "call-9", last.ToolCallID)
	require.Contains(t, last.Content, "not found")
}

func TestAnswerToolFailureBecomesErrorPayload(t *testing.T) {
	llm := &scriptedCompleter{turns: []domain.ChatMessage{
		assistantToolCallTurn(domain.ToolCall{ID: "call-1", Name: "flaky"}),
		textTurn("noted the failure"),
	}}
	orch := newTestOrchestrator(t, llm, &echoTool{name: "flaky", fail: errors.New("store offline")})

	reply, err := orch.Answer(context.Background(), "check status", nil)
	require.NoError(t, err)
	require.Equal(t, "noted the failure", reply)

	second := llm.calls[1]
	last := second[len(second)-1]
	require.Contains(t, last.Content, "store offline")
}

func TestAnswerFailsClosedAfterRoundBudget(t *testing.T) {
	// The scripted completer keeps replaying its last turn, so the
	// model asks for tools forever.
	llm := &scriptedCompleter{turns: []domain.ChatMessage{
		assistantToolCallTurn(domain.ToolCall{ID: "loop", Name: "echo"}),
	}}
	orch := newTestOrchestrator(t, llm, &echoTool{name: "echo"})

	_, err := orch.Answer(context.Background(), "loop forever", nil)
	require.ErrorIs(t, err, intelligence.ErrToolRoundsExceeded)
	require.Len(t, llm.calls, 5)
}

func TestAnswerPropagatesCompletionErrors(t *testing.T) {
	llm := &scriptedCompleter{err: errors.New("upstream timeout")}
	orch := newTestOrchestrator(t, llm, &echoTool{name: "echo"})

	_, err := orch.Answer(context.Background(), "hi", nil)
	require.ErrorContains(t, err, "upstream timeout")
}

func TestAnswerCarriesHistory(t *testing.T) {
	llm := &scriptedCompleter{turns: []domain.ChatMessage{textTurn("ok")}}
	orch := newTestOrchestrator(t, llm, &echoTool{name: "echo"})

	history := []domain.ChatMessage{
		{Role: domain.ChatRoleUser, Content: "earlier question"},
		{Role: domain.ChatRoleAssistant, Content: "earlier answer"},
	}
	_, err := orch.Answer(context.Background(), "follow-up", history)
	require.NoError(t, err)

	sent := llm.calls[0]
	require.Len(t, sent, 4)
	require.Equal(t, "earlier question", sent[1].Content)
	require.Equal(t, "earlier answer", sent[2].Content)
	require.Equal(t, "follow-up", sent[3].Content)
}

func TestRegistryRejectsDuplicateNames(t *testing.T) {
	_, err := intelligence.NewRegistry(&echoTool{name: "echo"}, &echoTool{name: "echo"})
	require.ErrorContains(t, err, "duplicate")
}
