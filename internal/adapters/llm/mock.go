package llm

import (
	"context"
	"fmt"

	"github.com/Abhayrat6030/ApnaBandhan-sub000/internal/domain"
)

// MockClient is a ChatCompleter for local development without an API
// key. It never requests tools and just echoes the last user turn.
type MockClient struct{}

func NewMockClient() *MockClient {
	return &MockClient{}
}

func (m *MockClient) Complete(_ context.Context, messages []domain.ChatMessage, _ []domain.ToolSpec) (*domain.ChatMessage, error) {
	lastUser := ""
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == domain.ChatRoleUser {
			lastUser = messages[i].Content
			break
		}
	}

	return &domain.ChatMessage{
		Role:    domain.ChatRoleAssistant,
		Content: fmt.Sprintf("(mock assistant) I can't reach the model right now, but I received: %q", lastUser),
	}, nil
}
