package domain

// Chat roles follow the chat-completion wire protocol: a "tool" turn
// answers the assistant turn that requested it, keyed by ToolCallID.
type ChatRole string

const (
	ChatRoleSystem    ChatRole = "system"
	ChatRoleUser      ChatRole = "user"
	ChatRoleAssistant ChatRole = "assistant"
	ChatRoleTool      ChatRole = "tool"
)

// ChatMessage is one turn of a conversation transcript.
type ChatMessage struct {
	Role    ChatRole
	Content string

	// ToolCalls is set on assistant turns that request tool execution.
	ToolCalls []ToolCall

	// ToolCallID and ToolName are set on tool turns and must match the
	// call they answer.
	ToolCallID string
	ToolName   string
}

// ToolCall is a single function invocation requested by the model.
// Arguments is the raw JSON string as emitted by the model.
type ToolCall struct {
	ID        string
	Name      string
	Arguments string
}

// ToolSpec describes a callable tool to the model. Parameters is a
// JSON Schema object.
type ToolSpec struct {
	Name        string
	Description string
	Parameters  map[string]any
}
