package intelligence

import (
	"context"
	"fmt"

	"github.com/Abhayrat6030/ApnaBandhan-sub000/internal/domain"
)

// Tool is a named function the model may invoke. Call receives the
// raw argument JSON the model emitted and returns a JSON-serializable
// result.
type Tool interface {
	Spec() domain.ToolSpec
	Call(ctx context.Context, argumentsJSON string) (any, error)
}

// Registry is the fixed set of tools one assistant exposes. It is
// built once at startup and never mutated afterwards, so orchestrators
// can share it across requests without locking.
type Registry struct {
	names  []string
	byName map[string]Tool
}

// NewRegistry builds a registry from the given tools. Names must be
// unique within the set.
func NewRegistry(tools ...Tool) (*Registry, error) {
	r := &Registry{byName: make(map[string]Tool, len(tools))}
	for _, t := range tools {
		name := t.Spec().Name
		if name == "" {
			return nil, fmt.Errorf("tool with empty name")
		}
		if _, dup := r.byName[name]; dup {
			return nil, fmt.Errorf("duplicate tool name %q", name)
		}
		r.byName[name] = t
		r.names = append(r.names, name)
	}
	return r, nil
}

// Lookup returns the tool registered under name.
func (r *Registry) Lookup(name string) (Tool, bool) {
	t, ok := r.byName[name]
	return t, ok
}

// Specs returns the tool definitions in registration order, ready to
// attach to a chat-completion request.
func (r *Registry) Specs() []domain.ToolSpec {
	out := make([]domain.ToolSpec, 0, len(r.names))
	for _, name := range r.names {
		out = append(out, r.byName[name].Spec())
	}
	return out
}
