package wire

import (
	"context"
	"encoding/json"
)

// Params is the parameter map sent along with a command
type Params map[string]any

// Executor performs a command against the remote end. The response value is
// opaque to dispatchers.
type Executor interface {
	Execute(ctx context.Context, cmd Command, params Params) (json.RawMessage, error)
}

// ExecutorFunc adapts a function to the Executor interface
type ExecutorFunc func(ctx context.Context, cmd Command, params Params) (json.RawMessage, error)

func (f ExecutorFunc) Execute(ctx context.Context, cmd Command, params Params) (json.RawMessage, error) {
	return f(ctx, cmd, params)
}

// Point is an on-screen position in CSS pixels
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Element is a remote UI element addressable by its wire id
type Element interface {
	ID() string
	// Location reports where the element is at the moment of the call
	Location(ctx context.Context) (Point, error)
}
