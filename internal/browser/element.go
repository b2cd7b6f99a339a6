package browser

import (
	"context"
	"fmt"

	jsoniter "github.com/json-iterator/go"

	"github.com/v0xg/remotedriver/internal/wire"
)

// RemoteElement is an element known only by its wire id. Its location is
// fetched through the executor on every call, so a local page resolves it
// with the same lookup (and implicit wait) as every other command.
type RemoteElement struct {
	id      string
	exec    wire.Executor
	dialect wire.Dialect
}

// NewRemoteElement wraps a wire element id
func NewRemoteElement(id string, exec wire.Executor, dialect wire.Dialect) *RemoteElement {
	return &RemoteElement{id: id, exec: exec, dialect: dialect}
}

func (e *RemoteElement) ID() string { return e.id }

// Location asks the remote end where the element is
func (e *RemoteElement) Location(ctx context.Context) (wire.Point, error) {
	cmd := wire.GetElementLocation
	if e.dialect == wire.W3C {
		cmd = wire.GetElementRect
	}
	raw, err := e.exec.Execute(ctx, cmd, wire.Params{"id": e.id})
	if err != nil {
		return wire.Point{}, err
	}

	var pos struct {
		X float64 `json:"x"`
		Y float64 `json:"y"`
	}
	if err := jsoniter.Unmarshal(raw, &pos); err != nil {
		return wire.Point{}, fmt.Errorf("failed to decode location of %s: %w", e.id, err)
	}
	return wire.Point{X: int(pos.X), Y: int(pos.Y)}, nil
}
