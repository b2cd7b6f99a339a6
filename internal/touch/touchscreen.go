// Package touch dispatches touch gestures as remote driver commands.
//
// Only Tap has a W3C encoding. Every other gesture is sent with its legacy
// touch command whatever the dialect, and callers talking to a W3C-only
// server should expect those to be rejected by the remote end.
package touch

import (
	"context"

	"github.com/v0xg/remotedriver/internal/wire"
)

// TouchScreen executes touch gestures through an executor. Each method
// sends exactly one command and returns the screen itself so calls can be
// chained.
type TouchScreen struct {
	exec    wire.Executor
	dialect wire.Dialect
	tap     tapEncoder
}

// New creates a touch screen bound to a dialect for its whole lifetime
func New(exec wire.Executor, dialect wire.Dialect) *TouchScreen {
	return &TouchScreen{
		exec:    exec,
		dialect: dialect,
		tap:     tapEncoderFor(dialect),
	}
}

// Dialect returns the dialect the screen encodes for
func (s *TouchScreen) Dialect() wire.Dialect {
	return s.dialect
}

func (s *TouchScreen) send(ctx context.Context, cmd wire.Command, params wire.Params) (*TouchScreen, error) {
	if _, err := s.exec.Execute(ctx, cmd, params); err != nil {
		return s, err
	}
	return s, nil
}

// Tap taps on the element
func (s *TouchScreen) Tap(ctx context.Context, el wire.Element) (*TouchScreen, error) {
	cmd, params, err := s.tap.encodeTap(ctx, el)
	if err != nil {
		return s, err
	}
	return s.send(ctx, cmd, params)
}

// DoubleTap double-taps on the element
func (s *TouchScreen) DoubleTap(ctx context.Context, el wire.Element) (*TouchScreen, error) {
	return s.send(ctx, wire.TouchDoubleTap, wire.Params{"element": el.ID()})
}

// Down puts a finger down at the given screen position
func (s *TouchScreen) Down(ctx context.Context, x, y int) (*TouchScreen, error) {
	return s.send(ctx, wire.TouchDown, wire.Params{"x": x, "y": y})
}

// Up lifts the finger at the given screen position
func (s *TouchScreen) Up(ctx context.Context, x, y int) (*TouchScreen, error) {
	return s.send(ctx, wire.TouchUp, wire.Params{"x": x, "y": y})
}

// Move drags the finger to the given screen position
func (s *TouchScreen) Move(ctx context.Context, x, y int) (*TouchScreen, error) {
	return s.send(ctx, wire.TouchMove, wire.Params{"x": x, "y": y})
}

// Flick flicks anywhere on the screen with the given speeds in pixels per second
func (s *TouchScreen) Flick(ctx context.Context, xspeed, yspeed int) (*TouchScreen, error) {
	return s.send(ctx, wire.TouchFlick, wire.Params{
		"xspeed": xspeed,
		"yspeed": yspeed,
	})
}

// FlickFromElement flicks starting at the element, moving by the offsets at speed
func (s *TouchScreen) FlickFromElement(ctx context.Context, el wire.Element, xoffset, yoffset, speed int) (*TouchScreen, error) {
	return s.send(ctx, wire.TouchFlick, wire.Params{
		"xoffset": xoffset,
		"yoffset": yoffset,
		"element": el.ID(),
		"speed":   speed,
	})
}

// LongPress presses and holds on the element
func (s *TouchScreen) LongPress(ctx context.Context, el wire.Element) (*TouchScreen, error) {
	return s.send(ctx, wire.TouchLongPress, wire.Params{"element": el.ID()})
}

// Scroll scrolls by the given offsets
func (s *TouchScreen) Scroll(ctx context.Context, xoffset, yoffset int) (*TouchScreen, error) {
	return s.send(ctx, wire.TouchScroll, wire.Params{
		"xoffset": xoffset,
		"yoffset": yoffset,
	})
}

// ScrollFromElement scrolls by the given offsets starting at the element
func (s *TouchScreen) ScrollFromElement(ctx context.Context, el wire.Element, xoffset, yoffset int) (*TouchScreen, error) {
	return s.send(ctx, wire.TouchScroll, wire.Params{
		"element": el.ID(),
		"xoffset": xoffset,
		"yoffset": yoffset,
	})
}
