// Package timeouts configures the remote driver's implicit wait, script and
// page load timeouts.
package timeouts

import (
	"context"
	"math"

	"github.com/v0xg/remotedriver/internal/wire"
)

// Timeouts sets remote timeouts through an executor
type Timeouts struct {
	exec    wire.Executor
	dialect wire.Dialect
	enc     timeoutEncoder
}

// Settings holds optional timeouts in seconds; nil fields are left alone
type Settings struct {
	Implicit *float64
	Script   *float64
	PageLoad *float64
}

// New creates a Timeouts bound to a dialect for its whole lifetime
func New(exec wire.Executor, dialect wire.Dialect) *Timeouts {
	return &Timeouts{
		exec:    exec,
		dialect: dialect,
		enc:     encoderFor(dialect),
	}
}

// Millis converts seconds to whole milliseconds, truncating toward negative
// infinity. Out of range input is passed through unchecked.
func Millis(seconds float64) int64 {
	return int64(math.Floor(seconds * 1000))
}

func (t *Timeouts) send(ctx context.Context, cmd wire.Command, params wire.Params) (*Timeouts, error) {
	if _, err := t.exec.Execute(ctx, cmd, params); err != nil {
		return t, err
	}
	return t, nil
}

// ImplicitlyWait sets how long element lookups poll before giving up
func (t *Timeouts) ImplicitlyWait(ctx context.Context, seconds float64) (*Timeouts, error) {
	cmd, params := t.enc.implicit(Millis(seconds))
	return t.send(ctx, cmd, params)
}

// SetScriptTimeout sets how long an asynchronous script may run
func (t *Timeouts) SetScriptTimeout(ctx context.Context, seconds float64) (*Timeouts, error) {
	cmd, params := t.enc.script(Millis(seconds))
	return t.send(ctx, cmd, params)
}

// PageLoadTimeout sets how long to wait for a page load to complete
func (t *Timeouts) PageLoadTimeout(ctx context.Context, seconds float64) (*Timeouts, error) {
	cmd, params := t.enc.pageLoad(Millis(seconds))
	return t.send(ctx, cmd, params)
}

// Apply sends each configured timeout, stopping at the first error
func (t *Timeouts) Apply(ctx context.Context, s Settings) (*Timeouts, error) {
	steps := []struct {
		seconds *float64
		set     func(context.Context, float64) (*Timeouts, error)
	}{
		{s.Implicit, t.ImplicitlyWait},
		{s.Script, t.SetScriptTimeout},
		{s.PageLoad, t.PageLoadTimeout},
	}
	for _, step := range steps {
		if step.seconds == nil {
			continue
		}
		if _, err := step.set(ctx, *step.seconds); err != nil {
			return t, err
		}
	}
	return t, nil
}
