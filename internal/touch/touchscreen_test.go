package touch

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/v0xg/remotedriver/internal/wire"
)

type mockExecutor struct {
	mock.Mock
}

func (m *mockExecutor) Execute(ctx context.Context, cmd wire.Command, params wire.Params) (json.RawMessage, error) {
	args := m.Called(ctx, cmd, params)
	raw, _ := args.Get(0).(json.RawMessage)
	return raw, args.Error(1)
}

type fakeElement struct {
	id      string
	loc     wire.Point
	err     error
	located int
}

func (e *fakeElement) ID() string { return e.id }

func (e *fakeElement) Location(context.Context) (wire.Point, error) {
	e.located++
	return e.loc, e.err
}

var dialects = []wire.Dialect{wire.Legacy, wire.W3C}

func TestTapLegacy(t *testing.T) {
	exec := new(mockExecutor)
	el := &fakeElement{id: "el-7", loc: wire.Point{X: 5, Y: 9}}
	exec.On("Execute", mock.Anything, wire.TouchSingleTap, wire.Params{"element": "el-7"}).
		Return(json.RawMessage(`null`), nil).Once()

	s := New(exec, wire.Legacy)
	got, err := s.Tap(context.Background(), el)

	require.NoError(t, err)
	assert.Same(t, s, got)
	assert.Zero(t, el.located, "legacy tap must not look up the location")
	exec.AssertExpectations(t)
	exec.AssertNumberOfCalls(t, "Execute", 1)
}

func TestTapW3C(t *testing.T) {
	exec := new(mockExecutor)
	el := &fakeElement{id: "el-7", loc: wire.Point{X: 120, Y: 48}}

	var sent wire.Params
	exec.On("Execute", mock.Anything, wire.Actions, mock.Anything).
		Run(func(args mock.Arguments) { sent = args.Get(2).(wire.Params) }).
		Return(json.RawMessage(`null`), nil).Once()

	s := New(exec, wire.W3C)
	got, err := s.Tap(context.Background(), el)
	require.NoError(t, err)
	assert.Same(t, s, got)
	exec.AssertNumberOfCalls(t, "Execute", 1)

	require.Len(t, sent, 1)
	sources, ok := sent["actions"].([]wire.PointerSource)
	require.True(t, ok)
	require.Len(t, sources, 1)

	finger := sources[0]
	assert.Equal(t, "pointer", finger.Type)
	assert.Equal(t, "finger", finger.ID)
	assert.Equal(t, "touch", finger.Parameters.PointerType)

	require.Len(t, finger.Actions, 3)
	move, down, up := finger.Actions[0], finger.Actions[1], finger.Actions[2]
	assert.Equal(t, wire.PointerMove, move.Type)
	assert.Equal(t, 0, *move.Duration)
	assert.Equal(t, 120, *move.X)
	assert.Equal(t, 48, *move.Y)
	assert.Equal(t, wire.PointerDown, down.Type)
	assert.Equal(t, 0, *down.Button)
	assert.Equal(t, wire.PointerUp, up.Type)
	assert.Equal(t, 0, *up.Button)
}

func TestTapW3CWireShape(t *testing.T) {
	var body []byte
	exec := wire.ExecutorFunc(func(_ context.Context, cmd wire.Command, params wire.Params) (json.RawMessage, error) {
		var err error
		body, err = json.Marshal(params)
		return nil, err
	})

	_, err := New(exec, wire.W3C).Tap(context.Background(), &fakeElement{id: "x", loc: wire.Point{X: 3, Y: 4}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"actions":[{
		"type":"pointer","id":"finger","parameters":{"pointerType":"touch"},
		"actions":[
			{"type":"pointerMove","duration":0,"x":3,"y":4},
			{"type":"pointerDown","button":0},
			{"type":"pointerUp","button":0}
		]}]}`, string(body))
}

func TestTapW3CLocationFresh(t *testing.T) {
	exec := new(mockExecutor)
	exec.On("Execute", mock.Anything, wire.Actions, mock.Anything).Return(nil, nil)
	el := &fakeElement{id: "el", loc: wire.Point{X: 1, Y: 1}}

	s := New(exec, wire.W3C)
	_, err := s.Tap(context.Background(), el)
	require.NoError(t, err)
	el.loc = wire.Point{X: 2, Y: 2}
	_, err = s.Tap(context.Background(), el)
	require.NoError(t, err)

	assert.Equal(t, 2, el.located)
	last := exec.Calls[1].Arguments.Get(2).(wire.Params)["actions"].([]wire.PointerSource)[0]
	assert.Equal(t, 2, *last.Actions[0].X)
}

func TestTapW3CLocationError(t *testing.T) {
	exec := new(mockExecutor)
	locErr := errors.New("stale element")

	_, err := New(exec, wire.W3C).Tap(context.Background(), &fakeElement{id: "el", err: locErr})
	assert.Same(t, locErr, err)
	exec.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything, mock.Anything)
}

// Gestures other than tap have no W3C encoding and always go out as legacy
// touch commands.
func TestGesturesIgnoreDialect(t *testing.T) {
	el := &fakeElement{id: "el-3"}
	tests := []struct {
		name   string
		call   func(*TouchScreen) (*TouchScreen, error)
		cmd    wire.Command
		params wire.Params
	}{
		{"DoubleTap", func(s *TouchScreen) (*TouchScreen, error) { return s.DoubleTap(context.Background(), el) },
			wire.TouchDoubleTap, wire.Params{"element": "el-3"}},
		{"Down", func(s *TouchScreen) (*TouchScreen, error) { return s.Down(context.Background(), 10, 20) },
			wire.TouchDown, wire.Params{"x": 10, "y": 20}},
		{"Up", func(s *TouchScreen) (*TouchScreen, error) { return s.Up(context.Background(), 11, 21) },
			wire.TouchUp, wire.Params{"x": 11, "y": 21}},
		{"Move", func(s *TouchScreen) (*TouchScreen, error) { return s.Move(context.Background(), 12, 22) },
			wire.TouchMove, wire.Params{"x": 12, "y": 22}},
		{"Flick", func(s *TouchScreen) (*TouchScreen, error) { return s.Flick(context.Background(), -300, 150) },
			wire.TouchFlick, wire.Params{"xspeed": -300, "yspeed": 150}},
		{"FlickFromElement", func(s *TouchScreen) (*TouchScreen, error) {
			return s.FlickFromElement(context.Background(), el, 5, -6, 7)
		}, wire.TouchFlick, wire.Params{"element": "el-3", "xoffset": 5, "yoffset": -6, "speed": 7}},
		{"LongPress", func(s *TouchScreen) (*TouchScreen, error) { return s.LongPress(context.Background(), el) },
			wire.TouchLongPress, wire.Params{"element": "el-3"}},
		{"Scroll", func(s *TouchScreen) (*TouchScreen, error) { return s.Scroll(context.Background(), 0, 400) },
			wire.TouchScroll, wire.Params{"xoffset": 0, "yoffset": 400}},
		{"ScrollFromElement", func(s *TouchScreen) (*TouchScreen, error) {
			return s.ScrollFromElement(context.Background(), el, -8, 9)
		}, wire.TouchScroll, wire.Params{"element": "el-3", "xoffset": -8, "yoffset": 9}},
	}

	for _, d := range dialects {
		for _, tt := range tests {
			t.Run(d.String()+"/"+tt.name, func(t *testing.T) {
				exec := new(mockExecutor)
				exec.On("Execute", mock.Anything, tt.cmd, tt.params).Return(nil, nil).Once()

				s := New(exec, d)
				got, err := tt.call(s)

				require.NoError(t, err)
				assert.Same(t, s, got)
				exec.AssertExpectations(t)
				exec.AssertNumberOfCalls(t, "Execute", 1)
			})
		}
	}
}

func TestExecutorErrorPropagates(t *testing.T) {
	boom := errors.New("session not created")
	el := &fakeElement{id: "el"}

	for _, d := range dialects {
		exec := new(mockExecutor)
		exec.On("Execute", mock.Anything, mock.Anything, mock.Anything).Return(nil, boom)
		s := New(exec, d)

		ctx := context.Background()
		calls := map[string]func() (*TouchScreen, error){
			"Tap":               func() (*TouchScreen, error) { return s.Tap(ctx, el) },
			"DoubleTap":         func() (*TouchScreen, error) { return s.DoubleTap(ctx, el) },
			"Down":              func() (*TouchScreen, error) { return s.Down(ctx, 1, 1) },
			"Up":                func() (*TouchScreen, error) { return s.Up(ctx, 1, 1) },
			"Move":              func() (*TouchScreen, error) { return s.Move(ctx, 1, 1) },
			"Flick":             func() (*TouchScreen, error) { return s.Flick(ctx, 1, 1) },
			"FlickFromElement":  func() (*TouchScreen, error) { return s.FlickFromElement(ctx, el, 1, 1, 1) },
			"LongPress":         func() (*TouchScreen, error) { return s.LongPress(ctx, el) },
			"Scroll":            func() (*TouchScreen, error) { return s.Scroll(ctx, 1, 1) },
			"ScrollFromElement": func() (*TouchScreen, error) { return s.ScrollFromElement(ctx, el, 1, 1) },
		}
		for name, call := range calls {
			_, err := call()
			assert.Same(t, boom, err, "%s/%s", d, name)
		}
		// one attempt per call, no retries
		exec.AssertNumberOfCalls(t, "Execute", len(calls))
	}
}

func TestChaining(t *testing.T) {
	exec := new(mockExecutor)
	exec.On("Execute", mock.Anything, mock.Anything, mock.Anything).Return(nil, nil)
	el := &fakeElement{id: "el", loc: wire.Point{X: 1, Y: 2}}
	ctx := context.Background()

	s := New(exec, wire.W3C)
	s1, err := s.Tap(ctx, el)
	require.NoError(t, err)
	s2, err := s1.DoubleTap(ctx, el)
	require.NoError(t, err)
	s3, err := s2.Scroll(ctx, 0, 10)
	require.NoError(t, err)

	assert.Same(t, s, s3)
	assert.Equal(t, wire.W3C, s3.Dialect())
	exec.AssertNumberOfCalls(t, "Execute", 3)
}
