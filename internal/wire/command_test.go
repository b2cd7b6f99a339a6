package wire

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouteFor(t *testing.T) {
	tests := []struct {
		name    string
		dialect Dialect
		cmd     Command
		want    Route
	}{
		{"legacy tap", Legacy, TouchSingleTap, Route{http.MethodPost, "/session/:sessionId/touch/click"}},
		{"w3c tap fallback", W3C, TouchSingleTap, Route{http.MethodPost, "/session/:sessionId/touch/click"}},
		{"w3c actions", W3C, Actions, Route{http.MethodPost, "/session/:sessionId/actions"}},
		{"legacy implicit", Legacy, ImplicitlyWait, Route{http.MethodPost, "/session/:sessionId/timeouts/implicit_wait"}},
		{"w3c implicit", W3C, ImplicitlyWait, Route{http.MethodPost, "/session/:sessionId/timeouts"}},
		{"legacy script", Legacy, SetScriptTimeout, Route{http.MethodPost, "/session/:sessionId/timeouts/async_script"}},
		{"w3c script", W3C, SetScriptTimeout, Route{http.MethodPost, "/session/:sessionId/timeouts"}},
		{"legacy set timeout", Legacy, SetTimeout, Route{http.MethodPost, "/session/:sessionId/timeouts"}},
		{"legacy location", Legacy, GetElementLocation, Route{http.MethodGet, "/session/:sessionId/element/:id/location"}},
		{"w3c rect", W3C, GetElementRect, Route{http.MethodGet, "/session/:sessionId/element/:id/rect"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RouteFor(tt.dialect, tt.cmd)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRouteForUnknown(t *testing.T) {
	_, err := RouteFor(Legacy, Actions)
	assert.ErrorIs(t, err, ErrUnknownCommand)

	_, err = RouteFor(Legacy, GetElementRect)
	assert.ErrorIs(t, err, ErrUnknownCommand)

	_, err = RouteFor(W3C, Command("bogus"))
	assert.ErrorIs(t, err, ErrUnknownCommand)
}

func TestRouteExpand(t *testing.T) {
	r := Route{http.MethodGet, "/session/:sessionId/element/:id/rect"}
	params := Params{"id": "el-1", "extra": 3}

	path, body, err := r.Expand("sess", params)
	require.NoError(t, err)
	assert.Equal(t, "/session/sess/element/el-1/rect", path)
	assert.Equal(t, Params{"extra": 3}, body)
	// caller's map is untouched
	assert.Contains(t, params, "id")
}

func TestRouteExpandEscapesValues(t *testing.T) {
	r := Route{http.MethodGet, "/session/:sessionId/element/:id/rect"}

	tests := []struct {
		name      string
		sessionID string
		id        string
		want      string
	}{
		{"reserved characters in id", "s", "a/b?c#d", "/session/s/element/a%2Fb%3Fc%23d/rect"},
		{"space and percent in id", "s", "50% off", "/session/s/element/50%25%20off/rect"},
		{"slash in session id", "x/y", "el", "/session/x%2Fy/element/el/rect"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, _, err := r.Expand(tt.sessionID, Params{"id": tt.id})
			require.NoError(t, err)
			assert.Equal(t, tt.want, path)
		})
	}
}

func TestRouteExpandMissingParam(t *testing.T) {
	r := Route{http.MethodGet, "/session/:sessionId/element/:id/rect"}
	_, _, err := r.Expand("sess", Params{})
	assert.Error(t, err)
}

func TestParseDialect(t *testing.T) {
	for in, want := range map[string]Dialect{
		"legacy":   Legacy,
		"JsonWire": Legacy,
		" w3c ":    W3C,
		"W3C":      W3C,
	} {
		got, err := ParseDialect(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseDialect("marionette")
	assert.Error(t, err)
	assert.Equal(t, "w3c", W3C.String())
	assert.Equal(t, "legacy", Legacy.String())
}

func TestPointerActionJSON(t *testing.T) {
	src := PointerSource{
		Type:       SourcePointer,
		ID:         "finger",
		Parameters: PointerParameters{PointerType: PointerTouch},
		Actions:    []PointerAction{MoveTo(Point{X: 10, Y: 0}, 0), Press(0), Release(0)},
	}
	raw, err := json.Marshal(src)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"type": "pointer",
		"id": "finger",
		"parameters": {"pointerType": "touch"},
		"actions": [
			{"type": "pointerMove", "duration": 0, "x": 10, "y": 0},
			{"type": "pointerDown", "button": 0},
			{"type": "pointerUp", "button": 0}
		]
	}`, string(raw))
}
