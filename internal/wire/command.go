package wire

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// Command names a remote operation independently of the dialect
type Command string

const (
	TouchSingleTap     Command = "touchSingleTap"
	TouchDoubleTap     Command = "touchDoubleTap"
	TouchDown          Command = "touchDown"
	TouchUp            Command = "touchUp"
	TouchMove          Command = "touchMove"
	TouchFlick         Command = "touchFlick"
	TouchLongPress     Command = "touchLongPress"
	TouchScroll        Command = "touchScroll"
	Actions            Command = "actions"
	ImplicitlyWait     Command = "implicitlyWait"
	SetScriptTimeout   Command = "setScriptTimeout"
	SetTimeout         Command = "setTimeout"
	GetElementLocation Command = "getElementLocation"
	GetElementRect     Command = "getElementRect"
)

// ErrUnknownCommand is returned when a command has no route in a dialect
var ErrUnknownCommand = errors.New("unknown command")

// Route is the HTTP method and path template of a command
type Route struct {
	Method string
	Path   string
}

var legacyRoutes = map[Command]Route{
	TouchSingleTap:     {http.MethodPost, "/session/:sessionId/touch/click"},
	TouchDoubleTap:     {http.MethodPost, "/session/:sessionId/touch/doubleclick"},
	TouchDown:          {http.MethodPost, "/session/:sessionId/touch/down"},
	TouchUp:            {http.MethodPost, "/session/:sessionId/touch/up"},
	TouchMove:          {http.MethodPost, "/session/:sessionId/touch/move"},
	TouchFlick:         {http.MethodPost, "/session/:sessionId/touch/flick"},
	TouchLongPress:     {http.MethodPost, "/session/:sessionId/touch/longclick"},
	TouchScroll:        {http.MethodPost, "/session/:sessionId/touch/scroll"},
	ImplicitlyWait:     {http.MethodPost, "/session/:sessionId/timeouts/implicit_wait"},
	SetScriptTimeout:   {http.MethodPost, "/session/:sessionId/timeouts/async_script"},
	SetTimeout:         {http.MethodPost, "/session/:sessionId/timeouts"},
	GetElementLocation: {http.MethodGet, "/session/:sessionId/element/:id/location"},
}

// W3C servers take every timeout under one endpoint, keyed by param name.
// Touch commands keep their legacy routes since only tap has a W3C encoding.
var w3cOverrides = map[Command]Route{
	Actions:          {http.MethodPost, "/session/:sessionId/actions"},
	ImplicitlyWait:   {http.MethodPost, "/session/:sessionId/timeouts"},
	SetScriptTimeout: {http.MethodPost, "/session/:sessionId/timeouts"},
	GetElementRect:   {http.MethodGet, "/session/:sessionId/element/:id/rect"},
}

var routes = buildRoutes()

func buildRoutes() map[Dialect]map[Command]Route {
	w3c := make(map[Command]Route, len(legacyRoutes)+len(w3cOverrides))
	for cmd, r := range legacyRoutes {
		w3c[cmd] = r
	}
	for cmd, r := range w3cOverrides {
		w3c[cmd] = r
	}
	return map[Dialect]map[Command]Route{
		Legacy: legacyRoutes,
		W3C:    w3c,
	}
}

// RouteFor returns the route of cmd in the given dialect
func RouteFor(d Dialect, cmd Command) (Route, error) {
	r, ok := routes[d][cmd]
	if !ok {
		return Route{}, fmt.Errorf("%w: %s (%s)", ErrUnknownCommand, cmd, d)
	}
	return r, nil
}

// Expand substitutes the session id and any ":name" placeholders taken from
// params. It returns the concrete path and the params left for the body.
// Substituted values are path-escaped, so each fills exactly one segment.
func (r Route) Expand(sessionID string, params Params) (string, Params, error) {
	body := make(Params, len(params))
	for k, v := range params {
		body[k] = v
	}

	segments := strings.Split(r.Path, "/")
	for i, seg := range segments {
		if !strings.HasPrefix(seg, ":") {
			continue
		}
		name := seg[1:]
		if name == "sessionId" {
			segments[i] = url.PathEscape(sessionID)
			continue
		}
		v, ok := body[name]
		if !ok {
			return "", nil, fmt.Errorf("missing path parameter %q for %s", name, r.Path)
		}
		segments[i] = url.PathEscape(fmt.Sprint(v))
		delete(body, name)
	}
	return strings.Join(segments, "/"), body, nil
}
