package executor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/v0xg/remotedriver/internal/wire"
)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// maxResponseBytes caps how much of a response body is read
const maxResponseBytes = 32 << 20

// HTTPOptions configures an HTTP executor
type HTTPOptions struct {
	BaseURL   string // e.g. http://localhost:4444/wd/hub
	SessionID string
	Dialect   wire.Dialect
	Timeout   time.Duration // per request; zero means no client timeout
	Client    *http.Client  // optional, overrides Timeout
}

// HTTP sends commands to a WebDriver server over its REST endpoints
type HTTP struct {
	baseURL   string
	sessionID string
	dialect   wire.Dialect
	client    *http.Client
}

// NewHTTP creates an executor bound to one remote session
func NewHTTP(opts HTTPOptions) *HTTP {
	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}
	return &HTTP{
		baseURL:   strings.TrimRight(opts.BaseURL, "/"),
		sessionID: opts.SessionID,
		dialect:   opts.Dialect,
		client:    client,
	}
}

// response covers both the legacy {status, value} and the W3C {value} envelopes
type response struct {
	Status *int            `json:"status"`
	Value  json.RawMessage `json:"value"`
}

type errorValue struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Execute sends cmd and returns the "value" member of the response
func (h *HTTP) Execute(ctx context.Context, cmd wire.Command, params wire.Params) (json.RawMessage, error) {
	route, err := wire.RouteFor(h.dialect, cmd)
	if err != nil {
		return nil, err
	}
	path, body, err := route.Expand(h.sessionID, params)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", cmd, err)
	}

	var reader io.Reader
	if route.Method != http.MethodGet {
		data, err := jsonAPI.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to encode params: %w", cmd, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, route.Method, h.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", cmd, err)
	}
	req.Header.Set("Accept", "application/json")
	if reader != nil {
		req.Header.Set("Content-Type", "application/json;charset=UTF-8")
	}
	if id := RequestID(ctx); id != "" {
		req.Header.Set("X-Request-Id", id)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", cmd, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read response: %w", cmd, err)
	}

	return decodeResponse(resp.StatusCode, raw)
}

func decodeResponse(httpStatus int, raw []byte) (json.RawMessage, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		if httpStatus >= 400 {
			return nil, &RemoteError{HTTPStatus: httpStatus, Message: http.StatusText(httpStatus)}
		}
		return nil, nil
	}

	var env response
	if err := jsonAPI.Unmarshal(raw, &env); err != nil {
		if httpStatus >= 400 {
			return nil, &RemoteError{HTTPStatus: httpStatus, Message: strings.TrimSpace(string(raw))}
		}
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	legacyFailed := env.Status != nil && *env.Status != 0
	if httpStatus < 400 && !legacyFailed {
		return env.Value, nil
	}

	rerr := &RemoteError{HTTPStatus: httpStatus}
	if env.Status != nil {
		rerr.Status = *env.Status
	}
	var ev errorValue
	if err := jsonAPI.Unmarshal(env.Value, &ev); err == nil {
		rerr.Code = ev.Error
		rerr.Message = ev.Message
	}
	return nil, rerr
}
