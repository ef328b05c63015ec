package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kendall-kelly/design-orders-panel/config"
)

// RemoteErrorCode classifies a failed remote call
type RemoteErrorCode string

const (
	CodeTimeout  RemoteErrorCode = "TIMEOUT"
	CodeHTTP     RemoteErrorCode = "HTTP_ERROR"
	CodeNetwork  RemoteErrorCode = "NETWORK_ERROR"
	CodeRejected RemoteErrorCode = "REJECTED"
)

// Sentinels matched by errors.Is against a *RemoteError
var (
	ErrTimeout  = errors.New("remote call timed out")
	ErrHTTP     = errors.New("remote returned an error status")
	ErrNetwork  = errors.New("remote unreachable")
	ErrRejected = errors.New("remote rejected the request")
)

// RemoteError is the single failure type of the remote layer
type RemoteError struct {
	Code     RemoteErrorCode
	Status   int
	Method   string
	Endpoint string
	Message  string
	Err      error
}

func (e *RemoteError) Error() string {
	switch e.Code {
	case CodeTimeout:
		return fmt.Sprintf("%s %s: timed out", e.Method, e.Endpoint)
	case CodeHTTP:
		if e.Message != "" {
			return fmt.Sprintf("%s %s: http %d: %s", e.Method, e.Endpoint, e.Status, e.Message)
		}
		return fmt.Sprintf("%s %s: http %d", e.Method, e.Endpoint, e.Status)
	case CodeRejected:
		return fmt.Sprintf("%s %s: rejected: %s", e.Method, e.Endpoint, e.Message)
	default:
		if e.Err != nil {
			return fmt.Sprintf("%s %s: %v", e.Method, e.Endpoint, e.Err)
		}
		return fmt.Sprintf("%s %s: %s", e.Method, e.Endpoint, e.Message)
	}
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

// Is matches the package sentinels by code
func (e *RemoteError) Is(target error) bool {
	switch target {
	case ErrTimeout:
		return e.Code == CodeTimeout
	case ErrHTTP:
		return e.Code == CodeHTTP
	case ErrNetwork:
		return e.Code == CodeNetwork
	case ErrRejected:
		return e.Code == CodeRejected
	}
	return false
}

// CallOptions customizes a single remote call
type CallOptions struct {
	Method  string
	Body    any
	Headers map[string]string
	// Timeout overrides the client default when positive
	Timeout time.Duration
}

// RemoteClient performs bounded JSON calls against the remote order service.
// It never retries.
type RemoteClient struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
	logger     *zap.Logger
}

// NewRemoteClient creates a client for baseURL. A non-positive timeout uses
// config.DefaultAPITimeout; a nil httpClient uses a plain http.Client.
func NewRemoteClient(baseURL string, timeout time.Duration, httpClient *http.Client, logger *zap.Logger) *RemoteClient {
	if timeout <= 0 {
		timeout = config.DefaultAPITimeout
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RemoteClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		timeout:    timeout,
		httpClient: httpClient,
		logger:     logger,
	}
}

// Call sends one request and returns the raw JSON body of a 2xx response.
// An empty body is returned as JSON null. Every failure is a *RemoteError.
func (c *RemoteClient) Call(ctx context.Context, endpoint string, opts CallOptions) (json.RawMessage, error) {
	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}
	timeout := c.timeout
	if opts.Timeout > 0 {
		timeout = opts.Timeout
	}

	fail := func(code RemoteErrorCode, status int, message string, err error) *RemoteError {
		return &RemoteError{Code: code, Status: status, Method: method, Endpoint: endpoint, Message: message, Err: err}
	}

	var body io.Reader
	if opts.Body != nil {
		data, err := json.Marshal(opts.Body)
		if err != nil {
			return nil, fail(CodeNetwork, 0, "failed to encode request body", err)
		}
		body = bytes.NewReader(data)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, body)
	if err != nil {
		return nil, fail(CodeNetwork, 0, "failed to create request", err)
	}
	for key, value := range opts.Headers {
		req.Header.Set(key, value)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	done := make(chan roundTrip, 1)
	go func() {
		done <- c.roundTrip(req)
	}()

	var rt roundTrip
	select {
	case rt = <-done:
	case <-ctx.Done():
		// The transport ignored cancellation; its result is discarded
		if isTimeout(ctx, ctx.Err()) {
			return nil, fail(CodeTimeout, 0, "", ctx.Err())
		}
		return nil, fail(CodeNetwork, 0, "", ctx.Err())
	}

	if rt.err != nil {
		if isTimeout(ctx, rt.err) {
			return nil, fail(CodeTimeout, rt.status, "", rt.err)
		}
		if rt.status != 0 {
			return nil, fail(CodeNetwork, rt.status, "failed to read response", rt.err)
		}
		return nil, fail(CodeNetwork, 0, "", rt.err)
	}

	c.logger.Debug("Remote call",
		zap.String("method", method),
		zap.String("endpoint", endpoint),
		zap.Int("status", rt.status),
		zap.Duration("latency", time.Since(start)),
	)

	if rt.status < 200 || rt.status > 299 {
		return nil, fail(CodeHTTP, rt.status, envelopeMessage(rt.payload), nil)
	}

	if len(bytes.TrimSpace(rt.payload)) == 0 {
		return json.RawMessage("null"), nil
	}
	if !json.Valid(rt.payload) {
		return nil, fail(CodeNetwork, rt.status, "response is not valid JSON", nil)
	}
	return json.RawMessage(rt.payload), nil
}

// roundTrip is the outcome of one request: status is set once headers arrived
type roundTrip struct {
	status  int
	payload []byte
	err     error
}

func (c *RemoteClient) roundTrip(req *http.Request) roundTrip {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return roundTrip{err: err}
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	return roundTrip{status: resp.StatusCode, payload: payload, err: err}
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return true
	}
	var netErr interface{ Timeout() bool }
	return errors.As(err, &netErr) && netErr.Timeout()
}

// envelopeMessage pulls the message out of an error body, if there is one
func envelopeMessage(payload []byte) string {
	var body struct {
		Message string `json:"message"`
		Error   any    `json:"error"`
	}
	if err := json.Unmarshal(payload, &body); err != nil {
		return ""
	}
	if body.Message != "" {
		return body.Message
	}
	switch e := body.Error.(type) {
	case string:
		return e
	case map[string]any:
		if msg, ok := e["message"].(string); ok {
			return msg
		}
	}
	return ""
}
