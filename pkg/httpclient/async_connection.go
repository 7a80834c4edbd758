package httpclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samvad-hq/room-signal/internal/assert"
)

const (
	// HTTPTimeout bounds both the connect and the read phase of every request.
	HTTPTimeout = 8000 * time.Millisecond

	// DefaultContentType is used unless SetContentType overrides it.
	DefaultContentType = "text/plain; charset=utf-8"
)

// State is the lifecycle position of an AsyncConnection.
type State int

const (
	StateCreated State = iota
	StateSending
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateSending:
		return "sending"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// AsyncConnection performs exactly one HTTP request on its own goroutine and
// reports the outcome through Events. It cannot be reset or reused.
type AsyncConnection struct {
	id      string
	method  Method
	url     string
	message []byte
	events  Events
	origin  string
	timeout time.Duration
	log     Logger

	mu          sync.Mutex
	contentType string
	state       State
	done        chan struct{}
}

// Option customizes an AsyncConnection at construction.
type Option func(*AsyncConnection)

// WithLogger routes request diagnostics to log.
func WithLogger(log Logger) Option {
	return func(c *AsyncConnection) { c.log = ensureLogger(log) }
}

// NewAsyncConnection describes a request. A nil message means no body; an
// empty non-nil message is a present but empty body. GET never sends a body.
func NewAsyncConnection(method Method, url string, message []byte, events Events, opts ...Option) *AsyncConnection {
	assert.True(events != nil, "http events must not be nil")

	c := &AsyncConnection{
		id:      uuid.NewString(),
		method:  method,
		url:     url,
		message: message,
		events:  events,
		origin:  Origin(),
		timeout: HTTPTimeout,
		log:     noopLogger{},
		state:   StateCreated,
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetContentType overrides the Content-Type header. It panics after Send.
func (c *AsyncConnection) SetContentType(contentType string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	assert.True(c.state == StateCreated, "SetContentType called after Send")
	c.contentType = contentType
}

// Send starts the request on a new goroutine and returns immediately.
// It panics if the method is unsupported or Send was already called.
func (c *AsyncConnection) Send() {
	assert.True(c.method.Valid(), fmt.Sprintf("unsupported http method %q", string(c.method)))

	c.mu.Lock()
	first := c.state == StateCreated
	if first {
		c.state = StateSending
	}
	c.mu.Unlock()
	assert.True(first, "AsyncConnection.Send called more than once")

	go c.run()
}

// State reports the current lifecycle state.
func (c *AsyncConnection) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Done is closed once the terminal callback has returned.
func (c *AsyncConnection) Done() <-chan struct{} { return c.done }

func (c *AsyncConnection) run() {
	defer close(c.done)

	start := time.Now()
	res := c.execute()

	c.mu.Lock()
	if res.OK() {
		c.state = StateSucceeded
	} else {
		c.state = StateFailed
	}
	c.mu.Unlock()

	meta := map[string]any{
		"request_id": c.id,
		"method":     c.method.String(),
		"url":        c.url,
		"elapsed_ms": time.Since(start).Milliseconds(),
	}
	if res.OK() {
		meta["response_bytes"] = len(res.Body)
		c.log.DebugObj("http request completed", "http_request", meta)
		c.events.OnHTTPComplete(res.Body)
		return
	}
	meta["error"] = res.Err
	c.log.WarnObj("http request failed", "http_request", meta)
	c.events.OnHTTPError(res.Err)
}

// execute runs the request to completion. Every I/O handle it acquires is
// released before it returns.
func (c *AsyncConnection) execute() (res Result) {
	defer func() {
		if r := recover(); r != nil {
			res = c.failure(fmt.Errorf("%v", r))
		}
	}()

	client := newRestyBaseClient(c.timeout, c.log)
	defer client.GetClient().CloseIdleConnections()

	req := client.R().
		SetDoNotParseResponse(true).
		SetHeader("Cache-Control", "no-cache").
		SetHeader("Pragma", "no-cache").
		SetHeader("Origin", c.origin).
		SetHeader("Content-Type", c.contentTypeOrDefault())

	// POST always carries a body so the length is declared even when empty.
	if c.method == MethodPost {
		body := c.message
		if body == nil {
			body = []byte{}
		}
		req.SetContentLength(true)
		req.SetBody(body)
	}

	c.log.DebugObj("http request started", "http_request", map[string]any{
		"request_id": c.id,
		"method":     c.method.String(),
		"url":        c.url,
		"body_bytes": c.bodyLen(),
	})

	resp, err := req.Execute(c.method.String(), c.url)
	if err != nil {
		if resp != nil {
			c.release(resp.RawBody())
		}
		return c.failure(err)
	}

	body := resp.RawBody()
	defer c.release(body)

	if resp.StatusCode() != http.StatusOK {
		return errorResult(fmt.Sprintf("Non-200 response to %s to URL: %s : %s", c.method, c.url, statusLine(resp)))
	}

	data, err := drainBody(body)
	if err != nil {
		return c.failure(err)
	}
	return successResult(data)
}

func (c *AsyncConnection) contentTypeOrDefault() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.contentType == "" {
		return DefaultContentType
	}
	return c.contentType
}

func (c *AsyncConnection) bodyLen() int {
	if c.method != MethodPost {
		return 0
	}
	return len(c.message)
}

// failure converts a transport error into the reported message.
func (c *AsyncConnection) failure(err error) Result {
	if isTimeout(err) {
		return errorResult(fmt.Sprintf("HTTP %s to %s timeout", c.method, c.url))
	}
	return errorResult(fmt.Sprintf("HTTP %s to %s error: %s", c.method, c.url, err.Error()))
}

// release closes the response body. A close failure is logged only.
func (c *AsyncConnection) release(body io.ReadCloser) {
	if body == nil {
		return
	}
	if err := body.Close(); err != nil {
		c.log.WarnObj("http response close failed", "http_release", map[string]any{
			"request_id": c.id,
			"url":        c.url,
			"error":      err.Error(),
		})
	}
}

// drainBody reads body to the end as UTF-8 text. No data yields "".
func drainBody(body io.Reader) (string, error) {
	if body == nil {
		return "", nil
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	return strings.ToValidUTF8(string(data), "\uFFFD"), nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
