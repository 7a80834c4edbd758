package httpclient

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// newRestyBaseClient creates a single-use resty.Client. The connect phase
// (dial + TLS handshake), the wait for response headers and every individual
// read or write on the connection are each bounded by timeout.
func newRestyBaseClient(timeout time.Duration, log Logger) *resty.Client {
	dialer := &net.Dialer{Timeout: timeout}

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			conn, err := dialer.DialContext(ctx, network, addr)
			if err != nil {
				return nil, err
			}
			return &deadlineConn{Conn: conn, timeout: timeout}, nil
		},
		TLSHandshakeTimeout:   timeout,
		ResponseHeaderTimeout: timeout,
		DisableKeepAlives:     true,
	}

	c := resty.New()
	c.SetTransport(transport)
	c.SetRetryCount(0)
	c.SetLogger(restyLogger{log: ensureLogger(log)})
	return c
}

// deadlineConn arms a fresh deadline before each read and write, so a peer
// that stalls mid-body fails after timeout while a slow but steady one does not.
type deadlineConn struct {
	net.Conn
	timeout time.Duration
}

func (c *deadlineConn) Read(p []byte) (int, error) {
	if err := c.Conn.SetReadDeadline(time.Now().Add(c.timeout)); err != nil {
		return 0, err
	}
	return c.Conn.Read(p)
}

func (c *deadlineConn) Write(p []byte) (int, error) {
	if err := c.Conn.SetWriteDeadline(time.Now().Add(c.timeout)); err != nil {
		return 0, err
	}
	return c.Conn.Write(p)
}

// restyLogger forwards resty's internal diagnostics to the connection logger.
type restyLogger struct {
	log Logger
}

func (l restyLogger) Errorf(format string, v ...interface{}) {
	l.log.ErrorObj("resty error", "resty", fmt.Sprintf(format, v...))
}

func (l restyLogger) Warnf(format string, v ...interface{}) {
	l.log.WarnObj("resty warning", "resty", fmt.Sprintf(format, v...))
}

func (l restyLogger) Debugf(format string, v ...interface{}) {
	l.log.DebugObj("resty debug", "resty", fmt.Sprintf(format, v...))
}

// statusLine reconstructs "HTTP/1.1 404 Not Found" from the response. It is
// best-effort and may be blank when the transport exposed no status.
func statusLine(resp *resty.Response) string {
	if resp == nil || resp.RawResponse == nil {
		return ""
	}
	proto := resp.Proto()
	status := resp.Status()
	switch {
	case proto == "":
		return status
	case status == "":
		return proto
	default:
		return proto + " " + status
	}
}
