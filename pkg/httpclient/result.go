package httpclient

import "context"

// Result is the outcome of one request: either a response body or a failure message.
type Result struct {
	Body   string
	Err    string
	Failed bool
}

// OK reports whether the request completed with a 200 response.
func (r Result) OK() bool { return !r.Failed }

func successResult(body string) Result { return Result{Body: body} }

func errorResult(msg string) Result { return Result{Err: msg, Failed: true} }

// ResultChan is an Events implementation that delivers the single terminal
// outcome of a connection on a buffered channel.
type ResultChan struct {
	ch chan Result
}

// NewResultChan returns a ResultChan ready to be passed to NewAsyncConnection.
func NewResultChan() *ResultChan {
	return &ResultChan{ch: make(chan Result, 1)}
}

func (r *ResultChan) OnHTTPComplete(response string) { r.deliver(successResult(response)) }

func (r *ResultChan) OnHTTPError(message string) { r.deliver(errorResult(message)) }

// deliver never blocks the worker; only the first result is kept.
func (r *ResultChan) deliver(res Result) {
	select {
	case r.ch <- res:
	default:
	}
}

// C exposes the receive side of the channel.
func (r *ResultChan) C() <-chan Result { return r.ch }

// Wait blocks until the result arrives or ctx is done.
func (r *ResultChan) Wait(ctx context.Context) (Result, error) {
	select {
	case res := <-r.ch:
		return res, nil
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}
