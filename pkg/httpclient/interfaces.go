package httpclient

// Events receives the terminal outcome of an AsyncConnection. Exactly one of
// the two methods is invoked, once, from the connection's worker goroutine.
type Events interface {
	OnHTTPComplete(response string)
	OnHTTPError(message string)
}

// EventFuncs adapts a pair of plain funcs to the Events interface. Nil funcs are skipped.
type EventFuncs struct {
	Complete func(response string)
	Error    func(message string)
}

func (f EventFuncs) OnHTTPComplete(response string) {
	if f.Complete != nil {
		f.Complete(response)
	}
}

func (f EventFuncs) OnHTTPError(message string) {
	if f.Error != nil {
		f.Error(message)
	}
}

// Logger defines the logging surface connections rely on.
type Logger interface {
	InfoObj(msg, key string, obj interface{})
	DebugObj(msg, key string, obj interface{})
	WarnObj(msg, key string, obj interface{})
	ErrorObj(msg, key string, obj interface{})
}

type noopLogger struct{}

func (noopLogger) InfoObj(string, string, interface{})  {}
func (noopLogger) DebugObj(string, string, interface{}) {}
func (noopLogger) WarnObj(string, string, interface{})  {}
func (noopLogger) ErrorObj(string, string, interface{}) {}

func ensureLogger(log Logger) Logger {
	if log == nil {
		return noopLogger{}
	}
	return log
}
