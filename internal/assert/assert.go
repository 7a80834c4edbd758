// Package assert holds the fail-fast primitive used for programming errors.
package assert

// AssertionError is the panic value raised by True.
type AssertionError struct {
	Message string
}

func (e *AssertionError) Error() string {
	return "assertion failed: " + e.Message
}

// True panics with an *AssertionError when condition is false.
func True(condition bool, message string) {
	if condition {
		return
	}
	if message == "" {
		message = "expected condition to be true"
	}
	panic(&AssertionError{Message: message})
}
