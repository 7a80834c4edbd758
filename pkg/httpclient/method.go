package httpclient

import (
	"fmt"
	"strings"
)

// Method is the HTTP verb of a signaling request. Only GET and POST are supported.
type Method string

const (
	MethodGet  Method = "GET"
	MethodPost Method = "POST"
)

// ParseMethod normalizes s and rejects anything other than GET or POST.
func ParseMethod(s string) (Method, error) {
	m := Method(strings.ToUpper(strings.TrimSpace(s)))
	if !m.Valid() {
		return "", fmt.Errorf("unsupported http method %q", s)
	}
	return m, nil
}

// Valid reports whether m is one of the supported methods.
func (m Method) Valid() bool {
	return m == MethodGet || m == MethodPost
}

func (m Method) String() string { return string(m) }
