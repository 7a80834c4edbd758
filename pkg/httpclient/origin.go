package httpclient

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
)

// HTTPOrigin is the origin header value sent when the process does not configure one.
const HTTPOrigin = "https://appr.tc"

// ErrOriginFixed is returned by SetOrigin once the process origin has been read or set.
var ErrOriginFixed = errors.New("http origin is already fixed for this process")

var (
	originMu     sync.Mutex
	originValue  = HTTPOrigin
	originFrozen bool
)

// SetOrigin replaces the process-wide origin header. It must run at start-up,
// before the first connection is constructed; afterwards the value is fixed.
func SetOrigin(origin string) error {
	origin = strings.TrimSpace(origin)
	u, err := url.Parse(origin)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid http origin %q", origin)
	}

	originMu.Lock()
	defer originMu.Unlock()
	if originFrozen {
		return ErrOriginFixed
	}
	originValue = origin
	originFrozen = true
	return nil
}

// Origin returns the process origin and freezes it.
func Origin() string {
	originMu.Lock()
	defer originMu.Unlock()
	originFrozen = true
	return originValue
}
