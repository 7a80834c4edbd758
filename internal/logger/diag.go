package logger

import (
	"bytes"
	"fmt"
	"os"
	"runtime"
	"runtime/debug"
	"strconv"

	"go.uber.org/zap"
)

// TagLogger writes free-form diagnostic lines under a fixed tag.
type TagLogger struct {
	tag string
}

// Tagged returns a diagnostic sink for tag.
func Tagged(tag string) TagLogger { return TagLogger{tag: tag} }

// Printf logs a formatted debug line carrying the tag.
func (t TagLogger) Printf(format string, args ...interface{}) {
	if S == nil {
		return
	}
	S.Desugar().Debug(fmt.Sprintf(format, args...), zap.String("tag", t.tag))
}

// ThreadInfo describes the calling goroutine, e.g. "@[name=goroutine, id=7]".
func ThreadInfo() string {
	return "@[name=goroutine, id=" + strconv.FormatUint(goroutineID(), 10) + "]"
}

// goroutineID parses the "goroutine N [" prefix of the current stack.
func goroutineID() uint64 {
	buf := make([]byte, 64)
	buf = buf[:runtime.Stack(buf, false)]
	buf = bytes.TrimPrefix(buf, []byte("goroutine "))
	if i := bytes.IndexByte(buf, ' '); i >= 0 {
		buf = buf[:i]
	}
	id, err := strconv.ParseUint(string(buf), 10, 64)
	if err != nil {
		return 0
	}
	return id
}

// DeviceInfo is the runtime and build information logged at start-up.
type DeviceInfo struct {
	GoVersion string `json:"go_version"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
	CPUs      int    `json:"cpus"`
	Hostname  string `json:"hostname"`
	Module    string `json:"module,omitempty"`
	Version   string `json:"version,omitempty"`
	Revision  string `json:"revision,omitempty"`
}

// CollectDeviceInfo gathers DeviceInfo for the running process.
func CollectDeviceInfo() DeviceInfo {
	info := DeviceInfo{
		GoVersion: runtime.Version(),
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
		CPUs:      runtime.NumCPU(),
	}
	if host, err := os.Hostname(); err == nil {
		info.Hostname = host
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		info.Module = bi.Main.Path
		info.Version = bi.Main.Version
		for _, s := range bi.Settings {
			if s.Key == "vcs.revision" {
				info.Revision = s.Value
			}
		}
	}
	return info
}

// LogDeviceInfo logs CollectDeviceInfo under tag.
func LogDeviceInfo(tag string) {
	if S == nil {
		return
	}
	S.Desugar().Info("device info", zap.String("tag", tag), zap.Any("device", CollectDeviceInfo()))
}
