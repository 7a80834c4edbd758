package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/samvad-hq/room-signal/pkg/httpclient"
	"gopkg.in/yaml.v3"
)

// scriptFile represents the structure of the requests script.
type scriptFile struct {
	Requests []RequestSpec `json:"requests" yaml:"requests"`
}

// RequestSpec describes one signaling request declared in a script.
// Body is a pointer so an absent body and an empty body stay distinct.
type RequestSpec struct {
	Name        string  `json:"name" yaml:"name"`
	Method      string  `json:"method" yaml:"method"`
	Path        string  `json:"path" yaml:"path"`
	URL         string  `json:"url" yaml:"url"`
	Body        *string `json:"body" yaml:"body"`
	ContentType string  `json:"content_type" yaml:"content_type"`
}

// LoadScript loads request specs from a YAML/JSON file.
func LoadScript(path string) ([]RequestSpec, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("requests file path is empty")
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open requests file: %w", err)
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read requests file: %w", err)
	}

	script, err := parseScript(raw, filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	if len(script.Requests) == 0 {
		return nil, errors.New("requests file contains no requests entries")
	}

	seen := make(map[string]struct{}, len(script.Requests))
	out := make([]RequestSpec, len(script.Requests))
	for i := range script.Requests {
		spec := sanitizeRequestSpec(script.Requests[i], i)
		if err := validateRequestSpec(spec); err != nil {
			return nil, fmt.Errorf("requests[%d]: %w", i, err)
		}
		if _, exists := seen[spec.Name]; exists {
			return nil, fmt.Errorf("duplicate request name %q", spec.Name)
		}
		seen[spec.Name] = struct{}{}
		out[i] = spec
	}
	return out, nil
}

// parseScript attempts to decode the requests file content.
func parseScript(data []byte, ext string) (scriptFile, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))
	decoders := []struct {
		name string
		ext  string
		fn   func([]byte, any) error
	}{
		{name: "yaml", ext: ".yaml", fn: yaml.Unmarshal},
		{name: "yaml", ext: ".yml", fn: yaml.Unmarshal},
		{name: "json", ext: ".json", fn: json.Unmarshal},
	}

	for _, d := range decoders {
		if ext != "" && ext != d.ext {
			continue
		}
		var script scriptFile
		if err := d.fn(data, &script); err == nil {
			return script, nil
		}
	}

	return scriptFile{}, errors.New("requests file format not recognized (expected YAML or JSON)")
}

// sanitizeRequestSpec trims fields and fills defaults.
func sanitizeRequestSpec(spec RequestSpec, idx int) RequestSpec {
	spec.Name = strings.TrimSpace(spec.Name)
	if spec.Name == "" {
		spec.Name = fmt.Sprintf("request-%d", idx+1)
	}
	spec.Method = strings.ToUpper(strings.TrimSpace(spec.Method))
	if spec.Method == "" {
		spec.Method = httpclient.MethodGet.String()
	}
	spec.Path = strings.TrimSpace(spec.Path)
	spec.URL = strings.TrimSpace(spec.URL)
	spec.ContentType = strings.TrimSpace(spec.ContentType)
	return spec
}

// validateRequestSpec checks that the method is supported and a target is present.
func validateRequestSpec(spec RequestSpec) error {
	if _, err := httpclient.ParseMethod(spec.Method); err != nil {
		return fmt.Errorf("request %q: %w", spec.Name, err)
	}
	if spec.URL == "" && spec.Path == "" {
		return fmt.Errorf("request %q needs a url or a path", spec.Name)
	}
	if spec.URL != "" && spec.Path != "" {
		return fmt.Errorf("request %q sets both url and path", spec.Name)
	}
	return nil
}

// Target resolves the request URL against the room server.
func (s RequestSpec) Target(roomServerURL string) string {
	if s.URL != "" {
		return s.URL
	}
	return strings.TrimRight(roomServerURL, "/") + "/" + strings.TrimLeft(s.Path, "/")
}

// Message returns the body bytes; nil when the script declared no body.
func (s RequestSpec) Message() []byte {
	if s.Body == nil {
		return nil
	}
	return []byte(*s.Body)
}
