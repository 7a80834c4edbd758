package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/samvad-hq/room-signal/internal/config"
	"github.com/samvad-hq/room-signal/internal/logger"
	"github.com/samvad-hq/room-signal/pkg/httpclient"
)

// Outcome pairs a scripted request with the result it produced.
type Outcome struct {
	Name   string
	Method string
	URL    string
	Result httpclient.Result
}

// Probe fires scripted signaling requests at the room server and reports each outcome.
type Probe struct {
	cfg      *config.Config
	requests []RequestSpec
	log      logger.Logger
	opts     []httpclient.Option
}

// NewProbe builds a probe runtime from config. Without a requests file the
// probe issues a single GET to the room server.
func NewProbe(cfg *config.Config, log logger.Logger) (*Probe, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = &logger.NopLogger{}
	}

	requests := []RequestSpec{{Name: "room-server", Method: httpclient.MethodGet.String(), URL: cfg.RoomServerURL}}
	if cfg.RequestsFile != "" {
		loaded, err := LoadScript(cfg.RequestsFile)
		if err != nil {
			return nil, fmt.Errorf("load requests script: %w", err)
		}
		requests = loaded
	}

	names := make([]string, 0, len(requests))
	for _, r := range requests {
		names = append(names, r.Name)
	}
	log.InfoObj("requests script loaded", "requests_meta", map[string]any{
		"count": len(names),
		"names": names,
		"file":  cfg.RequestsFile,
	})

	return &Probe{
		cfg:      cfg,
		requests: requests,
		log:      log,
		opts:     []httpclient.Option{httpclient.WithLogger(log)},
	}, nil
}

// Run sends every request at once and waits for all outcomes or ctx.
// Failed requests are joined into the returned error.
func (p *Probe) Run(ctx context.Context) ([]Outcome, error) {
	if p == nil || len(p.requests) == 0 {
		return nil, fmt.Errorf("probe is not initialized")
	}

	start := time.Now()
	pending := make([]*httpclient.ResultChan, len(p.requests))
	outcomes := make([]Outcome, len(p.requests))
	for i, spec := range p.requests {
		method, err := httpclient.ParseMethod(spec.Method)
		if err != nil {
			return nil, fmt.Errorf("request %q: %w", spec.Name, err)
		}
		target := spec.Target(p.cfg.RoomServerURL)

		rc := httpclient.NewResultChan()
		conn := httpclient.NewAsyncConnection(method, target, spec.Message(), rc, p.opts...)
		if spec.ContentType != "" {
			conn.SetContentType(spec.ContentType)
		}
		conn.Send()

		pending[i] = rc
		outcomes[i] = Outcome{Name: spec.Name, Method: method.String(), URL: target}
	}

	var errs []error
	for i, rc := range pending {
		res, err := rc.Wait(ctx)
		if err != nil {
			p.log.WarnObj("probe interrupted", "reason", err)
			return outcomes[:i], err
		}
		outcomes[i].Result = res
		if res.OK() {
			p.log.InfoObj("signaling request succeeded", "request_result", map[string]any{
				"name":           outcomes[i].Name,
				"url":            outcomes[i].URL,
				"response_bytes": len(res.Body),
			})
			continue
		}
		errs = append(errs, fmt.Errorf("%s: %s", outcomes[i].Name, res.Err))
		p.log.ErrorObj("signaling request failed", "request_result", map[string]any{
			"name":  outcomes[i].Name,
			"url":   outcomes[i].URL,
			"error": res.Err,
		})
	}

	p.log.InfoObj("probe completed", "probe_meta", map[string]any{
		"requests_count": len(outcomes),
		"failed_count":   len(errs),
		"elapsed_ms":     time.Since(start).Milliseconds(),
	})
	return outcomes, errors.Join(errs...)
}
