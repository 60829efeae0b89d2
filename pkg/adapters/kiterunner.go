// pkg/adapters/kiterunner.go
package adapters

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cast"

	"github.com/reconmux/reconmux/pkg/schema"
)

// KiterunnerConfig holds configuration for a kr API brute-force run.
type KiterunnerConfig struct {
	Wordlists       []string
	Threads         int
	DelayMillis     int
	FailStatusCodes []int
	ExtraArgs       []string
}

// DefaultKiterunnerConfig returns polite brute-force defaults.
func DefaultKiterunnerConfig() KiterunnerConfig {
	return KiterunnerConfig{
		Wordlists:       []string{"routes-small.kite"},
		Threads:         5,
		DelayMillis:     0,
		FailStatusCodes: []int{400, 401, 404, 403, 501, 502, 426, 411},
	}
}

// KiterunnerConfigFromMap applies loosely-typed overrides on top of the
// defaults.
func KiterunnerConfigFromMap(overrides map[string]interface{}) KiterunnerConfig {
	cfg := DefaultKiterunnerConfig()
	if v, ok := overrides["wordlists"]; ok {
		cfg.Wordlists = cast.ToStringSlice(v)
	}
	if v, ok := overrides["threads"]; ok {
		cfg.Threads = cast.ToInt(v)
	}
	if v, ok := overrides["delay_ms"]; ok {
		cfg.DelayMillis = cast.ToInt(v)
	}
	if v, ok := overrides["fail_status_codes"]; ok {
		cfg.FailStatusCodes = cast.ToIntSlice(v)
	}
	if cfg.Threads < 1 {
		cfg.Threads = 1
	}
	return cfg
}

// krRecord is one result record from kr's JSON output, or the equivalent
// parsed from its plain-text "METHOD STATUS [LENGTH] URL" lines.
type krRecord struct {
	Method        string `json:"method"`
	URL           string `json:"url"`
	Path          string `json:"path"`
	StatusCode    int    `json:"status-code"`
	ContentLength int    `json:"content-length"`
}

// Kiterunner wraps the kr API route brute-forcer.
type Kiterunner struct {
	target string
	config KiterunnerConfig
	logger zerolog.Logger
}

// NewKiterunner builds a kr adapter for one target.
func NewKiterunner(target string, config KiterunnerConfig) *Kiterunner {
	return &Kiterunner{
		target: target,
		config: config,
		logger: log.With().Str("adapter", "kiterunner").Str("target", target).Logger(),
	}
}

// ToolName implements orchestrator.Adapter.
func (k *Kiterunner) ToolName() string { return "kiterunner" }

// Binary implements orchestrator.BinaryChecker.
func (k *Kiterunner) Binary() string { return "kr" }

func (k *Kiterunner) buildArgs() []string {
	cfg := k.config
	args := []string{"brute", k.target}
	for _, wl := range cfg.Wordlists {
		args = append(args, "-w", wl)
	}

	codes := make([]string, len(cfg.FailStatusCodes))
	for i, c := range cfg.FailStatusCodes {
		codes[i] = strconv.Itoa(c)
	}
	args = append(args,
		"-x", strconv.Itoa(cfg.Threads),
		"-j", strconv.Itoa(cfg.DelayMillis),
		"--fail-status-codes", strings.Join(codes, ","),
		"-o", "json",
	)
	return append(args, cfg.ExtraArgs...)
}

// Execute runs kr and returns parsed result records. JSON lines are
// preferred; plain-text lines are parsed as a fallback.
func (k *Kiterunner) Execute(ctx context.Context) (interface{}, error) {
	args := k.buildArgs()
	k.logger.Debug().Strs("args", args).Msg("running kr")

	output, err := runCommand(ctx, "kr", args...)
	if err != nil {
		return nil, err
	}

	var records []krRecord
	for _, line := range splitLines(output) {
		var rec krRecord
		if jsonErr := json.Unmarshal([]byte(line), &rec); jsonErr == nil && rec.URL != "" {
			records = append(records, rec)
			continue
		}
		if rec, ok := parseKrTextLine(line); ok {
			records = append(records, rec)
		}
	}

	k.logger.Info().Int("routes", len(records)).Msg("kr brute force finished")
	return records, nil
}

// parseKrTextLine parses kr's plain-text output format, where tokens can
// appear in varying order: method, status code, and the URL.
func parseKrTextLine(line string) (krRecord, bool) {
	rec := krRecord{Method: "GET"}
	for _, part := range strings.Fields(line) {
		switch {
		case strings.HasPrefix(part, "http"):
			rec.URL = part
		case isStatusCode(part):
			rec.StatusCode, _ = strconv.Atoi(part)
		case isHTTPMethod(part):
			rec.Method = strings.ToUpper(part)
		}
	}
	return rec, rec.URL != ""
}

func isStatusCode(s string) bool {
	n, err := strconv.Atoi(s)
	return err == nil && n >= 100 && n < 600
}

func isHTTPMethod(s string) bool {
	switch strings.ToUpper(s) {
	case "GET", "POST", "PUT", "DELETE", "PATCH", "HEAD", "OPTIONS":
		return true
	default:
		return false
	}
}

// Normalize converts kr records into a ReconResult. Discovered API routes
// are tagged api-brute; a status below 500 counts as confirmation of
// liveness.
func (k *Kiterunner) Normalize(raw interface{}) *schema.ReconResult {
	result := schema.NewResult(k.ToolName(), k.target)
	records, ok := raw.([]krRecord)
	if !ok {
		return result
	}

	seen := make(map[string]struct{}, len(records))
	for _, rec := range records {
		if rec.URL == "" {
			continue
		}
		if _, dup := seen[rec.URL]; dup {
			continue
		}
		seen[rec.URL] = struct{}{}

		ep := schema.NewEndpoint(rec.URL)
		ep.Method = schema.ParseMethod(rec.Method)
		ep.StatusCode = rec.StatusCode
		ep.IsLive = rec.StatusCode > 0 && rec.StatusCode < 500
		ep.DiscoveredBy = "kiterunner"
		ep.Tags = []string{"api-brute", "kiterunner", "api"}
		ep.Extra = map[string]interface{}{"source": "kiterunner"}
		if rec.ContentLength > 0 {
			ep.Extra["content_length"] = rec.ContentLength
		}
		if rec.Path != "" {
			ep.Extra["path"] = rec.Path
		}
		result.Endpoints = append(result.Endpoints, ep)
	}
	return result
}
