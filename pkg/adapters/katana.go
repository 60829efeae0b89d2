// pkg/adapters/katana.go
package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cast"

	"github.com/reconmux/reconmux/pkg/schema"
)

// KatanaConfig holds configuration for a katana crawl. Defaults avoid
// aggressive scanning while still giving broad endpoint coverage.
type KatanaConfig struct {
	Depth             int               // crawl depth (1-5)
	MaxURLs           int               // total URL cap
	JSCrawl           bool              // headless JS rendering (requires Chrome)
	ExtractForms      bool              // extract HTML forms
	RateLimit         int               // requests per second passed to -rl
	Concurrency       int               // parallel crawlers
	TimeoutSeconds    int               // per-request timeout
	ScopeDomains      []string          // restrict crawl scope
	ExcludeExtensions []string          // static extensions filtered out
	CustomHeaders     map[string]string // extra request headers
	Proxy             string
	ExtraArgs         []string
}

// DefaultKatanaConfig returns the safe crawl defaults.
func DefaultKatanaConfig() KatanaConfig {
	return KatanaConfig{
		Depth:          3,
		MaxURLs:        500,
		ExtractForms:   true,
		RateLimit:      100,
		Concurrency:    10,
		TimeoutSeconds: 10,
		ExcludeExtensions: []string{
			"png", "jpg", "jpeg", "gif", "svg", "ico", "woff", "woff2",
			"ttf", "eot", "otf", "mp4", "mp3", "pdf", "zip", "tar", "gz",
		},
	}
}

// KatanaConfigFromMap applies loosely-typed overrides (from a scan plan or
// API payload) on top of the defaults.
func KatanaConfigFromMap(overrides map[string]interface{}) KatanaConfig {
	cfg := DefaultKatanaConfig()
	if v, ok := overrides["depth"]; ok {
		cfg.Depth = cast.ToInt(v)
	}
	if v, ok := overrides["max_urls"]; ok {
		cfg.MaxURLs = cast.ToInt(v)
	}
	if v, ok := overrides["js_crawl"]; ok {
		cfg.JSCrawl = cast.ToBool(v)
	}
	if v, ok := overrides["extract_forms"]; ok {
		cfg.ExtractForms = cast.ToBool(v)
	}
	if v, ok := overrides["rate_limit"]; ok {
		cfg.RateLimit = cast.ToInt(v)
	}
	if v, ok := overrides["concurrency"]; ok {
		cfg.Concurrency = cast.ToInt(v)
	}
	if v, ok := overrides["timeout"]; ok {
		cfg.TimeoutSeconds = cast.ToInt(v)
	}
	if v, ok := overrides["scope_domains"]; ok {
		cfg.ScopeDomains = cast.ToStringSlice(v)
	}
	if v, ok := overrides["proxy"]; ok {
		cfg.Proxy = cast.ToString(v)
	}
	if cfg.Depth < 1 {
		cfg.Depth = 1
	}
	if cfg.MaxURLs < 1 {
		cfg.MaxURLs = 1
	}
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	return cfg
}

// katanaRecord is one JSON-lines record from katana's -j output.
type katanaRecord struct {
	URL     string `json:"url"`
	Depth   int    `json:"depth"`
	Request struct {
		Method   string `json:"method"`
		Endpoint string `json:"endpoint"`
	} `json:"request"`
	Response struct {
		StatusCode int                      `json:"status_code"`
		Forms      []map[string]interface{} `json:"forms"`
	} `json:"response"`
}

func (r katanaRecord) endpoint() string {
	if r.Request.Endpoint != "" {
		return r.Request.Endpoint
	}
	return r.URL
}

// Katana wraps the katana web crawler.
type Katana struct {
	target string
	config KatanaConfig
	logger zerolog.Logger
}

// NewKatana builds a katana adapter for one target.
func NewKatana(target string, config KatanaConfig) *Katana {
	return &Katana{
		target: target,
		config: config,
		logger: log.With().Str("adapter", "katana").Str("target", target).Logger(),
	}
}

// ToolName implements orchestrator.Adapter.
func (k *Katana) ToolName() string { return "katana" }

// Binary implements orchestrator.BinaryChecker.
func (k *Katana) Binary() string { return "katana" }

func (k *Katana) buildArgs() []string {
	cfg := k.config
	args := []string{
		"-u", k.target,
		"-d", strconv.Itoa(cfg.Depth),
		"-c", strconv.Itoa(cfg.Concurrency),
		"-rl", strconv.Itoa(cfg.RateLimit),
		"-timeout", strconv.Itoa(cfg.TimeoutSeconds),
		"-j",
		"-silent",
		"-no-color",
	}
	if cfg.JSCrawl {
		args = append(args, "-headless", "-jsl")
	}
	if cfg.ExtractForms {
		args = append(args, "-ef")
	}
	if len(cfg.ExcludeExtensions) > 0 {
		args = append(args, "-extension-filter", strings.Join(cfg.ExcludeExtensions, ","))
	}
	for _, domain := range cfg.ScopeDomains {
		args = append(args, "-scope", domain)
	}
	for key, val := range cfg.CustomHeaders {
		args = append(args, "-H", fmt.Sprintf("%s: %s", key, val))
	}
	if cfg.Proxy != "" {
		args = append(args, "-proxy", cfg.Proxy)
	}
	return append(args, cfg.ExtraArgs...)
}

// Execute runs katana and returns the parsed JSON-lines records, capped at
// MaxURLs unique URLs. Plain-URL lines from non-JSON output are accepted
// too.
func (k *Katana) Execute(ctx context.Context) (interface{}, error) {
	args := k.buildArgs()
	k.logger.Debug().Strs("args", args).Msg("running katana")

	output, err := runCommand(ctx, "katana", args...)
	if err != nil {
		return nil, err
	}

	var records []katanaRecord
	seen := make(map[string]struct{})
	for _, line := range splitLines(output) {
		if len(records) >= k.config.MaxURLs {
			break
		}
		var rec katanaRecord
		if jsonErr := json.Unmarshal([]byte(line), &rec); jsonErr != nil {
			if !strings.HasPrefix(line, "http") {
				continue
			}
			rec = katanaRecord{URL: line}
		}
		u := rec.endpoint()
		if u == "" {
			continue
		}
		if _, dup := seen[u]; dup {
			continue
		}
		seen[u] = struct{}{}
		records = append(records, rec)
	}

	k.logger.Info().Int("urls", len(records)).Msg("katana crawl finished")
	return records, nil
}

// Normalize converts katana records into a ReconResult. Nil or foreign raw
// input yields an empty, well-formed result.
func (k *Katana) Normalize(raw interface{}) *schema.ReconResult {
	result := schema.NewResult(k.ToolName(), k.target)
	records, ok := raw.([]katanaRecord)
	if !ok {
		return result
	}

	for _, rec := range records {
		u := rec.endpoint()
		if u == "" || !k.inScope(u) {
			continue
		}

		params := extractParameters(u)
		ep := schema.NewEndpoint(u)
		ep.Method = schema.ParseMethod(rec.Request.Method)
		ep.StatusCode = rec.Response.StatusCode
		if params != nil {
			ep.Parameters = params
		}
		ep.DiscoveredBy = "katana"
		ep.Tags = []string{"web-crawl", "katana"}
		ep.Extra = map[string]interface{}{
			"source": "katana",
			"depth":  rec.Depth,
		}
		if len(rec.Response.Forms) > 0 {
			ep.Extra["forms"] = rec.Response.Forms
		}
		result.Endpoints = append(result.Endpoints, ep)
	}
	return result
}

// inScope enforces the configured scope domains against a URL's host.
func (k *Katana) inScope(rawURL string) bool {
	if len(k.config.ScopeDomains) == 0 {
		return true
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return true
	}
	host := u.Hostname()
	for _, domain := range k.config.ScopeDomains {
		if host == domain || strings.HasSuffix(host, "."+domain) {
			return true
		}
	}
	return false
}
