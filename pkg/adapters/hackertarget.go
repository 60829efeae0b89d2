// pkg/adapters/hackertarget.go
package adapters

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cast"

	"github.com/reconmux/reconmux/pkg/ratelimit"
	"github.com/reconmux/reconmux/pkg/schema"
	"github.com/reconmux/reconmux/pkg/target"
)

// errHackerTargetThrottled marks an upstream 429/5xx worth retrying.
var errHackerTargetThrottled = errors.New("hackertarget: upstream throttled")

// HackerTargetConfig holds configuration for the passive HackerTarget
// hostsearch API.
type HackerTargetConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
	Retry   ratelimit.RetryConfig

	// Limiter throttles individual API requests. Nil disables
	// per-request throttling (the orchestrator still admission-controls
	// the run itself).
	Limiter *ratelimit.TokenBucket
}

// DefaultHackerTargetConfig returns free-tier-friendly defaults.
func DefaultHackerTargetConfig() HackerTargetConfig {
	retry := ratelimit.DefaultRetryConfig()
	retry.Retryable = func(err error) bool {
		return errors.Is(err, errHackerTargetThrottled)
	}
	return HackerTargetConfig{
		BaseURL: "https://api.hackertarget.com",
		Timeout: 30 * time.Second,
		Retry:   retry,
	}
}

// HackerTargetConfigFromMap applies loosely-typed overrides on top of the
// defaults.
func HackerTargetConfigFromMap(overrides map[string]interface{}) HackerTargetConfig {
	cfg := DefaultHackerTargetConfig()
	if v, ok := overrides["base_url"]; ok {
		cfg.BaseURL = cast.ToString(v)
	}
	if v, ok := overrides["api_key"]; ok {
		cfg.APIKey = cast.ToString(v)
	}
	if v, ok := overrides["timeout"]; ok {
		if d, err := time.ParseDuration(cast.ToString(v)); err == nil {
			cfg.Timeout = d
		}
	}
	return cfg
}

// hostRecord is one subdomain,ip pair from the hostsearch response.
type hostRecord struct {
	Host string
	IP   string
}

// HackerTarget wraps the passive HackerTarget intelligence API. Unlike the
// subprocess adapters it issues HTTP requests directly, so it throttles
// and retries each request itself.
type HackerTarget struct {
	target string
	config HackerTargetConfig
	client *http.Client
	logger zerolog.Logger
}

// NewHackerTarget builds a hackertarget adapter for one target domain.
func NewHackerTarget(rawTarget string, config HackerTargetConfig) *HackerTarget {
	return &HackerTarget{
		target: rawTarget,
		config: config,
		client: &http.Client{Timeout: config.Timeout},
		logger: log.With().Str("adapter", "hackertarget").Str("target", rawTarget).Logger(),
	}
}

// ToolName implements orchestrator.Adapter.
func (h *HackerTarget) ToolName() string { return "hackertarget" }

// Execute queries the hostsearch endpoint and returns parsed host records.
// Requests are rate limited and retried on upstream throttling.
func (h *HackerTarget) Execute(ctx context.Context) (interface{}, error) {
	domain := target.Host(h.target)

	return ratelimit.Retry(ctx, h.config.Retry, "hackertarget.hostsearch",
		func(ctx context.Context) ([]hostRecord, error) {
			if h.config.Limiter != nil {
				if err := h.config.Limiter.Acquire(ctx, 1); err != nil {
					return nil, err
				}
			}
			return h.hostSearch(ctx, domain)
		})
}

func (h *HackerTarget) hostSearch(ctx context.Context, domain string) ([]hostRecord, error) {
	query := url.Values{"q": []string{domain}}
	if h.config.APIKey != "" {
		query.Set("apikey", h.config.APIKey)
	}
	endpoint := fmt.Sprintf("%s/hostsearch/?%s", strings.TrimRight(h.config.BaseURL, "/"), query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := h.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, fmt.Errorf("%w: status %d", errHackerTargetThrottled, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("hackertarget: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, err
	}

	text := strings.TrimSpace(string(body))
	// The API reports quota errors as a 200 with an error body.
	if strings.Contains(strings.ToLower(text), "error") {
		return nil, fmt.Errorf("hackertarget: api error: %s", firstLine(text))
	}

	var records []hostRecord
	for _, line := range strings.Split(text, "\n") {
		host, ip, found := strings.Cut(strings.TrimSpace(line), ",")
		if !found {
			continue
		}
		host = strings.ToLower(strings.TrimSpace(host))
		if host == "" || !strings.HasSuffix(host, domain) {
			continue
		}
		records = append(records, hostRecord{Host: host, IP: strings.TrimSpace(ip)})
	}

	h.logger.Info().Int("hosts", len(records)).Msg("hackertarget hostsearch finished")
	return records, nil
}

// Normalize converts host records into a ReconResult: one endpoint per
// discovered host. Passive results are not liveness-confirmed.
func (h *HackerTarget) Normalize(raw interface{}) *schema.ReconResult {
	result := schema.NewResult(h.ToolName(), h.target)
	records, ok := raw.([]hostRecord)
	if !ok {
		return result
	}

	seen := make(map[string]struct{}, len(records))
	for _, rec := range records {
		if _, dup := seen[rec.Host]; dup {
			continue
		}
		seen[rec.Host] = struct{}{}

		ep := schema.NewEndpoint("https://" + rec.Host + "/")
		ep.Method = schema.MethodGet
		ep.IsLive = false
		ep.DiscoveredBy = "hackertarget"
		ep.Tags = []string{"passive", "subdomain", "hackertarget"}
		ep.Extra = map[string]interface{}{"source": "hackertarget"}
		if rec.IP != "" {
			ep.Extra["ip"] = rec.IP
		}
		result.Endpoints = append(result.Endpoints, ep)
	}
	return result
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
