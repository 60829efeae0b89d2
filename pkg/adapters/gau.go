// pkg/adapters/gau.go
package adapters

import (
	"context"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cast"

	"github.com/reconmux/reconmux/pkg/schema"
	"github.com/reconmux/reconmux/pkg/target"
)

// gauProviders are the upstream archives gau can query.
var gauProviders = []string{"wayback", "commoncrawl", "otx", "urlscan"}

// GAUConfig holds configuration for a gau (Get All URLs) run.
type GAUConfig struct {
	Providers         []string // enabled providers; others are blacklisted
	MaxURLs           int
	IncludeSubdomains bool
	Threads           int
	Retries           int
	ExtraArgs         []string
}

// DefaultGAUConfig enables all four providers with a generous URL cap.
func DefaultGAUConfig() GAUConfig {
	return GAUConfig{
		Providers:         append([]string(nil), gauProviders...),
		MaxURLs:           1000,
		IncludeSubdomains: true,
		Threads:           5,
		Retries:           2,
	}
}

// GAUConfigFromMap applies loosely-typed overrides on top of the defaults.
func GAUConfigFromMap(overrides map[string]interface{}) GAUConfig {
	cfg := DefaultGAUConfig()
	if v, ok := overrides["providers"]; ok {
		cfg.Providers = cast.ToStringSlice(v)
	}
	if v, ok := overrides["max_urls"]; ok {
		cfg.MaxURLs = cast.ToInt(v)
	}
	if v, ok := overrides["include_subdomains"]; ok {
		cfg.IncludeSubdomains = cast.ToBool(v)
	}
	if v, ok := overrides["threads"]; ok {
		cfg.Threads = cast.ToInt(v)
	}
	if v, ok := overrides["retries"]; ok {
		cfg.Retries = cast.ToInt(v)
	}
	if cfg.MaxURLs < 1 {
		cfg.MaxURLs = 1
	}
	if cfg.Threads < 1 {
		cfg.Threads = 1
	}
	return cfg
}

// GAU wraps the gau historical-URL fetcher. It queries archive providers
// (Wayback Machine, Common Crawl, OTX, URLScan) for URLs seen on the
// target in the past; discovered endpoints are therefore not assumed live.
type GAU struct {
	target string
	config GAUConfig
	logger zerolog.Logger
}

// NewGAU builds a gau adapter for one target.
func NewGAU(rawTarget string, config GAUConfig) *GAU {
	return &GAU{
		target: rawTarget,
		config: config,
		logger: log.With().Str("adapter", "gau").Str("target", rawTarget).Logger(),
	}
}

// ToolName implements orchestrator.Adapter.
func (g *GAU) ToolName() string { return "gau" }

// Binary implements orchestrator.BinaryChecker.
func (g *GAU) Binary() string { return "gau" }

func (g *GAU) buildArgs() []string {
	cfg := g.config

	enabled := make(map[string]struct{}, len(cfg.Providers))
	for _, p := range cfg.Providers {
		enabled[p] = struct{}{}
	}
	var args []string
	for _, p := range gauProviders {
		if _, ok := enabled[p]; !ok {
			args = append(args, "--blacklist", p)
		}
	}

	args = append(args,
		"--threads", strconv.Itoa(cfg.Threads),
		"--retries", strconv.Itoa(cfg.Retries),
	)
	if cfg.IncludeSubdomains {
		args = append(args, "--subs")
	}
	args = append(args, cfg.ExtraArgs...)

	// gau wants a bare domain even when the caller supplied a URL.
	return append(args, target.Host(g.target))
}

// Execute runs gau and returns the deduplicated URL lines, capped at
// MaxURLs.
func (g *GAU) Execute(ctx context.Context) (interface{}, error) {
	args := g.buildArgs()
	g.logger.Debug().Strs("args", args).Msg("running gau")

	output, err := runCommand(ctx, "gau", args...)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var urls []string
	for _, line := range splitLines(output) {
		if len(urls) >= g.config.MaxURLs {
			break
		}
		if _, dup := seen[line]; dup {
			continue
		}
		seen[line] = struct{}{}
		urls = append(urls, line)
	}

	g.logger.Info().Int("urls", len(urls)).Msg("gau fetch finished")
	return urls, nil
}

// Normalize converts URL lines into a ReconResult. Historical URLs carry
// method GET and is_live=false: presence in an archive proves past
// existence, not current liveness.
func (g *GAU) Normalize(raw interface{}) *schema.ReconResult {
	result := schema.NewResult(g.ToolName(), g.target)
	urls, ok := raw.([]string)
	if !ok {
		return result
	}

	for _, u := range urls {
		params := extractParameters(u)
		ep := schema.NewEndpoint(u)
		ep.Method = schema.MethodGet
		ep.IsLive = false
		if params != nil {
			ep.Parameters = params
		}
		ep.DiscoveredBy = "gau"
		ep.Tags = []string{"historical", "gau"}
		ep.Extra = map[string]interface{}{"source": "gau"}
		result.Endpoints = append(result.Endpoints, ep)
	}
	return result
}
