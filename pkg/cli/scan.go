// pkg/cli/scan.go
// Package cli provides CLI commands for the application.
package cli

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/reconmux/reconmux/pkg/adapters"
	"github.com/reconmux/reconmux/pkg/config"
	"github.com/reconmux/reconmux/pkg/dedup"
	"github.com/reconmux/reconmux/pkg/logging"
	"github.com/reconmux/reconmux/pkg/metrics"
	"github.com/reconmux/reconmux/pkg/orchestrator"
	"github.com/reconmux/reconmux/pkg/ratelimit"
	"github.com/reconmux/reconmux/pkg/schema"
	"github.com/reconmux/reconmux/pkg/urlmerge"
)

// Flags for the scan command.
var (
	scanConfigFile   string
	scanPlanFile     string
	scanTools        []string
	scanProjectID    string
	scanOutputFormat string
)

// ScanCmd runs recon tools against targets, normalizes their output and
// prints the merged, deduplicated discoveries.
var ScanCmd = &cobra.Command{
	Use:   "scan [targets...]",
	Short: "Run recon tools against targets and merge their discoveries",
	Long: `Runs the selected recon tools (crawler, historical URL fetcher, API
brute-forcer, passive intel, ICMP probe) against each target, normalizes every
tool's output into the canonical result schema, then merges and deduplicates
overlapping discoveries with confidence scoring.

Targets come from the command line or from a YAML scan plan (--plan).`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr := config.NewManager()
		if err := mgr.Load(cmd.Flags(), scanConfigFile); err != nil {
			return err
		}
		cfg := mgr.Current()
		logging.ConfigureGlobal(logging.Options{
			Level:  cfg.Log.Level,
			Format: cfg.Log.Format,
			File:   cfg.Log.File,
		})

		plan, err := resolvePlan(args)
		if err != nil {
			return err
		}

		registry, err := mgr.BuildRegistry()
		if err != nil {
			return err
		}

		output, err := runScan(cmd, plan, cfg, registry)
		if err != nil {
			return err
		}

		switch strings.ToLower(scanOutputFormat) {
		case "json":
			data, err := json.MarshalIndent(output, "", "  ")
			if err != nil {
				return fmt.Errorf("marshalling output: %w", err)
			}
			fmt.Println(string(data))
		default:
			if scanOutputFormat != "" && !strings.EqualFold(scanOutputFormat, "text") {
				log.Warn().Str("format", scanOutputFormat).Msg("unknown output format, defaulting to text")
			}
			printScanText(output)
		}
		return nil
	},
}

// resolvePlan builds the scan plan from --plan or from CLI args + --tools.
func resolvePlan(args []string) (*Plan, error) {
	if scanPlanFile != "" {
		plan, err := LoadPlan(scanPlanFile)
		if err != nil {
			return nil, err
		}
		if len(args) > 0 {
			plan.Targets = append(plan.Targets, args...)
		}
		return plan, nil
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("no targets: pass targets as arguments or use --plan")
	}
	plan := DefaultPlan(args, scanTools)
	if err := plan.Validate(); err != nil {
		return nil, err
	}
	return plan, nil
}

// ScanOutput is the structured result of one scan command invocation.
type ScanOutput struct {
	GeneratedAt  time.Time           `json:"generated_at"`
	Targets      []string            `json:"targets"`
	ToolRuns     []ToolRunSummary    `json:"tool_runs"`
	Endpoints    []schema.Endpoint   `json:"endpoints"`
	Technologies []schema.Technology `json:"technologies"`
	Findings     []schema.Finding    `json:"findings"`
	MergeStats   urlmerge.Stats      `json:"merge_stats"`
}

// ToolRunSummary is the per-invocation execution record shown to the user.
type ToolRunSummary struct {
	Tool            string  `json:"tool"`
	Target          string  `json:"target"`
	Success         bool    `json:"success"`
	Endpoints       int     `json:"endpoints"`
	DurationSeconds float64 `json:"duration_seconds"`
	Error           string  `json:"error,omitempty"`
}

// runScan executes the plan: one orchestration per target/tool pair, then
// the merge and dedup passes over the collected results.
func runScan(cmd *cobra.Command, plan *Plan, cfg config.Config, registry *ratelimit.Registry) (*ScanOutput, error) {
	logger := log.With().Str("command", "scan").Logger()
	logger.Info().Strs("targets", plan.Targets).Int("tools", len(plan.Tools)).Msg("starting scan")

	projectID := scanProjectID
	if projectID == "" {
		projectID = plan.ProjectID
	}

	collector := metrics.NewCollector()
	retry := ratelimit.RetryConfig{
		MaxAttempts:   cfg.Scan.Retry.MaxAttempts,
		BaseDelay:     cfg.Scan.Retry.BaseDelay,
		MaxDelay:      cfg.Scan.Retry.MaxDelay,
		BackoffFactor: cfg.Scan.Retry.BackoffFactor,
		Jitter:        cfg.Scan.Retry.Jitter,
	}

	var orchs []*orchestrator.Orchestrator
	for _, tgt := range plan.Targets {
		for _, tool := range plan.Tools {
			adapter, err := buildAdapter(tool, tgt, retry, registry)
			if err != nil {
				return nil, err
			}
			orchs = append(orchs, orchestrator.New(adapter, tgt, orchestrator.Options{
				ProjectID: projectID,
				TaskID:    uuid.NewString(),
				Timeout:   cfg.Scan.AdapterTimeout,
				Limits:    registry,
				Metrics:   collector,
			}))
		}
	}

	runner := orchestrator.NewRunner(cfg.Scan.MaxConcurrentTargets)
	results := runner.RunAll(cmd.Context(), orchs)

	merger := urlmerge.NewMerger()
	for _, res := range results {
		merger.Add(res.Endpoints, res.ToolName)
	}
	merged := merger.Merge()
	stats := merger.Stats()

	svc, err := dedup.NewService(cfg.Scan.FuzzyThreshold)
	if err != nil {
		return nil, err
	}
	endpoints := svc.Endpoints(merged)

	var technologies []schema.Technology
	var findings []schema.Finding
	for _, res := range results {
		technologies = append(technologies, res.Technologies...)
		findings = append(findings, res.Findings...)
	}
	technologies = svc.Technologies(technologies)
	findings = svc.Findings(findings)

	output := &ScanOutput{
		GeneratedAt:  time.Now(),
		Targets:      plan.Targets,
		Endpoints:    endpoints,
		Technologies: technologies,
		Findings:     findings,
		MergeStats:   stats,
	}
	for _, res := range results {
		output.ToolRuns = append(output.ToolRuns, ToolRunSummary{
			Tool:            res.ToolName,
			Target:          res.Target,
			Success:         res.Success,
			Endpoints:       res.EndpointCount(),
			DurationSeconds: res.DurationSeconds,
			Error:           res.ErrorMessage,
		})
	}

	collector.Emit(logging.Component("metrics"))
	return output, nil
}

// knownTool reports whether a tool name has an adapter.
func knownTool(name string) bool {
	switch name {
	case "katana", "gau", "kiterunner", "hackertarget", "pingprobe":
		return true
	default:
		return false
	}
}

// buildAdapter constructs the adapter for one tool/target pair with plan
// options applied on top of the adapter defaults.
func buildAdapter(tool ToolPlan, target string, retry ratelimit.RetryConfig, registry *ratelimit.Registry) (orchestrator.Adapter, error) {
	switch tool.Name {
	case "katana":
		return adapters.NewKatana(target, adapters.KatanaConfigFromMap(tool.Options)), nil
	case "gau":
		return adapters.NewGAU(target, adapters.GAUConfigFromMap(tool.Options)), nil
	case "kiterunner":
		return adapters.NewKiterunner(target, adapters.KiterunnerConfigFromMap(tool.Options)), nil
	case "hackertarget":
		cfg := adapters.HackerTargetConfigFromMap(tool.Options)
		cfg.Retry.MaxAttempts = retry.MaxAttempts
		cfg.Retry.BaseDelay = retry.BaseDelay
		cfg.Retry.MaxDelay = retry.MaxDelay
		cfg.Retry.BackoffFactor = retry.BackoffFactor
		cfg.Retry.Jitter = retry.Jitter
		cfg.Limiter = registry.Get("hackertarget")
		return adapters.NewHackerTarget(target, cfg), nil
	case "pingprobe":
		return adapters.NewPingProbe(target, adapters.PingProbeConfigFromMap(tool.Options)), nil
	default:
		return nil, fmt.Errorf("unknown tool %q", tool.Name)
	}
}

// printScanText renders the human-readable summary.
func printScanText(output *ScanOutput) {
	header := color.New(color.FgCyan, color.Bold)
	okColor := color.New(color.FgGreen)
	failColor := color.New(color.FgRed)

	header.Println("\nScan Results")
	fmt.Printf("  Generated: %s\n", output.GeneratedAt.Format(time.RFC3339))
	fmt.Printf("  Targets:   %s\n", strings.Join(output.Targets, ", "))

	fmt.Println("\n  Tool runs:")
	for _, run := range output.ToolRuns {
		status := okColor.Sprint("ok")
		if !run.Success {
			status = failColor.Sprintf("failed: %s", run.Error)
		}
		fmt.Printf("    - %-12s %-30s %4d endpoints  %6.1fs  %s\n",
			run.Tool, run.Target, run.Endpoints, run.DurationSeconds, status)
	}

	fmt.Printf("\n  Unique URLs: %d\n", output.MergeStats.TotalUniqueURLs)
	if len(output.MergeStats.ByCategory) > 0 {
		fmt.Println("  By category:")
		for _, cat := range urlmerge.Categories() {
			if n := output.MergeStats.ByCategory[cat]; n > 0 {
				fmt.Printf("    %-10s %d\n", cat, n)
			}
		}
	}

	if len(output.Endpoints) > 0 {
		fmt.Println("\n  Top endpoints:")
		limit := len(output.Endpoints)
		if limit > 25 {
			limit = 25
		}
		for _, ep := range output.Endpoints[:limit] {
			fmt.Printf("    %.2f  %-7s %s\n", ep.Confidence, ep.Method, ep.URL)
		}
		if len(output.Endpoints) > limit {
			fmt.Printf("    ... and %d more (use -o json for the full list)\n", len(output.Endpoints)-limit)
		}
	}

	if len(output.Findings) > 0 {
		fmt.Println("\n  Findings:")
		for _, f := range output.Findings {
			fmt.Printf("    [%s] %s %s\n", f.Severity, f.Name, f.URL)
		}
	}
	fmt.Println()
}

func init() {
	ScanCmd.Flags().StringVar(&scanConfigFile, "config", "", "Path to a YAML config file")
	ScanCmd.Flags().StringVar(&scanPlanFile, "plan", "", "Path to a YAML scan plan")
	ScanCmd.Flags().StringSliceVar(&scanTools, "tools", []string{"katana", "gau"}, "Tools to run when no plan file is given")
	ScanCmd.Flags().StringVar(&scanProjectID, "project-id", "", "Project ID stamped onto every result")
	ScanCmd.Flags().StringVarP(&scanOutputFormat, "output", "o", "text", "Output format: text, json")

	// Dotted flags overlay the matching config keys.
	ScanCmd.Flags().String("log.level", "", "Log level (debug, info, warn, error)")
	ScanCmd.Flags().String("log.format", "", "Log format (console, json)")
	ScanCmd.Flags().Int("scan.max_concurrent_targets", 0, "Max orchestrations running side by side")
	ScanCmd.Flags().Float64("scan.fuzzy_threshold", 0, "Similarity cutoff for endpoint fuzzy dedup")
	ScanCmd.Flags().Duration("scan.adapter_timeout", 0, "Per-adapter timeout (0 disables)")
}
