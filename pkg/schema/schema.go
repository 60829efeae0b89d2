// pkg/schema/schema.go
// Package schema defines the canonical result model shared by every tool
// adapter. All raw tool output is normalized into these types before it is
// handed to callers, merged, or serialized.
package schema

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Severity is the normalized severity scale used across all tool outputs.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
	SeverityInfo     Severity = "info"
	SeverityUnknown  Severity = "unknown"
)

// ParseSeverity maps a free-form severity string to a Severity, defaulting
// to SeverityUnknown for anything unrecognized.
func ParseSeverity(s string) Severity {
	switch Severity(normalizeToken(s)) {
	case SeverityCritical:
		return SeverityCritical
	case SeverityHigh:
		return SeverityHigh
	case SeverityMedium:
		return SeverityMedium
	case SeverityLow:
		return SeverityLow
	case SeverityInfo:
		return SeverityInfo
	default:
		return SeverityUnknown
	}
}

// Method is the HTTP method associated with a discovered endpoint.
type Method string

const (
	MethodGet     Method = "GET"
	MethodPost    Method = "POST"
	MethodPut     Method = "PUT"
	MethodPatch   Method = "PATCH"
	MethodDelete  Method = "DELETE"
	MethodHead    Method = "HEAD"
	MethodOptions Method = "OPTIONS"
	MethodUnknown Method = "UNKNOWN"
)

// ParseMethod maps a free-form method string to a Method, defaulting to
// MethodUnknown for anything unrecognized.
func ParseMethod(s string) Method {
	switch Method(upperToken(s)) {
	case MethodGet:
		return MethodGet
	case MethodPost:
		return MethodPost
	case MethodPut:
		return MethodPut
	case MethodPatch:
		return MethodPatch
	case MethodDelete:
		return MethodDelete
	case MethodHead:
		return MethodHead
	case MethodOptions:
		return MethodOptions
	default:
		return MethodUnknown
	}
}

// Endpoint is a discovered HTTP(S) or TCP resource.
//
// Populated by crawler, historical-URL and brute-force adapters. The Extra
// map carries tool-specific metadata that the canonical schema does not
// model; core logic never depends on its contents.
type Endpoint struct {
	URL          string                 `json:"url" validate:"required"`
	Method       Method                 `json:"method,omitempty"`
	StatusCode   int                    `json:"status_code,omitempty" validate:"omitempty,gte=100,lte=599"`
	IsLive       bool                   `json:"is_live"`
	Parameters   []string               `json:"parameters"`
	Tags         []string               `json:"tags"`
	DiscoveredBy string                 `json:"discovered_by,omitempty"`
	Confidence   float64                `json:"confidence" validate:"gte=0,lte=1"`
	Extra        map[string]interface{} `json:"extra,omitempty"`
}

// NewEndpoint returns an Endpoint with the defaults every adapter starts
// from: method UNKNOWN, assumed live, full confidence, empty collections.
func NewEndpoint(url string) Endpoint {
	return Endpoint{
		URL:        url,
		Method:     MethodUnknown,
		IsLive:     true,
		Parameters: []string{},
		Tags:       []string{},
		Confidence: 1.0,
	}
}

// Technology is a detected stack component (server, framework, library).
type Technology struct {
	Name       string  `json:"name" validate:"required"`
	Version    string  `json:"version,omitempty"`
	Category   string  `json:"category,omitempty"`
	CPE        string  `json:"cpe,omitempty"`
	Confidence float64 `json:"confidence" validate:"gte=0,lte=1"`
}

// Finding is a vulnerability or weakness observation.
type Finding struct {
	ID       string   `json:"id" validate:"required"`
	Name     string   `json:"name"`
	Severity Severity `json:"severity"`
	CVEIDs   []string `json:"cve_ids"`
	URL      string   `json:"url,omitempty"`
}

// NewFinding returns a Finding with a fresh unique ID and normalized
// severity.
func NewFinding(name, severity, url string) Finding {
	return Finding{
		ID:       uuid.NewString(),
		Name:     name,
		Severity: ParseSeverity(severity),
		CVEIDs:   []string{},
		URL:      url,
	}
}

// ReconResult is the envelope returned by every tool adapter invocation.
//
// It is always well-formed: collections are empty rather than nil, and a
// failed run still carries complete execution metadata.
type ReconResult struct {
	ToolName  string `json:"tool_name" validate:"required"`
	Target    string `json:"target" validate:"required"`
	ProjectID string `json:"project_id,omitempty"`
	TaskID    string `json:"task_id,omitempty"`

	Endpoints    []Endpoint   `json:"endpoints"`
	Technologies []Technology `json:"technologies"`
	Findings     []Finding    `json:"findings"`

	StartedAt       time.Time `json:"started_at"`
	CompletedAt     time.Time `json:"completed_at"`
	DurationSeconds float64   `json:"duration_seconds" validate:"gte=0"`
	Success         bool      `json:"success"`
	ErrorMessage    string    `json:"error_message,omitempty"`
}

// NewResult returns an empty, well-formed ReconResult for a tool/target pair.
func NewResult(toolName, target string) *ReconResult {
	return &ReconResult{
		ToolName:     toolName,
		Target:       target,
		Endpoints:    []Endpoint{},
		Technologies: []Technology{},
		Findings:     []Finding{},
		Success:      true,
	}
}

// EndpointCount returns the number of endpoints in the result.
func (r *ReconResult) EndpointCount() int { return len(r.Endpoints) }

// TechnologyCount returns the number of technologies in the result.
func (r *ReconResult) TechnologyCount() int { return len(r.Technologies) }

// FindingCount returns the number of findings in the result.
func (r *ReconResult) FindingCount() int { return len(r.Findings) }

// SeverityCount returns how many findings carry the given severity.
func (r *ReconResult) SeverityCount(sev Severity) int {
	n := 0
	for _, f := range r.Findings {
		if f.Severity == sev {
			n++
		}
	}
	return n
}

// Summary returns a compact map suitable for structured log emission.
func (r *ReconResult) Summary() map[string]interface{} {
	return map[string]interface{}{
		"tool":             r.ToolName,
		"target":           r.Target,
		"endpoints":        r.EndpointCount(),
		"technologies":     r.TechnologyCount(),
		"findings":         r.FindingCount(),
		"critical":         r.SeverityCount(SeverityCritical),
		"high":             r.SeverityCount(SeverityHigh),
		"success":          r.Success,
		"duration_seconds": r.DurationSeconds,
	}
}

var validate = validator.New()

// Validate checks the result against the schema's field constraints
// (required fields, confidence bounds, status code range).
func (r *ReconResult) Validate() error {
	return validate.Struct(r)
}

// Validate checks the endpoint's field constraints.
func (e *Endpoint) Validate() error {
	return validate.Struct(e)
}
