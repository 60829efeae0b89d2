// pkg/schema/schema_test.go
package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseSeverity(t *testing.T) {
	tests := []struct {
		in   string
		want Severity
	}{
		{"critical", SeverityCritical},
		{"HIGH", SeverityHigh},
		{" Medium ", SeverityMedium},
		{"low", SeverityLow},
		{"info", SeverityInfo},
		{"", SeverityUnknown},
		{"bogus", SeverityUnknown},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, ParseSeverity(tt.in), tt.in)
	}
}

func TestParseMethod(t *testing.T) {
	tests := []struct {
		in   string
		want Method
	}{
		{"get", MethodGet},
		{"POST", MethodPost},
		{"Delete", MethodDelete},
		{"", MethodUnknown},
		{"TRACE", MethodUnknown},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, ParseMethod(tt.in), tt.in)
	}
}

func TestNewEndpointDefaults(t *testing.T) {
	ep := NewEndpoint("https://example.com/a")
	require.Equal(t, "https://example.com/a", ep.URL)
	require.Equal(t, MethodUnknown, ep.Method)
	require.True(t, ep.IsLive)
	require.Equal(t, 1.0, ep.Confidence)
	require.NotNil(t, ep.Parameters)
	require.NotNil(t, ep.Tags)
	require.Empty(t, ep.Parameters)
}

func TestNewResultWellFormed(t *testing.T) {
	res := NewResult("katana", "example.com")
	require.True(t, res.Success)
	require.NotNil(t, res.Endpoints)
	require.NotNil(t, res.Technologies)
	require.NotNil(t, res.Findings)

	// Empty collections serialize as [], not null.
	data, err := json.Marshal(res)
	require.NoError(t, err)
	require.Contains(t, string(data), `"endpoints":[]`)
	require.Contains(t, string(data), `"findings":[]`)
}

func TestNewFinding(t *testing.T) {
	a := NewFinding("exposed config", "high", "https://example.com/.env")
	b := NewFinding("exposed config", "high", "https://example.com/.env")
	require.NotEmpty(t, a.ID)
	require.NotEqual(t, a.ID, b.ID)
	require.Equal(t, SeverityHigh, a.Severity)
	require.NotNil(t, a.CVEIDs)
}

func TestSeverityCountAndSummary(t *testing.T) {
	res := NewResult("nuclei", "example.com")
	res.Findings = []Finding{
		{ID: "1", Severity: SeverityCritical},
		{ID: "2", Severity: SeverityCritical},
		{ID: "3", Severity: SeverityLow},
	}
	res.Endpoints = []Endpoint{NewEndpoint("https://example.com/")}

	require.Equal(t, 2, res.SeverityCount(SeverityCritical))
	require.Equal(t, 0, res.SeverityCount(SeverityHigh))

	summary := res.Summary()
	require.Equal(t, 1, summary["endpoints"])
	require.Equal(t, 3, summary["findings"])
	require.Equal(t, 2, summary["critical"])
}

func TestValidateConstraints(t *testing.T) {
	res := NewResult("katana", "example.com")
	require.NoError(t, res.Validate())

	res.ToolName = ""
	require.Error(t, res.Validate())

	ep := NewEndpoint("https://example.com/")
	require.NoError(t, ep.Validate())

	ep.Confidence = 1.5
	require.Error(t, ep.Validate())

	ep = NewEndpoint("https://example.com/")
	ep.StatusCode = 42
	require.Error(t, ep.Validate())
}
