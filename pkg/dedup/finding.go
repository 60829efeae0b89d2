// pkg/dedup/finding.go
package dedup

import (
	"strings"

	"github.com/reconmux/reconmux/pkg/schema"
)

// FindingDeduplicator drops findings already represented by an earlier
// item: same id, or the same (lowercase name, lowercase url, severity)
// triple.
type FindingDeduplicator struct{}

// NewFindingDeduplicator returns a FindingDeduplicator.
func NewFindingDeduplicator() *FindingDeduplicator {
	return &FindingDeduplicator{}
}

type findingKey struct {
	name     string
	url      string
	severity schema.Severity
}

// Deduplicate returns the surviving findings in first-seen order.
func (d *FindingDeduplicator) Deduplicate(findings []schema.Finding) []schema.Finding {
	byID := make(map[string]struct{}, len(findings))
	byComposite := make(map[findingKey]struct{}, len(findings))
	result := make([]schema.Finding, 0, len(findings))

	for _, f := range findings {
		if _, dup := byID[f.ID]; dup {
			continue
		}
		key := findingKey{
			name:     strings.ToLower(f.Name),
			url:      strings.ToLower(f.URL),
			severity: f.Severity,
		}
		if _, dup := byComposite[key]; dup {
			continue
		}
		byID[f.ID] = struct{}{}
		byComposite[key] = struct{}{}
		result = append(result, f)
	}
	return result
}
