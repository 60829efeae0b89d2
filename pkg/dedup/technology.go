// pkg/dedup/technology.go
package dedup

import (
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/reconmux/reconmux/pkg/schema"
)

// TechnologyDeduplicator collapses technology detections keyed by
// lowercase name. On collision the entry carrying a version string wins;
// when both carry one, the higher version wins (semver-aware when both
// parse); otherwise the higher-confidence entry is kept.
type TechnologyDeduplicator struct{}

// NewTechnologyDeduplicator returns a TechnologyDeduplicator.
func NewTechnologyDeduplicator() *TechnologyDeduplicator {
	return &TechnologyDeduplicator{}
}

// Deduplicate returns the collapsed list in first-seen order.
func (d *TechnologyDeduplicator) Deduplicate(technologies []schema.Technology) []schema.Technology {
	order := make([]string, 0, len(technologies))
	byName := make(map[string]schema.Technology, len(technologies))

	for _, tech := range technologies {
		key := strings.ToLower(tech.Name)
		existing, seen := byName[key]
		if !seen {
			order = append(order, key)
			byName[key] = tech
			continue
		}
		if prefer(tech, existing) {
			byName[key] = tech
		}
	}

	result := make([]schema.Technology, 0, len(order))
	for _, key := range order {
		result = append(result, byName[key])
	}
	return result
}

// prefer reports whether candidate should replace existing.
func prefer(candidate, existing schema.Technology) bool {
	switch {
	case candidate.Version != "" && existing.Version == "":
		return true
	case candidate.Version == "" && existing.Version != "":
		return false
	case candidate.Version != "" && existing.Version != "":
		if cv, err1 := semver.NewVersion(candidate.Version); err1 == nil {
			if ev, err2 := semver.NewVersion(existing.Version); err2 == nil {
				if !cv.Equal(ev) {
					return cv.GreaterThan(ev)
				}
			}
		}
	}
	return candidate.Confidence > existing.Confidence
}
