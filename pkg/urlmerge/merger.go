// pkg/urlmerge/merger.go
package urlmerge

import (
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/reconmux/reconmux/pkg/schema"
)

// Merger accumulates endpoint discoveries from multiple tools keyed by
// normalized URL and produces one categorized, confidence-ranked list.
//
// A Merger owns its working set and is not safe for concurrent use; callers
// needing concurrent Add must synchronize externally.
type Merger struct {
	records map[string]*urlRecord
	order   []string // normalized URLs in first-seen order, for stable ties
}

// NewMerger returns an empty merge pipeline.
func NewMerger() *Merger {
	return &Merger{records: make(map[string]*urlRecord)}
}

// Add ingests one tool's endpoints, merging into existing records by
// normalized-URL key. source is the contributing tool label (for example
// "katana" or "gau").
func (m *Merger) Add(endpoints []schema.Endpoint, source string) {
	for _, ep := range endpoints {
		incoming := recordFromEndpoint(ep, source)
		if existing, ok := m.records[incoming.normalized]; ok {
			existing.mergeFrom(incoming)
			continue
		}
		m.records[incoming.normalized] = incoming
		m.order = append(m.order, incoming.normalized)
	}
	log.Debug().Str("source", source).Int("added", len(endpoints)).
		Int("unique", len(m.records)).Msg("merged endpoint batch")
}

// Merge categorizes and scores every record and returns the resulting
// endpoints sorted by descending confidence. Ties keep first-seen order.
// The working records never escape; callers get canonical Endpoints.
func (m *Merger) Merge() []schema.Endpoint {
	ranked := make([]*urlRecord, 0, len(m.records))
	for _, key := range m.order {
		rec := m.records[key]
		rec.category = Categorize(rec.url, rec.parameters)
		rec.confidence = rec.score()
		ranked = append(ranked, rec)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].confidence > ranked[j].confidence
	})

	endpoints := make([]schema.Endpoint, len(ranked))
	for i, rec := range ranked {
		endpoints[i] = rec.toEndpoint()
	}
	return endpoints
}

// Stats reports per-category and per-source counts for the current merge
// state, for observability.
type Stats struct {
	TotalUniqueURLs int            `json:"total_unique_urls"`
	ByCategory      map[string]int `json:"by_category"`
	BySource        map[string]int `json:"by_source"`
}

// Stats computes summary statistics without mutating the merge state.
func (m *Merger) Stats() Stats {
	stats := Stats{
		TotalUniqueURLs: len(m.records),
		ByCategory:      make(map[string]int),
		BySource:        make(map[string]int),
	}
	for _, rec := range m.records {
		stats.ByCategory[Categorize(rec.url, rec.parameters)]++
		for s := range rec.sources {
			stats.BySource[s]++
		}
	}
	return stats
}

// Clear resets the pipeline for reuse.
func (m *Merger) Clear() {
	m.records = make(map[string]*urlRecord)
	m.order = nil
}
