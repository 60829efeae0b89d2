// pkg/dedup/endpoint.go
package dedup

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/reconmux/reconmux/pkg/schema"
)

// DefaultFuzzyThreshold is the similarity score at or above which two
// normalized URLs are treated as near-duplicates.
const DefaultFuzzyThreshold = 0.85

const (
	exactMergeBoost = 0.05
	fuzzyMergeBoost = 0.03
)

// EndpointDeduplicator collapses endpoint lists gathered from multiple
// ReconResults using two passes: exact (SHA-256 of the normalized URL) and
// fuzzy (edit-distance similarity within each host bucket). The surviving
// item's confidence grows with each duplicate it absorbs.
type EndpointDeduplicator struct {
	fuzzyThreshold float64
}

// NewEndpointDeduplicator builds a deduplicator with the given similarity
// threshold in [0, 1].
func NewEndpointDeduplicator(fuzzyThreshold float64) (*EndpointDeduplicator, error) {
	if fuzzyThreshold < 0 || fuzzyThreshold > 1 {
		return nil, fmt.Errorf("dedup: fuzzy threshold must be in [0, 1], got %v", fuzzyThreshold)
	}
	return &EndpointDeduplicator{fuzzyThreshold: fuzzyThreshold}, nil
}

// Deduplicate returns the collapsed endpoint list. Output order is
// deterministic: first-seen order within each first-seen host bucket.
func (d *EndpointDeduplicator) Deduplicate(endpoints []schema.Endpoint) []schema.Endpoint {
	// Pass 1: exact hash of the normalized URL. Keep the higher-confidence
	// item per group; each absorbed duplicate adds a small boost.
	keyOrder := make([]string, 0, len(endpoints))
	byKey := make(map[string]schema.Endpoint, len(endpoints))
	for _, ep := range endpoints {
		key := URLKey(ep.URL)
		existing, seen := byKey[key]
		if !seen {
			keyOrder = append(keyOrder, key)
			byKey[key] = ep
			continue
		}
		if ep.Confidence > existing.Confidence {
			existing = ep
		}
		existing.Confidence = capConfidence(existing.Confidence + exactMergeBoost)
		byKey[key] = existing
	}

	// Pass 2: fuzzy matching. Bucket by host so comparisons stay bounded,
	// then merge pairs whose normalized URLs score at or above the
	// threshold.
	hostOrder := make([]string, 0)
	byHost := make(map[string][]schema.Endpoint)
	for _, key := range keyOrder {
		ep := byKey[key]
		host := hostOf(NormalizeURL(ep.URL))
		if _, ok := byHost[host]; !ok {
			hostOrder = append(hostOrder, host)
		}
		byHost[host] = append(byHost[host], ep)
	}

	result := make([]schema.Endpoint, 0, len(keyOrder))
	for _, host := range hostOrder {
		kept := make([]schema.Endpoint, 0, len(byHost[host]))
		for _, candidate := range byHost[host] {
			normC := NormalizeURL(candidate.URL)
			merged := false
			for i := range kept {
				if Similarity(normC, NormalizeURL(kept[i].URL)) < d.fuzzyThreshold {
					continue
				}
				if candidate.Confidence > kept[i].Confidence {
					kept[i] = candidate
				}
				kept[i].Confidence = capConfidence(kept[i].Confidence + fuzzyMergeBoost)
				merged = true
				break
			}
			if !merged {
				kept = append(kept, candidate)
			}
		}
		result = append(result, kept...)
	}

	if dropped := len(endpoints) - len(result); dropped > 0 {
		log.Debug().Int("input", len(endpoints)).Int("output", len(result)).
			Int("merged", dropped).Msg("endpoint dedup complete")
	}
	return result
}

func capConfidence(c float64) float64 {
	if c > 1.0 {
		return 1.0
	}
	return c
}
