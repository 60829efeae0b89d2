// pkg/dedup/service.go
package dedup

import (
	"github.com/reconmux/reconmux/pkg/schema"
)

// Service bundles the three deduplicators behind one facade, the way
// callers holding several ReconResults consume them.
type Service struct {
	endpoints    *EndpointDeduplicator
	technologies *TechnologyDeduplicator
	findings     *FindingDeduplicator
}

// NewService builds a Service with the given fuzzy threshold for the
// endpoint pass.
func NewService(fuzzyThreshold float64) (*Service, error) {
	ed, err := NewEndpointDeduplicator(fuzzyThreshold)
	if err != nil {
		return nil, err
	}
	return &Service{
		endpoints:    ed,
		technologies: NewTechnologyDeduplicator(),
		findings:     NewFindingDeduplicator(),
	}, nil
}

// Endpoints deduplicates an endpoint collection.
func (s *Service) Endpoints(items []schema.Endpoint) []schema.Endpoint {
	return s.endpoints.Deduplicate(items)
}

// Technologies deduplicates a technology collection.
func (s *Service) Technologies(items []schema.Technology) []schema.Technology {
	return s.technologies.Deduplicate(items)
}

// Findings deduplicates a finding collection.
func (s *Service) Findings(items []schema.Finding) []schema.Finding {
	return s.findings.Deduplicate(items)
}

// Results collapses the collections of many results into one merged,
// deduplicated set. Inputs are consumed in order, so earlier results win
// ties.
func (s *Service) Results(results []*schema.ReconResult) ([]schema.Endpoint, []schema.Technology, []schema.Finding) {
	var endpoints []schema.Endpoint
	var technologies []schema.Technology
	var findings []schema.Finding
	for _, r := range results {
		if r == nil {
			continue
		}
		endpoints = append(endpoints, r.Endpoints...)
		technologies = append(technologies, r.Technologies...)
		findings = append(findings, r.Findings...)
	}
	return s.Endpoints(endpoints), s.Technologies(technologies), s.Findings(findings)
}
