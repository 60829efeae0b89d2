// pkg/urlmerge/record.go
package urlmerge

import (
	"math"
	"sort"
	"strings"

	"github.com/reconmux/reconmux/pkg/schema"
)

// urlRecord is the merge pipeline's working unit: the accumulated state for
// one normalized URL while contributions from multiple sources are folded
// in. It never escapes Merge().
type urlRecord struct {
	url        string
	normalized string
	method     schema.Method
	sources    map[string]struct{}
	statusCode int
	isLive     bool
	liveKnown  bool
	parameters []string
	category   string
	confidence float64
	extra      map[string]interface{}
}

func recordFromEndpoint(ep schema.Endpoint, source string) *urlRecord {
	rec := &urlRecord{
		url:        ep.URL,
		normalized: Normalize(ep.URL),
		method:     ep.Method,
		sources:    map[string]struct{}{source: {}},
		statusCode: ep.StatusCode,
		isLive:     ep.IsLive,
		liveKnown:  true,
		parameters: append([]string(nil), ep.Parameters...),
		extra:      make(map[string]interface{}, len(ep.Extra)),
	}
	if rec.method == "" {
		rec.method = schema.MethodUnknown
	}
	for k, v := range ep.Extra {
		rec.extra[k] = v
	}
	return rec
}

// mergeFrom folds another record for the same normalized URL into r:
// source union, first non-nil liveness and status code, parameter union,
// and a preference for a concrete HTTP method over GET/UNKNOWN.
func (r *urlRecord) mergeFrom(other *urlRecord) {
	for s := range other.sources {
		r.sources[s] = struct{}{}
	}
	if !r.isLive && other.isLive {
		r.isLive = other.isLive
		r.liveKnown = r.liveKnown || other.liveKnown
	}
	if r.statusCode == 0 && other.statusCode != 0 {
		r.statusCode = other.statusCode
	}
	for _, p := range other.parameters {
		if !containsString(r.parameters, p) {
			r.parameters = append(r.parameters, p)
		}
	}
	if !isDefaultMethod(other.method) && isDefaultMethod(r.method) {
		r.method = other.method
	}
}

func isDefaultMethod(m schema.Method) bool {
	return m == schema.MethodGet || m == schema.MethodUnknown || m == ""
}

// score assigns the record's confidence:
// +0.4 confirmed live; +0.2/0.3/0.4 for 1/2/>=3 distinct sources;
// +0.1 non-GET method; +0.1 parameters present; capped at 1.0.
func (r *urlRecord) score() float64 {
	score := 0.0
	if r.isLive {
		score += 0.4
	}
	switch n := len(r.sources); {
	case n >= 3:
		score += 0.4
	case n == 2:
		score += 0.3
	default:
		score += 0.2
	}
	if !isDefaultMethod(r.method) {
		score += 0.1
	}
	if len(r.parameters) > 0 {
		score += 0.1
	}
	score = math.Round(score*100) / 100
	if score > 1.0 {
		score = 1.0
	}
	return score
}

// toEndpoint re-materializes the record as a canonical Endpoint with
// provenance tags and category metadata.
func (r *urlRecord) toEndpoint() schema.Endpoint {
	sources := r.sourceNames()

	extra := make(map[string]interface{}, len(r.extra)+2)
	for k, v := range r.extra {
		extra[k] = v
	}
	extra["category"] = r.category
	extra["sources"] = sources

	discoveredBy := strings.Join(sources, ",")
	if discoveredBy == "" {
		discoveredBy = "urlmerge"
	}

	return schema.Endpoint{
		URL:          r.url,
		Method:       r.method,
		StatusCode:   r.statusCode,
		IsLive:       r.isLive,
		Parameters:   append([]string{}, r.parameters...),
		Tags:         append([]string{"url-discovery", r.category}, sources...),
		DiscoveredBy: discoveredBy,
		Confidence:   r.confidence,
		Extra:        extra,
	}
}

func (r *urlRecord) sourceNames() []string {
	names := make([]string, 0, len(r.sources))
	for s := range r.sources {
		names = append(names, s)
	}
	sort.Strings(names)
	return names
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
