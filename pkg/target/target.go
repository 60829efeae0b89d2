// pkg/target/target.go
// Package target validates and classifies scan target strings before any
// external tool is invoked. It is a gate, not a canonicalizer: valid input
// is returned unchanged (apart from whitespace trimming).
package target

import (
	"fmt"
	"net"
	"net/url"
	"regexp"
	"strings"
)

// MaxLength is the maximum accepted target length in characters.
const MaxLength = 2048

// Kind classifies the accepted target shapes.
type Kind string

const (
	KindDomain Kind = "domain"
	KindIP     Kind = "ip"
	KindCIDR   Kind = "cidr"
	KindURL    Kind = "url"
)

// ValidationError reports a rejected target. It names the offending input so
// callers can surface it directly to users.
type ValidationError struct {
	Target string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Target == "" {
		return fmt.Sprintf("invalid target: %s", e.Reason)
	}
	return fmt.Sprintf("invalid target %q: %s", e.Target, e.Reason)
}

// RFC-1035-style labels: alphanumeric, optional inner hyphens, 63 chars max,
// at least one dot and an alphabetic TLD.
var domainRe = regexp.MustCompile(
	`^(?:[a-zA-Z0-9](?:[a-zA-Z0-9\-]{0,61}[a-zA-Z0-9])?\.)+[a-zA-Z]{2,}$`,
)

func isDomain(s string) bool {
	return domainRe.MatchString(s)
}

func isIP(s string) bool {
	return net.ParseIP(s) != nil
}

func isCIDR(s string) bool {
	_, _, err := net.ParseCIDR(s)
	return err == nil
}

func isHTTPURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Validate trims and classifies a target string.
//
// Accepted shapes: domain name, IPv4/IPv6 address, CIDR block, or an
// http/https URL with a non-empty host. The trimmed input is returned
// unchanged on success; everything else fails with a *ValidationError.
func Validate(target string) (string, error) {
	target = strings.TrimSpace(target)
	if target == "" {
		return "", &ValidationError{Reason: "must not be empty"}
	}
	if len(target) > MaxLength {
		return "", &ValidationError{Target: truncate(target), Reason: fmt.Sprintf("exceeds maximum length (%d chars)", MaxLength)}
	}

	if isDomain(target) || isIP(target) || isCIDR(target) || isHTTPURL(target) {
		return target, nil
	}

	return "", &ValidationError{Target: target, Reason: "must be a domain, IP address, CIDR, or HTTP/HTTPS URL"}
}

// Classify returns the Kind of an already-validated target. The boolean is
// false when the target matches no accepted shape.
func Classify(target string) (Kind, bool) {
	switch {
	case isDomain(target):
		return KindDomain, true
	case isIP(target):
		return KindIP, true
	case isCIDR(target):
		return KindCIDR, true
	case isHTTPURL(target):
		return KindURL, true
	default:
		return "", false
	}
}

// Host extracts the bare hostname from a target: URL hosts are parsed,
// ports stripped, anything else returned up to the first slash or colon.
// Tools like gau want a bare domain even when the caller supplied a URL.
func Host(target string) string {
	if u, err := url.Parse(target); err == nil && u.Host != "" {
		return u.Hostname()
	}
	host := target
	if i := strings.IndexByte(host, '/'); i >= 0 {
		host = host[:i]
	}
	if i := strings.IndexByte(host, ':'); i >= 0 {
		host = host[:i]
	}
	return host
}

func truncate(s string) string {
	const max = 64
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
