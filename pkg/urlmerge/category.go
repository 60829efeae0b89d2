// pkg/urlmerge/category.go
// Package urlmerge combines crawler, historical-URL, and brute-force
// endpoint discoveries into one deduplicated, categorized, confidence-
// ranked list. Unlike the generic dedup engine it is optimized for ranking
// survivors, not only collapsing them.
package urlmerge

import (
	"net/url"
	"regexp"
)

// Category labels assigned to merged URLs.
const (
	CategoryAuth      = "auth"
	CategoryAPI       = "api"
	CategoryAdmin     = "admin"
	CategoryFile      = "file"
	CategorySensitive = "sensitive"
	CategoryStatic    = "static"
	CategoryDynamic   = "dynamic"
	CategoryUnknown   = "unknown"
)

// Categories returns every category label in precedence order.
func Categories() []string {
	return []string{
		CategoryAuth, CategoryAPI, CategoryAdmin, CategoryFile,
		CategorySensitive, CategoryStatic, CategoryDynamic, CategoryUnknown,
	}
}

// Ordered path-pattern rules; the first match wins.
var (
	authRe = regexp.MustCompile(
		`(?i)/(login|signin|sign-in|auth|oauth|sso|logout|register|signup|password|forgot-pass|reset-pass)`)
	apiRe = regexp.MustCompile(
		`(?i)/(api/|v\d+/|rest/|graphql|json|rpc|ws/|websocket)`)
	adminRe = regexp.MustCompile(
		`(?i)/(admin|dashboard|console|management|wp-admin|phpmyadmin|cpanel|webmin|controlpanel)`)
	fileRe = regexp.MustCompile(
		`(?i)/(upload|download|file|attachment|media|assets|files|static/|blob)`)
	sensitiveRe = regexp.MustCompile(
		`(?i)/(\.env|\.git|config|backup|secret|private|internal|debug|test|dev|staging)`)
	staticExtRe = regexp.MustCompile(
		`(?i)\.(js|css|jpg|jpeg|png|gif|svg|ico|woff2?|ttf|eot|otf|mp4|mp3|pdf|zip)(\?|$)`)
)

// Categorize classifies a URL by its path, with precedence
// auth > api > admin > file > sensitive > static > dynamic > unknown.
// params are the known parameter names for the URL; their presence (or a
// literal "?" in the URL) makes an otherwise-unmatched URL dynamic.
func Categorize(rawURL string, params []string) string {
	path := rawURL
	if u, err := url.Parse(rawURL); err == nil {
		path = u.Path
	}

	switch {
	case authRe.MatchString(path):
		return CategoryAuth
	case apiRe.MatchString(path):
		return CategoryAPI
	case adminRe.MatchString(path):
		return CategoryAdmin
	case fileRe.MatchString(path):
		return CategoryFile
	case sensitiveRe.MatchString(path):
		return CategorySensitive
	case staticExtRe.MatchString(path):
		return CategoryStatic
	case len(params) > 0 || containsQuery(rawURL):
		return CategoryDynamic
	default:
		return CategoryUnknown
	}
}

func containsQuery(rawURL string) bool {
	for i := 0; i < len(rawURL); i++ {
		if rawURL[i] == '?' {
			return true
		}
	}
	return false
}
