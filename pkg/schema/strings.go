// pkg/schema/strings.go
package schema

import "strings"

func normalizeToken(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func upperToken(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
