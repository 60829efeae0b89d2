// pkg/adapters/exec.go
// Package adapters contains the concrete tool wrappers that plug into the
// orchestrator lifecycle. Each adapter owns its tool's invocation protocol
// (CLI flags, output format, HTTP endpoints) and translates native output
// into the canonical schema; unparseable output degrades to an empty
// result instead of failing.
package adapters

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"os/exec"
	"strings"
)

// maxStderrSnippet bounds how much tool stderr is kept in error messages.
const maxStderrSnippet = 512

// runCommand executes a tool binary and returns its stdout. The command is
// bound to ctx, so a per-adapter timeout kills the process instead of
// abandoning it. Non-zero exits become errors carrying a stderr snippet.
func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		msg := strings.TrimSpace(stderr.String())
		if len(msg) > maxStderrSnippet {
			msg = msg[:maxStderrSnippet] + "..."
		}
		if msg == "" {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		return nil, fmt.Errorf("%s: %w: %s", name, err, msg)
	}
	return stdout.Bytes(), nil
}

// splitLines yields trimmed, non-empty lines from tool output.
func splitLines(output []byte) []string {
	var lines []string
	for _, line := range strings.Split(string(output), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// extractParameters returns the query parameter names of a URL in their
// original order, without duplicates.
func extractParameters(rawURL string) []string {
	u, err := url.Parse(rawURL)
	if err != nil || u.RawQuery == "" {
		return nil
	}
	seen := make(map[string]struct{})
	var params []string
	for _, token := range strings.Split(u.RawQuery, "&") {
		if token == "" {
			continue
		}
		key := token
		if i := strings.IndexByte(token, '='); i >= 0 {
			key = token[:i]
		}
		if decoded, derr := url.QueryUnescape(key); derr == nil {
			key = decoded
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		params = append(params, key)
	}
	return params
}
