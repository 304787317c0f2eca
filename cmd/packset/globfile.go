package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/seriate/packset"
)

// loadGlobFilter reads a pattern file and builds a filter from it: one
// doublestar glob per line, with blank lines and #-comments ignored.
// Invalid patterns are logged and skipped. A file yielding no usable
// pattern produces a filter that matches nothing.
func loadGlobFilter(path string, logger *slog.Logger) (packset.PathFilter, error) {
	data, err := os.ReadFile(path) //nolint:gosec // user-provided path is intentional
	if err != nil {
		return nil, fmt.Errorf("read glob file: %w", err)
	}
	patterns := parseGlobPatterns(string(data), logger)
	if len(patterns) == 0 {
		logger.Warn("glob file has no usable patterns; nothing will match", "file", path)
	}
	return globFilter(patterns), nil
}

// parseGlobPatterns extracts the usable patterns from glob file content.
func parseGlobPatterns(data string, logger *slog.Logger) []string {
	var patterns []string
	for i, line := range strings.Split(data, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !doublestar.ValidatePattern(line) {
			logger.Warn("invalid glob pattern skipped", "line", i+1, "pattern", line)
			continue
		}
		patterns = append(patterns, line)
	}
	return patterns
}

// globFilter matches a path when any pattern matches it.
func globFilter(patterns []string) packset.PathFilter {
	return packset.MatchFunc(func(path string) bool {
		for _, pat := range patterns {
			if ok, err := doublestar.Match(pat, path); err == nil && ok {
				return true
			}
		}
		return false
	})
}
