package pathutil

import (
	"regexp"
	"strings"
)

// PathPattern represents a regex pattern and its corresponding normalized template.
type PathPattern struct {
	Pattern  *regexp.Regexp
	Template string
}

// pathPatterns defines the list of patterns for dynamic routes.
// Pre-compiled at initialization.
var pathPatterns = []*PathPattern{
	{Pattern: regexp.MustCompile(`^/delete/\d+$`), Template: "/delete/:id"},
}

// NormalizePath normalizes dynamic URL paths to prevent metrics label
// cardinality explosion. It converts paths with IDs (e.g., /delete/123)
// to template format (e.g., /delete/:id). Static paths remain unchanged.
//
// Examples:
//
//	NormalizePath("/delete/123")   // "/delete/:id"
//	NormalizePath("/newsAll")      // "/newsAll" (unchanged)
//	NormalizePath("/health")       // "/health" (unchanged)
//
// Query parameters and trailing slashes are handled:
//
//	NormalizePath("/delete/123?x=1") // "/delete/:id"
//	NormalizePath("/delete/123/")    // "/delete/:id"
func NormalizePath(path string) string {
	// Strip query parameters if present
	if idx := strings.IndexByte(path, '?'); idx != -1 {
		path = path[:idx]
	}

	// Strip trailing slash if present (except for root path)
	if len(path) > 1 && path[len(path)-1] == '/' {
		path = path[:len(path)-1]
	}

	for _, p := range pathPatterns {
		if p.Pattern.MatchString(path) {
			return p.Template
		}
	}

	// No match found, return original path
	return path
}
