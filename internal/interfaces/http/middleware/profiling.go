package middleware

import (
	"context"
	"slices"
	"strings"

	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/infrastructure/telemetry"
	"github.com/gin-gonic/gin"
)

type ProfilingConfig struct {
	Enabled bool
	// SkipPaths match exactly, SkipPathPrefixes match any path under them
	SkipPaths        []string
	SkipPathPrefixes []string
}

func (cfg ProfilingConfig) skips(path string) bool {
	return slices.Contains(cfg.SkipPaths, path) ||
		slices.ContainsFunc(cfg.SkipPathPrefixes, func(p string) bool { return strings.HasPrefix(path, p) })
}

// Profiling tags the request goroutine with Pyroscope labels for the
// controller, route template and method. Mounted again after
// RestaurantContext it adds restaurant_id.
func Profiling(cfg ProfilingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return passThrough
	}
	cfg.SkipPaths = slices.Clone(cfg.SkipPaths)
	cfg.SkipPathPrefixes = slices.Clone(cfg.SkipPathPrefixes)

	return func(c *gin.Context) {
		if cfg.skips(c.Request.URL.Path) {
			c.Next()
			return
		}
		telemetry.WithProfilingLabels(c.Request.Context(), profilingLabels(c), func(ctx context.Context) {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		})
	}
}

func profilingLabels(c *gin.Context) map[string]string {
	route := c.FullPath()
	return telemetry.HTTPRequestLabels(routeController(route), route, c.Request.Method, restaurantIDFromContext(c))
}

// routeController names the first resource segment of a route template,
// "/api/v1/expenses/:id/payments" gives "expenses".
func routeController(route string) string {
	for part := range strings.SplitSeq(route, "/") {
		switch {
		case part == "", part == "api", isVersionSegment(part):
		case part[0] == ':', part[0] == '*':
		default:
			return part
		}
	}
	return ""
}

// isVersionSegment matches v1, v2 and so on, either case.
func isVersionSegment(segment string) bool {
	if len(segment) < 2 || (segment[0] != 'v' && segment[0] != 'V') {
		return false
	}
	return strings.Trim(segment[1:], "0123456789") == ""
}
