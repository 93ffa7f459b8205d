package http

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

const corsWildcard = "*"

// createCORSMiddleware allows browser dashboards to read and requeue events. Producers
// call the API server-to-server, so it returns nil unless CORS is enabled with at least
// one usable origin. A lone "*" allows every origin.
func createCORSMiddleware(enabled bool, allowOriginsStr string, logger *slog.Logger) gin.HandlerFunc {
	if !enabled {
		return nil
	}

	origins, rejected := parseOrigins(allowOriginsStr)
	for _, origin := range rejected {
		logger.Warn("ignoring invalid CORS origin", slog.String("origin", origin))
	}
	if len(origins) == 0 {
		logger.Warn("CORS enabled but no valid origins configured, CORS will not be applied")
		return nil
	}

	config := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost},
		AllowHeaders:  []string{"Content-Type", "X-Request-Id"},
		ExposeHeaders: []string{"X-Request-Id"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 1 && origins[0] == corsWildcard {
		config.AllowAllOrigins = true
	} else {
		config.AllowOrigins = origins
	}

	logger.Info("CORS enabled", slog.Any("origins", origins))

	return cors.New(config)
}

// parseOrigins splits a comma-separated origin list. Blank entries are skipped and
// entries that are not "*" or an absolute http(s) origin are returned as rejected.
func parseOrigins(originsStr string) (origins, rejected []string) {
	for _, part := range strings.Split(originsStr, ",") {
		origin := strings.TrimRight(strings.TrimSpace(part), "/")
		switch {
		case origin == "":
		case origin == corsWildcard || isHTTPOrigin(origin):
			origins = append(origins, origin)
		default:
			rejected = append(rejected, origin)
		}
	}
	return origins, rejected
}

func isHTTPOrigin(origin string) bool {
	u, err := url.Parse(origin)
	if err != nil || u.Host == "" {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Path == ""
}
