package handlers

import (
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/snaplink-io/snaplink/internal/middleware"
	"github.com/snaplink-io/snaplink/internal/ratelimit"
)

// RegisterRoutes registers all URL routes with per-endpoint rate limits.
// The redirect and password-access routes are public; everything else
// requires an authenticated caller.
func RegisterRoutes(api huma.API, urlHandler *URLHandler) {
	huma.Register(api, huma.Operation{
		Method:        http.MethodPost,
		Path:          "/shorten",
		Summary:       "Create a shortened URL",
		Description:   "Creates a short alias for a long URL, optionally custom, expiring, or password protected.",
		Tags:          []string{"URLs"},
		DefaultStatus: http.StatusCreated,
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{
				Limits: []ratelimit.LimitConfig{
					{Window: time.Minute, Max: 5},
				},
			},
		},
	}, urlHandler.CreateShortURL)

	huma.Register(api, huma.Operation{
		Method:      http.MethodGet,
		Path:        "/urls",
		Summary:     "Search the caller's URLs",
		Description: "Returns a filtered, paginated list of URLs. Admins see all users' URLs.",
		Tags:        []string{"URLs"},
	}, urlHandler.ListURLs)

	huma.Register(api, huma.Operation{
		Method:      http.MethodGet,
		Path:        "/analytics/{alias}",
		Summary:     "Get analytics for a URL",
		Description: "Returns click totals, unique visitors, referrer counts, browser/device percentages and the trailing 30-day timeline.",
		Tags:        []string{"Analytics"},
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{
				Limits: []ratelimit.LimitConfig{
					{Window: time.Minute, Max: 20},
				},
			},
		},
	}, urlHandler.GetURLAnalytics)

	huma.Register(api, huma.Operation{
		Method:      http.MethodGet,
		Path:        "/{alias}",
		Summary:     "Resolve a short URL",
		Description: "Redirects to the original URL, or signals that a password must be submitted.",
		Tags:        []string{"URLs"},
		Metadata: map[string]any{
			middleware.PublicKey: true,
			ratelimit.MetadataKey: ratelimit.EndpointConfig{
				Limits: []ratelimit.LimitConfig{
					{Window: time.Minute, Max: 60},
				},
			},
		},
	}, urlHandler.RedirectToURL)

	huma.Register(api, huma.Operation{
		Method:      http.MethodPost,
		Path:        "/{alias}/access",
		Summary:     "Access a password-protected URL",
		Description: "Verifies the password for a protected short URL and returns the original URL.",
		Tags:        []string{"URLs"},
		Metadata: map[string]any{
			middleware.PublicKey: true,
			ratelimit.MetadataKey: ratelimit.EndpointConfig{
				Limits: []ratelimit.LimitConfig{
					{Window: time.Minute, Max: 10},
				},
			},
		},
	}, urlHandler.AccessProtectedURL)
}
