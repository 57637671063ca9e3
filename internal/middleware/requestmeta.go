package middleware

import (
	"net"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/snaplink-io/snaplink/internal/clientinfo"
)

// visitorCookie is the optional cookie folded into the visitor
// fingerprint when present.
const visitorCookie = "visitor_id"

// RequestMeta derives ClientInfo (IP, user agent, referrer, parsed
// browser/device, visitor fingerprint) for every request and adds it to
// the request context for the click-recording path.
func RequestMeta(_ huma.API) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		var cookie string
		if c, err := huma.ReadCookie(ctx, visitorCookie); err == nil && c != nil {
			cookie = c.Value
		}

		info := clientinfo.New(
			extractClientIP(ctx),
			ctx.Header("User-Agent"),
			ctx.Header("Referer"),
			ctx.Header("Accept-Language"),
			ctx.Header("Accept"),
			cookie,
		)

		newCtx := clientinfo.WithContext(ctx.Context(), info)
		ctx = huma.WithContext(ctx, newCtx)

		next(ctx)
	}
}

// extractClientIP resolves the originating client IP, considering proxies.
func extractClientIP(ctx huma.Context) string {
	// X-Forwarded-For may contain multiple IPs; the first is the client.
	if xff := ctx.Header("X-Forwarded-For"); xff != "" {
		if idx := strings.Index(xff, ","); idx != -1 {
			return strings.TrimSpace(xff[:idx])
		}

		return strings.TrimSpace(xff)
	}

	if xri := ctx.Header("X-Real-IP"); xri != "" {
		return xri
	}

	addr := ctx.RemoteAddr()

	ip, _, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}

	return ip
}
