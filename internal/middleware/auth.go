package middleware

import (
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/snaplink-io/snaplink/internal/auth"
)

// PublicKey marks an operation as reachable without authentication when
// set to true in its metadata.
const PublicKey = "public"

// Authenticate returns a huma middleware resolving the Bearer token on
// protected routes to a Caller in the request context. Token issuance and
// OAuth exchange happen upstream; this only verifies.
func Authenticate(api huma.API, verifier *auth.TokenVerifier) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		if isPublic(ctx) {
			next(ctx)

			return
		}

		header := ctx.Header("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			_ = huma.WriteErr(api, ctx, http.StatusUnauthorized,
				"authentication is required to access this resource",
				&huma.ErrorDetail{Message: "MISSING_TOKEN", Location: "code"})

			return
		}

		caller, err := verifier.Verify(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			_ = huma.WriteErr(api, ctx, http.StatusUnauthorized,
				"the provided authentication token is invalid or expired",
				&huma.ErrorDetail{Message: "INVALID_TOKEN", Location: "code"})

			return
		}

		newCtx := auth.WithCaller(ctx.Context(), caller)
		ctx = huma.WithContext(ctx, newCtx)

		next(ctx)
	}
}

func isPublic(ctx huma.Context) bool {
	op := ctx.Operation()
	if op == nil || op.Metadata == nil {
		return false
	}

	public, ok := op.Metadata[PublicKey].(bool)

	return ok && public
}
