package response

import (
	"net/http"

	appctx "github.com/iusta/account-service/internal/pkg/context"
)

// RequestIDFromContext extracts the request id for inclusion in error payloads.
func RequestIDFromContext(r *http.Request) string {
	if r == nil {
		return ""
	}
	return appctx.GetRequestID(r.Context())
}
