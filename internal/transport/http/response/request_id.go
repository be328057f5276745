package response

import (
	"net/http"

	pkgctx "github.com/syedmuhammadazwar/EasyKey-Backend/internal/pkg/context"
)

// RequestIDFromContext extracts the request id set by the request-id
// middleware, if any.
func RequestIDFromContext(r *http.Request) string {
	return pkgctx.GetRequestID(r.Context())
}
