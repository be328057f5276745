package middleware

import (
	"net/http"

	"github.com/google/uuid"

	appCtx "github.com/syedmuhammadazwar/EasyKey-Backend/internal/pkg/context"
)

const HeaderXRequestID = "X-Request-Id"

// RequestID honors an inbound X-Request-Id (terminals send their own so
// kiosk logs correlate with ours) and mints a uuid otherwise. The id is
// echoed on the response and stamped on the request context.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get(HeaderXRequestID)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		w.Header().Set(HeaderXRequestID, reqID)

		ctx := appCtx.WithRequestID(r.Context(), reqID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
