package middleware

import (
	stdhttp "net/http"
	"runtime/debug"

	perr "hnagent/internal/platform/errors"
	"hnagent/internal/platform/logger"
	phttp "hnagent/internal/platform/net/http"
	pnet "hnagent/internal/platform/net"
)

// RecoverJSON converts panics into a JSON 500 envelope and logs the stack with the request id
func RecoverJSON(next stdhttp.Handler) stdhttp.Handler {
	return stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		defer func() {
			v := recover()
			if v == nil {
				return
			}
			if v == stdhttp.ErrAbortHandler {
				panic(v)
			}
			reqID := pnet.RequestID(r.Context())
			logger.C(r.Context()).Error().
				Interface("panic", v).
				Str("stack", string(debug.Stack())).
				Msg("panic recovered")

			if reqID != "" {
				w.Header().Set("X-Request-ID", reqID)
			}
			status := stdhttp.StatusInternalServerError
			wr := perr.WireFrom(perr.PanicErrf("panic recovered"))
			phttp.JSON(w, status, phttp.Envelope{
				StatusCode: status,
				Status:     stdhttp.StatusText(status),
				Code:       wr.Code,
				Error:      wr.Message,
				RequestID:  reqID,
			})
		}()
		next.ServeHTTP(w, r)
	})
}
