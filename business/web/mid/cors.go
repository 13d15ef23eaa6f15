package mid

import (
	"context"
	"net/http"

	"github.com/ardanlabs/ledger/foundation/web"
)

// Headers a browser client of the node API is allowed to send.
const (
	corsMethods = "GET, POST, OPTIONS"
	corsHeaders = "Origin, Accept, Content-Type, Content-Length, Accept-Encoding"
)

// Cors lets a browser on the configured origin call the node API. Only reads
// and the JSON posts the node accepts are advertised. A specific origin
// also sets Vary so shared caches key the response by origin.
func Cors(origin string) web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			hdr := w.Header()
			hdr.Set("Access-Control-Allow-Origin", origin)
			hdr.Set("Access-Control-Allow-Methods", corsMethods)
			hdr.Set("Access-Control-Allow-Headers", corsHeaders)
			if origin != "*" {
				hdr.Add("Vary", "Origin")
			}

			return handler(ctx, w, r)
		}

		return h
	}

	return m
}
