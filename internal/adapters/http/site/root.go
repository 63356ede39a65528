// Package site serves the embedded landing page that links the API
// documentation and the JSON endpoints.
package site

import (
	"context"
	"net/http"
)

// Register attaches the landing page at / and its assets under /assets/.
// Other unmatched paths stay 404.
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}

	files := http.FileServer(FS())
	mux.Handle("GET /{$}", files)
	mux.Handle("GET /assets/", files)
}
