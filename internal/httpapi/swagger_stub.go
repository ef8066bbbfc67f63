//go:build !swagger

package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// MountSwagger answers /swagger requests with a JSON 404 naming the build tag
// that enables the UI.
func MountSwagger(r chi.Router) {
	notBuilt := func(w http.ResponseWriter, _ *http.Request) {
		writeJSONError(w, http.StatusNotFound, "swagger UI not built in; rebuild with -tags=swagger")
	}
	r.Get("/swagger", notBuilt)
	r.Get("/swagger/*", notBuilt)
}
