//go:build swagger

package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger"
	"github.com/swaggo/swag"
)

// openAPIDoc is a hand-kept OpenAPI document served until `swag init` output is wired in.
const openAPIDoc = `{
  "swagger": "2.0",
  "info": {"title": "seleniumd API", "version": "1.0",
    "description": "Start, stop and inspect supervised Selenium server processes."},
  "basePath": "/",
  "paths": {
    "/targets": {"get": {"summary": "List targets", "tags": ["targets"], "produces": ["application/json"],
      "responses": {"200": {"description": "OK"}}}},
    "/targets/{target}": {"get": {"summary": "Target status", "tags": ["targets"], "produces": ["application/json"],
      "parameters": [{"name": "target", "in": "path", "required": true, "type": "string"}],
      "responses": {"200": {"description": "OK"}, "404": {"description": "Unknown target"}}}},
    "/targets/{target}/start": {"post": {"summary": "Start a target", "tags": ["targets"], "produces": ["application/json"],
      "parameters": [{"name": "target", "in": "path", "required": true, "type": "string"}],
      "responses": {"200": {"description": "Ready"}, "404": {"description": "Unknown target"},
        "409": {"description": "Startup failed"}, "502": {"description": "Spawn or download failed"},
        "504": {"description": "Startup timed out"}}}},
    "/targets/{target}/stop": {"post": {"summary": "Stop a target", "tags": ["targets"], "produces": ["application/json"],
      "parameters": [{"name": "target", "in": "path", "required": true, "type": "string"}],
      "responses": {"202": {"description": "Signal sent"}, "404": {"description": "Not running"}}}}
  }
}`

type staticDoc struct{}

func (staticDoc) ReadDoc() string { return openAPIDoc }

func init() {
	swag.Register(swag.Name, staticDoc{})
}

// MountSwagger serves the Swagger UI under /swagger/.
func MountSwagger(r chi.Router) {
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/swagger/index.html", http.StatusMovedPermanently)
	})
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
}
