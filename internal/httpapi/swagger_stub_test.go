//go:build !swagger

package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"seleniumd/pkg/types"
)

func TestSwaggerStub_ExplainsBuildTag(t *testing.T) {
	h := NewMux(&mockService{})
	for _, path := range []string{"/swagger", "/swagger/index.html"} {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
		if rr.Code != http.StatusNotFound {
			t.Fatalf("%s: status = %d", path, rr.Code)
		}
		var body types.ErrorResponse
		if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
			t.Fatalf("%s: decode: %v", path, err)
		}
		if !strings.Contains(body.Error, "-tags=swagger") {
			t.Fatalf("%s: error = %q", path, body.Error)
		}
	}
}
