package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestOpenAPISpec(t *testing.T) {
	handler := handleOpenAPI()
	w := httptest.NewRecorder()
	handler(w, httptest.NewRequest(http.MethodGet, "/openapi.json", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "application/json") {
		t.Errorf("unexpected content type %q", ct)
	}

	var doc struct {
		OpenAPI string                     `json:"openapi"`
		Info    struct{ Title string }     `json:"info"`
		Paths   map[string]json.RawMessage `json:"paths"`
	}
	if err := json.NewDecoder(w.Body).Decode(&doc); err != nil {
		t.Fatalf("decoding spec: %v", err)
	}

	if doc.Info.Title != "LiveQuiz API" {
		t.Errorf("title = %q", doc.Info.Title)
	}

	for _, path := range []string{
		"/healthz",
		"/api/games",
		"/api/games/{gameID}",
		"/api/games/{gameID}/join",
		"/api/games/{gameID}/start",
		"/api/games/{gameID}/advance",
		"/api/games/{gameID}/answers",
		"/api/games/{gameID}/events",
	} {
		if _, ok := doc.Paths[path]; !ok {
			t.Errorf("spec is missing path %s", path)
		}
	}
}
