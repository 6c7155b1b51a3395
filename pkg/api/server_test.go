package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fretwise/fretwise/pkg/config"
	"github.com/fretwise/fretwise/pkg/tab"
	"github.com/fretwise/fretwise/pkg/tab/export"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	// Metrics stay nil: promauto registers on the global registry, which
	// would collide across test runs.
	return NewServer(config.New(), zap.NewNop(), nil)
}

func TestHealthCheck(t *testing.T) {
	srv := newTestServer(t)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), "healthy") {
		t.Errorf("body = %q", w.Body.String())
	}
}

func TestListPresets(t *testing.T) {
	srv := newTestServer(t)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/presets", nil)
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var body struct {
		Presets []string `json:"presets"`
		Default string   `json:"default"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Default != "guitar" {
		t.Errorf("default preset = %q, want guitar", body.Default)
	}
	found := false
	for _, p := range body.Presets {
		if p == "drop-d" {
			found = true
		}
	}
	if !found {
		t.Errorf("presets %v missing drop-d", body.Presets)
	}
}

func TestConvertNoFile(t *testing.T) {
	srv := newTestServer(t)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/convert", nil)
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

// uploadMIDI posts a small generated MIDI file to the convert endpoint.
func uploadMIDI(t *testing.T, srv *Server, query string) *httptest.ResponseRecorder {
	t.Helper()
	tuning, err := tab.Preset("guitar")
	if err != nil {
		t.Fatal(err)
	}
	notes := []tab.TabNote{
		{String: 4, Fret: 1, Start: 0.0, End: 0.5, Pitch: 60, Velocity: 90},
		{String: 4, Fret: 3, Start: 0.5, End: 1.0, Pitch: 62, Velocity: 90},
	}
	data, err := export.MIDI(tuning, notes, 120)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "riff.mid")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := fw.Write(data); err != nil {
		t.Fatal(err)
	}
	mw.Close()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/convert"+query, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	srv.Router().ServeHTTP(w, req)
	return w
}

func TestConvertASCII(t *testing.T) {
	w := uploadMIDI(t, newTestServer(t), "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "Legend: s=slide, h=hammer-on, p=pull-off") {
		t.Errorf("ASCII output missing legend: %q", w.Body.String())
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID header")
	}
}

func TestConvertJSON(t *testing.T) {
	w := uploadMIDI(t, newTestServer(t), "?format=json")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var doc export.Document
	if err := json.Unmarshal(w.Body.Bytes(), &doc); err != nil {
		t.Fatalf("response is not a tab document: %v", err)
	}
	if len(doc.Notes) != 2 {
		t.Errorf("got %d notes, want 2", len(doc.Notes))
	}
}

func TestConvertMIDI(t *testing.T) {
	w := uploadMIDI(t, newTestServer(t), "?format=midi")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !bytes.HasPrefix(w.Body.Bytes(), []byte("MThd")) {
		t.Error("MIDI response does not start with SMF header")
	}
}

func TestConvertBadFormat(t *testing.T) {
	w := uploadMIDI(t, newTestServer(t), "?format=pdf")
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestConvertBadPreset(t *testing.T) {
	w := uploadMIDI(t, newTestServer(t), "?preset=banjo")
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}
