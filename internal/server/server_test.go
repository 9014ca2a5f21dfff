package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lukas-hzb/geometa/internal/model"
	"github.com/lukas-hzb/geometa/internal/scope"
)

func testHandler() http.Handler {
	return New(Options{AllowedOrigins: []string{"https://www.geoguessr.com"}})
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	rec := do(t, testHandler(), http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestClassify_SynthesizesTitle(t *testing.T) {
	rec := do(t, testHandler(), http.MethodPost, "/v1/classify",
		`{"description":"The licence plates have a blue strip","country":"Kyrgyzstan"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var got ClassifyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))

	assert.Equal(t, model.ScopeCountrywide, got.Scope)
	assert.Equal(t, scope.TierNationalPattern, got.ScopeTier)
	assert.Contains(t, got.Tags, model.TagPlates)
	assert.NotEmpty(t, got.Title)
	assert.NotEmpty(t, got.TitleRule)
	assert.Equal(t, "KG", got.CountryCode)

	want := Classify(ClassifyRequest{Description: "The licence plates have a blue strip", Country: "Kyrgyzstan"})
	assert.Equal(t, want, got)
}

func TestClassify_EchoesExistingTitle(t *testing.T) {
	rec := do(t, testHandler(), http.MethodPost, "/v1/classify",
		`{"title":"My Title","description":"Birch trees line the road"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var got ClassifyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "My Title", got.Title)
	assert.Empty(t, got.TitleRule)
	assert.Empty(t, got.CountryCode)
	assert.Contains(t, got.Tags, model.TagPlants)
}

func TestClassify_EmptyRecord(t *testing.T) {
	got := Classify(ClassifyRequest{})
	assert.NotNil(t, got.Tags)
	assert.Empty(t, got.Tags)
	assert.NotEmpty(t, got.Title)
	assert.True(t, got.Scope.Valid())
}

func TestClassify_InvalidBody(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed", `{"description":`},
		{"wrong type", `{"description": 42}`},
		{"empty", ``},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, testHandler(), http.MethodPost, "/v1/classify", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), "invalid request body")
		})
	}
}

func TestClassify_MethodNotAllowed(t *testing.T) {
	rec := do(t, testHandler(), http.MethodGet, "/v1/classify", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestVocabulary(t *testing.T) {
	rec := do(t, testHandler(), http.MethodGet, "/v1/vocabulary", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got Vocabulary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, model.Scopes(), got.Scopes)
	assert.Len(t, got.Tags, len(model.Tags()))
}

func TestRateLimit(t *testing.T) {
	h := New(Options{RateLimit: 0.001, Burst: 2})

	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/health", "").Code)
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/health", "").Code)

	rec := do(t, h, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
}

func TestCORS(t *testing.T) {
	h := testHandler()

	req := httptest.NewRequest(http.MethodOptions, "/v1/classify", nil)
	req.Header.Set("Origin", "https://www.geoguessr.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "https://www.geoguessr.com", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
