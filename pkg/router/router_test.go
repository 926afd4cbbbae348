package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchWildcard(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		pattern string
		matches bool
	}{
		{name: "exact", path: "/api/v1/analyses", pattern: "/api/v1/analyses", matches: true},
		{name: "one segment", path: "/api/v1/analyses/abc", pattern: "/api/v1/analyses/*", matches: true},
		{name: "trailing swallows rest", path: "/api/v1/download/abc/file.csv", pattern: "/api/v1/download/*", matches: true},
		{name: "mid wildcard", path: "/api/v1/analyses/abc/results", pattern: "/api/v1/analyses/*/results", matches: true},
		{name: "mid wildcard wrong suffix", path: "/api/v1/analyses/abc/logs", pattern: "/api/v1/analyses/*/results", matches: false},
		{name: "different prefix", path: "/api/v2/analyses/abc", pattern: "/api/v1/analyses/*", matches: false},
		{name: "length mismatch", path: "/api/v1/analyses", pattern: "/api/v1/analyses/*/results", matches: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.matches, matchWildcard(tt.path, tt.pattern))
		})
	}
}

func TestSpecificPatternWins(t *testing.T) {
	r := New()

	var hit string
	r.GET("/api/v1/analyses/*", func(w http.ResponseWriter, req *http.Request) { hit = "detail" })
	r.GET("/api/v1/analyses/*/results", func(w http.ResponseWriter, req *http.Request) { hit = "results" })

	req := httptest.NewRequest(http.MethodGet, "/api/v1/analyses/abc/results", nil)
	r.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "results", hit)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/analyses/abc", nil)
	r.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "detail", hit)
}

func TestDispatchStatusCodes(t *testing.T) {
	r := New()
	r.GET("/api/v1/analyses", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name     string
		method   string
		path     string
		expected int
	}{
		{name: "registered route", method: http.MethodGet, path: "/api/v1/analyses", expected: http.StatusOK},
		{name: "wrong method", method: http.MethodPut, path: "/api/v1/analyses", expected: http.StatusMethodNotAllowed},
		{name: "unknown path", method: http.MethodGet, path: "/api/v1/nothing", expected: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.expected, rec.Code)
		})
	}
}

func TestRegisterRecordsRoutes(t *testing.T) {
	r := New()
	r.POST("/api/v1/analyses", func(w http.ResponseWriter, req *http.Request) {})

	assert.Contains(t, r.Routes(), "POST:/api/v1/analyses")
	assert.True(t, r.Paths()["/api/v1/analyses"])
}
