package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestLiveness(t *testing.T) {
	e := newTestEcho()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	serve(e, NewHealthHandler().Liveness, e.NewContext(req, rec))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestReadiness(t *testing.T) {
	tests := []struct {
		name     string
		checks   map[string]CheckFunc
		wantCode int
		want     string
	}{
		{
			name: "all healthy",
			checks: map[string]CheckFunc{
				"mongo": func(context.Context) error { return nil },
				"redis": func(context.Context) error { return nil },
			},
			wantCode: http.StatusOK,
			want:     `"status":"ok"`,
		},
		{
			name: "one down",
			checks: map[string]CheckFunc{
				"mongo": func(context.Context) error { return errors.New("server selection error: 10.0.0.9") },
				"redis": func(context.Context) error { return nil },
			},
			wantCode: http.StatusServiceUnavailable,
			want:     `"mongo":{"status":"unhealthy"}`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e := newTestEcho()
			req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
			rec := httptest.NewRecorder()

			serve(e, NewReadinessHandler(tc.checks, zerolog.Nop()).Readiness, e.NewContext(req, rec))

			if rec.Code != tc.wantCode {
				t.Fatalf("expected %d, got %d", tc.wantCode, rec.Code)
			}
			if !strings.Contains(rec.Body.String(), tc.want) {
				t.Fatalf("expected %s in %s", tc.want, rec.Body.String())
			}
			if strings.Contains(rec.Body.String(), "10.0.0.9") {
				t.Fatalf("failure cause leaked: %s", rec.Body.String())
			}
		})
	}
}
