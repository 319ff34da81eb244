package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

type fakeChecker struct {
	status  string
	message string
}

func (f fakeChecker) CheckReady() (string, string) {
	return f.status, f.message
}

func TestHealthReady(t *testing.T) {
	tests := []struct {
		name       string
		checker    ReadinessChecker
		wantStatus int
		wantBody   string
	}{
		{"ok", fakeChecker{status: "ok"}, http.StatusOK, "ok"},
		{"degraded", fakeChecker{status: "degraded", message: "медленно"}, http.StatusOK, "degraded"},
		{"fail", fakeChecker{status: "fail", message: "нет соединения"}, http.StatusServiceUnavailable, "fail"},
		{"без checker", nil, http.StatusServiceUnavailable, "fail"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler(tt.checker)
			rec := httptest.NewRecorder()
			h.HealthReady(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

			if rec.Code != tt.wantStatus {
				t.Errorf("статус %d, ожидался %d", rec.Code, tt.wantStatus)
			}
			var resp healthReadyResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.Status != tt.wantBody {
				t.Errorf("status = %q, ожидался %q", resp.Status, tt.wantBody)
			}
			if resp.Service != serviceName {
				t.Errorf("service = %q", resp.Service)
			}
		})
	}
}

type fakeDeps map[string]bool

func (f fakeDeps) Health() map[string]bool { return f }

func TestHealthReady_Dependencies(t *testing.T) {
	tests := []struct {
		name       string
		pg         fakeChecker
		deps       fakeDeps
		wantStatus int
		wantBody   string
	}{
		{"все ok", fakeChecker{status: "ok"}, fakeDeps{"postgresql": true, "jwks": true}, http.StatusOK, "ok"},
		{"jwks недоступен", fakeChecker{status: "ok"}, fakeDeps{"postgresql": true, "jwks": false}, http.StatusOK, "degraded"},
		{"проверок ещё не было", fakeChecker{status: "ok"}, fakeDeps{}, http.StatusOK, "ok"},
		{"ping упал", fakeChecker{status: "fail"}, fakeDeps{"postgresql": true}, http.StatusServiceUnavailable, "fail"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler(tt.pg)
			h.SetDependencies(tt.deps)
			rec := httptest.NewRecorder()
			h.HealthReady(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

			if rec.Code != tt.wantStatus {
				t.Errorf("статус %d, ожидался %d", rec.Code, tt.wantStatus)
			}
			var resp healthReadyResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.Status != tt.wantBody {
				t.Errorf("status = %q, ожидался %q", resp.Status, tt.wantBody)
			}
			for name, ok := range tt.deps {
				if got, present := resp.Dependencies[name]; !present || got != ok {
					t.Errorf("dependencies[%q] = %v (есть: %v), ожидалось %v", name, got, present, ok)
				}
			}
		})
	}
}

func TestHealthReady_NoDependenciesField(t *testing.T) {
	h := NewHealthHandler(fakeChecker{status: "ok"})
	rec := httptest.NewRecorder()
	h.HealthReady(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	var raw map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &raw); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, ok := raw["dependencies"]; ok {
		t.Errorf("без topologymetrics поле dependencies не выводится: %v", raw)
	}
}

func TestHealthLive(t *testing.T) {
	h := NewHealthHandler(nil)
	rec := httptest.NewRecorder()
	h.HealthLive(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("статус %d", rec.Code)
	}
	var resp healthLiveResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != "ok" {
		t.Errorf("status = %q", resp.Status)
	}
}

func TestOverallStatus(t *testing.T) {
	tests := []struct {
		in   []string
		want string
	}{
		{[]string{"ok"}, "ok"},
		{[]string{"ok", "degraded"}, "degraded"},
		{[]string{"degraded", "fail"}, "fail"},
		{nil, "ok"},
	}
	for _, tt := range tests {
		if got := overallStatus(tt.in...); got != tt.want {
			t.Errorf("overallStatus(%v) = %q, ожидалось %q", tt.in, got, tt.want)
		}
	}
}
