package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func doRequest(handler http.Handler, remoteAddr string) int {
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.RemoteAddr = remoteAddr
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec.Code
}

func TestIPRateLimiter_AllowsWithinBurst(t *testing.T) {
	rl := NewIPRateLimiter(1, 3)
	handler := rl.Limit(okHandler())

	for i := 0; i < 3; i++ {
		if code := doRequest(handler, "10.0.0.1:1234"); code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want 200", i, code)
		}
	}
}

func TestIPRateLimiter_RejectsOverBurst(t *testing.T) {
	rl := NewIPRateLimiter(0.001, 2)
	handler := rl.Limit(okHandler())

	doRequest(handler, "10.0.0.2:1234")
	doRequest(handler, "10.0.0.2:1234")
	if code := doRequest(handler, "10.0.0.2:1234"); code != http.StatusTooManyRequests {
		t.Errorf("status = %d, want 429", code)
	}
}

func TestIPRateLimiter_PerIPIsolation(t *testing.T) {
	rl := NewIPRateLimiter(0.001, 1)
	handler := rl.Limit(okHandler())

	if code := doRequest(handler, "10.0.0.3:1234"); code != http.StatusOK {
		t.Fatalf("first ip: status = %d, want 200", code)
	}
	if code := doRequest(handler, "10.0.0.3:1234"); code != http.StatusTooManyRequests {
		t.Fatalf("first ip second request: status = %d, want 429", code)
	}
	// 別のIPは独立したバケット
	if code := doRequest(handler, "10.0.0.4:1234"); code != http.StatusOK {
		t.Errorf("second ip: status = %d, want 200", code)
	}
}

func TestExtractIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		want       string
	}{
		{
			name:       "remote addr",
			remoteAddr: "192.168.1.5:4321",
			want:       "192.168.1.5",
		},
		{
			name:       "x-forwarded-for single",
			remoteAddr: "10.0.0.1:1234",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.7"},
			want:       "203.0.113.7",
		},
		{
			name:       "x-forwarded-for list uses first",
			remoteAddr: "10.0.0.1:1234",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.1"},
			want:       "203.0.113.7",
		},
		{
			name:       "x-real-ip",
			remoteAddr: "10.0.0.1:1234",
			headers:    map[string]string{"X-Real-IP": "198.51.100.2"},
			want:       "198.51.100.2",
		},
		{
			name:       "garbage forwarded header falls back",
			remoteAddr: "192.168.1.5:4321",
			headers:    map[string]string{"X-Forwarded-For": "not-an-ip"},
			want:       "192.168.1.5",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			if got := extractIP(req); got != tt.want {
				t.Errorf("extractIP = %q, want %q", got, tt.want)
			}
		})
	}
}
