package security

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestExtractClientIP(t *testing.T) {
	resolver := NewResolver()

	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		want       string
	}{
		{
			name:       "direct connection",
			remoteAddr: "203.0.113.9:51234",
			want:       "203.0.113.9",
		},
		{
			name:       "forwarded header from trusted proxy",
			remoteAddr: "127.0.0.1:8080",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.9, 10.0.0.1"},
			want:       "203.0.113.9",
		},
		{
			name:       "forwarded header from untrusted peer ignored",
			remoteAddr: "203.0.113.50:443",
			headers:    map[string]string{"X-Forwarded-For": "1.2.3.4"},
			want:       "203.0.113.50",
		},
		{
			name:       "x-real-ip from trusted proxy",
			remoteAddr: "192.168.1.10:9000",
			headers:    map[string]string{"X-Real-IP": "203.0.113.77"},
			want:       "203.0.113.77",
		},
		{
			name:       "garbage forwarded value falls back to peer",
			remoteAddr: "10.0.0.5:1234",
			headers:    map[string]string{"X-Forwarded-For": "not-an-ip"},
			want:       "10.0.0.5",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			if got := resolver.ExtractClientIP(r); got != tt.want {
				t.Fatalf("ExtractClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAddTrustedProxy(t *testing.T) {
	resolver := NewResolver()

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "100.64.0.1:443"
	r.Header.Set("X-Forwarded-For", "203.0.113.9")

	// Not trusted yet: the forwarded header is ignored.
	if got := resolver.ExtractClientIP(r); got != "100.64.0.1" {
		t.Fatalf("ExtractClientIP() = %q, want peer address", got)
	}

	if err := resolver.AddTrustedProxy("100.64.0.0/10"); err != nil {
		t.Fatalf("AddTrustedProxy: %v", err)
	}
	if got := resolver.ExtractClientIP(r); got != "203.0.113.9" {
		t.Fatalf("ExtractClientIP() after trusting peer = %q, want forwarded address", got)
	}

	if err := resolver.AddTrustedProxy("not-a-cidr"); err == nil {
		t.Fatalf("expected error for malformed CIDR")
	}
}

func TestHeadersMiddleware(t *testing.T) {
	handler := Headers(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Fatalf("X-Content-Type-Options = %q", got)
	}
	if got := rec.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Fatalf("X-Frame-Options = %q", got)
	}
	if got := rec.Header().Get("Strict-Transport-Security"); got != "" {
		t.Fatalf("HSTS should not be set on plain HTTP, got %q", got)
	}
}
