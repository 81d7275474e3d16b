package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestParseTrustedProxies(t *testing.T) {
	t.Parallel()

	nets, err := ParseTrustedProxies([]string{"10.0.0.0/8", " 127.0.0.1 ", "", "::1"})
	if err != nil {
		t.Fatalf("ParseTrustedProxies failed: %v", err)
	}
	if len(nets) != 3 {
		t.Fatalf("Expected 3 networks, got %d", len(nets))
	}

	for _, bad := range []string{"proxy.local", "10.0.0.0/99"} {
		if _, err := ParseTrustedProxies([]string{bad}); err == nil {
			t.Errorf("Expected an error for %q", bad)
		}
	}
}

func TestRealIP(t *testing.T) {
	t.Parallel()

	trusted, err := ParseTrustedProxies([]string{"10.0.0.0/8"})
	if err != nil {
		t.Fatalf("ParseTrustedProxies failed: %v", err)
	}

	tests := []struct {
		name   string
		remote string
		want   string
	}{
		{name: "trusted peer forwards", remote: "10.1.2.3:5000", want: "203.0.113.9"},
		{name: "untrusted peer keeps its address", remote: "198.51.100.4:5000", want: "198.51.100.4:5000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var got string
			h := RealIP(trusted)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = r.RemoteAddr
			}))
			req := httptest.NewRequest("GET", "/", nil)
			req.RemoteAddr = tt.remote
			req.Header.Set("X-Forwarded-For", "203.0.113.9")
			h.ServeHTTP(httptest.NewRecorder(), req)

			if got != tt.want {
				t.Errorf("Expected RemoteAddr %q, got %q", tt.want, got)
			}
		})
	}
}

func TestRealIP_NoTrustedProxies(t *testing.T) {
	t.Parallel()

	var got string
	h := RealIP(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.RemoteAddr
	}))
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("X-Real-IP", "203.0.113.9")
	h.ServeHTTP(httptest.NewRecorder(), req)

	if got != "192.0.2.1:1234" {
		t.Errorf("Expected the connection address, got %q", got)
	}
}
