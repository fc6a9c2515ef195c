package chi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestAPIKeyAuth(t *testing.T) {
	tests := []struct {
		name    string
		keys    []string
		method  string
		path    string
		header  string
		want    int
		message string
	}{
		{name: "no keys configured", keys: nil, path: "/api/search", want: http.StatusOK},
		{name: "only blank keys", keys: []string{"", "  "}, path: "/api/search", want: http.StatusOK},
		{name: "missing header", keys: []string{"secret"}, path: "/api/search",
			want: http.StatusUnauthorized, message: "missing authorization header"},
		{name: "basic scheme", keys: []string{"secret"}, path: "/api/search", header: "Basic c2VjcmV0",
			want: http.StatusUnauthorized, message: "authorization header must use Bearer scheme"},
		{name: "wrong key", keys: []string{"secret"}, path: "/api/search", header: "Bearer nope",
			want: http.StatusUnauthorized, message: "invalid api key"},
		{name: "valid key", keys: []string{"secret"}, path: "/api/search", header: "Bearer secret", want: http.StatusOK},
		{name: "second key", keys: []string{"k1", "k2"}, path: "/api/transcript", header: "Bearer k2", want: http.StatusOK},
		{name: "scheme is case-insensitive", keys: []string{"secret"}, path: "/api/search", header: "bearer secret",
			want: http.StatusOK},
		{name: "health is public", keys: []string{"secret"}, method: http.MethodGet, path: "/health", want: http.StatusOK},
		{name: "metrics is public", keys: []string{"secret"}, method: http.MethodGet, path: "/metrics", want: http.StatusOK},
		{name: "ui is public", keys: []string{"secret"}, method: http.MethodGet, path: "/", want: http.StatusOK},
		{name: "assets are public", keys: []string{"secret"}, method: http.MethodGet, path: "/static/app.js",
			want: http.StatusOK},
		{name: "preflight passes", keys: []string{"secret"}, method: http.MethodOptions, path: "/api/search",
			want: http.StatusOK},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			method := tc.method
			if method == "" {
				method = http.MethodPost
			}
			req := httptest.NewRequest(method, tc.path, http.NoBody)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rr := httptest.NewRecorder()
			APIKeyAuth(tc.keys)(okHandler).ServeHTTP(rr, req)

			if rr.Code != tc.want {
				t.Fatalf("expected status %d, got %d", tc.want, rr.Code)
			}
			if tc.want != http.StatusUnauthorized {
				return
			}
			if got := rr.Header().Get("WWW-Authenticate"); !strings.Contains(got, "Bearer") {
				t.Errorf("expected Bearer challenge, got %q", got)
			}

			var body errorResponse
			if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if body.Error != CategoryUnauthorized {
				t.Errorf("expected error %q, got %q", CategoryUnauthorized, body.Error)
			}
			if body.Message != tc.message {
				t.Errorf("expected message %q, got %q", tc.message, body.Message)
			}
		})
	}
}
