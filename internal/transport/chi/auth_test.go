package chi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthMiddleware_Disabled(t *testing.T) {
	for name, keys := range map[string][]string{
		"nil":           nil,
		"empty strings": {"", ""},
	} {
		t.Run(name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			BearerAuthMiddleware(keys)(okHandler()).ServeHTTP(rr, httptest.NewRequest("GET", "/pets", http.NoBody))

			if rr.Code != http.StatusOK {
				t.Errorf("got %d, want %d", rr.Code, http.StatusOK)
			}
		})
	}
}

func TestAuthMiddleware(t *testing.T) {
	handler := BearerAuthMiddleware([]string{"key1", "key2"})(okHandler())

	tests := []struct {
		name    string
		path    string
		headers map[string]string
		want    int
		wantMsg string
	}{
		{name: "missing header", path: "/pets", want: http.StatusUnauthorized, wantMsg: "missing authorization header"},
		{
			name:    "basic scheme",
			path:    "/pets",
			headers: map[string]string{"Authorization": "Basic dXNlcjpwYXNz"},
			want:    http.StatusUnauthorized,
			wantMsg: "authorization header must use Bearer scheme",
		},
		{
			name:    "scheme without token",
			path:    "/pets",
			headers: map[string]string{"Authorization": "Bearer"},
			want:    http.StatusUnauthorized,
			wantMsg: "authorization header must use Bearer scheme",
		},
		{
			name:    "wrong key",
			path:    "/pets",
			headers: map[string]string{"Authorization": "Bearer wrong-key"},
			want:    http.StatusUnauthorized,
			wantMsg: "invalid api key",
		},
		{name: "first key", path: "/pets", headers: map[string]string{"Authorization": "Bearer key1"}, want: http.StatusOK},
		{name: "second key", path: "/pets/found", headers: map[string]string{"Authorization": "Bearer key2"}, want: http.StatusOK},
		{name: "lower-case scheme", path: "/pets", headers: map[string]string{"Authorization": "bearer key1"}, want: http.StatusOK},
		{name: "api key header", path: "/matches", headers: map[string]string{apiKeyHeader: "key2"}, want: http.StatusOK},
		{
			name:    "wrong api key header",
			path:    "/matches",
			headers: map[string]string{apiKeyHeader: "nope"},
			want:    http.StatusUnauthorized,
			wantMsg: "invalid api key",
		},
		{name: "health exempt", path: "/health", want: http.StatusOK},
		{name: "metrics exempt", path: "/metrics", want: http.StatusOK},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tc.path, http.NoBody)
			for k, v := range tc.headers {
				req.Header.Set(k, v)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			if rr.Code != tc.want {
				t.Fatalf("got %d, want %d", rr.Code, tc.want)
			}
			if tc.want != http.StatusUnauthorized {
				return
			}

			if rr.Header().Get("WWW-Authenticate") == "" {
				t.Error("expected WWW-Authenticate header")
			}
			var errResp errorResponse
			if err := json.NewDecoder(rr.Body).Decode(&errResp); err != nil {
				t.Fatalf("decode error response: %v", err)
			}
			if errResp.Code != codeUnauthorized || errResp.Message != tc.wantMsg {
				t.Errorf("error = %+v, want code %s message %q", errResp, codeUnauthorized, tc.wantMsg)
			}
		})
	}
}
