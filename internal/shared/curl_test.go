package shared

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"
)

func TestParseCurlCommand(t *testing.T) {
	tt := []struct {
		name        string
		curlCmd     string
		wantHeaders map[string]string
		wantCookie  string
		wantErr     bool
	}{
		{
			name:    "single header with single quotes",
			curlCmd: `curl -H 'Authorization: Bearer token123' https://cms.example.edu/api/classes`,
			wantHeaders: map[string]string{
				"Authorization": "Bearer token123",
			},
		},
		{
			name:    "multiple headers",
			curlCmd: `curl -H 'Content-Type: application/json' -H "X-CSRF-Token: tok" https://cms.example.edu/api/classes`,
			wantHeaders: map[string]string{
				"Content-Type": "application/json",
				"X-CSRF-Token": "tok",
			},
		},
		{
			name:        "cookie via -b flag",
			curlCmd:     `curl -b 'session=abc123' https://cms.example.edu`,
			wantHeaders: map[string]string{},
			wantCookie:  "session=abc123",
		},
		{
			name:        "cookie via header",
			curlCmd:     `curl -H 'Cookie: session=xyz' https://cms.example.edu`,
			wantHeaders: map[string]string{},
			wantCookie:  "session=xyz",
		},
		{
			name: "multiline command",
			curlCmd: `curl 'https://cms.example.edu/api/lessons' \
  -H 'Accept: application/json' \
  -b 'session=multi'`,
			wantHeaders: map[string]string{
				"Accept": "application/json",
			},
			wantCookie: "session=multi",
		},
		{
			name:    "no headers",
			curlCmd: `curl https://cms.example.edu`,
			wantErr: true,
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseCurlCommand([]byte(tc.curlCmd))
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if len(got.Headers) != len(tc.wantHeaders) {
				t.Errorf("got %d headers, want %d", len(got.Headers), len(tc.wantHeaders))
			}
			for k, want := range tc.wantHeaders {
				if got.Headers[k] != want {
					t.Errorf("header %s = %q, want %q", k, got.Headers[k], want)
				}
			}
			if got.Cookie != tc.wantCookie {
				t.Errorf("cookie = %q, want %q", got.Cookie, tc.wantCookie)
			}
		})
	}
}

func TestParseCurlFile(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "session.sh")
	cmd := `curl -H 'Authorization: Bearer filetoken' -b 'session=fromfile' https://cms.example.edu`
	if err := os.WriteFile(path, []byte(cmd), 0644); err != nil {
		t.Fatalf("failed to write curl file: %v", err)
	}

	got, err := ParseCurlFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Headers["Authorization"] != "Bearer filetoken" {
		t.Errorf("unexpected authorization header: %q", got.Headers["Authorization"])
	}

	if _, err := ParseCurlFile(filepath.Join(tmpDir, "missing.sh")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestSessionHeadersApply(t *testing.T) {
	s := &SessionHeaders{
		Headers: map[string]string{"X-CSRF-Token": "tok"},
		Cookie:  "session=abc",
	}

	h := make(http.Header)
	s.Apply(h)

	if h.Get("X-CSRF-Token") != "tok" {
		t.Errorf("expected X-CSRF-Token to be applied, got %q", h.Get("X-CSRF-Token"))
	}
	if h.Get("Cookie") != "session=abc" {
		t.Errorf("expected Cookie to be applied, got %q", h.Get("Cookie"))
	}
}
