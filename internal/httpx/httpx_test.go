package httpx

import (
	"bytes"
	"compress/flate"
	"compress/gzip"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/andybalholm/brotli"
)

func encode(t *testing.T, encoding, body string) []byte {
	t.Helper()
	var buf bytes.Buffer
	switch encoding {
	case "gzip":
		w := gzip.NewWriter(&buf)
		_, _ = w.Write([]byte(body))
		_ = w.Close()
	case "br":
		w := brotli.NewWriter(&buf)
		_, _ = w.Write([]byte(body))
		_ = w.Close()
	case "deflate":
		w, err := flate.NewWriter(&buf, flate.DefaultCompression)
		if err != nil {
			t.Fatal(err)
		}
		_, _ = w.Write([]byte(body))
		_ = w.Close()
	default:
		buf.WriteString(body)
	}
	return buf.Bytes()
}

func TestGet_Encodings(t *testing.T) {
	const payload = `{"results":[]}`

	for _, enc := range []string{"", "gzip", "br", "deflate"} {
		name := enc
		if name == "" {
			name = "identity"
		}
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Header.Get("User-Agent") != UserAgent {
					t.Errorf("User-Agent = %q", r.Header.Get("User-Agent"))
				}
				if enc != "" {
					w.Header().Set("Content-Encoding", enc)
				}
				_, _ = w.Write(encode(t, enc, payload))
			}))
			defer srv.Close()

			body, err := Get(context.Background(), srv.Client(), srv.URL, "application/json")
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if string(body) != payload {
				t.Errorf("Get() = %q, want %q", body, payload)
			}
		})
	}
}

func TestGet_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "slow down", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := Get(context.Background(), srv.Client(), srv.URL, "")
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected *StatusError, got %v", err)
	}
	if se.StatusCode != http.StatusTooManyRequests {
		t.Errorf("StatusCode = %d, want %d", se.StatusCode, http.StatusTooManyRequests)
	}
}

func TestGet_CanceledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := Get(ctx, srv.Client(), srv.URL, ""); err == nil {
		t.Error("expected error for canceled context")
	}
}
