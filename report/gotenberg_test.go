package report

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGotenberg(t *testing.T, healthy bool) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/health":
			if !healthy {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			_, _ = io.WriteString(w, `{"status":"up"}`)
		case "/forms/chromium/convert/html":
			if err := r.ParseMultipartForm(1 << 20); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			file, _, err := r.FormFile("files")
			if err != nil || r.FormValue("printBackground") != "true" {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = io.WriteString(w, "missing form parts")
				return
			}
			html, _ := io.ReadAll(file)
			_, _ = w.Write(append([]byte("PDF:"), html...))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRenderHTML(t *testing.T) {
	srv := newGotenberg(t, true)
	client := NewClient(srv.URL+"/", time.Second)

	pdf, err := client.RenderHTML(context.Background(), "<h1>Resumen</h1>")
	require.NoError(t, err)
	assert.Equal(t, "PDF:<h1>Resumen</h1>", string(pdf))
}

func TestRenderHTMLErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, "chromium crashed")
	}))
	t.Cleanup(srv.Close)

	_, err := NewClient(srv.URL, time.Second).RenderHTML(context.Background(), "<p></p>")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chromium crashed")
}

func TestPingHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	for _, tc := range []struct {
		healthy bool
		status  int
	}{{true, http.StatusOK}, {false, http.StatusServiceUnavailable}} {
		srv := newGotenberg(t, tc.healthy)
		r := chi.NewRouter()
		NewHandler(NewClient(srv.URL, time.Second), logger).MountRoutes(r)

		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/ping", nil))
		assert.Equal(t, tc.status, rr.Code)
	}

	r := chi.NewRouter()
	NewHandler(nil, logger).MountRoutes(r)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}
