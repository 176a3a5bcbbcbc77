// Package proxy serves the passthrough query endpoint used by the front-end.
package proxy

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/lamdaser/statements/internal/platform/httpx"
)

// Envelope is the response shape of the query endpoint.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    []any  `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

const (
	messageOK     = "Consulta exitosa"
	messageFailed = "Error en la consulta"
)

// Handler forwards /consulta to the query backend.
type Handler struct {
	backend    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewHandler builds the handler. An empty backend answers with an empty
// result set.
func NewHandler(backend string, timeout time.Duration, logger *slog.Logger) *Handler {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		backend:    strings.TrimRight(backend, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// MountRoutes registers the query route.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/consulta", h.Consulta)
}

// Consulta relays the request query string and returns the backend body.
func (h *Handler) Consulta(w http.ResponseWriter, r *http.Request) {
	if h.backend == "" {
		httpx.JSON(w, http.StatusOK, map[string]any{
			"success": true,
			"message": messageOK,
			"data":    []any{},
		})
		return
	}
	contentType, body, err := h.forward(r.Context(), r.URL.RawQuery)
	if err != nil {
		h.logger.Error("consulta backend", slog.Any("error", err))
		httpx.JSON(w, http.StatusInternalServerError, Envelope{Message: messageFailed, Error: err.Error()})
		return
	}
	if contentType == "" {
		contentType = "application/json"
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func (h *Handler) forward(ctx context.Context, rawQuery string) (string, []byte, error) {
	target := h.backend + "/consulta"
	if rawQuery != "" {
		target += "?" + rawQuery
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", nil, err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := h.httpClient.Do(req)
	if err != nil {
		return "", nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 400 {
		return "", nil, fmt.Errorf("backend returned status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", nil, err
	}
	return resp.Header.Get("Content-Type"), body, nil
}
