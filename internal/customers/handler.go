package customers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/lamdaser/statements/internal/platform/httpx"
	"github.com/lamdaser/statements/internal/view"
)

type Handler struct {
	logger    *slog.Logger
	service   *Service
	templates *view.Engine
}

func NewHandler(logger *slog.Logger, service *Service, templates *view.Engine) *Handler {
	return &Handler{logger: logger, service: service, templates: templates}
}

// SearchPage is the data of the search template.
type SearchPage struct {
	Term    string
	Results []Customer
}

func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	term := strings.TrimSpace(r.URL.Query().Get("q"))
	results, err := h.service.Search(r.Context(), term)
	if err != nil {
		h.logger.Error("search customers failed", "error", err)
		httpx.RespondError(w, fmt.Errorf("%w: %v", httpx.ErrUpstream, err))
		return
	}
	httpx.JSON(w, http.StatusOK, results)
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid customer ID", err.Error())
		return
	}
	customer, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.respondError(w, err, id)
		return
	}
	httpx.JSON(w, http.StatusOK, customer)
}

func (h *Handler) SearchForm(w http.ResponseWriter, r *http.Request) {
	term := strings.TrimSpace(r.URL.Query().Get("q"))
	results, err := h.service.Search(r.Context(), term)
	if err != nil {
		h.logger.Error("search customers failed", "error", err)
		http.Error(w, "No se pudo cargar la lista de clientes", http.StatusBadGateway)
		return
	}
	if err := h.templates.Render(w, "pages/search", view.TemplateData{
		Title:       "Clientes",
		CurrentPath: r.URL.Path,
		Data:        SearchPage{Term: term, Results: results},
	}); err != nil {
		h.logger.Error("render search page failed", "error", err)
	}
}

func (h *Handler) respondError(w http.ResponseWriter, err error, id int64) {
	if errors.Is(err, ErrCustomerNotFound) {
		httpx.RespondError(w, fmt.Errorf("%w: customer %d", httpx.ErrNotFound, id))
		return
	}
	h.logger.Error("get customer failed", "error", err, "id", id)
	httpx.RespondError(w, fmt.Errorf("%w: %v", httpx.ErrUpstream, err))
}
