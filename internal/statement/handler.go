package statement

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/lamdaser/statements/internal/customers"
	"github.com/lamdaser/statements/internal/ledger"
	"github.com/lamdaser/statements/internal/platform/httpx"
	"github.com/lamdaser/statements/internal/upstream"
)

// ExportObserver is told about every export attempt.
type ExportObserver interface {
	ObserveExport(format string, err error)
}

type Handler struct {
	logger   *slog.Logger
	service  *Service
	exporter *Exporter
	validate *validator.Validate
	observer ExportObserver
}

func NewHandler(logger *slog.Logger, service *Service, exporter *Exporter) *Handler {
	return &Handler{logger: logger, service: service, exporter: exporter, validate: validator.New()}
}

// WithExportObserver attaches o to the export endpoint.
func (h *Handler) WithExportObserver(o ExportObserver) *Handler {
	h.observer = o
	return h
}

func (h *Handler) observe(format Format, err error) {
	if h.observer != nil {
		h.observer.ObserveExport(string(format), err)
	}
}

// Response is the JSON form of a statement.
type Response struct {
	Customer         customers.Customer                `json:"cliente"`
	GeneratedAt      time.Time                         `json:"generated_at"`
	Filter           ledger.FilterState                `json:"filter"`
	FinalBalance     decimal.Decimal                   `json:"final_balance"`
	ProjectedBalance decimal.Decimal                   `json:"projected_balance"`
	Months           []ledger.MonthGroup               `json:"months"`
	Opening          *ledger.Movement                  `json:"opening,omitempty"`
	Aging            []ledger.AgingEntry               `json:"aging"`
	Analysis         []ledger.AnalysisRow              `json:"analysis"`
	Details          map[int64][]ledger.MovementDetail `json:"details"`
	Warning          string                            `json:"warning,omitempty"`
}

// NewResponse flattens a view for JSON clients. Aging entries are listed
// most recent invoice first.
func NewResponse(v View) Response {
	aging := make([]ledger.AgingEntry, 0, len(v.Result.Aging))
	for _, e := range v.Result.Aging {
		aging = append(aging, e)
	}
	sort.Slice(aging, func(i, j int) bool { return aging[i].SequenceIndex > aging[j].SequenceIndex })
	analysis := v.Result.Analysis
	if analysis == nil {
		analysis = []ledger.AnalysisRow{}
	}
	return Response{
		Customer:         v.Customer,
		GeneratedAt:      v.GeneratedAt,
		Filter:           v.Result.Filter,
		FinalBalance:     v.Result.FinalBalance,
		ProjectedBalance: v.Result.ProjectedBalance,
		Months:           v.Result.Display.Months,
		Opening:          v.Result.Display.Opening,
		Aging:            aging,
		Analysis:         analysis,
		Details:          v.Details,
		Warning:          v.Warning,
	}
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	v, ok := h.load(w, r)
	if !ok {
		return
	}
	httpx.JSON(w, http.StatusOK, NewResponse(v))
}

func (h *Handler) Page(w http.ResponseWriter, r *http.Request) {
	v, ok := h.load(w, r)
	if !ok {
		return
	}
	doc := BuildDocument(v, h.service.DocumentOptions())
	if err := h.exporter.Render(r.Context(), w, FormatHTML, doc); err != nil {
		h.logger.Error("render statement page failed", "error", err, "customer_id", v.Customer.Number)
	}
}

func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	format, err := ParseFormat(chi.URLParam(r, "format"))
	if err != nil || format == FormatHTML {
		httpx.RespondError(w, fmt.Errorf("%w: unsupported export format", httpx.ErrNotFound))
		return
	}
	v, ok := h.load(w, r)
	if !ok {
		return
	}
	doc := BuildDocument(v, h.service.DocumentOptions())
	var buf bytes.Buffer
	err = h.exporter.Render(r.Context(), &buf, format, doc)
	h.observe(format, err)
	if err != nil {
		h.logger.Error("export statement failed", "error", err, "format", format, "customer_id", v.Customer.Number)
		if errors.Is(err, ErrUnsupportedFormat) {
			httpx.Problem(w, http.StatusServiceUnavailable, "Export Unavailable", err.Error())
			return
		}
		httpx.RespondError(w, fmt.Errorf("%w: %v", httpx.ErrUpstream, err))
		return
	}
	h.logger.Info("statement exported", "customer_id", v.Customer.Number, "format", format, "bytes", buf.Len())
	httpx.Attachment(w, format.ContentType(), doc.FilenameFor(format), buf.Bytes())
}

func (h *Handler) load(w http.ResponseWriter, r *http.Request) (View, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid customer ID", err.Error())
		return View{}, false
	}
	filter, err := QueryFromValues(r.URL.Query()).FilterState(h.validate, h.service.opts.Location)
	if err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %v", httpx.ErrValidation, err))
		return View{}, false
	}
	v, err := h.service.Statement(r.Context(), id, filter)
	if err != nil {
		h.respondError(w, err, id)
		return View{}, false
	}
	return v, true
}

func (h *Handler) respondError(w http.ResponseWriter, err error, id int64) {
	switch {
	case errors.Is(err, customers.ErrCustomerNotFound):
		httpx.RespondError(w, fmt.Errorf("%w: customer %d", httpx.ErrNotFound, id))
	case errors.Is(err, upstream.ErrUnavailable), errors.Is(err, upstream.ErrNotFound):
		h.logger.Error("load statement failed", "error", err, "customer_id", id)
		httpx.RespondError(w, fmt.Errorf("%w: %v", httpx.ErrUpstream, err))
	default:
		h.logger.Error("load statement failed", "error", err, "customer_id", id)
		httpx.RespondError(w, err)
	}
}
