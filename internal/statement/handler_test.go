package statement

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lamdaser/statements/internal/ledger"
)

func newTestRouter(t *testing.T, exportsPerMinute int) http.Handler {
	t.Helper()
	svc := newFixtureService(newFixtureSource())
	h := NewHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), svc, newTestExporter(t, &stubPDF{}))
	r := chi.NewRouter()
	h.MountRoutes(r, exportsPerMinute)
	return r
}

func get(router http.Handler, target string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, target, nil))
	return rr
}

func TestStatementQueryFilterState(t *testing.T) {
	v := validator.New()

	f, err := StatementQuery{Filter: "saldo-cero"}.FilterState(v, art)
	require.NoError(t, err)
	assert.Equal(t, ledger.FromZeroBalance(), f)

	f, err = StatementQuery{From: "2025-02-01"}.FilterState(v, art)
	require.NoError(t, err)
	assert.Equal(t, ledger.FilterDateRange, f.Kind)
	require.NotNil(t, f.From)
	assert.Nil(t, f.To)

	_, err = StatementQuery{Filter: "todo"}.FilterState(v, art)
	assert.Error(t, err)
	_, err = StatementQuery{Filter: "rango", To: "31/01/2025"}.FilterState(v, art)
	assert.Error(t, err)
}

func TestShowEndpoint(t *testing.T) {
	router := newTestRouter(t, 0)

	rr := get(router, "/api/clientes/7/resumen")
	require.Equal(t, http.StatusOK, rr.Code)

	var body Response
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "500", body.FinalBalance.String())
	require.Len(t, body.Months, 2)
	require.NotNil(t, body.Opening)
	require.Len(t, body.Aging, 2)
	assert.Equal(t, int64(3), body.Aging[0].MovementID)
	assert.Empty(t, body.Warning)

	rr = get(router, "/api/clientes/7/resumen?filtro=saldo-cero")
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Nil(t, body.Opening)
}

func TestShowEndpointInvertedRange(t *testing.T) {
	router := newTestRouter(t, 0)

	rr := get(router, "/api/clientes/7/resumen?filtro=rango&desde=2025-03-01&hasta=2025-02-01")
	require.Equal(t, http.StatusOK, rr.Code)

	var body Response
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.NotEmpty(t, body.Warning)
	assert.Equal(t, ledger.FilterNone, body.Filter.Kind)
}

func TestShowEndpointErrors(t *testing.T) {
	router := newTestRouter(t, 0)

	assert.Equal(t, http.StatusNotFound, get(router, "/api/clientes/99/resumen").Code)
	assert.Equal(t, http.StatusBadRequest, get(router, "/api/clientes/x/resumen").Code)
	assert.Equal(t, http.StatusBadRequest, get(router, "/api/clientes/7/resumen?desde=2025-13-01").Code)
}

func TestPageEndpoint(t *testing.T) {
	rr := get(newTestRouter(t, 0), "/clientes/7/resumen")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text/html; charset=utf-8", rr.Header().Get("Content-Type"))
	assert.Contains(t, rr.Body.String(), "Ana Pérez")
}

func TestExportEndpoint(t *testing.T) {
	router := newTestRouter(t, 0)

	rr := get(router, "/api/clientes/7/resumen.csv")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rr.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="7_Ana Pérez_Resumen de Cuenta_31-03-2025.csv"`, rr.Header().Get("Content-Disposition"))

	rr = get(router, "/api/clientes/7/resumen.pdf")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "%PDF-1.7", rr.Body.String())

	assert.Equal(t, http.StatusNotFound, get(router, "/api/clientes/7/resumen.docx").Code)
	assert.Equal(t, http.StatusNotFound, get(router, "/api/clientes/7/resumen.html").Code)
}

func TestExportRateLimited(t *testing.T) {
	router := newTestRouter(t, 1)

	assert.Equal(t, http.StatusOK, get(router, "/api/clientes/7/resumen.csv").Code)
	assert.Equal(t, http.StatusTooManyRequests, get(router, "/api/clientes/7/resumen.csv").Code)
}

type recordingObserver struct {
	formats []string
	errs    []error
}

func (o *recordingObserver) ObserveExport(format string, err error) {
	o.formats = append(o.formats, format)
	o.errs = append(o.errs, err)
}

func TestExportObserver(t *testing.T) {
	obs := &recordingObserver{}
	svc := newFixtureService(newFixtureSource())
	h := NewHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), svc, newTestExporter(t, &stubPDF{})).WithExportObserver(obs)
	r := chi.NewRouter()
	h.MountRoutes(r, 0)

	require.Equal(t, http.StatusOK, get(r, "/api/clientes/7/resumen.csv").Code)
	require.Equal(t, []string{"csv"}, obs.formats)
	assert.NoError(t, obs.errs[0])
}
