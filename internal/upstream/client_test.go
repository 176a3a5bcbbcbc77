package upstream

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *bytes.Buffer) {
	t.Helper()
	return newTestClientIn(t, time.UTC, handler)
}

func newTestClientIn(t *testing.T, loc *time.Location, handler http.HandlerFunc) (*Client, *bytes.Buffer) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	logs := &bytes.Buffer{}
	logger := slog.New(slog.NewTextHandler(logs, nil))
	return NewClient(srv.URL+"/", time.Second, loc, logger), logs
}

func TestCustomersBareArray(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/consulta", r.URL.Path)
		_, _ = io.WriteString(w, `[{"Número":7,"Nombre":"Ana","Apellido":"Pérez","CUIT":null,"CuentaLimite":1500.5}]`)
	})

	list, err := client.Customers(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, int64(7), list[0].Number)
	assert.Equal(t, "Ana Pérez", list[0].FullName())
	assert.True(t, list[0].CreditLimit.Valid)
	assert.Nil(t, list[0].CUIT)
}

func TestCustomersEnvelope(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"success":true,"message":"Consulta exitosa","data":[{"Número":12,"Nombre":"Luis"}]}`)
	})

	list, err := client.Customers(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "012", list[0].DisplayNumber())
}

func TestCustomersEnvelopeFailure(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"success":false,"message":"Error en la consulta"}`)
	})

	_, err := client.Customers(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestMovementsLenientDecoding(t *testing.T) {
	client, logs := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/movimientos", r.URL.Path)
		assert.Equal(t, "42", r.URL.Query().Get("clienteId"))
		_, _ = io.WriteString(w, `[
			{"codigo":1,"nombre_comprobante":"FA ","numero":15,"punto_venta":3,"fecha":"2025-01-10T00:00:00","importe_total":"1250.75","importe_neto":1000,"efectivo":null},
			{"codigo":2,"nombre_comprobante":"RB A","fecha":"2025-01-12","importe_total":"n/a","efectivo":"EFECTIVO"},
			{"codigo":3,"nombre_comprobante":"FB","fecha":"10/01/2025","importe_total":300}
		]`)
	})

	movements, err := client.Movements(context.Background(), 42)
	require.NoError(t, err)
	require.Len(t, movements, 3)

	first := movements[0]
	assert.Equal(t, "FA", first.VoucherTypeName)
	assert.Equal(t, "1250.75", first.GrossAmount.String())
	assert.Equal(t, "1000", first.NetAmount.String())
	require.NotNil(t, first.PointOfSale)
	assert.Equal(t, 3, *first.PointOfSale)
	require.NotNil(t, first.Date)
	assert.True(t, first.Date.Equal(time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)))
	assert.Nil(t, first.CashFlag)

	second := movements[1]
	assert.True(t, second.GrossAmount.IsZero())
	require.NotNil(t, second.CashFlag)
	assert.Equal(t, "EFECTIVO", *second.CashFlag)

	assert.Nil(t, movements[2].Date)
	assert.Contains(t, logs.String(), "malformed amount")
	assert.Contains(t, logs.String(), "malformed date")
}

func TestZonelessDatesReadInReferenceLocation(t *testing.T) {
	art := time.FixedZone("ART", -3*60*60)
	client, logs := newTestClientIn(t, art, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/movimientos":
			_, _ = io.WriteString(w, `[
				{"codigo":1,"fecha":"2025-03-01","fecha_vto":"2025-03-31T23:30:00","importe_total":100},
				{"codigo":2,"fecha":"2025-03-01T01:00:00","importe_total":100},
				{"codigo":3,"fecha":"2025-03-01T01:00:00Z","importe_total":100},
				{"codigo":4,"fecha_comprobante":"2025-03-02","importe_total":100}
			]`)
		case "/movimientos_detalles":
			_, _ = io.WriteString(w, `[{"Codigo_Movimiento":1,"Fecha_Movimiento":"2025-03-01"}]`)
		case "/saldos-iniciales/42":
			_, _ = io.WriteString(w, `{"Monto":10,"Fecha":"2025-01-01"}`)
		}
	})
	ctx := context.Background()

	movements, err := client.Movements(ctx, 42)
	require.NoError(t, err)
	require.Len(t, movements, 4)

	require.NotNil(t, movements[0].Date)
	assert.True(t, movements[0].Date.Equal(time.Date(2025, 3, 1, 0, 0, 0, 0, art)))
	assert.Equal(t, "2025-03-01", movements[0].Date.In(art).Format("2006-01-02"))
	require.NotNil(t, movements[0].DueDate)
	assert.Equal(t, "2025-03-31", movements[0].DueDate.In(art).Format("2006-01-02"))

	require.NotNil(t, movements[1].Date)
	assert.True(t, movements[1].Date.Equal(time.Date(2025, 3, 1, 1, 0, 0, 0, art)))

	// An explicit offset is kept, so 01:00Z is still the previous evening locally.
	require.NotNil(t, movements[2].Date)
	assert.Equal(t, "2025-02-28", movements[2].Date.In(art).Format("2006-01-02"))

	require.NotNil(t, movements[3].Date)
	assert.True(t, movements[3].Date.Equal(time.Date(2025, 3, 2, 0, 0, 0, 0, art)))

	details, err := client.MovementDetails(ctx, 42)
	require.NoError(t, err)
	require.Len(t, details, 1)
	require.NotNil(t, details[0].Date)
	assert.True(t, details[0].Date.Equal(time.Date(2025, 3, 1, 0, 0, 0, 0, art)))

	opening, err := client.OpeningBalance(ctx, 42)
	require.NoError(t, err)
	require.NotNil(t, opening.AsOf)
	assert.True(t, opening.AsOf.Equal(time.Date(2025, 1, 1, 0, 0, 0, 0, art)))

	assert.NotContains(t, logs.String(), "malformed date")
}

func TestNewClientDefaultsToUTC(t *testing.T) {
	client := NewClient("http://upstream.invalid/", 0, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.Equal(t, time.UTC, client.location)
	assert.Equal(t, 15*time.Second, client.httpClient.Timeout)
}

func TestMovementDetails(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/movimientos_detalles", r.URL.Path)
		_, _ = io.WriteString(w, `[{"Codigo_Movimiento":1,"Numero_Movimiento":15,"Articulo_Detalle":" A-1 ","Descripcion_Detalle":"Tornillo","Cantidad_Detalle":4,"Punto_Venta_Detalle":3}]`)
	})

	details, err := client.MovementDetails(context.Background(), 42)
	require.NoError(t, err)
	require.Len(t, details, 1)
	assert.Equal(t, "A-1", details[0].Article)
	assert.Equal(t, "4", details[0].Quantity.String())
}

func TestOpeningBalance(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/saldos-iniciales/1":
			_, _ = io.WriteString(w, `{"Monto":1500.5,"Fecha":"2024-12-31T00:00:00Z"}`)
		case "/saldos-iniciales/2":
			_, _ = io.WriteString(w, `null`)
		case "/saldos-iniciales/3":
			http.NotFound(w, r)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	})
	ctx := context.Background()

	opening, err := client.OpeningBalance(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "1500.5", opening.Amount.String())
	require.NotNil(t, opening.AsOf)

	for _, id := range []int64{2, 3} {
		opening, err = client.OpeningBalance(ctx, id)
		require.NoError(t, err)
		assert.True(t, opening.Amount.IsZero())
	}

	_, err = client.OpeningBalance(ctx, 4)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestMovementsErrorStatus(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.Movements(context.Background(), 1)
	assert.ErrorIs(t, err, ErrUnavailable)
}
