package main

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeUpstream(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/consulta":
			_, _ = io.WriteString(w, `[{"Número":7,"Nombre":"Ana","Apellido":"Pérez","Zona":"Norte"},{"Número":12,"Nombre":"Luis","Apellido":"Gómez"}]`)
		case "/movimientos":
			_, _ = io.WriteString(w, `[
				{"codigo":1,"nombre_comprobante":"FA","numero":15,"punto_venta":3,"fecha":"2025-02-01","importe_total":500},
				{"codigo":2,"nombre_comprobante":"RB","fecha":"2025-02-10","importe_total":200}
			]`)
		case "/movimientos_detalles":
			_, _ = io.WriteString(w, `[]`)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func setupEnv(t *testing.T) {
	t.Helper()
	srv := fakeUpstream(t)
	t.Setenv("UPSTREAM_URL", srv.URL)
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("GOTENBERG_URL", "")
	t.Setenv("STATEMENT_TIMEZONE", "UTC")
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestSearchCommand(t *testing.T) {
	setupEnv(t)

	out, err := run(t, "search", "pérez")
	require.NoError(t, err)
	assert.Contains(t, out, "007")
	assert.Contains(t, out, "Ana Pérez")
	assert.NotContains(t, out, "Gómez")

	out, err = run(t, "search", "zzz")
	require.NoError(t, err)
	assert.Contains(t, out, "No se encontraron clientes")
}

func TestExportCommandWritesCSV(t *testing.T) {
	setupEnv(t)
	dir := t.TempDir()

	out, err := run(t, "export", "7", "--format", "csv", "--out", dir)
	require.NoError(t, err)

	path := strings.TrimSpace(out)
	assert.Equal(t, dir, filepath.Dir(path))
	assert.True(t, strings.HasPrefix(filepath.Base(path), "7_Ana Pérez_Resumen de Cuenta_"))
	assert.True(t, strings.HasSuffix(path, ".csv"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Ana Pérez")
}

func TestExportCommandRejectsInput(t *testing.T) {
	setupEnv(t)

	_, err := run(t, "export", "abc")
	assert.Error(t, err)
	_, err = run(t, "export", "7", "--format", "html")
	assert.Error(t, err)
	_, err = run(t, "export", "7", "--filtro", "todo", "--format", "csv")
	assert.Error(t, err)
	_, err = run(t, "export", "99", "--format", "csv", "--out", t.TempDir())
	assert.Error(t, err)
}

func TestExportPDFWithoutConverter(t *testing.T) {
	setupEnv(t)

	_, err := run(t, "export", "7", "--format", "pdf", "--out", t.TempDir())
	assert.Error(t, err)
}

func TestJobsTriggerRequiresRedis(t *testing.T) {
	setupEnv(t)

	_, err := run(t, "jobs", "trigger", "roster-warmup")
	assert.ErrorContains(t, err, "REDIS_ADDR")
	_, err = run(t, "jobs", "trigger", "reindex")
	assert.ErrorContains(t, err, "unsupported job")
}
