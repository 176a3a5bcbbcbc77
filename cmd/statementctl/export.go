package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"

	"github.com/lamdaser/statements/internal/statement"
)

type exportOptions struct {
	query  statement.StatementQuery
	format string
	outDir string
}

func newExportCmd(e *env) *cobra.Command {
	opts := &exportOptions{}
	cmd := &cobra.Command{
		Use:   "export <customer-id>",
		Short: "Write a customer's account statement to a file",
		Example: `  statementctl export 12 --format pdf
  statementctl export 12 --filtro saldo-cero --format xlsx --out ./resumenes
  statementctl export 12 --desde 2025-01-01 --hasta 2025-03-31 --format csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, e, opts, args[0])
		},
	}
	cmd.Flags().StringVar(&opts.query.Filter, "filtro", "", "filter: saldo-cero, rango or facturas")
	cmd.Flags().StringVar(&opts.query.From, "desde", "", "range start (YYYY-MM-DD)")
	cmd.Flags().StringVar(&opts.query.To, "hasta", "", "range end (YYYY-MM-DD)")
	cmd.Flags().StringVar(&opts.format, "format", string(statement.FormatPDF), "output format: pdf, xlsx or csv")
	cmd.Flags().StringVar(&opts.outDir, "out", ".", "output directory")
	return cmd
}

func runExport(cmd *cobra.Command, e *env, opts *exportOptions, rawID string) error {
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid customer id %q", rawID)
	}
	format, err := statement.ParseFormat(opts.format)
	if err != nil || format == statement.FormatHTML {
		return fmt.Errorf("unsupported format %q", opts.format)
	}
	loc, err := e.cfg.Location()
	if err != nil {
		return err
	}
	filter, err := opts.query.FilterState(validator.New(), loc)
	if err != nil {
		return err
	}

	services, err := e.load(cmd)
	if err != nil {
		return err
	}
	v, err := services.Statements.Statement(cmd.Context(), id, filter)
	if err != nil {
		return err
	}
	if v.Warning != "" {
		fmt.Fprintln(cmd.ErrOrStderr(), v.Warning)
	}

	doc := statement.BuildDocument(v, services.Statements.DocumentOptions())
	var buf bytes.Buffer
	if err := services.Exporter.Render(cmd.Context(), &buf, format, doc); err != nil {
		return err
	}
	if err := os.MkdirAll(opts.outDir, 0o755); err != nil {
		return err
	}
	path := filepath.Join(opts.outDir, doc.FilenameFor(format))
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}
