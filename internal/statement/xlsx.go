package statement

import (
	"io"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Resumen"

// WriteXLSX writes the statement as a single-sheet workbook. Aged invoice
// rows are filled with their bucket color and set in bold.
func WriteXLSX(w io.Writer, doc Document) (err error) {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	title, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14, Color: "#009600"}})
	if err != nil {
		return err
	}
	heading, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#000000"}},
	})
	if err != nil {
		return err
	}
	wrap, err := f.NewStyle(&excelize.Style{Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"}})
	if err != nil {
		return err
	}
	fills := map[string]int{}
	fillStyle := func(color string) (int, error) {
		if id, ok := fills[color]; ok {
			return id, nil
		}
		id, err := f.NewStyle(&excelize.Style{
			Font: &excelize.Font{Bold: true},
			Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{color}},
		})
		if err != nil {
			return 0, err
		}
		fills[color] = id
		return id, nil
	}

	sw := sheetWriter{f: f, row: 1}
	h := doc.Header
	sw.line(title, h.Company, "Alias: "+h.Alias)
	sw.line(bold, h.Title)
	sw.line(0, "Fecha de generación", h.GeneratedOn)
	sw.line(0, "Cliente", h.CustomerName)
	sw.line(0, "N° Cliente", h.CustomerNumber)
	sw.line(title, "Saldo", h.Balance)
	sw.line(0, "Filtro", h.Filter)
	if h.PeriodBalance != "" {
		sw.line(0, "Saldo del período", h.PeriodBalance)
	}

	if len(doc.Analysis) > 0 {
		sw.row++
		sw.line(bold, "Análisis de Saldo")
		sw.line(heading, "Color", "Monto", "Porcentaje", "Estado")
		for _, a := range doc.Analysis {
			style := 0
			if a.Color != "" {
				if style, err = fillStyle(a.Color); err != nil {
					return err
				}
			}
			sw.cell(1, "", style)
			sw.line(0, "", a.Amount, a.Percentage, a.Label)
		}
	}

	sw.row++
	sw.line(bold, "Movimientos")
	sw.line(heading, "Fecha", "Comprobante", "Importe", "Saldo Parcial", "Detalles")
	for _, r := range doc.Rows {
		style := 0
		if r.Fill != "" {
			if style, err = fillStyle(r.Fill); err != nil {
				return err
			}
		}
		sw.cell(1, r.Date, 0)
		sw.cell(2, r.Voucher, style)
		sw.cell(3, r.Amount, style)
		sw.cell(4, r.Balance, style)
		sw.cell(5, r.Details, wrap)
		sw.row++
	}
	if sw.err != nil {
		return sw.err
	}

	for col, width := range map[string]float64{"A": 22, "B": 26, "C": 16, "D": 16, "E": 48} {
		if err := f.SetColWidth(sheetName, col, col, width); err != nil {
			return err
		}
	}
	return f.Write(w)
}

// sheetWriter fills cells row by row, keeping the first error.
type sheetWriter struct {
	f   *excelize.File
	row int
	err error
}

func (s *sheetWriter) cell(col int, value string, style int) {
	if s.err != nil {
		return
	}
	name, err := excelize.CoordinatesToCellName(col, s.row)
	if err != nil {
		s.err = err
		return
	}
	if value != "" {
		if s.err = s.f.SetCellStr(sheetName, name, value); s.err != nil {
			return
		}
	}
	if style != 0 {
		s.err = s.f.SetCellStyle(sheetName, name, name, style)
	}
}

// line writes values from column A, skipping empty leading values already
// set by cell, then advances to the next row.
func (s *sheetWriter) line(style int, values ...string) {
	for i, v := range values {
		if v == "" && i == 0 {
			continue
		}
		s.cell(i+1, v, style)
	}
	s.row++
}
