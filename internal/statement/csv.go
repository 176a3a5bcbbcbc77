package statement

import (
	"encoding/csv"
	"io"
	"strings"
)

// WriteCSV emits the letterhead, the balance analysis and the movements table.
func WriteCSV(w io.Writer, doc Document) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	h := doc.Header
	records := [][]string{
		{h.Company, "Alias: " + h.Alias},
		{h.Title},
		{"Fecha de generación", h.GeneratedOn},
		{"Cliente", h.CustomerName},
		{"N° Cliente", h.CustomerNumber},
		{"Saldo", h.Balance},
		{"Filtro", h.Filter},
	}
	if h.PeriodBalance != "" {
		records = append(records, []string{"Saldo del período", h.PeriodBalance})
	}
	if len(doc.Analysis) > 0 {
		records = append(records, []string{}, []string{"Color", "Monto", "Porcentaje", "Estado"})
		for _, a := range doc.Analysis {
			records = append(records, []string{a.Color, a.Amount, a.Percentage, a.Label})
		}
	}
	records = append(records, []string{}, []string{"Fecha", "Comprobante", "Importe", "Saldo Parcial", "Detalles"})
	for _, r := range doc.Rows {
		records = append(records, []string{r.Date, r.Voucher, r.Amount, r.Balance, strings.ReplaceAll(r.Details, "\n", " | ")})
	}
	for _, record := range records {
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
