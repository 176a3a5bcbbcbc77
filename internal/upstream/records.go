package upstream

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lamdaser/statements/internal/ledger"
)

// localLayouts carry no zone; they are read as wall time in the reference
// location.
var localLayouts = []string{"2006-01-02T15:04:05", "2006-01-02"}

// amount decodes a JSON number or numeric string. Anything else decodes to
// zero and keeps the raw text so callers can report it.
type amount struct {
	value decimal.Decimal
	bad   string
}

func (a *amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	text := string(data)
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			a.bad = text
			return nil
		}
		text = strings.TrimSpace(s)
		if text == "" {
			return nil
		}
	}
	v, err := decimal.NewFromString(text)
	if err != nil {
		a.bad = text
		return nil
	}
	a.value = v
	return nil
}

// timestamp keeps the raw date text until the reference location is known.
type timestamp struct {
	text string
	bad  string
}

func (t *timestamp) UnmarshalJSON(data []byte) error {
	var s *string
	if err := json.Unmarshal(data, &s); err != nil {
		t.bad = string(data)
		return nil
	}
	if s != nil {
		t.text = strings.TrimSpace(*s)
	}
	return nil
}

// in resolves the timestamp. RFC3339 text keeps its offset; the other layouts
// are wall time in loc. ok is false for text matching no layout.
func (t timestamp) in(loc *time.Location) (value *time.Time, ok bool) {
	if t.bad != "" {
		return nil, false
	}
	if t.text == "" {
		return nil, true
	}
	if parsed, err := time.Parse(time.RFC3339, t.text); err == nil {
		return &parsed, true
	}
	for _, layout := range localLayouts {
		if parsed, err := time.ParseInLocation(layout, t.text, loc); err == nil {
			return &parsed, true
		}
	}
	return nil, false
}

func (t timestamp) raw() string {
	if t.bad != "" {
		return t.bad
	}
	return t.text
}

type movementRecord struct {
	Code            int64     `json:"codigo"`
	CustomerID      int64     `json:"cod_cli_prov"`
	VoucherTypeCode int       `json:"tipo_comprobante"`
	VoucherTypeName string    `json:"nombre_comprobante"`
	Number          int64     `json:"numero"`
	PointOfSale     *int      `json:"punto_venta"`
	Date            timestamp `json:"fecha"`
	DueDate         timestamp `json:"fecha_vto"`
	VoucherDate     timestamp `json:"fecha_comprobante"`
	NetAmount       amount    `json:"importe_neto"`
	GrossAmount     amount    `json:"importe_total"`
	Comment         string    `json:"comentario"`
	Status          int       `json:"estado"`
	Cash            *string   `json:"efectivo"`
}

func (r movementRecord) toLedger(logger *slog.Logger, loc *time.Location) ledger.Movement {
	warnAmount(logger, "importe_total", r.Code, r.GrossAmount)
	warnAmount(logger, "importe_neto", r.Code, r.NetAmount)

	date := resolveDate(logger, loc, "fecha", r.Code, r.Date)
	if date == nil {
		date = resolveDate(logger, loc, "fecha_comprobante", r.Code, r.VoucherDate)
	}
	return ledger.Movement{
		ID:              r.Code,
		CustomerID:      r.CustomerID,
		VoucherTypeCode: r.VoucherTypeCode,
		VoucherTypeName: strings.TrimSpace(r.VoucherTypeName),
		VoucherNumber:   r.Number,
		PointOfSale:     r.PointOfSale,
		Date:            date,
		DueDate:         resolveDate(logger, loc, "fecha_vto", r.Code, r.DueDate),
		GrossAmount:     r.GrossAmount.value,
		NetAmount:       r.NetAmount.value,
		Comment:         r.Comment,
		Status:          r.Status,
		CashFlag:        r.Cash,
	}
}

type detailRecord struct {
	MovementID      int64     `json:"Codigo_Movimiento"`
	MovementNumber  int64     `json:"Numero_Movimiento"`
	VoucherTypeCode int       `json:"Tipo_Comprobante"`
	VoucherTypeName string    `json:"Nombre_Comprobante"`
	Date            timestamp `json:"Fecha_Movimiento"`
	NetAmount       amount    `json:"Importe_Neto_Movimiento"`
	GrossAmount     amount    `json:"Importe_Total_Movimiento"`
	Article         string    `json:"Articulo_Detalle"`
	Description     string    `json:"Descripcion_Detalle"`
	Quantity        amount    `json:"Cantidad_Detalle"`
	PointOfSale     *int      `json:"Punto_Venta_Detalle"`
}

func (r detailRecord) toLedger(logger *slog.Logger, loc *time.Location) ledger.MovementDetail {
	warnAmount(logger, "Cantidad_Detalle", r.MovementID, r.Quantity)
	warnAmount(logger, "Importe_Total_Movimiento", r.MovementID, r.GrossAmount)
	return ledger.MovementDetail{
		MovementID:      r.MovementID,
		MovementNumber:  r.MovementNumber,
		VoucherTypeCode: r.VoucherTypeCode,
		VoucherTypeName: strings.TrimSpace(r.VoucherTypeName),
		Date:            resolveDate(logger, loc, "Fecha_Movimiento", r.MovementID, r.Date),
		NetAmount:       r.NetAmount.value,
		GrossAmount:     r.GrossAmount.value,
		Article:         strings.TrimSpace(r.Article),
		Description:     strings.TrimSpace(r.Description),
		Quantity:        r.Quantity.value,
		PointOfSale:     r.PointOfSale,
	}
}

type openingRecord struct {
	Amount amount    `json:"Monto"`
	Date   timestamp `json:"Fecha"`
}

func (r openingRecord) toLedger(logger *slog.Logger, loc *time.Location, customerID int64) ledger.OpeningBalance {
	warnAmount(logger, "Monto", customerID, r.Amount)
	return ledger.OpeningBalance{Amount: r.Amount.value, AsOf: resolveDate(logger, loc, "Fecha", customerID, r.Date)}
}

func warnAmount(logger *slog.Logger, field string, id int64, a amount) {
	if a.bad != "" {
		logger.Warn("malformed amount, using 0", slog.String("field", field), slog.Int64("id", id), slog.String("value", a.bad))
	}
}

func resolveDate(logger *slog.Logger, loc *time.Location, field string, id int64, t timestamp) *time.Time {
	value, ok := t.in(loc)
	if !ok {
		logger.Warn("malformed date, using none", slog.String("field", field), slog.Int64("id", id), slog.String("value", t.raw()))
	}
	return value
}
