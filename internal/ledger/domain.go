// Package ledger computes running balances, invoice aging and statement
// filters over a customer's account movements.
package ledger

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

const (
	// OpeningSequenceIndex is reserved for the synthetic opening-balance entry.
	OpeningSequenceIndex = 1
	// OpeningVoucherName labels the synthetic opening-balance entry.
	OpeningVoucherName = "Saldo Inicial"
)

// ErrInvalidDateRange is returned when a date range starts after it ends.
var ErrInvalidDateRange = errors.New("ledger: date range start is after its end")

// Movement is one ledger entry of a customer account.
type Movement struct {
	ID              int64           `json:"id"`
	CustomerID      int64           `json:"customer_id,omitempty"`
	VoucherTypeCode int             `json:"voucher_type_code,omitempty"`
	VoucherTypeName string          `json:"voucher_type_name"`
	VoucherNumber   int64           `json:"voucher_number"`
	PointOfSale     *int            `json:"point_of_sale,omitempty"`
	Date            *time.Time      `json:"date"`
	DueDate         *time.Time      `json:"due_date,omitempty"`
	GrossAmount     decimal.Decimal `json:"gross_amount"`
	NetAmount       decimal.Decimal `json:"net_amount"`
	Comment         string          `json:"comment,omitempty"`
	Status          int             `json:"status"`
	CashFlag        *string         `json:"cash_flag,omitempty"`

	SequenceIndex  int             `json:"sequence_index"`
	PartialBalance decimal.Decimal `json:"partial_balance"`
}

// IsOpening reports whether the movement is the synthetic opening-balance entry.
func (m Movement) IsOpening() bool {
	return m.SequenceIndex == OpeningSequenceIndex
}

// Classification returns the voucher classification of the movement.
func (m Movement) Classification() Classification {
	return Classify(m.VoucherTypeName)
}

// MovementDetail is an invoice line item.
type MovementDetail struct {
	MovementID      int64           `json:"movement_id"`
	MovementNumber  int64           `json:"movement_number"`
	VoucherTypeCode int             `json:"voucher_type_code,omitempty"`
	VoucherTypeName string          `json:"voucher_type_name,omitempty"`
	Date            *time.Time      `json:"date,omitempty"`
	NetAmount       decimal.Decimal `json:"net_amount"`
	GrossAmount     decimal.Decimal `json:"gross_amount"`
	Article         string          `json:"article"`
	Description     string          `json:"description"`
	Quantity        decimal.Decimal `json:"quantity"`
	PointOfSale     *int            `json:"point_of_sale,omitempty"`
}

// OpeningBalance seeds the running balance of a customer.
type OpeningBalance struct {
	Amount decimal.Decimal `json:"amount"`
	AsOf   *time.Time      `json:"as_of,omitempty"`
}

// AgingEntry records how much of the outstanding balance an invoice covers.
type AgingEntry struct {
	MovementID     int64           `json:"movement_id"`
	SequenceIndex  int             `json:"sequence_index"`
	InvolvedAmount decimal.Decimal `json:"involved_amount"`
	Percentage     decimal.Decimal `json:"percentage"`
	DaysElapsed    int             `json:"days_elapsed"`
	Bucket         Bucket          `json:"bucket"`
}
