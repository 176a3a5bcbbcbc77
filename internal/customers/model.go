package customers

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Customer mirrors a roster record of the upstream API. JSON keys keep the
// upstream spelling so cached and served payloads match the source.
type Customer struct {
	Number       int64               `json:"Número"`
	FirstName    string              `json:"Nombre"`
	Surname      string              `json:"Apellido"`
	PriceList    string              `json:"ListaPrecios"`
	TaxCondition string              `json:"CondIVA"`
	Zone         string              `json:"Zona"`
	CUIT         *string             `json:"CUIT"`
	Seller       *string             `json:"Vendedor"`
	Phone        *string             `json:"Telefono"`
	Phone2       *string             `json:"Telefono2"`
	Email        *string             `json:"Email"`
	Mobile       *string             `json:"Celular"`
	CreditLimit  decimal.NullDecimal `json:"CuentaLimite"`
	BirthDate    *string             `json:"Nacimiento"`
	Locality     *string             `json:"Localidad"`
	Province     *string             `json:"Provincia"`
	Country      *string             `json:"Pais"`
	DNI          *int64              `json:"DNI"`
	Address      *string             `json:"Domicilio"`
	Other        *string             `json:"Otros"`
}

// DisplayNumber is the customer number zero-padded to three digits.
func (c Customer) DisplayNumber() string {
	return fmt.Sprintf("%03d", c.Number)
}

// FullName joins first name and surname.
func (c Customer) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(c.FirstName) + " " + strings.TrimSpace(c.Surname))
}

// Matches reports whether term selects the customer: the padded number
// contains the raw term, or either name contains it case-insensitively.
func (c Customer) Matches(term string) bool {
	if term == "" {
		return false
	}
	if strings.Contains(c.DisplayNumber(), term) {
		return true
	}
	lower := strings.ToLower(term)
	return strings.Contains(strings.ToLower(c.FirstName), lower) ||
		strings.Contains(strings.ToLower(c.Surname), lower)
}
