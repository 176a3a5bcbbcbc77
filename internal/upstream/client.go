// Package upstream fetches customers, movements, detail lines and opening
// balances from the accounts REST API.
package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/lamdaser/statements/internal/customers"
	"github.com/lamdaser/statements/internal/ledger"
)

var (
	// ErrNotFound is returned when the API answers 404.
	ErrNotFound = errors.New("upstream: not found")
	// ErrUnavailable wraps transport failures and non-2xx answers.
	ErrUnavailable = errors.New("upstream: unavailable")
)

// Client talks to the accounts API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	location   *time.Location
	logger     *slog.Logger
}

// NewClient constructs a client for baseURL. A zero timeout defaults to 15s.
// Dates sent without a zone are read as wall time in loc, UTC when nil.
func NewClient(baseURL string, timeout time.Duration, loc *time.Location, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		location:   loc,
		logger:     logger,
	}
}

// Customers returns the full roster.
func (c *Client) Customers(ctx context.Context) ([]customers.Customer, error) {
	var raw json.RawMessage
	if err := c.get(ctx, "/consulta", nil, &raw); err != nil {
		return nil, err
	}
	return decodeRoster(raw)
}

// Movements returns the raw movements of a customer in API order.
func (c *Client) Movements(ctx context.Context, customerID int64) ([]ledger.Movement, error) {
	var records []movementRecord
	q := url.Values{"clienteId": {strconv.FormatInt(customerID, 10)}}
	if err := c.get(ctx, "/movimientos", q, &records); err != nil {
		return nil, err
	}
	out := make([]ledger.Movement, 0, len(records))
	for _, r := range records {
		out = append(out, r.toLedger(c.logger, c.location))
	}
	return out, nil
}

// MovementDetails returns every detail line of a customer's movements.
func (c *Client) MovementDetails(ctx context.Context, customerID int64) ([]ledger.MovementDetail, error) {
	var records []detailRecord
	q := url.Values{"clienteId": {strconv.FormatInt(customerID, 10)}}
	if err := c.get(ctx, "/movimientos_detalles", q, &records); err != nil {
		return nil, err
	}
	out := make([]ledger.MovementDetail, 0, len(records))
	for _, r := range records {
		out = append(out, r.toLedger(c.logger, c.location))
	}
	return out, nil
}

// OpeningBalance returns the opening balance of a customer. A customer with
// no recorded balance starts at zero.
func (c *Client) OpeningBalance(ctx context.Context, customerID int64) (ledger.OpeningBalance, error) {
	var record *openingRecord
	err := c.get(ctx, "/saldos-iniciales/"+strconv.FormatInt(customerID, 10), nil, &record)
	if errors.Is(err, ErrNotFound) || (err == nil && record == nil) {
		return ledger.OpeningBalance{}, nil
	}
	if err != nil {
		return ledger.OpeningBalance{}, err
	}
	return record.toLedger(c.logger, c.location, customerID), nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, dest any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: GET %s: %v", ErrUnavailable, path, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: GET %s", ErrNotFound, path)
	}
	if resp.StatusCode >= 400 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("%w: GET %s returned status %d", ErrUnavailable, path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("%w: decode %s: %v", ErrUnavailable, path, err)
	}
	return nil
}

// decodeRoster accepts a bare array or the {"success","data"} envelope.
func decodeRoster(raw json.RawMessage) ([]customers.Customer, error) {
	var list []customers.Customer
	trimmed := strings.TrimSpace(string(raw))
	if strings.HasPrefix(trimmed, "[") {
		if err := json.Unmarshal(raw, &list); err != nil {
			return nil, fmt.Errorf("%w: decode roster: %v", ErrUnavailable, err)
		}
		return list, nil
	}
	var envelope struct {
		Success bool                 `json:"success"`
		Message string               `json:"message"`
		Data    []customers.Customer `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("%w: decode roster: %v", ErrUnavailable, err)
	}
	if !envelope.Success {
		return nil, fmt.Errorf("%w: roster: %s", ErrUnavailable, envelope.Message)
	}
	return envelope.Data, nil
}
