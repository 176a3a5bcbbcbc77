package ledger

import (
	"github.com/google/uuid"
)

// Dataset is everything fetched for one customer selection.
type Dataset struct {
	Opening   OpeningBalance
	Movements []Movement
	Details   []MovementDetail
}

// SessionState is the view state of one customer selection. Selecting a
// customer resets everything, including the opening balance. Results fetched
// for an older selection are rejected by Accept.
type SessionState struct {
	customerID int64
	token      uuid.UUID
	loaded     bool
	data       Dataset
	details    map[int64][]MovementDetail
	filter     FilterState
}

// Select starts a new selection and returns the token fetches must present.
func (s *SessionState) Select(customerID int64) uuid.UUID {
	*s = SessionState{customerID: customerID, token: uuid.New()}
	return s.token
}

// CustomerID returns the selected customer.
func (s *SessionState) CustomerID() int64 { return s.customerID }

// Token returns the current selection token.
func (s *SessionState) Token() uuid.UUID { return s.token }

// Loaded reports whether a dataset was accepted for the current selection.
func (s *SessionState) Loaded() bool { return s.loaded }

// Accept stores data fetched under token. Data for a stale selection is
// discarded and false is returned.
func (s *SessionState) Accept(token uuid.UUID, data Dataset) bool {
	if token == uuid.Nil || token != s.token {
		return false
	}
	s.data = data
	s.details = GroupDetails(data.Details)
	s.loaded = true
	return true
}

// Opening returns the accepted opening balance.
func (s *SessionState) Opening() OpeningBalance { return s.data.Opening }

// Movements returns the accepted raw movements.
func (s *SessionState) Movements() []Movement { return s.data.Movements }

// DetailsByMovement returns accepted detail lines keyed by movement ID.
func (s *SessionState) DetailsByMovement() map[int64][]MovementDetail { return s.details }

// Filter returns the active filter.
func (s *SessionState) Filter() FilterState { return s.filter }

// SetFilter replaces the active filter. An invalid date range is rejected and
// the previous filter is kept.
func (s *SessionState) SetFilter(f FilterState) error {
	if err := f.Validate(); err != nil {
		return err
	}
	s.filter = f
	return nil
}

// ClearFilter returns to the unfiltered view.
func (s *SessionState) ClearFilter() { s.filter = NoFilter() }
