package application

import "errors"

// Service-level errors surfaced to handlers. Store errors are wrapped, never
// retried here; the caller decides what to do next.
var (
	// ErrInvalidInput is returned when a required parameter is empty.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUserNotFound is returned when the referenced member is absent.
	ErrUserNotFound = errors.New("user not found")

	// ErrClassNotFound is returned when the referenced class is absent.
	ErrClassNotFound = errors.New("class not found")

	// ErrBanned is returned when a banned user requests a token.
	ErrBanned = errors.New("user is banned")

	// ErrInvalidAmount is returned for a non-positive computed charge,
	// before any external call is made.
	ErrInvalidAmount = errors.New("invalid charge amount")

	// ErrGatewayUnavailable is returned when the external charge service
	// is unreachable or declined the authorization.
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")

	// ErrLedgerWriteFailed is fatal to a settlement call; no downstream
	// step is attempted after it.
	ErrLedgerWriteFailed = errors.New("payment ledger write failed")

	// ErrMembershipUpdateFailed reports that the booked→enrolled migration
	// did not land. The ledger row already exists: this is an accepted
	// partial state that needs reconciliation, not a rollback.
	ErrMembershipUpdateFailed = errors.New("membership update failed")

	// ErrCapacityUpdateFailed reports that one or more enrolled_count
	// increments did not land.
	ErrCapacityUpdateFailed = errors.New("capacity update failed")
)
