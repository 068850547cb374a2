package order

import "errors"

var (
	// ErrNotFound: the contract reports the zero-identifier sentinel for
	// the requested id.
	ErrNotFound = errors.New("order not found")

	// Guard violations. Each transition failure must stay discriminable,
	// so these are distinct sentinels rather than one generic error.
	ErrWrongState         = errors.New("transition not allowed from current status")
	ErrWrongCaller        = errors.New("caller not permitted for this transition")
	ErrDeadlineNotReached = errors.New("repayment deadline has not passed")

	// ErrNotFunded: interest requested for an order without a funding
	// timestamp. Programming error on the caller's side; never masked by
	// returning zero.
	ErrNotFunded = errors.New("order has no funding timestamp")

	// ErrRemoteUnavailable: the ledger node could not serve a call that is
	// not allowed to degrade to fallback data (writes, or guard checks
	// that would otherwise validate against placeholders).
	ErrRemoteUnavailable = errors.New("ledger node unavailable")
)
