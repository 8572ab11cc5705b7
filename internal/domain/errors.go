package domain

import "errors"

var (
	ErrNotFound             = errors.New("not found")
	ErrConflict             = errors.New("status changed concurrently")
	ErrAlreadyClaimed       = errors.New("case already claimed")
	ErrIllegalTransition    = errors.New("illegal status transition")
	ErrNotEligible          = errors.New("actor is not eligible")
	ErrNotApproved          = errors.New("partner is not approved")
	ErrNotUpline            = errors.New("actor is not the direct upline of the subordinate")
	ErrNotOwner             = errors.New("actor does not own the case")
	ErrAlreadyFinal         = errors.New("settlement is already final")
	ErrConfirmationRequired = errors.New("explicit confirmation required")
	ErrHasActiveCases       = errors.New("partner has active cases")
	ErrInvalidArgument      = errors.New("invalid argument")
	ErrPayoutWindowClosed   = errors.New("settlement payout window is closed")
	ErrInsufficientDeposit  = errors.New("insufficient deposit balance")

	// ErrStoreUnavailable is the only infrastructural failure; every other error
	// is a business outcome and must not be retried blindly.
	ErrStoreUnavailable = errors.New("case store unavailable")
)
