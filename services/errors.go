package services

import "errors"

// Domain errors surfaced to controllers. Validation and not-found errors are
// returned before any mutation; policy violations are typed so callers can
// decide whether to override.
var (
	ErrFolioNotFound   = errors.New("folio_not_found")
	ErrFolioClosed     = errors.New("folio_closed")
	ErrInvalidAmount   = errors.New("invalid_amount")
	ErrInvalidItemType = errors.New("invalid_item_type")

	ErrPaymentNotFound      = errors.New("payment_not_found")
	ErrPaymentAlreadyVoided = errors.New("payment_already_voided")

	ErrAccountNotFound     = errors.New("corporate_account_not_found")
	ErrCreditLimitExceeded = errors.New("credit_limit_exceeded")

	ErrEmptyBatch            = errors.New("empty_batch")
	ErrDuplicateFolioInBatch = errors.New("duplicate_folio_in_batch")

	ErrAuditNotFound         = errors.New("night_audit_not_found")
	ErrAuditAlreadyCompleted = errors.New("night_audit_already_completed")
	ErrAuditNotInProgress    = errors.New("night_audit_not_in_progress")

	// Returned internally when an optimistic folio write loses the race;
	// callers retry the whole transaction.
	errVersionConflict = errors.New("folio_version_conflict")
)
