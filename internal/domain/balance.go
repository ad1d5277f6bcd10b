// Package domain provides defenitions of all entities.
package domain

import "errors"

var (
	// ErrAccountNotFound indicates that no balance exists for the account.
	ErrAccountNotFound = errors.New("account not found")
	// ErrMalformedBalance indicates that the stored balance is not a base-10 integer.
	ErrMalformedBalance = errors.New("stored balance is malformed")
	// ErrStoreUnavailable indicates that the balance store cannot be reached.
	ErrStoreUnavailable = errors.New("balance store unavailable")
	// ErrInsufficientBalance indicates that the account balance does not cover the charge.
	ErrInsufficientBalance = errors.New("not enough balance")
	// ErrLockTimeout indicates that the account lock could not be acquired in
	// time. Recoverable, the caller may retry.
	ErrLockTimeout = errors.New("account lock timed out")
	// ErrNegativeCharge indicates a negative charge amount.
	ErrNegativeCharge = errors.New("charge amount must be non-negative")
	// ErrInvalidAccount indicates an empty account key.
	ErrInvalidAccount = errors.New("account must not be empty")
)

// ChargeResult holds the outcome of a charge attempt.
type ChargeResult struct {
	IsAuthorized     bool  `json:"isAuthorized"`
	RemainingBalance int64 `json:"remainingBalance"`
	Charges          int64 `json:"charges"`
}
