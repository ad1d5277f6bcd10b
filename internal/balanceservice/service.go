// Package balanceservice manages business logic layer of account balances.
package balanceservice

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/go-petr/balance-ledger/internal/domain"
	"github.com/go-petr/balance-ledger/pkg/lockpkg"
)

// Repo provides data access layer interface needed by balance service layer.
type Repo interface {
	Get(ctx context.Context, account string) (int64, error)
	Set(ctx context.Context, account string, balance int64) error
}

// Locker provides per-account mutual exclusion needed by balance service layer.
// Get-then-Set against the store is not atomic on its own; every mutation runs
// inside an acquired lock so concurrent charges cannot interleave.
type Locker interface {
	Acquire(ctx context.Context, name string) (string, error)
	Release(ctx context.Context, name, token string) error
}

// Service facilitates balance service layer logic.
type Service struct {
	repo           Repo
	locker         Locker
	defaultBalance int64
}

// New returns balance service struct to manage balance bussines logic.
func New(repo Repo, locker Locker, defaultBalance int64) *Service {
	return &Service{
		repo:           repo,
		locker:         locker,
		defaultBalance: defaultBalance,
	}
}

// acquire takes the account lock, translating an exhausted wait into the
// domain error so upper layers only deal with domain values.
func (s *Service) acquire(ctx context.Context, account string) (string, error) {
	token, err := s.locker.Acquire(ctx, account)
	if err != nil {
		if errors.Is(err, lockpkg.ErrWaitTimeout) {
			return "", domain.ErrLockTimeout
		}

		return "", err
	}

	return token, nil
}

// release frees the account lock and logs a failed release instead of
// overriding the operation's own result.
func (s *Service) release(ctx context.Context, account, token string) {
	if err := s.locker.Release(ctx, account, token); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("account", account).Msg("failed to release account lock")
	}
}

// Reset overwrites the account balance with the default balance. The write is
// unconditional but still runs under the account lock so it cannot interleave
// with a charge that already read the pre-reset balance.
func (s *Service) Reset(ctx context.Context, account string) error {
	if account == "" {
		return domain.ErrInvalidAccount
	}

	token, err := s.acquire(ctx, account)
	if err != nil {
		return err
	}
	defer s.release(ctx, account, token)

	return s.repo.Set(ctx, account, s.defaultBalance)
}

// Charge deducts amount from the account balance if the balance covers it.
// Insufficient balance is a normal outcome, not an error. The lock is released
// on every path after acquisition.
func (s *Service) Charge(ctx context.Context, account string, amount int64) (domain.ChargeResult, error) {
	var res domain.ChargeResult

	if account == "" {
		return res, domain.ErrInvalidAccount
	}

	if amount < 0 {
		return res, domain.ErrNegativeCharge
	}

	token, err := s.acquire(ctx, account)
	if err != nil {
		return res, err
	}
	defer s.release(ctx, account, token)

	balance, err := s.repo.Get(ctx, account)
	if err != nil {
		return res, err
	}

	if balance < amount {
		return domain.ChargeResult{
			IsAuthorized:     false,
			RemainingBalance: balance,
			Charges:          0,
		}, nil
	}

	if err = s.repo.Set(ctx, account, balance-amount); err != nil {
		return res, err
	}

	remaining, err := s.repo.Get(ctx, account)
	if err != nil {
		return res, err
	}

	return domain.ChargeResult{
		IsAuthorized:     true,
		RemainingBalance: remaining,
		Charges:          amount,
	}, nil
}
