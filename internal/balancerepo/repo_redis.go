// Package balancerepo manages repository layer of account balances.
package balancerepo

import (
	"context"
	"errors"
	"strconv"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/go-petr/balance-ledger/internal/domain"
)

// RepoRedis facilitates balance repository layer logic.
type RepoRedis struct {
	client *redis.Client
}

// NewRepoRedis returns balance RepoRedis.
func NewRepoRedis(client *redis.Client) *RepoRedis {
	return &RepoRedis{
		client: client,
	}
}

// balanceKey returns the store key for the given account.
func balanceKey(account string) string {
	return account + "/balance"
}

// Get returns the balance of the given account. An absent balance is
// domain.ErrAccountNotFound, never an implicit zero.
func (r *RepoRedis) Get(ctx context.Context, account string) (int64, error) {
	l := zerolog.Ctx(ctx)

	val, err := r.client.Get(ctx, balanceKey(account)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, domain.ErrAccountNotFound
		}

		l.Error().Err(err).Str("account", account).Send()

		return 0, domain.ErrStoreUnavailable
	}

	balance, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		l.Error().Err(err).Str("account", account).Str("value", val).Send()

		return 0, domain.ErrMalformedBalance
	}

	return balance, nil
}

// Set overwrites the balance of the given account.
func (r *RepoRedis) Set(ctx context.Context, account string, balance int64) error {
	l := zerolog.Ctx(ctx)

	err := r.client.Set(ctx, balanceKey(account), strconv.FormatInt(balance, 10), 0).Err()
	if err != nil {
		l.Error().Err(err).Str("account", account).Send()

		return domain.ErrStoreUnavailable
	}

	return nil
}
