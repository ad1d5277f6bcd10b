// Package balancedelivery manages delivery layer of account balances.
package balancedelivery

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/go-petr/balance-ledger/internal/domain"
	"github.com/go-petr/balance-ledger/pkg/errorspkg"
	"github.com/go-petr/balance-ledger/pkg/web"
)

// Request body defaults kept from the original wire contract.
const (
	defaultAccount = "account"
	defaultCharges = int64(10)
)

// Service provides service layer interface needed by balance delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package balancedelivery
type Service interface {
	Reset(ctx context.Context, account string) error
	Charge(ctx context.Context, account string, amount int64) (domain.ChargeResult, error)
}

// Handler facilitates balance delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns balance handler.
func NewHandler(s Service) Handler {
	return Handler{service: s}
}

// wireError passes known domain errors through to the response body and hides
// anything unexpected behind the generic internal error.
func wireError(err error) error {
	switch {
	case errors.Is(err, domain.ErrAccountNotFound),
		errors.Is(err, domain.ErrMalformedBalance),
		errors.Is(err, domain.ErrStoreUnavailable),
		errors.Is(err, domain.ErrLockTimeout),
		errors.Is(err, domain.ErrNegativeCharge),
		errors.Is(err, domain.ErrInvalidAccount):
		return err
	}

	return errorspkg.ErrInternal
}

type resetRequest struct {
	Account string `json:"account"`
}

// Reset handles http request to reset an account to the default balance.
func (h *Handler) Reset(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(gctx)

	// An empty body means all defaults.
	var req resetRequest
	if err := gctx.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Error(err))

		return
	}

	if req.Account == "" {
		req.Account = defaultAccount
	}

	if err := h.service.Reset(ctx, req.Account); err != nil {
		gctx.JSON(http.StatusInternalServerError, web.Error(wireError(err)))

		return
	}

	l.Info().Str("account", req.Account).Msg("account reset")

	gctx.Status(http.StatusNoContent)
}

type chargeRequest struct {
	Account string `json:"account"`
	Charges *int64 `json:"charges" binding:"omitempty,gte=0"`
}

// Charge handles http request to charge an account. A declined charge keeps
// the original contract and responds with an error status instead of a 200.
func (h *Handler) Charge(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(gctx)

	var req chargeRequest
	if err := gctx.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Error(err))

		return
	}

	if req.Account == "" {
		req.Account = defaultAccount
	}

	charges := defaultCharges
	if req.Charges != nil {
		charges = *req.Charges
	}

	result, err := h.service.Charge(ctx, req.Account, charges)
	if err != nil {
		gctx.JSON(http.StatusInternalServerError, web.Error(wireError(err)))

		return
	}

	if !result.IsAuthorized {
		l.Info().Str("account", req.Account).Int64("balance", result.RemainingBalance).Msg("charge declined")
		gctx.JSON(http.StatusInternalServerError, web.Error(domain.ErrInsufficientBalance))

		return
	}

	l.Info().Str("account", req.Account).Int64("charges", result.Charges).Msg("account charged")

	gctx.JSON(http.StatusOK, result)
}
