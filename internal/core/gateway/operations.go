package gateway

import (
	"context"
	"net/http"

	"github.com/Nzyazin/ledgerconsole/internal/core/models"
	"github.com/google/uuid"
)

// Mutating operations carry an idempotency key. A caller-supplied key is kept
// as is, otherwise a fresh one is minted per call.

func idempotencyKey(key string) string {
	if key != "" {
		return key
	}
	return uuid.NewString()
}

func (c *Client) Deposit(ctx context.Context, req models.DepositRequest) (*models.DepositResponse, error) {
	req.IdempotencyKey = idempotencyKey(req.IdempotencyKey)
	var resp models.DepositResponse
	if err := c.send(ctx, http.MethodPost, "/deposits", nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Withdraw(ctx context.Context, req models.WithdrawalRequest) (*models.WithdrawalResponse, error) {
	req.IdempotencyKey = idempotencyKey(req.IdempotencyKey)
	var resp models.WithdrawalResponse
	if err := c.send(ctx, http.MethodPost, "/withdrawals", nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Transfer(ctx context.Context, req models.TransferRequest) (*models.TransferResponse, error) {
	req.IdempotencyKey = idempotencyKey(req.IdempotencyKey)
	var resp models.TransferResponse
	if err := c.send(ctx, http.MethodPost, "/transfers", nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) ConvertFx(ctx context.Context, req models.FxConvertRequest) (*models.FxConvertResponse, error) {
	req.IdempotencyKey = idempotencyKey(req.IdempotencyKey)
	var resp models.FxConvertResponse
	if err := c.send(ctx, http.MethodPost, "/fx/convert", nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
