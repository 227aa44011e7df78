package gateway

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/Nzyazin/ledgerconsole/internal/core/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func (c *Client) CreateWallet(ctx context.Context, req models.CreateWalletRequest) (*models.Wallet, error) {
	var w models.Wallet
	if err := c.send(ctx, http.MethodPost, "/wallets", nil, req, &w); err != nil {
		return nil, err
	}
	return &w, nil
}

func (c *Client) ListWallets(ctx context.Context) ([]models.Wallet, error) {
	var wallets []models.Wallet
	if err := c.send(ctx, http.MethodGet, "/wallets", nil, nil, &wallets); err != nil {
		return nil, err
	}
	return wallets, nil
}

func (c *Client) GetWallet(ctx context.Context, id uuid.UUID) (*models.Wallet, error) {
	var w models.Wallet
	if err := c.send(ctx, http.MethodGet, "/wallets/"+id.String(), nil, nil, &w); err != nil {
		return nil, err
	}
	return &w, nil
}

func (c *Client) GetBalance(ctx context.Context, walletID uuid.UUID) (*models.Balance, error) {
	var b models.Balance
	if err := c.send(ctx, http.MethodGet, "/wallets/"+walletID.String()+"/balance", nil, nil, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (c *Client) SuspendWallet(ctx context.Context, id uuid.UUID) (*models.Wallet, error) {
	return c.patchStatus(ctx, id, "suspend")
}

func (c *Client) ActivateWallet(ctx context.Context, id uuid.UUID) (*models.Wallet, error) {
	return c.patchStatus(ctx, id, "activate")
}

func (c *Client) patchStatus(ctx context.Context, id uuid.UUID, action string) (*models.Wallet, error) {
	var w models.Wallet
	if err := c.send(ctx, http.MethodPatch, "/wallets/"+id.String()+"/"+action, nil, struct{}{}, &w); err != nil {
		return nil, err
	}
	return &w, nil
}

func (c *Client) ListTransactions(ctx context.Context, walletID uuid.UUID, filter models.TransactionFilter) (*models.Page[models.Transaction], error) {
	var page models.Page[models.Transaction]
	path := "/wallets/" + walletID.String() + "/transactions"
	if err := c.send(ctx, http.MethodGet, path, filterQuery(filter), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// filterQuery sends only the filters that are set.
func filterQuery(f models.TransactionFilter) url.Values {
	q := url.Values{}
	if f.Direction != "" {
		q.Set("direction", string(f.Direction))
	}
	if f.GroupType != "" {
		q.Set("groupType", string(f.GroupType))
	}
	if f.ReferenceType != "" {
		q.Set("referenceType", string(f.ReferenceType))
	}
	if f.From != nil {
		q.Set("from", f.From.UTC().Format(time.RFC3339))
	}
	if f.To != nil {
		q.Set("to", f.To.UTC().Format(time.RFC3339))
	}
	if f.Page != nil {
		q.Set("page", strconv.Itoa(*f.Page))
	}
	if f.Size != nil {
		q.Set("size", strconv.Itoa(*f.Size))
	}
	if f.Sort != "" {
		q.Set("sort", f.Sort)
	}
	return q
}

func (c *Client) GetTransaction(ctx context.Context, id uuid.UUID) (*models.Transaction, error) {
	var tx models.Transaction
	if err := c.send(ctx, http.MethodGet, "/transactions/"+id.String(), nil, nil, &tx); err != nil {
		return nil, err
	}
	return &tx, nil
}

func (c *Client) FxRate(ctx context.Context, from, to models.Currency, amount decimal.Decimal) (*models.FxRateResponse, error) {
	q := url.Values{}
	q.Set("from", string(from))
	q.Set("to", string(to))
	q.Set("amount", amount.String())

	var rate models.FxRateResponse
	if err := c.send(ctx, http.MethodGet, "/fx/rate", q, nil, &rate); err != nil {
		return nil, err
	}
	return &rate, nil
}
