// Package gateway is the typed REST surface of the ledger API. Every call
// goes through the request pipeline and is never retried here.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/Nzyazin/ledgerconsole/internal/core/logger"
	"github.com/Nzyazin/ledgerconsole/internal/core/pipeline"
)

const basePath = "/api/v1"

type Client struct {
	doer pipeline.Doer
	log  logger.Logger
}

func NewClient(doer pipeline.Doer, log logger.Logger) *Client {
	return &Client{doer: doer, log: log}
}

func (c *Client) send(ctx context.Context, method, path string, query url.Values, in, out interface{}) error {
	target := basePath + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.doer.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	// Без пайплайна ошибки статуса приходят как обычный ответ.
	if resp.StatusCode >= http.StatusBadRequest {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		apiErr := pipeline.Classify(resp.StatusCode, "", data, nil)
		apiErr.Method, apiErr.Path = method, req.URL.Path
		return apiErr
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.log.Error("Failed to decode ledger response",
			logger.StringField("method", method),
			logger.StringField("path", path),
			logger.ErrorField("error", err))
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}
