// Package exchange fetches spot rates from the external exchange-rate API.
package exchange

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client implements currency.RateFetcher over the public rate API.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// NewClient binds the configured endpoint. The per-fetch deadline is driven
// by the caller's context; the client timeout is only a safety net.
func NewClient(endpoint string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{endpoint: strings.TrimSpace(endpoint), httpClient: httpClient}
}

// Fetch retrieves the latest rate mapping.
func (c *Client) Fetch(ctx context.Context) (map[string]float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("レート取得リクエストの作成に失敗: %w", err)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("レート取得リクエストに失敗: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("レートレスポンスの読み取りに失敗: %w", err)
	}
	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("レート API がエラーを返却: status=%d body=%s", res.StatusCode, strings.TrimSpace(string(body)))
	}

	// プロバイダによってキー名が異なる（rates / conversion_rates）
	var payload struct {
		Rates           map[string]float64 `json:"rates"`
		ConversionRates map[string]float64 `json:"conversion_rates"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("レートレスポンスの解析に失敗: %w", err)
	}

	values := payload.Rates
	if len(values) == 0 {
		values = payload.ConversionRates
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("レート API のレスポンスにレート表がありません")
	}
	return values, nil
}
