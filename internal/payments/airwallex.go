package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	airwallexDemoBaseURL = "https://api-demo.airwallex.com"
	airwallexProdBaseURL = "https://api.airwallex.com"
)

// AirwallexClient talks to the Airwallex payment-acceptance REST API.
// 環境変数で demo/prod を切り替え、キーが無い場合は無効クライアントとして動く。
type AirwallexClient struct {
	baseURL    string
	clientID   string
	apiKey     string
	httpClient *http.Client
	logger     *log.Logger
}

// NewAirwallexClient selects the base URL from env (demo unless "prod"),
// unless an explicit base URL override is given.
func NewAirwallexClient(env, clientID, apiKey, baseURL string, httpClient *http.Client, logger *log.Logger) *AirwallexClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	resolved := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if resolved == "" {
		if strings.EqualFold(strings.TrimSpace(env), "prod") || strings.EqualFold(strings.TrimSpace(env), "production") {
			resolved = airwallexProdBaseURL
		} else {
			resolved = airwallexDemoBaseURL
		}
	}
	return &AirwallexClient{
		baseURL:    resolved,
		clientID:   strings.TrimSpace(clientID),
		apiKey:     strings.TrimSpace(apiKey),
		httpClient: httpClient,
		logger:     logger,
	}
}

// BaseURL returns the resolved API base.
func (c *AirwallexClient) BaseURL() string {
	return c.baseURL
}

// Configured reports whether API credentials are present.
func (c *AirwallexClient) Configured() bool {
	return c.clientID != "" && c.apiKey != ""
}

// Authenticate exchanges the client id / api key pair for a bearer token.
func (c *AirwallexClient) Authenticate(ctx context.Context) (string, error) {
	if !c.Configured() {
		return "", fmt.Errorf("airwallex credentials are not configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/authentication/login", nil)
	if err != nil {
		return "", fmt.Errorf("airwallex 認証リクエストの作成に失敗: %w", err)
	}
	req.Header.Set("x-client-id", c.clientID)
	req.Header.Set("x-api-key", c.apiKey)

	res, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("airwallex 認証リクエストに失敗: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("airwallex 認証レスポンスの読み取りに失敗: %w", err)
	}
	if res.StatusCode >= 400 {
		return "", fmt.Errorf("airwallex 認証でエラーが発生: status=%d body=%s", res.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("airwallex 認証レスポンスの解析に失敗: %w", err)
	}
	if payload.Token == "" {
		return "", fmt.Errorf("airwallex 認証レスポンスに token がありません")
	}
	return payload.Token, nil
}

// CreateIntent creates an Airwallex payment intent for the given major-unit
// amount. A fresh request id is generated per call.
func (c *AirwallexClient) CreateIntent(ctx context.Context, amount float64, currency, merchantOrderID string) (map[string]any, error) {
	token, err := c.Authenticate(ctx)
	if err != nil {
		return nil, err
	}

	if merchantOrderID == "" {
		merchantOrderID = uuid.NewString()
	}
	reqBody, err := json.Marshal(map[string]any{
		"request_id":        uuid.NewString(),
		"amount":            amount,
		"currency":          strings.ToUpper(currency),
		"merchant_order_id": merchantOrderID,
	})
	if err != nil {
		return nil, fmt.Errorf("airwallex intent ペイロードの作成に失敗: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/pa/payment_intents/create", bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("airwallex intent リクエストの作成に失敗: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("airwallex intent リクエストに失敗: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("airwallex intent レスポンスの読み取りに失敗: %w", err)
	}
	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("airwallex intent の作成でエラーが発生: status=%d body=%s", res.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("airwallex intent レスポンスの解析に失敗: %w", err)
	}
	return payload, nil
}

// TestAck builds the simulated acknowledgment returned by the test endpoint.
func (c *AirwallexClient) TestAck(amount float64, currency string) map[string]any {
	return map[string]any{
		"success":   true,
		"simulated": true,
		"env":       c.baseURL,
		"paymentId": "awx_test_" + uuid.NewString(),
		"amount":    amount,
		"currency":  strings.ToUpper(currency),
		"createdAt": time.Now().UTC().Format(time.RFC3339),
	}
}
