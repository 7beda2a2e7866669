package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const stripeAPIBase = "https://api.stripe.com/v1"

// ErrNoPaymentCredentials is returned when neither the SDK client nor the
// legacy fallback key is configured.
var ErrNoPaymentCredentials = errors.New("stripe credentials are not configured")

// Service creates payment intents via the injected gateway, falling back to
// the Stripe REST API with the legacy key when no SDK client is available.
type Service struct {
	gateway     Gateway
	fallbackKey string
	httpClient  *http.Client
	logger      *log.Logger
}

// NewService は SDK ゲートウェイ（未設定なら nil）とフォールバック用キーを束ねる。
func NewService(gateway Gateway, fallbackKey string, httpClient *http.Client, logger *log.Logger) *Service {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Service{gateway: gateway, fallbackKey: fallbackKey, httpClient: httpClient, logger: logger}
}

// CreateIntent creates a payment intent for the given minor-unit amount.
func (s *Service) CreateIntent(ctx context.Context, amount int64, currency string, metadata map[string]string) (*Intent, error) {
	if s.gateway != nil {
		return s.gateway.CreateIntent(ctx, amount, currency, metadata)
	}
	if s.fallbackKey == "" {
		return nil, ErrNoPaymentCredentials
	}
	if s.logger != nil {
		s.logger.Printf("SDK クライアント未設定のため REST フォールバックで payment intent を作成します")
	}
	return s.restCreateIntent(ctx, amount, currency, metadata)
}

// restCreateIntent は SDK を介さず REST API を直接叩く旧経路。
func (s *Service) restCreateIntent(ctx context.Context, amount int64, currency string, metadata map[string]string) (*Intent, error) {
	form := url.Values{}
	form.Set("amount", strconv.FormatInt(amount, 10))
	form.Set("currency", strings.ToLower(currency))
	form.Set("automatic_payment_methods[enabled]", "true")
	for key, value := range metadata {
		form.Set("metadata["+key+"]", value)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, stripeAPIBase+"/payment_intents", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("payment intent リクエストの作成に失敗: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.fallbackKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	res, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("payment intent リクエストに失敗: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("payment intent レスポンスの読み取りに失敗: %w", err)
	}
	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("payment intent の作成でエラーが発生: status=%d body=%s", res.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload struct {
		ID           string `json:"id"`
		ClientSecret string `json:"client_secret"`
		Amount       int64  `json:"amount"`
		Currency     string `json:"currency"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("payment intent レスポンスの解析に失敗: %w", err)
	}
	return &Intent{
		ID:           payload.ID,
		ClientSecret: payload.ClientSecret,
		Amount:       payload.Amount,
		Currency:     payload.Currency,
	}, nil
}
