package public

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/stadimeshi/services/api/internal/catalog/domain"
	"github.com/stadimeshi/services/api/internal/notify"
	"github.com/stadimeshi/services/api/internal/payments"
)

type fakeStadiumQueries struct {
	stadiums []domain.Stadium
	detail   *domain.Stadium
	err      error
}

func (f *fakeStadiumQueries) List(ctx context.Context) []domain.Stadium {
	return f.stadiums
}

func (f *fakeStadiumQueries) Detail(ctx context.Context, id string) (*domain.Stadium, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.detail, nil
}

type fakeShopQueries struct {
	shops  []domain.Shop
	detail *domain.Shop
	err    error
}

func (f *fakeShopQueries) ListByStadium(ctx context.Context, stadiumID string) ([]domain.Shop, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.shops, nil
}

func (f *fakeShopQueries) Detail(ctx context.Context, id string) (*domain.Shop, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.detail, nil
}

type fakeRates struct {
	values   map[string]float64
	ok       bool
	updateOK bool
	updates  int
	gotForce bool
}

func (f *fakeRates) Rates(ctx context.Context) (map[string]float64, bool) {
	return f.values, f.ok
}

func (f *fakeRates) UpdateRates(ctx context.Context, force bool) bool {
	f.updates++
	f.gotForce = force
	return f.updateOK
}

type fakeIntents struct {
	intent *payments.Intent
	err    error

	gotAmount   int64
	gotCurrency string
}

func (f *fakeIntents) CreateIntent(ctx context.Context, amount int64, currency string, metadata map[string]string) (*payments.Intent, error) {
	f.gotAmount = amount
	f.gotCurrency = currency
	if f.err != nil {
		return nil, f.err
	}
	return f.intent, nil
}

type fakeWebhooks struct {
	configured bool
	err        error

	gotPayload   []byte
	gotSignature string
}

func (f *fakeWebhooks) Process(ctx context.Context, payload []byte, signature string) error {
	f.gotPayload = append([]byte(nil), payload...)
	f.gotSignature = signature
	return f.err
}

func (f *fakeWebhooks) Configured() bool { return f.configured }

type fakeNotifier struct {
	delivered int
	err       error
	token     string
	tokenErr  error
}

func (f *fakeNotifier) SendNewOrder(ctx context.Context, n notify.NewOrderNotification) (int, error) {
	return f.delivered, f.err
}

func (f *fakeNotifier) SendStatusUpdate(ctx context.Context, n notify.StatusUpdateNotification) error {
	return f.err
}

func (f *fakeNotifier) DeliveryUserToken(ctx context.Context, deliveryUserID string) (string, error) {
	return f.token, f.tokenErr
}

func newTestRouter(cfg Config) http.Handler {
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard, "", 0)
	}
	if cfg.Airwallex == nil {
		cfg.Airwallex = payments.NewAirwallexClient("demo", "", "", "", nil, nil)
	}
	router := chi.NewRouter()
	NewHandler(cfg).Register(router)
	return router
}

func TestCartQuoteHandler(t *testing.T) {
	router := newTestRouter(Config{})

	body := `{"items":[
		{"id":"beer","name":"ビール","price":10,"quantity":2},
		{"id":"fries","name":"ポテト","price":5,"quantity":1}
	]}`
	req := httptest.NewRequest(http.MethodPost, "/cart/quote", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body: %s)", rec.Code, rec.Body.String())
	}

	var res cartQuoteResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("解析に失敗: %v", err)
	}
	if res.Subtotal != 25 {
		t.Errorf("subtotal = %v, want 25", res.Subtotal)
	}
	if res.DeliveryFee != 6 {
		t.Errorf("deliveryFee = %v, want 6", res.DeliveryFee)
	}
	if res.Tip != 0 || res.Discount != 0 {
		t.Errorf("tip = %v, discount = %v, want 0 and 0", res.Tip, res.Discount)
	}
	if res.Total != 31 {
		t.Errorf("total = %v, want 31", res.Total)
	}
	if res.TotalQuantity != 3 {
		t.Errorf("totalQuantity = %d, want 3", res.TotalQuantity)
	}
}

func TestCartQuoteHandlerMergesDuplicateLines(t *testing.T) {
	router := newTestRouter(Config{})

	body := `{"items":[
		{"id":"beer","price":10,"quantity":1},
		{"id":"beer","price":10,"quantity":2}
	]}`
	req := httptest.NewRequest(http.MethodPost, "/cart/quote", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var res cartQuoteResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("解析に失敗: %v", err)
	}
	if res.TotalQuantity != 3 {
		t.Errorf("totalQuantity = %d, want 3", res.TotalQuantity)
	}
	if res.Total != 36 {
		t.Errorf("total = %v, want 36", res.Total)
	}
}

func TestCartQuoteHandlerRejectsBadInput(t *testing.T) {
	router := newTestRouter(Config{})

	cases := []struct {
		name string
		body string
	}{
		{"空のカート", `{"items":[]}`},
		{"壊れた JSON", `{"items":`},
		{"数量ゼロ", `{"items":[{"id":"beer","price":10,"quantity":0}]}`},
		{"負の価格", `{"items":[{"id":"beer","price":-1,"quantity":1}]}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/cart/quote", strings.NewReader(tc.body))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestStadiumListHandler(t *testing.T) {
	queries := &fakeStadiumQueries{stadiums: []domain.Stadium{
		{ID: "661a1f0e8b3c2a0001000001", Name: "東京ドーム"},
		{ID: "661a1f0e8b3c2a0001000002", Name: "日産スタジアム"},
	}}
	router := newTestRouter(Config{StadiumQueries: queries, ShopQueries: &fakeShopQueries{}})

	req := httptest.NewRequest(http.MethodGet, "/stadiums", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var res []stadiumResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("解析に失敗: %v", err)
	}
	if len(res) != 2 {
		t.Fatalf("len = %d, want 2", len(res))
	}
	if res[0].Name != "東京ドーム" {
		t.Errorf("name = %q", res[0].Name)
	}
}

func TestStadiumDetailHandlerRejectsMalformedID(t *testing.T) {
	router := newTestRouter(Config{StadiumQueries: &fakeStadiumQueries{}})

	req := httptest.NewRequest(http.MethodGet, "/stadiums/not-an-id", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestCurrencyRatesHandler(t *testing.T) {
	rates := &fakeRates{values: map[string]float64{"USD": 1, "JPY": 147.2}, ok: true}
	router := newTestRouter(Config{Rates: rates})

	req := httptest.NewRequest(http.MethodGet, "/currency/rates", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var res ratesResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("解析に失敗: %v", err)
	}
	if !res.Success {
		t.Error("success = false, want true")
	}
	if res.Rates["JPY"] != 147.2 {
		t.Errorf("JPY = %v, want 147.2", res.Rates["JPY"])
	}
}

func TestCurrencyRatesHandlerUnavailable(t *testing.T) {
	router := newTestRouter(Config{Rates: &fakeRates{ok: false}})

	req := httptest.NewRequest(http.MethodGet, "/currency/rates", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
}

func TestCurrencyUpdateHandler(t *testing.T) {
	rates := &fakeRates{updateOK: true}
	router := newTestRouter(Config{Rates: rates})

	req := httptest.NewRequest(http.MethodPost, "/currency/update", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if rates.updates != 1 {
		t.Errorf("updates = %d, want 1", rates.updates)
	}
	if rates.gotForce {
		t.Error("force = true, want false")
	}
}

func TestCurrencyUpdateHandlerForce(t *testing.T) {
	rates := &fakeRates{updateOK: true}
	router := newTestRouter(Config{Rates: rates})

	req := httptest.NewRequest(http.MethodPost, "/currency/update?force=true", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !rates.gotForce {
		t.Error("force = false, want true")
	}
}

func TestCreateIntentHandler(t *testing.T) {
	intents := &fakeIntents{intent: &payments.Intent{
		ID:           "pi_123",
		ClientSecret: "pi_123_secret",
		Amount:       3100,
		Currency:     "usd",
	}}
	router := newTestRouter(Config{Intents: intents})

	body := `{"amount":3100,"currency":"usd","metadata":{"orderId":"order-1"}}`
	req := httptest.NewRequest(http.MethodPost, "/payments/create-intent", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body: %s)", rec.Code, rec.Body.String())
	}
	var res createIntentResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("解析に失敗: %v", err)
	}
	if res.ClientSecret != "pi_123_secret" {
		t.Errorf("clientSecret = %q", res.ClientSecret)
	}
	if intents.gotAmount != 3100 {
		t.Errorf("amount = %d, want 3100", intents.gotAmount)
	}
}

func TestCreateIntentHandlerValidation(t *testing.T) {
	router := newTestRouter(Config{Intents: &fakeIntents{}})

	req := httptest.NewRequest(http.MethodPost, "/payments/create-intent", strings.NewReader(`{"amount":0}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestCreateIntentHandlerNoCredentials(t *testing.T) {
	router := newTestRouter(Config{Intents: &fakeIntents{err: payments.ErrNoPaymentCredentials}})

	req := httptest.NewRequest(http.MethodPost, "/payments/create-intent", strings.NewReader(`{"amount":500,"currency":"jpy"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
}

func TestStripeWebhookHandlerInvalidSignature(t *testing.T) {
	webhooks := &fakeWebhooks{configured: true, err: payments.ErrInvalidSignature}
	router := newTestRouter(Config{Webhooks: webhooks})

	req := httptest.NewRequest(http.MethodPost, "/webhooks/stripe", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Stripe-Signature", "t=1,v1=bogus")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if webhooks.gotSignature != "t=1,v1=bogus" {
		t.Errorf("signature = %q", webhooks.gotSignature)
	}
}

func TestStripeWebhookHandlerPassesRawPayload(t *testing.T) {
	webhooks := &fakeWebhooks{configured: true}
	router := newTestRouter(Config{Webhooks: webhooks})

	payload := `{"type":"payment_intent.succeeded"}`
	req := httptest.NewRequest(http.MethodPost, "/webhooks/stripe", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if string(webhooks.gotPayload) != payload {
		t.Errorf("payload = %q, want %q", webhooks.gotPayload, payload)
	}
}

func TestStripeWebhookHandlerUnconfigured(t *testing.T) {
	router := newTestRouter(Config{Webhooks: &fakeWebhooks{configured: false}})

	req := httptest.NewRequest(http.MethodPost, "/webhooks/stripe", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
}

func TestStripeWebhookTestHandler(t *testing.T) {
	router := newTestRouter(Config{Webhooks: &fakeWebhooks{configured: true}})

	req := httptest.NewRequest(http.MethodGet, "/webhooks/stripe/test", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var res map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("解析に失敗: %v", err)
	}
	if res["status"] != "ok" {
		t.Errorf("status = %v", res["status"])
	}
	if res["configured"] != true {
		t.Errorf("configured = %v, want true", res["configured"])
	}
}

func TestAirwallexTestHandler(t *testing.T) {
	router := newTestRouter(Config{})

	body := `{"amount":31,"currency":"usd"}`
	req := httptest.NewRequest(http.MethodPost, "/airwallex/test", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var res map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("解析に失敗: %v", err)
	}
	if res["success"] != true || res["simulated"] != true {
		t.Errorf("success = %v, simulated = %v", res["success"], res["simulated"])
	}
	if res["currency"] != "USD" {
		t.Errorf("currency = %v, want USD", res["currency"])
	}
	id, _ := res["paymentId"].(string)
	if !strings.HasPrefix(id, "awx_test_") {
		t.Errorf("paymentId = %q", id)
	}
}

func TestSendNewOrderHandler(t *testing.T) {
	router := newTestRouter(Config{Notifier: &fakeNotifier{delivered: 3}})

	body := `{"orderId":"order-1","shopId":"shop-1","deliveryUserId":"delivery-001"}`
	req := httptest.NewRequest(http.MethodPost, "/notify/send-new-order", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var res map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("解析に失敗: %v", err)
	}
	if res["delivered"] != float64(3) {
		t.Errorf("delivered = %v, want 3", res["delivered"])
	}
}

func TestSendNewOrderHandlerNoRecipients(t *testing.T) {
	router := newTestRouter(Config{Notifier: &fakeNotifier{err: notify.ErrNoRecipients}})

	body := `{"orderId":"order-1","shopId":"shop-1"}`
	req := httptest.NewRequest(http.MethodPost, "/notify/send-new-order", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestSendStatusUpdateHandlerRequiresIDs(t *testing.T) {
	router := newTestRouter(Config{Notifier: &fakeNotifier{}})

	req := httptest.NewRequest(http.MethodPost, "/notify/send-status-update", strings.NewReader(`{"orderId":"order-1"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestDeliveryUserTokenHandler(t *testing.T) {
	router := newTestRouter(Config{Notifier: &fakeNotifier{token: "fcm-delivery-token-001"}})

	req := httptest.NewRequest(http.MethodGet, "/notify/delivery-user/delivery-001/token", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var res map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("解析に失敗: %v", err)
	}
	if res["fcmToken"] != "fcm-delivery-token-001" {
		t.Errorf("fcmToken = %q", res["fcmToken"])
	}
}

func TestDeliveryUserTokenHandlerNotFound(t *testing.T) {
	router := newTestRouter(Config{Notifier: &fakeNotifier{tokenErr: errors.New("not found")}})

	req := httptest.NewRequest(http.MethodGet, "/notify/delivery-user/missing/token", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}
