package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	stripe "github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/webhook"
)

// ErrInvalidSignature marks a webhook whose signature did not verify.
var ErrInvalidSignature = errors.New("webhook signature verification failed")

// Metadata keys set by the checkout flow on the payment intent.
const (
	metaRequiresManualTransfers = "requiresManualTransfers"
	metaVendorAmount            = "vendorAmount"
	metaHotelAmount             = "hotelAmount"
	metaVendorAccount           = "vendorAccount"
	metaHotelAccount            = "hotelAccount"
)

// WebhookProcessor verifies and dispatches inbound Stripe events.
type WebhookProcessor struct {
	gateway Gateway
	secret  string
	logger  *log.Logger
}

// NewWebhookProcessor creates a processor bound to the endpoint secret.
func NewWebhookProcessor(gateway Gateway, secret string, logger *log.Logger) *WebhookProcessor {
	return &WebhookProcessor{gateway: gateway, secret: secret, logger: logger}
}

// Configured reports whether an endpoint secret is present.
func (p *WebhookProcessor) Configured() bool {
	return p.secret != ""
}

// Process verifies the signature and handles the event. A verification
// failure returns ErrInvalidSignature and nothing is processed; once the
// signature is good the outcome is always nil, transfer failures included.
func (p *WebhookProcessor) Process(ctx context.Context, payload []byte, signature string) error {
	event, err := webhook.ConstructEvent(payload, signature, p.secret)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	switch event.Type {
	case "payment_intent.succeeded":
		p.handleIntentSucceeded(ctx, event)
	default:
		p.logf("Webhook イベント %s (%s) は処理対象外のため無視します", event.ID, event.Type)
	}
	return nil
}

// handleIntentSucceeded は手動送金フラグ付きの決済完了を処理する。
// 送金は宛先ごとに独立で、片方の失敗がもう片方を妨げない。
func (p *WebhookProcessor) handleIntentSucceeded(ctx context.Context, event stripe.Event) {
	var pi stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
		p.logf("イベント %s の payment intent 解析に失敗: %v", event.ID, err)
		return
	}

	if !strings.EqualFold(pi.Metadata[metaRequiresManualTransfers], "true") {
		p.logf("イベント %s: 手動送金フラグなし。処理を終了します", event.ID)
		return
	}

	// メタデータの申告通貨ではなく、チャージの実通貨で送金する。
	currency := string(pi.Currency)
	if pi.LatestCharge != nil && pi.LatestCharge.ID != "" {
		chargeCurrency, err := p.gateway.ChargeCurrency(ctx, pi.LatestCharge.ID)
		if err != nil {
			p.logf("イベント %s: チャージ通貨の取得に失敗、intent の通貨を使用: %v", event.ID, err)
		} else if chargeCurrency != "" {
			currency = chargeCurrency
		}
	}

	vendorAmount := parseMetaAmount(pi.Metadata[metaVendorAmount])
	hotelAmount := parseMetaAmount(pi.Metadata[metaHotelAmount])

	if vendorAmount > 0 {
		p.transfer(ctx, event.ID, vendorAmount, currency, pi.Metadata[metaVendorAccount], pi.ID, "vendor")
	}
	if hotelAmount > 0 {
		p.transfer(ctx, event.ID, hotelAmount, currency, pi.Metadata[metaHotelAccount], pi.ID, "hotel")
	}
}

func (p *WebhookProcessor) transfer(ctx context.Context, eventID string, amount int64, currency, destination, transferGroup, label string) {
	destination = strings.TrimSpace(destination)
	if destination == "" {
		p.logf("イベント %s: %s 宛先アカウントが未指定のため送金をスキップ", eventID, label)
		return
	}

	transferID, err := p.gateway.Transfer(ctx, amount, currency, destination, transferGroup)
	if err != nil {
		p.logf("イベント %s: %s への送金に失敗: %v", eventID, label, err)
		return
	}
	p.logf("イベント %s: %s への送金を作成しました id=%s amount=%d %s", eventID, label, transferID, amount, currency)
}

func parseMetaAmount(raw string) int64 {
	value, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0
	}
	return value
}

func (p *WebhookProcessor) logf(format string, args ...any) {
	if p.logger != nil {
		p.logger.Printf(format, args...)
	}
}
