package public

import (
	"context"
	"log"

	"github.com/go-chi/chi/v5"

	catalogapp "github.com/stadimeshi/services/api/internal/catalog/application"
	"github.com/stadimeshi/services/api/internal/notify"
	"github.com/stadimeshi/services/api/internal/payments"
)

// RateService は為替レート周辺のユースケースを切り出したポート。
type RateService interface {
	Rates(ctx context.Context) (map[string]float64, bool)
	UpdateRates(ctx context.Context, force bool) bool
}

// IntentCreator creates provider-side payment intents.
type IntentCreator interface {
	CreateIntent(ctx context.Context, amount int64, currency string, metadata map[string]string) (*payments.Intent, error)
}

// WebhookReceiver verifies and dispatches inbound payment events.
type WebhookReceiver interface {
	Process(ctx context.Context, payload []byte, signature string) error
	Configured() bool
}

// OrderNotifier dispatches order push notifications.
type OrderNotifier interface {
	SendNewOrder(ctx context.Context, n notify.NewOrderNotification) (int, error)
	SendStatusUpdate(ctx context.Context, n notify.StatusUpdateNotification) error
	DeliveryUserToken(ctx context.Context, deliveryUserID string) (string, error)
}

// Handler wires public HTTP endpoints to application services.
type Handler struct {
	logger         *log.Logger
	stadiumQueries catalogapp.StadiumQueryService
	shopQueries    catalogapp.ShopQueryService
	rates          RateService
	intents        IntentCreator
	webhooks       WebhookReceiver
	airwallex      *payments.AirwallexClient
	notifier       OrderNotifier
}

// Config defines dependencies required by Handler.
type Config struct {
	Logger         *log.Logger
	StadiumQueries catalogapp.StadiumQueryService
	ShopQueries    catalogapp.ShopQueryService
	Rates          RateService
	Intents        IntentCreator
	Webhooks       WebhookReceiver
	Airwallex      *payments.AirwallexClient
	Notifier       OrderNotifier
}

// NewHandler constructs a public HTTP handler set.
func NewHandler(cfg Config) *Handler {
	return &Handler{
		logger:         cfg.Logger,
		stadiumQueries: cfg.StadiumQueries,
		shopQueries:    cfg.ShopQueries,
		rates:          cfg.Rates,
		intents:        cfg.Intents,
		webhooks:       cfg.Webhooks,
		airwallex:      cfg.Airwallex,
		notifier:       cfg.Notifier,
	}
}

// Register mounts all public routes onto the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/stadiums", h.stadiumListHandler())
	r.Get("/stadiums/{id}", h.stadiumDetailHandler())
	r.Get("/stadiums/{id}/shops", h.stadiumShopListHandler())
	r.Get("/shops/{id}", h.shopDetailHandler())

	r.Post("/cart/quote", h.cartQuoteHandler())

	r.Get("/currency/rates", h.currencyRatesHandler())
	r.Post("/currency/update", h.currencyUpdateHandler())

	r.Post("/payments/create-intent", h.createIntentHandler())
	r.Post("/airwallex/test", h.airwallexTestHandler())
	r.Post("/webhooks/stripe", h.stripeWebhookHandler())
	r.Get("/webhooks/stripe/test", h.stripeWebhookTestHandler())

	r.Post("/notify/send-new-order", h.sendNewOrderHandler())
	r.Post("/notify/send-status-update", h.sendStatusUpdateHandler())
	r.Get("/notify/delivery-user/{id}/token", h.deliveryUserTokenHandler())
}
