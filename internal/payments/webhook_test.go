package payments

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"testing"
	"time"
)

const testWebhookSecret = "whsec_test_secret"

type transferCall struct {
	amount      int64
	currency    string
	destination string
	group       string
}

type fakeGateway struct {
	chargeCurrency string
	chargeErr      error
	transferErr    error
	chargeLookups  int
	transfers      []transferCall
}

func (g *fakeGateway) CreateIntent(ctx context.Context, amount int64, currency string, metadata map[string]string) (*Intent, error) {
	return &Intent{ID: "pi_fake", ClientSecret: "cs_fake", Amount: amount, Currency: currency}, nil
}

func (g *fakeGateway) ChargeCurrency(ctx context.Context, chargeID string) (string, error) {
	g.chargeLookups++
	if g.chargeErr != nil {
		return "", g.chargeErr
	}
	return g.chargeCurrency, nil
}

func (g *fakeGateway) Transfer(ctx context.Context, amount int64, currency, destination, transferGroup string) (string, error) {
	if g.transferErr != nil {
		return "", g.transferErr
	}
	g.transfers = append(g.transfers, transferCall{amount: amount, currency: currency, destination: destination, group: transferGroup})
	return fmt.Sprintf("tr_%d", len(g.transfers)), nil
}

// signPayload builds a Stripe-Signature header the verifier accepts.
func signPayload(payload []byte, secret string) string {
	timestamp := time.Now().Unix()
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.%s", timestamp, payload)
	return fmt.Sprintf("t=%d,v1=%s", timestamp, hex.EncodeToString(mac.Sum(nil)))
}

func succeededEventPayload(metadata string) []byte {
	return []byte(fmt.Sprintf(`{
		"id": "evt_test_1",
		"object": "event",
		"api_version": "2024-06-20",
		"type": "payment_intent.succeeded",
		"data": {
			"object": {
				"id": "pi_test_1",
				"object": "payment_intent",
				"amount": 5000,
				"currency": "usd",
				"latest_charge": "ch_test_1",
				"metadata": %s
			}
		}
	}`, metadata))
}

func TestProcessRejectsInvalidSignature(t *testing.T) {
	gateway := &fakeGateway{chargeCurrency: "jpy"}
	processor := NewWebhookProcessor(gateway, testWebhookSecret, nil)

	payload := succeededEventPayload(`{"requiresManualTransfers":"true","vendorAmount":"3000","vendorAccount":"acct_vendor"}`)
	err := processor.Process(context.Background(), payload, "t=1,v1=deadbeef")
	if !errors.Is(err, ErrInvalidSignature) {
		t.Fatalf("Process error = %v, want ErrInvalidSignature", err)
	}
	if len(gateway.transfers) != 0 {
		t.Errorf("transfers = %d, want 0 after signature failure", len(gateway.transfers))
	}
	if gateway.chargeLookups != 0 {
		t.Errorf("charge lookups = %d, want 0 after signature failure", gateway.chargeLookups)
	}
}

func TestProcessManualTransfersUseChargeCurrency(t *testing.T) {
	gateway := &fakeGateway{chargeCurrency: "jpy"}
	processor := NewWebhookProcessor(gateway, testWebhookSecret, nil)

	payload := succeededEventPayload(`{
		"requiresManualTransfers": "true",
		"vendorAmount": "3000",
		"hotelAmount": "1500",
		"vendorAccount": "acct_vendor",
		"hotelAccount": "acct_hotel"
	}`)
	if err := processor.Process(context.Background(), payload, signPayload(payload, testWebhookSecret)); err != nil {
		t.Fatalf("Process error = %v", err)
	}

	if len(gateway.transfers) != 2 {
		t.Fatalf("transfers = %d, want 2", len(gateway.transfers))
	}
	for _, call := range gateway.transfers {
		// 申告通貨 usd ではなくチャージの実通貨を使うこと
		if call.currency != "jpy" {
			t.Errorf("transfer currency = %q, want %q", call.currency, "jpy")
		}
		if call.group != "pi_test_1" {
			t.Errorf("transfer group = %q, want %q", call.group, "pi_test_1")
		}
	}
	if gateway.transfers[0].destination != "acct_vendor" || gateway.transfers[0].amount != 3000 {
		t.Errorf("vendor transfer = %+v", gateway.transfers[0])
	}
	if gateway.transfers[1].destination != "acct_hotel" || gateway.transfers[1].amount != 1500 {
		t.Errorf("hotel transfer = %+v", gateway.transfers[1])
	}
}

func TestProcessSkipsNonPositiveAmounts(t *testing.T) {
	gateway := &fakeGateway{chargeCurrency: "usd"}
	processor := NewWebhookProcessor(gateway, testWebhookSecret, nil)

	payload := succeededEventPayload(`{
		"requiresManualTransfers": "true",
		"vendorAmount": "3000",
		"hotelAmount": "0",
		"vendorAccount": "acct_vendor",
		"hotelAccount": "acct_hotel"
	}`)
	if err := processor.Process(context.Background(), payload, signPayload(payload, testWebhookSecret)); err != nil {
		t.Fatalf("Process error = %v", err)
	}

	if len(gateway.transfers) != 1 {
		t.Fatalf("transfers = %d, want 1", len(gateway.transfers))
	}
	if gateway.transfers[0].destination != "acct_vendor" {
		t.Errorf("destination = %q, want acct_vendor", gateway.transfers[0].destination)
	}
}

func TestProcessIgnoresEventsWithoutManualFlag(t *testing.T) {
	gateway := &fakeGateway{chargeCurrency: "usd"}
	processor := NewWebhookProcessor(gateway, testWebhookSecret, nil)

	payload := succeededEventPayload(`{"vendorAmount":"3000","vendorAccount":"acct_vendor"}`)
	if err := processor.Process(context.Background(), payload, signPayload(payload, testWebhookSecret)); err != nil {
		t.Fatalf("Process error = %v", err)
	}
	if len(gateway.transfers) != 0 {
		t.Errorf("transfers = %d, want 0", len(gateway.transfers))
	}
}

func TestProcessIgnoresOtherEventTypes(t *testing.T) {
	gateway := &fakeGateway{}
	processor := NewWebhookProcessor(gateway, testWebhookSecret, nil)

	payload := []byte(`{
		"id": "evt_test_2",
		"object": "event",
		"api_version": "2024-06-20",
		"type": "charge.refunded",
		"data": {"object": {"id": "ch_test_2", "object": "charge"}}
	}`)
	if err := processor.Process(context.Background(), payload, signPayload(payload, testWebhookSecret)); err != nil {
		t.Fatalf("Process error = %v", err)
	}
	if len(gateway.transfers) != 0 || gateway.chargeLookups != 0 {
		t.Errorf("unexpected gateway calls: transfers=%d lookups=%d", len(gateway.transfers), gateway.chargeLookups)
	}
}

func TestProcessTransferFailureDoesNotBlockOther(t *testing.T) {
	gateway := &fakeGateway{chargeCurrency: "usd", chargeErr: errors.New("charge lookup down")}
	processor := NewWebhookProcessor(gateway, testWebhookSecret, nil)

	payload := succeededEventPayload(`{
		"requiresManualTransfers": "true",
		"vendorAmount": "3000",
		"hotelAmount": "1500",
		"vendorAccount": "acct_vendor",
		"hotelAccount": "acct_hotel"
	}`)
	// チャージ取得に失敗しても intent の通貨で送金は続行される
	if err := processor.Process(context.Background(), payload, signPayload(payload, testWebhookSecret)); err != nil {
		t.Fatalf("Process error = %v", err)
	}
	if len(gateway.transfers) != 2 {
		t.Fatalf("transfers = %d, want 2", len(gateway.transfers))
	}
	if gateway.transfers[0].currency != "usd" {
		t.Errorf("fallback currency = %q, want usd", gateway.transfers[0].currency)
	}
}
