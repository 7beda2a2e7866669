package public

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/stadimeshi/services/api/internal/interfaces/http/common"
	"github.com/stadimeshi/services/api/internal/payments"
)

// createIntentHandler は Stripe の payment intent を作成する API。
// 金額は通貨の最小単位で受け取る。
func (h *Handler) createIntentHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
		defer cancel()

		var req createIntentRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, common.MaxRequestBody)).Decode(&req); err != nil {
			common.WriteError(h.logger, w, http.StatusBadRequest, "リクエストボディの形式が不正です")
			return
		}
		if req.Amount <= 0 {
			common.WriteError(h.logger, w, http.StatusBadRequest, "金額は正の整数で指定してください")
			return
		}
		currency := strings.TrimSpace(req.Currency)
		if currency == "" {
			currency = "usd"
		}

		intent, err := h.intents.CreateIntent(ctx, req.Amount, currency, req.Metadata)
		if err != nil {
			if errors.Is(err, payments.ErrNoPaymentCredentials) {
				common.WriteError(h.logger, w, http.StatusServiceUnavailable, "決済機能が設定されていません")
				return
			}
			h.logger.Printf("payment intent の作成に失敗: %v", err)
			common.WriteError(h.logger, w, http.StatusInternalServerError, "payment intent の作成に失敗しました")
			return
		}

		common.WriteJSON(h.logger, w, http.StatusOK, createIntentResponse{
			ID:           intent.ID,
			ClientSecret: intent.ClientSecret,
			Amount:       intent.Amount,
			Currency:     intent.Currency,
		})
	}
}

// airwallexTestHandler は Airwallex の疎通確認 API。実際の intent 作成は
// 行わず、解決済みの接続先と模擬レスポンスを返す。
func (h *Handler) airwallexTestHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req airwallexTestRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, common.MaxRequestBody)).Decode(&req); err != nil {
			common.WriteError(h.logger, w, http.StatusBadRequest, "リクエストボディの形式が不正です")
			return
		}
		if req.Amount <= 0 {
			common.WriteError(h.logger, w, http.StatusBadRequest, "金額は正の数で指定してください")
			return
		}
		if strings.TrimSpace(req.Currency) == "" {
			req.Currency = "USD"
		}

		common.WriteJSON(h.logger, w, http.StatusOK, h.airwallex.TestAck(req.Amount, req.Currency))
	}
}
