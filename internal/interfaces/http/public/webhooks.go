package public

import (
	"errors"
	"io"
	"net/http"

	"github.com/stadimeshi/services/api/internal/interfaces/http/common"
	"github.com/stadimeshi/services/api/internal/payments"
)

// stripeWebhookHandler は Stripe からのイベント通知を受け取る。
// 署名検証には生のリクエストボディが必要なため、デコード前に読み切る。
func (h *Handler) stripeWebhookHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !h.webhooks.Configured() {
			common.WriteError(h.logger, w, http.StatusServiceUnavailable, "webhook が設定されていません")
			return
		}

		payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, common.MaxRequestBody))
		if err != nil {
			common.WriteError(h.logger, w, http.StatusBadRequest, "リクエストボディの読み取りに失敗しました")
			return
		}

		if err := h.webhooks.Process(r.Context(), payload, r.Header.Get("Stripe-Signature")); err != nil {
			if errors.Is(err, payments.ErrInvalidSignature) {
				h.logger.Printf("webhook 署名の検証に失敗: %v", err)
				common.WriteError(h.logger, w, http.StatusBadRequest, "署名の検証に失敗しました")
				return
			}
			h.logger.Printf("webhook イベントの処理に失敗: %v", err)
			common.WriteError(h.logger, w, http.StatusInternalServerError, "イベントの処理に失敗しました")
			return
		}

		common.WriteJSON(h.logger, w, http.StatusOK, map[string]bool{"received": true})
	}
}

// stripeWebhookTestHandler はデプロイ確認用の簡易エンドポイント。
func (h *Handler) stripeWebhookTestHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		common.WriteJSON(h.logger, w, http.StatusOK, map[string]any{
			"status":     "ok",
			"configured": h.webhooks.Configured(),
		})
	}
}
