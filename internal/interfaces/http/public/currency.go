package public

import (
	"context"
	"net/http"
	"time"

	"github.com/stadimeshi/services/api/internal/interfaces/http/common"
)

// currencyRatesHandler は為替レート一覧 API。キャッシュが新しければそれを、
// 期限切れなら再取得した結果を返す。
func (h *Handler) currencyRatesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
		defer cancel()

		values, ok := h.rates.Rates(ctx)
		if !ok {
			common.WriteFailure(h.logger, w, http.StatusServiceUnavailable, "為替レートを取得できませんでした")
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, ratesResponse{Success: true, Rates: values})
	}
}

// currencyUpdateHandler は手動でのレート更新 API。キャッシュが有効なら
// 再取得は行わず成功として扱う。force=true 指定時のみ強制再取得する。
func (h *Handler) currencyUpdateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
		defer cancel()

		force := r.URL.Query().Get("force") == "true"
		if !h.rates.UpdateRates(ctx, force) {
			common.WriteFailure(h.logger, w, http.StatusServiceUnavailable, "為替レートの更新に失敗しました")
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, map[string]any{"success": true})
	}
}
