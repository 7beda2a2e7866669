package public

import (
	"encoding/json"
	"net/http"

	"github.com/stadimeshi/services/api/internal/cart"
	"github.com/stadimeshi/services/api/internal/interfaces/http/common"
)

// cartQuoteHandler はカート内容から合計金額を見積もる API。
// 金額計算をサーバー側へ寄せ、クライアントとの計算ずれを防ぐ。
func (h *Handler) cartQuoteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req cartQuoteRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, common.MaxRequestBody)).Decode(&req); err != nil {
			common.WriteError(h.logger, w, http.StatusBadRequest, "リクエストボディの形式が不正です")
			return
		}
		if len(req.Items) == 0 {
			common.WriteError(h.logger, w, http.StatusBadRequest, "カートが空です")
			return
		}

		basket := cart.Cart{}
		for _, item := range req.Items {
			basket.Add(cart.Item{
				ID:       item.ID,
				Name:     item.Name,
				Price:    item.Price,
				Currency: item.Currency,
				Quantity: item.Quantity,
				Images:   item.Images,
			})
		}
		if err := basket.Validate(); err != nil {
			common.WriteError(h.logger, w, http.StatusBadRequest, err.Error())
			return
		}

		common.WriteJSON(h.logger, w, http.StatusOK, cartQuoteResponse{
			Subtotal:      basket.Subtotal(),
			DeliveryFee:   basket.DeliveryFee(),
			Tip:           basket.Tip(),
			Discount:      basket.Discount(),
			Total:         basket.Total(),
			TotalQuantity: basket.TotalQuantity(),
		})
	}
}
