package public

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/stadimeshi/services/api/internal/interfaces/http/common"
)

// stadiumShopListHandler はスタジアム配下の店舗一覧 API。
func (h *Handler) stadiumShopListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		stadiumID := strings.TrimSpace(chi.URLParam(r, "id"))
		if _, err := primitive.ObjectIDFromHex(stadiumID); err != nil {
			common.WriteError(h.logger, w, http.StatusBadRequest, "スタジアムIDの形式が不正です")
			return
		}

		shops, err := h.shopQueries.ListByStadium(ctx, stadiumID)
		if err != nil {
			h.logger.Printf("スタジアム %s の店舗一覧の取得に失敗: %v", stadiumID, err)
			common.WriteError(h.logger, w, http.StatusInternalServerError, "店舗一覧の取得に失敗しました")
			return
		}

		now := time.Now()
		items := make([]shopResponse, 0, len(shops))
		for _, shop := range shops {
			items = append(items, newShopResponse(shop, now))
		}
		common.WriteJSON(h.logger, w, http.StatusOK, items)
	}
}

func (h *Handler) shopDetailHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		id := strings.TrimSpace(chi.URLParam(r, "id"))
		if _, err := primitive.ObjectIDFromHex(id); err != nil {
			common.WriteError(h.logger, w, http.StatusBadRequest, "店舗IDの形式が不正です")
			return
		}

		shop, err := h.shopQueries.Detail(ctx, id)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				common.WriteError(h.logger, w, http.StatusNotFound, "店舗が見つかりません")
				return
			}
			h.logger.Printf("店舗 %s の取得に失敗: %v", id, err)
			common.WriteError(h.logger, w, http.StatusInternalServerError, "店舗の取得に失敗しました")
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, newShopResponse(*shop, time.Now()))
	}
}
