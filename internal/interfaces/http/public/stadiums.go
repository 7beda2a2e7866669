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

// stadiumListHandler はスタジアム一覧 API。取得失敗時はクエリサービス側で
// 静的フォールバックに切り替わるため、ここでは常に 200 を返す。
func (h *Handler) stadiumListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		stadiums := h.stadiumQueries.List(ctx)
		items := make([]stadiumResponse, 0, len(stadiums))
		for _, stadium := range stadiums {
			items = append(items, newStadiumResponse(stadium))
		}
		common.WriteJSON(h.logger, w, http.StatusOK, items)
	}
}

func (h *Handler) stadiumDetailHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		id := strings.TrimSpace(chi.URLParam(r, "id"))
		if _, err := primitive.ObjectIDFromHex(id); err != nil {
			common.WriteError(h.logger, w, http.StatusBadRequest, "スタジアムIDの形式が不正です")
			return
		}

		stadium, err := h.stadiumQueries.Detail(ctx, id)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				common.WriteError(h.logger, w, http.StatusNotFound, "スタジアムが見つかりません")
				return
			}
			h.logger.Printf("スタジアム %s の取得に失敗: %v", id, err)
			common.WriteError(h.logger, w, http.StatusInternalServerError, "スタジアムの取得に失敗しました")
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, newStadiumResponse(*stadium))
	}
}
