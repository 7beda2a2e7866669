package admin

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/stadimeshi/services/api/internal/catalog/domain"
	"github.com/stadimeshi/services/api/internal/interfaces/http/common"
)

// stadiumUpdateRequest は許可されたフィールドだけを列挙した部分更新の入力。
// 未知のフィールドはデコード時に弾く。
type stadiumUpdateRequest struct {
	StadiumID   string   `json:"stadiumId"`
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Address     *string  `json:"address"`
	Capacity    *int     `json:"capacity"`
	Teams       []string `json:"teams"`
	Color       *string  `json:"color"`
	FloorCount  *int     `json:"floorCount"`

	Seats        *bool `json:"hasSeats"`
	Sections     *bool `json:"hasSections"`
	Floors       *bool `json:"hasFloors"`
	Rooms        *bool `json:"hasRooms"`
	Shops        *bool `json:"hasShops"`
	Stands       *bool `json:"hasStands"`
	PickupPoints *bool `json:"hasPickupPoints"`
	Tickets      *bool `json:"hasTickets"`
}

func (req stadiumUpdateRequest) patch() domain.StadiumPatch {
	return domain.StadiumPatch{
		Name:        req.Name,
		Description: req.Description,
		Address:     req.Address,
		Capacity:    req.Capacity,
		Teams:       req.Teams,
		Color:       req.Color,
		FloorCount:  req.FloorCount,

		Seats:        req.Seats,
		Sections:     req.Sections,
		Floors:       req.Floors,
		Rooms:        req.Rooms,
		Shops:        req.Shops,
		Stands:       req.Stands,
		PickupPoints: req.PickupPoints,
		Tickets:      req.Tickets,
	}
}

// stadiumUpdateHandler は管理者によるスタジアム情報の部分更新 API。
func (h *Handler) stadiumUpdateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, common.MaxRequestBody))
		decoder.DisallowUnknownFields()

		var req stadiumUpdateRequest
		if err := decoder.Decode(&req); err != nil {
			common.WriteError(h.logger, w, http.StatusBadRequest, "リクエストボディの形式が不正です")
			return
		}

		id := strings.TrimSpace(req.StadiumID)
		if _, err := primitive.ObjectIDFromHex(id); err != nil {
			common.WriteError(h.logger, w, http.StatusBadRequest, "スタジアムIDの形式が不正です")
			return
		}

		patch := req.patch()
		if patch.IsEmpty() {
			common.WriteError(h.logger, w, http.StatusBadRequest, "更新対象のフィールドがありません")
			return
		}

		stadium, err := h.stadiumCommands.Update(ctx, id, patch)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrEmptyName),
				errors.Is(err, domain.ErrNegativeCapacity),
				errors.Is(err, domain.ErrNegativeFloorCount):
				common.WriteError(h.logger, w, http.StatusBadRequest, err.Error())
			case errors.Is(err, mongo.ErrNoDocuments):
				common.WriteError(h.logger, w, http.StatusNotFound, "スタジアムが見つかりません")
			default:
				h.logger.Printf("スタジアム %s の更新に失敗: %v", id, err)
				common.WriteError(h.logger, w, http.StatusInternalServerError, "スタジアムの更新に失敗しました")
			}
			return
		}

		user, _ := common.UserFromContext(r.Context())
		h.logger.Printf("スタジアム %s を更新しました (操作者: %s)", id, user.Username)

		common.WriteJSON(h.logger, w, http.StatusOK, map[string]any{
			"success": true,
			"stadium": newStadiumResponse(*stadium),
		})
	}
}
