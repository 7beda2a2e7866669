package public

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/stadimeshi/services/api/internal/interfaces/http/common"
	"github.com/stadimeshi/services/api/internal/notify"
)

// sendNewOrderHandler は新規注文のプッシュ通知を配達員と店舗管理者へ送る。
func (h *Handler) sendNewOrderHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		var req newOrderRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, common.MaxRequestBody)).Decode(&req); err != nil {
			common.WriteError(h.logger, w, http.StatusBadRequest, "リクエストボディの形式が不正です")
			return
		}
		if strings.TrimSpace(req.OrderID) == "" {
			common.WriteError(h.logger, w, http.StatusBadRequest, "orderId は必須です")
			return
		}

		delivered, err := h.notifier.SendNewOrder(ctx, notify.NewOrderNotification{
			OrderID:        req.OrderID,
			ShopID:         req.ShopID,
			ShopName:       req.ShopName,
			DeliveryUserID: req.DeliveryUserID,
			Total:          req.Total,
			Currency:       req.Currency,
		})
		if err != nil {
			h.writeNotifyError(w, err, "注文通知の送信に失敗しました")
			return
		}

		common.WriteJSON(h.logger, w, http.StatusOK, map[string]any{
			"success":   true,
			"delivered": delivered,
		})
	}
}

// sendStatusUpdateHandler は注文状況の変化を注文者へ通知する。
func (h *Handler) sendStatusUpdateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		var req statusUpdateRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, common.MaxRequestBody)).Decode(&req); err != nil {
			common.WriteError(h.logger, w, http.StatusBadRequest, "リクエストボディの形式が不正です")
			return
		}
		if strings.TrimSpace(req.OrderID) == "" || strings.TrimSpace(req.UserID) == "" {
			common.WriteError(h.logger, w, http.StatusBadRequest, "orderId と userId は必須です")
			return
		}

		err := h.notifier.SendStatusUpdate(ctx, notify.StatusUpdateNotification{
			OrderID: req.OrderID,
			UserID:  req.UserID,
			Status:  req.Status,
		})
		if err != nil {
			h.writeNotifyError(w, err, "状況通知の送信に失敗しました")
			return
		}

		common.WriteJSON(h.logger, w, http.StatusOK, map[string]any{"success": true})
	}
}

// deliveryUserTokenHandler は配達員のデバイストークンを返す確認用 API。
func (h *Handler) deliveryUserTokenHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		id := strings.TrimSpace(chi.URLParam(r, "id"))
		if id == "" {
			common.WriteError(h.logger, w, http.StatusBadRequest, "配達ユーザーIDは必須です")
			return
		}

		token, err := h.notifier.DeliveryUserToken(ctx, id)
		if err != nil {
			h.logger.Printf("配達ユーザー %s のトークン取得に失敗: %v", id, err)
			common.WriteError(h.logger, w, http.StatusNotFound, "配達ユーザーが見つかりません")
			return
		}
		if token == "" {
			common.WriteError(h.logger, w, http.StatusNotFound, "デバイストークンが登録されていません")
			return
		}

		common.WriteJSON(h.logger, w, http.StatusOK, map[string]string{
			"deliveryUserId": id,
			"fcmToken":       token,
		})
	}
}

func (h *Handler) writeNotifyError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, notify.ErrMessagingDisabled):
		common.WriteFailure(h.logger, w, http.StatusServiceUnavailable, "プッシュ通知が設定されていません")
	case errors.Is(err, notify.ErrNoRecipients):
		common.WriteFailure(h.logger, w, http.StatusNotFound, "通知先が見つかりません")
	default:
		h.logger.Printf("通知送信に失敗: %v", err)
		common.WriteFailure(h.logger, w, http.StatusInternalServerError, fallback)
	}
}
