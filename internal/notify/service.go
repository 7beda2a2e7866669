// Package notify dispatches order push notifications to app users.
package notify

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
)

var (
	// ErrNoRecipients is returned when a notification resolves to no token.
	ErrNoRecipients = errors.New("no notification recipients resolved")
	// ErrMessagingDisabled is returned when no push client is configured.
	ErrMessagingDisabled = errors.New("push messaging is not configured")
)

// Messenger sends a single push message to a device token.
type Messenger interface {
	Send(ctx context.Context, token, title, body string, data map[string]string) error
}

// TokenDirectory resolves device tokens from the user collections.
type TokenDirectory interface {
	DeliveryUserToken(ctx context.Context, deliveryUserID string) (string, error)
	ShopAdminTokens(ctx context.Context, shopID string) ([]string, error)
	CustomerToken(ctx context.Context, userID string) (string, error)
}

// NewOrderNotification carries the payload of a freshly placed order.
type NewOrderNotification struct {
	OrderID        string
	ShopID         string
	ShopName       string
	DeliveryUserID string
	Total          float64
	Currency       string
}

// StatusUpdateNotification informs a customer about an order transition.
type StatusUpdateNotification struct {
	OrderID string
	UserID  string
	Status  string
}

// Service resolves recipients and sends via the injected messenger.
// 送信は宛先ごとに独立で、一部の失敗は記録するだけで残りを止めない。
type Service struct {
	messenger Messenger
	directory TokenDirectory
	logger    *log.Logger
}

// NewService creates the notification dispatcher. messenger may be nil when
// push credentials are absent; sends then fail with ErrMessagingDisabled.
func NewService(messenger Messenger, directory TokenDirectory, logger *log.Logger) *Service {
	return &Service{messenger: messenger, directory: directory, logger: logger}
}

// SendNewOrder notifies the assigned delivery user and every admin of the
// ordering shop. It returns how many pushes were delivered; an error is
// returned only when messaging is disabled or nobody could be resolved.
func (s *Service) SendNewOrder(ctx context.Context, n NewOrderNotification) (int, error) {
	if s.messenger == nil {
		return 0, ErrMessagingDisabled
	}

	title := "新しい注文"
	body := fmt.Sprintf("%s で新しい注文が入りました（注文 %s）", n.ShopName, n.OrderID)
	if strings.TrimSpace(n.ShopName) == "" {
		body = fmt.Sprintf("新しい注文が入りました（注文 %s）", n.OrderID)
	}
	data := map[string]string{
		"type":    "new_order",
		"orderId": n.OrderID,
		"shopId":  n.ShopID,
	}

	resolved := 0
	delivered := 0

	if id := strings.TrimSpace(n.DeliveryUserID); id != "" {
		token, err := s.directory.DeliveryUserToken(ctx, id)
		if err != nil {
			s.logf("配達ユーザー %s のトークン取得に失敗: %v", id, err)
		} else if token != "" {
			resolved++
			if err := s.messenger.Send(ctx, token, title, body, data); err != nil {
				s.logf("配達ユーザー %s への通知送信に失敗: %v", id, err)
			} else {
				delivered++
			}
		}
	}

	if shopID := strings.TrimSpace(n.ShopID); shopID != "" {
		tokens, err := s.directory.ShopAdminTokens(ctx, shopID)
		if err != nil {
			s.logf("店舗 %s の管理者トークン取得に失敗: %v", shopID, err)
		}
		for _, token := range tokens {
			if token == "" {
				continue
			}
			resolved++
			if err := s.messenger.Send(ctx, token, title, body, data); err != nil {
				s.logf("店舗 %s の管理者への通知送信に失敗: %v", shopID, err)
				continue
			}
			delivered++
		}
	}

	if resolved == 0 {
		return 0, ErrNoRecipients
	}
	return delivered, nil
}

// SendStatusUpdate notifies the ordering customer of a status change.
func (s *Service) SendStatusUpdate(ctx context.Context, n StatusUpdateNotification) error {
	if s.messenger == nil {
		return ErrMessagingDisabled
	}

	token, err := s.directory.CustomerToken(ctx, n.UserID)
	if err != nil {
		return fmt.Errorf("ユーザー %s のトークン取得に失敗: %w", n.UserID, err)
	}
	if token == "" {
		return ErrNoRecipients
	}

	title := "注文状況が更新されました"
	body := fmt.Sprintf("注文 %s の状況: %s", n.OrderID, statusLabel(n.Status))
	data := map[string]string{
		"type":    "order_status",
		"orderId": n.OrderID,
		"status":  n.Status,
	}
	return s.messenger.Send(ctx, token, title, body, data)
}

// DeliveryUserToken exposes the raw token lookup for the token endpoint.
func (s *Service) DeliveryUserToken(ctx context.Context, deliveryUserID string) (string, error) {
	return s.directory.DeliveryUserToken(ctx, deliveryUserID)
}

func statusLabel(status string) string {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "accepted":
		return "受付済み"
	case "preparing":
		return "調理中"
	case "delivering":
		return "配達中"
	case "ready":
		return "受け取り可能"
	case "delivered", "completed":
		return "完了"
	case "cancelled", "canceled":
		return "キャンセル"
	default:
		return status
	}
}

func (s *Service) logf(format string, args ...any) {
	if s.logger != nil {
		s.logger.Printf(format, args...)
	}
}
