package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"

	"github.com/stadimeshi/services/api/internal/config"
)

// FCMMessenger implements Messenger over the Firebase Admin SDK.
type FCMMessenger struct {
	client *messaging.Client
}

// NewFCMMessenger initialises a Firebase app from whichever credential form
// is configured and returns its messaging client. Credential resolution
// order: explicit credentials file, inline service-account JSON, then the
// projectId/clientEmail/privateKey triple.
func NewFCMMessenger(ctx context.Context, creds config.FirebaseCredentials) (*FCMMessenger, error) {
	opts, err := credentialOptions(creds)
	if err != nil {
		return nil, err
	}

	var appConfig *firebase.Config
	if creds.ProjectID != "" {
		appConfig = &firebase.Config{ProjectID: creds.ProjectID}
	}

	app, err := firebase.NewApp(ctx, appConfig, opts...)
	if err != nil {
		return nil, fmt.Errorf("firebase アプリの初期化に失敗: %w", err)
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("messaging クライアントの取得に失敗: %w", err)
	}
	return &FCMMessenger{client: client}, nil
}

func credentialOptions(creds config.FirebaseCredentials) ([]option.ClientOption, error) {
	if creds.CredentialsFile != "" {
		return []option.ClientOption{option.WithCredentialsFile(creds.CredentialsFile)}, nil
	}
	if creds.ServiceAccountJSON != "" {
		return []option.ClientOption{option.WithCredentialsJSON([]byte(creds.ServiceAccountJSON))}, nil
	}
	if creds.ProjectID != "" && creds.ClientEmail != "" && creds.PrivateKey != "" {
		// 環境変数経由の秘密鍵は改行がエスケープされていることがある
		privateKey := strings.ReplaceAll(creds.PrivateKey, `\n`, "\n")
		serviceAccount, err := json.Marshal(map[string]string{
			"type":         "service_account",
			"project_id":   creds.ProjectID,
			"client_email": creds.ClientEmail,
			"private_key":  privateKey,
			"token_uri":    "https://oauth2.googleapis.com/token",
		})
		if err != nil {
			return nil, fmt.Errorf("サービスアカウント JSON の組み立てに失敗: %w", err)
		}
		return []option.ClientOption{option.WithCredentialsJSON(serviceAccount)}, nil
	}
	return nil, fmt.Errorf("firebase 認証情報が設定されていません")
}

// Send delivers one push message to a device token.
func (m *FCMMessenger) Send(ctx context.Context, token, title, body string, data map[string]string) error {
	message := &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
	}
	if _, err := m.client.Send(ctx, message); err != nil {
		return fmt.Errorf("FCM 送信に失敗: %w", err)
	}
	return nil
}
