package payments

import "context"

// Intent is the provider-side object representing an in-progress charge.
type Intent struct {
	ID           string
	ClientSecret string
	Amount       int64
	Currency     string
}

// Gateway は決済プロバイダ API のうち本サービスが利用する操作のポート。
// SDK クライアントはプロセス起動時に一度だけ構築し、ここ経由で注入する。
type Gateway interface {
	CreateIntent(ctx context.Context, amount int64, currency string, metadata map[string]string) (*Intent, error)
	ChargeCurrency(ctx context.Context, chargeID string) (string, error)
	Transfer(ctx context.Context, amount int64, currency, destination, transferGroup string) (string, error)
}
