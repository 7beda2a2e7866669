package main

import (
	"context"
	"log"

	"github.com/stripe/stripe-go/v79/client"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/stadimeshi/services/api/internal/config"
	"github.com/stadimeshi/services/api/internal/notify"
	"github.com/stadimeshi/services/api/internal/payments"
	"github.com/stadimeshi/services/api/internal/server"
)

func main() {
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	clientOptions := options.Client().ApplyURI(cfg.MongoURI).SetServerAPIOptions(options.ServerAPI(options.ServerAPIVersion1))
	mongoClient, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		cfg.ServerLog.Fatalf("MongoDB 接続に失敗しました: %v", err)
	}

	deps := server.Dependencies{}

	if cfg.StripeSecretKey != "" {
		stripeClient := &client.API{}
		stripeClient.Init(cfg.StripeSecretKey, nil)
		deps.StripeGateway = payments.NewStripeGateway(stripeClient)
	} else {
		cfg.ServerLog.Printf("STRIPE_SECRET_KEY 未設定のため Stripe SDK クライアントを初期化しません")
	}

	if messenger, err := notify.NewFCMMessenger(ctx, cfg.Firebase); err != nil {
		cfg.ServerLog.Printf("FCM の初期化に失敗しました。プッシュ通知は無効です: %v", err)
	} else {
		deps.Messenger = messenger
	}

	app := server.New(cfg, mongoClient, deps)
	if err := app.Run(); err != nil {
		log.Fatalf("サーバー起動に失敗: %v", err)
	}
}
