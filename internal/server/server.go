package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	catalogapp "github.com/stadimeshi/services/api/internal/catalog/application"
	"github.com/stadimeshi/services/api/internal/config"
	"github.com/stadimeshi/services/api/internal/currency"
	"github.com/stadimeshi/services/api/internal/infrastructure/exchange"
	mongodoc "github.com/stadimeshi/services/api/internal/infrastructure/mongo"
	adminhttp "github.com/stadimeshi/services/api/internal/interfaces/http/admin"
	commonhttp "github.com/stadimeshi/services/api/internal/interfaces/http/common"
	publichttp "github.com/stadimeshi/services/api/internal/interfaces/http/public"
	"github.com/stadimeshi/services/api/internal/notify"
	"github.com/stadimeshi/services/api/internal/payments"
)

// Dependencies bundles the externally constructed clients injected from
// cmd/api. ゲートウェイとメッセンジャーは認証情報が無い環境では nil になる。
type Dependencies struct {
	StripeGateway payments.Gateway
	Messenger     notify.Messenger
}

// Server は HTTP サーバーのライフサイクルを管理し、Public/Admin の各ハンドラへ依存注入するコンポジションルート。
type Server struct {
	logger   *log.Logger
	client   *mongo.Client
	database *mongo.Database
	location *time.Location

	stadiumQueries  catalogapp.StadiumQueryService
	shopQueries     catalogapp.ShopQueryService
	stadiumCommands catalogapp.StadiumCommandService
	rateService     *currency.Service
	paymentService  *payments.Service
	webhooks        *payments.WebhookProcessor
	airwallex       *payments.AirwallexClient
	notifyService   *notify.Service

	jwtConfigs     []config.JWTConfig
	jwtAudience    string
	addr           string
	allowedOrigins []string
}

type authenticatedUser = commonhttp.AuthenticatedUser

// Run はHTTPサーバーを起動し、ルーティングとミドルウェアを組み立てる。
// レート更新のバックグラウンドループもここで開始する。
func (s *Server) Run() error {
	refreshCtx, stopRefresher := context.WithCancel(context.Background())
	defer stopRefresher()
	go s.rateService.RunRefresher(refreshCtx)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(withCORS(s.allowedOrigins))

	publicHandler := publichttp.NewHandler(publichttp.Config{
		Logger:         s.logger,
		StadiumQueries: s.stadiumQueries,
		ShopQueries:    s.shopQueries,
		Rates:          s.rateService,
		Intents:        s.paymentService,
		Webhooks:       s.webhooks,
		Airwallex:      s.airwallex,
		Notifier:       s.notifyService,
	})
	adminHandler := adminhttp.NewHandler(adminhttp.Config{
		Logger:          s.logger,
		StadiumCommands: s.stadiumCommands,
	})

	router.Route("/api", func(r chi.Router) {
		r.Get("/healthz", s.healthHandler())
		publicHandler.Register(r)
		r.Route("/admin", func(ar chi.Router) {
			ar.Use(s.authMiddleware)
			adminHandler.Register(ar)
		})
	})

	httpServer := &http.Server{
		Addr:              s.addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Printf("HTTP サーバー起動: http://%s", s.addr)
		errChan <- httpServer.ListenAndServe()
	}()

	waitForShutdown(httpServer, errChan, s)
	return nil
}

// withCORS は許可されたオリジン情報をもとに CORS ヘッダーを付与するミドルウェアを返す。
func withCORS(origins []string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{})
	allowAll := false
	for _, origin := range origins {
		origin = strings.TrimSpace(origin)
		if origin == "" {
			continue
		}
		if origin == "*" {
			allowAll = true
			continue
		}
		allowed[origin] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := strings.TrimSpace(r.Header.Get("Origin"))
			if origin == "" || (!allowAll && len(allowed) > 0 && !originAllowed(origin, allowed)) {
				if r.Method == http.MethodOptions {
					w.WriteHeader(http.StatusNoContent)
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Authorization,Content-Type,Stripe-Signature")
			w.Header().Set("Access-Control-Max-Age", "300")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func originAllowed(origin string, allowed map[string]struct{}) bool {
	if len(allowed) == 0 {
		return true
	}
	_, ok := allowed[origin]
	return ok
}

// healthHandler は MongoDB への疎通確認を行い、監視系からのヘルスチェック要求に応える。
func (s *Server) healthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
			commonhttp.WriteJSON(s.logger, w, http.StatusServiceUnavailable, map[string]string{
				"status": "degraded",
				"error":  err.Error(),
			})
			return
		}

		commonhttp.WriteJSON(s.logger, w, http.StatusOK, map[string]string{
			"status": "ok",
			"time":   time.Now().In(s.location).Format(time.RFC3339),
		})
	}
}

// authMiddleware は Authorization ヘッダーから JWT を検証し、認証済みユーザーをコンテキストへ詰める。
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := strings.TrimSpace(r.Header.Get("Authorization"))
		if authHeader == "" {
			commonhttp.WriteError(s.logger, w, http.StatusUnauthorized, "Authorization ヘッダーがありません")
			return
		}

		const bearerPrefix = "Bearer "
		if !strings.HasPrefix(authHeader, bearerPrefix) {
			commonhttp.WriteError(s.logger, w, http.StatusUnauthorized, "Bearer トークンを指定してください")
			return
		}

		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, bearerPrefix))
		if tokenString == "" {
			commonhttp.WriteError(s.logger, w, http.StatusUnauthorized, "アクセストークンが空です")
			return
		}

		claims, err := s.parseAuthToken(tokenString)
		if err != nil {
			commonhttp.WriteError(s.logger, w, http.StatusUnauthorized, err.Error())
			return
		}

		user := authenticatedUser{
			ID:       claims.Subject,
			Name:     claims.Name,
			Username: claims.PreferredUsername,
		}

		ctx := commonhttp.ContextWithUser(r.Context(), user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// parseAuthToken は複数の JWT 設定を順番に試し、署名検証と Issuer/Audience の整合性を確認する。
func (s *Server) parseAuthToken(tokenString string) (*authClaims, error) {
	if len(s.jwtConfigs) == 0 {
		return nil, fmt.Errorf("認証設定が構成されていません")
	}

	for _, cfg := range s.jwtConfigs {
		claims := &authClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
			if token.Method != jwt.SigningMethodHS256 {
				return nil, fmt.Errorf("unexpected signing method: %s", token.Method.Alg())
			}
			return cfg.Secret, nil
		}, jwt.WithLeeway(30*time.Second))

		if err != nil || !token.Valid {
			continue
		}

		if cfg.Issuer != "" && claims.Issuer != cfg.Issuer {
			continue
		}

		now := time.Now()
		if claims.ExpiresAt != nil && now.After(claims.ExpiresAt.Time) {
			continue
		}
		if claims.NotBefore != nil && now.Before(claims.NotBefore.Time) {
			continue
		}
		if claims.Subject == "" {
			continue
		}
		if s.jwtAudience != "" && !contains(claims.Audience, s.jwtAudience) {
			continue
		}

		return claims, nil
	}

	return nil, fmt.Errorf("アクセストークンが無効です")
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

type authClaims struct {
	jwt.RegisteredClaims
	Name              string `json:"name,omitempty"`
	PreferredUsername string `json:"preferred_username,omitempty"`
}

// shutdown は MongoDB クライアントをタイムアウト付きで切断し、プロセス終了時のリソースリークを防ぐ。
func (s *Server) shutdown(ctx context.Context) {
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.client.Disconnect(shutdownCtx); err != nil {
		s.logger.Printf("MongoDB 切断時にエラー: %v", err)
	}
}

// waitForShutdown は ListenAndServe の終了と OS シグナルを監視し、graceful shutdown を実現する。
func waitForShutdown(httpServer *http.Server, errChan <-chan error, srv *Server) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			srv.logger.Fatalf("サーバーが異常終了: %v", err)
		}
	case sig := <-sigChan:
		srv.logger.Printf("シグナル %s を受信。サーバー停止処理を開始します。", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(ctx); err != nil {
			srv.logger.Printf("サーバー停止時にエラー: %v", err)
		}
	}

	srv.shutdown(context.Background())
}

// New は Config と Mongo クライアント、外部サービスのクライアント群を受け取り、
// アプリケーションサービスとハンドラを組み立てた Server を返す。
func New(cfg config.Config, client *mongo.Client, deps Dependencies) *Server {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		loc = time.FixedZone("JST", 9*60*60)
		cfg.ServerLog.Printf("タイムゾーン %s の読み込みに失敗: %v, JST を使用します", cfg.Timezone, err)
	}

	srv := &Server{
		logger:         cfg.ServerLog,
		client:         client,
		database:       client.Database(cfg.MongoDatabase),
		location:       loc,
		jwtConfigs:     append([]config.JWTConfig(nil), cfg.JWTConfigs...),
		jwtAudience:    cfg.JWTAudience,
		addr:           cfg.Addr,
		allowedOrigins: append([]string(nil), cfg.AllowedOrigins...),
	}

	stadiumRepo := mongodoc.NewStadiumRepository(srv.database, cfg.StadiumCollection)
	shopRepo := mongodoc.NewShopRepository(srv.database, cfg.ShopCollection)
	srv.stadiumQueries = catalogapp.NewStadiumQueryService(stadiumRepo, cfg.ServerLog)
	srv.shopQueries = catalogapp.NewShopQueryService(shopRepo)
	srv.stadiumCommands = catalogapp.NewStadiumCommandService(stadiumRepo)

	rateStore := mongodoc.NewRateStore(srv.database, cfg.RateCollection)
	rateFetcher := exchange.NewClient(cfg.ExchangeRateURL, nil)
	srv.rateService = currency.NewService(rateStore, rateFetcher, cfg.ServerLog)

	srv.paymentService = payments.NewService(deps.StripeGateway, cfg.StripeFallbackKey, nil, cfg.ServerLog)
	srv.webhooks = payments.NewWebhookProcessor(deps.StripeGateway, cfg.StripeWebhookSecret, cfg.ServerLog)
	srv.airwallex = payments.NewAirwallexClient(cfg.AirwallexEnv, cfg.AirwallexClientID, cfg.AirwallexAPIKey, cfg.AirwallexBaseURL, nil, cfg.ServerLog)

	tokenRepo := mongodoc.NewTokenRepository(srv.database, cfg.ShopCollection, cfg.UserCollection, cfg.DeliveryUserCollection)
	srv.notifyService = notify.NewService(deps.Messenger, tokenRepo, cfg.ServerLog)

	return srv
}
