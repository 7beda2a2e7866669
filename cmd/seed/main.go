// cmd/seed はローカル開発用のサンプルデータを MongoDB へ投入する。
// 既存データを消したい場合は -drop を指定する。
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	mongodoc "github.com/stadimeshi/services/api/internal/infrastructure/mongo"
)

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

type seedOptions struct {
	shopsPerStadium int
	dropCollections bool
	randomSeed      int64
}

var stadiumSeeds = []struct {
	name     string
	address  string
	capacity int
	teams    []string
	color    string
	floors   int
}{
	{"東京ドーム", "東京都文京区後楽1-3-61", 55000, []string{"読売ジャイアンツ"}, "#f97316", 5},
	{"埼玉スタジアム2002", "埼玉県さいたま市緑区美園2-1", 63700, []string{"浦和レッズ"}, "#dc2626", 4},
	{"日産スタジアム", "神奈川県横浜市港北区小机町3300", 72327, []string{"横浜F・マリノス"}, "#2563eb", 4},
	{"阪神甲子園球場", "兵庫県西宮市甲子園町1-82", 47508, []string{"阪神タイガース"}, "#facc15", 3},
}

var shopNameSeeds = []string{
	"スタジアム唐揚げ本舗",
	"ベースボールバーガー",
	"焼きそば一番",
	"クラフトビールスタンド",
	"たこ焼きレッズ",
	"カレーの鉄人",
}

func main() {
	logger := log.New(os.Stdout, "[stadimeshi-seed] ", log.LstdFlags)

	opts := seedOptions{}
	flag.IntVar(&opts.shopsPerStadium, "shops", 4, "スタジアムごとに投入する店舗数")
	flag.BoolVar(&opts.dropCollections, "drop", false, "投入前にコレクションを削除する")
	flag.Int64Var(&opts.randomSeed, "seed", time.Now().UnixNano(), "乱数シード")
	flag.Parse()

	rng := rand.New(rand.NewSource(opts.randomSeed))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	mongoURI := envOrDefault("MONGO_URI", "mongodb://localhost:27017")
	clientOptions := options.Client().ApplyURI(mongoURI).SetServerAPIOptions(options.ServerAPI(options.ServerAPIVersion1))
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		logger.Fatalf("MongoDB 接続に失敗しました: %v", err)
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			logger.Printf("MongoDB 切断時にエラー: %v", err)
		}
	}()

	db := client.Database(envOrDefault("MONGO_DB", "stadimeshi"))
	stadiums := db.Collection(envOrDefault("STADIUM_COLLECTION", "stadiums"))
	shops := db.Collection(envOrDefault("SHOP_COLLECTION", "shops"))
	users := db.Collection(envOrDefault("USER_COLLECTION", "users"))
	deliveryUsers := db.Collection(envOrDefault("DELIVERY_USER_COLLECTION", "deliveryUsers"))

	if opts.dropCollections {
		for _, coll := range []*mongo.Collection{stadiums, shops, users, deliveryUsers} {
			if err := coll.Drop(ctx); err != nil {
				logger.Fatalf("コレクション %s の削除に失敗: %v", coll.Name(), err)
			}
		}
		logger.Printf("既存コレクションを削除しました")
	}

	now := time.Now().UTC()

	stadiumIDs := make([]primitive.ObjectID, 0, len(stadiumSeeds))
	stadiumDocs := make([]any, 0, len(stadiumSeeds))
	for _, seed := range stadiumSeeds {
		id := primitive.NewObjectID()
		stadiumIDs = append(stadiumIDs, id)
		stadiumDocs = append(stadiumDocs, mongodoc.StadiumDocument{
			ID:          id,
			Name:        seed.name,
			Description: fmt.Sprintf("%s のフードデリバリー対応スタジアム", seed.name),
			Address:     seed.address,
			Capacity:    seed.capacity,
			Teams:       seed.teams,
			Color:       seed.color,
			FloorCount:  seed.floors,
			Facilities: mongodoc.FacilitiesDocument{
				Seats:        true,
				Sections:     true,
				Floors:       seed.floors > 1,
				Shops:        true,
				Stands:       true,
				PickupPoints: rng.Intn(2) == 0,
				Tickets:      true,
			},
			CreatedAt: &now,
			UpdatedAt: &now,
		})
	}
	if _, err := stadiums.InsertMany(ctx, stadiumDocs); err != nil {
		logger.Fatalf("スタジアムの投入に失敗: %v", err)
	}
	logger.Printf("スタジアムを %d 件投入しました", len(stadiumDocs))

	adminIDs := seedUsers(ctx, logger, users, rng)
	seedDeliveryUsers(ctx, logger, deliveryUsers)

	shopDocs := make([]any, 0, len(stadiumIDs)*opts.shopsPerStadium)
	for _, stadiumID := range stadiumIDs {
		for i := 0; i < opts.shopsPerStadium; i++ {
			name := shopNameSeeds[rng.Intn(len(shopNameSeeds))]
			shopDocs = append(shopDocs, mongodoc.ShopDocument{
				ID:          primitive.NewObjectID(),
				Name:        fmt.Sprintf("%s %d号店", name, i+1),
				Location:    fmt.Sprintf("%d階 ゲート%c付近", rng.Intn(4)+1, 'A'+rune(rng.Intn(4))),
				FloorGate:   fmt.Sprintf("ゲート%c", 'A'+rune(rng.Intn(4))),
				Admins:      []string{adminIDs[rng.Intn(len(adminIDs))]},
				StadiumID:   stadiumID.Hex(),
				Latitude:    35.0 + rng.Float64(),
				Longitude:   139.0 + rng.Float64(),
				DeliveryFee: float64(rng.Intn(3) + 1),
				Available:   rng.Intn(5) != 0,
				InsideDelivery: mongodoc.DeliveryPolicyDocument{
					Enabled:   true,
					Fee:       2,
					Currency:  "JPY",
					OpenTime:  "10:00",
					CloseTime: "21:00",
					Locations: []string{"内野席", "外野席"},
				},
				OutsideDelivery: mongodoc.DeliveryPolicyDocument{
					Enabled:   rng.Intn(2) == 0,
					Fee:       3,
					Currency:  "JPY",
					OpenTime:  "11:00",
					CloseTime: "20:00",
					Locations: []string{"正面広場"},
				},
				CreatedAt: &now,
				UpdatedAt: &now,
			})
		}
	}
	if _, err := shops.InsertMany(ctx, shopDocs); err != nil {
		logger.Fatalf("店舗の投入に失敗: %v", err)
	}
	logger.Printf("店舗を %d 件投入しました", len(shopDocs))
}

// seedUsers は店舗管理者ユーザーを upsert して ID 一覧を返す。
func seedUsers(ctx context.Context, logger *log.Logger, users *mongo.Collection, rng *rand.Rand) []string {
	ids := make([]string, 0, 3)
	for i := 1; i <= 3; i++ {
		id := fmt.Sprintf("shop-admin-%03d", i)
		ids = append(ids, id)
		doc := mongodoc.UserDocument{
			ID:       id,
			Name:     fmt.Sprintf("店舗管理者%d", i),
			FCMToken: fmt.Sprintf("fcm-admin-token-%03d-%04d", i, rng.Intn(10000)),
		}
		opts := options.Replace().SetUpsert(true)
		if _, err := users.ReplaceOne(ctx, bson.M{"_id": id}, doc, opts); err != nil {
			logger.Fatalf("ユーザー %s の投入に失敗: %v", id, err)
		}
	}
	logger.Printf("店舗管理者を %d 件投入しました", len(ids))
	return ids
}

// seedDeliveryUsers は配達ユーザーを upsert する。
func seedDeliveryUsers(ctx context.Context, logger *log.Logger, deliveryUsers *mongo.Collection) {
	names := []string{"配達員 佐藤", "配達員 鈴木"}
	for i, name := range names {
		id := fmt.Sprintf("delivery-%03d", i+1)
		doc := mongodoc.DeliveryUserDocument{
			ID:       id,
			Name:     name,
			FCMToken: fmt.Sprintf("fcm-delivery-token-%03d", i+1),
			Active:   true,
		}
		opts := options.Replace().SetUpsert(true)
		if _, err := deliveryUsers.ReplaceOne(ctx, bson.M{"_id": id}, doc, opts); err != nil {
			logger.Fatalf("配達ユーザー %s の投入に失敗: %v", id, err)
		}
	}
	logger.Printf("配達ユーザーを %d 件投入しました", len(names))
}
