package application

import (
	"time"

	"github.com/stadimeshi/services/api/internal/catalog/domain"
)

var fallbackSeededAt = time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)

// FallbackStadiums はデータベースが読めない場合に画面へ返す静的な一覧。
// ID はシードデータと揃えてあり、再接続後もリンクが壊れない。
func FallbackStadiums() []domain.Stadium {
	return []domain.Stadium{
		{
			ID:          "661a1f0e8b3c2a0001000001",
			Name:        "東京ドーム",
			Description: "後楽園の屋根付き多目的スタジアム",
			Address:     "東京都文京区後楽1-3-61",
			Capacity:    45000,
			Teams:       []string{"読売ジャイアンツ"},
			Color:       "#F97316",
			FloorCount:  4,
			Facilities: domain.Facilities{
				Seats:        true,
				Sections:     true,
				Floors:       true,
				Shops:        true,
				Stands:       true,
				PickupPoints: true,
			},
			CreatedAt: fallbackSeededAt,
			UpdatedAt: fallbackSeededAt,
		},
		{
			ID:          "661a1f0e8b3c2a0001000002",
			Name:        "埼玉スタジアム2002",
			Description: "国内最大級のサッカー専用スタジアム",
			Address:     "埼玉県さいたま市緑区美園2-1",
			Capacity:    63700,
			Teams:       []string{"浦和レッズ"},
			Color:       "#DC2626",
			FloorCount:  3,
			Facilities: domain.Facilities{
				Seats:    true,
				Sections: true,
				Shops:    true,
				Stands:   true,
				Tickets:  true,
			},
			CreatedAt: fallbackSeededAt,
			UpdatedAt: fallbackSeededAt,
		},
		{
			ID:          "661a1f0e8b3c2a0001000003",
			Name:        "日産スタジアム",
			Description: "新横浜公園内の陸上競技場兼スタジアム",
			Address:     "神奈川県横浜市港北区小机町3300",
			Capacity:    72327,
			Teams:       []string{"横浜F・マリノス"},
			Color:       "#1D4ED8",
			FloorCount:  5,
			Facilities: domain.Facilities{
				Seats:        true,
				Sections:     true,
				Floors:       true,
				Rooms:        true,
				Shops:        true,
				PickupPoints: true,
			},
			CreatedAt: fallbackSeededAt,
			UpdatedAt: fallbackSeededAt,
		},
	}
}
