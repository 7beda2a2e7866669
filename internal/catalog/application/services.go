package application

import (
	"context"
	"log"

	"github.com/stadimeshi/services/api/internal/catalog/domain"
)

// StadiumRepository はスタジアム読み書きのためのポート。
type StadiumRepository interface {
	Find(ctx context.Context) ([]domain.Stadium, error)
	FindByID(ctx context.Context, id string) (*domain.Stadium, error)
	Patch(ctx context.Context, id string, patch domain.StadiumPatch) (*domain.Stadium, error)
}

// ShopRepository は店舗読み取りのためのポート。
type ShopRepository interface {
	FindByStadium(ctx context.Context, stadiumID string) ([]domain.Shop, error)
	FindByID(ctx context.Context, id string) (*domain.Shop, error)
}

// StadiumQueryService describes stadium read use-cases.
type StadiumQueryService interface {
	List(ctx context.Context) []domain.Stadium
	Detail(ctx context.Context, id string) (*domain.Stadium, error)
}

// ShopQueryService describes shop read use-cases.
type ShopQueryService interface {
	ListByStadium(ctx context.Context, stadiumID string) ([]domain.Shop, error)
	Detail(ctx context.Context, id string) (*domain.Shop, error)
}

// StadiumCommandService handles admin-side stadium mutation.
type StadiumCommandService interface {
	Update(ctx context.Context, id string, patch domain.StadiumPatch) (*domain.Stadium, error)
}

type stadiumQueryService struct {
	repo   StadiumRepository
	logger *log.Logger
}

// NewStadiumQueryService creates a stadium reader that substitutes the
// static fallback list when the database read fails.
func NewStadiumQueryService(repo StadiumRepository, logger *log.Logger) StadiumQueryService {
	return &stadiumQueryService{repo: repo, logger: logger}
}

// List はスタジアム一覧を返す。取得に失敗した場合は静的なフォールバック
// 一覧に差し替え、エラーを呼び出し側へ伝播させない。
func (s *stadiumQueryService) List(ctx context.Context) []domain.Stadium {
	stadiums, err := s.repo.Find(ctx)
	if err != nil {
		if s.logger != nil {
			s.logger.Printf("スタジアム一覧の取得に失敗、フォールバックを使用: %v", err)
		}
		return FallbackStadiums()
	}
	return stadiums
}

func (s *stadiumQueryService) Detail(ctx context.Context, id string) (*domain.Stadium, error) {
	return s.repo.FindByID(ctx, id)
}

type shopQueryService struct {
	repo ShopRepository
}

// NewShopQueryService creates a shop reader.
func NewShopQueryService(repo ShopRepository) ShopQueryService {
	return &shopQueryService{repo: repo}
}

func (s *shopQueryService) ListByStadium(ctx context.Context, stadiumID string) ([]domain.Shop, error) {
	return s.repo.FindByStadium(ctx, stadiumID)
}

func (s *shopQueryService) Detail(ctx context.Context, id string) (*domain.Shop, error) {
	return s.repo.FindByID(ctx, id)
}

type stadiumCommandService struct {
	repo StadiumRepository
}

// NewStadiumCommandService creates the admin-side stadium mutator.
func NewStadiumCommandService(repo StadiumRepository) StadiumCommandService {
	return &stadiumCommandService{repo: repo}
}

func (s *stadiumCommandService) Update(ctx context.Context, id string, patch domain.StadiumPatch) (*domain.Stadium, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	return s.repo.Patch(ctx, id, patch)
}
