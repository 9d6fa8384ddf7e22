package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"khmercafe/internal/domain"
	"khmercafe/internal/dto"
	"khmercafe/internal/model"
	"khmercafe/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

const (
	menuCacheKey = "menu:active"
	menuCacheTTL = 4 * time.Hour
)

// MenuService manages the sellable catalogue. The unfiltered active list is
// the hot read path at the register, so it is served from redis; every write
// drops the cached copy.
type MenuService interface {
	Create(ctx context.Context, req dto.CreateMenuItemRequest) (*dto.MenuItemResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateMenuItemRequest) (*dto.MenuItemResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (*dto.MenuItemResponse, error)
	List(ctx context.Context, filter repository.MenuItemFilter) ([]dto.MenuItemResponse, error)

	CreateRecipe(ctx context.Context, req dto.CreateRecipeRequest) (*dto.RecipeResponse, error)
	ListRecipes(ctx context.Context, menuItemID uuid.UUID) ([]dto.RecipeResponse, error)
	DeleteRecipe(ctx context.Context, id uuid.UUID) error
}

type menuService struct {
	items   repository.MenuItemRepository
	recipes repository.RecipeRepository
	rdb     *redis.Client
	log     zerolog.Logger
}

func NewMenuService(items repository.MenuItemRepository, recipes repository.RecipeRepository, rdb *redis.Client, log zerolog.Logger) MenuService {
	return &menuService{items: items, recipes: recipes, rdb: rdb, log: log}
}

func (s *menuService) Create(ctx context.Context, req dto.CreateMenuItemRequest) (*dto.MenuItemResponse, error) {
	category := req.Category
	if category == "" {
		category = "drinks"
	}
	item := &model.MenuItem{
		Name:        req.Name,
		NameKm:      req.NameKm,
		Category:    category,
		BasePrice:   req.BasePrice,
		PriceMedium: req.PriceMedium,
		PriceLarge:  req.PriceLarge,
		ImageURL:    req.ImageURL,
		Active:      true,
	}
	if err := s.items.Create(ctx, item); err != nil {
		return nil, err
	}
	s.invalidateCache(ctx)
	return menuItemToResponse(item), nil
}

func (s *menuService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateMenuItemRequest) (*dto.MenuItemResponse, error) {
	item, err := s.items.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrItemNotFound
		}
		return nil, err
	}
	if req.Name != "" {
		item.Name = req.Name
	}
	if req.NameKm != nil {
		item.NameKm = req.NameKm
	}
	if req.Category != "" {
		item.Category = req.Category
	}
	if req.BasePrice != nil {
		item.BasePrice = *req.BasePrice
	}
	if req.PriceMedium != nil {
		item.PriceMedium = req.PriceMedium
	}
	if req.PriceLarge != nil {
		item.PriceLarge = req.PriceLarge
	}
	if req.ImageURL != nil {
		item.ImageURL = req.ImageURL
	}
	if err := s.items.Update(ctx, item); err != nil {
		return nil, err
	}
	s.invalidateCache(ctx)
	return menuItemToResponse(item), nil
}

func (s *menuService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.items.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrItemNotFound
		}
		return err
	}
	if err := s.items.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.invalidateCache(ctx)
	return nil
}

func (s *menuService) Get(ctx context.Context, id uuid.UUID) (*dto.MenuItemResponse, error) {
	item, err := s.items.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrItemNotFound
		}
		return nil, err
	}
	return menuItemToResponse(item), nil
}

func (s *menuService) List(ctx context.Context, filter repository.MenuItemFilter) ([]dto.MenuItemResponse, error) {
	cacheable := s.rdb != nil && filter == (repository.MenuItemFilter{})

	if cacheable {
		if cached, err := s.rdb.Get(ctx, menuCacheKey).Bytes(); err == nil {
			var resp []dto.MenuItemResponse
			if jsonErr := json.Unmarshal(cached, &resp); jsonErr == nil {
				return resp, nil
			}
		}
	}

	items, err := s.items.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.MenuItemResponse, len(items))
	for i := range items {
		resp[i] = *menuItemToResponse(&items[i])
	}

	if cacheable {
		// Best effort, ignore errors.
		if b, jsonErr := json.Marshal(resp); jsonErr == nil {
			_ = s.rdb.Set(ctx, menuCacheKey, b, menuCacheTTL).Err()
		}
	}
	return resp, nil
}

func (s *menuService) invalidateCache(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, menuCacheKey).Err(); err != nil {
		s.log.Warn().Err(err).Msg("failed to invalidate menu cache")
	}
}

// ─── Recipes ─────────────────────────────────────────────────────────────────

func (s *menuService) CreateRecipe(ctx context.Context, req dto.CreateRecipeRequest) (*dto.RecipeResponse, error) {
	itemID, err := uuid.Parse(req.MenuItemID)
	if err != nil {
		return nil, err
	}
	ingredientID, err := uuid.Parse(req.IngredientID)
	if err != nil {
		return nil, err
	}
	if _, err := s.items.FindByID(ctx, itemID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrItemNotFound
		}
		return nil, err
	}

	size := req.Size
	if size == "" {
		size = model.SizeRegular
	}
	recipe := &model.Recipe{
		MenuItemID:   itemID,
		IngredientID: ingredientID,
		Size:         size,
		Quantity:     req.Quantity,
	}
	if err := s.recipes.Create(ctx, recipe); err != nil {
		return nil, err
	}
	return recipeToResponse(recipe), nil
}

func (s *menuService) ListRecipes(ctx context.Context, menuItemID uuid.UUID) ([]dto.RecipeResponse, error) {
	recipes, err := s.recipes.ListByMenuItem(ctx, menuItemID)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.RecipeResponse, len(recipes))
	for i := range recipes {
		resp[i] = *recipeToResponse(&recipes[i])
	}
	return resp, nil
}

func (s *menuService) DeleteRecipe(ctx context.Context, id uuid.UUID) error {
	return s.recipes.Delete(ctx, id)
}

func menuItemToResponse(m *model.MenuItem) *dto.MenuItemResponse {
	return &dto.MenuItemResponse{
		ID:          m.ID.String(),
		Name:        m.Name,
		NameKm:      m.NameKm,
		Category:    m.Category,
		BasePrice:   m.BasePrice,
		PriceMedium: m.PriceMedium,
		PriceLarge:  m.PriceLarge,
		ImageURL:    m.ImageURL,
		Active:      m.Active,
	}
}

func recipeToResponse(r *model.Recipe) *dto.RecipeResponse {
	resp := &dto.RecipeResponse{
		ID:           r.ID.String(),
		MenuItemID:   r.MenuItemID.String(),
		IngredientID: r.IngredientID.String(),
		Size:         r.Size,
		Quantity:     r.Quantity,
	}
	if r.Ingredient != nil {
		resp.Ingredient = r.Ingredient.Name
	}
	return resp
}
