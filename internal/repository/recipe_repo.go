package repository

import (
	"context"

	"khmercafe/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RecipeRepository interface {
	Create(ctx context.Context, rec *model.Recipe) error
	// FindForItemSizeTx fetches the recipe rows for one (menu item, size)
	// inside the caller's transaction. An empty result is valid; the item
	// consumes nothing in that size.
	FindForItemSizeTx(tx *gorm.DB, menuItemID uuid.UUID, size string) ([]model.Recipe, error)
	ListByMenuItem(ctx context.Context, menuItemID uuid.UUID) ([]model.Recipe, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type recipeRepo struct{ db *gorm.DB }

func NewRecipeRepository(db *gorm.DB) RecipeRepository { return &recipeRepo{db: db} }

func (r *recipeRepo) Create(ctx context.Context, rec *model.Recipe) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *recipeRepo) FindForItemSizeTx(tx *gorm.DB, menuItemID uuid.UUID, size string) ([]model.Recipe, error) {
	var recipes []model.Recipe
	err := tx.Where("menu_item_id = ? AND size = ?", menuItemID, size).Find(&recipes).Error
	return recipes, err
}

func (r *recipeRepo) ListByMenuItem(ctx context.Context, menuItemID uuid.UUID) ([]model.Recipe, error) {
	var recipes []model.Recipe
	err := r.db.WithContext(ctx).Preload("Ingredient").
		Where("menu_item_id = ?", menuItemID).
		Order("size ASC").Find(&recipes).Error
	return recipes, err
}

func (r *recipeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Recipe{}, id).Error
}
