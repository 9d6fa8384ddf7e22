package repository

import (
	"context"

	"khmercafe/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// IngredientFilter narrows ingredient listings.
type IngredientFilter struct {
	Search   string
	LowStock bool
}

// IngredientRepository is the only component allowed to write
// ingredients.quantity. The *Tx variants run inside a caller-owned
// transaction; FindByIDForUpdateTx takes the row lock that serializes
// concurrent deductions against the same ingredient.
type IngredientRepository interface {
	Create(ctx context.Context, i *model.Ingredient) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Ingredient, error)
	FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Ingredient, error)
	UpdateQuantityTx(tx *gorm.DB, id uuid.UUID, quantity decimal.Decimal) error
	List(ctx context.Context, filter IngredientFilter) ([]model.Ingredient, error)
	Update(ctx context.Context, i *model.Ingredient) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

type ingredientRepo struct{ db *gorm.DB }

func NewIngredientRepository(db *gorm.DB) IngredientRepository { return &ingredientRepo{db: db} }

func (r *ingredientRepo) Create(ctx context.Context, i *model.Ingredient) error {
	return r.db.WithContext(ctx).Create(i).Error
}

func (r *ingredientRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Ingredient, error) {
	var i model.Ingredient
	err := r.db.WithContext(ctx).Where("active = true").First(&i, id).Error
	return &i, err
}

func (r *ingredientRepo) FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Ingredient, error) {
	var i model.Ingredient
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("active = true").
		First(&i, id).Error
	return &i, err
}

func (r *ingredientRepo) UpdateQuantityTx(tx *gorm.DB, id uuid.UUID, quantity decimal.Decimal) error {
	return tx.Model(&model.Ingredient{}).Where("id = ?", id).
		Update("quantity", quantity).Error
}

func (r *ingredientRepo) List(ctx context.Context, filter IngredientFilter) ([]model.Ingredient, error) {
	q := r.db.WithContext(ctx).Where("active = true")
	if filter.Search != "" {
		q = q.Where("name ILIKE ? OR name_km ILIKE ?", "%"+filter.Search+"%", "%"+filter.Search+"%")
	}
	if filter.LowStock {
		q = q.Where("quantity <= low_stock_threshold")
	}
	var ingredients []model.Ingredient
	err := q.Order("name ASC").Find(&ingredients).Error
	return ingredients, err
}

func (r *ingredientRepo) Update(ctx context.Context, i *model.Ingredient) error {
	return r.db.WithContext(ctx).Save(i).Error
}

func (r *ingredientRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Ingredient{}).Where("id = ?", id).
		Update("active", false).Error
}
