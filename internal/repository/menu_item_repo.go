package repository

import (
	"context"

	"khmercafe/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MenuItemFilter struct {
	Category string
	Search   string
	Active   string // "false" = inactive, "all" = everything, default = active only
}

type MenuItemRepository interface {
	Create(ctx context.Context, m *model.MenuItem) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.MenuItem, error)
	List(ctx context.Context, filter MenuItemFilter) ([]model.MenuItem, error)
	Update(ctx context.Context, m *model.MenuItem) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

type menuItemRepo struct{ db *gorm.DB }

func NewMenuItemRepository(db *gorm.DB) MenuItemRepository { return &menuItemRepo{db: db} }

func (r *menuItemRepo) Create(ctx context.Context, m *model.MenuItem) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *menuItemRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.MenuItem, error) {
	var m model.MenuItem
	err := r.db.WithContext(ctx).First(&m, id).Error
	return &m, err
}

func (r *menuItemRepo) List(ctx context.Context, filter MenuItemFilter) ([]model.MenuItem, error) {
	q := r.db.WithContext(ctx).Model(&model.MenuItem{})
	switch filter.Active {
	case "false":
		q = q.Where("active = false")
	case "all":
		// no filter
	default:
		q = q.Where("active = true")
	}
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.Search != "" {
		q = q.Where("name ILIKE ?", "%"+filter.Search+"%")
	}
	var items []model.MenuItem
	err := q.Order("name ASC").Find(&items).Error
	return items, err
}

func (r *menuItemRepo) Update(ctx context.Context, m *model.MenuItem) error {
	return r.db.WithContext(ctx).Save(m).Error
}

func (r *menuItemRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.MenuItem{}).Where("id = ?", id).
		Update("active", false).Error
}
