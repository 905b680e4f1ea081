package painting

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, p *Painting) error
	ListNewestFirst(ctx context.Context) ([]Painting, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, p *Painting) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *repository) ListNewestFirst(ctx context.Context) ([]Painting, error) {
	paintings := make([]Painting, 0)
	err := r.db.WithContext(ctx).Order("id DESC").Find(&paintings).Error
	return paintings, err
}
