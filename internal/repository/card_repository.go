package repository

import (
	"context"
	"errors"

	"github.com/totalrecall/catalog-backend/internal/model"
	"gorm.io/gorm"
)

var ErrDBNotReady = errors.New("database not initialized")

// CardFilter narrows List results. Zero values mean "no filter".
type CardFilter struct {
	OwnerUID string
	Kind     string
}

type CardRepository interface {
	Create(ctx context.Context, card *model.Card) error
	FindByID(ctx context.Context, id uint64) (*model.Card, error)
	List(ctx context.Context, filter CardFilter, limit, offset int) ([]model.Card, int64, error)
	Update(ctx context.Context, card *model.Card) error
	Delete(ctx context.Context, id uint64) error
	SetDB(db *gorm.DB)
}

type cardRepository struct {
	db *gorm.DB
}

func NewCardRepository(db *gorm.DB) CardRepository {
	return &cardRepository{db: db}
}

func (r *cardRepository) Create(ctx context.Context, card *model.Card) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).Create(card).Error
}

func (r *cardRepository) FindByID(ctx context.Context, id uint64) (*model.Card, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var card model.Card
	if err := r.db.WithContext(ctx).First(&card, id).Error; err != nil {
		return nil, err
	}
	return &card, nil
}

func (r *cardRepository) List(ctx context.Context, filter CardFilter, limit, offset int) ([]model.Card, int64, error) {
	if r.db == nil {
		return nil, 0, ErrDBNotReady
	}
	q := r.db.WithContext(ctx).Model(&model.Card{})
	if filter.OwnerUID != "" {
		q = q.Where("owner_uid = ?", filter.OwnerUID)
	}
	if filter.Kind != "" {
		q = q.Where("kind = ?", filter.Kind)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var cards []model.Card
	if err := q.Order("created_at desc").Limit(limit).Offset(offset).Find(&cards).Error; err != nil {
		return nil, 0, err
	}
	return cards, total, nil
}

func (r *cardRepository) Update(ctx context.Context, card *model.Card) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).Save(card).Error
}

func (r *cardRepository) Delete(ctx context.Context, id uint64) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).Delete(&model.Card{}, id).Error
}

func (r *cardRepository) SetDB(db *gorm.DB) {
	r.db = db
}
