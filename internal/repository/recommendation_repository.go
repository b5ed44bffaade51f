package repository

import (
	"context"

	"github.com/totalrecall/catalog-backend/internal/model"
	"gorm.io/gorm"
)

type RecommendationRepository interface {
	Create(ctx context.Context, rec *model.Recommendation) error
	FindByID(ctx context.Context, id uint64) (*model.Recommendation, error)
	ListReceived(ctx context.Context, recipientUID string, limit int) ([]model.Recommendation, error)
	ListSent(ctx context.Context, senderUID string, limit int) ([]model.Recommendation, error)
	MarkRead(ctx context.Context, id uint64, recipientUID string) error
	SetDB(db *gorm.DB)
}

type recommendationRepository struct {
	db *gorm.DB
}

func NewRecommendationRepository(db *gorm.DB) RecommendationRepository {
	return &recommendationRepository{db: db}
}

func (r *recommendationRepository) Create(ctx context.Context, rec *model.Recommendation) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *recommendationRepository) FindByID(ctx context.Context, id uint64) (*model.Recommendation, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var rec model.Recommendation
	if err := r.db.WithContext(ctx).First(&rec, id).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *recommendationRepository) ListReceived(ctx context.Context, recipientUID string, limit int) ([]model.Recommendation, error) {
	return r.list(ctx, "recipient_uid = ?", recipientUID, limit)
}

func (r *recommendationRepository) ListSent(ctx context.Context, senderUID string, limit int) ([]model.Recommendation, error) {
	return r.list(ctx, "sender_uid = ?", senderUID, limit)
}

func (r *recommendationRepository) list(ctx context.Context, cond, uid string, limit int) ([]model.Recommendation, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	var list []model.Recommendation
	if err := r.db.WithContext(ctx).
		Where(cond, uid).
		Order("created_at DESC").
		Limit(limit).
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *recommendationRepository) MarkRead(ctx context.Context, id uint64, recipientUID string) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	now := r.db.NowFunc()
	return r.db.WithContext(ctx).
		Model(&model.Recommendation{}).
		Where("id = ? AND recipient_uid = ? AND read_at IS NULL", id, recipientUID).
		Update("read_at", now).Error
}

func (r *recommendationRepository) SetDB(db *gorm.DB) {
	r.db = db
}
