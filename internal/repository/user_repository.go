package repository

import (
	"context"

	"github.com/totalrecall/catalog-backend/internal/model"
	"gorm.io/gorm"
)

type UserRepository interface {
	FindByUID(ctx context.Context, uid string) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	// Ensure creates the user row if it does not exist yet.
	Ensure(ctx context.Context, uid, name string) (*model.User, error)
	SetDB(db *gorm.DB)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) FindByUID(ctx context.Context, uid string) (*model.User, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var u model.User
	if err := r.db.WithContext(ctx).Where("uid = ?", uid).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) List(ctx context.Context) ([]model.User, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var list []model.User
	if err := r.db.WithContext(ctx).Order("created_at").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *userRepository) Ensure(ctx context.Context, uid, name string) (*model.User, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	u := model.User{UID: uid, Name: name}
	if err := r.db.WithContext(ctx).
		Where("uid = ?", uid).
		FirstOrCreate(&u, &model.User{UID: uid, Name: name}).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) SetDB(db *gorm.DB) {
	r.db = db
}
