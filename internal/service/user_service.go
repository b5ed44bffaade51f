package service

import (
	"context"
	"errors"
	"strings"

	"github.com/totalrecall/catalog-backend/internal/model"
	"github.com/totalrecall/catalog-backend/internal/repository"
	"gorm.io/gorm"
)

type UserService interface {
	Get(ctx context.Context, uid string) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	Ensure(ctx context.Context, uid, name string) (*model.User, error)
}

type userService struct {
	repo repository.UserRepository
}

func NewUserService(repo repository.UserRepository) UserService {
	return &userService{repo: repo}
}

func (s *userService) Get(ctx context.Context, uid string) (*model.User, error) {
	u, err := s.repo.FindByUID(ctx, uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func (s *userService) List(ctx context.Context) ([]model.User, error) {
	return s.repo.List(ctx)
}

func (s *userService) Ensure(ctx context.Context, uid, name string) (*model.User, error) {
	uid = strings.TrimSpace(uid)
	if uid == "" {
		return nil, errors.New("uid is required")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = uid
	}
	return s.repo.Ensure(ctx, uid, name)
}
