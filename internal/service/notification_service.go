package service

import (
	"context"
	"log"

	"github.com/totalrecall/catalog-backend/internal/model"
	"github.com/totalrecall/catalog-backend/internal/repository"
	"github.com/totalrecall/catalog-backend/internal/rewards"
)

type NotificationService interface {
	Notify(ctx context.Context, userUID, typ, title, body string, cardID, recommendationID *uint64)
	List(ctx context.Context, userUID string, unreadOnly bool, limit int) ([]model.Notification, int64, error)
	MarkAllRead(ctx context.Context, userUID string) error

	// NotifyPoints makes the service usable as the rewards Notifier: it is
	// the transient "earned N points" message surface.
	NotifyPoints(userID string, amount int, reason string, total int)
}

type notificationService struct {
	repo repository.NotificationRepository
}

func NewNotificationService(repo repository.NotificationRepository) NotificationService {
	return &notificationService{repo: repo}
}

// Notify is best-effort; it logs errors but does not return them to avoid
// breaking main flows.
func (s *notificationService) Notify(ctx context.Context, userUID, typ, title, body string, cardID, recommendationID *uint64) {
	if userUID == "" || typ == "" {
		return
	}
	n := &model.Notification{
		UserUID:          userUID,
		Type:             typ,
		Title:            title,
		Body:             body,
		CardID:           cardID,
		RecommendationID: recommendationID,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		log.Printf("notification create failed: %v", err)
	}
}

func (s *notificationService) NotifyPoints(userID string, amount int, reason string, total int) {
	s.Notify(context.Background(), userID, model.NotificationTypeReward,
		"Points earned", rewards.PointsMessage(amount, reason, total), nil, nil)
}

func (s *notificationService) List(ctx context.Context, userUID string, unreadOnly bool, limit int) ([]model.Notification, int64, error) {
	if userUID == "" {
		return nil, 0, nil
	}
	list, err := s.repo.ListByUser(ctx, userUID, unreadOnly, limit)
	if err != nil {
		return nil, 0, err
	}
	cnt, err := s.repo.CountUnread(ctx, userUID)
	if err != nil {
		return list, 0, err
	}
	return list, cnt, nil
}

func (s *notificationService) MarkAllRead(ctx context.Context, userUID string) error {
	if userUID == "" {
		return nil
	}
	return s.repo.MarkAllRead(ctx, userUID)
}
