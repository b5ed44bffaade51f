package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/totalrecall/catalog-backend/internal/model"
	"github.com/totalrecall/catalog-backend/internal/repository"
	"gorm.io/gorm"
)

type RecommendationService interface {
	// Send persists a recommendation of the sender's card to the recipient.
	// The recipient gets an in-app notification; both parties earn points
	// through the wired hook. Neither side effect can fail the send.
	Send(ctx context.Context, cardID uint64, senderUID, recipientUID, message string) (*model.Recommendation, error)
	ListReceived(ctx context.Context, recipientUID string, limit int) ([]model.Recommendation, error)
	ListSent(ctx context.Context, senderUID string, limit int) ([]model.Recommendation, error)
	MarkRead(ctx context.Context, id uint64, recipientUID string) error
}

type recommendationService struct {
	recRepo  repository.RecommendationRepository
	cardRepo repository.CardRepository
	notifier NotificationService

	// onRecommendationSent is wired to the reward service at startup; nil
	// when rewards are not configured. Fire-and-forget.
	onRecommendationSent func(senderUID, recipientUID, title string)
}

func NewRecommendationService(recRepo repository.RecommendationRepository, cardRepo repository.CardRepository, notifier NotificationService, onRecommendationSent func(senderUID, recipientUID, title string)) RecommendationService {
	return &recommendationService{
		recRepo:              recRepo,
		cardRepo:             cardRepo,
		notifier:             notifier,
		onRecommendationSent: onRecommendationSent,
	}
}

func (s *recommendationService) Send(ctx context.Context, cardID uint64, senderUID, recipientUID, message string) (*model.Recommendation, error) {
	senderUID = strings.TrimSpace(senderUID)
	recipientUID = strings.TrimSpace(recipientUID)
	if senderUID == "" {
		return nil, errors.New("sender is required")
	}
	if recipientUID == "" {
		return nil, errors.New("recipient is required")
	}
	if senderUID == recipientUID {
		return nil, errors.New("cannot recommend to yourself")
	}

	card, err := s.cardRepo.FindByID(ctx, cardID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if card.OwnerUID != senderUID {
		return nil, ErrForbidden
	}

	rec := &model.Recommendation{
		CardID:       cardID,
		SenderUID:    senderUID,
		RecipientUID: recipientUID,
		Title:        card.Title,
		Message:      strings.TrimSpace(message),
	}
	if err := s.recRepo.Create(ctx, rec); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.Notify(ctx, recipientUID, model.NotificationTypeRecommendation,
			fmt.Sprintf("New recommendation: %s", card.Title),
			fmt.Sprintf("%s thinks you would enjoy %q", senderUID, card.Title),
			&rec.CardID, &rec.ID)
	}
	if s.onRecommendationSent != nil {
		s.onRecommendationSent(senderUID, recipientUID, card.Title)
	}
	return rec, nil
}

func (s *recommendationService) ListReceived(ctx context.Context, recipientUID string, limit int) ([]model.Recommendation, error) {
	if recipientUID == "" {
		return nil, nil
	}
	return s.recRepo.ListReceived(ctx, recipientUID, limit)
}

func (s *recommendationService) ListSent(ctx context.Context, senderUID string, limit int) ([]model.Recommendation, error) {
	if senderUID == "" {
		return nil, nil
	}
	return s.recRepo.ListSent(ctx, senderUID, limit)
}

func (s *recommendationService) MarkRead(ctx context.Context, id uint64, recipientUID string) error {
	if recipientUID == "" || id == 0 {
		return nil
	}
	return s.recRepo.MarkRead(ctx, id, recipientUID)
}
