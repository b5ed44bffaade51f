package service

import (
	"context"
	"errors"
	"strings"

	"github.com/totalrecall/catalog-backend/internal/model"
	"github.com/totalrecall/catalog-backend/internal/repository"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("not found")
var ErrForbidden = errors.New("forbidden")

// CardInput carries the caller-supplied card fields.
type CardInput struct {
	Kind     string
	Title    string
	Category string
	Rating   int
	Notes    string
	Location string
	ImageURL *string
}

type CardService interface {
	Create(ctx context.Context, ownerUID string, in CardInput) (*model.Card, error)
	Get(ctx context.Context, id uint64) (*model.Card, error)
	List(ctx context.Context, filter repository.CardFilter, limit, offset int) ([]model.Card, int64, error)
	Update(ctx context.Context, id uint64, ownerUID string, in CardInput) (*model.Card, error)
	Delete(ctx context.Context, id uint64, ownerUID string) error
	SetImageURL(ctx context.Context, id uint64, ownerUID, imageURL string) (*model.Card, error)
}

type cardService struct {
	repo repository.CardRepository

	// onCardCreated fires after a successful create. The catalog has no
	// compile-time dependency on the rewards subsystem; the application
	// wires this hook to the reward service at startup. Fire-and-forget.
	onCardCreated func(ownerUID, kind string)
}

// NewCardService builds the catalog card service. onCardCreated may be nil.
func NewCardService(repo repository.CardRepository, onCardCreated func(ownerUID, kind string)) CardService {
	return &cardService{repo: repo, onCardCreated: onCardCreated}
}

func validateInput(in *CardInput) error {
	in.Kind = strings.TrimSpace(in.Kind)
	in.Title = strings.TrimSpace(in.Title)
	in.Category = strings.TrimSpace(in.Category)
	if !model.ValidCardKind(in.Kind) {
		return errors.New("invalid kind")
	}
	if in.Title == "" || len(in.Title) > 120 {
		return errors.New("invalid title")
	}
	// 0 means unrated; 1-5 are real ratings.
	if in.Rating < 0 || in.Rating > 5 {
		return errors.New("invalid rating")
	}
	if in.ImageURL != nil && strings.HasPrefix(strings.TrimSpace(*in.ImageURL), "data:") {
		return errors.New("imageUrl must be a URL, not data URI")
	}
	return nil
}

func (s *cardService) Create(ctx context.Context, ownerUID string, in CardInput) (*model.Card, error) {
	if ownerUID == "" {
		return nil, errors.New("owner is required")
	}
	if err := validateInput(&in); err != nil {
		return nil, err
	}
	card := &model.Card{
		OwnerUID: ownerUID,
		Kind:     in.Kind,
		Title:    in.Title,
		Category: in.Category,
		Rating:   in.Rating,
		Notes:    in.Notes,
		Location: in.Location,
		ImageURL: in.ImageURL,
	}
	if err := s.repo.Create(ctx, card); err != nil {
		return nil, err
	}
	if s.onCardCreated != nil {
		s.onCardCreated(ownerUID, card.Kind)
	}
	return card, nil
}

func (s *cardService) Get(ctx context.Context, id uint64) (*model.Card, error) {
	card, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return card, nil
}

func (s *cardService) List(ctx context.Context, filter repository.CardFilter, limit, offset int) ([]model.Card, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.List(ctx, filter, limit, offset)
}

func (s *cardService) Update(ctx context.Context, id uint64, ownerUID string, in CardInput) (*model.Card, error) {
	card, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if card.OwnerUID != ownerUID {
		return nil, ErrForbidden
	}
	if err := validateInput(&in); err != nil {
		return nil, err
	}
	card.Kind = in.Kind
	card.Title = in.Title
	card.Category = in.Category
	card.Rating = in.Rating
	card.Notes = in.Notes
	card.Location = in.Location
	if in.ImageURL != nil {
		card.ImageURL = in.ImageURL
	}
	if err := s.repo.Update(ctx, card); err != nil {
		return nil, err
	}
	return card, nil
}

func (s *cardService) Delete(ctx context.Context, id uint64, ownerUID string) error {
	card, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if card.OwnerUID != ownerUID {
		return ErrForbidden
	}
	return s.repo.Delete(ctx, id)
}

func (s *cardService) SetImageURL(ctx context.Context, id uint64, ownerUID, imageURL string) (*model.Card, error) {
	card, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if card.OwnerUID != ownerUID {
		return nil, ErrForbidden
	}
	card.ImageURL = &imageURL
	if err := s.repo.Update(ctx, card); err != nil {
		return nil, err
	}
	return card, nil
}
