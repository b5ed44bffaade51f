package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/totalrecall/catalog-backend/internal/model"
	"github.com/totalrecall/catalog-backend/internal/repository"
	"github.com/totalrecall/catalog-backend/internal/service"
)

// fakeCardService serves a fixed set of cards; only the methods the image
// path exercises do real work.
type fakeCardService struct {
	cards         map[uint64]model.Card
	setImageCalls int
}

func (s *fakeCardService) Create(context.Context, string, service.CardInput) (*model.Card, error) {
	return nil, nil
}

func (s *fakeCardService) Get(_ context.Context, id uint64) (*model.Card, error) {
	c, ok := s.cards[id]
	if !ok {
		return nil, service.ErrNotFound
	}
	return &c, nil
}

func (s *fakeCardService) List(context.Context, repository.CardFilter, int, int) ([]model.Card, int64, error) {
	return nil, 0, nil
}

func (s *fakeCardService) Update(context.Context, uint64, string, service.CardInput) (*model.Card, error) {
	return nil, nil
}

func (s *fakeCardService) Delete(context.Context, uint64, string) error {
	return nil
}

func (s *fakeCardService) SetImageURL(_ context.Context, id uint64, ownerUID, imageURL string) (*model.Card, error) {
	c, ok := s.cards[id]
	if !ok {
		return nil, service.ErrNotFound
	}
	if c.OwnerUID != ownerUID {
		return nil, service.ErrForbidden
	}
	s.setImageCalls++
	c.ImageURL = &imageURL
	s.cards[id] = c
	return &c, nil
}

type recordingUploader struct {
	calls    int
	lastPath string
}

func (u *recordingUploader) Upload(_ context.Context, objectPath, _ string, _ []byte) (string, error) {
	u.calls++
	u.lastPath = objectPath
	return "https://media.test/" + objectPath, nil
}

func uploadImageContext(t *testing.T, uid, cardID string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("image", "photo.png")
	if err != nil {
		t.Fatalf("form file: %v", err)
	}
	if _, err := fw.Write([]byte("not-a-real-png")); err != nil {
		t.Fatalf("write form: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close form: %v", err)
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/cards/"+cardID+"/image", &buf)
	req.Header.Set(echo.HeaderContentType, mw.FormDataContentType())
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(cardID)
	if uid != "" {
		c.Set("uid", uid)
	}
	return c, rec
}

func TestUploadImageNonOwnerNeverReachesBucket(t *testing.T) {
	svc := &fakeCardService{cards: map[uint64]model.Card{
		1: {ID: 1, OwnerUID: "ana", Kind: model.CardKindFood, Title: "Tacos"},
	}}
	up := &recordingUploader{}
	h := &CardHandler{svc: svc, uploader: up}

	c, rec := uploadImageContext(t, "bruno", "1")
	if err := h.UploadImage(c); err != nil {
		t.Fatalf("UploadImage: %v", err)
	}
	if rec.Code != http.StatusForbidden {
		t.Fatalf("code = %d, want 403", rec.Code)
	}
	if up.calls != 0 {
		t.Fatalf("uploader called %d times for a non-owner", up.calls)
	}
	if svc.setImageCalls != 0 {
		t.Fatalf("image url written for a non-owner")
	}
}

func TestUploadImageUnknownCardNeverReachesBucket(t *testing.T) {
	svc := &fakeCardService{cards: map[uint64]model.Card{}}
	up := &recordingUploader{}
	h := &CardHandler{svc: svc, uploader: up}

	c, rec := uploadImageContext(t, "ana", "42")
	if err := h.UploadImage(c); err != nil {
		t.Fatalf("UploadImage: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("code = %d, want 404", rec.Code)
	}
	if up.calls != 0 {
		t.Fatalf("uploader called %d times for a missing card", up.calls)
	}
}

func TestUploadImageOwnerUploadsAndStoresURL(t *testing.T) {
	svc := &fakeCardService{cards: map[uint64]model.Card{
		1: {ID: 1, OwnerUID: "ana", Kind: model.CardKindFood, Title: "Tacos"},
	}}
	up := &recordingUploader{}
	h := &CardHandler{svc: svc, uploader: up}

	c, rec := uploadImageContext(t, "ana", "1")
	if err := h.UploadImage(c); err != nil {
		t.Fatalf("UploadImage: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if up.calls != 1 {
		t.Fatalf("uploader calls = %d, want 1", up.calls)
	}
	if up.lastPath != "cards/1/photo.png" {
		t.Fatalf("object path = %q", up.lastPath)
	}
	var body CardResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.ImageURL == nil || *body.ImageURL != "https://media.test/cards/1/photo.png" {
		t.Fatalf("imageUrl = %v", body.ImageURL)
	}
}

func TestUploadImageDisabledWithoutUploader(t *testing.T) {
	svc := &fakeCardService{cards: map[uint64]model.Card{
		1: {ID: 1, OwnerUID: "ana", Kind: model.CardKindFood, Title: "Tacos"},
	}}
	h := NewCardHandler(svc, nil)

	c, rec := uploadImageContext(t, "ana", "1")
	if err := h.UploadImage(c); err != nil {
		t.Fatalf("UploadImage: %v", err)
	}
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("code = %d, want 503", rec.Code)
	}
}
