package media

import (
	"context"
	"fmt"
	"net/url"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"google.golang.org/api/option"
)

// Uploader stores card photos in a GCS bucket and returns tokenized public
// URLs. Media is optional; when no bucket is configured the server runs
// without it and the image endpoint reports media as disabled.
type Uploader struct {
	client *storage.Client
	bucket string
}

// NewUploader connects to GCS. credentialsFile may be empty to use ambient
// application-default credentials.
func NewUploader(ctx context.Context, bucket, credentialsFile string) (*Uploader, error) {
	if bucket == "" {
		return nil, fmt.Errorf("media: bucket is required")
	}
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return &Uploader{client: client, bucket: bucket}, nil
}

// Upload writes data to objectPath with a fresh download token and returns
// the public URL.
func (u *Uploader) Upload(ctx context.Context, objectPath, contentType string, data []byte) (string, error) {
	token := uuid.NewString()
	obj := u.client.Bucket(u.bucket).Object(objectPath)
	w := obj.NewWriter(ctx)
	w.ContentType = contentType
	w.Metadata = map[string]string{
		"firebaseStorageDownloadTokens": token,
	}
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}

	escapedPath := url.PathEscape(objectPath)
	publicURL := fmt.Sprintf("https://firebasestorage.googleapis.com/v0/b/%s/o/%s?alt=media&token=%s",
		u.bucket, escapedPath, token)
	return publicURL, nil
}

// CardObjectPath is where a card's photo lives in the bucket.
func CardObjectPath(cardID uint64) string {
	return fmt.Sprintf("cards/%d/photo.png", cardID)
}

func (u *Uploader) Close() error {
	return u.client.Close()
}
