// Package avatar stores user avatars in an S3-compatible bucket (MinIO in
// the compose setup) and hands back the public object URL.
package avatar

import (
	"context"
	"fmt"
	"io"

	appconfig "contacts_service/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type Uploader struct {
	client    *s3.Client
	bucket    string
	publicURL string
}

func New(ctx context.Context, cfg appconfig.S3) (*Uploader, error) {
	const op = "avatar.New"

	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.Endpoint)
		o.UsePathStyle = true
	})

	return &Uploader{
		client:    client,
		bucket:    cfg.Bucket,
		publicURL: cfg.PublicURL,
	}, nil
}

// Upload stores the image under a per-user key, overwriting any previous
// avatar, and returns the public URL.
func (u *Uploader) Upload(ctx context.Context, username string, body io.Reader, contentType string) (string, error) {
	const op = "avatar.Upload"

	key := fmt.Sprintf("ContactsApp/%s", username)

	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &u.bucket,
		Key:         &key,
		Body:        body,
		ContentType: &contentType,
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return fmt.Sprintf("%s/%s/%s", u.publicURL, u.bucket, key), nil
}
