package blob

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/kwasu-works/lostfound-bot/config"
)

// R2Relay copies photos into the R2 bucket and stores the bucket's public
// URL on the report.
type R2Relay struct {
	Files    FileSource
	Client   *s3.Client
	R2Config *config.R2Config
}

func NewR2Relay(files FileSource, r2Config *config.R2Config) *R2Relay {
	client := s3.New(s3.Options{
		BaseEndpoint: aws.String(fmt.Sprintf("https://%s.r2.cloudflarestorage.com", r2Config.AccountID)),
		Credentials: credentials.NewStaticCredentialsProvider(
			r2Config.AccessKeyID,
			r2Config.SecretAccessKey,
			"",
		),
		Region: r2Config.Region,
	})

	return &R2Relay{
		Files:    files,
		Client:   client,
		R2Config: r2Config,
	}
}

func (r *R2Relay) Acquire(ctx context.Context, fileID string) (string, error) {
	file, err := r.Files.GetFile(ctx, fileID)
	if err != nil {
		return "", err
	}

	data, contentType, err := r.Files.DownloadFile(ctx, file.FilePath)
	if err != nil {
		return "", err
	}
	if contentType == "" {
		contentType = "image/jpeg"
	}

	key := r.generateFileKey()
	_, err = r.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(r.R2Config.BucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("uploading photo to R2: %v", err)
	}

	return fmt.Sprintf("%s/%s", r.R2Config.PublicURL, key), nil
}

// ResolveURL is the identity for R2 refs; Acquire already stored the
// public URL.
func (r *R2Relay) ResolveURL(ref string) (string, error) {
	return ref, nil
}

func (r *R2Relay) generateFileKey() string {
	return fmt.Sprintf("lostfound/%d_%s.jpg", time.Now().Unix(), uuid.New().String())
}
