package services

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// BackupService hands out presigned S3 URLs for a user's saved-movies
// and platform-selection blob. The client reads and writes the whole
// value; the server never parses it.
type BackupService struct {
	Presigner *s3.PresignClient
	Bucket    string
}

// NewBackupService builds the service from a loaded AWS config.
func NewBackupService(cfg aws.Config, bucket string) *BackupService {
	return &BackupService{
		Presigner: s3.NewPresignClient(s3.NewFromConfig(cfg)),
		Bucket:    bucket,
	}
}

// UploadURL generates a presigned URL for uploading a user's backup blob
func (bs *BackupService) UploadURL(ctx context.Context, username string) (string, string, error) {
	key := "backups/" + username + ".json"
	params := &s3.PutObjectInput{
		Bucket:      aws.String(bs.Bucket),
		Key:         aws.String(key),
		ContentType: aws.String("application/json"),
	}
	presigned, err := bs.Presigner.PresignPutObject(ctx, params, s3.WithPresignExpires(5*time.Minute))
	if err != nil {
		return "", "", err
	}
	return presigned.URL, key, nil
}

// ReadURL generates a presigned URL for reading a backup blob
func (bs *BackupService) ReadURL(ctx context.Context, key string) (string, error) {
	params := &s3.GetObjectInput{
		Bucket: aws.String(bs.Bucket),
		Key:    aws.String(key),
	}
	presigned, err := bs.Presigner.PresignGetObject(ctx, params, s3.WithPresignExpires(5*time.Minute))
	if err != nil {
		return "", err
	}
	return presigned.URL, nil
}
