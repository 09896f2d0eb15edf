package storage

import (
	"context"
	"errors"
	"fmt"
	"os"

	"cv-platform-backend/pkg/logger"
	"cv-platform-backend/pkg/metrics"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var (
	ErrSourceMissing = errors.New("source file missing")
	ErrUploadFailed  = errors.New("upload failed")
)

// ObjectPutter is the subset of *s3.Client the uploader needs.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Uploader publishes a rendered document and returns a URL for it. Remote
// storage is tried first when configured; any remote failure falls back to
// the local store so a generated CV is never lost.
type Uploader struct {
	client ObjectPutter
	cfg    S3Config
	local  *LocalStore
}

// NewUploader builds an uploader. client may be nil to disable remote storage.
func NewUploader(client ObjectPutter, cfg S3Config, local *LocalStore) *Uploader {
	return &Uploader{client: client, cfg: cfg, local: local}
}

func (u *Uploader) RemoteEnabled() bool {
	return u.client != nil && u.cfg.Bucket != ""
}

func (u *Uploader) Upload(ctx context.Context, localPath, name string) (string, error) {
	info, err := os.Stat(localPath)
	if err != nil || info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrSourceMissing, localPath)
	}

	if u.RemoteEnabled() {
		link, err := u.putRemote(ctx, localPath, name, info.Size())
		if err == nil {
			metrics.CVUploads.WithLabelValues("s3").Inc()
			return link, nil
		}
		logger.Log.Warn("S3 upload failed, falling back to local storage",
			"bucket", u.cfg.Bucket, "name", name, "error", err)
	}

	if u.local == nil {
		return "", fmt.Errorf("%w: no local store configured", ErrUploadFailed)
	}
	link, err := u.local.Save(ctx, localPath, name)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	metrics.CVUploads.WithLabelValues("local").Inc()
	return link, nil
}

func (u *Uploader) putRemote(ctx context.Context, localPath, name string, size int64) (string, error) {
	file, err := os.Open(localPath)
	if err != nil {
		return "", err
	}
	defer file.Close()

	key := u.cfg.KeyPrefix + name
	_, err = u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(u.cfg.Bucket),
		Key:           aws.String(key),
		Body:          file,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String("application/pdf"),
	})
	if err != nil {
		return "", err
	}
	return u.cfg.ObjectURL(key), nil
}
