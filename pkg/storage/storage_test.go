package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePutter struct {
	err      error
	key      string
	bucket   string
	ctype    string
	body     []byte
	callsNum int
}

func (f *fakePutter) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.callsNum++
	f.key = aws.ToString(in.Key)
	f.bucket = aws.ToString(in.Bucket)
	f.ctype = aws.ToString(in.ContentType)
	f.body, _ = io.ReadAll(in.Body)
	if f.err != nil {
		return nil, f.err
	}
	return &s3.PutObjectOutput{}, nil
}

func writeSource(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cv_Jean_1.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.3 test"), 0o600))
	return path
}

func newLocal(t *testing.T) *LocalStore {
	t.Helper()
	store, err := NewLocalStore(filepath.Join(t.TempDir(), "temp"), "http://localhost:5000/", "temp/")
	require.NoError(t, err)
	return store
}

func TestUploadRemote(t *testing.T) {
	putter := &fakePutter{}
	cfg := S3Config{Bucket: "cvs", Region: "eu-west-3", KeyPrefix: "cv-uploads/"}
	u := NewUploader(putter, cfg, newLocal(t))

	link, err := u.Upload(context.Background(), writeSource(t), "cv_Jean_1.pdf")
	require.NoError(t, err)

	assert.Equal(t, "https://cvs.s3.eu-west-3.amazonaws.com/cv-uploads/cv_Jean_1.pdf", link)
	assert.Equal(t, "cv-uploads/cv_Jean_1.pdf", putter.key)
	assert.Equal(t, "cvs", putter.bucket)
	assert.Equal(t, "application/pdf", putter.ctype)
	assert.Equal(t, "%PDF-1.3 test", string(putter.body))
}

func TestUploadFallsBackToLocal(t *testing.T) {
	putter := &fakePutter{err: errors.New("access denied")}
	local := newLocal(t)
	u := NewUploader(putter, S3Config{Bucket: "cvs", Region: "eu-west-3"}, local)

	link, err := u.Upload(context.Background(), writeSource(t), "cv_Jean_1.pdf")
	require.NoError(t, err)

	assert.Equal(t, 1, putter.callsNum)
	assert.Equal(t, "http://localhost:5000/temp/cv_Jean_1.pdf", link)
	data, err := os.ReadFile(filepath.Join(local.Dir, "cv_Jean_1.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.3 test", string(data))
}

func TestUploadWithoutRemote(t *testing.T) {
	u := NewUploader(nil, S3Config{}, newLocal(t))
	assert.False(t, u.RemoteEnabled())

	link, err := u.Upload(context.Background(), writeSource(t), "cv_Jean_1.pdf")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:5000/temp/cv_Jean_1.pdf", link)
}

func TestUploadSourceMissing(t *testing.T) {
	u := NewUploader(nil, S3Config{}, newLocal(t))
	_, err := u.Upload(context.Background(), filepath.Join(t.TempDir(), "nope.pdf"), "nope.pdf")
	assert.ErrorIs(t, err, ErrSourceMissing)
}

func TestUploadNoDestination(t *testing.T) {
	u := NewUploader(&fakePutter{err: errors.New("down")}, S3Config{Bucket: "cvs"}, nil)
	_, err := u.Upload(context.Background(), writeSource(t), "cv.pdf")
	assert.ErrorIs(t, err, ErrUploadFailed)
}

func TestLocalStoreStripsDirectories(t *testing.T) {
	local := newLocal(t)
	link, err := local.Save(context.Background(), writeSource(t), "../../escape.pdf")
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:5000/temp/escape.pdf", link)
	_, err = os.Stat(filepath.Join(local.Dir, "escape.pdf"))
	assert.NoError(t, err)
}

func TestObjectURL(t *testing.T) {
	cases := []struct {
		name string
		cfg  S3Config
		want string
	}{
		{"public url", S3Config{PublicURL: "https://cdn.test/", Bucket: "b"}, "https://cdn.test/cv-uploads/a%20b.pdf"},
		{"aws", S3Config{Bucket: "b", Region: "eu-west-3"}, "https://b.s3.eu-west-3.amazonaws.com/cv-uploads/a%20b.pdf"},
		{"custom endpoint", S3Config{Bucket: "b", Endpoint: "minio.local:9000"}, "https://minio.local:9000/b/cv-uploads/a%20b.pdf"},
		{"wasabi", S3Config{Provider: S3ProviderWasabi, Bucket: "b", Region: "eu-central-1"}, "https://s3.eu-central-1.wasabisys.com/b/cv-uploads/a%20b.pdf"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.cfg.ObjectURL("cv-uploads/a b.pdf"))
		})
	}
}
