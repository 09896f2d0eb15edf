package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("AWS_S3_BUCKET_NAME", "")
	t.Setenv("TOKEN_EXPIRE", "")
	t.Setenv("STATIC_PREFIX", "temp/")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 24*time.Hour, cfg.TokenExpire)
	assert.Equal(t, "/temp", cfg.StaticPrefix)
	assert.Equal(t, "cv-uploads/", cfg.S3KeyPrefix)
	assert.False(t, cfg.S3Configured())
}

func TestS3Configured(t *testing.T) {
	cfg := &Config{S3Bucket: "b", S3Region: "eu-west-3", S3AccessKeyID: "k"}
	assert.False(t, cfg.S3Configured(), "secret missing")

	cfg.S3SecretAccessKey = "s"
	assert.True(t, cfg.S3Configured())
}

func TestGetEnvDuration(t *testing.T) {
	cases := map[string]time.Duration{
		"1h":   time.Hour,
		"7d":   7 * 24 * time.Hour,
		"3600": time.Hour,
		"junk": time.Minute,
	}
	for raw, want := range cases {
		t.Run(raw, func(t *testing.T) {
			t.Setenv("CV_TEST_DURATION", raw)
			assert.Equal(t, want, getEnvDuration("CV_TEST_DURATION", time.Minute))
		})
	}
}

func TestGetEnvList(t *testing.T) {
	t.Setenv("CV_TEST_LIST", " http://a.test, ,http://b.test ")
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, getEnvList("CV_TEST_LIST", nil))
}
