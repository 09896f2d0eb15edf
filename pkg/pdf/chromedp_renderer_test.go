package pdf

import (
	"bytes"
	"context"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"cv-platform-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findChrome(t *testing.T) string {
	t.Helper()
	for _, name := range []string{"headless-shell", "chromium", "chromium-browser", "google-chrome", "google-chrome-stable"} {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}
	t.Skip("no Chrome/Chromium binary on PATH")
	return ""
}

func TestChromedpRendererProducesPDF(t *testing.T) {
	chrome := findChrome(t)

	doc, err := NewCVDocument(&domain.CandidateProfile{
		Name:       "Éloïse Martin",
		Email:      "eloise@example.com",
		Skills:     []string{"Go", "SQL"},
		Experience: "5 ans",
	})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	var buf bytes.Buffer
	require.NoError(t, NewChromedpRenderer(chrome).Render(ctx, doc, &buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}

func TestChromedpRendererMissingBinary(t *testing.T) {
	doc, err := NewCVDocument(&domain.CandidateProfile{Name: "Jean Dupont"})
	require.NoError(t, err)

	missing := filepath.Join(t.TempDir(), "no-such-chrome")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var buf bytes.Buffer
	err = NewChromedpRenderer(missing).Render(ctx, doc, &buf)
	assert.Error(t, err)
	assert.Zero(t, buf.Len())
}
