package pdf

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Renderer writes a CV document as PDF.
type Renderer interface {
	Render(ctx context.Context, doc CVDocument, w io.Writer) error
}

// RenderToFile renders doc into a new file at path. The file must not exist.
// On any failure the partial file is removed and the error wraps ErrRenderFailed.
func RenderToFile(ctx context.Context, r Renderer, doc CVDocument, path string) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("%w: mkdir: %v", ErrRenderFailed, err)
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return fmt.Errorf("%w: open: %v", ErrRenderFailed, err)
	}

	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%w: close: %v", ErrRenderFailed, cerr)
		}
		if err != nil {
			_ = os.Remove(path)
		}
	}()

	buf := bufio.NewWriter(file)
	if err := r.Render(ctx, doc, buf); err != nil {
		if errors.Is(err, ErrRenderFailed) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrRenderFailed, err)
	}
	if err := buf.Flush(); err != nil {
		return fmt.Errorf("%w: flush: %v", ErrRenderFailed, err)
	}
	if err := file.Sync(); err != nil {
		return fmt.Errorf("%w: sync: %v", ErrRenderFailed, err)
	}
	return nil
}
