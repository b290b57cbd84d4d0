// Package sinks stores server-rendered images such as the weekly graph.
package sinks

import (
	"context"
	"fmt"
	"mime"
	"path/filepath"
	"time"

	"github.com/dmitrijs2005/expensekeeper/internal/client/models"
	"github.com/dmitrijs2005/expensekeeper/internal/filex"
)

// ImageSink persists an image and returns where it ended up.
type ImageSink interface {
	Put(ctx context.Context, name string, img *models.Image) (string, error)
}

func extensionFor(contentType string) string {
	if exts, err := mime.ExtensionsByType(contentType); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ".bin"
}

// FileSink writes images under Dir as <name>-<timestamp><ext>.
type FileSink struct {
	Dir string
	now func() time.Time
}

func NewFileSink(dir string) *FileSink {
	return &FileSink{Dir: dir, now: time.Now}
}

func (s *FileSink) Put(_ context.Context, name string, img *models.Image) (string, error) {
	dir, err := filex.EnsureDir(s.Dir)
	if err != nil {
		return "", fmt.Errorf("prepare %s: %w", s.Dir, err)
	}

	file := fmt.Sprintf("%s-%s%s", name, s.now().Format("20060102-150405"), extensionFor(img.ContentType))
	path := filepath.Join(dir, file)
	if err := filex.WriteFileAtomic(path, img.Data, 0o640); err != nil {
		return "", err
	}
	return path, nil
}

var _ ImageSink = (*FileSink)(nil)

