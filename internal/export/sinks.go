package export

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
)

// DirSink writes downloads into a directory.
//
// Each file is staged in a temporary file next to its destination and renamed
// into place, so a partially written export is never visible. The temporary
// file is removed before Deliver returns whatever the outcome.
type DirSink struct {
	Dir string
	// NoClobber keeps existing files by writing qrcode-1.png, qrcode-2.png, ...
	NoClobber bool

	mu      sync.Mutex
	written []string
}

// NewDirSink creates a sink writing into dir.
func NewDirSink(dir string) *DirSink {
	return &DirSink{Dir: dir}
}

// Name implements Sink
func (s *DirSink) Name() string {
	return "dir"
}

// Deliver implements Sink
func (s *DirSink) Deliver(ctx context.Context, d *Download) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	target, err := s.targetPath(d.Filename)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.Dir, "."+d.Filename+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // no-op after a successful rename

	if _, err := tmp.Write(d.Data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write temporary file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temporary file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		return fmt.Errorf("failed to set file permissions: %w", err)
	}

	if err := os.Rename(tmpPath, target); err != nil {
		return fmt.Errorf("failed to save %s: %w", filepath.Base(target), err)
	}

	s.written = append(s.written, target)
	d.Location = target
	return nil
}

func (s *DirSink) targetPath(filename string) (string, error) {
	target := filepath.Join(s.Dir, filename)
	if !s.NoClobber {
		return target, nil
	}

	ext := filepath.Ext(filename)
	base := strings.TrimSuffix(filename, ext)
	for i := 1; ; i++ {
		_, err := os.Stat(target)
		if os.IsNotExist(err) {
			return target, nil
		}
		if err != nil {
			return "", fmt.Errorf("failed to check %s: %w", target, err)
		}
		target = filepath.Join(s.Dir, base+"-"+strconv.Itoa(i)+ext)
	}
}

// Written returns the paths of every file written so far.
func (s *DirSink) Written() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.written...)
}

// HTTPSink answers an HTTP request with the download as an attachment.
type HTTPSink struct {
	W http.ResponseWriter
}

// Name implements Sink
func (s HTTPSink) Name() string {
	return "http"
}

// Deliver implements Sink
func (s HTTPSink) Deliver(ctx context.Context, d *Download) error {
	h := s.W.Header()
	h.Set("Content-Type", d.ContentType)
	h.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", d.Filename))
	h.Set("Content-Length", strconv.Itoa(len(d.Data)))
	h.Set("Cache-Control", "no-store")
	s.W.WriteHeader(http.StatusOK)

	if _, err := s.W.Write(d.Data); err != nil {
		return fmt.Errorf("failed to write response: %w", err)
	}
	return nil
}

// MemorySink keeps downloads in memory.
type MemorySink struct {
	mu        sync.Mutex
	downloads []*Download
}

// Name implements Sink
func (s *MemorySink) Name() string {
	return "memory"
}

// Deliver implements Sink
func (s *MemorySink) Deliver(ctx context.Context, d *Download) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.downloads = append(s.downloads, d)
	return nil
}

// Downloads returns the recorded downloads in delivery order.
func (s *MemorySink) Downloads() []*Download {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*Download(nil), s.downloads...)
}
