package convert

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Gulf-Basin-Depositional-Synthesis/ArcToQ/internal/qlr"
)

// Sink receives the emitted target documents.
type Sink interface {
	// Create opens a named target document for writing. Names are already
	// sanitized file names with extension.
	Create(name string) (io.WriteCloser, error)
}

// DirSink writes target documents into a directory, creating it on first
// use.
type DirSink struct {
	Dir string
}

// Create opens path Dir/name, creating the directory if needed.
func (s DirSink) Create(name string) (io.WriteCloser, error) {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: %v", qlr.ErrWriteTarget, err)
	}
	f, err := os.Create(filepath.Join(s.Dir, name))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", qlr.ErrWriteTarget, err)
	}
	return f, nil
}

// uniqueNames derives collision-free file names from layer names.
type uniqueNames struct {
	seen map[string]int
}

func newUniqueNames() *uniqueNames {
	return &uniqueNames{seen: make(map[string]int)}
}

// next returns base.ext, suffixing duplicates with a counter.
func (u *uniqueNames) next(base, ext string) string {
	base = qlr.SanitizeFileName(base)
	n := u.seen[base]
	u.seen[base] = n + 1
	if n == 0 {
		return base + ext
	}
	return fmt.Sprintf("%s_%d%s", base, n, ext)
}
