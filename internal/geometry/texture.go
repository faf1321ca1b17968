package geometry

import (
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
)

// TextureLoader resolves texture references against a directory. Missing
// files are logged once and resolve to an empty reference; they never fail
// a build.
type TextureLoader struct {
	Dir    string
	logger *log.Logger
	seen   map[string]string
}

func NewTextureLoader(dir string, logger *log.Logger) *TextureLoader {
	if logger == nil {
		logger = log.Default()
	}
	return &TextureLoader{Dir: dir, logger: logger, seen: make(map[string]string)}
}

func (l *TextureLoader) Resolve(ref string) string {
	if ref == "" {
		return ""
	}
	if path, ok := l.seen[ref]; ok {
		return path
	}
	path := ref
	if !filepath.IsAbs(path) && l.Dir != "" {
		path = filepath.Join(l.Dir, ref)
	}
	if _, err := os.Stat(path); err != nil {
		l.logger.Warn("texture not found", "ref", ref, "err", err)
		path = ""
	}
	l.seen[ref] = path
	return path
}
