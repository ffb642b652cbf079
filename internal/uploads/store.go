package uploads

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/cillii/catalog-backend/pkg/config"
	pkgerrors "github.com/cillii/catalog-backend/pkg/errors"
)

// Store keeps uploaded class videos on local disk and serves them under a
// public route prefix.
type Store struct {
	dir         string
	publicRoute string
}

func NewStore(cfg config.UploadsConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "creating uploads directory")
	}
	route := strings.TrimSuffix(cfg.PublicRoute, "/")
	if route == "" {
		route = "/uploads"
	}
	return &Store{dir: cfg.Dir, publicRoute: route}, nil
}

// Dir returns the on-disk directory backing the store.
func (s *Store) Dir() string {
	return s.dir
}

// PublicRoute returns the URL prefix files are served under.
func (s *Store) PublicRoute() string {
	return s.publicRoute
}

// SaveVideo writes the stream to disk under a collision-free name and returns
// the public path to store on the class row.
func (s *Store) SaveVideo(src io.Reader, originalName string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filepath.Base(originalName)))
	name := fmt.Sprintf("%d-%s%s", time.Now().UnixMilli(), uuid.NewString()[:8], ext)

	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeStorage, err, "creating video file")
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(dst.Name())
		return "", pkgerrors.Wrap(pkgerrors.CodeStorage, err, "writing video file")
	}
	return s.publicRoute + "/" + name, nil
}

// IsLocal reports whether the public path points into this store. External
// URLs kept on class rows (for example ones imported from a spreadsheet) are
// never local.
func (s *Store) IsLocal(publicPath string) bool {
	return strings.HasPrefix(publicPath, s.publicRoute+"/")
}

// Remove unlinks the file behind a public path. Paths outside the store and
// already-missing files are ignored.
func (s *Store) Remove(publicPath string) error {
	if !s.IsLocal(publicPath) {
		return nil
	}
	name := path.Base(publicPath)
	if name == "." || name == "/" {
		return nil
	}
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !os.IsNotExist(err) {
		return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "removing video file")
	}
	return nil
}

// RemoveMany unlinks a batch of files, accumulating every failure.
func (s *Store) RemoveMany(publicPaths []string) error {
	var errs error
	for _, p := range publicPaths {
		errs = multierr.Append(errs, s.Remove(p))
	}
	return errs
}
