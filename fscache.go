package bizgen

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/akeil/bizgen/internal/fs"
	"github.com/akeil/bizgen/internal/logging"
)

type fsCache struct {
	dir string
	mx  sync.RWMutex
}

// NewFilesystemCache returns a Cache implementation that stores cached data
// in the given directory.
func NewFilesystemCache(dir string) Cache {
	return &fsCache{dir: dir}
}

func (f *fsCache) Get(key string) (io.ReadCloser, error) {
	logging.Debug("Cache get %q", key)
	f.mx.RLock()
	defer f.mx.RUnlock()

	r, err := os.Open(f.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			logging.Debug("Cache miss %q", key)
			return nil, NewNotFound("no cache entry for %q", key)
		}
		logging.Warning("Cache error %q", key)
		return nil, err
	}
	return r, nil
}

func (f *fsCache) Put(key string, r io.Reader) error {
	logging.Debug("Cache put %q", key)
	f.mx.Lock()
	defer f.mx.Unlock()

	err := f.mkdir()
	if err != nil {
		logging.Warning("Failed to create cache directory %q: %v", f.dir, err)
		return err
	}

	return fs.WriteAtomic(f.path(key), r)
}

func (f *fsCache) Delete(key string) error {
	logging.Debug("Cache delete %q", key)
	f.mx.Lock()
	defer f.mx.Unlock()

	err := os.Remove(f.path(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// path maps a key to a file name.
//
// The name is the key prefix up to the first ":" followed by the SHA-256
// of the whole key, so distinct keys never share a file and long URLs stay
// within file name limits.
func (f *fsCache) path(key string) string {
	sum := sha256.Sum256([]byte(key))
	name := hex.EncodeToString(sum[:])
	if i := strings.Index(key, ":"); i > 0 && i <= 32 && !strings.ContainsAny(key[:i], "/\\") {
		name = key[:i] + "-" + name
	}
	return filepath.Join(f.dir, name)
}

func (f *fsCache) mkdir() error {
	err := os.MkdirAll(f.dir, 0755)
	if err != nil {
		if !os.IsExist(err) {
			return err
		}
	}
	return nil
}
