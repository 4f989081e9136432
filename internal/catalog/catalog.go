// Package catalog reads the static product catalog. The backing document is a
// plain JSON file with top-level "products" and "featured_products" arrays;
// it is read-only at request time and may be replaced on disk at any moment.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/haim/bookstore-api/internal/model"
)

// ErrUnavailable reports a missing or unparseable catalog file.
var ErrUnavailable = errors.New("catalog unavailable")

type Source interface {
	Load(ctx context.Context) (*model.Catalog, error)
}

const cacheTTL = 60 * time.Second

// FileSource loads the catalog from disk on every call. With a Redis client
// attached, parsed documents are cached under a key derived from the file's
// mtime and size, so an edited file is picked up on the next request without
// any invalidation signal.
type FileSource struct {
	path string
	rdb  *redis.Client
}

func NewFileSource(path string, rdb *redis.Client) *FileSource {
	return &FileSource{path: path, rdb: rdb}
}

func (s *FileSource) Load(ctx context.Context) (*model.Catalog, error) {
	info, err := os.Stat(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	cacheKey := fmt.Sprintf("catalog:%d:%d", info.ModTime().UnixNano(), info.Size())

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Bytes(); err == nil {
			var doc model.Catalog
			if json.Unmarshal(cached, &doc) == nil {
				return &doc, nil
			}
		}
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	var doc model.Catalog
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if s.rdb != nil {
		s.rdb.Set(ctx, cacheKey, data, cacheTTL)
	}
	return &doc, nil
}
