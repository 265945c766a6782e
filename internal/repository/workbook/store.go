package workbook

import (
	"context"
	"log/slog"
)

// Store keeps whole workbook files by name. *drive.Client satisfies it.
type Store interface {
	Download(ctx context.Context, name string) ([]byte, bool, error)
	Upload(ctx context.Context, name string, content []byte) error
}

// Cache is the byte cache in front of a Store. *cache.Client satisfies it.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// CachedStore serves downloads from Cache and refreshes it on every upload.
// Cache failures are logged and fall through to the backing store.
type CachedStore struct {
	store Store
	cache Cache
}

func NewCachedStore(store Store, cache Cache) *CachedStore {
	return &CachedStore{store: store, cache: cache}
}

func cacheKey(name string) string {
	return "workbook:" + name
}

func (s *CachedStore) Download(ctx context.Context, name string) ([]byte, bool, error) {
	if content, ok, err := s.cache.Get(ctx, cacheKey(name)); err != nil {
		slog.Warn("Workbook cache read failed", "file", name, "error", err)
	} else if ok {
		return content, true, nil
	}

	content, found, err := s.store.Download(ctx, name)
	if err != nil || !found {
		return content, found, err
	}
	if err := s.cache.Set(ctx, cacheKey(name), content); err != nil {
		slog.Warn("Workbook cache write failed", "file", name, "error", err)
	}
	return content, true, nil
}

func (s *CachedStore) Upload(ctx context.Context, name string, content []byte) error {
	if err := s.cache.Delete(ctx, cacheKey(name)); err != nil {
		slog.Warn("Workbook cache invalidation failed", "file", name, "error", err)
	}
	if err := s.store.Upload(ctx, name, content); err != nil {
		return err
	}
	if err := s.cache.Set(ctx, cacheKey(name), content); err != nil {
		slog.Warn("Workbook cache write failed", "file", name, "error", err)
	}
	return nil
}

// Warm reloads names from the backing store into the cache. It is run by the
// cache refresh job so edits made directly on Drive become visible.
func (s *CachedStore) Warm(ctx context.Context, names ...string) error {
	for _, name := range names {
		content, found, err := s.store.Download(ctx, name)
		if err != nil {
			return err
		}
		if !found {
			if err := s.cache.Delete(ctx, cacheKey(name)); err != nil {
				return err
			}
			continue
		}
		if err := s.cache.Set(ctx, cacheKey(name), content); err != nil {
			return err
		}
		slog.Debug("Workbook cache warmed", "file", name, "bytes", len(content))
	}
	return nil
}
