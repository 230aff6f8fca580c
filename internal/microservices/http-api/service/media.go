package service

import (
	"context"
	"log/slog"

	"mangapress/internal/cache"
)

// Logical types under which manga media is stored.
const (
	MediaTypeMangaCover = "manga-cover"
	MediaTypeChapter    = "chapter-manga"
)

// MediaLifecycle is the part of the media manager the content services use.
type MediaLifecycle interface {
	ExtractReferences(content string) []string
	Reconcile(ctx context.Context, oldContent, newContent string) []string
	ReconcileRefs(ctx context.Context, oldRefs, newRefs []string) []string
	DeleteAll(ctx context.Context, urls []string)
	Promote(ctx context.Context, urls []string, logicalType string) ([]string, error)
	PromoteOne(ctx context.Context, url, logicalType string) (string, error)
}

// invalidate drops cached lists; a failure only costs a stale read until
// the ttl expires.
func invalidate(ctx context.Context, c cache.ListCache, log *slog.Logger, prefixes ...string) {
	if err := c.Invalidate(ctx, prefixes...); err != nil {
		log.Warn("cache invalidation failed", "prefixes", prefixes, "error", err)
	}
}

// cached serves key from c or loads and stores it.
func cached[T any](ctx context.Context, c cache.ListCache, log *slog.Logger, key string, load func() (T, error)) (T, error) {
	var v T
	if hit, err := c.Get(ctx, key, &v); err != nil {
		log.Warn("cache read failed", "key", key, "error", err)
	} else if hit {
		return v, nil
	}

	v, err := load()
	if err != nil {
		return v, err
	}
	if err := c.Set(ctx, key, v); err != nil {
		log.Warn("cache write failed", "key", key, "error", err)
	}
	return v, nil
}
