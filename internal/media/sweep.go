package media

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// SweepOptions selects the objects a sweep may remove.
type SweepOptions struct {
	Prefix    string
	OlderThan time.Duration
	DryRun    bool
}

// Sweep removes objects under Prefix that are older than OlderThan and
// referenced by no stored document. It returns the URLs removed, or that
// would be removed when DryRun is set.
func (m *Manager) Sweep(ctx context.Context, opts SweepOptions) ([]string, error) {
	if m.refs == nil {
		return nil, errors.New("sweep: no reference source configured")
	}

	objects, err := m.store.List(ctx, opts.Prefix)
	if err != nil {
		return nil, fmt.Errorf("sweep: %w", err)
	}

	docs, err := m.refs.MediaDocuments(ctx)
	if err != nil {
		return nil, fmt.Errorf("sweep: load references: %w", err)
	}
	referenced := make(map[string]struct{})
	for _, doc := range docs {
		for _, ref := range m.ExtractReferences(doc.Content) {
			referenced[ref] = struct{}{}
		}
		for _, ref := range m.normalizeAll(doc.URLs) {
			referenced[ref] = struct{}{}
		}
	}

	cutoff := m.now().Add(-opts.OlderThan)
	removed := make([]string, 0)
	for _, obj := range objects {
		if obj.LastModified.After(cutoff) {
			continue
		}
		u := m.URLFor(obj.Key)
		if _, ok := referenced[u]; ok {
			continue
		}
		removed = append(removed, u)
		if !opts.DryRun {
			m.deleteObject(ctx, u, obj.Key)
		}
	}

	m.log.Info("media sweep finished", "prefix", opts.Prefix, "scanned", len(objects),
		"orphans", len(removed), "dry_run", opts.DryRun)
	return removed, nil
}
