// Package media owns every object written to or removed from the bucket:
// upload compression, reference tracking in content, and deletion through a
// durable outbox retried in the background.
package media

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"regexp"
	"slices"
	"strings"
	"time"

	"mangapress/internal/microservices/http-api/models"
	"mangapress/internal/storage/s3"
	"mangapress/internal/telemetry"

	"github.com/google/uuid"
)

var (
	ErrUnsupportedType    = errors.New("unsupported media type")
	ErrCompression        = errors.New("image compression failed")
	ErrInvalidLogicalType = errors.New("invalid logical type")
	ErrEmptyUpload        = errors.New("empty upload")
	ErrImageTooLarge      = errors.New("image dimensions too large")
)

const (
	DefaultLogicalType = "blog"
	TempPrefix         = "temp/"

	// deletion results reported to metrics
	resultOK      = "ok"
	resultFailed  = "failed"
	resultRetried = "retried"
)

var (
	logicalTypePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)
	unsafeFilenameChar = regexp.MustCompile(`[^a-zA-Z0-9.-]`)
)

// ObjectStore is the slice of the bucket gateway the manager needs.
type ObjectStore interface {
	Put(ctx context.Context, key, contentType string, data []byte) error
	Remove(ctx context.Context, key string) error
	Move(ctx context.Context, src, dst string) error
	List(ctx context.Context, prefix string) ([]s3.ObjectInfo, error)
}

// PendingStore persists the deletion outbox.
type PendingStore interface {
	Add(ctx context.Context, d *models.PendingDeletion) error
	Remove(ctx context.Context, id string) error
	Due(ctx context.Context, now time.Time, limit int) ([]models.PendingDeletion, error)
	MarkFailed(ctx context.Context, id string, attempts int, lastErr string, next time.Time) error
	Count(ctx context.Context) (int64, error)
}

// ReferenceSource lists the media held by every stored document. Sweep
// uses it to tell referenced objects from orphans.
type ReferenceSource interface {
	MediaDocuments(ctx context.Context) ([]models.MediaDocument, error)
}

type Options struct {
	Bucket        string
	PublicBaseURL string
	Logger        *slog.Logger
	Metrics       *telemetry.Metrics
	References    ReferenceSource
	// Now is overridable for tests.
	Now func() time.Time
}

type Manager struct {
	store      ObjectStore
	pending    PendingStore
	refs       ReferenceSource
	log        *slog.Logger
	metrics    *telemetry.Metrics
	now        func() time.Time
	urlPrefix  string
	refPattern *regexp.Regexp
}

func NewManager(store ObjectStore, pending PendingStore, opts Options) *Manager {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	prefix := strings.TrimRight(opts.PublicBaseURL, "/") + "/" + opts.Bucket + "/"
	return &Manager{
		store:      store,
		pending:    pending,
		refs:       opts.References,
		log:        opts.Logger.With("component", "media"),
		metrics:    opts.Metrics,
		now:        opts.Now,
		urlPrefix:  prefix,
		refPattern: referencePattern(prefix),
	}
}

// Upload is a file as received from a client.
type Upload struct {
	Filename string
	Data     []byte
}

// Stored describes an object written by Ingest.
type Stored struct {
	URL         string `json:"url"`
	Key         string `json:"key"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
}

// Ingest compresses an upload and writes it under
// {temp/}{logicalType}/{uuid}_{filename}. There is no rollback: once Put
// succeeds the object lives until something deletes it.
func (m *Manager) Ingest(ctx context.Context, up Upload, logicalType string, staged bool) (*Stored, error) {
	if len(up.Data) == 0 {
		return nil, ErrEmptyUpload
	}
	if logicalType == "" {
		logicalType = DefaultLogicalType
	}
	if !logicalTypePattern.MatchString(logicalType) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidLogicalType, logicalType)
	}

	out, err := process(up.Data)
	if err != nil {
		return nil, err
	}

	name := sanitizeFilename(up.Filename)
	if out.converted {
		name = strings.TrimSuffix(name, path.Ext(name)) + ".jpg"
	}
	key := logicalType + "/" + uuid.NewString() + "_" + name
	if staged {
		key = TempPrefix + key
	}

	if err := m.store.Put(ctx, key, out.contentType, out.data); err != nil {
		return nil, fmt.Errorf("store upload: %w", err)
	}
	m.metrics.ObserveUpload(logicalType, out.contentType)
	m.log.Info("media stored", "key", key, "content_type", out.contentType,
		"original_size", len(up.Data), "size", len(out.data))

	return &Stored{
		URL:         m.URLFor(key),
		Key:         key,
		ContentType: out.contentType,
		Size:        int64(len(out.data)),
	}, nil
}

// sanitizeFilename keeps a key's last segment URL-safe. Trailing
// punctuation is dropped because ExtractReferences strips it from URLs.
func sanitizeFilename(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	name = unsafeFilenameChar.ReplaceAllString(name, "_")
	name = strings.TrimRight(name, trailingPunct)
	if name == "" {
		return "file"
	}
	return name
}

// Reconcile deletes the bucket URLs referenced by oldContent that
// newContent no longer references, and returns them.
func (m *Manager) Reconcile(ctx context.Context, oldContent, newContent string) []string {
	if oldContent == newContent {
		return nil
	}
	removed := difference(m.ExtractReferences(oldContent), m.ExtractReferences(newContent))
	m.DeleteAll(ctx, removed)
	return removed
}

// ReconcileRefs is Reconcile for documents holding URLs directly.
func (m *Manager) ReconcileRefs(ctx context.Context, oldRefs, newRefs []string) []string {
	removed := difference(m.normalizeAll(oldRefs), m.normalizeAll(newRefs))
	m.DeleteAll(ctx, removed)
	return removed
}

func (m *Manager) normalizeAll(refs []string) []string {
	out := make([]string, 0, len(refs))
	seen := make(map[string]struct{}, len(refs))
	for _, r := range refs {
		n := m.normalize(strings.TrimSpace(r))
		if n == "" {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

// DeleteAll removes every bucket URL in urls. URLs outside the bucket are
// skipped. Failures are logged and left to the janitor; they never reach
// the caller.
func (m *Manager) DeleteAll(ctx context.Context, urls []string) {
	for _, u := range m.normalizeAll(urls) {
		key, ok := m.KeyFromURL(u)
		if !ok {
			m.log.Debug("skipping foreign media url", "url", u)
			continue
		}
		m.deleteObject(ctx, u, key)
	}
}

// deleteObject records the deletion in the outbox, then tries it once.
func (m *Manager) deleteObject(ctx context.Context, rawURL, key string) {
	now := m.now()
	row := &models.PendingDeletion{URL: rawURL, Key: key, NextAttemptAt: now}
	queued := true
	if err := m.pending.Add(ctx, row); err != nil {
		queued = false
		m.log.Error("failed to queue media deletion", "key", key, "error", err)
	}

	if err := m.store.Remove(ctx, key); err != nil {
		m.metrics.ObserveDeletion(resultFailed)
		m.log.Warn("media deletion failed, will retry", "key", key, "error", err)
		if queued {
			if err := m.pending.MarkFailed(ctx, row.ID, 1, err.Error(), now.Add(Backoff(1))); err != nil {
				m.log.Error("failed to reschedule media deletion", "key", key, "error", err)
			}
		}
		return
	}

	m.metrics.ObserveDeletion(resultOK)
	if queued {
		if err := m.pending.Remove(ctx, row.ID); err != nil {
			m.log.Error("failed to clear media deletion", "key", key, "error", err)
		}
	}
}

// retry makes one more attempt at a queued deletion.
func (m *Manager) retry(ctx context.Context, row models.PendingDeletion) error {
	if err := m.store.Remove(ctx, row.Key); err != nil {
		attempts := row.Attempts + 1
		m.metrics.ObserveDeletion(resultFailed)
		if mErr := m.pending.MarkFailed(ctx, row.ID, attempts, err.Error(), m.now().Add(Backoff(attempts))); mErr != nil {
			return fmt.Errorf("reschedule %s: %w", row.Key, mErr)
		}
		return fmt.Errorf("retry %s (attempt %d): %w", row.Key, attempts, err)
	}
	m.metrics.ObserveDeletion(resultRetried)
	return m.pending.Remove(ctx, row.ID)
}

const (
	backoffBase = 30 * time.Second
	backoffMax  = time.Hour
)

// Backoff is the wait before retry number attempt+1.
func Backoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	if attempt > 8 {
		return backoffMax
	}
	d := backoffBase << (attempt - 1)
	if d > backoffMax {
		return backoffMax
	}
	return d
}

// Promote moves objects staged under temp/{logicalType}/ to
// {logicalType}/ and returns the URLs rewritten in the same order. Other
// URLs pass through unchanged.
//
// On error the returned slice still has one entry per input: objects
// already moved carry their new URL, the rest keep their original one.
// Callers must store that slice, not the input, or moved objects end up
// unreferenced.
func (m *Manager) Promote(ctx context.Context, urls []string, logicalType string) ([]string, error) {
	staged := TempPrefix + logicalType + "/"
	out := slices.Clone(urls)
	for i, u := range urls {
		key, ok := m.KeyFromURL(u)
		if !ok || !strings.HasPrefix(key, staged) {
			continue
		}
		dst := strings.TrimPrefix(key, TempPrefix)
		if err := m.store.Move(ctx, key, dst); err != nil {
			return out, fmt.Errorf("promote %s: %w", key, err)
		}
		m.log.Info("media promoted", "from", key, "to", dst)
		out[i] = m.URLFor(dst)
	}
	return out, nil
}

// PromoteOne is Promote for a single URL.
func (m *Manager) PromoteOne(ctx context.Context, u, logicalType string) (string, error) {
	out, err := m.Promote(ctx, []string{u}, logicalType)
	if err != nil {
		return "", err
	}
	return out[0], nil
}
