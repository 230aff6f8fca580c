package media

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"mangapress/internal/microservices/http-api/models"
	"mangapress/internal/storage/s3"

	"github.com/google/uuid"
)

type storedObject struct {
	contentType string
	data        []byte
	modified    time.Time
}

// memStore is an in-memory ObjectStore.
type memStore struct {
	mu        sync.Mutex
	objects   map[string]storedObject
	failKeys  map[string]bool
	removed   []string
	modTimeAt time.Time
}

func newMemStore() *memStore {
	return &memStore{objects: map[string]storedObject{}, failKeys: map[string]bool{}}
}

func (s *memStore) Put(_ context.Context, key, contentType string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = storedObject{contentType: contentType, data: data, modified: s.modTimeAt}
	return nil
}

func (s *memStore) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failKeys[key] {
		return errors.New("storage unavailable")
	}
	delete(s.objects, key)
	s.removed = append(s.removed, key)
	return nil
}

func (s *memStore) Move(_ context.Context, src, dst string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failKeys[src] {
		return errors.New("storage unavailable")
	}
	obj, ok := s.objects[src]
	if !ok {
		return errors.New("no such key")
	}
	s.objects[dst] = obj
	delete(s.objects, src)
	return nil
}

func (s *memStore) List(_ context.Context, prefix string) ([]s3.ObjectInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []s3.ObjectInfo
	for k, o := range s.objects {
		if strings.HasPrefix(k, prefix) {
			out = append(out, s3.ObjectInfo{Key: k, Size: int64(len(o.data)), LastModified: o.modified})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (s *memStore) has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[key]
	return ok
}

// memPending is an in-memory PendingStore.
type memPending struct {
	mu   sync.Mutex
	rows map[string]models.PendingDeletion
}

func newMemPending() *memPending {
	return &memPending{rows: map[string]models.PendingDeletion{}}
}

func (p *memPending) Add(_ context.Context, d *models.PendingDeletion) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	p.rows[d.ID] = *d
	return nil
}

func (p *memPending) Remove(_ context.Context, id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.rows, id)
	return nil
}

func (p *memPending) Due(_ context.Context, now time.Time, limit int) ([]models.PendingDeletion, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []models.PendingDeletion
	for _, r := range p.rows {
		if !r.NextAttemptAt.After(now) && len(out) < limit {
			out = append(out, r)
		}
	}
	return out, nil
}

func (p *memPending) MarkFailed(_ context.Context, id string, attempts int, lastErr string, next time.Time) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	r := p.rows[id]
	r.Attempts = attempts
	r.LastError = lastErr
	r.NextAttemptAt = next
	p.rows[id] = r
	return nil
}

func (p *memPending) Count(context.Context) (int64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return int64(len(p.rows)), nil
}

func (p *memPending) all() []models.PendingDeletion {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]models.PendingDeletion, 0, len(p.rows))
	for _, r := range p.rows {
		out = append(out, r)
	}
	return out
}

type staticRefs []models.MediaDocument

func (s staticRefs) MediaDocuments(context.Context) ([]models.MediaDocument, error) {
	return s, nil
}

const (
	testBucket = "bucket"
	testBase   = "https://storage.googleapis.com"
	testPrefix = testBase + "/" + testBucket + "/"
)

type clock struct{ t time.Time }

func (c *clock) Now() time.Time { return c.t }

func newTestManager(refs ReferenceSource) (*Manager, *memStore, *memPending, *clock) {
	store := newMemStore()
	pending := newMemPending()
	clk := &clock{t: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	m := NewManager(store, pending, Options{
		Bucket:        testBucket,
		PublicBaseURL: testBase,
		Logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		References:    refs,
		Now:           clk.Now,
	})
	return m, store, pending, clk
}
