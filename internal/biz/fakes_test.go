package biz

import (
	"bytes"
	"context"
	"sort"
	"sync"
	"time"

	"linkstats/internal/event"

	"github.com/stretchr/testify/mock"
)

type mockURLRepo struct {
	mu        sync.Mutex
	urls      map[string]*ShortURL
	createErr error
	getErr    error
	existsErr error
	// hidden codes are reported free by Exists but rejected by Create.
	hidden map[string]bool
}

func newMockURLRepo() *mockURLRepo {
	return &mockURLRepo{
		urls:   make(map[string]*ShortURL),
		hidden: make(map[string]bool),
	}
}

func (m *mockURLRepo) Create(ctx context.Context, u *ShortURL) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	if _, ok := m.urls[u.Code]; ok || m.hidden[u.Code] {
		return ErrCodeConflict
	}
	u.ID = int64(len(m.urls) + 1)
	cp := *u
	m.urls[u.Code] = &cp
	return nil
}

func (m *mockURLRepo) GetByCode(ctx context.Context, code string) (*ShortURL, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	u, ok := m.urls[code]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *mockURLRepo) Exists(ctx context.Context, code string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.existsErr != nil {
		return false, m.existsErr
	}
	_, ok := m.urls[code]
	return ok, nil
}

func (m *mockURLRepo) put(u *ShortURL) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u.ID = int64(len(m.urls) + 1)
	m.urls[u.Code] = u
}

type mockClickRepo struct {
	mu        sync.Mutex
	clicks    []*ClickEvent
	createErr error
	listErr   error
}

func (m *mockClickRepo) Create(ctx context.Context, c *ClickEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	c.ID = int64(len(m.clicks) + 1)
	m.clicks = append(m.clicks, c)
	return nil
}

func (m *mockClickRepo) ListByCode(ctx context.Context, code string) ([]*ClickEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []*ClickEvent
	for _, c := range m.clicks {
		if c.ShortCode == code {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Timestamp.After(out[j].Timestamp)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

// recordingPublisher keeps published events in memory.
type recordingPublisher struct {
	mu     sync.Mutex
	events []event.Event
	err    error
}

func (p *recordingPublisher) Publish(ctx context.Context, e event.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) clicks() []event.ClickRecorded {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]event.ClickRecorded, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.(event.ClickRecorded))
	}
	return out
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, e event.Event) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

type rawClassifier struct{}

func (rawClassifier) Classify(userAgent string) string { return userAgent }

// clock is a settable time source.
type clock struct {
	mu sync.Mutex
	t  time.Time
}

func newClock(t time.Time) *clock { return &clock{t: t} }

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = t
}

func bytesReader(b []byte) *bytes.Reader { return bytes.NewReader(b) }
