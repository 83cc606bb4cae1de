package service

import (
	"context"
	"errors"
	"testing"
	"time"

	v1 "linkstats/api/shortener/v1"
	"linkstats/internal/biz"
	"linkstats/internal/conf"
	"linkstats/internal/event"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockURLRepo struct {
	mock.Mock
}

func (m *mockURLRepo) Create(ctx context.Context, u *biz.ShortURL) error {
	return m.Called(ctx, u).Error(0)
}

func (m *mockURLRepo) GetByCode(ctx context.Context, code string) (*biz.ShortURL, error) {
	args := m.Called(ctx, code)
	u, _ := args.Get(0).(*biz.ShortURL)
	return u, args.Error(1)
}

func (m *mockURLRepo) Exists(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

type mockClickRepo struct {
	mock.Mock
}

func (m *mockClickRepo) Create(ctx context.Context, c *biz.ClickEvent) error {
	return m.Called(ctx, c).Error(0)
}

func (m *mockClickRepo) ListByCode(ctx context.Context, code string) ([]*biz.ClickEvent, error) {
	args := m.Called(ctx, code)
	clicks, _ := args.Get(0).([]*biz.ClickEvent)
	return clicks, args.Error(1)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, e event.Event) error {
	return m.Called(ctx, e).Error(0)
}

func newService(urls biz.URLRepo, clicks biz.ClickRepo, pub biz.ClickPublisher) *ShortenerService {
	c := &conf.Shortener{BaseURL: "http://localhost:8000", MaxAttempts: 10}
	gen := biz.NewCodeGenerator(c, urls, log.DefaultLogger)
	return NewShortenerService(
		biz.NewShortenUsecase(c, urls, gen, log.DefaultLogger),
		biz.NewRedirectUsecase(urls, pub, log.DefaultLogger),
		biz.NewStatsUsecase(urls, clicks, log.DefaultLogger),
	)
}

func TestShortenerService_Shorten(t *testing.T) {
	// Arrange
	urls := new(mockURLRepo)
	urls.On("Exists", mock.Anything, "mycode").Return(false, nil).Once()
	urls.On("Create", mock.Anything, mock.MatchedBy(func(u *biz.ShortURL) bool {
		return u.Code == "mycode" && u.OriginalURL == "https://example.com"
	})).Return(nil).Once()
	svc := newService(urls, new(mockClickRepo), new(mockPublisher))
	before := time.Now()

	// Act
	reply, err := svc.Shorten(context.Background(), &v1.ShortenRequest{
		Url:       "https://example.com",
		Validity:  "60",
		Shortcode: "mycode",
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000/mycode", reply.ShortLink)
	assert.WithinDuration(t, before.Add(time.Hour), reply.ExpiresAt, 5*time.Second)
	urls.AssertExpectations(t)
}

func TestShortenerService_Shorten_Conflict(t *testing.T) {
	// Arrange
	urls := new(mockURLRepo)
	urls.On("Exists", mock.Anything, "mycode").Return(true, nil).Once()
	svc := newService(urls, new(mockClickRepo), new(mockPublisher))

	// Act
	_, err := svc.Shorten(context.Background(), &v1.ShortenRequest{Url: "https://example.com", Validity: "60", Shortcode: "mycode"})

	// Assert
	assert.True(t, errors.Is(err, biz.ErrCodeConflict))
	urls.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestShortenerService_Redirect(t *testing.T) {
	// Arrange
	urls := new(mockURLRepo)
	urls.On("GetByCode", mock.Anything, "abc123").Return(&biz.ShortURL{
		Code:        "abc123",
		OriginalURL: "https://example.com",
		ExpiresAt:   time.Now().Add(time.Hour),
	}, nil)
	pub := new(mockPublisher)
	pub.On("Publish", mock.Anything, mock.MatchedBy(func(e event.ClickRecorded) bool {
		return e.ShortCode == "abc123" && e.Referrer == "https://ref.example" && e.IPAddress == "10.1.1.1"
	})).Return(nil).Once()
	svc := newService(urls, new(mockClickRepo), pub)

	// Act
	reply, err := svc.Redirect(context.Background(), &v1.RedirectRequest{
		Code:      "abc123",
		UserAgent: "curl/8.0",
		Referrer:  "https://ref.example",
		Ip:        "10.1.1.1",
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "https://example.com", reply.Location)
	pub.AssertExpectations(t)
}

func TestShortenerService_Redirect_Expired(t *testing.T) {
	// Arrange
	urls := new(mockURLRepo)
	urls.On("GetByCode", mock.Anything, "old").Return(&biz.ShortURL{
		Code:      "old",
		ExpiresAt: time.Now().Add(-time.Second),
	}, nil)
	pub := new(mockPublisher)
	svc := newService(urls, new(mockClickRepo), pub)

	// Act
	_, err := svc.Redirect(context.Background(), &v1.RedirectRequest{Code: "old"})

	// Assert
	assert.True(t, errors.Is(err, biz.ErrExpired))
	pub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestShortenerService_GetStats(t *testing.T) {
	// Arrange
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	urls := new(mockURLRepo)
	urls.On("GetByCode", mock.Anything, "abc123").Return(&biz.ShortURL{
		Code:        "abc123",
		OriginalURL: "https://example.com",
		CreatedAt:   created,
		ExpiresAt:   created.Add(time.Minute),
	}, nil)
	clicks := new(mockClickRepo)
	clicks.On("ListByCode", mock.Anything, "abc123").Return([]*biz.ClickEvent{
		{ShortCode: "abc123", Timestamp: created.Add(2 * time.Second), Referrer: "direct", UserAgent: "ua", Source: "ua", IPAddress: "1.1.1.1"},
		{ShortCode: "abc123", Timestamp: created.Add(time.Second), Referrer: "direct", UserAgent: "ua", Source: "ua"},
	}, nil)
	svc := newService(urls, clicks, new(mockPublisher))

	// Act
	reply, err := svc.GetStats(context.Background(), &v1.GetStatsRequest{Code: "abc123"})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "abc123", reply.UrlInfo.Shortcode)
	assert.Equal(t, "https://example.com", reply.UrlInfo.OriginalUrl)
	assert.True(t, reply.UrlInfo.IsExpired)
	assert.Equal(t, int64(2), reply.ClickStats.Total)
	assert.Equal(t, []*v1.GroupCount{{Id: "direct", Count: 2}}, reply.ClickStats.Referrers)
	assert.Equal(t, []*v1.GroupCount{{Id: "ua", Count: 2}}, reply.ClickStats.Devices)
	require.Len(t, reply.ClickDetails, 2)
	assert.Equal(t, "1.1.1.1", reply.ClickDetails[0].Ip)
	assert.Equal(t, created.Add(2*time.Second), reply.ClickDetails[0].Timestamp)
}

func TestShortenerService_GetStats_NotFound(t *testing.T) {
	// Arrange
	urls := new(mockURLRepo)
	urls.On("GetByCode", mock.Anything, "nope").Return(nil, biz.ErrNotFound)
	svc := newService(urls, new(mockClickRepo), new(mockPublisher))

	// Act
	_, err := svc.GetStats(context.Background(), &v1.GetStatsRequest{Code: "nope"})

	// Assert
	assert.True(t, errors.Is(err, biz.ErrNotFound))
}
