package service

import (
	"context"

	v1 "linkstats/api/shortener/v1"
	"linkstats/internal/biz"

	"github.com/google/wire"
	"github.com/samber/lo"
)

// ProviderSet is service providers.
var ProviderSet = wire.NewSet(NewShortenerService)

var _ v1.ShortenerHTTPServer = (*ShortenerService)(nil)

// ShortenerService maps the JSON contract onto the usecases.
type ShortenerService struct {
	shorten  *biz.ShortenUsecase
	redirect *biz.RedirectUsecase
	stats    *biz.StatsUsecase
}

func NewShortenerService(shorten *biz.ShortenUsecase, redirect *biz.RedirectUsecase, stats *biz.StatsUsecase) *ShortenerService {
	return &ShortenerService{shorten: shorten, redirect: redirect, stats: stats}
}

func (s *ShortenerService) Shorten(ctx context.Context, req *v1.ShortenRequest) (*v1.ShortenReply, error) {
	link, err := s.shorten.Shorten(ctx, &biz.ShortenRequest{
		URL:       req.Url,
		Validity:  string(req.Validity),
		ShortCode: req.Shortcode,
	})
	if err != nil {
		return nil, err
	}

	return &v1.ShortenReply{
		ShortLink: link.Link,
		ExpiresAt: link.ExpiresAt,
	}, nil
}

func (s *ShortenerService) Redirect(ctx context.Context, req *v1.RedirectRequest) (*v1.RedirectReply, error) {
	target, err := s.redirect.Resolve(ctx, req.Code, biz.Visit{
		UserAgent: req.UserAgent,
		Referrer:  req.Referrer,
		IPAddress: req.Ip,
	})
	if err != nil {
		return nil, err
	}

	return &v1.RedirectReply{Location: target}, nil
}

func (s *ShortenerService) GetStats(ctx context.Context, req *v1.GetStatsRequest) (*v1.GetStatsReply, error) {
	st, err := s.stats.GetStats(ctx, req.Code)
	if err != nil {
		return nil, err
	}

	return &v1.GetStatsReply{
		UrlInfo: &v1.UrlInfo{
			OriginalUrl: st.URL.OriginalURL,
			Shortcode:   st.URL.Code,
			CreatedAt:   st.URL.CreatedAt,
			ExpiresAt:   st.URL.ExpiresAt,
			IsExpired:   st.IsExpired,
		},
		ClickStats: &v1.ClickStats{
			Total:     int64(st.Total),
			Referrers: toGroupCounts(st.Referrers),
			Devices:   toGroupCounts(st.Devices),
		},
		ClickDetails: lo.Map(st.Clicks, func(c *biz.ClickEvent, _ int) *v1.ClickDetail {
			return &v1.ClickDetail{
				Timestamp: c.Timestamp,
				Referrer:  c.Referrer,
				UserAgent: c.UserAgent,
				Ip:        c.IPAddress,
			}
		}),
	}, nil
}

func toGroupCounts(groups []biz.GroupCount) []*v1.GroupCount {
	return lo.Map(groups, func(g biz.GroupCount, _ int) *v1.GroupCount {
		return &v1.GroupCount{Id: g.Value, Count: int64(g.Count)}
	})
}
