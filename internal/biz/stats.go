package biz

import (
	"context"
	"sort"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/samber/lo"
)

// topGroups is the number of referrer and device groups reported.
const topGroups = 5

// GroupCount is the number of clicks sharing one value.
type GroupCount struct {
	Value string
	Count int
}

// Stats is the analytics view of one short code.
type Stats struct {
	URL       *ShortURL
	IsExpired bool
	Total     int
	Referrers []GroupCount
	Devices   []GroupCount
	// Clicks is the full history, newest first.
	Clicks []*ClickEvent
}

// StatsUsecase aggregates click analytics.
type StatsUsecase struct {
	urls   URLRepo
	clicks ClickRepo
	now    func() time.Time
	log    *log.Helper
}

// NewStatsUsecase creates a new StatsUsecase.
func NewStatsUsecase(urls URLRepo, clicks ClickRepo, logger log.Logger) *StatsUsecase {
	return &StatsUsecase{
		urls:   urls,
		clicks: clicks,
		now:    time.Now,
		log:    log.NewHelper(log.With(logger, "module", "biz/stats")),
	}
}

// GetStats returns totals, top referrers, top devices and the click
// history of code. All figures come from one read of the history.
func (uc *StatsUsecase) GetStats(ctx context.Context, code string) (*Stats, error) {
	u, err := uc.urls.GetByCode(ctx, code)
	if err != nil {
		return nil, storageError(err)
	}

	clicks, err := uc.clicks.ListByCode(ctx, u.Code)
	if err != nil {
		return nil, storageError(err)
	}

	return &Stats{
		URL:       u,
		IsExpired: u.IsExpired(uc.now()),
		Total:     len(clicks),
		Referrers: topN(clicks, func(c *ClickEvent) string { return c.Referrer }, topGroups),
		Devices:   topN(clicks, func(c *ClickEvent) string { return c.Source }, topGroups),
		Clicks:    clicks,
	}, nil
}

// topN groups clicks by key and returns the n largest groups, by count
// descending and then by value ascending.
func topN(clicks []*ClickEvent, key func(*ClickEvent) string, n int) []GroupCount {
	counts := lo.CountValuesBy(clicks, key)
	groups := lo.MapToSlice(counts, func(value string, count int) GroupCount {
		return GroupCount{Value: value, Count: count}
	})
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Count != groups[j].Count {
			return groups[i].Count > groups[j].Count
		}
		return groups[i].Value < groups[j].Value
	})
	if len(groups) > n {
		groups = groups[:n]
	}
	return groups
}
