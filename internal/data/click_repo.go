package data

import (
	"context"
	"fmt"
	"time"

	"linkstats/internal/biz"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/go-kratos/kratos/v2/log"
)

var _ biz.ClickRepo = (*clickRepo)(nil)

type clickRepo struct {
	data *Data
	log  *log.Helper
}

// NewClickRepo creates the click event store.
func NewClickRepo(data *Data, logger log.Logger) biz.ClickRepo {
	return &clickRepo{
		data: data,
		log:  log.NewHelper(log.With(logger, "module", "data/click")),
	}
}

func (r *clickRepo) Create(ctx context.Context, c *biz.ClickEvent) error {
	query, args := entsql.Dialect(r.data.db.Dialect()).
		Insert(clicksTable).
		Columns(
			clickFieldShortCode, clickFieldClickedAt, clickFieldReferrer, clickFieldUserAgent,
			clickFieldSource, clickFieldIPAddress, clickFieldCountry, clickFieldRegion,
			clickFieldCity, clickFieldLatitude, clickFieldLongitude,
		).
		Values(
			c.ShortCode, c.Timestamp.UTC(), c.Referrer, c.UserAgent,
			c.Source, c.IPAddress, c.Location.Country, c.Location.Region,
			c.Location.City, nullFloat(c.Location.Latitude), nullFloat(c.Location.Longitude),
		).
		Returning(clickFieldID).
		Query()

	rows := &entsql.Rows{}
	if err := r.data.db.Query(ctx, query, args, rows); err != nil {
		return err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return err
		}
		return fmt.Errorf("insert into %s returned no id", clicksTable)
	}
	if err := rows.Scan(&c.ID); err != nil {
		return err
	}
	return rows.Err()
}

// ListByCode returns the clicks of code, newest first. Clicks sharing a
// timestamp are ordered by insertion, latest first.
func (r *clickRepo) ListByCode(ctx context.Context, code string) ([]*biz.ClickEvent, error) {
	b := entsql.Dialect(r.data.db.Dialect())
	t := b.Table(clicksTable)
	sel := b.Select(
		t.C(clickFieldID), t.C(clickFieldShortCode), t.C(clickFieldClickedAt), t.C(clickFieldReferrer),
		t.C(clickFieldUserAgent), t.C(clickFieldSource), t.C(clickFieldIPAddress), t.C(clickFieldCountry),
		t.C(clickFieldRegion), t.C(clickFieldCity), t.C(clickFieldLatitude), t.C(clickFieldLongitude),
	).
		From(t).
		Where(entsql.EQ(t.C(clickFieldShortCode), code)).
		OrderBy(entsql.Desc(t.C(clickFieldClickedAt)), entsql.Desc(t.C(clickFieldID)))
	query, args := sel.Query()

	rows := &entsql.Rows{}
	if err := r.data.db.Query(ctx, query, args, rows); err != nil {
		return nil, err
	}
	defer rows.Close()

	clicks := make([]*biz.ClickEvent, 0)
	for rows.Next() {
		var (
			c         biz.ClickEvent
			clickedAt time.Time
			lat, lng  entsql.NullFloat64
		)
		if err := rows.Scan(
			&c.ID, &c.ShortCode, &clickedAt, &c.Referrer,
			&c.UserAgent, &c.Source, &c.IPAddress, &c.Location.Country,
			&c.Location.Region, &c.Location.City, &lat, &lng,
		); err != nil {
			return nil, err
		}
		c.Timestamp = clickedAt.UTC()
		c.Location.Latitude = floatPtr(lat)
		c.Location.Longitude = floatPtr(lng)
		clicks = append(clicks, &c)
	}
	return clicks, rows.Err()
}

func nullFloat(f *float64) entsql.NullFloat64 {
	if f == nil {
		return entsql.NullFloat64{}
	}
	return entsql.NullFloat64{Float64: *f, Valid: true}
}

func floatPtr(f entsql.NullFloat64) *float64 {
	if !f.Valid {
		return nil
	}
	v := f.Float64
	return &v
}
