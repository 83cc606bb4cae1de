package data

import (
	"context"
	"fmt"
	"time"

	"linkstats/internal/biz"

	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/sqlgraph"
	"github.com/go-kratos/kratos/v2/log"
)

// urlRepo is the SQL store of short URLs.
type urlRepo struct {
	data *Data
	log  *log.Helper
}

// NewURLRepo creates the URL store, fronted by cache.
func NewURLRepo(data *Data, cache URLCache, logger log.Logger) biz.URLRepo {
	return NewCachedURLRepository(newURLRepo(data, logger), cache)
}

func newURLRepo(data *Data, logger log.Logger) *urlRepo {
	return &urlRepo{
		data: data,
		log:  log.NewHelper(log.With(logger, "module", "data/url")),
	}
}

func (r *urlRepo) builder() *entsql.DialectBuilder {
	return entsql.Dialect(r.data.db.Dialect())
}

// Create inserts u. The unique index on short_code turns a taken code
// into biz.ErrCodeConflict.
func (r *urlRepo) Create(ctx context.Context, u *biz.ShortURL) error {
	query, args := r.builder().
		Insert(urlsTable).
		Columns(urlFieldShortCode, urlFieldOriginalURL, urlFieldCreatedAt, urlFieldExpiresAt).
		Values(u.Code, u.OriginalURL, u.CreatedAt.UTC(), u.ExpiresAt.UTC()).
		Returning(urlFieldID).
		Query()

	rows := &entsql.Rows{}
	if err := r.data.db.Query(ctx, query, args, rows); err != nil {
		return r.insertError(u.Code, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return r.insertError(u.Code, err)
		}
		return fmt.Errorf("insert into %s returned no id", urlsTable)
	}
	if err := rows.Scan(&u.ID); err != nil {
		return err
	}
	return rows.Err()
}

func (r *urlRepo) insertError(code string, err error) error {
	if sqlgraph.IsUniqueConstraintError(err) {
		return biz.ErrCodeConflict.WithCause(err).WithMetadata(map[string]string{"shortcode": code})
	}
	return err
}

// GetByCode returns biz.ErrNotFound when no row has code.
func (r *urlRepo) GetByCode(ctx context.Context, code string) (*biz.ShortURL, error) {
	query, args := r.builder().
		Select(urlFieldID, urlFieldShortCode, urlFieldOriginalURL, urlFieldCreatedAt, urlFieldExpiresAt).
		From(r.builder().Table(urlsTable)).
		Where(entsql.EQ(urlFieldShortCode, code)).
		Limit(1).
		Query()

	rows := &entsql.Rows{}
	if err := r.data.db.Query(ctx, query, args, rows); err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, biz.ErrNotFound
	}

	var (
		u                    biz.ShortURL
		createdAt, expiresAt time.Time
	)
	if err := rows.Scan(&u.ID, &u.Code, &u.OriginalURL, &createdAt, &expiresAt); err != nil {
		return nil, err
	}
	u.CreatedAt = createdAt.UTC()
	u.ExpiresAt = expiresAt.UTC()
	return &u, rows.Err()
}

// Exists reports whether any record, expired or not, holds code.
func (r *urlRepo) Exists(ctx context.Context, code string) (bool, error) {
	query, args := r.builder().
		Select(urlFieldID).
		From(r.builder().Table(urlsTable)).
		Where(entsql.EQ(urlFieldShortCode, code)).
		Limit(1).
		Query()

	rows := &entsql.Rows{}
	if err := r.data.db.Query(ctx, query, args, rows); err != nil {
		return false, err
	}
	defer rows.Close()

	found := rows.Next()
	return found, rows.Err()
}
