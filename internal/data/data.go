package data

import (
	"context"
	"fmt"
	"time"

	"linkstats/internal/conf"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/schema"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/wire"
	"github.com/redis/go-redis/v9"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// ProviderSet is data providers.
var ProviderSet = wire.NewSet(NewData, NewURLCache, NewURLRepo, NewClickRepo)

// Data holds the store handles shared by the repositories.
type Data struct {
	db  *entsql.Driver
	rdb *redis.Client
}

// NewData opens the database, migrates the schema and connects to Redis
// when an address is configured.
func NewData(c *conf.Data, logger log.Logger) (*Data, func(), error) {
	helper := log.NewHelper(log.With(logger, "module", "data"))

	drv, err := openDriver(context.Background(), c.Database)
	if err != nil {
		return nil, nil, err
	}

	d := &Data{db: drv}
	if c.Redis != nil && c.Redis.Addr != "" {
		d.rdb = newRedisClient(c.Redis)
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := d.rdb.Ping(ctx).Err(); err != nil {
			helper.Warnf("redis at %s is not reachable, lookups will fall back to the database: %v", c.Redis.Addr, err)
		}
		cancel()
	}

	cleanup := func() {
		helper.Info("closing the data resources")
		if d.rdb != nil {
			if err := d.rdb.Close(); err != nil {
				helper.Error(err)
			}
		}
		if err := d.db.Close(); err != nil {
			helper.Error(err)
		}
	}

	return d, cleanup, nil
}

func openDriver(ctx context.Context, c *conf.Data_Database) (*entsql.Driver, error) {
	switch c.Driver {
	case dialect.SQLite, dialect.Postgres:
	default:
		return nil, fmt.Errorf("unsupported database driver %q", c.Driver)
	}

	drv, err := entsql.Open(c.Driver, c.Source)
	if err != nil {
		return nil, fmt.Errorf("failed opening connection to %s: %w", c.Driver, err)
	}
	if c.Driver == dialect.SQLite {
		// sqlite allows one writer; a single connection avoids "database is locked".
		drv.DB().SetMaxOpenConns(1)
	}
	if err := migrate(ctx, drv); err != nil {
		drv.Close()
		return nil, err
	}
	return drv, nil
}

// migrate creates or upgrades the tables in Tables.
func migrate(ctx context.Context, drv dialect.Driver) error {
	m, err := schema.NewMigrate(drv)
	if err != nil {
		return fmt.Errorf("failed creating migrate: %w", err)
	}
	if err := m.Create(ctx, Tables...); err != nil {
		return fmt.Errorf("failed creating schema resources: %w", err)
	}
	return nil
}

func newRedisClient(c *conf.Data_Redis) *redis.Client {
	return redis.NewClient(&redis.Options{
		Network:      c.Network,
		Addr:         c.Addr,
		Password:     c.Password,
		DB:           c.DB,
		ReadTimeout:  c.ReadTimeout.AsDuration(),
		WriteTimeout: c.WriteTimeout.AsDuration(),
	})
}
