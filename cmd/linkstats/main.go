package main

import (
	"context"
	"flag"
	"os"

	"linkstats/internal/biz"
	"linkstats/internal/conf"
	"linkstats/internal/eventbus"
	"linkstats/internal/pkg/zaplog"

	"github.com/go-kratos/kratos/v2"
	"github.com/go-kratos/kratos/v2/config"
	"github.com/go-kratos/kratos/v2/config/env"
	"github.com/go-kratos/kratos/v2/config/file"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/middleware/tracing"
	"github.com/go-kratos/kratos/v2/transport/grpc"
	"github.com/go-kratos/kratos/v2/transport/http"

	_ "go.uber.org/automaxprocs"
)

// go build -ldflags "-X main.Version=x.y.z"
var (
	// Name is the name of the compiled software.
	Name = "linkstats"
	// Version is the version of the compiled software.
	Version string
	// flagconf is the config flag.
	flagconf string

	id, _ = os.Hostname()
)

func init() {
	flag.StringVar(&flagconf, "conf", "../../configs", "config path, eg: -conf config.yaml")
}

func newApp(
	logger log.Logger,
	gs *grpc.Server,
	hs *http.Server,
	eventBus *eventbus.EventBus,
	router *eventbus.Router,
	clicks *biz.ClickEventHandler,
) *kratos.App {
	biz.RegisterEventHandlers(router, clicks)

	return kratos.New(
		kratos.ID(id),
		kratos.Name(Name),
		kratos.Version(Version),
		kratos.Metadata(map[string]string{}),
		kratos.Logger(logger),
		kratos.Server(
			gs,
			hs,
		),
		kratos.BeforeStart(func(ctx context.Context) error {
			go func() {
				// The router outlives the start context.
				if err := router.Run(context.Background()); err != nil {
					log.NewHelper(logger).Errorf("event router error: %v", err)
				}
			}()
			select {
			case <-router.Running():
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		}),
		kratos.AfterStop(func(ctx context.Context) error {
			// The servers are down, so no new clicks can be published.
			return drainClicks(router, eventBus, logger)
		}),
	)
}

// drainClicks closes the router, which waits for in-flight click writes,
// and then the bus.
func drainClicks(router *eventbus.Router, eventBus *eventbus.EventBus, logger log.Logger) error {
	helper := log.NewHelper(logger)
	if err := router.Close(); err != nil {
		helper.Errorf("failed to close router: %v", err)
	}
	if err := eventBus.Close(); err != nil {
		helper.Errorf("failed to close event bus: %v", err)
	}
	return nil
}

func main() {
	flag.Parse()
	c := config.New(
		config.WithSource(
			file.NewSource(flagconf),
			env.NewSource("LINKSTATS_"),
		),
	)
	defer c.Close()

	if err := c.Load(); err != nil {
		panic(err)
	}

	var bc conf.Bootstrap
	if err := c.Scan(&bc); err != nil {
		panic(err)
	}
	bc.Normalize()

	zlog, err := zaplog.NewLogger(bc.Log)
	if err != nil {
		panic(err)
	}
	defer zlog.Sync()

	logger := log.With(zlog,
		"ts", log.DefaultTimestamp,
		"caller", log.DefaultCaller,
		"service.id", id,
		"service.name", Name,
		"service.version", Version,
		"trace.id", tracing.TraceID(),
		"span.id", tracing.SpanID(),
	)

	app, cleanup, err := wireApp(bc.Server, bc.Data, bc.Shortener, bc.Clicks, logger)
	if err != nil {
		panic(err)
	}
	defer cleanup()

	// start and wait for stop signal
	if err := app.Run(); err != nil {
		panic(err)
	}
}
