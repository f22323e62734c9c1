package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	"github.com/m3rciful/wishbot/core/bootstrap"
	corecmd "github.com/m3rciful/wishbot/core/cmd"
	coreconfig "github.com/m3rciful/wishbot/core/config"
	"github.com/m3rciful/wishbot/core/logger"
	"github.com/m3rciful/wishbot/core/metrics"
	tg "github.com/m3rciful/wishbot/core/telegram"
	"github.com/m3rciful/wishbot/core/telegram/router"
	"github.com/m3rciful/wishbot/core/telegram/sender"
	"github.com/m3rciful/wishbot/core/telegram/state"
	"github.com/m3rciful/wishbot/internal/bot"
	"github.com/m3rciful/wishbot/internal/conversation"
	"github.com/m3rciful/wishbot/internal/service"
	"github.com/m3rciful/wishbot/internal/store"
	"github.com/m3rciful/wishbot/migrations"
)

const metricsShutdownTimeout = 5 * time.Second

// App owns the long-lived resources of a running bot.
type App struct {
	cfg *Config

	boot  *bootstrap.Result
	redis *redis.Client

	registry       *prometheus.Registry
	handlerMetrics *metrics.HandlerMetrics
	metricsServer  *metrics.Server

	handlers *bot.Handlers
}

// Bootstrap adapts New to the command runner.
func Bootstrap(carrier corecmd.ConfigCarrier) (corecmd.TelegramApp, error) {
	cfg, ok := carrier.(*Config)
	if !ok {
		return nil, fmt.Errorf("app: unexpected config type %T", carrier)
	}
	return New(cfg)
}

// New runs the bootstrap pipeline and wires services and handlers.
// The metrics listener, when configured, is bound here and served from OnStart.
func New(cfg *Config) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("app: nil config")
	}
	mig, err := migrations.For(cfg.Database.Driver)
	if err != nil {
		return nil, err
	}
	boot, err := bootstrap.Run(bootstrap.Options{
		Config:     &cfg.Config,
		Database:   cfg.Database,
		Migrations: mig,
	})
	if err != nil {
		return nil, err
	}

	a := &App{cfg: cfg, boot: boot, registry: prometheus.NewRegistry()}
	a.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	a.handlerMetrics = metrics.NewHandlerMetrics(a.registry)
	router.SetMetrics(a.handlerMetrics)

	sessions, err := a.sessionStore()
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	st := store.New(boot.DB)
	wishlist := service.NewWishlist(service.WishlistOptions{
		Store:     st,
		Cache:     service.NewMemoryCache(),
		MaxWishes: cfg.Wishlist.MaxWishesPerUser,
		Metrics:   metrics.NewWishlistMetrics(a.registry),
	})
	users := service.NewUsers(st, nil)
	engine := conversation.New(conversation.Options{
		Wishlist:    wishlist,
		Sessions:    sessions,
		SkipToken:   bot.BtnSkip,
		CancelToken: bot.BtnCancel,
	})
	a.handlers = bot.New(bot.Options{
		Wishlist: wishlist,
		Users:    users,
		Engine:   engine,
		Location: cfg.Location(),
		AdminID:  cfg.Telegram.AdminID,
	})

	if cfg.Metrics.Listen != "" {
		srv, err := metrics.NewServer(cfg.Metrics.Listen, cfg.Metrics.Path, a.registry)
		if err != nil {
			_ = a.Close()
			return nil, err
		}
		a.metricsServer = srv
	}

	logger.Info(context.Background(), "app", "bootstrap.done",
		slog.String("db_driver", cfg.Database.Driver),
		slog.String("session_backend", cfg.Session.Backend),
		slog.Int("max_wishes", wishlist.MaxWishes()),
	)
	return a, nil
}

func (a *App) sessionStore() (state.Store[conversation.Session], error) {
	sc := a.cfg.Session
	if sc.Backend != coreconfig.SessionRedis {
		return state.NewMemoryStore[conversation.Session](), nil
	}
	client, err := state.NewRedisClient(context.Background(), state.RedisOptions{
		URL:      sc.RedisURL,
		Addr:     sc.RedisAddr,
		Password: sc.Password,
		DB:       sc.DB,
	})
	if err != nil {
		return nil, fmt.Errorf("app: session store: %w", err)
	}
	a.redis = client
	ttl := time.Duration(sc.TTLSeconds) * time.Second
	return state.NewRedisStore[conversation.Session](client, sc.KeyPrefix, ttl), nil
}

// Registry returns the Prometheus registry shared by handler and service collectors.
func (a *App) Registry() *prometheus.Registry {
	return a.registry
}

// TelegramRunOptions registers handlers and returns the runtime configuration.
func (a *App) TelegramRunOptions() (tg.RunOptions, error) {
	reg := tg.NewRegistry()
	if err := a.handlers.Register(reg); err != nil {
		return tg.RunOptions{}, fmt.Errorf("app: register handlers: %w", err)
	}

	mws := tg.DefaultMiddlewares(&a.cfg.Config, a.handlerMetrics, a.handlers.RateLimited())
	mws = append(mws, tg.Middleware{Name: "ensure_user", Use: a.handlers.EnsureUser})

	return tg.RunOptions{
		Config:            &a.cfg.Config,
		Registry:          reg,
		DispatcherOptions: sender.Options{Metrics: a.handlerMetrics},
		Middlewares:       mws,
		Routes:            a.handlers.Routes(reg),
		OnStart: func(ctx context.Context, rt tg.Runtime) error {
			if rt.Bot != nil {
				a.handlers.SetBotUsername(rt.Bot.Me.Username)
			}
			if a.metricsServer != nil {
				a.metricsServer.Start()
			}
			return nil
		},
		OnStop: func(ctx context.Context, _ tg.Runtime) error {
			return a.stopMetrics(ctx)
		},
	}, nil
}

func (a *App) stopMetrics(ctx context.Context) error {
	if a.metricsServer == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, metricsShutdownTimeout)
	defer cancel()
	err := a.metricsServer.Shutdown(ctx)
	a.metricsServer = nil
	return err
}

// Close releases the metrics listener, Redis client and database.
func (a *App) Close() error {
	closers := []func() error{
		func() error { return a.stopMetrics(context.Background()) },
		a.boot.Close,
	}
	if a.redis != nil {
		closers = append(closers, a.redis.Close)
	}
	return bootstrap.CloseAll(closers...)
}
