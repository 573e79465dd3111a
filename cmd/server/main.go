package main // Entry point package

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/iliyamo/museum-reservation/internal/catalog"
	"github.com/iliyamo/museum-reservation/internal/config"
	"github.com/iliyamo/museum-reservation/internal/database"
	"github.com/iliyamo/museum-reservation/internal/feedback"
	"github.com/iliyamo/museum-reservation/internal/handler"
	"github.com/iliyamo/museum-reservation/internal/ledger"
	"github.com/iliyamo/museum-reservation/internal/mailbox"
	"github.com/iliyamo/museum-reservation/internal/middleware"
	"github.com/iliyamo/museum-reservation/internal/notify"
	"github.com/iliyamo/museum-reservation/internal/payment"
	"github.com/iliyamo/museum-reservation/internal/queue"
	"github.com/iliyamo/museum-reservation/internal/repository"
	"github.com/iliyamo/museum-reservation/internal/router"
	"github.com/iliyamo/museum-reservation/internal/service"
	"github.com/iliyamo/museum-reservation/internal/utils"
	"github.com/iliyamo/museum-reservation/internal/workflow"
)

func newLogger(cfg config.Config) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stdout)
	if lvl, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(lvl)
	}
	if cfg.IsProd() {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return log
}

func main() {
	cfg := config.Load()
	log := newLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}

func run(ctx context.Context, cfg config.Config, log *logrus.Logger) error {
	// Redis is optional: without it hand-offs live in memory and the
	// cache and rate limiter are pass-throughs.
	rdb := config.NewRedisClient()
	var mb mailbox.Mailbox
	if rdb != nil {
		defer rdb.Close()
		mb = mailbox.NewRedis(rdb, config.HandoffPrefix(), cfg.HandoffTTL)
	} else {
		log.Warn("redis unavailable; using in-memory hand-off slots")
		mb = mailbox.NewMemory()
	}

	var (
		journal ledger.Journal = ledger.NopJournal{}
		history handler.History
	)
	if cfg.JournalEnabled() {
		db, err := database.Open(ctx, cfg)
		if err != nil {
			return err
		}
		defer db.Close()
		repo := repository.NewBookingRepo(db)
		if err := repo.EnsureSchema(ctx); err != nil {
			return err
		}
		journal, history = repo, repo
		log.WithField("db", cfg.DBName).Info("booking journal enabled")
	}

	publisher := service.NewPublisher(cfg.RabbitURL, log)
	defer publisher.Close()

	demoHash, err := utils.HashPassword(cfg.DemoPassword, cfg.BcryptCost)
	if err != nil {
		return err
	}

	museums := catalog.Default()
	notifier := notify.Multi{notify.Log{Logger: log}, publisher}
	visits := workflow.NewRegistry(workflow.Deps{
		Catalog: museums,
		Mailbox: mb,
		Authorizer: payment.SimulatedAuthorizer{
			Latency:        cfg.Payment.Latency,
			DeclineAbove:   cfg.Payment.DeclineAbove,
			DeclineMethods: cfg.Payment.DeclineMethods,
		},
		Notifier: notifier,
		Payment: payment.Options{
			Timeout: cfg.Payment.Timeout,
			Journal: journal,
			Events:  publisher,
		},
		Logger: log,
		Now:    time.Now,
	}, workflow.Accounts{
		DemoEmail:  cfg.DemoEmail,
		DemoHash:   demoHash,
		BcryptCost: cfg.BcryptCost,
	}, cfg.VisitIdleTTL)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(echomw.Logger())

	router.Setup(e, router.Handlers{
		Museums:  &handler.MuseumHandler{Catalog: museums},
		Auth:     handler.NewAuthHandler(cfg, visits),
		Booking:  &handler.BookingHandler{},
		Payment:  &handler.PaymentHandler{},
		Profile:  &handler.ProfileHandler{History: history},
		Feedback: &handler.FeedbackHandler{Service: feedback.NewService(museums, publisher, log), Notifier: notifier},
	}, router.Options{
		JWTSecret: cfg.JWTSecret,
		Visits:    visits,
		RateLimit: middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb),
		Cache:     middleware.NewRedisCache(config.LoadCacheConfig(), rdb),
	})

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		addr := ":" + cfg.Port
		log.WithFields(logrus.Fields{"addr": addr, "env": cfg.Env}).Info("listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		return queue.BookingConsumer{URL: cfg.RabbitURL, Dir: cfg.BookingLogDir, Logger: log}.Run(ctx)
	})
	g.Go(func() error {
		return visits.RunSweeper(ctx, time.Minute)
	})
	return g.Wait()
}
