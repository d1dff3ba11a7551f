package commands

import (
	"context"
	"fmt"

	"github.com/wonny/underwriter/internal/api/handlers"
	"github.com/wonny/underwriter/internal/contracts"
	"github.com/wonny/underwriter/internal/external/memberservice"
	"github.com/wonny/underwriter/internal/external/priceengine"
	"github.com/wonny/underwriter/internal/external/productpricing"
	"github.com/wonny/underwriter/internal/guidelineconfig"
	"github.com/wonny/underwriter/internal/metrics"
	"github.com/wonny/underwriter/internal/notification"
	"github.com/wonny/underwriter/internal/quotestore"
	"github.com/wonny/underwriter/internal/requote"
	"github.com/wonny/underwriter/internal/strategy"
	"github.com/wonny/underwriter/internal/underwriter"
	"github.com/wonny/underwriter/pkg/config"
	"github.com/wonny/underwriter/pkg/database"
	"github.com/wonny/underwriter/pkg/httputil"
	"github.com/wonny/underwriter/pkg/logger"
	"github.com/wonny/underwriter/pkg/redis"
)

// quoteStore is what the service needs from quote storage
type quoteStore interface {
	contracts.QuoteRepository
	contracts.ExpiredQuoteCounter
}

// publisher is a NotificationPublisher that owns a connection
type publisher interface {
	contracts.NotificationPublisher
	Close() error
}

// app holds the wired service. close releases every connection it opened.
type app struct {
	cfg         *config.Config
	log         *logger.Logger
	store       quoteStore
	metrics     *metrics.Metrics
	underwriter *underwriter.Underwriter
	health      map[string]handlers.Pinger
	closers     []func()
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// loadConfig loads configuration and creates the logger
func loadConfig() (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	return cfg, logger.New(cfg), nil
}

// openStore connects the configured quote store
func openStore(ctx context.Context, a *app) error {
	if a.cfg.Underwriting.QuoteStore == "memory" {
		a.log.Warn("Using in-memory quote store, quotes are lost on restart")
		a.store = quotestore.NewMemory()
		return nil
	}

	db, err := database.New(ctx, a.cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	a.closers = append(a.closers, db.Close)
	a.health["postgres"] = db
	a.store = quotestore.NewPostgres(db.Pool)

	a.log.Info("Connected to database")
	return nil
}

// newApp wires storage, collaborators and the underwriter from cfg
func newApp(ctx context.Context, cfg *config.Config, log *logger.Logger) (*app, error) {
	a := &app{
		cfg:     cfg,
		log:     log,
		metrics: metrics.New(),
		health:  make(map[string]handlers.Pinger),
	}
	ok := false
	defer func() {
		if !ok {
			a.close()
		}
	}()

	if err := openStore(ctx, a); err != nil {
		return nil, err
	}

	// Cache (optional)
	rc, err := redis.New(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	a.closers = append(a.closers, func() { _ = rc.Close() })
	if rc.Enabled() {
		a.health["redis"] = rc
	}
	cache := redis.NewCache(rc, "underwriter")

	// Collaborators
	httpClient := httputil.New(log, cfg.Services.Timeout).WithRateLimit(cfg.Services.RateLimitRPS)
	members := memberservice.NewClient(cfg.Services.MemberServiceURL, httpClient, cache, log)
	agreements := productpricing.NewClient(cfg.Services.ProductPricingURL, httpClient, cache, log)
	prices := priceengine.NewClient(cfg.Services.PriceEngineURL, httpClient, log)

	// Guideline limits
	limits, err := loadGuidelines(cfg, log)
	if err != nil {
		return nil, err
	}

	mode, err := underwriter.ParseGateMode(cfg.Underwriting.BlockRequotingMode)
	if err != nil {
		return nil, err
	}

	dispatcher := strategy.NewDispatcher(limits, members)
	engine := requote.NewEngine(a.store, agreements, nil, log, requote.Config{
		PriceWindow:          cfg.Underwriting.PriceStabilityWindow,
		MaxConcurrentLookups: 4,
	})

	pub := newPublisher(cfg, log)
	a.closers = append(a.closers, func() {
		if err := pub.Close(); err != nil {
			log.WithError(err).Warn("Failed to close publisher")
		}
	})

	a.underwriter = underwriter.New(a.store, dispatcher, engine, prices, pub, log, underwriter.Config{
		BlockMode:          mode,
		BlockCheckFailOpen: cfg.Underwriting.BlockCheckFailOpen,
		PriceReuseFailOpen: cfg.Underwriting.PriceReuseFailOpen,
		DebtCheckFailOpen:  cfg.Underwriting.DebtCheckFailOpen,
		Validity:           cfg.Underwriting.QuoteValidity,
	}).WithMetrics(a.metrics)

	log.WithFields(map[string]interface{}{
		"store":      cfg.Underwriting.QuoteStore,
		"block_mode": string(mode),
		"kafka":      cfg.Kafka.Enabled,
		"redis":      rc.Enabled(),
	}).Info("Underwriter initialized")

	ok = true
	return a, nil
}

func newPublisher(cfg *config.Config, log *logger.Logger) publisher {
	if cfg.Kafka.Enabled {
		return notification.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.QuoteTopic, log)
	}
	return notification.NewLogPublisher(log)
}

// loadGuidelines loads the guideline limits file, or the built-in defaults
func loadGuidelines(cfg *config.Config, log *logger.Logger) (*guidelineconfig.Config, error) {
	limits, err := guidelineconfig.LoadOrDefault(cfg.Underwriting.GuidelinesFile)
	if err != nil {
		return nil, fmt.Errorf("load guidelines: %w", err)
	}

	hash, err := guidelineconfig.Hash(limits)
	if err != nil {
		return nil, fmt.Errorf("hash guidelines: %w", err)
	}

	source := cfg.Underwriting.GuidelinesFile
	if source == "" {
		source = "built-in"
	}
	log.WithFields(map[string]interface{}{
		"source": source,
		"hash":   hash[:12],
	}).Info("Guideline limits loaded")

	return limits, nil
}
